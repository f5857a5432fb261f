// Package metrics is the operator CLI over the metrics aggregator.
package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/orris-inc/tally/internal/application/metrics/dto"
	"github.com/orris-inc/tally/internal/application/metrics/usecases"
	"github.com/orris-inc/tally/internal/interfaces/cli/bootstrap"
)

const (
	FormatYAML = "yaml"
	FormatJSON = "json"

	sourceCLI = "cli"
)

type metricsGetter interface {
	Execute(ctx context.Context, query usecases.GetMetricsQuery) (*dto.MetricsDTO, error)
}

type snapshotGetter interface {
	Execute(ctx context.Context, userID string) (*dto.SnapshotDTO, error)
}

type cacheInvalidator interface {
	Execute(ctx context.Context, cmd usecases.InvalidateCacheCommand) (int64, error)
}

type showOptions struct {
	env      string
	userID   string
	query    usecases.RangeQuery
	format   string
	snapshot bool
}

type invalidateOptions struct {
	env    string
	userID string
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Inspect and invalidate cached subscription metrics",
	}

	cmd.AddCommand(newShowCommand(), newInvalidateCommand())
	return cmd
}

func newShowCommand() *cobra.Command {
	opts := &showOptions{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a user's metrics",
		Long: `Compute (or read from cache) MRR, churn, LTV, active users, revenue and
refunds for a user. With --snapshot the last stored snapshot is printed instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap.Open(cmd.Context(), bootstrap.ResolveEnv(opts.env))
			if err != nil {
				return err
			}
			defer rt.Close()

			stack, err := rt.MetricsStack()
			if err != nil {
				return err
			}

			return runShow(cmd.Context(), cmd.OutOrStdout(), opts,
				usecases.NewGetMetricsUseCase(stack.Aggregator, rt.Log),
				usecases.NewGetSnapshotUseCase(stack.Snapshots, rt.Log),
			)
		},
	}

	cmd.Flags().StringVarP(&opts.env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&opts.userID, "user", "u", "", "User ID (required)")
	cmd.Flags().StringVar(&opts.query.StartDate, "start", "", "Range start (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVar(&opts.query.EndDate, "end", "", "Range end (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVarP(&opts.query.Period, "period", "p", usecases.PeriodAll, "Period when no explicit range is given (7d, 30d, 90d, 1y, all)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", FormatYAML, "Output format (yaml, json)")
	cmd.Flags().BoolVar(&opts.snapshot, "snapshot", false, "Print the stored snapshot instead of computing")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newInvalidateCommand() *cobra.Command {
	opts := &invalidateOptions{}

	cmd := &cobra.Command{
		Use:   "invalidate",
		Short: "Drop every cached metric of a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap.Open(cmd.Context(), bootstrap.ResolveEnv(opts.env))
			if err != nil {
				return err
			}
			defer rt.Close()

			stack, err := rt.MetricsStack()
			if err != nil {
				return err
			}

			return runInvalidate(cmd.Context(), cmd.OutOrStdout(), opts.userID,
				usecases.NewInvalidateCacheUseCase(stack.Invalidator, rt.Log))
		},
	}

	cmd.Flags().StringVarP(&opts.env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&opts.userID, "user", "u", "", "User ID (required)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runShow(ctx context.Context, out io.Writer, opts *showOptions, getMetrics metricsGetter, getSnapshot snapshotGetter) error {
	if opts.format != FormatYAML && opts.format != FormatJSON {
		return fmt.Errorf("unsupported format %q, expected yaml or json", opts.format)
	}

	if opts.snapshot {
		snapshot, err := getSnapshot.Execute(ctx, opts.userID)
		if err != nil {
			return err
		}
		return writeOutput(out, opts.format, snapshot)
	}

	m, err := getMetrics.Execute(ctx, usecases.GetMetricsQuery{UserID: opts.userID, RangeQuery: opts.query})
	if err != nil {
		return err
	}
	return writeOutput(out, opts.format, m)
}

func runInvalidate(ctx context.Context, out io.Writer, userID string, invalidate cacheInvalidator) error {
	deleted, err := invalidate.Execute(ctx, usecases.InvalidateCacheCommand{UserID: userID, Source: sourceCLI})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "invalidated %d cached metric(s) for user %s\n", deleted, userID)
	return err
}

func writeOutput(out io.Writer, format string, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
}
