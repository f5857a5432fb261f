package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/orris-inc/tally/internal/application/metrics/usecases"
	"github.com/orris-inc/tally/internal/infrastructure/scheduler"
	"github.com/orris-inc/tally/internal/interfaces/cli/bootstrap"
)

func main() {
	envFlag := pflag.StringP("env", "e", "development", "Environment (development, test, production)")
	pflag.Parse()

	if err := run(bootstrap.ResolveEnv(*envFlag)); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func run(env string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.Open(ctx, env)
	if err != nil {
		return err
	}
	defer rt.Close()

	log := rt.Log.Named("worker")
	log.Infow("starting metrics snapshot worker", "environment", env)

	stack, err := rt.MetricsStack()
	if err != nil {
		return err
	}

	captureUC := usecases.NewCaptureSnapshotsUseCase(
		stack.Accounts,
		stack.Aggregator,
		stack.Snapshots,
		log.Named("snapshots"),
	)

	manager, err := scheduler.NewSchedulerManager(log.Named("scheduler"))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	job := scheduler.BatchJobFunc(func(ctx context.Context) (int, error) {
		result, err := captureUC.Execute(ctx)
		if err != nil {
			return 0, err
		}
		return result.Captured, nil
	})
	if err := manager.RegisterSnapshotJobs(job, rt.Config.Metrics.SnapshotInterval()); err != nil {
		return fmt.Errorf("failed to register snapshot job: %w", err)
	}

	manager.Start()
	<-ctx.Done()
	log.Infow("received signal, shutting down")

	if err := manager.Stop(); err != nil {
		return err
	}

	log.Infow("metrics snapshot worker stopped")
	return nil
}
