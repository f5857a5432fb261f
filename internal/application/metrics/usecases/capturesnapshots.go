package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/orris-inc/tally/internal/domain/metrics"
	"github.com/orris-inc/tally/internal/shared/biztime"
	"github.com/orris-inc/tally/internal/shared/logger"
)

// ActiveUserLister names the users who still have a connected account.
type ActiveUserLister interface {
	ListActiveUserIDs(ctx context.Context) ([]string, error)
}

type CaptureSnapshotsResult struct {
	Captured int
	Failed   int
}

// CaptureSnapshotsUseCase persists every active user's all-time metrics. A
// failure for one user is logged and does not stop the others.
type CaptureSnapshotsUseCase struct {
	users        ActiveUserLister
	calculator   MetricsCalculator
	snapshotRepo metrics.SnapshotRepository
	now          func() time.Time
	logger       logger.Interface
}

func NewCaptureSnapshotsUseCase(
	users ActiveUserLister,
	calculator MetricsCalculator,
	snapshotRepo metrics.SnapshotRepository,
	logger logger.Interface,
) *CaptureSnapshotsUseCase {
	return &CaptureSnapshotsUseCase{
		users:        users,
		calculator:   calculator,
		snapshotRepo: snapshotRepo,
		now:          biztime.NowUTC,
		logger:       logger,
	}
}

func (uc *CaptureSnapshotsUseCase) Execute(ctx context.Context) (*CaptureSnapshotsResult, error) {
	userIDs, err := uc.users.ListActiveUserIDs(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list users for snapshots", "error", err)
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}

	result := &CaptureSnapshotsResult{}
	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := uc.capture(ctx, userID); err != nil {
			result.Failed++
			uc.logger.Warnw("failed to capture metrics snapshot", "user_id", userID, "error", err)
			continue
		}
		result.Captured++
	}

	uc.logger.Infow("metrics snapshots captured", "captured", result.Captured, "failed", result.Failed)
	return result, nil
}

func (uc *CaptureSnapshotsUseCase) capture(ctx context.Context, userID string) error {
	m, err := uc.calculator.GetAllMetrics(ctx, userID, nil)
	if err != nil {
		return err
	}
	return uc.snapshotRepo.Upsert(ctx, metrics.NewSnapshot(userID, metrics.RangeAll, *m, uc.now()))
}
