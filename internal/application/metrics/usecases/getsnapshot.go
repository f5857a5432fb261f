package usecases

import (
	"context"
	"fmt"

	"github.com/orris-inc/tally/internal/application/metrics/dto"
	"github.com/orris-inc/tally/internal/domain/metrics"
	"github.com/orris-inc/tally/internal/shared/errors"
	"github.com/orris-inc/tally/internal/shared/logger"
)

type GetSnapshotUseCase struct {
	snapshotRepo metrics.SnapshotRepository
	logger       logger.Interface
}

func NewGetSnapshotUseCase(snapshotRepo metrics.SnapshotRepository, logger logger.Interface) *GetSnapshotUseCase {
	return &GetSnapshotUseCase{snapshotRepo: snapshotRepo, logger: logger}
}

func (uc *GetSnapshotUseCase) Execute(ctx context.Context, userID string) (*dto.SnapshotDTO, error) {
	snapshot, err := uc.snapshotRepo.Get(ctx, userID, metrics.RangeAll)
	if err != nil {
		uc.logger.Errorw("failed to get metrics snapshot", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get metrics snapshot: %w", err)
	}
	if snapshot == nil {
		return nil, errors.NewNotFoundError("no metrics snapshot for user", userID)
	}
	return dto.ToSnapshotDTO(snapshot), nil
}
