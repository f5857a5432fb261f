package usecases

import (
	"context"
	"strings"

	"github.com/orris-inc/tally/internal/shared/errors"
	"github.com/orris-inc/tally/internal/shared/logger"
)

type InvalidateCacheCommand struct {
	UserID string
	// Source labels the caller in telemetry, e.g. admin or cli.
	Source string
}

// InvalidateCacheUseCase drops a user's cached metrics on operator request.
// Unlike webhook invalidation, failures are reported to the caller.
type InvalidateCacheUseCase struct {
	invalidator CacheInvalidator
	recorder    InvalidationRecorder
	logger      logger.Interface
}

func NewInvalidateCacheUseCase(invalidator CacheInvalidator, logger logger.Interface) *InvalidateCacheUseCase {
	return &InvalidateCacheUseCase{
		invalidator: invalidator,
		recorder:    nopRecorder{},
		logger:      logger,
	}
}

func (uc *InvalidateCacheUseCase) SetRecorder(r InvalidationRecorder) {
	if r != nil {
		uc.recorder = r
	}
}

func (uc *InvalidateCacheUseCase) Execute(ctx context.Context, cmd InvalidateCacheCommand) (int64, error) {
	userID := strings.TrimSpace(cmd.UserID)
	if userID == "" {
		return 0, errors.NewValidationError("user ID is required")
	}

	deleted, err := uc.invalidator.Invalidate(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to invalidate metrics cache", "user_id", userID, "source", cmd.Source, "error", err)
		return 0, errors.NewInternalError("failed to invalidate metrics cache")
	}

	uc.recorder.CacheInvalidated(cmd.Source, deleted)
	uc.logger.Infow("metrics cache invalidated", "user_id", userID, "source", cmd.Source, "deleted", deleted)
	return deleted, nil
}
