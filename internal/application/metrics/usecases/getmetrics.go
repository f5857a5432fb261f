package usecases

import (
	"context"
	"time"

	"github.com/orris-inc/tally/internal/application/metrics/dto"
	"github.com/orris-inc/tally/internal/shared/biztime"
	"github.com/orris-inc/tally/internal/shared/logger"
)

type GetMetricsQuery struct {
	UserID string
	RangeQuery
}

type GetMetricsUseCase struct {
	calculator MetricsCalculator
	now        func() time.Time
	logger     logger.Interface
}

func NewGetMetricsUseCase(calculator MetricsCalculator, logger logger.Interface) *GetMetricsUseCase {
	return &GetMetricsUseCase{
		calculator: calculator,
		now:        biztime.NowUTC,
		logger:     logger,
	}
}

func (uc *GetMetricsUseCase) Execute(ctx context.Context, query GetMetricsQuery) (*dto.MetricsDTO, error) {
	r, err := resolveRange(query.RangeQuery, uc.now(), true)
	if err != nil {
		return nil, err
	}

	m, err := uc.calculator.GetAllMetrics(ctx, query.UserID, r)
	if err != nil {
		uc.logger.Errorw("failed to get metrics", "user_id", query.UserID, "error", err)
		return nil, err
	}
	return dto.ToMetricsDTO(m, r), nil
}
