package mappers

import (
	"github.com/orris-inc/tally/internal/domain/metrics"
	"github.com/orris-inc/tally/internal/infrastructure/persistence/models"
)

func SnapshotToModel(s *metrics.Snapshot) *models.MetricsSnapshotModel {
	return &models.MetricsSnapshotModel{
		ID:           s.ID,
		UserID:       s.UserID,
		RangeLabel:   s.RangeLabel,
		MRR:          s.Metrics.MRR,
		ChurnRate:    s.Metrics.ChurnRate,
		LTV:          s.Metrics.LTV,
		ActiveUsers:  s.Metrics.ActiveUsers,
		TotalRevenue: s.Metrics.TotalRevenue,
		TotalRefunds: s.Metrics.TotalRefunds,
		CapturedAt:   s.CapturedAt,
	}
}

func SnapshotToDomain(m *models.MetricsSnapshotModel) *metrics.Snapshot {
	return &metrics.Snapshot{
		ID:         m.ID,
		UserID:     m.UserID,
		RangeLabel: m.RangeLabel,
		Metrics: metrics.Metrics{
			MRR:          m.MRR,
			ChurnRate:    m.ChurnRate,
			LTV:          m.LTV,
			ActiveUsers:  m.ActiveUsers,
			TotalRevenue: m.TotalRevenue,
			TotalRefunds: m.TotalRefunds,
		},
		CapturedAt: m.CapturedAt.UTC(),
	}
}
