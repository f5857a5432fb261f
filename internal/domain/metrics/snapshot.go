package metrics

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RangeAll labels snapshots computed without a date range.
const RangeAll = "all"

// Snapshot is a persisted copy of a user's metrics at CapturedAt.
type Snapshot struct {
	ID         string
	UserID     string
	RangeLabel string
	Metrics    Metrics
	CapturedAt time.Time
}

func NewSnapshot(userID, rangeLabel string, m Metrics, capturedAt time.Time) *Snapshot {
	return &Snapshot{
		ID:         uuid.NewString(),
		UserID:     userID,
		RangeLabel: rangeLabel,
		Metrics:    m,
		CapturedAt: capturedAt,
	}
}

type SnapshotRepository interface {
	// Upsert replaces the snapshot stored for (UserID, RangeLabel).
	Upsert(ctx context.Context, snapshot *Snapshot) error
	Get(ctx context.Context, userID, rangeLabel string) (*Snapshot, error)
}
