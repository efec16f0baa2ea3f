package counter

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// CounterProtocol numbers the human-readable receipts attached to manually
// entered attendance records.
const CounterProtocol = "attendance_protocol"

//go:generate mockgen -destination=mock/counter_repo_mock.go -package=mock . Repository
type Repository interface {
	GetNextValue(ctx context.Context, institutionID string, counterType string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetNextValue(ctx context.Context, institutionID string, counterType string) (int64, error) {
	var nextValue int64

	// Atomic UPSERT + increment so concurrent callers never see the same value.
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO institution_counters (institution_id, counter_type, last_value, updated_at)
		VALUES (?, ?, 1, now())
		ON CONFLICT (institution_id, counter_type) DO UPDATE
		SET last_value = institution_counters.last_value + 1, updated_at = now()
		RETURNING last_value
	`, institutionID, counterType).Scan(&nextValue).Error

	if err != nil {
		return 0, err
	}

	return nextValue, nil
}

// FormatProtocol renders a receipt like CHAM-2026-000042.
func FormatProtocol(seq int64, at time.Time) string {
	return fmt.Sprintf("CHAM-%d-%06d", at.Year(), seq)
}
