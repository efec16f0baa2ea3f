package record

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=adjustment_repo.go -destination=mock/adjustment_repo_mock.go -package=mock
type AdjustmentRepository interface {
	Append(ctx context.Context, adj *AttendanceAdjustment) error
	FindAllByRecord(ctx context.Context, recordID string) ([]AttendanceAdjustment, error)
}

type adjustmentRepository struct {
	db *gorm.DB
}

func NewAdjustmentRepository(db *gorm.DB) AdjustmentRepository {
	return &adjustmentRepository{db: db}
}

func (r *adjustmentRepository) Append(ctx context.Context, adj *AttendanceAdjustment) error {
	return r.db.WithContext(ctx).Create(adj).Error
}

func (r *adjustmentRepository) FindAllByRecord(ctx context.Context, recordID string) ([]AttendanceAdjustment, error) {
	var rows []AttendanceAdjustment
	err := r.db.WithContext(ctx).
		Where("record_id = ?", recordID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// NewAdjustment builds the audit entry for one status change. A blank
// justification falls back to DefaultJustification so the trail never has an
// empty "why".
func NewAdjustment(recordID, actorID uuid.UUID, role ActorRole, from, to Status, justification string) *AttendanceAdjustment {
	j := strings.TrimSpace(justification)
	if j == "" {
		j = DefaultJustification
	}
	return &AttendanceAdjustment{
		ID:              uuid.New(),
		RecordID:        recordID,
		FromStatus:      from,
		ToStatus:        to,
		ChangedByUserID: actorID,
		ChangedByRole:   role,
		Justification:   j,
	}
}
