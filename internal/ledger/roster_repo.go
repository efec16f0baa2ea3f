package ledger

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RosterStudent is one enrolled student, resolved from the organizational
// data owned by the enrollment screens outside this service.
type RosterStudent struct {
	ID   uuid.UUID `gorm:"column:student_id"`
	Name string    `gorm:"column:student_name"`
}

//go:generate mockgen -source=roster_repo.go -destination=mock/roster_repo_mock.go -package=mock
type RosterRepository interface {
	FindStudentsByClass(ctx context.Context, classID string) ([]RosterStudent, error)
}

type rosterRepository struct {
	db *gorm.DB
}

func NewRosterRepository(db *gorm.DB) RosterRepository {
	return &rosterRepository{db: db}
}

func (r *rosterRepository) FindStudentsByClass(ctx context.Context, classID string) ([]RosterStudent, error) {
	var rows []RosterStudent
	err := r.db.WithContext(ctx).Raw(`
		SELECT s.id AS student_id, s.full_name AS student_name
		FROM class_enrollments e
		JOIN students s ON s.id = e.student_id
		WHERE e.class_id = ?
		  AND e.active
		ORDER BY s.full_name ASC
	`, classID).Scan(&rows).Error
	return rows, err
}
