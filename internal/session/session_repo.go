package session

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=session_repo.go -destination=mock/session_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, s *AttendanceSession) error
	FindByID(ctx context.Context, id string) (*AttendanceSession, error)
	FindOpenByProfessor(ctx context.Context, professorID string) (*AttendanceSession, error)
	FindActiveByProfessor(ctx context.Context, professorID string, closedSince time.Time) ([]AttendanceSession, error)
	Update(ctx context.Context, s *AttendanceSession) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, s *AttendanceSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*AttendanceSession, error) {
	var s AttendanceSession
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&s).Error
	return &s, err
}

func (r *repository) FindOpenByProfessor(ctx context.Context, professorID string) (*AttendanceSession, error) {
	var s AttendanceSession
	err := r.db.WithContext(ctx).
		Where("professor_user_id = ?", professorID).
		Where("status = ?", StatusOpen).
		First(&s).Error
	return &s, err
}

// FindActiveByProfessor returns the professor's open sessions plus those
// closed after closedSince, newest first. This backs the live monitor's
// 24-hour recent-history window.
func (r *repository) FindActiveByProfessor(ctx context.Context, professorID string, closedSince time.Time) ([]AttendanceSession, error) {
	var rows []AttendanceSession
	err := r.db.WithContext(ctx).
		Where("professor_user_id = ?", professorID).
		Where(
			r.db.Where("status = ?", StatusOpen).
				Or("status = ? AND closed_at >= ?", StatusClosed, closedSince),
		).
		Order("opened_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, s *AttendanceSession) error {
	s.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Save(s).Error
}
