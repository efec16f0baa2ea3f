package record

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=record_repo.go -destination=mock/record_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, rec *AttendanceRecord) error
	FindByID(ctx context.Context, id string) (*AttendanceRecord, error)
	FindBySessionAndStudent(ctx context.Context, sessionID, studentID string) (*AttendanceRecord, error)
	FindAllBySession(ctx context.Context, sessionID string) ([]AttendanceRecord, error)
	Update(ctx context.Context, rec *AttendanceRecord) error

	// FindNeedingReview lists flagged records across the professor's sessions,
	// oldest first, with the total so the caller can page past the default cap.
	FindNeedingReview(ctx context.Context, professorID string, limit, offset int) ([]AttendanceRecord, int64, error)

	// FindDuplicateDevices returns every record belonging to a (session,
	// fingerprint) group with more than one member, scoped to the professor's
	// sessions. Grouping is per session: the same device in two different
	// sessions is not a duplicate.
	FindDuplicateDevices(ctx context.Context, professorID string) ([]DuplicateDeviceRow, error)

	// TallyBySessions computes present/total counts per session in one query.
	TallyBySessions(ctx context.Context, sessionIDs []string) ([]SessionTally, error)
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

func (r *repository) Create(ctx context.Context, rec *AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*AttendanceRecord, error) {
	var rec AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&rec).Error
	return &rec, err
}

func (r *repository) FindBySessionAndStudent(ctx context.Context, sessionID, studentID string) (*AttendanceRecord, error) {
	var rec AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Where("student_id = ?", studentID).
		First(&rec).Error
	return &rec, err
}

func (r *repository) FindAllBySession(ctx context.Context, sessionID string) ([]AttendanceRecord, error) {
	var rows []AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, rec *AttendanceRecord) error {
	rec.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *repository) FindNeedingReview(ctx context.Context, professorID string, limit, offset int) ([]AttendanceRecord, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&AttendanceRecord{}).
		Joins("JOIN attendance_sessions s ON s.id = attendance_records.session_id").
		Where("s.professor_user_id = ?", professorID).
		Where("attendance_records.needs_review = ?", true)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []AttendanceRecord
	err := base.
		Order("attendance_records.created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, total, err
}

func (r *repository) FindDuplicateDevices(ctx context.Context, professorID string) ([]DuplicateDeviceRow, error) {
	var rows []DuplicateDeviceRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			ar.session_id,
			ar.device_fingerprint,
			ar.id AS record_id,
			ar.student_id,
			ar.final_status,
			ar.protocol
		FROM attendance_records ar
		JOIN attendance_sessions s ON s.id = ar.session_id
		WHERE s.professor_user_id = ?
		  AND ar.device_fingerprint IS NOT NULL
		  AND ar.device_fingerprint <> ''
		  AND (ar.session_id, ar.device_fingerprint) IN (
			SELECT session_id, device_fingerprint
			FROM attendance_records
			WHERE device_fingerprint IS NOT NULL AND device_fingerprint <> ''
			GROUP BY session_id, device_fingerprint
			HAVING COUNT(*) > 1
		  )
		ORDER BY ar.session_id, ar.device_fingerprint, ar.created_at
	`, professorID).Scan(&rows).Error
	return rows, err
}

func (r *repository) TallyBySessions(ctx context.Context, sessionIDs []string) ([]SessionTally, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	var rows []SessionTally
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			session_id,
			COUNT(*) FILTER (WHERE final_status = ?) AS present_count,
			COUNT(*) AS total_count
		FROM attendance_records
		WHERE session_id IN ?
		GROUP BY session_id
	`, StatusPresent, sessionIDs).Scan(&rows).Error
	return rows, err
}
