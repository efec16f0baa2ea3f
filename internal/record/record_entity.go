package record

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceRecord is the final attendance status of one student for one session.
// Created either by the student check-in flow (AUTO_ALUNO) or by a manual
// ledger entry; corrected by reviewers but never deleted.
type AttendanceRecord struct {
	ID                uuid.UUID  `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID         uuid.UUID  `gorm:"column:session_id;type:uuid;not null;index;uniqueIndex:uq_record_session_student"`
	StudentID         uuid.UUID  `gorm:"column:student_id;type:uuid;not null;index;uniqueIndex:uq_record_session_student"`
	FinalStatus       Status     `gorm:"column:final_status;type:varchar(20);not null"`
	Source            Source     `gorm:"column:source;type:varchar(20);not null"`
	RegisteredAt      *time.Time `gorm:"column:registered_at;type:timestamptz"`
	SelfiePath        *string    `gorm:"column:selfie_path;type:text"`
	SignaturePath     *string    `gorm:"column:signature_path;type:text"`
	GeoLat            *float64   `gorm:"column:geo_lat"`
	GeoLng            *float64   `gorm:"column:geo_lng"`
	GeoOK             *bool      `gorm:"column:geo_ok"` // nil when no geolocation was captured
	IPAddress         *string    `gorm:"column:ip_address;type:varchar(45)"`
	UserAgent         *string    `gorm:"column:user_agent;type:text"`
	DeviceFingerprint *string    `gorm:"column:device_fingerprint;type:varchar(128);index"`
	NeedsReview       bool       `gorm:"column:needs_review;not null;default:false"`
	ReviewReason      *string    `gorm:"column:review_reason;type:text"` // semicolon-delimited causes
	Protocol          string     `gorm:"column:protocol;type:varchar(40);not null"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// DuplicateDeviceRow is one member of a duplicate-fingerprint group: two or
// more check-ins physically submitted from the same device in one session.
type DuplicateDeviceRow struct {
	SessionID         uuid.UUID `gorm:"column:session_id"`
	DeviceFingerprint string    `gorm:"column:device_fingerprint"`
	RecordID          uuid.UUID `gorm:"column:record_id"`
	StudentID         uuid.UUID `gorm:"column:student_id"`
	FinalStatus       Status    `gorm:"column:final_status"`
	Protocol          string    `gorm:"column:protocol"`
}

// SessionTally aggregates one session's counts for the live monitor.
type SessionTally struct {
	SessionID    uuid.UUID `gorm:"column:session_id"`
	PresentCount int64     `gorm:"column:present_count"`
	TotalCount   int64     `gorm:"column:total_count"`
}
