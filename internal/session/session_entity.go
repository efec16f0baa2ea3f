package session

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus is the roll-call lifecycle state. ABERTA/ENCERRADA flip back
// and forth under professor control; AUDITORIA_FINALIZADA is a terminal state
// stamped by an external auditing process and is never set here.
type SessionStatus string

const (
	StatusOpen           SessionStatus = "ABERTA"
	StatusClosed         SessionStatus = "ENCERRADA"
	StatusFinalizedAudit SessionStatus = "AUDITORIA_FINALIZADA"
)

func (s SessionStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusClosed, StatusFinalizedAudit:
		return true
	default:
		return false
	}
}

// DefaultGeoRadiusMeters bounds geofenced check-ins around the professor's
// position at open time.
const DefaultGeoRadiusMeters = 200

// AttendanceSession is one roll-call event for a (class, subject, lesson)
// tuple. The entry code and close token are stored only as SHA-256 digests.
type AttendanceSession struct {
	ID              uuid.UUID     `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	ClassID         uuid.UUID     `gorm:"column:class_id;type:uuid;not null;index"`
	SubjectID       uuid.UUID     `gorm:"column:subject_id;type:uuid;not null;index"`
	ProfessorUserID uuid.UUID     `gorm:"column:professor_user_id;type:uuid;not null;index"`
	LessonEntryID   *uuid.UUID    `gorm:"column:lesson_entry_id;type:uuid"`
	OpenedAt        time.Time     `gorm:"column:opened_at;type:timestamptz;not null"`
	ClosedAt        *time.Time    `gorm:"column:closed_at;type:timestamptz"`
	Status          SessionStatus `gorm:"column:status;type:varchar(30);not null;default:ABERTA"`
	EntryCodeHash   string        `gorm:"column:entry_code_hash;type:char(64);not null"`
	CloseTokenHash  string        `gorm:"column:close_token_hash;type:char(64);not null"`
	RequireGeo      bool          `gorm:"column:require_geo;not null;default:false"`
	GeoLat          *float64      `gorm:"column:geo_lat"`
	GeoLng          *float64      `gorm:"column:geo_lng"`
	GeoRadiusM      *int          `gorm:"column:geo_radius_m"`
	CreatedAt       time.Time     `gorm:"column:created_at"`
	UpdatedAt       time.Time     `gorm:"column:updated_at"`
}

func (AttendanceSession) TableName() string {
	return "attendance_sessions"
}
