package record

import (
	"time"

	"github.com/google/uuid"
)

// DefaultJustification fills in when a reviewer leaves the reason blank.
const DefaultJustification = "Revisado pelo professor"

// AttendanceAdjustment is one append-only audit entry for a human status
// change. The log is the source of truth for "who changed what and why"; it
// is written by the ledger and review services and never read back into
// their decision logic.
type AttendanceAdjustment struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	RecordID        uuid.UUID `gorm:"column:record_id;type:uuid;not null;index"`
	FromStatus      Status    `gorm:"column:from_status;type:varchar(20);not null"`
	ToStatus        Status    `gorm:"column:to_status;type:varchar(20);not null"`
	ChangedByUserID uuid.UUID `gorm:"column:changed_by_user_id;type:uuid;not null"`
	ChangedByRole   ActorRole `gorm:"column:changed_by_role;type:varchar(20);not null"`
	Justification   string    `gorm:"column:justification;type:text;not null"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (AttendanceAdjustment) TableName() string {
	return "attendance_adjustments"
}
