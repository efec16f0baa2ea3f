package monitor

import "time"

// ActiveSessionResponse is one card on the live monitor screen. Elapsed time
// is computed server-side so client clock skew never distorts the display.
type ActiveSessionResponse struct {
	SessionID      string     `json:"session_id"`
	ClassID        string     `json:"class_id"`
	SubjectID      string     `json:"subject_id"`
	Status         string     `json:"status"`
	OpenedAt       time.Time  `json:"opened_at"`
	ClosedAt       *time.Time `json:"closed_at,omitempty"`
	ElapsedSeconds int64      `json:"elapsed_seconds"`
	PresentCount   int64      `json:"present_count"`
	TotalCount     int64      `json:"total_count"`
}

// SnapshotResponse is the poll payload. PollIntervalSeconds tells clients how
// often to re-fetch; the data itself may be served from a short-lived cache.
type SnapshotResponse struct {
	Sessions            []ActiveSessionResponse `json:"sessions"`
	PollIntervalSeconds int                     `json:"poll_interval_seconds"`
	GeneratedAt         time.Time               `json:"generated_at"`
}
