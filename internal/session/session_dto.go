package session

type OpenSessionRequest struct {
	ClassID       string   `json:"class_id" binding:"required,uuid"`
	SubjectID     string   `json:"subject_id" binding:"required,uuid"`
	LessonEntryID *string  `json:"lesson_entry_id" binding:"omitempty,uuid"`
	RequireGeo    bool     `json:"require_geo"`
	GeoLat        *float64 `json:"geo_lat"`
	GeoLng        *float64 `json:"geo_lng"`
}

// OpenSessionResponse is the only place the plaintext secrets ever appear.
// They are not retrievable again: the store keeps digests only.
type OpenSessionResponse struct {
	Session    SessionResponse `json:"session"`
	EntryCode  string          `json:"entry_code"`
	CloseToken string          `json:"close_token"`
}

type SessionResponse struct {
	ID              string   `json:"id"`
	ClassID         string   `json:"class_id"`
	SubjectID       string   `json:"subject_id"`
	ProfessorUserID string   `json:"professor_user_id"`
	LessonEntryID   *string  `json:"lesson_entry_id,omitempty"`
	OpenedAt        string   `json:"opened_at"`
	ClosedAt        *string  `json:"closed_at,omitempty"`
	Status          string   `json:"status"`
	RequireGeo      bool     `json:"require_geo"`
	GeoLat          *float64 `json:"geo_lat,omitempty"`
	GeoLng          *float64 `json:"geo_lng,omitempty"`
	GeoRadiusM      *int     `json:"geo_radius_m,omitempty"`
}

// SessionDetailResponse adds the live tallies; clients re-fetch it after
// every mutation so displayed state never drifts from the store.
type SessionDetailResponse struct {
	SessionResponse
	PresentCount int64 `json:"present_count"`
	TotalCount   int64 `json:"total_count"`
}
