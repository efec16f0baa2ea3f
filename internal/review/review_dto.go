package review

// Evidence badge values rendered by the review screen. Geolocation is
// tri-state: a record captured without coordinates is "absent", never
// "outside".
const (
	EvidencePresent = "present"
	EvidenceAbsent  = "absent"
	EvidenceInside  = "inside"
	EvidenceOutside = "outside"
)

// QueueItemResponse is one flagged record prepared for human review. Reasons
// come pre-split into badges and evidence images carry short-lived signed
// URLs so the reviewer can inspect them without storage credentials.
type QueueItemResponse struct {
	RecordID          string   `json:"record_id"`
	SessionID         string   `json:"session_id"`
	StudentID         string   `json:"student_id"`
	Status            string   `json:"status"`
	Protocol          string   `json:"protocol"`
	RegisteredAt      *string  `json:"registered_at,omitempty"`
	Reasons           []string `json:"reasons"`
	SelfieBadge       string   `json:"selfie_badge"`
	SignatureBadge    string   `json:"signature_badge"`
	GeoBadge          string   `json:"geo_badge"`
	DeviceFingerprint string   `json:"device_fingerprint,omitempty"`
	SelfieURL         string   `json:"selfie_url,omitempty"`
	SignatureURL      string   `json:"signature_url,omitempty"`
}

type QueueResponse struct {
	Items  []QueueItemResponse `json:"items"`
	Total  int64               `json:"total"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}

// DuplicateGroupResponse is one same-device alert: every record in the group
// was submitted from the same physical device within the same session.
type DuplicateGroupResponse struct {
	SessionID         string                   `json:"session_id"`
	DeviceFingerprint string                   `json:"device_fingerprint"`
	Records           []DuplicateRecordSummary `json:"records"`
}

type DuplicateRecordSummary struct {
	RecordID  string `json:"record_id"`
	StudentID string `json:"student_id"`
	Status    string `json:"status"`
	Protocol  string `json:"protocol"`
}

type DenyRequest struct {
	Justification string `json:"justification"`
}

type ResolutionResponse struct {
	RecordID    string `json:"record_id"`
	Status      string `json:"status"`
	NeedsReview bool   `json:"needs_review"`
}
