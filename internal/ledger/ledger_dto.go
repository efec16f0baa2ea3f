package ledger

// RosterEntryResponse is one student row of the roll-call grid. Status is
// null for students with no record yet: "unrecorded" is distinct from absent.
type RosterEntryResponse struct {
	StudentID   string  `json:"student_id"`
	StudentName string  `json:"student_name"`
	RecordID    *string `json:"record_id,omitempty"`
	Status      *string `json:"status"`
	Source      *string `json:"source,omitempty"`
	NeedsReview bool    `json:"needs_review"`
	Protocol    *string `json:"protocol,omitempty"`
}

type RosterResponse struct {
	SessionID  string                `json:"session_id"`
	Entries    []RosterEntryResponse `json:"entries"`
	Recorded   int                   `json:"recorded"`
	Unrecorded int                   `json:"unrecorded"`
}

type CommitEntry struct {
	StudentID string `json:"student_id" binding:"required,uuid"`
	Status    string `json:"status" binding:"required"`
}

// CommitRequest carries the staged changes. When MarkAllStatus is set the
// whole roster is staged with that status and Entries is ignored.
type CommitRequest struct {
	Entries       []CommitEntry `json:"entries" binding:"omitempty,dive"`
	MarkAllStatus *string       `json:"mark_all_status"`
	Justification string        `json:"justification"`
}

type CommitFailure struct {
	StudentID string `json:"student_id"`
	Reason    string `json:"reason"`
}

// CommitResult reports the batch outcome. Writes are independent: successes
// are never rolled back, so callers must re-fetch the roster to see what
// actually landed.
type CommitResult struct {
	SessionID  string          `json:"session_id"`
	Succeeded  int             `json:"succeeded"`
	Failed     int             `json:"failed"`
	FirstError *CommitFailure  `json:"first_error,omitempty"`
	Failures   []CommitFailure `json:"failures,omitempty"`
}
