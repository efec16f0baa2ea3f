package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	ledgererrors "github.com/iworck/class-chronicle-sub001/internal/ledger/errors"
	"github.com/iworck/class-chronicle-sub001/internal/notify"
	"github.com/iworck/class-chronicle-sub001/internal/record"
	"github.com/iworck/class-chronicle-sub001/internal/session"
	sessionerrors "github.com/iworck/class-chronicle-sub001/internal/session/errors"
	"github.com/iworck/class-chronicle-sub001/internal/shared/counter"
)

//go:generate mockgen -source=ledger_service.go -destination=mock/ledger_service_mock.go -package=mock
type Service interface {
	Roster(ctx context.Context, sessionID string) (RosterResponse, error)
	Commit(ctx context.Context, sessionID, actorID string, role record.ActorRole, req CommitRequest) (CommitResult, error)
}

type service struct {
	sessions    session.Repository
	records     record.Repository
	adjustments record.AdjustmentRepository
	roster      RosterRepository
	counters    counter.Repository
	publisher   notify.Publisher
	logger      *zap.Logger
}

func NewService(
	sessions session.Repository,
	records record.Repository,
	adjustments record.AdjustmentRepository,
	roster RosterRepository,
	counters counter.Repository,
	publisher notify.Publisher,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("ledger.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ledger.service")
	}
	return &service{
		sessions:    sessions,
		records:     records,
		adjustments: adjustments,
		roster:      roster,
		counters:    counters,
		publisher:   publisher,
		logger:      l,
	}
}

// Roster joins the enrolled students against their current records. Students
// without a record come back with a null status, which the grid renders as
// "unrecorded" rather than absent.
func (s *service) Roster(ctx context.Context, sessionID string) (RosterResponse, error) {
	sess, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RosterResponse{}, sessionerrors.ErrSessionNotFound
		}
		return RosterResponse{}, err
	}

	students, err := s.roster.FindStudentsByClass(ctx, sess.ClassID.String())
	if err != nil {
		return RosterResponse{}, err
	}

	recs, err := s.records.FindAllBySession(ctx, sessionID)
	if err != nil {
		return RosterResponse{}, err
	}
	byStudent := make(map[uuid.UUID]record.AttendanceRecord, len(recs))
	for _, r := range recs {
		byStudent[r.StudentID] = r
	}

	resp := RosterResponse{
		SessionID: sessionID,
		Entries:   make([]RosterEntryResponse, 0, len(students)),
	}
	for _, st := range students {
		entry := RosterEntryResponse{
			StudentID:   st.ID.String(),
			StudentName: st.Name,
		}
		if rec, ok := byStudent[st.ID]; ok {
			id := rec.ID.String()
			status := string(rec.FinalStatus)
			source := string(rec.Source)
			entry.RecordID = &id
			entry.Status = &status
			entry.Source = &source
			entry.NeedsReview = rec.NeedsReview
			if rec.Protocol != "" {
				protocol := rec.Protocol
				entry.Protocol = &protocol
			}
			resp.Recorded++
		} else {
			resp.Unrecorded++
		}
		resp.Entries = append(resp.Entries, entry)
	}

	return resp, nil
}

// Commit applies the staged changes one write at a time. Each write succeeds
// or fails on its own; the result reports the counts and the first failure,
// and nothing is rolled back; last write wins per record.
func (s *service) Commit(ctx context.Context, sessionID, actorID string, role record.ActorRole, req CommitRequest) (CommitResult, error) {
	s.logger.Debug("ledger commit requested",
		zap.String("session_id", sessionID),
		zap.String("actor_id", actorID),
		zap.String("role", string(role)),
		zap.Int("entries", len(req.Entries)),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return CommitResult{}, ledgererrors.ErrInvalidActorID
	}

	sess, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CommitResult{}, sessionerrors.ErrSessionNotFound
		}
		return CommitResult{}, err
	}
	if sess.Status == session.StatusFinalizedAudit {
		return CommitResult{}, ledgererrors.ErrSessionFinalized
	}

	students, err := s.roster.FindStudentsByClass(ctx, sess.ClassID.String())
	if err != nil {
		return CommitResult{}, err
	}
	enrolled := make(map[string]struct{}, len(students))
	for _, st := range students {
		enrolled[st.ID.String()] = struct{}{}
	}

	entries := req.Entries
	if req.MarkAllStatus != nil {
		status := record.Status(*req.MarkAllStatus)
		if !status.Valid() {
			return CommitResult{}, ledgererrors.ErrInvalidStatus
		}
		entries = make([]CommitEntry, 0, len(students))
		for _, st := range students {
			entries = append(entries, CommitEntry{StudentID: st.ID.String(), Status: *req.MarkAllStatus})
		}
	}
	if len(entries) == 0 {
		return CommitResult{}, ledgererrors.ErrNoChangesStaged
	}

	result := CommitResult{SessionID: sessionID}
	for _, entry := range entries {
		var err error
		if _, ok := enrolled[entry.StudentID]; !ok {
			err = ledgererrors.ErrStudentNotEnrolled
		} else {
			err = s.applyEntry(ctx, sess, actorUUID, role, entry, req.Justification)
		}
		if err != nil {
			failure := CommitFailure{StudentID: entry.StudentID, Reason: err.Error()}
			result.Failed++
			result.Failures = append(result.Failures, failure)
			if result.FirstError == nil {
				first := failure
				result.FirstError = &first
			}
			continue
		}
		result.Succeeded++
	}

	s.logger.Info("ledger commit finished",
		zap.String("session_id", sessionID),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
	)

	s.publishSummary(ctx, sess)
	return result, nil
}

func (s *service) applyEntry(ctx context.Context, sess *session.AttendanceSession, actorID uuid.UUID, role record.ActorRole, entry CommitEntry, justification string) error {
	status := record.Status(entry.Status)
	if !status.Valid() {
		return ledgererrors.ErrInvalidStatus
	}
	studentUUID, err := uuid.Parse(entry.StudentID)
	if err != nil {
		return ledgererrors.ErrStudentNotEnrolled
	}

	existing, err := s.records.FindBySessionAndStudent(ctx, sess.ID.String(), entry.StudentID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err == nil && existing != nil && existing.ID != uuid.Nil {
		if existing.FinalStatus == status {
			// Nothing to change; counts as a success without a write.
			return nil
		}
		from := existing.FinalStatus
		existing.FinalStatus = status
		if uerr := s.records.Update(ctx, existing); uerr != nil {
			return uerr
		}
		// Audit only changes to records that already existed.
		adj := record.NewAdjustment(existing.ID, actorID, role, from, status, justification)
		if aerr := s.adjustments.Append(ctx, adj); aerr != nil {
			s.logger.Error("adjustment append failed",
				zap.String("record_id", existing.ID.String()),
				zap.Error(aerr),
			)
			return aerr
		}
		return nil
	}

	now := time.Now().UTC()
	seq, err := s.counters.GetNextValue(ctx, sess.ClassID.String(), counter.CounterProtocol)
	if err != nil {
		return err
	}

	rec := &record.AttendanceRecord{
		ID:           uuid.New(),
		SessionID:    sess.ID,
		StudentID:    studentUUID,
		FinalStatus:  status,
		Source:       record.ManualSource(role),
		RegisteredAt: &now,
		Protocol:     counter.FormatProtocol(seq, now),
	}
	return s.records.Create(ctx, rec)
}

// publishSummary stages the percentages consumed by the downstream
// notification functions. Best effort: a staging failure never fails the
// commit that produced it.
func (s *service) publishSummary(ctx context.Context, sess *session.AttendanceSession) {
	if s.publisher == nil {
		return
	}

	tallies, err := s.records.TallyBySessions(ctx, []string{sess.ID.String()})
	if err != nil {
		s.logger.Warn("summary tally failed", zap.Error(err))
		return
	}
	summary := notify.SessionSummary{
		SessionID: sess.ID.String(),
		ClassID:   sess.ClassID.String(),
		SubjectID: sess.SubjectID.String(),
	}
	for _, t := range tallies {
		if t.SessionID == sess.ID {
			summary.PresentCount = t.PresentCount
			summary.TotalCount = t.TotalCount
			summary.AbsentCount = t.TotalCount - t.PresentCount
		}
	}
	if err := s.publisher.PublishSessionSummary(ctx, summary); err != nil {
		s.logger.Warn("summary publish failed", zap.Error(err))
	}
}
