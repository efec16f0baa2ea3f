package review

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/iworck/class-chronicle-sub001/internal/evidence"
	"github.com/iworck/class-chronicle-sub001/internal/notify"
	"github.com/iworck/class-chronicle-sub001/internal/record"
	reviewerrors "github.com/iworck/class-chronicle-sub001/internal/review/errors"
	"github.com/iworck/class-chronicle-sub001/internal/session"
)

const (
	// DefaultQueueLimit is the collapsed size of the pending queue; the
	// client expands with an explicit limit.
	DefaultQueueLimit = 5
	MaxQueueLimit     = 100

	fingerprintDisplayLen = 12
)

//go:generate mockgen -source=review_service.go -destination=mock/review_service_mock.go -package=mock
type Service interface {
	Pending(ctx context.Context, professorID string, limit, offset int) (QueueResponse, error)
	Duplicates(ctx context.Context, professorID string) ([]DuplicateGroupResponse, error)
	Approve(ctx context.Context, recordID, actorID string, role record.ActorRole) (ResolutionResponse, error)
	Deny(ctx context.Context, recordID, actorID string, role record.ActorRole, justification string) (ResolutionResponse, error)
}

type service struct {
	records     record.Repository
	adjustments record.AdjustmentRepository
	sessions    session.Repository
	signer      evidence.Signer
	publisher   notify.Publisher
	logger      *zap.Logger
}

func NewService(
	records record.Repository,
	adjustments record.AdjustmentRepository,
	sessions session.Repository,
	signer evidence.Signer,
	publisher notify.Publisher,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("review.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("review.service")
	}
	return &service{
		records:     records,
		adjustments: adjustments,
		sessions:    sessions,
		signer:      signer,
		publisher:   publisher,
		logger:      l,
	}
}

// Pending lists the records flagged by the check-in process, scoped to the
// professor's own sessions, oldest first.
func (s *service) Pending(ctx context.Context, professorID string, limit, offset int) (QueueResponse, error) {
	if limit <= 0 {
		limit = DefaultQueueLimit
	}
	if limit > MaxQueueLimit {
		limit = MaxQueueLimit
	}
	if offset < 0 {
		offset = 0
	}

	records, total, err := s.records.FindNeedingReview(ctx, professorID, limit, offset)
	if err != nil {
		s.logger.Error("review queue lookup failed", zap.String("professor_id", professorID), zap.Error(err))
		return QueueResponse{}, err
	}

	items := make([]QueueItemResponse, 0, len(records))
	for i := range records {
		items = append(items, s.mapQueueItem(&records[i]))
	}
	return QueueResponse{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

// Duplicates groups same-device check-ins per session. The grouping key is
// (session, fingerprint): the same device across two different sessions is
// not an alert.
func (s *service) Duplicates(ctx context.Context, professorID string) ([]DuplicateGroupResponse, error) {
	rows, err := s.records.FindDuplicateDevices(ctx, professorID)
	if err != nil {
		s.logger.Error("duplicate device lookup failed", zap.String("professor_id", professorID), zap.Error(err))
		return nil, err
	}

	type groupKey struct {
		sessionID   uuid.UUID
		fingerprint string
	}
	index := make(map[groupKey]int)
	groups := make([]DuplicateGroupResponse, 0)
	for _, row := range rows {
		key := groupKey{sessionID: row.SessionID, fingerprint: row.DeviceFingerprint}
		pos, ok := index[key]
		if !ok {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, DuplicateGroupResponse{
				SessionID:         row.SessionID.String(),
				DeviceFingerprint: row.DeviceFingerprint,
			})
		}
		groups[pos].Records = append(groups[pos].Records, DuplicateRecordSummary{
			RecordID:  row.RecordID.String(),
			StudentID: row.StudentID.String(),
			Status:    string(row.FinalStatus),
			Protocol:  row.Protocol,
		})
	}
	return groups, nil
}

// Approve resolves a flagged record as legitimate: status PRESENTE, flag
// cleared.
func (s *service) Approve(ctx context.Context, recordID, actorID string, role record.ActorRole) (ResolutionResponse, error) {
	return s.resolve(ctx, recordID, actorID, role, record.StatusPresent, "")
}

// Deny resolves a flagged record as fraudulent or invalid: status FALTA,
// flag cleared. The student may contest through the appeal channel, which
// lives outside this service.
func (s *service) Deny(ctx context.Context, recordID, actorID string, role record.ActorRole, justification string) (ResolutionResponse, error) {
	return s.resolve(ctx, recordID, actorID, role, record.StatusAbsent, justification)
}

func (s *service) resolve(ctx context.Context, recordID, actorID string, role record.ActorRole, to record.Status, justification string) (ResolutionResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return ResolutionResponse{}, reviewerrors.ErrInvalidReviewerID
	}

	rec, err := s.records.FindByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ResolutionResponse{}, reviewerrors.ErrRecordNotFound
		}
		s.logger.Error("record lookup failed", zap.String("record_id", recordID), zap.Error(err))
		return ResolutionResponse{}, err
	}
	if !rec.NeedsReview {
		s.logger.Warn("resolution on unflagged record refused", zap.String("record_id", recordID))
		return ResolutionResponse{}, reviewerrors.ErrRecordNotFlagged
	}

	from := rec.FinalStatus
	rec.NeedsReview = false
	rec.FinalStatus = to
	if err := s.records.Update(ctx, rec); err != nil {
		s.logger.Error("review resolution persist failed", zap.String("record_id", recordID), zap.Error(err))
		return ResolutionResponse{}, err
	}

	if from != to {
		// Every status change carries exactly one audit entry; a failed
		// append fails the whole resolution.
		adj := record.NewAdjustment(rec.ID, actorUUID, role, from, to, justification)
		if aerr := s.adjustments.Append(ctx, adj); aerr != nil {
			s.logger.Error("adjustment append failed",
				zap.String("record_id", rec.ID.String()),
				zap.Error(aerr),
			)
			return ResolutionResponse{}, aerr
		}
	}

	s.logger.Info("review resolved",
		zap.String("record_id", rec.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("actor_id", actorID),
	)

	s.publishSummary(ctx, rec.SessionID.String())
	return ResolutionResponse{
		RecordID:    rec.ID.String(),
		Status:      string(rec.FinalStatus),
		NeedsReview: rec.NeedsReview,
	}, nil
}

// publishSummary re-stages the session percentages after a resolution so the
// downstream notification functions work off fresh numbers. Best effort.
func (s *service) publishSummary(ctx context.Context, sessionID string) {
	if s.publisher == nil {
		return
	}
	sess, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		s.logger.Warn("summary session lookup failed", zap.String("session_id", sessionID), zap.Error(err))
		return
	}
	tallies, err := s.records.TallyBySessions(ctx, []string{sessionID})
	if err != nil {
		s.logger.Warn("summary tally failed", zap.Error(err))
		return
	}
	summary := notify.SessionSummary{
		SessionID: sessionID,
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

func (s *service) mapQueueItem(rec *record.AttendanceRecord) QueueItemResponse {
	item := QueueItemResponse{
		RecordID:       rec.ID.String(),
		SessionID:      rec.SessionID.String(),
		StudentID:      rec.StudentID.String(),
		Status:         string(rec.FinalStatus),
		Protocol:       rec.Protocol,
		Reasons:        splitReasons(rec.ReviewReason),
		SelfieBadge:    presenceBadge(rec.SelfiePath),
		SignatureBadge: presenceBadge(rec.SignaturePath),
		GeoBadge:       geoBadge(rec.GeoOK),
	}
	if rec.RegisteredAt != nil {
		at := rec.RegisteredAt.UTC().Format(time.RFC3339)
		item.RegisteredAt = &at
	}
	if rec.DeviceFingerprint != nil {
		item.DeviceFingerprint = truncateFingerprint(*rec.DeviceFingerprint)
	}
	if s.signer != nil {
		if rec.SelfiePath != nil && *rec.SelfiePath != "" {
			item.SelfieURL = s.signer.SignedURL(*rec.SelfiePath)
		}
		if rec.SignaturePath != nil && *rec.SignaturePath != "" {
			item.SignatureURL = s.signer.SignedURL(*rec.SignaturePath)
		}
	}
	return item
}

func splitReasons(reason *string) []string {
	if reason == nil {
		return []string{}
	}
	parts := strings.Split(*reason, ";")
	reasons := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			reasons = append(reasons, trimmed)
		}
	}
	return reasons
}

func presenceBadge(path *string) string {
	if path != nil && *path != "" {
		return EvidencePresent
	}
	return EvidenceAbsent
}

func geoBadge(geoOK *bool) string {
	switch {
	case geoOK == nil:
		return EvidenceAbsent
	case *geoOK:
		return EvidenceInside
	default:
		return EvidenceOutside
	}
}

func truncateFingerprint(fp string) string {
	if len(fp) <= fingerprintDisplayLen {
		return fp
	}
	return fp[:fingerprintDisplayLen]
}
