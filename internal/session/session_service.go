package session

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/iworck/class-chronicle-sub001/internal/record"
	sessionerrors "github.com/iworck/class-chronicle-sub001/internal/session/errors"
	"github.com/iworck/class-chronicle-sub001/internal/shared/secretcode"
)

//go:generate mockgen -source=session_service.go -destination=mock/session_service_mock.go -package=mock
type Service interface {
	Open(ctx context.Context, professorID string, req OpenSessionRequest) (OpenSessionResponse, error)
	Close(ctx context.Context, professorID, id string) (SessionResponse, error)
	Reopen(ctx context.Context, professorID, id string) (SessionResponse, error)
	Detail(ctx context.Context, id string) (SessionDetailResponse, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	records record.Repository
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, records record.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("session.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("session.service")
	}
	return &service{db: db, repo: repo, records: records, logger: l}
}

// Open starts a roll call. The generated entry code and close token leave
// this function in plaintext exactly once; only their digests are persisted.
func (s *service) Open(ctx context.Context, professorID string, req OpenSessionRequest) (OpenSessionResponse, error) {
	s.logger.Debug("open session requested",
		zap.String("professor_user_id", professorID),
		zap.String("class_id", req.ClassID),
		zap.String("subject_id", req.SubjectID),
		zap.Bool("require_geo", req.RequireGeo),
	)

	professorUUID, err := uuid.Parse(professorID)
	if err != nil {
		return OpenSessionResponse{}, sessionerrors.ErrInvalidProfessorID
	}
	classUUID, err := uuid.Parse(req.ClassID)
	if err != nil {
		return OpenSessionResponse{}, sessionerrors.ErrInvalidClassContext
	}
	subjectUUID, err := uuid.Parse(req.SubjectID)
	if err != nil {
		return OpenSessionResponse{}, sessionerrors.ErrInvalidClassContext
	}
	var lessonUUID *uuid.UUID
	if req.LessonEntryID != nil {
		parsed, err := uuid.Parse(*req.LessonEntryID)
		if err != nil {
			return OpenSessionResponse{}, sessionerrors.ErrInvalidClassContext
		}
		lessonUUID = &parsed
	}
	if req.RequireGeo && (req.GeoLat == nil || req.GeoLng == nil) {
		return OpenSessionResponse{}, sessionerrors.ErrGeoCoordinatesRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("open session begin tx failed", zap.Error(err))
		return OpenSessionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Pre-check keeps the error message friendly; the partial unique index in
	// the store is what actually closes the two-tabs race.
	existing, err := qtx.FindOpenByProfessor(ctx, professorID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("open session pre-check failed", zap.Error(err))
		return OpenSessionResponse{}, err
	}
	if err == nil && existing != nil && existing.ID != uuid.Nil {
		s.logger.Warn("open session refused, one already open",
			zap.String("professor_user_id", professorID),
			zap.String("open_session_id", existing.ID.String()),
		)
		return OpenSessionResponse{}, sessionerrors.ErrSessionAlreadyOpen
	}

	entryCode, err := secretcode.Generate(secretcode.EntryCodeLength)
	if err != nil {
		return OpenSessionResponse{}, err
	}
	closeToken, err := secretcode.Generate(secretcode.CloseTokenLength)
	if err != nil {
		return OpenSessionResponse{}, err
	}

	now := time.Now().UTC()
	sess := &AttendanceSession{
		ID:              uuid.New(),
		ClassID:         classUUID,
		SubjectID:       subjectUUID,
		ProfessorUserID: professorUUID,
		LessonEntryID:   lessonUUID,
		OpenedAt:        now,
		Status:          StatusOpen,
		EntryCodeHash:   secretcode.Hash(entryCode),
		CloseTokenHash:  secretcode.Hash(closeToken),
		RequireGeo:      req.RequireGeo,
	}
	if req.RequireGeo {
		sess.GeoLat = req.GeoLat
		sess.GeoLng = req.GeoLng
		radius := DefaultGeoRadiusMeters
		sess.GeoRadiusM = &radius
	}

	if err := qtx.Create(ctx, sess); err != nil {
		s.logger.Error("open session persist failed", zap.Error(err))
		return OpenSessionResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("open session commit failed", zap.Error(err))
		return OpenSessionResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("session opened",
		zap.String("session_id", sess.ID.String()),
		zap.String("professor_user_id", professorID),
		zap.Bool("require_geo", sess.RequireGeo),
	)

	return OpenSessionResponse{
		Session:    mapToResponse(*sess),
		EntryCode:  entryCode,
		CloseToken: closeToken,
	}, nil
}

// Close stamps the closing time and flips the status. Closing an already
// closed session is a no-op from the caller's perspective.
func (s *service) Close(ctx context.Context, professorID, id string) (SessionResponse, error) {
	sess, err := s.ownedSession(ctx, professorID, id)
	if err != nil {
		return SessionResponse{}, err
	}

	switch sess.Status {
	case StatusFinalizedAudit:
		return SessionResponse{}, sessionerrors.ErrSessionFinalized
	case StatusClosed:
		return mapToResponse(*sess), nil
	}

	now := time.Now().UTC()
	sess.Status = StatusClosed
	sess.ClosedAt = &now

	if err := s.repo.Update(ctx, sess); err != nil {
		s.logger.Error("close session persist failed", zap.Error(err))
		return SessionResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("session closed", zap.String("session_id", sess.ID.String()))
	return mapToResponse(*sess), nil
}

// Reopen allows further check-ins or corrections on a closed session.
func (s *service) Reopen(ctx context.Context, professorID, id string) (SessionResponse, error) {
	sess, err := s.ownedSession(ctx, professorID, id)
	if err != nil {
		return SessionResponse{}, err
	}

	switch sess.Status {
	case StatusFinalizedAudit:
		return SessionResponse{}, sessionerrors.ErrSessionFinalized
	case StatusOpen:
		return mapToResponse(*sess), nil
	}

	sess.Status = StatusOpen
	sess.ClosedAt = nil

	if err := s.repo.Update(ctx, sess); err != nil {
		s.logger.Error("reopen session persist failed", zap.Error(err))
		return SessionResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("session reopened", zap.String("session_id", sess.ID.String()))
	return mapToResponse(*sess), nil
}

func (s *service) Detail(ctx context.Context, id string) (SessionDetailResponse, error) {
	sess, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return SessionDetailResponse{}, mapRepositoryError(err)
	}

	detail := SessionDetailResponse{SessionResponse: mapToResponse(*sess)}

	tallies, err := s.records.TallyBySessions(ctx, []string{id})
	if err != nil {
		return SessionDetailResponse{}, err
	}
	for _, t := range tallies {
		if t.SessionID == sess.ID {
			detail.PresentCount = t.PresentCount
			detail.TotalCount = t.TotalCount
		}
	}
	return detail, nil
}

func (s *service) ownedSession(ctx context.Context, professorID, id string) (*AttendanceSession, error) {
	sess, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if sess.ProfessorUserID.String() != professorID {
		return nil, sessionerrors.ErrNotSessionOwner
	}
	return sess, nil
}

func mapToResponse(s AttendanceSession) SessionResponse {
	resp := SessionResponse{
		ID:              s.ID.String(),
		ClassID:         s.ClassID.String(),
		SubjectID:       s.SubjectID.String(),
		ProfessorUserID: s.ProfessorUserID.String(),
		OpenedAt:        s.OpenedAt.Format(time.RFC3339),
		Status:          string(s.Status),
		RequireGeo:      s.RequireGeo,
		GeoLat:          s.GeoLat,
		GeoLng:          s.GeoLng,
		GeoRadiusM:      s.GeoRadiusM,
	}
	if s.LessonEntryID != nil {
		v := s.LessonEntryID.String()
		resp.LessonEntryID = &v
	}
	if s.ClosedAt != nil {
		v := s.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &v
	}
	return resp
}
