package review

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"

	"github.com/iworck/class-chronicle-sub001/internal/notify"
	"github.com/iworck/class-chronicle-sub001/internal/record"
	"github.com/iworck/class-chronicle-sub001/internal/session"
)

type fakeRecordRepo struct {
	findByIDFn             func(ctx context.Context, id string) (*record.AttendanceRecord, error)
	findNeedingReviewFn    func(ctx context.Context, professorID string, limit, offset int) ([]record.AttendanceRecord, int64, error)
	findDuplicateDevicesFn func(ctx context.Context, professorID string) ([]record.DuplicateDeviceRow, error)
	updateFn               func(ctx context.Context, rec *record.AttendanceRecord) error
}

func (f *fakeRecordRepo) WithTx(tx *sql.Tx) record.Repository { return f }
func (f *fakeRecordRepo) Create(ctx context.Context, rec *record.AttendanceRecord) error {
	return nil
}
func (f *fakeRecordRepo) FindByID(ctx context.Context, id string) (*record.AttendanceRecord, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRecordRepo) FindBySessionAndStudent(ctx context.Context, sessionID, studentID string) (*record.AttendanceRecord, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeRecordRepo) FindAllBySession(ctx context.Context, sessionID string) ([]record.AttendanceRecord, error) {
	return nil, nil
}
func (f *fakeRecordRepo) Update(ctx context.Context, rec *record.AttendanceRecord) error {
	return f.updateFn(ctx, rec)
}
func (f *fakeRecordRepo) FindNeedingReview(ctx context.Context, professorID string, limit, offset int) ([]record.AttendanceRecord, int64, error) {
	return f.findNeedingReviewFn(ctx, professorID, limit, offset)
}
func (f *fakeRecordRepo) FindDuplicateDevices(ctx context.Context, professorID string) ([]record.DuplicateDeviceRow, error) {
	return f.findDuplicateDevicesFn(ctx, professorID)
}
func (f *fakeRecordRepo) TallyBySessions(ctx context.Context, sessionIDs []string) ([]record.SessionTally, error) {
	return nil, nil
}

type fakeAdjustmentRepo struct {
	appended  []record.AttendanceAdjustment
	appendErr error
}

func (f *fakeAdjustmentRepo) Append(ctx context.Context, adj *record.AttendanceAdjustment) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, *adj)
	return nil
}
func (f *fakeAdjustmentRepo) FindAllByRecord(ctx context.Context, recordID string) ([]record.AttendanceAdjustment, error) {
	return f.appended, nil
}

type fakeSessionRepo struct {
	session.Repository
	sess *session.AttendanceSession
}

func (f *fakeSessionRepo) FindByID(ctx context.Context, id string) (*session.AttendanceSession, error) {
	if f.sess == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.sess, nil
}

type fakeSigner struct{}

func (fakeSigner) SignedURL(path string) string { return "https://signed.example" + path + "?sig=x" }
func (fakeSigner) Verify(path string, expires int64, signature string) bool {
	return true
}

type fakePublisher struct {
	summaries []notify.SessionSummary
}

func (f *fakePublisher) PublishSessionSummary(ctx context.Context, s notify.SessionSummary) error {
	f.summaries = append(f.summaries, s)
	return nil
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func flaggedRecord() *record.AttendanceRecord {
	at := time.Now().UTC()
	return &record.AttendanceRecord{
		ID:                uuid.New(),
		SessionID:         uuid.New(),
		StudentID:         uuid.New(),
		FinalStatus:       record.StatusPresent,
		Source:            record.SourceAutoStudent,
		RegisteredAt:      &at,
		SelfiePath:        strPtr("/evidence/selfie/a.jpg"),
		DeviceFingerprint: strPtr("0123456789abcdef0123"),
		NeedsReview:       true,
		ReviewReason:      strPtr("Selfie ausente;Fora da área"),
		Protocol:          "CHAM-2026-000042",
	}
}

func TestService_Pending_SplitsReasonsIntoBadges(t *testing.T) {
	rec := flaggedRecord()
	repo := &fakeRecordRepo{
		findNeedingReviewFn: func(ctx context.Context, professorID string, limit, offset int) ([]record.AttendanceRecord, int64, error) {
			assert.Equal(t, DefaultQueueLimit, limit)
			return []record.AttendanceRecord{*rec}, 7, nil
		},
	}
	svc := NewService(repo, &fakeAdjustmentRepo{}, &fakeSessionRepo{}, fakeSigner{}, nil)

	resp, err := svc.Pending(context.Background(), uuid.New().String(), 0, 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), resp.Total)
	assert.Len(t, resp.Items, 1)

	item := resp.Items[0]
	assert.Equal(t, []string{"Selfie ausente", "Fora da área"}, item.Reasons)
}

func TestService_Pending_EvidenceBadges(t *testing.T) {
	rec := flaggedRecord()
	rec.SignaturePath = nil
	rec.GeoOK = boolPtr(false)

	repo := &fakeRecordRepo{
		findNeedingReviewFn: func(ctx context.Context, professorID string, limit, offset int) ([]record.AttendanceRecord, int64, error) {
			return []record.AttendanceRecord{*rec}, 1, nil
		},
	}
	svc := NewService(repo, &fakeAdjustmentRepo{}, &fakeSessionRepo{}, fakeSigner{}, nil)

	resp, err := svc.Pending(context.Background(), uuid.New().String(), 5, 0)
	assert.NoError(t, err)

	item := resp.Items[0]
	assert.Equal(t, EvidencePresent, item.SelfieBadge)
	assert.Equal(t, EvidenceAbsent, item.SignatureBadge)
	assert.Equal(t, EvidenceOutside, item.GeoBadge)
	assert.Equal(t, "0123456789ab", item.DeviceFingerprint)
	assert.True(t, strings.HasPrefix(item.SelfieURL, "https://signed.example/evidence/selfie/a.jpg"))
	assert.Empty(t, item.SignatureURL)
}

func TestService_Pending_GeoAbsentNeverOutside(t *testing.T) {
	rec := flaggedRecord()
	rec.GeoOK = nil

	repo := &fakeRecordRepo{
		findNeedingReviewFn: func(ctx context.Context, professorID string, limit, offset int) ([]record.AttendanceRecord, int64, error) {
			return []record.AttendanceRecord{*rec}, 1, nil
		},
	}
	svc := NewService(repo, &fakeAdjustmentRepo{}, &fakeSessionRepo{}, nil, nil)

	resp, err := svc.Pending(context.Background(), uuid.New().String(), 5, 0)
	assert.NoError(t, err)
	assert.Equal(t, EvidenceAbsent, resp.Items[0].GeoBadge)
}

func TestService_Duplicates_GroupsBySessionAndFingerprint(t *testing.T) {
	sessionA := uuid.New()
	sessionB := uuid.New()
	rows := []record.DuplicateDeviceRow{
		{SessionID: sessionA, DeviceFingerprint: "abc123", RecordID: uuid.New(), StudentID: uuid.New(), FinalStatus: record.StatusPresent},
		{SessionID: sessionA, DeviceFingerprint: "abc123", RecordID: uuid.New(), StudentID: uuid.New(), FinalStatus: record.StatusPresent},
		{SessionID: sessionB, DeviceFingerprint: "other", RecordID: uuid.New(), StudentID: uuid.New(), FinalStatus: record.StatusAbsent},
		{SessionID: sessionB, DeviceFingerprint: "other", RecordID: uuid.New(), StudentID: uuid.New(), FinalStatus: record.StatusPresent},
	}
	repo := &fakeRecordRepo{
		findDuplicateDevicesFn: func(ctx context.Context, professorID string) ([]record.DuplicateDeviceRow, error) {
			return rows, nil
		},
	}
	svc := NewService(repo, &fakeAdjustmentRepo{}, &fakeSessionRepo{}, nil, nil)

	groups, err := svc.Duplicates(context.Background(), uuid.New().String())
	assert.NoError(t, err)
	assert.Len(t, groups, 2)

	assert.Equal(t, sessionA.String(), groups[0].SessionID)
	assert.Equal(t, "abc123", groups[0].DeviceFingerprint)
	assert.Len(t, groups[0].Records, 2)
	assert.Len(t, groups[1].Records, 2)
}

func TestService_Approve_SetsPresentAndClearsFlag(t *testing.T) {
	rec := flaggedRecord()
	rec.FinalStatus = record.StatusAbsent

	var updated *record.AttendanceRecord
	repo := &fakeRecordRepo{
		findByIDFn: func(ctx context.Context, id string) (*record.AttendanceRecord, error) {
			cp := *rec
			return &cp, nil
		},
		updateFn: func(ctx context.Context, r *record.AttendanceRecord) error { updated = r; return nil },
	}
	adjustments := &fakeAdjustmentRepo{}
	publisher := &fakePublisher{}
	sessions := &fakeSessionRepo{sess: &session.AttendanceSession{
		ID: rec.SessionID, ClassID: uuid.New(), SubjectID: uuid.New(), Status: session.StatusOpen,
	}}

	svc := NewService(repo, adjustments, sessions, nil, publisher)

	resp, err := svc.Approve(context.Background(), rec.ID.String(), uuid.New().String(), record.RoleCoordinator)
	assert.NoError(t, err)
	assert.Equal(t, string(record.StatusPresent), resp.Status)
	assert.False(t, resp.NeedsReview)

	assert.Equal(t, record.StatusPresent, updated.FinalStatus)
	assert.False(t, updated.NeedsReview)

	assert.Len(t, adjustments.appended, 1)
	assert.Equal(t, record.StatusAbsent, adjustments.appended[0].FromStatus)
	assert.Equal(t, record.StatusPresent, adjustments.appended[0].ToStatus)
	assert.Equal(t, record.RoleCoordinator, adjustments.appended[0].ChangedByRole)

	assert.Len(t, publisher.summaries, 1)
}

func TestService_Approve_AlreadyPresentSkipsAdjustment(t *testing.T) {
	rec := flaggedRecord()

	repo := &fakeRecordRepo{
		findByIDFn: func(ctx context.Context, id string) (*record.AttendanceRecord, error) {
			cp := *rec
			return &cp, nil
		},
		updateFn: func(ctx context.Context, r *record.AttendanceRecord) error { return nil },
	}
	adjustments := &fakeAdjustmentRepo{}
	svc := NewService(repo, adjustments, &fakeSessionRepo{}, nil, nil)

	resp, err := svc.Approve(context.Background(), rec.ID.String(), uuid.New().String(), record.RoleProfessor)
	assert.NoError(t, err)
	assert.False(t, resp.NeedsReview)
	// PRESENTE to PRESENTE is not a status change, so no audit entry.
	assert.Empty(t, adjustments.appended)
}

func TestService_Deny_SetsAbsentWithJustification(t *testing.T) {
	rec := flaggedRecord()

	repo := &fakeRecordRepo{
		findByIDFn: func(ctx context.Context, id string) (*record.AttendanceRecord, error) {
			cp := *rec
			return &cp, nil
		},
		updateFn: func(ctx context.Context, r *record.AttendanceRecord) error { return nil },
	}
	adjustments := &fakeAdjustmentRepo{}
	svc := NewService(repo, adjustments, &fakeSessionRepo{}, nil, nil)

	resp, err := svc.Deny(context.Background(), rec.ID.String(), uuid.New().String(), record.RoleProfessor, "Mesmo aparelho de outro aluno")
	assert.NoError(t, err)
	assert.Equal(t, string(record.StatusAbsent), resp.Status)

	assert.Len(t, adjustments.appended, 1)
	assert.Equal(t, "Mesmo aparelho de outro aluno", adjustments.appended[0].Justification)
}

func TestService_Deny_BlankJustificationGetsDefault(t *testing.T) {
	rec := flaggedRecord()

	repo := &fakeRecordRepo{
		findByIDFn: func(ctx context.Context, id string) (*record.AttendanceRecord, error) {
			cp := *rec
			return &cp, nil
		},
		updateFn: func(ctx context.Context, r *record.AttendanceRecord) error { return nil },
	}
	adjustments := &fakeAdjustmentRepo{}
	svc := NewService(repo, adjustments, &fakeSessionRepo{}, nil, nil)

	_, err := svc.Deny(context.Background(), rec.ID.String(), uuid.New().String(), record.RoleProfessor, "  ")
	assert.NoError(t, err)
	assert.Equal(t, record.DefaultJustification, adjustments.appended[0].Justification)
}

func TestService_Resolve_AdjustmentFailureFailsResolution(t *testing.T) {
	rec := flaggedRecord()

	repo := &fakeRecordRepo{
		findByIDFn: func(ctx context.Context, id string) (*record.AttendanceRecord, error) {
			cp := *rec
			return &cp, nil
		},
		updateFn: func(ctx context.Context, r *record.AttendanceRecord) error { return nil },
	}
	boom := errors.New("write timeout")
	adjustments := &fakeAdjustmentRepo{appendErr: boom}
	publisher := &fakePublisher{}
	svc := NewService(repo, adjustments, &fakeSessionRepo{}, nil, publisher)

	// PRESENTE to FALTA is a status change, so the audit entry is mandatory.
	_, err := svc.Deny(context.Background(), rec.ID.String(), uuid.New().String(), record.RoleProfessor, "Mesmo aparelho")
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, adjustments.appended)
	assert.Empty(t, publisher.summaries)
}

func TestService_InjectedLoggerKeepsServiceName(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	rec := flaggedRecord()
	rec.NeedsReview = false
	repo := &fakeRecordRepo{
		findByIDFn: func(ctx context.Context, id string) (*record.AttendanceRecord, error) {
			return rec, nil
		},
	}
	svc := NewService(repo, &fakeAdjustmentRepo{}, &fakeSessionRepo{}, nil, nil, zap.New(core))

	_, _ = svc.Approve(context.Background(), rec.ID.String(), uuid.New().String(), record.RoleProfessor)

	entries := logs.All()
	assert.NotEmpty(t, entries)
	assert.Equal(t, "review.service", entries[0].LoggerName)
}

func TestService_Resolve_RefusesUnflaggedRecord(t *testing.T) {
	rec := flaggedRecord()
	rec.NeedsReview = false

	repo := &fakeRecordRepo{
		findByIDFn: func(ctx context.Context, id string) (*record.AttendanceRecord, error) {
			return rec, nil
		},
	}
	svc := NewService(repo, &fakeAdjustmentRepo{}, &fakeSessionRepo{}, nil, nil)

	_, err := svc.Approve(context.Background(), rec.ID.String(), uuid.New().String(), record.RoleProfessor)
	assert.Error(t, err)
}

func TestService_Resolve_NotFound(t *testing.T) {
	repo := &fakeRecordRepo{
		findByIDFn: func(ctx context.Context, id string) (*record.AttendanceRecord, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewService(repo, &fakeAdjustmentRepo{}, &fakeSessionRepo{}, nil, nil)

	_, err := svc.Approve(context.Background(), uuid.New().String(), uuid.New().String(), record.RoleProfessor)
	assert.Error(t, err)
}
