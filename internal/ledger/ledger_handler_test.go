package ledger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/iworck/class-chronicle-sub001/internal/ledger"
	ledgererrors "github.com/iworck/class-chronicle-sub001/internal/ledger/errors"
	"github.com/iworck/class-chronicle-sub001/internal/middleware"
	"github.com/iworck/class-chronicle-sub001/internal/record"
)

type fakeLedgerService struct {
	rosterFn func(ctx context.Context, sessionID string) (ledger.RosterResponse, error)
	commitFn func(ctx context.Context, sessionID, actorID string, role record.ActorRole, req ledger.CommitRequest) (ledger.CommitResult, error)
}

func (f *fakeLedgerService) Roster(ctx context.Context, sessionID string) (ledger.RosterResponse, error) {
	return f.rosterFn(ctx, sessionID)
}

func (f *fakeLedgerService) Commit(ctx context.Context, sessionID, actorID string, role record.ActorRole, req ledger.CommitRequest) (ledger.CommitResult, error) {
	return f.commitFn(ctx, sessionID, actorID, role, req)
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newRouter(svc ledger.Service, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", uuid.New().String())
		c.Set("role", role)
		c.Next()
	})
	h := ledger.NewHandler(svc)
	r.GET("/sessions/:id/roster", h.Roster)
	r.POST("/sessions/:id/roster/commit", h.Commit)
	return r
}

func TestHandler_Commit_FullSuccess(t *testing.T) {
	svc := &fakeLedgerService{
		commitFn: func(ctx context.Context, sessionID, actorID string, role record.ActorRole, req ledger.CommitRequest) (ledger.CommitResult, error) {
			assert.Equal(t, record.RoleProfessor, role)
			return ledger.CommitResult{SessionID: sessionID, Succeeded: 30}, nil
		},
	}
	router := newRouter(svc, "PROFESSOR")

	body, _ := json.Marshal(ledger.CommitRequest{
		Entries: []ledger.CommitEntry{{StudentID: uuid.New().String(), Status: "PRESENTE"}},
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sessions/"+uuid.New().String()+"/roster/commit", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var env apiEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Ok)

	var result ledger.CommitResult
	assert.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 30, result.Succeeded)
	assert.Equal(t, 0, result.Failed)
}

func TestHandler_Commit_PartialFailureReturns207(t *testing.T) {
	failed := ledger.CommitFailure{StudentID: uuid.New().String(), Reason: "write timeout"}
	svc := &fakeLedgerService{
		commitFn: func(ctx context.Context, sessionID, actorID string, role record.ActorRole, req ledger.CommitRequest) (ledger.CommitResult, error) {
			return ledger.CommitResult{
				SessionID:  sessionID,
				Succeeded:  29,
				Failed:     1,
				FirstError: &failed,
				Failures:   []ledger.CommitFailure{failed},
			}, nil
		},
	}
	router := newRouter(svc, "PROFESSOR")

	body, _ := json.Marshal(ledger.CommitRequest{
		Entries: []ledger.CommitEntry{{StudentID: uuid.New().String(), Status: "PRESENTE"}},
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sessions/"+uuid.New().String()+"/roster/commit", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMultiStatus, w.Code)

	var env apiEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var result ledger.CommitResult
	assert.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 29, result.Succeeded)
	assert.Equal(t, failed.StudentID, result.FirstError.StudentID)
}

func TestHandler_Commit_CachesResultWithStatus(t *testing.T) {
	sid := uuid.New().String()
	failed := ledger.CommitFailure{StudentID: uuid.New().String(), Reason: "write timeout"}
	result := ledger.CommitResult{
		SessionID:  sid,
		Succeeded:  29,
		Failed:     1,
		FirstError: &failed,
		Failures:   []ledger.CommitFailure{failed},
	}

	rdb, mock := redismock.NewClientMock()
	payload, _ := json.Marshal(result)
	entry, _ := json.Marshal(middleware.CachedResponse{Status: http.StatusMultiStatus, Data: payload})
	mock.ExpectSet("idemp:commit:k1", entry, 24*time.Hour).SetVal("OK")
	mock.ExpectDel("idemp:commit:k1:lock").SetVal(1)

	svc := &fakeLedgerService{
		commitFn: func(ctx context.Context, sessionID, actorID string, role record.ActorRole, req ledger.CommitRequest) (ledger.CommitResult, error) {
			return result, nil
		},
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", uuid.New().String())
		c.Set("role", "PROFESSOR")
		c.Set("idempotency_cache_key", "idemp:commit:k1")
		c.Set("idempotency_lock_key", "idemp:commit:k1:lock")
		c.Next()
	})
	h := ledger.NewHandlerWithRedis(svc, rdb)
	router.POST("/sessions/:id/roster/commit", h.Commit)

	body, _ := json.Marshal(ledger.CommitRequest{
		Entries: []ledger.CommitEntry{{StudentID: uuid.New().String(), Status: "PRESENTE"}},
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sessions/"+sid+"/roster/commit", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	// The cached envelope carries the 207 so a replay answers with the
	// same status, and the lock is released.
	assert.Equal(t, http.StatusMultiStatus, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Commit_NoChangesStaged(t *testing.T) {
	svc := &fakeLedgerService{
		commitFn: func(ctx context.Context, sessionID, actorID string, role record.ActorRole, req ledger.CommitRequest) (ledger.CommitResult, error) {
			return ledger.CommitResult{}, ledgererrors.ErrNoChangesStaged
		},
	}
	router := newRouter(svc, "PROFESSOR")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sessions/"+uuid.New().String()+"/roster/commit", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var env apiEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.False(t, env.Ok)
	assert.NotNil(t, env.Error)
}

func TestHandler_Roster_NullStatusForUnrecorded(t *testing.T) {
	present := "PRESENTE"
	svc := &fakeLedgerService{
		rosterFn: func(ctx context.Context, sessionID string) (ledger.RosterResponse, error) {
			return ledger.RosterResponse{
				SessionID: sessionID,
				Entries: []ledger.RosterEntryResponse{
					{StudentID: uuid.New().String(), StudentName: "Com Registro", Status: &present},
					{StudentID: uuid.New().String(), StudentName: "Sem Registro", Status: nil},
				},
				Recorded:   1,
				Unrecorded: 1,
			}, nil
		},
	}
	router := newRouter(svc, "PROFESSOR")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/sessions/"+uuid.New().String()+"/roster", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	// The unrecorded student's status must serialize as an explicit null,
	// never as an empty string.
	var env apiEnvelope
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var resp struct {
		Entries []map[string]json.RawMessage `json:"entries"`
	}
	assert.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, `"PRESENTE"`, string(resp.Entries[0]["status"]))
	assert.Equal(t, `null`, string(resp.Entries[1]["status"]))
}
