package monitor

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/iworck/class-chronicle-sub001/internal/record"
	"github.com/iworck/class-chronicle-sub001/internal/session"
)

const (
	// PollIntervalSeconds is advertised to clients; the screen refreshes by
	// periodic polling, never by push.
	PollIntervalSeconds = 15

	// RecentHistoryWindow keeps just-closed sessions visible on the monitor.
	RecentHistoryWindow = 24 * time.Hour

	// snapshotTTL is shorter than the poll interval so a professor with two
	// open tabs still sees at most one stale cycle.
	snapshotTTL = 10 * time.Second

	snapshotKeyPrefix = "monitor:active:"
)

func snapshotKey(professorID string) string {
	return snapshotKeyPrefix + professorID
}

//go:generate mockgen -source=monitor_service.go -destination=mock/monitor_service_mock.go -package=mock
type Service interface {
	Snapshot(ctx context.Context, professorID string) (SnapshotResponse, error)
}

type service struct {
	sessions session.Repository
	records  record.Repository
	rdb      *redis.Client
	sf       *singleflight.Group
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(sessions session.Repository, records record.Repository, rdb *redis.Client) Service {
	return &service{
		sessions: sessions,
		records:  records,
		rdb:      rdb,
		sf:       &singleflight.Group{},
		logger:   zap.L().Named("monitor.service"),
		now:      time.Now,
	}
}

// Snapshot returns the professor's open sessions plus those closed within the
// last 24 hours, each with live present/total counts. Cached briefly in Redis
// and deduplicated with singleflight so a burst of polls costs one query.
func (s *service) Snapshot(ctx context.Context, professorID string) (SnapshotResponse, error) {
	cacheKey := snapshotKey(professorID)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var resp SnapshotResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		resp, err := s.buildSnapshot(ctx, professorID)
		if err != nil {
			return nil, err
		}

		if s.rdb != nil {
			if jsonData, merr := json.Marshal(resp); merr == nil {
				if serr := s.rdb.Set(ctx, cacheKey, jsonData, snapshotTTL).Err(); serr != nil {
					s.logger.Warn("snapshot cache write failed", zap.String("key", cacheKey), zap.Error(serr))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		s.logger.Error("snapshot build failed", zap.String("professor_id", professorID), zap.Error(err))
		return SnapshotResponse{}, err
	}
	return v.(SnapshotResponse), nil
}

func (s *service) buildSnapshot(ctx context.Context, professorID string) (SnapshotResponse, error) {
	now := s.now().UTC()
	sessions, err := s.sessions.FindActiveByProfessor(ctx, professorID, now.Add(-RecentHistoryWindow))
	if err != nil {
		return SnapshotResponse{}, err
	}

	resp := SnapshotResponse{
		Sessions:            make([]ActiveSessionResponse, 0, len(sessions)),
		PollIntervalSeconds: PollIntervalSeconds,
		GeneratedAt:         now,
	}
	if len(sessions) == 0 {
		return resp, nil
	}

	ids := make([]string, len(sessions))
	for i := range sessions {
		ids[i] = sessions[i].ID.String()
	}
	tallies, err := s.records.TallyBySessions(ctx, ids)
	if err != nil {
		return SnapshotResponse{}, err
	}
	counts := make(map[uuid.UUID]record.SessionTally, len(tallies))
	for _, t := range tallies {
		counts[t.SessionID] = t
	}

	for i := range sessions {
		sess := &sessions[i]
		card := ActiveSessionResponse{
			SessionID:    sess.ID.String(),
			ClassID:      sess.ClassID.String(),
			SubjectID:    sess.SubjectID.String(),
			Status:       string(sess.Status),
			OpenedAt:     sess.OpenedAt,
			ClosedAt:     sess.ClosedAt,
			PresentCount: counts[sess.ID].PresentCount,
			TotalCount:   counts[sess.ID].TotalCount,
		}
		// Closed sessions freeze their elapsed time at the close instant.
		end := now
		if sess.ClosedAt != nil {
			end = *sess.ClosedAt
		}
		if elapsed := end.Sub(sess.OpenedAt); elapsed > 0 {
			card.ElapsedSeconds = int64(elapsed.Seconds())
		}
		resp.Sessions = append(resp.Sessions, card)
	}
	return resp, nil
}
