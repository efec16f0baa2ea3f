package app

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/iworck/class-chronicle-sub001/internal/evidence"
	"github.com/iworck/class-chronicle-sub001/internal/ledger"
	"github.com/iworck/class-chronicle-sub001/internal/messaging/kafka"
	"github.com/iworck/class-chronicle-sub001/internal/monitor"
	"github.com/iworck/class-chronicle-sub001/internal/notify"
	"github.com/iworck/class-chronicle-sub001/internal/rbac"
	"github.com/iworck/class-chronicle-sub001/internal/rbac/infra"
	"github.com/iworck/class-chronicle-sub001/internal/record"
	"github.com/iworck/class-chronicle-sub001/internal/review"
	"github.com/iworck/class-chronicle-sub001/internal/session"
	"github.com/iworck/class-chronicle-sub001/internal/shared/counter"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	sessionRepo := session.NewRepository(gormDB)
	recordRepo := record.NewRepository(gormDB)
	adjustmentRepo := record.NewAdjustmentRepository(gormDB)
	rosterRepo := ledger.NewRosterRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Collaborators ---
	publisher := notify.NewOutboxPublisher(outboxRepo)
	signer := evidence.NewSigner(
		os.Getenv("EVIDENCE_BASE_URL"),
		[]byte(os.Getenv("EVIDENCE_SIGNING_SECRET")),
	)

	// --- Services ---
	sessionService := session.NewService(db, sessionRepo, recordRepo)
	monitorService := monitor.NewService(sessionRepo, recordRepo, rdb)
	ledgerService := ledger.NewService(sessionRepo, recordRepo, adjustmentRepo, rosterRepo, counterRepo, publisher)
	reviewService := review.NewService(recordRepo, adjustmentRepo, sessionRepo, signer, publisher)

	// --- Handlers ---
	sessionHandler := session.NewHandler(sessionService)
	monitorHandler := monitor.NewHandler(monitorService)
	ledgerHandler := ledger.NewHandlerWithRedis(ledgerService, rdb)
	reviewHandler := review.NewHandler(reviewService)
	adjustmentHandler := record.NewAdjustmentHandler(adjustmentRepo)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		monitor.RegisterRoutes(api, monitorHandler, rbacService)
		session.RegisterRoutes(api, sessionHandler, rbacService)
		ledger.RegisterRoutes(api, ledgerHandler, rbacService, rdb)
		review.RegisterRoutes(api, reviewHandler, rbacService)
		record.RegisterAdjustmentRoutes(api, adjustmentHandler, rbacService)
		rbac.RegisterRoutes(api, rbacHandler)
	}

	return nil
}
