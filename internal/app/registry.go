package app

import (
	"database/sql"

	"github.com/way-wise/company-site-backend-sub001/internal/leave"
	"github.com/way-wise/company-site-backend-sub001/internal/leavebalance"
	"github.com/way-wise/company-site-backend-sub001/internal/leavetype"
	"github.com/way-wise/company-site-backend-sub001/internal/messaging/kafka"
	"github.com/way-wise/company-site-backend-sub001/internal/middleware"
	"github.com/way-wise/company-site-backend-sub001/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	leaveTypeRepo := leavetype.NewRepository(gormDB)
	leaveBalanceRepo := leavebalance.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}

	// --- Services ---
	leaveTypeService := leavetype.NewService(gormDB, leaveTypeRepo, rdb)
	leaveBalanceService := leavebalance.NewService(gormDB, leaveBalanceRepo)
	leaveService := leave.NewServiceWithOutbox(gormDB, leaveRepo, outboxRepo)

	// --- Handlers ---
	leaveTypeHandler := leavetype.NewHandler(leaveTypeService)
	leaveBalanceHandler := leavebalance.NewHandler(leaveBalanceService)
	leaveHandler := leave.NewHandler(leaveService)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))
	router.Use(middleware.RateLimitByIP(rate.Limit(20), 40))

	api := router.Group("/api/v1")
	{
		leavetype.RegisterRoutes(api, leaveTypeHandler, enforcer)
		leavebalance.RegisterRoutes(api, leaveBalanceHandler, enforcer)
		leave.RegisterRoutes(api, leaveHandler, enforcer, rdb)
	}

	return nil
}
