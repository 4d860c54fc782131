package app

import (
	"net/http"

	"go-lams/internal/attachment"
	"go-lams/internal/attendance"
	"go-lams/internal/auth"
	"go-lams/internal/calendar"
	"go-lams/internal/leave"
	"go-lams/internal/leavetype"
	"go-lams/internal/messaging/kafka"
	"go-lams/internal/middleware"
	"go-lams/internal/notification"
	"go-lams/internal/quota"
	"go-lams/internal/team"
	"go-lams/internal/user"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// registerModules builds every repository, service and handler and mounts the
// HTTP surface under /api.
func registerModules(router *gin.Engine, d *Deps) error {
	logger := d.Logger

	userRepo := user.NewRepository(d.GormDB)
	teamRepo := team.NewRepository(d.GormDB)
	leaveTypeRepo := leavetype.NewRepository(d.GormDB)
	quotaRepo := quota.NewRepository(d.GormDB)
	leaveRepo := leave.NewRepository(d.GormDB, d.SQLDB)
	attachmentRepo := attachment.NewRepository(d.GormDB)
	attendanceRepo := attendance.NewRepository(d.GormDB)
	notificationRepo := notification.NewRepository(d.GormDB)
	outboxRepo := kafka.NewOutboxRepository(d.SQLDB)

	teamResolver := team.NewService(teamRepo, logger)

	blobs, err := attachment.NewLocalBlobStore(d.Config.BlobDir)
	if err != nil {
		return err
	}

	authService := auth.NewService(userRepo, []byte(d.Config.JWTSecret), d.Config.TokenTTL, logger)
	userService := user.NewService(userRepo, teamResolver, logger)
	leaveService := leave.NewService(d.SQLDB, leaveRepo, quotaRepo, leaveTypeRepo, userRepo, teamResolver, outboxRepo, logger)
	calendarService := calendar.NewService(leaveRepo, teamResolver, logger)
	attachmentService := attachment.NewService(attachmentRepo, leaveRepo, teamResolver, blobs, logger)
	attendanceService := attendance.NewService(attendanceRepo, logger)
	notificationService := notification.NewService(notificationRepo, logger)

	router.Use(
		middleware.RequestID(),
		middleware.ContextLogger(logger),
		middleware.RateLimitByIP(rate.Limit(20), 40),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	api.Use(middleware.Idempotency(d.Redis))

	authn := middleware.AuthMiddleware([]byte(d.Config.JWTSecret))

	auth.RegisterRoutes(api, auth.NewHandler(authService, logger))
	user.RegisterRoutes(api, user.NewHandler(userService, logger), authn)
	team.RegisterRoutes(api, team.NewHandler(teamResolver, logger), authn)
	leavetype.RegisterRoutes(api, leavetype.NewHandler(leaveTypeRepo, logger), authn)
	leave.RegisterRoutes(api, leave.NewHandler(leaveService, logger), authn)
	calendar.RegisterRoutes(api, calendar.NewHandler(calendarService, logger), authn)
	attachment.RegisterRoutes(api, attachment.NewHandler(attachmentService, logger), authn)
	attendance.RegisterRoutes(api, attendance.NewHandler(attendanceService, logger), authn)
	notification.RegisterRoutes(api, notification.NewHandler(notificationService, logger), authn)

	return nil
}
