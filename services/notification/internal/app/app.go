package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"code-campus/pkg/config"
	"code-campus/pkg/jwt"
	"code-campus/pkg/logger"
	"code-campus/pkg/middleware"
	"code-campus/pkg/queue"
	notificationHTTP "code-campus/services/notification/internal/controller/http"
	"code-campus/services/notification/internal/repo/persistent"
	"code-campus/services/notification/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "code-campus/services/notification/docs" // Swagger docs
)

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client, queueClient *queue.Client) {
	jwtService := jwt.NewService(cfg.JWTSecret)

	notificationRepo := persistent.NewNotificationRepository(db)
	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo, redisClient, log)
	notificationHandler := notificationHTTP.NewNotificationHandler(notificationUseCase, log)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check, with the event backlog when a broker is wired
	r.GET("/health", func(c *gin.Context) {
		health := gin.H{"status": "ok"}
		if queueClient != nil {
			if pending, err := queueClient.GetQueueLength(); err == nil {
				health["pending_events"] = pending
			} else {
				log.Warn("Failed to inspect event queue: %v", err)
			}
		}
		c.JSON(200, health)
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(jwtService))
	if redisClient != nil {
		protected.Use(middleware.RateLimitMiddleware(redisClient, 120, time.Minute))
	}
	{
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllRead)
		protected.DELETE("/notifications", notificationHandler.ClearAll)
		protected.POST("/notifications", middleware.RequireRole("admin"), notificationHandler.CreateNotification)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// Consume domain events published by the other services. Routing mirrors
	// the closed notification type set; unknown events are dropped with an
	// error so the broker does not redeliver them forever.
	if queueClient != nil {
		err := queueClient.ConsumeDomainEvents(func(event map[string]interface{}) error {
			eventType, _ := event["event"].(string)
			switch eventType {
			case "user_registration":
				return notificationUseCase.HandleRegistrationEvent(event)
			case "course_enrollment":
				return notificationUseCase.HandleEnrollmentEvent(event)
			case "assignment_submission":
				return notificationUseCase.HandleSubmissionEvent(event)
			case "grade_assigned":
				return notificationUseCase.HandleGradeEvent(event)
			case "system_announcement":
				return notificationUseCase.HandleAnnouncementEvent(event)
			default:
				return fmt.Errorf("unknown event type: %q", eventType)
			}
		})
		if err != nil {
			log.Error("Error starting domain event consumer: %v", err)
		}
	} else {
		log.Warn("Running without a message broker; only the HTTP creation path is active")
	}

	go func() {
		log.Info("Notification service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down notification service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis: %v", err)
		}
	}

	if queueClient != nil {
		queueClient.Close()
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
		panic(err)
	}

	log.Info("Notification service exited")
}
