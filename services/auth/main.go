package main

import (
	"code-campus/pkg/config"
	"code-campus/pkg/database"
	"code-campus/pkg/logger"
	"code-campus/pkg/queue"
	authApp "code-campus/services/auth/internal/app"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New()
	defer log.Sync()

	db, err := database.NewMySQLDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	// The broker is optional for auth; registration events degrade to
	// log-and-continue when it is down.
	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Warn("Running without RabbitMQ, registration events disabled: %v", err)
		queueClient = nil
	}

	authApp.Run(cfg, log, db, queueClient)
}
