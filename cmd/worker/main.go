package main

import (
	"log"

	"rewards-admin-service/internal/config"
	"rewards-admin-service/internal/events"
	"rewards-admin-service/internal/gateway"
	"rewards-admin-service/internal/services"
	"rewards-admin-service/internal/worker"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// The worker binary drains the notifications queue. Notification dispatch has
// no in-memory state to share with the HTTP process, so it can run anywhere a
// Redis connection reaches.
func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()
	config.Sugar = sugar
	gateway.Sugar = sugar
	services.Sugar = sugar

	cfg, err := config.Initialize()
	if err != nil {
		sugar.Fatalw("failed to load configuration", "error", err)
	}
	if cfg.RedisAddr == "" {
		sugar.Fatalln("REDIS_URL is required for the notification worker")
	}

	session := gateway.NewSession(cfg.ServiceUserName, cfg.ServicePassword)
	gw := gateway.NewClient(cfg.BackendBaseURL, cfg.MediaBaseURL, cfg.Lang, session)
	if cfg.ServiceUserName != "" {
		if _, err := gw.Login(cfg.ServiceUserName, cfg.ServicePassword); err != nil {
			sugar.Warnw("initial backend login failed, will retry on first request", "error", err)
		}
	}

	notificationService := services.NewNotificationService(gw, events.NewBus(), nil)

	sugar.Infoln("starting notification worker")
	worker.StartNotificationWorker(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, notificationService)
}
