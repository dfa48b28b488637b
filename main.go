package main

import (
	"log"

	"rewards-admin-service/internal/config"
	"rewards-admin-service/internal/events"
	"rewards-admin-service/internal/gateway"
	"rewards-admin-service/internal/handlers"
	"rewards-admin-service/internal/middleware"
	"rewards-admin-service/internal/services"
	"rewards-admin-service/internal/websocket"
	"rewards-admin-service/internal/worker"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

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
	websocket.Sugar = sugar

	cfg, err := config.Initialize()
	if err != nil {
		sugar.Fatalw("failed to load configuration", "error", err)
	}

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	// Backend session. All outgoing calls share one service account; a 401
	// triggers a single re-login and retry inside the client.
	session := gateway.NewSession(cfg.ServiceUserName, cfg.ServicePassword)
	gw := gateway.NewClient(cfg.BackendBaseURL, cfg.MediaBaseURL, cfg.Lang, session)
	if cfg.ServiceUserName != "" {
		if _, err := gw.Login(cfg.ServiceUserName, cfg.ServicePassword); err != nil {
			sugar.Warnw("initial backend login failed, will retry on first request", "error", err)
		}
	}

	// Event bus and websocket hub
	bus := events.NewBus()
	hub := websocket.NewHub()
	go hub.Run()
	go hub.RelayBus(bus)

	// Redis/Asynq client (optional; deferred tasks fall back to in-process
	// timers when absent)
	var asynqClient *asynq.Client
	if cfg.RedisAddr != "" {
		asynqClient = asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		defer asynqClient.Close()
	}

	// Init Services
	notificationService := services.NewNotificationService(gw, bus, asynqClient)
	userService := services.NewUserService(gw)
	employeeService := services.NewEmployeeService(gw)
	roleService := services.NewRoleService(gw)
	productService := services.NewProductService(gw)
	pointsService := services.NewPointsService(gw)
	orderService := services.NewOrderService(gw, notificationService, userService, bus, asynqClient)

	// Refetch tasks mutate the in-memory order state, so their consumer runs
	// inside this process
	if cfg.RedisAddr != "" {
		worker.StartRefetchWorker(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, orderService)
	}

	// Start Cron Schedulers
	orderService.StartScheduler(cfg.ReconcileSpec)

	// Initialize Gin
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))

	// Ping endpoint
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Welcome to the rewards admin service",
		})
	})

	// Live updates
	r.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(hub, c)
	})

	authed := r.Group("/api", middleware.RequireAuth())
	admin := r.Group("/api/admin", middleware.RequireAuth(), middleware.RequireRole("admin"))

	handlers.NewAuthHandler(gw).RegisterRoutes(r)
	handlers.NewOrderHandler(orderService).RegisterRoutes(admin, authed)
	handlers.NewProductHandler(productService).RegisterRoutes(admin, authed)
	handlers.NewEmployeeHandler(employeeService).RegisterRoutes(admin)
	handlers.NewRoleHandler(roleService).RegisterRoutes(admin)
	handlers.NewUserHandler(userService).RegisterRoutes(admin, authed)
	handlers.NewNotificationHandler(notificationService).RegisterRoutes(authed)
	handlers.NewPointsHandler(pointsService).RegisterRoutes(admin, authed)

	sugar.Infow("HTTP server starting", "address", cfg.Address)
	if err := r.Run(cfg.Address); err != nil {
		sugar.Fatalw("failed to start server", "error", err)
	}
}
