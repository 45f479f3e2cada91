package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"gamerent/internal/config"
	"gamerent/internal/database"
	"gamerent/internal/handler"
	"gamerent/internal/middleware"
	"gamerent/internal/monitor"
	"gamerent/internal/realtime"
	"gamerent/internal/redis"
	"gamerent/internal/repository"
	"gamerent/internal/service/auth"
	"gamerent/internal/service/catalog"
	"gamerent/internal/service/rental"
	"gamerent/internal/utils"
	"gamerent/pkg/log"
	"gamerent/pkg/snowflake"
	pkgutils "gamerent/pkg/utils"
)

func main() {
	cfg, err := config.LoadConfig("")
	if err != nil {
		log.WithError(err).Fatal("Failed to load config")
	}

	if err := log.Init(log.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		Filename:   cfg.Log.Filename,
		MaxSize:    cfg.Log.MaxSize,
		MaxAge:     cfg.Log.MaxAge,
		MaxBackups: cfg.Log.MaxBackups,
		Compress:   cfg.Log.Compress,
	}); err != nil {
		log.WithError(err).Fatal("Failed to initialize logging")
	}

	if err := database.Init(cfg); err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close()

	db := database.GetDB()
	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			log.WithError(err).Fatal("Failed to migrate database")
		}
		if err := database.CreateIndexes(db); err != nil {
			log.WithError(err).Warn("Failed to create extra indexes")
		}
	}
	if cfg.Database.Seed {
		if err := database.Seed(db); err != nil {
			log.WithError(err).Fatal("Failed to seed database")
		}
	}

	if err := redis.Init(cfg); err != nil {
		log.WithError(err).Fatal("Failed to initialize redis")
	}
	defer redis.Close()

	tracer, err := monitor.NewTracer(cfg.Tracing)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize tracing")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		tracer.Shutdown(shutdownCtx)
	}()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	pkgutils.RegisterCustomValidators()

	// notification hub; lives for the whole process
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := realtime.NewHub(cfg.Realtime)
	go hub.Run(hubCtx)

	idGenerator, err := snowflake.NewIDGenerator(1)
	if err != nil {
		log.WithError(err).Fatal("Failed to create ID generator")
	}

	gameRepo := repository.NewGameRepository(db)
	rentalRepo := repository.NewRentalRepository(db)
	userRepo := repository.NewUserRepository(db)

	cacheTTL := time.Duration(0)
	if cfg.Cache.Enabled {
		cacheTTL = cfg.Cache.TTL
	}
	gameService, err := catalog.NewGameService(gameRepo, cacheTTL, cfg.Cache.Shards)
	if err != nil {
		log.WithError(err).Fatal("Failed to create catalog service")
	}

	rentalService := rental.NewRentalService(rentalRepo, idGenerator, hub, gameService)

	jwtManager := utils.NewJWTManager(
		cfg.Security.JWT.Secret,
		cfg.Security.JWT.Issuer,
		cfg.Security.JWT.Expire,
		cfg.Security.JWT.RefreshExpire,
	)
	authService := auth.NewAuthService(userRepo, jwtManager, redis.GetClient())

	router := setupRouter(cfg, hub, gameService, rentalService, authService)

	server := &http.Server{
		Addr:           cfg.Server.GetAddr(),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.WithFields(map[string]interface{}{
			"addr": server.Addr,
			"mode": cfg.Server.Mode,
		}).Info("Starting HTTP server")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	stopHub()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("Server forced to shutdown")
	}

	log.Info("Server exited")
}

func setupRouter(
	cfg *config.Config,
	hub *realtime.Hub,
	gameService catalog.GameService,
	rentalService rental.RentalService,
	authService auth.AuthService,
) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	if cfg.Metrics.Enabled {
		router.Use(monitor.HTTPMetrics())
		router.GET(cfg.Metrics.Path, monitor.Handler())
	}

	healthHandler := handler.NewHealthHandler()
	router.GET("/health", healthHandler.Health)

	wsHandler := handler.NewWSHandler(hub)
	router.GET(cfg.Realtime.Path, wsHandler.Serve)

	gameHandler := handler.NewGameHandler(gameService)
	rentalHandler := handler.NewRentalHandler(rentalService)
	authHandler := handler.NewAuthHandler(authService)

	adminOnly := middleware.RequireRole(authHandler.TokenValidator(), "admin")

	api := router.Group("/api/v1")
	{
		api.GET("/games", gameHandler.ListGames)
		api.GET("/games/:id", gameHandler.GetGame)
		api.POST("/games", adminOnly, gameHandler.CreateGame)
		api.PUT("/games/:id", adminOnly, gameHandler.UpdateGame)
		api.DELETE("/games/:id", adminOnly, gameHandler.DeleteGame)

		submit := api.Group("")
		if cfg.RateLimit.Enabled {
			submit.Use(middleware.IPRateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
		submit.POST("/rentals", rentalHandler.SubmitRental)

		api.GET("/rentals", adminOnly, rentalHandler.ListRentals)
		api.GET("/rentals/:id", adminOnly, rentalHandler.GetRental)
		api.PATCH("/rentals/:id/status", adminOnly, rentalHandler.UpdateRentalStatus)

		authGroup := api.Group("/auth")
		{
			authGroup.GET("/check-setup", authHandler.CheckSetup)
			authGroup.POST("/setup", authHandler.Setup)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/logout", authHandler.Logout)
			authGroup.GET("/validate", authHandler.Validate)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/change-password", adminOnly, authHandler.ChangePassword)
		}
	}

	return router
}
