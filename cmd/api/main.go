package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"university/internal/assignment"
	"university/internal/attendance"
	"university/internal/config"
	"university/internal/filestore"
	"university/internal/group"
	"university/internal/httpapi"
	"university/internal/httpmiddleware"
	"university/internal/notify"
	"university/internal/queue"
	"university/internal/schedule"
	"university/internal/store"
	"university/internal/user"
)

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		return err
	}

	redisClient := store.NewRedis(cfg.RedisAddr)
	defer redisClient.Close()

	mongoClient, err := store.NewMongo(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		// File uploads will return 503 until mongo comes back.
		log.Printf("warning: mongo not reachable: %v", err)
	}
	defer func() {
		if mongoClient != nil {
			_ = mongoClient.Close(context.Background())
		}
	}()

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, cfg.QueueKey)
	}
	dispatcher := notify.NewDispatcher(q)

	userRepo := user.NewRepository(db.Client)
	groupRepo := group.NewRepository(db.Client)
	scheduleRepo := schedule.NewRepository(db.Client)
	assignmentRepo := assignment.NewRepository(db.Client)
	attendanceRepo := attendance.NewRepository(db.Client)

	files := filestore.New(mongoClient.GridFS())

	handler := httpapi.New(
		user.NewService(userRepo),
		group.NewService(groupRepo, userRepo),
		schedule.NewService(scheduleRepo),
		assignment.NewService(assignmentRepo, files, dispatcher),
		attendance.NewService(attendanceRepo, scheduleRepo, userRepo, dispatcher),
		userRepo,
		cfg.JWTIssuer, cfg.JWTSigningKey,
		cfg.AccessTTL,
	)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())
	r.Use(httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).Middleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		ctx := c.Request.Context()
		dbHealthy := db.Healthy(ctx)
		redisHealthy := redisClient.Healthy(ctx)
		mongoHealthy := mongoClient.Healthy(ctx)
		status := http.StatusOK
		if !dbHealthy || !redisHealthy || !mongoHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"status": "ok",
			"db":     dbHealthy,
			"redis":  redisHealthy,
			"mongo":  mongoHealthy,
		})
	})

	handler.Routes(r)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

// CORS middleware for browser requests
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
