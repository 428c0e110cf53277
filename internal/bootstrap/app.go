// Package bootstrap loads configuration and assembles the application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	httpHandler "feedchat/internal/handler/http"
	wsHandler "feedchat/internal/handler/websocket"
	"feedchat/internal/hub"
	gormpersistence "feedchat/internal/infra/persistence/gorm"
	"feedchat/internal/infra/setup"
	"feedchat/internal/middleware"
	"feedchat/internal/service"
	"feedchat/internal/session"
	"feedchat/internal/worker"
)

// defaultSessionSecret is only acceptable for local development. LoadConfig
// refuses it in production.
const defaultSessionSecret = "dev-insecure-session-secret"

// Config holds everything read from the environment.
type Config struct {
	ServerPort      string
	AppEnv          string // development/production
	LogLevel        string
	SessionSecret   string
	SessionTTLHours int
	TemplatesGlob   string

	DBDriver      string // sqlite (default) or mysql
	DBPath        string // sqlite file
	MySQLUser     string
	MySQLPassword string
	MySQLHost     string
	MySQLPort     string
	MySQLDB       string

	// Optional; enables the background retention worker when set.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// LoadConfig reads configuration from a .env file (if present) and the
// environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // environment-only configuration is fine

	cfg := &Config{
		ServerPort:    os.Getenv("SERVER_PORT"),
		AppEnv:        os.Getenv("APP_ENV"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		TemplatesGlob: os.Getenv("TEMPLATES_GLOB"),
		DBDriver:      os.Getenv("DB_DRIVER"),
		DBPath:        os.Getenv("DB_PATH"),
		MySQLUser:     os.Getenv("MYSQL_USER"),
		MySQLPassword: os.Getenv("MYSQL_PASSWORD"),
		MySQLHost:     os.Getenv("MYSQL_HOST"),
		MySQLPort:     os.Getenv("MYSQL_PORT"),
		MySQLDB:       os.Getenv("MYSQL_DB"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}
	cfg.RedisDB, _ = strconv.Atoi(os.Getenv("REDIS_DB"))
	cfg.SessionTTLHours, _ = strconv.Atoi(os.Getenv("SESSION_TTL_HOURS"))

	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.AppEnv == "" {
		cfg.AppEnv = "development"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.TemplatesGlob == "" {
		cfg.TemplatesGlob = "web/templates/*.html"
	}
	if cfg.DBDriver == "" {
		cfg.DBDriver = "sqlite"
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "feedchat.db"
	}
	if cfg.SessionTTLHours <= 0 {
		cfg.SessionTTLHours = 24
	}
	if cfg.SessionSecret == "" {
		if cfg.AppEnv == "production" {
			return nil, fmt.Errorf("environment variable SESSION_SECRET must be set in production")
		}
		logrus.Warn("SESSION_SECRET not set, using insecure development default")
		cfg.SessionSecret = defaultSessionSecret
	}

	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logrus.Warnf("Invalid LOG_LEVEL '%s', using default 'info'", cfg.LogLevel)
		cfg.LogLevel = "info"
	}
	return cfg, nil
}

// App holds the assembled application components.
type App struct {
	Config      *Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Worker      *worker.WorkerServer
	Hub         *hub.Hub
	HttpServer  *http.Server
}

// NewApp loads configuration and wires every component together.
func NewApp() (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return nil, err
	}

	log := logrus.New()
	if cfg.AppEnv == "production" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, ForceColors: true})
	}
	logLevel, _ := logrus.ParseLevel(cfg.LogLevel)
	log.SetLevel(logLevel)
	log.SetOutput(os.Stdout)
	log.Info("Configuration loaded successfully")

	db, err := setup.OpenDB(setup.DBConfig{
		Driver:   cfg.DBDriver,
		Path:     cfg.DBPath,
		User:     cfg.MySQLUser,
		Password: cfg.MySQLPassword,
		Host:     cfg.MySQLHost,
		Port:     cfg.MySQLPort,
		Name:     cfg.MySQLDB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init DB: %w", err)
	}
	if err := setup.MigrateDB(db); err != nil {
		return nil, fmt.Errorf("failed to migrate DB: %w", err)
	}
	log.Infof("Database initialized (%s)", cfg.DBDriver)

	userRepo := gormpersistence.NewGormUserRepository(db)
	postRepo := gormpersistence.NewGormPostRepository(db)
	chatRepo := gormpersistence.NewGormChatMessageRepository(db)

	authService := service.NewAuthService(userRepo)
	feedService := service.NewFeedService(postRepo)
	chatService := service.NewChatService(chatRepo)
	retentionService := service.NewRetentionService(postRepo, chatRepo)

	codec, err := session.NewCodec(cfg.SessionSecret, time.Duration(cfg.SessionTTLHours)*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("failed to create session codec: %w", err)
	}

	hubInstance := hub.NewHub(chatService)

	secureCookies := cfg.AppEnv == "production"
	authHandler := httpHandler.NewAuthHandler(authService, codec, secureCookies)
	feedHandler := httpHandler.NewFeedHandler(feedService)
	websocketHandler := wsHandler.NewWebSocketHandler(hubInstance)

	// Background retention is optional; the per-request sweep is always on.
	var redisClient *redis.Client
	var workerServer *worker.WorkerServer
	if cfg.RedisAddr != "" {
		// asynq dials Redis itself from redisOpt; this client only verifies
		// reachability at startup and is closed on shutdown.
		redisClient, err = setup.OpenRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("failed to init Redis: %w", err)
		}
		redisOpt := asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
		workerServer = worker.NewWorkerServer(redisOpt, retentionService, log)
		log.Info("Background retention worker initialized")
	}

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(log))
	router.Use(middleware.SweepBeforeRequest(retentionService))
	router.Use(middleware.OptionalSession(codec))
	router.LoadHTMLGlob(cfg.TemplatesGlob)

	router.GET("/", middleware.RequireSession(), feedHandler.Home)
	router.GET("/register", authHandler.ShowRegister)
	router.POST("/register", authHandler.Register)
	router.GET("/login", authHandler.ShowLogin)
	router.POST("/login", authHandler.Login)
	router.GET("/logout", authHandler.Logout)
	router.POST("/post", middleware.RequireSession(), feedHandler.CreatePost)
	router.GET("/ws", websocketHandler.HandleConnection)

	httpServer := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	return &App{
		Config:      cfg,
		Log:         log,
		DB:          db,
		RedisClient: redisClient,
		Worker:      workerServer,
		Hub:         hubInstance,
		HttpServer:  httpServer,
	}, nil
}

// Start launches the hub, the optional worker and the HTTP server.
func (a *App) Start() {
	go a.Hub.Run()
	a.Log.Info("Hub routine started")

	if a.Worker != nil {
		go a.Worker.Start()
		a.Log.Info("Background retention worker started")
	}

	go func() {
		a.Log.Infof("HTTP server listening on %s", a.HttpServer.Addr)
		if err := a.HttpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Fatalf("Failed to start HTTP server: %v", err)
		}
		a.Log.Info("HTTP server stopped listening.")
	}()
}

// Shutdown stops the components in reverse dependency order.
func (a *App) Shutdown() {
	a.Log.Info("Shutting down application...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.HttpServer.Shutdown(ctx); err != nil {
		a.Log.Errorf("Error shutting down HTTP server: %v", err)
	} else {
		a.Log.Info("HTTP server shut down gracefully.")
	}

	// Server.Shutdown does not close hijacked websocket connections; their
	// read pumps may still queue messages. The stopped hub rejects those.
	a.Hub.Stop()

	if a.Worker != nil {
		a.Worker.Shutdown()
	}
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Log.Errorf("Error closing Redis connection: %v", err)
		}
	}
	a.Log.Info("Application shutdown complete.")
}

// LoggerMiddleware logs one line per request with status, latency and path.
func LoggerMiddleware(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()
		latency := time.Since(startTime)
		statusCode := c.Writer.Status()
		path := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			path = path + "?" + c.Request.URL.RawQuery
		}

		entry := log.WithFields(logrus.Fields{
			"status_code": statusCode,
			"latency_ms":  latency.Milliseconds(),
			"client_ip":   c.ClientIP(),
			"method":      c.Request.Method,
			"path":        path,
		})
		errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String()
		switch {
		case errorMessage != "":
			entry.Error(errorMessage)
		case statusCode >= 500:
			entry.Error("Server error")
		case statusCode >= 400:
			entry.Warn("Client error")
		default:
			entry.Info("Request handled")
		}
	}
}
