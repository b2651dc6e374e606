package internal

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"server-yool/internal/config"
	"server-yool/internal/database"
	"server-yool/internal/managers"
	"server-yool/internal/routing"
	"server-yool/internal/utils"
)

const envFile = ".env"

func Init() {
	err := godotenv.Load(envFile)
	if err != nil {
		log.Info("No .env file found, using environment variables from system")
	} else {
		log.Info("Loaded environment variables from .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration: ", err)
	}
	setLogLevel(cfg.LogLevel)
	utils.SetServiceName(cfg.ServiceName())

	if cfg.RunMigrations {
		log.Info("Running database migrations")
		if err = database.RunMigrations(cfg.Database.URL()); err != nil {
			log.Fatal("error running migrations: ", err)
		}
	}

	// Connect to database
	pool := initializeDatabase(cfg.Database)
	defer pool.Close()

	// Initialize database manager
	databaseMgr := managers.NewDatabaseManager(pool)

	// Initialize mail manager
	mailMgr := managers.NewMailManager(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.IsProduction())

	// Initialize JWT manager, a bad signing secret is fatal
	jwtMgr, err := managers.NewJWTManager(cfg.TokenSecret, time.Now)
	if err != nil {
		log.Fatal("error initializing JWT manager: ", err)
	}

	// Initialize task manager for detached work
	taskMgr := managers.NewTaskManager(cfg.TaskWorkers, cfg.TaskQueueSize, cfg.TaskTimeout)

	// Initialize router
	r := routing.InitRouter(cfg, databaseMgr, mailMgr, jwtMgr, taskMgr)
	log.Info("Initialized router")

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Infof("Starting server on port %s...", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Error starting server: ", err)
		}
	}()

	<-ctx.Done()
	log.Info("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err = server.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down server: ", err)
	}
	if err = taskMgr.Shutdown(shutdownCtx); err != nil {
		log.Error("Error draining detached tasks: ", err)
	}
	log.Info("Server stopped")
}

func initializeDatabase(dbConfig config.DatabaseConfig) *pgxpool.Pool {
	log.Info("Initializing database")

	poolConfig, err := pgxpool.ParseConfig(dbConfig.DSN())
	if err != nil {
		log.Fatal("error configuring database: ", err)
	}

	poolConfig.MinConns = dbConfig.MinConns
	poolConfig.MaxConns = dbConfig.MaxConns
	poolConfig.MaxConnIdleTime = time.Minute * 2
	poolConfig.HealthCheckPeriod = time.Minute * 1

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		log.Fatal("error connecting to database: ", err)
	}
	log.Info("Connected to database")
	return pool
}

func setLogLevel(logLevel string) {
	switch logLevel {
	case "DEBUG":
		log.SetLevel(log.DebugLevel)
	case "INFO":
		log.SetLevel(log.InfoLevel)
	case "WARN":
		log.SetLevel(log.WarnLevel)
	case "ERROR":
		log.SetLevel(log.ErrorLevel)
	case "FATAL":
		log.SetLevel(log.FatalLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}

	log.SetReportCaller(true)

	log.SetOutput(os.Stdout)
}
