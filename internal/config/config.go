// Package config loads the server configuration from environment variables,
// applying defaults and validating the result once at startup.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// MinTokenSecretLength is the minimum accepted length of TOKEN_SECRET in bytes.
const MinTokenSecretLength = 32

// DatabaseConfig holds the PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	MinConns int32
	MaxConns int32
}

// Config holds all configuration values of the server.
type Config struct {
	Port        string
	Environment string // production enables outgoing mails
	LogLevel    string // DEBUG|INFO|WARN|ERROR|FATAL
	PullRequest string // PR_NUMBER, shown in the metadata route and log fields

	Database      DatabaseConfig
	RunMigrations bool

	TokenSecret      string
	AuthLegacyStatus bool // missing token answers 404 instead of 401

	CORSAllowedOrigins []string
	AuthRateRPS        float64
	AuthRateBurst      int

	TaskWorkers   int
	TaskQueueSize int
	TaskTimeout   time.Duration

	VerifyEmailDomain bool
	MailgunDomain     string
	MailgunAPIKey     string

	ShutdownTimeout time.Duration
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getenv("PORT", "8080"),
		Environment: getenv("ENVIRONMENT", "development"),
		LogLevel:    strings.ToUpper(getenv("LOG_LEVEL", "INFO")),
		PullRequest: getenv("PR_NUMBER", ""),

		Database: DatabaseConfig{
			Host:     getenv("DB_HOST", ""),
			Port:     getenv("DB_PORT", "5432"),
			User:     getenv("DB_USER", ""),
			Password: getenv("DB_PASS", ""),
			Name:     getenv("DB_NAME", ""),
			SSLMode:  getenv("DB_SSLMODE", "disable"),
			MinConns: int32(getint("DB_MIN_CONNS", 5)),
			MaxConns: int32(getint("DB_MAX_CONNS", 30)),
		},
		RunMigrations: getbool("RUN_MIGRATIONS", true),

		TokenSecret:      getenv("TOKEN_SECRET", ""),
		AuthLegacyStatus: getbool("AUTH_LEGACY_STATUS", false),

		CORSAllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:19000")),
		AuthRateRPS:        getfloat("AUTH_RATE_RPS", 1.0),
		AuthRateBurst:      getint("AUTH_RATE_BURST", 10),

		TaskWorkers:   getint("TASK_WORKERS", 4),
		TaskQueueSize: getint("TASK_QUEUE_SIZE", 256),
		TaskTimeout:   getdur("TASK_TIMEOUT", 5*time.Second),

		VerifyEmailDomain: getbool("VERIFY_EMAIL_DOMAIN", false),
		MailgunDomain:     getenv("MAILGUN_DOMAIN", "mail.yool.app"),
		MailgunAPIKey:     getenv("MAILGUN_API_KEY", ""),

		ShutdownTimeout: getdur("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if cfg.LogLevel == "WARNING" {
		cfg.LogLevel = "WARN"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	switch cfg.LogLevel {
	case "DEBUG", "INFO", "WARN", "ERROR", "FATAL":
	default:
		return errors.New("LOG_LEVEL must be one of: DEBUG, INFO, WARN, ERROR, FATAL")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return errors.New("PORT must not be empty")
	}
	db := cfg.Database
	if db.Host == "" || db.Port == "" || db.User == "" || db.Password == "" || db.Name == "" {
		return errors.New("database environment variables not set")
	}
	if db.MinConns < 0 || db.MaxConns < 1 || db.MinConns > db.MaxConns {
		return errors.New("DB_MIN_CONNS must be >= 0 and not above DB_MAX_CONNS")
	}
	if len(cfg.TokenSecret) < MinTokenSecretLength {
		return fmt.Errorf("TOKEN_SECRET must be at least %d bytes", MinTokenSecretLength)
	}
	if cfg.AuthRateRPS <= 0 {
		return errors.New("AUTH_RATE_RPS must be > 0")
	}
	if cfg.AuthRateBurst < 1 {
		return errors.New("AUTH_RATE_BURST must be >= 1")
	}
	if cfg.TaskWorkers < 1 || cfg.TaskQueueSize < 1 {
		return errors.New("TASK_WORKERS and TASK_QUEUE_SIZE must be >= 1")
	}
	if cfg.TaskTimeout <= 0 || cfg.ShutdownTimeout <= 0 {
		return errors.New("timeouts must be positive durations")
	}
	return nil
}

// IsProduction reports whether the server runs in the production environment.
func (cfg *Config) IsProduction() bool {
	return cfg.Environment == "production"
}

// ServiceName is the value of the "service" log field.
func (cfg *Config) ServiceName() string {
	if cfg.PullRequest == "" {
		return "main"
	}
	return "PR-" + cfg.PullRequest
}

// DSN returns the keyword/value connection string used by pgxpool.
func (db DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		db.Host, db.Port, db.User, db.Password, db.Name, db.SSLMode)
}

// URL returns the postgres:// form of the connection settings used by the migrator.
func (db DatabaseConfig) URL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(db.User, db.Password),
		Host:     db.Host + ":" + db.Port,
		Path:     "/" + db.Name,
		RawQuery: "sslmode=" + url.QueryEscape(db.SSLMode),
	}
	return u.String()
}

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
