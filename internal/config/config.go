package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	SMTP      SMTPConfig
	Helpdesk  HelpdeskConfig
	Upload    UploadConfig
	OTP       OTPConfig
	Worker    WorkerConfig
	RateLimit RateLimitConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	BodyLimitMB           int
	CORSOrigins           string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	MigrationsDir  string
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// SMTPConfig points at the mail relay. An empty Host switches to the log mailer.
type SMTPConfig struct {
	Host           string
	Port           int
	Username       string
	Password       string
	FromName       string
	FromAddress    string
	TimeoutSeconds int
}

// HelpdeskConfig holds organization specific constants.
type HelpdeskConfig struct {
	OpsMailbox      string
	CorporateDomain string
	TicketPrefix    string
	EmployeePrefix  string
	BootstrapAdmin  BootstrapAdminConfig
}

// BootstrapAdminConfig describes the admin account seeded on startup so a
// fresh install can log in. An empty Email disables seeding.
type BootstrapAdminConfig struct {
	Email    string
	Password string
	Name     string
	MobileNo string
}

// UploadConfig controls where uploaded files land and how large they may be.
type UploadConfig struct {
	Dir               string
	AttachmentMaxMB   int
	ProfileImageMaxMB int
}

// OTPConfig controls one-time code behavior.
type OTPConfig struct {
	TTLMinutes      int
	CooldownSeconds int
}

// WorkerConfig sizes the asynchronous notification pool.
type WorkerConfig struct {
	Workers   int
	QueueSize int
}

// RateLimitConfig applies to public endpoints, per client IP.
type RateLimitConfig struct {
	RPS   int
	Burst int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "dassist-helpdesk"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "4001"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			BodyLimitMB:           getEnvAsInt("HTTP_BODY_LIMIT_MB", 55),
			CORSOrigins:           getEnv("HTTP_CORS_ORIGINS", "http://localhost:3000"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			MigrationsDir:  getEnv("POSTGRES_MIGRATIONS_DIR", "migrations"),
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 480),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		SMTP: SMTPConfig{
			Host:           os.Getenv("SMTP_HOST"),
			Port:           getEnvAsInt("SMTP_PORT", 587),
			Username:       os.Getenv("SMTP_USERNAME"),
			Password:       os.Getenv("SMTP_PASSWORD"),
			FromName:       getEnv("SMTP_FROM_NAME", "Dolluz Support"),
			FromAddress:    getEnv("SMTP_FROM_ADDRESS", "support@dolluzcorp.in"),
			TimeoutSeconds: getEnvAsInt("SMTP_TIMEOUT_SECONDS", 15),
		},
		Helpdesk: HelpdeskConfig{
			OpsMailbox:      getEnv("HELPDESK_OPS_MAILBOX", "info@dolluzcorp.com"),
			CorporateDomain: getEnv("HELPDESK_CORPORATE_DOMAIN", "@dolluzcorp.com"),
			TicketPrefix:    getEnv("HELPDESK_TICKET_PREFIX", "DZIND"),
			EmployeePrefix:  getEnv("HELPDESK_EMPLOYEE_PREFIX", "dAssist"),
			BootstrapAdmin:  BootstrapAdminConfig{
				Email:    os.Getenv("HELPDESK_BOOTSTRAP_ADMIN_EMAIL"),
				Password: os.Getenv("HELPDESK_BOOTSTRAP_ADMIN_PASSWORD"),
				Name:     getEnv("HELPDESK_BOOTSTRAP_ADMIN_NAME", "Helpdesk Admin"),
				MobileNo: getEnv("HELPDESK_BOOTSTRAP_ADMIN_MOBILE", "0000000000"),
			},
		},
		Upload: UploadConfig{
			Dir:               getEnv("UPLOAD_DIR", "."),
			AttachmentMaxMB:   getEnvAsInt("UPLOAD_ATTACHMENT_MAX_MB", 50),
			ProfileImageMaxMB: getEnvAsInt("UPLOAD_PROFILE_MAX_MB", 10),
		},
		OTP: OTPConfig{
			TTLMinutes:      getEnvAsInt("OTP_TTL_MINUTES", 5),
			CooldownSeconds: getEnvAsInt("OTP_COOLDOWN_SECONDS", 30),
		},
		Worker: WorkerConfig{
			Workers:   getEnvAsInt("WORKER_NOTIFICATION_WORKERS", 2),
			QueueSize: getEnvAsInt("WORKER_NOTIFICATION_QUEUE", 100),
		},
		RateLimit: RateLimitConfig{
			RPS:   getEnvAsInt("RATE_LIMIT_RPS", 5),
			Burst: getEnvAsInt("RATE_LIMIT_BURST", 20),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// BodyLimit returns the maximum request body size in bytes.
func (a AppConfig) BodyLimit() int {
	if a.BodyLimitMB <= 0 {
		return 4 * 1024 * 1024
	}
	return a.BodyLimitMB * 1024 * 1024
}

// Timeout returns the SMTP send timeout.
func (s SMTPConfig) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// AttachmentMaxBytes returns the ticket attachment limit.
func (u UploadConfig) AttachmentMaxBytes() int64 {
	return int64(u.AttachmentMaxMB) * 1024 * 1024
}

// ProfileImageMaxBytes returns the profile image limit.
func (u UploadConfig) ProfileImageMaxBytes() int64 {
	return int64(u.ProfileImageMaxMB) * 1024 * 1024
}

// TTL returns how long an issued OTP stays valid.
func (o OTPConfig) TTL() time.Duration {
	if o.TTLMinutes <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(o.TTLMinutes) * time.Minute
}

// Cooldown returns the minimum spacing between two OTP sends to one identifier.
func (o OTPConfig) Cooldown() time.Duration {
	if o.CooldownSeconds <= 0 {
		return 0
	}
	return time.Duration(o.CooldownSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
