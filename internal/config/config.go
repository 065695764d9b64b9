package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application. It is built once at
// process start and passed by reference into every component; nothing reads
// the environment after Load returns.
type Config struct {
	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		SSLMode  string
	}

	Server struct {
		Port    string
		GinMode string
	}

	CORS struct {
		AllowOrigins string
		AllowMethods string
		AllowHeaders string
	}

	Mail struct {
		SendGridKey  string
		FromEmail    string
		FromName     string
		ReplyTo      string
		SMTPHost     string
		SMTPPort     int
		SMTPUser     string
		SMTPPassword string
	}

	Auth struct {
		JWTSecret string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	Storage struct {
		Backend        string // "local" or "minio"
		LocalDir       string
		MinioEndpoint  string
		MinioAccessKey string
		MinioSecretKey string
		MinioBucket    string
		MinioUseSSL    bool
		MaxFileSize    int64
	}

	Assets struct {
		BadgeDir string
		FontDir  string
	}

	Site struct {
		URL        string
		EventCode  string
		EventName  string
		AdminEmail string
	}
}

// Load loads configuration from environment variables
func Load() *Config {
	_ = godotenv.Load()

	config := &Config{}

	config.DB.Host = getEnv("DB_HOST", "localhost")
	config.DB.Port = getEnv("DB_PORT", "5432")
	config.DB.User = getEnv("DB_USER", "accreditation")
	config.DB.Password = getEnv("DB_PASSWORD", "accreditation_password")
	config.DB.Name = getEnv("DB_NAME", "accreditation_db")
	config.DB.SSLMode = getEnv("DB_SSLMODE", "disable")

	config.Server.Port = getEnv("PORT", "8080")
	config.Server.GinMode = getEnv("GIN_MODE", "debug")

	config.CORS.AllowOrigins = getEnv("CORS_ALLOW_ORIGINS", "*")
	config.CORS.AllowMethods = getEnv("CORS_ALLOW_METHODS", "GET,POST,PUT,PATCH,DELETE,HEAD,OPTIONS")
	config.CORS.AllowHeaders = getEnv("CORS_ALLOW_HEADERS", "Origin,Content-Length,Content-Type,Authorization")

	config.Mail.SendGridKey = getEnv("SENDGRID_API_KEY", "")
	config.Mail.FromEmail = getEnv("MAIL_FROM_EMAIL", "inscription@ecofest.app")
	config.Mail.FromName = getEnv("MAIL_FROM_NAME", "ECOFEST Accreditation")
	config.Mail.ReplyTo = getEnv("MAIL_REPLY_TO", "inscription@ecofest.app")
	// sin host no hay canal SMTP: el despachador lo omite
	config.Mail.SMTPHost = getEnv("SMTP_HOST", "")
	config.Mail.SMTPPort = int(getEnvAsInt64("SMTP_PORT", 587))
	config.Mail.SMTPUser = getEnv("SMTP_USER", "")
	config.Mail.SMTPPassword = getEnv("SMTP_PASSWORD", "")

	config.Auth.JWTSecret = getEnv("JWT_SECRET", "")

	config.Redis.Addr = getEnv("REDIS_ADDR", "")
	config.Redis.Password = getEnv("REDIS_PASSWORD", "")
	config.Redis.DB = int(getEnvAsInt64("REDIS_DB", 0))

	config.Storage.Backend = getEnv("STORAGE_BACKEND", "local")
	config.Storage.LocalDir = getEnv("STORAGE_LOCAL_DIR", "./media")
	config.Storage.MinioEndpoint = getEnv("MINIO_ENDPOINT", "localhost:9000")
	config.Storage.MinioAccessKey = getEnv("MINIO_ACCESS_KEY", "")
	config.Storage.MinioSecretKey = getEnv("MINIO_SECRET_KEY", "")
	config.Storage.MinioBucket = getEnv("MINIO_BUCKET", "accreditation")
	config.Storage.MinioUseSSL = getEnvAsBool("MINIO_USE_SSL", false)
	config.Storage.MaxFileSize = getEnvAsInt64("MAX_FILE_SIZE", 10485760)

	config.Assets.BadgeDir = getEnv("BADGE_TEMPLATE_DIR", "./static/badges")
	config.Assets.FontDir = getEnv("FONT_DIR", "./static/fonts")

	config.Site.URL = getEnv("SITE_URL", "https://ecofest.app")
	config.Site.EventCode = getEnv("EVENT_CODE", "ECOFEST2025")
	config.Site.EventName = getEnv("EVENT_NAME", "ECOFEST 2025")
	config.Site.AdminEmail = getEnv("ADMIN_NOTIFY_EMAIL", "")

	return config
}

// GetDatabaseURL returns the database connection URL
func (c *Config) GetDatabaseURL() string {
	return "postgres://" + c.DB.User + ":" + c.DB.Password + "@" + c.DB.Host + ":" + c.DB.Port + "/" + c.DB.Name + "?sslmode=" + c.DB.SSLMode
}

// QueueEnabled reports whether an async job queue is configured. When false
// the lifecycle controller runs notification work synchronously.
func (c *Config) QueueEnabled() bool {
	return c.Redis.Addr != ""
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt64 gets an environment variable as int64 or returns a default value
func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool gets an environment variable as bool or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
