package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	MediaDir          string `mapstructure:"MEDIA_DIR"`

	TokenTTL time.Duration `mapstructure:"TOKEN_TTL"`

	// Gateway client.
	APIBaseURL     string        `mapstructure:"API_BASE_URL"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	PollInterval   time.Duration `mapstructure:"POLL_INTERVAL"`
	ClientTimezone string        `mapstructure:"CLIENT_TIMEZONE"`

	// Dev backend storage. An empty DATABASE_URL keeps everything in memory.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis session cache.
	RedisAddr      string        `mapstructure:"REDIS_ADDR"`
	RedisPassword  string        `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB int           `mapstructure:"REDIS_SESSION_DB"`
	SessionTTL     time.Duration `mapstructure:"SESSION_TTL"`

	// Tracing. An empty endpoint disables export.
	OtelEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelInsecure bool   `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
}

var AppConfig Config

func LoadConfig() {
	// A local .env file is optional.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8000")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "levi-dev-secret")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("MEDIA_DIR", "./media")
	viper.SetDefault("TOKEN_TTL", "24h")
	viper.SetDefault("API_BASE_URL", "http://localhost:8000/api")
	viper.SetDefault("REQUEST_TIMEOUT", "10s")
	viper.SetDefault("POLL_INTERVAL", "60s")
	viper.SetDefault("CLIENT_TIMEZONE", "Local")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DATABASE_NAME", "levi")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SESSION_DB", 0)
	viper.SetDefault("SESSION_TTL", "720h")
	viper.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	viper.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// Location resolves CLIENT_TIMEZONE, falling back to the local zone.
func Location() *time.Location {
	name := AppConfig.ClientTimezone
	if name == "" || name == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("Unknown CLIENT_TIMEZONE %q, using local time", name)
		return time.Local
	}
	return loc
}
