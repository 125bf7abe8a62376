package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Telegram TelegramConfig
	Tokens   TokenConfig
	Rewards  RewardsConfig
}

type ServerConfig struct {
	Port         string
	Environment  string
	AllowOrigins string
	InternalKey  string // Shared secret for /internal endpoints
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type AuthConfig struct {
	// Secret used by the identity provider to sign user access tokens
	UserJWTSecret string
	// Secret used to sign staff session tokens issued by /api/promotor/auth
	StaffJWTSecret  string
	StaffSessionTTL time.Duration
}

type TelegramConfig struct {
	BotToken  string
	OpsChatID int64 // Chat receiving redemption summaries, 0 disables
}

type TokenConfig struct {
	TTL         time.Duration
	CodeLength  int
	MaxAttempts int
}

type RewardsConfig struct {
	WeightThresholdGrams   int64
	WeightBonusPointsPerKg int64
	SubeEnvasesPoints      int64
	SubeEnvasesTickets     int64
	SubeAVUPoints          int64
	SubeAVUTickets         int64
}

func (d DatabaseConfig) DSN() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.Name + "?sslmode=" + d.SSLMode
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	opsChatID, _ := strconv.ParseInt(getEnv("TELEGRAM_OPS_CHAT_ID", "0"), 10, 64)

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Environment:  getEnv("ENVIRONMENT", "development"),
			AllowOrigins: getEnv("ALLOW_ORIGINS", "*"),
			InternalKey:  getEnv("INTERNAL_API_KEY", ""),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "verdescan"),
			Password: getEnv("DB_PASSWORD", "verdescan"),
			Name:     getEnv("DB_NAME", "verdescan"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			UserJWTSecret:   getEnv("SUPABASE_JWT_SECRET", ""),
			StaffJWTSecret:  getEnv("STAFF_JWT_SECRET", "change-me-in-production"),
			StaffSessionTTL: getEnvDuration("STAFF_SESSION_TTL", 12*time.Hour),
		},
		Telegram: TelegramConfig{
			BotToken:  getEnv("TELEGRAM_BOT_TOKEN", ""),
			OpsChatID: opsChatID,
		},
		Tokens: TokenConfig{
			TTL:         getEnvDuration("TOKEN_TTL", DefaultTokenTTL),
			CodeLength:  getEnvInt("TOKEN_CODE_LENGTH", DefaultTokenCodeLength),
			MaxAttempts: getEnvInt("TOKEN_CODE_MAX_ATTEMPTS", DefaultTokenCodeAttempts),
		},
		Rewards: RewardsConfig{
			WeightThresholdGrams:   int64(getEnvInt("WEIGHT_THRESHOLD_GRAMS", 1000)),
			WeightBonusPointsPerKg: int64(getEnvInt("WEIGHT_BONUS_POINTS_PER_KG", 50)),
			SubeEnvasesPoints:      int64(getEnvInt("SUBE_ENVASES_POINTS", 10)),
			SubeEnvasesTickets:     int64(getEnvInt("SUBE_ENVASES_TICKETS", 2)),
			SubeAVUPoints:          int64(getEnvInt("SUBE_AVU_POINTS", 20)),
			SubeAVUTickets:         int64(getEnvInt("SUBE_AVU_TICKETS", 4)),
		},
	}

	return cfg, nil
}

// Default returns the configuration used when no environment is present.
func Default() *Config {
	return &Config{
		Auth: AuthConfig{StaffSessionTTL: 12 * time.Hour},
		Tokens: TokenConfig{
			TTL:         DefaultTokenTTL,
			CodeLength:  DefaultTokenCodeLength,
			MaxAttempts: DefaultTokenCodeAttempts,
		},
		Rewards: RewardsConfig{
			WeightThresholdGrams:   1000,
			WeightBonusPointsPerKg: 50,
			SubeEnvasesPoints:      10,
			SubeEnvasesTickets:     2,
			SubeAVUPoints:          20,
			SubeAVUTickets:         4,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// Token defaults
const (
	DefaultTokenTTL          = 15 * time.Minute
	DefaultTokenCodeLength   = 6
	DefaultTokenCodeAttempts = 10
)

// Background job intervals
const (
	BinReconcileInterval = 5 * time.Minute
)
