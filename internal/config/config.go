package config

import (
	"os"
	"strings"
	"time"

	"brickblock-backend/internal/pkg/validation"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	SessionSecret       string
	DatabaseURL         string
	RedisURL            string
	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool
	HealthAdminKey      string
	CustodyAddress      string   // account that holds sale proceeds and rent pools
	TokenSymbol         string
	MetadataSchemes     []string // accepted metadata URI prefixes
	RailWebhookSecret   string
	AdminAddress        string // seeded on boot together with AdminPassword
	AdminPassword       string
	IdempotencyTTL      time.Duration
	LogLevel            string
}

func (c *Config) IsProduction() bool { return c.Env == "production" }

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("CUSTODY_ADDRESS", "brickblock:custody")
	v.SetDefault("TOKEN_SYMBOL", "bUSD")
	v.SetDefault("METADATA_SCHEMES", "https://,ipfs://")
	v.SetDefault("IDEMPOTENCY_TTL_SECONDS", 86400)
	v.SetDefault("LOG_LEVEL", "info")

	env := v.GetString("APP_ENV")
	if env == "" {
		env = v.GetString("NODE_ENV")
	}
	if env == "" {
		env = "development"
	}

	dbURL := v.GetString("DATABASE_URL_DEV")
	if env == "production" {
		dbURL = v.GetString("DATABASE_URL_PROD")
	} else if env == "test" {
		dbURL = v.GetString("DATABASE_URL_TEST")
	}
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}

	ttl := time.Duration(v.GetInt("IDEMPOTENCY_TTL_SECONDS")) * time.Second
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &Config{
		Env:                 env,
		Port:                v.GetString("PORT"),
		SessionSecret:       v.GetString("SESSION_SECRET"),
		DatabaseURL:         dbURL,
		RedisURL:            v.GetString("REDIS_URL"),
		FrontendURLEndsWith: v.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         v.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:   strings.EqualFold(v.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
		HealthAdminKey:      v.GetString("HEALTH_ADMIN_KEY"),
		CustodyAddress:      strings.TrimSpace(v.GetString("CUSTODY_ADDRESS")),
		TokenSymbol:         v.GetString("TOKEN_SYMBOL"),
		MetadataSchemes:     validation.ParseSchemes(v.GetString("METADATA_SCHEMES")),
		RailWebhookSecret:   v.GetString("RAIL_WEBHOOK_SECRET"),
		AdminAddress:        strings.TrimSpace(v.GetString("ADMIN_ADDRESS")),
		AdminPassword:       v.GetString("ADMIN_PASSWORD"),
		IdempotencyTTL:      ttl,
		LogLevel:            strings.ToLower(v.GetString("LOG_LEVEL")),
	}, nil
}
