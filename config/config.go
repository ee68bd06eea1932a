package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	API      APIConfig
	CORS     CORSConfig
	Discord  DiscordConfig
	PayPal   PayPalConfig
	Ads      AdsConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type APIConfig struct {
	RateLimitWritesPerSec int
}

type CORSConfig struct {
	AllowedOrigins []string
}

// DiscordConfig holds one webhook URL per content type and lifecycle event.
// Keys look like "script:pending"; an absent key disables that notification.
type DiscordConfig struct {
	Username    string
	WebhookURLs map[string]string
}

type PayPalConfig struct {
	ClientID string
	Secret   string
	Live     bool
}

type AdsConfig struct {
	SlotPriceCentsPerDay int
	Currency             string
}

var webhookContentTypes = []string{"script", "giveaway", "ad"}
var webhookEvents = []string{"pending", "approved", "rejected", "resubmitted"}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		redisDB = 0
	}

	jwtExpiry, err := strconv.Atoi(getEnv("JWT_EXPIRY_HOURS", "168"))
	if err != nil {
		jwtExpiry = 168
	}

	rateLimit, err := strconv.Atoi(getEnv("RATE_LIMIT_WRITES_PER_SECOND", "5"))
	if err != nil {
		rateLimit = 5
	}

	slotPrice, err := strconv.Atoi(getEnv("AD_SLOT_PRICE_CENTS_PER_DAY", "500"))
	if err != nil {
		slotPrice = 500
	}

	origins := strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"), ",")

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:      os.Getenv("DATABASE_URL"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "fivemhub"),
			Password: getEnv("DB_PASSWORD", "fivemhub_password"),
			DBName:   getEnv("DB_NAME", "fivemhub_db"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "change-this-secret-key"),
			ExpiryHours: jwtExpiry,
		},
		API: APIConfig{
			RateLimitWritesPerSec: rateLimit,
		},
		CORS: CORSConfig{
			AllowedOrigins: origins,
		},
		Discord: DiscordConfig{
			Username:    getEnv("DISCORD_WEBHOOK_USERNAME", "FiveM Hub"),
			WebhookURLs: loadWebhookURLs(),
		},
		PayPal: PayPalConfig{
			ClientID: getEnv("PAYPAL_CLIENT_ID", ""),
			Secret:   getEnv("PAYPAL_SECRET", ""),
			Live:     getEnv("PAYPAL_ENV", "sandbox") == "live",
		},
		Ads: AdsConfig{
			SlotPriceCentsPerDay: slotPrice,
			Currency:             getEnv("AD_CURRENCY", "USD"),
		},
	}

	// Validate required fields
	if cfg.JWT.Secret == "change-this-secret-key" && cfg.Server.Env == "production" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}

	return cfg, nil
}

// loadWebhookURLs reads DISCORD_WEBHOOK_<TYPE>_<EVENT> variables, e.g.
// DISCORD_WEBHOOK_SCRIPT_PENDING. Unset variables are skipped; the notifier
// treats a missing URL as "do not notify".
func loadWebhookURLs() map[string]string {
	urls := make(map[string]string)
	for _, ct := range webhookContentTypes {
		for _, ev := range webhookEvents {
			envKey := fmt.Sprintf("DISCORD_WEBHOOK_%s_%s", strings.ToUpper(ct), strings.ToUpper(ev))
			if v := os.Getenv(envKey); v != "" {
				urls[ct+":"+ev] = v
			}
		}
	}
	return urls
}

// GetDSN returns the database connection string. DATABASE_URL wins when set.
func (c *Config) GetDSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
