package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	CartStoreMemory   = "memory"
	CartStorePostgres = "postgres"
	CartStoreRedis    = "redis"

	MenuSourceBuiltin  = "builtin"
	MenuSourcePostgres = "postgres"
)

type Config struct {
	DB       DBConfig
	Redis    RedisConfig
	Telegram TelegramConfig
	HTTP     HTTPConfig
	Shop     ShopConfig
	Debug    bool
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CartTTL  time.Duration
}

type TelegramConfig struct {
	Token string
}

type HTTPConfig struct {
	Addr string
}

type ShopConfig struct {
	CartStore    string
	MenuSource   string
	FAQRulesFile string
	DeliveryETA  string

	// Pricing overrides; unset values keep the built-in pricing.
	TaxRate               decimal.NullDecimal
	FreeDeliveryThreshold decimal.NullDecimal
	DeliveryFee           decimal.NullDecimal

	ReplyDelayMin time.Duration
	ReplyDelayMax time.Duration
}

// NeedsDB reports whether any configured component reads from Postgres.
func (c *Config) NeedsDB() bool {
	return c.Shop.CartStore == CartStorePostgres || c.Shop.MenuSource == MenuSourcePostgres
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("DB_PORT: %w", err)
	}
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("REDIS_DB: %w", err)
	}
	cartTTL, err := time.ParseDuration(getEnv("CART_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("CART_TTL: %w", err)
	}
	delayMin, err := time.ParseDuration(getEnv("REPLY_DELAY_MIN", "1s"))
	if err != nil {
		return nil, fmt.Errorf("REPLY_DELAY_MIN: %w", err)
	}
	delayMax, err := time.ParseDuration(getEnv("REPLY_DELAY_MAX", "2s"))
	if err != nil {
		return nil, fmt.Errorf("REPLY_DELAY_MAX: %w", err)
	}
	if delayMax < delayMin {
		return nil, fmt.Errorf("REPLY_DELAY_MAX (%s) is below REPLY_DELAY_MIN (%s)", delayMax, delayMin)
	}

	taxRate, err := getDecimal("TAX_RATE")
	if err != nil {
		return nil, err
	}
	threshold, err := getDecimal("FREE_DELIVERY_THRESHOLD")
	if err != nil {
		return nil, err
	}
	fee, err := getDecimal("DELIVERY_FEE")
	if err != nil {
		return nil, err
	}

	cartStore := strings.ToLower(getEnv("CART_STORE", CartStoreMemory))
	switch cartStore {
	case CartStoreMemory, CartStorePostgres, CartStoreRedis:
	default:
		return nil, fmt.Errorf("invalid CART_STORE: %s", cartStore)
	}
	menuSource := strings.ToLower(getEnv("MENU_SOURCE", MenuSourceBuiltin))
	switch menuSource {
	case MenuSourceBuiltin, MenuSourcePostgres:
	default:
		return nil, fmt.Errorf("invalid MENU_SOURCE: %s", menuSource)
	}

	return &Config{
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     port,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "woofcoffee"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			CartTTL:  cartTTL,
		},
		Telegram: TelegramConfig{
			Token: getEnv("TOKEN", ""),
		},
		HTTP: HTTPConfig{
			Addr: getEnv("HTTP_ADDR", ":8080"),
		},
		Shop: ShopConfig{
			CartStore:             cartStore,
			MenuSource:            menuSource,
			FAQRulesFile:          getEnv("FAQ_RULES_FILE", ""),
			DeliveryETA:           getEnv("DELIVERY_ETA", "30 minutes"),
			TaxRate:               taxRate,
			FreeDeliveryThreshold: threshold,
			DeliveryFee:           fee,
			ReplyDelayMin:         delayMin,
			ReplyDelayMax:         delayMax,
		},
		Debug: isTrue(os.Getenv("LOG_DEBUG")),
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDecimal(key string) (decimal.NullDecimal, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("%s: %w", key, err)
	}
	if d.IsNegative() {
		return decimal.NullDecimal{}, fmt.Errorf("%s must be >= 0", key)
	}
	return decimal.NewNullDecimal(d), nil
}

func isTrue(v string) bool {
	v = strings.TrimSpace(v)
	return v == "1" || strings.EqualFold(v, "true")
}
