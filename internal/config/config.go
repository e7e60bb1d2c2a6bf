package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config collects every tunable the server needs. Values come from
// environment variables, with an optional config.yaml next to the binary.
type Config struct {
	// Server
	ServerAddr string

	// Database
	DBDriver string // "sqlite3" or "postgres"
	DBDSN    string

	// Auth
	JWTSecret string

	// Events; empty URL disables publishing
	NatsURL string

	// Cache
	CacheCapacity int
	CacheTTL      time.Duration

	// Pagination
	PageSizeDefault int
	PageSizeMin     int
	PageSizeMax     int
}

// Init loads the config using Viper and returns it.
func Init() *Config {
	viper.SetDefault("SERVER_ADDR", ":8080")

	viper.SetDefault("DB_DRIVER", "sqlite3")
	viper.SetDefault("DB_DSN", "file:blog.db?cache=shared&_fk=1")

	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("NATS_URL", "")

	viper.SetDefault("CACHE_CAPACITY", 10000)
	viper.SetDefault("CACHE_TTL", "5m")

	viper.SetDefault("PAGE_SIZE_DEFAULT", 10)
	viper.SetDefault("PAGE_SIZE_MIN", 1)
	viper.SetDefault("PAGE_SIZE_MAX", 100)

	viper.AutomaticEnv()

	// Optional config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	_ = viper.ReadInConfig() // ignore error if no file

	return &Config{
		ServerAddr:      viper.GetString("SERVER_ADDR"),
		DBDriver:        viper.GetString("DB_DRIVER"),
		DBDSN:           viper.GetString("DB_DSN"),
		JWTSecret:       viper.GetString("JWT_SECRET"),
		NatsURL:         viper.GetString("NATS_URL"),
		CacheCapacity:   viper.GetInt("CACHE_CAPACITY"),
		CacheTTL:        parseDuration(viper.GetString("CACHE_TTL"), 5*time.Minute),
		PageSizeDefault: viper.GetInt("PAGE_SIZE_DEFAULT"),
		PageSizeMin:     viper.GetInt("PAGE_SIZE_MIN"),
		PageSizeMax:     viper.GetInt("PAGE_SIZE_MAX"),
	}
}

func parseDuration(s string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return def
}
