package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application settings read from app.env and the environment.
type Config struct {
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	PostgresConn  string `mapstructure:"POSTGRES_CONN"`
	PostgresUser  string `mapstructure:"POSTGRES_USERNAME"`
	PostgresPass  string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresHost  string `mapstructure:"POSTGRES_HOST"`
	PostgresPort  string `mapstructure:"POSTGRES_PORT"`
	PostgresDB    string `mapstructure:"POSTGRES_DATABASE"`
	MigrationURL  string `mapstructure:"MIGRATION_URL"`
	StorageDriver string `mapstructure:"STORAGE_DRIVER"`
	MemorySeed    string `mapstructure:"MEMORY_SEED_FILE"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	EventsChannel string `mapstructure:"EVENTS_CHANNEL"`

	JWTSecret string `mapstructure:"JWT_SECRET"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	RequestTimeout         time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	DefaultMinutesPerPiece int           `mapstructure:"DEFAULT_MINUTES_PER_PIECE"`
}

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

var keys = []string{
	"SERVER_ADDRESS", "POSTGRES_CONN", "POSTGRES_USERNAME", "POSTGRES_PASSWORD", "POSTGRES_HOST",
	"POSTGRES_PORT", "POSTGRES_DATABASE", "MIGRATION_URL", "STORAGE_DRIVER", "MEMORY_SEED_FILE", "REDIS_ADDR",
	"REDIS_PASSWORD", "REDIS_DB", "EVENTS_CHANNEL", "JWT_SECRET", "LOG_LEVEL", "LOG_FORMAT",
	"REQUEST_TIMEOUT", "DEFAULT_MINUTES_PER_PIECE",
}

// LoadConfig reads app.env from path. Environment variables override the file, and
// the file may be absent when the environment supplies everything.
func LoadConfig(path string) (cfg Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:8080")
	v.SetDefault("MIGRATION_URL", "file://migrations")
	v.SetDefault("STORAGE_DRIVER", StoragePostgres)
	v.SetDefault("EVENTS_CHANNEL", "order.accepted")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("REQUEST_TIMEOUT", 5*time.Second)
	v.SetDefault("DEFAULT_MINUTES_PER_PIECE", 15)

	v.AutomaticEnv()
	// AutomaticEnv only applies to keys viper already knows about.
	for _, key := range keys {
		if err = v.BindEnv(key); err != nil {
			return
		}
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
		err = nil
	}

	err = v.Unmarshal(&cfg)
	return
}
