package app

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"

	"eco-service/internal/service/repository"
)

type Config struct {
	GRPCPort string `envconfig:"GRPC_PORT" default:":9090"`
	HTTPPort string `envconfig:"HTTP_PORT" default:":8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	StorageDriver   string        `envconfig:"STORAGE_DRIVER" default:"postgres"`
	DatabaseDSN     string        `envconfig:"DATABASE_DSN" default:"postgres://localhost:5432/minithon_eco?sslmode=disable"`
	MongoURI        string        `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDatabase   string        `envconfig:"MONGO_DATABASE" default:"minithon_eco"`
	MongoCollection string        `envconfig:"MONGO_COLLECTION" default:"ecofootprints"`
	StorageTimeout  time.Duration `envconfig:"STORAGE_TIMEOUT" default:"10s"`

	LeaderboardLimit int `envconfig:"LEADERBOARD_LIMIT" default:"10"`
	HistoryLimit     int `envconfig:"HISTORY_LIMIT" default:"10"`

	CORSOrigin string `envconfig:"CORS_ORIGIN" default:"http://localhost:5173"`
}

func NewConfigFromEnv() (cfg Config, err error) {
	if err = envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (cfg Config) Validate() error {
	switch cfg.StorageDriver {
	case repository.DriverPostgres, repository.DriverSQLite, repository.DriverMongo:
	default:
		return errors.Errorf("STORAGE_DRIVER must be one of postgres, sqlite, mongo; got %q", cfg.StorageDriver)
	}
	if cfg.LeaderboardLimit < 0 {
		return errors.New("LEADERBOARD_LIMIT must not be negative")
	}
	if cfg.HistoryLimit <= 0 {
		return errors.New("HISTORY_LIMIT must be positive")
	}
	if cfg.StorageTimeout <= 0 {
		return errors.New("STORAGE_TIMEOUT must be positive")
	}
	return nil
}

func (cfg Config) Storage() repository.Config {
	return repository.Config{
		Driver:          cfg.StorageDriver,
		DSN:             cfg.DatabaseDSN,
		MongoURI:        cfg.MongoURI,
		MongoDatabase:   cfg.MongoDatabase,
		MongoCollection: cfg.MongoCollection,
	}
}
