package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"eco-service/internal/leaderboard"
	"eco-service/internal/service/models"
)

// ErrNotFound is returned when a user has no stored records.
var ErrNotFound = errors.New("no quiz results found for this user")

// StorageError wraps a failure of the backing store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %s", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// Repository is the append-only store of score records.
type Repository interface {
	// Insert stores a new record, deriving its category, and returns its id.
	Insert(ctx context.Context, record *models.ScoreRecord) (string, error)
	// Latest returns the most recent record of a user or ErrNotFound.
	Latest(ctx context.Context, userID string) (*models.ScoreRecord, error)
	// History returns up to limit records of a user, newest first.
	History(ctx context.Context, userID string, limit int) ([]models.ScoreRecord, error)
	// Summaries groups the records created at or after since by user.
	// A zero since includes every record.
	Summaries(ctx context.Context, since time.Time) ([]leaderboard.Summary, error)
	Ping(ctx context.Context) error
	Close() error
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// Config selects and configures a backend.
type Config struct {
	Driver          string
	DSN             string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

// Open connects to the configured backend and prepares its schema.
func Open(ctx context.Context, cfg Config) (Repository, error) {
	switch cfg.Driver {
	case DriverPostgres, DriverSQLite:
		return OpenSQL(ctx, cfg.Driver, cfg.DSN)
	case DriverMongo:
		return OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	}
	return nil, errors.Errorf("unknown storage driver %q", cfg.Driver)
}
