package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"eco-service/internal/leaderboard"
	"eco-service/internal/service/models"
	"eco-service/internal/service/repository"
)

type stubRepository struct {
	pingErr error
}

func (r *stubRepository) Insert(context.Context, *models.ScoreRecord) (string, error) {
	return "", nil
}

func (r *stubRepository) Latest(context.Context, string) (*models.ScoreRecord, error) {
	return nil, repository.ErrNotFound
}

func (r *stubRepository) History(context.Context, string, int) ([]models.ScoreRecord, error) {
	return nil, nil
}

func (r *stubRepository) Summaries(context.Context, time.Time) ([]leaderboard.Summary, error) {
	return nil, nil
}

func (r *stubRepository) Ping(context.Context) error {
	return r.pingErr
}

func (r *stubRepository) Close() error {
	return nil
}

func defaultConfig(t *testing.T) Config {
	t.Helper()
	cfg, err := NewConfigFromEnv()
	require.NoError(t, err)
	return cfg
}

func TestNewConfigFromEnv_Defaults(t *testing.T) {
	cfg := defaultConfig(t)
	assert.Equal(t, ":9090", cfg.GRPCPort)
	assert.Equal(t, ":8080", cfg.HTTPPort)
	assert.Equal(t, "postgres", cfg.StorageDriver)
	assert.Equal(t, "minithon_eco", cfg.MongoDatabase)
	assert.Equal(t, "ecofootprints", cfg.MongoCollection)
	assert.Equal(t, 10*time.Second, cfg.StorageTimeout)
	assert.Equal(t, 10, cfg.LeaderboardLimit)
	assert.Equal(t, 10, cfg.HistoryLimit)
}

func TestNewConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("LEADERBOARD_LIMIT", "25")
	t.Setenv("STORAGE_TIMEOUT", "3s")

	cfg := defaultConfig(t)
	assert.Equal(t, repository.Config{
		Driver:          "mongo",
		DSN:             cfg.DatabaseDSN,
		MongoURI:        "mongodb://db:27017",
		MongoDatabase:   "minithon_eco",
		MongoCollection: "ecofootprints",
	}, cfg.Storage())
	assert.Equal(t, 25, cfg.LeaderboardLimit)
	assert.Equal(t, 3*time.Second, cfg.StorageTimeout)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown driver", func(c *Config) { c.StorageDriver = "redis" }},
		{"negative leaderboard limit", func(c *Config) { c.LeaderboardLimit = -1 }},
		{"zero history limit", func(c *Config) { c.HistoryLimit = 0 }},
		{"zero timeout", func(c *Config) { c.StorageTimeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig(t)
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	t.Setenv("HISTORY_LIMIT", "0")
	_, err := NewConfigFromEnv()
	assert.Error(t, err)
}

func newTestApp(t *testing.T, repo *stubRepository) *app {
	t.Helper()
	application, err := New(context.Background(), defaultConfig(t), WithLogger(zap.NewNop()), WithRepository(repo))
	require.NoError(t, err)
	return application
}

func TestNew_InvalidLogLevel(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.LogLevel = "loud"
	_, err := New(context.Background(), cfg, WithRepository(&stubRepository{}))
	assert.Error(t, err)
}

func TestError(t *testing.T) {
	application := newTestApp(t, &stubRepository{})

	assert.NoError(t, application.Error(context.Background(), nil, codes.Internal))

	err := application.Error(context.Background(), errors.New("boom"), codes.InvalidArgument)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Equal(t, "boom", status.Convert(err).Message())

	err = application.Error(context.Background(), errors.New("sql: database is closed"), codes.Internal)
	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Equal(t, internalErrorMessage, status.Convert(err).Message())

	err = application.Error(context.Background(), status.Error(codes.NotFound, "gone"), codes.Internal)
	assert.Equal(t, codes.NotFound, status.Code(err))
	assert.Equal(t, "gone", status.Convert(err).Message())
}

func TestRequestID(t *testing.T) {
	application := newTestApp(t, &stubRepository{})

	assert.Empty(t, application.RequestID(context.Background()))

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(requestIDHeader, "from-metadata"))
	assert.Equal(t, "from-metadata", application.RequestID(ctx))

	ctx = context.WithValue(ctx, requestIDContextKey{}, "from-context")
	assert.Equal(t, "from-context", application.RequestID(ctx))
}

func TestHealth(t *testing.T) {
	repo := &stubRepository{}
	application := newTestApp(t, repo)

	recorder := httptest.NewRecorder()
	application.HTTPHandler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.NotEmpty(t, recorder.Header().Get(requestIDHeader))

	repo.pingErr = errors.New("connection refused")
	recorder = httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/health", nil)
	request.Header.Set(requestIDHeader, "probe-1")
	application.HTTPHandler().ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, recorder.Body.String())
	assert.Equal(t, "probe-1", recorder.Header().Get(requestIDHeader))
}
