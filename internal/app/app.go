package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"eco-service/internal/service/repository"
)

const requestIDHeader = "x-request-id"

// internalErrorMessage replaces the text of Internal errors sent to clients.
const internalErrorMessage = "Internal server error"

type requestIDContextKey struct{}

type backgroundJob func(context.Context) error

type App interface {
	Logger() *zap.Logger
	AddBackgroundJob(backgroundJob)
	Run() error
	Error(ctx context.Context, err error, code codes.Code, fields ...zap.Field) error

	RequestID(ctx context.Context) string
	Config() Config
	Repository() repository.Repository
	Registerer() prometheus.Registerer
	GRPC() *grpc.Server
	Router() *mux.Router
	HTTPHandler() http.Handler
}

type Option func(*app)

// WithLogger replaces the logger built from LOG_LEVEL.
func WithLogger(logger *zap.Logger) Option {
	return func(app *app) {
		app.logger = logger
	}
}

// WithRepository skips opening the configured store.
func WithRepository(repo repository.Repository) Option {
	return func(app *app) {
		app.repo = repo
	}
}

func New(ctx context.Context, cfg Config, opts ...Option) (*app, error) {
	application := &app{
		ctx:      ctx,
		cfg:      cfg,
		registry: prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(application)
	}

	if application.logger == nil {
		logger, err := newLogger(cfg.LogLevel)
		if err != nil {
			return nil, errors.Wrap(err, "could not build logger")
		}
		application.logger = logger
	}

	if application.repo == nil {
		openCtx, cancel := context.WithTimeout(ctx, cfg.StorageTimeout)
		defer cancel()
		repo, err := repository.Open(openCtx, cfg.Storage())
		if err != nil {
			return nil, errors.Wrap(err, "could not open storage")
		}
		application.repo = repo
	}

	application.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	application.registerGRPCServer()
	application.registerHTTPServer()
	return application, nil
}

type app struct {
	ctx      context.Context
	logger   *zap.Logger
	cfg      Config
	repo     repository.Repository
	registry *prometheus.Registry
	grpc     *grpc.Server
	router   *mux.Router
	handler  http.Handler
	jobs     []backgroundJob
}

func (app *app) Run() (err error) {
	app.Logger().Info("started application",
		zap.String("storage", app.cfg.StorageDriver),
		zap.String("grpc_port", app.cfg.GRPCPort),
		zap.String("http_port", app.cfg.HTTPPort),
	)
	defer func() {
		err = multierr.Append(err, errors.Wrap(app.repo.Close(), "could not close storage"))
		_ = app.logger.Sync()
	}()

	var wg sync.WaitGroup
	errChannel := make(chan error, len(app.jobs))

	for _, job := range app.jobs {
		wg.Add(1)
		go func(job backgroundJob) {
			defer wg.Done()
			errChannel <- job(app.ctx)
		}(job)
	}

	select {
	case <-app.ctx.Done():
		wg.Wait()
		close(errChannel)
		errs := make([]error, 0, len(app.jobs))
		for err := range errChannel {
			errs = append(errs, err)
		}
		return multierr.Combine(errs...)
	case err := <-errChannel:
		return err
	}
}

func (app *app) Error(ctx context.Context, err error, code codes.Code, fields ...zap.Field) error {
	if err == nil {
		return nil
	}

	fields = append(fields, zap.Error(err))
	if requestID := app.RequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	message := fmt.Sprintf("%s: %s", code, err.Error())

	switch code {
	case codes.Internal, codes.Unimplemented, codes.Unavailable:
		app.Logger().Error(message, fields...)
	default:
		app.Logger().Warn(message, fields...)
	}

	if grpcStatus, ok := status.FromError(err); ok {
		// return GRPC errors as is
		return grpcStatus.Err()
	}

	if code == codes.Internal {
		return status.Error(code, internalErrorMessage)
	}
	return status.Error(code, err.Error())
}

func (app *app) RegisterService(desc *grpc.ServiceDesc, impl interface{}) {
	app.grpc.RegisterService(desc, impl)
}

func (app *app) AddBackgroundJob(job backgroundJob) {
	app.jobs = append(app.jobs, job)
}

func (app *app) GRPC() *grpc.Server {
	return app.grpc
}

func (app *app) Router() *mux.Router {
	return app.router
}

func (app *app) Logger() *zap.Logger {
	return app.logger
}

func (app *app) Config() Config {
	return app.cfg
}

func (app *app) Repository() repository.Repository {
	return app.repo
}

func (app *app) Registerer() prometheus.Registerer {
	return app.registry
}

func (app *app) RequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDContextKey{}).(string); ok {
		return requestID
	}
	if headers, ok := metadata.FromIncomingContext(ctx); ok {
		if header, ok := headers[requestIDHeader]; ok && len(header) > 0 {
			return header[0]
		}
	}
	return ""
}

func (app *app) registerGRPCServer() {
	app.grpc = grpc.NewServer(grpc.ChainUnaryInterceptor(grpcUnaryServerInterceptor))
	app.AddBackgroundJob(func(ctx context.Context) error {
		listener, listenErr := net.Listen("tcp", app.cfg.GRPCPort)
		if listenErr != nil {
			return errors.Wrap(listenErr, "could not open GRPC port to serve")
		}
		app.Logger().Info("starting GRPC server")
		return errors.Wrap(app.grpc.Serve(listener), "GRPC server error")
	})
	app.AddBackgroundJob(func(ctx context.Context) error {
		<-ctx.Done()
		app.grpc.GracefulStop()
		return nil
	})
}

func (app *app) registerHTTPServer() {
	app.router = mux.NewRouter()
	app.router.Use(app.httpRequestIDMiddleware)
	app.router.Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))
	app.router.HandleFunc("/health", app.health).Methods(http.MethodGet)

	app.handler = app.router
	if origin := app.cfg.CORSOrigin; origin != "" {
		app.handler = cors.New(cors.Options{
			AllowedOrigins:       []string{origin},
			AllowedMethods:       []string{http.MethodGet, http.MethodPost},
			AllowedHeaders:       []string{"Content-Type", "Authorization", "X-Request-Id"},
			ExposedHeaders:       []string{"X-Request-Id"},
			AllowCredentials:     true,
			OptionsSuccessStatus: http.StatusNoContent,
		}).Handler(app.router)
	}

	httpServer := &http.Server{
		Handler:           app.HTTPHandler(),
		Addr:              app.cfg.HTTPPort,
		ReadHeaderTimeout: 10 * time.Second,
	}
	app.AddBackgroundJob(func(ctx context.Context) error {
		app.Logger().Info("starting HTTP server")
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	app.AddBackgroundJob(func(ctx context.Context) error {
		<-ctx.Done()
		return httpServer.Shutdown(context.Background())
	})
}

// HTTPHandler is the router behind the CORS policy for CORS_ORIGIN.
func (app *app) HTTPHandler() http.Handler {
	return app.handler
}

func (app *app) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), app.cfg.StorageTimeout)
	defer cancel()

	code, state := http.StatusOK, "ok"
	if err := app.repo.Ping(ctx); err != nil {
		app.Logger().Warn("health check failed", zap.Error(err))
		code, state = http.StatusServiceUnavailable, "unavailable"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": state})
}

func (app *app) httpRequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDContextKey{}, requestID)))
	})
}

func grpcUnaryServerInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	var requestID string
	if headers, ok := metadata.FromIncomingContext(ctx); ok {
		if header, ok := headers[requestIDHeader]; ok && len(header) > 0 {
			requestID = header[0]
		}
	}
	if requestID == "" {
		requestID = uuid.New().String()
	}
	_ = grpc.SetHeader(ctx, metadata.Pairs(requestIDHeader, requestID))
	ctx = metadata.NewOutgoingContext(ctx, metadata.Pairs(requestIDHeader, requestID))
	ctx = context.WithValue(ctx, requestIDContextKey{}, requestID)
	return handler(ctx, req)
}

func newLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
