package service

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"eco-service/internal/app"
	"eco-service/internal/leaderboard"
	"eco-service/internal/scoring"
	"eco-service/internal/service/models"
	"eco-service/internal/service/repository"
	"eco-service/pkg/service/server"
)

type Service struct {
	app.App
	server.UnimplementedServiceServer
	repo     repository.Repository
	table    *scoring.Table
	validate *validator.Validate
	metrics  *metrics
	now      func() time.Time
}

func New(application app.App) *Service {
	return &Service{
		App:      application,
		repo:     application.Repository(),
		table:    scoring.DefaultTable(),
		validate: newValidator(),
		metrics:  newMetrics(application.Registerer()),
		now:      time.Now,
	}
}

func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

// SubmitScore stores a total computed by the client. The total is only range
// checked; no answers are stored or verified on this path.
func (s *Service) SubmitScore(ctx context.Context, request *server.SubmitScoreRequest) (*server.SubmitScoreResponse, error) {
	if err := s.validateRequest(request, request.UserID); err != nil {
		return nil, s.fail(ctx, err)
	}
	if err := scoring.ValidateTotal(*request.TotalScore); err != nil {
		return nil, s.fail(ctx, err, zap.String("user_id", request.UserID))
	}

	record := models.NewScoreRecord(request.UserID, *request.TotalScore, s.now().UTC())
	if err := s.insert(ctx, &record); err != nil {
		return nil, s.fail(ctx, err, zap.String("user_id", request.UserID))
	}
	s.metrics.observeSubmission("score", record)
	s.Logger().Info("score submitted",
		zap.String("user_id", record.UserID),
		zap.Int("total_score", record.TotalScore),
		zap.String("category", string(record.Category)),
	)

	return &server.SubmitScoreResponse{
		ID:         record.ID,
		TotalScore: record.TotalScore,
		Category:   string(record.Category),
		Timestamp:  record.CreatedAt,
	}, nil
}

// SubmitQuiz scores the full answer set server side and stores the breakdown.
func (s *Service) SubmitQuiz(ctx context.Context, request *server.SubmitQuizRequest) (*server.SubmitQuizResponse, error) {
	if err := s.validateRequest(request, request.UserID); err != nil {
		return nil, s.fail(ctx, err)
	}
	answers := scoring.Answers(request.Answers)
	result, err := s.table.Score(answers)
	if err != nil {
		return nil, s.fail(ctx, err, zap.String("user_id", request.UserID))
	}

	record := models.NewQuizRecord(request.UserID, answers, result, s.now().UTC())
	if err = s.insert(ctx, &record); err != nil {
		return nil, s.fail(ctx, err, zap.String("user_id", request.UserID))
	}
	s.metrics.observeSubmission("quiz", record)
	s.Logger().Info("quiz submitted",
		zap.String("user_id", record.UserID),
		zap.Int("total_score", record.TotalScore),
		zap.String("category", string(record.Category)),
		zap.Int("table_version", record.TableVersion),
	)

	return &server.SubmitQuizResponse{
		ID:         record.ID,
		TotalScore: record.TotalScore,
		Category:   string(record.Category),
		Scores:     toSubScores(result.Scores),
		Timestamp:  record.CreatedAt,
	}, nil
}

func (s *Service) GetUserResults(ctx context.Context, request *server.GetUserResultsRequest) (*server.GetUserResultsResponse, error) {
	if err := s.validateRequest(request, request.UserID); err != nil {
		return nil, s.fail(ctx, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.Config().StorageTimeout)
	defer cancel()

	latest, err := s.repo.Latest(ctx, request.UserID)
	if err != nil {
		return nil, s.fail(ctx, s.storageFailure("latest", err), zap.String("user_id", request.UserID))
	}
	history, err := s.repo.History(ctx, request.UserID, s.Config().HistoryLimit)
	if err != nil {
		return nil, s.fail(ctx, s.storageFailure("history", err), zap.String("user_id", request.UserID))
	}

	response := &server.GetUserResultsResponse{
		Latest:  toResult(*latest),
		History: make([]server.HistoryItem, len(history)),
	}
	for i, record := range history {
		response.History[i] = toHistoryItem(record.HistoryItem())
	}
	return response, nil
}

func (s *Service) GetLeaderboard(ctx context.Context, request *server.GetLeaderboardRequest) (*server.GetLeaderboardResponse, error) {
	if err := s.validate.Struct(request); err != nil {
		return nil, s.fail(ctx, validationError(err))
	}
	limit := s.Config().LeaderboardLimit
	if request.Limit != nil {
		limit = *request.Limit
	}

	summaries, err := s.summaries(ctx, request.TimeFrame)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	board := leaderboard.Rank(summaries, limit)

	response := &server.GetLeaderboardResponse{
		Entries:    make([]server.LeaderboardEntry, len(board.Entries)),
		TotalUsers: board.TotalUsers,
	}
	for i, entry := range board.Entries {
		response.Entries[i] = toLeaderboardEntry(entry)
	}
	return response, nil
}

func (s *Service) GetUserRank(ctx context.Context, request *server.GetUserRankRequest) (*server.GetUserRankResponse, error) {
	if err := s.validateRequest(request, request.UserID); err != nil {
		return nil, s.fail(ctx, err)
	}

	summaries, err := s.summaries(ctx, request.TimeFrame)
	if err != nil {
		return nil, s.fail(ctx, err)
	}
	rank, ok := leaderboard.Lookup(summaries, request.UserID)
	if !ok {
		return nil, s.fail(ctx, repository.ErrNotFound, zap.String("user_id", request.UserID))
	}
	return &server.GetUserRankResponse{
		UserID:     rank.UserID,
		Rank:       rank.Rank,
		BestScore:  rank.BestScore,
		TotalUsers: rank.TotalUsers,
		Percentile: rank.Percentile,
	}, nil
}

func (s *Service) summaries(ctx context.Context, timeFrame string) ([]leaderboard.Summary, error) {
	frame, err := leaderboard.ParseTimeFrame(timeFrame)
	if err != nil {
		return nil, &scoring.ValidationError{Field: "timeFrame", Reason: err.Error()}
	}

	ctx, cancel := context.WithTimeout(ctx, s.Config().StorageTimeout)
	defer cancel()

	started := time.Now()
	summaries, err := s.repo.Summaries(ctx, frame.Since(s.now().UTC()))
	if err != nil {
		return nil, s.storageFailure("summaries", err)
	}
	s.metrics.leaderboardDuration.Observe(time.Since(started).Seconds())
	return summaries, nil
}

func (s *Service) insert(ctx context.Context, record *models.ScoreRecord) error {
	ctx, cancel := context.WithTimeout(ctx, s.Config().StorageTimeout)
	defer cancel()

	if _, err := s.repo.Insert(ctx, record); err != nil {
		return s.storageFailure("insert", err)
	}
	return nil
}

func (s *Service) storageFailure(op string, err error) error {
	if !errors.Is(err, repository.ErrNotFound) {
		s.metrics.storageErrors.WithLabelValues(op).Inc()
	}
	return err
}

func (s *Service) validateRequest(request interface{}, userID string) error {
	if err := s.validate.Struct(request); err != nil {
		return validationError(err)
	}
	if strings.TrimSpace(userID) == "" {
		return &scoring.ValidationError{Field: "userId", Reason: "blank"}
	}
	return nil
}
