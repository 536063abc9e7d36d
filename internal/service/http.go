package service

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"eco-service/internal/scoring"
	"eco-service/pkg/service/server"
)

const apiVersion = "1.0.0"

const maxBodyBytes = 1 << 16

// envelope is the response shape the web client expects.
type envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	TotalUsers *int        `json:"totalUsers,omitempty"`
}

// RegisterRoutes mounts the JSON API on router.
func (s *Service) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/score/submit", s.handleSubmitScore).Methods(http.MethodPost)
	api.HandleFunc("/quiz/submit", s.handleSubmitQuiz).Methods(http.MethodPost)
	api.HandleFunc("/quiz/results/{userId}", s.handleUserResults).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard", s.handleLeaderboard).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard/{userId}", s.handleUserRank).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusNotFound, envelope{Message: "Route not found"})
	})
}

func (s *Service) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Minithon Eco-Footprint API",
		"version": apiVersion,
		"endpoints": map[string]string{
			"POST /api/score/submit":         "Submit a pre-calculated score",
			"POST /api/quiz/submit":          "Submit eco-footprint quiz",
			"GET /api/quiz/results/{userId}": "Get user quiz results",
			"GET /api/leaderboard":           "Get leaderboard",
			"GET /api/leaderboard/{userId}":  "Get a user's rank",
		},
	})
}

func (s *Service) handleSubmitScore(w http.ResponseWriter, r *http.Request) {
	var request server.SubmitScoreRequest
	if !s.decode(w, r, &request) {
		return
	}
	response, err := s.SubmitScore(r.Context(), &request)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, envelope{Success: true, Message: "Score submitted successfully", Data: response})
}

func (s *Service) handleSubmitQuiz(w http.ResponseWriter, r *http.Request) {
	var request server.SubmitQuizRequest
	if !s.decode(w, r, &request) {
		return
	}
	response, err := s.SubmitQuiz(r.Context(), &request)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, envelope{Success: true, Message: "Quiz submitted successfully", Data: response})
}

func (s *Service) handleUserResults(w http.ResponseWriter, r *http.Request) {
	response, err := s.GetUserResults(r.Context(), &server.GetUserResultsRequest{UserID: mux.Vars(r)["userId"]})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{Success: true, Data: response})
}

func (s *Service) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	request := server.GetLeaderboardRequest{TimeFrame: r.URL.Query().Get("timeFrame")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, s.fail(r.Context(), &scoring.ValidationError{Field: "limit", Reason: "not a number"}))
			return
		}
		request.Limit = &limit
	}

	response, err := s.GetLeaderboard(r.Context(), &request)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{Success: true, Data: response.Entries, TotalUsers: &response.TotalUsers})
}

func (s *Service) handleUserRank(w http.ResponseWriter, r *http.Request) {
	request := server.GetUserRankRequest{
		UserID:    mux.Vars(r)["userId"],
		TimeFrame: r.URL.Query().Get("timeFrame"),
	}
	response, err := s.GetUserRank(r.Context(), &request)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{Success: true, Data: response})
}

func (s *Service) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, s.fail(r.Context(), &scoring.ValidationError{Field: "body", Reason: err.Error()}))
		return false
	}
	return true
}

// writeError expects an error already converted by fail.
func (s *Service) writeError(w http.ResponseWriter, err error) {
	st := status.Convert(err)
	code := httpStatus(st.Code())
	message := st.Message()
	if code == http.StatusInternalServerError {
		message = "Internal server error"
	}
	s.writeJSON(w, code, envelope{Message: message})
}

func (s *Service) writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.Logger().Warn("could not write response", zap.Error(err))
	}
}

func httpStatus(code codes.Code) int {
	switch code {
	case codes.OK:
		return http.StatusOK
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.NotFound:
		return http.StatusNotFound
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	case codes.Canceled:
		return 499
	}
	return http.StatusInternalServerError
}
