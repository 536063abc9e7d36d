package server

import (
	"time"
)

type SubmitScoreRequest struct {
	UserID     string `json:"userId" validate:"required,max=256"`
	TotalScore *int   `json:"totalScore" validate:"required"`
	// Category is accepted for compatibility with older clients and ignored.
	Category string `json:"category,omitempty"`
}

type SubmitScoreResponse struct {
	ID         string    `json:"id"`
	TotalScore int       `json:"totalScore"`
	Category   string    `json:"category"`
	Timestamp  time.Time `json:"timestamp"`
}

type SubmitQuizRequest struct {
	UserID  string            `json:"userId" validate:"required,max=256"`
	Answers map[string]string `json:"answers" validate:"required"`
}

type SubScores struct {
	Transportation int `json:"transportation"`
	Energy         int `json:"energy"`
	Diet           int `json:"diet"`
	Waste          int `json:"waste"`
}

type SubmitQuizResponse struct {
	ID         string    `json:"id"`
	TotalScore int       `json:"totalScore"`
	Category   string    `json:"category"`
	Scores     SubScores `json:"scores"`
	Timestamp  time.Time `json:"timestamp"`
}

type GetUserResultsRequest struct {
	UserID string `json:"userId" validate:"required,max=256"`
}

type Result struct {
	ID           string            `json:"_id"`
	UserID       string            `json:"userId"`
	TotalScore   int               `json:"totalScore"`
	Category     string            `json:"category"`
	Answers      map[string]string `json:"answers,omitempty"`
	Scores       *SubScores        `json:"scores,omitempty"`
	TableVersion int               `json:"tableVersion,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

type HistoryItem struct {
	ID         string    `json:"_id"`
	TotalScore int       `json:"totalScore"`
	Category   string    `json:"category"`
	CreatedAt  time.Time `json:"createdAt"`
}

type GetUserResultsResponse struct {
	Latest  *Result       `json:"latest"`
	History []HistoryItem `json:"history"`
}

type GetLeaderboardRequest struct {
	// Limit of entries; nil selects the server default, zero returns every user.
	Limit     *int   `json:"limit,omitempty" validate:"omitempty,min=0"`
	TimeFrame string `json:"timeFrame,omitempty"`
}

type LeaderboardEntry struct {
	Rank          int       `json:"rank"`
	UserID        string    `json:"userId"`
	BestScore     int       `json:"bestScore"`
	LatestScore   int       `json:"latestScore"`
	Category      string    `json:"category"`
	LastUpdated   time.Time `json:"lastUpdated"`
	TotalAttempts int       `json:"totalAttempts"`
	AverageScore  float64   `json:"averageScore"`
}

type GetLeaderboardResponse struct {
	Entries    []LeaderboardEntry `json:"entries"`
	TotalUsers int                `json:"totalUsers"`
}

type GetUserRankRequest struct {
	UserID    string `json:"userId" validate:"required,max=256"`
	TimeFrame string `json:"timeFrame,omitempty"`
}

type GetUserRankResponse struct {
	UserID     string  `json:"userId"`
	Rank       int     `json:"rank"`
	BestScore  int     `json:"bestScore"`
	TotalUsers int     `json:"totalUsers"`
	Percentile float64 `json:"percentile"`
}
