package models

import (
	"time"

	"eco-service/internal/scoring"
)

// ScoreRecord is one stored quiz submission. Records are append-only.
type ScoreRecord struct {
	ID           string             `json:"_id"`
	UserID       string             `json:"userId"`
	TotalScore   int                `json:"totalScore"`
	Category     scoring.Category   `json:"category"`
	Answers      scoring.Answers    `json:"answers,omitempty"`
	Scores       *scoring.SubScores `json:"scores,omitempty"`
	TableVersion int                `json:"tableVersion,omitempty"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// NewScoreRecord builds a record for a client-computed total.
func NewScoreRecord(userID string, totalScore int, now time.Time) ScoreRecord {
	record := ScoreRecord{
		UserID:     userID,
		TotalScore: totalScore,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	record.Prepare()
	return record
}

// NewQuizRecord builds a record from a fully scored answer set.
func NewQuizRecord(userID string, answers scoring.Answers, result scoring.Result, now time.Time) ScoreRecord {
	scores := result.Scores
	record := ScoreRecord{
		UserID:       userID,
		TotalScore:   result.TotalScore,
		Answers:      answers,
		Scores:       &scores,
		TableVersion: result.TableVersion,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	record.Prepare()
	return record
}

// Prepare derives the category from the total. Stores call it on insert so
// a caller-supplied category never survives.
func (r *ScoreRecord) Prepare() {
	r.Category = scoring.Classify(r.TotalScore)
}

// HistoryItem is the projection of a record used in a user's history.
type HistoryItem struct {
	ID         string           `json:"_id"`
	TotalScore int              `json:"totalScore"`
	Category   scoring.Category `json:"category"`
	CreatedAt  time.Time        `json:"createdAt"`
}

func (r ScoreRecord) HistoryItem() HistoryItem {
	return HistoryItem{
		ID:         r.ID,
		TotalScore: r.TotalScore,
		Category:   r.Category,
		CreatedAt:  r.CreatedAt,
	}
}
