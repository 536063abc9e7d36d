package service

import (
	"eco-service/internal/leaderboard"
	"eco-service/internal/scoring"
	"eco-service/internal/service/models"
	"eco-service/pkg/service/server"
)

func toSubScores(s scoring.SubScores) server.SubScores {
	return server.SubScores{
		Transportation: s.Transportation,
		Energy:         s.Energy,
		Diet:           s.Diet,
		Waste:          s.Waste,
	}
}

func toResult(record models.ScoreRecord) *server.Result {
	result := &server.Result{
		ID:           record.ID,
		UserID:       record.UserID,
		TotalScore:   record.TotalScore,
		Category:     string(record.Category),
		Answers:      record.Answers,
		TableVersion: record.TableVersion,
		CreatedAt:    record.CreatedAt,
		UpdatedAt:    record.UpdatedAt,
	}
	if record.Scores != nil {
		scores := toSubScores(*record.Scores)
		result.Scores = &scores
	}
	return result
}

func toHistoryItem(item models.HistoryItem) server.HistoryItem {
	return server.HistoryItem{
		ID:         item.ID,
		TotalScore: item.TotalScore,
		Category:   string(item.Category),
		CreatedAt:  item.CreatedAt,
	}
}

func toLeaderboardEntry(entry leaderboard.Entry) server.LeaderboardEntry {
	return server.LeaderboardEntry{
		Rank:          entry.Rank,
		UserID:        entry.UserID,
		BestScore:     entry.BestScore,
		LatestScore:   entry.LatestScore,
		Category:      string(entry.Category),
		LastUpdated:   entry.LastUpdated,
		TotalAttempts: entry.TotalAttempts,
		AverageScore:  entry.AverageScore,
	}
}
