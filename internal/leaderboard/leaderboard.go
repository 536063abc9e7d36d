// Package leaderboard reduces stored score records into a per-user ranking.
// Lower scores rank higher: the lowest environmental impact wins.
package leaderboard

import (
	"sort"
	"time"

	"eco-service/internal/scoring"
	"eco-service/internal/service/models"
)

const DefaultLimit = 10

// Summary is the per-user reduction of a score history.
type Summary struct {
	UserID         string
	BestScore      int
	LatestScore    int
	LatestCategory scoring.Category
	LatestDate     time.Time
	FirstDate      time.Time
	TotalAttempts  int
	ScoreSum       int
}

// AverageScore is the mean total score rounded to one decimal, half away from zero.
func (s Summary) AverageScore() float64 {
	return RoundTenths(s.ScoreSum, s.TotalAttempts)
}

// Entry is one ranked leaderboard row.
type Entry struct {
	Rank          int              `json:"rank"`
	UserID        string           `json:"userId"`
	BestScore     int              `json:"bestScore"`
	LatestScore   int              `json:"latestScore"`
	Category      scoring.Category `json:"category"`
	LastUpdated   time.Time        `json:"lastUpdated"`
	TotalAttempts int              `json:"totalAttempts"`
	AverageScore  float64          `json:"averageScore"`
}

// Board is a ranked leaderboard, possibly truncated. TotalUsers counts every
// ranked user, including the ones cut off by the limit.
type Board struct {
	Entries    []Entry
	TotalUsers int
}

// Reducer groups records by user in a single pass. Best and latest are
// tracked independently so records may arrive in any order.
type Reducer struct {
	byUser map[string]*Summary
}

func NewReducer() *Reducer {
	return &Reducer{byUser: make(map[string]*Summary)}
}

func (r *Reducer) Add(record models.ScoreRecord) {
	s, ok := r.byUser[record.UserID]
	if !ok {
		r.byUser[record.UserID] = &Summary{
			UserID:         record.UserID,
			BestScore:      record.TotalScore,
			LatestScore:    record.TotalScore,
			LatestCategory: record.Category,
			LatestDate:     record.CreatedAt,
			FirstDate:      record.CreatedAt,
			TotalAttempts:  1,
			ScoreSum:       record.TotalScore,
		}
		return
	}

	if record.TotalScore < s.BestScore {
		s.BestScore = record.TotalScore
	}
	// Equal timestamps resolve to the record seen last.
	if !record.CreatedAt.Before(s.LatestDate) {
		s.LatestScore = record.TotalScore
		s.LatestCategory = record.Category
		s.LatestDate = record.CreatedAt
	}
	if record.CreatedAt.Before(s.FirstDate) {
		s.FirstDate = record.CreatedAt
	}
	s.TotalAttempts++
	s.ScoreSum += record.TotalScore
}

// Summaries returns the reduction, ordered by user id.
func (r *Reducer) Summaries() []Summary {
	out := make([]Summary, 0, len(r.byUser))
	for _, s := range r.byUser {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

// Rank orders summaries by best score and keeps the first limit entries.
// A limit of zero or less keeps all of them.
//
// Ties on best score go to the user who first submitted earlier, then to the
// lexically smaller user id.
func Rank(summaries []Summary, limit int) Board {
	sorted := append([]Summary(nil), summaries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})

	n := len(sorted)
	if limit > 0 && limit < n {
		n = limit
	}
	entries := make([]Entry, n)
	for i := 0; i < n; i++ {
		s := sorted[i]
		entries[i] = Entry{
			Rank:          i + 1,
			UserID:        s.UserID,
			BestScore:     s.BestScore,
			LatestScore:   s.LatestScore,
			Category:      s.LatestCategory,
			LastUpdated:   s.LatestDate,
			TotalAttempts: s.TotalAttempts,
			AverageScore:  s.AverageScore(),
		}
	}
	return Board{Entries: entries, TotalUsers: len(sorted)}
}

// Build reduces and ranks records in one call.
func Build(records []models.ScoreRecord, limit int) Board {
	reducer := NewReducer()
	for _, record := range records {
		reducer.Add(record)
	}
	return Rank(reducer.Summaries(), limit)
}

func less(a, b Summary) bool {
	if a.BestScore != b.BestScore {
		return a.BestScore < b.BestScore
	}
	if !a.FirstDate.Equal(b.FirstDate) {
		return a.FirstDate.Before(b.FirstDate)
	}
	return a.UserID < b.UserID
}

// RoundTenths returns sum/count rounded to one decimal place, half away from
// zero. Integer arithmetic keeps results exact for values like 0.25.
func RoundTenths(sum, count int) float64 {
	if count <= 0 {
		return 0
	}
	num := 20 * sum
	den := 2 * count
	var tenths int
	if num >= 0 {
		tenths = (num + count) / den
	} else {
		tenths = -((-num + count) / den)
	}
	return float64(tenths) / 10
}
