package leaderboard

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eco-service/internal/scoring"
	"eco-service/internal/service/models"
)

var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func record(userID string, total int, minutes int) models.ScoreRecord {
	return models.NewScoreRecord(userID, total, base.Add(time.Duration(minutes)*time.Minute))
}

func TestBuild_Empty(t *testing.T) {
	board := Build(nil, DefaultLimit)
	assert.Empty(t, board.Entries)
	assert.Equal(t, 0, board.TotalUsers)
}

func TestBuild_RanksRegardlessOfInsertionOrder(t *testing.T) {
	records := []models.ScoreRecord{
		record("carol", 90, 0),
		record("alice", 9, 1),
		record("bob", 40, 2),
	}
	for i := 0; i < 10; i++ {
		rand.New(rand.NewSource(int64(i))).Shuffle(len(records), func(a, b int) {
			records[a], records[b] = records[b], records[a]
		})
		board := Build(records, DefaultLimit)
		require.Len(t, board.Entries, 3)
		assert.Equal(t, "alice", board.Entries[0].UserID)
		assert.Equal(t, "bob", board.Entries[1].UserID)
		assert.Equal(t, "carol", board.Entries[2].UserID)
		for i, entry := range board.Entries {
			assert.Equal(t, i+1, entry.Rank)
		}
	}
}

func TestBuild_PerUserSummary(t *testing.T) {
	records := []models.ScoreRecord{
		record("alice", 30, 0),
		record("alice", 12, 10),
		record("alice", 50, 20),
		record("bob", 27, 5),
	}
	board := Build(records, 0)
	require.Len(t, board.Entries, 2)

	alice := board.Entries[0]
	assert.Equal(t, Entry{
		Rank:          1,
		UserID:        "alice",
		BestScore:     12,
		LatestScore:   50,
		Category:      scoring.CategoryHigh,
		LastUpdated:   base.Add(20 * time.Minute),
		TotalAttempts: 3,
		AverageScore:  30.7,
	}, alice)

	bob := board.Entries[1]
	assert.Equal(t, 27, bob.BestScore)
	assert.Equal(t, scoring.CategoryModerate, bob.Category)
	assert.Equal(t, 27.0, bob.AverageScore)
}

func TestBuild_LatestIndependentOfOrder(t *testing.T) {
	records := []models.ScoreRecord{
		record("alice", 50, 20),
		record("alice", 12, 10),
		record("alice", 30, 0),
	}
	board := Build(records, 0)
	require.Len(t, board.Entries, 1)
	assert.Equal(t, 50, board.Entries[0].LatestScore)
	assert.Equal(t, 12, board.Entries[0].BestScore)
}

func TestBuild_TieBreak(t *testing.T) {
	records := []models.ScoreRecord{
		record("zed", 20, 0),
		record("amy", 20, 5),
		record("bea", 20, 5),
	}
	board := Build(records, 0)
	require.Len(t, board.Entries, 3)
	assert.Equal(t, "zed", board.Entries[0].UserID, "earliest first submission wins")
	assert.Equal(t, "amy", board.Entries[1].UserID, "then user id")
	assert.Equal(t, "bea", board.Entries[2].UserID)
}

func TestBuild_Limit(t *testing.T) {
	var records []models.ScoreRecord
	for i := 0; i < 25; i++ {
		records = append(records, record(fmt.Sprintf("user-%02d", i), 100-i, i))
	}

	top := Build(records, DefaultLimit)
	assert.Len(t, top.Entries, DefaultLimit)
	assert.Equal(t, 25, top.TotalUsers)
	assert.Equal(t, "user-24", top.Entries[0].UserID)

	all := Build(records, 0)
	assert.Len(t, all.Entries, 25)
}

func TestBuild_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		var records []models.ScoreRecord
		n := rng.Intn(200)
		for i := 0; i < n; i++ {
			records = append(records, record(fmt.Sprintf("u%d", rng.Intn(30)), rng.Intn(101), rng.Intn(1000)))
		}
		board := Build(records, 0)

		seen := make(map[string]bool)
		for i, entry := range board.Entries {
			assert.Equal(t, i+1, entry.Rank)
			assert.False(t, seen[entry.UserID], "duplicate user %s", entry.UserID)
			seen[entry.UserID] = true
			if i > 0 {
				assert.LessOrEqual(t, board.Entries[i-1].BestScore, entry.BestScore)
			}
		}
		assert.Equal(t, len(seen), board.TotalUsers)
	}
}

func TestRoundTenths(t *testing.T) {
	tests := []struct {
		sum, count int
		want       float64
	}{
		{0, 0, 0},
		{5, 2, 2.5},
		{1, 3, 0.3},
		{2, 3, 0.7},
		{1, 4, 0.3},
		{1, 20, 0.1},
		{1, 40, 0.0},
		{92, 3, 30.7},
		{-1, 4, -0.3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundTenths(tt.sum, tt.count), "%d/%d", tt.sum, tt.count)
	}
}

func TestLookup(t *testing.T) {
	reducer := NewReducer()
	for i, total := range []int{9, 40, 90, 60} {
		reducer.Add(record(fmt.Sprintf("user-%d", i), total, i))
	}

	rank, ok := Lookup(reducer.Summaries(), "user-3")
	require.True(t, ok)
	assert.Equal(t, UserRank{UserID: "user-3", Rank: 3, BestScore: 60, TotalUsers: 4, Percentile: 75}, rank)

	_, ok = Lookup(reducer.Summaries(), "nobody")
	assert.False(t, ok)
}

func TestTimeFrame(t *testing.T) {
	now := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	frame, err := ParseTimeFrame("")
	require.NoError(t, err)
	assert.True(t, frame.Since(now).IsZero())

	frame, err = ParseTimeFrame("week")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 24, 0, 0, 0, 0, time.UTC), frame.Since(now))

	frame, err = ParseTimeFrame("monthly")
	require.NoError(t, err)
	assert.Equal(t, TimeFrameMonth, frame)

	_, err = ParseTimeFrame("decade")
	assert.Error(t, err)
}
