package leaderboard

import (
	"fmt"
	"time"
)

// UserRank is a single user's position on the complete leaderboard.
type UserRank struct {
	UserID     string  `json:"userId"`
	Rank       int     `json:"rank"`
	BestScore  int     `json:"bestScore"`
	TotalUsers int     `json:"totalUsers"`
	Percentile float64 `json:"percentile"` // top X%
}

// Lookup ranks all summaries and returns userID's position.
func Lookup(summaries []Summary, userID string) (UserRank, bool) {
	board := Rank(summaries, 0)
	for _, entry := range board.Entries {
		if entry.UserID != userID {
			continue
		}
		return UserRank{
			UserID:     userID,
			Rank:       entry.Rank,
			BestScore:  entry.BestScore,
			TotalUsers: board.TotalUsers,
			Percentile: RoundTenths(100*entry.Rank, board.TotalUsers),
		}, true
	}
	return UserRank{}, false
}

// TimeFrame restricts which records take part in a leaderboard.
type TimeFrame string

const (
	TimeFrameAll   TimeFrame = "all"
	TimeFrameWeek  TimeFrame = "week"
	TimeFrameMonth TimeFrame = "month"
)

// ParseTimeFrame accepts the frame names used by the web client. Empty means all.
func ParseTimeFrame(s string) (TimeFrame, error) {
	switch TimeFrame(s) {
	case "", TimeFrameAll:
		return TimeFrameAll, nil
	case TimeFrameWeek, "weekly":
		return TimeFrameWeek, nil
	case TimeFrameMonth, "monthly":
		return TimeFrameMonth, nil
	}
	return "", fmt.Errorf("unknown time frame %q", s)
}

// Since returns the earliest creation time included in the frame, or the zero
// time when every record counts.
func (f TimeFrame) Since(now time.Time) time.Time {
	switch f {
	case TimeFrameWeek:
		return now.AddDate(0, 0, -7)
	case TimeFrameMonth:
		return now.AddDate(0, -1, 0)
	}
	return time.Time{}
}
