package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"eco-service/internal/service/models"
)

type metrics struct {
	submissions         *prometheus.CounterVec
	totalScores         prometheus.Histogram
	leaderboardDuration prometheus.Histogram
	storageErrors       *prometheus.CounterVec
}

func newMetrics(registerer prometheus.Registerer) *metrics {
	factory := promauto.With(registerer)
	return &metrics{
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eco",
			Name:      "submissions_total",
			Help:      "Stored submissions by entry point and impact category.",
		}, []string{"path", "category"}),
		totalScores: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "eco",
			Name:      "submitted_total_score",
			Help:      "Distribution of stored total scores.",
			Buckets:   []float64{10, 25, 45, 70, 90, 100},
		}),
		leaderboardDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "eco",
			Name:      "leaderboard_read_seconds",
			Help:      "Time spent reading and grouping records for a leaderboard.",
			Buckets:   prometheus.DefBuckets,
		}),
		storageErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eco",
			Name:      "storage_errors_total",
			Help:      "Failed storage operations.",
		}, []string{"op"}),
	}
}

func (m *metrics) observeSubmission(path string, record models.ScoreRecord) {
	m.submissions.WithLabelValues(path, string(record.Category)).Inc()
	m.totalScores.Observe(float64(record.TotalScore))
}
