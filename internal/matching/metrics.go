package matching

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	likesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_likes_total",
			Help: "Total number of like actions",
		},
		[]string{"kind"},
	)

	mutualMatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_mutual_matches_total",
			Help: "Total number of mutual matches created",
		},
	)

	dailyMatchesGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_daily_matches_generated_total",
			Help: "Total number of daily match suggestions generated",
		},
	)

	matchesExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_records_expired_total",
			Help: "Total number of pending match records expired",
		},
	)

	compatibilityScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_compatibility_scores",
			Help:    "Distribution of computed compatibility scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)
)

func RecordLike(isSuperLike bool) {
	kind := "like"
	if isSuperLike {
		kind = "super_like"
	}
	likesTotal.WithLabelValues(kind).Inc()
}

func RecordMutualMatch() {
	mutualMatchesTotal.Inc()
}

func RecordDailyGeneration(count int) {
	dailyMatchesGenerated.Add(float64(count))
}

func RecordExpired(count int64) {
	matchesExpiredTotal.Add(float64(count))
}

func ObserveCompatibilityScore(score float64) {
	compatibilityScores.Observe(score)
}
