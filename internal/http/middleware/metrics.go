package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RLRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_requests_total",
			Help: "Total requests seen by the rate limiter",
		},
		[]string{"endpoint"},
	)
	RLBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_blocked_total",
			Help: "Total requests blocked by the rate limiter",
		},
		[]string{"endpoint"},
	)

	// Engine counters
	ClaimsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "achievement_claims_total",
			Help: "Achievement claims by outcome",
		},
		[]string{"outcome"},
	)
	XPAwardedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "xp_awarded_total",
			Help: "Total XP granted through awards and rewards",
		},
	)
	StreakSaversUsed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "streak_savers_used_total",
			Help: "Total streak savers consumed",
		},
	)
)

func init() {
	prometheus.MustRegister(RLRequests)
	prometheus.MustRegister(RLBlocked)
	prometheus.MustRegister(ClaimsTotal)
	prometheus.MustRegister(XPAwardedTotal)
	prometheus.MustRegister(StreakSaversUsed)
}
