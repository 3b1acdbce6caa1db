package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	BlogsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "vitalpress", Name: "blogs_created_total", Help: "Number of blogs created by author role."},
		[]string{"role"},
	)
	BlogsModerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "vitalpress", Name: "blogs_moderated_total", Help: "Number of moderation decisions by outcome."},
		[]string{"decision"},
	)
	EngagementEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "vitalpress", Name: "engagement_events_total", Help: "Number of engagement events by type (like, unlike, comment)."},
		[]string{"type"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "vitalpress", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "vitalpress", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(BlogsCreated)
	reg.MustRegister(BlogsModerated)
	reg.MustRegister(EngagementEvents)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
