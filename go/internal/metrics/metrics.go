// Package metrics exposes prometheus counters for registry traffic.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the collectors incremented by the HTTP layer. Tests
// register against a throwaway prometheus.NewRegistry().
type Metrics struct {
	GroupsCreated   prometheus.Counter
	Joins           prometheus.Counter
	LocationUpdates prometheus.Counter
	Messages        prometheus.Counter
	Bets            prometheus.Counter
	Polls           prometheus.Counter
}

// New registers the collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		GroupsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "huddle_groups_created_total",
			Help: "Groups created, including client-driven resurrections.",
		}),
		Joins: factory.NewCounter(prometheus.CounterOpts{
			Name: "huddle_joins_total",
			Help: "Join operations, including idempotent re-joins.",
		}),
		LocationUpdates: factory.NewCounter(prometheus.CounterOpts{
			Name: "huddle_location_updates_total",
			Help: "Accepted location updates.",
		}),
		Messages: factory.NewCounter(prometheus.CounterOpts{
			Name: "huddle_chat_messages_total",
			Help: "Chat messages appended.",
		}),
		Bets: factory.NewCounter(prometheus.CounterOpts{
			Name: "huddle_bets_total",
			Help: "Bets recorded, counting replacements.",
		}),
		Polls: factory.NewCounter(prometheus.CounterOpts{
			Name: "huddle_group_polls_total",
			Help: "Group snapshot reads served to polling clients.",
		}),
	}
}
