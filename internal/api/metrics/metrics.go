// Package metrics defines and registers all custom Prometheus metrics for
// the usage tracking API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "usage"

// ReadingsRecordedTotal counts meter readings accepted into the ledger.
// Label:
//   - energy_type: electricity, water, naturalgas or vehiclefuel
var ReadingsRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "readings_recorded_total",
		Help:      "Total number of meter readings recorded, by utility type.",
	},
	[]string{"energy_type"},
)

// RecommendationsGeneratedTotal counts persisted advisories.
// Label:
//   - tier: "below_average", "above_average", "weekly_high" or "neutral"
var RecommendationsGeneratedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recommendations_generated_total",
		Help:      "Total number of advisories generated, by classification tier.",
	},
	[]string{"tier"},
)

// LoginAttemptsTotal counts authentication outcomes.
// Label:
//   - result: "success" or "failure"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"result"},
)

// SignupsTotal counts created identities.
// Label:
//   - role: "admin" or "user"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of accounts created, by role.",
	},
	[]string{"role"},
)
