// Package metrics defines and registers all custom Prometheus metrics for the
// e-learning marketplace API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at init time; the
// router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "elearning"

// ── Identity metrics ──────────────────────────────────────────────────────────

// RegistrationsTotal counts created user records.
// Label:
//   - provider: "credentials", "google", or "github"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of user records created, by identity provider.",
	},
	[]string{"provider"},
)

// LoginsTotal counts sign-in attempts.
// Labels:
//   - provider: identity provider used for the attempt
//   - result: "success", "first_sign_in", "invalid", "no_password", "not_found"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of sign-in attempts, by provider and result.",
	},
	[]string{"provider", "result"},
)

// ── Enrollment metrics ────────────────────────────────────────────────────────

// EnrollmentsCreatedTotal counts newly created enrollment rows.
// Label:
//   - method: "free" or "external-payment"
var EnrollmentsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "enrollments_created_total",
		Help:      "Total number of enrollments created, by payment method.",
	},
	[]string{"method"},
)

// EnrollmentsDedupTotal counts idempotency decisions on enroll calls.
// Label:
//   - result: "hit" (existing row replayed) or "miss" (new row created)
var EnrollmentsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "enrollments_dedup_total",
		Help:      "Total number of enrollment idempotency checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Payment metrics ───────────────────────────────────────────────────────────

// PaymentIntentsTotal counts payment intent lifecycle outcomes.
// Label:
//   - result: "created", "succeeded", "failed", "error", or a gateway status
var PaymentIntentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_intents_total",
		Help:      "Total number of payment intent operations, by outcome.",
	},
	[]string{"result"},
)

// ── Webhook metrics ───────────────────────────────────────────────────────────

// WebhookEventsTotal counts received gateway webhook events.
// Labels:
//   - type: gateway event type (e.g. "payment_intent.succeeded")
//   - result: "processed", "duplicate", "ignored", "rejected", "error"
var WebhookEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhook_events_total",
		Help:      "Total number of gateway webhook events received, by type and result.",
	},
	[]string{"type", "result"},
)

// WebhookProcessingDuration measures webhook handling from receipt to acknowledgement.
// Label:
//   - type: gateway event type
var WebhookProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "webhook_processing_duration_seconds",
		Help:      "Duration of webhook event handling from receipt to acknowledgement.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"type"},
)
