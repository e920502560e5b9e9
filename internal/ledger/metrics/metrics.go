package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the ledger module.
// Tracks record creation counts, settlement volumes, and critical path
// durations.
type Metrics struct {
	PoliciesCreated      prometheus.Counter
	PremiumsPaid         prometheus.Counter
	PremiumVolume        prometheus.Counter
	ClaimsSubmitted      prometheus.Counter
	ClaimsApproved       prometheus.Counter
	ClaimsRejected       prometheus.Counter
	PayoutVolume         prometheus.Counter
	CreatePolicyDuration prometheus.Histogram
	ProcessClaimDuration prometheus.Histogram
}

// New creates a Metrics instance with all ledger module metrics registered.
func New() *Metrics {
	return &Metrics{
		PoliciesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coverledger_policies_created_total",
			Help: "Total number of policies created",
		}),
		PremiumsPaid: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coverledger_premium_payments_total",
			Help: "Total number of successful premium payments",
		}),
		PremiumVolume: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coverledger_premium_volume_total",
			Help: "Cumulative premium amount collected",
		}),
		ClaimsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coverledger_claims_submitted_total",
			Help: "Total number of claims submitted",
		}),
		ClaimsApproved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coverledger_claims_approved_total",
			Help: "Total number of claims approved",
		}),
		ClaimsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coverledger_claims_rejected_total",
			Help: "Total number of claims rejected",
		}),
		PayoutVolume: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coverledger_payout_volume_total",
			Help: "Cumulative claim amount paid out",
		}),
		CreatePolicyDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "coverledger_create_policy_duration_seconds",
			Help:    "Duration of CreatePolicy operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		ProcessClaimDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "coverledger_process_claim_duration_seconds",
			Help:    "Duration of ProcessClaim operations (settlement critical path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveCreatePolicy records the duration of a CreatePolicy operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveCreatePolicy(start time.Time) {
	m.CreatePolicyDuration.Observe(time.Since(start).Seconds())
}

// ObserveProcessClaim records the duration of a ProcessClaim operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveProcessClaim(start time.Time) {
	m.ProcessClaimDuration.Observe(time.Since(start).Seconds())
}
