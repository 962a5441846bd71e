package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registrar module.
// Tracks operation counts, fee flow, and mutating-path durations.
type Metrics struct {
	Registrations    prometheus.Counter
	Renewals         prometheus.Counter
	Transfers        prometheus.Counter
	FeesCollected    prometheus.Counter
	FailedOperations *prometheus.CounterVec
	RegisterDuration prometheus.Histogram
	RenewDuration    prometheus.Histogram
	TransferDuration prometheus.Histogram
}

// New creates a Metrics instance with all registrar metrics registered.
func New() *Metrics {
	return &Metrics{
		Registrations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namereg_registrations_total",
			Help: "Total number of successful name registrations",
		}),
		Renewals: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namereg_renewals_total",
			Help: "Total number of successful name renewals",
		}),
		Transfers: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namereg_transfers_total",
			Help: "Total number of successful name transfers",
		}),
		FeesCollected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "namereg_fees_collected_total",
			Help: "Sum of fees collected across registrations and renewals",
		}),
		FailedOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "namereg_failed_operations_total",
			Help: "Failed operations by operation and error code",
		}, []string{"operation", "code"}),
		RegisterDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "namereg_register_duration_seconds",
			Help:    "Duration of Register operations (payment critical path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		RenewDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "namereg_renew_duration_seconds",
			Help:    "Duration of Renew operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		TransferDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "namereg_transfer_duration_seconds",
			Help:    "Duration of Transfer operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementRegistration records a successful registration and its fee.
func (m *Metrics) IncrementRegistration(feePaid uint64) {
	m.Registrations.Inc()
	m.FeesCollected.Add(float64(feePaid))
}

// IncrementRenewal records a successful renewal and its fee.
func (m *Metrics) IncrementRenewal(feePaid uint64) {
	m.Renewals.Inc()
	m.FeesCollected.Add(float64(feePaid))
}

// IncrementTransfer records a successful transfer.
func (m *Metrics) IncrementTransfer() {
	m.Transfers.Inc()
}

// IncrementFailure records a failed operation by error code.
func (m *Metrics) IncrementFailure(operation, code string) {
	m.FailedOperations.WithLabelValues(operation, code).Inc()
}

// ObserveRegister records the duration of a Register operation.
// Call with time.Now() captured at the start of the operation.
func (m *Metrics) ObserveRegister(start time.Time) {
	m.RegisterDuration.Observe(time.Since(start).Seconds())
}

// ObserveRenew records the duration of a Renew operation.
func (m *Metrics) ObserveRenew(start time.Time) {
	m.RenewDuration.Observe(time.Since(start).Seconds())
}

// ObserveTransfer records the duration of a Transfer operation.
func (m *Metrics) ObserveTransfer(start time.Time) {
	m.TransferDuration.Observe(time.Since(start).Seconds())
}
