package booking

import "github.com/prometheus/client_golang/prometheus"

var (
	bookingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vaxslots",
			Subsystem: "booking",
			Name:      "bookings_total",
			Help:      "Booking attempts by outcome",
		},
		[]string{"outcome"},
	)

	gateWaitSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "vaxslots",
			Subsystem: "booking",
			Name:      "gate_wait_seconds",
			Help:      "Time spent waiting for a center's mutation gate",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		},
	)

	adminOpsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vaxslots",
			Subsystem: "booking",
			Name:      "admin_ops_total",
			Help:      "Admin center operations by op and result",
		},
		[]string{"op", "result"},
	)
)

func init() {
	prometheus.MustRegister(bookingsTotal, gateWaitSeconds, adminOpsTotal)
}

// Outcome labels, also used by the HTTP layer for the X-Booking-Outcome header.
const (
	OutcomeSuccess    = "success"
	OutcomeNoSlots    = "no_slots"
	OutcomeNotFound   = "not_found"
	OutcomeInvalid    = "invalid"
	OutcomeStoreError = "store_error"
)

// Outcome classifies a Book result into one of the outcome labels.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case IsNoSlots(err):
		return OutcomeNoSlots
	case IsNotFound(err):
		return OutcomeNotFound
	case IsValidation(err):
		return OutcomeInvalid
	default:
		return OutcomeStoreError
	}
}
