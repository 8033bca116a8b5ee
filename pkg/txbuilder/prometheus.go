package txbuilder

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics for monitoring transaction building.
var (
	signedTransactions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Help:      "Number of transactions signed",
			Name:      "signed_transactions_total",
			Namespace: "neotx",
		},
	)
	validationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of transaction validation failures",
			Name:      "validation_failures_total",
			Namespace: "neotx",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(
		signedTransactions,
		validationFailures,
	)
}

func incSigned() {
	signedTransactions.Inc()
}

func incValidationFailure(err error) {
	validationFailures.WithLabelValues(failureReason(err)).Inc()
}
