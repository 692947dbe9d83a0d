package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	promoActivations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promo_activations_total",
			Help: "Promo code activation attempts by outcome.",
		},
		[]string{"outcome"},
	)

	promoValidations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promo_validations_total",
			Help: "Dry-run promo code validations by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	register(promoActivations, promoValidations)
}

// Outcome labels: "ok", "not_found", "inactive", "expired", "exhausted",
// "already_activated", "error".
func IncPromoActivation(outcome string) {
	promoActivations.WithLabelValues(outcome).Inc()
}

func IncPromoValidation(outcome string) {
	promoValidations.WithLabelValues(outcome).Inc()
}
