package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(entitlementChecksTotal)
}

var entitlementChecksTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "entitlement_checks_total",
		Help: "Entitlement checks by outcome (active/none/expired_on_read).",
	},
	[]string{"outcome"},
)

func IncEntitlementCheck(outcome string) {
	entitlementChecksTotal.WithLabelValues(norm(outcome)).Inc()
}
