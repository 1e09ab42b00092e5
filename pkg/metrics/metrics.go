package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	WalletOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_operations_total",
			Help: "Total number of wallet ledger operations.",
		},
		[]string{"type", "status"},
	)
	RuleExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autoinvest_rule_results_total",
			Help: "Per-rule outcomes of auto-invest engine runs.",
		},
		[]string{"status"},
	)
	CodeVerifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otp_verifications_total",
			Help: "One-time code verification outcomes.",
		},
		[]string{"result"},
	)
)

func Register(registry *prometheus.Registry) {
	registry.MustRegister(WalletOperations, RuleExecutions, CodeVerifications)
}

func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
