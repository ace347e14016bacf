package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RegistrationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_registrations_total",
		Help: "Total successful user registrations",
	})
	LoginsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_logins_total",
		Help: "Total successful logins",
	})
	TokenRefreshesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_token_refreshes_total",
		Help: "Total successful access-token refreshes",
	})
	RefreshReplaysTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_refresh_replays_total",
		Help: "Total refresh-token replay detections",
	})
	OrdersCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total orders opened against the payment gateway",
	})
	PaymentsVerifiedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payments_verified_total",
		Help: "Total payments confirmed by signature verification",
	})
	PaymentVerifyFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payment_verify_failures_total",
		Help: "Total payment signature verification failures",
	})
)

func init() {
	prometheus.MustRegister(
		RegistrationsTotal,
		LoginsTotal,
		TokenRefreshesTotal,
		RefreshReplaysTotal,
		OrdersCreatedTotal,
		PaymentsVerifiedTotal,
		PaymentVerifyFailuresTotal,
	)
}
