package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_orders_created_total",
		Help: "Orders created, by payment kind (cod or gateway).",
	}, []string{"payment"})

	paymentSessionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shop_payment_session_failures_total",
		Help: "Payment gateway session requests that failed.",
	})

	orderTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_order_status_transitions_total",
		Help: "Admin status changes, by target status.",
	}, []string{"status"})

	eventPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shop_order_event_publish_failures_total",
		Help: "Order events that could not be published.",
	})
)
