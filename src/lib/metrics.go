package lib

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "linkup"

var (
	// MailJobs counts mail job outcomes. Labels: kind, result (queued, dropped, retry, sent, failed, invalid)
	MailJobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "mail",
		Name:      "jobs_total",
		Help:      "Mail jobs processed by kind and result.",
	}, []string{"kind", "result"})

	// Notifications counts created notifications. Labels: type
	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "notifications_total",
		Help:      "Notifications created by type.",
	}, []string{"type"})

	// ConnectionTransitions counts connection request state changes. Labels: status
	ConnectionTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "connection_transitions_total",
		Help:      "Connection requests moved into a status.",
	}, []string{"status"})
)

// MetricsHandler exposes the default Prometheus registry on a fiber route.
func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
