// Package metrics содержит счётчики доменных событий SkillSphere.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
)

// Metrics набор счётчиков, зарегистрированный в собственном реестре.
type Metrics struct {
	registry *prometheus.Registry

	SwapRequestsCreated prometheus.Counter
	StatusTransitions   *prometheus.CounterVec
	MessagesSent        prometheus.Counter
	NotificationsSent   *prometheus.CounterVec
	UsersRegistered     *prometheus.CounterVec
	FeedbackSubmitted   prometheus.Counter
}

// New создаёт счётчики и регистрирует их вместе со стандартными коллекторами Go.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SwapRequestsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "skillsphere",
			Name:      "swap_requests_created_total",
			Help:      "Number of swap requests created.",
		}),
		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skillsphere",
			Name:      "swap_request_transitions_total",
			Help:      "Swap request status changes by target status.",
		}, []string{"status"}),
		MessagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "skillsphere",
			Name:      "messages_sent_total",
			Help:      "Number of chat messages appended.",
		}),
		NotificationsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skillsphere",
			Name:      "notifications_created_total",
			Help:      "Notifications created by type.",
		}, []string{"type"}),
		UsersRegistered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skillsphere",
			Name:      "users_registered_total",
			Help:      "New users by sign-up method.",
		}, []string{"method"}),
		FeedbackSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "skillsphere",
			Name:      "feedback_submitted_total",
			Help:      "Feedback entries stored after completed swaps.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.SwapRequestsCreated,
		m.StatusTransitions,
		m.MessagesSent,
		m.NotificationsSent,
		m.UsersRegistered,
		m.FeedbackSubmitted,
	)
	return m
}

// Registry реестр для тестов и дополнительных коллекторов.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler отдаёт метрики в формате Prometheus через Fiber.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
