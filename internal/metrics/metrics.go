package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/Sylgau-exe/gapanalysis/internal/scoring"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxPartnerLabels bounds the partner label set; later codes share "other".
const maxPartnerLabels = 50

// Metrics owns a private registry so several apps can coexist in one process
// (tests build one per case).
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec

	registrations prometheus.Counter
	logins        *prometheus.CounterVec
	assessments   *prometheus.CounterVec
	leads         *prometheus.CounterVec

	partnerMu sync.Mutex
	partners  map[string]struct{}
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		partners: make(map[string]struct{}),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gapanalysis_registrations_total",
			Help: "Accounts created",
		}),
		logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gapanalysis_logins_total",
				Help: "Login attempts by outcome",
			},
			[]string{"outcome"},
		),
		assessments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gapanalysis_assessments_saved_total",
				Help: "Assessments saved by goal",
			},
			[]string{"goal"},
		),
		leads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gapanalysis_partner_leads_total",
				Help: "Partner resource clicks by partner code",
			},
			[]string{"partner"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.duration,
		m.registrations,
		m.logins,
		m.assessments,
		m.leads,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records count and latency per matched route.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		route := c.Route().Path
		m.requests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

func (m *Metrics) Registered() {
	if m == nil {
		return
	}
	m.registrations.Inc()
}

func (m *Metrics) Login(outcome string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(outcome).Inc()
}

func (m *Metrics) AssessmentSaved(goal string) {
	if m == nil {
		return
	}
	m.assessments.WithLabelValues(goalLabel(goal)).Inc()
}

// goalLabel keeps the goal label to the scoring table's keys.
func goalLabel(goal string) string {
	switch {
	case goal == "":
		return "none"
	case scoring.KnownGoal(goal):
		return goal
	default:
		return "other"
	}
}

func (m *Metrics) LeadTracked(partner string) {
	if m == nil {
		return
	}
	m.leads.WithLabelValues(m.partnerLabel(partner)).Inc()
}

// partnerLabel admits the first maxPartnerLabels partner codes as their own
// series.
func (m *Metrics) partnerLabel(partner string) string {
	m.partnerMu.Lock()
	defer m.partnerMu.Unlock()

	if _, ok := m.partners[partner]; ok {
		return partner
	}
	if len(m.partners) >= maxPartnerLabels {
		return "other"
	}
	m.partners[partner] = struct{}{}
	return partner
}
