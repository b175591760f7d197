package metrics

import (
	"errors"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/greenfleet/greenfleet/core/metrics"
)

// PromSink exposes the latest ledger run as Prometheus metrics.
type PromSink struct {
	// mu keeps the per-year gauges of one run together.
	mu        sync.Mutex
	emissions *prometheus.GaugeVec
	quota     *prometheus.GaugeVec
	buyCost   *prometheus.GaugeVec
	within    *prometheus.GaugeVec
	budget    prometheus.Gauge
	runs      *prometheus.CounterVec
	duration  prometheus.Histogram
}

// NewPromSink registers ledger metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered by a previous sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	yearLabels := []string{"year"}
	s := &PromSink{
		emissions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fleet_plan_year_emissions_kg_co2",
			Help: "Total emissions of the plan year in the latest run",
		}, yearLabels),
		quota: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fleet_plan_year_quota_kg_co2",
			Help: "Emission quota applied to the plan year in the latest run",
		}, yearLabels),
		buyCost: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fleet_plan_year_buy_cost_myr",
			Help: "Purchase cost of the plan year in the latest run",
		}, yearLabels),
		within: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fleet_plan_year_within_quota",
			Help: "1 when the plan year stays within its quota, 0 otherwise",
		}, yearLabels),
		budget: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fleet_plan_total_budget_myr",
			Help: "Total procurement budget of the latest run",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fleet_plan_runs_total",
			Help: "Number of ledger runs by outcome",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fleet_plan_run_duration_seconds",
			Help:    "Time spent optimizing and reporting a plan",
			Buckets: prometheus.DefBuckets,
		}),
	}
	var err error
	if s.emissions, err = register(reg, s.emissions); err != nil {
		return nil, err
	}
	if s.quota, err = register(reg, s.quota); err != nil {
		return nil, err
	}
	if s.buyCost, err = register(reg, s.buyCost); err != nil {
		return nil, err
	}
	if s.within, err = register(reg, s.within); err != nil {
		return nil, err
	}
	if s.budget, err = register(reg, s.budget); err != nil {
		return nil, err
	}
	if s.runs, err = register(reg, s.runs); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, s.duration); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordLedger replaces the per-year gauges with the values of the run.
func (s *PromSink) RecordLedger(ev coremetrics.RunEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emissions.Reset()
	s.quota.Reset()
	s.buyCost.Reset()
	s.within.Reset()
	for _, y := range ev.Report.Years {
		year := strconv.Itoa(y.Year)
		s.emissions.WithLabelValues(year).Set(y.TotalEmissions)
		s.quota.WithLabelValues(year).Set(y.Quota)
		s.buyCost.WithLabelValues(year).Set(y.TotalBuyCost.InexactFloat64())
		within := 0.0
		if y.WithinQuota {
			within = 1
		}
		s.within.WithLabelValues(year).Set(within)
	}
	s.budget.Set(ev.Report.Totals.TotalBudget.InexactFloat64())
	s.runs.WithLabelValues("success").Inc()
	s.duration.Observe(ev.Duration.Seconds())
	return nil
}

// RecordRunFailure counts a failed run under its reason.
func (s *PromSink) RecordRunFailure(ev coremetrics.RunFailureEvent) error {
	s.runs.WithLabelValues(ev.Reason).Inc()
	return nil
}
