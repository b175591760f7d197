package planner

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/greenfleet/greenfleet/core/ledger"
	"github.com/greenfleet/greenfleet/core/logger"
	"github.com/greenfleet/greenfleet/core/metrics"
	"github.com/greenfleet/greenfleet/core/quota"
	"github.com/greenfleet/greenfleet/internal/eventbus"
)

// Options configures a Service.
type Options struct {
	Optimizer Optimizer
	// StaticQuotas is the configured quota list; its length is the horizon.
	StaticQuotas []float64
	QuotaSource  quota.Source
	Sink         metrics.LedgerSink
	// Bus receives every completed run. Optional.
	Bus       *eventbus.TypedBus[Run]
	CacheSize int
	Logger    logger.Logger
}

// Service runs the optimizer and builds ledgers from its plans.
type Service struct {
	opt    Optimizer
	static []float64
	source quota.Source
	sink   metrics.LedgerSink
	bus    *eventbus.TypedBus[Run]
	runs   *RunCache
	log    logger.Logger
	now    func() time.Time
}

// NewService validates the options and returns a Service.
func NewService(o Options) (*Service, error) {
	if o.Optimizer == nil {
		return nil, errors.New("optimizer is required")
	}
	if len(o.StaticQuotas) == 0 {
		return nil, errors.New("static quotas are required")
	}
	if fh, ok := o.Optimizer.(FixedHorizon); ok && fh.Horizon() != len(o.StaticQuotas) {
		return nil, fmt.Errorf("optimizer plans %d years but %d static quotas are configured", fh.Horizon(), len(o.StaticQuotas))
	}
	src, err := quota.ParseSource(string(o.QuotaSource))
	if err != nil {
		return nil, err
	}
	if o.Sink == nil {
		o.Sink = metrics.NopSink{}
	}
	if o.Logger == nil {
		o.Logger = logger.NopLogger{}
	}
	return &Service{
		opt:    o.Optimizer,
		static: slices.Clone(o.StaticQuotas),
		source: src,
		sink:   o.Sink,
		bus:    o.Bus,
		runs:   NewRunCache(o.CacheSize),
		log:    o.Logger,
		now:    time.Now,
	}, nil
}

// Horizon returns the number of plan years.
func (s *Service) Horizon() int { return len(s.static) }

// StaticQuotas returns a copy of the configured quota list.
func (s *Service) StaticQuotas() []float64 { return slices.Clone(s.static) }

// QuotaSource returns the configured quota source.
func (s *Service) QuotaSource() quota.Source { return s.source }

// Run optimizes, checks the plan against the resolved quotas and records the
// resulting ledger.
func (s *Service) Run(ctx context.Context, req Request) (*Run, error) {
	start := s.now()
	plan, err := s.opt.Optimize(ctx, req)
	if err != nil {
		reason := "optimizer"
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			reason = "canceled"
		}
		s.recordFailure(reason)
		return nil, fmt.Errorf("optimize: %w", err)
	}
	res, err := quota.Resolve(s.source, s.static, req.Limits)
	if err != nil {
		s.recordFailure("quota")
		return nil, err
	}
	if res.Mismatch {
		s.log.Warnf("entered emission limits %v differ from the %s quotas %v used for this run", req.Limits, res.Source, res.Quotas)
	}
	rep, err := ledger.GenerateReport(plan, res.Quotas)
	if err != nil {
		s.recordFailure("invalid_plan")
		return nil, err
	}
	run := &Run{
		ID:            uuid.NewString(),
		CreatedAt:     s.now().UTC(),
		Plan:          plan,
		Quotas:        res.Quotas,
		EnteredLimits: slices.Clone(req.Limits),
		QuotaSource:   res.Source,
		QuotaMismatch: res.Mismatch,
		DatasetRows:   req.Dataset.Len(),
		Report:        rep,
	}
	s.runs.Put(run)

	ev := metrics.RunEvent{
		RunID:         run.ID,
		Report:        rep,
		QuotaSource:   string(run.QuotaSource),
		QuotaMismatch: run.QuotaMismatch,
		Duration:      s.now().Sub(start),
		Time:          run.CreatedAt,
	}
	if err := s.sink.RecordLedger(ev); err != nil {
		s.log.Errorf("record ledger %s: %v", run.ID, err)
	}
	if s.bus != nil {
		s.bus.Publish(*run)
	}
	s.log.Infow("ledger run completed", map[string]any{
		"run_id":       run.ID,
		"years":        len(rep.Years),
		"total_budget": rep.Totals.TotalBudget.String(),
		"over_quota":   rep.OverQuotaYears(),
		"quota_source": string(run.QuotaSource),
	})
	return run, nil
}

// Get returns a recent run by ID.
func (s *Service) Get(id string) (*Run, error) { return s.runs.Get(id) }

func (s *Service) recordFailure(reason string) {
	rec, ok := s.sink.(metrics.RunFailureRecorder)
	if !ok {
		return
	}
	if err := rec.RecordRunFailure(metrics.RunFailureEvent{Reason: reason, Time: s.now()}); err != nil {
		s.log.Errorf("record run failure: %v", err)
	}
}
