package planner

import (
	"errors"
	"sync"
	"time"

	"github.com/greenfleet/greenfleet/core/ledger"
	"github.com/greenfleet/greenfleet/core/model"
	"github.com/greenfleet/greenfleet/core/quota"
)

// ErrRunNotFound is returned for unknown or evicted run IDs.
var ErrRunNotFound = errors.New("run not found")

// Run is a completed planning run. It is never modified after creation.
type Run struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Plan      model.FleetPlan `json:"plan"`
	Quotas    []float64       `json:"quotas_kg_co2"`
	// EnteredLimits are the limits given with the request, nil if none.
	EnteredLimits []float64     `json:"entered_limits_kg_co2,omitempty"`
	QuotaSource   quota.Source  `json:"quota_source"`
	QuotaMismatch bool          `json:"quota_mismatch"`
	DatasetRows   int           `json:"dataset_rows"`
	Report        ledger.Report `json:"report"`
}

// Export returns the flat export rows of the run's plan.
func (r *Run) Export() []ledger.FlatRecord { return ledger.FlattenForExport(r.Plan) }

// DefaultCacheSize is the number of runs kept when no size is configured.
const DefaultCacheSize = 32

// RunCache keeps the most recent runs in memory, evicting the oldest.
type RunCache struct {
	mu    sync.Mutex
	size  int
	order []string
	runs  map[string]*Run
}

// NewRunCache returns a cache holding up to size runs.
func NewRunCache(size int) *RunCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &RunCache{size: size, runs: make(map[string]*Run, size)}
}

// Put stores the run, evicting the oldest entry when full.
func (c *RunCache) Put(r *Run) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.runs[r.ID]; !ok {
		c.order = append(c.order, r.ID)
	}
	c.runs[r.ID] = r
	for len(c.order) > c.size {
		delete(c.runs, c.order[0])
		c.order = c.order[1:]
	}
}

// Get returns the run with the given ID.
func (c *RunCache) Get(id string) (*Run, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}
	return r, nil
}

// Len returns the number of cached runs.
func (c *RunCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.runs)
}
