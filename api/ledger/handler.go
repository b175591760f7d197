// Package ledgerapi exposes planning runs and their exports as a JSON API.
package ledgerapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/greenfleet/greenfleet/api"
	"github.com/greenfleet/greenfleet/core/ledger"
	"github.com/greenfleet/greenfleet/core/logger"
	"github.com/greenfleet/greenfleet/core/planner"
	"github.com/greenfleet/greenfleet/core/quota"
	"github.com/greenfleet/greenfleet/pkg/export"
)

// Planner is the part of planner.Service used by the API.
type Planner interface {
	Horizon() int
	Run(ctx context.Context, req planner.Request) (*planner.Run, error)
	Get(id string) (*planner.Run, error)
}

// maxBodyBytes bounds POST /api/plan/runs bodies.
const maxBodyBytes = 64 << 10

// RunRequest is the body of POST /api/plan/runs. Limits may be omitted.
type RunRequest struct {
	Limits []string `json:"limits"`
}

// RunResponse describes a completed run.
type RunResponse struct {
	ID             string        `json:"id"`
	CreatedAt      time.Time     `json:"created_at"`
	Horizon        int           `json:"horizon"`
	QuotaSource    quota.Source  `json:"quota_source"`
	QuotaMismatch  bool          `json:"quota_mismatch"`
	Quotas         []float64     `json:"quotas_kg_co2"`
	EnteredLimits  []float64     `json:"entered_limits_kg_co2,omitempty"`
	Report         ledger.Report `json:"report"`
	OverQuotaYears []int         `json:"over_quota_years"`
	Links          ResponseLinks `json:"links"`
}

// ResponseLinks points at the exports of a run.
type ResponseLinks struct {
	Self       string `json:"self"`
	ExportCSV  string `json:"export_csv"`
	ExportJSON string `json:"export_json"`
}

// Handler serves the JSON API.
type Handler struct {
	planner     Planner
	exportLimit int
	log         logger.Logger
}

// NewHandler returns a Handler. exportLimit is the number of export requests
// allowed per client IP and minute.
func NewHandler(p Planner, exportLimit int, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Handler{planner: p, exportLimit: exportLimit, log: log}
}

// MountRoutes registers the API routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/healthz", h.handleHealth)
	r.Route("/api/plan/runs", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/{id}", h.handleGet)
		r.Group(func(gr chi.Router) {
			gr.Use(api.ExportLimiter(h.exportLimit))
			gr.Get("/{id}/export.csv", h.handleExportCSV)
			gr.Get("/{id}/export.json", h.handleExportJSON)
		})
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	api.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		api.WriteJSON(w, http.StatusBadRequest, api.ErrorResponse{Error: fmt.Sprintf("invalid body: %v", err)})
		return
	}
	var limits []float64
	if req.Limits != nil {
		if len(req.Limits) != h.planner.Horizon() {
			api.WriteJSON(w, http.StatusBadRequest, api.ErrorResponse{
				Error: fmt.Sprintf("expected %d limits, got %d", h.planner.Horizon(), len(req.Limits)),
			})
			return
		}
		var err error
		if limits, err = quota.ParseLimits(req.Limits); err != nil {
			api.WriteError(w, err)
			return
		}
	}
	run, err := h.planner.Run(r.Context(), planner.Request{Limits: limits})
	if err != nil {
		h.log.Errorf("api run failed: %v", err)
		api.WriteError(w, err)
		return
	}
	w.Header().Set("Location", selfLink(run.ID))
	api.WriteJSON(w, http.StatusCreated, newRunResponse(run))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	run, err := h.planner.Get(chi.URLParam(r, "id"))
	if err != nil {
		api.WriteError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, newRunResponse(run))
}

func (h *Handler) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	run, err := h.planner.Get(chi.URLParam(r, "id"))
	if err != nil {
		api.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	if err := export.WriteCSV(w, run.Export()); err != nil {
		h.log.Errorf("write csv export %s: %v", run.ID, err)
	}
}

func (h *Handler) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	run, err := h.planner.Get(chi.URLParam(r, "id"))
	if err != nil {
		api.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := export.WriteJSON(w, run.Export()); err != nil {
		h.log.Errorf("write json export %s: %v", run.ID, err)
	}
}

func selfLink(id string) string { return "/api/plan/runs/" + id }

func newRunResponse(run *planner.Run) RunResponse {
	over := run.Report.OverQuotaYears()
	if over == nil {
		over = []int{}
	}
	self := selfLink(run.ID)
	return RunResponse{
		ID:             run.ID,
		CreatedAt:      run.CreatedAt,
		Horizon:        len(run.Quotas),
		QuotaSource:    run.QuotaSource,
		QuotaMismatch:  run.QuotaMismatch,
		Quotas:         run.Quotas,
		EnteredLimits:  run.EnteredLimits,
		Report:         run.Report,
		OverQuotaYears: over,
		Links: ResponseLinks{
			Self:       self,
			ExportCSV:  self + "/export.csv",
			ExportJSON: self + "/export.json",
		},
	}
}
