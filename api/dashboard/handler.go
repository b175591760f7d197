// Package dashboard serves the HTML pages of the Green Fleet dashboard.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/greenfleet/greenfleet/api"
	"github.com/greenfleet/greenfleet/core/fleet"
	"github.com/greenfleet/greenfleet/core/logger"
	"github.com/greenfleet/greenfleet/core/planner"
	"github.com/greenfleet/greenfleet/core/quota"
	"github.com/greenfleet/greenfleet/internal/view"
	"github.com/greenfleet/greenfleet/pkg/export"
)

// Planner is the part of planner.Service used by the dashboard.
type Planner interface {
	Horizon() int
	Run(ctx context.Context, req planner.Request) (*planner.Run, error)
	Get(id string) (*planner.Run, error)
}

// Options configures a Handler.
type Options struct {
	// DefaultLimit prefills the emission limit fields.
	DefaultLimit string
	// MaxUploadBytes bounds the multipart form size.
	MaxUploadBytes int64
	// ExportRateLimit is the number of CSV downloads per minute and client.
	ExportRateLimit int
	// Static serves /static/*. Nil disables the route.
	Static fs.FS
	Logger logger.Logger
}

// Handler wires the dashboard pages.
type Handler struct {
	planner   Planner
	templates *view.Engine
	validator *validator.Validate
	opts      Options
	log       logger.Logger
}

// NewHandler constructs a Handler instance.
func NewHandler(p Planner, templates *view.Engine, opts Options) *Handler {
	if opts.DefaultLimit == "" {
		opts.DefaultLimit = quota.DefaultLimitText
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	log := opts.Logger
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Handler{
		planner:   p,
		templates: templates,
		validator: validator.New(),
		opts:      opts,
		log:       log,
	}
}

// MountRoutes registers the dashboard routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.showHome)
	r.Get("/about", h.showAbout)
	r.Get("/optimizer", h.showOptimizer)
	r.Post("/optimizer", h.handleOptimizer)
	r.Group(func(gr chi.Router) {
		gr.Use(api.ExportLimiter(h.opts.ExportRateLimit))
		gr.Get("/optimizer/runs/{id}/export.csv", h.handleExport)
	})
	if h.opts.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(h.opts.Static))))
	}
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.renderError(w, r, http.StatusNotFound, "The page you requested does not exist.")
	})
}

func (h *Handler) showHome(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "home", "Home", nil)
}

func (h *Handler) showAbout(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "about", "About", aboutPage{Horizon: h.planner.Horizon()})
}

func (h *Handler) showOptimizer(w http.ResponseWriter, r *http.Request) {
	page := h.newPage(nil)
	if id := r.URL.Query().Get("run"); id != "" {
		run, err := h.planner.Get(id)
		if err != nil {
			h.renderError(w, r, api.StatusFor(err), "This optimization run is no longer available.")
			return
		}
		page.Result = newRunView(run)
		page.Limits = newLimitFields(enteredTexts(run, h.opts.DefaultLimit))
	}
	h.render(w, r, http.StatusOK, "optimizer", "Fleet Optimizer", page)
}

type optimizerForm struct {
	Action string   `validate:"required,oneof=view optimize"`
	Limits []string `validate:"dive,required,max=64"`
}

func (h *Handler) handleOptimizer(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.opts.MaxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.renderError(w, r, http.StatusBadRequest, "The submitted form could not be read.")
		return
	}
	form := optimizerForm{Action: r.FormValue("action"), Limits: make([]string, h.planner.Horizon())}
	if form.Action == "" {
		form.Action = "optimize"
	}
	for i := range form.Limits {
		form.Limits[i] = r.FormValue(limitName(i + 1))
	}
	page := h.newPage(form.Limits)

	if err := h.validator.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			h.renderError(w, r, http.StatusBadRequest, "The submitted form could not be read.")
			return
		}
		for _, fe := range verrs {
			idx, msg := fieldMessage(fe)
			if idx >= 0 && idx < len(page.Limits) {
				page.Limits[idx].Error = msg
			}
			page.Errors = append(page.Errors, msg)
		}
		h.render(w, r, http.StatusBadRequest, "optimizer", "Fleet Optimizer", page)
		return
	}

	dataset, err := readDataset(r)
	if err != nil {
		page.Errors = append(page.Errors, fmt.Sprintf("The uploaded dataset is invalid: %v", err))
		h.render(w, r, http.StatusBadRequest, "optimizer", "Fleet Optimizer", page)
		return
	}

	if form.Action == "view" {
		if dataset == nil {
			page.Errors = append(page.Errors, "Please upload a fleet dataset first.")
			h.render(w, r, http.StatusBadRequest, "optimizer", "Fleet Optimizer", page)
			return
		}
		page.Dataset = dataset
		h.render(w, r, http.StatusOK, "optimizer", "Fleet Optimizer", page)
		return
	}

	limits, err := quota.ParseLimits(form.Limits)
	if err != nil {
		var lerr *quota.LimitError
		if errors.As(err, &lerr) {
			page.Limits[lerr.Index].Error = lerr.Msg
		}
		page.Errors = append(page.Errors, err.Error())
		h.render(w, r, http.StatusBadRequest, "optimizer", "Fleet Optimizer", page)
		return
	}

	run, err := h.planner.Run(r.Context(), planner.Request{Dataset: dataset, Limits: limits})
	if err != nil {
		h.log.Errorf("optimizer run failed: %v", err)
		status := api.StatusFor(err)
		if status == http.StatusBadRequest {
			page.Errors = append(page.Errors, err.Error())
		} else {
			page.Errors = append(page.Errors, "The optimization could not be completed. Please try again.")
		}
		h.render(w, r, status, "optimizer", "Fleet Optimizer", page)
		return
	}
	page.Dataset = dataset
	page.Result = newRunView(run)
	h.render(w, r, http.StatusOK, "optimizer", "Fleet Optimizer", page)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	run, err := h.planner.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.renderError(w, r, api.StatusFor(err), "This optimization run is no longer available.")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	if err := export.WriteCSV(w, run.Export()); err != nil {
		h.log.Errorf("write export %s: %v", run.ID, err)
	}
}

func (h *Handler) newPage(limits []string) optimizerPage {
	if limits == nil {
		limits = make([]string, h.planner.Horizon())
		for i := range limits {
			limits[i] = h.opts.DefaultLimit
		}
	}
	return optimizerPage{
		Horizon:        h.planner.Horizon(),
		Limits:         newLimitFields(limits),
		DatasetColumns: fleet.Columns,
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	td := view.TemplateData{Title: title, CurrentPath: r.URL.Path, Data: data}
	if err := h.templates.RenderStatus(w, status, name, td); err != nil {
		h.log.Errorf("render %s: %v", name, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.render(w, r, status, "error", http.StatusText(status), msg)
}

// readDataset returns the uploaded dataset, or nil when no file was sent.
func readDataset(r *http.Request) (*fleet.Dataset, error) {
	f, _, err := r.FormFile("fleet_csv")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return fleet.Parse(f)
}

func enteredTexts(run *planner.Run, def string) []string {
	out := make([]string, len(run.Quotas))
	for i := range out {
		out[i] = def
		if i < len(run.EnteredLimits) {
			out[i] = view.FormatNumber(run.EnteredLimits[i])
		}
	}
	return out
}

// fieldMessage returns the 0-based limit index of a validation failure, or -1
// when it is not about a limit field, and a message for the page.
func fieldMessage(fe validator.FieldError) (int, string) {
	if fe.StructField() == "Action" {
		return -1, "Unknown form action."
	}
	var idx int
	if _, err := fmt.Sscanf(fe.Field(), "Limits[%d]", &idx); err != nil {
		return -1, fmt.Sprintf("%s is invalid.", fe.Field())
	}
	if fe.Tag() == "max" {
		return idx, fmt.Sprintf("Carbon Emission Limit for Year %d is too long.", idx+1)
	}
	return idx, fmt.Sprintf("Carbon Emission Limit for Year %d is required.", idx+1)
}
