// Package view renders the dashboard HTML templates.
package view

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/greenfleet/greenfleet/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// NavItem is an entry of the sidebar navigation.
type NavItem struct {
	Title string
	Path  string
}

// Navigation lists the dashboard pages in sidebar order.
var Navigation = []NavItem{
	{Title: "Home", Path: "/"},
	{Title: "Fleet Optimizer", Path: "/optimizer"},
	{Title: "About", Path: "/about"},
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	CurrentPath string
	Data        any
}

// NewEngine parses the embedded templates.
func NewEngine() (*Engine, error) {
	funcMap := template.FuncMap{
		"nav":          func() []NavItem { return Navigation },
		"formatNumber": FormatNumber,
		"formatKg":     FormatKg,
		"formatMYR":    FormatMYR,
		"formatCost":   func(d decimal.Decimal) string { return FormatNumber(d.InexactFloat64()) },
		"isActive": func(current, path string) bool {
			if path == "/" {
				return current == "/"
			}
			return strings.HasPrefix(current, path)
		},
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates, "templates/layouts/*.html", "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named template with TemplateData and status 200.
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData) error {
	return e.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus executes a named template and writes it with the given status.
// Nothing is written when the template fails.
func (e *Engine) RenderStatus(w http.ResponseWriter, status int, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
