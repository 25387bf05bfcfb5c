// Package prompt renders the natural-language instructions sent to model
// providers. Templates are static text assets embedded at build time and
// versionable independently of code.
package prompt

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Template identifiers, one per generation operation
const (
	TemplateTargets         = "targets"
	TemplateWeeklyMenu      = "weekly_menu"
	TemplateDailyRevision   = "daily_revision"
	TemplateLifestyleReview = "lifestyle_review"
)

// Engine renders named templates against a map of placeholder values.
// A placeholder without a supplied value is a caller error: generators must
// fill defaults ("no allergies reported") before rendering.
type Engine struct {
	templates *template.Template
}

// NewEngine parses the embedded template assets
func NewEngine() (*Engine, error) {
	tmpl, err := template.New("prompts").
		Option("missingkey=error").
		ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt templates: %w", err)
	}
	return &Engine{templates: tmpl}, nil
}

// Render produces the prompt for the named template. Every placeholder the
// template references must have a value; missing keys fail the render.
func (e *Engine) Render(name string, values map[string]string) (string, error) {
	var sb strings.Builder
	if err := e.templates.ExecuteTemplate(&sb, name+".tmpl", values); err != nil {
		return "", fmt.Errorf("failed to render template %q: %w", name, err)
	}
	return sb.String(), nil
}
