// Package view renders the server-side HTML pages. Templates are embedded
// in the binary and rendered through html/template, whose contextual
// escaping covers the requirement that all user-supplied text is escaped
// before it reaches the browser.
package view

import (
	"embed"
	"html/template"
	"io"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/todosalud/clinic-appointments/internal/model"
	"github.com/todosalud/clinic-appointments/internal/session"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Data is the render context shared by every page. Form carries the last
// submitted field values so a failed submission re-populates its inputs;
// it is view state, never persisted.
type Data struct {
	View         string
	Message      string
	LoggedIn     bool
	Session      session.Session
	Appointments []model.Appointment
	SearchTerm   string
	Form         map[string]string
	Reasons      []string
	Specialties  []string
}

// Renderer implements echo.Renderer over the embedded template set.
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"truncate": truncate,
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: t}, nil
}

// Render writes the named template with the given data.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// truncate shortens long narrative text for the listing table.
func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n]) + "..."
}
