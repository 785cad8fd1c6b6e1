package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/todosalud/clinic-appointments/internal/view"
)

const msgLoadFailed = "Error al cargar citas."

// Home dispatches the navigable views. Unauthenticated requests always
// land on the login view regardless of the requested view parameter; the
// absence of a session is the normal default state, not an error.
func (h *Handler) Home(c echo.Context) error {
	d := h.data(c)
	if !d.LoggedIn {
		d.View = "login"
		return c.Render(http.StatusOK, "login", d)
	}

	switch c.QueryParam("view") {
	case "register":
		d.View = "register"
		return c.Render(http.StatusOK, "register", d)
	case "list":
		return h.renderList(c, d, h.searchTerm(c), "")
	default:
		d.View = "main"
		return c.Render(http.StatusOK, "main", d)
	}
}

// searchTerm reads the listing filter, form field first, then the query
// parameter, so both the search form post and a bookmarked URL work.
func (h *Handler) searchTerm(c echo.Context) string {
	if t := strings.TrimSpace(c.FormValue("appointmentSearchInput")); t != "" {
		return t
	}
	return strings.TrimSpace(c.QueryParam("search"))
}

// renderList runs the search and renders the listing view. The search is a
// pure read re-queried from the store on every render.
func (h *Handler) renderList(c echo.Context, d view.Data, term, message string) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	d.View = "list"
	d.SearchTerm = term
	d.Message = message

	appts, err := h.Appointments.Search(ctx, term)
	if err != nil {
		log.Printf("appointments: search failed: %v", err)
		d.Message = msgLoadFailed
		return c.Render(http.StatusOK, "list", d)
	}
	d.Appointments = appts
	return c.Render(http.StatusOK, "list", d)
}
