// Package handler implements the HTTP request handlers behind the clinic
// portal: credential management, view navigation and appointment
// operations. Every path ends in a rendered view with a user-safe message;
// raw store errors are logged server-side and never echoed to the browser.
package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/todosalud/clinic-appointments/internal/config"
	"github.com/todosalud/clinic-appointments/internal/middleware"
	"github.com/todosalud/clinic-appointments/internal/model"
	"github.com/todosalud/clinic-appointments/internal/repository"
	"github.com/todosalud/clinic-appointments/internal/session"
	"github.com/todosalud/clinic-appointments/internal/view"
)

// Handler bundles the dependencies shared by all endpoints.
type Handler struct {
	Cfg          config.Config
	Users        repository.UsersRepo
	Appointments repository.AppointmentsRepo
	Sessions     session.Store
}

func New(cfg config.Config, users repository.UsersRepo, appts repository.AppointmentsRepo, sessions session.Store) *Handler {
	return &Handler{Cfg: cfg, Users: users, Appointments: appts, Sessions: sessions}
}

// data builds the base render context for the current request, picking up
// the session resolved by the middleware when one exists.
func (h *Handler) data(c echo.Context) view.Data {
	d := view.Data{
		Form:        map[string]string{},
		Reasons:     model.VisitReasons,
		Specialties: model.Specialties,
	}
	if sess, ok := middleware.CurrentSession(c); ok {
		d.LoggedIn = true
		d.Session = sess
	}
	return d
}
