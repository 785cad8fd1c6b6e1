package router // package router defines how HTTP routes are registered for the portal

import (
	"github.com/labstack/echo/v4"

	"github.com/todosalud/clinic-appointments/internal/handler"
)

// Register wires every route of the portal onto the Echo instance. The
// session middleware is applied globally by the caller; rateLimit guards
// only the credential form posts.
func Register(e *echo.Echo, h *handler.Handler, rateLimit echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	// navigable views; POST is accepted on "/" because the listing's
	// search form posts back to the same URL
	e.GET("/", h.Home)
	e.POST("/", h.Home)

	// credential operations, reachable without a session
	e.POST("/auth/register", h.Register, rateLimit)
	e.POST("/auth/login", h.Login, rateLimit)
	e.GET("/logout", h.Logout)

	// appointment operations; the handlers render the login view when no
	// session is bound
	e.POST("/appointments", h.CreateAppointment)
	e.POST("/appointments/delete", h.DeleteAppointment)
}
