package handler

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/todosalud/clinic-appointments/internal/middleware"
	"github.com/todosalud/clinic-appointments/internal/model"
	"github.com/todosalud/clinic-appointments/internal/repository"
	"github.com/todosalud/clinic-appointments/internal/utils"
)

// User-facing outcome messages for credential operations. Authentication
// failures collapse into one message so callers cannot probe which emails
// are registered.
const (
	msgRegisterFields   = "Por favor, complete todos los campos para registrarse."
	msgPasswordShort    = "La contraseña debe tener al menos 6 caracteres."
	msgEmailInvalid     = "El formato del correo electrónico no es válido."
	msgEmailTaken       = "Error: El correo electrónico ya está registrado."
	msgRegisterOK       = "Registro exitoso. Ahora puedes iniciar sesión."
	msgRegisterFailed   = "No se pudo completar el registro. Inténtelo de nuevo más tarde."
	msgLoginFields      = "Por favor, complete todos los campos para iniciar sesión."
	msgBadCredentials   = "Correo electrónico o contraseña incorrectos."
	msgLoginOK          = "Inicio de sesión exitoso. ¡Bienvenido de nuevo!"
	msgLoginFailed      = "No se pudo iniciar sesión. Inténtelo de nuevo más tarde."
	msgLogoutOK         = "Sesión cerrada exitosamente."
	minPasswordLen      = 6
)

// Register handles the registration form. Validation failures are reported
// without touching the store; a duplicate email is detected solely via the
// store's unique-constraint error so concurrent registrations cannot race
// past a pre-check.
func (h *Handler) Register(c echo.Context) error {
	email := strings.TrimSpace(c.FormValue("registerEmail"))
	password := strings.TrimSpace(c.FormValue("registerPassword"))

	d := h.data(c)
	d.View = "login"
	d.Form["registerEmail"] = email

	switch {
	case email == "" || password == "":
		d.Message = msgRegisterFields
	case len(password) < minPasswordLen:
		d.Message = msgPasswordShort
	case !model.ValidEmail(email):
		d.Message = msgEmailInvalid
	default:
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		_, err := h.Users.Create(ctx, email, password, h.Cfg.BcryptCost)
		switch {
		case err == nil:
			d.Message = msgRegisterOK
			d.Form = map[string]string{} // clear the form to prevent resubmission
		case err == repository.ErrEmailExists:
			d.Message = msgEmailTaken
		default:
			log.Printf("auth: register failed: %v", err)
			d.Message = msgRegisterFailed
		}
	}
	return c.Render(http.StatusOK, "login", d)
}

// Login handles the login form. A missing user and a wrong password yield
// the same message; on success the session is created and bound to the
// browser via an HttpOnly cookie.
func (h *Handler) Login(c echo.Context) error {
	email := strings.TrimSpace(c.FormValue("loginEmail"))
	password := strings.TrimSpace(c.FormValue("loginPassword"))

	d := h.data(c)
	d.View = "login"
	d.Form["loginEmail"] = email

	if email == "" || password == "" {
		d.Message = msgLoginFields
		return c.Render(http.StatusOK, "login", d)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("auth: login query failed: %v", err)
			d.Message = msgLoginFailed
			return c.Render(http.StatusOK, "login", d)
		}
		d.Message = msgBadCredentials
		return c.Render(http.StatusOK, "login", d)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		d.Message = msgBadCredentials
		return c.Render(http.StatusOK, "login", d)
	}

	cookie, err := h.Sessions.Create(ctx, u.ID, u.Email)
	if err != nil {
		log.Printf("auth: session create failed: %v", err)
		d.Message = msgLoginFailed
		return c.Render(http.StatusOK, "login", d)
	}
	h.setSessionCookie(c, cookie)

	d.LoggedIn = true
	d.Session.UserID = u.ID
	d.Session.Email = u.Email
	d.View = "main"
	d.Message = msgLoginOK
	d.Form = map[string]string{}
	return c.Render(http.StatusOK, "main", d)
}

// Logout unconditionally clears session state and lands on the login view
// with a confirmation. Logging out without a session is a no-op.
func (h *Handler) Logout(c echo.Context) error {
	if raw, ok := c.Get(middleware.SessionCookieKey).(string); ok {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		if err := h.Sessions.Destroy(ctx, raw); err != nil {
			log.Printf("auth: session destroy failed: %v", err)
		}
	}
	h.clearSessionCookie(c)

	d := h.data(c)
	d.LoggedIn = false
	d.Session.UserID = 0
	d.Session.Email = ""
	d.View = "login"
	d.Message = msgLogoutOK
	return c.Render(http.StatusOK, "login", d)
}

func (h *Handler) setSessionCookie(c echo.Context, value string) {
	c.SetCookie(&http.Cookie{
		Name:     h.Cfg.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(h.Sessions.TTL() / time.Second),
		HttpOnly: true,
		Secure:   h.Cfg.Env == "prod",
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     h.Cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Cfg.Env == "prod",
		SameSite: http.SameSiteLaxMode,
	})
}
