package middleware

import (
	"errors"
	"log"

	"github.com/labstack/echo/v4"

	"github.com/todosalud/clinic-appointments/internal/session"
)

// Context keys under which the resolved session and its cookie value are
// stored for handlers.
const (
	SessionKey       = "session"
	SessionCookieKey = "session_cookie"
)

// LoadSession resolves the session cookie on every request and, when it
// maps to a live session, stores the identity in the request context. A
// missing or dead session is not an error: the request continues
// unauthenticated and the page handlers force the login view.
func LoadSession(store session.Store, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ck, err := c.Cookie(cookieName)
			if err == nil && ck.Value != "" {
				sess, err := store.Get(c.Request().Context(), ck.Value)
				switch {
				case err == nil:
					c.Set(SessionKey, sess)
					c.Set(SessionCookieKey, ck.Value)
				case !errors.Is(err, session.ErrNoSession):
					// store trouble; treat as unauthenticated but keep the detail server-side
					log.Printf("session: lookup failed: %v", err)
				}
			}
			return next(c)
		}
	}
}

// CurrentSession returns the session resolved by LoadSession, if any.
func CurrentSession(c echo.Context) (session.Session, bool) {
	sess, ok := c.Get(SessionKey).(session.Session)
	return sess, ok
}
