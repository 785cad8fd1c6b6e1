package handler_test

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/todosalud/clinic-appointments/internal/config"
	"github.com/todosalud/clinic-appointments/internal/handler"
	"github.com/todosalud/clinic-appointments/internal/middleware"
	"github.com/todosalud/clinic-appointments/internal/model"
	"github.com/todosalud/clinic-appointments/internal/repository"
	"github.com/todosalud/clinic-appointments/internal/session"
	"github.com/todosalud/clinic-appointments/internal/utils"
	"github.com/todosalud/clinic-appointments/internal/view"
)

// ---------- fakes ----------

type fakeUsers struct {
	users       map[string]model.User
	createCalls int
	createErr   error
}

func newFakeUsers() *fakeUsers { return &fakeUsers{users: map[string]model.User{}} }

func (f *fakeUsers) Create(_ context.Context, email, password string, cost int) (uint64, error) {
	f.createCalls++
	if f.createErr != nil {
		return 0, f.createErr
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if _, ok := f.users[email]; ok {
		return 0, repository.ErrEmailExists
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	id := uint64(len(f.users) + 1)
	f.users[email] = model.User{ID: id, Email: email, PasswordHash: hash}
	return id, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	u, ok := f.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

type fakeAppointments struct {
	items       []model.Appointment
	nextID      uint64
	createCalls int
	createErr   error
	searchErr   error
	deleteErr   error
	lastTerm    string
	searched    bool
}

func (f *fakeAppointments) Create(_ context.Context, a *model.Appointment) (uint64, error) {
	f.createCalls++
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.nextID++
	a.ID = f.nextID
	a.CreatedAt = time.Now()
	// prepend: newest first, matching the store's listing order
	f.items = append([]model.Appointment{*a}, f.items...)
	return a.ID, nil
}

func (f *fakeAppointments) Search(_ context.Context, term string) ([]model.Appointment, error) {
	f.searched = true
	f.lastTerm = term
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if term == "" {
		return f.items, nil
	}
	var out []model.Appointment
	for _, a := range f.items {
		if strings.Contains(a.FirstName, term) ||
			strings.Contains(a.LastName, term) ||
			strings.Contains(a.NationalID, term) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppointments) DeleteByID(_ context.Context, id uint64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, a := range f.items {
		if a.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// ---------- harness ----------

func newTestHandler(t *testing.T) (*handler.Handler, *fakeUsers, *fakeAppointments, *echo.Echo) {
	t.Helper()
	r, err := view.NewRenderer()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	e := echo.New()
	e.Renderer = r

	users := newFakeUsers()
	appts := &fakeAppointments{}
	cfg := config.Config{
		Env:        "test",
		CookieName: "clinic_session",
		SessionTTL: time.Hour,
		BcryptCost: 4, // bcrypt.MinCost keeps tests fast
	}
	sessions := session.NewStore(nil, "test-secret", time.Hour)
	return handler.New(cfg, users, appts, sessions), users, appts, e
}

func postForm(e *echo.Echo, target string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func getRequest(e *echo.Echo, target string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func asLoggedIn(c echo.Context) {
	c.Set(middleware.SessionKey, session.Session{UserID: 1, Email: "doctor@todosalud.com"})
}

// ---------- register ----------

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		pass    string
		message string
	}{
		{"empty email", "", "secret123", "Por favor, complete todos los campos para registrarse."},
		{"empty password", "doc@clinic.com", "", "Por favor, complete todos los campos para registrarse."},
		{"short password", "doc@clinic.com", "abc12", "La contraseña debe tener al menos 6 caracteres."},
		{"invalid email", "not-an-email", "secret123", "El formato del correo electrónico no es válido."},
		{"email without tld", "doc@clinic", "secret123", "El formato del correo electrónico no es válido."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, users, _, e := newTestHandler(t)
			c, rec := postForm(e, "/auth/register", url.Values{
				"registerEmail":    {tt.email},
				"registerPassword": {tt.pass},
			})
			if err := h.Register(c); err != nil {
				t.Fatalf("register: %v", err)
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("status: got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.message) {
				t.Errorf("body missing %q", tt.message)
			}
			if users.createCalls != 0 {
				t.Errorf("store touched on validation failure: %d calls", users.createCalls)
			}
		})
	}
}

func TestRegisterSuccess(t *testing.T) {
	h, users, _, e := newTestHandler(t)
	c, rec := postForm(e, "/auth/register", url.Values{
		"registerEmail":    {"doc@clinic.com"},
		"registerPassword": {"secret123"},
	})
	if err := h.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "Registro exitoso") {
		t.Error("missing success message")
	}
	if users.createCalls != 1 {
		t.Errorf("expected 1 create call, got %d", users.createCalls)
	}
	if _, ok := users.users["doc@clinic.com"]; !ok {
		t.Error("user not stored")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, users, _, e := newTestHandler(t)
	if _, err := users.Create(context.Background(), "doc@clinic.com", "secret123", 4); err != nil {
		t.Fatalf("seed: %v", err)
	}
	users.createCalls = 0

	c, rec := postForm(e, "/auth/register", url.Values{
		"registerEmail":    {"doc@clinic.com"},
		"registerPassword": {"otherpass"},
	})
	if err := h.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "ya está registrado") {
		t.Error("missing duplicate-email message")
	}
}

func TestRegisterEchoesEmailOnFailure(t *testing.T) {
	h, _, _, e := newTestHandler(t)
	c, rec := postForm(e, "/auth/register", url.Values{
		"registerEmail":    {"doc@clinic.com"},
		"registerPassword": {"abc"},
	})
	if err := h.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `value="doc@clinic.com"`) {
		t.Error("submitted email not echoed back into the form")
	}
}

func TestRegisterStoreErrorHidden(t *testing.T) {
	h, users, _, e := newTestHandler(t)
	users.createErr = sql.ErrConnDone

	c, rec := postForm(e, "/auth/register", url.Values{
		"registerEmail":    {"doc@clinic.com"},
		"registerPassword": {"secret123"},
	})
	if err := h.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "No se pudo completar el registro") {
		t.Error("missing generic failure message")
	}
	if strings.Contains(body, sql.ErrConnDone.Error()) {
		t.Error("raw store error leaked to the client")
	}
}

// ---------- login ----------

func TestLoginSuccess(t *testing.T) {
	h, users, _, e := newTestHandler(t)
	if _, err := users.Create(context.Background(), "doc@clinic.com", "secret123", 4); err != nil {
		t.Fatalf("seed: %v", err)
	}

	c, rec := postForm(e, "/auth/login", url.Values{
		"loginEmail":    {"doc@clinic.com"},
		"loginPassword": {"secret123"},
	})
	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Bienvenido") {
		t.Error("success did not land on the main view")
	}
	if !strings.Contains(body, "doc@clinic.com") {
		t.Error("main view missing the session email")
	}

	var found bool
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "clinic_session" && ck.Value != "" {
			found = true
			if !ck.HttpOnly {
				t.Error("session cookie not HttpOnly")
			}
		}
	}
	if !found {
		t.Error("session cookie not set")
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	h, users, _, e := newTestHandler(t)
	if _, err := users.Create(context.Background(), "doc@clinic.com", "secret123", 4); err != nil {
		t.Fatalf("seed: %v", err)
	}

	const want = "Correo electrónico o contraseña incorrectos."

	c1, rec1 := postForm(e, "/auth/login", url.Values{
		"loginEmail":    {"nobody@clinic.com"},
		"loginPassword": {"secret123"},
	})
	if err := h.Login(c1); err != nil {
		t.Fatalf("login unknown user: %v", err)
	}
	c2, rec2 := postForm(e, "/auth/login", url.Values{
		"loginEmail":    {"doc@clinic.com"},
		"loginPassword": {"wrongpass"},
	})
	if err := h.Login(c2); err != nil {
		t.Fatalf("login wrong password: %v", err)
	}

	if !strings.Contains(rec1.Body.String(), want) {
		t.Error("unknown-user response missing the shared failure message")
	}
	if !strings.Contains(rec2.Body.String(), want) {
		t.Error("wrong-password response missing the shared failure message")
	}
}

func TestLoginEmptyFields(t *testing.T) {
	h, _, _, e := newTestHandler(t)
	c, rec := postForm(e, "/auth/login", url.Values{})
	if err := h.Login(c); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "complete todos los campos para iniciar sesión") {
		t.Error("missing empty-fields message")
	}
}

// ---------- logout ----------

func TestLogout(t *testing.T) {
	h, _, _, e := newTestHandler(t)

	cookie, err := h.Sessions.Create(context.Background(), 1, "doc@clinic.com")
	if err != nil {
		t.Fatalf("session create: %v", err)
	}

	c, rec := getRequest(e, "/logout")
	asLoggedIn(c)
	c.Set(middleware.SessionCookieKey, cookie)

	if err := h.Logout(c); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "Sesión cerrada exitosamente.") {
		t.Error("missing logout confirmation")
	}

	var cleared bool
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "clinic_session" && ck.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("session cookie not expired on logout")
	}
}

func TestLogoutWithoutSession(t *testing.T) {
	h, _, _, e := newTestHandler(t)
	c, rec := getRequest(e, "/logout")
	if err := h.Logout(c); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "Sesión cerrada exitosamente.") {
		t.Error("logout without a session should still confirm")
	}
}
