package model_test

import (
	"testing"

	"github.com/todosalud/clinic-appointments/internal/model"
)

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"doc@clinic.com", true},
		{"maria.garcia+citas@todosalud.pe", true},
		{"", false},
		{"no-at-sign", false},
		{"missing@tld", false},
		{"@clinic.com", false},
		{"doc@.com", false},
		{"doc clinic@mail.com", false},
	}
	for _, tt := range tests {
		if got := model.ValidEmail(tt.email); got != tt.want {
			t.Errorf("ValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}
}

func TestValidReason(t *testing.T) {
	for _, r := range model.VisitReasons {
		if !model.ValidReason(r) {
			t.Errorf("offered reason %q rejected", r)
		}
	}
	for _, r := range []string{"", "consulta general", "Peluquería"} {
		if model.ValidReason(r) {
			t.Errorf("reason %q accepted", r)
		}
	}
}

func TestValidSpecialty(t *testing.T) {
	for _, s := range model.Specialties {
		if !model.ValidSpecialty(s) {
			t.Errorf("offered specialty %q rejected", s)
		}
	}
	for _, s := range []string{"", "cardiología", "Astrología"} {
		if model.ValidSpecialty(s) {
			t.Errorf("specialty %q accepted", s)
		}
	}
}
