package handler

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/todosalud/clinic-appointments/internal/model"
	"github.com/todosalud/clinic-appointments/internal/queue"
	"github.com/todosalud/clinic-appointments/internal/repository"
	queue_publisher "github.com/todosalud/clinic-appointments/internal/service"
)

const (
	msgCreateFields  = "Por favor, complete todos los campos obligatorios para registrar la cita."
	msgBadReason     = "El motivo de la visita no es válido."
	msgBadSpecialty  = "La especialidad no es válida."
	msgBadDate       = "La fecha de la cita no es válida."
	msgBadTime       = "La hora de la cita no es válida."
	msgCreateOK      = "Cita registrada exitosamente."
	msgCreateFailed  = "Error al registrar la cita. Inténtelo de nuevo más tarde."
	msgDeleteOK      = "Cita eliminada exitosamente."
	msgDeleteMissing = "No se encontró la cita para eliminar."
	msgDeleteNoID    = "ID de cita no proporcionado para eliminar."
	msgDeleteFailed  = "Error al eliminar la cita. Inténtelo de nuevo más tarde."
)

// CreateAppointment handles the appointment registration form. All
// required fields must be non-empty after trimming; reason and specialty
// must belong to their fixed option sets. On failure the submitted values
// are echoed back into the form; on success the form is cleared.
func (h *Handler) CreateAppointment(c echo.Context) error {
	d := h.data(c)
	if !d.LoggedIn {
		d.View = "login"
		return c.Render(http.StatusOK, "login", d)
	}

	form := map[string]string{}
	for _, f := range []string{
		"motivoVisita", "especialidad", "nombrePaciente", "apellidoPaciente",
		"dniPaciente", "telefonoPaciente", "fechaCita", "horaCita", "dolencia",
	} {
		form[f] = strings.TrimSpace(c.FormValue(f))
	}
	d.Form = form
	d.View = "register"

	required := []string{
		"motivoVisita", "especialidad", "nombrePaciente", "apellidoPaciente",
		"dniPaciente", "fechaCita", "horaCita", "dolencia",
	}
	for _, f := range required {
		if form[f] == "" {
			d.Message = msgCreateFields
			return c.Render(http.StatusOK, "register", d)
		}
	}
	if !model.ValidReason(form["motivoVisita"]) {
		d.Message = msgBadReason
		return c.Render(http.StatusOK, "register", d)
	}
	if !model.ValidSpecialty(form["especialidad"]) {
		d.Message = msgBadSpecialty
		return c.Render(http.StatusOK, "register", d)
	}
	date, err := time.Parse("2006-01-02", form["fechaCita"])
	if err != nil {
		d.Message = msgBadDate
		return c.Render(http.StatusOK, "register", d)
	}
	if _, err := time.Parse("15:04", form["horaCita"]); err != nil {
		d.Message = msgBadTime
		return c.Render(http.StatusOK, "register", d)
	}

	a := &model.Appointment{
		Reason:          form["motivoVisita"],
		Specialty:       form["especialidad"],
		FirstName:       form["nombrePaciente"],
		LastName:        form["apellidoPaciente"],
		NationalID:      form["dniPaciente"],
		Phone:           form["telefonoPaciente"],
		Complaint:       form["dolencia"],
		AppointmentDate: date,
		AppointmentTime: form["horaCita"],
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if _, err := h.Appointments.Create(ctx, a); err != nil {
		log.Printf("appointments: create failed: %v", err)
		d.Message = msgCreateFailed
		return c.Render(http.StatusOK, "register", d)
	}

	// notify downstream consumers; failures are logged inside and never
	// affect the request outcome
	_ = queue_publisher.PublishAppointmentBooked(ctx, queue.AppointmentBookedEvent{
		AppointmentID: a.ID,
		Reason:        a.Reason,
		Specialty:     a.Specialty,
		Patient:       a.FirstName + " " + a.LastName,
		NationalID:    a.NationalID,
		Date:          a.AppointmentDate.Format("2006-01-02"),
		Time:          a.AppointmentTime,
		BookedBy:      d.Session.Email,
		BookedAt:      time.Now().UTC().Format(time.RFC3339),
	})

	d.Message = msgCreateOK
	d.Form = map[string]string{}
	return c.Render(http.StatusOK, "register", d)
}

// DeleteAppointment removes one appointment by id. Zero affected rows is
// reported as "not found", distinctly from success; a repeated delete of
// the same id is therefore harmless. The current search term rides along
// so the listing filter survives the round-trip.
func (h *Handler) DeleteAppointment(c echo.Context) error {
	d := h.data(c)
	if !d.LoggedIn {
		d.View = "login"
		return c.Render(http.StatusOK, "login", d)
	}

	term := h.searchTerm(c)

	raw := strings.TrimSpace(c.FormValue("delete_id"))
	id, err := strconv.ParseUint(raw, 10, 64)
	if raw == "" || err != nil || id == 0 {
		return h.renderList(c, d, term, msgDeleteNoID)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	switch err := h.Appointments.DeleteByID(ctx, id); err {
	case nil:
		_ = queue_publisher.PublishAppointmentCancelled(ctx, queue.AppointmentCancelledEvent{
			AppointmentID: id,
			CancelledBy:   d.Session.Email,
			CancelledAt:   time.Now().UTC().Format(time.RFC3339),
		})
		return h.renderList(c, d, term, msgDeleteOK)
	case repository.ErrNotFound:
		return h.renderList(c, d, term, msgDeleteMissing)
	default:
		log.Printf("appointments: delete failed: %v", err)
		return h.renderList(c, d, term, msgDeleteFailed)
	}
}
