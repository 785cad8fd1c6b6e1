package model

import "time"

// Appointment mirrors the 'appointments' table. Date and time of the visit
// are kept separate because the clinic books by calendar day plus
// time-of-day slot; CreatedAt is assigned by the store and drives the
// default listing order.
type Appointment struct {
	ID              uint64
	Reason          string
	Specialty       string
	FirstName       string
	LastName        string
	NationalID      string
	Phone           string // optional
	Complaint       string
	AppointmentDate time.Time
	AppointmentTime string // "HH:MM"
	CreatedAt       time.Time
}

// VisitReasons is the fixed set of accepted visit reasons. The selection
// control offers exactly these values and Create rejects anything else.
var VisitReasons = []string{
	"Consulta General",
	"Revisión Médica",
	"Urgencia",
	"Control Post-Operatorio",
	"Exámenes de Laboratorio",
}

// Specialties is the fixed set of medical specialties offered by the clinic.
var Specialties = []string{
	"Cardiología",
	"Pediatría",
	"Dermatología",
	"Neurología",
	"Ginecología",
	"Oftalmología",
	"Odontología",
	"Medicina Interna",
}

// ValidReason reports whether s is one of the accepted visit reasons.
func ValidReason(s string) bool { return contains(VisitReasons, s) }

// ValidSpecialty reports whether s is one of the offered specialties.
func ValidSpecialty(s string) bool { return contains(Specialties, s) }

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
