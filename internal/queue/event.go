// Package queue defines message payloads exchanged over the message broker.
package queue

// AppointmentBookedEvent is published when an appointment is successfully
// registered. It carries enough information for downstream consumers to
// notify staff or feed analytics without querying the primary database.
type AppointmentBookedEvent struct {
	AppointmentID uint64 `json:"appointment_id"`
	Reason        string `json:"reason"`
	Specialty     string `json:"specialty"`
	Patient       string `json:"patient"`
	NationalID    string `json:"national_id"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	BookedBy      string `json:"booked_by"`
	BookedAt      string `json:"booked_at"`
}

// AppointmentCancelledEvent is published when an appointment is deleted.
type AppointmentCancelledEvent struct {
	AppointmentID uint64 `json:"appointment_id"`
	CancelledBy   string `json:"cancelled_by"`
	CancelledAt   string `json:"cancelled_at"`
}
