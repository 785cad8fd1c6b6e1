package repository

import (
	"context"
	"database/sql"

	"github.com/todosalud/clinic-appointments/internal/model"
)

// AppointmentsRepo is the storage contract the appointment handlers depend on.
type AppointmentsRepo interface {
	Create(ctx context.Context, a *model.Appointment) (uint64, error)
	Search(ctx context.Context, term string) ([]model.Appointment, error)
	DeleteByID(ctx context.Context, id uint64) error
}

type AppointmentRepo struct{ DB *sql.DB }

func NewAppointmentRepo(db *sql.DB) *AppointmentRepo { return &AppointmentRepo{DB: db} }

// Create inserts a new appointment and returns its ID. created_at is
// assigned by the database, not the application.
func (r *AppointmentRepo) Create(ctx context.Context, a *model.Appointment) (uint64, error) {
	phone := sql.NullString{String: a.Phone, Valid: a.Phone != ""}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO appointments
		 (reason, specialty, first_name, last_name, national_id, phone, complaint, appointment_date, appointment_time)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		a.Reason, a.Specialty, a.FirstName, a.LastName, a.NationalID,
		phone, a.Complaint, a.AppointmentDate.Format("2006-01-02"), a.AppointmentTime)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	a.ID = uint64(id)
	return a.ID, nil
}

// Search returns appointments ordered by creation time, newest first. An
// empty term returns everything; otherwise rows match when the term is a
// substring of first name, last name or national id. The optional predicate
// is composed as a parameterized clause, never by value concatenation.
func (r *AppointmentRepo) Search(ctx context.Context, term string) ([]model.Appointment, error) {
	q := `SELECT id, reason, specialty, first_name, last_name, national_id,
	             phone, complaint, appointment_date, appointment_time, created_at
	      FROM appointments`
	args := []any{}
	if term != "" {
		q += ` WHERE first_name LIKE ? OR last_name LIKE ? OR national_id LIKE ?`
		p := "%" + term + "%"
		args = append(args, p, p, p)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		var a model.Appointment
		var phone sql.NullString
		if err := rows.Scan(
			&a.ID, &a.Reason, &a.Specialty, &a.FirstName, &a.LastName, &a.NationalID,
			&phone, &a.Complaint, &a.AppointmentDate, &a.AppointmentTime, &a.CreatedAt,
		); err != nil {
			return nil, err
		}
		a.Phone = phone.String
		out = append(out, a)
	}
	return out, rows.Err()
}

// DeleteByID removes one appointment. Exactly one affected row means
// success; zero rows means the target was already gone and the caller gets
// ErrNotFound so it can report "not found" distinctly from "deleted".
func (r *AppointmentRepo) DeleteByID(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM appointments WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
