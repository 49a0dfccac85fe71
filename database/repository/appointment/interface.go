package appointmentRepo

import (
	"context"
	"errors"
	"time"

	"barberremind/models"
)

// ErrAlreadySent aborts a MarkSent transaction that observes a reminder
// recorded by a concurrent batch.
var ErrAlreadySent = errors.New("appointment already marked sent")

// AppointmentRepository provides access to appointment records keyed by
// (shop, date, appointment id).
type AppointmentRepository interface {
	// ListByShopDate returns all appointments for the shop and date,
	// keyed by appointment id. An empty map means no appointments.
	ListByShopDate(ctx context.Context, shopID, date string) (map[string]models.Appointment, error)
	// SavePhone writes the canonicalized phone back onto the record.
	SavePhone(ctx context.Context, shopID, date, apptID, phone string) error
	// MarkSent flips the sent flag and records the gateway message id and
	// timestamp, but only while sent is still false. Returns
	// ErrAlreadySent if another batch got there first.
	MarkSent(ctx context.Context, shopID, date, apptID, providerMessageID string, at time.Time) error
	// Create inserts a new appointment record.
	Create(ctx context.Context, shopID, date, apptID string, appt models.Appointment) error
}
