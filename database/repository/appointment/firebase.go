package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"barberremind/models"

	"firebase.google.com/go/v4/db"
)

// FirebaseAppointmentRepo implements AppointmentRepository on the
// Realtime Database under appointments/{shopId}/{date}/{appointmentId}.
type FirebaseAppointmentRepo struct {
	client *db.Client
}

func NewFirebaseAppointmentRepo(client *db.Client) *FirebaseAppointmentRepo {
	return &FirebaseAppointmentRepo{client: client}
}

func appointmentPath(shopID, date, apptID string) string {
	return fmt.Sprintf("appointments/%s/%s/%s", shopID, date, apptID)
}

func (r *FirebaseAppointmentRepo) ListByShopDate(ctx context.Context, shopID, date string) (map[string]models.Appointment, error) {
	ref := r.client.NewRef(fmt.Sprintf("appointments/%s/%s", shopID, date))
	var appts map[string]models.Appointment
	if err := ref.Get(ctx, &appts); err != nil {
		return nil, fmt.Errorf("failed to load appointments for shop %s on %s: %w", shopID, date, err)
	}
	return appts, nil
}

func (r *FirebaseAppointmentRepo) SavePhone(ctx context.Context, shopID, date, apptID, phone string) error {
	ref := r.client.NewRef(appointmentPath(shopID, date, apptID)).Child("phone")
	if err := ref.Set(ctx, phone); err != nil {
		return fmt.Errorf("failed to save phone for appointment %s: %w", apptID, err)
	}
	return nil
}

func (r *FirebaseAppointmentRepo) MarkSent(ctx context.Context, shopID, date, apptID, providerMessageID string, at time.Time) error {
	ref := r.client.NewRef(appointmentPath(shopID, date, apptID))
	return ref.Transaction(ctx, func(tn db.TransactionNode) (interface{}, error) {
		var appt models.Appointment
		if err := tn.Unmarshal(&appt); err != nil {
			return nil, err
		}
		if appt.Sent {
			return nil, ErrAlreadySent
		}
		appt.Sent = true
		appt.ProviderMessageID = providerMessageID
		appt.SentAt = at.UTC().Format(time.RFC3339)
		return appt, nil
	})
}

func (r *FirebaseAppointmentRepo) Create(ctx context.Context, shopID, date, apptID string, appt models.Appointment) error {
	ref := r.client.NewRef(appointmentPath(shopID, date, apptID))
	if err := ref.Set(ctx, appt); err != nil {
		return fmt.Errorf("failed to create appointment %s: %w", apptID, err)
	}
	return nil
}
