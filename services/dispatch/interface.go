package dispatch

import (
	"context"

	appointmentRepo "barberremind/database/repository/appointment"
	shopRepo "barberremind/database/repository/shop"
	"barberremind/models"
	"barberremind/services/gateway"
)

// DispatchService runs one reminder batch for a shop and date.
type DispatchService interface {
	Dispatch(ctx context.Context, req models.DispatchRequest) (*models.DispatchResult, error)
}

// BatchLock serializes overlapping dispatch calls for the same shop and
// date. Implementations are best-effort; a lock error never aborts the
// batch.
type BatchLock interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string)
}

// DefaultDispatchService is the production implementation.
type DefaultDispatchService struct {
	Appointments appointmentRepo.AppointmentRepository
	Shops        shopRepo.ShopRepository
	Gateway      gateway.MessageGateway
	Lock         BatchLock // optional

	DefaultTemplate string
	CountryPrefix   string
	PhoneFormat     PhoneFormat
}
