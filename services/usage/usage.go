package usage

import (
	"context"
	"crypto/subtle"
	"errors"

	shopRepo "barberremind/database/repository/shop"
	"barberremind/models"
)

// ErrUnauthorized is returned when the caller's secret does not match
// the configured admin secret. No usage data accompanies it.
var ErrUnauthorized = errors.New("invalid admin secret")

// UsageService reports cumulative reminder usage across all shops.
type UsageService interface {
	GetUsage(ctx context.Context, callerSecret string) ([]models.ShopUsage, error)
}

// DefaultUsageService is the production implementation. Pure read; it
// never mutates counters.
type DefaultUsageService struct {
	Shops       shopRepo.ShopRepository
	AdminSecret string
}

// GetUsage returns every shop's name and cumulative sent total. The
// secret comparison is constant-time. An unset admin secret rejects all
// callers rather than opening the report.
func (s *DefaultUsageService) GetUsage(ctx context.Context, callerSecret string) ([]models.ShopUsage, error) {
	if s.AdminSecret == "" {
		return nil, ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(callerSecret), []byte(s.AdminSecret)) != 1 {
		return nil, ErrUnauthorized
	}
	return s.Shops.ListUsage(ctx)
}
