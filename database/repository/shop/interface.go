package shopRepo

import (
	"context"

	"barberremind/models"
)

// ShopRepository provides access to shop display info and usage counters.
type ShopRepository interface {
	// GetInfo returns the shop's display fields. A shop with no info node
	// yields the zero value, not an error.
	GetInfo(ctx context.Context, shopID string) (models.ShopInfo, error)
	// SetInfo writes the shop's display fields.
	SetInfo(ctx context.Context, shopID string, info models.ShopInfo) error
	// SetUsageForDate overwrites the per-date sent count with the latest
	// batch's count.
	SetUsageForDate(ctx context.Context, shopID, date string, count int) error
	// AddToTotal atomically adds delta to the shop's cumulative total.
	AddToTotal(ctx context.Context, shopID string, delta int) error
	// ListUsage returns every shop's name and cumulative total.
	ListUsage(ctx context.Context) ([]models.ShopUsage, error)
}
