package shopRepo

import (
	"context"
	"fmt"
	"sort"

	"barberremind/models"

	"firebase.google.com/go/v4/db"
)

// FirebaseShopRepo implements ShopRepository on the Realtime Database
// under shops/{shopId}.
type FirebaseShopRepo struct {
	client *db.Client
}

func NewFirebaseShopRepo(client *db.Client) *FirebaseShopRepo {
	return &FirebaseShopRepo{client: client}
}

// shopNode mirrors the shops/{shopId} document layout.
type shopNode struct {
	Info       models.ShopInfo  `json:"info"`
	Usage      map[string]int64 `json:"usage"`
	UsageTotal int64            `json:"usageTotal"`
}

func (r *FirebaseShopRepo) GetInfo(ctx context.Context, shopID string) (models.ShopInfo, error) {
	var info models.ShopInfo
	ref := r.client.NewRef(fmt.Sprintf("shops/%s/info", shopID))
	if err := ref.Get(ctx, &info); err != nil {
		return models.ShopInfo{}, fmt.Errorf("failed to load info for shop %s: %w", shopID, err)
	}
	return info, nil
}

func (r *FirebaseShopRepo) SetInfo(ctx context.Context, shopID string, info models.ShopInfo) error {
	ref := r.client.NewRef(fmt.Sprintf("shops/%s/info", shopID))
	if err := ref.Set(ctx, info); err != nil {
		return fmt.Errorf("failed to set info for shop %s: %w", shopID, err)
	}
	return nil
}

func (r *FirebaseShopRepo) SetUsageForDate(ctx context.Context, shopID, date string, count int) error {
	ref := r.client.NewRef(fmt.Sprintf("shops/%s/usage/%s", shopID, date))
	if err := ref.Set(ctx, count); err != nil {
		return fmt.Errorf("failed to set usage for shop %s on %s: %w", shopID, date, err)
	}
	return nil
}

func (r *FirebaseShopRepo) AddToTotal(ctx context.Context, shopID string, delta int) error {
	ref := r.client.NewRef(fmt.Sprintf("shops/%s/usageTotal", shopID))
	return ref.Transaction(ctx, func(tn db.TransactionNode) (interface{}, error) {
		var total int64
		if err := tn.Unmarshal(&total); err != nil {
			return nil, err
		}
		return total + int64(delta), nil
	})
}

func (r *FirebaseShopRepo) ListUsage(ctx context.Context) ([]models.ShopUsage, error) {
	var shops map[string]shopNode
	if err := r.client.NewRef("shops").Get(ctx, &shops); err != nil {
		return nil, fmt.Errorf("failed to load shops: %w", err)
	}

	usage := make([]models.ShopUsage, 0, len(shops))
	for id, node := range shops {
		usage = append(usage, models.ShopUsage{
			ShopID:    id,
			ShopName:  node.Info.Name,
			TotalSent: node.UsageTotal,
		})
	}
	sort.Slice(usage, func(i, j int) bool { return usage[i].ShopID < usage[j].ShopID })
	return usage, nil
}
