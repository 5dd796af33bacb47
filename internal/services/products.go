package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/localnerve/roomscan-api/internal/metrics"
	"github.com/localnerve/roomscan-api/internal/models"
	"github.com/localnerve/roomscan-api/internal/types"
	"gorm.io/gorm"
)

const (
	// DefaultProductLimit is the page size when no limit is requested
	DefaultProductLimit = 20
	// MaxProductLimit is the largest page a client may request
	MaxProductLimit = 100
)

// ProductFilter narrows the active product listing
type ProductFilter struct {
	Category string
	// RoomID moves the room's recommended products to the front of the page
	RoomID *uint64
	Limit  int
}

// ClickInput describes one followed affiliate link
type ClickInput struct {
	ProductID uint64
	UserID    *uint64
	RoomID    *uint64
	IPAddress string
	UserAgent string
	Referrer  string
}

// ListProducts returns active products, optionally filtered by category. With a room,
// products recommended for it come first; the page never exceeds the limit.
func ListProducts(ctx context.Context, db *gorm.DB, filter ProductFilter) ([]models.Product, error) {
	limit := filter.Limit
	if limit == 0 {
		limit = DefaultProductLimit
	}
	if limit < 0 || limit > MaxProductLimit {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", types.ErrInvalidInput, MaxProductLimit)
	}

	query := db.WithContext(ctx).Where("is_active = ?", true)
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	products := make([]models.Product, 0)
	if err := query.Order("id").Limit(limit).Find(&products).Error; err != nil {
		return nil, err
	}

	if filter.RoomID == nil {
		return products, nil
	}

	recs, err := RoomRecommendations(ctx, db, *filter.RoomID)
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		return nil, err
	}

	return prioritize(products, recs, limit), nil
}

// prioritize moves recommended products to the front, keeping page order within
// both groups, and truncates to limit
func prioritize(products []models.Product, recs []Recommendation, limit int) []models.Product {
	recommended := make(map[uint64]struct{}, len(recs))
	for _, r := range recs {
		recommended[r.ProductID] = struct{}{}
	}

	front := make([]models.Product, 0, len(products))
	var rest []models.Product
	for _, p := range products {
		if _, ok := recommended[p.ID]; ok {
			front = append(front, p)
		} else {
			rest = append(rest, p)
		}
	}

	out := append(front, rest...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// GetProduct returns an active product
func GetProduct(ctx context.Context, db *gorm.DB, productID uint64) (*models.Product, error) {
	var product models.Product
	err := db.WithContext(ctx).
		Where("is_active = ?", true).
		First(&product, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// RecordClick appends an affiliate click and its activity event. It returns the
// click and the clicked product; types.ErrNotFound when the product does not exist.
func RecordClick(ctx context.Context, db *gorm.DB, input ClickInput) (*models.AffiliateClick, *models.Product, error) {
	var product models.Product
	var click models.AffiliateClick

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, input.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrNotFound
			}
			return err
		}

		click = models.AffiliateClick{
			ProductID: product.ID,
			UserID:    input.UserID,
			RoomID:    input.RoomID,
			IPAddress: input.IPAddress,
			UserAgent: input.UserAgent,
			Referrer:  input.Referrer,
			ClickedAt: time.Now().UTC(),
		}
		if err := tx.Omit("Product").Create(&click).Error; err != nil {
			return err
		}

		meta, err := models.NewJSON(map[string]interface{}{
			"product_id": product.ID,
			"click_id":   click.ID,
			"room_id":    input.RoomID,
			"merchant":   product.Merchant,
		})
		if err != nil {
			return err
		}
		return tx.Create(&models.UserActivity{
			UserID:       input.UserID,
			ActivityType: models.ActivityProductClick,
			Metadata:     meta,
			Timestamp:    click.ClickedAt,
		}).Error
	})
	if err != nil {
		return nil, nil, err
	}

	metrics.AffiliateClicks.WithLabelValues(product.Merchant).Inc()
	return &click, &product, nil
}
