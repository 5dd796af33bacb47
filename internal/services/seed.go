package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/localnerve/roomscan-api/data"
	"github.com/localnerve/roomscan-api/internal/metrics"
	"github.com/localnerve/roomscan-api/internal/models"
	"gorm.io/gorm"
)

// ProductSeed is one entry of the bundled sample catalog
type ProductSeed struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	Price         float64  `json:"price"`
	OriginalPrice float64  `json:"original_price"`
	Merchant      string   `json:"merchant"`
	AffiliateLink string   `json:"affiliate_link"`
	ImageURL      string   `json:"image_url"`
	Rating        float64  `json:"rating"`
	ReviewCount   int      `json:"review_count"`
	Features      []string `json:"features"`
}

// LoadCatalog parses the embedded sample catalog
func LoadCatalog() ([]ProductSeed, error) {
	var seeds []ProductSeed
	if err := json.Unmarshal(data.ProductCatalog, &seeds); err != nil {
		return nil, fmt.Errorf("failed to parse product catalog: %w", err)
	}
	return seeds, nil
}

// SeedProducts inserts the seeds whose name is not yet present, all or nothing.
// Returns the number of inserted products.
func SeedProducts(ctx context.Context, db *gorm.DB, seeds []ProductSeed) (int, error) {
	inserted := 0

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, seed := range seeds {
			if seed.Name == "" || seed.AffiliateLink == "" {
				return fmt.Errorf("catalog entry %q needs a name and an affiliate link", seed.Name)
			}

			var existing models.Product
			err := tx.Select("id").Where("name = ?", seed.Name).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			features, err := models.NewJSON(seed.Features)
			if err != nil {
				return err
			}
			product := models.Product{
				Name:          seed.Name,
				Description:   seed.Description,
				Category:      seed.Category,
				Price:         seed.Price,
				OriginalPrice: seed.OriginalPrice,
				Merchant:      seed.Merchant,
				AffiliateLink: seed.AffiliateLink,
				ImageURL:      seed.ImageURL,
				Rating:        seed.Rating,
				ReviewCount:   seed.ReviewCount,
				Features:      features,
				InStock:       true,
				IsActive:      true,
			}
			if err := tx.Create(&product).Error; err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	metrics.ProductsSeeded.Add(float64(inserted))
	return inserted, nil
}
