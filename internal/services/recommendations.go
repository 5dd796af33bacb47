// recommendations.go
//
// Room scanning and affiliate product recommendation data service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of roomscan-api.
// roomscan-api is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// roomscan-api is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with roomscan-api.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/localnerve/roomscan-api/internal/metrics"
	"github.com/localnerve/roomscan-api/internal/models"
	"github.com/localnerve/roomscan-api/internal/types"
	"gorm.io/gorm"
)

const (
	popularLimit  = 2
	popularScore  = 0.5
	popularReason = "Popular organization solution"
)

// Recommendation is a scored product candidate for a room
type Recommendation struct {
	ProductID      uint64  `json:"product_id"`
	RelevanceScore float64 `json:"relevance_score"`
	Reason         string  `json:"reason"`
}

// RecommendationDetail is the recommendation part of a recommended product
type RecommendationDetail struct {
	RelevanceScore float64 `json:"relevance_score"`
	Reason         string  `json:"reason"`
}

// RecommendedProduct is a product annotated with why it was recommended
type RecommendedProduct struct {
	models.Product
	Recommendation RecommendationDetail `json:"recommendation"`
}

// categoryMapping maps a suggestion type to the products that address it
type categoryMapping struct {
	Category  string
	Limit     int
	HighScore float64 // suggestion priority 1
	Score     float64 // any other priority
}

var suggestionProducts = map[string]categoryMapping{
	models.SuggestionStorage:   {Category: models.CategoryStorage, Limit: 3, HighScore: 0.9, Score: 0.7},
	models.SuggestionFurniture: {Category: models.CategoryFurniture, Limit: 2, HighScore: 0.8, Score: 0.6},
}

// Catalog supplies active products to the recommendation mapper
type Catalog interface {
	// ActiveByCategory returns up to limit active products in category, in id order
	ActiveByCategory(ctx context.Context, category string, limit int) ([]models.Product, error)
	// Active returns up to limit active products of any category, in id order
	Active(ctx context.Context, limit int) ([]models.Product, error)
}

// GormCatalog is the Catalog backed by the products table
type GormCatalog struct {
	DB *gorm.DB
}

// ActiveByCategory implements Catalog
func (c GormCatalog) ActiveByCategory(ctx context.Context, category string, limit int) ([]models.Product, error) {
	var products []models.Product
	err := c.DB.WithContext(ctx).
		Where("is_active = ? AND category = ?", true, category).
		Order("id").
		Limit(limit).
		Find(&products).Error
	return products, err
}

// Active implements Catalog
func (c GormCatalog) Active(ctx context.Context, limit int) ([]models.Product, error) {
	var products []models.Product
	err := c.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id").
		Limit(limit).
		Find(&products).Error
	return products, err
}

// MapRecommendations scores catalog products against a room's suggestions.
// Products are deduplicated by id, first writer wins, and the result is sorted by
// descending score with ties kept in insertion order. The popular tier is added
// even when there are no suggestions.
func MapRecommendations(ctx context.Context, catalog Catalog, suggestions []models.OrganizationSuggestion) ([]Recommendation, error) {
	var recs []Recommendation
	seen := make(map[uint64]struct{})

	add := func(productID uint64, score float64, reason string) {
		if _, dup := seen[productID]; dup {
			return
		}
		seen[productID] = struct{}{}
		recs = append(recs, Recommendation{ProductID: productID, RelevanceScore: score, Reason: reason})
	}

	for _, s := range suggestions {
		mapping, ok := suggestionProducts[s.SuggestionType]
		if !ok {
			continue
		}

		products, err := catalog.ActiveByCategory(ctx, mapping.Category, mapping.Limit)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s products: %w", mapping.Category, err)
		}

		score := mapping.Score
		if s.Priority == models.PriorityHigh {
			score = mapping.HighScore
		}
		for _, p := range products {
			add(p.ID, score, "Recommended for: "+s.Title)
		}
	}

	popular, err := catalog.Active(ctx, popularLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load popular products: %w", err)
	}
	for _, p := range popular {
		add(p.ID, popularScore, popularReason)
	}

	slices.SortStableFunc(recs, func(a, b Recommendation) int {
		switch {
		case a.RelevanceScore > b.RelevanceScore:
			return -1
		case a.RelevanceScore < b.RelevanceScore:
			return 1
		}
		return 0
	})

	if recs == nil {
		recs = []Recommendation{}
	}
	return recs, nil
}

// RoomRecommendations computes recommendations for a stored room.
// Returns types.ErrNotFound when the room does not exist.
func RoomRecommendations(ctx context.Context, db *gorm.DB, roomID uint64) ([]Recommendation, error) {
	if err := roomExists(ctx, db, roomID); err != nil {
		return nil, err
	}

	var suggestions []models.OrganizationSuggestion
	if err := db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("id").
		Find(&suggestions).Error; err != nil {
		return nil, err
	}

	return MapRecommendations(ctx, GormCatalog{DB: db}, suggestions)
}

// RecommendedProducts returns the recommended products for a room with their scores,
// ordered like the recommendations.
func RecommendedProducts(ctx context.Context, db *gorm.DB, roomID uint64) ([]RecommendedProduct, error) {
	recs, err := RoomRecommendations(ctx, db, roomID)
	if err != nil {
		return nil, err
	}

	result := make([]RecommendedProduct, 0, len(recs))
	if len(recs) == 0 {
		return result, nil
	}

	ids := make([]uint64, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.ProductID)
	}

	var products []models.Product
	if err := db.WithContext(ctx).
		Where("id IN ? AND is_active = ?", ids, true).
		Find(&products).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint64]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for _, r := range recs {
		p, ok := byID[r.ProductID]
		if !ok {
			continue
		}
		result = append(result, RecommendedProduct{
			Product:        p,
			Recommendation: RecommendationDetail{RelevanceScore: r.RelevanceScore, Reason: r.Reason},
		})
	}

	metrics.RecommendationsServed.Observe(float64(len(result)))
	return result, nil
}

// roomExists returns types.ErrNotFound when no room has roomID
func roomExists(ctx context.Context, db *gorm.DB, roomID uint64) error {
	var room models.Room
	err := db.WithContext(ctx).Select("id").First(&room, roomID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.ErrNotFound
	}
	return err
}
