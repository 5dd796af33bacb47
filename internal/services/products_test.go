package services

import (
	"context"
	"testing"

	"github.com/localnerve/roomscan-api/internal/models"
	"github.com/localnerve/roomscan-api/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListProducts(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seedProducts(t, db,
		models.Product{Name: "Lamp", Category: "lighting", IsActive: true},
		models.Product{Name: "Bins", Category: "storage", IsActive: true},
		models.Product{Name: "Retired", Category: "storage", IsActive: false},
		models.Product{Name: "Crates", Category: "storage", IsActive: true},
	)

	all, err := ListProducts(ctx, db, ProductFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Lamp", "Bins", "Crates"}, productNames(all))

	storage, err := ListProducts(ctx, db, ProductFilter{Category: "storage"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bins", "Crates"}, productNames(storage))

	one, err := ListProducts(ctx, db, ProductFilter{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"Lamp"}, productNames(one))

	_, err = ListProducts(ctx, db, ProductFilter{Limit: -1})
	assert.ErrorIs(t, err, types.ErrInvalidInput)

	_, err = ListProducts(ctx, db, ProductFilter{Limit: MaxProductLimit + 1})
	assert.ErrorIs(t, err, types.ErrInvalidInput)

	_, err = ListProducts(ctx, db, ProductFilter{Limit: 10_000_000_000})
	assert.ErrorIs(t, err, types.ErrInvalidInput)

	largest, err := ListProducts(ctx, db, ProductFilter{Limit: MaxProductLimit})
	require.NoError(t, err)
	assert.Len(t, largest, 3)

	// unknown rooms do not filter anything
	missing, err := ListProducts(ctx, db, ProductFilter{RoomID: ptr(uint64(99))})
	require.NoError(t, err)
	assert.Len(t, missing, 3)
}

func TestListProductsRecommendedFirst(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seedProducts(t, db,
		models.Product{Name: "Lamp", Category: "lighting", IsActive: true},
		models.Product{Name: "Rug", Category: "decor", IsActive: true},
		models.Product{Name: "Chair", Category: "decor", IsActive: true},
		models.Product{Name: "Bins", Category: "storage", IsActive: true},
	)

	room, err := CreateRoom(ctx, db, RoomInput{
		Name: "Attic",
		Items: []RoomItemInput{
			{Name: "a", Category: "misc"}, {Name: "b", Category: "misc"},
			{Name: "c", Category: "misc"}, {Name: "d", Category: "misc"},
		},
	})
	require.NoError(t, err)

	// storage suggestion recommends Bins; Lamp and Rug are the popular tier
	products, err := ListProducts(ctx, db, ProductFilter{RoomID: &room.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"Lamp", "Rug", "Bins", "Chair"}, productNames(products))

	page, err := ListProducts(ctx, db, ProductFilter{RoomID: &room.ID, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"Lamp", "Rug", "Chair"}, productNames(page))
}

func TestPrioritize(t *testing.T) {
	products := []models.Product{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}, {ID: 3, Name: "c"}, {ID: 4, Name: "d"}}
	recs := []Recommendation{{ProductID: 4}, {ProductID: 2}, {ProductID: 9}}

	assert.Equal(t, []string{"b", "d", "a", "c"}, productNames(prioritize(products, recs, 10)))
	assert.Equal(t, []string{"b", "d"}, productNames(prioritize(products, recs, 2)))
	assert.Equal(t, []string{"a", "b", "c", "d"}, productNames(prioritize(products, nil, 4)))
}

func TestGetProduct(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seeded := seedProducts(t, db,
		models.Product{Name: "Active", Category: "storage", IsActive: true},
		models.Product{Name: "Inactive", Category: "storage", IsActive: false},
	)

	p, err := GetProduct(ctx, db, seeded[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Active", p.Name)

	_, err = GetProduct(ctx, db, seeded[1].ID)
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = GetProduct(ctx, db, 404)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestRecordClick(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seeded := seedProducts(t, db, models.Product{
		Name:          "Bins",
		Category:      "storage",
		Merchant:      "Amazon",
		AffiliateLink: "https://amazon.com/dp/bins",
		IsActive:      true,
	})

	click, product, err := RecordClick(ctx, db, ClickInput{
		ProductID: seeded[0].ID,
		RoomID:    ptr(uint64(3)),
		IPAddress: "10.0.0.1",
		UserAgent: "test-agent",
		Referrer:  "https://example.com",
	})
	require.NoError(t, err)
	assert.NotZero(t, click.ID)
	assert.Equal(t, "https://amazon.com/dp/bins", product.AffiliateLink)

	var stored models.AffiliateClick
	require.NoError(t, db.First(&stored, click.ID).Error)
	assert.Equal(t, seeded[0].ID, stored.ProductID)
	assert.Nil(t, stored.UserID)
	require.NotNil(t, stored.RoomID)
	assert.Equal(t, uint64(3), *stored.RoomID)
	assert.Equal(t, "10.0.0.1", stored.IPAddress)

	var activity models.UserActivity
	require.NoError(t, db.Where("activity_type = ?", models.ActivityProductClick).First(&activity).Error)
	var meta map[string]interface{}
	require.NoError(t, activity.Metadata.Decode(&meta))
	assert.Equal(t, "Amazon", meta["merchant"])
}

func TestRecordClickMissingProduct(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, _, err := RecordClick(ctx, db, ClickInput{ProductID: 42, IPAddress: "127.0.0.1"})
	assert.ErrorIs(t, err, types.ErrNotFound)

	var clicks, activities int64
	require.NoError(t, db.Model(&models.AffiliateClick{}).Count(&clicks).Error)
	require.NoError(t, db.Model(&models.UserActivity{}).Count(&activities).Error)
	assert.Zero(t, clicks)
	assert.Zero(t, activities)
}

func productNames(products []models.Product) []string {
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}
	return names
}
