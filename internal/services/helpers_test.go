package services

import (
	"testing"

	"github.com/localnerve/roomscan-api/internal/database"
	"github.com/localnerve/roomscan-api/internal/models"
	"gorm.io/gorm"
)

// setupTestDB opens a migrated private in-memory database
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.OpenInMemory()
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close(db)
	})

	return db
}

// seedProducts inserts products in argument order so ids follow it
func seedProducts(t *testing.T, db *gorm.DB, products ...models.Product) []models.Product {
	t.Helper()

	for i := range products {
		if err := db.Create(&products[i]).Error; err != nil {
			t.Fatalf("Failed to seed product %q: %v", products[i].Name, err)
		}
	}
	return products
}

func ptr[T any](v T) *T {
	return &v
}
