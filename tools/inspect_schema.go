//go:build ignore

// inspect_schema prints the sqlite schema AutoMigrate creates for the models.
// Run with: go run tools/inspect_schema.go
package main

import (
	"fmt"
	"log"

	"github.com/localnerve/roomscan-api/internal/database"
)

func main() {
	db, err := database.OpenInMemory()
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close(db)

	// Get the schema
	var tables []string
	db.Raw("SELECT name FROM sqlite_master WHERE type='table' ORDER BY name").Scan(&tables)

	for _, table := range tables {
		fmt.Printf("\n=== Table: %s ===\n", table)
		var schema string
		db.Raw("SELECT sql FROM sqlite_master WHERE name = ?", table).Scan(&schema)
		fmt.Println(schema)
	}
}
