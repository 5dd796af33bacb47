// connection_integration_test.go
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

package database_test

import (
	"context"
	"testing"

	"github.com/localnerve/roomscan-api/internal/database"
	"github.com/localnerve/roomscan-api/internal/devcontainers"
	"github.com/localnerve/roomscan-api/internal/models"
	"github.com/localnerve/roomscan-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"go.uber.org/zap"
)

// TestServerDatabases runs the room and click flow against real server databases
func TestServerDatabases(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	for _, dbType := range []string{"mariadb", "postgres"} {
		t.Run(dbType, func(t *testing.T) {
			ctx := context.Background()

			container, err := devcontainers.Start(ctx, devcontainers.Options{
				Type:     dbType,
				Database: "roomscan",
				User:     "roomscan",
				Password: "roomscan",
				Tmpfs:    true,
			})
			require.NoError(t, err)
			t.Cleanup(func() {
				_ = container.Terminate(context.Background())
			})

			db, err := database.Connect(container.Config(), zap.NewNop())
			require.NoError(t, err)
			defer database.Close(db)
			require.NoError(t, database.AutoMigrate(db))

			seeds, err := services.LoadCatalog()
			require.NoError(t, err)
			inserted, err := services.SeedProducts(ctx, db, seeds)
			require.NoError(t, err)
			assert.Equal(t, len(seeds), inserted)

			room, err := services.CreateRoom(ctx, db, services.RoomInput{
				Name: "Garage",
				Items: []services.RoomItemInput{
					{Name: "Shelf", Category: "storage"},
					{Name: "Cabinet", Category: "storage"},
					{Name: "Bike", Category: "misc"},
					{Name: "Toolbox", Category: "misc"},
				},
			})
			require.NoError(t, err)

			recs, err := services.RecommendedProducts(ctx, db, room.ID)
			require.NoError(t, err)
			require.NotEmpty(t, recs)
			assert.Equal(t, 0.9, recs[0].Recommendation.RelevanceScore)

			_, _, err = services.RecordClick(ctx, db, services.ClickInput{ProductID: recs[0].ID, RoomID: &room.ID})
			require.NoError(t, err)

			_, err = services.UpdateRoom(ctx, db, room.ID, services.RoomUpdate{Version: new(uint64)})
			require.NoError(t, err)

			require.NoError(t, services.DeleteRoom(ctx, db, room.ID))
			var items int64
			require.NoError(t, db.Model(&models.RoomItem{}).Where("room_id = ?", room.ID).Count(&items).Error)
			assert.Zero(t, items)
		})
	}
}
