// rooms.go
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
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/localnerve/roomscan-api/internal/metrics"
	"github.com/localnerve/roomscan-api/internal/models"
	"github.com/localnerve/roomscan-api/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultRoomName = "Untitled Room"
	defaultUserID   = 1
)

// RoomInput is a scan submission
type RoomInput struct {
	Name       string          `json:"name"`
	UserID     *uint64         `json:"user_id,omitempty"`
	RoomType   string          `json:"room_type"`
	Dimensions json.RawMessage `json:"dimensions,omitempty"`
	ScanData   json.RawMessage `json:"scan_data,omitempty"`
	Items      []RoomItemInput `json:"items"`
}

// RoomItemInput is one detected item of a scan submission
type RoomItemInput struct {
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Position   json.RawMessage `json:"position,omitempty"`
	Confidence float64         `json:"confidence"`
}

// RoomUpdate is a partial room update. Nil fields are left unchanged.
// When Version is set it must match the stored version.
type RoomUpdate struct {
	Name       *string
	Dimensions json.RawMessage
	ScanData   json.RawMessage
	Version    *uint64
}

// ListRooms returns the rooms of a user with their items
func ListRooms(ctx context.Context, db *gorm.DB, userID uint64) ([]models.Room, error) {
	rooms := make([]models.Room, 0)
	err := db.WithContext(ctx).
		Preload("Items", orderByID).
		Where("user_id = ?", userID).
		Order("id").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	for i := range rooms {
		normalizeRoom(&rooms[i])
	}
	return rooms, nil
}

// CreateRoom stores a room, its items and its generated suggestions in one transaction.
// The scan is also recorded for analytics.
func CreateRoom(ctx context.Context, db *gorm.DB, input RoomInput) (*models.Room, error) {
	room, err := buildRoom(input)
	if err != nil {
		return nil, err
	}

	categories := make([]string, 0, len(room.Items))
	for _, item := range room.Items {
		categories = append(categories, item.Category)
	}
	drafts := GenerateSuggestions(categories)
	room.Suggestions = Suggestions(drafts)

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(room).Error; err != nil {
			return err
		}
		return recordScan(tx, room, input.RoomType, drafts)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	metrics.RoomsCreated.Inc()
	for _, d := range drafts {
		metrics.SuggestionsGenerated.WithLabelValues(d.Type).Inc()
	}

	normalizeRoom(room)
	return room, nil
}

// GetRoom returns a room with its items
func GetRoom(ctx context.Context, db *gorm.DB, roomID uint64) (*models.Room, error) {
	var room models.Room
	err := db.WithContext(ctx).
		Preload("Items", orderByID).
		First(&room, roomID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}
	normalizeRoom(&room)
	return &room, nil
}

// UpdateRoom applies a partial update. Without a version the last writer wins.
func UpdateRoom(ctx context.Context, db *gorm.DB, roomID uint64, update RoomUpdate) (*models.Room, error) {
	var room models.Room

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&room, roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrNotFound
			}
			return err
		}

		if update.Version != nil && *update.Version != room.Version {
			return types.ErrVersion
		}

		if update.Name != nil {
			room.Name = *update.Name
		}
		if update.Dimensions != nil {
			dims, err := models.RawJSON(update.Dimensions, "")
			if err != nil {
				return fmt.Errorf("%w: dimensions: %v", types.ErrInvalidInput, err)
			}
			room.Dimensions = dims
		}
		if update.ScanData != nil {
			scan, err := models.RawJSON(update.ScanData, "")
			if err != nil {
				return fmt.Errorf("%w: scan_data: %v", types.ErrInvalidInput, err)
			}
			room.ScanData = scan
		}
		room.Version++

		return tx.Omit(clause.Associations).Save(&room).Error
	})
	if err != nil {
		return nil, err
	}

	return GetRoom(ctx, db, roomID)
}

// DeleteRoom removes a room with its items, suggestions and stored recommendations.
// Click and scan analytics keep their room reference.
func DeleteRoom(ctx context.Context, db *gorm.DB, roomID uint64) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room models.Room
		if err := tx.Select("id").First(&room, roomID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrNotFound
			}
			return err
		}

		for _, dependent := range []interface{}{
			&models.ProductRecommendation{},
			&models.RoomItem{},
			&models.OrganizationSuggestion{},
		} {
			if err := tx.Where("room_id = ?", roomID).Delete(dependent).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&room).Error
	})
}

// ListSuggestions returns a room's suggestions, highest priority first
func ListSuggestions(ctx context.Context, db *gorm.DB, roomID uint64) ([]models.OrganizationSuggestion, error) {
	if err := roomExists(ctx, db, roomID); err != nil {
		return nil, err
	}

	suggestions := make([]models.OrganizationSuggestion, 0)
	err := db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("priority").
		Order("id").
		Find(&suggestions).Error
	return suggestions, err
}

// ImplementSuggestion marks a room's suggestion implemented
func ImplementSuggestion(ctx context.Context, db *gorm.DB, roomID, suggestionID uint64) (*models.OrganizationSuggestion, error) {
	var suggestion models.OrganizationSuggestion

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND room_id = ?", suggestionID, roomID).First(&suggestion).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.ErrNotFound
			}
			return err
		}

		if suggestion.IsImplemented {
			return nil
		}
		suggestion.IsImplemented = true
		if err := tx.Model(&suggestion).Update("is_implemented", true).Error; err != nil {
			return err
		}
		metrics.SuggestionsImplemented.Inc()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &suggestion, nil
}

func buildRoom(input RoomInput) (*models.Room, error) {
	name := input.Name
	if name == "" {
		name = defaultRoomName
	}

	userID := uint64(defaultUserID)
	if input.UserID != nil {
		userID = *input.UserID
	}

	dims, err := models.RawJSON(input.Dimensions, "{}")
	if err != nil {
		return nil, fmt.Errorf("%w: dimensions: %v", types.ErrInvalidInput, err)
	}
	scan, err := models.RawJSON(input.ScanData, "{}")
	if err != nil {
		return nil, fmt.Errorf("%w: scan_data: %v", types.ErrInvalidInput, err)
	}

	room := &models.Room{
		Name:       name,
		UserID:     userID,
		Dimensions: dims,
		ScanData:   scan,
		Items:      make([]models.RoomItem, 0, len(input.Items)),
	}

	for i, in := range input.Items {
		if in.Name == "" {
			return nil, fmt.Errorf("%w: items[%d].name is required", types.ErrInvalidInput, i)
		}
		category := in.Category
		if category == "" {
			category = unknownCategory
		}
		pos, err := models.RawJSON(in.Position, "{}")
		if err != nil {
			return nil, fmt.Errorf("%w: items[%d].position: %v", types.ErrInvalidInput, i, err)
		}
		room.Items = append(room.Items, models.RoomItem{
			Name:       in.Name,
			Category:   category,
			Position:   pos,
			Confidence: in.Confidence,
		})
	}

	return room, nil
}

// recordScan appends the analytics rows for a created room inside its transaction
func recordScan(tx *gorm.DB, room *models.Room, roomType string, drafts []SuggestionDraft) error {
	now := time.Now().UTC()
	userID := room.UserID
	roomID := room.ID

	suggestions, err := models.NewJSON(drafts)
	if err != nil {
		return err
	}
	scan := models.RoomScan{
		UserID:                  &userID,
		RoomID:                  &roomID,
		RoomType:                roomType,
		ScanData:                room.ScanData,
		OrganizationSuggestions: suggestions,
		Timestamp:               now,
	}
	if err := tx.Create(&scan).Error; err != nil {
		return err
	}

	meta, err := models.NewJSON(map[string]interface{}{
		"room_id":     roomID,
		"room_type":   roomType,
		"item_count":  len(room.Items),
		"suggestions": len(drafts),
	})
	if err != nil {
		return err
	}
	return tx.Create(&models.UserActivity{
		UserID:       &userID,
		ActivityType: models.ActivityRoomScan,
		Metadata:     meta,
		Timestamp:    now,
	}).Error
}

// lockForUpdate adds a row lock where the dialect supports FOR UPDATE
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	switch tx.Dialector.Name() {
	case "sqlite", "sqlserver":
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

func normalizeRoom(room *models.Room) {
	if room.Items == nil {
		room.Items = []models.RoomItem{}
	}
}
