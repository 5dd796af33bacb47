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

package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/roomscan-api/internal/services"
	"github.com/localnerve/roomscan-api/internal/types"
	"github.com/localnerve/roomscan-api/internal/utils"
	"gorm.io/gorm"
)

// RoomHandler handles room, suggestion and recommendation routes
type RoomHandler struct {
	DB *gorm.DB
}

// CreateRoomRequest is the body of POST /api/rooms
type CreateRoomRequest struct {
	Name       string                                `json:"name"`
	UserID     *types.FlexUint64                     `json:"user_id" swaggertype:"integer"`
	RoomType   string                                `json:"room_type"`
	Dimensions json.RawMessage                       `json:"dimensions" swaggertype:"object"`
	ScanData   json.RawMessage                       `json:"scan_data" swaggertype:"object"`
	Items      types.FlexList[services.RoomItemInput] `json:"items"`
}

// UpdateRoomRequest is the body of PUT /api/rooms/:id
type UpdateRoomRequest struct {
	Name       *string           `json:"name"`
	Dimensions json.RawMessage   `json:"dimensions" swaggertype:"object"`
	ScanData   json.RawMessage   `json:"scan_data" swaggertype:"object"`
	Version    *types.FlexUint64 `json:"version" swaggertype:"integer"`
}

// ListRooms handles GET /api/rooms
// @Summary List rooms
// @Description List the rooms of a user with their detected items
// @Tags Rooms
// @Produce json
// @Param user_id query integer false "User ID" default(1)
// @Success 200 {array} models.Room
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /rooms [get]
func (h *RoomHandler) ListRooms(c *fiber.Ctx) error {
	userID, ok, err := queryUint(c, "user_id")
	if err != nil {
		return badRequest(c, err, "listRooms")
	}
	if !ok {
		userID = 1
	}

	rooms, err := services.ListRooms(c.UserContext(), h.DB, userID)
	if err != nil {
		return serviceError(c, err, fiber.StatusInternalServerError, "listRooms")
	}

	return utils.SuccessResponse(c, rooms, fiber.StatusOK)
}

// CreateRoom handles POST /api/rooms
// @Summary Create a room from a scan
// @Description Store a scanned room with its items and generate organization suggestions
// @Tags Rooms
// @Accept json
// @Produce json
// @Param body body CreateRoomRequest true "Scanned room"
// @Success 201 {object} models.Room
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /rooms [post]
func (h *RoomHandler) CreateRoom(c *fiber.Ctx) error {
	var req CreateRoomRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err, "createRoom")
	}

	room, err := services.CreateRoom(c.UserContext(), h.DB, services.RoomInput{
		Name:       req.Name,
		UserID:     types.OptionalUint64(req.UserID),
		RoomType:   req.RoomType,
		Dimensions: req.Dimensions,
		ScanData:   req.ScanData,
		Items:      req.Items.Slice(),
	})
	if err != nil {
		return serviceError(c, err, fiber.StatusBadRequest, "createRoom")
	}

	return utils.SuccessResponse(c, room, fiber.StatusCreated)
}

// GetRoom handles GET /api/rooms/:id
// @Summary Get a room
// @Tags Rooms
// @Produce json
// @Param id path integer true "Room ID"
// @Success 200 {object} models.Room
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /rooms/{id} [get]
func (h *RoomHandler) GetRoom(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err, "getRoom")
	}

	room, err := services.GetRoom(c.UserContext(), h.DB, id)
	if err != nil {
		return serviceError(c, err, fiber.StatusInternalServerError, "getRoom")
	}

	return utils.SuccessResponse(c, room, fiber.StatusOK)
}

// UpdateRoom handles PUT /api/rooms/:id
// @Summary Update a room
// @Description Update name, dimensions or scan data. Send the current version to detect concurrent edits.
// @Tags Rooms
// @Accept json
// @Produce json
// @Param id path integer true "Room ID"
// @Param body body UpdateRoomRequest true "Fields to change"
// @Success 200 {object} models.Room
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Router /rooms/{id} [put]
func (h *RoomHandler) UpdateRoom(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err, "updateRoom")
	}

	var req UpdateRoomRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err, "updateRoom")
	}

	room, err := services.UpdateRoom(c.UserContext(), h.DB, id, services.RoomUpdate{
		Name:       req.Name,
		Dimensions: req.Dimensions,
		ScanData:   req.ScanData,
		Version:    types.OptionalUint64(req.Version),
	})
	if err != nil {
		return serviceError(c, err, fiber.StatusBadRequest, "updateRoom")
	}

	return utils.SuccessResponse(c, room, fiber.StatusOK)
}

// DeleteRoom handles DELETE /api/rooms/:id
// @Summary Delete a room
// @Description Delete a room with its items and suggestions
// @Tags Rooms
// @Produce json
// @Param id path integer true "Room ID"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /rooms/{id} [delete]
func (h *RoomHandler) DeleteRoom(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err, "deleteRoom")
	}

	if err := services.DeleteRoom(c.UserContext(), h.DB, id); err != nil {
		return serviceError(c, err, fiber.StatusBadRequest, "deleteRoom")
	}

	return utils.MessageResponse(c, "Room deleted successfully", nil)
}

// ListSuggestions handles GET /api/rooms/:id/suggestions
// @Summary List organization suggestions
// @Description Suggestions of a room, highest priority first
// @Tags Suggestions
// @Produce json
// @Param id path integer true "Room ID"
// @Success 200 {array} models.OrganizationSuggestion
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /rooms/{id}/suggestions [get]
func (h *RoomHandler) ListSuggestions(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err, "listSuggestions")
	}

	suggestions, err := services.ListSuggestions(c.UserContext(), h.DB, id)
	if err != nil {
		return serviceError(c, err, fiber.StatusInternalServerError, "listSuggestions")
	}

	return utils.SuccessResponse(c, suggestions, fiber.StatusOK)
}

// ImplementSuggestion handles POST /api/rooms/:id/suggestions/:sid/implement
// @Summary Mark a suggestion implemented
// @Tags Suggestions
// @Produce json
// @Param id path integer true "Room ID"
// @Param sid path integer true "Suggestion ID"
// @Success 200 {object} models.OrganizationSuggestion
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /rooms/{id}/suggestions/{sid}/implement [post]
func (h *RoomHandler) ImplementSuggestion(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err, "implementSuggestion")
	}
	sid, err := parseID(c, "sid")
	if err != nil {
		return badRequest(c, err, "implementSuggestion")
	}

	suggestion, err := services.ImplementSuggestion(c.UserContext(), h.DB, id, sid)
	if err != nil {
		return serviceError(c, err, fiber.StatusBadRequest, "implementSuggestion")
	}

	return utils.SuccessResponse(c, suggestion, fiber.StatusOK)
}

// GetRecommendations handles GET /api/rooms/:id/recommendations
// @Summary Recommended products for a room
// @Description Products matching the room's suggestions, most relevant first, plus popular products
// @Tags Recommendations
// @Produce json
// @Param id path integer true "Room ID"
// @Success 200 {array} services.RecommendedProduct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /rooms/{id}/recommendations [get]
func (h *RoomHandler) GetRecommendations(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err, "getRecommendations")
	}

	products, err := services.RecommendedProducts(c.UserContext(), h.DB, id)
	if err != nil {
		return serviceError(c, err, fiber.StatusInternalServerError, "getRecommendations")
	}

	return utils.SuccessResponse(c, products, fiber.StatusOK)
}
