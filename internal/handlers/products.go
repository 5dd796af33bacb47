// products.go
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
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/roomscan-api/internal/services"
	"github.com/localnerve/roomscan-api/internal/types"
	"github.com/localnerve/roomscan-api/internal/utils"
	"gorm.io/gorm"
)

// ProductHandler handles product catalog and affiliate click routes
type ProductHandler struct {
	DB *gorm.DB
}

// ClickRequest is the optional body of POST /api/products/:id/click
type ClickRequest struct {
	UserID *types.FlexUint64 `json:"user_id" swaggertype:"integer"`
	RoomID *types.FlexUint64 `json:"room_id" swaggertype:"integer"`
}

// ListProducts handles GET /api/products
// @Summary List active products
// @Description Active products in id order. With room_id, the room's recommended products come first.
// @Tags Products
// @Produce json
// @Param category query string false "Product category"
// @Param room_id query integer false "Room ID"
// @Param limit query integer false "Maximum number of products" default(20) maximum(100)
// @Success 200 {array} models.Product
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /products [get]
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	filter := services.ProductFilter{Category: c.Query("category")}

	roomID, ok, err := queryUint(c, "room_id")
	if err != nil {
		return badRequest(c, err, "listProducts")
	}
	if ok {
		filter.RoomID = &roomID
	}

	filter.Limit, err = queryInt(c, "limit", services.DefaultProductLimit)
	if err != nil {
		return badRequest(c, err, "listProducts")
	}

	products, err := services.ListProducts(c.UserContext(), h.DB, filter)
	if err != nil {
		return serviceError(c, err, fiber.StatusInternalServerError, "listProducts")
	}

	return utils.SuccessResponse(c, products, fiber.StatusOK)
}

// GetProduct handles GET /api/products/:id
// @Summary Get an active product
// @Tags Products
// @Produce json
// @Param id path integer true "Product ID"
// @Success 200 {object} models.Product
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err, "getProduct")
	}

	product, err := services.GetProduct(c.UserContext(), h.DB, id)
	if err != nil {
		return serviceError(c, err, fiber.StatusInternalServerError, "getProduct")
	}

	return utils.SuccessResponse(c, product, fiber.StatusOK)
}

// TrackClick handles POST /api/products/:id/click
// @Summary Track an affiliate click
// @Description Record a followed affiliate link and return the link to redirect to
// @Tags Products
// @Accept json
// @Produce json
// @Param id path integer true "Product ID"
// @Param body body ClickRequest false "Click context"
// @Success 200 {object} utils.ClickResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /products/{id}/click [post]
func (h *ProductHandler) TrackClick(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, err, "trackClick")
	}

	var req ClickRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err, "trackClick")
	}

	click, product, err := services.RecordClick(c.UserContext(), h.DB, services.ClickInput{
		ProductID: id,
		UserID:    types.OptionalUint64(req.UserID),
		RoomID:    types.OptionalUint64(req.RoomID),
		IPAddress: c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
		Referrer:  c.Get(fiber.HeaderReferer),
	})
	if err != nil {
		return serviceError(c, err, fiber.StatusBadRequest, "trackClick")
	}

	return utils.SuccessResponse(c, utils.ClickResponseStruct{
		Success:       true,
		AffiliateLink: product.AffiliateLink,
		ClickID:       click.ID,
	}, fiber.StatusOK)
}

// SeedProducts handles POST /api/products/seed
// @Summary Seed the sample catalog
// @Description Insert the bundled sample products whose names are not present yet
// @Tags Products
// @Produce json
// @Success 200 {object} utils.SeedResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /products/seed [post]
func (h *ProductHandler) SeedProducts(c *fiber.Ctx) error {
	seeds, err := services.LoadCatalog()
	if err != nil {
		return serviceError(c, err, fiber.StatusBadRequest, "seedProducts")
	}

	inserted, err := services.SeedProducts(c.UserContext(), h.DB, seeds)
	if err != nil {
		return serviceError(c, err, fiber.StatusBadRequest, "seedProducts")
	}

	return utils.MessageResponse(c, "Sample products created successfully", fiber.Map{
		"inserted": inserted,
	})
}
