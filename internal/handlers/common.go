// common.go
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
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/roomscan-api/internal/logger"
	"github.com/localnerve/roomscan-api/internal/types"
	"github.com/localnerve/roomscan-api/internal/utils"
	"go.uber.org/zap"
)

// parseID reads a positive integer path parameter
func parseID(c *fiber.Ctx, name string) (uint64, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

// queryUint reads an optional unsigned integer query parameter.
// The boolean is false when the parameter is absent.
func queryUint(c *fiber.Ctx, name string) (uint64, bool, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, true, nil
}

// queryInt reads an optional integer query parameter, returning def when absent
func queryInt(c *fiber.Ctx, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}

// parseBody decodes an optional JSON body into out regardless of Content-Type.
// An empty body leaves out untouched.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.App().Config().JSONDecoder(c.Body(), out); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// badRequest sends a 400 for malformed input
func badRequest(c *fiber.Ctx, err error, errorType string) error {
	return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, errorType)
}

// serviceError maps service errors to responses. Unclassified errors get
// failStatus: 400 for writes, whose transaction was rolled back, 500 for reads.
func serviceError(c *fiber.Ctx, err error, failStatus int, errorType string) error {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return utils.NotFoundResponse(c, notFoundMessage(c))
	case errors.Is(err, types.ErrVersion):
		return utils.VersionErrorResponse(c)
	case errors.Is(err, types.ErrInvalidInput):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, errorType)
	}

	logger.FromCtx(c).Error("request failed",
		zap.String("type", errorType),
		zap.Int("status", failStatus),
		zap.Error(err))
	return utils.ErrorResponse(c, err.Error(), failStatus, errorType)
}

func notFoundMessage(c *fiber.Ctx) string {
	return fmt.Sprintf("[404] Resource Not Found: %s", c.Path())
}
