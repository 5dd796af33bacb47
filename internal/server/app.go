// app.go
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

package server

import (
	"errors"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	swagger "github.com/gofiber/swagger"
	"github.com/google/uuid"
	"github.com/localnerve/roomscan-api/internal/config"
	"github.com/localnerve/roomscan-api/internal/handlers"
	"github.com/localnerve/roomscan-api/internal/logger"
	"github.com/localnerve/roomscan-api/internal/middleware"
	"github.com/localnerve/roomscan-api/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/localnerve/roomscan-api/docs/api" // Swagger docs
)

// Options selects the optional parts of the application
type Options struct {
	// Metrics exposes Prometheus HTTP metrics at /metrics. The collectors register
	// with the default registry, so enable it for one app per process.
	Metrics bool
	// Authorizer guards the admin routes. Nil leaves them open.
	Authorizer middleware.SessionValidator
}

// New builds the Fiber application with all middleware and routes
func New(cfg *config.Config, db *gorm.DB, log *zap.Logger, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		DisableStartupMessage: true,
	})

	// Global middleware
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.Middleware(log))
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))
	app.Use(compress.New())

	if opts.Metrics {
		prometheus := fiberprometheus.New("roomscan")
		prometheus.RegisterAt(app, "/metrics")
		app.Use(prometheus.Middleware)
	}

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API routes under /api
	api := app.Group("/api")
	api.Use(middleware.VersionMiddleware())

	admin := middleware.AuthAdmin(opts.Authorizer)

	roomHandler := &handlers.RoomHandler{DB: db}
	productHandler := &handlers.ProductHandler{DB: db}
	analyticsHandler := &handlers.AnalyticsHandler{DB: db}
	healthHandler := &handlers.HealthHandler{DB: db, Config: cfg}

	rooms := api.Group("/rooms")
	rooms.Get("/", roomHandler.ListRooms)
	rooms.Post("/", roomHandler.CreateRoom)
	rooms.Get("/:id", roomHandler.GetRoom)
	rooms.Put("/:id", roomHandler.UpdateRoom)
	rooms.Delete("/:id", roomHandler.DeleteRoom)
	rooms.Get("/:id/suggestions", roomHandler.ListSuggestions)
	rooms.Post("/:id/suggestions/:sid/implement", roomHandler.ImplementSuggestion)
	rooms.Get("/:id/recommendations", roomHandler.GetRecommendations)

	products := api.Group("/products")
	products.Get("/", productHandler.ListProducts)
	products.Post("/seed", admin, productHandler.SeedProducts)
	products.Get("/:id", productHandler.GetProduct)
	products.Post("/:id/click", productHandler.TrackClick)

	analytics := api.Group("/analytics")
	analytics.Get("/clicks", admin, analyticsHandler.ClickAnalytics)
	analytics.Get("/summary", admin, analyticsHandler.Summary)
	analytics.Post("/activity", analyticsHandler.RecordActivity)
	analytics.Post("/metrics", analyticsHandler.RecordMetric)

	api.Get("/health", healthHandler.Health)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":     "[404] Resource Not Found",
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
			"type":      "notFound",
		})
	})

	return app
}

// customErrorHandler renders errors returned by middleware and handlers
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	var customErr *types.CustomError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &customErr):
		code = customErr.Code
		message = customErr.Message
		errorType = customErr.Type
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	}

	versionError := errors.Is(err, types.ErrVersion)
	if versionError {
		code = fiber.StatusConflict
		errorType = "version"
	}

	if code >= fiber.StatusInternalServerError {
		logger.FromCtx(c).Error("unhandled error", zap.Error(err))
	}

	return c.Status(code).JSON(fiber.Map{
		"error":        message,
		"status":       code,
		"message":      message,
		"ok":           false,
		"versionError": versionError,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"url":          c.OriginalURL(),
		"type":         errorType,
	})
}
