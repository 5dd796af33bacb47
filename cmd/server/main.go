// main.go
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

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/localnerve/roomscan-api/internal/config"
	"github.com/localnerve/roomscan-api/internal/database"
	"github.com/localnerve/roomscan-api/internal/logger"
	"github.com/localnerve/roomscan-api/internal/scheduler"
	"github.com/localnerve/roomscan-api/internal/server"
	"github.com/localnerve/roomscan-api/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// @title Roomscan API
// @version 1.0.0
// @description Room scanning, organization suggestions and affiliate product recommendations
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/roomscan-api
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()
	zap.ReplaceGlobals(zlog)

	db, err := database.Connect(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		zlog.Fatal("failed to run migrations", zap.Error(err))
	}

	if cfg.SeedOnStart {
		seedCatalog(db, zlog)
	}

	job := scheduler.NewMetricsJob(db, cfg, zlog)
	if err := job.Start(); err != nil {
		zlog.Fatal("failed to start metrics job", zap.Error(err))
	}
	defer job.Stop()

	opts := server.Options{Metrics: true}
	if cfg.AuthEnabled() {
		// The Authorizer client is created on the first admin request
		opts.Authorizer = services.NewAuthorizer(cfg, zlog)
		zlog.Info("admin routes require an Authorizer session", zap.String("authorizer_url", cfg.AuthzURL))
	} else {
		zlog.Warn("AUTHZ_URL not set, admin routes are open")
	}

	app := server.New(cfg, db, zlog, opts)

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		zlog.Info("gracefully shutting down")
		_ = app.ShutdownWithTimeout(shutdownTimeout)
	}()

	zlog.Info("starting server", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}

	zlog.Info("server stopped")
}

// seedCatalog inserts the bundled sample products. Failures are logged, the
// server still starts.
func seedCatalog(db *gorm.DB, zlog *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	seeds, err := services.LoadCatalog()
	if err != nil {
		zlog.Error("failed to load product catalog", zap.Error(err))
		return
	}
	inserted, err := services.SeedProducts(ctx, db, seeds)
	if err != nil {
		zlog.Error("failed to seed products", zap.Error(err))
		return
	}
	zlog.Info("product catalog seeded", zap.Int("inserted", inserted))
}
