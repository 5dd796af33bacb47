// database.go
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

// Package devcontainers starts throwaway database containers for development
// and integration tests.
package devcontainers

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql" // readiness probe for MariaDB
	"github.com/localnerve/roomscan-api/internal/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const startupTimeout = 90 * time.Second

// Options describe the database container to start
type Options struct {
	Type     string // mariadb, mysql or postgres
	Image    string // defaults per type when empty
	Database string
	User     string
	Password string
	// Tmpfs keeps the data directory in memory
	Tmpfs bool
}

// OptionsFromEnv reads DB_TYPE, DB_IMAGE, DB_DATABASE, DB_USER and DB_PASSWORD
func OptionsFromEnv() Options {
	return Options{
		Type:     envOr("DB_TYPE", "mariadb"),
		Image:    os.Getenv("DB_IMAGE"),
		Database: envOr("DB_DATABASE", "roomscan"),
		User:     envOr("DB_USER", "roomscan"),
		Password: envOr("DB_PASSWORD", "roomscan"),
		Tmpfs:    os.Getenv("DB_TMPFS") != "false",
	}
}

// Database is a running database container
type Database struct {
	Container testcontainers.Container
	Options   Options
	Host      string
	Port      string
}

// Config returns a service configuration pointing at the container
func (d *Database) Config() *config.Config {
	return &config.Config{
		Port:              "3000",
		CORSOrigins:       "*",
		LogLevel:          "info",
		LogFormat:         "console",
		DBType:            d.Options.Type,
		DBHost:            d.Host,
		DBPort:            d.Port,
		DBDatabase:        d.Options.Database,
		DBUser:            d.Options.User,
		DBPassword:        d.Options.Password,
		DBConnectionLimit: 5,
	}
}

// Terminate stops and removes the container
func (d *Database) Terminate(ctx context.Context) error {
	if d == nil || d.Container == nil {
		return nil
	}
	return d.Container.Terminate(ctx)
}

type flavor struct {
	image   string
	port    nat.Port
	dataDir string
	env     func(Options) map[string]string
	wait    func(Options, nat.Port) wait.Strategy
}

var flavors = map[string]flavor{
	"mariadb": {
		image:   "mariadb:11",
		port:    "3306/tcp",
		dataDir: "/var/lib/mysql",
		env:     mysqlEnv,
		wait:    mysqlWait,
	},
	"mysql": {
		image:   "mysql:8.4",
		port:    "3306/tcp",
		dataDir: "/var/lib/mysql",
		env:     mysqlEnv,
		wait:    mysqlWait,
	},
	"postgres": {
		image:   "postgres:16-alpine",
		port:    "5432/tcp",
		dataDir: "/var/lib/postgresql/data",
		env: func(o Options) map[string]string {
			return map[string]string{
				"POSTGRES_DB":       o.Database,
				"POSTGRES_USER":     o.User,
				"POSTGRES_PASSWORD": o.Password,
			}
		},
		wait: func(_ Options, _ nat.Port) wait.Strategy {
			return wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(startupTimeout)
		},
	},
}

func mysqlEnv(o Options) map[string]string {
	return map[string]string{
		"MYSQL_ROOT_PASSWORD": o.Password,
		"MYSQL_DATABASE":      o.Database,
		"MYSQL_USER":          o.User,
		"MYSQL_PASSWORD":      o.Password,
	}
}

func mysqlWait(o Options, port nat.Port) wait.Strategy {
	return wait.ForSQL(port, "mysql", func(host string, p nat.Port) string {
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", o.User, o.Password, host, p.Port(), o.Database)
	}).WithStartupTimeout(startupTimeout)
}

// Start runs a database container and waits until it accepts connections
func Start(ctx context.Context, opts Options) (*Database, error) {
	f, ok := flavors[opts.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported container database type: %s", opts.Type)
	}
	image := opts.Image
	if image == "" {
		image = f.image
	}

	req := testcontainers.ContainerRequest{
		Image:        image,
		ExposedPorts: []string{string(f.port)},
		Env:          f.env(opts),
		WaitingFor:   f.wait(opts, f.port),
		HostConfigModifier: func(hostConfig *container.HostConfig) {
			if opts.Tmpfs {
				hostConfig.Tmpfs = map[string]string{f.dataDir: "rw"}
			}
		},
	}

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if c != nil {
			_ = c.Terminate(ctx)
		}
		return nil, fmt.Errorf("failed to start %s: %w", image, err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := c.MappedPort(ctx, f.port)
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, fmt.Errorf("failed to get mapped port: %w", err)
	}

	return &Database{
		Container: c,
		Options:   opts,
		Host:      host,
		Port:      port.Port(),
	}, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
