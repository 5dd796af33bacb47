package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/localnerve/roomscan-api/internal/devcontainers"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	flag.Parse()

	usage := `
Run a development database container with the environment variables from the .env file.

Usage:

devdb [-h] [-f ENV_FILE_PATH]

ENV_FILE_PATH: path to the .env file

Reads DB_TYPE (mariadb, mysql, postgres), DB_IMAGE, DB_DATABASE, DB_USER, DB_PASSWORD
and DB_TMPFS, then prints the DB_HOST and DB_PORT to point the server at.

example
  devdb -f /path/to/something/.env
`
	// if -h flag print usage and return
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		log.Printf("Loading environment variables from %s\n", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	} else {
		log.Printf("No environment file specified, using current environment variables\n")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	opts := devcontainers.OptionsFromEnv()
	db, err := devcontainers.Start(ctx, opts)
	if err != nil {
		log.Fatalf("Failed to start database container: %v\n", err)
	}

	fmt.Printf("DB_TYPE=%s\nDB_HOST=%s\nDB_PORT=%s\nDB_DATABASE=%s\nDB_USER=%s\n",
		opts.Type, db.Host, db.Port, opts.Database, opts.User)

	<-ctx.Done()
	log.Printf("Received signal, terminating database container...\n")
	if err := db.Terminate(context.Background()); err != nil {
		log.Printf("Failed to terminate database container: %v\n", err)
		os.Exit(1)
	}
}
