package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/focitech/focitech-backend/config"
	"github.com/focitech/focitech-backend/internal/storage/postgres"
)

func main() {
	flag.Usage = func() {
		log.Println("usage: migrate [up|down|redo|reset|status|version]")
	}
	flag.Parse()

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db, command); err != nil {
		log.Fatalf("%v", err)
	}
	log.Printf("migrate %s: done", command)
}
