package main

import (
	"errors"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"

	"github.com/planora/backoffice/internal/pkg/config"
)

const sourceURL = "file://migrations"

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|down [steps]|version>")
	}

	_ = godotenv.Load()

	cfg, err := config.Load("planora-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	m, err := migrate.New(sourceURL, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("migrate: %v", err)
	}
	defer m.Close()

	switch os.Args[1] {
	case "up":
		err = m.Up()
	case "down":
		steps := 1
		if len(os.Args) > 2 {
			if steps, err = strconv.Atoi(os.Args[2]); err != nil || steps <= 0 {
				log.Fatalf("invalid step count: %s", os.Args[2])
			}
		}
		err = m.Steps(-steps)
	case "version":
		v, dirty, verr := m.Version()
		if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
			log.Fatalf("version: %v", verr)
		}
		log.Printf("version=%d dirty=%t", v, dirty)
		return
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
	log.Printf("%s: done", os.Args[1])
}
