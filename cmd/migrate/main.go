package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Rrens/finance-copilot/internal/config"
	"github.com/Rrens/finance-copilot/internal/logging"
	"github.com/Rrens/finance-copilot/internal/repository/postgres"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	steps := flag.Int("steps", 1, "number of migrations to roll back with down")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: migrate [-steps n] up|down|version\n")
	}
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if closer, err := logging.Setup(cfg.Logging); err == nil {
		defer closer.Close()
	}

	if cfg.Database.Driver != config.DriverPostgres {
		log.Fatal().Str("driver", cfg.Database.Driver).
			Msg("Migrations apply to postgres only; sqlite and mysql stores create their schema on start")
	}

	dir, err := filepath.Abs(cfg.Database.MigrationsDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid migrations directory")
	}
	source := "file://" + filepath.ToSlash(dir)
	dsn := cfg.Database.DSN()

	cmd := flag.Arg(0)
	if cmd == "" {
		cmd = "up"
	}

	switch cmd {
	case "up":
		err = postgres.RunMigrations(dsn, source)
	case "down":
		err = postgres.RollbackMigrations(dsn, source, *steps)
	case "version":
		var version uint
		var dirty bool
		version, dirty, err = postgres.MigrationVersion(dsn, source)
		if err == nil {
			log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Database migration version")
		}
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal().Err(err).Str("command", cmd).Msg("Migration failed")
	}
}
