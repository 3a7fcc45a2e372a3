// Command migrate applies the schema scripts and prints the resulting
// migration history.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"anoa.com/peerreview/internal/config"
	"anoa.com/peerreview/internal/migration"
	"anoa.com/peerreview/pkg/database"
)

func main() {
	infoOnly := flag.Bool("info", false, "print the migration history without applying anything")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.Connect(database.Options{
		Host:     cfg.DBHost,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Name:     cfg.DBName,
		Port:     cfg.DBPort,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer database.Shutdown(db)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	migrator := migration.New(db, migration.Scripts(), cfg.MigrationBaselineVersion)
	if !*infoOnly {
		if err := migrator.Migrate(ctx); err != nil {
			log.Fatalf("schema migration failed: %v", err)
		}
	}

	rows, err := migrator.Info(ctx)
	if err != nil {
		log.Fatalf("failed to read migration history: %v", err)
	}

	fmt.Printf("%-8s %-40s %-12s %s\n", "version", "description", "checksum", "applied at")
	for _, row := range rows {
		fmt.Printf("%-8d %-40s %-12d %s\n",
			row.Version, row.Description, row.Checksum, row.AppliedAt.Format(time.RFC3339))
	}
}
