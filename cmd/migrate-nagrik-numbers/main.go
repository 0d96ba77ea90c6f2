// Command migrate-nagrik-numbers backfills nagrik numbers onto user profiles
// that predate the feature, then verifies global uniqueness. Prints a
// count-only summary; exits 0 on completion, 1 on setup failure.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"charcha-manch-be/config"
	"charcha-manch-be/migrate"
	"charcha-manch-be/nagrik"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db := config.ConnectDB()
	if db == nil {
		color.Red("Failed to connect to MongoDB")
		os.Exit(1)
	}

	users := db.Collection("users")
	counters := db.Collection("counters")

	sequencer := nagrik.NewMongoSequencer(counters, users)
	allocator := nagrik.NewAllocator(sequencer)
	migrator := migrate.NewMigrator(migrate.NewMongoProfileStore(users), allocator)

	ctx := context.Background()

	// seed the counter past every already-assigned number before allocating
	if err := sequencer.Seed(ctx); err != nil {
		color.Red("Failed to seed nagrik counter: %v", err)
		os.Exit(1)
	}

	color.Cyan("Starting nagrik number migration...")
	start := time.Now()

	report, err := migrator.Run(ctx)
	if err != nil {
		color.Red("Migration aborted: %v", err)
		os.Exit(1)
	}

	color.Green("Migration pass complete in %s", time.Since(start).Round(time.Millisecond))
	color.White("  migrated: %d", report.Migrated)
	color.White("  skipped:  %d", report.Skipped)
	if report.Errors > 0 {
		color.Yellow("  errors:   %d", report.Errors)
	} else {
		color.White("  errors:   0")
	}

	color.Cyan("Verifying nagrik number uniqueness...")
	verify, err := migrator.Verify(ctx)
	if err != nil {
		color.Red("Verification aborted: %v", err)
		os.Exit(1)
	}

	color.White("  with number:    %d", verify.WithNumber)
	color.White("  missing number: %d", verify.Missing)
	if len(verify.Duplicates) > 0 {
		color.Red("  duplicate numbers found: %d — manual remediation required", len(verify.Duplicates))
		for _, n := range verify.Duplicates {
			color.Red("    duplicate: %d", n)
		}
	} else {
		color.Green("  no duplicates found")
	}

	color.Green("Done (state: %s)", migrator.State())
}
