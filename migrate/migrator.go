// Package migrate backfills nagrik numbers onto profiles created before the
// feature existed, then verifies global uniqueness. One-shot batch tool;
// safe to re-run because already-numbered profiles are skipped each pass.
package migrate

import (
	"context"
	"log"
	"time"
)

// State of a single migration run
type State string

const (
	NotStarted State = "NotStarted"
	Migrating  State = "Migrating"
	Verifying  State = "Verifying"
	Done       State = "Done"
)

// Profile is the slice of a user record the migration cares about
type Profile struct {
	ID           string
	NagrikNumber int64
}

// ProfileStore streams and updates user profiles. ForEach visits every
// profile in store order. AssignNagrikNumber is a guarded write: it reports
// assigned=false, touching nothing, when the profile already has a number by
// the time the write lands.
type ProfileStore interface {
	ForEach(ctx context.Context, fn func(Profile) error) error
	AssignNagrikNumber(ctx context.Context, id string, n int64) (assigned bool, err error)
}

// NumberSource allocates nagrik numbers; satisfied by *nagrik.Allocator
type NumberSource interface {
	Allocate(ctx context.Context) (int64, error)
}

// Report accumulates per-profile outcomes. Per-profile failures never abort
// the run; they are counted and the batch moves on.
type Report struct {
	Migrated int
	Skipped  int
	Errors   int
}

// VerifyReport summarizes the post-migration uniqueness check. Duplicates are
// reported, never auto-healed; remediation is manual.
type VerifyReport struct {
	WithNumber int
	Missing    int
	Duplicates []int64
}

// Migrator walks all profiles assigning missing numbers, throttled between
// writes so the backing store is never flooded.
type Migrator struct {
	profiles ProfileStore
	numbers  NumberSource
	throttle time.Duration
	state    State
}

func NewMigrator(profiles ProfileStore, numbers NumberSource) *Migrator {
	return &Migrator{
		profiles: profiles,
		numbers:  numbers,
		throttle: 100 * time.Millisecond,
		state:    NotStarted,
	}
}

// SetThrottle overrides the delay between writes (tests use 0)
func (m *Migrator) SetThrottle(d time.Duration) {
	m.throttle = d
}

func (m *Migrator) State() State {
	return m.state
}

// Run performs the migration pass. Only a failure to enumerate profiles at
// all is returned as an error; everything per-profile lands in the Report.
func (m *Migrator) Run(ctx context.Context) (Report, error) {
	m.state = Migrating
	var report Report

	err := m.profiles.ForEach(ctx, func(p Profile) error {
		if p.NagrikNumber > 0 {
			report.Skipped++
			return nil
		}

		n, allocErr := m.numbers.Allocate(ctx)
		if allocErr != nil && n == 0 {
			log.Printf("migrate: allocation failed for profile %s: %v", p.ID, allocErr)
			report.Errors++
			return nil
		}
		if allocErr != nil {
			// random-fallback number; usable, flagged for the verify phase
			log.Printf("migrate: non-sequential number for profile %s: %v", p.ID, allocErr)
		}

		assigned, writeErr := m.profiles.AssignNagrikNumber(ctx, p.ID, n)
		if writeErr != nil {
			log.Printf("migrate: failed to write number for profile %s: %v", p.ID, writeErr)
			report.Errors++
			return nil
		}
		if !assigned {
			// numbered concurrently since the enumeration snapshot
			log.Printf("migrate: profile %s already numbered, skipping", p.ID)
			report.Skipped++
			return nil
		}

		report.Migrated++
		if m.throttle > 0 {
			time.Sleep(m.throttle)
		}
		return nil
	})
	if err != nil {
		return report, err
	}

	return report, nil
}

// Verify re-reads every profile, partitions has-number/missing, and flags
// numeric duplicates by comparing sequence length against set size.
func (m *Migrator) Verify(ctx context.Context) (VerifyReport, error) {
	m.state = Verifying
	var report VerifyReport

	seen := make(map[int64]int)
	var numbers []int64

	err := m.profiles.ForEach(ctx, func(p Profile) error {
		if p.NagrikNumber <= 0 {
			report.Missing++
			return nil
		}
		report.WithNumber++
		numbers = append(numbers, p.NagrikNumber)
		seen[p.NagrikNumber]++
		return nil
	})
	if err != nil {
		return report, err
	}

	if len(numbers) != len(seen) {
		for n, count := range seen {
			if count > 1 {
				report.Duplicates = append(report.Duplicates, n)
			}
		}
	}

	m.state = Done
	return report, nil
}
