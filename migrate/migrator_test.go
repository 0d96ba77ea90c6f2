package migrate

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryProfileStore struct {
	mu       sync.Mutex
	order    []string
	profiles map[string]int64
	failIDs  map[string]bool
}

func newMemoryProfileStore() *memoryProfileStore {
	return &memoryProfileStore{
		profiles: make(map[string]int64),
		failIDs:  make(map[string]bool),
	}
}

func (s *memoryProfileStore) add(id string, n int64) {
	s.order = append(s.order, id)
	s.profiles[id] = n
}

func (s *memoryProfileStore) ForEach(ctx context.Context, fn func(Profile) error) error {
	s.mu.Lock()
	snapshot := make([]Profile, 0, len(s.order))
	for _, id := range s.order {
		snapshot = append(snapshot, Profile{ID: id, NagrikNumber: s.profiles[id]})
	}
	s.mu.Unlock()

	for _, p := range snapshot {
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}

func (s *memoryProfileStore) AssignNagrikNumber(ctx context.Context, id string, n int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failIDs[id] {
		return false, errors.New("write failed")
	}
	if s.profiles[id] != 0 {
		return false, nil
	}
	s.profiles[id] = n
	return true, nil
}

type seqSource struct {
	mu   sync.Mutex
	next int64
}

func (s *seqSource) Allocate(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.next
	s.next++
	return n, nil
}

func newTestMigrator(store *memoryProfileStore, start int64) *Migrator {
	m := NewMigrator(store, &seqSource{next: start})
	m.SetThrottle(0)
	return m
}

func TestRunAssignsMissingNumbers(t *testing.T) {
	store := newMemoryProfileStore()
	store.add("a", 0)
	store.add("b", 1005)
	store.add("c", 0)

	m := newTestMigrator(store, 1006)
	assert.Equal(t, NotStarted, m.State())

	report, err := m.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Migrated)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 0, report.Errors)

	// pre-existing number untouched, and never re-issued
	assert.Equal(t, int64(1005), store.profiles["b"])
	assert.GreaterOrEqual(t, store.profiles["a"], int64(1006))
	assert.NotEqual(t, int64(1005), store.profiles["a"])
	assert.NotEqual(t, int64(1005), store.profiles["c"])
}

func TestRunContinuesPastWriteFailures(t *testing.T) {
	store := newMemoryProfileStore()
	store.add("a", 0)
	store.add("b", 0)
	store.add("c", 0)
	store.failIDs["b"] = true

	m := newTestMigrator(store, 1001)
	report, err := m.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Migrated)
	assert.Equal(t, 1, report.Errors)
	assert.Equal(t, int64(0), store.profiles["b"])
	assert.NotZero(t, store.profiles["a"])
	assert.NotZero(t, store.profiles["c"])
}

func TestRunIsIdempotent(t *testing.T) {
	store := newMemoryProfileStore()
	store.add("a", 0)
	store.add("b", 0)

	m := newTestMigrator(store, 1001)
	first, err := m.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.Migrated)

	second, err := newTestMigrator(store, 1003).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Migrated)
	assert.Equal(t, 2, second.Skipped)
}

// staleSnapshotStore enumerates from a snapshot taken before a concurrent
// onboarding write numbered some profiles, the way a long cursor walk would
type staleSnapshotStore struct {
	*memoryProfileStore
	snapshot []Profile
}

func (s *staleSnapshotStore) ForEach(ctx context.Context, fn func(Profile) error) error {
	for _, p := range s.snapshot {
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}

func TestRunCountsConcurrentlyNumberedAsSkipped(t *testing.T) {
	inner := newMemoryProfileStore()
	inner.add("a", 0)
	inner.add("b", 0)

	store := &staleSnapshotStore{
		memoryProfileStore: inner,
		snapshot: []Profile{
			{ID: "a", NagrikNumber: 0},
			{ID: "b", NagrikNumber: 0},
		},
	}

	// "b" gets numbered by onboarding after the snapshot was taken
	inner.profiles["b"] = 2001

	m := NewMigrator(store, &seqSource{next: 1001})
	m.SetThrottle(0)
	report, err := m.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Migrated)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 0, report.Errors)

	// the concurrent write was not clobbered
	assert.Equal(t, int64(2001), inner.profiles["b"])
	assert.Equal(t, int64(1001), inner.profiles["a"])
}

func TestVerifyPartitionsAndFindsDuplicates(t *testing.T) {
	store := newMemoryProfileStore()
	store.add("a", 1001)
	store.add("b", 1002)
	store.add("c", 1001) // duplicate, e.g. from the random fallback path
	store.add("d", 0)

	m := newTestMigrator(store, 1003)
	report, err := m.Verify(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.WithNumber)
	assert.Equal(t, 1, report.Missing)
	sort.Slice(report.Duplicates, func(i, j int) bool { return report.Duplicates[i] < report.Duplicates[j] })
	assert.Equal(t, []int64{1001}, report.Duplicates)

	// duplicates are reported, not healed
	assert.Equal(t, int64(1001), store.profiles["a"])
	assert.Equal(t, int64(1001), store.profiles["c"])
}

func TestStateMachine(t *testing.T) {
	store := newMemoryProfileStore()
	store.add("a", 0)

	m := newTestMigrator(store, 1001)
	assert.Equal(t, NotStarted, m.State())

	_, err := m.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Migrating, m.State())

	_, err = m.Verify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Done, m.State())
}

func TestVerifyCleanAfterRun(t *testing.T) {
	store := newMemoryProfileStore()
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		store.add(id, 0)
	}

	m := newTestMigrator(store, 1001)
	runReport, err := m.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, runReport.Migrated)

	verify, err := m.Verify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, verify.WithNumber)
	assert.Equal(t, 0, verify.Missing)
	assert.Empty(t, verify.Duplicates)
}
