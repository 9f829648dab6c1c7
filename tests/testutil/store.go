package testutil

import (
	"context"
	"strconv"
	"testing"

	"github.com/nhle/notify/internal/lifecycle"
	"github.com/nhle/notify/internal/logging"
	"github.com/nhle/notify/internal/model"
	"github.com/nhle/notify/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// NewTestEngine creates an engine over a fresh in-memory store seeded with
// the default categories.
func NewTestEngine(t *testing.T) (*lifecycle.Engine, *store.SQLiteStore) {
	t.Helper()

	s := NewTestStore(t)
	e := lifecycle.New(s, lifecycle.Config{
		ImportanceLevels:  model.DefaultImportanceLevels(),
		DefaultCategories: model.DefaultCategories,
	}, logging.Discard())

	if _, err := e.Initialize(context.Background()); err != nil {
		t.Fatalf("initializing test engine: %v", err)
	}
	return e, s
}

// SeedUnsorted inserts n unsorted notifications titled "title 1".."title n".
func SeedUnsorted(t *testing.T, e *lifecycle.Engine, n int) {
	t.Helper()

	items := make([]model.RawNotification, n)
	for i := range items {
		items[i] = model.RawNotification{
			Title:   "title " + strconv.Itoa(i+1),
			Content: "content " + strconv.Itoa(i+1),
		}
	}
	if _, err := e.InsertUnsorted(context.Background(), items); err != nil {
		t.Fatalf("seeding unsorted notifications: %v", err)
	}
}

// IDs returns the ids of table in ascending order.
func IDs(t *testing.T, s store.Store, table model.Table) []int64 {
	t.Helper()

	var ids []int64
	err := s.WithTx(context.Background(), func(uow store.UnitOfWork) error {
		var err error
		ids, err = uow.IDs(context.Background(), table)
		return err
	})
	if err != nil {
		t.Fatalf("listing %s ids: %v", table, err)
	}
	return ids
}

// Dense returns 1..n.
func Dense(n int) []int64 {
	if n == 0 {
		return nil
	}
	out := make([]int64, n)
	for i := range out {
		out[i] = int64(i + 1)
	}
	return out
}
