package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/notify/internal/model"
	"github.com/nhle/notify/internal/store"
	"github.com/nhle/notify/tests/testutil"
)

func withTx(t *testing.T, s store.Store, fn func(context.Context, store.UnitOfWork) error) error {
	t.Helper()
	ctx := context.Background()
	return s.WithTx(ctx, func(uow store.UnitOfWork) error {
		return fn(ctx, uow)
	})
}

func seeded(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s := testutil.NewTestStore(t)
	_, err := s.Initialize(context.Background(), model.DefaultCategories)
	require.NoError(t, err)
	return s
}

func TestNewSQLiteStore_ReopensFileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notify.db")

	s1, err := store.NewSQLiteStore(path)
	require.NoError(t, err)
	n, err := s1.Initialize(context.Background(), []string{"Work"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NoError(t, s1.Close())

	s2, err := store.NewSQLiteStore(path)
	require.NoError(t, err)
	defer s2.Close()

	n, err = s2.Initialize(context.Background(), []string{"Work"})
	require.NoError(t, err)
	assert.Equal(t, 0, n, "existing categories are kept")
}

func TestInitialize_SeedsDefaultsOnce(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	n, err := s.Initialize(ctx, model.DefaultCategories)
	require.NoError(t, err)
	assert.Equal(t, len(model.DefaultCategories), n)

	n, err = s.Initialize(ctx, model.DefaultCategories)
	require.NoError(t, err)
	assert.Zero(t, n)

	var cats []model.Category
	require.NoError(t, withTx(t, s, func(ctx context.Context, uow store.UnitOfWork) error {
		var err error
		cats, err = uow.ListCategories(ctx)
		return err
	}))
	require.Len(t, cats, len(model.DefaultCategories))
	for i, c := range cats {
		assert.Equal(t, int64(i+1), c.ID)
		assert.Equal(t, model.DefaultCategories[i], c.Name)
	}
}

func TestTeardown_ThenInitialize(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	require.NoError(t, withTx(t, s, func(ctx context.Context, uow store.UnitOfWork) error {
		_, err := uow.InsertUnsorted(ctx, "t", "c")
		return err
	}))

	require.NoError(t, s.Teardown(ctx))

	err := withTx(t, s, func(ctx context.Context, uow store.UnitOfWork) error {
		_, err := uow.Count(ctx, model.TableUnsorted)
		return err
	})
	require.Error(t, err, "tables are gone after teardown")

	n, err := s.Initialize(ctx, model.DefaultCategories)
	require.NoError(t, err)
	assert.Equal(t, len(model.DefaultCategories), n)
	assert.Empty(t, testutil.IDs(t, s, model.TableUnsorted))
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	s := seeded(t)
	boom := errors.New("boom")

	err := withTx(t, s, func(ctx context.Context, uow store.UnitOfWork) error {
		if _, err := uow.InsertUnsorted(ctx, "t", "c"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Empty(t, testutil.IDs(t, s, model.TableUnsorted))
}

func TestWithTx_DanglingCategoryReferenceRollsBack(t *testing.T) {
	s := seeded(t)

	err := withTx(t, s, func(ctx context.Context, uow store.UnitOfWork) error {
		if _, err := uow.InsertSorted(ctx, model.SortedNotification{
			Title: "t", Content: "c", CategoryID: 2, ImportanceLevel: 1,
		}); err != nil {
			return err
		}
		return uow.DeleteRow(ctx, model.TableCategory, 2)
	})
	require.ErrorIs(t, err, store.ErrForeignKey)

	assert.Equal(t, testutil.Dense(len(model.DefaultCategories)), testutil.IDs(t, s, model.TableCategory))
	assert.Empty(t, testutil.IDs(t, s, model.TableSorted))

	// The connection is usable after the rollback.
	require.NoError(t, withTx(t, s, func(ctx context.Context, uow store.UnitOfWork) error {
		_, err := uow.InsertUnsorted(ctx, "t", "c")
		return err
	}))
}

func TestDeleteRow_NotFound(t *testing.T) {
	s := seeded(t)

	err := withTx(t, s, func(ctx context.Context, uow store.UnitOfWork) error {
		return uow.DeleteRow(ctx, model.TableUnsorted, 9999)
	})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCount_RejectsUnknownTable(t *testing.T) {
	s := seeded(t)

	err := withTx(t, s, func(ctx context.Context, uow store.UnitOfWork) error {
		_, err := uow.Count(ctx, model.Table("users; DROP TABLE category"))
		return err
	})
	require.Error(t, err)
	assert.Len(t, testutil.IDs(t, s, model.TableCategory), len(model.DefaultCategories))
}

func TestResequence(t *testing.T) {
	s := seeded(t)

	require.NoError(t, withTx(t, s, func(ctx context.Context, uow store.UnitOfWork) error {
		for _, title := range []string{"a", "b", "c", "d", "e"} {
			if _, err := uow.InsertUnsorted(ctx, title, title); err != nil {
				return err
			}
		}
		if err := uow.DeleteRow(ctx, model.TableUnsorted, 2); err != nil {
			return err
		}
		if err := uow.DeleteRow(ctx, model.TableUnsorted, 4); err != nil {
			return err
		}
		return uow.Resequence(ctx, model.TableUnsorted)
	}))

	var rows []model.UnsortedNotification
	require.NoError(t, withTx(t, s, func(ctx context.Context, uow store.UnitOfWork) error {
		var err error
		rows, err = uow.ListUnsorted(ctx, 0, 0)
		return err
	}))
	require.Len(t, rows, 3)
	for i, want := range []string{"a", "c", "e"} {
		assert.Equal(t, int64(i+1), rows[i].ID)
		assert.Equal(t, want, rows[i].Title)
	}

	t.Run("idempotent", func(t *testing.T) {
		require.NoError(t, withTx(t, s, func(ctx context.Context, uow store.UnitOfWork) error {
			return uow.Resequence(ctx, model.TableUnsorted)
		}))
		assert.Equal(t, testutil.Dense(3), testutil.IDs(t, s, model.TableUnsorted))
	})

	t.Run("empty table", func(t *testing.T) {
		require.NoError(t, withTx(t, s, func(ctx context.Context, uow store.UnitOfWork) error {
			return uow.Resequence(ctx, model.TableSorted)
		}))
		assert.Empty(t, testutil.IDs(t, s, model.TableSorted))
	})
}

func TestResequence_LeavesCategoryRefsAlone(t *testing.T) {
	s := seeded(t)

	require.NoError(t, withTx(t, s, func(ctx context.Context, uow store.UnitOfWork) error {
		_, err := uow.InsertSorted(ctx, model.SortedNotification{
			Title: "t", Content: "c", CategoryID: 5, ImportanceLevel: 2,
		})
		return err
	}))

	require.NoError(t, withTx(t, s, func(ctx context.Context, uow store.UnitOfWork) error {
		return uow.Resequence(ctx, model.TableSorted)
	}))

	require.NoError(t, withTx(t, s, func(ctx context.Context, uow store.UnitOfWork) error {
		got, err := uow.GetSorted(ctx, 1)
		if err != nil {
			return err
		}
		assert.Equal(t, int64(5), got.CategoryID)
		assert.Equal(t, "Promotions", got.CategoryName)
		return nil
	}))
}

func TestShiftCategoryRefs(t *testing.T) {
	s := seeded(t)

	require.NoError(t, withTx(t, s, func(ctx context.Context, uow store.UnitOfWork) error {
		for _, cat := range []int64{2, 5, 6} {
			if _, err := uow.InsertSorted(ctx, model.SortedNotification{
				Title: "t", Content: "c", CategoryID: cat, ImportanceLevel: 1,
			}); err != nil {
				return err
			}
		}
		return nil
	}))

	var shifted int64
	require.NoError(t, withTx(t, s, func(ctx context.Context, uow store.UnitOfWork) error {
		if err := uow.DeleteRow(ctx, model.TableCategory, 3); err != nil {
			return err
		}
		if err := uow.Resequence(ctx, model.TableCategory); err != nil {
			return err
		}
		var err error
		shifted, err = uow.ShiftCategoryRefs(ctx, 3)
		return err
	}))
	assert.Equal(t, int64(2), shifted)

	var rows []model.SortedView
	require.NoError(t, withTx(t, s, func(ctx context.Context, uow store.UnitOfWork) error {
		var err error
		rows, err = uow.ListSorted(ctx, 0, 0)
		return err
	}))
	require.Len(t, rows, 3)
	assert.Equal(t, int64(2), rows[0].CategoryID)
	assert.Equal(t, "Work", rows[0].CategoryName)
	assert.Equal(t, int64(4), rows[1].CategoryID)
	assert.Equal(t, "Promotions", rows[1].CategoryName)
	assert.Equal(t, int64(5), rows[2].CategoryID)
	assert.Equal(t, "Miscellaneous", rows[2].CategoryName)
}

func TestUpdateSortedNote(t *testing.T) {
	s := seeded(t)
	note := "first"

	require.NoError(t, withTx(t, s, func(ctx context.Context, uow store.UnitOfWork) error {
		_, err := uow.InsertSorted(ctx, model.SortedNotification{
			Title: "t", Content: "c", CategoryID: 1, ImportanceLevel: 3, Note: &note,
		})
		return err
	}))

	require.NoError(t, withTx(t, s, func(ctx context.Context, uow store.UnitOfWork) error {
		return uow.UpdateSortedNote(ctx, 1, nil)
	}))

	require.NoError(t, withTx(t, s, func(ctx context.Context, uow store.UnitOfWork) error {
		got, err := uow.GetSorted(ctx, 1)
		if err != nil {
			return err
		}
		assert.Nil(t, got.Note)
		assert.Equal(t, "", got.NoteText())
		return nil
	}))

	err := withTx(t, s, func(ctx context.Context, uow store.UnitOfWork) error {
		return uow.UpdateSortedNote(ctx, 42, &note)
	})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestListCategoryCounts(t *testing.T) {
	s := seeded(t)

	require.NoError(t, withTx(t, s, func(ctx context.Context, uow store.UnitOfWork) error {
		for _, cat := range []int64{1, 1, 3} {
			if _, err := uow.InsertSorted(ctx, model.SortedNotification{
				Title: "t", Content: "c", CategoryID: cat, ImportanceLevel: 1,
			}); err != nil {
				return err
			}
		}
		return nil
	}))

	require.NoError(t, withTx(t, s, func(ctx context.Context, uow store.UnitOfWork) error {
		counts, err := uow.ListCategoryCounts(ctx)
		if err != nil {
			return err
		}
		require.Len(t, counts, len(model.DefaultCategories))
		assert.Equal(t, 2, counts[0].Notifications)
		assert.Equal(t, 0, counts[1].Notifications)
		assert.Equal(t, 1, counts[2].Notifications)

		n, err := uow.CountSortedByCategory(ctx, 1)
		assert.Equal(t, 2, n)
		return err
	}))
}

func TestListUnsorted_Paging(t *testing.T) {
	s := seeded(t)

	require.NoError(t, withTx(t, s, func(ctx context.Context, uow store.UnitOfWork) error {
		for i := 0; i < 7; i++ {
			if _, err := uow.InsertUnsorted(ctx, "t", "c"); err != nil {
				return err
			}
		}
		return nil
	}))

	require.NoError(t, withTx(t, s, func(ctx context.Context, uow store.UnitOfWork) error {
		rows, err := uow.ListUnsorted(ctx, 3, 5)
		if err != nil {
			return err
		}
		require.Len(t, rows, 2)
		assert.Equal(t, int64(6), rows[0].ID)
		assert.Equal(t, int64(7), rows[1].ID)
		return nil
	}))
}
