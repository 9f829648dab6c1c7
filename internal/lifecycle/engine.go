// Package lifecycle moves notifications through their states: fetched
// into unsorted, categorized into sorted, edited, deleted, and reverted
// when their category is removed. Every operation runs in one unit of
// work and leaves each table densely numbered.
package lifecycle

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nhle/notify/internal/model"
	"github.com/nhle/notify/internal/store"
)

// Config carries the configuration the engine consumes.
type Config struct {
	ImportanceLevels  model.ImportanceLevels
	DefaultCategories []string
}

// Engine implements the notification lifecycle on top of a Store.
type Engine struct {
	store    store.Store
	levels   model.ImportanceLevels
	defaults []string
	validate *inputValidator
	log      *slog.Logger
}

// New creates an engine. Empty configuration values fall back to the
// built-in importance scale and default categories.
func New(s store.Store, cfg Config, logger *slog.Logger) *Engine {
	levels := cfg.ImportanceLevels
	if len(levels) == 0 {
		levels = model.DefaultImportanceLevels()
	}
	defaults := cfg.DefaultCategories
	if defaults == nil {
		defaults = model.DefaultCategories
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		store:    s,
		levels:   levels,
		defaults: defaults,
		validate: newInputValidator(levels),
		log:      logger.With("component", "lifecycle"),
	}
}

// ImportanceLevels returns the configured importance scale.
func (e *Engine) ImportanceLevels() model.ImportanceLevels {
	return e.levels
}

// CategorizeRequest moves one unsorted notification into a category.
type CategorizeRequest struct {
	UnsortedID int64
	CategoryID int64
	Importance int
	Note       string
}

// RemovalPreview describes what RemoveCategory would do.
type RemovalPreview struct {
	Category model.Category `json:"category" yaml:"category"`
	Affected int            `json:"affected" yaml:"affected"`
}

// RemovalResult describes what RemoveCategory did.
type RemovalResult struct {
	Category model.Category `json:"category" yaml:"category"`
	Reverted int            `json:"reverted" yaml:"reverted"`
	Shifted  int64          `json:"shifted" yaml:"shifted"`
}

// Counts holds the row count of each table.
type Counts struct {
	Categories int `json:"categories" yaml:"categories"`
	Unsorted   int `json:"unsorted" yaml:"unsorted"`
	Sorted     int `json:"sorted" yaml:"sorted"`
}

// Snapshot is the full contents of the database.
type Snapshot struct {
	Categories []model.CategoryCount        `json:"categories" yaml:"categories"`
	Unsorted   []model.UnsortedNotification `json:"unsorted" yaml:"unsorted"`
	Sorted     []model.SortedView           `json:"sorted" yaml:"sorted"`
}

// run executes fn in one unit of work and maps any failure onto the
// error taxonomy.
func (e *Engine) run(ctx context.Context, op string, fn func(store.UnitOfWork) error) error {
	err := classify(op, e.store.WithTx(ctx, fn))
	if IsStorage(err) {
		e.log.Error("operation failed", "op", op, "error", err)
	}
	return err
}

// Initialize creates the schema and seeds the default categories.
func (e *Engine) Initialize(ctx context.Context) (int, error) {
	n, err := e.store.Initialize(ctx, e.defaults)
	if err != nil {
		return 0, classify("initialize", err)
	}
	e.log.Info("database initialized", "seeded_categories", n)
	return n, nil
}

// Teardown drops every table.
func (e *Engine) Teardown(ctx context.Context) error {
	if err := e.store.Teardown(ctx); err != nil {
		return classify("teardown", err)
	}
	e.log.Info("database torn down")
	return nil
}

// Categorize copies an unsorted notification into the sorted table under
// the given category and removes the unsorted row.
func (e *Engine) Categorize(ctx context.Context, req CategorizeRequest) (model.SortedView, error) {
	var out model.SortedView

	err := e.validate.check(categorizeInput{
		UnsortedID: req.UnsortedID,
		CategoryID: req.CategoryID,
		Importance: req.Importance,
	})
	if err != nil {
		return out, err
	}
	if err := e.validate.check(noteInput{Note: req.Note}); err != nil {
		return out, err
	}

	err = e.run(ctx, "categorize", func(uow store.UnitOfWork) error {
		n, err := uow.Count(ctx, model.TableCategory)
		if err != nil {
			return err
		}
		if n == 0 {
			return &ValidationError{Field: "category_id", Message: "no categories exist, add one first"}
		}

		src, err := uow.GetUnsorted(ctx, req.UnsortedID)
		if err != nil {
			return notFound(err, "unsorted notification", req.UnsortedID)
		}
		cat, err := uow.GetCategory(ctx, req.CategoryID)
		if err != nil {
			return notFound(err, "category", req.CategoryID)
		}

		origin := src.ID
		if _, err := uow.InsertSorted(ctx, model.SortedNotification{
			Title:           src.Title,
			Content:         src.Content,
			CategoryID:      cat.ID,
			ImportanceLevel: req.Importance,
			Note:            model.NotePtr(req.Note),
			NotificationID:  &origin,
		}); err != nil {
			return err
		}
		if err := uow.DeleteRow(ctx, model.TableUnsorted, src.ID); err != nil {
			return err
		}
		if err := resequence(ctx, uow, model.TableUnsorted, model.TableSorted); err != nil {
			return err
		}

		// The new row had the highest id, so it is now the last one.
		total, err := uow.Count(ctx, model.TableSorted)
		if err != nil {
			return err
		}
		out, err = uow.GetSorted(ctx, int64(total))
		return err
	})
	if err != nil {
		return model.SortedView{}, err
	}

	e.log.Info("notification categorized",
		"unsorted_id", req.UnsortedID,
		"sorted_id", out.ID,
		"category", out.CategoryName,
		"importance", out.ImportanceLevel)
	return out, nil
}

// UpdateNote replaces the note on a sorted notification. An empty note
// clears it.
func (e *Engine) UpdateNote(ctx context.Context, sortedID int64, note string) error {
	if err := e.validate.check(noteInput{Note: note}); err != nil {
		return err
	}

	err := e.run(ctx, "update note", func(uow store.UnitOfWork) error {
		err := uow.UpdateSortedNote(ctx, sortedID, model.NotePtr(note))
		return notFound(err, "sorted notification", sortedID)
	})
	if err != nil {
		return err
	}

	e.log.Info("note updated", "sorted_id", sortedID, "cleared", note == "")
	return nil
}

// Delete removes one notification and closes the gap it left.
func (e *Engine) Delete(ctx context.Context, table model.Table, id int64) error {
	if err := notificationTable(table); err != nil {
		return err
	}

	err := e.run(ctx, "delete", func(uow store.UnitOfWork) error {
		if err := uow.DeleteRow(ctx, table, id); err != nil {
			return notFound(err, entityName(table), id)
		}
		return uow.Resequence(ctx, table)
	})
	if err != nil {
		return err
	}

	e.log.Info("notification deleted", "table", table, "id", id)
	return nil
}

// DeleteAll empties a notification table and returns how many rows went.
func (e *Engine) DeleteAll(ctx context.Context, table model.Table) (int64, error) {
	if err := notificationTable(table); err != nil {
		return 0, err
	}

	var removed int64
	err := e.run(ctx, "delete all", func(uow store.UnitOfWork) error {
		var err error
		removed, err = uow.DeleteAll(ctx, table)
		if err != nil {
			return err
		}
		return uow.Resequence(ctx, table)
	})
	if err != nil {
		return 0, err
	}

	e.log.Info("notifications deleted", "table", table, "count", removed)
	return removed, nil
}

// AddCategory appends a category.
func (e *Engine) AddCategory(ctx context.Context, name string) (model.Category, error) {
	name = strings.TrimSpace(name)
	if err := e.validate.check(categoryInput{Name: name}); err != nil {
		return model.Category{}, err
	}

	var cat model.Category
	err := e.run(ctx, "add category", func(uow store.UnitOfWork) error {
		id, err := uow.InsertCategory(ctx, name)
		if err != nil {
			return err
		}
		cat, err = uow.GetCategory(ctx, id)
		return err
	})
	if err != nil {
		return model.Category{}, err
	}

	e.log.Info("category added", "id", cat.ID, "name", cat.Name)
	return cat, nil
}

// RemoveCategoryPreview reports the category and how many sorted
// notifications would move back to unsorted if it were removed.
func (e *Engine) RemoveCategoryPreview(ctx context.Context, categoryID int64) (RemovalPreview, error) {
	var p RemovalPreview
	err := e.run(ctx, "preview category removal", func(uow store.UnitOfWork) error {
		cat, err := uow.GetCategory(ctx, categoryID)
		if err != nil {
			return notFound(err, "category", categoryID)
		}
		n, err := uow.CountSortedByCategory(ctx, categoryID)
		if err != nil {
			return err
		}
		p = RemovalPreview{Category: cat, Affected: n}
		return nil
	})
	return p, err
}

// RemoveCategory deletes a category. Notifications filed under it are
// turned back into unsorted notifications first; afterwards every table
// is resequenced and references to later categories move down by one.
func (e *Engine) RemoveCategory(ctx context.Context, categoryID int64) (RemovalResult, error) {
	var res RemovalResult
	err := e.run(ctx, "remove category", func(uow store.UnitOfWork) error {
		cat, err := uow.GetCategory(ctx, categoryID)
		if err != nil {
			return notFound(err, "category", categoryID)
		}

		rows, err := uow.ListSortedByCategory(ctx, categoryID)
		if err != nil {
			return err
		}
		for _, r := range rows {
			if _, err := uow.InsertUnsorted(ctx, r.Title, r.Content); err != nil {
				return err
			}
			if err := uow.DeleteRow(ctx, model.TableSorted, r.ID); err != nil {
				return err
			}
		}

		if err := uow.DeleteRow(ctx, model.TableCategory, categoryID); err != nil {
			return err
		}
		if err := resequence(ctx, uow, model.Tables...); err != nil {
			return err
		}

		shifted, err := uow.ShiftCategoryRefs(ctx, categoryID)
		if err != nil {
			return err
		}

		res = RemovalResult{Category: cat, Reverted: len(rows), Shifted: shifted}
		return nil
	})
	if err != nil {
		return RemovalResult{}, err
	}

	e.log.Info("category removed",
		"id", res.Category.ID,
		"name", res.Category.Name,
		"reverted", res.Reverted,
		"shifted", res.Shifted)
	return res, nil
}

// InsertUnsorted appends a batch of fetched notifications in one unit of
// work and returns how many were stored.
func (e *Engine) InsertUnsorted(ctx context.Context, items []model.RawNotification) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	err := e.run(ctx, "insert unsorted", func(uow store.UnitOfWork) error {
		for _, it := range items {
			if _, err := uow.InsertUnsorted(ctx, it.Title, it.Content); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	e.log.Debug("unsorted notifications inserted", "count", len(items))
	return len(items), nil
}

// Resequence renumbers every table.
func (e *Engine) Resequence(ctx context.Context) error {
	return e.run(ctx, "resequence", func(uow store.UnitOfWork) error {
		return resequence(ctx, uow, model.Tables...)
	})
}

func resequence(ctx context.Context, uow store.UnitOfWork, tables ...model.Table) error {
	for _, t := range tables {
		if err := uow.Resequence(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func notificationTable(table model.Table) error {
	if table.IsNotificationTable() {
		return nil
	}
	if table == model.TableCategory {
		return &ValidationError{Field: "table", Message: "categories are removed with RemoveCategory"}
	}
	return &ValidationError{Field: "table", Message: "must be unsorted or sorted, got " + string(table)}
}

func entityName(table model.Table) string {
	switch table {
	case model.TableUnsorted:
		return "unsorted notification"
	case model.TableSorted:
		return "sorted notification"
	default:
		return string(table)
	}
}
