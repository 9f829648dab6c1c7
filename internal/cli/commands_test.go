package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/notify/internal/lifecycle"
	"github.com/nhle/notify/internal/logging"
	"github.com/nhle/notify/internal/model"
	"github.com/nhle/notify/internal/store"
)

// testOpts points every command at a fresh database file and a config
// file that does not exist, so defaults apply.
func testOpts(t *testing.T, format string) *RootOptions {
	t.Helper()
	dir := t.TempDir()
	return &RootOptions{
		ConfigPath: filepath.Join(dir, "config.yaml"),
		DBPath:     filepath.Join(dir, "notify.db"),
		Format:     format,
	}
}

// run executes one command built from opts and returns what it printed.
func run(t *testing.T, opts *RootOptions, build func(*RootOptions) *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := build(opts)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// seed initializes the database behind opts and inserts n unsorted
// notifications titled "title 1".."title n".
func seed(t *testing.T, opts *RootOptions, n int) {
	t.Helper()

	s, err := store.NewSQLiteStore(opts.DBPath)
	require.NoError(t, err)
	defer s.Close()

	e := lifecycle.New(s, lifecycle.Config{
		ImportanceLevels:  model.DefaultImportanceLevels(),
		DefaultCategories: model.DefaultCategories,
	}, logging.Discard())

	ctx := context.Background()
	_, err = e.Initialize(ctx)
	require.NoError(t, err)

	items := make([]model.RawNotification, n)
	for i := range items {
		items[i] = model.RawNotification{
			Title:   "title " + strconv.Itoa(i+1),
			Content: "content " + strconv.Itoa(i+1),
		}
	}
	_, err = e.InsertUnsorted(ctx, items)
	require.NoError(t, err)
}

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestInit_SeedsOnce(t *testing.T) {
	opts := testOpts(t, "json")

	out, err := run(t, opts, NewInitCommand, "")
	require.NoError(t, err)

	var first struct {
		Data InitResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &first))
	assert.Equal(t, opts.DBPath, first.Data.Database)
	assert.Equal(t, len(model.DefaultCategories), first.Data.Seeded)

	out, err = run(t, opts, NewInitCommand, "")
	require.NoError(t, err)
	var second struct {
		Data InitResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &second))
	assert.Zero(t, second.Data.Seeded)
}

func TestCategoryList_Golden(t *testing.T) {
	opts := testOpts(t, "json")
	seed(t, opts, 0)

	out, err := run(t, opts, NewCategoryCommand, "", "list")
	require.NoError(t, err)
	golden(t).Assert(t, "category_list", []byte(out))
}

func TestImportance_Golden(t *testing.T) {
	opts := testOpts(t, "json")

	out, err := run(t, opts, NewImportanceCommand, "")
	require.NoError(t, err)
	golden(t).Assert(t, "importance", []byte(out))
}

func TestCategorize_Golden(t *testing.T) {
	opts := testOpts(t, "json")
	seed(t, opts, 3)

	_, err := run(t, opts, NewCategorizeCommand, "", "2", "-c", "2", "-i", "3", "-n", "follow up")
	require.NoError(t, err)

	out, err := run(t, opts, NewListCommand, "", "sorted")
	require.NoError(t, err)
	golden(t).Assert(t, "list_sorted", []byte(out))

	out, err = run(t, opts, NewListCommand, "", "unsorted")
	require.NoError(t, err)
	golden(t).Assert(t, "list_unsorted_after_categorize", []byte(out))
}

func TestCategorize_StructuredNeedsFlags(t *testing.T) {
	opts := testOpts(t, "json")
	seed(t, opts, 1)

	_, err := run(t, opts, NewCategorizeCommand, "", "1", "-c", "1")
	require.Error(t, err)
	assert.True(t, IsReported(err))
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestCategorize_InvalidImportanceLeavesDataAlone(t *testing.T) {
	opts := testOpts(t, "json")
	seed(t, opts, 2)

	out, err := run(t, opts, NewCategorizeCommand, "", "1", "-c", "1", "-i", "9")
	require.Error(t, err)
	assert.Contains(t, out, ErrCodeValidation)

	out, err = run(t, opts, NewResequenceCommand, "")
	require.NoError(t, err)
	var resp struct {
		Data lifecycle.Counts `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, lifecycle.Counts{Categories: 6, Unsorted: 2, Sorted: 0}, resp.Data)
}

func TestShow_Missing_Golden(t *testing.T) {
	opts := testOpts(t, "json")
	seed(t, opts, 1)

	out, err := run(t, opts, NewShowCommand, "", "unsorted", "9")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	golden(t).Assert(t, "show_missing", []byte(out))
}

func TestShow_ExtractsLinks(t *testing.T) {
	opts := testOpts(t, "json")
	seed(t, opts, 0)

	s, err := store.NewSQLiteStore(opts.DBPath)
	require.NoError(t, err)
	e := lifecycle.New(s, lifecycle.Config{ImportanceLevels: model.DefaultImportanceLevels()}, logging.Discard())
	_, err = e.InsertUnsorted(context.Background(), []model.RawNotification{
		{Title: "Invoice", Content: "Pay at https://example.com/pay today"},
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	out, err := run(t, opts, NewShowCommand, "", "unsorted", "1")
	require.NoError(t, err)

	var resp struct {
		Data ShowResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Data.Unsorted)
	assert.Equal(t, "Invoice", resp.Data.Unsorted.Title)
	assert.Contains(t, resp.Data.Links, "https://example.com/pay")
}

func TestDelete_ClosesGap(t *testing.T) {
	opts := testOpts(t, "json")
	seed(t, opts, 3)

	_, err := run(t, opts, NewDeleteCommand, "", "unsorted", "2")
	require.NoError(t, err)

	out, err := run(t, opts, NewListCommand, "", "unsorted")
	require.NoError(t, err)
	var resp struct {
		Data []model.UnsortedNotification `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, int64(1), resp.Data[0].ID)
	assert.Equal(t, "title 1", resp.Data[0].Title)
	assert.Equal(t, int64(2), resp.Data[1].ID)
	assert.Equal(t, "title 3", resp.Data[1].Title)
}

func TestDelete_RejectsCategoryTable(t *testing.T) {
	opts := testOpts(t, "json")
	seed(t, opts, 0)

	_, err := run(t, opts, NewDeleteCommand, "", "category", "1")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestDeleteAll(t *testing.T) {
	opts := testOpts(t, "json")
	seed(t, opts, 4)

	out, err := run(t, opts, NewDeleteAllCommand, "", "unsorted", "--yes")
	require.NoError(t, err)
	var resp struct {
		Data DeleteResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, DeleteResult{Table: "unsorted", Removed: 4}, resp.Data)
}

func TestNote_SetAndClear(t *testing.T) {
	opts := testOpts(t, "json")
	seed(t, opts, 1)

	_, err := run(t, opts, NewCategorizeCommand, "", "1", "-c", "1", "-i", "1")
	require.NoError(t, err)

	out, err := run(t, opts, NewNoteCommand, "", "1", "  call back  ")
	require.NoError(t, err)
	var set struct {
		Data NoteResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &set))
	require.NotNil(t, set.Data.Note)
	assert.Equal(t, "call back", *set.Data.Note)

	out, err = run(t, opts, NewNoteCommand, "", "1", "--clear")
	require.NoError(t, err)
	var cleared struct {
		Data NoteResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &cleared))
	assert.Nil(t, cleared.Data.Note)

	_, err = run(t, opts, NewNoteCommand, "", "7", "x")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestCategoryRemove_RevertsAndShifts(t *testing.T) {
	opts := testOpts(t, "json")
	seed(t, opts, 3)

	// title 1 under Personal (3), then title 2 under Work (2).
	_, err := run(t, opts, NewCategorizeCommand, "", "1", "-c", "3", "-i", "2")
	require.NoError(t, err)
	_, err = run(t, opts, NewCategorizeCommand, "", "1", "-c", "2", "-i", "4")
	require.NoError(t, err)

	out, err := run(t, opts, NewCategoryCommand, "", "preview", "2")
	require.NoError(t, err)
	var preview struct {
		Data lifecycle.RemovalPreview `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &preview))
	assert.Equal(t, "Work", preview.Data.Category.Name)
	assert.Equal(t, 1, preview.Data.Affected)

	out, err = run(t, opts, NewCategoryCommand, "", "remove", "2", "--yes")
	require.NoError(t, err)
	golden(t).Assert(t, "category_remove", []byte(out))

	out, err = run(t, opts, NewListCommand, "", "sorted")
	require.NoError(t, err)
	var sorted struct {
		Data []model.SortedView `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &sorted))
	require.Len(t, sorted.Data, 1)
	assert.Equal(t, int64(2), sorted.Data[0].CategoryID)
	assert.Equal(t, "Personal", sorted.Data[0].CategoryName)

	out, err = run(t, opts, NewListCommand, "", "unsorted")
	require.NoError(t, err)
	var unsorted struct {
		Data []model.UnsortedNotification `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &unsorted))
	require.Len(t, unsorted.Data, 2)
	assert.Equal(t, "title 3", unsorted.Data[0].Title)
	assert.Equal(t, "title 2", unsorted.Data[1].Title)
	assert.Equal(t, int64(2), unsorted.Data[1].ID)
}

func TestCategoryAdd(t *testing.T) {
	opts := testOpts(t, "json")
	seed(t, opts, 0)

	out, err := run(t, opts, NewCategoryCommand, "", "add", "Bills")
	require.NoError(t, err)
	var added struct {
		Data model.Category `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &added))
	assert.Equal(t, model.Category{ID: 7, Name: "Bills"}, added.Data)

	out, err = run(t, opts, NewCategoryCommand, "", "add", "   ")
	require.Error(t, err)
	assert.Contains(t, out, ErrCodeValidation)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestList_TextPaging(t *testing.T) {
	opts := testOpts(t, "text")
	seed(t, opts, 12)

	out, err := run(t, opts, NewListCommand, "n\n", "unsorted")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, pagePrompt))
	assert.Contains(t, out, "title 10")
	assert.Contains(t, out, "title 12")

	out, err = run(t, opts, NewListCommand, "\n", "unsorted")
	require.NoError(t, err)
	assert.Contains(t, out, "title 10")
	assert.NotContains(t, out, "title 11")
}

func TestList_TextShowAll(t *testing.T) {
	opts := testOpts(t, "text")
	seed(t, opts, 12)

	out, err := run(t, opts, NewListCommand, "x\n", "unsorted")
	require.NoError(t, err)
	assert.Contains(t, out, "title 12")
	// The first page, then everything from the start.
	assert.Equal(t, 2, strings.Count(out, "title 10"))
}

func TestList_Empty(t *testing.T) {
	opts := testOpts(t, "text")
	seed(t, opts, 0)

	out, err := run(t, opts, NewListCommand, "", "sorted")
	require.NoError(t, err)
	assert.Contains(t, out, "No notifications.")
}

func TestList_UnknownTable(t *testing.T) {
	opts := testOpts(t, "json")

	_, err := run(t, opts, NewListCommand, "", "archive")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestExport_YAMLFile(t *testing.T) {
	opts := testOpts(t, "text")
	seed(t, opts, 2)
	path := filepath.Join(t.TempDir(), "snapshot.yaml")

	_, err := run(t, opts, NewExportCommand, "", "--out", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: General")
	assert.Contains(t, string(data), "title: title 2")
	assert.Contains(t, string(data), "sorted: []")
}

func TestTeardown(t *testing.T) {
	opts := testOpts(t, "json")
	seed(t, opts, 2)

	out, err := run(t, opts, NewTeardownCommand, "", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, `"dropped": true`)

	out, err = run(t, opts, NewInitCommand, "")
	require.NoError(t, err)
	var res struct {
		Data InitResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, len(model.DefaultCategories), res.Data.Seeded)
}

func TestFetch_NoSources(t *testing.T) {
	opts := testOpts(t, "json")
	seed(t, opts, 0)

	_, err := run(t, opts, NewFetchCommand, "")
	require.Error(t, err)
	assert.True(t, IsReported(err))
}

func TestCredentialSet_EmptyStdin(t *testing.T) {
	opts := testOpts(t, "json")

	out, err := run(t, opts, NewCredentialCommand, "\n", "set", "inbox", "--stdin")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "password must not be empty")
}
