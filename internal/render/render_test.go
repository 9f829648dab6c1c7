package render

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/notify/internal/model"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short", "hello", 90, "hello"},
		{"exact", strings.Repeat("a", 90), 90, strings.Repeat("a", 90)},
		{"one over", strings.Repeat("a", 91), 90, strings.Repeat("a", 87) + "..."},
		{"disabled", "hello", 0, "hello"},
		{"tiny max", "hello", 2, "he"},
		{"multibyte", strings.Repeat("é", 10), 5, "éé..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.in, tt.max)
			assert.Equal(t, tt.want, got)
			if tt.max > 0 {
				assert.LessOrEqual(t, utf8.RuneCountInString(got), tt.max)
			}
		})
	}
}

func TestPlaceholders(t *testing.T) {
	note := "ping Ana"
	empty := ""

	assert.Equal(t, "N/A", Note(nil))
	assert.Equal(t, "N/A", Note(&empty))
	assert.Equal(t, "ping Ana", Note(&note))
	assert.Equal(t, "No category", Category(""))
	assert.Equal(t, "Work", Category("Work"))
}

func TestImportance(t *testing.T) {
	levels := model.DefaultImportanceLevels()
	assert.Equal(t, "3 Check it out", Importance(levels, 3))
	assert.Equal(t, "9", Importance(levels, 9))
}

func TestSortedTable(t *testing.T) {
	long := strings.Repeat("x", 120)
	rows := []model.SortedView{
		{SortedNotification: model.SortedNotification{ID: 1, Title: "Build failed", ImportanceLevel: 5, Note: &long}, CategoryName: "Work"},
		{SortedNotification: model.SortedNotification{ID: 2, Title: "Digest", ImportanceLevel: 1}},
	}

	out := SortedTable(rows, model.DefaultImportanceLevels(), DefaultTruncateAt)
	assert.Contains(t, out, "Importance Level")
	assert.Contains(t, out, "Build failed")
	assert.Contains(t, out, "5 Of immediate concern")
	assert.Contains(t, out, strings.Repeat("x", 87)+"...")
	assert.NotContains(t, out, strings.Repeat("x", 88))
	assert.Contains(t, out, "No category")
	assert.Contains(t, out, "N/A")
}

func TestUnsortedAndCategoryTables(t *testing.T) {
	out := UnsortedTable([]model.UnsortedNotification{{ID: 1, Title: "Hi", Content: "there"}}, DefaultTruncateAt)
	assert.Contains(t, out, "Content")
	assert.Contains(t, out, "there")

	out = CategoryTable([]model.CategoryCount{{Category: model.Category{ID: 1, Name: "General"}, Notifications: 4}})
	assert.Contains(t, out, "General")
	assert.Contains(t, out, "4")

	out = ImportanceTable(model.DefaultImportanceLevels())
	assert.Less(t, strings.Index(out, "Not important"), strings.Index(out, "Of immediate concern"))
}
