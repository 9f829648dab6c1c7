// Package render formats notifications and categories as terminal tables.
package render

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nhle/notify/internal/model"
	"github.com/nhle/notify/internal/theme"
)

// DefaultTruncateAt is the longest cell rendered in full.
const DefaultTruncateAt = 90

const (
	ellipsis   = "..."
	noNote     = "N/A"
	noCategory = "No category"
)

// Truncate shortens s to at most max runes, ending in "..." when cut.
// A non-positive max disables truncation.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= len(ellipsis) {
		return string(r[:max])
	}
	return string(r[:max-len(ellipsis)]) + ellipsis
}

// Note renders an optional note.
func Note(n *string) string {
	if n == nil || *n == "" {
		return noNote
	}
	return *n
}

// Category renders a category name.
func Category(name string) string {
	if name == "" {
		return noCategory
	}
	return name
}

// Importance renders a level with its label, e.g. "3 Check it out".
func Importance(levels model.ImportanceLevels, level int) string {
	label := levels.Label(level)
	if label == strconv.Itoa(level) {
		return label
	}
	return fmt.Sprintf("%d %s", level, label)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.ColorBorder)).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return theme.TableHeaderStyle
			}
			return theme.TableCellStyle
		})
}

// UnsortedTable renders unsorted notifications as ID, Title, Content.
func UnsortedTable(rows []model.UnsortedNotification, truncateAt int) string {
	t := newTable("ID", "Title", "Content")
	for _, n := range rows {
		t.Row(
			strconv.FormatInt(n.ID, 10),
			n.Title,
			Truncate(n.Content, truncateAt),
		)
	}
	return t.Render()
}

// SortedTable renders sorted notifications as ID, Title, Category,
// Importance Level, Note.
func SortedTable(rows []model.SortedView, levels model.ImportanceLevels, truncateAt int) string {
	t := newTable("ID", "Title", "Category", "Importance Level", "Note")
	for _, n := range rows {
		t.Row(
			strconv.FormatInt(n.ID, 10),
			n.Title,
			Category(n.CategoryName),
			Importance(levels, n.ImportanceLevel),
			Truncate(Note(n.Note), truncateAt),
		)
	}
	return t.Render()
}

// CategoryTable renders categories with their sorted notification counts.
func CategoryTable(rows []model.CategoryCount) string {
	t := newTable("ID", "Category", "Notifications")
	for _, c := range rows {
		t.Row(strconv.FormatInt(c.ID, 10), c.Name, strconv.Itoa(c.Notifications))
	}
	return t.Render()
}

// ImportanceTable renders the importance scale in ascending order.
func ImportanceTable(levels model.ImportanceLevels) string {
	t := newTable("Level", "Meaning")
	for _, l := range levels.Levels() {
		t.Row(strconv.Itoa(l), levels.Label(l))
	}
	return t.Render()
}
