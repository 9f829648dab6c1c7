package notificationlist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/notify/internal/model"
	"github.com/nhle/notify/internal/render"
	"github.com/nhle/notify/internal/theme"
)

// Item wraps a model.ListItem so it can be used in a bubbles/list.
type Item struct {
	model.ListItem
}

// FilterValue returns the string used for fuzzy filtering.
func (i Item) FilterValue() string {
	return i.GetTitle() + " " + i.GetContent()
}

// ItemDelegate implements list.ItemDelegate for rendering notifications.
type ItemDelegate struct {
	levels     model.ImportanceLevels
	truncateAt int
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a notification as a title line and a summary line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(Item)
	if !ok {
		return
	}

	idStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	title := fmt.Sprintf("%s %s", idStyle.Render(fmt.Sprintf("#%d", it.GetID())), it.GetTitle())

	var summary string
	if it.GetTable() == model.TableSorted {
		level := it.GetImportance()
		note := it.GetNote()
		if note == "" {
			note = "N/A"
		}
		summary = strings.Join([]string{
			render.Category(it.GetCategory()),
			theme.ImportanceStyle(level).Render(render.Importance(d.levels, level)),
			render.Truncate(note, d.truncateAt),
		}, " | ")
	} else {
		summary = render.Truncate(oneLine(it.GetContent()), d.truncateAt)
	}
	summary = theme.MutedStyle.Render(summary)

	line := title + "\n  " + summary
	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
