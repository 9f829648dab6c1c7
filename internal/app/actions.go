package app

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/notify/internal/lifecycle"
	"github.com/nhle/notify/internal/model"
	"github.com/nhle/notify/internal/ui/detail"
)

// countsLoadedMsg carries the row count of every table.
type countsLoadedMsg struct {
	counts lifecycle.Counts
	err    error
}

// actionResultMsg is sent after a write through the engine.
type actionResultMsg struct {
	message    string
	err        error
	backToList bool
}

// categoriesForFormMsg carries the categories the categorize form offers.
type categoriesForFormMsg struct {
	id         int64
	title      string
	categories []model.CategoryCount
	err        error
}

func (m Model) loadCounts() tea.Cmd {
	e := m.engine
	return func() tea.Msg {
		c, err := e.Counts(context.Background())
		return countsLoadedMsg{counts: c, err: err}
	}
}

// reload refreshes the visible list and the header counts.
func (m Model) reload() tea.Cmd {
	return tea.Batch(m.list.LoadItems(), m.loadCounts())
}

func (m Model) loadDetail(table model.Table, id int64) tea.Cmd {
	e := m.engine
	return func() tea.Msg {
		ctx := context.Background()
		if table == model.TableSorted {
			n, err := e.GetSorted(ctx, id)
			if err != nil {
				return detail.DetailLoadedMsg{Err: err}
			}
			return detail.DetailLoadedMsg{Item: n}
		}
		n, err := e.GetUnsorted(ctx, id)
		if err != nil {
			return detail.DetailLoadedMsg{Err: err}
		}
		return detail.DetailLoadedMsg{Item: n}
	}
}

// startCategorize loads the categories and then opens the form.
func (m Model) startCategorize(id int64, title string) tea.Cmd {
	e := m.engine
	return func() tea.Msg {
		cats, err := e.Categories(context.Background())
		return categoriesForFormMsg{id: id, title: title, categories: cats, err: err}
	}
}

func (m Model) categorize(req lifecycle.CategorizeRequest) tea.Cmd {
	e := m.engine
	return func() tea.Msg {
		v, err := e.Categorize(context.Background(), req)
		if err != nil {
			return actionResultMsg{err: err}
		}
		return actionResultMsg{
			message:    fmt.Sprintf("Filed %q under %s as sorted #%d", v.Title, v.CategoryName, v.ID),
			backToList: true,
		}
	}
}

func (m Model) updateNote(id int64, note string) tea.Cmd {
	e := m.engine
	inDetail := m.previousView == ViewDetail
	return tea.Sequence(
		func() tea.Msg {
			if err := e.UpdateNote(context.Background(), id, note); err != nil {
				return actionResultMsg{err: err}
			}
			if note == "" {
				return actionResultMsg{message: fmt.Sprintf("Cleared the note on sorted #%d", id)}
			}
			return actionResultMsg{message: fmt.Sprintf("Updated the note on sorted #%d", id)}
		},
		func() tea.Msg {
			if !inDetail {
				return nil
			}
			return m.loadDetail(model.TableSorted, id)()
		},
	)
}

func (m *Model) askDelete(table model.Table, id int64, title string) tea.Cmd {
	e := m.engine
	run := func() tea.Msg {
		if err := e.Delete(context.Background(), table, id); err != nil {
			return actionResultMsg{err: err}
		}
		return actionResultMsg{
			message:    fmt.Sprintf("Deleted %s #%d", table, id),
			backToList: true,
		}
	}
	return m.openConfirm(
		fmt.Sprintf("Delete %s #%d?", table, id),
		title,
		run,
	)
}

func (m *Model) askDeleteAll(table model.Table) tea.Cmd {
	n := m.counts.Unsorted
	if table == model.TableSorted {
		n = m.counts.Sorted
	}
	e := m.engine
	run := func() tea.Msg {
		removed, err := e.DeleteAll(context.Background(), table)
		if err != nil {
			return actionResultMsg{err: err}
		}
		return actionResultMsg{
			message:    fmt.Sprintf("Deleted %d %s notifications", removed, table),
			backToList: true,
		}
	}
	return m.openConfirm(
		fmt.Sprintf("Delete all %s notifications?", table),
		fmt.Sprintf("%d notifications will be removed.", n),
		run,
	)
}

func (m Model) resequence() tea.Cmd {
	e := m.engine
	return func() tea.Msg {
		if err := e.Resequence(context.Background()); err != nil {
			return actionResultMsg{err: err}
		}
		return actionResultMsg{message: "Resequenced every table"}
	}
}
