package model

// ListItem is the common interface for rows shown in the notification
// list view. Both UnsortedNotification and SortedView implement it.
type ListItem interface {
	GetID() int64
	GetTitle() string
	GetContent() string
	GetTable() Table
	GetCategory() string
	GetImportance() int
	GetNote() string
}

// UnsortedNotification implements ListItem.

func (u UnsortedNotification) GetID() int64        { return u.ID }
func (u UnsortedNotification) GetTitle() string    { return u.Title }
func (u UnsortedNotification) GetContent() string  { return u.Content }
func (u UnsortedNotification) GetTable() Table     { return TableUnsorted }
func (u UnsortedNotification) GetCategory() string { return "" }
func (u UnsortedNotification) GetImportance() int  { return 0 }
func (u UnsortedNotification) GetNote() string     { return "" }

// SortedView implements ListItem.

func (s SortedView) GetID() int64        { return s.ID }
func (s SortedView) GetTitle() string    { return s.Title }
func (s SortedView) GetContent() string  { return s.Content }
func (s SortedView) GetTable() Table     { return TableSorted }
func (s SortedView) GetCategory() string { return s.CategoryName }
func (s SortedView) GetImportance() int  { return s.ImportanceLevel }
func (s SortedView) GetNote() string     { return s.NoteText() }
