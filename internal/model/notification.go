package model

// DefaultTitle is used when a producer finds no title for an item.
const DefaultTitle = "General Notification"

// RawNotification is a single (title, content) pair yielded by a producer.
type RawNotification struct {
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
}

// UnsortedNotification is a fetched notification that has not been
// assigned a category yet.
type UnsortedNotification struct {
	ID      int64  `json:"id" db:"id" yaml:"id"`
	Title   string `json:"title" db:"title" yaml:"title"`
	Content string `json:"content" db:"content" yaml:"content"`
}

// SortedNotification is a notification that has been triaged into a
// category with an importance level and an optional note.
type SortedNotification struct {
	// ID is the dense row id within the sorted table.
	ID int64 `json:"id" db:"id" yaml:"id"`

	Title   string `json:"title" db:"title" yaml:"title"`
	Content string `json:"content" db:"content" yaml:"content"`

	// CategoryID references Category.ID.
	CategoryID int64 `json:"category_id" db:"category_id" yaml:"category_id"`

	// ImportanceLevel is a key of the configured ImportanceLevels.
	ImportanceLevel int `json:"importance_level" db:"importance_level" yaml:"importance_level"`

	// Note is nil when the user left it empty.
	Note *string `json:"note,omitempty" db:"note" yaml:"note,omitempty"`

	// NotificationID is the unsorted id the row was categorized from.
	// It is a breadcrumb only and goes stale after resequencing.
	NotificationID *int64 `json:"notification_id,omitempty" db:"notification_id" yaml:"notification_id,omitempty"`
}

// SortedView is a sorted notification joined with its category name.
type SortedView struct {
	SortedNotification `yaml:",inline"`
	CategoryName string `json:"category_name" db:"category_name" yaml:"category_name"`
}

// NoteText returns the note or an empty string.
func (s SortedNotification) NoteText() string {
	if s.Note == nil {
		return ""
	}
	return *s.Note
}

// NotePtr converts user input into the nullable note column value.
// Empty input clears the note.
func NotePtr(note string) *string {
	if note == "" {
		return nil
	}
	return &note
}
