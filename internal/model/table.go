package model

import "fmt"

// Table names one of the three persisted tables.
type Table string

const (
	TableCategory Table = "category"
	TableUnsorted Table = "unsorted"
	TableSorted   Table = "sorted"
)

// Tables lists every table in resequencing order.
var Tables = []Table{TableCategory, TableUnsorted, TableSorted}

// ParseTable converts a user-supplied name into a Table.
func ParseTable(name string) (Table, error) {
	switch Table(name) {
	case TableCategory, TableUnsorted, TableSorted:
		return Table(name), nil
	default:
		return "", fmt.Errorf("unknown table %q (want category, unsorted or sorted)", name)
	}
}

// IsNotificationTable reports whether t holds notifications.
func (t Table) IsNotificationTable() bool {
	return t == TableUnsorted || t == TableSorted
}
