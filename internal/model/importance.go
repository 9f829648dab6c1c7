package model

import (
	"fmt"
	"slices"
)

// ImportanceLevels maps each valid importance level to its label.
type ImportanceLevels map[int]string

// DefaultImportanceLevels returns the stock 1..5 scale.
func DefaultImportanceLevels() ImportanceLevels {
	return ImportanceLevels{
		1: "Not important",
		2: "Might matter",
		3: "Check it out",
		4: "Very important",
		5: "Of immediate concern",
	}
}

// Valid reports whether level is one of the configured levels.
func (l ImportanceLevels) Valid(level int) bool {
	_, ok := l[level]
	return ok
}

// Label returns the label for level, or the number itself when the level
// is not configured.
func (l ImportanceLevels) Label(level int) string {
	if label, ok := l[level]; ok {
		return label
	}
	return fmt.Sprintf("%d", level)
}

// Levels returns the configured levels in ascending order.
func (l ImportanceLevels) Levels() []int {
	levels := make([]int, 0, len(l))
	for level := range l {
		levels = append(levels, level)
	}
	slices.Sort(levels)
	return levels
}

// Range renders the level span for prompts, e.g. "1-5".
func (l ImportanceLevels) Range() string {
	levels := l.Levels()
	if len(levels) == 0 {
		return ""
	}
	return fmt.Sprintf("%d-%d", levels[0], levels[len(levels)-1])
}
