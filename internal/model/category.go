package model

// DefaultCategories are seeded into an empty category table.
var DefaultCategories = []string{
	"General",
	"Work",
	"Personal",
	"Social",
	"Promotions",
	"Miscellaneous",
}

// MaxCategoryNameLen bounds category names.
const MaxCategoryNameLen = 50

// Category groups sorted notifications.
type Category struct {
	ID   int64  `json:"id" db:"id" yaml:"id"`
	Name string `json:"name" db:"name" yaml:"name"`
}

// CategoryCount is a category with the number of sorted notifications
// that reference it.
type CategoryCount struct {
	Category `yaml:",inline"`
	Notifications int `json:"notifications" db:"notifications" yaml:"notifications"`
}
