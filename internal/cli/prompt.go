package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/nhle/notify/internal/model"
)

// confirm asks a yes/no question. skip answers yes without asking.
func confirm(title, description string, skip bool) (bool, error) {
	if skip {
		return true, nil
	}

	ok := false
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if err != nil {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	return ok, nil
}

// categorizeBindings holds the values collected by the categorize form.
type categorizeBindings struct {
	categoryID int64
	importance int
	note       string
}

// promptCategorize asks for whatever the flags left unset. Selects show
// batchSize options at a time.
func promptCategorize(
	b *categorizeBindings,
	categories []model.CategoryCount,
	levels model.ImportanceLevels,
	batchSize int,
	askNote bool,
) error {
	var fields []huh.Field

	if b.categoryID == 0 {
		opts := make([]huh.Option[int64], len(categories))
		for i, c := range categories {
			opts[i] = huh.NewOption(fmt.Sprintf("%d. %s", c.ID, c.Name), c.ID)
		}
		fields = append(fields, huh.NewSelect[int64]().
			Title("Category").
			Options(opts...).
			Height(batchSize+2).
			Value(&b.categoryID))
	}

	if b.importance == 0 {
		var opts []huh.Option[int]
		for _, l := range levels.Levels() {
			opts = append(opts, huh.NewOption(fmt.Sprintf("%d. %s", l, levels.Label(l)), l))
		}
		fields = append(fields, huh.NewSelect[int]().
			Title("Importance").
			Options(opts...).
			Height(batchSize+2).
			Value(&b.importance))
	}

	if askNote {
		fields = append(fields, huh.NewInput().
			Title("Note").
			Placeholder("Optional, leave empty for none").
			Value(&b.note))
	}

	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}

// promptText asks for one line of text.
func promptText(title, initial string, secret bool) (string, error) {
	value := initial
	input := huh.NewInput().Title(title).Value(&value)
	if secret {
		input = input.EchoMode(huh.EchoModePassword).Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("value is required")
			}
			return nil
		})
	}
	if err := input.Run(); err != nil {
		return "", err
	}
	return value, nil
}
