package lifecycle

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/notify/internal/model"
	"github.com/nhle/notify/internal/store"
)

func TestClassify(t *testing.T) {
	driver := errors.New("disk I/O error")

	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"validation kept", &ValidationError{Field: "name", Message: "must not be empty"}, IsValidation},
		{"not found kept", &NotFoundError{Entity: "category", ID: 3}, IsNotFound},
		{"wrapped not found kept", fmt.Errorf("outer: %w", &NotFoundError{Entity: "x", ID: 1}), IsNotFound},
		{"driver wrapped", driver, IsStorage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify("op", tt.err)
			assert.True(t, tt.check(got), "%v", got)
		})
	}

	assert.NoError(t, classify("op", nil))
	assert.ErrorIs(t, classify("op", driver), driver)
}

func TestNotFound(t *testing.T) {
	err := notFound(fmt.Errorf("sorted notification 4: %w", store.ErrNotFound), "sorted notification", 4)
	assert.EqualError(t, err, "sorted notification 4 not found")

	other := errors.New("locked")
	assert.Same(t, other, notFound(other, "x", 1))
}

func TestInputValidator(t *testing.T) {
	v := newInputValidator(model.DefaultImportanceLevels())

	assert.NoError(t, v.check(categorizeInput{UnsortedID: 1, CategoryID: 1, Importance: 5}))

	err := v.check(categorizeInput{UnsortedID: 1, CategoryID: 1, Importance: 6})
	var ve *ValidationError
	if assert.ErrorAs(t, err, &ve) {
		assert.Equal(t, "importance_level", ve.Field)
		assert.Contains(t, ve.Message, "1-5")
	}

	err = v.check(categorizeInput{UnsortedID: 0, CategoryID: 1, Importance: 1})
	if assert.ErrorAs(t, err, &ve) {
		assert.Equal(t, "unsorted_id", ve.Field)
	}

	err = v.check(categoryInput{Name: " "})
	if assert.ErrorAs(t, err, &ve) {
		assert.Equal(t, "name", ve.Field)
		assert.Equal(t, "must not be empty", ve.Message)
	}
}
