package lifecycle

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nhle/notify/internal/model"
)

// inputValidator wraps the go-playground validator with the rules that
// depend on configuration (the importance scale).
type inputValidator struct {
	validate *validator.Validate
	levels   model.ImportanceLevels
}

type categorizeInput struct {
	UnsortedID int64 `json:"unsorted_id" validate:"gt=0"`
	CategoryID int64 `json:"category_id" validate:"gt=0"`
	Importance int   `json:"importance_level" validate:"importance"`
}

type noteInput struct {
	Note string `json:"note" validate:"max=4096"`
}

type categoryInput struct {
	Name string `json:"name" validate:"notblank,max=50"`
}

func newInputValidator(levels model.ImportanceLevels) *inputValidator {
	v := validator.New()

	// Report JSON field names in messages.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("importance", func(fl validator.FieldLevel) bool {
		return levels.Valid(int(fl.Field().Int()))
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &inputValidator{validate: v, levels: levels}
}

// check validates i and returns the first violation as a ValidationError.
func (v *inputValidator) check(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return &ValidationError{Field: "input", Message: err.Error()}
	}

	fe := fieldErrs[0]
	return &ValidationError{Field: fe.Field(), Message: v.msgForTag(fe)}
}

// msgForTag returns a human-readable message for a validation tag.
func (v *inputValidator) msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "importance":
		return fmt.Sprintf("must be one of %s, got %v", v.levels.Range(), fe.Value())
	case "notblank":
		return "must not be empty"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	default:
		return fmt.Sprintf("failed validation (%s)", fe.Tag())
	}
}
