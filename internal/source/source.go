package source

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nhle/notify/internal/model"
)

// MaxTitleLen bounds the title of every notification a producer yields.
const MaxTitleLen = 250

// AuthError indicates that authentication has failed or expired for a source.
// It is returned by producers when a login is rejected.
type AuthError struct {
	SourceType SourceType
	Message    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%s): %s", e.SourceType, e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// SourceType identifies the kind of notification producer.
type SourceType string

const (
	SourceTypePage  SourceType = model.SourceTypePage
	SourceTypeEmail SourceType = model.SourceTypeEmail
)

// Producer fetches raw notifications from an external system. Producers
// never write to the database; their output is handed to the lifecycle
// engine in one batch.
type Producer interface {
	// ID returns the configured source id.
	ID() string

	// Type returns the producer type.
	Type() SourceType

	// Fetch retrieves the notifications currently available. It must honor
	// ctx cancellation.
	Fetch(ctx context.Context) ([]model.RawNotification, error)
}

// Normalize collapses whitespace, applies the default title and cuts the
// title to MaxTitleLen.
func Normalize(n model.RawNotification) model.RawNotification {
	title := strings.Join(strings.Fields(n.Title), " ")
	if title == "" {
		title = model.DefaultTitle
	}
	if r := []rune(title); len(r) > MaxTitleLen {
		title = string(r[:MaxTitleLen])
	}
	return model.RawNotification{
		Title:   title,
		Content: strings.Join(strings.Fields(n.Content), " "),
	}
}
