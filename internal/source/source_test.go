package source

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/notify/internal/model"
)

func TestNormalize(t *testing.T) {
	got := Normalize(model.RawNotification{Title: "  ", Content: " a\n\n b\tc "})
	assert.Equal(t, model.DefaultTitle, got.Title)
	assert.Equal(t, "a b c", got.Content)

	long := Normalize(model.RawNotification{Title: strings.Repeat("ü", 300)})
	assert.Equal(t, MaxTitleLen, utf8.RuneCountInString(long.Title))
}

func TestIsAuthError(t *testing.T) {
	err := fmt.Errorf("fetching: %w", &AuthError{SourceType: SourceTypePage, Message: "bad password"})
	assert.True(t, IsAuthError(err))
	assert.Contains(t, err.Error(), "auth error (page)")
	assert.False(t, IsAuthError(fmt.Errorf("timeout")))
}

func TestOptions(t *testing.T) {
	o := Options{"port": "993", "tls": "false", "name": "  inbox ", "bad": "x"}

	assert.Equal(t, "inbox", o.String("name", "d"))
	assert.Equal(t, "d", o.String("missing", "d"))

	n, err := o.Int("port", 1)
	require.NoError(t, err)
	assert.Equal(t, 993, n)

	n, err = o.Int("missing", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = o.Int("bad", 0)
	assert.Error(t, err)

	b, err := o.Bool("tls", true)
	require.NoError(t, err)
	assert.False(t, b)

	_, err = o.Bool("bad", true)
	assert.Error(t, err)
}
