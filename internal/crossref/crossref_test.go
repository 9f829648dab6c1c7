package crossref

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractURLs(t *testing.T) {
	text := "See https://example.com/a, then www.linkedin.com/feed. Again: https://example.com/a"
	assert.Equal(t, []string{"https://example.com/a", "www.linkedin.com/feed"}, ExtractURLs(text))
	assert.Nil(t, ExtractURLs("no links here"))
}

func TestLinks_FilterByHost(t *testing.T) {
	got := Links("Job alert", "apply at https://www.linkedin.com/jobs/1 or https://other.org/x", []string{"LinkedIn.com"})
	assert.Equal(t, []string{"https://www.linkedin.com/jobs/1"}, got)

	all := Links("https://a.io", "https://b.io", nil)
	assert.Equal(t, []string{"https://a.io", "https://b.io"}, all)
}
