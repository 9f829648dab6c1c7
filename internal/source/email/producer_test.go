package email

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/notify/internal/model"
)

const multipartMessage = "From: LinkedIn <notifications@linkedin.com>\r\n" +
	"To: me@example.com\r\n" +
	"Subject: You appeared in 5 searches\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/alternative; boundary=\"b1\"\r\n" +
	"\r\n" +
	"--b1\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Plain body\r\n" +
	"--b1\r\n" +
	"Content-Type: text/html; charset=utf-8\r\n" +
	"\r\n" +
	"<p>HTML body</p>\r\n" +
	"--b1--\r\n"

func TestParseMIMEBody(t *testing.T) {
	text, html := parseMIMEBody([]byte(multipartMessage))
	assert.Equal(t, "Plain body", strings.TrimSpace(text))
	assert.Contains(t, html, "<p>HTML body</p>")
}

func TestToRaw(t *testing.T) {
	t.Run("prefers plain text", func(t *testing.T) {
		got := toRaw(ParsedMessage{
			Envelope: Envelope{Subject: "Weekly digest"},
			TextBody: "line one\n\nline two",
			HTMLBody: "<b>ignored</b>",
		})
		assert.Equal(t, model.RawNotification{Title: "Weekly digest", Content: "line one line two"}, got)
	})

	t.Run("flattens html", func(t *testing.T) {
		got := toRaw(ParsedMessage{
			Envelope: Envelope{Subject: ""},
			HTMLBody: "<html><head><style>p{}</style></head><body><p>Ana</p> <p>viewed your profile</p><script>x()</script></body></html>",
		})
		assert.Equal(t, model.DefaultTitle, got.Title)
		assert.Equal(t, "Ana viewed your profile", got.Content)
	})
}

func TestConfigFromSource(t *testing.T) {
	src := model.SourceConfig{
		ID:   "inbox",
		Type: model.SourceTypeEmail,
		Config: map[string]string{
			"host":       "imap.example.com",
			"username":   "me@example.com",
			"from":       "linkedin.com",
			"since_days": "3",
		},
	}

	cfg, err := ConfigFromSource(src, "secret")
	require.NoError(t, err)
	assert.Equal(t, "993", cfg.Port)
	assert.True(t, cfg.TLS)
	assert.Equal(t, "INBOX", cfg.Mailbox)
	assert.Equal(t, 3, cfg.SinceDays)
	assert.Equal(t, defaultLimit, cfg.Limit)
	assert.Equal(t, "secret", cfg.Password)

	delete(src.Config, "host")
	_, err = ConfigFromSource(src, "secret")
	assert.Error(t, err)

	src.BaseURL = "imap.example.org:143"
	cfg, err = ConfigFromSource(src, "secret")
	require.NoError(t, err)
	assert.Equal(t, "imap.example.org", cfg.Host)
	assert.Equal(t, "143", cfg.Port)
}

func TestSearchCriteria(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	c := NewIMAPClient(Config{SinceDays: 7, From: "linkedin.com", UnseenOnly: true})

	got := c.searchCriteria(now)
	assert.Equal(t, now.AddDate(0, 0, -7), got.Since)
	require.Len(t, got.Header, 1)
	assert.Equal(t, "linkedin.com", got.Header[0].Value)
	assert.Len(t, got.NotFlag, 1)
}
