// Package email reads notification e-mails over IMAP.
package email

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nhle/notify/internal/model"
	"github.com/nhle/notify/internal/source"
)

const (
	defaultPort      = "993"
	defaultMailbox   = "INBOX"
	defaultSinceDays = 7
	defaultLimit     = 50
)

// Producer implements source.Producer for an IMAP mailbox.
type Producer struct {
	id     string
	client *IMAPClient
}

// NewProducer creates an email producer.
func NewProducer(id string, cfg Config) *Producer {
	return &Producer{id: id, client: NewIMAPClient(cfg)}
}

// ConfigFromSource builds a Config from a source entry. The password
// comes from the credential store, never from the config file.
func ConfigFromSource(src model.SourceConfig, password string) (Config, error) {
	opts := source.Options(src.Config)

	host, port := opts.String("host", ""), opts.String("port", "")
	if host == "" && src.BaseURL != "" {
		if h, p, err := net.SplitHostPort(src.BaseURL); err == nil {
			host, port = h, p
		} else {
			host = src.BaseURL
		}
	}
	if port == "" {
		port = defaultPort
	}

	cfg := Config{
		Host:     host,
		Port:     port,
		Username: opts.String("username", ""),
		Password: password,
		Mailbox:  opts.String("mailbox", defaultMailbox),
		From:     opts.String("from", ""),
	}
	if cfg.Host == "" {
		return Config{}, fmt.Errorf("email source %s: host is required", src.ID)
	}
	if cfg.Username == "" {
		return Config{}, fmt.Errorf("email source %s: username is required", src.ID)
	}

	var err error
	if cfg.TLS, err = opts.Bool("tls", true); err != nil {
		return Config{}, fmt.Errorf("email source %s: %w", src.ID, err)
	}
	if cfg.UnseenOnly, err = opts.Bool("unseen_only", false); err != nil {
		return Config{}, fmt.Errorf("email source %s: %w", src.ID, err)
	}
	if cfg.SinceDays, err = opts.Int("since_days", defaultSinceDays); err != nil {
		return Config{}, fmt.Errorf("email source %s: %w", src.ID, err)
	}
	if cfg.Limit, err = opts.Int("limit", defaultLimit); err != nil {
		return Config{}, fmt.Errorf("email source %s: %w", src.ID, err)
	}

	return cfg, nil
}

// ID returns the configured source id.
func (p *Producer) ID() string {
	return p.id
}

// Type returns the source type identifier for Email.
func (p *Producer) Type() source.SourceType {
	return source.SourceTypeEmail
}

// Fetch retrieves matching messages and maps each to a raw notification.
func (p *Producer) Fetch(ctx context.Context) ([]model.RawNotification, error) {
	messages, err := p.client.FetchMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching email notifications: %w", err)
	}

	out := make([]model.RawNotification, 0, len(messages))
	for _, m := range messages {
		out = append(out, toRaw(m))
	}
	return out, nil
}

// toRaw maps a message to a notification: the subject becomes the title
// and the plain text body (or the flattened HTML body) the content.
func toRaw(m ParsedMessage) model.RawNotification {
	content := m.TextBody
	if strings.TrimSpace(content) == "" && m.HTMLBody != "" {
		content = htmlToText(m.HTMLBody)
	}
	return source.Normalize(model.RawNotification{
		Title:   m.Envelope.Subject,
		Content: content,
	})
}

// htmlToText flattens an HTML body to its visible text.
func htmlToText(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return body
	}
	doc.Find("script, style, head").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}
