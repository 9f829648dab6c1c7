// Package page scrapes notifications from an HTML notifications page,
// logging in through the site's form first when credentials are set.
package page

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/nhle/notify/internal/model"
	"github.com/nhle/notify/internal/source"
)

const (
	DefaultLoginURL    = "https://www.linkedin.com/login"
	DefaultPageURL     = "https://www.linkedin.com/notifications/?filter=all"
	DefaultSuccessPath = "/feed"

	// ItemSelector matches one notification card.
	ItemSelector = "div[data-finite-scroll-hotkey-item]"

	userAgent = "notify/1.0"
)

// Config holds the settings of a page source.
type Config struct {
	PageURL     string
	LoginURL    string
	SuccessPath string
	Username    string
	Password    string
}

// Producer implements source.Producer by scraping a notifications page.
type Producer struct {
	id     string
	cfg    Config
	client *http.Client
}

// NewProducer wires an HTTP client with a cookie jar; client may be nil.
func NewProducer(id string, cfg Config, client *http.Client) (*Producer, error) {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if client.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("creating cookie jar: %w", err)
		}
		c := *client
		c.Jar = jar
		client = &c
	}
	return &Producer{id: id, cfg: cfg, client: client}, nil
}

// ConfigFromSource builds a Config from a source entry. The password
// comes from the credential store, never from the config file.
func ConfigFromSource(src model.SourceConfig, password string) Config {
	opts := source.Options(src.Config)

	pageURL := src.BaseURL
	if pageURL == "" {
		pageURL = DefaultPageURL
	}

	return Config{
		PageURL:     pageURL,
		LoginURL:    opts.String("login_url", DefaultLoginURL),
		SuccessPath: opts.String("success_path", DefaultSuccessPath),
		Username:    opts.String("username", ""),
		Password:    password,
	}
}

// ID returns the configured source id.
func (p *Producer) ID() string {
	return p.id
}

// Type returns the source type identifier for pages.
func (p *Producer) Type() source.SourceType {
	return source.SourceTypePage
}

// Fetch logs in when a username is configured, then scrapes the page.
func (p *Producer) Fetch(ctx context.Context) ([]model.RawNotification, error) {
	if p.cfg.Username != "" {
		if err := p.login(ctx); err != nil {
			return nil, err
		}
	}

	doc, _, err := p.fetchDocument(ctx, p.cfg.PageURL)
	if err != nil {
		return nil, fmt.Errorf("fetching notifications page: %w", err)
	}
	return Parse(doc), nil
}

// Parse extracts one notification per card. The title is the first bold
// text in the card; the content joins every non-empty span.
func Parse(doc *goquery.Document) []model.RawNotification {
	var out []model.RawNotification

	doc.Find(ItemSelector).Each(func(_ int, card *goquery.Selection) {
		title := strings.TrimSpace(card.Find("strong").First().Text())

		var parts []string
		card.Find("span").Each(func(_ int, span *goquery.Selection) {
			if text := strings.TrimSpace(span.Text()); text != "" {
				parts = append(parts, text)
			}
		})

		out = append(out, source.Normalize(model.RawNotification{
			Title:   title,
			Content: strings.Join(parts, " "),
		}))
	})

	return out
}

// login submits the form that holds the #username field together with its
// hidden inputs. The login counts as successful when the redirect chain
// ends on a URL containing SuccessPath.
func (p *Producer) login(ctx context.Context) error {
	doc, loginURL, err := p.fetchDocument(ctx, p.cfg.LoginURL)
	if err != nil {
		return fmt.Errorf("loading login page: %w", err)
	}

	form := doc.Find("form:has(#username)").First()
	if form.Length() == 0 {
		return fmt.Errorf("login page %s has no login form", p.cfg.LoginURL)
	}

	values := url.Values{}
	form.Find("input[type=hidden]").Each(func(_ int, in *goquery.Selection) {
		if name, ok := in.Attr("name"); ok {
			values.Set(name, in.AttrOr("value", ""))
		}
	})
	values.Set(fieldName(form.Find("#username"), "username"), p.cfg.Username)
	values.Set(fieldName(form.Find("#password"), "password"), p.cfg.Password)

	action, err := loginURL.Parse(form.AttrOr("action", ""))
	if err != nil {
		return fmt.Errorf("resolving login form action: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, action.String(), strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("submitting login form: %w", err)
	}
	defer resp.Body.Close()

	if !strings.Contains(resp.Request.URL.String(), p.cfg.SuccessPath) {
		return &source.AuthError{
			SourceType: source.SourceTypePage,
			Message:    fmt.Sprintf("login as %s did not reach %s", p.cfg.Username, p.cfg.SuccessPath),
		}
	}
	return nil
}

// fieldName returns the form name of an input, falling back to def.
func fieldName(in *goquery.Selection, def string) string {
	if name := in.AttrOr("name", ""); name != "" {
		return name
	}
	return def
}

// fetchDocument GETs pageURL and parses the body. It also returns the
// final URL after redirects.
func (p *Producer) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, *url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, nil, &source.AuthError{
			SourceType: source.SourceTypePage,
			Message:    fmt.Sprintf("%s returned %s", pageURL, resp.Status),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("%s returned %s", pageURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, resp.Request.URL, nil
}
