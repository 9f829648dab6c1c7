package page

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/notify/internal/model"
	"github.com/nhle/notify/internal/source"
)

const notificationsHTML = `
<html><body>
  <div data-finite-scroll-hotkey-item="0">
    <strong>Ana Silva</strong>
    <span>viewed your profile</span>
    <span>   </span>
    <span>2h</span>
  </div>
  <div data-finite-scroll-hotkey-item="1">
    <span>Your weekly search stats</span>
  </div>
  <div class="ad"><strong>Not a notification</strong></div>
</body></html>`

const loginHTML = `
<html><body>
  <form id="search" action="/search"><input name="q"></form>
  <form method="post" action="/checkpoint/login-submit">
    <input type="hidden" name="csrf" value="tok123">
    <input id="username" name="session_key">
    <input id="password" name="session_password" type="password">
  </form>
</body></html>`

func TestParse(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(notificationsHTML))
	require.NoError(t, err)

	got := Parse(doc)
	require.Len(t, got, 2)
	assert.Equal(t, model.RawNotification{Title: "Ana Silva", Content: "viewed your profile 2h"}, got[0])
	assert.Equal(t, model.DefaultTitle, got[1].Title)
	assert.Equal(t, "Your weekly search stats", got[1].Content)
}

func newSite(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, loginHTML)
	})
	mux.HandleFunc("/checkpoint/login-submit", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if r.PostForm.Get("csrf") != "tok123" ||
			r.PostForm.Get("session_key") != "me@example.com" ||
			r.PostForm.Get("session_password") != "right" {
			http.Redirect(w, r, "/login?error=1", http.StatusFound)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "li_at", Value: "session", Path: "/"})
		http.Redirect(w, r, "/feed/", http.StatusFound)
	})
	mux.HandleFunc("/feed/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "<html>feed</html>")
	})
	mux.HandleFunc("/notifications/", func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("li_at"); err != nil {
			http.Error(w, "login required", http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, notificationsHTML)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_WithLogin(t *testing.T) {
	t.Parallel()
	srv := newSite(t)

	p, err := NewProducer("linkedin", Config{
		PageURL:     srv.URL + "/notifications/?filter=all",
		LoginURL:    srv.URL + "/login",
		SuccessPath: DefaultSuccessPath,
		Username:    "me@example.com",
		Password:    "right",
	}, srv.Client())
	require.NoError(t, err)

	got, err := p.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Ana Silva", got[0].Title)
}

func TestFetch_LoginRejected(t *testing.T) {
	t.Parallel()
	srv := newSite(t)

	p, err := NewProducer("linkedin", Config{
		PageURL:     srv.URL + "/notifications/",
		LoginURL:    srv.URL + "/login",
		SuccessPath: DefaultSuccessPath,
		Username:    "me@example.com",
		Password:    "wrong",
	}, srv.Client())
	require.NoError(t, err)

	_, err = p.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, source.IsAuthError(err))
}

func TestFetch_UnauthorizedPage(t *testing.T) {
	t.Parallel()
	srv := newSite(t)

	p, err := NewProducer("linkedin", Config{PageURL: srv.URL + "/notifications/"}, srv.Client())
	require.NoError(t, err)

	_, err = p.Fetch(context.Background())
	assert.True(t, source.IsAuthError(err))
}

func TestFetch_Canceled(t *testing.T) {
	t.Parallel()
	srv := newSite(t)

	p, err := NewProducer("linkedin", Config{PageURL: srv.URL + "/notifications/"}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConfigFromSource(t *testing.T) {
	t.Parallel()

	cfg := ConfigFromSource(model.SourceConfig{ID: "li", Config: map[string]string{"username": "me"}}, "pw")
	assert.Equal(t, DefaultPageURL, cfg.PageURL)
	assert.Equal(t, DefaultLoginURL, cfg.LoginURL)
	assert.Equal(t, DefaultSuccessPath, cfg.SuccessPath)
	assert.Equal(t, "me", cfg.Username)
	assert.Equal(t, "pw", cfg.Password)
}
