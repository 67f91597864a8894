package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const listHTML = `<html><body><div class="candidate-list"><div class="candidate-card"><span class="name">李四</span></div></div></body></html>`

func TestLoadRemoteSendsHeaders(t *testing.T) {
	var gotUA, gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotCookie = r.Header.Get("Cookie")
		_, _ = w.Write([]byte(listHTML))
	}))
	defer srv.Close()

	loader := NewLoader(Options{Headers: map[string]string{"Cookie": "wt2=abc"}}, zap.NewNop())

	page, err := loader.Load(context.Background(), srv.URL+"/web/boss/recommend", "")
	require.NoError(t, err)

	assert.Equal(t, DefaultUserAgent, gotUA)
	assert.Equal(t, "wt2=abc", gotCookie)
	assert.Equal(t, srv.URL+"/web/boss/recommend", page.Href())
	assert.True(t, page.Has(".candidate-card"))
}

func TestLoadRemotePageURLOverride(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(listHTML))
	}))
	defer srv.Close()

	page, err := NewLoader(Options{}, nil).Load(context.Background(), srv.URL, "https://www.zhipin.com/web/boss/search")
	require.NoError(t, err)
	assert.Equal(t, "https://www.zhipin.com/web/boss/search", page.Href())
}

func TestGetReportsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "login required", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewLoader(Options{}, nil).Get(context.Background(), srv.URL)
	require.Error(t, err)

	var fetchErr *Error
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "HTTP status 403", fetchErr.Message)
	assert.Equal(t, srv.URL, fetchErr.URL)
}

func TestGetRejectsInvalidURL(t *testing.T) {
	_, err := NewLoader(Options{}, nil).Get(context.Background(), "http://")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestLoadUsesBrowserWhenEnabled(t *testing.T) {
	loader := NewLoader(Options{Browser: true}, nil)
	var rendered string
	loader.render = func(_ context.Context, rawURL string) (string, error) {
		rendered = rawURL
		return listHTML, nil
	}

	page, err := loader.Load(context.Background(), "https://www.zhipin.com/web/boss/recommend", "")
	require.NoError(t, err)
	assert.Equal(t, "https://www.zhipin.com/web/boss/recommend", rendered)
	assert.True(t, page.Has(".candidate-card"))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.html")
	require.NoError(t, os.WriteFile(path, []byte(listHTML), 0o600))

	page, err := NewLoader(Options{}, nil).Load(context.Background(), path, "https://h.liepin.com/search")
	require.NoError(t, err)
	assert.Equal(t, "https://h.liepin.com/search", page.Href())
	assert.True(t, page.Has(".name"))

	_, err = NewLoader(Options{}, nil).Load(context.Background(), filepath.Join(t.TempDir(), "missing.html"), "")
	assert.ErrorContains(t, err, "failed to open page file")

	_, err = NewLoader(Options{}, nil).Load(context.Background(), "  ", "")
	assert.Error(t, err)
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("HTTPS://www.liepin.com"))
	assert.True(t, IsRemote(" http://x"))
	assert.False(t, IsRemote("./page.html"))
	assert.False(t, IsRemote("-"))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &Error{URL: "https://x", Message: "HTTP request failed", Cause: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "fetch error for https://x: HTTP request failed: boom", err.Error())
}
