package engine_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-biorhythm/internal/config"
	"github.com/tartampluch/go-biorhythm/internal/engine"
)

const adaCard = "BEGIN:VCARD\nVERSION:3.0\nFN:Ada\nBDAY:1815-12-10\nEND:VCARD"

// bookServer serves an address book through h for the duration of the test.
func bookServer(t *testing.T, h http.HandlerFunc) string {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts.URL
}

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(data)
}

func TestHTTPFetcher_Fetch(t *testing.T) {
	var gotUser, gotPass, gotAgent string
	var gotAuth bool
	base := bookServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, gotAuth = r.BasicAuth()
		gotAgent = r.Header.Get(config.HeaderUserAgent)
		_, _ = io.WriteString(w, adaCard)
	})

	t.Run("credentials", func(t *testing.T) {
		rc, err := engine.NewHTTPFetcher().Fetch(context.Background(), base+"/book.vcf?token=secret", "ada", "engine")
		require.NoError(t, err)
		assert.Equal(t, adaCard, readAll(t, rc))

		assert.True(t, gotAuth)
		assert.Equal(t, "ada", gotUser)
		assert.Equal(t, "engine", gotPass)
		assert.Equal(t, config.UserAgent, gotAgent)
	})

	t.Run("anonymous", func(t *testing.T) {
		rc, err := engine.NewHTTPFetcher().Fetch(context.Background(), base, "", "")
		require.NoError(t, err)
		_ = readAll(t, rc)
		assert.False(t, gotAuth, "no Authorization header without credentials")
	})
}

func TestHTTPFetcher_Fetch_Rejected(t *testing.T) {
	status := func(code int) string {
		return bookServer(t, func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(code) })
	}

	tests := []struct {
		name    string
		url     string
		wantErr []string
	}{
		{"not found", status(http.StatusNotFound), []string{config.ErrStatus, "404"}},
		{"unauthorized", status(http.StatusUnauthorized), []string{config.ErrStatus, "401"}},
		{"server error", status(http.StatusInternalServerError), []string{config.ErrStatus, "500"}},
		{"control character", string([]byte{0x7f}), []string{config.ErrInvalidURL}},
		{"file scheme", "file:///etc/passwd", []string{config.ErrProtocol}},
		{"ftp scheme", "ftp://example.com/book.vcf", []string{config.ErrProtocol}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc, err := engine.NewHTTPFetcher().Fetch(context.Background(), tt.url, "", "")
			require.Error(t, err)
			assert.Nil(t, rc)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestHTTPFetcher_Fetch_SizeLimit(t *testing.T) {
	base := bookServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, strings.Repeat("x", 1024))
	})

	f := engine.NewHTTPFetcher()
	f.MaxSize = 100

	rc, err := f.Fetch(context.Background(), base, "", "")
	require.NoError(t, err)
	assert.Len(t, readAll(t, rc), 100)
}

func TestHTTPFetcher_Fetch_Deadline(t *testing.T) {
	base := bookServer(t, func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := engine.NewHTTPFetcher().Fetch(ctx, base, "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), config.ErrNetwork)
}
