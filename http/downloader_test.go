package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/awalczyk/billfetch"
	billhttp "github.com/awalczyk/billfetch/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloader_Download(t *testing.T) {
	t.Parallel()

	t.Run("returns full body", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("%PDF-1.4 document body"))
		}))
		defer server.Close()

		body, err := billhttp.NewDownloader().Download(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.4 document body"), body)
	})

	t.Run("returns ETRANSPORT for non-success status", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, err := billhttp.NewDownloader().Download(context.Background(), server.URL)
		require.Error(t, err)
		assert.Equal(t, billfetch.ETRANSPORT, billfetch.ErrorCode(err))
		assert.Contains(t, billfetch.ErrorMessage(err), "404")
	})

	t.Run("returns ETRANSPORT for unreachable host", func(t *testing.T) {
		t.Parallel()

		dl := billhttp.NewDownloader(billhttp.WithDownloaderTimeout(100 * time.Millisecond))
		_, err := dl.Download(context.Background(), "http://non-existent-host.invalid/a.pdf")
		require.Error(t, err)
		assert.Equal(t, billfetch.ETRANSPORT, billfetch.ErrorCode(err))
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := billhttp.NewDownloader().Download(ctx, server.URL)
		require.Error(t, err)
	})
}
