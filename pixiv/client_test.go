package pixiv

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixiv-novel-downloader/config"
)

func newTestService(t *testing.T, handler http.Handler) *Service {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	cfg := config.Default()
	cfg.BaseURL = ts.URL
	cfg.TimeoutSeconds = 5
	return NewService(NewClient(cfg))
}

func writeBody(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"error":false,"message":"","body":%s}`, body)
}

func writeRejection(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"error":true,"message":%q,"body":null}`, message)
}

func TestClient_FetchJSON(t *testing.T) {
	t.Run("Should unpack the envelope body", func(t *testing.T) {
		service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeBody(w, `{"value":42}`)
		}))
		body, err := service.client.FetchJSON(context.Background(), "/anything", nil)
		require.NoError(t, err)
		assert.JSONEq(t, `{"value":42}`, string(body))
	})

	t.Run("Should return RemoteError when the envelope reports an error", func(t *testing.T) {
		service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeRejection(w, "invalid request")
		}))
		_, err := service.client.FetchJSON(context.Background(), "/anything", nil)
		var remoteErr *RemoteError
		require.ErrorAs(t, err, &remoteErr)
		assert.Equal(t, "invalid request", remoteErr.Message)
	})

	t.Run("Should return TransportError on a non-200 status", func(t *testing.T) {
		service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		_, err := service.client.FetchJSON(context.Background(), "/anything", nil)
		var transportErr *TransportError
		require.ErrorAs(t, err, &transportErr)
	})

	t.Run("Should return TransportError on a malformed envelope", func(t *testing.T) {
		service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<html>not json</html>`)
		}))
		_, err := service.client.FetchJSON(context.Background(), "/anything", nil)
		var transportErr *TransportError
		require.ErrorAs(t, err, &transportErr)
	})

	t.Run("Should send the configured default headers", func(t *testing.T) {
		var gotUA, gotReferer string
		service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			gotReferer = r.Header.Get("Referer")
			writeBody(w, `{}`)
		}))
		_, err := service.client.FetchJSON(context.Background(), "/anything", nil)
		require.NoError(t, err)
		assert.Equal(t, config.Default().UserAgent, gotUA)
		assert.Equal(t, config.Default().Referer, gotReferer)
	})

	t.Run("Should pass query parameters through", func(t *testing.T) {
		var gotQuery string
		service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query().Get("limit")
			writeBody(w, `{}`)
		}))
		_, err := service.client.FetchJSON(context.Background(), "/anything", map[string]string{"limit": "30"})
		require.NoError(t, err)
		assert.Equal(t, "30", gotQuery)
	})
}

func TestClient_UpdateCookie(t *testing.T) {
	t.Run("Should attach the updated cookie to subsequent requests", func(t *testing.T) {
		var gotCookie string
		service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotCookie = r.Header.Get("Cookie")
			writeBody(w, `{}`)
		}))

		_, err := service.client.FetchJSON(context.Background(), "/anything", nil)
		require.NoError(t, err)
		assert.Empty(t, gotCookie)

		service.client.UpdateCookie("PHPSESSID=abc123")
		_, err = service.client.FetchJSON(context.Background(), "/anything", nil)
		require.NoError(t, err)
		assert.Equal(t, "PHPSESSID=abc123", gotCookie)
	})

	t.Run("Should use the configured cookie before any update", func(t *testing.T) {
		var gotCookie string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotCookie = r.Header.Get("Cookie")
			writeBody(w, `{}`)
		}))
		t.Cleanup(ts.Close)
		cfg := config.Default()
		cfg.BaseURL = ts.URL
		cfg.Auth.Cookie = "PHPSESSID=fromconfig"
		client := NewClient(cfg)

		_, err := client.FetchJSON(context.Background(), "/anything", nil)
		require.NoError(t, err)
		assert.Equal(t, "PHPSESSID=fromconfig", gotCookie)
	})

	t.Run("Should tolerate updates concurrent with in-flight requests", func(t *testing.T) {
		service := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeBody(w, `{}`)
		}))

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(2)
			go func(i int) {
				defer wg.Done()
				service.client.UpdateCookie(fmt.Sprintf("PHPSESSID=%d", i))
			}(i)
			go func() {
				defer wg.Done()
				_, err := service.client.FetchJSON(context.Background(), "/anything", nil)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
	})
}
