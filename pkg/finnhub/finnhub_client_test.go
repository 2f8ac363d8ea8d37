package finnhub

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestClient(server *httptest.Server, keys ...string) Client {
	return Client{
		HttpClient: server.Client(),
		ApiKeys:    keys,
		BaseUrl:    server.URL,
	}
}

func Test_Quote(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
			require.Equal(t, "key1", r.URL.Query().Get("token"))
			fmt.Fprint(w, `{"c": 227.52, "h": 229.87, "l": 225.77, "o": 226.5, "pc": 227.79}`)
		}))
		defer server.Close()

		price, err := newTestClient(server, "key1").Quote(context.Background(), "AAPL")
		require.NoError(t, err)
		require.Equal(t, "227.52", price.String())
	})

	t.Run("rotates keys on rate limit", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if r.URL.Query().Get("token") == "exhausted" {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			fmt.Fprint(w, `{"c": 100}`)
		}))
		defer server.Close()

		price, err := newTestClient(server, "exhausted", "fresh").Quote(context.Background(), "VOO")
		require.NoError(t, err)
		require.Equal(t, 2, calls)
		require.Equal(t, "100", price.String())
	})

	t.Run("all keys exhausted", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		_, err := newTestClient(server, "a", "b").Quote(context.Background(), "VOO")
		require.Error(t, err)
		require.Contains(t, err.Error(), "rate limited")
	})

	t.Run("api error payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"error": "Invalid API key"}`)
		}))
		defer server.Close()

		_, err := newTestClient(server, "bad").Quote(context.Background(), "VOO")
		require.Error(t, err)
		require.Contains(t, err.Error(), "Invalid API key")
	})

	t.Run("unknown symbol reports as zero quote", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"c": 0, "h": 0, "l": 0, "o": 0, "pc": 0}`)
		}))
		defer server.Close()

		_, err := newTestClient(server, "key").Quote(context.Background(), "NOPE")
		require.Error(t, err)
		require.Contains(t, err.Error(), "no price data")
	})

	t.Run("server error status does not rotate keys", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := newTestClient(server, "a", "b").Quote(context.Background(), "VOO")
		require.Error(t, err)
		require.Equal(t, 1, calls)
	})
}
