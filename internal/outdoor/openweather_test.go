package outdoor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return NewClient(Config{
		BaseURL:   url,
		APIKey:    "test-key",
		Latitude:  18.492572,
		Longitude: 74.025413,
		Timeout:   500 * time.Millisecond,
	})
}

func TestLookupParsesPM25(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/air_pollution", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		assert.Equal(t, "18.492572", r.URL.Query().Get("lat"))
		assert.Equal(t, "74.025413", r.URL.Query().Get("lon"))
		_, _ = w.Write([]byte(`{"list":[{"main":{"aqi":2},"components":{"pm2_5":14.876,"pm10":20.1}}]}`))
	}))
	defer srv.Close()

	got := newTestClient(srv.URL).Lookup(context.Background())
	require.NotNil(t, got)
	assert.Equal(t, 14.88, *got)
}

func TestLookupFailuresYieldNil(t *testing.T) {
	handlers := map[string]http.HandlerFunc{
		"unauthorized": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		},
		"malformed": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"list":`))
		},
		"empty list": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"list":[]}`))
		},
		"missing component": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"list":[{"components":{"pm10":3}}]}`))
		},
		"timeout": func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(time.Second)
		},
	}

	for name, h := range handlers {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()
			assert.Nil(t, newTestClient(srv.URL).Lookup(context.Background()))
		})
	}
}

func TestLookupWithoutKeySkipsRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	assert.Nil(t, c.Lookup(context.Background()))
	assert.False(t, called)
}

func TestLookupUnreachableHost(t *testing.T) {
	assert.Nil(t, newTestClient("http://127.0.0.1:1").Lookup(context.Background()))
}
