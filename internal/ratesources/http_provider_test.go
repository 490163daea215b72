package ratesources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPProviderFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"rates":{"EUR":0.5}}`))
	}))
	defer srv.Close()

	p := NewHTTPProvider("frankfurter", srv.URL, parseFrankfurter)
	rates, err := p.Fetch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "frankfurter", p.Name())
	assert.True(t, dec("2").Equal(rates["EUR"]))
}

func TestHTTPProviderNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewHTTPProvider("p", srv.URL, parseFrankfurter).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestHTTPProviderInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer srv.Close()

	_, err := NewHTTPProvider("p", srv.URL, parseFrankfurter).Fetch(context.Background())
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestHTTPProviderTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	_, err := NewHTTPProvider("slow", srv.URL, parseFrankfurter, WithTimeout(50*time.Millisecond)).Fetch(context.Background())

	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestHTTPProviderMinInterval(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"rates":{"EUR":0.5}}`))
	}))
	defer srv.Close()

	p := NewHTTPProvider("p", srv.URL, parseFrankfurter, WithMinInterval(time.Hour), WithTimeout(50*time.Millisecond))

	_, err := p.Fetch(context.Background())
	require.NoError(t, err)

	_, err = p.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}
