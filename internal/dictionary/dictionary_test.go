package dictionary

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard).Level(zerolog.Disabled)
}

func newDictionaryServer(t *testing.T, known ...string) *httptest.Server {
	t.Helper()
	words := make(map[string]bool, len(known))
	for _, w := range known {
		words[w] = true
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		word := strings.TrimPrefix(r.URL.Path, "/api/v2/entries/en/")
		switch {
		case word == "boom":
			w.WriteHeader(http.StatusInternalServerError)
		case words[word]:
			_, _ = w.Write([]byte(`[{"word":"` + word + `"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPClientExists(t *testing.T) {
	srv := newDictionaryServer(t, "bagel")
	c := NewHTTPClient(srv.URL)

	ok, err := c.Exists(context.Background(), " Bagel ")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Exists(context.Background(), "bxqz")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = c.Exists(context.Background(), "boom")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPClientShortWordsSkipNetwork(t *testing.T) {
	c := NewHTTPClient("http://127.0.0.1:1")
	ok, err := c.Exists(context.Background(), "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHTTPClientUnreachable(t *testing.T) {
	c := NewHTTPClient("http://127.0.0.1:1", WithTimeout(200*time.Millisecond))
	_, err := c.Exists(context.Background(), "bagel")
	require.ErrorIs(t, err, ErrUnavailable)
	assert.False(t, Confirm(context.Background(), c, "bagel", testLogger()))
}

func TestConfirmTreatsErrorsAsInvalid(t *testing.T) {
	failing := LookupFunc(func(context.Context, string) (bool, error) {
		return true, errors.New("flaky")
	})
	assert.False(t, Confirm(context.Background(), failing, "bagel", testLogger()))
	assert.False(t, Confirm(context.Background(), Offline{}, "bagel", testLogger()))
	assert.True(t, Confirm(context.Background(), NewStatic("Bagel"), "bagel", testLogger()))
}

func TestStaticHonoursCancellation(t *testing.T) {
	s := NewStatic("bagel")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Exists(ctx, "bagel")
	require.ErrorIs(t, err, context.Canceled)
}

func TestMetricsInstrument(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	l := m.Instrument(NewStatic("bagel"))

	_, _ = l.Exists(context.Background(), "bagel")
	_, _ = l.Exists(context.Background(), "bxqz")
	_, _ = m.Instrument(Offline{}).Exists(context.Background(), "bagel")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.lookups.WithLabelValues("exists")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.lookups.WithLabelValues("missing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.lookups.WithLabelValues("error")))
}

// Integration-style test: runs only if REDIS_ADDR env is set.
func TestRedisCacheIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	ctx := context.Background()
	client, err := DialRedis(ctx, addr, os.Getenv("REDIS_PASSWORD"), 0)
	require.NoError(t, err)
	defer client.Close()

	word := "bagel-" + time.Now().Format("150405.000000")
	client.Del(ctx, cachePrefix+Normalize(word))

	backend := NewStatic(word)
	cache := NewRedisCache(backend, client, time.Minute, testLogger())

	for i := 0; i < 3; i++ {
		ok, err := cache.Exists(ctx, word)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	assert.Equal(t, 1, backend.Calls())
}
