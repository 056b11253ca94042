package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doGet(ctx context.Context, c *RateLimitedHTTPClient, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, req)
}

func TestClientConcurrentUse(t *testing.T) {
	var requests sync.Map
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Store(r.URL.Path, true)
		w.WriteHeader(http.StatusOK)
	})
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 10000
	client := NewRateLimitedHTTPClient(cfg, quietLog())

	// One shared client serves the three legs of a comparison at once,
	// many comparisons at a time.
	var wg sync.WaitGroup
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		for _, leg := range []string{"/current", "/comparison", "/benchmark"} {
			wg.Add(1)
			go func(path string) {
				defer wg.Done()
				resp, err := doGet(ctx, client, server.URL+path)
				if err == nil {
					resp.Body.Close()
				}
				client.IsOpen()
			}(leg)
		}
	}
	wg.Wait()

	assert.False(t, client.IsOpen())
	for _, leg := range []string{"/current", "/comparison", "/benchmark"} {
		_, seen := requests.Load(leg)
		assert.True(t, seen, "expected a request on %s", leg)
	}
}

func TestCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RetryWaitMin = time.Millisecond
	cfg.RetryWaitMax = time.Millisecond
	cfg.RateLimit = 10000
	cfg.CircuitBreakerMax = 3
	client := NewRateLimitedHTTPClient(cfg, quietLog())

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := doGet(ctx, client, server.URL+"/funds/x/nav-history")
			if err == nil {
				resp.Body.Close()
			}
		}()
	}
	wg.Wait()

	assert.True(t, client.IsOpen())

	// An open breaker rejects without touching the network
	_, err := doGet(ctx, client, server.URL+"/funds/x/nav-history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker open")

	client.Reset()
	assert.False(t, client.IsOpen())
}

func TestCircuitBreakerSuccessClearsFailureCount(t *testing.T) {
	fail := true
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RetryWaitMin = time.Millisecond
	cfg.RetryWaitMax = time.Millisecond
	cfg.RateLimit = 10000
	cfg.CircuitBreakerMax = 3
	client := NewRateLimitedHTTPClient(cfg, quietLog())

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if resp, err := doGet(ctx, client, server.URL); err == nil {
			resp.Body.Close()
		}
	}
	require.False(t, client.IsOpen())

	fail = false
	resp, err := doGet(ctx, client, server.URL)
	require.NoError(t, err)
	resp.Body.Close()

	fail = true
	for i := 0; i < 2; i++ {
		if resp, err := doGet(ctx, client, server.URL); err == nil {
			resp.Body.Close()
		}
	}
	assert.False(t, client.IsOpen(), "success should have reset the failure streak")
}
