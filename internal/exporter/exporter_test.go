package exporter

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hostpulse/monitor/internal/catalog"
	"github.com/hostpulse/monitor/internal/registry"
)

func activatedRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	cat, err := catalog.New([]catalog.Entry{
		{
			Name: "cpu_usage_percentage", Help: "CPU usage in percentage",
			Sampler: catalog.SingleSampler("cpu_usage_percentage", func() (float64, error) { return 0, nil }),
		},
		{
			Name: "memory_usage_percentage", Help: "Memory usage in percentage",
			Sampler: catalog.SingleSampler("memory_usage_percentage", func() (float64, error) { return 0, nil }),
		},
	})
	require.NoError(t, err)
	reg := registry.New(cat, zap.NewNop().Sugar())
	require.NoError(t, reg.Activate([]string{"cpu_usage_percentage", "memory_usage_percentage"}))
	return reg
}

func TestMetricsEndpoint(t *testing.T) {
	reg := activatedRegistry(t)
	reg.Publish("cpu_usage_percentage", 37.5)

	srv := httptest.NewServer(Router(reg, zap.NewNop().Sugar()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "# HELP cpu_usage_percentage CPU usage in percentage")
	assert.Contains(t, string(body), "cpu_usage_percentage 37.5")
}

func TestReadingsListing(t *testing.T) {
	reg := activatedRegistry(t)
	reg.Publish("cpu_usage_percentage", 42)

	srv := httptest.NewServer(Router(reg, zap.NewNop().Sugar()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, "cpu_usage_percentage: 42\nmemory_usage_percentage: unset\n", string(body))
}

func TestHealthEndpoint(t *testing.T) {
	srv := httptest.NewServer(Router(activatedRegistry(t), zap.NewNop().Sugar()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpointGzip(t *testing.T) {
	reg := activatedRegistry(t)
	reg.Publish("cpu_usage_percentage", 12.5)

	srv := httptest.NewServer(Router(reg, zap.NewNop().Sugar()))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/metrics", nil)
	require.NoError(t, err)
	req.Header.Set("Accept-Encoding", "gzip")

	// Disable the transport's transparent decompression to observe the
	// encoding negotiated by the middleware.
	client := &http.Client{Transport: &http.Transport{DisableCompression: true}}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))
	zr, err := gzip.NewReader(resp.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Contains(t, string(body), "cpu_usage_percentage 12.5")
}

func TestStartReportsListenFailure(t *testing.T) {
	reg := activatedRegistry(t)

	bad := New("127.0.0.1:-1", reg, zap.NewNop().Sugar())
	select {
	case err, ok := <-bad.Start():
		require.True(t, ok)
		require.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a listen error")
	}
}

func TestShutdownClosesErrorChannel(t *testing.T) {
	reg := activatedRegistry(t)
	srv := New("127.0.0.1:0", reg, zap.NewNop().Sugar())
	errCh := srv.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	select {
	case err, ok := <-errCh:
		assert.False(t, ok, "clean shutdown must not deliver an error")
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("error channel not closed after shutdown")
	}
}
