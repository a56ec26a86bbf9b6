package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantmart/storefront-gateway/internal/metrics"
)

func pathLabelValues(t *testing.T) []string {
	t.Helper()

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	var paths []string

	for _, family := range families {
		if family.GetName() != "http_requests_total" {
			continue
		}

		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "path" {
					paths = append(paths, label.GetValue())
				}
			}
		}
	}

	return paths
}

func TestMiddlewarePathLabels(t *testing.T) {
	// Arrange - the middleware wraps the chain outside the mux, exactly
	// as the server wires it
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/v1/cart/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := metrics.Middleware(mux, mux)

	// Act - distinct IDs must collapse into one series
	for _, itemID := range []string{"item-abc", "item-def", "item-xyz"} {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/"+itemID, nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	// Assert
	paths := pathLabelValues(t)
	assert.Contains(t, paths, "/api/v1/cart/items/{id}")

	for _, path := range paths {
		assert.NotContains(t, path, "item-abc")
		assert.NotContains(t, path, "item-def")
		assert.NotContains(t, path, "item-xyz")
	}
}

func TestMiddlewareStaticRouteLabel(t *testing.T) {
	// Arrange
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {})

	handler := metrics.Middleware(mux, mux)

	// Act - a routed static path and an unrouted one
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nonexistent", nil))

	// Assert - the method prefix is stripped from the pattern; unrouted
	// requests fall back to the raw path
	paths := pathLabelValues(t)
	assert.Contains(t, paths, "/health")
	assert.Contains(t, paths, "/nonexistent")
}
