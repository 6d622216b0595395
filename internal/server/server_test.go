package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(New("../../examples/default-building", 0).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, method, url string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestPlanWithSeed(t *testing.T) {
	ts := newTestServer(t)

	var a, b map[string]any
	require.Equal(t, http.StatusOK, getJSON(t, http.MethodGet, ts.URL+"/api/plan?seed=9", &a))
	require.Equal(t, http.StatusOK, getJSON(t, http.MethodGet, ts.URL+"/api/plan?seed=9", &b))

	assert.Equal(t, float64(9), a["seed"])
	assert.Equal(t, a, b, "same seed should give the same plan")
	assert.Contains(t, a, "root")
}

func TestLatestIsCached(t *testing.T) {
	ts := newTestServer(t)

	var gen map[string]any
	require.Equal(t, http.StatusOK, getJSON(t, http.MethodPost, ts.URL+"/api/generate?seed=5", &gen))
	assert.Equal(t, float64(5), gen["seed"])

	var plan map[string]any
	require.Equal(t, http.StatusOK, getJSON(t, http.MethodGet, ts.URL+"/api/plan", &plan))
	assert.Equal(t, float64(5), plan["seed"])
}

func TestEndpoints(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		path string
		key  string
	}{
		{"/api/scene?seed=3", "entities"},
		{"/api/geojson?seed=3", "features"},
		{"/api/topology?seed=3", "adjacency"},
		{"/api/validation?seed=3", "summary"},
		{"/api/spec", "spec"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var out map[string]any
			require.Equal(t, http.StatusOK, getJSON(t, http.MethodGet, ts.URL+tt.path, &out))
			assert.Contains(t, out, tt.key)
		})
	}
}

func TestBadSeed(t *testing.T) {
	ts := newTestServer(t)

	var out map[string]string
	assert.Equal(t, http.StatusBadRequest, getJSON(t, http.MethodGet, ts.URL+"/api/plan?seed=abc", &out))
	assert.Contains(t, out["error"], "invalid seed")
}

func TestMissingProject(t *testing.T) {
	ts := httptest.NewServer(New("testdata/nowhere", 0).Handler())
	defer ts.Close()

	var out map[string]string
	assert.Equal(t, http.StatusInternalServerError, getJSON(t, http.MethodGet, ts.URL+"/api/plan", &out))
	assert.NotEmpty(t, out["error"])
}

func TestGenerateRequiresPost(t *testing.T) {
	ts := newTestServer(t)
	status := getJSON(t, http.MethodGet, ts.URL+"/api/generate", nil)
	assert.NotEqual(t, http.StatusOK, status)
}
