package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cartoview/polylabel/internal/store"
)

func newTestServer(t *testing.T) (*Server, *store.SQLiteStore) {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return New(st, 0.1, []string{"*"}), st
}

const squareGeoJSON = `{
	"type": "Polygon",
	"coordinates": [[[0,0],[10,0],[10,10],[0,10],[0,0]]]
}`

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestLabelSquare(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/label", strings.NewReader(squareGeoJSON))
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))

	var out struct {
		Features []struct {
			Geometry struct {
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Features, 1)
	assert.InDelta(t, 5.0, out.Features[0].Geometry.Coordinates[0], 0.1)
	assert.InDelta(t, 5.0, out.Features[0].Geometry.Coordinates[1], 0.1)
	assert.InDelta(t, 5.0, out.Features[0].Properties["distance"].(float64), 0.1)
}

func TestLabelDegenerateGeometry(t *testing.T) {
	srv, _ := newTestServer(t)

	// Collinear exterior: zero-extent bounding box.
	body := `{"type": "Polygon", "coordinates": [[[0,0],[1,0],[2,0],[0,0]]]}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/label", strings.NewReader(body))
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Contains(t, out["error"], "degenerate")
}

func TestLabelBadTolerance(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/label?tolerance=-1", strings.NewReader(squareGeoJSON))
	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/v1/label?tolerance=abc", strings.NewReader(squareGeoJSON))
	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLabelMalformedBody(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/label", strings.NewReader(`{"type":`))
	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLabelSaveAndList(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/label?save=api", strings.NewReader(squareGeoJSON))
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/v1/labels?source=api", nil)
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var recs []store.LabelRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "api", recs[0].Source)
	assert.InDelta(t, 5.0, recs[0].Distance, 0.1)
}

func TestListLabelsBadLimit(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/labels?limit=-2", nil)
	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
