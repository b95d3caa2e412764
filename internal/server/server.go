// Package server exposes pole computation and stored results over HTTP.
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/cartoview/polylabel/internal/ingest"
	"github.com/cartoview/polylabel/internal/store"
	"github.com/cartoview/polylabel/pkg/polylabel"
)

const maxBodyBytes = 10 << 20

// Server handles label computation requests.
type Server struct {
	store     *store.SQLiteStore
	tolerance float64
	origins   []string
}

// New creates a Server. store may be nil, in which case results are
// computed but never persisted and /v1/labels reports an empty list.
func New(st *store.SQLiteStore, defaultTolerance float64, allowedOrigins []string) *Server {
	return &Server{store: st, tolerance: defaultTolerance, origins: allowedOrigins}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/label", s.handleLabel)
		r.Get("/labels", s.handleListLabels)
	})

	return r
}

// handleLabel computes poles for the GeoJSON polygons in the request
// body. Unparseable input is a 400; geometry the core rejects
// (degenerate rings, bad tolerance) is a 422 with a structured error
// body — the caller never sees a NaN or sentinel coordinate.
func (s *Server) handleLabel(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read request body")
		return
	}

	tolerance := s.tolerance
	if raw := r.URL.Query().Get("tolerance"); raw != "" {
		tolerance, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "tolerance must be a number")
			return
		}
	}

	features, err := ingest.DecodeGeoJSON(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, eris.Cause(err).Error())
		return
	}
	if len(features) == 0 {
		writeError(w, http.StatusBadRequest, "no polygon features in request")
		return
	}

	labels := make([]polylabel.Label, 0, len(features))
	for _, f := range features {
		label, err := polylabel.FindPole(f.Polygon, tolerance)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, eris.Cause(err).Error())
			return
		}
		labels = append(labels, label)
	}

	if source := r.URL.Query().Get("save"); source != "" && s.store != nil {
		for i, l := range labels {
			_, err := s.store.SaveLabel(r.Context(), store.LabelRecord{
				Name:      features[i].Name,
				Source:    source,
				X:         l.X,
				Y:         l.Y,
				Distance:  l.Distance,
				Tolerance: tolerance,
			})
			if err != nil {
				zap.L().Error("server: save label", zap.String("name", features[i].Name), zap.Error(err))
				writeError(w, http.StatusInternalServerError, "save label")
				return
			}
		}
	}

	out, err := ingest.PointCollection(features, labels, tolerance)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encode result")
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (s *Server) handleListLabels(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusOK, []store.LabelRecord{})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	recs, err := s.store.ListLabels(r.Context(), r.URL.Query().Get("source"), limit)
	if err != nil {
		zap.L().Error("server: list labels", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list labels")
		return
	}
	if recs == nil {
		recs = []store.LabelRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
