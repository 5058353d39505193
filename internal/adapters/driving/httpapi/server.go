// Package httpapi exposes the scan history over a local JSON HTTP API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/custodia-labs/scanlog/internal/core/domain"
	"github.com/custodia-labs/scanlog/internal/core/ports/driving"
	"github.com/custodia-labs/scanlog/internal/logger"
)

// ErrMissingHistoryService is returned when the history service is not provided.
var ErrMissingHistoryService = errors.New("httpapi: history service is required")

// Server serves the history API. Connectivity and Gate are optional.
type Server struct {
	history      driving.HistoryService
	connectivity driving.ConnectivityService
	gate         driving.FeatureGate
}

// New creates a Server.
func New(history driving.HistoryService, connectivity driving.ConnectivityService, gate driving.FeatureGate) (*Server, error) {
	if history == nil {
		return nil, ErrMissingHistoryService
	}
	return &Server{history: history, connectivity: connectivity, gate: gate}, nil
}

// Routes returns a chi.Router with every endpoint mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.getHealthz)
	r.Get("/status", s.getStatus)
	r.Route("/history", func(r chi.Router) {
		r.Get("/", s.listHistory)
		r.Delete("/", s.clearHistory)
		r.Get("/{id}", s.getRecord)
		r.Delete("/{id}", s.removeRecord)
	})
	return r
}

// Run serves the API on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Record is the JSON shape of a scan record.
type Record struct {
	ID           string    `json:"id"`
	ContentType  string    `json:"contentType"`
	DisplayValue string    `json:"displayValue"`
	RawPayload   string    `json:"rawPayload"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Status is the JSON shape of GET /status.
type Status struct {
	Connectivity    string `json:"connectivity"`
	FeaturesEnabled bool   `json:"featuresEnabled"`
	Records         int    `json:"records"`
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) getHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getStatus(w http.ResponseWriter, _ *http.Request) {
	status := Status{
		Connectivity: domain.ConnectivityUnknown.String(),
		Records:      s.history.Snapshot().Len(),
	}
	if s.connectivity != nil {
		status.Connectivity = s.connectivity.State().String()
	}
	if s.gate != nil {
		status.FeaturesEnabled = s.gate.Enabled()
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) listHistory(w http.ResponseWriter, r *http.Request) {
	var filter domain.ContentType
	if t := r.URL.Query().Get("type"); t != "" {
		filter = domain.ContentType(strings.ToUpper(t))
		if !filter.IsValid() {
			writeError(w, http.StatusBadRequest, "unknown content type: "+t)
			return
		}
	}

	snapshot := s.history.Snapshot()
	records := make([]Record, 0, snapshot.Len())
	for i := range snapshot.Records {
		if filter != "" && snapshot.Records[i].ContentType != filter {
			continue
		}
		records = append(records, toRecord(snapshot.Records[i]))
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) getRecord(w http.ResponseWriter, r *http.Request) {
	record, err := s.history.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecord(*record))
}

func (s *Server) removeRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	removed, err := s.history.Remove(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "record not found: "+id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) clearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.history.Clear(r.Context()); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fail maps a service error onto a status code.
func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrStoreNotLoaded), errors.Is(err, domain.ErrStoreClosed):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		logger.Error("http: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func toRecord(r domain.ScanRecord) Record {
	return Record{
		ID:           r.ID,
		ContentType:  r.ContentType.String(),
		DisplayValue: r.DisplayValue,
		RawPayload:   r.RawPayload,
		CreatedAt:    r.CreatedAt.UTC(),
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorBody{Error: msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
