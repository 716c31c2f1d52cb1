// Package server exposes the budget engine over HTTP.
package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/movingout-dev/movingout/internal/budget"
	"github.com/movingout-dev/movingout/internal/constants"
	"github.com/movingout-dev/movingout/internal/model"
	"github.com/movingout-dev/movingout/internal/readiness"
	"github.com/movingout-dev/movingout/internal/schema"
)

const maxBodyBytes = 1 << 20

// Server handles budget and readiness requests.
type Server struct {
	schema *schema.Schema
	log    *logrus.Logger

	mu        sync.RWMutex
	constants *constants.Constants
}

// New creates a Server.
func New(c *constants.Constants, s *schema.Schema, log *logrus.Logger) *Server {
	return &Server{schema: s, log: log, constants: c}
}

// Constants returns the constants currently in use.
func (s *Server) Constants() *constants.Constants {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.constants
}

// SetConstants swaps in a new constants version for subsequent requests.
func (s *Server) SetConstants(c *constants.Constants) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.constants = c
}

// Router returns the HTTP handler with all routes registered.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/budget", s.budget).Methods(http.MethodPost)
	v1.HandleFunc("/readiness", s.readiness).Methods(http.MethodPost)
	v1.HandleFunc("/constants", s.getConstants).Methods(http.MethodGet)
	v1.HandleFunc("/schema", s.getSchema).Methods(http.MethodGet)
	return r
}

type budgetRequest struct {
	Inputs model.Inputs `json:"inputs"`
}

type budgetResponse struct {
	ConstantsVersion string              `json:"constants_version"`
	Derived          model.DerivedTotals `json:"derived"`
	Lines            []lineJSON          `json:"lines"`
	Violations       []string            `json:"violations,omitempty"`
}

type lineJSON struct {
	Category string `json:"category"`
	Item     string `json:"item"`
	Amount   string `json:"amount"`
}

func (s *Server) budget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if !s.decode(w, r, &req) {
		return
	}
	c := s.Constants()
	d := budget.Compute(req.Inputs, c)

	resp := budgetResponse{ConstantsVersion: c.ConstantsVersion, Derived: d}
	for _, l := range budget.Lines(d) {
		resp.Lines = append(resp.Lines, lineJSON{Category: l.Category, Item: l.Item, Amount: l.Amount.StringFixed(2)})
	}
	for _, v := range budget.Verify(d) {
		resp.Violations = append(resp.Violations, v.Error())
	}
	if len(resp.Violations) > 0 {
		s.log.WithField("violations", resp.Violations).Error("budget failed verification")
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type readinessRequest struct {
	Inputs      model.Inputs         `json:"inputs"`
	Reflections map[string]string    `json:"reflections"`
	Evidence    []model.EvidenceItem `json:"evidence"`
}

type readinessResponse struct {
	Derived           model.DerivedTotals  `json:"derived"`
	Flags             model.ReadinessFlags `json:"flags"`
	CompletionPercent int                  `json:"completion_percent"`
}

func (s *Server) readiness(w http.ResponseWriter, r *http.Request) {
	var req readinessRequest
	if !s.decode(w, r, &req) {
		return
	}
	c := s.Constants()
	sub := &model.Submission{
		Inputs:      req.Inputs,
		Reflections: req.Reflections,
		Derived:     budget.Compute(req.Inputs, c),
	}
	flags := readiness.Evaluate(s.schema, sub, req.Evidence, c)
	s.writeJSON(w, http.StatusOK, readinessResponse{
		Derived:           sub.Derived,
		Flags:             flags,
		CompletionPercent: readiness.CompletionPercent(s.schema, req.Inputs, flags, c),
	})
}

func (s *Server) getConstants(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Constants())
}

func (s *Server) getSchema(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.schema)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Warn("writing response")
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Info("request")
	})
}
