package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ChicagoDave/floorplanner/internal/pipeline"
	"github.com/ChicagoDave/floorplanner/pkg/floorplan"
	"github.com/ChicagoDave/floorplanner/pkg/logger"
	"github.com/ChicagoDave/floorplanner/pkg/scene"
)

// Server is the local development server for interactive design.
type Server struct {
	projectPath string
	port        int
	log         *logrus.Entry

	mu     sync.Mutex
	latest *pipeline.Result
}

// New creates a server for the given project directory.
func New(projectPath string, port int) *Server {
	return &Server{
		projectPath: projectPath,
		port:        port,
		log:         logger.For("server"),
	}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/plan", s.handlePlan)
	mux.HandleFunc("GET /api/scene", s.handleScene)
	mux.HandleFunc("GET /api/geojson", s.handleGeoJSON)
	mux.HandleFunc("GET /api/topology", s.handleTopology)
	mux.HandleFunc("GET /api/validation", s.handleValidation)
	mux.HandleFunc("GET /api/spec", s.handleSpec)
	mux.HandleFunc("POST /api/generate", s.handleGenerate)
	mux.HandleFunc("GET /{$}", s.handleIndex)

	return mux
}

// Start launches the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.log.WithFields(logrus.Fields{
		"addr":    "http://localhost" + addr,
		"project": s.projectPath,
	}).Info("floorplanner server starting")

	return http.ListenAndServe(addr, s.Handler())
}

// result returns the building for the request's ?seed=, or the most recent
// one when no seed is given. A fresh seed is drawn on first use.
func (s *Server) result(r *http.Request) (*pipeline.Result, int, error) {
	seed, err := parseSeed(r)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seed == 0 && s.latest != nil {
		return s.latest, http.StatusOK, nil
	}
	res, status, err := s.generate(seed)
	if err != nil {
		return nil, status, err
	}
	if seed == 0 {
		s.latest = res
	}
	return res, http.StatusOK, nil
}

// generate reloads the spec so edits show up without a restart.
func (s *Server) generate(seed int64) (*pipeline.Result, int, error) {
	spec, report, err := pipeline.LoadAndValidate(s.projectPath)
	if err != nil {
		return nil, http.StatusInternalServerError, err
	}
	if !report.Valid {
		return nil, http.StatusUnprocessableEntity, fmt.Errorf("spec has validation errors: %s", report.FirstError())
	}
	res, err := pipeline.Run(spec, floorplan.ResolveSeed(seed, spec.Seed))
	if err != nil {
		return nil, http.StatusUnprocessableEntity, err
	}
	return res, http.StatusOK, nil
}

func parseSeed(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("seed")
	if raw == "" {
		return 0, nil
	}
	seed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid seed %q: %w", raw, err)
	}
	return seed, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html><head><title>Floorplanner</title></head>
<body style="margin:0;background:#111;color:#fff;font-family:system-ui;display:flex;align-items:center;justify-content:center;height:100vh">
<div style="text-align:center">
<h1>Floorplanner</h1>
<p>Try <code>/api/plan</code>, <code>/api/geojson</code> or <code>POST /api/generate</code>.</p>
</div>
</body></html>`)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, func(res *pipeline.Result) any { return res.Plan })
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, func(res *pipeline.Result) any { return res.Scene })
}

func (s *Server) handleGeoJSON(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, func(res *pipeline.Result) any { return scene.GeoJSON(res.Plan) })
}

func (s *Server) handleTopology(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, func(res *pipeline.Result) any { return res.Topology })
}

func (s *Server) handleValidation(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, func(res *pipeline.Result) any { return res.Report })
}

func (s *Server) handleSpec(w http.ResponseWriter, _ *http.Request) {
	spec, report, err := pipeline.LoadAndValidate(s.projectPath)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"spec":       spec,
		"validation": report,
	})
}

// handleGenerate always builds a new building and makes it the latest.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	seed, err := parseSeed(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	res, status, err := s.generate(seed)
	if err == nil {
		s.latest = res
	}
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, status, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"seed":       res.Seed,
		"rooms":      len(res.Plan.Root.Rooms()),
		"leaves":     len(res.Plan.Leaves()),
		"unassigned": len(res.Plan.Unassigned),
		"validation": res.Report,
	})
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request, pick func(*pipeline.Result) any) {
	res, status, err := s.result(r)
	if err != nil {
		s.writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, pick(res))
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.log.WithError(err).WithField("status", status).Warn("request failed")
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
