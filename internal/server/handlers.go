package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/stationflow/pkg/buildinfo"
	"github.com/matzehuels/stationflow/pkg/errors"
	sfio "github.com/matzehuels/stationflow/pkg/io"
	"github.com/matzehuels/stationflow/pkg/model"
	"github.com/matzehuels/stationflow/pkg/pathplan"
	"github.com/matzehuels/stationflow/pkg/pipeline"
)

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type arrangeRequest struct {
	Model     *sfio.Document `json:"model"`
	Mode      string         `json:"mode,omitempty"`
	Selection []int          `json:"selection,omitempty"`
	Start     *point         `json:"start,omitempty"`
	Refresh   bool           `json:"refresh,omitempty"`
}

type arrangeResponse struct {
	Result *pipeline.ArrangeResult `json:"result"`
	Model  sfio.Document           `json:"model"`
}

type planRequest struct {
	Model   *sfio.Document `json:"model"`
	DryRun  bool           `json:"dry_run,omitempty"`
	Refresh bool           `json:"refresh,omitempty"`
}

type planResponse struct {
	Result *pipeline.PlanResult `json:"result"`
	Model  sfio.Document        `json:"model"`
}

type segment struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type segmentsRequest struct {
	Model *sfio.Document `json:"model"`
}

type segmentsResponse struct {
	Segments   []segment `json:"segments"`
	Undeclared []string  `json:"undeclared,omitempty"`
}

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

// POST /v1/arrange
func (s *Server) arrange(w http.ResponseWriter, r *http.Request) {
	var req arrangeRequest
	if !s.decode(w, r, &req) {
		return
	}
	m, err := loadModel(req.Model)
	if err != nil {
		s.writeError(w, err)
		return
	}

	start := s.opts.Start
	if req.Start != nil {
		start = model.Point{X: req.Start.X, Y: req.Start.Y}
	}
	res, err := s.runner.Arrange(r.Context(), m, pipeline.ArrangeOptions{
		Mode:      req.Mode,
		Selection: req.Selection,
		Start:     &start,
		Layout:    s.opts.Layout,
		Refresh:   req.Refresh,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, arrangeResponse{Result: res, Model: sfio.ToDocument(m)})
}

// POST /v1/plan
func (s *Server) plan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if !s.decode(w, r, &req) {
		return
	}
	m, err := loadModel(req.Model)
	if err != nil {
		s.writeError(w, err)
		return
	}
	res, err := s.runner.Plan(r.Context(), m, pipeline.PlanOptions{DryRun: req.DryRun, Refresh: req.Refresh})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, planResponse{Result: res, Model: sfio.ToDocument(m)})
}

// POST /v1/segments
func (s *Server) segments(w http.ResponseWriter, r *http.Request) {
	var req segmentsRequest
	if !s.decode(w, r, &req) {
		return
	}
	m, err := loadModel(req.Model)
	if err != nil {
		s.writeError(w, err)
		return
	}
	b, undeclared := pathplan.FromModel(m)
	resp := segmentsResponse{Segments: []segment{}, Undeclared: undeclared}
	for _, seg := range b.Segments() {
		resp.Segments = append(resp.Segments, segment{From: seg.From.Name, To: seg.To.Name})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "invalid JSON body"))
		return false
	}
	return true
}

func loadModel(doc *sfio.Document) (*model.Model, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "model is required")
	}
	return sfio.FromDocument(*doc)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.DetailedMessage(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: msg}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
