// Package http provides the HTTP server infrastructure.
// Clean Architecture: Framework/driver layer - outermost circle.
package http

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/klauspost/compress/gzhttp"

	"github.com/0xcro3dile/liufit-go/internal/adapters/i18n"
	"github.com/0xcro3dile/liufit-go/internal/adapters/report"
	"github.com/0xcro3dile/liufit-go/internal/domain/entities"
	"github.com/0xcro3dile/liufit-go/internal/domain/ports"
	"github.com/0xcro3dile/liufit-go/internal/domain/usecases"
)

//go:embed templates/*
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Server is the HTTP server for the fitting form and its JSON API.
type Server struct {
	analyze   *usecases.AnalyzeUseCase
	catalog   *i18n.Catalog
	chart     ports.ChartRenderer
	exporter  ports.ResultExporter
	templates *template.Template
	maxUpload int64
	addr      string
}

// NewServer creates a new HTTP server.
func NewServer(
	analyze *usecases.AnalyzeUseCase,
	catalog *i18n.Catalog,
	chart ports.ChartRenderer,
	exporter ports.ResultExporter,
	maxUpload int64,
	addr string,
) (*Server, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	return &Server{
		analyze:   analyze,
		catalog:   catalog,
		chart:     chart,
		exporter:  exporter,
		templates: tmpl,
		maxUpload: maxUpload,
		addr:      addr,
	}, nil
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	staticContent, _ := fs.Sub(staticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticContent))))

	// UI
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /fit", s.handleFit)
	mux.HandleFunc("GET /chart/{file}", s.handleChart)
	mux.HandleFunc("GET /export/{file}", s.handleExport)

	// API
	mux.HandleFunc("POST /api/fit", s.handleAPIFit)
	mux.HandleFunc("GET /api/health", s.handleHealth)

	return gzhttp.GzipHandler(requestIDMiddleware(loggingMiddleware(corsMiddleware(mux))))
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("[INFO] liufit server starting on %s", s.addr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Example measurement shown on a fresh form.
const (
	defaultEnergy   = "10, 15, 22, 33, 50, 75, 110"
	defaultDiameter = "4.1, 5.3, 6.0, 7.0, 8.1, 9.2, 10.1"
)

// pageData feeds templates/index.html.
type pageData struct {
	Tr        *i18n.Translator
	Lang      string
	OtherLang string
	Energy    string
	Diameter  string
	Error     string
	Report    *report.Report
	ResultID  string
}

func (s *Server) newPage(tr *i18n.Translator) pageData {
	other := i18n.LangEN
	if tr.Lang() == i18n.LangEN {
		other = i18n.LangZH
	}
	return pageData{Tr: tr, Lang: tr.Lang(), OtherLang: other}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := s.newPage(s.translator(r, r.URL.Query().Get("lang")))
	page.Energy, page.Diameter = defaultEnergy, defaultDiameter
	s.render(w, http.StatusOK, page)
}

// handleFit runs one fit from the form and renders either the results or
// the form with an error message.
func (s *Server) handleFit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	parseErr := r.ParseMultipartForm(s.maxUpload)
	if errors.Is(parseErr, http.ErrNotMultipart) {
		parseErr = nil
	}

	tr := s.translator(r, r.FormValue("lang"))
	page := s.newPage(tr)
	page.Energy = r.FormValue("energy")
	page.Diameter = r.FormValue("diameter")

	if parseErr != nil {
		var tooLarge *http.MaxBytesError
		status := http.StatusBadRequest
		if errors.As(parseErr, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		page.Error = report.ErrorMessage(
			entities.NewValidationError(entities.ReasonUnparsable, "%v", parseErr), tr)
		s.render(w, status, page)
		return
	}

	req := usecases.AnalyzeRequest{
		EnergyText:   page.Energy,
		DiameterText: page.Diameter,
	}
	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			page.Error = report.ErrorMessage(
				entities.NewValidationError(entities.ReasonUnparsable, "%v", err), tr)
			s.render(w, http.StatusBadRequest, page)
			return
		}
		req.Upload = data
		req.UploadName = header.Filename
	}

	result, err := s.analyze.Analyze(r.Context(), req)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Printf("[ERROR] fit failed: %v", err)
		}
		page.Error = report.ErrorMessage(err, tr)
		s.render(w, status, page)
		return
	}

	rep := report.Build(result, tr)
	page.Report = &rep
	page.ResultID = result.ID
	s.render(w, http.StatusOK, page)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	result, ok := s.lookup(r, ".png")
	if !ok {
		http.NotFound(w, r)
		return
	}

	img, err := s.chart.Render(result, s.translator(r, r.URL.Query().Get("lang")))
	if err != nil {
		log.Printf("[ERROR] rendering chart %s: %v", result.ID, err)
		http.Error(w, "chart rendering failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", s.chart.ContentType())
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.Write(img)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	result, ok := s.lookup(r, s.exporter.Extension())
	if !ok {
		http.NotFound(w, r)
		return
	}

	var buf bytes.Buffer
	if err := s.exporter.Export(&buf, result, s.translator(r, r.URL.Query().Get("lang"))); err != nil {
		log.Printf("[ERROR] exporting %s: %v", result.ID, err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", s.exporter.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="liu-fit-%s%s"`, result.ID, s.exporter.Extension()))
	w.Write(buf.Bytes())
}

// lookup resolves the {file} path value, which must carry ext.
func (s *Server) lookup(r *http.Request, ext string) (*entities.FitResult, bool) {
	file := r.PathValue("file")
	id, found := strings.CutSuffix(file, ext)
	if !found || id == "" {
		return nil, false
	}
	return s.analyze.Lookup(r.Context(), id)
}

type fitRequest struct {
	Energy   []float64 `json:"energy"`
	Diameter []float64 `json:"diameter"`
}

type samplePayload struct {
	Energy   float64 `json:"energy"`
	Diameter float64 `json:"diameter"`
}

type pointPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type fitResponse struct {
	ID               string          `json:"id"`
	Slope            float64         `json:"slope"`
	Intercept        float64         `json:"intercept"`
	RSquared         float64         `json:"r_squared"`
	ThresholdEnergy  float64         `json:"threshold_energy"`
	BeamWaist        float64         `json:"beam_waist"`
	ThresholdFluence float64         `json:"threshold_fluence"`
	Samples          []samplePayload `json:"samples"`
	Transformed      []pointPayload  `json:"transformed"`
	FitLine          []pointPayload  `json:"fit_line"`
	ChartURL         string          `json:"chart_url"`
	ExportURL        string          `json:"export_url"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func (s *Server) handleAPIFit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	var req fitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, entities.NewValidationError(entities.ReasonUnparsable, "request body: %v", err))
		return
	}

	result, err := s.analyze.AnalyzeSeries(r.Context(), req.Energy, req.Diameter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newFitResponse(result, s.exporter.Extension()))
}

func newFitResponse(result *entities.FitResult, exportExt string) fitResponse {
	resp := fitResponse{
		ID:               result.ID,
		Slope:            result.Slope,
		Intercept:        result.Intercept,
		RSquared:         result.RSquared,
		ThresholdEnergy:  result.ThresholdEnergy,
		BeamWaist:        result.BeamWaist,
		ThresholdFluence: result.ThresholdFluence,
		Samples:          make([]samplePayload, len(result.Samples)),
		Transformed:      make([]pointPayload, len(result.Transformed)),
		FitLine:          make([]pointPayload, len(result.FitLine)),
		ChartURL:         "/chart/" + result.ID + ".png",
		ExportURL:        "/export/" + result.ID + exportExt,
	}
	for i, p := range result.Samples {
		resp.Samples[i] = samplePayload{Energy: p.Energy, Diameter: p.Diameter}
	}
	for i, p := range result.Transformed {
		resp.Transformed[i] = pointPayload{X: p.X, Y: p.Y}
	}
	for i, p := range result.FitLine {
		resp.FitLine[i] = pointPayload{X: p.X, Y: p.Y}
	}
	return resp
}

type healthResponse struct {
	Status        string `json:"status"`
	CachedResults int    `json:"cached_results"`
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", CachedResults: s.analyze.CachedResults()})
}

func (s *Server) translator(r *http.Request, explicit string) *i18n.Translator {
	return s.catalog.Negotiate(explicit, r.Header.Get("Accept-Language"))
}

// render executes the page into a buffer so template errors never leave a
// half-written response.
func (s *Server) render(w http.ResponseWriter, status int, page pageData) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index.html", page); err != nil {
		log.Printf("[ERROR] rendering page: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func statusFor(err error) int {
	switch {
	case entities.IsValidation(err):
		return http.StatusBadRequest
	case entities.IsNumeric(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	kind := "internal"
	switch status {
	case http.StatusBadRequest:
		kind = "validation"
	case http.StatusUnprocessableEntity:
		kind = "numeric"
	default:
		log.Printf("[ERROR] api fit: %v", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
