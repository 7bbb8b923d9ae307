package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/reportgen/internal/assemble"
	"github.com/dgallion1/reportgen/internal/report"
)

type generateRequest struct {
	Shorthand  string `json:"shorthand_text"`
	ReportType string `json:"report_type"`
}

func (s *Server) generate(reportType, shorthand string) (report.Generation, error) {
	start := time.Now()
	gen, err := report.Generate(s.catalog, reportType, shorthand)
	if err != nil {
		return gen, err
	}
	if s.latency != nil {
		s.latency.Observe(start)
	}
	return gen, nil
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !decodeBody(w, r, s.cfg.MaxUploadBytes, &req) {
		return
	}
	gen, err := s.generate(req.ReportType, req.Shorthand)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, gen)
}

func (s *Server) handleGenerateUpload(w http.ResponseWriter, r *http.Request) {
	up, ok := s.readUpload(w, r, true)
	if !ok {
		return
	}
	gen, err := s.generate(string(up.reportType), up.shorthand)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"filename":         up.filename,
		"shorthand_text":   up.shorthand,
		"report_type":      gen.ReportType,
		"report_text":      gen.Text,
		"line_mappings":    gen.LineMappings,
		"validation_notes": gen.Notes,
	})
}

type validateResponse struct {
	IsValid      bool            `json:"is_valid"`
	InvalidCodes []string        `json:"invalid_codes"`
	Notes        []assemble.Note `json:"notes"`
}

// handleValidate reports unresolved codes and malformed spans without
// returning the report body.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !decodeBody(w, r, s.cfg.MaxUploadBytes, &req) {
		return
	}
	gen, err := s.generate(req.ReportType, req.Shorthand)
	if err != nil {
		writeError(w, err)
		return
	}

	invalid := assemble.UnresolvedTokens(gen.Notes)
	if invalid == nil {
		invalid = []string{}
	}
	valid := len(invalid) == 0
	for _, n := range gen.Notes {
		if n.IsWarning() {
			valid = false
		}
	}
	writeJSON(w, http.StatusOK, validateResponse{
		IsValid:      valid,
		InvalidCodes: invalid,
		Notes:        gen.Notes,
	})
}

func (s *Server) handlePhrases(w http.ResponseWriter, r *http.Request) {
	rt, err := report.ParseReportType(chi.URLParam(r, "reportType"))
	if err != nil {
		writeError(w, err)
		return
	}
	table, ok := s.catalog.Table(string(rt))
	if !ok {
		jsonError(w, "no phrase table loaded for "+string(rt), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"report_type": rt,
		"count":       table.Len(),
		"entries":     table.Entries(),
	})
}
