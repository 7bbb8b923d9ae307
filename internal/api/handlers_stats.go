package api

import (
	"net/http"
)

type tableStats struct {
	Name    string `json:"name"`
	Entries int    `json:"entries"`
}

func (s *Server) handleGenerationStats(w http.ResponseWriter, r *http.Request) {
	if s.latency == nil {
		jsonError(w, "generation stats unavailable", http.StatusServiceUnavailable)
		return
	}

	tables := []tableStats{}
	for _, name := range s.catalog.Names() {
		if t, ok := s.catalog.Table(name); ok {
			tables = append(tables, tableStats{Name: name, Entries: t.Len()})
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"stats":           s.latency.Snapshot(),
		"active_sessions": s.sessions.Len(),
		"phrase_tables":   tables,
	})
}
