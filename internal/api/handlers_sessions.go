package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/reportgen/internal/session"
)

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !decodeBody(w, r, s.cfg.MaxUploadBytes, &req) {
		return
	}
	sess, err := s.sessions.Create(req.ReportType, req.Shorthand)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(chi.URLParam(r, "sessionID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type shorthandRequest struct {
	Shorthand string `json:"shorthand_text"`
}

// handleRegenerate applies new shorthand synchronously, carrying captured
// edits onto the regenerated report.
func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req shorthandRequest
	if !decodeBody(w, r, s.cfg.MaxUploadBytes, &req) {
		return
	}
	writeJSON(w, http.StatusOK, sess.Regenerate(req.Shorthand))
}

// handleDraft queues shorthand for debounced regeneration.
func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req shorthandRequest
	if !decodeBody(w, r, s.cfg.MaxUploadBytes, &req) {
		return
	}
	sess.Draft(req.Shorthand)
	writeJSON(w, http.StatusAccepted, map[string]any{
		"session_id":  sess.ID,
		"debounce_ms": s.cfg.RegenDebounce.Milliseconds(),
	})
}

func (s *Server) handleRegenerateUpload(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	up, ok := s.readUpload(w, r, false)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Regenerate(up.shorthand))
}

type editRequest struct {
	Editing bool `json:"editing"`
}

func (s *Server) handleToggleEdit(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req editRequest
	if !decodeBody(w, r, s.cfg.MaxUploadBytes, &req) {
		return
	}
	writeJSON(w, http.StatusOK, sess.SetEditing(req.Editing))
}

type textRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleSubmitText(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req textRequest
	if !decodeBody(w, r, s.cfg.MaxUploadBytes, &req) {
		return
	}
	snap, err := sess.SubmitText(req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
