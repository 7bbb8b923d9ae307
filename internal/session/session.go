package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/reportgen/internal/assemble"
	"github.com/dgallion1/reportgen/internal/overlay"
	"github.com/dgallion1/reportgen/internal/report"
	"github.com/dgallion1/reportgen/internal/stats"
)

// Session owns one report.State and is its only writer. Every operation
// computes the next State from the current one and swaps it in under mu.
type Session struct {
	ID        string
	CreatedAt time.Time

	asm      *assemble.Assembler
	log      *slog.Logger
	latency  *stats.Latency
	debounce time.Duration

	mu        sync.Mutex
	state     report.State
	updatedAt time.Time

	// Debounced draft regeneration.
	timer   *time.Timer
	draft   string
	pending bool
	closed  bool
}

type options struct {
	debounce time.Duration
	latency  *stats.Latency
	log      *slog.Logger
}

func newSession(id string, asm *assemble.Assembler, rt report.ReportType, shorthand string, opts options) *Session {
	now := time.Now()
	s := &Session{
		ID:        id,
		CreatedAt: now,
		asm:       asm,
		log:       opts.log.With("session_id", id),
		latency:   opts.latency,
		debounce:  opts.debounce,
		updatedAt: now,
	}
	start := time.Now()
	s.state = report.New(asm, rt, shorthand)
	s.observe(start)
	return s
}

// State returns the current state value.
func (s *Session) State() report.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedAt
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Regenerate assembles new shorthand immediately. Any pending draft is
// superseded.
func (s *Session) Regenerate(shorthand string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false
	if s.timer != nil {
		s.timer.Stop()
	}
	s.regenerateLocked(shorthand)
	return s.snapshotLocked()
}

// Draft schedules a regeneration once the shorthand stops changing for the
// debounce interval. Only the latest draft is assembled.
func (s *Session) Draft(shorthand string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.draft = shorthand
	s.pending = true
	s.updatedAt = time.Now()
	if s.timer == nil {
		s.timer = time.AfterFunc(s.debounce, s.onTimer)
		return
	}
	s.timer.Reset(s.debounce)
}

// Flush assembles a pending draft now, if there is one.
func (s *Session) Flush() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending {
		s.pending = false
		if s.timer != nil {
			s.timer.Stop()
		}
		s.regenerateLocked(s.draft)
	}
	return s.snapshotLocked()
}

func (s *Session) onTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !s.pending {
		return
	}
	s.pending = false
	s.regenerateLocked(s.draft)
}

// SetEditing handles the toggle-edit-mode event.
func (s *Session) SetEditing(editing bool) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.state.Mode
	s.state = s.state.SetEditing(editing)
	s.updatedAt = time.Now()
	if prev == report.ModeEdit && s.state.Mode == report.ModeView {
		s.log.Debug("edits captured", "overlay", len(s.state.Overlay), "additions", len(s.state.Additions))
	}
	return s.snapshotLocked()
}

// SubmitText replaces the in-flight edit buffer.
func (s *Session) SubmitText(text string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.state.UpdateEditable(text)
	if err != nil {
		return Snapshot{}, err
	}
	s.state = next
	s.updatedAt = time.Now()
	return s.snapshotLocked(), nil
}

// Close stops any pending draft timer.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.pending = false
	if s.timer != nil {
		s.timer.Stop()
	}
}

func (s *Session) regenerateLocked(shorthand string) {
	start := time.Now()
	s.state = s.state.Regenerate(s.asm, shorthand)
	s.updatedAt = time.Now()
	s.observe(start)

	for _, e := range s.state.Stale {
		s.log.Warn("edit no longer applies to regenerated report", "line", e.LineNumber, "source_code", e.SourceCode)
	}
	for _, a := range s.state.Orphaned {
		s.log.Warn("manual addition orphaned by regenerated report", "after_line", a.AfterLine)
	}
	s.log.Debug("report regenerated", "version", s.state.Version, "mode", s.state.Mode, "notes", len(s.state.Notes))
}

func (s *Session) observe(start time.Time) {
	if s.latency != nil {
		s.latency.Observe(start)
	}
}

// Snapshot is a JSON-safe copy of a session's state.
type Snapshot struct {
	ID           string                   `json:"session_id"`
	ReportType   report.ReportType        `json:"report_type"`
	Version      int                      `json:"version"`
	Mode         report.Mode              `json:"mode"`
	Shorthand    string                   `json:"shorthand_text"`
	Text         string                   `json:"report_text"`
	EditableText string                   `json:"editable_text"`
	LineMappings []assemble.LineMapping   `json:"line_mappings"`
	Overlay      []overlay.EditEntry      `json:"overlay"`
	Additions    []overlay.ManualAddition `json:"additions"`
	Notes        []assemble.Note          `json:"validation_notes"`
	DraftPending bool                     `json:"draft_pending"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

func (s *Session) snapshotLocked() Snapshot {
	st := s.state
	return Snapshot{
		ID:           s.ID,
		ReportType:   st.ReportType,
		Version:      st.Version,
		Mode:         st.Mode,
		Shorthand:    st.Shorthand,
		Text:         st.CurrentText,
		EditableText: st.EditableText,
		LineMappings: nonNil(st.LineMappings),
		Overlay:      st.Overlay.Lines(),
		Additions:    nonNil(st.Additions),
		Notes:        nonNil(st.Notes),
		DraftPending: s.pending,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.updatedAt,
	}
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
