package report

import (
	"github.com/dgallion1/reportgen/internal/assemble"
	"github.com/dgallion1/reportgen/internal/overlay"
)

// State is one report's full editing state. Transitions return a new State
// and never modify the receiver's maps or slices, so a host can keep the old
// value until it swaps in the new one.
type State struct {
	ReportType ReportType
	Shorthand  string
	Version    int // number of assemblies so far

	Baseline     string // last assembled text, before overlay
	CurrentText  string // text shown in view mode
	EditableText string // in-flight buffer while editing
	Mode         Mode

	LineMappings []assemble.LineMapping
	Overlay      overlay.Overlay
	Additions    []overlay.ManualAddition
	Notes        []assemble.Note

	// References the last reconciliation could not place.
	Stale    []overlay.EditEntry
	Orphaned []overlay.ManualAddition
}

// New assembles shorthand into a fresh view-mode state with no edits.
func New(asm *assemble.Assembler, rt ReportType, shorthand string) State {
	res := asm.Assemble(shorthand)
	return State{
		ReportType:   rt,
		Shorthand:    shorthand,
		Version:      1,
		Baseline:     res.Text,
		CurrentText:  res.Text,
		EditableText: res.Text,
		Mode:         ModeView,
		LineMappings: res.Mappings,
		Overlay:      overlay.Overlay{},
		Notes:        res.Notes,
	}
}

// EnterEdit starts an edit session from the current text.
func (s State) EnterEdit() State {
	if s.Mode == ModeEdit {
		return s
	}
	s.Mode = ModeEdit
	s.EditableText = s.CurrentText
	return s
}

// UpdateEditable replaces the in-flight buffer.
func (s State) UpdateEditable(text string) (State, error) {
	if s.Mode != ModeEdit {
		return s, ErrNotEditing
	}
	s.EditableText = text
	return s, nil
}

// ExitEdit captures the buffer's edits into the overlay and returns to view
// mode with the buffer as the current text.
func (s State) ExitEdit() State {
	if s.Mode != ModeEdit {
		return s
	}
	s.Overlay, s.Additions = s.CaptureEdits()
	s.CurrentText = s.EditableText
	s.Mode = ModeView
	return s
}

// SetEditing applies the toggle-edit-mode event.
func (s State) SetEditing(editing bool) State {
	if editing {
		return s.EnterEdit()
	}
	return s.ExitEdit()
}

// CaptureEdits returns the overlay and additions that should survive the next
// baseline swap. While editing they are detected from the in-flight buffer
// against the last baseline; in view mode the carried values are returned.
func (s State) CaptureEdits() (overlay.Overlay, []overlay.ManualAddition) {
	if s.Mode != ModeEdit {
		return s.Overlay, s.Additions
	}
	return overlay.DetectEdits(s.Baseline, s.EditableText, s.LineMappings)
}

// Regenerate assembles new shorthand and reapplies the captured edits. Pending
// edits in an open edit session are captured before the old baseline is
// dropped; the edit session then restarts from the reconciled text.
func (s State) Regenerate(asm *assemble.Assembler, shorthand string) State {
	ov, adds := s.CaptureEdits()

	res := asm.Assemble(shorthand)
	rec := overlay.Reconcile(res.Text, ov, adds)

	return State{
		ReportType:   s.ReportType,
		Shorthand:    shorthand,
		Version:      s.Version + 1,
		Baseline:     res.Text,
		CurrentText:  rec.Text,
		EditableText: rec.Text,
		Mode:         s.Mode,
		LineMappings: res.Mappings,
		Overlay:      ov,
		Additions:    adds,
		Notes:        res.Notes,
		Stale:        rec.Stale,
		Orphaned:     rec.Orphaned,
	}
}
