package overlay

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dgallion1/reportgen/internal/assemble"
)

func text(ls ...string) string {
	return strings.Join(ls, "\n")
}

func TestDetectEdits_NoChanges(t *testing.T) {
	for _, s := range []string{"", "A", text("A", "B", "C")} {
		ov, adds := DetectEdits(s, s, nil)
		if ov == nil || len(ov) != 0 {
			t.Errorf("%q: expected empty overlay, got %v", s, ov)
		}
		if adds != nil {
			t.Errorf("%q: expected no additions, got %v", s, adds)
		}
		if got := ApplyOverlay(s, ov, adds); got != s {
			t.Errorf("%q: empty overlay should be a no-op, got %q", s, got)
		}
	}
}

func TestDetectEdits_ChangedAndAdded(t *testing.T) {
	mappings := []assemble.LineMapping{
		{LineNumber: 1, SourceCode: "MM0", OriginalText: "A"},
		{LineNumber: 2, SourceCode: "G2", OriginalText: "B"},
		{LineNumber: 3, SourceCode: "", OriginalText: "C"},
	}
	ov, adds := DetectEdits(text("A", "B", "C"), text("A", "X", "C", "D", "F"), mappings)

	wantOv := Overlay{2: {LineNumber: 2, OriginalText: "B", EditedText: "X", SourceCode: "G2"}}
	if diff := cmp.Diff(wantOv, ov); diff != "" {
		t.Errorf("overlay mismatch (-want +got):\n%s", diff)
	}
	wantAdds := []ManualAddition{{AfterLine: 3, Text: "D"}, {AfterLine: 3, Text: "F"}}
	if diff := cmp.Diff(wantAdds, adds); diff != "" {
		t.Errorf("additions mismatch (-want +got):\n%s", diff)
	}
}

func TestDetectEdits_RemovedLinesDropped(t *testing.T) {
	ov, adds := DetectEdits(text("A", "B", "C"), text("A", "B"), nil)
	if len(ov) != 0 || len(adds) != 0 {
		t.Errorf("expected trailing deletion to leave no trace, got %v %v", ov, adds)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name             string
		original, edited string
	}{
		{"one line changed", text("A", "B", "C"), text("A", "b", "C")},
		{"every line changed", text("A", "B"), text("1", "2")},
		{"lines added", text("A", "B"), text("A", "B", "C", "D")},
		{"changed and added", text("A", "", "C"), text("A", "note", "C", "", "D")},
		{"identical", text("A", "B"), text("A", "B")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ov, adds := DetectEdits(tt.original, tt.edited, nil)
			if got := ApplyOverlay(tt.original, ov, adds); got != tt.edited {
				t.Errorf("expected %q, got %q", tt.edited, got)
			}
		})
	}
}

func TestReconcile_RegeneratedBaseline(t *testing.T) {
	// Edit B to X and type D after the last line, then the shorthand grows
	// by one line E.
	ov, adds := DetectEdits(text("A", "B", "C"), text("A", "X", "C", "D"), nil)
	rec := Reconcile(text("A", "B", "C", "E"), ov, adds)

	if want := text("A", "X", "C", "E", "D"); rec.Text != want {
		t.Errorf("expected %q, got %q", want, rec.Text)
	}
	if rec.Stale != nil || rec.Orphaned != nil {
		t.Errorf("expected nothing stale or orphaned, got %v %v", rec.Stale, rec.Orphaned)
	}
}

func TestReconcile_AdditionsKeepOrder(t *testing.T) {
	adds := []ManualAddition{{AfterLine: 2, Text: "first"}, {AfterLine: 2, Text: "second"}, {AfterLine: 2, Text: "third"}}
	got := ApplyOverlay(text("A", "B"), Overlay{}, adds)
	if want := text("A", "B", "first", "second", "third"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestReconcile_StaleAndOrphaned(t *testing.T) {
	ov := Overlay{
		1: {LineNumber: 1, OriginalText: "A", EditedText: "a"},
		5: {LineNumber: 5, OriginalText: "E", EditedText: "e"},
	}
	adds := []ManualAddition{{AfterLine: 2, Text: "kept"}, {AfterLine: 7, Text: "lost"}}

	rec := Reconcile(text("A", "B"), ov, adds)

	if want := text("a", "B", "kept"); rec.Text != want {
		t.Errorf("expected %q, got %q", want, rec.Text)
	}
	if diff := cmp.Diff([]EditEntry{ov[5]}, rec.Stale); diff != "" {
		t.Errorf("stale mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]ManualAddition{{AfterLine: 7, Text: "lost"}}, rec.Orphaned); diff != "" {
		t.Errorf("orphaned mismatch (-want +got):\n%s", diff)
	}
	// Inputs are reported, never modified.
	if len(ov) != 2 || len(adds) != 2 {
		t.Error("reconcile must not modify its inputs")
	}
}

func TestReconcile_ShrunkBaselineClampsAdditions(t *testing.T) {
	adds := []ManualAddition{{AfterLine: 2, Text: "D"}}
	got := ApplyOverlay(text("A", "B"), Overlay{}, adds)
	if want := text("A", "B", "D"); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestOverlay_LinesSorted(t *testing.T) {
	ov := Overlay{
		3: {LineNumber: 3},
		1: {LineNumber: 1},
		2: {LineNumber: 2},
	}
	got := ov.Lines()
	for i, e := range got {
		if e.LineNumber != i+1 {
			t.Fatalf("expected sorted lines, got %+v", got)
		}
	}
}
