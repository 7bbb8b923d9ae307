// Package overlay captures line-level user edits against an assembled
// baseline and reapplies them to later baselines.
//
// Matching is positional: line N of the edited text is compared with line N
// of the original. It is not a general diff, and ApplyOverlay is a one-way
// application whose output must go through DetectEdits again before it can be
// used as a baseline.
package overlay

import (
	"slices"
	"sort"
	"strings"

	"github.com/dgallion1/reportgen/internal/assemble"
)

// EditEntry is a user replacement for one baseline line.
type EditEntry struct {
	LineNumber   int    `json:"line_number"`
	OriginalText string `json:"original_text"`
	EditedText   string `json:"edited_text"`
	SourceCode   string `json:"source_code"`
}

// ManualAddition is a line the user typed past the end of the generated text.
type ManualAddition struct {
	AfterLine int    `json:"after_line"`
	Text      string `json:"text"`
}

// Overlay maps 1-based line numbers to edits.
type Overlay map[int]EditEntry

// Lines sorts entries by line number.
func (o Overlay) Lines() []EditEntry {
	out := make([]EditEntry, 0, len(o))
	for _, e := range o {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LineNumber < out[j].LineNumber })
	return out
}

// SplitLines is the line model shared by both directions.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}

// DetectEdits compares edited against original line by line. Changed lines
// become overlay entries; lines past the end of original become additions
// anchored at len(original). Lines the user deleted leave no trace.
func DetectEdits(original, edited string, mappings []assemble.LineMapping) (Overlay, []ManualAddition) {
	orig := SplitLines(original)
	ed := SplitLines(edited)

	codes := make(map[int]string, len(mappings))
	for _, m := range mappings {
		codes[m.LineNumber] = m.SourceCode
	}

	ov := Overlay{}
	for i := 0; i < min(len(orig), len(ed)); i++ {
		if orig[i] == ed[i] {
			continue
		}
		ov[i+1] = EditEntry{
			LineNumber:   i + 1,
			OriginalText: orig[i],
			EditedText:   ed[i],
			SourceCode:   codes[i+1],
		}
	}

	var adds []ManualAddition
	for i := len(orig); i < len(ed); i++ {
		adds = append(adds, ManualAddition{AfterLine: len(orig), Text: ed[i]})
	}
	return ov, adds
}

// Reconciliation is the result of applying an overlay, with the references
// that no longer fit the baseline.
type Reconciliation struct {
	Text     string
	Stale    []EditEntry      // edits for lines the baseline no longer has
	Orphaned []ManualAddition // additions anchored past the baseline's end
}

// ApplyOverlay substitutes edited lines into baseline and inserts additions.
func ApplyOverlay(baseline string, ov Overlay, adds []ManualAddition) string {
	return Reconcile(baseline, ov, adds).Text
}

// Reconcile is ApplyOverlay plus reporting of stale and orphaned references,
// which are skipped rather than treated as errors.
//
// Additions are stable-sorted by AfterLine and inserted at index
// AfterLine+offset, where offset starts at 1 and grows with each insertion,
// so additions sharing an anchor keep their order and stay after any line the
// new baseline added directly below the anchor.
func Reconcile(baseline string, ov Overlay, adds []ManualAddition) Reconciliation {
	base := SplitLines(baseline)
	out := make([]string, len(base))
	for i, line := range base {
		if e, ok := ov[i+1]; ok {
			out[i] = e.EditedText
		} else {
			out[i] = line
		}
	}

	var rec Reconciliation
	for _, e := range ov.Lines() {
		if e.LineNumber < 1 || e.LineNumber > len(base) {
			rec.Stale = append(rec.Stale, e)
		}
	}

	sorted := slices.Clone(adds)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].AfterLine < sorted[j].AfterLine })

	offset := 1
	for _, a := range sorted {
		if a.AfterLine < 0 || a.AfterLine > len(base) {
			rec.Orphaned = append(rec.Orphaned, a)
			continue
		}
		pos := min(a.AfterLine+offset, len(out))
		out = slices.Insert(out, pos, a.Text)
		offset++
	}

	rec.Text = strings.Join(out, "\n")
	return rec
}
