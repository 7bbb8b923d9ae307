package report

import (
	"fmt"

	"github.com/dgallion1/reportgen/internal/assemble"
	"github.com/dgallion1/reportgen/internal/phrase"
)

// Generation is the stateless output of the generation boundary.
type Generation struct {
	ReportType   ReportType             `json:"report_type"`
	Text         string                 `json:"report_text"`
	LineMappings []assemble.LineMapping `json:"line_mappings"`
	Notes        []assemble.Note        `json:"validation_notes"`
}

// AssemblerFor validates the selector and returns an assembler pinned to the
// catalog's current table for it. The selector is rejected before any
// shorthand is looked at.
func AssemblerFor(cat *phrase.Catalog, reportType string) (ReportType, *assemble.Assembler, error) {
	rt, err := ParseReportType(reportType)
	if err != nil {
		return "", nil, err
	}
	r, ok := cat.Resolver(string(rt))
	if !ok {
		return "", nil, fmt.Errorf("%w: no phrase table loaded for %s", ErrInvalidReportType, rt)
	}
	return rt, assemble.New(r), nil
}

// Generate expands shorthand for a report type.
func Generate(cat *phrase.Catalog, reportType, shorthand string) (Generation, error) {
	rt, asm, err := AssemblerFor(cat, reportType)
	if err != nil {
		return Generation{}, err
	}
	res := asm.Assemble(shorthand)
	notes := res.Notes
	if notes == nil {
		notes = []assemble.Note{}
	}
	return Generation{
		ReportType:   rt,
		Text:         res.Text,
		LineMappings: res.Mappings,
		Notes:        notes,
	}, nil
}
