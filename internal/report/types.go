package report

import (
	"errors"
	"fmt"
	"strings"
)

// ReportType selects the phrase table used for a report.
type ReportType string

const (
	Transplant ReportType = "transplant"
	Native     ReportType = "native"
)

var (
	ErrInvalidReportType = errors.New("invalid report type")
	ErrNotEditing        = errors.New("report is not in edit mode")
)

// ReportTypes lists every accepted selector value.
func ReportTypes() []ReportType {
	return []ReportType{Transplant, Native}
}

// ParseReportType validates a selector. An empty value selects Transplant.
func ParseReportType(s string) (ReportType, error) {
	switch ReportType(strings.ToLower(strings.TrimSpace(s))) {
	case "", Transplant:
		return Transplant, nil
	case Native:
		return Native, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidReportType, s)
}

// Mode is the editing state of a report.
type Mode string

const (
	ModeView Mode = "view"
	ModeEdit Mode = "edit"
)
