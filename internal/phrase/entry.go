package phrase

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind classifies a phrase table entry.
type Kind int

const (
	KindStatic Kind = iota
	KindPattern
	KindHeader
)

// Reserved key prefixes in phrase table files.
const (
	PatternPrefix = "~"
	HeaderPrefix  = "!"
)

func (k Kind) String() string {
	switch k {
	case KindStatic:
		return "static"
	case KindPattern:
		return "pattern"
	case KindHeader:
		return "header"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Entry is one immutable mapping from a code (or code pattern) to its expansion.
type Entry struct {
	Key      string `json:"key"`
	Kind     Kind   `json:"kind"`
	Template string `json:"template"`
}

// NewEntry classifies a raw key/template pair as it appears in a phrase file.
//
// Keys prefixed with "~" are patterns, keys prefixed with "!" are headers.
// A plain key whose template starts with "!" is also a header; the marker is
// stripped from the template.
func NewEntry(key, template string) Entry {
	key = strings.TrimSpace(key)
	switch {
	case strings.HasPrefix(key, PatternPrefix):
		return Entry{Key: strings.TrimPrefix(key, PatternPrefix), Kind: KindPattern, Template: template}
	case strings.HasPrefix(key, HeaderPrefix):
		return Entry{Key: Normalize(strings.TrimPrefix(key, HeaderPrefix)), Kind: KindHeader, Template: template}
	case strings.HasPrefix(template, HeaderPrefix):
		return Entry{Key: Normalize(key), Kind: KindHeader, Template: strings.TrimPrefix(template, HeaderPrefix)}
	}
	return Entry{Key: Normalize(key), Kind: KindStatic, Template: template}
}

// Normalize folds a token to the case used for table lookups.
// A Caser is not safe for concurrent use, so one is built per call.
func Normalize(token string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(token))
}
