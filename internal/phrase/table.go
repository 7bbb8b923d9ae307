package phrase

import (
	"fmt"
	"regexp"
	"strconv"
)

var placeholderRe = regexp.MustCompile(`\{(\d+)\}`)

type pattern struct {
	key      string
	re       *regexp.Regexp
	template string
}

// Table is a validated, read-only phrase table. Pattern entries keep the
// order in which they were declared.
type Table struct {
	Name string

	entries  []Entry
	static   map[string]string
	patterns []pattern
	headers  map[string]string
}

// NewTable validates entries and builds the lookup indexes.
func NewTable(name string, entries []Entry) (*Table, error) {
	t := &Table{
		Name:    name,
		entries: make([]Entry, 0, len(entries)),
		static:  make(map[string]string),
		headers: make(map[string]string),
	}

	seenPatterns := make(map[string]bool)
	for _, e := range entries {
		if e.Key == "" {
			return nil, fmt.Errorf("table %s: empty key", name)
		}
		switch e.Kind {
		case KindStatic:
			if _, dup := t.static[e.Key]; dup {
				return nil, fmt.Errorf("table %s: duplicate code %q", name, e.Key)
			}
			t.static[e.Key] = e.Template
		case KindHeader:
			if _, dup := t.headers[e.Key]; dup {
				return nil, fmt.Errorf("table %s: duplicate header %q", name, e.Key)
			}
			t.headers[e.Key] = e.Template
		case KindPattern:
			if seenPatterns[e.Key] {
				return nil, fmt.Errorf("table %s: duplicate pattern %q", name, e.Key)
			}
			seenPatterns[e.Key] = true
			p, err := compilePattern(e)
			if err != nil {
				return nil, fmt.Errorf("table %s: %w", name, err)
			}
			t.patterns = append(t.patterns, p)
		default:
			return nil, fmt.Errorf("table %s: key %q has unknown kind %d", name, e.Key, int(e.Kind))
		}
		t.entries = append(t.entries, e)
	}
	return t, nil
}

// compilePattern anchors the pattern at the start of the token and checks that
// the template never references a group the pattern cannot capture.
func compilePattern(e Entry) (pattern, error) {
	re, err := regexp.Compile(`(?i)^(?:` + e.Key + `)`)
	if err != nil {
		return pattern{}, fmt.Errorf("compile pattern %q: %w", e.Key, err)
	}
	groups := re.NumSubexp()
	for _, m := range placeholderRe.FindAllStringSubmatch(e.Template, -1) {
		n, _ := strconv.Atoi(m[1])
		if n < 1 || n > groups {
			return pattern{}, fmt.Errorf("pattern %q: template references {%d} but pattern has %d groups", e.Key, n, groups)
		}
	}
	return pattern{key: e.Key, re: re, template: e.Template}, nil
}

// Entries returns a copy of the table's entries in declaration order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *Table) Len() int {
	return len(t.entries)
}
