package assemble

import "fmt"

// NoteCode identifies the kind of validation note.
type NoteCode string

const (
	NoteUnterminatedSpan NoteCode = "unterminated_protected_span"
	NoteUnresolvedToken  NoteCode = "unresolved_token"
)

// Note is a non-fatal finding about the shorthand input. Line is the 1-based
// input line, not the output line.
type Note struct {
	Code    NoteCode `json:"code"`
	Line    int      `json:"line"`
	Token   string   `json:"token,omitempty"`
	Message string   `json:"message"`
}

// IsWarning reports whether the note indicates input that was not processed
// as written. Unresolved tokens are informational: echoing them is normal.
func (n Note) IsWarning() bool {
	return n.Code == NoteUnterminatedSpan
}

func unterminatedSpan(line int) Note {
	return Note{
		Code:    NoteUnterminatedSpan,
		Line:    line,
		Message: fmt.Sprintf("line %d: protected span opened with %q is not closed; line kept as written", line, SpanMarker),
	}
}

func unresolvedToken(line int, token string) Note {
	return Note{
		Code:    NoteUnresolvedToken,
		Line:    line,
		Token:   token,
		Message: fmt.Sprintf("line %d: no phrase for %q", line, token),
	}
}

// UnresolvedTokens returns the distinct unresolved tokens in first-seen order.
func UnresolvedTokens(notes []Note) []string {
	seen := make(map[string]bool)
	var out []string
	for _, n := range notes {
		if n.Code != NoteUnresolvedToken || seen[n.Token] {
			continue
		}
		seen[n.Token] = true
		out = append(out, n.Token)
	}
	return out
}
