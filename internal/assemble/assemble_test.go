package assemble

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dgallion1/reportgen/internal/phrase"
)

const (
	mm0  = "There is no increase in mesangial matrix."
	g2   = "There is moderate glomerulitis (g2)."
	tg5  = "Total number of glomeruli: 5"
	glom = "GLOMERULI"
	ti   = "TUBULOINTERSTITIUM"
)

func newAssembler(t *testing.T) *Assembler {
	t.Helper()
	table, err := phrase.NewTable("transplant", []phrase.Entry{
		phrase.NewEntry("MM0", mm0),
		phrase.NewEntry("G2", g2),
		phrase.NewEntry("~TG(\\d+)", "Total number of glomeruli: {1}"),
		phrase.NewEntry("!GLOM", glom),
		phrase.NewEntry("TI", "!"+ti),
	})
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	return New(phrase.NewResolver(table))
}

func lines(ls ...string) string {
	return strings.Join(ls, "\n")
}

func TestAssemble_Text(t *testing.T) {
	a := newAssembler(t)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single code", "MM0", mm0},
		{"codes joined on one line", "MM0 G2", mm0 + " " + g2},
		{"input lines kept", "MM0\nG2", lines(mm0, g2)},
		{"extra whitespace collapses", "  MM0\t\tG2  ", mm0 + " " + g2},
		{"header at top has no blank", "GLOM TG5", lines(glom, tg5)},
		{"header mid document", "MM0\nGLOM TG5", lines(mm0, "", glom, tg5)},
		{"tokens before header flush first", "MM0 G2 GLOM TG5", lines(mm0+" "+g2, "", glom, tg5)},
		{"adjacent headers", "GLOM TI", lines(glom, "", ti)},
		{"blank lines before header collapse", "MM0\n\n\n\nTI G2", lines(mm0, "", ti, g2)},
		{"blank lines elsewhere kept", "MM0\n\nG2", lines(mm0, "", g2)},
		{"unresolved passes through", "MM0 XQZ123", mm0 + " XQZ123"},
		{"crlf normalized", "MM0\r\nG2", lines(mm0, g2)},
		{"protected span is literal", "@MM0 G2@ TG5", "MM0 G2 " + tg5},
		{"protected span mid line", "G2 @see comment@", g2 + " see comment"},
		{"unterminated span kept raw", "MM0 @free text\nG2", lines("MM0 @free text", g2)},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Assemble(tt.input)
			if got.Text != tt.want {
				t.Errorf("expected:\n%q\ngot:\n%q", tt.want, got.Text)
			}
		})
	}
}

func TestAssemble_Mappings(t *testing.T) {
	a := newAssembler(t)
	got := a.Assemble("mm0\nGLOM tg5\nMM0 G2\n@G2@")

	want := []LineMapping{
		{LineNumber: 1, SourceCode: "MM0", OriginalText: mm0},
		{LineNumber: 2, SourceCode: "", OriginalText: ""},
		{LineNumber: 3, SourceCode: "GLOM", OriginalText: glom},
		{LineNumber: 4, SourceCode: "TG5", OriginalText: tg5},
		{LineNumber: 5, SourceCode: "", OriginalText: mm0 + " " + g2},
		{LineNumber: 6, SourceCode: "", OriginalText: "G2"},
	}
	if diff := cmp.Diff(want, got.Mappings); diff != "" {
		t.Errorf("mappings mismatch (-want +got):\n%s", diff)
	}
	if len(got.Lines) != len(got.Mappings) {
		t.Errorf("expected one mapping per line, got %d lines and %d mappings", len(got.Lines), len(got.Mappings))
	}
	if got.Notes != nil {
		t.Errorf("expected no notes, got %+v", got.Notes)
	}
}

func TestAssemble_UnresolvedSingleTokenHasNoSourceCode(t *testing.T) {
	got := newAssembler(t).Assemble("XQZ123")
	if got.Mappings[0].SourceCode != "" {
		t.Errorf("expected empty source code, got %q", got.Mappings[0].SourceCode)
	}
}

func TestAssemble_Notes(t *testing.T) {
	a := newAssembler(t)
	got := a.Assemble("MM0 XQZ123\n@open span\nxqz123 ZZ9 @ok@")

	want := []Note{
		{Code: NoteUnresolvedToken, Line: 1, Token: "XQZ123"},
		{Code: NoteUnterminatedSpan, Line: 2},
		{Code: NoteUnresolvedToken, Line: 3, Token: "xqz123"},
		{Code: NoteUnresolvedToken, Line: 3, Token: "ZZ9"},
	}
	ignoreMessage := cmp.FilterPath(func(p cmp.Path) bool {
		return p.Last().String() == ".Message"
	}, cmp.Ignore())
	if diff := cmp.Diff(want, got.Notes, ignoreMessage); diff != "" {
		t.Errorf("notes mismatch (-want +got):\n%s", diff)
	}
	for _, n := range got.Notes {
		if n.Message == "" {
			t.Errorf("note %+v has no message", n)
		}
	}

	if diff := cmp.Diff([]string{"XQZ123", "xqz123", "ZZ9"}, UnresolvedTokens(got.Notes)); diff != "" {
		t.Errorf("unresolved tokens mismatch (-want +got):\n%s", diff)
	}
	if !got.Notes[1].IsWarning() || got.Notes[0].IsWarning() {
		t.Error("only unterminated spans should be warnings")
	}
}

func TestAssemble_Deterministic(t *testing.T) {
	a := newAssembler(t)
	input := "GLOM TG5 MM0\nXQZ123 @x y@\nTI G2"
	first := a.Assemble(input)
	for range 5 {
		if diff := cmp.Diff(first, a.Assemble(input)); diff != "" {
			t.Fatalf("assembly not deterministic (-first +again):\n%s", diff)
		}
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		line string
		want []segment
		ok   bool
	}{
		{"MM0  G2", []segment{{text: "MM0"}, {text: "G2"}}, true},
		{"@a b@ c", []segment{{text: "a b", literal: true}, {text: "c"}}, true},
		{"x@a@y", []segment{{text: "x"}, {text: "a", literal: true}, {text: "y"}}, true},
		{"@@", nil, true},
		{"a @b", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := tokenize(tt.line)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(segment{})); diff != "" {
				t.Errorf("segments mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
