package phrase

import (
	"strings"
	"testing"
)

func transplantTable(t *testing.T) *Table {
	t.Helper()
	table, err := NewTable("transplant", []Entry{
		NewEntry("MM0", "There is no increase in mesangial matrix."),
		NewEntry("G2", "There is moderate glomerulitis (g2)."),
		NewEntry("CV1", "Arteries show mild fibrointimal thickening (cv1)."),
		NewEntry("ATI_MICRO", "There acute tubular injury with tubular epithelial cell cytoplasmic microvacuolation."),
		NewEntry("~C(\\d+)M(\\d+)", "There are {1} samples of cortex and {2} sample of medulla."),
		NewEntry("~TG(\\d+)", "Total number of glomeruli: {1}"),
		NewEntry("~GS(\\d+)", "Number of globally sclerosed glomeruli: {1}"),
		NewEntry("~IFTA(\\d+)", "Tubular atrophy/interstitial fibrosis (nearest 10%): {1}%"),
		NewEntry("~A(\\d+)", "{1} arteries are present in the sampled kidney."),
		NewEntry("!GLOM", "GLOMERULI"),
		NewEntry("TI", "!TUBULOINTERSTITIUM"),
	})
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	return table
}

func TestResolve_StaticAndPatterns(t *testing.T) {
	r := NewResolver(transplantTable(t))

	tests := []struct {
		token string
		want  string
		kind  Kind
	}{
		{"MM0", "There is no increase in mesangial matrix.", KindStatic},
		{"G2", "There is moderate glomerulitis (g2).", KindStatic},
		{"CV1", "Arteries show mild fibrointimal thickening (cv1).", KindStatic},
		{"ATI_MICRO", "There acute tubular injury with tubular epithelial cell cytoplasmic microvacuolation.", KindStatic},
		{"TG5", "Total number of glomeruli: 5", KindPattern},
		{"GS3", "Number of globally sclerosed glomeruli: 3", KindPattern},
		{"IFTA20", "Tubular atrophy/interstitial fibrosis (nearest 10%): 20%", KindPattern},
		{"A3", "3 arteries are present in the sampled kidney.", KindPattern},
		{"C2M1", "There are 2 samples of cortex and 1 sample of medulla.", KindPattern},
		{"GLOM", "GLOMERULI", KindHeader},
		{"TI", "TUBULOINTERSTITIUM", KindHeader},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got := r.Resolve(tt.token)
			if !got.Resolved {
				t.Fatalf("expected %s to resolve", tt.token)
			}
			if got.Text != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got.Text)
			}
			if got.Kind != tt.kind {
				t.Errorf("expected kind %s, got %s", tt.kind, got.Kind)
			}
			if got.Code != strings.ToUpper(tt.token) {
				t.Errorf("expected code %q, got %q", strings.ToUpper(tt.token), got.Code)
			}
			if strings.Contains(got.Text, "{") {
				t.Errorf("unsubstituted placeholder in %q", got.Text)
			}
		})
	}
}

func TestResolve_CaseInsensitive(t *testing.T) {
	r := NewResolver(transplantTable(t))
	for _, pair := range [][2]string{{"mm0", "MM0"}, {"g2", "G2"}, {"tg5", "TG5"}, {"Glom", "GLOM"}, {"c2m1", "C2M1"}} {
		lower, upper := r.Resolve(pair[0]), r.Resolve(pair[1])
		if lower != upper {
			t.Errorf("expected %s and %s to resolve identically, got %+v and %+v", pair[0], pair[1], lower, upper)
		}
	}
}

func TestResolve_Unresolved(t *testing.T) {
	r := NewResolver(transplantTable(t))
	for _, token := range []string{"XQZ123", "xqz123", "TG", "C4D0", "Hello,"} {
		got := r.Resolve(token)
		if got.Resolved {
			t.Errorf("expected %s to stay unresolved, got %q", token, got.Text)
		}
		if got.Text != token {
			t.Errorf("expected unresolved token echoed as %q, got %q", token, got.Text)
		}
	}
}

func TestResolve_Priority(t *testing.T) {
	table, err := NewTable("priority", []Entry{
		NewEntry("!TG1", "HEADER"),
		NewEntry("~TG(\\d+)", "pattern {1}"),
		NewEntry("~T(\\w+)", "second pattern {1}"),
		NewEntry("TG1", "static"),
	})
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	r := NewResolver(table)

	if got := r.Resolve("TG1").Text; got != "static" {
		t.Errorf("static should win over pattern and header, got %q", got)
	}
	if got := r.Resolve("TG2").Text; got != "pattern 2" {
		t.Errorf("first declared pattern should win, got %q", got)
	}
	if got := r.Resolve("TX").Text; got != "second pattern X" {
		t.Errorf("expected second pattern to match, got %q", got)
	}
}

func TestResolve_PatternAnchoredAtStart(t *testing.T) {
	r := NewResolver(transplantTable(t))
	if got := r.Resolve("XTG5"); got.Resolved {
		t.Errorf("pattern must not match mid-token, got %q", got.Text)
	}
	// Anchored at the start only: trailing characters are allowed.
	if got := r.Resolve("TG5X"); got.Text != "Total number of glomeruli: 5" {
		t.Errorf("expected prefix match, got %q", got.Text)
	}
}

func TestResolve_OptionalGroupSubstitutesEmpty(t *testing.T) {
	table, err := NewTable("opt", []Entry{NewEntry("~SS(\\d+)(_NOS)?", "{1} glomeruli{2}")})
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	r := NewResolver(table)
	if got := r.Resolve("SS3").Text; got != "3 glomeruli" {
		t.Errorf("expected %q, got %q", "3 glomeruli", got)
	}
	if got := r.Resolve("SS3_NOS").Text; got != "3 glomeruli_NOS" {
		t.Errorf("expected %q, got %q", "3 glomeruli_NOS", got)
	}
}

func TestSubstitute_SinglePass(t *testing.T) {
	got := substitute("{1} and {2}", []string{"{2}", "x"})
	if got != "{2} and x" {
		t.Errorf("captured text must not be substituted again, got %q", got)
	}
}

func TestNewTable_Errors(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		want    string
	}{
		{"duplicate code", []Entry{NewEntry("MM0", "a"), NewEntry("mm0", "b")}, "duplicate code"},
		{"duplicate header", []Entry{NewEntry("!GLOM", "a"), NewEntry("GLOM", "!b")}, "duplicate header"},
		{"duplicate pattern", []Entry{NewEntry("~TG(\\d+)", "a"), NewEntry("~TG(\\d+)", "b")}, "duplicate pattern"},
		{"bad regex", []Entry{NewEntry("~TG(\\d+", "a")}, "compile pattern"},
		{"placeholder out of range", []Entry{NewEntry("~TG(\\d+)", "{1} of {2}")}, "references {2}"},
		{"empty key", []Entry{NewEntry("  ", "a")}, "empty key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable("bad", tt.entries)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestNewEntry_Classification(t *testing.T) {
	tests := []struct {
		key, template string
		want          Entry
	}{
		{"mm0", "x", Entry{Key: "MM0", Kind: KindStatic, Template: "x"}},
		{"~TG(\\d+)", "{1}", Entry{Key: "TG(\\d+)", Kind: KindPattern, Template: "{1}"}},
		{"!glom", "GLOMERULI", Entry{Key: "GLOM", Kind: KindHeader, Template: "GLOMERULI"}},
		{"BV", "!BLOOD VESSELS", Entry{Key: "BV", Kind: KindHeader, Template: "BLOOD VESSELS"}},
	}
	for _, tt := range tests {
		if got := NewEntry(tt.key, tt.template); got != tt.want {
			t.Errorf("NewEntry(%q, %q): expected %+v, got %+v", tt.key, tt.template, tt.want, got)
		}
	}
}
