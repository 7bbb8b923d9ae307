package phrase

import "strconv"

// Result is the outcome of resolving one token.
type Result struct {
	Text     string // expansion, header text, or the token itself when unresolved
	Kind     Kind   // meaningful only when Resolved
	Code     string // normalized token
	Resolved bool
}

// IsHeader reports whether the token opens a new report section.
func (r Result) IsHeader() bool {
	return r.Resolved && r.Kind == KindHeader
}

// Resolver expands single tokens against one table.
type Resolver struct {
	table *Table
}

func NewResolver(t *Table) *Resolver {
	return &Resolver{table: t}
}

func (r *Resolver) Table() *Table {
	return r.table
}

// Resolve looks the token up with the fixed priority static, then patterns in
// declaration order, then headers. Unresolved tokens come back unchanged.
func (r *Resolver) Resolve(token string) Result {
	code := Normalize(token)
	if code == "" || r.table == nil {
		return Result{Text: token, Code: code}
	}

	if text, ok := r.table.static[code]; ok {
		return Result{Text: text, Kind: KindStatic, Code: code, Resolved: true}
	}

	for _, p := range r.table.patterns {
		m := p.re.FindStringSubmatch(code)
		if m == nil {
			continue
		}
		return Result{Text: substitute(p.template, m[1:]), Kind: KindPattern, Code: code, Resolved: true}
	}

	if text, ok := r.table.headers[code]; ok {
		return Result{Text: text, Kind: KindHeader, Code: code, Resolved: true}
	}

	return Result{Text: token, Code: code}
}

// substitute replaces {n} with the n-th captured group in a single pass, so
// captured text containing braces is never substituted again.
func substitute(template string, groups []string) string {
	return placeholderRe.ReplaceAllStringFunc(template, func(ph string) string {
		n, err := strconv.Atoi(ph[1 : len(ph)-1])
		if err != nil || n < 1 || n > len(groups) {
			return ph
		}
		return groups[n-1]
	})
}
