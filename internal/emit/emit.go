// Package emit turns an analyzed, validated grammar into generated Go
// source text: a prelude header, a tokenizer, and a recursive-descent
// parser, concatenated in that order.
package emit

import (
	"fmt"
	"go/format"

	"github.com/dekarrin/ll1gen/internal/analysis"
)

// Generate produces the complete generated source for g, whose predictive
// table has already been built and validated by analysis.BuildTable. The
// concatenated prelude, tokenizer, and parser are run through go/format
// before being returned, so the result is gofmt-clean regardless of the
// whitespace in the grammar description's Prelude and Command text.
func Generate(g *analysis.Grammar, table *analysis.Table) (string, error) {
	var out string
	out += generatePrelude(g.IR.Prelude)
	out += "\n"
	out += generateTokenizer(g.IR)
	out += "\n"

	parserSrc, err := generateParser(g, table)
	if err != nil {
		return "", err
	}
	out += parserSrc

	formatted, err := format.Source([]byte(out))
	if err != nil {
		return "", fmt.Errorf("format generated source: %w", err)
	}

	return string(formatted), nil
}
