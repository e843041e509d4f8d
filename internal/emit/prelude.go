package emit

import "strings"

// preludeHeader imports the regex facility, the graphviz collaborator for
// parse-tree nodes, and the standard library pieces every generated
// tokenizer/parser uses.
const preludeHeader = `// Code generated by ll1gen. DO NOT EDIT.

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/dekarrin/ll1gen/graphviz"
)
`

// generatePrelude assembles the generated file's header: the user's package
// clause (the first non-blank line of their verbatim Prelude text), this
// package's own fixed import block, and then whatever else the Prelude
// declared (helper functions, additional imports, and so on).
//
// Go requires the package clause to precede every import declaration and
// every import declaration to precede other top-level declarations, so the
// package clause can't simply be followed by the rest of the user's
// Prelude text with the fixed header tacked on afterward once that text
// carries declarations of its own - the fixed header has to be spliced in
// right after the package clause instead.
func generatePrelude(userPrelude string) string {
	pkgClause, rest := splitPackageClause(userPrelude)
	return pkgClause + "\n" + preludeHeader + rest
}

// splitPackageClause splits s immediately after its first non-blank line,
// which by grammar-description convention is the package clause. Everything
// after that line, verbatim, is returned as rest.
func splitPackageClause(s string) (pkgClause, rest string) {
	lines := strings.SplitAfter(s, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		return strings.Join(lines[:i+1], ""), strings.Join(lines[i+1:], "")
	}
	return s, ""
}
