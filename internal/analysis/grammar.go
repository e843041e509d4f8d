// Package analysis computes the FIRST and FOLLOW sets over a
// metair.GrammarIR, validates the LL(1) property, and materializes the
// predictive parse table implicit in the resulting emitter.
package analysis

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dekarrin/ll1gen/internal/generr"
	"github.com/dekarrin/ll1gen/internal/metair"
	"github.com/dekarrin/ll1gen/internal/setutil"
)

var eofFolder = cases.Fold()

// Grammar is the analysis view of a GrammarIR: the terminal and
// nonterminal name sets, and each nonterminal's rule bodies with Command
// members already filtered out.
type Grammar struct {
	IR           metair.GrammarIR
	Terminals    setutil.StringSet
	Nonterminals setutil.StringSet

	// Bodies holds, for each nonterminal name, the symbol sequence of each
	// of its rules in declaration order (R(A)).
	Bodies map[string][][]string
}

// BuildGrammar validates the structural invariants (exactly one "S",
// disjoint terminal/nonterminal names, no undefined RuleCall targets,
// "Eof" not declared by the user, checked case-insensitively with
// golang.org/x/text/cases so "eof" or "EOF" are caught too) and returns
// the analysis view.
func BuildGrammar(ir metair.GrammarIR) (*Grammar, error) {
	terminals := setutil.NewStringSet()
	for _, t := range ir.Tokens {
		if eofFolder.String(t.Name) == eofFolder.String(metair.EOF) {
			return nil, generr.NewReservedTerminal(t.Name)
		}
		terminals.Add(t.Name)
	}

	nonterminals := setutil.NewStringSet()
	haveStart := false
	for _, nt := range ir.Nonterminals {
		if eofFolder.String(nt.Name) == eofFolder.String(metair.EOF) {
			return nil, generr.NewReservedTerminal(nt.Name)
		}
		if terminals.Has(nt.Name) {
			return nil, generr.NewMetaParseError(0, "terminal and nonterminal names must be disjoint: "+nt.Name)
		}
		nonterminals.Add(nt.Name)
		if nt.Name == metair.StartSymbol {
			haveStart = true
		}
	}
	if !haveStart {
		return nil, generr.NewMissingStart()
	}

	bodies := make(map[string][][]string, len(ir.Nonterminals))
	for _, nt := range ir.Nonterminals {
		var ruleBodies [][]string
		for _, rule := range nt.Rules {
			ruleBodies = append(ruleBodies, rule.Symbols())
		}
		bodies[nt.Name] = ruleBodies
	}

	// now that all symbol names are known, verify every RuleCall target is
	// either a declared terminal or nonterminal.
	for _, ruleBodies := range bodies {
		for _, body := range ruleBodies {
			for _, sym := range body {
				if !terminals.Has(sym) && !nonterminals.Has(sym) {
					return nil, generr.NewUndefinedSymbol(sym)
				}
			}
		}
	}

	return &Grammar{
		IR:           ir,
		Terminals:    terminals,
		Nonterminals: nonterminals,
		Bodies:       bodies,
	}, nil
}
