package analysis

import (
	"sort"

	"github.com/dekarrin/ll1gen/internal/generr"
	"github.com/dekarrin/ll1gen/internal/metair"
	"github.com/dekarrin/ll1gen/internal/setutil"
)

// Alternative pairs one of a nonterminal's rule bodies with its predictive
// set PRED(A -> body).
type Alternative struct {
	Index int // position of this alternative within the nonterminal's Rules
	Body  []string
	Pred  setutil.StringSet
}

// Table is the predictive parse table implicit in an LL(1) grammar: for
// each nonterminal, which alternative (if any) to expand on seeing a given
// lookahead terminal. It is consulted by both the Parser Emitter (to
// generate the if/switch chain driving each nonterminal's function, spec
// §4.4) and by internal/rtsim (to simulate parses without compiling
// generated code).
type Table struct {
	Sets         Sets
	Alternatives map[string][]Alternative

	// Entries maps a nonterminal name and a lookahead terminal to the
	// chosen alternative index. Absence means no alternative predicts that
	// lookahead, i.e. a parse error at that point.
	Entries map[string]map[string]int
}

// Predict returns the alternative index to expand for nonterminal nt on
// lookahead terminal, and whether one exists.
func (t *Table) Predict(nt, lookahead string) (altIndex int, ok bool) {
	row, ok := t.Entries[nt]
	if !ok {
		return 0, false
	}
	altIndex, ok = row[lookahead]
	return altIndex, ok
}

// BuildTable computes FIRST and FOLLOW over g, derives PRED for every
// alternative of every nonterminal, and validates that the grammar is
// LL(1): for a fixed nonterminal, no two distinct alternatives' PRED sets
// may intersect. The first conflicting pair found is reported via a
// *generr.NotLL1 error, in nonterminal declaration order and then
// alternative index order, so the same input always reports the same
// conflict.
func BuildTable(g *Grammar) (*Table, error) {
	first := ComputeFirst(g)
	follow := ComputeFollow(g, first)
	sets := Sets{First: first, Follow: follow}

	alternatives := make(map[string][]Alternative, len(g.IR.Nonterminals))
	for _, nt := range g.IR.Nonterminals {
		bodies := g.Bodies[nt.Name]
		alts := make([]Alternative, len(bodies))
		for i, body := range bodies {
			pred := predictiveSet(body, g, first, follow[nt.Name])
			alts[i] = Alternative{Index: i, Body: body, Pred: pred}
		}
		alternatives[nt.Name] = alts
	}

	// validate disjointness in a deterministic order.
	for _, nt := range g.IR.Nonterminals {
		alts := alternatives[nt.Name]
		for i := 0; i < len(alts); i++ {
			for j := i + 1; j < len(alts); j++ {
				if conflict := intersection(alts[i].Pred, alts[j].Pred); len(conflict) > 0 {
					return nil, generr.NewNotLL1(nt.Name, i, j, conflict)
				}
			}
		}
	}

	entries := make(map[string]map[string]int, len(alternatives))
	for ntName, alts := range alternatives {
		row := make(map[string]int)
		for _, alt := range alts {
			for term := range alt.Pred {
				row[term] = alt.Index
			}
		}
		entries[ntName] = row
	}

	return &Table{Sets: sets, Alternatives: alternatives, Entries: entries}, nil
}

// predictiveSet computes PRED(A -> body):
//
//	PRED(A -> α) = FIRST(α) \ {ε}, plus FOLLOW(A) when ε ∈ FIRST(α).
func predictiveSet(body []string, g *Grammar, first map[string]setutil.StringSet, followA setutil.StringSet) setutil.StringSet {
	bodyFirst := firstOfSequence(body, g, first)
	pred := bodyFirst.Copy()
	hasEpsilon := pred.Has(metair.Epsilon)
	pred.Remove(metair.Epsilon)
	if hasEpsilon {
		pred.AddAll(followA)
	}
	return pred
}

// intersection returns the sorted, deterministic list of terminals shared
// by both sets, used to populate generr.NotLL1's Conflict field.
func intersection(a, b setutil.StringSet) []string {
	var shared []string
	for term := range a {
		if b.Has(term) {
			shared = append(shared, term)
		}
	}
	sort.Strings(shared)
	return shared
}
