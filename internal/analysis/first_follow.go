package analysis

import (
	"github.com/dekarrin/ll1gen/internal/metair"
	"github.com/dekarrin/ll1gen/internal/setutil"
)

// Sets holds the FIRST and FOLLOW mappings computed over a Grammar (spec
// §4.2). Both map nonterminal names to sets of terminals; FIRST sets may
// additionally contain metair.Epsilon ("").
type Sets struct {
	First  map[string]setutil.StringSet
	Follow map[string]setutil.StringSet
}

// ComputeFirst runs the FIRST fixpoint to a stable least fixpoint. Adding
// any alternative can only grow the sets; re-running on an already-stable
// Sets is idempotent.
func ComputeFirst(g *Grammar) map[string]setutil.StringSet {
	first := make(map[string]setutil.StringSet, g.Nonterminals.Len())
	for nt := range g.Nonterminals {
		first[nt] = setutil.NewStringSet()
	}

	changed := true
	for changed {
		changed = false
		for nt, ruleBodies := range g.Bodies {
			for _, body := range ruleBodies {
				bodyFirst := firstOfSequence(body, g, first)
				if first[nt].AddAll(bodyFirst) {
					changed = true
				}
			}
		}
	}
	return first
}

// firstOfSequence computes FIRST(X1 X2 ... Xn):
//
//	FIRST(X1 X2 ... Xn) = FIRST(X1) if ε ∉ FIRST(X1);
//	otherwise FIRST(X1)\{ε} ∪ FIRST(X2 ... Xn); if all of X1..Xn can
//	derive ε, ε ∈ FIRST(X1 ... Xn). The empty sequence has FIRST = {ε}.
func firstOfSequence(seq []string, g *Grammar, first map[string]setutil.StringSet) setutil.StringSet {
	if len(seq) == 0 {
		return setutil.StringSetOf([]string{metair.Epsilon})
	}

	head := seq[0]
	if g.Terminals.Has(head) {
		return setutil.StringSetOf([]string{head})
	}

	result := first[head].Copy()
	if result.Has(metair.Epsilon) {
		result.Remove(metair.Epsilon)
		rest := firstOfSequence(seq[1:], g, first)
		result.AddAll(rest)
		if rest.Has(metair.Epsilon) {
			result.Add(metair.Epsilon)
		}
	}
	return result
}

// ComputeFollow runs the FOLLOW fixpoint. FOLLOW(S) always
// contains Eof.
func ComputeFollow(g *Grammar, first map[string]setutil.StringSet) map[string]setutil.StringSet {
	follow := make(map[string]setutil.StringSet, g.Nonterminals.Len())
	for nt := range g.Nonterminals {
		follow[nt] = setutil.NewStringSet()
	}
	follow[metair.StartSymbol].Add(metair.EOF)

	changed := true
	for changed {
		changed = false
		for a, ruleBodies := range g.Bodies {
			for _, body := range ruleBodies {
				for i, sym := range body {
					if !g.Nonterminals.Has(sym) {
						continue
					}
					rest := body[i+1:]
					restFirst := firstOfSequence(rest, g, first)

					additions := restFirst.Copy()
					additions.Remove(metair.Epsilon)
					if follow[sym].AddAll(additions) {
						changed = true
					}

					if restFirst.Has(metair.Epsilon) {
						if follow[sym].AddAll(follow[a]) {
							changed = true
						}
					}
				}
			}
		}
	}
	return follow
}
