// Package ll1gen turns an LL(1) grammar description into generated Go
// source implementing a tokenizer and recursive-descent parser for it.
package ll1gen

import (
	"sort"

	"github.com/dekarrin/ll1gen/internal/analysis"
	"github.com/dekarrin/ll1gen/internal/emit"
	"github.com/dekarrin/ll1gen/internal/metaparse"
	"github.com/dekarrin/ll1gen/internal/setutil"
)

// GenerationResult is the complete output of one run of the generation
// pipeline: the emitted Go source together with the grammar analysis that
// produced it. Callers that only need the source can ignore the rest, but
// ll1gen-repl and the HTTP job history both need to answer FIRST/FOLLOW/
// predictive-table questions about a grammar that was already generated
// without re-running the analyzer, so the full analysis travels with the
// source rather than being thrown away.
type GenerationResult struct {
	Source       string
	Terminals    []string
	Nonterminals []string
	First        map[string][]string
	Follow       map[string][]string
	Table        []TableRow
}

// TableRow is one nonterminal's row of the LL(1) predictive table.
type TableRow struct {
	Nonterminal string
	Predictions []Prediction
}

// Prediction is one cell of a TableRow: the alternative predicted for a
// single lookahead terminal.
type Prediction struct {
	Lookahead   string
	Alternative int
	Body        []string
}

// GenerateResult parses, analyzes, and emits Go source for the grammar
// description in grammarText, returning the source together with the
// FIRST/FOLLOW sets and predictive table the analyzer computed along the
// way. It returns an error if the description is malformed, if the grammar
// it describes is not LL(1), or if the analyzed grammar cannot be emitted.
func GenerateResult(grammarText string) (GenerationResult, error) {
	ir, err := metaparse.Parse(grammarText)
	if err != nil {
		return GenerationResult{}, err
	}

	g, err := analysis.BuildGrammar(ir)
	if err != nil {
		return GenerationResult{}, err
	}

	table, err := analysis.BuildTable(g)
	if err != nil {
		return GenerationResult{}, err
	}

	source, err := emit.Generate(g, table)
	if err != nil {
		return GenerationResult{}, err
	}

	return GenerationResult{
		Source:       source,
		Terminals:    g.Terminals.Sorted(),
		Nonterminals: g.Nonterminals.Sorted(),
		First:        sortedSetMap(table.Sets.First),
		Follow:       sortedSetMap(table.Sets.Follow),
		Table:        tableRows(table),
	}, nil
}

// Generate is a convenience wrapper over GenerateResult for callers that
// only want the emitted source.
func Generate(grammarText string) (string, error) {
	result, err := GenerateResult(grammarText)
	if err != nil {
		return "", err
	}
	return result.Source, nil
}

func sortedSetMap(m map[string]setutil.StringSet) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, set := range m {
		out[k] = set.Sorted()
	}
	return out
}

func tableRows(table *analysis.Table) []TableRow {
	names := make([]string, 0, len(table.Alternatives))
	for nt := range table.Alternatives {
		names = append(names, nt)
	}
	sort.Strings(names)

	rows := make([]TableRow, 0, len(names))
	for _, nt := range names {
		lookaheads := make([]string, 0, len(table.Entries[nt]))
		for la := range table.Entries[nt] {
			lookaheads = append(lookaheads, la)
		}
		sort.Strings(lookaheads)

		preds := make([]Prediction, 0, len(lookaheads))
		for _, la := range lookaheads {
			altIndex := table.Entries[nt][la]
			preds = append(preds, Prediction{
				Lookahead:   la,
				Alternative: altIndex,
				Body:        table.Alternatives[nt][altIndex].Body,
			})
		}
		rows = append(rows, TableRow{Nonterminal: nt, Predictions: preds})
	}
	return rows
}
