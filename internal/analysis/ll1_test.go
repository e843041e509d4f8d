package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/ll1gen/internal/metair"
)

// exprGrammar builds the classic left-factored arithmetic expression
// grammar:
//
//	S  -> T X
//	X  -> + T X | ε
//	T  -> F Y
//	Y  -> * F Y | ε
//	F  -> ( S ) | id
func exprGrammar(t *testing.T) *Grammar {
	ir := metair.GrammarIR{
		Tokens: []metair.Token{
			{Name: "Plus", Regex: `"\\+"`},
			{Name: "Star", Regex: `"\\*"`},
			{Name: "LParen", Regex: `"\\("`},
			{Name: "RParen", Regex: `"\\)"`},
			{Name: "Id", Regex: `"[a-z]+"`},
		},
		Nonterminals: []metair.NonterminalDecl{
			ntOf("S", rule("T", "X")),
			ntOf("X", rule("Plus", "T", "X"), rule()),
			ntOf("T", rule("F", "Y")),
			ntOf("Y", rule("Star", "F", "Y"), rule()),
			ntOf("F", rule("LParen", "S", "RParen"), rule("Id")),
		},
	}
	g, err := BuildGrammar(ir)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return g
}

func ntOf(name string, rules ...metair.Rule) metair.NonterminalDecl {
	return metair.NonterminalDecl{Name: name, Rules: rules}
}

func rule(symbols ...string) metair.Rule {
	members := make([]metair.RuleMember, len(symbols))
	for i, s := range symbols {
		members[i] = metair.RuleMember{Call: &metair.RuleCall{Name: s}}
	}
	return metair.Rule{Members: members}
}

func Test_BuildTable_expressionGrammar_isLL1(t *testing.T) {
	assert := assert.New(t)
	g := exprGrammar(t)

	table, err := BuildTable(g)
	if !assert.NoError(err) {
		return
	}

	assert.True(table.Sets.First["F"].Has("LParen"))
	assert.True(table.Sets.First["F"].Has("Id"))
	assert.True(table.Sets.First["X"].Has(metair.Epsilon))
	assert.True(table.Sets.Follow["S"].Has(metair.EOF))
	assert.True(table.Sets.Follow["S"].Has("RParen"))

	idx, ok := table.Predict("F", "Id")
	assert.True(ok)
	assert.Equal(1, idx)

	idx, ok = table.Predict("X", "RParen")
	assert.True(ok)
	assert.Equal(1, idx) // epsilon alternative, predicted via FOLLOW(X)

	_, ok = table.Predict("X", "Star")
	assert.False(ok)
}

func Test_BuildTable_ambiguousGrammar_isNotLL1(t *testing.T) {
	assert := assert.New(t)

	// both alternatives of S start with terminal "A", so PRED(S->A B) and
	// PRED(S->A C) both contain "A".
	ir := metair.GrammarIR{
		Tokens: []metair.Token{
			{Name: "A", Regex: `"a"`},
			{Name: "B", Regex: `"b"`},
			{Name: "C", Regex: `"c"`},
		},
		Nonterminals: []metair.NonterminalDecl{
			ntOf("S", rule("A", "B"), rule("A", "C")),
		},
	}
	g, err := BuildGrammar(ir)
	if !assert.NoError(err) {
		return
	}

	_, err = BuildTable(g)
	assert.Error(err)
}

func Test_BuildGrammar_missingStart(t *testing.T) {
	ir := metair.GrammarIR{
		Nonterminals: []metair.NonterminalDecl{
			ntOf("A", rule()),
		},
	}
	_, err := BuildGrammar(ir)
	assert.Error(t, err)
}

func Test_BuildGrammar_reservedEofCaseInsensitive(t *testing.T) {
	ir := metair.GrammarIR{
		Tokens: []metair.Token{
			{Name: "eof", Regex: `"x"`},
		},
		Nonterminals: []metair.NonterminalDecl{
			ntOf("S", rule()),
		},
	}
	_, err := BuildGrammar(ir)
	assert.Error(t, err)
}

func Test_BuildGrammar_undefinedSymbol(t *testing.T) {
	ir := metair.GrammarIR{
		Nonterminals: []metair.NonterminalDecl{
			ntOf("S", rule("Missing")),
		},
	}
	_, err := BuildGrammar(ir)
	assert.Error(t, err)
}
