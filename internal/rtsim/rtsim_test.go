package rtsim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/ll1gen/internal/analysis"
	"github.com/dekarrin/ll1gen/internal/metair"
)

func exprGrammar(t *testing.T) (*analysis.Grammar, *analysis.Table) {
	rule := func(symbols ...string) metair.Rule {
		members := make([]metair.RuleMember, len(symbols))
		for i, s := range symbols {
			members[i] = metair.RuleMember{Call: &metair.RuleCall{Name: s}}
		}
		return metair.Rule{Members: members}
	}
	nt := func(name string, rules ...metair.Rule) metair.NonterminalDecl {
		return metair.NonterminalDecl{Name: name, Rules: rules}
	}

	ir := metair.GrammarIR{
		Tokens: []metair.Token{
			{Name: "Plus", Regex: `"\\+"`},
			{Name: "Id", Regex: `"[a-z]+"`},
		},
		Nonterminals: []metair.NonterminalDecl{
			nt("S", rule("Id", "X")),
			nt("X", rule("Plus", "Id", "X"), rule()),
		},
	}

	g, err := analysis.BuildGrammar(ir)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	table, err := analysis.BuildTable(g)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return g, table
}

func Test_Simulate_acceptsValidSentence(t *testing.T) {
	assert := assert.New(t)
	g, table := exprGrammar(t)

	tokens := []Token{
		{Name: "Id", Lexeme: "a", Pos: 0},
		{Name: "Plus", Lexeme: "+", Pos: 1},
		{Name: "Id", Lexeme: "b", Pos: 2},
		{Name: metair.EOF, Lexeme: "", Pos: 3},
	}

	tree, err := Simulate(table, g, tokens)
	if !assert.NoError(err) {
		return
	}

	assert.Equal("S", tree.Name)
	assert.Len(tree.Children, 2)
	assert.True(tree.Children[0].Terminal)
	assert.Equal("a", tree.Children[0].Token.Lexeme)
}

func Test_Simulate_rejectsUnexpectedToken(t *testing.T) {
	assert := assert.New(t)
	g, table := exprGrammar(t)

	tokens := []Token{
		{Name: "Plus", Lexeme: "+", Pos: 0},
		{Name: metair.EOF, Lexeme: "", Pos: 1},
	}

	_, err := Simulate(table, g, tokens)
	assert.Error(err)
}

func Test_Simulate_requiresTrailingEof(t *testing.T) {
	g, table := exprGrammar(t)
	_, err := Simulate(table, g, []Token{{Name: "Id", Lexeme: "a"}})
	assert.Error(t, err)
}

func Test_Tokenize_matchesInDeclarationOrderAndAppendsEof(t *testing.T) {
	assert := assert.New(t)
	g, _ := exprGrammar(t)

	tokens, err := Tokenize(g, "a+b")
	if !assert.NoError(err) {
		return
	}

	assert.Equal([]Token{
		{Name: "Id", Lexeme: "a", Pos: 0},
		{Name: "Plus", Lexeme: "+", Pos: 1},
		{Name: "Id", Lexeme: "b", Pos: 2},
		{Name: metair.EOF, Pos: 3},
	}, tokens)
}

func Test_Tokenize_unmatchableInputReportsPosition(t *testing.T) {
	g, _ := exprGrammar(t)
	_, err := Tokenize(g, "a!b")
	assert.Error(t, err)
}
