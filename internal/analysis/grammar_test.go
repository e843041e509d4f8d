package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/ll1gen/internal/metair"
)

func Test_BuildGrammar_populatesTerminalsAndNonterminals(t *testing.T) {
	assert := assert.New(t)
	g := exprGrammar(t)

	assert.True(g.Terminals.Has("Plus"))
	assert.True(g.Terminals.Has("Id"))
	assert.False(g.Terminals.Has("S"))

	assert.True(g.Nonterminals.Has("S"))
	assert.True(g.Nonterminals.Has("F"))
	assert.False(g.Nonterminals.Has("Plus"))

	assert.Equal([][]string{{"T", "X"}}, g.Bodies["S"])
}

func Test_BuildGrammar_disjointNameCollision(t *testing.T) {
	ir := metair.GrammarIR{
		Tokens: []metair.Token{
			{Name: "Dup", Regex: `"x"`},
		},
		Nonterminals: []metair.NonterminalDecl{
			ntOf("S", rule()),
			ntOf("Dup", rule()),
		},
	}
	_, err := BuildGrammar(ir)
	assert.Error(t, err)
}
