package emit

import (
	"go/format"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/ll1gen/internal/analysis"
	"github.com/dekarrin/ll1gen/internal/metair"
)

func buildExprGrammar(t *testing.T) (*analysis.Grammar, *analysis.Table) {
	rule := func(symbols ...string) metair.Rule {
		members := make([]metair.RuleMember, len(symbols))
		for i, s := range symbols {
			members[i] = metair.RuleMember{Call: &metair.RuleCall{Name: s, ArgText: "()"}}
		}
		return metair.Rule{Members: members}
	}
	nt := func(name string, args, returns []metair.Typed, rules ...metair.Rule) metair.NonterminalDecl {
		return metair.NonterminalDecl{Name: name, Args: args, Returns: returns, Rules: rules}
	}

	ir := metair.GrammarIR{
		Prelude: "package calc\n",
		Skip:    []string{`"\s+"`},
		Tokens: []metair.Token{
			{Name: "Plus", Regex: `"\+"`},
			{Name: "Num", Regex: `"[0-9]+"`},
		},
		Nonterminals: []metair.NonterminalDecl{
			nt("S", nil, []metair.Typed{{Name: "val", Type: "int"}}, rule("Num", "X")),
			nt("X", []metair.Typed{{Name: "acc", Type: "int"}}, []metair.Typed{{Name: "val", Type: "int"}},
				rule("Plus", "Num", "X"), rule()),
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

func Test_Generate_emitsExpectedStructure(t *testing.T) {
	assert := assert.New(t)
	g, table := buildExprGrammar(t)

	src, err := Generate(g, table)
	if !assert.NoError(err) {
		return
	}

	assert.True(strings.HasPrefix(src, "package calc"))
	assert.Contains(src, "github.com/dekarrin/ll1gen/graphviz")
	assert.Contains(src, "type Token struct")
	assert.Contains(src, "func (p *parser) consumePlus()")
	assert.Contains(src, "func (p *parser) consumeNum()")
	assert.Contains(src, "func (p *parser) consumeEof()")
	assert.Contains(src, "func (p *parser) parseS(")
	assert.Contains(src, "func (p *parser) parseX(acc int) (node *graphviz.Node, val int, err error)")
	assert.Contains(src, "func Parse(input string) (node *graphviz.Node, val int, err error)")
	assert.Contains(src, `Num0_node, Num0_lexeme, Num0_Err := p.consumeNum()`)
	assert.Contains(src, `X1_node, X1_val, X1_Err := p.parseX(`)
}

func Test_Generate_emitsGofmtCleanSource(t *testing.T) {
	g, table := buildExprGrammar(t)

	src, err := Generate(g, table)
	if !assert.NoError(t, err) {
		return
	}

	formatted, err := format.Source([]byte(src))
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, string(formatted), src, "Generate's output should already be gofmt-clean")
}

func Test_generateRegexGlobals_anchorsPatterns(t *testing.T) {
	ir := metair.GrammarIR{
		Tokens: []metair.Token{{Name: "Num", Regex: `"[0-9]+"`}},
		Skip:   []string{`"\s+"`},
	}
	out := generateRegexGlobals(ir)
	assert.Contains(t, out, `regexp.MustCompile("^(?:[0-9]+)")`)
	assert.Contains(t, out, `regexp.MustCompile("^(?:\\s+)")`)
}
