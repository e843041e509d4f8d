package ll1gen

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/ll1gen/internal/analysis"
	"github.com/dekarrin/ll1gen/internal/metaparse"
	"github.com/dekarrin/ll1gen/internal/rtsim"
)

func loadFixture(t *testing.T, path string) (*analysis.Grammar, *analysis.Table) {
	t.Helper()
	data, err := os.ReadFile(path)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	ir, err := metaparse.Parse(string(data))
	if !assert.NoError(t, err) {
		t.FailNow()
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

func Test_Generate_calculatorFixture_emitsExpectedStructure(t *testing.T) {
	assert := assert.New(t)
	data, err := os.ReadFile("testdata/calculator.ll1")
	if !assert.NoError(err) {
		return
	}

	src, err := Generate(string(data))
	if !assert.NoError(err) {
		return
	}

	assert.Contains(src, "package calc")
	assert.Contains(src, "type Token struct")
	assert.Contains(src, "func (p *parser) consumeNum()")
	assert.Contains(src, "func (p *parser) consumePlus()")
	assert.Contains(src, "func (p *parser) parseS(")
	assert.Contains(src, "func (p *parser) parseF(")
	assert.Contains(src, "func Parse(input string)")

	// The Prelude's helper functions must be spliced into the generated
	// source verbatim, and F's Command blocks (the one alternative in
	// either fixture that actually uses Args/Returns and a Command) must
	// reference the bindings the Commands splice alongside.
	assert.Contains(src, "func fact(n int) int {")
	assert.Contains(src, "func comb(n, k int) int {")
	assert.Contains(src, "func (p *parser) parseF() (node *graphviz.Node, val int, err error) {")
	assert.Contains(src, "val = fact(len(Num0_lexeme))")
	assert.Contains(src, "val = comb(3, 1)")
	assert.Contains(src, "val = -F1_val")
}

func Test_Generate_logicFixture_emitsExpectedStructure(t *testing.T) {
	assert := assert.New(t)
	data, err := os.ReadFile("testdata/logic.ll1")
	if !assert.NoError(err) {
		return
	}

	src, err := Generate(string(data))
	if !assert.NoError(err) {
		return
	}

	assert.Contains(src, "package logic")
	assert.Contains(src, "func (p *parser) consumeNotTok()")
	assert.Contains(src, "func (p *parser) parseNot(")
	assert.Contains(src, "func (p *parser) parseAtom(")
}

func Test_calculatorFixture_acceptsDocumentedSentences(t *testing.T) {
	g, table := loadFixture(t, "testdata/calculator.ll1")

	cases := []string{
		"4",
		"9 + 4",
		"- (9 + 4)",
		"4 * 3 - 5 / 3 * 6 - (10 - (-(10 - 1))) + 4",
	}
	for _, sentence := range cases {
		tokens, err := rtsim.Tokenize(g, sentence)
		if !assert.NoError(t, err, sentence) {
			continue
		}
		_, err = rtsim.Simulate(table, g, tokens)
		assert.NoError(t, err, sentence)
	}
}

func Test_calculatorFixture_rejectsUnlexableInputAtCorrectPosition(t *testing.T) {
	g, _ := loadFixture(t, "testdata/calculator.ll1")

	_, err := rtsim.Tokenize(g, "7### asdas zxzx")
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "position 1")
	}
}

func Test_logicFixture_rejectsEmptyInput(t *testing.T) {
	g, table := loadFixture(t, "testdata/logic.ll1")

	tokens, err := rtsim.Tokenize(g, "")
	if !assert.NoError(t, err) {
		return
	}
	_, err = rtsim.Simulate(table, g, tokens)
	assert.Error(t, err)
}

func Test_logicFixture_rejectsStackedNot(t *testing.T) {
	g, table := loadFixture(t, "testdata/logic.ll1")

	tokens, err := rtsim.Tokenize(g, "not not a")
	if !assert.NoError(t, err) {
		return
	}
	_, err = rtsim.Simulate(table, g, tokens)
	assert.Error(t, err)
}

func Test_logicFixture_acceptsPrecedenceSentence(t *testing.T) {
	g, table := loadFixture(t, "testdata/logic.ll1")

	tokens, err := rtsim.Tokenize(g, "(a xor b) and not (y or b) xor c or d and not (b xor o)")
	if !assert.NoError(t, err) {
		return
	}
	_, err = rtsim.Simulate(table, g, tokens)
	assert.NoError(t, err)
}

func Test_logicFixture_keywordOrderingBeatsIdentifierMatch(t *testing.T) {
	g, _ := loadFixture(t, "testdata/logic.ll1")

	tokens, err := rtsim.Tokenize(g, "andx")
	if !assert.NoError(t, err) {
		return
	}

	if assert.Len(t, tokens, 3) {
		assert.Equal(t, "AndTok", tokens[0].Name)
		assert.Equal(t, "and", tokens[0].Lexeme)
		assert.Equal(t, "Var", tokens[1].Name)
		assert.Equal(t, "x", tokens[1].Lexeme)
	}
}
