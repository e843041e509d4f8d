package metaparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleGrammar = `
Prelude {
	package calc
}

Skip {
	"\s+"
}

Tokens {
	Plus -> "\+";
	Num -> "[0-9]+"
}

NotTerminals {
	S {} { val # int } ->
		num(){ $$.val = $0.val };

	num {} { val # int } ->
		Num { $$.val = 42 }
}
`

func Test_Parse_sampleGrammar(t *testing.T) {
	assert := assert.New(t)

	ir, err := Parse(sampleGrammar)
	if !assert.NoError(err) {
		return
	}

	assert.Contains(ir.Prelude, "package calc")
	assert.Equal([]string{`"\s+"`}, ir.Skip)

	assert.Len(ir.Tokens, 2)
	assert.Equal("Plus", ir.Tokens[0].Name)
	assert.Equal(`"\+"`, ir.Tokens[0].Regex)
	assert.Equal("Num", ir.Tokens[1].Name)

	assert.Len(ir.Nonterminals, 2)

	s, ok := ir.Nonterminal("S")
	if !assert.True(ok) {
		return
	}
	assert.Empty(s.Args)
	assert.Equal([]string{"val"}, []string{s.Returns[0].Name})
	assert.Equal("int", s.Returns[0].Type)
	assert.Len(s.Rules, 1)
	assert.Equal([]string{"num"}, s.Rules[0].Symbols())

	num, ok := ir.Nonterminal("num")
	if !assert.True(ok) {
		return
	}
	assert.Len(num.Rules, 1)
	assert.Equal([]string{"Num"}, num.Rules[0].Symbols())
}

func Test_Parse_missingPrelude_reportsPosition(t *testing.T) {
	_, err := Parse(`Tokens {} NotTerminals {}`)
	assert.Error(t, err)
}

func Test_Parse_unterminatedBalancedBlock(t *testing.T) {
	_, err := Parse(`Prelude { package calc`)
	assert.Error(t, err)
}

func Test_Parse_emptySections(t *testing.T) {
	assert := assert.New(t)

	src := `
Prelude {}
Skip {}
Tokens {}
NotTerminals {
	S {} {} -> { }
}
`
	ir, err := Parse(src)
	if !assert.NoError(err) {
		return
	}
	assert.Empty(ir.Skip)
	assert.Empty(ir.Tokens)
	assert.Len(ir.Nonterminals, 1)
	assert.Len(ir.Nonterminals[0].Rules, 1)
	assert.Empty(ir.Nonterminals[0].Rules[0].Symbols())
}
