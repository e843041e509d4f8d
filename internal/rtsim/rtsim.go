// Package rtsim simulates a predictive parse against an analysis.Table
// without compiling any generated Go source. The REPL's "parse" and
// "table" commands, and the pipeline's golden-fixture tests, drive a
// grammar through here to check the testable properties of the generator
// against a token stream directly.
package rtsim

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dekarrin/ll1gen/graphviz"
	"github.com/dekarrin/ll1gen/internal/analysis"
	"github.com/dekarrin/ll1gen/internal/generr"
	"github.com/dekarrin/ll1gen/internal/metair"
	"github.com/dekarrin/ll1gen/internal/setutil"
)

// Token is one lexed input symbol: the terminal name it was classified as,
// its matched text, and the byte offset it started at.
type Token struct {
	Name   string
	Lexeme string
	Pos    int
}

// Tree is a parse tree produced by Simulate: either a terminal leaf
// (Terminal true, Token populated) or a nonterminal node with an ordered
// list of children, one per symbol of the alternative that was predicted.
type Tree struct {
	Name     string
	Terminal bool
	Token    Token
	Children []*Tree
}

const (
	treeOngoing = "  |     "
	treeEmpty   = "        "
)

// String renders the tree for line-by-line comparison in tests, in the
// same branching style used elsewhere in this codebase for tree dumps.
func (t *Tree) String() string {
	return t.leveledStr("", "")
}

func (t *Tree) leveledStr(firstPrefix, contPrefix string) string {
	var sb strings.Builder
	sb.WriteString(firstPrefix)
	if t.Terminal {
		fmt.Fprintf(&sb, "(TERM %q)", t.Token.Lexeme)
	} else {
		fmt.Fprintf(&sb, "( %s )", t.Name)
	}

	for i, child := range t.Children {
		sb.WriteRune('\n')
		var childFirst, childCont string
		if i+1 < len(t.Children) {
			childFirst = contPrefix + "  |---: "
			childCont = contPrefix + treeOngoing
		} else {
			childFirst = contPrefix + `  \---: `
			childCont = contPrefix + treeEmpty
		}
		sb.WriteString(child.leveledStr(childFirst, childCont))
	}
	return sb.String()
}

// ToGraphviz converts the tree to a graphviz.Node suitable for
// graphviz.GenerateDOT, assigning each node a unique id by its position in
// a pre-order walk.
func (t *Tree) ToGraphviz() *graphviz.Node {
	n := 0
	var walk func(node *Tree) *graphviz.Node
	walk = func(node *Tree) *graphviz.Node {
		id := fmt.Sprintf("n%d", n)
		n++
		if node.Terminal {
			return graphviz.NewLeaf(id, node.Token.Lexeme)
		}
		children := make([]*graphviz.Node, len(node.Children))
		for i, c := range node.Children {
			children[i] = walk(c)
		}
		return graphviz.NewNode(id, node.Name, children)
	}
	return walk(t)
}

// Tokenize lexes input against g's Skip and Tokens patterns directly,
// without emitting or compiling any Go source. It applies the same
// first-match, cursor-anchored semantics as the generated tokenizer (skip
// patterns tried before token patterns, both in declaration order) and
// appends a trailing metair.EOF token once input is exhausted. Used by the
// REPL's "tokenize" command to preview lexing before generating code.
func Tokenize(g *analysis.Grammar, input string) ([]Token, error) {
	skip := make([]*regexp.Regexp, len(g.IR.Skip))
	for i, pat := range g.IR.Skip {
		re, err := regexp.Compile(anchoredPattern(pat))
		if err != nil {
			return nil, fmt.Errorf("compile skip pattern %s: %w", pat, err)
		}
		skip[i] = re
	}

	type termPattern struct {
		name string
		re   *regexp.Regexp
	}
	terms := make([]termPattern, len(g.IR.Tokens))
	for i, tok := range g.IR.Tokens {
		re, err := regexp.Compile(anchoredPattern(tok.Regex))
		if err != nil {
			return nil, fmt.Errorf("compile token pattern %s: %w", tok.Name, err)
		}
		terms[i] = termPattern{name: tok.Name, re: re}
	}

	var tokens []Token
	pos := 0
	for pos < len(input) {
		skipped := false
		for _, re := range skip {
			if loc := re.FindStringIndex(input[pos:]); loc != nil {
				pos += loc[1]
				skipped = true
				break
			}
		}
		if skipped {
			continue
		}

		matched := false
		for _, tp := range terms {
			if loc := tp.re.FindStringIndex(input[pos:]); loc != nil {
				tokens = append(tokens, Token{Name: tp.name, Lexeme: input[pos : pos+loc[1]], Pos: pos})
				pos += loc[1]
				matched = true
				break
			}
		}
		if !matched {
			return nil, generr.NewParseError(pos, fmt.Sprintf("no token pattern matches input at position %d", pos))
		}
	}

	tokens = append(tokens, Token{Name: metair.EOF, Pos: pos})
	return tokens, nil
}

// anchoredPattern wraps a regex source (still quoted as captured from the
// grammar description) so it only matches starting at the search offset,
// mirroring internal/emit's anchoredPatternLiteral.
func anchoredPattern(quoted string) string {
	inner := quoted
	if len(inner) >= 2 && inner[0] == '"' && inner[len(inner)-1] == '"' {
		inner = inner[1 : len(inner)-1]
	}
	return "^(?:" + inner + ")"
}

// Simulate drives the predictive table over tokens, which must end with a
// token named metair.EOF, and returns the resulting parse tree rooted at
// metair.StartSymbol. It mirrors a stack-based LL(1) driver: a symbol
// stack seeded with the start symbol and an end marker, expanded by table
// lookup until only the end marker remains.
func Simulate(table *analysis.Table, g *analysis.Grammar, tokens []Token) (*Tree, error) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Name != metair.EOF {
		return nil, generr.NewParseError(0, "token stream must end with an Eof token")
	}

	const end = "$"
	var symStack setutil.Stack[string]
	symStack.Push(end)
	symStack.Push(metair.StartSymbol)

	root := &Tree{Name: metair.StartSymbol}
	var nodeStack setutil.Stack[*Tree]
	nodeStack.Push(root)

	pos := 0
	next := tokens[pos]

	for symStack.Peek() != end {
		x := symStack.Peek()
		node := nodeStack.Peek()

		if g.Terminals.Has(x) {
			if x != next.Name {
				return root, generr.NewParseError(next.Pos, fmt.Sprintf("expected %s but found %s %q", x, next.Name, next.Lexeme))
			}
			node.Terminal = true
			node.Token = next
			symStack.Pop()
			nodeStack.Pop()
			if pos+1 < len(tokens) {
				pos++
			}
			next = tokens[pos]
			continue
		}

		altIndex, ok := table.Predict(x, next.Name)
		if !ok {
			return root, generr.NewParseError(next.Pos, fmt.Sprintf("unexpected %s %q while parsing %s", next.Name, next.Lexeme, x))
		}

		body := table.Alternatives[x][altIndex].Body
		symStack.Pop()
		nodeStack.Pop()

		children := make([]*Tree, len(body))
		for i, sym := range body {
			children[i] = &Tree{Name: sym}
		}
		node.Children = children

		for i := len(body) - 1; i >= 0; i-- {
			symStack.Push(body[i])
			nodeStack.Push(children[i])
		}
	}

	return root, nil
}
