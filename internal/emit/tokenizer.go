package emit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dekarrin/ll1gen/internal/metair"
)

// eofKind is the Kind value of the sentinel token appended once the input
// is exhausted.
const eofKind = metair.EOF

// generateTokenizer emits the Token type, the per-terminal and skip regex
// globals, and the Tokenizer that drives them: first-match-by-order,
// anchored at the cursor (not leftmost-longest), per declaration order of
// both Skip and Tokens.
func generateTokenizer(ir metair.GrammarIR) string {
	var sb strings.Builder

	sb.WriteString(tokenType)
	sb.WriteString("\n")
	sb.WriteString(generateRegexGlobals(ir))
	sb.WriteString("\n")
	sb.WriteString(parseErrorType)
	sb.WriteString("\n")
	sb.WriteString(tokenizerType)
	sb.WriteString("\n")
	sb.WriteString(generateMatchToken(ir))
	sb.WriteString("\n")
	sb.WriteString(tokenizerRunLoop)

	return sb.String()
}

const tokenType = `type Token struct {
	Kind   string
	Lexeme string
	Pos    int
}
`

const parseErrorType = `type ParseError struct {
	Position int
	Message  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (at position %d)", e.Message, e.Position)
}
`

const tokenizerType = `type tokenizer struct {
	input string
	pos   int
}
`

// generateRegexGlobals emits one anchored regexp.Regexp global per
// terminal, plus one slice global for the skip patterns in declaration
// order.
func generateRegexGlobals(ir metair.GrammarIR) string {
	var sb strings.Builder
	sb.WriteString("var (\n")
	for _, tok := range ir.Tokens {
		fmt.Fprintf(&sb, "\t%s = regexp.MustCompile(%s)\n", regexVarName(tok.Name), anchoredPatternLiteral(tok.Regex))
	}
	sb.WriteString(")\n\n")

	sb.WriteString("var skipPatterns = []*regexp.Regexp{\n")
	for _, skip := range ir.Skip {
		fmt.Fprintf(&sb, "\t%s,\n", anchoredPatternLiteral(skip))
	}
	sb.WriteString("}\n")
	return sb.String()
}

// generateMatchToken emits tokenizer.matchToken, which tries each
// terminal's regex in declaration order and returns the first one whose
// match starts exactly at the cursor.
func generateMatchToken(ir metair.GrammarIR) string {
	var sb strings.Builder
	sb.WriteString("func (t *tokenizer) matchToken() (Token, bool) {\n")
	for _, tok := range ir.Tokens {
		fmt.Fprintf(&sb, "\tif loc := %s.FindStringIndex(t.input[t.pos:]); loc != nil {\n", regexVarName(tok.Name))
		fmt.Fprintf(&sb, "\t\tlexeme := t.input[t.pos : t.pos+loc[1]]\n")
		fmt.Fprintf(&sb, "\t\ttok := Token{Kind: %s, Lexeme: lexeme, Pos: t.pos}\n", strconv.Quote(tok.Name))
		sb.WriteString("\t\tt.pos += loc[1]\n")
		sb.WriteString("\t\treturn tok, true\n")
		sb.WriteString("\t}\n")
	}
	sb.WriteString("\treturn Token{}, false\n")
	sb.WriteString("}\n")
	return sb.String()
}

// tokenizerRunLoop is fixed across all grammars: skip, then match, then
// fail, then append the Eof sentinel once input is exhausted.
var tokenizerRunLoop = fmt.Sprintf(`func (t *tokenizer) skip() bool {
	for _, re := range skipPatterns {
		if loc := re.FindStringIndex(t.input[t.pos:]); loc != nil {
			t.pos += loc[1]
			return true
		}
	}
	return false
}

func tokenize(input string) ([]Token, error) {
	t := &tokenizer{input: input}
	var tokens []Token
	for t.pos < len(t.input) {
		if t.skip() {
			continue
		}
		if tok, ok := t.matchToken(); ok {
			tokens = append(tokens, tok)
			continue
		}
		return nil, &ParseError{Position: t.pos, Message: "Expected token"}
	}
	tokens = append(tokens, Token{Kind: %s, Pos: t.pos})
	return tokens, nil
}
`, strconv.Quote(eofKind))

func regexVarName(terminalName string) string {
	return "re" + terminalName
}

// anchoredPatternLiteral strips the surrounding quotes a RegexLiteral was
// captured with and anchors it at the start of the string being searched,
// since Go's regexp package has no find-at-offset primitive that checks
// the match starts exactly there; matching is instead always performed
// against the unconsumed suffix of the input.
func anchoredPatternLiteral(quoted string) string {
	inner := quoted
	if len(inner) >= 2 && inner[0] == '"' && inner[len(inner)-1] == '"' {
		inner = inner[1 : len(inner)-1]
	}
	return strconv.Quote("^(?:" + inner + ")")
}
