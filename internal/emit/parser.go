package emit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dekarrin/ll1gen/internal/analysis"
	"github.com/dekarrin/ll1gen/internal/generr"
	"github.com/dekarrin/ll1gen/internal/metair"
	"github.com/dekarrin/ll1gen/internal/setutil"
)

const parserPreamble = `type parser struct {
	tokens  []Token
	pointer int
	counter int
}

func (p *parser) nextID() string {
	id := strconv.Itoa(p.counter)
	p.counter++
	return id
}
`

// generateParser emits the Parser type, one consume procedure per
// terminal plus Eof, one procedure per nonterminal, and the free Parse
// entry point invoking the start nonterminal.
func generateParser(g *analysis.Grammar, table *analysis.Table) (string, error) {
	var sb strings.Builder
	sb.WriteString(parserPreamble)
	sb.WriteString("\n")

	for _, tok := range g.IR.Tokens {
		sb.WriteString(generateTerminalConsume(tok.Name))
		sb.WriteString("\n")
	}
	sb.WriteString(generateEofConsume())
	sb.WriteString("\n")

	for _, nt := range g.IR.Nonterminals {
		fn, err := generateNonterminal(nt, g, table)
		if err != nil {
			return "", err
		}
		sb.WriteString(fn)
		sb.WriteString("\n")
	}

	sb.WriteString(generateEntryPoint(g.IR))

	return sb.String(), nil
}

func generateTerminalConsume(name string) string {
	return fmt.Sprintf(`func (p *parser) consume%s() (node *graphviz.Node, lexeme string, err error) {
	tok := p.tokens[p.pointer]
	pos := p.pointer
	id := p.nextID()
	if tok.Kind != %s {
		err = &ParseError{Position: pos, Message: "Expected %s"}
		return
	}
	p.pointer++
	node = graphviz.NewLeaf(id, tok.Lexeme)
	lexeme = tok.Lexeme
	return
}
`, name, strconv.Quote(name), name)
}

func generateEofConsume() string {
	return fmt.Sprintf(`func (p *parser) consumeEof() (node *graphviz.Node, err error) {
	tok := p.tokens[p.pointer]
	pos := p.pointer
	id := p.nextID()
	if tok.Kind != %s {
		err = &ParseError{Position: pos, Message: "Expected Eof"}
		return
	}
	node = graphviz.NewLeaf(id, "Eof")
	return
}
`, strconv.Quote(metair.EOF))
}

// generateNonterminal emits one parse procedure. It returns an error only
// if the nonterminal's declared start of processing would require a
// predictive set the analyzer did not compute, which should never happen
// for a *analysis.Grammar that has already passed analysis.BuildTable.
func generateNonterminal(nt metair.NonterminalDecl, g *analysis.Grammar, table *analysis.Table) (string, error) {
	alts, ok := table.Alternatives[nt.Name]
	if !ok {
		return "", generr.NewUndefinedSymbol(nt.Name)
	}

	funcName := "parse" + nt.Name
	params := paramList(nt.Args)
	returns := returnList(nt.Returns)

	var sb strings.Builder
	fmt.Fprintf(&sb, "func (p *parser) %s(%s) (node *graphviz.Node%s, err error) {\n", funcName, params, returns)
	sb.WriteString("\ttok := p.tokens[p.pointer]\n")
	sb.WriteString("\tid := p.nextID()\n")
	sb.WriteString("\tvar children []*graphviz.Node\n")
	sb.WriteString("\tswitch tok.Kind {\n")

	for _, alt := range alts {
		rule := nt.Rules[alt.Index]
		fmt.Fprintf(&sb, "\tcase %s:\n", predCaseList(alt.Pred))
		writeRuleBody(&sb, rule, g)
	}

	sb.WriteString("\tdefault:\n")
	sb.WriteString(`		err = &ParseError{Position: p.pointer, Message: "Can't match rule"}` + "\n")
	sb.WriteString("\t\treturn\n")
	sb.WriteString("\t}\n")

	fmt.Fprintf(&sb, "\tnode = graphviz.NewNode(id, %s, children)\n", strconv.Quote(nt.Name))
	sb.WriteString("\treturn\n")
	sb.WriteString("}\n")

	return sb.String(), nil
}

// writeRuleBody emits the statements for one alternative: for each
// RuleCall member, invoke the callee and bind its returned components
// under a "<Name><i>_" prefix, where i is that member's position among
// *all* members of the alternative (calls and Commands alike, matching
// the original parser generator's per-member counting), so later Command
// fragments in the same alternative can reference them by a predictable
// name. Any binding a Command doesn't go on to use - most commonly a
// terminal's lexeme, or a nonterminal's non-node returns, when an
// alternative has no Command at all - is explicitly discarded so the
// emitted function compiles whether or not anything reads it. For each
// Command member, its text is spliced verbatim into its own scope.
func writeRuleBody(sb *strings.Builder, rule metair.Rule, g *analysis.Grammar) {
	for i, member := range rule.Members {
		switch {
		case member.Call != nil:
			call := member.Call
			prefix := fmt.Sprintf("%s%d_", call.Name, i)

			var bound []string
			if g.Terminals.Has(call.Name) {
				fmt.Fprintf(sb, "\t\t%snode, %slexeme, %sErr := p.consume%s()\n", prefix, prefix, prefix, call.Name)
				bound = []string{prefix + "lexeme"}
			} else {
				decl, _ := g.IR.Nonterminal(call.Name)
				retNames := make([]string, len(decl.Returns))
				for j, r := range decl.Returns {
					retNames[j] = prefix + r.Name
				}
				lhs := prefix + "node"
				if len(retNames) > 0 {
					lhs += ", " + strings.Join(retNames, ", ")
				}
				fmt.Fprintf(sb, "\t\t%s, %sErr := p.parse%s%s\n", lhs, prefix, call.Name, call.ArgText)
				bound = retNames
			}
			fmt.Fprintf(sb, "\t\tif %sErr != nil {\n\t\t\terr = %sErr\n\t\t\treturn\n\t\t}\n", prefix, prefix)
			fmt.Fprintf(sb, "\t\tchildren = append(children, %snode)\n", prefix)
			for _, name := range bound {
				fmt.Fprintf(sb, "\t\t_ = %s\n", name)
			}

		case member.Command != nil:
			fmt.Fprintf(sb, "\t\t{\n%s\n\t\t}\n", member.Command.Text)
		}
	}
}

func generateEntryPoint(ir metair.GrammarIR) string {
	start, _ := ir.Nonterminal(metair.StartSymbol)
	argNames := make([]string, len(start.Args))
	for i, a := range start.Args {
		argNames[i] = a.Name
	}

	params := "input string"
	if len(start.Args) > 0 {
		params += ", " + paramList(start.Args)
	}
	returns := returnList(start.Returns)

	call := "p.parse" + metair.StartSymbol + "(" + strings.Join(argNames, ", ") + ")"

	return fmt.Sprintf(`func Parse(%s) (node *graphviz.Node%s, err error) {
	tokens, tokErr := tokenize(input)
	if tokErr != nil {
		err = tokErr
		return
	}
	p := &parser{tokens: tokens}
	return %s
}
`, params, returns, call)
}

func paramList(args []metair.Typed) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprintf("%s %s", a.Name, a.Type)
	}
	return strings.Join(parts, ", ")
}

func returnList(rets []metair.Typed) string {
	var sb strings.Builder
	for _, r := range rets {
		fmt.Fprintf(&sb, ", %s %s", r.Name, r.Type)
	}
	return sb.String()
}

func predCaseList(pred setutil.StringSet) string {
	terms := pred.Sorted()
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = strconv.Quote(t)
	}
	return strings.Join(quoted, ", ")
}
