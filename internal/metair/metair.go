// Package metair defines GrammarIR, the intermediate representation
// produced by package metaparse and consumed by packages analysis and
// emit. A GrammarIR value is built once from grammar-description text and
// is never mutated afterward; nonterminals refer to each other by name
// rather than by pointer so the structure stays an acyclic value even
// though the grammar it describes may be recursive.
package metair

// Typed is a name paired with an opaque type-text fragment, used for both
// inherited arguments and synthesized returns of a nonterminal.
type Typed struct {
	Name string
	Type string
}

// Token is one entry of the Tokens block: a terminal name and the regex
// literal (including its surrounding quotes, as written in the grammar
// source) that recognizes it.
type Token struct {
	Name  string
	Regex string
}

// RuleMember is one element of a Rule: either an invocation of another
// symbol (RuleCall) or a verbatim host-language fragment (Command). Exactly
// one of Call/Command is non-nil.
type RuleMember struct {
	Call    *RuleCall
	Command *Command
}

// RuleCall invokes a nonterminal or terminal by name, optionally passing
// arguments. ArgText is the balanced-paren source text the member was
// written with, defaulting to "()" when no argument list was present.
type RuleCall struct {
	Name    string
	ArgText string
}

// Command is a balanced-brace host-language fragment to be spliced
// verbatim into the generated alternative body. Its text is opaque to the
// core: it is never parsed or normalized.
type Command struct {
	Text string
}

// Rule is one alternative of a nonterminal: an ordered sequence of
// members.
type Rule struct {
	Members []RuleMember
}

// Symbols returns the rule's members filtered down to symbol names (the
// RuleCall members, in order), with Command members removed. This is the
// "rule body" used by the analyzer's FIRST/FOLLOW computation.
func (r Rule) Symbols() []string {
	syms := make([]string, 0, len(r.Members))
	for _, m := range r.Members {
		if m.Call != nil {
			syms = append(syms, m.Call.Name)
		}
	}
	return syms
}

// NonterminalDecl is one entry of the NotTerminals block.
type NonterminalDecl struct {
	Name    string
	Args    []Typed // inherited attributes
	Returns []Typed // synthesized attributes
	Rules   []Rule  // non-empty; alternatives in source order
}

// GrammarIR is the complete intermediate representation of a grammar
// description: a Prelude fragment, an ordered Skip list, an ordered Tokens
// list, and an ordered Nonterminals list. It is immutable once constructed.
type GrammarIR struct {
	Prelude       string
	Skip          []string
	Tokens        []Token
	Nonterminals  []NonterminalDecl
}

// StartSymbol is the reserved name of the grammar's single required start
// nonterminal.
const StartSymbol = "S"

// EOF is the reserved terminal name implicitly appended by the tokenizer;
// users may not declare a terminal or nonterminal with this name.
const EOF = "Eof"

// Epsilon represents the empty production internally. It is never a valid
// terminal or nonterminal name, so it cannot collide with a user symbol.
const Epsilon = ""

// NonterminalNames returns the declared nonterminal names in declaration
// order.
func (g GrammarIR) NonterminalNames() []string {
	names := make([]string, len(g.Nonterminals))
	for i, nt := range g.Nonterminals {
		names[i] = nt.Name
	}
	return names
}

// TokenNames returns the declared terminal names in declaration order.
func (g GrammarIR) TokenNames() []string {
	names := make([]string, len(g.Tokens))
	for i, t := range g.Tokens {
		names[i] = t.Name
	}
	return names
}

// Nonterminal looks up a NonterminalDecl by name. ok is false if no such
// nonterminal was declared.
func (g GrammarIR) Nonterminal(name string) (decl NonterminalDecl, ok bool) {
	for _, nt := range g.Nonterminals {
		if nt.Name == name {
			return nt, true
		}
	}
	return NonterminalDecl{}, false
}

// Token looks up a Token declaration by name. ok is false if no such
// terminal was declared.
func (g GrammarIR) Token(name string) (tok Token, ok bool) {
	for _, t := range g.Tokens {
		if t.Name == name {
			return t, true
		}
	}
	return Token{}, false
}

// IsTerminal returns whether name was declared as a terminal.
func (g GrammarIR) IsTerminal(name string) bool {
	_, ok := g.Token(name)
	return ok
}

// IsNonterminal returns whether name was declared as a nonterminal.
func (g GrammarIR) IsNonterminal(name string) bool {
	_, ok := g.Nonterminal(name)
	return ok
}
