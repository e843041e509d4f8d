// Package metaparse implements the MetaParser: a hand-written,
// single-pass scanner over the grammar-description meta-language that
// produces a metair.GrammarIR or fails with a position-tagged
// *generr.MetaParseError. The meta-language needs no backtracking, since
// each of the four top-level sections is introduced by a fixed keyword
// before its brace block, so the functions here are a direct,
// non-backtracking descent rather than a parser-combinator library.
package metaparse

import (
	"strings"

	"github.com/dekarrin/ll1gen/internal/metair"
)

// Parse reads a complete grammar-description document and returns its
// GrammarIR, or the first *generr.MetaParseError encountered.
func Parse(src string) (metair.GrammarIR, error) {
	s := newScanner(src)

	prelude, err := parsePrelude(s)
	if err != nil {
		return metair.GrammarIR{}, err
	}

	skip, err := parseSkip(s)
	if err != nil {
		return metair.GrammarIR{}, err
	}

	tokens, err := parseTokens(s)
	if err != nil {
		return metair.GrammarIR{}, err
	}

	nts, err := parseNotTerminals(s)
	if err != nil {
		return metair.GrammarIR{}, err
	}

	return metair.GrammarIR{
		Prelude:      prelude,
		Skip:         skip,
		Tokens:       tokens,
		Nonterminals: nts,
	}, nil
}

// parsePrelude reads: Prelude "{" balanced-braces "}"
func parsePrelude(s *scanner) (string, error) {
	if err := s.expectLiteral("Prelude"); err != nil {
		return "", err
	}
	s.skipSpace()
	return s.balanced('{', '}')
}

// parseSkip reads: Skip "{" (regex (";" regex)*)? ";"? "}"
func parseSkip(s *scanner) ([]string, error) {
	if err := s.expectLiteral("Skip"); err != nil {
		return nil, err
	}
	s.skipSpace()
	if err := s.expectLiteral("{"); err != nil {
		return nil, err
	}

	var regexes []string
	for {
		s.skipSpace()
		if s.peekLiteral("}") {
			break
		}
		re, err := s.regexLiteral()
		if err != nil {
			return nil, err
		}
		regexes = append(regexes, re)

		if s.tryLiteral(";") {
			continue
		}
		break
	}

	if err := s.expectLiteral("}"); err != nil {
		return nil, err
	}
	return regexes, nil
}

// parseTokens reads: Tokens "{" (Token (";" Token)*)? ";"? "}"
// Token := ident "->" regex
func parseTokens(s *scanner) ([]metair.Token, error) {
	if err := s.expectLiteral("Tokens"); err != nil {
		return nil, err
	}
	s.skipSpace()
	if err := s.expectLiteral("{"); err != nil {
		return nil, err
	}

	var tokens []metair.Token
	for {
		s.skipSpace()
		if s.peekLiteral("}") {
			break
		}
		name, err := s.ident()
		if err != nil {
			return nil, err
		}
		if err := s.expectLiteral("->"); err != nil {
			return nil, err
		}
		re, err := s.regexLiteral()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, metair.Token{Name: name, Regex: re})

		if s.tryLiteral(";") {
			continue
		}
		break
	}

	if err := s.expectLiteral("}"); err != nil {
		return nil, err
	}
	return tokens, nil
}

// parseNotTerminals reads: NotTerminals "{" (NT (";" NT)*)? ";"? "}"
func parseNotTerminals(s *scanner) ([]metair.NonterminalDecl, error) {
	if err := s.expectLiteral("NotTerminals"); err != nil {
		return nil, err
	}
	s.skipSpace()
	if err := s.expectLiteral("{"); err != nil {
		return nil, err
	}

	var nts []metair.NonterminalDecl
	for {
		s.skipSpace()
		if s.peekLiteral("}") {
			break
		}
		nt, err := parseNonterminalDecl(s)
		if err != nil {
			return nil, err
		}
		nts = append(nts, nt)

		if s.tryLiteral(";") {
			continue
		}
		break
	}

	if err := s.expectLiteral("}"); err != nil {
		return nil, err
	}
	return nts, nil
}

// parseNonterminalDecl reads:
//
//	Name TypedBlock TypedBlock "->" Rule ("|" Rule)*
func parseNonterminalDecl(s *scanner) (metair.NonterminalDecl, error) {
	name, err := s.ident()
	if err != nil {
		return metair.NonterminalDecl{}, err
	}

	args, err := parseTypedBlock(s)
	if err != nil {
		return metair.NonterminalDecl{}, err
	}

	returns, err := parseTypedBlock(s)
	if err != nil {
		return metair.NonterminalDecl{}, err
	}

	if err := s.expectLiteral("->"); err != nil {
		return metair.NonterminalDecl{}, err
	}

	var rules []metair.Rule
	for {
		rule, err := parseRule(s)
		if err != nil {
			return metair.NonterminalDecl{}, err
		}
		rules = append(rules, rule)

		if s.tryLiteral("|") {
			continue
		}
		break
	}

	return metair.NonterminalDecl{Name: name, Args: args, Returns: returns, Rules: rules}, nil
}

// parseTypedBlock reads: "{" (Typed (";" Typed)*)? "}"
func parseTypedBlock(s *scanner) ([]metair.Typed, error) {
	s.skipSpace()
	if err := s.expectLiteral("{"); err != nil {
		return nil, err
	}

	var items []metair.Typed
	for {
		s.skipSpace()
		if s.peekLiteral("}") {
			break
		}
		t, err := parseTyped(s)
		if err != nil {
			return nil, err
		}
		items = append(items, t)

		if s.tryLiteral(";") {
			continue
		}
		break
	}

	if err := s.expectLiteral("}"); err != nil {
		return nil, err
	}
	return items, nil
}

// parseTyped reads: /[^#}]+/ "#" /[^;}]+/
//
// The type-text runs to the next ";" or "}" after the "#"; nested
// semicolons inside a complex type expression are not supported.
func parseTyped(s *scanner) (metair.Typed, error) {
	start := s.pos
	hashAt := -1
	for i := s.pos; i < len(s.src); i++ {
		c := s.src[i]
		if c == '#' {
			hashAt = i
			break
		}
		if c == '}' {
			break
		}
	}
	if hashAt < 0 {
		return metair.Typed{}, s.errorf("expected '#' separating attribute name from its type")
	}
	name := strings.TrimSpace(s.src[start:hashAt])
	s.pos = hashAt + 1

	typeStart := s.pos
	for s.pos < len(s.src) && s.src[s.pos] != ';' && s.src[s.pos] != '}' {
		s.pos++
	}
	ty := strings.TrimSpace(s.src[typeStart:s.pos])

	if name == "" {
		return metair.Typed{}, s.errorf("attribute name must not be empty")
	}
	if ty == "" {
		return metair.Typed{}, s.errorf("attribute type must not be empty")
	}

	return metair.Typed{Name: name, Type: ty}, nil
}

// parseRule reads: (RuleCall | Command)*
func parseRule(s *scanner) (metair.Rule, error) {
	var members []metair.RuleMember
	for {
		s.skipSpace()
		if s.eof() {
			break
		}
		c := s.src[s.pos]
		if c == '|' || c == ';' || c == '}' {
			break
		}

		if c == '{' {
			cmd, err := parseCommand(s)
			if err != nil {
				return metair.Rule{}, err
			}
			members = append(members, metair.RuleMember{Command: cmd})
			continue
		}

		if isAlpha(c) {
			call, err := parseRuleCall(s)
			if err != nil {
				return metair.Rule{}, err
			}
			members = append(members, metair.RuleMember{Call: call})
			continue
		}

		return metair.Rule{}, s.errorf("expected a rule member (identifier or '{' command block)")
	}
	return metair.Rule{Members: members}, nil
}

// parseRuleCall reads: ident ( "(" balanced-parens ")" )?
// Argument text defaults to "()" when the parens are absent.
func parseRuleCall(s *scanner) (*metair.RuleCall, error) {
	name, err := s.ident()
	if err != nil {
		return nil, err
	}

	argText := "()"
	s.skipSpace()
	if !s.eof() && s.src[s.pos] == '(' {
		inner, err := s.balanced('(', ')')
		if err != nil {
			return nil, err
		}
		argText = "(" + inner + ")"
	}

	return &metair.RuleCall{Name: name, ArgText: argText}, nil
}

// parseCommand reads: "{" balanced-braces "}"
func parseCommand(s *scanner) (*metair.Command, error) {
	text, err := s.balanced('{', '}')
	if err != nil {
		return nil, err
	}
	return &metair.Command{Text: text}, nil
}
