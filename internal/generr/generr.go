// Package generr holds the error kinds produced by the grammar pipeline.
// Each kind is a distinct Go type so callers can use errors.As to recover
// the structured detail (offending position, conflicting alternatives,
// ...) rather than parsing a message string.
package generr

import "fmt"

// MetaParseError reports a malformed grammar-description file. Position is
// the byte offset of the offending character.
type MetaParseError struct {
	Position int
	Message  string
}

func (e *MetaParseError) Error() string {
	return fmt.Sprintf("parse error at byte %d: %s", e.Position, e.Message)
}

// NewMetaParseError builds a MetaParseError.
func NewMetaParseError(position int, message string) error {
	return &MetaParseError{Position: position, Message: message}
}

// UndefinedSymbol reports a RuleCall naming neither a declared terminal nor
// a declared nonterminal.
type UndefinedSymbol struct {
	Name string
}

func (e *UndefinedSymbol) Error() string {
	return fmt.Sprintf("undefined symbol %q: not a declared terminal or nonterminal", e.Name)
}

// NewUndefinedSymbol builds an UndefinedSymbol error.
func NewUndefinedSymbol(name string) error {
	return &UndefinedSymbol{Name: name}
}

// MissingStart reports that the grammar has no nonterminal named "S".
type MissingStart struct{}

func (e *MissingStart) Error() string {
	return "grammar has no start nonterminal named \"S\""
}

// NewMissingStart builds a MissingStart error.
func NewMissingStart() error {
	return &MissingStart{}
}

// ReservedTerminal reports that the user declared a terminal or nonterminal
// named "Eof", which the tokenizer reserves for its end-of-input sentinel.
type ReservedTerminal struct {
	Name string
}

func (e *ReservedTerminal) Error() string {
	return fmt.Sprintf("%q is reserved for the end-of-input sentinel and cannot be declared", e.Name)
}

// NewReservedTerminal builds a ReservedTerminal error.
func NewReservedTerminal(name string) error {
	return &ReservedTerminal{Name: name}
}

// NotLL1 reports that two alternatives of a nonterminal violate the LL(1)
// predictive-set disjointness property.
type NotLL1 struct {
	Nonterminal   string
	AlternativeI  int
	AlternativeJ  int
	Conflict      []string // terminals present in both predictive sets
}

func (e *NotLL1) Error() string {
	return fmt.Sprintf("grammar is not LL(1): nonterminal %q alternatives %d and %d both predict on %v",
		e.Nonterminal, e.AlternativeI, e.AlternativeJ, e.Conflict)
}

// NewNotLL1 builds a NotLL1 error.
func NewNotLL1(nonterminal string, i, j int, conflict []string) error {
	return &NotLL1{Nonterminal: nonterminal, AlternativeI: i, AlternativeJ: j, Conflict: conflict}
}

// ParseError is the runtime error kind documented for *generated* parsers
// the core never raises it itself, but package rtsim raises it
// when simulating a generated parser's predictive decisions, and package
// emit spliced the identical struct shape into the emitted source so the
// two stay in lockstep.
type ParseError struct {
	Position int
	Message  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (at position %d)", e.Message, e.Position)
}

// NewParseError builds a ParseError.
func NewParseError(position int, message string) error {
	return &ParseError{Position: position, Message: message}
}
