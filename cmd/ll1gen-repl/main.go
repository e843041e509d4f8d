/*
Ll1gen-repl is an interactive console for inspecting a grammar description
without generating or compiling any source: load a grammar, inspect its
FIRST/FOLLOW sets and predictive table, and run sample input through the
in-memory tokenizer and predictive parser.

Usage:

	ll1gen-repl [flags]

The flags are:

	-v, --version
		Give the current version of ll1gen and then exit.

	-g, --grammar FILE
		Load the given grammar description file at startup.

Once started, the console accepts the following commands:

	load <file>        parse and analyze the grammar description in <file>
	first <nt>          print FIRST(<nt>)
	follow <nt>          print FOLLOW(<nt>)
	tokenize <text>      lex <text> against the loaded grammar's Skip/Tokens
	table                render the LL(1) predictive table
	parse <text>         tokenize and predictively parse <text>
	tree                 print the parse tree produced by the last parse
	dot                  print the last parse tree as Graphviz DOT source
	quit                 exit the console
*/
package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/pflag"

	"github.com/dekarrin/ll1gen/graphviz"
	"github.com/dekarrin/ll1gen/internal/analysis"
	"github.com/dekarrin/ll1gen/internal/metair"
	"github.com/dekarrin/ll1gen/internal/metaparse"
	"github.com/dekarrin/ll1gen/internal/rtsim"
	"github.com/dekarrin/ll1gen/internal/util"
	"github.com/dekarrin/ll1gen/internal/version"
	"github.com/dekarrin/rosed"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of ll1gen and then exit.")
	flagGrammar = pflag.StringP("grammar", "g", "", "Load the given grammar description file at startup.")
)

// session holds the loaded grammar and the result of the last parse, so
// successive commands can refer back to them.
type session struct {
	grammar  *analysis.Grammar
	table    *analysis.Table
	lastTree *rtsim.Tree
}

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("ll1gen-repl v%s\n", version.Current)
		return
	}

	rl, err := readline.NewEx(&readline.Config{Prompt: "ll1gen> "})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		os.Exit(1)
	}
	defer rl.Close()

	sess := &session{}

	if *flagGrammar != "" {
		if err := sess.load(*flagGrammar); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		}
	}

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				return
			}
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		verb, arg, _ := strings.Cut(line, " ")
		verb = strings.ToLower(verb)
		arg = strings.TrimSpace(arg)

		if verb == "quit" {
			return
		}

		if err := sess.dispatch(verb, arg); err != nil {
			fmt.Println(rosed.Edit(err.Error()).Wrap(80).String())
		}
	}
}

func (s *session) dispatch(verb, arg string) error {
	switch verb {
	case "load":
		return s.load(arg)
	case "first":
		return s.printFirst(arg)
	case "follow":
		return s.printFollow(arg)
	case "tokenize":
		return s.printTokenize(arg)
	case "table":
		return s.printTable()
	case "parse":
		return s.parse(arg)
	case "tree":
		return s.printTree()
	case "dot":
		return s.printDOT()
	default:
		return fmt.Errorf("unknown command %q", verb)
	}
}

func (s *session) load(path string) error {
	if path == "" {
		return fmt.Errorf("load requires a file path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	ir, err := metaparse.Parse(string(data))
	if err != nil {
		return err
	}
	g, err := analysis.BuildGrammar(ir)
	if err != nil {
		return err
	}
	table, err := analysis.BuildTable(g)
	if err != nil {
		return err
	}

	s.grammar = g
	s.table = table
	s.lastTree = nil
	fmt.Printf("loaded %d terminal(s), %d nonterminal(s)\n", g.Terminals.Len(), g.Nonterminals.Len())
	return nil
}

func (s *session) requireGrammar() error {
	if s.grammar == nil {
		return fmt.Errorf("no grammar loaded; use 'load <file>' first")
	}
	return nil
}

func (s *session) printFirst(nt string) error {
	if err := s.requireGrammar(); err != nil {
		return err
	}
	first := analysis.ComputeFirst(s.grammar)
	set, ok := first[nt]
	if !ok {
		return fmt.Errorf("no such nonterminal %q; known nonterminals are %s", nt, util.MakeTextList(s.nonterminalNames()))
	}
	fmt.Printf("FIRST(%s) = %s\n", nt, set.String())
	return nil
}

func (s *session) printFollow(nt string) error {
	if err := s.requireGrammar(); err != nil {
		return err
	}
	first := analysis.ComputeFirst(s.grammar)
	follow := analysis.ComputeFollow(s.grammar, first)
	set, ok := follow[nt]
	if !ok {
		return fmt.Errorf("no such nonterminal %q; known nonterminals are %s", nt, util.MakeTextList(s.nonterminalNames()))
	}
	fmt.Printf("FOLLOW(%s) = %s\n", nt, set.String())
	return nil
}

// nonterminalNames returns the names of every nonterminal in the loaded
// grammar, sorted for stable, readable error messages.
func (s *session) nonterminalNames() []string {
	names := make([]string, 0, len(s.grammar.Nonterminals))
	for nt := range s.grammar.Nonterminals {
		names = append(names, nt)
	}
	sort.Strings(names)
	return names
}

func (s *session) printTokenize(text string) error {
	if err := s.requireGrammar(); err != nil {
		return err
	}
	tokens, err := rtsim.Tokenize(s.grammar, text)
	if err != nil {
		return err
	}
	for _, tok := range tokens {
		fmt.Printf("%-10s %q (pos %d)\n", tok.Name, tok.Lexeme, tok.Pos)
	}
	return nil
}

func (s *session) printTable() error {
	if err := s.requireGrammar(); err != nil {
		return err
	}

	var terms []string
	for t := range s.grammar.Terminals {
		terms = append(terms, t)
	}
	terms = append(terms, metair.EOF)

	var nts []string
	for nt := range s.grammar.Nonterminals {
		nts = append(nts, nt)
	}

	headers := append([]string{"NT"}, terms...)
	data := [][]string{headers}
	for _, nt := range nts {
		row := []string{nt}
		for _, term := range terms {
			cell := ""
			if altIndex, ok := s.table.Predict(nt, term); ok {
				body := s.table.Alternatives[nt][altIndex].Body
				if len(body) == 0 {
					cell = "ε"
				} else {
					cell = strings.Join(body, " ")
				}
			}
			row = append(row, cell)
		}
		data = append(data, row)
	}

	out := rosed.Edit("").InsertTableOpts(0, data, 100, rosed.Options{
		TableHeaders:             true,
		NoTrailingLineSeparators: true,
	}).String()
	fmt.Println(out)
	return nil
}

func (s *session) parse(text string) error {
	if err := s.requireGrammar(); err != nil {
		return err
	}
	tokens, err := rtsim.Tokenize(s.grammar, text)
	if err != nil {
		return err
	}
	tree, err := rtsim.Simulate(s.table, s.grammar, tokens)
	if err != nil {
		return err
	}
	s.lastTree = tree
	fmt.Println("parse accepted")
	return nil
}

func (s *session) printTree() error {
	if s.lastTree == nil {
		return fmt.Errorf("no parse tree available; use 'parse <text>' first")
	}
	fmt.Println(s.lastTree.String())
	return nil
}

func (s *session) printDOT() error {
	if s.lastTree == nil {
		return fmt.Errorf("no parse tree available; use 'parse <text>' first")
	}
	fmt.Println(graphviz.GenerateDOT(s.lastTree.ToGraphviz()))
	return nil
}
