/*
Ll1gen generates an LL(1) predictive parser from a grammar description.

Usage:

	ll1gen [flags]
	ll1gen -g grammar.ll1 -o parser.go

If either of --grammar/-g or --out/-o is not given, ll1gen falls back to
reading the missing path(s) as newline-terminated lines from stdin, grammar
path first and output path second.

The flags are:

	-v, --version
		Give the current version of ll1gen and then exit.

	-g, --grammar FILE
		Read the grammar description from FILE.

	-o, --out FILE
		Write the generated source to FILE.

	-c, --config FILE
		Read default paths and cache directory from the given TOML config
		file. Flags take precedence over values found there.
*/
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/dekarrin/ll1gen"
	"github.com/dekarrin/ll1gen/internal/cache"
	"github.com/dekarrin/ll1gen/internal/config"
	"github.com/dekarrin/ll1gen/internal/version"
)

const (
	ExitSuccess = iota
	ExitIOError
	ExitGenError
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of ll1gen and then exit.")
	flagGrammar = pflag.StringP("grammar", "g", "", "Read the grammar description from the given file.")
	flagOut     = pflag.StringP("out", "o", "", "Write the generated source to the given file.")
	flagConfig  = pflag.StringP("config", "c", "", "Read default paths and cache directory from a TOML config file.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("ll1gen v%s\n", version.Current)
		return
	}

	var cfg config.Config
	if *flagConfig != "" {
		var err error
		cfg, err = config.Load(*flagConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			os.Exit(ExitIOError)
		}
	}

	grammarPath := *flagGrammar
	outPath := *flagOut

	if grammarPath == "" {
		grammarPath = cfg.GrammarFile
	}
	if outPath == "" {
		outPath = cfg.OutFile
	}

	stdin := bufio.NewReader(os.Stdin)
	if grammarPath == "" {
		var err error
		grammarPath, err = readLine(stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: reading grammar path from stdin: %s\n", err.Error())
			os.Exit(ExitIOError)
		}
	}
	if outPath == "" {
		var err error
		outPath, err = readLine(stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: reading output path from stdin: %s\n", err.Error())
			os.Exit(ExitIOError)
		}
	}

	grammarText, err := os.ReadFile(grammarPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		os.Exit(ExitIOError)
	}

	source, err := generate(cfg.CacheDir, string(grammarText))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		os.Exit(ExitGenError)
	}

	if err := os.WriteFile(outPath, []byte(source), 0664); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		os.Exit(ExitIOError)
	}
}

// generate runs the full pipeline, consulting the on-disk cache at cacheDir
// first if one is configured.
func generate(cacheDir string, grammarText string) (string, error) {
	if cacheDir == "" {
		return ll1gen.Generate(grammarText)
	}

	ch, err := cache.Open(cacheDir)
	if err != nil {
		return "", err
	}

	key := cache.Key(grammarText)
	if entry, err := ch.Get(key); err == nil {
		return entry.Result.Source, nil
	}

	result, err := ll1gen.GenerateResult(grammarText)
	if err != nil {
		return "", err
	}

	_ = ch.Put(cache.Entry{Key: key, GrammarText: grammarText, Result: result, Created: time.Now()})
	return result.Source, nil
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
