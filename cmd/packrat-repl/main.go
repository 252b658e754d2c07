/*
Packrat-repl is an interactive session for exercising a packrat grammar
built with this module: it tokenizes and parses each line typed at its
prompt using a small four-function calculator grammar and prints the
resulting token list and parse tree.

Usage:

	packrat-repl [flags]

The flags are:

	-v, --version
		Give the current version of packrat-repl and then exit.

	-d, --direct
		Force reading directly from stdin instead of going through
		GNU-readline-style editing, even if launched in a tty.

	-c, --command EXPRESSION
		Parse the given expression immediately at start and exit, instead of
		entering the interactive loop.

	-t, --tokens
		Also print the raw token list produced by the tokenizer.
*/
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	packrat "github.com/dekarrin/packrat"
	"github.com/dekarrin/packrat/internal/replio"
	"github.com/dekarrin/packrat/internal/version"
	"github.com/spf13/pflag"
	"golang.org/x/text/width"
)

const (
	exitSuccess = iota
	exitInitError
	exitParseError
)

var (
	returnCode     = exitSuccess
	flagVersion    = pflag.BoolP("version", "v", false, "Give the version and exit")
	flagDirect     = pflag.BoolP("direct", "d", false, "Force direct stdin reading instead of readline")
	flagCommand    = pflag.StringP("command", "c", "", "Parse the given expression and exit")
	flagTokens     = pflag.BoolP("tokens", "t", false, "Also print the raw token list")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		}
		os.Exit(returnCode)
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("packrat-repl %s\n", version.Current)
		return
	}

	parser, err := newCalcParser()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: could not build grammar: %s\n", err)
		returnCode = exitInitError
		return
	}

	if *flagCommand != "" {
		for _, expr := range strings.Split(*flagCommand, ";") {
			if !runLine(parser, expr, *flagTokens) {
				returnCode = exitParseError
			}
		}
		return
	}

	runLoop(parser, *flagDirect, *flagTokens)
}

type lineReader interface {
	ReadLine() (string, error)
	AllowBlank(bool)
	Close() error
}

func runLoop(parser *packrat.DefaultParser[calcNode, calcTag], direct, showTokens bool) {
	var reader lineReader
	var err error

	if direct || !isatty(os.Stdin) {
		reader = replio.NewDirectReader(os.Stdin)
	} else {
		reader, err = replio.NewInteractiveReader("packrat> ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: could not start interactive input: %s\n", err)
			reader = replio.NewDirectReader(os.Stdin)
		}
	}
	defer reader.Close()

	fmt.Println("packrat-repl: type an expression, or QUIT to exit.")
	for {
		line, err := reader.ReadLine()
		if err != nil {
			if err != io.EOF {
				fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			}
			return
		}
		if strings.EqualFold(line, "QUIT") {
			return
		}
		runLine(parser, line, showTokens)
	}
}

func isatty(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}

func runLine(parser *packrat.DefaultParser[calcNode, calcTag], line string, showTokens bool) bool {
	toks, tree, err := parser.TokenizeAndParse([]byte(line))
	if err != nil {
		fmt.Fprintf(os.Stderr, "PARSE ERROR: %s\n", err)
		return false
	}
	if showTokens {
		for _, t := range toks {
			fmt.Printf("  %-8s %q\n", t.Tag, line[t.Start:t.End])
		}
	}
	for _, node := range tree {
		printTree(node, "")
	}
	return true
}

// printTree renders an ASTNode tree indented by depth, padding each label
// to a consistent visual column using golang.org/x/text/width so wide
// (e.g. fullwidth or CJK) runes that could appear in a future grammar's
// node names don't throw off alignment the way counting bytes or runes
// alone would.
func printTree(n packrat.ASTNode[calcNode], prefix string) {
	label := fmt.Sprintf("%v", n.Tag)
	fmt.Printf("%s%s%s#%d-%d\n", prefix, label, pad(label, 10), n.Start, n.End)
	for _, c := range n.Children {
		printTree(c, prefix+"  ")
	}
}

func pad(s string, col int) string {
	w := 0
	for _, r := range s {
		props, _ := width.LookupRune(r)
		switch props.Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			w += 2
		default:
			w++
		}
	}
	if w >= col {
		return " "
	}
	return strings.Repeat(" ", col-w)
}
