// Command pklc is a minimal demo driver for the compiler facade,
// grounded on the teacher's cmd/langlang (_examples/clarete-langlang/go/cmd/langlang/main.go's
// flag-parsed, single-binary entry point), narrowed to this module's
// three input modes: a script file, a one-off expression, or (with
// neither flag given) an interactive read-eval loop.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"pklc/internal/compile"
	"pklc/internal/diag"
	"pklc/internal/diag/ascii"
)

func main() {
	var (
		inputPath  = flag.String("input", "", "path to a script to compile and run")
		expr       = flag.String("e", "", "evaluate a single expression and print its value")
		quiet      = flag.Bool("quiet", false, "suppress diagnostic output")
		color      = flag.Bool("color", true, "colorize diagnostic output")
		strictWarn = flag.Bool("error-on-warning", false, "treat warnings as errors")
	)
	flag.Parse()

	theme := &ascii.DefaultTheme
	if !*color {
		theme = nil
	}
	sink := diag.NewWriterSink(os.Stdout, theme)
	printer := compile.PrinterFunc(func(s string) {
		if !*quiet {
			sink.Puts(s + "\n")
		}
	})

	c, err := compile.New(nil, printer)
	if err != nil {
		log.Fatalf("bootstrap failed: %s", err)
	}
	c.SetQuiet(*quiet)
	c.SetErrorOnWarning(*strictWarn)

	switch {
	case *expr != "":
		runExpression(c, *expr, sink)
	case *inputPath != "":
		runFile(c, *inputPath, sink)
	default:
		runREPL(c, sink)
	}
}

func runExpression(c *compile.Compiler, text string, sink *diag.WriterSink) {
	v, err := c.CompileStatement(text+";", "<expr>")
	if err != nil {
		reportAndExit(c, sink, err)
	}
	if v != nil {
		fmt.Println(v.Render(nil))
	}
}

func runFile(c *compile.Compiler, path string, sink *diag.WriterSink) {
	if err := c.CompileFile(path); err != nil {
		reportAndExit(c, sink, err)
	}
}

// runREPL is a bare-bones line-at-a-time loop: each line is compiled
// as one statement and its value, if any, is printed (spec §6.1's
// compile_statement is the entry point a real REPL drives).
func runREPL(c *compile.Compiler, sink *diag.WriterSink) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("pkl> ")
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		v, err := c.CompileStatement(line, "<stdin>")
		if err != nil {
			reportDiagnostics(c, sink)
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if v != nil {
			fmt.Println(v.Render(nil))
		}
	}
}

func reportAndExit(c *compile.Compiler, sink *diag.WriterSink, err error) {
	reportDiagnostics(c, sink)
	log.Fatal(err)
}

func reportDiagnostics(c *compile.Compiler, sink *diag.WriterSink) {
	for _, d := range c.Diagnostics() {
		diag.Report(sink, d)
	}
	sink.Flush()
}
