// Command fend is the CLI surface spec.md §6 describes: a one-shot
// expression evaluator when given `-e`/`-f`/bare argv, or an interactive
// REPL when given nothing and stdin is a terminal.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/printfn/fend"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the whole CLI minus process exit, factored out so
// testdata/script/*.txtar can drive it via testscript's RunMain without
// each scripted invocation tearing down the test binary's own process.
func run(args []string) (exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			exitCode = 1
		}
	}()

	expr, isOneShot, err := exprFromArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 1
	}

	if isOneShot {
		return runOneShot(expr)
	}

	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return runPiped(os.Stdin)
	}

	runRepl(os.Stdin, os.Stdout)
	return 0
}

// exprFromArgs recognises `-e EXPR`, `-f FILE`, `-- EXPR...`, or bare
// `EXPR...` (joined with spaces, matching the teacher CLI's "rest of argv is
// the payload" convention). isOneShot is false only when args is empty.
func exprFromArgs(args []string) (expr string, isOneShot bool, err error) {
	if len(args) == 0 {
		return "", false, nil
	}
	switch args[0] {
	case "-e":
		if len(args) < 2 {
			return "", false, fmt.Errorf("-e requires an expression argument")
		}
		return strings.Join(args[1:], " "), true, nil
	case "-f":
		if len(args) < 2 {
			return "", false, fmt.Errorf("-f requires a file argument")
		}
		data, err := os.ReadFile(args[1])
		if err != nil {
			return "", false, err
		}
		return string(data), true, nil
	case "--":
		return strings.Join(args[1:], " "), true, nil
	default:
		return strings.Join(args, " "), true, nil
	}
}

func runOneShot(expr string) int {
	res := fend.Evaluate(expr, 0, nil)
	if !res.Ok {
		fmt.Fprintf(os.Stderr, "Error: %s\n", res.Message)
		return 1
	}
	fmt.Print(res.ResultStr)
	return 0
}

// runPiped evaluates every line read from a non-terminal stdin as its own
// top-level expression, each with its own fresh scope (one-shot semantics,
// matching how the teacher CLI treats a piped script as independent lines
// rather than a REPL session).
func runPiped(in io.Reader) int {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	exitCode := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		res := fend.Evaluate(line, 0, nil)
		if !res.Ok {
			fmt.Fprintf(os.Stderr, "Error: %s\n", res.Message)
			exitCode = 1
			continue
		}
		fmt.Print(res.ResultStr)
	}
	return exitCode
}

// runRepl drives an interactive session, persisting the variable scope
// across lines as the serialised blob spec.md §6 specifies, rather than a
// long-lived in-process Context — exercising the same byte-blob path a
// stateless host (editor plugin, server) would use between calls.
func runRepl(in io.Reader, out io.Writer) {
	fmt.Fprintf(out, "fend %s\n", version)
	scanner := bufio.NewScanner(in)
	var variables []byte
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch line {
		case "version":
			fmt.Fprintf(out, "fend %s\n", version)
			continue
		case "help":
			fmt.Fprintln(out, "enter an expression to evaluate it, or 'exit'/'quit' to leave")
			continue
		case "exit", "quit":
			return
		}
		res := fend.Evaluate(line, 0, variables)
		if !res.Ok {
			fmt.Fprintf(out, "Error: %s\n", res.Message)
			continue
		}
		variables = res.Variables
		fmt.Fprint(out, res.ResultStr)
	}
}
