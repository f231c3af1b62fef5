// Package repl provides the interactive shell for the expression
// engine, with line editing, history and name completion.
package repl

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/fmahebert/eckit/pkg/xpr/evaluator"
	"github.com/fmahebert/eckit/pkg/xpr/xpr"
)

const (
	prompt      = ">> "
	historyFile = ".xpr_history"
)

// Options controls REPL behavior.
type Options struct {
	Locale      string // locale for value display; empty for canonical form
	Banner      string // printed before the first prompt
	HistoryPath string // history file; empty uses ~/.xpr_history
}

// Run drives the read-eval-print loop until :quit or EOF.
func Run(ip *xpr.Interp, out io.Writer, opts Options) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(completer(ip))

	histPath := opts.HistoryPath
	if histPath == "" {
		histPath = historyPath()
	}
	if f, err := os.Open(histPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer saveHistory(line, histPath)

	if opts.Banner != "" {
		fmt.Fprintln(out, opts.Banner)
	}

	for {
		input, err := line.Prompt(prompt)
		if err == liner.ErrPromptAborted || err == io.EOF {
			fmt.Fprintln(out)
			return nil
		}
		if err != nil {
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, ":") {
			if quit := command(ip, out, input); quit {
				return nil
			}
			continue
		}

		values, err := ip.EvalString(input)
		if err != nil {
			fmt.Fprintln(out, "error:", err)
			continue
		}
		for _, v := range values {
			fmt.Fprintln(out, evaluator.FormatValue(v, opts.Locale))
		}
	}
}

// command handles a :meta command, reporting whether the loop should end.
func command(ip *xpr.Interp, out io.Writer, input string) bool {
	switch input {
	case ":quit", ":exit", ":q":
		return true
	case ":reset":
		ip.Reset()
		fmt.Fprintln(out, "state cleared")
	case ":trace on":
		ip.SetTrace(true)
	case ":trace off":
		ip.SetTrace(false)
	case ":funcs":
		for _, name := range ip.Interpreter().Registry().Names() {
			fmt.Fprintln(out, name)
		}
	case ":help":
		fmt.Fprint(out, helpText)
	default:
		fmt.Fprintf(out, "unknown command %s (try :help)\n", input)
	}
	return false
}

const helpText = `commands:
  :help       show this help
  :funcs      list registered functions
  :reset      clear bindings and definitions
  :trace on   print each step as it evaluates
  :trace off  stop tracing
  :quit       leave the shell
`

// completer offers registered function names and native receivers.
func completer(ip *xpr.Interp) liner.Completer {
	return func(line string) []string {
		start := strings.LastIndexAny(line, " ([,;") + 1
		prefix := line[start:]
		if prefix == "" {
			return nil
		}
		var out []string
		for _, name := range ip.Interpreter().Registry().Names() {
			if strings.HasPrefix(name, prefix) {
				out = append(out, line[:start]+name)
			}
		}
		for _, recv := range ip.Interpreter().Natives().Receivers() {
			if strings.HasPrefix(recv, prefix) {
				out = append(out, line[:start]+recv+".")
			}
		}
		return out
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return historyFile
	}
	return filepath.Join(home, historyFile)
}

func saveHistory(line *liner.State, path string) {
	f, err := os.Create(path)
	if err != nil {
		return
	}
	defer f.Close()
	line.WriteHistory(f)
}
