package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fmahebert/eckit/config"
	"github.com/fmahebert/eckit/pkg/buffer"
	"github.com/fmahebert/eckit/pkg/compressor"
	"github.com/fmahebert/eckit/pkg/xpr/evaluator"
	"github.com/fmahebert/eckit/pkg/xpr/nativesql"
	"github.com/fmahebert/eckit/pkg/xpr/repl"
	"github.com/fmahebert/eckit/pkg/xpr/xpr"
)

// Version is set at compile time via -ldflags
var Version = "0.3.0"

var (
	// Display flags
	helpFlag        = flag.Bool("h", false, "Show help message")
	helpLongFlag    = flag.Bool("help", false, "Show help message")
	versionFlag     = flag.Bool("V", false, "Show version information")
	versionLongFlag = flag.Bool("version", false, "Show version information")

	// Evaluation flags
	evalFlag     = flag.String("e", "", "Evaluate code string")
	evalLongFlag = flag.String("eval", "", "Evaluate code string")
	checkFlag    = flag.Bool("check", false, "Check syntax without executing")
	traceFlag    = flag.Bool("trace", false, "Print each step as it evaluates")
	watchFlag    = flag.Bool("watch", false, "Re-run the file when it changes")

	// Output flags
	formatFlag   = flag.String("format", "", "Output format: text, json or yaml")
	localeFlag   = flag.String("locale", "", "Locale for text output (e.g. fr-FR)")
	outputFlag   = flag.String("o", "", "Write results to a file instead of stdout")
	compressFlag = flag.String("compress", "", "Compress -o output: none, gzip, snappy, s2, zstd")

	// Configuration flags
	configFlag = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Usage = printHelp
	flag.Parse()

	if *helpFlag || *helpLongFlag {
		printHelp()
		os.Exit(0)
	}
	if *versionFlag || *versionLongFlag {
		fmt.Printf("xpr version %s\n", Version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	applyFlagOverrides(cfg)

	evalCode := *evalFlag
	if evalCode == "" {
		evalCode = *evalLongFlag
	}

	switch {
	case evalCode != "":
		os.Exit(runSource("<eval>", evalCode, cfg))
	case *checkFlag:
		files := flag.Args()
		if len(files) == 0 {
			fmt.Fprintln(os.Stderr, "Error: --check requires at least one file")
			os.Exit(2)
		}
		os.Exit(checkFiles(files))
	case *watchFlag:
		if len(flag.Args()) == 0 {
			fmt.Fprintln(os.Stderr, "Error: --watch requires a file")
			os.Exit(2)
		}
		if err := watchFile(flag.Args()[0], cfg); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
	case len(flag.Args()) > 0:
		os.Exit(runFile(flag.Args()[0], cfg))
	default:
		ip := newInterp(cfg)
		banner := fmt.Sprintf("xpr %s (:help for commands)", Version)
		if err := repl.Run(ip, os.Stdout, repl.Options{
			Locale:      cfg.Output.Locale,
			Banner:      banner,
			HistoryPath: cfg.REPL.History,
		}); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
	}
}

func printHelp() {
	fmt.Printf(`xpr - expression engine version %s

Usage:
  xpr [options] [file]
  xpr -e "code"
  xpr --check <file>...
  xpr --watch <file>

Display Options:
  -h, --help            Show this help message
  -V, --version         Show version information

Evaluation Options:
  -e, --eval <code>     Evaluate a code string
  --check               Check syntax without executing
  --trace               Print each step as it evaluates
  --watch               Re-run the file whenever it changes

Output Options:
  --format <fmt>        Output format: text, json or yaml
  --locale <tag>        Locale for text output (e.g. fr-FR)
  -o <file>             Write results to a file instead of stdout
  --compress <codec>    Compress -o output: none, gzip, snappy, s2, zstd

Configuration:
  --config <path>       Config file (default: ./xpr.yaml)

Examples:
  xpr                                    Start the interactive shell
  xpr program.xpr                        Run a program file
  xpr -e "zipWith(add, [1,2], [3,4])"   Evaluate inline code
  xpr -e "add(1, 2)" --format json       Emit JSON
  xpr --watch program.xpr                Re-run on every save
  xpr --check program.xpr                Parse without evaluating
`, Version)
}

// applyFlagOverrides lets command-line flags win over the config file.
func applyFlagOverrides(cfg *config.Config) {
	if *formatFlag != "" {
		cfg.Output.Format = *formatFlag
	}
	if *localeFlag != "" {
		cfg.Output.Locale = *localeFlag
	}
	if *compressFlag != "" {
		cfg.Output.Compress = *compressFlag
	}
	if *traceFlag {
		cfg.Logging.Trace = true
	}
}

// newInterp builds an interpreter wired with the configured natives.
func newInterp(cfg *config.Config) *xpr.Interp {
	ip := xpr.New()
	ip.SetTrace(cfg.Logging.Trace)
	provider := nativesql.NewProvider(cfg.Database.Driver, cfg.Database.DSN)
	provider.Register(ip.Interpreter().Natives())
	return ip
}

func runFile(filename string, cfg *config.Config) int {
	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file '%s': %v\n", filename, err)
		return 1
	}
	return runSource(filename, string(content), cfg)
}

func runSource(filename, source string, cfg *config.Config) int {
	ip := newInterp(cfg)
	values, err := ip.EvalString(source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", filename, err)
		return 1
	}

	rendered, err := renderValues(values, cfg.Output.Format, cfg.Output.Locale)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}

	if *outputFlag != "" {
		if err := writeOutput(*outputFlag, rendered, cfg.Output.Compress); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return 1
		}
		return 0
	}
	fmt.Print(rendered)
	return 0
}

// renderValues renders one result per line in the requested format.
func renderValues(values []evaluator.Value, format, locale string) (string, error) {
	var sb strings.Builder
	for _, v := range values {
		switch format {
		case "json":
			b, err := evaluator.EncodeJSON(v)
			if err != nil {
				return "", err
			}
			sb.Write(b)
			sb.WriteString("\n")
		case "yaml":
			b, err := evaluator.EncodeYAML(v)
			if err != nil {
				return "", err
			}
			sb.Write(b)
		default:
			sb.WriteString(evaluator.FormatValue(v, locale))
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}

// writeOutput writes rendered results to a file, optionally compressed.
func writeOutput(path, content, codec string) error {
	data := []byte(content)
	if codec != "" && codec != "none" {
		c, err := compressor.Lookup(codec)
		if err != nil {
			return err
		}
		dst := buffer.New(len(data))
		if _, err := c.Compress(data, dst); err != nil {
			return fmt.Errorf("compressing output: %w", err)
		}
		data = dst.Bytes()
	}
	return os.WriteFile(path, data, 0o644)
}

func checkFiles(files []string) int {
	code := 0
	for _, filename := range files {
		content, err := os.ReadFile(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", filename, err)
			return 2
		}
		if _, err := xpr.ParseString(string(content)); err != nil {
			fmt.Fprintf(os.Stderr, "%s:\n%v\n", filename, err)
			code = 1
		}
	}
	return code
}

// watchFile runs the file, then re-runs it on every write, debounced so
// editors that save in several steps trigger one run.
func watchFile(filename string, cfg *config.Config) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file on save,
	// which drops a watch set on the file itself.
	dir := filepath.Dir(filename)
	if err := watcher.Add(dir); err != nil {
		return err
	}
	target := filepath.Clean(filename)

	run := func() {
		fmt.Printf("--- %s (%s)\n", filename, time.Now().Format("15:04:05"))
		runFile(filename, cfg)
	}
	run()

	debounce := time.Duration(cfg.Watch.DebounceMillis) * time.Millisecond
	var timer *time.Timer
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, run)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, "watch error:", err)
		}
	}
}
