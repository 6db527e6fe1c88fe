package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/mcncl/ionlit/internal/config"
	"github.com/mcncl/ionlit/internal/equiv"
	"github.com/mcncl/ionlit/internal/errors"
	"github.com/mcncl/ionlit/internal/formatter"
	"github.com/mcncl/ionlit/internal/models"
	"github.com/mcncl/ionlit/internal/parser"
	"github.com/mcncl/ionlit/internal/trace"
)

// CLI defines the command-line interface
var CLI struct {
	Literals        []string `arg:"" optional:"" help:"Literals to decode. If none are given, reads one literal per line from --input or stdin."`
	Input           string   `help:"Path to a file with one literal per line (.gz files are decompressed)." short:"i" type:"path"`
	Kind            string   `help:"Entry point: auto, int, float, decimal, bool or string." short:"k"`
	Strict          bool     `help:"Require each literal to consume its whole line."`
	PromoteDecimals bool     `help:"Decode bare fractional literals as exact decimals instead of floats."`
	Format          string   `help:"Output format: text, json, yaml or cbor." short:"F"`
	Lexeme          bool     `help:"Show the matched grammar rule and lexeme." short:"l"`
	Equiv           []string `help:"Check an equivalence fixture file instead of decoding literals." short:"e"`
	Config          string   `help:"Path to config file. If not specified, searches for .ionlit.yml." short:"c" type:"path"`
	Debug           bool     `help:"Enable debug logging." short:"d"`
	Verbose         int      `help:"Increase log verbosity." short:"V" type:"counter"`
	NoColor         bool     `help:"Disable colored output."`
	Version         bool     `help:"Show version information." short:"v"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
	Stdout io.Writer
	Stderr io.Writer
}

// Version information
const (
	Version = "0.1.0"
)

var (
	failColor = color.New(color.FgRed, color.Bold)
	passColor = color.New(color.FgGreen)
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("ionlit"),
		kong.Description("Decode typed scalar literals: ints, floats, decimals, strings, booleans and typed nulls"),
		kong.UsageOnError(),
	)

	_, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if CLI.Version {
		fmt.Printf("ionlit version %s\n", Version)
		return
	}
	if CLI.NoColor {
		trace.DisableColor()
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}
	configureTrace(cfg)

	err = run(&Context{Debug: cfg.Dev.Debug, Config: cfg, Stdout: os.Stdout, Stderr: os.Stderr})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: ionlit --help\n")
		os.Exit(1)
	}
}

// loadConfig merges the config file, if any, with the command line.
func loadConfig() (*config.Config, error) {
	path := CLI.Config
	if path == "" {
		path = config.FindConfigFile()
	}
	if path != "" {
		trace.Debug("using config file", path)
	}
	return config.LoadConfigWithCLI(path, config.Overrides{
		Strict:          CLI.Strict,
		PromoteDecimals: CLI.PromoteDecimals,
		Kind:            CLI.Kind,
		Format:          CLI.Format,
		ShowLexeme:      CLI.Lexeme,
		Debug:           CLI.Debug,
		Verbose:         CLI.Verbose,
	})
}

// configureTrace sets the log level. CBOR output is binary, so unless
// asked for more it keeps stderr down to warnings.
func configureTrace(cfg *config.Config) {
	switch {
	case cfg.Dev.Debug:
		trace.SetVerbosity(2)
	case cfg.Output.Format == "cbor" && cfg.Dev.Verbose == 0:
		trace.Silent()
	default:
		trace.SetVerbosity(0)
		trace.AdjustVerbosity(cfg.Dev.Verbose)
	}
}

// run executes the main program logic
func run(ctx *Context) error {
	if len(CLI.Equiv) > 0 {
		return runEquiv(ctx, CLI.Equiv)
	}

	literals, err := parseInput()
	if err != nil {
		return err
	}

	f, err := formatter.NewFormatter(formatter.Options{
		Format:     ctx.Config.Output.Format,
		KeyName:    ctx.Config.KeyName,
		ShowLexeme: ctx.Config.Output.ShowLexeme,
	})
	if err != nil {
		return err
	}

	opts := ctx.Config.ParserOptions()
	kind := ctx.Config.Kind()
	trace.Debugf("decoding %d literals, kind %s, options %+v", len(literals), ctx.Config.Parse.Kind, opts)

	var (
		records []formatter.Record
		failed  int
	)
	for _, lit := range literals {
		rec, ok, err := decodeLiteral(lit, kind, opts)
		if err != nil {
			failed++
			fmt.Fprintf(ctx.Stderr, "%s %q: %s\n", failColor.Sprint("error"), lit, errors.UserFriendlyError(err))
			continue
		}
		if !ok {
			trace.Tracef("%q: no literal matched", lit)
			continue
		}
		records = append(records, rec)
	}

	if err := f.Write(ctx.Stdout, records); err != nil {
		return err
	}
	if failed > 0 {
		return errors.NewInputError(fmt.Sprintf("%d of %d literals could not be decoded", failed, len(literals)), nil)
	}
	return nil
}

// decodeLiteral runs one literal through the selected entry point.
func decodeLiteral(lit string, kind models.Kind, opts parser.Options) (formatter.Record, bool, error) {
	p := parser.New(lit, opts)
	v, ok, err := p.MatchKind(kind)
	if err != nil || !ok {
		return formatter.Record{}, ok, err
	}

	rule, lexeme := p.Lexeme()
	trace.Tracef("%q: %s matched %q", lit, rule, lexeme)
	if rest := p.Rest(); !p.AtEnd() {
		trace.Tracef("%q: %q left unconsumed", lit, rest)
	}
	return formatter.Record{Input: lit, Rule: rule, Lexeme: lexeme, Value: v}, true, nil
}

// parseInput collects literals from the arguments, a file or stdin
func parseInput() ([]string, error) {
	if len(CLI.Literals) > 0 {
		if CLI.Input != "" {
			return nil, errors.NewInputError("give literals as arguments or with --input, not both", nil)
		}
		return CLI.Literals, nil
	}

	if CLI.Input != "" {
		rc, err := equiv.OpenFile(CLI.Input)
		if err != nil {
			return nil, err
		}
		defer func() { _ = rc.Close() }()
		return readLines(rc)
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return nil, errors.NewInputError("failed to access stdin", err)
	}
	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		return nil, errors.NewInputError("no input provided", errors.ErrNoInput)
	}
	return readLines(os.Stdin)
}

// readLines returns the non-blank lines of r.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) == "" {
			continue
		}
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, errors.NewInputError("failed to read input", err)
	}
	if len(lines) == 0 {
		return nil, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}
	return lines, nil
}

// runEquiv checks every fixture and reports each one on stdout.
func runEquiv(ctx *Context, paths []string) error {
	extra := ctx.Config.FixtureKinds()
	var failed int
	for _, path := range paths {
		kind := ctx.Config.Kind()
		if kind == models.KindInvalid {
			if k, ok := equiv.KindForFile(path, extra); ok {
				kind = k
			} else {
				trace.Warning("no kind known for", path, "- using full dispatch")
			}
		}
		trace.Debugf("checking %s as %s", path, kind)

		report, err := equiv.CheckFile(path, kind)
		if err != nil {
			return err
		}
		if report.OK() {
			fmt.Fprintf(ctx.Stdout, "%s %s: %d groups, %d members\n", passColor.Sprint("ok"), path, report.Groups, report.Members)
			continue
		}
		failed++
		fmt.Fprintf(ctx.Stdout, "%s %s: %d failures\n", failColor.Sprint("FAIL"), path, len(report.Failures))
		for _, f := range report.Failures {
			fmt.Fprintf(ctx.Stdout, "    %s\n", f.Error())
		}
	}
	trace.Info(fmt.Sprintf("checked %d fixture files, %d failed", len(paths), failed))
	if failed > 0 {
		return errors.NewFixtureError(fmt.Sprintf("%d of %d fixture files failed", failed, len(paths)), errors.ErrEquivMismatch)
	}
	return nil
}
