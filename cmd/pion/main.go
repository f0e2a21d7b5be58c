package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/pion-lang/pion/internal/config"
	"github.com/pion-lang/pion/internal/elaborate"
	"github.com/pion-lang/pion/internal/errors"
	"github.com/pion-lang/pion/internal/nbe"
	"github.com/pion-lang/pion/internal/parser"
	"github.com/pion-lang/pion/internal/print"
	"github.com/pion-lang/pion/internal/value"
)

var (
	bold   = color.New(color.Bold).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
)

func main() {
	configPath := flag.String("config", defaultConfigPath(), "path to a pion config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}
	configureColor(cfg)

	if flag.NArg() == 0 {
		printHelp()
		return
	}

	command := flag.Arg(0)
	switch command {
	case "check":
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing path argument\n", red("Error"))
			fmt.Println("Usage: pion check <path|->")
			os.Exit(1)
		}
		runCheck(flag.Arg(1), cfg, false)

	case "eval":
		if flag.NArg() < 2 {
			fmt.Fprintf(os.Stderr, "%s: missing path argument\n", red("Error"))
			fmt.Println("Usage: pion eval <path|->")
			os.Exit(1)
		}
		runCheck(flag.Arg(1), cfg, true)

	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command '%s'\n", red("Error"), command)
		printHelp()
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	return filepath.Join(".", "pion.yaml")
}

// configureColor applies the --config file's override, if any, over the
// terminal-detection default: colorize only when stdout is actually a TTY.
func configureColor(cfg *config.Config) {
	enabled := term.IsTerminal(int(os.Stdout.Fd()))
	if cfg.Color != nil {
		enabled = *cfg.Color
	}
	color.NoColor = !enabled
}

func printHelp() {
	fmt.Println(bold("pion — a bidirectional elaborator and NbE kernel"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  pion <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Printf("  %s <path|->      Elaborate and report expr : type\n", cyan("check"))
	fmt.Printf("  %s <path|->       Elaborate, normalize, and print the result\n", cyan("eval"))
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --config <path>   Path to a pion config file (default ./pion.yaml)")
}

// readSource reads path, or stdin when path is "-". Only an I/O error or an
// input of 2^32 bytes or more is fatal here: diagnostics from elaboration
// itself never produce a non-zero exit.
func readSource(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		if uint64(len(data)) >= 1<<32 {
			return "", fmt.Errorf("stdin input is %d bytes; inputs must be under 2^32 bytes", len(data))
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("cannot read file '%s': %w", path, err)
	}
	if uint64(len(data)) >= 1<<32 {
		return "", fmt.Errorf("file '%s' is %d bytes; inputs must be under 2^32 bytes", path, len(data))
	}
	return string(data), nil
}

func runCheck(path string, cfg *config.Config, normalize bool) {
	src, err := readSource(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}

	out, ok := elaborateAndFormat(path, src, cfg, normalize)
	if ok {
		fmt.Printf("%s ", green("✓"))
	}
	fmt.Println(out)
}

// elaborateAndFormat runs the full elaborate (and, for eval, normalize)
// pipeline over src and renders "term : type", reporting diagnostics to a
// streaming cliSink as they occur. It returns false if any diagnostic was
// an error.
//
// eval defaults to unfolding fix once normalization is requested — without
// it, any recursive definition normalizes to a stuck neutral term containing
// fix rather than its value — but an explicit unfold_fix in cfg always
// wins, so check's output (where fix should stay folded) is unaffected.
func elaborateAndFormat(file, src string, cfg *config.Config, normalize bool) (string, bool) {
	sink := &cliSink{file: file}
	e := parser.ParseExpr(file, src, sink)

	ctx := elaborate.New(file, sink)
	switch {
	case cfg.UnfoldFix != nil:
		ctx.Kernel.Opts.UnfoldFix = *cfg.UnfoldFix
	case normalize:
		ctx.Kernel.Opts.UnfoldFix = true
	}

	coreTerm, ty, _ := elaborate.File(ctx, e)

	result := coreTerm
	if normalize {
		result = nbe.Quote(ctx.Kernel, 0, nbe.Eval(ctx.Kernel, value.Env{}, coreTerm))
	}

	out := fmt.Sprintf("%s : %s", print.Expr(result), print.Expr(nbe.Quote(ctx.Kernel, 0, ty)))
	return out, !sink.hadError
}

// cliSink prints each diagnostic as it arrives, colorized by severity, and
// never short-circuits elaboration — matching the CollectingSink contract
// but streaming output instead of buffering it for a caller to inspect.
type cliSink struct {
	file     string
	hadError bool
}

func (s *cliSink) Report(r *errors.Report) error {
	label := red("error")
	if r.Severity == errors.SeverityWarning {
		label = yellow("warning")
	} else {
		s.hadError = true
	}
	fmt.Fprintf(os.Stderr, "%s: %s [%s] at %s: %s\n", label, s.file, r.Code, r.PrimaryLabel.Range, r.Message)
	return nil
}
