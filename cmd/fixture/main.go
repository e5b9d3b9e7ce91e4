// Command fixture builds a knockout bracket from a participant list and prints
// or exports it.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/AdamBeresnev/knockout-fixture/internal/bracket"
	"github.com/AdamBeresnev/knockout-fixture/internal/config"
	"github.com/AdamBeresnev/knockout-fixture/internal/render"
	"github.com/AdamBeresnev/knockout-fixture/internal/service"
	"github.com/spf13/pflag"
)

var version = "dev"

const (
	exitFailure      = 1
	exitInvalidInput = 2
)

var formats = []string{"text", "json", "yaml", "xlsx", "pdf"}

type options struct {
	name    string
	title   string
	format  string
	out     string
	max     int
	verbose bool
	version bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, input, err := parseFlags(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err == nil {
		err = execute(opts, input, stdin, stdout, stderr)
	}
	if err == nil {
		return 0
	}

	fmt.Fprintln(stderr, "fixture:", err)
	if errors.Is(err, bracket.ErrInvalidInput) {
		return exitInvalidInput
	}
	return exitFailure
}

func parseFlags(args []string, stderr io.Writer) (options, string, error) {
	var opts options
	fs := pflag.NewFlagSet("fixture", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: fixture [flags] [file]\n\n")
		fmt.Fprintf(stderr, "Builds a knockout bracket from participants in file (.json, .jsonc, .xlsx or one name per line) or stdin.\n\n")
		fs.PrintDefaults()
	}

	fs.StringVarP(&opts.name, "name", "n", "", "tournament name (default \""+bracket.DefaultTournamentName+"\")")
	fs.StringVarP(&opts.title, "title", "t", "", "title printed on the pdf (default the tournament name)")
	fs.StringVarP(&opts.format, "format", "f", "text", "output format: "+strings.Join(formats, ", "))
	fs.StringVarP(&opts.out, "out", "o", "", "output file, required for xlsx and pdf (default stdout)")
	fs.IntVar(&opts.max, "max", service.DefaultMaxParticipants, "maximum number of participants")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "log fixture details to stderr")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return opts, "", err
		}
		return opts, "", bracket.InvalidInput("%s", err)
	}
	if fs.NArg() > 1 {
		return opts, "", bracket.InvalidInput("expected at most one input file, got %d", fs.NArg())
	}

	opts.format = strings.ToLower(opts.format)
	if !slices.Contains(formats, opts.format) {
		return opts, "", bracket.InvalidInput("unknown format %q, want one of %s", opts.format, strings.Join(formats, ", "))
	}
	if (opts.format == "xlsx" || opts.format == "pdf") && opts.out == "" {
		return opts, "", bracket.InvalidInput("--out is required for %s output", opts.format)
	}
	if opts.max < 2 {
		return opts, "", bracket.InvalidInput("--max must be at least 2")
	}
	title, err := service.NormalizePDFTitle(opts.title)
	if err != nil {
		return opts, "", err
	}
	opts.title = title

	return opts, fs.Arg(0), nil
}

func execute(opts options, input string, stdin io.Reader, stdout, stderr io.Writer) error {
	if opts.version {
		_, err := fmt.Fprintln(stdout, "fixture", version)
		return err
	}

	src := stdin
	if input != "" && input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return fmt.Errorf("open participants: %w", err)
		}
		defer f.Close()
		src = f
	} else {
		input = ""
	}

	inputs, err := readParticipants(input, src)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := config.NewLogger(stderr, config.Config{LogLevel: level, LogFormat: "text"})

	tournament, err := service.NewFixtureService(logger, nil, opts.max).CreateFixture(context.Background(), opts.name, inputs)
	if err != nil {
		return err
	}

	return writeOutput(opts, tournament, stdout)
}

func writeOutput(opts options, t *bracket.Tournament, stdout io.Writer) (err error) {
	w := stdout
	if opts.out != "" {
		f, cerr := os.Create(opts.out)
		if cerr != nil {
			return fmt.Errorf("create output: %w", cerr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close output: %w", cerr)
			}
		}()
		w = f
	}

	switch opts.format {
	case "json":
		return render.WriteJSON(w, render.NewView(t))
	case "yaml":
		return render.WriteYAML(w, render.NewView(t))
	case "xlsx":
		return render.WriteXLSX(w, t)
	case "pdf":
		return render.WritePDF(w, t, opts.title)
	default:
		_, err = io.WriteString(w, render.Text(t))
		return err
	}
}
