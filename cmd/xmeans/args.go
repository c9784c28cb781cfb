package main

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const usage = "Usage: xmeans <data_file_path> [-k <number>] [--mink <number>] [--delim <string>]"

type argErrorKind int

const (
	argMissing argErrorKind = iota
	argBad
	argBadInt
)

// argError is a command-line mistake. Its message always ends with the
// usage line.
type argError struct {
	kind argErrorKind
	msg  string
}

func (e *argError) Error() string {
	switch e.kind {
	case argMissing:
		return fmt.Sprintf("Missing argument: %s\n%s", e.msg, usage)
	case argBadInt:
		return fmt.Sprintf("Error parsing integer: %s\n%s", e.msg, usage)
	default:
		return fmt.Sprintf("Bad argument: %s\n%s", e.msg, usage)
	}
}

type options struct {
	K           int    `short:"k" description:"Run plain k-means with exactly this many clusters"`
	MinK        int    `long:"mink" description:"Starting cluster count for X-means (default 2)"`
	Delim       string `long:"delim" default:"," description:"Single-character field separator"`
	MaxRounds   int    `long:"max-rounds" description:"Maximum number of split rounds (default 50)"`
	Seed        int64  `long:"seed" description:"Random seed (default 1)"`
	ConfigPath  string `long:"config" description:"YAML run configuration file"`
	LogLevel    string `long:"log-level" default:"warn" description:"Log level (trace, debug, info, warn, error)"`
	MetricsFile string `long:"metrics-file" description:"Write Prometheus metrics to this file after the run"`
}

// cliArgs is the validated command line. Pointer fields are nil when the
// flag was not given, so config-file values survive.
type cliArgs struct {
	FilePath    string
	K           int
	Delim       rune
	MinK        *int
	MaxRounds   *int
	Seed        *int64
	ConfigPath  string
	LogLevel    zerolog.Level
	MetricsFile string
}

func newParser(opts *options) *flags.Parser {
	p := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	p.Name = "xmeans"
	p.Usage = "<data_file_path> [OPTIONS]"
	return p
}

// parseArgs validates argv (without the program name). A help request is
// returned as a *flags.Error of type flags.ErrHelp.
func parseArgs(argv []string) (*cliArgs, error) {
	var opts options
	parser := newParser(&opts)
	rest, err := parser.ParseArgs(argv)
	if err != nil {
		return nil, translateFlagsError(err)
	}

	if len(rest) == 0 {
		return nil, &argError{kind: argMissing, msg: "file path"}
	}
	if len(rest) > 1 {
		return nil, &argError{kind: argBad, msg: fmt.Sprintf("unknown argument %s", rest[1])}
	}
	path := rest[0]
	if !strings.HasSuffix(path, ".csv") {
		return nil, &argError{kind: argBad, msg: fmt.Sprintf("file (%s) is not a csv file", path)}
	}

	if utf8.RuneCountInString(opts.Delim) != 1 {
		return nil, &argError{kind: argBad, msg: "delim must be a single character"}
	}
	delim, _ := utf8.DecodeRuneInString(opts.Delim)

	if opts.K < 0 {
		return nil, &argError{kind: argBad, msg: fmt.Sprintf("k must not be negative, got %d", opts.K)}
	}

	level, err := zerolog.ParseLevel(opts.LogLevel)
	if err != nil {
		return nil, &argError{kind: argBad, msg: fmt.Sprintf("log-level %q", opts.LogLevel)}
	}

	args := &cliArgs{
		FilePath:    path,
		K:           opts.K,
		Delim:       delim,
		ConfigPath:  opts.ConfigPath,
		LogLevel:    level,
		MetricsFile: opts.MetricsFile,
	}
	if parser.FindOptionByLongName("mink").IsSet() {
		if opts.MinK < 1 {
			return nil, &argError{kind: argBad, msg: fmt.Sprintf("mink must be >= 1, got %d", opts.MinK)}
		}
		args.MinK = &opts.MinK
	}
	if parser.FindOptionByLongName("max-rounds").IsSet() {
		if opts.MaxRounds < 1 {
			return nil, &argError{kind: argBad, msg: fmt.Sprintf("max-rounds must be >= 1, got %d", opts.MaxRounds)}
		}
		args.MaxRounds = &opts.MaxRounds
	}
	if parser.FindOptionByLongName("seed").IsSet() {
		args.Seed = &opts.Seed
	}
	return args, nil
}

func translateFlagsError(err error) error {
	var ferr *flags.Error
	if !errors.As(err, &ferr) {
		return &argError{kind: argBad, msg: err.Error()}
	}
	switch ferr.Type {
	case flags.ErrHelp:
		return ferr
	case flags.ErrExpectedArgument:
		return &argError{kind: argMissing, msg: ferr.Message}
	case flags.ErrMarshal:
		return &argError{kind: argBadInt, msg: ferr.Message}
	case flags.ErrUnknownFlag:
		return &argError{kind: argBad, msg: ferr.Message}
	default:
		return &argError{kind: argBad, msg: ferr.Message}
	}
}

func isHelp(err error) (string, bool) {
	var ferr *flags.Error
	if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
		return ferr.Message, true
	}
	return "", false
}
