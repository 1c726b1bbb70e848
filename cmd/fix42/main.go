// main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/stephenlclarke/fix42/decoder"
	"github.com/stephenlclarke/fix42/fix"
	"golang.org/x/term"
)

// Version, Branch, GitUrl, Sha are injected at build time via -ldflags
var (
	Version = "0.0.0"
	Branch  = "main"
	GitUrl  = "git@github.com:stephenlclarke/fix42.git"
	Sha     = "0000000"
)

// isTerminal decides colour output when -colour is not given.
var isTerminal = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }

// tagFlag supports optional string arg; bare -tag lists all, explicit -tag= shows usage, and -tag=NN selects a tag.
type tagFlag struct {
	value string
	isSet bool
}

func (t *tagFlag) String() string     { return t.value }
func (t *tagFlag) Set(s string) error { t.value, t.isSet = s, true; return nil }
func (t *tagFlag) IsBoolFlag() bool   { return true }

// messageFlag supports an optional string argument (with or without '=').
type messageFlag struct {
	value string
	isSet bool
}

func (m *messageFlag) String() string     { return m.value }
func (m *messageFlag) Set(s string) error { m.value, m.isSet = s, true; return nil }
func (m *messageFlag) IsBoolFlag() bool   { return true }

type colourFlag struct {
	isSet bool
	value bool
}

func (c *colourFlag) String() string {
	if c.value {
		return "true"
	}
	return "false"
}

func (c *colourFlag) Set(s string) error {
	c.isSet = true
	s = strings.ToLower(s)
	switch s {
	case "", "true", "yes":
		c.value = true
	case "false", "no":
		c.value = false
	default:
		return fmt.Errorf("invalid value for -colour: %q", s)
	}
	return nil
}

func (c *colourFlag) IsBoolFlag() bool {
	return true
}

// CLIOptions holds all parsed flag values.
type CLIOptions struct {
	ConfigPath string
	XMLPath    string
	Charset    string
	Validate   bool
	Obfuscate  bool
	Colour     colourFlag
	Verbose    bool

	Message messageFlag
	Tag     tagFlag

	Encode      bool
	MsgType     string
	Sender      string
	Target      string
	SeqNum      int
	SendingTime string
	Pretty      bool

	Args []string // files to decode, or tag=value pairs with -encode
	set  []string // names of flags given explicitly
}

func (o CLIOptions) isSet(name string) bool {
	for _, n := range o.set {
		if n == name {
			return true
		}
	}
	return false
}

// parseFlagsArgs parses command-line arguments using a fresh FlagSet.
func parseFlagsArgs(args []string, errOut io.Writer) (CLIOptions, error) {
	var opts CLIOptions

	fs := flag.NewFlagSet("fix42", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to a config file (toml, yaml or json)")
	fs.StringVar(&opts.XMLPath, "xml", "", "Path to a FIX XML dictionary supplying extra tag names")
	fs.StringVar(&opts.Charset, "charset", "", "Character set of the input logs (default utf-8)")
	fs.BoolVar(&opts.Validate, "validate", false, "Validate FIX messages during decoding")
	fs.BoolVar(&opts.Obfuscate, "obfuscate", false, "Replace sensitive identifiers with stable aliases")
	fs.BoolVar(&opts.Verbose, "verbose", false, "Log at debug level")
	fs.Var(&opts.Colour, "colour", "Force coloured output (yes|no). Default: auto-detect based on stdout")
	fs.Var(&opts.Message, "message", "MsgType code or name (omit to list all messages)")
	fs.Var(&opts.Tag, "tag", "Tag number to display details for (omit to list all tags)")

	fs.BoolVar(&opts.Encode, "encode", false, "Build a message from tag=value arguments and print it")
	fs.StringVar(&opts.MsgType, "type", "", "MsgType code or name for -encode")
	fs.StringVar(&opts.Sender, "sender", "", "SenderCompID for -encode")
	fs.StringVar(&opts.Target, "target", "", "TargetCompID for -encode")
	fs.IntVar(&opts.SeqNum, "seq", 1, "MsgSeqNum for -encode")
	fs.StringVar(&opts.SendingTime, "time", "", "SendingTime for -encode (default now)")
	fs.BoolVar(&opts.Pretty, "pretty", false, "Print -encode output with '|' separators")

	fs.Usage = func() {
		PrintUsage(errOut)
		fmt.Fprintln(errOut, "\nFlags:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	fs.Visit(func(f *flag.Flag) { opts.set = append(opts.set, f.Name) })
	opts.Args = fs.Args()

	return opts, nil
}

// PrintUsage prints the program usage.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, "fix42 %s (branch:%s, commit:%s)\n\n", Version, Branch, Sha)
	fmt.Fprintf(w, "  git clone %s\n\n", GitUrl)
	fmt.Fprintln(w, "Usage: fix42 [-config FILE] [-xml FIX42.xml] [-validate] [-obfuscate] [-colour=yes|no] [-charset=LABEL] [file1.log ...]")
	fmt.Fprintln(w, "       fix42 -encode -type=D -sender=S -target=T [-seq=N] [-time=TS] [-pretty] [tag=value ...]")
	fmt.Fprintln(w, "       fix42 -message[=TYPE]")
	fmt.Fprintln(w, "       fix42 -tag[=TAG]")
}

// fileArgsOrStdin returns the positional arguments, or "-" (stdin) when
// there are none.
func fileArgsOrStdin(args []string) []string {
	if len(args) == 0 {
		return []string{"-"}
	}
	return args
}

// Process is the entry point: parses flags and config, runs handlers, and returns an exit code.
func Process(args []string, out, errOut io.Writer) int {
	opts, err := parseFlagsArgs(args, errOut)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		fmt.Fprintln(errOut, decoder.ColourError+err.Error()+decoder.ColourReset)
		return 1
	}
	applyConfig(&opts, cfg)

	if opts.Verbose {
		cfg.Log.Level = "debug"
	}
	logger, closeLog := newLogger(cfg.Log, errOut)
	defer closeLog()

	if opts.ConfigPath != "" {
		logger.Debug("config loaded", slog.String("file", opts.ConfigPath))
	}

	if err := prepareDecoder(opts, logger); err != nil {
		fmt.Fprintln(errOut, decoder.ColourError+err.Error()+decoder.ColourReset)
		return 1
	}

	if !opts.Colour.isSet {
		if !isTerminal() {
			decoder.DisableColours()
		}
	} else if !opts.Colour.value {
		decoder.DisableColours()
	}

	if handled, code := runHandlers(opts, out, errOut, logger); handled {
		return code
	}

	files := fileArgsOrStdin(opts.Args)
	logger.Debug("decoding", slog.Any("files", files), slog.Bool("validate", opts.Validate), slog.Bool("obfuscate", opts.Obfuscate))

	return decoder.PrettifyFiles(files, out, errOut, newObfuscator(opts, cfg))
}

// prepareDecoder applies the options that configure the decoder package.
func prepareDecoder(opts CLIOptions, logger *slog.Logger) error {
	decoder.SetValidation(opts.Validate)

	if err := decoder.SetInputCharset(opts.Charset); err != nil {
		return err
	}

	if opts.XMLPath == "" {
		decoder.SetDictionary(nil)
		return nil
	}

	dict, err := decoder.LoadDictionaryFile(opts.XMLPath)
	if err != nil {
		return fmt.Errorf("cannot load dictionary: %w", err)
	}
	decoder.SetDictionary(dict)
	logger.Info("dictionary loaded", slog.String("file", opts.XMLPath), slog.Int("tags", len(dict.Tags())))

	return nil
}

func newObfuscator(opts CLIOptions, cfg Config) *fix.Obfuscator {
	if !opts.Obfuscate {
		return nil
	}
	var tags map[int]string
	if len(cfg.SensitiveTags) > 0 {
		tags = make(map[int]string, len(cfg.SensitiveTags))
		dict := decoder.LoadDictionary()
		for _, tag := range cfg.SensitiveTags {
			name := fmt.Sprintf("Tag%d_", tag)
			if dict.HasTag(tag) {
				name = dict.GetFieldName(tag)
			}
			tags[tag] = name
		}
	}
	return fix.NewObfuscator(tags, true)
}

func main() {
	os.Exit(Process(os.Args[1:], os.Stdout, os.Stderr))
}
