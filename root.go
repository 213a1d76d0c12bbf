package main

import (
	"fmt"
	"os"
	"strconv"

	clog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mash/ansispan/ansi"
)

// logger is the shared CLI logger. The rendering core never logs.
var logger = clog.NewWithOptions(os.Stderr, clog.Options{
	ReportTimestamp: true,
	Prefix:          "ansispan",
})

// config holds the rendering settings shared by every subcommand.
type config struct {
	Linkify        bool
	Classes        bool
	Format         string
	ClassName      string
	StripSequences bool
	Terminator     string
}

func (c config) options() ansi.Options {
	ser := ansi.InlineAttributes
	if c.Classes {
		ser = ansi.NamedClasses
	}
	return ansi.Options{
		Linkify:               c.Linkify,
		Serialization:         ser,
		StripUnknownSequences: c.StripSequences,
	}
}

func (c config) assembler() (Assembler, error) {
	format, err := ParseFormat(c.Format)
	if err != nil {
		return Assembler{}, err
	}
	terminator, err := ParseTerminator(c.Terminator)
	if err != nil {
		return Assembler{}, err
	}
	return Assembler{
		Format:     format,
		Options:    c.options(),
		ClassName:  c.ClassName,
		Terminator: terminator,
	}, nil
}

var (
	cfg      config
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "ansispan",
	Short: "Render ANSI terminal output as styled spans",
	Long: "ansispan turns terminal output with SGR colours, carriage returns and backspaces\n" +
		"into HTML, JSON, plain text or cleaned-up terminal output, optionally linking URLs.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := clog.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
		}
		logger.SetLevel(level)
		if _, err := cfg.assembler(); err != nil {
			return err
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.BoolVar(&cfg.Linkify, "linkify", envBool("ANSISPAN_LINKIFY", false), "turn http(s):// and www. URLs into links")
	f.BoolVar(&cfg.Classes, "classes", envBool("ANSISPAN_CLASSES", false), "emit class names instead of inline styles")
	f.StringVar(&cfg.Format, "format", envString("ANSISPAN_FORMAT", string(FormatHTML)), "output format: html, json, text, term")
	f.StringVar(&cfg.ClassName, "class-name", "", "class attribute for the enclosing <code> element")
	f.BoolVar(&cfg.StripSequences, "strip-sequences", false, "drop non-SGR CSI sequences instead of keeping them as text")
	f.StringVar(&cfg.Terminator, "terminator", "st", "OSC 8 terminator for --format term: st or bel")
	f.StringVar(&logLevel, "log-level", envString("ANSISPAN_LOG_LEVEL", "info"), "log level: debug, info, warn, error")
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logger.Warn("ignoring invalid boolean", "env", key, "value", v)
		return def
	}
	return b
}
