package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"pstefanovic/compose-generator/internal/config"
	"pstefanovic/compose-generator/internal/processor"
)

func main() {
	os.Exit(run(os.Args[1:], os.Getenv, os.Stderr))
}

// run returns 0 on completion (skipped entries included), 1 when the
// registry cannot be read or an output cannot be written, 2 on usage errors.
func run(args []string, getenv func(string) string, stderr io.Writer) int {
	cfg := config.Load(getenv)

	flags := pflag.NewFlagSet("compose-generator", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	cfg.BindFlags(flags)
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if flags.NArg() > 0 {
		fmt.Fprintf(stderr, "error: unexpected arguments %v\n", flags.Args())
		return 2
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	l := log.New()
	l.SetOutput(stderr)
	l.SetFormatter(cfg.Formatter())
	level, _ := log.ParseLevel(cfg.LogLevel)
	l.SetLevel(level)

	proc := processor.NewProcessor(cfg, l.WithField("context", "processor"))
	if _, err := proc.Run(); err != nil {
		l.Errorf("%v", err)
		return 1
	}
	return 0
}
