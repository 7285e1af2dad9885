// Command roundtrip compresses fixtures with the configured codecs and levels,
// decompresses them back and fails when any output differs from its input.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/ianic/roundtrip"
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			log.Error("round trip failed", "err", err)
		}
		os.Exit(1)
	}
}

func run(args []string, w io.Writer) error {
	fs := pflag.NewFlagSet("roundtrip", pflag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() {
		fmt.Fprintf(w, "Usage: roundtrip [flags] [fixture...]\n\nCodecs: %v\n\nFlags:\n", roundtrip.Names())
		fs.PrintDefaults()
	}
	configFlag := fs.StringP("config", "c", "", "TOML config file with fixtures, codecs and levels")
	codecFlag := fs.StringSlice("codec", nil, "codecs to verify, \"all\" for every codec")
	levelFlag := fs.IntSliceP("level", "l", nil, "compression levels, -1 (default) to 9")
	debugFlag := fs.BoolP("debug", "d", false, "print debug logs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := log.NewWithOptions(w, log.Options{Prefix: "roundtrip"})
	if *debugFlag {
		logger.SetLevel(log.DebugLevel)
	}

	cfg := roundtrip.DefaultConfig()
	if *configFlag != "" {
		var err error
		if cfg, err = roundtrip.LoadConfig(*configFlag); err != nil {
			return err
		}
		logger.Debug("config loaded", "path", *configFlag)
	}
	if fs.Changed("codec") {
		cfg.Codecs = *codecFlag
		if len(cfg.Codecs) == 1 && cfg.Codecs[0] == "all" {
			cfg.Codecs = roundtrip.Names()
		}
	}
	if fs.Changed("level") {
		cfg.Levels = *levelFlag
	}
	if fs.NArg() > 0 {
		cfg.Fixtures = fs.Args()
	}
	logger.Debug("run", "fixtures", cfg.Fixtures, "codecs", cfg.Codecs, "levels", cfg.Levels)

	var n int
	err := cfg.Run(func(fixture string, r roundtrip.Result) {
		n++
		logger.Info("ok",
			"fixture", fixture,
			"codec", r.Codec,
			"level", r.Level,
			"in", r.InputSize,
			"out", r.OutputSize,
			"ratio", fmt.Sprintf("%.3f", r.Ratio()),
			"elapsed", r.Elapsed)
	})
	if err != nil {
		return err
	}
	logger.Info("all round trips verified", "count", n)
	return nil
}
