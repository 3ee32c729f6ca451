package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/signadot/attachtree/tracker"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	ConfigFile string `cli:"name=config desc='tracker configuration file (yaml)'"`
	Color      bool   `cli:"name=color desc='output with color'"`

	Main *cli.Command
}

func (cfg *MainConfig) trackerConfig() (*tracker.Config, error) {
	if cfg.ConfigFile == "" {
		return tracker.DefaultConfig(), nil
	}
	tc, err := tracker.LoadConfig(cfg.ConfigFile)
	if err != nil {
		return nil, err
	}
	if err := tc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfg.ConfigFile, err)
	}
	return tc, nil
}

// open reads the document named by arg, "-" or "" meaning stdin, and
// returns a tracker for it.
func (cfg *MainConfig) open(cc *cli.Context, arg string) (*tracker.Tracker, error) {
	tc, err := cfg.trackerConfig()
	if err != nil {
		return nil, err
	}
	data, err := readArg(cc, arg)
	if err != nil {
		return nil, err
	}
	opts := append(tc.Options(), tracker.WithLogger(theLog))
	tr, err := tracker.NewFromBytes(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", arg, err)
	}
	return tr, nil
}

func readArg(cc *cli.Context, arg string) ([]byte, error) {
	if arg == "" || arg == "-" {
		return io.ReadAll(cc.In)
	}
	d, err := os.ReadFile(arg)
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", arg, err)
	}
	return d, nil
}

// colors reports whether output to w should be colored: -color was given
// or w is a terminal.
func (cfg *MainConfig) colors(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	for _, opt := range cfg.Main.Opts {
		if opt.Name == "color" && opt.Value != nil {
			return false
		}
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

type TreeConfig struct {
	*MainConfig
	Payload bool `cli:"name=p desc='show each attachment payload'"`

	Tree *cli.Command
}

type GetConfig struct {
	*MainConfig

	Get *cli.Command
}

type SelectConfig struct {
	*MainConfig
	Count bool `cli:"name=c desc='print only the number of matches'"`

	Select *cli.Command
}

type WatchConfig struct {
	*MainConfig
	Gops     bool `cli:"name=gops desc='start a gops diagnostics agent'"`
	Diff     bool `cli:"name=diff desc='show payload diffs of changed attachments'"`
	Debounce time.Duration

	Watch *cli.Command
}

func (cfg *WatchConfig) debounceOpt(_ *cli.Context, a string) (any, error) {
	d, err := time.ParseDuration(a)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	cfg.Debounce = d
	return d, nil
}

type PatchConfig struct {
	*MainConfig
	Write bool `cli:"name=w desc='write the result back to the document file'"`

	Patch *cli.Command
}
