// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/trafficeq/config"
	"github.com/katalvlaran/trafficeq/network"
	"github.com/katalvlaran/trafficeq/store"
)

// flags shared by every sub-command.
type flags struct {
	configPath string
	storePath  string
	scenario   string
	verbose    bool
}

// env is what every sub-command needs once flags are parsed.
type env struct {
	cfg    *config.Config
	logger *log.Logger
	closer io.Closer
}

func (e *env) Close() error {
	if e.closer == nil {
		return nil
	}
	return e.closer.Close()
}

func newRootCommand(ctx context.Context, version string) *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:          "trafficeq",
		Short:        "Compute routed / non-routed traffic equilibria over a sweep of mixing ratios.",
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&f.configPath, "config", "c", "", "path to TOML config file")
	root.PersistentFlags().StringVarP(&f.storePath, "store", "s", "", "path to result store (overrides [store] path)")
	root.PersistentFlags().StringVar(&f.scenario, "scenario", "", "built-in network when the config has none: "+scenarioNames())
	root.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newSweepCommand(ctx, f),
		newMetricsCommand(f),
		newPathsCommand(f),
	)

	return root
}

// setup loads the configuration and the logger.
func setup(f *flags, out io.Writer) (*env, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return nil, err
		}
	}
	if f.storePath != "" {
		cfg.Store.Path = f.storePath
	}
	logger, closer, err := newLogger(cfg.Log, f.verbose, out)
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, logger: logger, closer: closer}, nil
}

// loadNetwork prefers the inline [network] table and falls back to --scenario.
func loadNetwork(f *flags, cfg *config.Config) (*network.Network, error) {
	n, err := cfg.BuildNetwork()
	switch {
	case err == nil:
		if f.scenario != "" {
			return nil, errors.New("--scenario conflicts with the [network] table of the config file")
		}
		return n, nil
	case !errors.Is(err, config.ErrNoNetwork):
		return nil, err
	}
	if f.scenario == "" {
		return nil, errors.New("no network: add a [network] table to the config or pass --scenario")
	}

	return buildScenario(f.scenario)
}

func openStore(e *env) (*store.Bolt, error) {
	st, err := store.Open(e.cfg.Store.Path, store.WithLogger(e.logger))
	if err != nil {
		return nil, errors.WithMessage(err, "unable to open result store")
	}

	return st, nil
}
