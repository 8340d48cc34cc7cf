// SPDX-License-Identifier: MIT

package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/trafficeq/sweep"
)

func newSweepCommand(ctx context.Context, f *flags) *cobra.Command {
	var alphas []float64
	var workers int
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Solve the coupled equilibrium for every alpha and store flows and metrics.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(f, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()
			if len(alphas) > 0 {
				e.cfg.Sweep.Alphas = alphas
			}
			if workers > 0 {
				e.cfg.Sweep.Workers = workers
			}
			if err := e.cfg.Validate(); err != nil {
				return err
			}

			n, err := loadNetwork(f, e.cfg)
			if err != nil {
				return err
			}
			st, err := openStore(e)
			if err != nil {
				return err
			}
			defer st.Close()

			grid, err := e.cfg.Alphas()
			if err != nil {
				return err
			}
			copts, err := e.cfg.CouplerOptions()
			if err != nil {
				return err
			}
			d, err := sweep.New(n, st,
				sweep.WithParams(e.cfg.CostParams()),
				sweep.WithSolverOptions(e.cfg.SolverOptions()...),
				sweep.WithCouplerOptions(copts...),
				sweep.WithScale(e.cfg.Sweep.Scale),
				sweep.WithWorkers(e.cfg.Sweep.Workers),
				sweep.WithLogger(e.logger),
			)
			if err != nil {
				return errors.WithMessage(err, "unable to prepare sweep")
			}

			e.logger.WithField("alphas", len(grid)).Infof("sweeping %d links, %d OD pairs", n.NumLinks(), len(n.Demands()))
			results, err := d.Run(ctx, grid)
			if err != nil {
				return errors.WithMessage(err, "sweep failed")
			}
			rows, err := storeMetrics(n, e.cfg, st, results)
			if err != nil {
				return err
			}

			return printRows(cmd.OutOrStdout(), rows)
		},
	}
	cmd.Flags().Float64SliceVar(&alphas, "alphas", nil, "alphas to solve (overrides [sweep])")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "alphas solved concurrently (overrides [sweep] workers)")

	return cmd
}
