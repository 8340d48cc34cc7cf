// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/trafficeq/config"
	"github.com/katalvlaran/trafficeq/metrics"
	"github.com/katalvlaran/trafficeq/network"
	"github.com/katalvlaran/trafficeq/store"
	"github.com/katalvlaran/trafficeq/sweep"
)

func newMetricsCommand(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Recompute the metrics artifact from stored results.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(f, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			n, err := loadNetwork(f, e.cfg)
			if err != nil {
				return err
			}
			st, err := openStore(e)
			if err != nil {
				return err
			}
			defer st.Close()

			results, err := st.List()
			if err != nil {
				return err
			}
			if len(results) == 0 {
				return errors.Errorf("no results in %s: run `trafficeq sweep` first", e.cfg.Store.Path)
			}
			rows, err := storeMetrics(n, e.cfg, st, results)
			if err != nil {
				return err
			}

			return printRows(cmd.OutOrStdout(), rows)
		},
	}
}

func newPathsCommand(f *flags) *cobra.Command {
	var links []int
	var class string
	var routes bool
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Print one class's stored flow on selected links, or its cheapest routes, for every alpha.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(f, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()
			if routes {
				return printRoutes(cmd.OutOrStdout(), f, e, class)
			}
			if len(links) == 0 {
				links = e.cfg.Sweep.PathLinks
			}
			if len(links) == 0 {
				return errors.New("no links selected: pass --links or set [sweep] path_links")
			}

			st, err := openStore(e)
			if err != nil {
				return err
			}
			defer st.Close()
			results, err := st.List()
			if err != nil {
				return err
			}
			rows, err := metrics.PathFlows(results, class, links)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprint(w, "alpha")
			for _, l := range links {
				fmt.Fprintf(w, "\tlink_%d", l)
			}
			fmt.Fprintln(w)
			for _, r := range rows {
				fmt.Fprintf(w, "%.4f", r.Alpha)
				for _, v := range r.Flows {
					fmt.Fprintf(w, "\t%.2f", v)
				}
				fmt.Fprintln(w)
			}

			return w.Flush()
		},
	}
	cmd.Flags().IntSliceVarP(&links, "links", "l", nil, "link indices of interest (overrides [sweep] path_links)")
	cmd.Flags().BoolVar(&routes, "routes", false, "print each OD pair's cheapest path at the stored flows instead of link flows")
	cmd.Flags().StringVar(&class, "class", sweep.ClassRouted, "traveler class: "+sweep.ClassRouted+" or "+sweep.ClassNonRouted)

	return cmd
}

// printRoutes lists, per stored alpha, the path class would pick for every
// OD pair at the stored flows. Failed alphas are skipped.
func printRoutes(out io.Writer, f *flags, e *env, class string) error {
	n, err := loadNetwork(f, e.cfg)
	if err != nil {
		return err
	}
	calc, err := metrics.NewCalculator(n, e.cfg.CostParams())
	if err != nil {
		return err
	}
	st, err := openStore(e)
	if err != nil {
		return err
	}
	defer st.Close()
	results, err := st.List()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "alpha\torigin\tdestination\tlinks")
	for _, r := range results {
		if r.Failed() {
			continue
		}
		routes, err := calc.Routes(r, class)
		if err != nil {
			return errors.WithMessagef(err, "unable to compute routes for alpha %g", r.Alpha)
		}
		for _, rt := range routes {
			fmt.Fprintf(w, "%.4f\t%d\t%d\t%s\n", r.Alpha, rt.Origin, rt.Destination, joinLinks(rt.Links))
		}
	}

	return w.Flush()
}

func joinLinks(links []int) string {
	parts := make([]string, len(links))
	for i, l := range links {
		parts[i] = strconv.Itoa(l)
	}

	return strings.Join(parts, ",")
}

// storeMetrics folds results into rows and replaces the metrics artifact.
func storeMetrics(n *network.Network, cfg *config.Config, st *store.Bolt, results []*sweep.AlphaResult) ([]metrics.Row, error) {
	calc, err := metrics.NewCalculator(n, cfg.CostParams())
	if err != nil {
		return nil, err
	}
	rows, err := calc.Rows(results)
	if err != nil {
		return nil, errors.WithMessage(err, "unable to compute metrics")
	}
	if err := st.PutMetrics(rows); err != nil {
		return nil, err
	}

	return rows, nil
}

func printRows(out io.Writer, rows []metrics.Row) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "alpha\tstatus\tavg_cost\tavg_routed\tavg_non_routed\tperceived_nr\tmax_ratio\tmean_ratio\tnr_on_small")
	for _, r := range rows {
		fmt.Fprintf(w, "%.4f\t%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n",
			r.Alpha, r.Status, r.AvgCost, r.AvgCostRouted, r.AvgCostNonRouted,
			r.AvgPerceivedNonRouted, r.MaxCostRatio, r.MeanCostRatio, r.NonRoutedOnSmall)
	}

	return w.Flush()
}
