// Package metrics folds persisted sweep results into aggregate rows.
//
// Every Row is computed on the unscaled network, with true travel times
// from the BPR function evaluated at the combined flow:
//
//   - average cost per unit of demand, overall and per class, plus the
//     non-routed average under the cognitive (perceived) cost;
//   - the travel-time ratio tt/fftt per link, reduced to max and mean;
//   - the share of each class's flow on links below the capacity threshold.
//
// Failed alphas produce a Row carrying only their status, so a sweep's
// failures remain visible in the metrics artifact.
//
// NonRoutedShare and PathFlows give per-link and per-path views of single
// results.
package metrics
