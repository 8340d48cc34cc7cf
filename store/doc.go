// Package store persists sweep artifacts in a bbolt file via bolthold:
// one AlphaResult per alpha (keyed by sweep.Key) and one set of metric
// rows per sweep. It implements sweep.Store.
//
//	st, err := store.Open(filepath.Join(dir, "sweep.db"))
//	defer st.Close()
//	d, err := sweep.New(net, st)
package store
