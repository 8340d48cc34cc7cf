// SPDX-License-Identifier: MIT

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"

	"github.com/katalvlaran/trafficeq/metrics"
	"github.com/katalvlaran/trafficeq/sweep"
)

// DefaultTimeout bounds how long Open waits for the file lock.
const DefaultTimeout = 5 * time.Second

// ErrClosed is returned by every method after Close.
var ErrClosed = errors.New("store: closed")

// Options configures Open.
type Options struct {
	Timeout time.Duration
	Logger  logrus.FieldLogger
}

// Option configures Open.
type Option func(*Options)

// WithTimeout sets the file-lock timeout (≤ 0 keeps the default).
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		if d > 0 {
			o.Timeout = d
		}
	}
}

// WithLogger routes log entries to logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// Bolt persists AlphaResults and metric rows in a single bbolt file through
// bolthold, one bucket per record type. Records are JSON encoded. Bolt
// implements sweep.Store and is safe for concurrent use.
type Bolt struct {
	db  *bolthold.Store
	log logrus.FieldLogger
}

var _ sweep.Store = (*Bolt)(nil)

// Open opens (or creates) the store file at path.
func Open(path string, opts ...Option) (*Bolt, error) {
	discard := logrus.New()
	discard.Out = io.Discard
	o := Options{Timeout: DefaultTimeout, Logger: discard}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := bolthold.Open(path, 0o644, &bolthold.Options{
		Encoder: json.Marshal,
		Decoder: json.Unmarshal,
		Options: &bbolt.Options{
			Timeout:      o.Timeout,
			NoGrowSync:   bbolt.DefaultOptions.NoGrowSync,
			FreelistType: bbolt.DefaultOptions.FreelistType,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	log := o.Logger.WithFields(logrus.Fields{"module": "store", "path": path})
	log.Debug("opened")

	return &Bolt{db: db, log: log}, nil
}

// Close releases the file.
func (b *Bolt) Close() error {
	if b.db == nil {
		return ErrClosed
	}
	err := b.db.Close()
	b.db = nil

	return err
}

// Put implements sweep.Store. An existing result for the same key is replaced.
func (b *Bolt) Put(r *sweep.AlphaResult) error {
	if b.db == nil {
		return ErrClosed
	}
	if err := b.db.Upsert(r.Key, r); err != nil {
		return fmt.Errorf("store: put alpha %g: %w", r.Alpha, err)
	}
	b.log.WithFields(logrus.Fields{"alpha": r.Alpha, "status": r.Status}).Debug("result stored")

	return nil
}

// Get implements sweep.Store.
func (b *Bolt) Get(alpha float64) (*sweep.AlphaResult, error) {
	if b.db == nil {
		return nil, ErrClosed
	}
	r := &sweep.AlphaResult{}
	if err := b.db.Get(sweep.Key(alpha), r); err != nil {
		if errors.Is(err, bolthold.ErrNotFound) {
			return nil, fmt.Errorf("%w: alpha %g", sweep.ErrNotFound, alpha)
		}
		return nil, fmt.Errorf("store: get alpha %g: %w", alpha, err)
	}

	return r, nil
}

// List implements sweep.Store.
func (b *Bolt) List() ([]*sweep.AlphaResult, error) {
	if b.db == nil {
		return nil, ErrClosed
	}
	var out []*sweep.AlphaResult
	if err := b.db.Find(&out, nil); err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })

	return out, nil
}

// Failed returns the results recorded with sweep.StatusFailed, by alpha.
func (b *Bolt) Failed() ([]*sweep.AlphaResult, error) {
	if b.db == nil {
		return nil, ErrClosed
	}
	var out []*sweep.AlphaResult
	if err := b.db.Find(&out, bolthold.Where("Status").Eq(sweep.StatusFailed).Index("Status")); err != nil {
		return nil, fmt.Errorf("store: failed results: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })

	return out, nil
}

// PutMetrics replaces the metrics artifact with rows.
func (b *Bolt) PutMetrics(rows []metrics.Row) error {
	if b.db == nil {
		return ErrClosed
	}

	return b.db.Bolt().Update(func(tx *bbolt.Tx) error {
		if err := b.db.TxDeleteMatching(tx, &metrics.Row{}, nil); err != nil {
			return fmt.Errorf("store: clear metrics: %w", err)
		}
		for i := range rows {
			if err := b.db.TxInsert(tx, rows[i].Key, &rows[i]); err != nil {
				return fmt.Errorf("store: put metrics alpha %g: %w", rows[i].Alpha, err)
			}
		}

		return nil
	})
}

// Metrics returns the stored metric rows by alpha.
func (b *Bolt) Metrics() ([]metrics.Row, error) {
	if b.db == nil {
		return nil, ErrClosed
	}
	var out []metrics.Row
	if err := b.db.Find(&out, nil); err != nil {
		return nil, fmt.Errorf("store: metrics: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })

	return out, nil
}
