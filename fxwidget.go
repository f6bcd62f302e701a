package fxwidget

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/robotomize/fxwidget/internal/logging"
	"github.com/robotomize/fxwidget/label"
	"github.com/robotomize/fxwidget/provider"
	"github.com/sethvargo/go-retry"
)

var (
	ErrInvalidAmount   = errors.New("amount must be a finite positive number")
	ErrRateUnavailable = errors.New("rate is not available")
	ErrStaleFetch      = errors.New("superseded snapshot fetch discarded")
)

const (
	DefaultRequestTimeout = 10 * time.Second
	DefaultRetryNum       = 1
	DefaultRetryDuration  = 5 * time.Second
	DefaultAmount         = 1
)

// State is the conversion flow state machine. Changing the from code
// re-enters StateFetching, changing only to or amount recomputes
// synchronously from StateReady.
type State byte

const (
	StateIdle State = iota
	StateFetching
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateFetching:
		return "fetching"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

type Option func(*Widget)

type Options struct {
	RetryNum       uint64
	RetryDuration  time.Duration
	RequestTimeout time.Duration
}

// WithRetryNum set number of repeated requests for data retrieval errors from the source
func WithRetryNum(n uint64) Option {
	return func(w *Widget) {
		w.opts.RetryNum = n
	}
}

// WithRetryDuration max retry backoff
func WithRetryDuration(t time.Duration) Option {
	return func(w *Widget) {
		w.opts.RetryDuration = t
	}
}

// WithRequestTimeout set a timeout for source requests
func WithRequestTimeout(t time.Duration) Option {
	return func(w *Widget) {
		w.opts.RequestTimeout = t
	}
}

// New return widget bound to a rate source
func New(source provider.Source, opts ...Option) *Widget {
	w := &Widget{
		source: source,
		amount: DefaultAmount,
		opts: Options{
			RetryNum:       DefaultRetryNum,
			RetryDuration:  DefaultRetryDuration,
			RequestTimeout: DefaultRequestTimeout,
		},
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Widget owns exactly one current rate snapshot, the set of known
// currency codes and the selected conversion inputs. All mutation goes
// through its methods, the snapshot itself is replaced wholesale and
// never mutated in place.
type Widget struct {
	opts   Options
	source provider.Source

	mtx      sync.RWMutex
	state    State
	lastErr  error
	snapshot *provider.Snapshot
	known    []label.Symbol
	from     label.Symbol
	to       label.Symbol
	amount   float64
	gen      uint64
}

// ConversionResult is derived purely from a snapshot and the inputs
type ConversionResult struct {
	From            label.Symbol
	To              label.Symbol
	Amount          float64
	ConvertedAmount float64
	RateUsed        float64
}

// DisplayAmount formats the converted amount to 4 decimal places
func (r ConversionResult) DisplayAmount() string {
	return strconv.FormatFloat(r.ConvertedAmount, 'f', 4, 64)
}

// DisplayRate formats the rate to 6 decimal places
func (r ConversionResult) DisplayRate() string {
	return strconv.FormatFloat(r.RateUsed, 'f', 6, 64)
}

func (r ConversionResult) String() string {
	return fmt.Sprintf(
		"Amount: %v %s, Rate: %s, Result: %s %s",
		r.Amount, r.From, r.DisplayRate(), r.DisplayAmount(), r.To,
	)
}

// Quote converts an amount against an explicit snapshot. The snapshot
// base is the implicit from side, rates are stored as "1 unit of base
// buys rate units of X".
func Quote(snapshot *provider.Snapshot, to label.Symbol, amount float64) (ConversionResult, error) {
	var res ConversionResult

	if !validAmount(amount) {
		return res, ErrInvalidAmount
	}

	rate, ok := snapshot.Rate(to)
	if !ok {
		return res, fmt.Errorf("%w: %s", ErrRateUnavailable, to)
	}

	return ConversionResult{
		From:            snapshot.Base,
		To:              to,
		Amount:          amount,
		ConvertedAmount: amount * rate,
		RateUsed:        rate,
	}, nil
}

// RefreshSnapshot fetches all rates relative to base and replaces the
// current snapshot atomically. A response that resolves after a newer
// refresh started, or after the selected from code moved on, is
// discarded with ErrStaleFetch so a late fetch can never overwrite
// state committed by a later one. On failure the prior snapshot, if
// any, stays in effect.
func (w *Widget) RefreshSnapshot(ctx context.Context, base label.Symbol) (*provider.Snapshot, error) {
	w.mtx.Lock()
	w.gen++
	gen := w.gen
	w.state = StateFetching
	w.mtx.Unlock()

	fetchCtx, cancel := context.WithTimeout(ctx, w.opts.RequestTimeout)
	defer cancel()

	var snapshot *provider.Snapshot

	b, _ := retry.NewConstant(w.opts.RetryDuration)
	b = retry.WithMaxRetries(w.opts.RetryNum, b)

	if err := retry.Do(fetchCtx, b, func(ctx context.Context) error {
		snap, err := w.source.FetchLatest(ctx, base)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("fetch latest: %w", err))
		}

		snapshot = snap

		return nil
	}); err != nil {
		logging.FromContext(ctx).Printf("refresh snapshot %s: %v", base, err)

		w.mtx.Lock()
		defer w.mtx.Unlock()

		if gen == w.gen {
			w.state = StateFailed
			w.lastErr = err
		}

		return nil, err
	}

	return w.commit(gen, snapshot)
}

func (w *Widget) commit(gen uint64, snapshot *provider.Snapshot) (*provider.Snapshot, error) {
	w.mtx.Lock()
	defer w.mtx.Unlock()

	if gen != w.gen {
		return nil, ErrStaleFetch
	}

	// The selection moved on while this fetch was in flight
	if w.from != "" && w.from != snapshot.Base {
		return nil, ErrStaleFetch
	}

	first := w.from == ""

	w.snapshot = snapshot
	w.state = StateReady
	w.lastErr = nil
	w.mergeKnown(snapshot.Symbols())

	if first {
		w.from = snapshot.Base
		if snapshot.Base == label.EUR {
			w.to = label.USD
		} else {
			w.to = label.EUR
		}
	}

	return snapshot, nil
}

// mergeKnown unions the snapshot key set into the known currency set.
// Codes that appeared in any snapshot stay selectable even when a later
// base does not quote them.
func (w *Widget) mergeKnown(symbols []label.Symbol) {
	uniq := make(map[label.Symbol]struct{}, len(w.known)+len(symbols))
	for _, sym := range w.known {
		uniq[sym] = struct{}{}
	}

	for _, sym := range symbols {
		uniq[sym] = struct{}{}
	}

	w.known = make([]label.Symbol, 0, len(uniq))
	for sym := range uniq {
		w.known = append(w.known, sym)
	}

	sort.Slice(w.known, func(i, j int) bool { return w.known[i] < w.known[j] })
}

// Convert computes the result for the current selection and amount. If
// the selected from code is not the snapshot base the snapshot is
// refreshed first, otherwise the recomputation is purely local. An
// invalid amount never triggers network activity.
func (w *Widget) Convert(ctx context.Context) (ConversionResult, error) {
	var res ConversionResult

	w.mtx.RLock()
	from, to, amount := w.from, w.to, w.amount
	snapshot := w.snapshot
	w.mtx.RUnlock()

	if !validAmount(amount) {
		return res, ErrInvalidAmount
	}

	if from == "" {
		return res, fmt.Errorf("%w: no base selected", ErrRateUnavailable)
	}

	if snapshot == nil || snapshot.Base != from {
		snap, err := w.RefreshSnapshot(ctx, from)
		if err != nil {
			return res, err
		}

		snapshot = snap
	}

	return Quote(snapshot, to, amount)
}

// SetFrom selects a new from code and recomputes, refreshing the
// snapshot for the new base
func (w *Widget) SetFrom(ctx context.Context, sym label.Symbol) (ConversionResult, error) {
	w.mtx.Lock()
	w.from = sym
	w.mtx.Unlock()

	return w.Convert(ctx)
}

// SetTo selects a new to code and recomputes locally
func (w *Widget) SetTo(ctx context.Context, sym label.Symbol) (ConversionResult, error) {
	w.mtx.Lock()
	w.to = sym
	w.mtx.Unlock()

	return w.Convert(ctx)
}

// SetAmount stores a new amount and recomputes locally
func (w *Widget) SetAmount(ctx context.Context, amount float64) (ConversionResult, error) {
	w.mtx.Lock()
	w.amount = amount
	w.mtx.Unlock()

	return w.Convert(ctx)
}

// Swap exchanges the selected from and to codes and recomputes. The
// from side changes, so this usually refreshes the snapshot.
func (w *Widget) Swap(ctx context.Context) (ConversionResult, error) {
	w.mtx.Lock()
	w.from, w.to = w.to, w.from
	w.mtx.Unlock()

	return w.Convert(ctx)
}

// Retry re-issues the snapshot fetch for the current selection
func (w *Widget) Retry(ctx context.Context) (ConversionResult, error) {
	var res ConversionResult

	w.mtx.RLock()
	from, to, amount := w.from, w.to, w.amount
	w.mtx.RUnlock()

	if !validAmount(amount) {
		return res, ErrInvalidAmount
	}

	snapshot, err := w.RefreshSnapshot(ctx, from)
	if err != nil {
		return res, err
	}

	return Quote(snapshot, to, amount)
}

// Snapshot returns the current snapshot or nil before the first
// successful refresh
func (w *Widget) Snapshot() *provider.Snapshot {
	w.mtx.RLock()
	defer w.mtx.RUnlock()

	return w.snapshot
}

// Known returns the sorted union of every code seen in any snapshot
func (w *Widget) Known() []label.Symbol {
	w.mtx.RLock()
	defer w.mtx.RUnlock()

	known := make([]label.Symbol, len(w.known))
	copy(known, w.known)

	return known
}

// Selection returns the currently selected pair
func (w *Widget) Selection() (from, to label.Symbol) {
	w.mtx.RLock()
	defer w.mtx.RUnlock()

	return w.from, w.to
}

func (w *Widget) Amount() float64 {
	w.mtx.RLock()
	defer w.mtx.RUnlock()

	return w.amount
}

func (w *Widget) State() State {
	w.mtx.RLock()
	defer w.mtx.RUnlock()

	return w.state
}

// Err returns the failure that put the widget into StateFailed
func (w *Widget) Err() error {
	w.mtx.RLock()
	defer w.mtx.RUnlock()

	return w.lastErr
}

func validAmount(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
