package provider

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/robotomize/fxwidget/label"
)

// ErrNetwork covers every way a provider request can fail: the request
// did not complete, the status was not a success, or the payload could
// not be decoded. Callers branch on it with errors.Is.
var ErrNetwork = errors.New("rate provider request failed")

// Source is an interface for getting rate data from an external
// provider. A Source takes care of transport and decoding and hands
// back validated snapshots and series.
//
//go:generate mockgen -source source.go -destination mock_source.go -package provider
type Source interface {
	// FetchLatest returns the current rate table relative to base
	FetchLatest(ctx context.Context, base label.Symbol) (*Snapshot, error)

	// FetchTimeSeries returns the daily rate series for a single pair
	// over the inclusive calendar range [start, end]
	FetchTimeSeries(ctx context.Context, from, to label.Symbol, start, end time.Time) (*TimeSeries, error)
}

// Snapshot is the rate table for one base currency at one point in
// time. It is replaced wholesale on every successful fetch and never
// mutated, so readers can hold it without locking. Rates[Base] is
// always exactly 1.
type Snapshot struct {
	Base  label.Symbol
	Date  time.Time
	Rates map[label.Symbol]float64
}

// Rate returns how many units of sym one unit of the base buys. The
// second value reports whether sym is convertible from this base.
func (s *Snapshot) Rate(sym label.Symbol) (float64, bool) {
	r, ok := s.Rates[sym]
	return r, ok
}

// Symbols returns the sorted key set of the rate table
func (s *Snapshot) Symbols() []label.Symbol {
	list := make([]label.Symbol, 0, len(s.Rates))
	for sym := range s.Rates {
		list = append(list, sym)
	}

	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })

	return list
}

// Point is a single dated rate observation
type Point struct {
	Date time.Time
	Rate float64
}

// TimeSeries is a date ordered rate series for exactly one pair,
// fetched fresh per query and discarded on the next one
type TimeSeries struct {
	From   label.Symbol
	To     label.Symbol
	Points []Point
}
