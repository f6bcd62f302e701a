package history

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robotomize/fxwidget/internal/logging"
	"github.com/robotomize/fxwidget/label"
	"github.com/robotomize/fxwidget/provider"
	"github.com/sethvargo/go-retry"
)

var (
	ErrLookbackNotValid = errors.New("unsupported lookback window")
	ErrStaleFetch       = errors.New("superseded series fetch discarded")
)

// Lookbacks are the supported windows in days
var Lookbacks = []int{7, 30, 90, 180, 365}

const DefaultLookback = 30

const (
	DefaultRequestTimeout = 10 * time.Second
	DefaultRetryNum       = 1
	DefaultRetryDuration  = 5 * time.Second
)

const dateLayout = "2006-01-02"

// ChartData is the exchange format handed to the rendering collaborator
type ChartData struct {
	Labels      []string
	Series      []float64
	Title       string
	SeriesLabel string
}

// Renderer draws a chart. Render fully replaces whatever was drawn
// before, the viewer never appends to a previous chart.
type Renderer interface {
	Render(data ChartData)
}

type Option func(*Viewer)

type Options struct {
	RetryNum       uint64
	RetryDuration  time.Duration
	RequestTimeout time.Duration
}

// WithRetryNum set number of repeated requests for data retrieval errors from the source
func WithRetryNum(n uint64) Option {
	return func(v *Viewer) {
		v.opts.RetryNum = n
	}
}

// WithRetryDuration max retry backoff
func WithRetryDuration(t time.Duration) Option {
	return func(v *Viewer) {
		v.opts.RetryDuration = t
	}
}

// WithRequestTimeout set a timeout for source requests
func WithRequestTimeout(t time.Duration) Option {
	return func(v *Viewer) {
		v.opts.RequestTimeout = t
	}
}

// WithClock overrides the wall clock used to compute the date range
func WithClock(now func() time.Time) Option {
	return func(v *Viewer) {
		v.now = now
	}
}

// New return a hidden viewer for the given pair with the default
// lookback window
func New(source provider.Source, renderer Renderer, from, to label.Symbol, opts ...Option) *Viewer {
	v := &Viewer{
		source:   source,
		renderer: renderer,
		from:     from,
		to:       to,
		lookback: DefaultLookback,
		now:      time.Now,
		opts: Options{
			RetryNum:       DefaultRetryNum,
			RetryDuration:  DefaultRetryDuration,
			RequestTimeout: DefaultRequestTimeout,
		},
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Viewer fetches and exposes a date bounded rate series for exactly one
// pair at a time. It never fetches while hidden.
type Viewer struct {
	opts     Options
	source   provider.Source
	renderer Renderer
	now      func() time.Time

	mtx      sync.Mutex
	visible  bool
	from     label.Symbol
	to       label.Symbol
	lookback int
	series   *provider.TimeSeries
	lastErr  error
	gen      uint64
}

// Toggle flips panel visibility. Transitioning hidden to visible loads
// the series for the current parameters, hiding keeps the cached series
// without any network activity.
func (v *Viewer) Toggle(ctx context.Context) (bool, error) {
	v.mtx.Lock()
	v.visible = !v.visible
	visible := v.visible
	v.mtx.Unlock()

	if !visible {
		return false, nil
	}

	if err := v.Load(ctx); err != nil {
		return true, err
	}

	return true, nil
}

// SetParams records a new pair and lookback window and refetches while
// the panel is visible. While hidden nothing is fetched, the next
// Toggle picks the parameters up.
func (v *Viewer) SetParams(ctx context.Context, from, to label.Symbol, lookbackDays int) error {
	if !validLookback(lookbackDays) {
		return fmt.Errorf("%w: %d", ErrLookbackNotValid, lookbackDays)
	}

	v.mtx.Lock()
	v.from, v.to, v.lookback = from, to, lookbackDays
	visible := v.visible
	v.mtx.Unlock()

	if !visible {
		return nil
	}

	return v.Load(ctx)
}

// Load fetches the series for the current parameters and hands a full
// replacement chart to the renderer. A response that resolves after the
// parameters changed or a newer load started is discarded with
// ErrStaleFetch. On failure the previously rendered series stays
// visible and the error feeds the dismissible retry notice.
func (v *Viewer) Load(ctx context.Context) error {
	v.mtx.Lock()
	v.gen++
	gen := v.gen
	from, to, lookback := v.from, v.to, v.lookback
	v.mtx.Unlock()

	end := v.now()
	start := end.AddDate(0, 0, -lookback)

	fetchCtx, cancel := context.WithTimeout(ctx, v.opts.RequestTimeout)
	defer cancel()

	var series *provider.TimeSeries

	b, _ := retry.NewConstant(v.opts.RetryDuration)
	b = retry.WithMaxRetries(v.opts.RetryNum, b)

	if err := retry.Do(fetchCtx, b, func(ctx context.Context) error {
		fetched, err := v.source.FetchTimeSeries(ctx, from, to, start, end)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("fetch time series: %w", err))
		}

		series = fetched

		return nil
	}); err != nil {
		logging.FromContext(ctx).Printf("load series %s/%s: %v", from, to, err)

		v.mtx.Lock()
		defer v.mtx.Unlock()

		if gen == v.gen {
			v.lastErr = err
		}

		return err
	}

	v.mtx.Lock()
	if gen != v.gen || from != v.from || to != v.to {
		v.mtx.Unlock()
		return ErrStaleFetch
	}

	v.series = series
	v.lastErr = nil
	renderer := v.renderer
	v.mtx.Unlock()

	if renderer != nil {
		renderer.Render(chartData(series))
	}

	return nil
}

// Retry re-issues the last load with unchanged parameters
func (v *Viewer) Retry(ctx context.Context) error {
	return v.Load(ctx)
}

func (v *Viewer) Visible() bool {
	v.mtx.Lock()
	defer v.mtx.Unlock()

	return v.visible
}

// Series returns the last successfully loaded series, which survives
// both hiding the panel and failed reloads
func (v *Viewer) Series() *provider.TimeSeries {
	v.mtx.Lock()
	defer v.mtx.Unlock()

	return v.series
}

// Err returns the failure of the most recent load, nil after a success
func (v *Viewer) Err() error {
	v.mtx.Lock()
	defer v.mtx.Unlock()

	return v.lastErr
}

// Params returns the active pair and lookback window
func (v *Viewer) Params() (from, to label.Symbol, lookbackDays int) {
	v.mtx.Lock()
	defer v.mtx.Unlock()

	return v.from, v.to, v.lookback
}

func chartData(series *provider.TimeSeries) ChartData {
	labels := make([]string, 0, len(series.Points))
	values := make([]float64, 0, len(series.Points))

	for _, p := range series.Points {
		labels = append(labels, p.Date.Format(dateLayout))
		values = append(values, p.Rate)
	}

	return ChartData{
		Labels:      labels,
		Series:      values,
		Title:       fmt.Sprintf("%s to %s", series.From, series.To),
		SeriesLabel: fmt.Sprintf("1 %s in %s", series.From, series.To),
	}
}

func validLookback(days int) bool {
	for _, d := range Lookbacks {
		if d == days {
			return true
		}
	}

	return false
}
