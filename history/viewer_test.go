package history

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/robotomize/fxwidget/label"
	"github.com/robotomize/fxwidget/provider"
)

type recordingRenderer struct {
	mtx    sync.Mutex
	charts []ChartData
}

func (r *recordingRenderer) Render(data ChartData) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.charts = append(r.charts, data)
}

func (r *recordingRenderer) rendered() []ChartData {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return r.charts
}

func testSeries(from, to label.Symbol, days ...string) *provider.TimeSeries {
	points := make([]provider.Point, 0, len(days))
	for _, d := range days {
		dt, _ := time.Parse(dateLayout, d)
		points = append(points, provider.Point{Date: dt, Rate: 0.92})
	}

	return &provider.TimeSeries{From: from, To: to, Points: points}
}

func TestViewer_Toggle_LoadsDateRange(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ctrl := gomock.NewController(t)

	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	series := testSeries(
		label.USD, label.EUR,
		"2024-03-03", "2024-03-04", "2024-03-05", "2024-03-06", "2024-03-07", "2024-03-08",
	)

	var gotStart, gotEnd string

	source := provider.NewMockSource(ctrl)
	source.EXPECT().
		FetchTimeSeries(gomock.Any(), label.USD, label.EUR, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ label.Symbol, start, end time.Time) (*provider.TimeSeries, error) {
			gotStart, gotEnd = start.Format(dateLayout), end.Format(dateLayout)
			return series, nil
		})

	renderer := &recordingRenderer{}
	v := New(source, renderer, label.USD, label.EUR, WithClock(func() time.Time { return now }))

	if err := v.SetParams(ctx, label.USD, label.EUR, 7); err != nil {
		t.Fatalf("set params: %v", err)
	}

	visible, err := v.Toggle(ctx)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if !visible {
		t.Fatalf("expected the panel to be visible")
	}

	if diff := cmp.Diff("2024-03-03", gotStart); diff != "" {
		t.Errorf("start mismatch (-want, +got):\n%s", diff)
	}

	if diff := cmp.Diff("2024-03-10", gotEnd); diff != "" {
		t.Errorf("end mismatch (-want, +got):\n%s", diff)
	}

	charts := renderer.rendered()
	if len(charts) != 1 {
		t.Fatalf("expected exactly one rendered chart, got %d", len(charts))
	}

	if diff := cmp.Diff(6, len(charts[0].Labels)); diff != "" {
		t.Errorf("labels mismatch (-want, +got):\n%s", diff)
	}

	if diff := cmp.Diff("USD to EUR", charts[0].Title); diff != "" {
		t.Errorf("title mismatch (-want, +got):\n%s", diff)
	}
}

func TestViewer_Toggle_ShowHideFetchesOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ctrl := gomock.NewController(t)

	source := provider.NewMockSource(ctrl)
	// Exactly one fetch for a show followed by a hide
	source.EXPECT().
		FetchTimeSeries(gomock.Any(), label.USD, label.EUR, gomock.Any(), gomock.Any()).
		Return(testSeries(label.USD, label.EUR, "2024-03-09", "2024-03-10"), nil).
		Times(1)

	v := New(source, &recordingRenderer{}, label.USD, label.EUR)

	if _, err := v.Toggle(ctx); err != nil {
		t.Fatalf("show: %v", err)
	}

	visible, err := v.Toggle(ctx)
	if err != nil {
		t.Fatalf("hide: %v", err)
	}

	if visible {
		t.Errorf("expected the panel to be hidden")
	}

	if v.Series() == nil {
		t.Errorf("hiding the panel must not clear the cached series")
	}
}

func TestViewer_SetParams_LazyWhileHidden(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ctrl := gomock.NewController(t)

	// No expectation: fetching while hidden fails the test
	source := provider.NewMockSource(ctrl)

	v := New(source, &recordingRenderer{}, label.USD, label.EUR)

	if err := v.SetParams(ctx, label.USD, label.JPY, 90); err != nil {
		t.Fatalf("set params: %v", err)
	}

	from, to, lookback := v.Params()
	if from != label.USD || to != label.JPY || lookback != 90 {
		t.Errorf("params not recorded, got %s/%s %d", from, to, lookback)
	}
}

func TestViewer_SetParams_LookbackValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ctrl := gomock.NewController(t)
	source := provider.NewMockSource(ctrl)

	v := New(source, &recordingRenderer{}, label.USD, label.EUR)

	for _, days := range []int{0, -7, 13, 400} {
		if err := v.SetParams(ctx, label.USD, label.EUR, days); !errors.Is(err, ErrLookbackNotValid) {
			t.Errorf("lookback %d: expected ErrLookbackNotValid, got: %v", days, err)
		}
	}

	for _, days := range Lookbacks {
		if err := v.SetParams(ctx, label.USD, label.EUR, days); err != nil {
			t.Errorf("lookback %d: %v", days, err)
		}
	}
}

func TestViewer_Load_FailureKeepsPriorSeries(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ctrl := gomock.NewController(t)

	series := testSeries(label.USD, label.EUR, "2024-03-09", "2024-03-10")

	source := provider.NewMockSource(ctrl)
	first := source.EXPECT().
		FetchTimeSeries(gomock.Any(), label.USD, label.EUR, gomock.Any(), gomock.Any()).
		Return(series, nil)
	source.EXPECT().
		FetchTimeSeries(gomock.Any(), label.USD, label.EUR, gomock.Any(), gomock.Any()).
		Return(nil, provider.ErrNetwork).
		After(first)

	renderer := &recordingRenderer{}
	v := New(source, renderer, label.USD, label.EUR, WithRetryNum(0), WithRequestTimeout(time.Second))

	if _, err := v.Toggle(ctx); err != nil {
		t.Fatalf("show: %v", err)
	}

	if err := v.Retry(ctx); !errors.Is(err, provider.ErrNetwork) {
		t.Errorf("expected provider.ErrNetwork, got: %v", err)
	}

	if v.Series() != series {
		t.Errorf("failed reload must leave the prior series in place")
	}

	if v.Err() == nil {
		t.Errorf("expected the load failure to be exposed for the retry notice")
	}

	if charts := renderer.rendered(); len(charts) != 1 {
		t.Errorf("expected exactly one rendered chart, got %d", len(charts))
	}
}

func TestViewer_Load_StaleDiscarded(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ctrl := gomock.NewController(t)

	slow := testSeries(label.USD, label.EUR, "2024-03-09", "2024-03-10")
	fast := testSeries(label.USD, label.JPY, "2024-03-09", "2024-03-10")

	started := make(chan struct{})
	release := make(chan struct{})

	source := provider.NewMockSource(ctrl)
	source.EXPECT().
		FetchTimeSeries(gomock.Any(), label.USD, label.EUR, gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, label.Symbol, label.Symbol, time.Time, time.Time) (*provider.TimeSeries, error) {
			close(started)
			<-release
			return slow, nil
		})
	source.EXPECT().
		FetchTimeSeries(gomock.Any(), label.USD, label.JPY, gomock.Any(), gomock.Any()).
		Return(fast, nil)

	renderer := &recordingRenderer{}
	v := New(source, renderer, label.USD, label.EUR)
	v.visible = true

	errCh := make(chan error, 1)
	go func() {
		errCh <- v.Load(ctx)
	}()

	<-started

	if err := v.SetParams(ctx, label.USD, label.JPY, DefaultLookback); err != nil {
		t.Fatalf("set params: %v", err)
	}

	close(release)

	if err := <-errCh; !errors.Is(err, ErrStaleFetch) {
		t.Errorf("expected ErrStaleFetch, got: %v", err)
	}

	if diff := cmp.Diff(label.JPY, v.Series().To); diff != "" {
		t.Errorf("late response overwrote a newer series (-want, +got):\n%s", diff)
	}

	if charts := renderer.rendered(); len(charts) != 1 {
		t.Errorf("expected exactly one rendered chart, got %d", len(charts))
	}
}
