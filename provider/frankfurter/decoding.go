package frankfurter

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/robotomize/fxwidget/label"
	"github.com/robotomize/fxwidget/provider"
)

var (
	errDecodePayload = errors.New("decoding of the payload failed")
	errRateNotValid  = errors.New("rate is not valid")
	errDateNotValid  = errors.New("date is not valid")
)

type latestPayload struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// decodeLatest validates the /latest payload and builds a snapshot.
// The provider omits the self rate, it is synthesized here so that the
// Rates[Base] == 1 invariant holds from construction on.
func decodeLatest(b []byte) (*provider.Snapshot, error) {
	var payload latestPayload
	if err := json.Unmarshal(b, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", errDecodePayload, err)
	}

	base, err := label.Parse(payload.Base)
	if err != nil {
		return nil, fmt.Errorf("%w: base %q: %v", errDecodePayload, payload.Base, err)
	}

	date, err := time.Parse(dateLayout, payload.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", errDateNotValid, payload.Date)
	}

	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("%w: empty rate table", errDecodePayload)
	}

	var merr *multierror.Error

	rates := make(map[label.Symbol]float64, len(payload.Rates)+1)
	for code, rate := range payload.Rates {
		sym, err := label.Parse(code)
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%w: code %q", errDecodePayload, code))
			continue
		}

		if rate < 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
			merr = multierror.Append(merr, fmt.Errorf("%w: %s=%v", errRateNotValid, code, rate))
			continue
		}

		rates[sym] = rate
	}

	if err := merr.ErrorOrNil(); err != nil {
		return nil, err
	}

	rates[base] = 1

	return &provider.Snapshot{Base: base, Date: date, Rates: rates}, nil
}

type timeSeriesPayload struct {
	Rates map[string]map[string]float64 `json:"rates"`
}

// decodeTimeSeries validates the range payload and returns the series
// points ordered by date ascending
func decodeTimeSeries(b []byte, from, to label.Symbol) (*provider.TimeSeries, error) {
	var payload timeSeriesPayload
	if err := json.Unmarshal(b, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", errDecodePayload, err)
	}

	var merr *multierror.Error

	points := make([]provider.Point, 0, len(payload.Rates))
	for day, entry := range payload.Rates {
		date, err := time.Parse(dateLayout, day)
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%w: %q", errDateNotValid, day))
			continue
		}

		rate, ok := entry[to.String()]
		if !ok {
			merr = multierror.Append(merr, fmt.Errorf("%w: %s missing for %s", errRateNotValid, to, day))
			continue
		}

		if rate < 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
			merr = multierror.Append(merr, fmt.Errorf("%w: %s=%v at %s", errRateNotValid, to, rate, day))
			continue
		}

		points = append(points, provider.Point{Date: date, Rate: rate})
	}

	if err := merr.ErrorOrNil(); err != nil {
		return nil, err
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	return &provider.TimeSeries{From: from, To: to, Points: points}, nil
}
