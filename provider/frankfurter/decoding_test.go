package frankfurter

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/robotomize/fxwidget/label"
)

func TestDecodeLatest(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		body     string
		err      error
		base     label.Symbol
		expected map[label.Symbol]float64
	}{
		{
			name: "decode_latest_synthesizes_self_rate",
			body: `{"base":"EUR","date":"2024-03-10","rates":{"USD":1.087}}`,
			base: label.EUR,
			expected: map[label.Symbol]float64{
				label.EUR: 1, label.USD: 1.087,
			},
		},
		{
			name: "decode_latest_lowercase_codes_normalized",
			body: `{"base":"usd","date":"2024-03-10","rates":{"eur":0.92}}`,
			base: label.USD,
			expected: map[label.Symbol]float64{
				label.USD: 1, label.EUR: 0.92,
			},
		},
		{
			name: "decode_latest_zero_rate_allowed",
			body: `{"base":"USD","date":"2024-03-10","rates":{"EUR":0}}`,
			base: label.USD,
			expected: map[label.Symbol]float64{
				label.USD: 1, label.EUR: 0,
			},
		},
		{
			name: "decode_latest_empty_rates",
			body: `{"base":"USD","date":"2024-03-10","rates":{}}`,
			err:  errDecodePayload,
		},
		{
			name: "decode_latest_bad_date",
			body: `{"base":"USD","date":"10/03/2024","rates":{"EUR":0.92}}`,
			err:  errDateNotValid,
		},
		{
			name: "decode_latest_bad_base",
			body: `{"base":"","date":"2024-03-10","rates":{"EUR":0.92}}`,
			err:  errDecodePayload,
		},
		{
			name: "decode_latest_negative_rate",
			body: `{"base":"USD","date":"2024-03-10","rates":{"EUR":-0.92}}`,
			err:  errRateNotValid,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			snapshot, err := decodeLatest([]byte(tc.body))
			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Errorf("expected error %v, got: %v", tc.err, err)
				}

				return
			}

			if err != nil {
				t.Fatalf("decode latest: %v", err)
			}

			if diff := cmp.Diff(tc.base, snapshot.Base); diff != "" {
				t.Errorf("base mismatch (-want, +got):\n%s", diff)
			}

			if diff := cmp.Diff(tc.expected, snapshot.Rates); diff != "" {
				t.Errorf("rates mismatch (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeTimeSeries(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		body     string
		err      error
		expected int
	}{
		{
			name: "decode_series_ordered",
			body: `{"rates":{"2024-03-05":{"EUR":0.92},"2024-03-03":{"EUR":0.93},"2024-03-04":{"EUR":0.91}}}`,

			expected: 3,
		},
		{
			name: "decode_series_bad_date_key",
			body: `{"rates":{"march 5":{"EUR":0.92}}}`,
			err:  errDateNotValid,
		},
		{
			name: "decode_series_missing_target",
			body: `{"rates":{"2024-03-05":{"JPY":150.1}}}`,
			err:  errRateNotValid,
		},
		{
			name: "decode_series_malformed",
			body: `{"rates":`,
			err:  errDecodePayload,
		},
		{
			name:     "decode_series_empty",
			body:     `{"rates":{}}`,
			expected: 0,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			series, err := decodeTimeSeries([]byte(tc.body), label.USD, label.EUR)
			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Errorf("expected error %v, got: %v", tc.err, err)
				}

				return
			}

			if err != nil {
				t.Fatalf("decode time series: %v", err)
			}

			if diff := cmp.Diff(tc.expected, len(series.Points)); diff != "" {
				t.Errorf("points mismatch (-want, +got):\n%s", diff)
			}

			for i := 1; i < len(series.Points); i++ {
				if !series.Points[i-1].Date.Before(series.Points[i].Date) {
					t.Errorf("points are not ordered by date at index %d", i)
				}
			}
		})
	}
}
