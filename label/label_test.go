package label

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		raw      string
		err      error
		expected Symbol
	}{
		{name: "test_parse_upper", raw: "USD", expected: USD},
		{name: "test_parse_lower", raw: "usd", expected: USD},
		{name: "test_parse_padded", raw: "  eur ", expected: EUR},
		{name: "test_parse_non_iso_shape_ok", raw: "ZZZ", expected: Symbol("ZZZ")},
		{name: "test_parse_too_short", raw: "US", err: ErrSymbolNotValid},
		{name: "test_parse_digits", raw: "U5D", err: ErrSymbolNotValid},
		{name: "test_parse_empty", raw: "", err: ErrSymbolNotValid},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			sym, err := Parse(tc.raw)
			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Errorf("expected error %v, got: %v", tc.err, err)
				}

				return
			}

			if err != nil {
				t.Fatalf("parse: %v", err)
			}

			if diff := cmp.Diff(tc.expected, sym); diff != "" {
				t.Errorf("mismatch (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestName(t *testing.T) {
	t.Parallel()

	if diff := cmp.Diff("Euro", Name(EUR)); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}

	// Unknown codes fall back to the code itself
	if diff := cmp.Diff("ZZZ", Name(Symbol("ZZZ"))); diff != "" {
		t.Errorf("mismatch (-want, +got):\n%s", diff)
	}
}
