package label

import (
	"errors"
	"strings"

	"golang.org/x/text/currency"
)

var ErrSymbolNotValid = errors.New("currency symbol is not valid")

// Parse normalizes a raw currency code to an uppercase Symbol. Codes
// registered in the ISO table are canonicalized through x/text; codes
// the table does not carry are still accepted as long as they look like
// a three letter code, because the authoritative set of convertible
// symbols comes from the provider snapshot, not from a static list.
func Parse(raw string) (Symbol, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))

	if unit, err := currency.ParseISO(s); err == nil {
		return Symbol(unit.String()), nil
	}

	if len(s) != 3 {
		return "", ErrSymbolNotValid
	}

	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return "", ErrSymbolNotValid
		}
	}

	return Symbol(s), nil
}
