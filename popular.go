package fxwidget

import (
	"github.com/robotomize/fxwidget/label"
)

// popularSymbols is the fixed shortlist of widely traded codes shown in
// the popular rates table
var popularSymbols = []label.Symbol{
	label.USD, label.EUR, label.GBP, label.JPY, label.AUD,
	label.CAD, label.CHF, label.CNY, label.HKD, label.NZD,
}

const (
	maxPopularRows = 10
	maxBackfill    = 3
)

// PopularRate is one row of the popular rates view
type PopularRate struct {
	Code            label.Symbol
	Name            string
	Rate            float64
	ConvertedAmount float64
}

// PopularRates returns a derived view over the current snapshot
// restricted to the popular shortlist, excluding the current base. When
// the base itself is in the shortlist, up to 3 additional codes from
// the known set take its place. At most 10 rows are returned, nil
// before the first snapshot or for an invalid amount.
func (w *Widget) PopularRates(amount float64) []PopularRate {
	w.mtx.RLock()
	defer w.mtx.RUnlock()

	if w.snapshot == nil || !validAmount(amount) {
		return nil
	}

	base := w.snapshot.Base
	rows := make([]PopularRate, 0, maxPopularRows)

	baseListed := false
	for _, sym := range popularSymbols {
		if sym == base {
			baseListed = true
			continue
		}

		rate, ok := w.snapshot.Rate(sym)
		if !ok {
			continue
		}

		rows = append(rows, PopularRate{
			Code:            sym,
			Name:            label.Name(sym),
			Rate:            rate,
			ConvertedAmount: amount * rate,
		})
	}

	if baseListed {
		backfilled := 0
		for _, sym := range w.known {
			if backfilled == maxBackfill {
				break
			}

			if sym == base || isPopular(sym) {
				continue
			}

			rate, ok := w.snapshot.Rate(sym)
			if !ok {
				continue
			}

			rows = append(rows, PopularRate{
				Code:            sym,
				Name:            label.Name(sym),
				Rate:            rate,
				ConvertedAmount: amount * rate,
			})
			backfilled++
		}
	}

	if len(rows) > maxPopularRows {
		rows = rows[:maxPopularRows]
	}

	return rows
}

func isPopular(sym label.Symbol) bool {
	for _, s := range popularSymbols {
		if s == sym {
			return true
		}
	}

	return false
}
