// Package collapse groups the filtered dataset by geography and computes the
// per-key summaries handed to the map renderer.
package collapse

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/invertedv/hmda/raw"
)

// Level selects the grouping key.
type Level int

const (
	County Level = iota // 5-digit state+county FIPS
	State               // 2-digit state FIPS
)

// ParseLevel maps the command-line -geo value to a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "county":
		return County, nil
	case "state":
		return State, nil
	}
	return 0, fmt.Errorf("unknown geography level %q (county or state)", s)
}

// Key returns the grouping key for a loan at this level.
func (lv Level) Key(l raw.Loan) string {
	if lv == State {
		return l.State
	}
	return l.FIPS()
}

// ratioIncomeFloor gates the loan/income ratio mean.  The outlier stage
// already enforces a wider income bound; this is kept as a distinct step so
// the ratio summary does not depend on the filter ordering.
const ratioIncomeFloor = 1000

// GeoAggregate is one output row per distinct geographic key.
type GeoAggregate struct {
	Key        string
	N          int
	MeanAmt    float64 // mean loan amount
	MeanRatio  float64 // mean loan/income ratio, incomes above the floor
	RatioN     int     // records contributing to MeanRatio
	DenialRate float64 // fraction with a denial action code
}

// GroupBy computes one aggregate per distinct key with at least one record,
// sorted by key.
func GroupBy(loans []raw.Loan, level Level) []GeoAggregate {
	groups := make(map[string][]raw.Loan)
	for _, l := range loans {
		k := level.Key(l)
		groups[k] = append(groups[k], l)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]GeoAggregate, 0, len(keys))
	for _, k := range keys {
		out = append(out, aggregate(k, groups[k]))
	}
	return out
}

func aggregate(key string, loans []raw.Loan) GeoAggregate {
	agg := GeoAggregate{Key: key, N: len(loans)}

	amts := make([]float64, 0, len(loans))
	ratios := make([]float64, 0, len(loans))
	denied := 0
	for _, l := range loans {
		amts = append(amts, float64(l.Amt))
		if l.Income > ratioIncomeFloor {
			ratios = append(ratios, float64(l.Amt)/float64(l.Income))
		}
		if raw.Denied(l.Action) {
			denied++
		}
	}

	agg.MeanAmt, _ = stats.Mean(amts)
	agg.RatioN = len(ratios)
	if len(ratios) > 0 {
		agg.MeanRatio, _ = stats.Mean(ratios)
	}
	agg.DenialRate = float64(denied) / float64(len(loans))
	return agg
}
