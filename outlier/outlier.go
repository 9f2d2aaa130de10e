// Package outlier rejects statistical outliers from the cleaned dataset,
// grouped by the 5-digit county key.
//
// The z-scores are jackknifed: the record under evaluation is excluded from
// the group mean and deviation.  A within-group score that includes the
// candidate is bounded by (n-1)/sqrt(n), so in small groups a lone extreme
// value could never reach the rejection bound; leaving the record out removes
// that ceiling.  The income score centers on the record's area median income
// rather than the group mean, preserved from the source analysis.
package outlier

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/invertedv/hmda/raw"
)

const (
	// ZBound is the two-sided standardized-score rejection bound.
	ZBound = 2.0

	// absolute income sanity bounds, currency units (exclusive)
	IncomeFloor = 1000
	IncomeCeil  = 300000
)

// Result is the outcome of a filter pass.
type Result struct {
	Kept           []raw.Loan
	RejectedZ      map[string]int // by 5-digit FIPS key
	RejectedBounds int
}

// String renders the end-of-run filter report, z-score rejections by group.
func (r Result) String() string {
	nz := 0
	keys := make([]string, 0, len(r.RejectedZ))
	for k, v := range r.RejectedZ {
		nz += v
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := fmt.Sprintf("kept %d of %d records (%d z-score, %d income bounds)\n",
		len(r.Kept), len(r.Kept)+nz+r.RejectedBounds, nz, r.RejectedBounds)
	for _, k := range keys {
		out += fmt.Sprintf("  %-5s %d z-score rejections\n", k, r.RejectedZ[k])
	}
	return out
}

// Filter applies the two-stage filter: jackknifed z-scores on loan amount and
// income, then the absolute income bounds.  Degenerate groups never emit
// NaN: an undefined deviation passes the record, a zero deviation passes it
// only when it sits exactly at the reference value.
func Filter(loans []raw.Loan) Result {
	res := Result{RejectedZ: make(map[string]int)}
	zLoan, zIncome := ZScores(loans)
	for i, l := range loans {
		if math.Abs(zLoan[i]) >= ZBound || math.Abs(zIncome[i]) >= ZBound {
			res.RejectedZ[l.FIPS()]++
			continue
		}
		if l.Income <= IncomeFloor || l.Income >= IncomeCeil {
			res.RejectedBounds++
			continue
		}
		res.Kept = append(res.Kept, l)
	}
	return res
}

// ZScores returns the jackknifed loan-amount and income z-scores, indexed
// like loans.  zLoan centers on the leave-one-out group mean; zIncome centers
// on the record's area median income.  Scores that cannot be estimated
// (fewer than two other group members) are 0, so they pass the filter.
func ZScores(loans []raw.Loan) (zLoan, zIncome []float64) {
	zLoan = make([]float64, len(loans))
	zIncome = make([]float64, len(loans))

	groups := make(map[string][]int)
	for i, l := range loans {
		groups[l.FIPS()] = append(groups[l.FIPS()], i)
	}

	for _, idx := range groups {
		amts := make([]float64, len(idx))
		incs := make([]float64, len(idx))
		for j, i := range idx {
			amts[j] = float64(loans[i].Amt)
			incs[j] = float64(loans[i].Income)
		}
		for j, i := range idx {
			oAmt, oInc := leaveOut(amts, j), leaveOut(incs, j)
			zLoan[i] = zScore(amts[j], math.NaN(), oAmt)
			zIncome[i] = zScore(incs[j], float64(loans[i].MedIncome), oInc)
		}
	}
	return zLoan, zIncome
}

// leaveOut copies vals without position skip
func leaveOut(vals []float64, skip int) []float64 {
	out := make([]float64, 0, len(vals)-1)
	for j, v := range vals {
		if j != skip {
			out = append(out, v)
		}
	}
	return out
}

// zScore standardizes x against the others.  center overrides the others'
// mean when it is not NaN (the income score centers on the area median).
// With fewer than two others the score is 0 (no statistical support to
// reject); with a zero deviation it is 0 at the center and +/-Inf off it.
func zScore(x, center float64, others []float64) float64 {
	if len(others) < 2 {
		return 0
	}
	if math.IsNaN(center) {
		center, _ = stats.Mean(others)
	}
	sd, _ := stats.StandardDeviationSample(others)
	if sd == 0 {
		if x == center {
			return 0
		}
		return math.Inf(int(math.Copysign(1, x-center)))
	}
	return (x - center) / sd
}
