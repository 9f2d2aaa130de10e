package collapse

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invertedv/hmda/raw"
)

func loan(amt, income, action int, state, county string) raw.Loan {
	return raw.Loan{
		Amt:       amt,
		Action:    action,
		State:     state,
		County:    county,
		Race:      raw.RaceBaseline,
		Sex:       1,
		Income:    income,
		MedIncome: 55000,
	}
}

func TestParseLevel(t *testing.T) {
	lv, err := ParseLevel("county")
	require.NoError(t, err)
	assert.Equal(t, County, lv)

	lv, err = ParseLevel("state")
	require.NoError(t, err)
	assert.Equal(t, State, lv)

	_, err = ParseLevel("tract")
	assert.Error(t, err)
}

func TestGroupByCounty(t *testing.T) {
	loans := []raw.Loan{
		loan(100000, 50000, raw.ActionOriginated, "06", "037"),
		loan(200000, 100000, raw.ActionDenied, "06", "037"),
		loan(300000, 800, raw.ActionIncomplete, "06", "037"),
		loan(150000, 75000, raw.ActionOriginated, "36", "061"),
	}
	aggs := GroupBy(loans, County)

	require.Len(t, aggs, 2)
	assert.Equal(t, "06037", aggs[0].Key)
	assert.Equal(t, "36061", aggs[1].Key)

	la := aggs[0]
	assert.Equal(t, 3, la.N)
	assert.InDelta(t, 200000.0, la.MeanAmt, 1e-9)
	// the 800-income record is excluded from the ratio but not the amount mean
	assert.Equal(t, 2, la.RatioN)
	assert.InDelta(t, 2.0, la.MeanRatio, 1e-9)
	assert.InDelta(t, 2.0/3.0, la.DenialRate, 1e-9)

	ny := aggs[1]
	assert.Equal(t, 1, ny.N)
	assert.InDelta(t, 150000.0, ny.MeanAmt, 1e-9)
	assert.Zero(t, ny.DenialRate)
}

// the state level merges counties under the 2-digit key
func TestGroupByState(t *testing.T) {
	loans := []raw.Loan{
		loan(100000, 50000, raw.ActionOriginated, "06", "037"),
		loan(200000, 100000, raw.ActionDenied, "06", "075"),
		loan(150000, 75000, raw.ActionOriginated, "36", "061"),
	}
	aggs := GroupBy(loans, State)

	require.Len(t, aggs, 2)
	assert.Equal(t, "06", aggs[0].Key)
	assert.Equal(t, 2, aggs[0].N)
	assert.InDelta(t, 0.5, aggs[0].DenialRate, 1e-9)
	assert.Equal(t, "36", aggs[1].Key)
}

// means stay inside the group's range
func TestAggregateBounds(t *testing.T) {
	loans := []raw.Loan{
		loan(90000, 40000, raw.ActionOriginated, "06", "037"),
		loan(210000, 60000, raw.ActionDenied, "06", "037"),
		loan(150000, 50000, raw.ActionWithdrawn, "06", "037"),
	}
	aggs := GroupBy(loans, County)
	require.Len(t, aggs, 1)
	a := aggs[0]
	assert.GreaterOrEqual(t, a.MeanAmt, 90000.0)
	assert.LessOrEqual(t, a.MeanAmt, 210000.0)
	assert.GreaterOrEqual(t, a.DenialRate, 0.0)
	assert.LessOrEqual(t, a.DenialRate, 1.0)
}

func ExampleGroupBy() {
	loans := []raw.Loan{
		{Amt: 100000, Action: raw.ActionOriginated, State: "06", County: "037", Race: 5, Sex: 1, Income: 50000, MedIncome: 55000},
		{Amt: 200000, Action: raw.ActionDenied, State: "06", County: "037", Race: 5, Sex: 2, Income: 100000, MedIncome: 55000},
		{Amt: 90000, Action: raw.ActionOriginated, State: "36", County: "061", Race: 5, Sex: 1, Income: 45000, MedIncome: 60000},
	}
	for _, a := range GroupBy(loans, County) {
		fmt.Printf("%s n=%d meanAmt=%.0f denialRate=%.2f\n", a.Key, a.N, a.MeanAmt, a.DenialRate)
	}
	// Output:
	// 06037 n=2 meanAmt=150000 denialRate=0.50
	// 36061 n=1 meanAmt=90000 denialRate=0.00
}
