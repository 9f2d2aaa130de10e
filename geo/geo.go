// Package geo handles the display side of the aggregates: the FIPS-to-name
// reference table and the key/value CSVs consumed by the map renderer.
package geo

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/invertedv/hmda/collapse"
)

// LoadNames reads the reference table: a headered CSV with columns fips,name.
// The table is read-only; it plays no part in the pipeline computation.
func LoadNames(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	defer func() { _ = f.Close() }()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.WithTypes(map[string]series.Type{"fips": series.String}))
	if df.Err != nil {
		return df, fmt.Errorf("reading %s: %w", path, df.Err)
	}
	for _, want := range []string{"fips", "name"} {
		if !hasCol(df, want) {
			return df, fmt.Errorf("%s: missing column %q", path, want)
		}
	}
	return df, nil
}

// ErrNoAggregates means every record was filtered out before aggregation.
var ErrNoAggregates = errors.New("no aggregates to tabulate")

// Table converts aggregates into a dataframe with one row per key.
func Table(aggs []collapse.GeoAggregate) (dataframe.DataFrame, error) {
	if len(aggs) == 0 {
		return dataframe.DataFrame{}, ErrNoAggregates
	}
	n := len(aggs)
	keys := make([]string, n)
	ns := make([]int, n)
	meanAmt := make([]float64, n)
	meanRatio := make([]float64, n)
	denial := make([]float64, n)
	for i, a := range aggs {
		keys[i] = a.Key
		ns[i] = a.N
		meanAmt[i] = a.MeanAmt
		meanRatio[i] = a.MeanRatio
		denial[i] = a.DenialRate
	}
	return dataframe.New(
		series.New(keys, series.String, "fips"),
		series.New(ns, series.Int, "n"),
		series.New(meanAmt, series.Float, "meanAmt"),
		series.New(meanRatio, series.Float, "meanRatio"),
		series.New(denial, series.Float, "denialRate"),
	), nil
}

// Merge joins region names onto the aggregate table, keeping every aggregate
// row whether or not the reference table knows its key.
func Merge(aggs, names dataframe.DataFrame) dataframe.DataFrame {
	return aggs.LeftJoin(names, "fips")
}

// WriteValueCSV writes the two-column key/value table the map renderer
// expects.
func WriteValueCSV(df dataframe.DataFrame, valueCol, path string) error {
	sub := df.Select([]string{"fips", valueCol})
	if sub.Err != nil {
		return sub.Err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return sub.WriteCSV(f)
}

// WriteCSV writes the full table.
func WriteCSV(df dataframe.DataFrame, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return df.WriteCSV(f)
}

func hasCol(df dataframe.DataFrame, name string) bool {
	for _, c := range df.Names() {
		if c == name {
			return true
		}
	}
	return false
}
