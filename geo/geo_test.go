package geo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invertedv/hmda/collapse"
)

func testAggs() []collapse.GeoAggregate {
	return []collapse.GeoAggregate{
		{Key: "06037", N: 3, MeanAmt: 200000, MeanRatio: 2.0, RatioN: 2, DenialRate: 2.0 / 3.0},
		{Key: "36061", N: 1, MeanAmt: 150000, MeanRatio: 2.0, RatioN: 1, DenialRate: 0},
	}
}

func writeNames(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "names.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadNames(t *testing.T) {
	path := writeNames(t, "fips,name\n06037,Los Angeles\n36061,New York\n")
	names, err := LoadNames(path)
	require.NoError(t, err)
	assert.Equal(t, 2, names.Nrow())
	assert.Contains(t, names.Names(), "fips")
	assert.Contains(t, names.Names(), "name")

	// leading zeros survive: fips is forced to string
	assert.Equal(t, "06037", names.Elem(0, 0).String())
}

func TestLoadNamesMissingColumn(t *testing.T) {
	path := writeNames(t, "code,label\n06037,Los Angeles\n")
	_, err := LoadNames(path)
	assert.Error(t, err)
}

func mustTable(t *testing.T) dataframe.DataFrame {
	t.Helper()
	tbl, err := Table(testAggs())
	require.NoError(t, err)
	return tbl
}

func TestTable(t *testing.T) {
	tbl := mustTable(t)
	require.NoError(t, tbl.Err)
	assert.Equal(t, 2, tbl.Nrow())
	assert.Equal(t, []string{"fips", "n", "meanAmt", "meanRatio", "denialRate"}, tbl.Names())
}

// everything filtered out upstream is a clear error, not a broken dataframe
func TestTableEmpty(t *testing.T) {
	_, err := Table(nil)
	assert.ErrorIs(t, err, ErrNoAggregates)
}

func TestMerge(t *testing.T) {
	path := writeNames(t, "fips,name\n06037,Los Angeles\n")
	names, err := LoadNames(path)
	require.NoError(t, err)

	merged := Merge(mustTable(t), names)
	require.NoError(t, merged.Err)

	// left join: the unmatched key survives
	assert.Equal(t, 2, merged.Nrow())
	assert.Contains(t, merged.Names(), "name")
}

func TestWriteValueCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "denialRate.csv")
	require.NoError(t, WriteValueCSV(mustTable(t), "denialRate", path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "fips,denialRate", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "06037,"))
	assert.True(t, strings.HasPrefix(lines[2], "36061,"))
}

func TestWriteValueCSVUnknownColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	assert.Error(t, WriteValueCSV(mustTable(t), "nope", path))
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aggregates.csv")
	require.NoError(t, WriteCSV(mustTable(t), path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "fips,n,meanAmt,meanRatio,denialRate", lines[0])
}
