package raw

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// larRow renders one 45-column LAR line, with overrides by column index.
func larRow(over map[int]string) string {
	base := []string{
		"2008", "0000451965", "9", "1", "1", "1", "1", "00123", "3", "1",
		"NA", "06", "037", "1234.00", "2", "5", "5", "", "", "",
		"", "8", "", "", "", "", "1", "5", "0045", "0",
		"", "", "", "NA", "2", "1", "", "1", "5534", "23.1",
		"55000", "100.5", "1200", "1500", "",
	}
	for i, v := range over {
		base[i] = v
	}
	return strings.Join(base, ",")
}

func writeLAR(t *testing.T, rows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lar.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(rows, "\n")+"\n"), 0o600))
	return path
}

func TestLoadCleans(t *testing.T) {
	path := writeLAR(t,
		larRow(nil),                        // clean
		larRow(map[int]string{16: "7"}),    // race not applicable -> missing
		larRow(map[int]string{26: "3"}),    // sex not provided -> missing
		larRow(map[int]string{28: "NA"}),   // malformed income
		larRow(map[int]string{9: "9"}),     // action out of range
		larRow(map[int]string{11: "99"}),   // state not a FIPS code
		larRow(map[int]string{7: "000ab"}), // malformed amount
	)

	loans, drops, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, drops.Read)
	assert.Equal(t, 1, drops.Kept)
	assert.Equal(t, 6, drops.Dropped())
	assert.Equal(t, 1, drops.ByField["race"])
	assert.Equal(t, 1, drops.ByField["sex"])
	assert.Equal(t, 1, drops.ByField["income"])
	assert.Equal(t, 1, drops.ByField["action"])
	assert.Equal(t, 1, drops.ByField["geography"])
	assert.Equal(t, 1, drops.ByField["amount"])

	require.Len(t, loans, 1)
	l := loans[0]
	assert.Equal(t, 123000, l.Amt)
	assert.Equal(t, 45000, l.Income)
	assert.Equal(t, 55000, l.MedIncome)
	assert.Equal(t, ActionOriginated, l.Action)
	assert.Equal(t, "06", l.State)
	assert.Equal(t, "037", l.County)
	assert.Equal(t, "06037", l.FIPS())
	assert.Equal(t, 5, l.Race)
	assert.Equal(t, 1, l.Sex)
	assert.NoError(t, l.Valid())
}

// renderRow writes a cleaned loan back in file encoding (thousands).
func renderRow(l Loan) string {
	return larRow(map[int]string{
		7:  fmt.Sprintf("%05d", l.Amt/1000),
		9:  fmt.Sprintf("%d", l.Action),
		11: l.State,
		12: l.County,
		16: fmt.Sprintf("%d", l.Race),
		26: fmt.Sprintf("%d", l.Sex),
		28: fmt.Sprintf("%04d", l.Income/1000),
		40: fmt.Sprintf("%d", l.MedIncome),
	})
}

// cleaning already-clean data is a no-op
func TestLoadIdempotent(t *testing.T) {
	path := writeLAR(t,
		larRow(nil),
		larRow(map[int]string{7: "00400", 9: "3", 16: "3", 26: "2", 28: "0120"}),
	)
	loans, drops, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, drops.Kept)

	rows := make([]string, 0, len(loans))
	for _, l := range loans {
		rows = append(rows, renderRow(l))
	}
	again, drops2, err := Load(writeLAR(t, rows...))
	require.NoError(t, err)
	assert.Equal(t, 0, drops2.Dropped())
	assert.Equal(t, loans, again)
}

func TestLoadSchemaMismatch(t *testing.T) {
	_, _, err := Load(writeLAR(t, "2008,0000451965,9,1,1"))
	assert.Error(t, err)

	// a short row mid-file is fatal too, not a silent truncation
	_, _, err = Load(writeLAR(t, larRow(nil), "2008,0000451965,9,1,1", larRow(nil)))
	assert.Error(t, err)

	// extra columns as well
	_, _, err = Load(writeLAR(t, larRow(nil)+",x,y"))
	assert.Error(t, err)
}

func TestRaceName(t *testing.T) {
	name, err := RaceName(3)
	require.NoError(t, err)
	assert.Equal(t, "Black or African American", name)

	_, err = RaceName(7)
	assert.Error(t, err)
	_, err = RaceName(0)
	assert.Error(t, err)
}

func TestActionSets(t *testing.T) {
	assert.True(t, Denied(ActionDenied))
	assert.True(t, Denied(ActionIncomplete))
	assert.False(t, Denied(ActionOriginated))
	assert.False(t, Denied(ActionWithdrawn))

	assert.False(t, ModelEligible(ActionWithdrawn))
	assert.False(t, ModelEligible(ActionPurchased))
	assert.True(t, ModelEligible(ActionDenied))
	assert.True(t, ModelEligible(ActionOriginated))
}

func TestBuild(t *testing.T) {
	td := Build()
	require.Len(t, td.FieldDefs, 45)
	for name, want := range map[string]int{"amt": 7, "action": 9, "state": 11, "county": 12, "race1": 16, "sex": 26, "income": 28, "medInc": 40} {
		ind, _, err := td.Get(name)
		require.NoError(t, err)
		assert.Equal(t, want, ind, name)
	}
}
