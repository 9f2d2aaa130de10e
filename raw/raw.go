// Package raw loads a sampled HMDA Loan/Application Register file into typed,
// cleaned loan records.  The 45-column LAR layout is declared up front as a
// chutils TableDef; validation (legal codes, ranges, numeric parses) happens
// during the read, and records failing a required field are dropped and
// counted rather than imputed.
package raw

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/invertedv/chutils"
	"github.com/invertedv/chutils/file"
	"github.com/invertedv/chutils/nested"
	s "github.com/invertedv/chutils/sql"
)

// action type codes from the LAR spec
const (
	ActionOriginated             = 1
	ActionApprovedNotAccepted    = 2
	ActionDenied                 = 3
	ActionWithdrawn              = 4
	ActionIncomplete             = 5
	ActionPurchased              = 6
	ActionPreapprovalDenied      = 7
	ActionPreapprovalNotAccepted = 8
)

// Denied reports whether an action code counts as a denial: outright denials
// and files closed for incompleteness.
func Denied(action int) bool {
	return action == ActionDenied || action == ActionIncomplete
}

// ModelEligible reports whether a record belongs in the regression samples.
// Withdrawn applications and loans purchased on the secondary market carry no
// lender decision, so they are excluded from both models.
func ModelEligible(action int) bool {
	return action != ActionWithdrawn && action != ActionPurchased
}

// raceNames maps the 2008 applicant race codes to display names.  Code 7
// (not applicable) is treated as missing upstream and is not in the map.
var raceNames = map[int]string{
	1: "American Indian or Alaska Native",
	2: "Asian",
	3: "Black or African American",
	4: "Native Hawaiian or Other Pacific Islander",
	5: "White",
	6: "Information not provided",
}

// RaceBaseline is the one-hot reference category (White).
const RaceBaseline = 5

// RaceName returns the display name for a cleaned race code.
func RaceName(code int) (string, error) {
	name, ok := raceNames[code]
	if !ok {
		return "", fmt.Errorf("race code %d outside the allowed set", code)
	}
	return name, nil
}

// Loan is one cleaned application record.  Amounts are in currency units
// (the LAR stores amount and income in thousands), codes are members of the
// legal sets enforced by Build.
type Loan struct {
	Amt       int    // loan amount
	Action    int    // action type, 1-8
	State     string // 2-digit FIPS state code
	County    string // 3-digit FIPS county code
	Race      int    // applicant race 1, 1-6
	Sex       int    // applicant sex, 1 or 2
	Income    int    // applicant income
	MedIncome int    // HUD area median family income
}

// FIPS returns the 5-digit county key.
func (l Loan) FIPS() string { return l.State + l.County }

// Valid checks the post-clean invariants.
func (l Loan) Valid() error {
	if l.Amt <= 0 || l.Income <= 0 || l.MedIncome <= 0 {
		return fmt.Errorf("non-positive amount field in %+v", l)
	}
	if l.Action < ActionOriginated || l.Action > ActionPreapprovalNotAccepted {
		return fmt.Errorf("action code %d out of range", l.Action)
	}
	if _, err := RaceName(l.Race); err != nil {
		return err
	}
	if l.Sex != 1 && l.Sex != 2 {
		return fmt.Errorf("sex code %d outside the allowed set", l.Sex)
	}
	if _, err := strconv.Atoi(l.FIPS()); err != nil || len(l.FIPS()) != 5 {
		return fmt.Errorf("geographic key %q is not a 5-digit code", l.FIPS())
	}
	return nil
}

// DropCounts reports how the cleaner disposed of the file.  Malformed numeric
// content and out-of-range codes both surface as validation failures on the
// field, so a single per-field count covers both error kinds.
type DropCounts struct {
	Read    int
	Kept    int
	ByField map[string]int
}

func (d DropCounts) Dropped() int { return d.Read - d.Kept }

func (d DropCounts) String() string {
	out := fmt.Sprintf("read %d records, kept %d, dropped %d\n", d.Read, d.Kept, d.Dropped())
	for _, f := range []string{"amount", "action", "geography", "race", "sex", "income", "medianIncome"} {
		if n := d.ByField[f]; n > 0 {
			out += fmt.Sprintf("  %-14s %d\n", f, n)
		}
	}
	return out
}

// newReader builds the validated, derived-field reader over sourceFile.
func newReader(sourceFile string, f *os.File) (*nested.Reader, error) {
	rdr := file.NewReader(sourceFile, ',', '\n', '"', 0, 0, 0, f, 600000)
	rdr.Skip = 0
	rdr.SetTableSpec(Build())

	newCalcs := make([]nested.NewCalcFn, 0)
	newCalcs = append(newCalcs, amtCurField, incomeCurField, fipsField, qaField)
	return nested.NewReader(rdr, xtraFields(), newCalcs)
}

// countRows counts the data rows in f and rewinds it.  The count backstops
// the read loop: the nested reader reports EOF when the underlying file
// reader fails on a row, so a width mismatch would otherwise end the read
// silently.
func countRows(f *os.File) (int, error) {
	n := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if len(bytes.TrimSpace(sc.Bytes())) > 0 {
			n++
		}
	}
	if e := sc.Err(); e != nil {
		return 0, e
	}
	_, e := f.Seek(0, io.SeekStart)
	return n, e
}

// Load reads sourceFile into cleaned records.  A row that does not match the
// 45-column layout, anywhere in the file, is a fatal error; per-record
// validation failures are counted and the record is dropped.
func Load(sourceFile string) (loans []Loan, drops DropCounts, err error) {
	f, err := os.Open(sourceFile)
	if err != nil {
		return nil, drops, err
	}
	nRows, err := countRows(f)
	if err != nil {
		_ = f.Close()
		return nil, drops, err
	}
	rn, err := newReader(sourceFile, f)
	if err != nil {
		_ = f.Close()
		return nil, drops, err
	}
	defer func() {
		// don't throw an error if we already have one
		if e := rn.Close(); e != nil && err == nil {
			err = e
		}
	}()

	td := rn.TableSpec()
	if e := td.Check(); e != nil {
		return nil, drops, e
	}

	// required-field indices; a failure counts against the named reason
	type req struct {
		name   string
		reason string
	}
	reqs := []req{
		{"amtCur", "amount"},
		{"action", "action"},
		{"fips", "geography"},
		{"race1", "race"},
		{"sex", "sex"},
		{"incomeCur", "income"},
		{"medInc", "medianIncome"},
	}
	inds := make(map[string]int)
	for _, r := range reqs {
		ind, _, e := td.Get(r.name)
		if e != nil {
			return nil, drops, e
		}
		inds[r.name] = ind
	}
	stateInd, _, e := td.Get("state")
	if e != nil {
		return nil, drops, e
	}
	countyInd, _, e := td.Get("county")
	if e != nil {
		return nil, drops, e
	}

	drops.ByField = make(map[string]int)
	for {
		data, valid, e := rn.Read(1, true)
		for j := range data {
			drops.Read++
			row, vrow := data[j], valid[j]
			ok := true
			for _, r := range reqs {
				switch vrow[inds[r.name]] {
				case chutils.VPass, chutils.VDefault:
				default:
					drops.ByField[r.reason]++
					ok = false
				}
			}
			// the fips calc substitutes XXXXX for malformed geography codes
			if ok {
				if _, pe := strconv.Atoi(row[inds["fips"]].(string)); pe != nil {
					drops.ByField["geography"]++
					ok = false
				}
			}
			if !ok {
				continue
			}
			loans = append(loans, Loan{
				Amt:       int(row[inds["amtCur"]].(int32)),
				Action:    int(row[inds["action"]].(int32)),
				State:     row[stateInd].(string),
				County:    row[countyInd].(string),
				Race:      int(row[inds["race1"]].(int32)),
				Sex:       int(row[inds["sex"]].(int32)),
				Income:    int(row[inds["incomeCur"]].(int32)),
				MedIncome: int(row[inds["medInc"]].(int32)),
			})
			drops.Kept++
		}
		if e == io.EOF {
			break
		}
		if e != nil {
			return nil, drops, e
		}
	}
	// a row the file reader could not split to the declared width surfaces
	// here as a shortfall, not as a read error
	if drops.Read != nRows {
		return nil, drops, fmt.Errorf("%s: stopped after %d of %d rows: row does not match the %d-column layout",
			sourceFile, drops.Read, nRows, len(Build().FieldDefs))
	}
	return loans, drops, nil
}

// Save writes the cleaned, derived table to ClickHouse.  The in-memory
// pipeline never reads it back; the table is for downstream SQL exploration.
func Save(sourceFile string, table string, create bool, nConcur int, con *chutils.Connect) (err error) {
	f, err := os.Open(sourceFile)
	if err != nil {
		return err
	}
	rdr := file.NewReader(sourceFile, ',', '\n', '"', 0, 0, 0, f, 600000)
	rdr.Skip = 0
	defer func() {
		// don't throw an error if we already have one
		if e := rdr.Close(); e != nil && err == nil {
			err = e
		}
	}()
	rdr.SetTableSpec(Build())

	// build slice of readers
	rdrs, err := file.Rdrs(rdr, nConcur)
	if err != nil {
		return
	}

	var wrtrs []chutils.Output
	// build a slice of writers
	if wrtrs, err = s.Wrtrs(table, nConcur, con); err != nil {
		return
	}

	newCalcs := make([]nested.NewCalcFn, 0)
	newCalcs = append(newCalcs, amtCurField, incomeCurField, fipsField, qaField)

	// rdrsn is a slice of nested readers -- needed since we are adding fields to the raw data
	rdrsn := make([]chutils.Input, 0)
	for j, r := range rdrs {
		rn, e := nested.NewReader(r, xtraFields(), newCalcs)
		if e != nil {
			return e
		}
		if j == 0 {
			if e := rn.TableSpec().Check(); e != nil {
				return e
			}
			if create {
				if err = rn.TableSpec().Create(con, table); err != nil {
					return err
				}
			}
		}
		rdrsn = append(rdrsn, rn)
	}

	err = chutils.Concur(nConcur, rdrsn, wrtrs, 400000)
	return
}

// xtraFields defines the derived fields appended by the nested reader
func xtraFields() (fds []*chutils.FieldDef) {
	afd := &chutils.FieldDef{
		Name:        "amtCur",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "loan amount in currency units (amt * 1000)",
		Legal:       &chutils.LegalValues{LowLimit: int32(1000), HighLimit: int32(100000000)},
		Missing:     int32(-1),
		Width:       0,
	}
	ifd := &chutils.FieldDef{
		Name:        "incomeCur",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "applicant income in currency units (income * 1000)",
		Legal:       &chutils.LegalValues{LowLimit: int32(1000), HighLimit: int32(10000000)},
		Missing:     int32(-1),
		Width:       0,
	}
	ffd := &chutils.FieldDef{
		Name:        "fips",
		ChSpec:      chutils.ChField{Base: chutils.ChFixedString, Length: 5},
		Description: "5-digit state+county FIPS key",
		Legal:       chutils.NewLegalValues(),
		Missing:     "XXXXX",
		Width:       0,
	}
	qfd := &chutils.FieldDef{
		Name:        "qa",
		ChSpec:      chutils.ChField{Base: chutils.ChString, Funcs: chutils.OuterFuncs{chutils.OuterLowCardinality}},
		Description: "validation results for each field: 0=pass, 1=fail",
		Legal:       chutils.NewLegalValues(),
		Missing:     "!",
		Width:       0,
	}
	fds = []*chutils.FieldDef{afd, ifd, ffd, qfd}
	return
}

// amtCurField rescales the thousands-encoded loan amount to currency units
func amtCurField(td *chutils.TableDef, data chutils.Row, valid chutils.Valid, validate bool) (interface{}, error) {
	ind, _, err := td.Get("amt")
	if err != nil {
		return nil, err
	}
	if valid[ind] != chutils.VPass {
		return int32(-1), nil
	}
	return data[ind].(int32) * 1000, nil
}

// incomeCurField rescales the thousands-encoded applicant income
func incomeCurField(td *chutils.TableDef, data chutils.Row, valid chutils.Valid, validate bool) (interface{}, error) {
	ind, _, err := td.Get("income")
	if err != nil {
		return nil, err
	}
	if valid[ind] != chutils.VPass {
		return int32(-1), nil
	}
	return data[ind].(int32) * 1000, nil
}

// fipsField concatenates state and county into the 5-digit grouping key
func fipsField(td *chutils.TableDef, data chutils.Row, valid chutils.Valid, validate bool) (interface{}, error) {
	stInd, _, err := td.Get("state")
	if err != nil {
		return nil, err
	}
	ctyInd, _, err := td.Get("county")
	if err != nil {
		return nil, err
	}
	st, cty := data[stInd].(string), data[ctyInd].(string)
	if valid[stInd] != chutils.VPass || len(cty) != 3 {
		return "XXXXX", nil
	}
	return st + cty, nil
}

// qaField returns the validation results for each field -- 0 = pass, 1 = fail in a string which has a keyval format
func qaField(td *chutils.TableDef, data chutils.Row, valid chutils.Valid, validate bool) (interface{}, error) {
	res := make([]byte, 0)
	for ind, v := range valid {
		name := td.FieldDefs[ind].Name
		switch v {
		case chutils.VPass, chutils.VDefault:
			res = append(res, []byte(name+":0;")...)
		default:
			res = append(res, []byte(name+":1;")...)
		}
	}
	// delete trailing ;
	res[len(res)-1] = ' '
	return string(res), nil
}

// Build builds the TableDef for the 45-column 2008 LAR file (regulator field
// order, no header row).  Columns outside the analysis set are typed per the
// published layout but carry no validation that can drop a record.
func Build() *chutils.TableDef {
	var (
		strMiss = "X"
		intMiss = int32(-1)

		yearMin, yearMax = int32(2004), int32(2013)

		agencyLvl = []string{"1", "2", "3", "5", "7", "9"}

		loanTypeMin, loanTypeMax = int32(1), int32(4)
		propTypeMin, propTypeMax = int32(1), int32(3)
		purposeMin, purposeMax   = int32(1), int32(3)
		occMin, occMax           = int32(1), int32(3)

		// amount and income arrive in thousands with leading-zero padding;
		// the integer parse absorbs the padding
		amtMin, amtMax       = int32(1), int32(99999)
		incomeMin, incomeMax = int32(1), int32(9999)

		preappMin, preappMax = int32(1), int32(3)
		actionMin, actionMax = int32(1), int32(8)

		stateMiss  = "XX"
		countyMiss = "XXX"
		stateLvl   = []string{
			"01", "02", "04", "05", "06", "08", "09", "10", "11", "12",
			"13", "15", "16", "17", "18", "19", "20", "21", "22", "23",
			"24", "25", "26", "27", "28", "29", "30", "31", "32", "33",
			"34", "35", "36", "37", "38", "39", "40", "41", "42", "44",
			"45", "46", "47", "48", "49", "50", "51", "53", "54", "55",
			"56", "60", "66", "69", "72", "78"}

		ethMin, ethMax     = int32(1), int32(4)
		coEthMin, coEthMax = int32(1), int32(5)

		// race 7 (not applicable) is outside the legal range, so it fails
		// validation and maps to missing
		raceMin, raceMax = int32(1), int32(6)

		// sex codes 3 (not provided) and 4 (not applicable) map to missing
		sexMin, sexMax     = int32(1), int32(2)
		coSexMin, coSexMax = int32(1), int32(5)

		purchMin, purchMax = int32(0), int32(9)
		hoepaMin, hoepaMax = int32(1), int32(2)
		lienMin, lienMax   = int32(1), int32(4)

		medIncMin, medIncMax = int32(1), int32(500000)
	)

	fds := make(map[int]*chutils.FieldDef)

	fd := &chutils.FieldDef{
		Name:        "asOfYear",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "activity year, missing=" + fmt.Sprintf("%v", intMiss),
		Legal:       &chutils.LegalValues{LowLimit: yearMin, HighLimit: yearMax},
		Missing:     intMiss,
	}
	fds[0] = fd

	fd = &chutils.FieldDef{
		Name:        "respId",
		ChSpec:      chutils.ChField{Base: chutils.ChString},
		Description: "respondent id, missing=" + strMiss,
		Legal:       &chutils.LegalValues{},
		Missing:     strMiss,
	}
	fds[1] = fd

	fd = &chutils.FieldDef{
		Name:        "agency",
		ChSpec:      chutils.ChField{Base: chutils.ChFixedString, Length: 1},
		Description: "agency code: 1(OCC), 2(FRS), 3(FDIC), 5(NCUA), 7(HUD), 9(CFPB), missing=" + strMiss,
		Legal:       &chutils.LegalValues{Levels: agencyLvl},
		Missing:     strMiss,
	}
	fds[2] = fd

	fd = &chutils.FieldDef{
		Name:        "loanType",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "loan type: 1(conventional), 2(FHA), 3(VA), 4(FSA/RHS), missing=" + fmt.Sprintf("%v", intMiss),
		Legal:       &chutils.LegalValues{LowLimit: loanTypeMin, HighLimit: loanTypeMax},
		Missing:     intMiss,
	}
	fds[3] = fd

	fd = &chutils.FieldDef{
		Name:        "propType",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "property type: 1(1-4 family), 2(manufactured), 3(multifamily), missing=" + fmt.Sprintf("%v", intMiss),
		Legal:       &chutils.LegalValues{LowLimit: propTypeMin, HighLimit: propTypeMax},
		Missing:     intMiss,
	}
	fds[4] = fd

	fd = &chutils.FieldDef{
		Name:        "purpose",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "loan purpose: 1(purchase), 2(improvement), 3(refinance), missing=" + fmt.Sprintf("%v", intMiss),
		Legal:       &chutils.LegalValues{LowLimit: purposeMin, HighLimit: purposeMax},
		Missing:     intMiss,
	}
	fds[5] = fd

	fd = &chutils.FieldDef{
		Name:        "occ",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "owner occupancy: 1(owner), 2(not owner), 3(NA), missing=" + fmt.Sprintf("%v", intMiss),
		Legal:       &chutils.LegalValues{LowLimit: occMin, HighLimit: occMax},
		Missing:     intMiss,
	}
	fds[6] = fd

	fd = &chutils.FieldDef{
		Name:        "amt",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "loan amount in 000s, zero padded, missing=" + fmt.Sprintf("%v", intMiss),
		Legal:       &chutils.LegalValues{LowLimit: amtMin, HighLimit: amtMax},
		Missing:     intMiss,
	}
	fds[7] = fd

	fd = &chutils.FieldDef{
		Name:        "preapp",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "preapproval: 1(requested), 2(not requested), 3(NA), missing=" + fmt.Sprintf("%v", intMiss),
		Legal:       &chutils.LegalValues{LowLimit: preappMin, HighLimit: preappMax},
		Missing:     intMiss,
	}
	fds[8] = fd

	fd = &chutils.FieldDef{
		Name:        "action",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "action taken: 1(originated), 2(approved not accepted), 3(denied), 4(withdrawn), 5(incomplete), 6(purchased), 7(preapproval denied), 8(preapproval not accepted), missing=" + fmt.Sprintf("%v", intMiss),
		Legal:       &chutils.LegalValues{LowLimit: actionMin, HighLimit: actionMax},
		Missing:     intMiss,
	}
	fds[9] = fd

	fd = &chutils.FieldDef{
		Name:        "msa",
		ChSpec:      chutils.ChField{Base: chutils.ChString},
		Description: "MSA/MD code, NA outside metro areas, missing=" + strMiss,
		Legal:       &chutils.LegalValues{},
		Missing:     strMiss,
	}
	fds[10] = fd

	fd = &chutils.FieldDef{
		Name:        "state",
		ChSpec:      chutils.ChField{Base: chutils.ChFixedString, Length: 2},
		Description: "2-digit FIPS state code, missing=" + stateMiss,
		Legal:       &chutils.LegalValues{Levels: stateLvl},
		Missing:     stateMiss,
	}
	fds[11] = fd

	fd = &chutils.FieldDef{
		Name:        "county",
		ChSpec:      chutils.ChField{Base: chutils.ChFixedString, Length: 3},
		Description: "3-digit FIPS county code, missing=" + countyMiss,
		Legal:       &chutils.LegalValues{},
		Missing:     countyMiss,
	}
	fds[12] = fd

	fd = &chutils.FieldDef{
		Name:        "tract",
		ChSpec:      chutils.ChField{Base: chutils.ChString},
		Description: "census tract, missing=" + strMiss,
		Legal:       &chutils.LegalValues{},
		Missing:     strMiss,
	}
	fds[13] = fd

	fd = &chutils.FieldDef{
		Name:        "appEth",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "applicant ethnicity, 1-4, missing=" + fmt.Sprintf("%v", intMiss),
		Legal:       &chutils.LegalValues{LowLimit: ethMin, HighLimit: ethMax},
		Missing:     intMiss,
	}
	fds[14] = fd

	fd = &chutils.FieldDef{
		Name:        "coEth",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "co-applicant ethnicity, 1-5, missing=" + fmt.Sprintf("%v", intMiss),
		Legal:       &chutils.LegalValues{LowLimit: coEthMin, HighLimit: coEthMax},
		Missing:     intMiss,
	}
	fds[15] = fd

	fd = &chutils.FieldDef{
		Name:        "race1",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "applicant race 1, 1-6 (7=NA fails to missing), missing=" + fmt.Sprintf("%v", intMiss),
		Legal:       &chutils.LegalValues{LowLimit: raceMin, HighLimit: raceMax},
		Missing:     intMiss,
	}
	fds[16] = fd

	for j, nm := range []string{"race2", "race3", "race4", "race5"} {
		fds[17+j] = &chutils.FieldDef{
			Name:        nm,
			ChSpec:      chutils.ChField{Base: chutils.ChString},
			Description: "additional applicant race, usually blank",
			Legal:       &chutils.LegalValues{},
			Missing:     strMiss,
		}
	}

	for j, nm := range []string{"coRace1", "coRace2", "coRace3", "coRace4", "coRace5"} {
		fds[21+j] = &chutils.FieldDef{
			Name:        nm,
			ChSpec:      chutils.ChField{Base: chutils.ChString},
			Description: "co-applicant race",
			Legal:       &chutils.LegalValues{},
			Missing:     strMiss,
		}
	}

	fd = &chutils.FieldDef{
		Name:        "sex",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "applicant sex: 1(male), 2(female) (3/4 fail to missing), missing=" + fmt.Sprintf("%v", intMiss),
		Legal:       &chutils.LegalValues{LowLimit: sexMin, HighLimit: sexMax},
		Missing:     intMiss,
	}
	fds[26] = fd

	fd = &chutils.FieldDef{
		Name:        "coSex",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "co-applicant sex, 1-5, missing=" + fmt.Sprintf("%v", intMiss),
		Legal:       &chutils.LegalValues{LowLimit: coSexMin, HighLimit: coSexMax},
		Missing:     intMiss,
	}
	fds[27] = fd

	fd = &chutils.FieldDef{
		Name:        "income",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "applicant income in 000s, zero padded, NA fails to missing=" + fmt.Sprintf("%v", intMiss),
		Legal:       &chutils.LegalValues{LowLimit: incomeMin, HighLimit: incomeMax},
		Missing:     intMiss,
	}
	fds[28] = fd

	fd = &chutils.FieldDef{
		Name:        "purchaser",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "type of purchaser, 0-9, missing=" + fmt.Sprintf("%v", intMiss),
		Legal:       &chutils.LegalValues{LowLimit: purchMin, HighLimit: purchMax},
		Missing:     intMiss,
	}
	fds[29] = fd

	for j, nm := range []string{"denial1", "denial2", "denial3"} {
		fds[30+j] = &chutils.FieldDef{
			Name:        nm,
			ChSpec:      chutils.ChField{Base: chutils.ChString},
			Description: "denial reason, usually blank",
			Legal:       &chutils.LegalValues{},
			Missing:     strMiss,
		}
	}

	fd = &chutils.FieldDef{
		Name:        "spread",
		ChSpec:      chutils.ChField{Base: chutils.ChString},
		Description: "rate spread, NA below reporting threshold, missing=" + strMiss,
		Legal:       &chutils.LegalValues{},
		Missing:     strMiss,
	}
	fds[33] = fd

	fd = &chutils.FieldDef{
		Name:        "hoepa",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "HOEPA status: 1(subject), 2(not subject), missing=" + fmt.Sprintf("%v", intMiss),
		Legal:       &chutils.LegalValues{LowLimit: hoepaMin, HighLimit: hoepaMax},
		Missing:     intMiss,
	}
	fds[34] = fd

	fd = &chutils.FieldDef{
		Name:        "lien",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "lien status, 1-4, missing=" + fmt.Sprintf("%v", intMiss),
		Legal:       &chutils.LegalValues{LowLimit: lienMin, HighLimit: lienMax},
		Missing:     intMiss,
	}
	fds[35] = fd

	fd = &chutils.FieldDef{
		Name:        "edit",
		ChSpec:      chutils.ChField{Base: chutils.ChString},
		Description: "edit status, usually blank",
		Legal:       &chutils.LegalValues{},
		Missing:     strMiss,
	}
	fds[36] = fd

	fd = &chutils.FieldDef{
		Name:        "seqNum",
		ChSpec:      chutils.ChField{Base: chutils.ChString},
		Description: "sequence number within respondent",
		Legal:       &chutils.LegalValues{},
		Missing:     strMiss,
	}
	fds[37] = fd

	fd = &chutils.FieldDef{
		Name:        "pop",
		ChSpec:      chutils.ChField{Base: chutils.ChString},
		Description: "tract population (census append)",
		Legal:       &chutils.LegalValues{},
		Missing:     strMiss,
	}
	fds[38] = fd

	fd = &chutils.FieldDef{
		Name:        "minPct",
		ChSpec:      chutils.ChField{Base: chutils.ChString},
		Description: "tract minority population pct (census append)",
		Legal:       &chutils.LegalValues{},
		Missing:     strMiss,
	}
	fds[39] = fd

	fd = &chutils.FieldDef{
		Name:        "medInc",
		ChSpec:      chutils.ChField{Base: chutils.ChInt, Length: 32},
		Description: "HUD median family income, currency units, missing=" + fmt.Sprintf("%v", intMiss),
		Legal:       &chutils.LegalValues{LowLimit: medIncMin, HighLimit: medIncMax},
		Missing:     intMiss,
	}
	fds[40] = fd

	fd = &chutils.FieldDef{
		Name:        "tractMsaInc",
		ChSpec:      chutils.ChField{Base: chutils.ChString},
		Description: "tract to MSA income ratio (census append)",
		Legal:       &chutils.LegalValues{},
		Missing:     strMiss,
	}
	fds[41] = fd

	fd = &chutils.FieldDef{
		Name:        "ownerUnits",
		ChSpec:      chutils.ChField{Base: chutils.ChString},
		Description: "owner occupied units in tract (census append)",
		Legal:       &chutils.LegalValues{},
		Missing:     strMiss,
	}
	fds[42] = fd

	fd = &chutils.FieldDef{
		Name:        "units14",
		ChSpec:      chutils.ChField{Base: chutils.ChString},
		Description: "1-4 family units in tract (census append)",
		Legal:       &chutils.LegalValues{},
		Missing:     strMiss,
	}
	fds[43] = fd

	fd = &chutils.FieldDef{
		Name:        "appDtInd",
		ChSpec:      chutils.ChField{Base: chutils.ChString},
		Description: "application date indicator",
		Legal:       &chutils.LegalValues{},
		Missing:     strMiss,
	}
	fds[44] = fd

	return chutils.NewTableDef("seqNum", chutils.MergeTree, fds)
}
