// Command hmda runs the denial-disparity pipeline over a sampled 2008 LAR
// file: load/clean, outlier filter, geographic aggregation, and the two
// logistic regressions (income z-score; race indicators).
package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/invertedv/chutils"

	"github.com/invertedv/hmda/collapse"
	"github.com/invertedv/hmda/geo"
	"github.com/invertedv/hmda/model"
	"github.com/invertedv/hmda/outlier"
	"github.com/invertedv/hmda/raw"
)

func main() {
	srcFile := flag.String("file", "", "string")
	geoLevel := flag.String("geo", "county", "string")
	namesFile := flag.String("names", "", "string")
	outDir := flag.String("out", ".", "string")
	host := flag.String("host", "127.0.0.1", "string")
	user := flag.String("user", "default", "string")
	password := flag.String("password", "", "string")
	table := flag.String("table", "", "string")
	nConcur := flag.Int("concur", 1, "int")

	flag.Parse()

	if *srcFile == "" {
		log.Fatalln("-file is required")
	}
	level, err := collapse.ParseLevel(*geoLevel)
	if err != nil {
		log.Fatalln(err)
	}

	s := time.Now()
	loans, drops, err := raw.Load(*srcFile)
	if err != nil {
		log.Fatalln(err)
	}
	fmt.Printf("load: %v\n%s", time.Since(s), drops)

	// optional: push the cleaned, derived table to ClickHouse
	if *table != "" {
		con, e := chutils.NewConnect(*host, *user, *password, clickhouse.Settings{})
		if e != nil {
			log.Fatalln(e)
		}
		defer func() {
			if e := con.Close(); e != nil {
				log.Fatalln(e)
			}
		}()
		s = time.Now()
		if e := raw.Save(*srcFile, *table, true, *nConcur, con); e != nil {
			log.Fatalln(e)
		}
		fmt.Printf("saved cleaned table %s in %v\n", *table, time.Since(s))
	}

	s = time.Now()
	res := outlier.Filter(loans)
	fmt.Printf("outlier filter: %v\n%s", time.Since(s), res)

	aggs := collapse.GroupBy(res.Kept, level)
	fmt.Printf("aggregated %d records into %d %s rows\n", len(res.Kept), len(aggs), *geoLevel)

	tbl, err := geo.Table(aggs)
	if err != nil {
		log.Fatalln(err)
	}
	if *namesFile != "" {
		names, e := geo.LoadNames(*namesFile)
		if e != nil {
			log.Fatalln(e)
		}
		tbl = geo.Merge(tbl, names)
	}
	if e := geo.WriteCSV(tbl, filepath.Join(*outDir, "aggregates.csv")); e != nil {
		log.Fatalln(e)
	}
	for _, col := range []string{"meanAmt", "meanRatio", "denialRate"} {
		if e := geo.WriteValueCSV(tbl, col, filepath.Join(*outDir, col+".csv")); e != nil {
			log.Fatalln(e)
		}
	}

	// model failures report and skip; they do not abort the run
	_, zIncome := outlier.ZScores(res.Kept)
	if m, e := model.IncomeModel(res.Kept, zIncome); e != nil {
		fmt.Printf("income model: %v\n", e)
	} else {
		fmt.Printf("\ndenial vs income z-score\n%s", m)
		fmt.Printf("predicted denial probability by z:\n")
		for z := -2.0; z <= 2.0; z += 1.0 {
			fmt.Printf("  z=%+.0f  p=%.4f\n", z, m.DenialProb(z))
		}
	}
	if m, e := model.RaceModel(res.Kept); e != nil {
		fmt.Printf("race model: %v\n", e)
	} else {
		fmt.Printf("\ndenial vs race (baseline White)\n%s", m)
	}
}
