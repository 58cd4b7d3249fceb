// Command preview runs the validation-and-merge pipeline over local CSV files
// and prints the canonical dataset, for inspecting feed snapshots without
// touching the store or the network.
//
// Usage:
//
//	go run ./cmd/preview \
//	  -cases-deaths testdata/us.csv \
//	  -recovered testdata/combined.csv \
//	  -country US \
//	  [-out merged.csv]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/couchcryptid/covid-data-etl/internal/adapter/export"
	"github.com/couchcryptid/covid-data-etl/internal/adapter/feed"
	"github.com/couchcryptid/covid-data-etl/internal/domain"
	"github.com/couchcryptid/covid-data-etl/internal/pipeline"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "preview:", err)
		os.Exit(1)
	}
}

func run() error {
	casesPath := flag.String("cases-deaths", "", "path to the cases/deaths CSV (NYT us.csv layout)")
	recoveredPath := flag.String("recovered", "", "path to the multi-country recovered CSV (Johns Hopkins layout)")
	country := flag.String("country", "US", "target country for the recovered feed filter")
	out := flag.String("out", "", "optional path to also write the merged CSV artifact")
	flag.Parse()

	if *casesPath == "" || *recoveredPath == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -cases-deaths, -recovered")
	}

	first, err := readDataset(domain.SourceNYT, *casesPath)
	if err != nil {
		return err
	}
	second, err := readDataset(domain.SourceJH, *recoveredPath)
	if err != nil {
		return err
	}

	merged, err := pipeline.BuildDataset(first, second, *country)
	if err != nil {
		return err
	}

	fmt.Printf("%-12s %10s %10s %10s\n", "date", "cases", "deaths", "recovered")
	for _, record := range merged {
		fmt.Printf("%-12s %10d %10d %10d\n",
			record.Date.Format(domain.DateLayout),
			record.Cases, record.Deaths, record.Recovered,
		)
	}
	fmt.Printf("%d rows merged\n", len(merged))

	if *out != "" {
		writer := export.NewWriter(*out, slog.Default())
		if err := writer.Export(context.Background(), merged); err != nil {
			return err
		}
	}
	return nil
}

func readDataset(source domain.SourceID, path string) (*domain.RawDataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return feed.ParseCSV(source, f)
}
