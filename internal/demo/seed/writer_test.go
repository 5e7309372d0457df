package seed

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/creditbench/creditbench/internal/ingest"
)

func TestWriteFilesProducesDiscoverableDrops(t *testing.T) {
	cfg := Config{Seed: 11, Companies: 6, RiskMonths: 3, MacroMonths: 4}
	data, err := NewGenerator(cfg).Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	dir := t.TempDir()
	written, err := data.WriteFiles(dir)
	if err != nil {
		t.Fatalf("WriteFiles() error = %v", err)
	}
	if len(written) != 8 {
		t.Fatalf("wrote %d files, want 8", len(written))
	}

	source, err := ingest.NewDirSource(dir)
	if err != nil {
		t.Fatalf("NewDirSource() error = %v", err)
	}
	names, err := source.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	discovered := map[string]bool{}
	for _, name := range names {
		discovered[name] = true
	}
	for _, ds := range ingest.All() {
		if !discovered[ds.Name] {
			t.Fatalf("dataset %s not discoverable, got %v", ds.Name, names)
		}
	}
}

func TestWriteFilesCompaniesRoundTrip(t *testing.T) {
	data, err := NewGenerator(Config{Seed: 3, Companies: 5, RiskMonths: 2, MacroMonths: 2}).Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	dir := t.TempDir()
	if _, err := data.WriteFiles(dir); err != nil {
		t.Fatalf("WriteFiles() error = %v", err)
	}

	file, err := os.Open(filepath.Join(dir, "companies.csv"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = file.Close() }()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(records) != len(data.Companies)+1 {
		t.Fatalf("rows = %d, want %d", len(records), len(data.Companies)+1)
	}
	ds, ok := ingest.ByName("companies")
	if !ok {
		t.Fatal("companies dataset not registered")
	}
	columns := ds.Columns()
	if len(records[0]) != len(columns) {
		t.Fatalf("header width = %d, want %d", len(records[0]), len(columns))
	}
	for i, column := range columns {
		if records[0][i] != column {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], column)
		}
	}
}

func TestWriteFilesRiskParquetDecodes(t *testing.T) {
	data, err := NewGenerator(Config{Seed: 9, Companies: 4, RiskMonths: 3, MacroMonths: 2}).Generate()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	dir := t.TempDir()
	if _, err := data.WriteFiles(dir); err != nil {
		t.Fatalf("WriteFiles() error = %v", err)
	}

	file, err := os.Open(filepath.Join(dir, "risk_indicators.parquet"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = file.Close() }()

	ds, ok := ingest.ByName("risk_indicators")
	if !ok {
		t.Fatal("risk_indicators dataset not registered")
	}
	rows, err := ds.DecodeParquet(file)
	if err != nil {
		t.Fatalf("DecodeParquet() error = %v", err)
	}
	if len(rows) != len(data.RiskIndicators) {
		t.Fatalf("decoded %d rows, want %d", len(rows), len(data.RiskIndicators))
	}
	if got := rows[0][0].(int64); got != data.RiskIndicators[0].CompanyNumber/1000 {
		t.Fatalf("company number = %d, want %d", got, data.RiskIndicators[0].CompanyNumber/1000)
	}
}
