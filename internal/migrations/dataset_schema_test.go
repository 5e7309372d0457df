package migrations

import (
	"strings"
	"testing"
)

func TestDatasetMigrationsContainRequiredTablesAndIndexes(t *testing.T) {
	cases := []struct {
		file     string
		snippets []string
	}{
		{
			file: "sql/000001_companies.up.sql",
			snippets: []string{
				"CREATE TABLE industry_mapping",
				"CREATE UNIQUE INDEX idx_industry_mapping_subgroup_num",
				"CREATE TABLE companies",
				"u3_company_number INTEGER PRIMARY KEY",
				"CREATE INDEX idx_companies_ticker",
				"CREATE INDEX idx_companies_ticker_status",
			},
		},
		{
			file: "sql/000002_credit_events.up.sql",
			snippets: []string{
				"CREATE TABLE credit_events",
				"REFERENCES companies (u3_company_number)",
				"CREATE INDEX idx_credit_events_date_type",
				"CREATE INDEX idx_credit_events_action",
			},
		},
		{
			file: "sql/000003_risk_indicators.up.sql",
			snippets: []string{
				"CREATE TABLE risk_indicators",
				"dtd DOUBLE PRECISION",
				"CREATE INDEX idx_risk_indicators_company_period",
			},
		},
		{
			file: "sql/000004_macro.up.sql",
			snippets: []string{
				"CREATE TABLE macro_commodities",
				"kansas_financial_stress DOUBLE PRECISION",
				"CREATE TABLE macro_bond_yields",
				"data_date DATE PRIMARY KEY",
				"CREATE TABLE macro_us",
				"CREATE TABLE macro_fx",
			},
		},
	}

	for _, tc := range cases {
		body, err := embeddedFS.ReadFile(tc.file)
		if err != nil {
			t.Fatalf("ReadFile(%s) error = %v", tc.file, err)
		}
		script := string(body)
		for _, snippet := range tc.snippets {
			if !strings.Contains(script, snippet) {
				t.Fatalf("%s missing required snippet: %s", tc.file, snippet)
			}
		}
	}
}

func TestEveryUpMigrationHasDown(t *testing.T) {
	items, err := loadMigrations(embeddedFS)
	if err != nil {
		t.Fatalf("loadMigrations() error = %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("len(items) = %d, want 4", len(items))
	}
	for _, item := range items {
		if strings.TrimSpace(item.DownSQL) == "" {
			t.Fatalf("migration %d %s has no down SQL", item.Version, item.Name)
		}
		if !strings.Contains(item.DownSQL, "DROP TABLE") {
			t.Fatalf("migration %d down SQL does not drop tables: %s", item.Version, item.DownSQL)
		}
	}
}
