package storage

import (
	"testing"
)

func TestBuildDropPath(t *testing.T) {
	key, err := BuildDropPath("risk_indicators", "risk_indicators.csv")
	if err != nil {
		t.Fatalf("BuildDropPath() error = %v", err)
	}
	want := "drops/risk_indicators/risk_indicators.csv"
	if key != want {
		t.Fatalf("BuildDropPath() = %q, want %q", key, want)
	}
}

func TestParseDropPathRoundTrip(t *testing.T) {
	key, err := BuildDropPath("companies", "companies-2024Q2.parquet")
	if err != nil {
		t.Fatalf("BuildDropPath() error = %v", err)
	}
	dataset, fileName, err := ParseDropPath(key)
	if err != nil {
		t.Fatalf("ParseDropPath() error = %v", err)
	}
	if dataset != "companies" || fileName != "companies-2024Q2.parquet" {
		t.Fatalf("ParseDropPath() = %q/%q", dataset, fileName)
	}
}

func TestParseDropPathRejectsForeignKeys(t *testing.T) {
	for _, key := range []string{
		"seeds/companies/companies.csv",
		"drops/companies",
		"drops/companies/nested/file.csv",
		"drops/../companies/file.csv",
	} {
		if _, _, err := ParseDropPath(key); err == nil {
			t.Fatalf("ParseDropPath(%q) expected error", key)
		}
	}
}

func TestBuildDropPathRejectsInvalidComponent(t *testing.T) {
	if _, err := BuildDropPath("../oops", "file.csv"); err == nil {
		t.Fatal("expected invalid component error")
	}
	if _, err := BuildDropPath("companies", "a/b.csv"); err == nil {
		t.Fatal("expected invalid file name error")
	}
}
