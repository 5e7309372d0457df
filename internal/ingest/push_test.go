package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPushDropsUploadsDiscoveredFiles(t *testing.T) {
	dir := t.TempDir()
	writeDropFile(t, dir, "companies.csv", "u3_company_number\n4242\n")
	writeDropFile(t, dir, "risk_indicators.parquet", "not a real drop, content is opaque here")
	writeDropFile(t, dir, "README.md", "ignored")

	store := newFakeObjectStore()
	pushed, err := PushDrops(context.Background(), store, dir, nil)
	if err != nil {
		t.Fatalf("PushDrops() error = %v", err)
	}
	if len(pushed) != 2 {
		t.Fatalf("pushed %d objects, want 2", len(pushed))
	}
	if store.putKeys[0] != "drops/companies/companies.csv" {
		t.Fatalf("first key = %q", store.putKeys[0])
	}
	if store.putKeys[1] != "drops/risk_indicators/risk_indicators.parquet" {
		t.Fatalf("second key = %q", store.putKeys[1])
	}
	if ct := store.types["drops/companies/companies.csv"]; ct != "text/csv" {
		t.Fatalf("csv content type = %q", ct)
	}
	if ct := store.types["drops/risk_indicators/risk_indicators.parquet"]; ct != "application/octet-stream" {
		t.Fatalf("parquet content type = %q", ct)
	}
}

func TestPushDropsRejectsUnknownDataset(t *testing.T) {
	dir := t.TempDir()
	writeDropFile(t, dir, "companies.csv", "u3_company_number\n")

	_, err := PushDrops(context.Background(), newFakeObjectStore(), dir, []string{"sharks"})
	if err == nil || !strings.Contains(err.Error(), "unknown dataset") {
		t.Fatalf("expected unknown dataset error, got %v", err)
	}
}

func TestPushDropsReportsMissingDrop(t *testing.T) {
	_, err := PushDrops(context.Background(), newFakeObjectStore(), t.TempDir(), []string{"macro_fx"})
	if !errors.Is(err, ErrNoDrop) {
		t.Fatalf("expected ErrNoDrop, got %v", err)
	}
}

func TestPushDropsRequiresDropsWhenDiscovering(t *testing.T) {
	_, err := PushDrops(context.Background(), newFakeObjectStore(), t.TempDir(), nil)
	if err == nil || !strings.Contains(err.Error(), "no drop files") {
		t.Fatalf("expected no-drops error, got %v", err)
	}
}

func writeDropFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", name, err)
	}
}
