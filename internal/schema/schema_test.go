package schema

import (
	"strings"
	"testing"
)

func TestDefaultDescriptorCoversAllTables(t *testing.T) {
	d := Default()
	if d.Version == "" {
		t.Fatal("Version is empty")
	}
	if len(d.Tables) != 8 {
		t.Fatalf("len(Tables) = %d, want 8", len(d.Tables))
	}
	for _, table := range d.Tables {
		if len(table.Columns) == 0 {
			t.Fatalf("table %q has no columns", table.Name)
		}
		if !strings.Contains(d.Text, "Table: "+table.Name) {
			t.Fatalf("descriptor text missing table %q", table.Name)
		}
	}
}

func TestDefaultDescriptorNamesRiskMetric(t *testing.T) {
	d := Default()
	if !strings.Contains(d.Text, "Distance-to-Default") {
		t.Fatal("descriptor text missing Distance-to-Default note")
	}
	if !strings.Contains(d.Text, "Lower dtd = higher default risk") {
		t.Fatal("descriptor text missing dtd direction note")
	}
}
