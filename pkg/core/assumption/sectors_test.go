package assumption

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSectorFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sectors.hjson")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSectorMultiples(t *testing.T) {
	path := writeSectorFile(t, `{
  # startup-mode Price/Sales by sector
  Technology: 8.0
  "Consumer Cyclical": 2.5
}`)

	sectors, err := LoadSectorMultiples(path, 5.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sectors.Count() != 2 {
		t.Errorf("expected 2 sectors, got %d", sectors.Count())
	}
	if m := sectors.Multiple("Technology"); m != 8.0 {
		t.Errorf("expected 8.0, got %f", m)
	}
	// Case-insensitive, whitespace tolerant
	if m := sectors.Multiple("  consumer cyclical "); m != 2.5 {
		t.Errorf("expected 2.5, got %f", m)
	}
	// Unknown sector falls back
	if m := sectors.Multiple("Shipping"); m != 5.0 {
		t.Errorf("expected fallback 5.0, got %f", m)
	}
	if m := sectors.Multiple(""); m != 5.0 {
		t.Errorf("expected fallback for empty sector, got %f", m)
	}
}

func TestLoadSectorMultiplesRejectsNonNumbers(t *testing.T) {
	path := writeSectorFile(t, `{ Technology: high }`)
	if _, err := LoadSectorMultiples(path, 5.0); err == nil {
		t.Fatal("expected error for non-numeric multiple")
	}
}

func TestLoadSectorMultiplesRejectsNonPositive(t *testing.T) {
	path := writeSectorFile(t, `{ Technology: -1.0 }`)
	if _, err := LoadSectorMultiples(path, 5.0); err == nil {
		t.Fatal("expected error for negative multiple")
	}
}

func TestDefaultSectorMultiples(t *testing.T) {
	sectors := DefaultSectorMultiples(5.0)
	if m := sectors.Multiple("Anything"); m != 5.0 {
		t.Errorf("expected fallback 5.0, got %f", m)
	}
}

func TestStandardSetConstants(t *testing.T) {
	set := Standard()
	if set.RiskFreeRate != 0.042 || set.EquityRiskPremium != 0.05 || set.PreTaxCostOfDebt != 0.045 {
		t.Errorf("rate constants drifted: %+v", set)
	}
	if set.ReinvestmentRate != 0.25 || set.LongRunGrowth != 0.04 {
		t.Errorf("projection constants drifted: %+v", set)
	}
	if set.StartupAgeCutoff != 15 || set.DefaultCompanyAge != 5 {
		t.Errorf("age constants drifted: %+v", set)
	}
}
