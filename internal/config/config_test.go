package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"caiso-reports/internal/oasis"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "caiso.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
oasis:
  node: MUSTANGS_2_B1
  start_date: 2018-01-01
  end_date: 2018-02-28
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if c.Timezone != "America/Los_Angeles" {
		t.Errorf("Timezone = %q", c.Timezone)
	}
	if c.Delay != 5*time.Second {
		t.Errorf("Delay = %v, want 5s", c.Delay)
	}
	if c.HTTPTimeout != 0 {
		t.Errorf("HTTPTimeout = %v, want 0", c.HTTPTimeout)
	}
	if c.OASIS.Query != oasis.PRCLMP || c.OASIS.StartDate != "2018-01-01" {
		t.Errorf("OASIS = %+v", c.OASIS)
	}
	if c.Renewables.BreakdownOut != "Renewable_Breakdown.csv" || c.Renewables.ResourceOut != "GenByResource.csv" {
		t.Errorf("Renewables = %+v", c.Renewables)
	}
}

func TestLoadExplicitValues(t *testing.T) {
	path := writeConfig(t, `
timezone: America/New_York
delay: 0s
http_timeout: 30s
fail_fast: true
output_dir: results
renewables:
  start_date: 2018-01-01
  end_date: 2018-01-31
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if c.Delay != 0 || c.HTTPTimeout != 30*time.Second || !c.FailFast || c.Timezone != "America/New_York" {
		t.Errorf("config = %+v", c)
	}
	start, end, err := c.RenewablesRange()
	if err != nil {
		t.Fatalf("RenewablesRange error: %v", err)
	}
	if start.Day() != 1 || end.Day() != 31 {
		t.Errorf("range = %v..%v", start, end)
	}
	if got := c.OutputPath("GenByResource.csv"); got != filepath.Join("results", "GenByResource.csv") {
		t.Errorf("OutputPath = %q", got)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad timezone", "timezone: Mars/Olympus\n", "timezone"},
		{"negative delay", "delay: -1s\n", "delay"},
		{"bad date", "oasis:\n  start_date: 01/01/2018\n", "oasis.start_date"},
		{"reversed", "renewables:\n  start_date: 2018-02-01\n  end_date: 2018-01-01\n", "before"},
		{"unknown query", "oasis:\n  query: PRC_FOO\n", "oasis.query"},
	}
	for _, tt := range tests {
		_, err := Load(writeConfig(t, tt.body))
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: error %q does not mention %q", tt.name, err, tt.want)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRangesRequireBothDates(t *testing.T) {
	c := Default()
	c.OASIS.StartDate = "2018-01-01"
	if _, _, err := c.OASISRange(); err == nil {
		t.Error("expected error without end_date")
	}
}

func TestOASISOutPath(t *testing.T) {
	lmp, _ := oasis.Lookup(oasis.PRCLMP)
	as, _ := oasis.Lookup(oasis.PRCAS)

	c := Default()
	c.OASIS.Node = "MUSTANGS_2_B1"
	if got := c.OASISOutPath(lmp); got != "MUSTANGS_2_B1_DAM_PRC_LMP.csv" {
		t.Errorf("OASISOutPath = %q", got)
	}
	if got := c.OASISOutPath(as); got != "DAM_PRC_AS.csv" {
		t.Errorf("OASISOutPath(PRC_AS) = %q", got)
	}
	c.OASIS.Out = "/tmp/lmp.xlsx"
	c.OutputDir = "results"
	if got := c.OASISOutPath(lmp); got != "/tmp/lmp.xlsx" {
		t.Errorf("absolute out = %q", got)
	}
}

func TestMergeOverrides(t *testing.T) {
	base := *Default()
	base.OASIS.Node = "MUSTANGS_2_B1"
	base.OASIS.StartDate = "2018-01-01"

	out := MergeOverrides(base, Config{
		Delay: 2 * time.Second,
		OASIS: OASISConfig{Query: oasis.PRCAS, EndDate: "2018-03-31"},
	})
	if out.Delay != 2*time.Second {
		t.Errorf("Delay = %v", out.Delay)
	}
	if out.OASIS.Query != oasis.PRCAS || out.OASIS.Node != "MUSTANGS_2_B1" {
		t.Errorf("OASIS = %+v", out.OASIS)
	}
	if out.OASIS.StartDate != "2018-01-01" || out.OASIS.EndDate != "2018-03-31" {
		t.Errorf("dates = %s..%s", out.OASIS.StartDate, out.OASIS.EndDate)
	}
	if out.Timezone != base.Timezone || out.FailFast {
		t.Errorf("unexpected change: %+v", out)
	}
}
