package scrape

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleLog = `class DSEConfig(
  rows = 4,
  cols = 4,
  depth = 16,
)
extra line
icc_shell> redirect -file $REPORTS_DIR/$ICC_CHIP_FINISH_CEL.area.rpt {report_area -nosplit -hierarchy}
Combinational area:               1234.5
Buf/Inv area:                      210.25
Noncombinational area:            5000.0
Net Interconnect area:             333.3
Total cell area:                  6234.5
Total area:                       6567.8
Hierarchical area distribution
Combinational area:               9999.9
****************************************
Report : power
        -analysis_effort low
Design : top
Version: J-2014.09
Date   : ICC run
****************************************
                                      Switch   Int      Leak     Total
Hierarchy                              Power    Power    Power    Power    %
--------------------------------------------------------------------------------
top                                    1.0e-02  2.0e-02  3.0e-03  3.3e-02 100.0
  core (Core)                          5.0e-03  1.0e-02  1.0e-03  1.6e-02  48.5
    alu (ALU)                          1.0e-03  2.0e-03  2.0e-04  3.2e-03   9.7
    regs (Regs)                        2.0e-03  3.0e-03  3.0e-04  5.3e-03  16.1
  mem (Mem)                            4.0e-03  9.0e-03  1.5e-03  1.4e-02  43.9
1
  Point                                    Incr       Path
  clock clk (rise edge)                    0.00       0.00
  data arrival time                                   4.80
  clock clk (rise edge)                    5.00       5.00
  slack (MET)                                         0.20
  Point                                    Incr       Path
  clock clk (rise edge)                    0.00       0.00
  data arrival time                                   5.30
  clock clk (rise edge)                    5.00       5.00
  slack (VIOLATED)                                   -0.30
`

func TestParse(t *testing.T) {
	r, err := Parse(strings.NewReader(sampleLog))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if !strings.HasPrefix(r.Config, "class DSEConfig(") || strings.Count(r.Config, "\n") != 5 {
		t.Errorf("Config = %q", r.Config)
	}

	wantArea := map[string]string{
		"Combinational area":    "1234.5",
		"Buf/Inv area":          "210.25",
		"Noncombinational area": "5000.0",
		"Net Interconnect area": "333.3",
		"Total cell area":       "6234.5",
		"Total area":            "6567.8",
	}
	for k, v := range wantArea {
		if r.Area[k] != v {
			t.Errorf("Area[%s] = %q, want %q", k, r.Area[k], v)
		}
	}

	if r.Power == nil {
		t.Fatal("no power tree")
	}
	if r.Power.Name != "top" || r.Power.Total != "3.3e-02" || r.Power.Percent != "100.0" {
		t.Errorf("top = %+v", r.Power)
	}
	if len(r.Power.Sub) != 2 || r.Power.Sub[0].Name != "core" || r.Power.Sub[1].Name != "mem" {
		t.Fatalf("children = %+v", r.Power.Sub)
	}
	core := r.Power.Sub[0]
	if len(core.Sub) != 2 || core.Sub[1].Name != "regs" || core.Sub[1].Leak != "3.0e-04" {
		t.Errorf("core children = %+v", core.Sub)
	}

	if r.Clock == nil {
		t.Fatal("no clock")
	}
	if math.Abs(*r.Clock-5.30) > 1e-9 {
		t.Errorf("Clock = %v, want 5.30", *r.Clock)
	}
}

func TestParseNoTiming(t *testing.T) {
	r, err := Parse(strings.NewReader("nothing to see\n"))
	if err != nil {
		t.Fatal(err)
	}
	if r.Clock != nil || r.Power != nil || len(r.Area) != 0 || r.Config != "" {
		t.Fatalf("got %+v", r)
	}
}

func TestParseBadSlack(t *testing.T) {
	if _, err := Parse(strings.NewReader("slack (MET) abc\n")); err == nil {
		t.Fatal("accepted a non-numeric slack")
	}
}

func TestPowerIgnoredWithoutICC(t *testing.T) {
	log := strings.Replace(sampleLog, "ICC run", "PT run", 1)
	r, err := Parse(strings.NewReader(log))
	if err != nil {
		t.Fatal(err)
	}
	if r.Power != nil {
		t.Fatal("power parsed from a non-ICC report")
	}
}

func TestDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "b.log"), []byte(sampleLog), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.log"), []byte("Total area: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	reports, err := Dir(dir)
	if err != nil {
		t.Fatalf("Dir: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("got %d reports", len(reports))
	}
	if reports["b.log"].Clock == nil {
		t.Error("b.log has no clock")
	}
	if len(reports["a.log"].Area) != 0 {
		t.Error("area read outside the area report")
	}
}
