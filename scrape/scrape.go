// Package scrape pulls area, power and timing figures out of EDA tool logs.
package scrape

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	c "Jackhammer/common"

	"github.com/sirupsen/logrus"
)

const (
	areaStart   = "redirect -file $REPORTS_DIR/$ICC_CHIP_FINISH_CEL.area.rpt {report_area -nosplit -hierarchy}"
	areaEnd     = "Hierarchical area distribution"
	powerReport = "Report : power"
	powerTool   = "ICC"
	powerHeader = "Hierarchy                              Power    Power    Power    Power    %"
	powerEnd    = "1"
	configStart = "class DSEConfig"
	slackMarker = "slack ("
	clockMarker = "clock clk (rise edge)"
	pathHeader  = "Point               "

	configLines = 5
)

var AreaLabels = []string{
	"Combinational area",
	"Buf/Inv area",
	"Noncombinational area",
	"Net Interconnect area",
	"Total cell area",
	"Total area",
}

// PowerRow is one line of the hierarchical power report.
type PowerRow struct {
	Name    string      `yaml:"name" json:"name"`
	Switch  string      `yaml:"switch" json:"switch"`
	Int     string      `yaml:"int" json:"int"`
	Leak    string      `yaml:"leak" json:"leak"`
	Total   string      `yaml:"total" json:"total"`
	Percent string      `yaml:"percent" json:"percent"`
	Sub     []*PowerRow `yaml:"sub,omitempty" json:"sub,omitempty"`
}

// Report holds what was found in one log. Missing sections stay empty.
type Report struct {
	Config string            `yaml:"config,omitempty" json:"config,omitempty"`
	Area   map[string]string `yaml:"area,omitempty" json:"area,omitempty"`
	Power  *PowerRow         `yaml:"power,omitempty" json:"power,omitempty"`
	// Clock is the achievable clock period: the target rising edge minus the
	// worst slack.
	Clock *float64 `yaml:"clock,omitempty" json:"clock,omitempty"`
}

func powerRow(line string) (*PowerRow, error) {
	f := strings.Fields(line)
	if len(f) < 6 {
		return nil, fmt.Errorf("power row %q has %d fields", line, len(f))
	}
	n := len(f)
	return &PowerRow{
		Name:    f[0],
		Switch:  f[n-5],
		Int:     f[n-4],
		Leak:    f[n-3],
		Total:   f[n-2],
		Percent: f[n-1],
	}, nil
}

// indentedBy reports whether line starts with exactly n spaces.
func indentedBy(line string, n int) bool {
	return strings.HasPrefix(line, strings.Repeat(" ", n)) && !strings.HasPrefix(line, strings.Repeat(" ", n+1))
}

// parsePower reads the tree whose header is at lines[header]. The top row
// sits two lines below; children are indented two spaces, grandchildren four.
func parsePower(lines []string, header int) (*PowerRow, error) {
	start := header + 2
	if start >= len(lines) {
		return nil, fmt.Errorf("power report ends after header")
	}
	top, err := powerRow(lines[start])
	if err != nil {
		return nil, err
	}
	for _, line := range lines[start+1:] {
		if line == powerEnd {
			break
		}
		switch {
		case indentedBy(line, 2):
			row, err := powerRow(line)
			if err != nil {
				return nil, err
			}
			top.Sub = append(top.Sub, row)
		case indentedBy(line, 4):
			if len(top.Sub) == 0 {
				continue
			}
			row, err := powerRow(line)
			if err != nil {
				return nil, err
			}
			parent := top.Sub[len(top.Sub)-1]
			parent.Sub = append(parent.Sub, row)
		}
	}
	return top, nil
}

func lastField(line string) string {
	f := strings.Fields(line)
	if len(f) == 0 {
		return ""
	}
	return f[len(f)-1]
}

// Lines scrapes a log already split into lines without terminators.
func Lines(lines []string) (*Report, error) {
	r := &Report{Area: map[string]string{}}
	readyForArea, readyForPower := false, false
	var slacks []string

	for x, line := range lines {
		if strings.Contains(line, areaStart) {
			readyForArea = true
		}
		if strings.Contains(line, areaEnd) {
			logrus.Debugf("%s: area section ends at line %d", c.CurFuncName(), x+1)
			readyForArea = false
		}
		if strings.Contains(line, powerReport) && x+4 < len(lines) && strings.Contains(lines[x+4], powerTool) {
			readyForPower = true
		}

		if strings.Contains(line, configStart) {
			end := min(x+configLines, len(lines))
			r.Config = strings.Join(lines[x:end], "\n") + "\n"
		}

		if readyForArea {
			for _, label := range AreaLabels {
				if strings.Contains(line, label) {
					parts := strings.Split(strings.TrimSpace(line), " ")
					r.Area[label] = parts[len(parts)-1]
				}
			}
		}

		if readyForPower && strings.Contains(line, powerHeader) {
			power, err := parsePower(lines, x)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", x+1, err)
			}
			r.Power = power
		}

		if strings.Contains(line, slackMarker) {
			slacks = append(slacks, lastField(line))
		}
	}

	if len(slacks) == 0 {
		return r, nil
	}
	worst := 0
	var worstVal float64
	for i, s := range slacks {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("slack %q: %w", s, err)
		}
		if i == 0 || v < worstVal {
			worst, worstVal = i, v
		}
	}

	// walk back from the end: the clock is the last rising edge seen before
	// reaching the header of the critical path
	var clock string
	pathEnd := false
	for x := len(lines) - 1; x >= 0; x-- {
		line := lines[x]
		if strings.Contains(line, slacks[worst]) && strings.Contains(line, slackMarker) {
			pathEnd = true
		}
		if pathEnd && strings.Contains(line, pathHeader) {
			break
		}
		if clock == "" && strings.Contains(line, clockMarker) {
			clock = lastField(line)
		}
	}
	if clock == "" {
		logrus.Warnf("%s: found %d slack lines but no clock edge", c.CurFuncName(), len(slacks))
		return r, nil
	}
	edge, err := strconv.ParseFloat(clock, 64)
	if err != nil {
		return nil, fmt.Errorf("clock edge %q: %w", clock, err)
	}
	period := edge - worstVal
	r.Clock = &period
	return r, nil
}

// Parse scrapes a log from r.
func Parse(rd io.Reader) (*Report, error) {
	var lines []string
	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return Lines(lines)
}

func File(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Dir scrapes every regular file in dir, keyed by file name.
func Dir(dir string) (map[string]*Report, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	reports := make(map[string]*Report)
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		r, err := File(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		logrus.Infof("%s: scraped %s", c.CurFuncName(), e.Name())
		reports[e.Name()] = r
	}
	return reports, nil
}
