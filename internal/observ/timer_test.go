package observ

import (
	"strings"
	"sync"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("decode")
	tm.End(idx, "2 funcs")
	tm.End(42, "ignored")

	r := tm.Report()
	if len(r.Phases) != 1 {
		t.Fatalf("Expected 1 phase, got %d", len(r.Phases))
	}
	if r.Phases[0].Name != "decode" || r.Phases[0].Note != "2 funcs" {
		t.Errorf("Unexpected phase %+v", r.Phases[0])
	}
	if !strings.Contains(tm.Summary(), "// 2 funcs") {
		t.Errorf("Expected note in summary, got %q", tm.Summary())
	}
}

func TestTimerConcurrent(t *testing.T) {
	tm := NewTimer()
	var wg sync.WaitGroup
	for n := 0; n < 8; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.End(tm.Begin("emit"), "")
		}()
	}
	wg.Wait()
	if got := len(tm.Report().Phases); got != 8 {
		t.Errorf("Expected 8 phases, got %d", got)
	}
}

func TestTimerEmptyReport(t *testing.T) {
	if r := NewTimer().Report(); r.TotalMS != 0 || r.Phases != nil {
		t.Errorf("Expected zero report, got %+v", r)
	}
}

func TestReportSummaryAligns(t *testing.T) {
	r := Report{
		TotalMS: 3,
		WallMS:  2,
		Phases: []PhaseReport{
			{Name: "emit 加算", DurationMS: 1},
			{Name: "emit max", DurationMS: 2, Note: "ok"},
		},
	}
	lines := strings.Split(strings.TrimSuffix(r.Summary(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("Expected header, 2 phases, total and wall, got %q", lines)
	}
	col := strings.Index(lines[2], " ms")
	if col < 0 || strings.Index(lines[3], " ms") != col || strings.Index(lines[4], " ms") != col {
		t.Errorf("Expected aligned ms columns:\n%s", r.Summary())
	}
	if strings.Index(lines[1], " ms") != col+len("加算")-runewidth.StringWidth("加算") {
		t.Errorf("Expected the wide name to pad by display width:\n%s", r.Summary())
	}
}
