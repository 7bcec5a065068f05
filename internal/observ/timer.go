// Package observ times the phases of an irbuild run.
package observ

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-runewidth"
)

// Phase is one timed step of a run, such as emitting a plan. A phase that
// never ended has a zero End.
type Phase struct {
	Name  string
	Start time.Time
	End   time.Time
	Note  string
}

func (p Phase) duration() time.Duration {
	if p.End.IsZero() {
		return 0
	}
	return p.End.Sub(p.Start)
}

// Timer collects phases. Parallel plan runs share one Timer.
type Timer struct {
	mu     sync.Mutex
	phases []Phase
}

func NewTimer() *Timer { return &Timer{} }

// Begin starts a phase and returns its index for End.
func (t *Timer) Begin(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End finishes the phase at idx; unknown indices are ignored.
func (t *Timer) End(idx int, note string) {
	now := time.Now()
	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < 0 || idx >= len(t.phases) {
		return
	}
	t.phases[idx].End = now
	t.phases[idx].Note = note
}

// PhaseReport is the serializable form of a Phase. OffsetMS is measured
// from the start of the first phase.
type PhaseReport struct {
	Name       string  `json:"name" msgpack:"name"`
	OffsetMS   float64 `json:"offset_ms,omitempty" msgpack:"offset_ms,omitempty"`
	DurationMS float64 `json:"duration_ms" msgpack:"duration_ms"`
	Note       string  `json:"note,omitempty" msgpack:"note,omitempty"`
}

// Report aggregates all phases. TotalMS sums phase durations and exceeds
// WallMS when phases overlapped.
type Report struct {
	TotalMS float64       `json:"total_ms" msgpack:"total_ms"`
	WallMS  float64       `json:"wall_ms,omitempty" msgpack:"wall_ms,omitempty"`
	Phases  []PhaseReport `json:"phases" msgpack:"phases"`
}

func (t *Timer) Report() Report {
	t.mu.Lock()
	phases := append([]Phase(nil), t.phases...)
	t.mu.Unlock()

	if len(phases) == 0 {
		return Report{}
	}
	first, last := phases[0].Start, phases[0].Start
	var total time.Duration
	for _, p := range phases {
		if p.End.After(last) {
			last = p.End
		}
		total += p.duration()
	}
	r := Report{
		TotalMS: millis(total),
		WallMS:  millis(last.Sub(first)),
		Phases:  make([]PhaseReport, len(phases)),
	}
	for i, p := range phases {
		r.Phases[i] = PhaseReport{
			Name:       p.Name,
			OffsetMS:   millis(p.Start.Sub(first)),
			DurationMS: millis(p.duration()),
			Note:       p.Note,
		}
	}
	return r
}

// Summary renders the report as an aligned text table.
func (t *Timer) Summary() string { return t.Report().Summary() }

func (r Report) Summary() string {
	width := len("total")
	for _, p := range r.Phases {
		width = max(width, runewidth.StringWidth(p.Name))
	}
	var sb strings.Builder
	sb.WriteString("timings:\n")
	row := func(name string, ms float64, note string) {
		fmt.Fprintf(&sb, "  %s %8.2f ms", runewidth.FillRight(name, width), ms)
		if note != "" {
			sb.WriteString("  // " + note)
		}
		sb.WriteByte('\n')
	}
	for _, p := range r.Phases {
		row(p.Name, p.DurationMS, p.Note)
	}
	row("total", r.TotalMS, "")
	if r.WallMS > 0 {
		row("wall", r.WallMS, "")
	}
	return sb.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
