// Package report stores emission statistics as msgpack files.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"irbuild/internal/backend/build"
	"irbuild/internal/observ"
	"irbuild/internal/plan"
)

// Schema is bumped whenever the Report layout changes.
const Schema uint16 = 1

// ErrSchema reports a file written by an incompatible irbuild.
var ErrSchema = errors.New("unsupported report schema")

// PlanStats is the per-plan row of a Report.
type PlanStats struct {
	Name   string `msgpack:"name"`
	Funcs  int    `msgpack:"funcs"`
	Blocks int    `msgpack:"blocks"`
	Dead   int    `msgpack:"dead"`

	Emitted      int `msgpack:"emitted"`
	Suppressed   int `msgpack:"suppressed"`
	Terminators  int `msgpack:"terminators"`
	Unreachables int `msgpack:"unreachables"`
	Comments     int `msgpack:"comments"`
}

// Report is the content of a stats file.
type Report struct {
	Schema  uint16         `msgpack:"schema"`
	Tool    string         `msgpack:"tool"`
	Created time.Time      `msgpack:"created"`
	Plans   []PlanStats    `msgpack:"plans"`
	Timings *observ.Report `msgpack:"timings,omitempty"`
}

// New returns an empty report stamped with tool and the current time.
func New(tool string) *Report {
	return &Report{Schema: Schema, Tool: tool, Created: time.Now().UTC()}
}

// Add appends the statistics of one plan run.
func (r *Report) Add(res *plan.Result) {
	row := PlanStats{
		Name:   res.Name,
		Funcs:  res.Funcs,
		Blocks: res.Blocks,
		Dead:   res.Dead,
	}
	row.setStats(res.Stats)
	r.Plans = append(r.Plans, row)
}

func (s *PlanStats) setStats(st build.Stats) {
	s.Emitted = st.Emitted
	s.Suppressed = st.Suppressed
	s.Terminators = st.Terminators
	s.Unreachables = st.Unreachables
	s.Comments = st.Comments
}

// Totals sums every plan row.
func (r *Report) Totals() PlanStats {
	t := PlanStats{Name: "total"}
	for _, p := range r.Plans {
		t.Funcs += p.Funcs
		t.Blocks += p.Blocks
		t.Dead += p.Dead
		t.Emitted += p.Emitted
		t.Suppressed += p.Suppressed
		t.Terminators += p.Terminators
		t.Unreachables += p.Unreachables
		t.Comments += p.Comments
	}
	return t
}

// Encode writes r to w.
func Encode(w io.Writer, r *Report) error {
	return msgpack.NewEncoder(w).Encode(r)
}

// Decode reads a report and rejects other schema versions.
func Decode(rd io.Reader) (*Report, error) {
	var r Report
	if err := msgpack.NewDecoder(rd).Decode(&r); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	if r.Schema != Schema {
		return nil, fmt.Errorf("schema %d: %w", r.Schema, ErrSchema)
	}
	return &r, nil
}

// Write stores r at path through a temporary file and a rename, so readers
// never see a partial report.
func Write(path string, r *Report) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*.mp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name()) //nolint:errcheck
		}
	}()

	if err := Encode(f, r); err != nil {
		_ = f.Close() //nolint:errcheck
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// Read loads a report written by Write.
func Read(path string) (*Report, error) {
	// #nosec G304 -- path is provided by the caller
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}
