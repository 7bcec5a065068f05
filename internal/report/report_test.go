package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"irbuild/internal/backend/build"
	"irbuild/internal/observ"
	"irbuild/internal/plan"
)

func sampleReport() *Report {
	r := New("irbuild test")
	r.Add(&plan.Result{
		Name: "add", Funcs: 1, Blocks: 1,
		Stats: build.Stats{Emitted: 2, Terminators: 1},
	})
	r.Add(&plan.Result{
		Name: "max", Funcs: 1, Blocks: 5, Dead: 1,
		Stats: build.Stats{Emitted: 8, Suppressed: 2, Terminators: 4, Unreachables: 1, Comments: 1},
	})
	return r
}

func TestWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "stats.mp")
	want := sampleReport()
	want.Timings = &observ.Report{TotalMS: 1.5, Phases: []observ.PhaseReport{{Name: "emit", DurationMS: 1.5}}}

	if err := Write(path, want); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected only the report file, found %d entries", len(entries))
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got.Tool != want.Tool || !got.Created.Equal(want.Created) {
		t.Errorf("Header mismatch: got %q %v, expected %q %v", got.Tool, got.Created, want.Tool, want.Created)
	}
	if len(got.Plans) != 2 || got.Plans[1] != want.Plans[1] {
		t.Errorf("Plans mismatch: got %+v", got.Plans)
	}
	if got.Timings == nil || got.Timings.Phases[0].Name != "emit" {
		t.Errorf("Expected timings to survive, got %+v", got.Timings)
	}
}

func TestDecodeRejectsOtherSchema(t *testing.T) {
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(&Report{Schema: Schema + 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(&buf); !errors.Is(err, ErrSchema) {
		t.Errorf("Expected ErrSchema, got %v", err)
	}
}

func TestTotals(t *testing.T) {
	tot := sampleReport().Totals()
	if tot.Emitted != 10 || tot.Suppressed != 2 || tot.Blocks != 6 || tot.Dead != 1 {
		t.Errorf("Unexpected totals %+v", tot)
	}
}

func TestWriteTable(t *testing.T) {
	r := sampleReport()
	r.Plans[0].Name = "加法"

	var buf bytes.Buffer
	if err := WriteTable(&buf, r); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("Expected header, 2 rows, rule and total, got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[4], "total") {
		t.Errorf("Expected totals row last, got %q", lines[4])
	}
	// every line but the rule ends at the same display column
	width := len(lines[0])
	for _, i := range []int{2, 4} {
		if len(lines[i]) != width {
			t.Errorf("Line %d has width %d, expected %d:\n%s", i, len(lines[i]), width, buf.String())
		}
	}
}
