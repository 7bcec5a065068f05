package plan_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"irbuild/internal/backend/build"
	"irbuild/internal/config"
	"irbuild/internal/plan"
	"irbuild/internal/source"
	"irbuild/internal/testkit"
)

func runText(t *testing.T, text string) (*plan.Result, error) {
	t.Helper()
	p, err := plan.Parse("inline.toml", []byte(text))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return plan.Run(context.Background(), p, plan.Options{Config: config.Default()})
}

const addPlan = `
[[func]]
name = "add"
ret = "i32"
params = ["i32", "i32"]
names = ["a", "b"]

  [[func.block]]
  name = "entry"

    [[func.block.op]]
    op = "add"
    flags = ["nsw"]
    dst = "sum"
    args = ["%a", "%b"]

    [[func.block.op]]
    op = "ret"
    args = ["%sum"]
`

func TestRunAdd(t *testing.T) {
	res, err := runText(t, addPlan)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(res.IR, "define i32 @add(i32 %a, i32 %b)") {
		t.Errorf("Expected function header in IR:\n%s", res.IR)
	}
	if !strings.Contains(res.IR, "%sum = add nsw i32 %a, %b") {
		t.Errorf("Expected add instruction in IR:\n%s", res.IR)
	}
	if res.Stats.Emitted != 2 || res.Stats.Suppressed != 0 || res.Stats.Terminators != 1 {
		t.Errorf("Unexpected stats %+v", res.Stats)
	}
	if res.Name != "inline" {
		t.Errorf("Expected plan name from path, got %q", res.Name)
	}
}

func TestRunFileWithDeadBlock(t *testing.T) {
	files := source.NewFileSet()
	p, err := plan.Load(files, "testdata/max.toml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cfg := config.Default()
	cfg.Builder.Comments = true

	res, err := plan.Run(context.Background(), p, plan.Options{Config: cfg, Files: files})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Blocks != 5 || res.Dead != 1 {
		t.Errorf("Expected 5 blocks with 1 dead, got %d/%d", res.Blocks, res.Dead)
	}
	if res.Stats.Suppressed != 2 || res.Stats.Unreachables != 1 {
		t.Errorf("Expected the dead block's 2 ops suppressed, got %+v", res.Stats)
	}
	if res.Stats.Comments != 1 {
		t.Errorf("Expected 1 comment, got %d", res.Stats.Comments)
	}
	if !strings.Contains(res.IR, "pick the larger operand (testdata/max.toml:1:1") {
		t.Errorf("Expected span comment in IR:\n%s", res.IR)
	}
	if !strings.Contains(res.IR, "phi i32 [ %a, %left ], [ %b, %right ]") {
		t.Errorf("Expected phi in IR:\n%s", res.IR)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		ops  string
		want error
		msg  string
		loc  string
	}{
		{
			name: "emit after terminator",
			ops: `
    [[func.block.op]]
    op = "ret"
    [[func.block.op]]
    op = "ret"
`,
			want: build.ErrTerminated,
		},
		{
			name: "phi arity",
			ops: `
    [[func.block.op]]
    op = "phi"
    type = "i32"
    args = ["i32:1", "i32:2"]
    blocks = ["entry"]
`,
			want: build.ErrPhiArity,
		},
		{
			name: "trap without declaration",
			ops: `
    [[func.block.op]]
    op = "trap"
`,
			want: build.ErrNoTrap,
		},
		{
			name: "open block",
			ops: `
    [[func.block.op]]
    op = "alloca"
    type = "i32"
`,
			want: testkit.ErrOpenBlock,
			loc:  "func f: f:bb1",
		},
		{
			name: "unknown op",
			ops: `
    [[func.block.op]]
    op = "frobnicate"
`,
			msg: `unknown op "frobnicate"`,
		},
		{
			name: "unknown value",
			ops: `
    [[func.block.op]]
    op = "load"
    args = ["%nowhere"]
`,
			msg: "unknown value %nowhere",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := "[[func]]\nname = \"f\"\n  [[func.block]]\n  name = \"entry\"\n" + tt.ops
			_, err := runText(t, text)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
			if tt.msg != "" && !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("Expected error mentioning %q, got %v", tt.msg, err)
			}
			loc := tt.loc
			if loc == "" {
				loc = "func f: block entry"
			}
			if !strings.Contains(err.Error(), loc) {
				t.Errorf("Expected error location %q, got %v", loc, err)
			}
		})
	}
}

func TestRunTrapAndUnreachable(t *testing.T) {
	text := `
[[declare]]
name = "llvm.trap"

[[func]]
name = "boom"

  [[func.block]]
  name = "entry"

    [[func.block.op]]
    op = "trap"

    [[func.block.op]]
    op = "unreachable"

    [[func.block.op]]
    op = "ret"
`
	res, err := runText(t, text)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(res.IR, "call void @llvm.trap()") || !strings.Contains(res.IR, "unreachable") {
		t.Errorf("Expected trap then unreachable in IR:\n%s", res.IR)
	}
	if res.Stats.Suppressed != 1 {
		t.Errorf("Expected the trailing ret to be suppressed, got %+v", res.Stats)
	}
}

func TestRunSwitch(t *testing.T) {
	text := `
[[func]]
name = "classify"
ret = "i8"
params = ["i32"]

  [[func.block]]
  name = "entry"

    [[func.block.op]]
    op = "switch"
    args = ["%arg0"]
    else = "other"
    cases = [{ value = "i32:0", to = "zero" }, { value = "i32:1", to = "one" }]

  [[func.block]]
  name = "zero"

    [[func.block.op]]
    op = "ret"
    args = ["i8:0"]

  [[func.block]]
  name = "one"

    [[func.block.op]]
    op = "ret"
    args = ["i8:1"]

  [[func.block]]
  name = "other"

    [[func.block.op]]
    op = "ret"
    args = ["i8:-1"]
`
	res, err := runText(t, text)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(res.IR, "switch i32 %arg0, label %other [") {
		t.Errorf("Expected switch in IR:\n%s", res.IR)
	}
	if !strings.Contains(res.IR, "i32 1, label %one") {
		t.Errorf("Expected case in IR:\n%s", res.IR)
	}
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name string
		text string
		msg  string
	}{
		{"duplicate func", "[[func]]\nname=\"f\"\n[[func.block]]\nname=\"a\"\n[[func]]\nname=\"f\"\n[[func.block]]\nname=\"a\"\n", "declared twice"},
		{"no blocks", "[[func]]\nname=\"f\"\n", "no blocks"},
		{"duplicate block", "[[func]]\nname=\"f\"\n[[func.block]]\nname=\"a\"\n[[func.block]]\nname=\"a\"\n", "defined twice"},
		{"empty names default", "[[func]]\nname=\"f\"\nparams=[\"i32\"]\nnames=[]\n[[func.block]]\nname=\"a\"\n", ""},
		{"unknown key", "[[func]]\nname=\"f\"\nbody=1\n[[func.block]]\nname=\"a\"\n", "unknown keys"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := plan.Parse("p.toml", []byte(tt.text))
			if tt.msg == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("Expected error mentioning %q, got %v", tt.msg, err)
			}
		})
	}
}
