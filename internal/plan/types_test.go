package plan

import (
	"testing"

	"irbuild/internal/backend/llvm"
)

func TestParseType(t *testing.T) {
	ctx := llvm.NewContext("", 64)

	tests := []struct {
		in   string
		want string
	}{
		{"void", "void"},
		{"i1", "i1"},
		{"i32*", "i32*"},
		{"i8**", "i8**"},
		{"intptr", "i64"},
		{"double", "double"},
		{"[4 x i8]", "[4 x i8]"},
		{"<2 x float>", "<2 x float>"},
		{"{i32, i8*}", "{ i32, i8* }"},
		{"{}", "{}"},
		{"void (i32)*", "void (i32)*"},
		{" [ 2 x { i1 } ] ", "[2 x { i1 }]"},
	}
	for _, tt := range tests {
		got, err := parseType(ctx, tt.in)
		if err != nil {
			t.Errorf("parseType(%q) failed: %v", tt.in, err)
			continue
		}
		if s := ctx.TypeString(got); s != tt.want {
			t.Errorf("parseType(%q) = %s, expected %s", tt.in, s, tt.want)
		}
	}
}

func TestParseTypeErrors(t *testing.T) {
	ctx := llvm.NewContext("", 64)
	for _, in := range []string{"", "i0", "quad", "[x i8]", "<0 x i8>", "{i32", "i32 i32", "i32)"} {
		if _, err := parseType(ctx, in); err == nil {
			t.Errorf("parseType(%q) should fail", in)
		}
	}
}

func TestConstOperand(t *testing.T) {
	ctx := llvm.NewContext("", 64)

	tests := []struct {
		in   string
		want string
	}{
		{"i32:7", "i32 7"},
		{"i32:0x10", "i32 16"},
		{"i1:true", "i1 true"},
		{"i8*:null", "i8* null"},
		{"i32:undef", "i32 undef"},
	}
	for _, tt := range tests {
		v, err := constOperand(ctx, tt.in)
		if err != nil {
			t.Errorf("constOperand(%q) failed: %v", tt.in, err)
			continue
		}
		if s := ctx.ValueString(v); s != tt.want {
			t.Errorf("constOperand(%q) = %s, expected %s", tt.in, s, tt.want)
		}
	}

	for _, in := range []string{"7", "i32:seven", "{i32}:1", "double:x"} {
		if _, err := constOperand(ctx, in); err == nil {
			t.Errorf("constOperand(%q) should fail", in)
		}
	}
}
