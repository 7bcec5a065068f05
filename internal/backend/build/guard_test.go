package build_test

import (
	"errors"
	"strings"
	"testing"

	"irbuild/internal/backend/build"
	"irbuild/internal/backend/llvm"
	"irbuild/internal/source"
	"irbuild/internal/testkit"
	"irbuild/internal/trace"
)

type fixture struct {
	ctx *llvm.Context
	b   *build.Builder
	fn  *build.Func
	p   llvm.ValueRef // i32*
	x   llvm.ValueRef // i32
}

func newFixture(t *testing.T, opts build.Options) *fixture {
	t.Helper()
	ctx := llvm.NewContext("", 64)
	fnv := ctx.NewFunc("f", ctx.Void(), ctx.Ptr(ctx.I32()), ctx.I32())
	return &fixture{
		ctx: ctx,
		b:   build.New(ctx.NewBuilder(), opts),
		fn:  build.NewFunc(fnv, "f", ctx.IntPtr()),
		p:   ctx.Param(fnv, 0),
		x:   ctx.Param(fnv, 1),
	}
}

func (f *fixture) block(name string) *build.Block {
	return f.b.AppendBlock(f.fn, name)
}

func (f *fixture) count(cx *build.Block) int {
	return f.ctx.InstrCount(cx.ID)
}

func mustPanic(t *testing.T, want error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic wrapping %v", want)
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, want) {
			t.Fatalf("panic %v, want %v", r, want)
		}
	}()
	fn()
}

func TestSecondTerminatorPanics(t *testing.T) {
	f := newFixture(t, build.Options{})
	callee := f.ctx.NewFunc("g", f.ctx.I32())
	cond := f.ctx.ConstInt(f.ctx.I1(), 1)
	other := f.block("other")

	terms := []struct {
		name   string
		emit   func(cx *build.Block)
		instrs int
	}{
		{"ret void", func(cx *build.Block) { f.b.RetVoid(cx) }, 1},
		{"ret", func(cx *build.Block) { f.b.Ret(cx, f.x) }, 1},
		{"aggregate ret", func(cx *build.Block) { f.b.AggregateRet(cx, []llvm.ValueRef{f.x, f.x}) }, 3},
		{"br", func(cx *build.Block) { f.b.Br(cx, other) }, 1},
		{"condbr", func(cx *build.Block) { f.b.CondBr(cx, cond, other, other) }, 1},
		{"switch", func(cx *build.Block) { f.b.Switch(cx, f.x, other, 0) }, 1},
		{"indirectbr", func(cx *build.Block) {
			f.b.IndirectBr(cx, f.ctx.Null(f.ctx.BytePtr()), []*build.Block{other})
		}, 1},
		{"invoke", func(cx *build.Block) { f.b.Invoke(cx, callee, nil, other, other) }, 1},
		{"resume", func(cx *build.Block) { f.b.Resume(cx, f.x) }, 1},
	}
	for _, tt := range terms {
		t.Run(tt.name, func(t *testing.T) {
			cx := f.block(tt.name)
			tt.emit(cx)
			if cx.State() != build.Terminated {
				t.Fatalf("state %s after first terminator", cx.State())
			}
			if n := f.count(cx); n != tt.instrs {
				t.Fatalf("instructions = %d, want %d", n, tt.instrs)
			}
			mustPanic(t, build.ErrTerminated, func() { tt.emit(cx) })
			mustPanic(t, build.ErrTerminated, func() { f.b.Br(cx, other) })
			if n := f.count(cx); n != tt.instrs {
				t.Fatalf("instructions after fault = %d, want %d", n, tt.instrs)
			}
		})
	}
}

func TestInstructionAfterTerminatorPanics(t *testing.T) {
	f := newFixture(t, build.Options{})
	cx := f.block("entry")
	f.b.RetVoid(cx)

	mustPanic(t, build.ErrTerminated, func() { f.b.Add(cx, f.x, f.x) })
	mustPanic(t, build.ErrTerminated, func() { f.b.Store(cx, f.x, f.p) })
	mustPanic(t, build.ErrTerminated, func() { f.b.Load(cx, f.p) })
	// equal widths emit nothing but still refuse a closed block
	mustPanic(t, build.ErrTerminated, func() { f.b.IntCast(cx, f.x, f.ctx.I32()) })
	mustPanic(t, build.ErrTerminated, func() {
		f.b.FPCast(cx, f.ctx.ConstFloat(f.ctx.Double(), 1), f.ctx.Double())
	})
}

func TestUnreachablePlaceholders(t *testing.T) {
	f := newFixture(t, build.Options{})
	ctx := f.ctx
	g := ctx.NewFunc("g", ctx.Double(), ctx.I32())
	dbl := ctx.ConstFloat(ctx.Double(), 1.5)
	cond := ctx.ConstInt(ctx.I1(), 1)
	pair := ctx.Undef(ctx.Struct(ctx.I32(), ctx.Double()))
	vec := ctx.Undef(ctx.Vector(4, ctx.I32()))
	mask := ctx.Undef(ctx.Vector(2, ctx.I32()))
	zero := ctx.ConstInt(ctx.I32(), 0)
	next := f.block("next")

	cx := f.block("dead")
	f.b.Unreachable(cx)
	base := f.count(cx)

	cases := []struct {
		name string
		emit func() llvm.ValueRef
		want llvm.TypeRef
	}{
		{"add", func() llvm.ValueRef { return f.b.Add(cx, f.x, f.x) }, ctx.I32()},
		{"fadd", func() llvm.ValueRef { return f.b.FAdd(cx, dbl, dbl) }, ctx.Double()},
		{"neg", func() llvm.ValueRef { return f.b.Neg(cx, f.x) }, ctx.I32()},
		{"not", func() llvm.ValueRef { return f.b.Not(cx, f.x) }, ctx.I32()},
		{"zext", func() llvm.ValueRef { return f.b.ZExt(cx, f.x, ctx.I64()) }, ctx.I64()},
		{"fptosi", func() llvm.ValueRef { return f.b.FPToSI(cx, dbl, ctx.I32()) }, ctx.I32()},
		{"icmp", func() llvm.ValueRef { return f.b.ICmp(cx, llvm.IntSLT, f.x, f.x) }, ctx.I1()},
		{"fcmp", func() llvm.ValueRef { return f.b.FCmp(cx, llvm.RealOLT, dbl, dbl) }, ctx.I1()},
		{"icmp vector", func() llvm.ValueRef { return f.b.ICmp(cx, llvm.IntEQ, vec, vec) }, ctx.Vector(4, ctx.I1())},
		{"load", func() llvm.ValueRef { return f.b.Load(cx, f.p) }, ctx.I32()},
		{"load non-pointer", func() llvm.ValueRef { return f.b.Load(cx, f.x) }, ctx.IntPtr()},
		{"alloca", func() llvm.ValueRef { return f.b.Alloca(cx, ctx.Double()) }, ctx.BytePtr()},
		{"malloc", func() llvm.ValueRef { return f.b.Malloc(cx, ctx.Double()) }, ctx.BytePtr()},
		{"gep", func() llvm.ValueRef { return f.b.GEP(cx, f.p, []llvm.ValueRef{zero}) }, ctx.Ptr(ctx.I32())},
		{"call", func() llvm.ValueRef { return f.b.Call(cx, g, []llvm.ValueRef{f.x}) }, ctx.Double()},
		{"call non-function", func() llvm.ValueRef { return f.b.Call(cx, f.x, nil) }, ctx.IntPtr()},
		{"select", func() llvm.ValueRef { return f.b.Select(cx, cond, f.x, f.x) }, ctx.I32()},
		{"phi", func() llvm.ValueRef { return f.b.EmptyPhi(cx, ctx.I64()) }, ctx.I64()},
		{"extractvalue", func() llvm.ValueRef { return f.b.ExtractValue(cx, pair, 1) }, ctx.Double()},
		{"extractelement", func() llvm.ValueRef { return f.b.ExtractElement(cx, vec, zero) }, ctx.I32()},
		{"shufflevector", func() llvm.ValueRef { return f.b.ShuffleVector(cx, vec, vec, mask) }, ctx.Vector(2, ctx.I32())},
		{"isnull", func() llvm.ValueRef { return f.b.IsNull(cx, f.p) }, ctx.I1()},
		{"isnotnull vector", func() llvm.ValueRef { return f.b.IsNotNull(cx, vec) }, ctx.Vector(4, ctx.I1())},
		{"global string", func() llvm.ValueRef { return f.b.GlobalString(cx, "hi") }, ctx.BytePtr()},
		{"invoke", func() llvm.ValueRef { return f.b.Invoke(cx, g, []llvm.ValueRef{f.x}, next, next) }, ctx.Double()},
		{"ptrdiff", func() llvm.ValueRef { return f.b.PtrDiff(cx, f.p, f.p) }, ctx.IntPtr()},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.emit()
			if !ctx.IsUndef(v) {
				t.Fatalf("got %s, want an undef placeholder", ctx.ValueString(v))
			}
			if got := ctx.TypeOf(v); !ctx.SameType(got, tt.want) {
				t.Fatalf("placeholder type %s, want %s", ctx.TypeString(got), ctx.TypeString(tt.want))
			}
			if n := f.count(cx); n != base {
				t.Fatalf("instructions = %d, want %d", n, base)
			}
		})
	}

	f.b.Store(cx, f.x, f.p)
	f.b.Free(cx, f.p)
	f.b.RetVoid(cx)
	f.b.Resume(cx, f.x)
	if n := f.count(cx); n != base {
		t.Fatalf("void ops touched a dead block: %d instructions", n)
	}
	if cx.Terminated() {
		t.Fatal("suppressed terminators closed the block")
	}
	if s := f.b.Stats(); s.Suppressed != len(cases)+4 || s.Emitted != 0 {
		t.Fatalf("stats = %+v", s)
	}
}

func TestPlaceholderMatchesLiveType(t *testing.T) {
	f := newFixture(t, build.Options{})
	ctx := f.ctx
	rec := ctx.Struct(ctx.I32(), ctx.Array(4, ctx.Double()))
	rp := ctx.Param(ctx.NewFunc("h", ctx.Void(), ctx.Ptr(rec)), 0)
	g := ctx.NewFunc("g", ctx.Double(), ctx.I32())
	pair := ctx.Undef(ctx.Struct(ctx.I32(), ctx.Double()))
	vec := ctx.Undef(ctx.Vector(4, ctx.I32()))
	zero := ctx.ConstInt(ctx.I32(), 0)
	one := ctx.ConstInt(ctx.I32(), 1)
	two := ctx.ConstInt(ctx.I32(), 2)
	dbl := ctx.ConstFloat(ctx.Double(), 1.5)
	flt := ctx.ConstFloat(ctx.Float(), 1.5)
	narrow := ctx.ConstInt(ctx.Int(8), 3)
	next := f.block("next")

	cases := []struct {
		name string
		emit func(cx *build.Block) llvm.ValueRef
	}{
		{"struct gep", func(cx *build.Block) llvm.ValueRef { return f.b.StructGEP(cx, rp, 1) }},
		{"gepi", func(cx *build.Block) llvm.ValueRef { return f.b.GEPi(cx, rp, []int{0, 1, 2}) }},
		{"gep", func(cx *build.Block) llvm.ValueRef { return f.b.GEP(cx, rp, []llvm.ValueRef{zero, one, two}) }},
		{"inbounds gep", func(cx *build.Block) llvm.ValueRef { return f.b.InBoundsGEP(cx, rp, []llvm.ValueRef{zero, zero}) }},
		{"insertvalue", func(cx *build.Block) llvm.ValueRef { return f.b.InsertValue(cx, pair, f.x, 0) }},
		{"insertelement", func(cx *build.Block) llvm.ValueRef { return f.b.InsertElement(cx, vec, f.x, one) }},
		{"global string ptr", func(cx *build.Block) llvm.ValueRef { return f.b.GlobalStringPtr(cx, "hi") }},
		{"va_arg", func(cx *build.Block) llvm.ValueRef { return f.b.VAArg(cx, f.p, ctx.I64()) }},
		{"icmp vector", func(cx *build.Block) llvm.ValueRef { return f.b.ICmp(cx, llvm.IntEQ, vec, vec) }},
		{"zext or bitcast wider", func(cx *build.Block) llvm.ValueRef { return f.b.ZExtOrBitCast(cx, f.x, ctx.I64()) }},
		{"zext or bitcast same", func(cx *build.Block) llvm.ValueRef { return f.b.ZExtOrBitCast(cx, f.x, ctx.I32()) }},
		{"sext or bitcast", func(cx *build.Block) llvm.ValueRef { return f.b.SExtOrBitCast(cx, narrow, ctx.I32()) }},
		{"trunc or bitcast", func(cx *build.Block) llvm.ValueRef { return f.b.TruncOrBitCast(cx, f.x, ctx.Int(8)) }},
		{"pointer cast to int", func(cx *build.Block) llvm.ValueRef { return f.b.PointerCast(cx, f.p, ctx.I64()) }},
		{"pointer cast to ptr", func(cx *build.Block) llvm.ValueRef { return f.b.PointerCast(cx, f.p, ctx.BytePtr()) }},
		{"intcast wider", func(cx *build.Block) llvm.ValueRef { return f.b.IntCast(cx, f.x, ctx.I64()) }},
		{"intcast narrower", func(cx *build.Block) llvm.ValueRef { return f.b.IntCast(cx, f.x, ctx.Int(8)) }},
		{"intcast same", func(cx *build.Block) llvm.ValueRef { return f.b.IntCast(cx, f.x, ctx.I32()) }},
		{"fpcast narrower", func(cx *build.Block) llvm.ValueRef { return f.b.FPCast(cx, dbl, ctx.Float()) }},
		{"fpcast wider", func(cx *build.Block) llvm.ValueRef { return f.b.FPCast(cx, flt, ctx.Double()) }},
		{"fpcast same", func(cx *build.Block) llvm.ValueRef { return f.b.FPCast(cx, dbl, ctx.Double()) }},
		{"invoke", func(cx *build.Block) llvm.ValueRef {
			return f.b.Invoke(cx, g, []llvm.ValueRef{f.x}, next, next)
		}},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			live, dead := f.block("live"), f.block("dead")
			f.b.Unreachable(dead)
			want := ctx.TypeOf(tt.emit(live))
			v := tt.emit(dead)
			if !ctx.IsUndef(v) {
				t.Fatalf("got %s, want an undef placeholder", ctx.ValueString(v))
			}
			if got := ctx.TypeOf(v); !ctx.SameType(got, want) {
				t.Fatalf("placeholder type %s, live type %s", ctx.TypeString(got), ctx.TypeString(want))
			}
			if n := f.count(dead); n != 1 {
				t.Fatalf("dead block has %d instructions, want only the marker", n)
			}
		})
	}
}

func TestUnreachableIsIdempotent(t *testing.T) {
	f := newFixture(t, build.Options{})
	cx := f.block("entry")
	f.b.Unreachable(cx)
	f.b.Unreachable(cx)
	if n := f.count(cx); n != 1 {
		t.Fatalf("instructions = %d, want one marker", n)
	}
	if cx.State() != build.Unreachable {
		t.Fatalf("state = %s", cx.State())
	}
	if s := f.b.Stats(); s.Unreachables != 1 {
		t.Fatalf("unreachables = %d", s.Unreachables)
	}
	if !strings.Contains(f.ctx.String(), "unreachable") {
		t.Fatalf("module lacks the marker:\n%s", f.ctx.String())
	}
}

func TestUnreachableAfterTerminatorAddsNothing(t *testing.T) {
	f := newFixture(t, build.Options{})
	cx := f.block("entry")
	f.b.RetVoid(cx)
	f.b.Unreachable(cx)
	if n := f.count(cx); n != 1 {
		t.Fatalf("instructions = %d, want 1", n)
	}
	if cx.State() != build.Unreachable || !cx.Terminated() {
		t.Fatalf("state = %s terminated=%v", cx.State(), cx.Terminated())
	}
}

func TestPhiArity(t *testing.T) {
	f := newFixture(t, build.Options{})
	a, c := f.block("a"), f.block("c")
	pairs := []struct{ vals, blocks int }{{0, 1}, {1, 0}, {2, 1}, {1, 3}}
	for _, dead := range []bool{false, true} {
		cx := f.block("join")
		if dead {
			f.b.Unreachable(cx)
		}
		before := f.count(cx)
		for _, p := range pairs {
			vals := make([]llvm.ValueRef, p.vals)
			for i := range vals {
				vals[i] = f.x
			}
			blocks := make([]*build.Block, p.blocks)
			for i := range blocks {
				blocks[i] = a
			}
			mustPanic(t, build.ErrPhiArity, func() { f.b.Phi(cx, f.ctx.I32(), vals, blocks) })
		}
		if n := f.count(cx); n != before {
			t.Fatalf("dead=%v: faulting phis left %d instructions", dead, n)
		}
	}

	cx := f.block("ok")
	phi := f.b.Phi(cx, f.ctx.I32(), []llvm.ValueRef{f.x, f.x}, []*build.Block{a, c})
	if f.ctx.IsUndef(phi) || f.count(cx) != 1 {
		t.Fatalf("balanced phi not emitted")
	}
}

func TestNOpsThenTerminator(t *testing.T) {
	f := newFixture(t, build.Options{})
	cx := f.block("entry")
	sum := f.b.Add(cx, f.x, f.x)
	prod := f.b.Mul(cx, sum, f.x)
	f.b.Store(cx, prod, f.p)
	lt := f.b.ICmp(cx, llvm.IntULT, sum, prod)
	f.b.ZExt(cx, lt, f.ctx.I32())
	if n := f.count(cx); n != 5 {
		t.Fatalf("instructions = %d, want 5", n)
	}
	f.b.RetVoid(cx)
	if n := f.count(cx); n != 6 {
		t.Fatalf("instructions = %d, want 6", n)
	}
	if cx.State() != build.Terminated {
		t.Fatalf("state = %s", cx.State())
	}
	if err := testkit.CheckBlockInvariants(f.ctx, f.fn, []*build.Block{cx}); err != nil {
		t.Fatal(err)
	}
}

func TestAddStoreRetThenBr(t *testing.T) {
	f := newFixture(t, build.Options{})
	cx := f.block("entry")
	other := f.block("other")
	sum := f.b.Add(cx, f.x, f.x)
	f.b.Store(cx, sum, f.p)
	f.b.Ret(cx, sum)
	if n := f.count(cx); n != 3 {
		t.Fatalf("instructions = %d, want 3", n)
	}
	if cx.State() != build.Terminated {
		t.Fatalf("state = %s", cx.State())
	}
	mustPanic(t, build.ErrTerminated, func() { f.b.Br(cx, other) })
}

func TestLoadInDeadBlock(t *testing.T) {
	f := newFixture(t, build.Options{})
	cx := f.block("entry")
	f.b.Unreachable(cx)
	before := f.count(cx)
	v := f.b.Load(cx, f.p)
	if !f.ctx.IsUndef(v) || !f.ctx.SameType(f.ctx.TypeOf(v), f.ctx.I32()) {
		t.Fatalf("load placeholder = %s", f.ctx.ValueString(v))
	}
	if f.count(cx) != before {
		t.Fatalf("load reached the backend")
	}
}

func TestPlaceholderHandlesAreInert(t *testing.T) {
	f := newFixture(t, build.Options{})
	cx := f.block("dead")
	live := f.block("live")
	f.b.Unreachable(cx)

	sw := f.b.Switch(cx, f.x, live, 2)
	if !f.ctx.IsUndef(sw) {
		t.Fatalf("switch in dead block = %s", f.ctx.ValueString(sw))
	}
	f.b.AddCase(sw, f.ctx.ConstInt(f.ctx.I32(), 1), live)

	phi := f.b.EmptyPhi(cx, f.ctx.I32())
	f.b.AddIncomingToPhi(phi, f.x, live)

	if n := f.count(cx); n != 1 {
		t.Fatalf("instructions = %d, want only the marker", n)
	}
	if n := f.count(live); n != 0 {
		t.Fatalf("live block gained %d instructions", n)
	}
}

func TestAddCaseOnLiveSwitch(t *testing.T) {
	f := newFixture(t, build.Options{})
	cx := f.block("entry")
	one := f.block("one")
	other := f.block("other")
	sw := f.b.Switch(cx, f.x, other, 1)
	f.b.AddCase(sw, f.ctx.ConstInt(f.ctx.I32(), 1), one)
	f.b.RetVoid(one)
	f.b.RetVoid(other)
	if !strings.Contains(f.ctx.String(), "i32 1, label %one") {
		t.Fatalf("case missing:\n%s", f.ctx.String())
	}
}

func TestLandingPadRefusesClosedBlocks(t *testing.T) {
	f := newFixture(t, build.Options{})
	pers := f.ctx.Null(f.ctx.BytePtr())
	lpTy := f.ctx.Struct(f.ctx.BytePtr(), f.ctx.I32())

	dead := f.block("dead")
	f.b.Unreachable(dead)
	mustPanic(t, build.ErrLandingPad, func() { f.b.LandingPad(dead, lpTy, pers, 0) })

	done := f.block("done")
	f.b.RetVoid(done)
	mustPanic(t, build.ErrLandingPad, func() { f.b.LandingPad(done, lpTy, pers, 0) })
}

func TestTrap(t *testing.T) {
	f := newFixture(t, build.Options{})
	cx := f.block("entry")
	mustPanic(t, build.ErrNoTrap, func() { f.b.Trap(cx) })
	f.b.RetVoid(cx)

	f.ctx.DeclareTrap()
	cx = f.block("retry")
	f.b.Trap(cx)
	if n := f.count(cx); n != 1 {
		t.Fatalf("instructions = %d, want 1", n)
	}
	f.b.Unreachable(cx)
	if !strings.Contains(f.ctx.String(), "call void @llvm.trap()") {
		t.Fatalf("trap call missing:\n%s", f.ctx.String())
	}
}

func TestComments(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		f := newFixture(t, build.Options{})
		cx := f.block("entry")
		f.b.AddComment(cx, "hello")
		if n := f.count(cx); n != 0 {
			t.Fatalf("instructions = %d, want 0", n)
		}
	})

	t.Run("enabled", func(t *testing.T) {
		f := newFixture(t, build.Options{Comments: true})
		cx := f.block("entry")
		f.b.AddComment(cx, "cost $1\nper unit")
		if n := f.count(cx); n != 1 {
			t.Fatalf("instructions = %d, want 1", n)
		}
		f.b.RetVoid(cx)
		out := f.ctx.String()
		if !strings.Contains(out, "; cost 1 per unit") {
			t.Fatalf("comment text not sanitized:\n%s", out)
		}
		if s := f.b.Stats(); s.Comments != 1 {
			t.Fatalf("comments = %d", s.Comments)
		}
	})

	t.Run("dead block", func(t *testing.T) {
		f := newFixture(t, build.Options{Comments: true})
		cx := f.block("entry")
		f.b.Unreachable(cx)
		f.b.AddComment(cx, "gone")
		if n := f.count(cx); n != 1 {
			t.Fatalf("instructions = %d, want only the marker", n)
		}
		if s := f.b.Stats(); s.Comments != 0 || s.Suppressed != 1 {
			t.Fatalf("stats = %+v", s)
		}
	})

	t.Run("terminated block", func(t *testing.T) {
		f := newFixture(t, build.Options{Comments: true})
		cx := f.block("entry")
		f.b.RetVoid(cx)
		mustPanic(t, build.ErrTerminated, func() { f.b.AddComment(cx, "late") })
		if s := f.b.Stats(); s.Comments != 0 {
			t.Fatalf("comments = %d, want 0", s.Comments)
		}
	})
}

func TestInstrEvents(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	f := newFixture(t, build.Options{Comments: true, Tracer: ring})
	names := func() map[string]int {
		out := make(map[string]int)
		for _, ev := range ring.Snapshot() {
			out[ev.Name]++
		}
		return out
	}

	pad := f.block("pad")
	f.b.LandingPad(pad, f.ctx.Struct(f.ctx.BytePtr(), f.ctx.I32()), f.ctx.Null(f.ctx.BytePtr()), 0)
	if names()["landingpad"] != 1 {
		t.Fatalf("no landingpad event in %v", names())
	}

	dead := f.block("dead")
	f.b.Unreachable(dead)
	f.b.AddSpanComment(dead, source.Span{}, "gone")
	if n := names()["comment"]; n != 0 {
		t.Fatalf("suppressed comment traced %d times", n)
	}

	live := f.block("live")
	f.b.AddSpanComment(live, source.Span{}, "kept")
	if n := names()["comment"]; n != 1 {
		t.Fatalf("comment events = %d, want 1", n)
	}
}

func TestStats(t *testing.T) {
	f := newFixture(t, build.Options{})
	live := f.block("live")
	dead := f.block("dead")

	f.b.Add(live, f.x, f.x)
	f.b.Store(live, f.x, f.p)
	f.b.RetVoid(live)
	f.b.Unreachable(dead)
	f.b.Add(dead, f.x, f.x)

	want := build.Stats{Emitted: 3, Suppressed: 1, Terminators: 1, Unreachables: 1}
	if got := f.b.Stats(); got != want {
		t.Fatalf("stats = %+v, want %+v", got, want)
	}

	var total build.Stats
	total.Add(want)
	total.Add(want)
	if total.Emitted != 6 || total.Unreachables != 2 {
		t.Fatalf("sum = %+v", total)
	}
}

func TestBlockState(t *testing.T) {
	if build.Open.String() != "open" || build.Terminated.String() != "terminated" || build.Unreachable.String() != "unreachable" {
		t.Fatal("state names changed")
	}
	f := newFixture(t, build.Options{})
	cx := f.block("entry")
	if cx.State() != build.Open {
		t.Fatalf("new block state = %s", cx.State())
	}
	if !strings.HasPrefix(cx.String(), "f:bb") {
		t.Fatalf("block string = %q", cx.String())
	}
}
