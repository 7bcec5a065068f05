package build

import (
	"errors"
	"fmt"

	"irbuild/internal/backend/llvm"
	"irbuild/internal/source"
	"irbuild/internal/trace"
)

var (
	// ErrTerminated reports emission into a block that already has a terminator.
	ErrTerminated = errors.New("block already terminated")
	// ErrLandingPad reports a landing pad in a terminated or unreachable block.
	ErrLandingPad = errors.New("landing pad must open a live block")
	// ErrPhiArity reports incoming value and block lists of different lengths.
	ErrPhiArity = errors.New("phi incoming lists differ in length")
	// ErrNoTrap reports a trap emitted into a module without the trap intrinsic.
	ErrNoTrap = errors.New("trap intrinsic not declared")
)

// Options configures a Builder at construction.
type Options struct {
	// Comments enables AddComment and AddSpanComment.
	Comments bool
	// CallConv is attached to Call and Invoke.
	CallConv llvm.CallConv
	// Files resolves spans for AddSpanComment; nil prints raw offsets.
	Files *source.FileSet
	// Tracer receives node-level events; nil disables them.
	Tracer trace.Tracer
}

// Stats counts what a Builder did with the calls it received.
type Stats struct {
	Emitted      int // calls delegated to the backend
	Suppressed   int // calls answered with a placeholder or dropped
	Terminators  int
	Unreachables int
	Comments     int
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Emitted += other.Emitted
	s.Suppressed += other.Suppressed
	s.Terminators += other.Terminators
	s.Unreachables += other.Unreachables
	s.Comments += other.Comments
}

// Builder is the guarded emission facade. It is not safe for concurrent use:
// the backend cursor it rebinds is a single shared position.
type Builder struct {
	be     Backend
	opts   Options
	tracer trace.Tracer
	stats  Stats
}

// New creates a Builder over be.
func New(be Backend, opts Options) *Builder {
	t := opts.Tracer
	if t == nil {
		t = trace.Nop
	}
	return &Builder{be: be, opts: opts, tracer: t}
}

// Stats returns the counters accumulated so far.
func (b *Builder) Stats() Stats { return b.stats }

// AppendBlock opens a new basic block at the end of fn.
func (b *Builder) AppendBlock(fn *Func, name string) *Block {
	return NewBlock(fn, b.be.AppendBlock(fn.Value, name))
}

func (b *Builder) note(name string, cx *Block) {
	if b.tracer.Enabled() {
		trace.Point(b.tracer, trace.ScopeInstr, name, cx.String())
	}
}

func fmtBlockErr(op string, cx *Block, err error) error {
	return fmt.Errorf("%s in %s: %w", op, cx, err)
}

func (b *Builder) assertOpen(cx *Block, op string) {
	if cx.terminated {
		panic(fmtBlockErr(op, cx, ErrTerminated))
	}
}

// guardValue is the single policy every value-producing instruction goes
// through: placeholder for dead blocks, fault for terminated ones, backend
// call otherwise.
func (b *Builder) guardValue(cx *Block, op string, undef func() llvm.ValueRef, emit func() llvm.ValueRef) llvm.ValueRef {
	if cx.unreachable {
		b.stats.Suppressed++
		return undef()
	}
	b.assertOpen(cx, op)
	b.be.PositionAtEnd(cx.ID)
	b.stats.Emitted++
	b.note(op, cx)
	return emit()
}

func (b *Builder) guardVoid(cx *Block, op string, emit func()) {
	if cx.unreachable {
		b.stats.Suppressed++
		return
	}
	b.assertOpen(cx, op)
	b.be.PositionAtEnd(cx.ID)
	b.stats.Emitted++
	b.note(op, cx)
	emit()
}

// guardTerm marks cx terminated before the backend call, so a terminator
// that panics inside the backend still leaves the block closed.
func (b *Builder) guardTerm(cx *Block, op string, undef func() llvm.ValueRef, emit func() llvm.ValueRef) llvm.ValueRef {
	if cx.unreachable {
		b.stats.Suppressed++
		if undef == nil {
			return llvm.NoValue
		}
		return undef()
	}
	b.assertOpen(cx, op)
	cx.terminated = true
	b.be.PositionAtEnd(cx.ID)
	b.stats.Emitted++
	b.stats.Terminators++
	b.note(op, cx)
	return emit()
}

// Unreachable marks cx dead. The backend receives an unreachable marker only
// if cx had no terminator yet; repeated calls do nothing.
func (b *Builder) Unreachable(cx *Block) {
	if cx.unreachable {
		return
	}
	cx.unreachable = true
	b.stats.Unreachables++
	b.note("unreachable", cx)
	if !cx.terminated {
		b.be.PositionAtEnd(cx.ID)
		b.be.Unreachable()
	}
}
