package llvm

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Builder appends instructions at a cursor inside one block of its Context.
// Every Build method appends at the current cursor; callers rebind it with
// PositionAtEnd before each call.
type Builder struct {
	*Context
	cur *ir.Block
}

// PositionAtEnd moves the cursor to the end of b.
func (b *Builder) PositionAtEnd(blk BlockRef) {
	b.cur = b.block(blk)
}

// InsertBlock returns the block holding the cursor.
func (b *Builder) InsertBlock() BlockRef {
	if b.cur == nil {
		return NoBlock
	}
	return b.addBlock(b.cur)
}

func (b *Builder) cursor() *ir.Block {
	if b.cur == nil {
		panic(fmt.Errorf("builder cursor is not positioned: %w", ErrBadHandle))
	}
	return b.cur
}

func (c *Context) constIndex(v ValueRef) (uint64, bool) {
	ci, ok := c.value(v).(*constant.Int)
	if !ok || ci.X.Sign() < 0 || !ci.X.IsUint64() {
		return 0, false
	}
	return ci.X.Uint64(), true
}

func (b *Builder) RetVoid() { b.cursor().NewRet(nil) }

func (b *Builder) Ret(v ValueRef) { b.cursor().NewRet(b.value(v)) }

// AggregateRet packs vals into a literal struct and returns it.
func (b *Builder) AggregateRet(vals []ValueRef) {
	blk := b.cursor()
	fields := make([]types.Type, len(vals))
	xs := b.values(vals)
	for i, x := range xs {
		fields[i] = x.Type()
	}
	var agg value.Value = constant.NewUndef(types.NewStruct(fields...))
	for i, x := range xs {
		agg = blk.NewInsertValue(agg, x, uint64(i))
	}
	blk.NewRet(agg)
}

func (b *Builder) Br(dest BlockRef) { b.cursor().NewBr(b.block(dest)) }

func (b *Builder) CondBr(cond ValueRef, then, els BlockRef) {
	b.cursor().NewCondBr(b.value(cond), b.block(then), b.block(els))
}

// Switch appends a switch terminator with room for numCases cases and
// returns a handle used by AddCase.
func (b *Builder) Switch(v ValueRef, els BlockRef, numCases int) ValueRef {
	sw := b.cursor().NewSwitch(b.value(v), b.block(els))
	if numCases > 0 {
		sw.Cases = make([]*ir.Case, 0, numCases)
	}
	return b.addSlot(sw)
}

// AddCase appends a case to a switch built by Switch. onVal must be a constant.
func (b *Builder) AddCase(sw, onVal ValueRef, dest BlockRef) {
	term, ok := b.slot(sw).(*ir.TermSwitch)
	if !ok {
		panic(fmt.Errorf("value %d is not a switch: %w", sw, ErrBadHandle))
	}
	c, ok := b.value(onVal).(constant.Constant)
	if !ok {
		panic(fmt.Errorf("switch case %d is not a constant: %w", onVal, ErrBadHandle))
	}
	term.Cases = append(term.Cases, ir.NewCase(c, b.block(dest)))
}

// IndirectBr branches to a blockaddress; addr must be a constant.
func (b *Builder) IndirectBr(addr ValueRef, dests []BlockRef) {
	c, ok := b.value(addr).(constant.Constant)
	if !ok {
		panic(fmt.Errorf("indirectbr address %d is not a constant: %w", addr, ErrBadHandle))
	}
	b.cursor().NewIndirectBr(c, b.blockList(dests)...)
}

func (b *Builder) Invoke(fn ValueRef, args []ValueRef, then, catch BlockRef, conv CallConv) ValueRef {
	inv := b.cursor().NewInvoke(b.value(fn), b.values(args), b.block(then), b.block(catch))
	if conv != CallConvDefault {
		inv.CallingConv = conv.enum()
	}
	return b.addSlot(inv)
}

func (b *Builder) Unreachable() { b.cursor().NewUnreachable() }

func (b *Builder) Resume(exn ValueRef) { b.cursor().NewResume(b.value(exn)) }

// LandingPad appends a landingpad of type ty. A non-constant or missing
// personality leaves the enclosing function's personality untouched.
func (b *Builder) LandingPad(ty TypeRef, pers ValueRef, numClauses int) ValueRef {
	blk := b.cursor()
	if pers != NoValue {
		if c, ok := b.value(pers).(constant.Constant); ok && blk.Parent != nil {
			blk.Parent.Personality = c
		}
	}
	lp := blk.NewLandingPad(b.typ(ty))
	if numClauses > 0 {
		lp.Clauses = make([]*ir.Clause, 0, numClauses)
	}
	return b.addSlot(lp)
}

func (b *Builder) SetCleanup(lp ValueRef) {
	pad, ok := b.slot(lp).(*ir.InstLandingPad)
	if !ok {
		panic(fmt.Errorf("value %d is not a landingpad: %w", lp, ErrBadHandle))
	}
	pad.Cleanup = true
}
