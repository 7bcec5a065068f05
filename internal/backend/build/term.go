package build

import "irbuild/internal/backend/llvm"

func (b *Builder) RetVoid(cx *Block) {
	b.guardTerm(cx, "ret", nil, func() llvm.ValueRef {
		b.be.RetVoid()
		return llvm.NoValue
	})
}

func (b *Builder) Ret(cx *Block, v llvm.ValueRef) {
	b.guardTerm(cx, "ret", nil, func() llvm.ValueRef {
		b.be.Ret(v)
		return llvm.NoValue
	})
}

// AggregateRet returns vals packed into a literal struct.
func (b *Builder) AggregateRet(cx *Block, vals []llvm.ValueRef) {
	b.guardTerm(cx, "ret", nil, func() llvm.ValueRef {
		b.be.AggregateRet(vals)
		return llvm.NoValue
	})
}

func (b *Builder) Br(cx *Block, dest *Block) {
	b.guardTerm(cx, "br", nil, func() llvm.ValueRef {
		b.be.Br(dest.ID)
		return llvm.NoValue
	})
}

func (b *Builder) CondBr(cx *Block, cond llvm.ValueRef, then, els *Block) {
	b.guardTerm(cx, "condbr", nil, func() llvm.ValueRef {
		b.be.CondBr(cond, then.ID, els.ID)
		return llvm.NoValue
	})
}

// Switch terminates cx with a switch on v. In a dead block the returned
// handle is an undef of v's type, which AddCase ignores.
func (b *Builder) Switch(cx *Block, v llvm.ValueRef, els *Block, numCases int) llvm.ValueRef {
	return b.guardTerm(cx, "switch", b.undefOf(v), func() llvm.ValueRef {
		return b.be.Switch(v, els.ID, numCases)
	})
}

// AddCase adds a case to sw. It checks the switch handle itself, not a block,
// so a switch built in a dead block stays inert wherever it is passed.
func (b *Builder) AddCase(sw, onVal llvm.ValueRef, dest *Block) {
	if b.be.IsUndef(sw) {
		return
	}
	b.be.AddCase(sw, onVal, dest.ID)
}

// IndirectBr branches through a computed block address.
func (b *Builder) IndirectBr(cx *Block, addr llvm.ValueRef, dests []*Block) {
	b.guardTerm(cx, "indirectbr", nil, func() llvm.ValueRef {
		b.be.IndirectBr(addr, ids(dests))
		return llvm.NoValue
	})
}

// Invoke calls fn with unwinding to catch, using the configured convention.
func (b *Builder) Invoke(cx *Block, fn llvm.ValueRef, args []llvm.ValueRef, then, catch *Block) llvm.ValueRef {
	return b.InvokeWithConv(cx, fn, args, then, catch, b.opts.CallConv)
}

// FastInvoke is Invoke with the fast calling convention.
func (b *Builder) FastInvoke(cx *Block, fn llvm.ValueRef, args []llvm.ValueRef, then, catch *Block) llvm.ValueRef {
	return b.InvokeWithConv(cx, fn, args, then, catch, llvm.CallConvFast)
}

func (b *Builder) InvokeWithConv(cx *Block, fn llvm.ValueRef, args []llvm.ValueRef, then, catch *Block, conv llvm.CallConv) llvm.ValueRef {
	return b.guardTerm(cx, "invoke", b.undefReturn(cx, fn), func() llvm.ValueRef {
		return b.be.Invoke(fn, args, then.ID, catch.ID, conv)
	})
}

// Resume rethrows exn. Like every terminator it is dropped in a dead block.
func (b *Builder) Resume(cx *Block, exn llvm.ValueRef) {
	b.guardTerm(cx, "resume", nil, func() llvm.ValueRef {
		b.be.Resume(exn)
		return llvm.NoValue
	})
}

// LandingPad must be the first real instruction of a catch block, so unlike
// other instructions it refuses dead blocks as well as terminated ones.
func (b *Builder) LandingPad(cx *Block, ty llvm.TypeRef, pers llvm.ValueRef, numClauses int) llvm.ValueRef {
	if cx.terminated || cx.unreachable {
		panic(fmtBlockErr("landingpad", cx, ErrLandingPad))
	}
	b.be.PositionAtEnd(cx.ID)
	b.stats.Emitted++
	b.note("landingpad", cx)
	return b.be.LandingPad(ty, pers, numClauses)
}

// SetCleanup marks a landing pad as a cleanup.
func (b *Builder) SetCleanup(lp llvm.ValueRef) {
	b.be.SetCleanup(lp)
}
