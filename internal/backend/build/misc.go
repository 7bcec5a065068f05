package build

import (
	"fmt"

	"irbuild/internal/backend/llvm"
)

func (b *Builder) ICmp(cx *Block, pred llvm.IntPredicate, lhs, rhs llvm.ValueRef) llvm.ValueRef {
	return b.guardValue(cx, "icmp", b.undefCmp(lhs), func() llvm.ValueRef {
		return b.be.ICmp(pred, lhs, rhs)
	})
}

func (b *Builder) FCmp(cx *Block, pred llvm.RealPredicate, lhs, rhs llvm.ValueRef) llvm.ValueRef {
	return b.guardValue(cx, "fcmp", b.undefCmp(lhs), func() llvm.ValueRef {
		return b.be.FCmp(pred, lhs, rhs)
	})
}

func (b *Builder) EmptyPhi(cx *Block, ty llvm.TypeRef) llvm.ValueRef {
	return b.guardValue(cx, "phi", b.undefType(ty), func() llvm.ValueRef {
		return b.be.Phi(ty)
	})
}

// Phi builds a phi with one incoming edge per (vals[i], blocks[i]). The
// lists must have equal length whether or not cx is reachable.
func (b *Builder) Phi(cx *Block, ty llvm.TypeRef, vals []llvm.ValueRef, blocks []*Block) llvm.ValueRef {
	if len(vals) != len(blocks) {
		panic(fmtBlockErr("phi", cx, fmt.Errorf("%d values, %d blocks: %w", len(vals), len(blocks), ErrPhiArity)))
	}
	return b.guardValue(cx, "phi", b.undefType(ty), func() llvm.ValueRef {
		phi := b.be.Phi(ty)
		b.be.AddIncoming(phi, vals, ids(blocks))
		return phi
	})
}

// AddIncomingToPhi adds one edge to phi; a placeholder phi ignores it.
func (b *Builder) AddIncomingToPhi(phi, val llvm.ValueRef, from *Block) {
	if b.be.IsUndef(phi) {
		return
	}
	b.be.AddIncoming(phi, []llvm.ValueRef{val}, []llvm.BlockRef{from.ID})
}

func (b *Builder) Select(cx *Block, cond, then, els llvm.ValueRef) llvm.ValueRef {
	return b.guardValue(cx, "select", b.undefOf(then), func() llvm.ValueRef {
		return b.be.Select(cond, then, els)
	})
}

func (b *Builder) VAArg(cx *Block, list llvm.ValueRef, ty llvm.TypeRef) llvm.ValueRef {
	return b.guardValue(cx, "va_arg", b.undefType(ty), func() llvm.ValueRef {
		return b.be.VAArg(list, ty)
	})
}

func (b *Builder) ExtractElement(cx *Block, vec, idx llvm.ValueRef) llvm.ValueRef {
	return b.guardValue(cx, "extractelement", b.undefMember(cx, vec, -1), func() llvm.ValueRef {
		return b.be.ExtractElement(vec, idx)
	})
}

func (b *Builder) InsertElement(cx *Block, vec, elt, idx llvm.ValueRef) llvm.ValueRef {
	return b.guardValue(cx, "insertelement", b.undefOf(vec), func() llvm.ValueRef {
		return b.be.InsertElement(vec, elt, idx)
	})
}

func (b *Builder) ShuffleVector(cx *Block, v1, v2, mask llvm.ValueRef) llvm.ValueRef {
	return b.guardValue(cx, "shufflevector", b.undefShuffle(v1, mask), func() llvm.ValueRef {
		return b.be.ShuffleVector(v1, v2, mask)
	})
}

func (b *Builder) ExtractValue(cx *Block, agg llvm.ValueRef, idx int) llvm.ValueRef {
	return b.guardValue(cx, "extractvalue", b.undefMember(cx, agg, int64(idx)), func() llvm.ValueRef {
		return b.be.ExtractValue(agg, uint64(idx))
	})
}

func (b *Builder) InsertValue(cx *Block, agg, elt llvm.ValueRef, idx int) llvm.ValueRef {
	return b.guardValue(cx, "insertvalue", b.undefOf(agg), func() llvm.ValueRef {
		return b.be.InsertValue(agg, elt, uint64(idx))
	})
}

func (b *Builder) IsNull(cx *Block, v llvm.ValueRef) llvm.ValueRef {
	return b.guardValue(cx, "isnull", b.undefCmp(v), func() llvm.ValueRef {
		return b.be.IsNull(v)
	})
}

func (b *Builder) IsNotNull(cx *Block, v llvm.ValueRef) llvm.ValueRef {
	return b.guardValue(cx, "isnotnull", b.undefCmp(v), func() llvm.ValueRef {
		return b.be.IsNotNull(v)
	})
}

// PtrDiff returns the element distance between two pointers as a
// pointer-sized integer.
func (b *Builder) PtrDiff(cx *Block, lhs, rhs llvm.ValueRef) llvm.ValueRef {
	return b.guardValue(cx, "ptrdiff", b.undefType(b.be.IntPtr()), func() llvm.ValueRef {
		return b.be.PtrDiff(lhs, rhs)
	})
}

// Trap calls the trap intrinsic, which the module must already declare.
func (b *Builder) Trap(cx *Block) {
	b.guardVoid(cx, "trap", func() {
		fn, ok := b.be.LookupFunction(llvm.TrapIntrinsic)
		if !ok {
			panic(fmtBlockErr("trap", cx, ErrNoTrap))
		}
		b.be.Call(fn, nil, llvm.CallConvDefault)
	})
}

// Call uses the calling convention the builder was configured with.
func (b *Builder) Call(cx *Block, fn llvm.ValueRef, args []llvm.ValueRef) llvm.ValueRef {
	return b.CallWithConv(cx, fn, args, b.opts.CallConv)
}

func (b *Builder) FastCall(cx *Block, fn llvm.ValueRef, args []llvm.ValueRef) llvm.ValueRef {
	return b.CallWithConv(cx, fn, args, llvm.CallConvFast)
}

func (b *Builder) CallWithConv(cx *Block, fn llvm.ValueRef, args []llvm.ValueRef, conv llvm.CallConv) llvm.ValueRef {
	return b.guardValue(cx, "call", b.undefReturn(cx, fn), func() llvm.ValueRef {
		return b.be.Call(fn, args, conv)
	})
}
