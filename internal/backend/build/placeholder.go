package build

import "irbuild/internal/backend/llvm"

// Placeholder synthesis. Each helper returns an undefined value typed as the
// suppressed instruction would have been.

func (b *Builder) undefType(t llvm.TypeRef) func() llvm.ValueRef {
	return func() llvm.ValueRef { return b.be.Undef(t) }
}

func (b *Builder) undefOf(v llvm.ValueRef) func() llvm.ValueRef {
	return func() llvm.ValueRef { return b.be.Undef(b.be.TypeOf(v)) }
}

// undefCmp types a comparison of operand: i1, or a vector of i1 as wide as
// a vector operand.
func (b *Builder) undefCmp(operand llvm.ValueRef) func() llvm.ValueRef {
	return func() llvm.ValueRef {
		t := b.be.TypeOf(operand)
		if b.be.TypeKind(t) == llvm.KindVector {
			return b.be.Undef(b.be.Vector(b.be.VectorLen(t), b.be.I1()))
		}
		return b.be.Undef(b.be.I1())
	}
}

func (b *Builder) undefBytePtr() llvm.ValueRef { return b.be.Undef(b.be.BytePtr()) }

// undefReturn recovers the callee's result type through its function
// pointer type, falling back to the function's integer type.
func (b *Builder) undefReturn(cx *Block, fn llvm.ValueRef) func() llvm.ValueRef {
	return func() llvm.ValueRef {
		t := b.be.TypeOf(fn)
		if b.be.TypeKind(t) == llvm.KindPointer {
			t = b.be.ElementType(t)
		}
		if t != llvm.NoType && b.be.TypeKind(t) == llvm.KindFunc {
			return b.be.Undef(b.be.ReturnType(t))
		}
		return b.be.Undef(cx.intType(b.be))
	}
}

func (b *Builder) undefLoad(cx *Block, ptr llvm.ValueRef) func() llvm.ValueRef {
	return func() llvm.ValueRef {
		t := b.be.TypeOf(ptr)
		if b.be.TypeKind(t) == llvm.KindPointer {
			return b.be.Undef(b.be.ElementType(t))
		}
		return b.be.Undef(cx.intType(b.be))
	}
}

func (b *Builder) undefGEP(ptr llvm.ValueRef, indices []llvm.ValueRef) func() llvm.ValueRef {
	return func() llvm.ValueRef {
		if t := b.be.GEPResultType(ptr, indices); t != llvm.NoType {
			return b.be.Undef(t)
		}
		return b.undefBytePtr()
	}
}

// undefMember types the result of extracting member idx of agg; idx < 0
// means a dynamic index.
func (b *Builder) undefMember(cx *Block, agg llvm.ValueRef, idx int64) func() llvm.ValueRef {
	return func() llvm.ValueRef {
		t := b.be.TypeOf(agg)
		var m llvm.TypeRef
		if idx < 0 {
			m = b.be.ElementType(t)
		} else {
			m = b.be.IndexedType(t, uint64(idx))
		}
		if m == llvm.NoType {
			m = cx.intType(b.be)
		}
		return b.be.Undef(m)
	}
}

func (b *Builder) undefShuffle(v1, mask llvm.ValueRef) func() llvm.ValueRef {
	return func() llvm.ValueRef {
		vt := b.be.TypeOf(v1)
		n := b.be.VectorLen(b.be.TypeOf(mask))
		elem := b.be.ElementType(vt)
		if n == 0 || elem == llvm.NoType {
			return b.be.Undef(vt)
		}
		return b.be.Undef(b.be.Vector(n, elem))
	}
}
