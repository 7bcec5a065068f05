package build

import "irbuild/internal/backend/llvm"

// Allocation placeholders are untyped i8* values: nothing on a dead path
// ever needs the precise element type of a failed allocation.

func (b *Builder) Malloc(cx *Block, ty llvm.TypeRef) llvm.ValueRef {
	return b.guardValue(cx, "malloc", b.undefBytePtr, func() llvm.ValueRef {
		return b.be.Malloc(ty, llvm.NoValue)
	})
}

func (b *Builder) ArrayMalloc(cx *Block, ty llvm.TypeRef, count llvm.ValueRef) llvm.ValueRef {
	return b.guardValue(cx, "malloc", b.undefBytePtr, func() llvm.ValueRef {
		return b.be.Malloc(ty, count)
	})
}

func (b *Builder) Alloca(cx *Block, ty llvm.TypeRef) llvm.ValueRef {
	return b.guardValue(cx, "alloca", b.undefBytePtr, func() llvm.ValueRef {
		return b.be.Alloca(ty, llvm.NoValue)
	})
}

func (b *Builder) ArrayAlloca(cx *Block, ty llvm.TypeRef, count llvm.ValueRef) llvm.ValueRef {
	return b.guardValue(cx, "alloca", b.undefBytePtr, func() llvm.ValueRef {
		return b.be.Alloca(ty, count)
	})
}

func (b *Builder) Free(cx *Block, ptr llvm.ValueRef) {
	b.guardVoid(cx, "free", func() { b.be.Free(ptr) })
}

func (b *Builder) Load(cx *Block, ptr llvm.ValueRef) llvm.ValueRef {
	return b.guardValue(cx, "load", b.undefLoad(cx, ptr), func() llvm.ValueRef {
		return b.be.Load(ptr)
	})
}

func (b *Builder) Store(cx *Block, val, ptr llvm.ValueRef) {
	b.guardVoid(cx, "store", func() {
		b.be.Store(val, ptr)
	})
}

func (b *Builder) GEP(cx *Block, ptr llvm.ValueRef, indices []llvm.ValueRef) llvm.ValueRef {
	return b.guardValue(cx, "getelementptr", b.undefGEP(ptr, indices), func() llvm.ValueRef {
		return b.be.GEP(ptr, indices, false)
	})
}

func (b *Builder) InBoundsGEP(cx *Block, ptr llvm.ValueRef, indices []llvm.ValueRef) llvm.ValueRef {
	return b.guardValue(cx, "getelementptr", b.undefGEP(ptr, indices), func() llvm.ValueRef {
		return b.be.GEP(ptr, indices, true)
	})
}

// GEPi is InBoundsGEP over constant i32 indices.
func (b *Builder) GEPi(cx *Block, base llvm.ValueRef, ixs []int) llvm.ValueRef {
	return b.InBoundsGEP(cx, base, b.i32s(ixs))
}

func (b *Builder) i32s(ixs []int) []llvm.ValueRef {
	out := make([]llvm.ValueRef, len(ixs))
	for i, x := range ixs {
		out[i] = b.be.ConstInt(b.be.I32(), int64(x))
	}
	return out
}

// StructGEP addresses field idx of the aggregate ptr points to.
func (b *Builder) StructGEP(cx *Block, ptr llvm.ValueRef, idx int) llvm.ValueRef {
	return b.guardValue(cx, "getelementptr", b.undefGEP(ptr, b.i32s([]int{0, idx})), func() llvm.ValueRef {
		return b.be.StructGEP(ptr, idx)
	})
}

func (b *Builder) GlobalString(cx *Block, s string) llvm.ValueRef {
	return b.guardValue(cx, "global string", b.undefBytePtr, func() llvm.ValueRef {
		return b.be.GlobalString(s)
	})
}

func (b *Builder) GlobalStringPtr(cx *Block, s string) llvm.ValueRef {
	return b.guardValue(cx, "global string", b.undefBytePtr, func() llvm.ValueRef {
		return b.be.GlobalStringPtr(s)
	})
}
