package build

import "irbuild/internal/backend/llvm"

// Cast emits the conversion op. Placeholders take the destination type.
func (b *Builder) Cast(cx *Block, op llvm.Opcode, v llvm.ValueRef, dest llvm.TypeRef) llvm.ValueRef {
	return b.guardValue(cx, op.String(), b.undefType(dest), func() llvm.ValueRef {
		return b.be.Cast(op, v, dest)
	})
}

func (b *Builder) Trunc(cx *Block, v llvm.ValueRef, dest llvm.TypeRef) llvm.ValueRef {
	return b.Cast(cx, llvm.OpTrunc, v, dest)
}

func (b *Builder) ZExt(cx *Block, v llvm.ValueRef, dest llvm.TypeRef) llvm.ValueRef {
	return b.Cast(cx, llvm.OpZExt, v, dest)
}

func (b *Builder) SExt(cx *Block, v llvm.ValueRef, dest llvm.TypeRef) llvm.ValueRef {
	return b.Cast(cx, llvm.OpSExt, v, dest)
}

func (b *Builder) FPToUI(cx *Block, v llvm.ValueRef, dest llvm.TypeRef) llvm.ValueRef {
	return b.Cast(cx, llvm.OpFPToUI, v, dest)
}

func (b *Builder) FPToSI(cx *Block, v llvm.ValueRef, dest llvm.TypeRef) llvm.ValueRef {
	return b.Cast(cx, llvm.OpFPToSI, v, dest)
}

func (b *Builder) UIToFP(cx *Block, v llvm.ValueRef, dest llvm.TypeRef) llvm.ValueRef {
	return b.Cast(cx, llvm.OpUIToFP, v, dest)
}

func (b *Builder) SIToFP(cx *Block, v llvm.ValueRef, dest llvm.TypeRef) llvm.ValueRef {
	return b.Cast(cx, llvm.OpSIToFP, v, dest)
}

func (b *Builder) FPTrunc(cx *Block, v llvm.ValueRef, dest llvm.TypeRef) llvm.ValueRef {
	return b.Cast(cx, llvm.OpFPTrunc, v, dest)
}

func (b *Builder) FPExt(cx *Block, v llvm.ValueRef, dest llvm.TypeRef) llvm.ValueRef {
	return b.Cast(cx, llvm.OpFPExt, v, dest)
}

func (b *Builder) PtrToInt(cx *Block, v llvm.ValueRef, dest llvm.TypeRef) llvm.ValueRef {
	return b.Cast(cx, llvm.OpPtrToInt, v, dest)
}

func (b *Builder) IntToPtr(cx *Block, v llvm.ValueRef, dest llvm.TypeRef) llvm.ValueRef {
	return b.Cast(cx, llvm.OpIntToPtr, v, dest)
}

func (b *Builder) BitCast(cx *Block, v llvm.ValueRef, dest llvm.TypeRef) llvm.ValueRef {
	return b.Cast(cx, llvm.OpBitCast, v, dest)
}

func (b *Builder) sameIntWidth(v llvm.ValueRef, dest llvm.TypeRef) bool {
	return b.be.IntBits(b.be.TypeOf(v)) == b.be.IntBits(dest)
}

// ZExtOrBitCast bitcasts between equal widths and zero-extends otherwise.
func (b *Builder) ZExtOrBitCast(cx *Block, v llvm.ValueRef, dest llvm.TypeRef) llvm.ValueRef {
	if b.sameIntWidth(v, dest) {
		return b.BitCast(cx, v, dest)
	}
	return b.ZExt(cx, v, dest)
}

func (b *Builder) SExtOrBitCast(cx *Block, v llvm.ValueRef, dest llvm.TypeRef) llvm.ValueRef {
	if b.sameIntWidth(v, dest) {
		return b.BitCast(cx, v, dest)
	}
	return b.SExt(cx, v, dest)
}

func (b *Builder) TruncOrBitCast(cx *Block, v llvm.ValueRef, dest llvm.TypeRef) llvm.ValueRef {
	if b.sameIntWidth(v, dest) {
		return b.BitCast(cx, v, dest)
	}
	return b.Trunc(cx, v, dest)
}

// PointerCast converts a pointer to an integer or to another pointer type.
func (b *Builder) PointerCast(cx *Block, v llvm.ValueRef, dest llvm.TypeRef) llvm.ValueRef {
	if b.be.TypeKind(dest) == llvm.KindInt {
		return b.PtrToInt(cx, v, dest)
	}
	return b.BitCast(cx, v, dest)
}

// IntCast resizes a signed integer: truncating, sign-extending, or passing
// v through unchanged when the widths already agree.
func (b *Builder) IntCast(cx *Block, v llvm.ValueRef, dest llvm.TypeRef) llvm.ValueRef {
	from, to := b.be.IntBits(b.be.TypeOf(v)), b.be.IntBits(dest)
	switch {
	case from > to:
		return b.Trunc(cx, v, dest)
	case from < to:
		return b.SExt(cx, v, dest)
	}
	if cx.unreachable {
		b.stats.Suppressed++
		return b.be.Undef(dest)
	}
	b.assertOpen(cx, "intcast")
	return v
}

// FPCast resizes a floating-point value, passing v through when the
// precisions agree.
func (b *Builder) FPCast(cx *Block, v llvm.ValueRef, dest llvm.TypeRef) llvm.ValueRef {
	from, to := b.be.FloatBits(b.be.TypeOf(v)), b.be.FloatBits(dest)
	switch {
	case from > to:
		return b.FPTrunc(cx, v, dest)
	case from < to:
		return b.FPExt(cx, v, dest)
	}
	if cx.unreachable {
		b.stats.Suppressed++
		return b.be.Undef(dest)
	}
	b.assertOpen(cx, "fpcast")
	return v
}
