package build

import "irbuild/internal/backend/llvm"

func (b *Builder) binary(cx *Block, op llvm.Opcode, flags llvm.ArithFlags, lhs, rhs llvm.ValueRef) llvm.ValueRef {
	return b.guardValue(cx, op.String(), b.undefOf(lhs), func() llvm.ValueRef {
		return b.be.Binary(op, flags, lhs, rhs)
	})
}

func (b *Builder) Add(cx *Block, lhs, rhs llvm.ValueRef) llvm.ValueRef {
	return b.binary(cx, llvm.OpAdd, 0, lhs, rhs)
}

func (b *Builder) NSWAdd(cx *Block, lhs, rhs llvm.ValueRef) llvm.ValueRef {
	return b.binary(cx, llvm.OpAdd, llvm.FlagNSW, lhs, rhs)
}

func (b *Builder) NUWAdd(cx *Block, lhs, rhs llvm.ValueRef) llvm.ValueRef {
	return b.binary(cx, llvm.OpAdd, llvm.FlagNUW, lhs, rhs)
}

func (b *Builder) FAdd(cx *Block, lhs, rhs llvm.ValueRef) llvm.ValueRef {
	return b.binary(cx, llvm.OpFAdd, 0, lhs, rhs)
}

func (b *Builder) Sub(cx *Block, lhs, rhs llvm.ValueRef) llvm.ValueRef {
	return b.binary(cx, llvm.OpSub, 0, lhs, rhs)
}

func (b *Builder) NSWSub(cx *Block, lhs, rhs llvm.ValueRef) llvm.ValueRef {
	return b.binary(cx, llvm.OpSub, llvm.FlagNSW, lhs, rhs)
}

func (b *Builder) NUWSub(cx *Block, lhs, rhs llvm.ValueRef) llvm.ValueRef {
	return b.binary(cx, llvm.OpSub, llvm.FlagNUW, lhs, rhs)
}

func (b *Builder) FSub(cx *Block, lhs, rhs llvm.ValueRef) llvm.ValueRef {
	return b.binary(cx, llvm.OpFSub, 0, lhs, rhs)
}

func (b *Builder) Mul(cx *Block, lhs, rhs llvm.ValueRef) llvm.ValueRef {
	return b.binary(cx, llvm.OpMul, 0, lhs, rhs)
}

func (b *Builder) NSWMul(cx *Block, lhs, rhs llvm.ValueRef) llvm.ValueRef {
	return b.binary(cx, llvm.OpMul, llvm.FlagNSW, lhs, rhs)
}

func (b *Builder) NUWMul(cx *Block, lhs, rhs llvm.ValueRef) llvm.ValueRef {
	return b.binary(cx, llvm.OpMul, llvm.FlagNUW, lhs, rhs)
}

func (b *Builder) FMul(cx *Block, lhs, rhs llvm.ValueRef) llvm.ValueRef {
	return b.binary(cx, llvm.OpFMul, 0, lhs, rhs)
}

func (b *Builder) UDiv(cx *Block, lhs, rhs llvm.ValueRef) llvm.ValueRef {
	return b.binary(cx, llvm.OpUDiv, 0, lhs, rhs)
}

func (b *Builder) SDiv(cx *Block, lhs, rhs llvm.ValueRef) llvm.ValueRef {
	return b.binary(cx, llvm.OpSDiv, 0, lhs, rhs)
}

func (b *Builder) ExactSDiv(cx *Block, lhs, rhs llvm.ValueRef) llvm.ValueRef {
	return b.binary(cx, llvm.OpSDiv, llvm.FlagExact, lhs, rhs)
}

func (b *Builder) FDiv(cx *Block, lhs, rhs llvm.ValueRef) llvm.ValueRef {
	return b.binary(cx, llvm.OpFDiv, 0, lhs, rhs)
}

func (b *Builder) URem(cx *Block, lhs, rhs llvm.ValueRef) llvm.ValueRef {
	return b.binary(cx, llvm.OpURem, 0, lhs, rhs)
}

func (b *Builder) SRem(cx *Block, lhs, rhs llvm.ValueRef) llvm.ValueRef {
	return b.binary(cx, llvm.OpSRem, 0, lhs, rhs)
}

func (b *Builder) FRem(cx *Block, lhs, rhs llvm.ValueRef) llvm.ValueRef {
	return b.binary(cx, llvm.OpFRem, 0, lhs, rhs)
}

func (b *Builder) Shl(cx *Block, lhs, rhs llvm.ValueRef) llvm.ValueRef {
	return b.binary(cx, llvm.OpShl, 0, lhs, rhs)
}

func (b *Builder) LShr(cx *Block, lhs, rhs llvm.ValueRef) llvm.ValueRef {
	return b.binary(cx, llvm.OpLShr, 0, lhs, rhs)
}

func (b *Builder) AShr(cx *Block, lhs, rhs llvm.ValueRef) llvm.ValueRef {
	return b.binary(cx, llvm.OpAShr, 0, lhs, rhs)
}

func (b *Builder) And(cx *Block, lhs, rhs llvm.ValueRef) llvm.ValueRef {
	return b.binary(cx, llvm.OpAnd, 0, lhs, rhs)
}

func (b *Builder) Or(cx *Block, lhs, rhs llvm.ValueRef) llvm.ValueRef {
	return b.binary(cx, llvm.OpOr, 0, lhs, rhs)
}

func (b *Builder) Xor(cx *Block, lhs, rhs llvm.ValueRef) llvm.ValueRef {
	return b.binary(cx, llvm.OpXor, 0, lhs, rhs)
}

// BinOp emits any binary opcode without flags.
func (b *Builder) BinOp(cx *Block, op llvm.Opcode, lhs, rhs llvm.ValueRef) llvm.ValueRef {
	return b.binary(cx, op, 0, lhs, rhs)
}

func (b *Builder) neg(cx *Block, flags llvm.ArithFlags, v llvm.ValueRef) llvm.ValueRef {
	return b.guardValue(cx, "neg", b.undefOf(v), func() llvm.ValueRef {
		return b.be.Neg(flags, v)
	})
}

func (b *Builder) Neg(cx *Block, v llvm.ValueRef) llvm.ValueRef { return b.neg(cx, 0, v) }

func (b *Builder) NSWNeg(cx *Block, v llvm.ValueRef) llvm.ValueRef {
	return b.neg(cx, llvm.FlagNSW, v)
}

func (b *Builder) NUWNeg(cx *Block, v llvm.ValueRef) llvm.ValueRef {
	return b.neg(cx, llvm.FlagNUW, v)
}

func (b *Builder) FNeg(cx *Block, v llvm.ValueRef) llvm.ValueRef {
	return b.guardValue(cx, "fneg", b.undefOf(v), func() llvm.ValueRef {
		return b.be.FNeg(v)
	})
}

func (b *Builder) Not(cx *Block, v llvm.ValueRef) llvm.ValueRef {
	return b.guardValue(cx, "not", b.undefOf(v), func() llvm.ValueRef {
		return b.be.Not(v)
	})
}
