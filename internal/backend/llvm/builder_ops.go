package llvm

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Binary appends the two-operand instruction op. flags apply where the
// instruction accepts them and are ignored otherwise.
func (b *Builder) Binary(op Opcode, flags ArithFlags, lhs, rhs ValueRef) ValueRef {
	x, y := b.value(lhs), b.value(rhs)
	blk := b.cursor()
	var inst value.Value
	switch op {
	case OpAdd:
		i := blk.NewAdd(x, y)
		i.OverflowFlags = flags.overflow()
		inst = i
	case OpSub:
		i := blk.NewSub(x, y)
		i.OverflowFlags = flags.overflow()
		inst = i
	case OpMul:
		i := blk.NewMul(x, y)
		i.OverflowFlags = flags.overflow()
		inst = i
	case OpShl:
		i := blk.NewShl(x, y)
		i.OverflowFlags = flags.overflow()
		inst = i
	case OpFAdd:
		inst = blk.NewFAdd(x, y)
	case OpFSub:
		inst = blk.NewFSub(x, y)
	case OpFMul:
		inst = blk.NewFMul(x, y)
	case OpUDiv:
		i := blk.NewUDiv(x, y)
		i.Exact = flags&FlagExact != 0
		inst = i
	case OpSDiv:
		i := blk.NewSDiv(x, y)
		i.Exact = flags&FlagExact != 0
		inst = i
	case OpFDiv:
		inst = blk.NewFDiv(x, y)
	case OpURem:
		inst = blk.NewURem(x, y)
	case OpSRem:
		inst = blk.NewSRem(x, y)
	case OpFRem:
		inst = blk.NewFRem(x, y)
	case OpLShr:
		i := blk.NewLShr(x, y)
		i.Exact = flags&FlagExact != 0
		inst = i
	case OpAShr:
		i := blk.NewAShr(x, y)
		i.Exact = flags&FlagExact != 0
		inst = i
	case OpAnd:
		inst = blk.NewAnd(x, y)
	case OpOr:
		inst = blk.NewOr(x, y)
	case OpXor:
		inst = blk.NewXor(x, y)
	default:
		panic(fmt.Errorf("opcode %s is not binary: %w", op, ErrBadHandle))
	}
	return b.addSlot(inst)
}

func zeroOf(t types.Type) constant.Constant {
	if it, ok := t.(*types.IntType); ok {
		return constant.NewInt(it, 0)
	}
	return constant.NewZeroInitializer(t)
}

// Neg appends `sub 0, v` carrying flags.
func (b *Builder) Neg(flags ArithFlags, v ValueRef) ValueRef {
	x := b.value(v)
	i := b.cursor().NewSub(zeroOf(x.Type()), x)
	i.OverflowFlags = flags.overflow()
	return b.addSlot(i)
}

func (b *Builder) FNeg(v ValueRef) ValueRef {
	return b.addSlot(b.cursor().NewFNeg(b.value(v)))
}

// Not appends `xor v, -1`.
func (b *Builder) Not(v ValueRef) ValueRef {
	x := b.value(v)
	it, ok := x.Type().(*types.IntType)
	if !ok {
		panic(fmt.Errorf("not of non-integer %s: %w", x.Type(), ErrBadHandle))
	}
	return b.addSlot(b.cursor().NewXor(x, constant.NewInt(it, -1)))
}

// Cast appends the conversion op from v to dest.
func (b *Builder) Cast(op Opcode, v ValueRef, dest TypeRef) ValueRef {
	x, to := b.value(v), b.typ(dest)
	blk := b.cursor()
	var inst value.Value
	switch op {
	case OpTrunc:
		inst = blk.NewTrunc(x, to)
	case OpZExt:
		inst = blk.NewZExt(x, to)
	case OpSExt:
		inst = blk.NewSExt(x, to)
	case OpFPToUI:
		inst = blk.NewFPToUI(x, to)
	case OpFPToSI:
		inst = blk.NewFPToSI(x, to)
	case OpUIToFP:
		inst = blk.NewUIToFP(x, to)
	case OpSIToFP:
		inst = blk.NewSIToFP(x, to)
	case OpFPTrunc:
		inst = blk.NewFPTrunc(x, to)
	case OpFPExt:
		inst = blk.NewFPExt(x, to)
	case OpPtrToInt:
		inst = blk.NewPtrToInt(x, to)
	case OpIntToPtr:
		inst = blk.NewIntToPtr(x, to)
	case OpBitCast:
		inst = blk.NewBitCast(x, to)
	default:
		panic(fmt.Errorf("opcode %s is not a cast: %w", op, ErrBadHandle))
	}
	return b.addSlot(inst)
}

func (b *Builder) ICmp(pred IntPredicate, lhs, rhs ValueRef) ValueRef {
	return b.addSlot(b.cursor().NewICmp(intPreds[pred], b.value(lhs), b.value(rhs)))
}

func (b *Builder) FCmp(pred RealPredicate, lhs, rhs ValueRef) ValueRef {
	return b.addSlot(b.cursor().NewFCmp(realPreds[pred], b.value(lhs), b.value(rhs)))
}

func (b *Builder) Select(cond, then, els ValueRef) ValueRef {
	return b.addSlot(b.cursor().NewSelect(b.value(cond), b.value(then), b.value(els)))
}

func (b *Builder) VAArg(list ValueRef, ty TypeRef) ValueRef {
	return b.addSlot(b.cursor().NewVAArg(b.value(list), b.typ(ty)))
}

// Call appends a call of fn. conv CallConvDefault leaves the convention unset.
func (b *Builder) Call(fn ValueRef, args []ValueRef, conv CallConv) ValueRef {
	call := b.cursor().NewCall(b.value(fn), b.values(args)...)
	if conv != CallConvDefault {
		call.CallingConv = conv.enum()
	}
	return b.addSlot(call)
}

// InlineAsm creates an inline assembly callee of function type fnTy.
func (b *Builder) InlineAsm(fnTy TypeRef, asm, constraint string) ValueRef {
	ft, ok := b.typ(fnTy).(*types.FuncType)
	if !ok {
		panic(fmt.Errorf("inline asm type %s is not a function: %w", b.typ(fnTy), ErrBadHandle))
	}
	in := ir.NewInlineAsm(types.NewPointer(ft), asm, constraint)
	return b.addSlot(in)
}
