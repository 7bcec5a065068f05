package llvm

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

func (c *Context) pointee(x value.Value) *types.PointerType {
	pt, ok := x.Type().(*types.PointerType)
	if !ok {
		panic(fmt.Errorf("%s is not a pointer: %w", x, ErrBadHandle))
	}
	return pt
}

// sizeOf is the target-independent `ptrtoint (T* gep (T* null, 1))` idiom.
func (c *Context) sizeOf(t types.Type) constant.Constant {
	one := constant.NewInt(types.I32, 1)
	end := constant.NewGetElementPtr(t, constant.NewNull(types.NewPointer(t)), one)
	return constant.NewPtrToInt(end, c.intType)
}

// fitInt converts an integer value to the context's pointer-sized integer.
func (b *Builder) fitInt(x value.Value) value.Value {
	it, ok := x.Type().(*types.IntType)
	if !ok {
		panic(fmt.Errorf("%s is not an integer: %w", x, ErrBadHandle))
	}
	switch {
	case it.BitSize < b.intType.BitSize:
		return b.cursor().NewZExt(x, b.intType)
	case it.BitSize > b.intType.BitSize:
		return b.cursor().NewTrunc(x, b.intType)
	default:
		return x
	}
}

// Malloc calls malloc for one ty, or count of them when count is set, and
// casts the result to ty*.
func (b *Builder) Malloc(ty TypeRef, count ValueRef) ValueRef {
	t := b.typ(ty)
	bytePtr := types.NewPointer(types.I8)
	malloc := b.runtimeFunc("malloc", bytePtr, b.intType)
	var size value.Value = b.sizeOf(t)
	if count != NoValue {
		size = b.cursor().NewMul(size, b.fitInt(b.value(count)))
	}
	raw := b.cursor().NewCall(malloc, size)
	return b.addSlot(b.cursor().NewBitCast(raw, types.NewPointer(t)))
}

// Free calls free on ptr, casting it to i8* first when needed.
func (b *Builder) Free(ptr ValueRef) {
	x := b.value(ptr)
	bytePtr := types.NewPointer(types.I8)
	free := b.runtimeFunc("free", types.Void, bytePtr)
	if !x.Type().Equal(bytePtr) {
		x = b.cursor().NewBitCast(x, bytePtr)
	}
	b.cursor().NewCall(free, x)
}

// Alloca reserves stack space for one ty, or count of them when count is set.
func (b *Builder) Alloca(ty TypeRef, count ValueRef) ValueRef {
	a := b.cursor().NewAlloca(b.typ(ty))
	if count != NoValue {
		a.NElems = b.value(count)
	}
	return b.addSlot(a)
}

func (b *Builder) Load(ptr ValueRef) ValueRef {
	x := b.value(ptr)
	return b.addSlot(b.cursor().NewLoad(b.pointee(x).ElemType, x))
}

func (b *Builder) Store(val, ptr ValueRef) {
	b.cursor().NewStore(b.value(val), b.value(ptr))
}

func (b *Builder) GEP(ptr ValueRef, indices []ValueRef, inBounds bool) ValueRef {
	x := b.value(ptr)
	g := b.cursor().NewGetElementPtr(b.pointee(x).ElemType, x, b.values(indices)...)
	g.InBounds = inBounds
	return b.addSlot(g)
}

// StructGEP addresses field idx of the struct ptr points to.
func (b *Builder) StructGEP(ptr ValueRef, idx int) ValueRef {
	x := b.value(ptr)
	g := b.cursor().NewGetElementPtr(b.pointee(x).ElemType, x,
		constant.NewInt(types.I32, 0), constant.NewInt(types.I32, int64(idx)))
	g.InBounds = true
	return b.addSlot(g)
}

func (b *Builder) globalString(s string) (*ir.Global, constant.Constant) {
	data := constant.NewCharArrayFromString(s + "\x00")
	name := fmt.Sprintf(".str.%d", b.strSeq)
	b.strSeq++
	g := b.mod.NewGlobalDef(name, data)
	g.Immutable = true
	g.Linkage = enum.LinkagePrivate
	return g, data
}

// GlobalString materializes s as a private constant [N x i8] global.
func (b *Builder) GlobalString(s string) ValueRef {
	g, _ := b.globalString(s)
	return b.addSlot(g)
}

// GlobalStringPtr materializes s and returns an i8* to its first byte.
func (b *Builder) GlobalStringPtr(s string) ValueRef {
	g, data := b.globalString(s)
	zero := constant.NewInt(types.I32, 0)
	gep := constant.NewGetElementPtr(data.Type(), g, zero, zero)
	gep.InBounds = true
	return b.addSlot(gep)
}

func (b *Builder) nullOf(x value.Value) constant.Constant {
	if pt, ok := x.Type().(*types.PointerType); ok {
		return constant.NewNull(pt)
	}
	return zeroOf(x.Type())
}

func (b *Builder) IsNull(v ValueRef) ValueRef {
	x := b.value(v)
	return b.addSlot(b.cursor().NewICmp(enum.IPredEQ, x, b.nullOf(x)))
}

func (b *Builder) IsNotNull(v ValueRef) ValueRef {
	x := b.value(v)
	return b.addSlot(b.cursor().NewICmp(enum.IPredNE, x, b.nullOf(x)))
}

// PtrDiff returns (lhs - rhs) / sizeof(*lhs) as a pointer-sized integer.
func (b *Builder) PtrDiff(lhs, rhs ValueRef) ValueRef {
	x, y := b.value(lhs), b.value(rhs)
	blk := b.cursor()
	xi := blk.NewPtrToInt(x, b.intType)
	yi := blk.NewPtrToInt(y, b.intType)
	diff := blk.NewSub(xi, yi)
	q := blk.NewSDiv(diff, b.sizeOf(b.pointee(x).ElemType))
	q.Exact = true
	return b.addSlot(q)
}

// Phi appends a phi of type ty without incoming edges.
func (b *Builder) Phi(ty TypeRef) ValueRef {
	p := b.cursor().NewPhi()
	p.Typ = b.typ(ty)
	return b.addSlot(p)
}

// AddIncoming appends (vals[i], bbs[i]) edges to a phi.
func (b *Builder) AddIncoming(phi ValueRef, vals []ValueRef, bbs []BlockRef) {
	p, ok := b.slot(phi).(*ir.InstPhi)
	if !ok {
		panic(fmt.Errorf("value %d is not a phi: %w", phi, ErrBadHandle))
	}
	if len(vals) != len(bbs) {
		panic(fmt.Errorf("phi incoming %d values, %d blocks: %w", len(vals), len(bbs), ErrBadHandle))
	}
	for i := range vals {
		p.Incs = append(p.Incs, ir.NewIncoming(b.value(vals[i]), b.block(bbs[i])))
	}
}

func (b *Builder) ExtractElement(vec, idx ValueRef) ValueRef {
	return b.addSlot(b.cursor().NewExtractElement(b.value(vec), b.value(idx)))
}

func (b *Builder) InsertElement(vec, elt, idx ValueRef) ValueRef {
	return b.addSlot(b.cursor().NewInsertElement(b.value(vec), b.value(elt), b.value(idx)))
}

func (b *Builder) ShuffleVector(v1, v2, mask ValueRef) ValueRef {
	return b.addSlot(b.cursor().NewShuffleVector(b.value(v1), b.value(v2), b.value(mask)))
}

func (b *Builder) ExtractValue(agg ValueRef, idx uint64) ValueRef {
	return b.addSlot(b.cursor().NewExtractValue(b.value(agg), idx))
}

func (b *Builder) InsertValue(agg, elt ValueRef, idx uint64) ValueRef {
	return b.addSlot(b.cursor().NewInsertValue(b.value(agg), b.value(elt), idx))
}
