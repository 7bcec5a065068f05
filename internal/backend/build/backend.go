package build

import "irbuild/internal/backend/llvm"

// TypeOracle answers the type questions placeholder synthesis needs.
type TypeOracle interface {
	Undef(t llvm.TypeRef) llvm.ValueRef
	IsUndef(v llvm.ValueRef) bool
	TypeOf(v llvm.ValueRef) llvm.TypeRef
	TypeKind(t llvm.TypeRef) llvm.TypeKind
	ElementType(t llvm.TypeRef) llvm.TypeRef
	ReturnType(fnType llvm.TypeRef) llvm.TypeRef
	IndexedType(t llvm.TypeRef, idx uint64) llvm.TypeRef
	GEPResultType(ptr llvm.ValueRef, indices []llvm.ValueRef) llvm.TypeRef
	VectorLen(t llvm.TypeRef) int
	IntBits(t llvm.TypeRef) int
	FloatBits(t llvm.TypeRef) int

	Void() llvm.TypeRef
	I1() llvm.TypeRef
	I32() llvm.TypeRef
	IntPtr() llvm.TypeRef
	BytePtr() llvm.TypeRef
	Vector(n int, elem llvm.TypeRef) llvm.TypeRef
	FuncType(ret llvm.TypeRef, params ...llvm.TypeRef) llvm.TypeRef
	ConstInt(t llvm.TypeRef, x int64) llvm.ValueRef
}

// Instrs appends instructions at the backend cursor.
type Instrs interface {
	PositionAtEnd(b llvm.BlockRef)

	RetVoid()
	Ret(v llvm.ValueRef)
	AggregateRet(vals []llvm.ValueRef)
	Br(dest llvm.BlockRef)
	CondBr(cond llvm.ValueRef, then, els llvm.BlockRef)
	Switch(v llvm.ValueRef, els llvm.BlockRef, numCases int) llvm.ValueRef
	AddCase(sw, onVal llvm.ValueRef, dest llvm.BlockRef)
	IndirectBr(addr llvm.ValueRef, dests []llvm.BlockRef)
	Invoke(fn llvm.ValueRef, args []llvm.ValueRef, then, catch llvm.BlockRef, conv llvm.CallConv) llvm.ValueRef
	Unreachable()
	Resume(exn llvm.ValueRef)
	LandingPad(ty llvm.TypeRef, pers llvm.ValueRef, numClauses int) llvm.ValueRef
	SetCleanup(lp llvm.ValueRef)

	Binary(op llvm.Opcode, flags llvm.ArithFlags, lhs, rhs llvm.ValueRef) llvm.ValueRef
	Neg(flags llvm.ArithFlags, v llvm.ValueRef) llvm.ValueRef
	FNeg(v llvm.ValueRef) llvm.ValueRef
	Not(v llvm.ValueRef) llvm.ValueRef
	Cast(op llvm.Opcode, v llvm.ValueRef, dest llvm.TypeRef) llvm.ValueRef
	ICmp(pred llvm.IntPredicate, lhs, rhs llvm.ValueRef) llvm.ValueRef
	FCmp(pred llvm.RealPredicate, lhs, rhs llvm.ValueRef) llvm.ValueRef

	Malloc(ty llvm.TypeRef, count llvm.ValueRef) llvm.ValueRef
	Alloca(ty llvm.TypeRef, count llvm.ValueRef) llvm.ValueRef
	Free(ptr llvm.ValueRef)
	Load(ptr llvm.ValueRef) llvm.ValueRef
	Store(val, ptr llvm.ValueRef)
	GEP(ptr llvm.ValueRef, indices []llvm.ValueRef, inBounds bool) llvm.ValueRef
	StructGEP(ptr llvm.ValueRef, idx int) llvm.ValueRef
	GlobalString(s string) llvm.ValueRef
	GlobalStringPtr(s string) llvm.ValueRef

	Phi(ty llvm.TypeRef) llvm.ValueRef
	AddIncoming(phi llvm.ValueRef, vals []llvm.ValueRef, bbs []llvm.BlockRef)
	Select(cond, then, els llvm.ValueRef) llvm.ValueRef
	VAArg(list llvm.ValueRef, ty llvm.TypeRef) llvm.ValueRef
	ExtractElement(vec, idx llvm.ValueRef) llvm.ValueRef
	InsertElement(vec, elt, idx llvm.ValueRef) llvm.ValueRef
	ShuffleVector(v1, v2, mask llvm.ValueRef) llvm.ValueRef
	ExtractValue(agg llvm.ValueRef, idx uint64) llvm.ValueRef
	InsertValue(agg, elt llvm.ValueRef, idx uint64) llvm.ValueRef
	IsNull(v llvm.ValueRef) llvm.ValueRef
	IsNotNull(v llvm.ValueRef) llvm.ValueRef
	PtrDiff(lhs, rhs llvm.ValueRef) llvm.ValueRef
	Call(fn llvm.ValueRef, args []llvm.ValueRef, conv llvm.CallConv) llvm.ValueRef
	InlineAsm(fnTy llvm.TypeRef, asm, constraint string) llvm.ValueRef
}

// Backend is the SSA IR builder the facade drives. *llvm.Builder implements it.
type Backend interface {
	TypeOracle
	Instrs

	AppendBlock(fn llvm.ValueRef, name string) llvm.BlockRef
	LookupFunction(name string) (llvm.ValueRef, bool)
}

var _ Backend = (*llvm.Builder)(nil)
