package llvm

import "github.com/llir/llvm/ir/enum"

// TypeKind classifies a backend type.
type TypeKind uint8

const (
	KindOther TypeKind = iota
	KindVoid
	KindInt
	KindFloat
	KindPointer
	KindFunc
	KindStruct
	KindArray
	KindVector
	KindLabel
)

var typeKindNames = [...]string{
	KindOther:   "other",
	KindVoid:    "void",
	KindInt:     "int",
	KindFloat:   "float",
	KindPointer: "pointer",
	KindFunc:    "func",
	KindStruct:  "struct",
	KindArray:   "array",
	KindVector:  "vector",
	KindLabel:   "label",
}

func (k TypeKind) String() string {
	if int(k) < len(typeKindNames) {
		return typeKindNames[k]
	}
	return "unknown"
}

// Opcode names a binary or cast instruction.
type Opcode uint8

const (
	OpInvalid Opcode = iota

	// binary
	OpAdd
	OpFAdd
	OpSub
	OpFSub
	OpMul
	OpFMul
	OpUDiv
	OpSDiv
	OpFDiv
	OpURem
	OpSRem
	OpFRem
	OpShl
	OpLShr
	OpAShr
	OpAnd
	OpOr
	OpXor

	// casts
	OpTrunc
	OpZExt
	OpSExt
	OpFPToUI
	OpFPToSI
	OpUIToFP
	OpSIToFP
	OpFPTrunc
	OpFPExt
	OpPtrToInt
	OpIntToPtr
	OpBitCast
)

var opcodeNames = [...]string{
	OpInvalid:  "invalid",
	OpAdd:      "add",
	OpFAdd:     "fadd",
	OpSub:      "sub",
	OpFSub:     "fsub",
	OpMul:      "mul",
	OpFMul:     "fmul",
	OpUDiv:     "udiv",
	OpSDiv:     "sdiv",
	OpFDiv:     "fdiv",
	OpURem:     "urem",
	OpSRem:     "srem",
	OpFRem:     "frem",
	OpShl:      "shl",
	OpLShr:     "lshr",
	OpAShr:     "ashr",
	OpAnd:      "and",
	OpOr:       "or",
	OpXor:      "xor",
	OpTrunc:    "trunc",
	OpZExt:     "zext",
	OpSExt:     "sext",
	OpFPToUI:   "fptoui",
	OpFPToSI:   "fptosi",
	OpUIToFP:   "uitofp",
	OpSIToFP:   "sitofp",
	OpFPTrunc:  "fptrunc",
	OpFPExt:    "fpext",
	OpPtrToInt: "ptrtoint",
	OpIntToPtr: "inttoptr",
	OpBitCast:  "bitcast",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return "unknown"
}

// IsBinary reports whether op is a two-operand arithmetic or bitwise opcode.
func (op Opcode) IsBinary() bool { return op >= OpAdd && op <= OpXor }

// IsCast reports whether op is a conversion opcode.
func (op Opcode) IsCast() bool { return op >= OpTrunc && op <= OpBitCast }

// ParseOpcode maps an instruction mnemonic back to its Opcode.
func ParseOpcode(s string) (Opcode, bool) {
	for i, name := range opcodeNames {
		if i != int(OpInvalid) && name == s {
			return Opcode(i), true
		}
	}
	return OpInvalid, false
}

// ArithFlags carries the poison-generating flags of an arithmetic instruction.
type ArithFlags uint8

const (
	FlagNSW ArithFlags = 1 << iota
	FlagNUW
	FlagExact
)

func (f ArithFlags) overflow() []enum.OverflowFlag {
	var out []enum.OverflowFlag
	if f&FlagNUW != 0 {
		out = append(out, enum.OverflowFlagNUW)
	}
	if f&FlagNSW != 0 {
		out = append(out, enum.OverflowFlagNSW)
	}
	return out
}

// IntPredicate selects the comparison performed by icmp.
type IntPredicate uint8

const (
	IntEQ IntPredicate = iota
	IntNE
	IntUGT
	IntUGE
	IntULT
	IntULE
	IntSGT
	IntSGE
	IntSLT
	IntSLE
)

var intPreds = [...]enum.IPred{
	IntEQ:  enum.IPredEQ,
	IntNE:  enum.IPredNE,
	IntUGT: enum.IPredUGT,
	IntUGE: enum.IPredUGE,
	IntULT: enum.IPredULT,
	IntULE: enum.IPredULE,
	IntSGT: enum.IPredSGT,
	IntSGE: enum.IPredSGE,
	IntSLT: enum.IPredSLT,
	IntSLE: enum.IPredSLE,
}

var intPredNames = [...]string{"eq", "ne", "ugt", "uge", "ult", "ule", "sgt", "sge", "slt", "sle"}

func (p IntPredicate) String() string {
	if int(p) < len(intPredNames) {
		return intPredNames[p]
	}
	return "unknown"
}

// ParseIntPredicate maps an icmp condition code to its predicate.
func ParseIntPredicate(s string) (IntPredicate, bool) {
	for i, name := range intPredNames {
		if name == s {
			return IntPredicate(i), true
		}
	}
	return IntEQ, false
}

// RealPredicate selects the comparison performed by fcmp.
type RealPredicate uint8

const (
	RealFalse RealPredicate = iota
	RealOEQ
	RealOGT
	RealOGE
	RealOLT
	RealOLE
	RealONE
	RealORD
	RealUNO
	RealUEQ
	RealUGT
	RealUGE
	RealULT
	RealULE
	RealUNE
	RealTrue
)

var realPreds = [...]enum.FPred{
	RealFalse: enum.FPredFalse,
	RealOEQ:   enum.FPredOEQ,
	RealOGT:   enum.FPredOGT,
	RealOGE:   enum.FPredOGE,
	RealOLT:   enum.FPredOLT,
	RealOLE:   enum.FPredOLE,
	RealONE:   enum.FPredONE,
	RealORD:   enum.FPredORD,
	RealUNO:   enum.FPredUNO,
	RealUEQ:   enum.FPredUEQ,
	RealUGT:   enum.FPredUGT,
	RealUGE:   enum.FPredUGE,
	RealULT:   enum.FPredULT,
	RealULE:   enum.FPredULE,
	RealUNE:   enum.FPredUNE,
	RealTrue:  enum.FPredTrue,
}

var realPredNames = [...]string{
	"false", "oeq", "ogt", "oge", "olt", "ole", "one", "ord",
	"uno", "ueq", "ugt", "uge", "ult", "ule", "une", "true",
}

func (p RealPredicate) String() string {
	if int(p) < len(realPredNames) {
		return realPredNames[p]
	}
	return "unknown"
}

// ParseRealPredicate maps an fcmp condition code to its predicate.
func ParseRealPredicate(s string) (RealPredicate, bool) {
	for i, name := range realPredNames {
		if name == s {
			return RealPredicate(i), true
		}
	}
	return RealFalse, false
}

// CallConv is the calling convention attached to call and invoke.
type CallConv uint8

const (
	CallConvDefault CallConv = iota // leave unset
	CallConvC
	CallConvFast
	CallConvCold
)

func (c CallConv) String() string {
	switch c {
	case CallConvDefault:
		return "default"
	case CallConvC:
		return "c"
	case CallConvFast:
		return "fast"
	case CallConvCold:
		return "cold"
	default:
		return "unknown"
	}
}

// ParseCallConv converts a configuration string to a CallConv.
func ParseCallConv(s string) (CallConv, bool) {
	switch s {
	case "", "default":
		return CallConvDefault, true
	case "c", "ccc":
		return CallConvC, true
	case "fast", "fastcc":
		return CallConvFast, true
	case "cold", "coldcc":
		return CallConvCold, true
	default:
		return CallConvDefault, false
	}
}

func (c CallConv) enum() enum.CallingConv {
	switch c {
	case CallConvC:
		return enum.CallingConvC
	case CallConvFast:
		return enum.CallingConvFast
	case CallConvCold:
		return enum.CallingConvCold
	default:
		return enum.CallingConvNone
	}
}
