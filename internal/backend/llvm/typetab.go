package llvm

import (
	"fmt"

	"fortio.org/safecast"
	"github.com/llir/llvm/ir/types"
)

func (c *Context) Void() TypeRef   { return c.internType(types.Void) }
func (c *Context) I1() TypeRef     { return c.internType(types.I1) }
func (c *Context) I8() TypeRef     { return c.internType(types.I8) }
func (c *Context) I32() TypeRef    { return c.internType(types.I32) }
func (c *Context) I64() TypeRef    { return c.internType(types.I64) }
func (c *Context) Float() TypeRef  { return c.internType(types.Float) }
func (c *Context) Double() TypeRef { return c.internType(types.Double) }

// IntPtr is the pointer-sized integer type chosen at construction.
func (c *Context) IntPtr() TypeRef { return c.internType(c.intType) }

// Int returns the integer type of the given bit width.
func (c *Context) Int(bits int) TypeRef {
	n, err := safecast.Conv[uint64](bits)
	if err != nil || n == 0 {
		panic(fmt.Errorf("integer width %d: %w", bits, ErrBadHandle))
	}
	return c.internType(types.NewInt(n))
}

// Ptr returns the pointer type whose pointee is elem.
func (c *Context) Ptr(elem TypeRef) TypeRef {
	return c.internType(types.NewPointer(c.typ(elem)))
}

// BytePtr is i8*.
func (c *Context) BytePtr() TypeRef { return c.Ptr(c.I8()) }

// FuncType returns the function signature ret(params...).
func (c *Context) FuncType(ret TypeRef, params ...TypeRef) TypeRef {
	ps := make([]types.Type, len(params))
	for i, p := range params {
		ps[i] = c.typ(p)
	}
	return c.internType(types.NewFunc(c.typ(ret), ps...))
}

// Struct returns the literal struct type with the given fields.
func (c *Context) Struct(fields ...TypeRef) TypeRef {
	fs := make([]types.Type, len(fields))
	for i, f := range fields {
		fs[i] = c.typ(f)
	}
	return c.internType(types.NewStruct(fs...))
}

// Array returns [n x elem].
func (c *Context) Array(n int, elem TypeRef) TypeRef {
	l, err := safecast.Conv[uint64](n)
	if err != nil {
		panic(fmt.Errorf("array length %d: %w", n, ErrBadHandle))
	}
	return c.internType(types.NewArray(l, c.typ(elem)))
}

// Vector returns <n x elem>.
func (c *Context) Vector(n int, elem TypeRef) TypeRef {
	l, err := safecast.Conv[uint64](n)
	if err != nil {
		panic(fmt.Errorf("vector length %d: %w", n, ErrBadHandle))
	}
	return c.internType(types.NewVector(l, c.typ(elem)))
}

// TypeString renders t in LLVM syntax.
func (c *Context) TypeString(t TypeRef) string { return c.typ(t).String() }

// SameType reports structural type equality.
func (c *Context) SameType(a, b TypeRef) bool {
	return c.typ(a).Equal(c.typ(b))
}

// TypeOf returns the type of v.
func (c *Context) TypeOf(v ValueRef) TypeRef { return c.internType(c.value(v).Type()) }

// TypeKind classifies t.
func (c *Context) TypeKind(t TypeRef) TypeKind {
	switch c.typ(t).(type) {
	case *types.VoidType:
		return KindVoid
	case *types.IntType:
		return KindInt
	case *types.FloatType:
		return KindFloat
	case *types.PointerType:
		return KindPointer
	case *types.FuncType:
		return KindFunc
	case *types.StructType:
		return KindStruct
	case *types.ArrayType:
		return KindArray
	case *types.VectorType:
		return KindVector
	case *types.LabelType:
		return KindLabel
	default:
		return KindOther
	}
}

// ElementType returns the pointee of a pointer or the element of an array
// or vector, NoType otherwise.
func (c *Context) ElementType(t TypeRef) TypeRef {
	switch tt := c.typ(t).(type) {
	case *types.PointerType:
		return c.internType(tt.ElemType)
	case *types.ArrayType:
		return c.internType(tt.ElemType)
	case *types.VectorType:
		return c.internType(tt.ElemType)
	default:
		return NoType
	}
}

// ReturnType returns the result type of a function type, NoType otherwise.
func (c *Context) ReturnType(t TypeRef) TypeRef {
	if ft, ok := c.typ(t).(*types.FuncType); ok {
		return c.internType(ft.RetType)
	}
	return NoType
}

// IndexedType steps into an aggregate: the idx-th struct field, or the
// element of an array or vector. NoType when idx does not apply.
func (c *Context) IndexedType(t TypeRef, idx uint64) TypeRef {
	switch tt := c.typ(t).(type) {
	case *types.StructType:
		if idx >= uint64(len(tt.Fields)) {
			return NoType
		}
		return c.internType(tt.Fields[idx])
	case *types.ArrayType:
		return c.internType(tt.ElemType)
	case *types.VectorType:
		return c.internType(tt.ElemType)
	default:
		return NoType
	}
}

// VectorLen returns the element count of a vector type, zero otherwise.
func (c *Context) VectorLen(t TypeRef) int {
	if vt, ok := c.typ(t).(*types.VectorType); ok {
		n, err := safecast.Conv[int](vt.Len)
		if err == nil {
			return n
		}
	}
	return 0
}

// IntBits returns the width of an integer type, zero otherwise.
func (c *Context) IntBits(t TypeRef) int {
	if it, ok := c.typ(t).(*types.IntType); ok {
		n, err := safecast.Conv[int](it.BitSize)
		if err == nil {
			return n
		}
	}
	return 0
}

// FloatBits returns the storage width of a floating-point type, zero otherwise.
func (c *Context) FloatBits(t TypeRef) int {
	ft, ok := c.typ(t).(*types.FloatType)
	if !ok {
		return 0
	}
	switch ft.Kind {
	case types.FloatKindHalf:
		return 16
	case types.FloatKindFloat:
		return 32
	case types.FloatKindDouble:
		return 64
	case types.FloatKindX86_FP80:
		return 80
	default:
		return 128
	}
}

// GEPResultType computes the pointer type produced by indexing ptr with
// indices, or NoType when an index into a struct is not a constant.
func (c *Context) GEPResultType(ptr ValueRef, indices []ValueRef) TypeRef {
	pt, ok := c.value(ptr).Type().(*types.PointerType)
	if !ok {
		return NoType
	}
	cur := c.internType(pt.ElemType)
	for i, idx := range indices {
		if i == 0 {
			continue
		}
		var field uint64
		if k, ok := c.constIndex(idx); ok {
			field = k
		} else if c.TypeKind(cur) == KindStruct {
			return NoType
		}
		cur = c.IndexedType(cur, field)
		if cur == NoType {
			return NoType
		}
	}
	return c.Ptr(cur)
}
