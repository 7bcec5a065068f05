package llvm

import (
	"fmt"

	"fortio.org/safecast"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// TrapIntrinsic is the name of the intrinsic called by trap instructions.
const TrapIntrinsic = "llvm.trap"

// Context owns one llir module and the handle tables that refer into it.
// A Context is not safe for concurrent use.
type Context struct {
	mod *ir.Module

	// slots holds value.Value entries plus the few non-value objects that
	// callers still need to refer to (switch terminators).
	slots    []any
	valueIdx map[any]ValueRef
	undefs   map[TypeRef]ValueRef

	types   []types.Type
	typeIdx map[string]TypeRef

	blocks   []*ir.Block
	blockIdx map[*ir.Block]BlockRef

	intType *types.IntType
	strSeq  int
}

// NewContext creates an empty module for the given target triple. intBits
// selects the pointer-sized integer used by malloc, ptrdiff and friends;
// zero means 64.
func NewContext(triple string, intBits int) *Context {
	if intBits <= 0 {
		intBits = 64
	}
	bits, err := safecast.Conv[uint64](intBits)
	if err != nil {
		panic(fmt.Errorf("int bits overflow: %w", err))
	}
	mod := ir.NewModule()
	mod.TargetTriple = triple
	return &Context{
		mod:      mod,
		slots:    []any{nil},
		valueIdx: make(map[any]ValueRef),
		undefs:   make(map[TypeRef]ValueRef),
		types:    []types.Type{nil},
		typeIdx:  make(map[string]TypeRef),
		blocks:   []*ir.Block{nil},
		blockIdx: make(map[*ir.Block]BlockRef),
		intType:  types.NewInt(bits),
	}
}

// Module exposes the underlying llir module.
func (c *Context) Module() *ir.Module { return c.mod }

// String renders the module as LLVM assembly.
func (c *Context) String() string { return c.mod.String() }

// NewBuilder returns a builder whose cursor is not yet positioned.
func (c *Context) NewBuilder() *Builder { return &Builder{Context: c} }

func (c *Context) addSlot(x any) ValueRef {
	if id, ok := c.valueIdx[x]; ok {
		return id
	}
	n, err := safecast.Conv[uint32](len(c.slots))
	if err != nil {
		panic(fmt.Errorf("value table overflow: %w", err))
	}
	id := ValueRef(n)
	c.slots = append(c.slots, x)
	c.valueIdx[x] = id
	return id
}

func (c *Context) slot(v ValueRef) any {
	if v == NoValue || int(v) >= len(c.slots) {
		panic(badHandle("value", uint32(v)))
	}
	return c.slots[v]
}

func (c *Context) value(v ValueRef) value.Value {
	val, ok := c.slot(v).(value.Value)
	if !ok {
		panic(fmt.Errorf("value %d is not an SSA value: %w", v, ErrBadHandle))
	}
	return val
}

func (c *Context) values(refs []ValueRef) []value.Value {
	out := make([]value.Value, len(refs))
	for i, r := range refs {
		out[i] = c.value(r)
	}
	return out
}

func (c *Context) internType(t types.Type) TypeRef {
	key := t.String()
	if id, ok := c.typeIdx[key]; ok {
		return id
	}
	n, err := safecast.Conv[uint32](len(c.types))
	if err != nil {
		panic(fmt.Errorf("type table overflow: %w", err))
	}
	id := TypeRef(n)
	c.types = append(c.types, t)
	c.typeIdx[key] = id
	return id
}

func (c *Context) typ(t TypeRef) types.Type {
	if t == NoType || int(t) >= len(c.types) {
		panic(badHandle("type", uint32(t)))
	}
	return c.types[t]
}

func (c *Context) addBlock(b *ir.Block) BlockRef {
	if id, ok := c.blockIdx[b]; ok {
		return id
	}
	n, err := safecast.Conv[uint32](len(c.blocks))
	if err != nil {
		panic(fmt.Errorf("block table overflow: %w", err))
	}
	id := BlockRef(n)
	c.blocks = append(c.blocks, b)
	c.blockIdx[b] = id
	return id
}

func (c *Context) block(b BlockRef) *ir.Block {
	if b == NoBlock || int(b) >= len(c.blocks) {
		panic(badHandle("block", uint32(b)))
	}
	return c.blocks[b]
}

func (c *Context) blockList(refs []BlockRef) []*ir.Block {
	out := make([]*ir.Block, len(refs))
	for i, r := range refs {
		out[i] = c.block(r)
	}
	return out
}

// NewFunc adds a function to the module. A function without appended
// blocks is printed as a declaration.
func (c *Context) NewFunc(name string, ret TypeRef, params ...TypeRef) ValueRef {
	ps := make([]*ir.Param, len(params))
	for i, p := range params {
		ps[i] = ir.NewParam("", c.typ(p))
	}
	return c.addSlot(c.mod.NewFunc(name, c.typ(ret), ps...))
}

// DeclareTrap declares the trap intrinsic if the module lacks it.
func (c *Context) DeclareTrap() ValueRef {
	if fn, ok := c.LookupFunction(TrapIntrinsic); ok {
		return fn
	}
	return c.NewFunc(TrapIntrinsic, c.Void())
}

// LookupFunction finds a function of the module by name.
func (c *Context) LookupFunction(name string) (ValueRef, bool) {
	if f := c.findFunc(name); f != nil {
		return c.addSlot(f), true
	}
	return NoValue, false
}

func (c *Context) findFunc(name string) *ir.Func {
	for _, f := range c.mod.Funcs {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// runtimeFunc returns the named support function, declaring it on first use.
func (c *Context) runtimeFunc(name string, ret types.Type, params ...types.Type) *ir.Func {
	if f := c.findFunc(name); f != nil {
		return f
	}
	ps := make([]*ir.Param, len(params))
	for i, p := range params {
		ps[i] = ir.NewParam("", p)
	}
	return c.mod.NewFunc(name, ret, ps...)
}

func (c *Context) fn(v ValueRef) *ir.Func {
	f, ok := c.slot(v).(*ir.Func)
	if !ok {
		panic(fmt.Errorf("value %d is not a function: %w", v, ErrBadHandle))
	}
	return f
}

// Param returns the i-th parameter of a function.
func (c *Context) Param(fn ValueRef, i int) ValueRef {
	f := c.fn(fn)
	if i < 0 || i >= len(f.Params) {
		panic(fmt.Errorf("param %d of %s: %w", i, f.Name(), ErrBadHandle))
	}
	return c.addSlot(f.Params[i])
}

// AppendBlock adds a new basic block at the end of fn.
func (c *Context) AppendBlock(fn ValueRef, name string) BlockRef {
	return c.addBlock(c.fn(fn).NewBlock(name))
}

// BlockValue returns the block as a label-typed value (phi predecessors,
// blockaddress operands).
func (c *Context) BlockValue(b BlockRef) ValueRef { return c.addSlot(c.block(b)) }

// InstrCount reports how many instructions, terminator included, b holds.
func (c *Context) InstrCount(b BlockRef) int {
	blk := c.block(b)
	n := len(blk.Insts)
	if blk.Term != nil {
		n++
	}
	return n
}

// HasTerminator reports whether the backend block already ends in a terminator.
func (c *Context) HasTerminator(b BlockRef) bool { return c.block(b).Term != nil }

// Blocks lists the blocks of fn in layout order.
func (c *Context) Blocks(fn ValueRef) []BlockRef {
	f := c.fn(fn)
	out := make([]BlockRef, len(f.Blocks))
	for i, b := range f.Blocks {
		out[i] = c.addBlock(b)
	}
	return out
}

// Funcs lists the functions defined or declared in the module.
func (c *Context) Funcs() []ValueRef {
	out := make([]ValueRef, len(c.mod.Funcs))
	for i, f := range c.mod.Funcs {
		out[i] = c.addSlot(f)
	}
	return out
}

// FuncName returns the symbol name of a function value.
func (c *Context) FuncName(fn ValueRef) string { return c.fn(fn).Name() }

// BlockName returns the label of b, empty when unnamed.
func (c *Context) BlockName(b BlockRef) string { return c.block(b).Name() }

// ConstInt returns an integer constant of type t.
func (c *Context) ConstInt(t TypeRef, x int64) ValueRef {
	it, ok := c.typ(t).(*types.IntType)
	if !ok {
		panic(fmt.Errorf("type %s is not an integer: %w", c.typ(t), ErrBadHandle))
	}
	return c.addSlot(constant.NewInt(it, x))
}

// ConstFloat returns a floating-point constant of type t.
func (c *Context) ConstFloat(t TypeRef, x float64) ValueRef {
	ft, ok := c.typ(t).(*types.FloatType)
	if !ok {
		panic(fmt.Errorf("type %s is not a float: %w", c.typ(t), ErrBadHandle))
	}
	return c.addSlot(constant.NewFloat(ft, x))
}

// Null returns the null pointer of pointer type t.
func (c *Context) Null(t TypeRef) ValueRef {
	pt, ok := c.typ(t).(*types.PointerType)
	if !ok {
		panic(fmt.Errorf("type %s is not a pointer: %w", c.typ(t), ErrBadHandle))
	}
	return c.addSlot(constant.NewNull(pt))
}

// Undef returns the undefined value of type t.
func (c *Context) Undef(t TypeRef) ValueRef {
	if v, ok := c.undefs[t]; ok {
		return v
	}
	v := c.addSlot(constant.NewUndef(c.typ(t)))
	c.undefs[t] = v
	return v
}

// IsUndef reports whether v is an undefined-value constant.
func (c *Context) IsUndef(v ValueRef) bool {
	_, ok := c.slot(v).(*constant.Undef)
	return ok
}

// SetName names v in the printed module. Constants and void instructions
// stay unnamed.
func (c *Context) SetName(v ValueRef, name string) {
	n, ok := c.slot(v).(value.Named)
	if !ok {
		return
	}
	if t := n.Type(); t != nil && t.Equal(types.Void) {
		return
	}
	n.SetName(name)
}

// ValueString renders v as an operand (type and identifier).
func (c *Context) ValueString(v ValueRef) string {
	switch x := c.slot(v).(type) {
	case value.Value:
		return x.String()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}
