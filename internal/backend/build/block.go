package build

import (
	"fmt"

	"irbuild/internal/backend/llvm"
)

// State is the emission state of a Block.
type State uint8

const (
	Open State = iota
	Terminated
	Unreachable
)

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case Terminated:
		return "terminated"
	case Unreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// Func is the function context blocks belong to.
type Func struct {
	Value llvm.ValueRef
	Name  string
	// IntType is the fallback type for placeholders whose type cannot be
	// recovered from an operand.
	IntType llvm.TypeRef
}

// NewFunc wraps a backend function value.
func NewFunc(value llvm.ValueRef, name string, intType llvm.TypeRef) *Func {
	return &Func{Value: value, Name: name, IntType: intType}
}

// Block is one basic block of the function being generated.
//
// terminated and unreachable may both be set: a block that already ends in a
// terminator can still be marked unreachable, which only silences later
// emission. Neither flag is ever cleared.
type Block struct {
	ID llvm.BlockRef
	Fn *Func

	terminated  bool
	unreachable bool
}

// NewBlock wraps an existing backend block in the Open state.
func NewBlock(fn *Func, id llvm.BlockRef) *Block {
	return &Block{ID: id, Fn: fn}
}

// State reports Unreachable over Terminated when both flags are set.
func (cx *Block) State() State {
	switch {
	case cx.unreachable:
		return Unreachable
	case cx.terminated:
		return Terminated
	default:
		return Open
	}
}

func (cx *Block) Terminated() bool  { return cx.terminated }
func (cx *Block) Unreachable() bool { return cx.unreachable }

func (cx *Block) String() string {
	if cx.Fn == nil {
		return cx.ID.String()
	}
	return fmt.Sprintf("%s:%s", cx.Fn.Name, cx.ID)
}

func (cx *Block) intType(be TypeOracle) llvm.TypeRef {
	if cx.Fn != nil && cx.Fn.IntType != llvm.NoType {
		return cx.Fn.IntType
	}
	return be.IntPtr()
}

func ids(blocks []*Block) []llvm.BlockRef {
	out := make([]llvm.BlockRef, len(blocks))
	for i, b := range blocks {
		out[i] = b.ID
	}
	return out
}
