package llvm

import (
	"errors"
	"fmt"
)

type (
	// ValueRef identifies a value in a Context's value table.
	ValueRef uint32
	// TypeRef identifies an interned type in a Context's type table.
	TypeRef uint32
	// BlockRef identifies a basic block in a Context's block table.
	BlockRef uint32
)

const (
	NoValue ValueRef = 0
	NoType  TypeRef  = 0
	NoBlock BlockRef = 0
)

// ErrBadHandle is raised when a handle does not refer to a table entry
// of the expected kind.
var ErrBadHandle = errors.New("invalid backend handle")

func (v ValueRef) String() string { return fmt.Sprintf("v%d", uint32(v)) }
func (t TypeRef) String() string  { return fmt.Sprintf("t%d", uint32(t)) }
func (b BlockRef) String() string { return fmt.Sprintf("bb%d", uint32(b)) }

func badHandle(kind string, id uint32) error {
	return fmt.Errorf("%s %d: %w", kind, id, ErrBadHandle)
}
