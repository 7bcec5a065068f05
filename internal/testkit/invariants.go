package testkit

import (
	"errors"
	"fmt"

	"irbuild/internal/backend/build"
	"irbuild/internal/backend/llvm"
)

// ErrOpenBlock reports a basic block that never received a terminator.
var ErrOpenBlock = errors.New("block has no terminator")

// CheckBlockInvariants verifies a finished function body:
// 1) every facade block is closed, either terminated or marked unreachable
// 2) a block the facade considers closed really ends in a backend terminator
// 3) every backend block of the function ends in a terminator
func CheckBlockInvariants(ctx *llvm.Context, fn *build.Func, blocks []*build.Block) error {
	if ctx == nil || fn == nil {
		return fmt.Errorf("nil context or function")
	}

	for _, cx := range blocks {
		if cx.Fn != fn {
			return fmt.Errorf("block %s belongs to another function", cx)
		}
		// 1) facade state
		if cx.State() == build.Open {
			return fmt.Errorf("%s: %w", cx, ErrOpenBlock)
		}
		// 2) facade agrees with backend
		if !ctx.HasTerminator(cx.ID) {
			return fmt.Errorf("%s is %s but the backend block is open: %w", cx, cx.State(), ErrOpenBlock)
		}
	}

	// 3) backend blocks the caller did not wrap
	for _, id := range ctx.Blocks(fn.Value) {
		if !ctx.HasTerminator(id) {
			return fmt.Errorf("%s:%s: %w", fn.Name, id, ErrOpenBlock)
		}
	}
	return nil
}

// CheckModuleInvariants runs the backend half of CheckBlockInvariants over
// every defined function of the module, so the module can be printed.
func CheckModuleInvariants(ctx *llvm.Context) error {
	if ctx == nil {
		return fmt.Errorf("nil context")
	}
	for _, fn := range ctx.Funcs() {
		for _, id := range ctx.Blocks(fn) {
			if !ctx.HasTerminator(id) {
				return fmt.Errorf("%s:%s: %w", ctx.FuncName(fn), id, ErrOpenBlock)
			}
		}
	}
	return nil
}
