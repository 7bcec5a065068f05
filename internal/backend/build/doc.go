// Package build is the guarded instruction-emission layer between code
// generation and the SSA backend.
//
// Every emission method takes the *Block it appends to. The builder binds the
// backend cursor to that block, consults the block's termination state and
// then either delegates to the Backend or, for blocks marked unreachable,
// returns an undefined placeholder of the operation's result type. Code
// generators can therefore keep emitting straight-line code after a diverging
// construct without checking reachability themselves.
//
// A block accepts at most one terminator. Appending a second one, emitting
// into a terminated block, opening a landing pad in a dead block, building a
// phi with mismatched incoming lists or calling an undeclared trap intrinsic
// are generator bugs and panic with an error wrapping one of ErrTerminated,
// ErrLandingPad, ErrPhiArity or ErrNoTrap.
//
//	b := build.New(ctx.NewBuilder(), build.Options{Comments: true})
//	fn := build.NewFunc(f, "main", ctx.I64())
//	entry := b.AppendBlock(fn, "entry")
//	sum := b.Add(entry, x, y)
//	b.Ret(entry, sum)
package build
