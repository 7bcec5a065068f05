// Package trace records what irbuild does while it emits IR.
//
// Events come in three kinds: span begin/end pairs around a command, a
// plan or a function body, and instant points for single instructions the
// guarded builder emitted or suppressed. Levels pick how deep to look:
//
//   - LevelPhase: driver and plan spans
//   - LevelDetail: adds function bodies
//   - LevelDebug: adds every instruction
//   - LevelError: phase events kept in a ring and dumped on failure
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopePlan, "plan:add.toml")
//	defer span.End("")
//
// Parallel plans run on separate lanes (trace.WithLane), which chrome
// traces draw as separate rows. trace.Bind hands a context's span and lane to
// code that only holds a Tracer.
//
// Enable from the command line:
//
//	irbuild emit --trace=- --trace-level=debug add.toml
package trace
