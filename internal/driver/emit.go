package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"irbuild/internal/config"
	"irbuild/internal/observ"
	"irbuild/internal/plan"
	"irbuild/internal/source"
	"irbuild/internal/trace"
)

// EmitOptions configures EmitPlans.
type EmitOptions struct {
	Config config.Config
	// Jobs bounds the number of plans emitted at once; <= 0 means GOMAXPROCS.
	Jobs int
	// Timer, when set, receives one phase per plan.
	Timer *observ.Timer
}

// EmitResult is the outcome of one plan. Err is set instead of Result when
// the plan failed to load or emit.
type EmitResult struct {
	Path   string
	Result *plan.Result
	Err    error
}

// EmitPlans loads every plan into files, then emits them in parallel, one
// module per plan. A failing plan does not stop the others; the returned
// error is only set when ctx is cancelled.
func EmitPlans(ctx context.Context, files *source.FileSet, paths []string, opts EmitOptions) ([]EmitResult, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "emit")
	defer span.End("")

	results := make([]EmitResult, len(paths))
	plans := make([]*plan.Plan, len(paths))

	// FileSet is not safe for concurrent writes, so loading stays sequential.
	for i, path := range paths {
		results[i].Path = path
		p, err := plan.Load(files, path)
		if err != nil {
			results[i].Err = err
			continue
		}
		plans[i] = p
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(paths))))

	// each goroutine writes only its own results slot
	var lane uint32
	for i, p := range plans {
		if p == nil {
			continue
		}
		lane++
		pctx := trace.WithLane(gctx, lane)
		i, p := i, p
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			var phase int
			if opts.Timer != nil {
				phase = opts.Timer.Begin("emit " + p.Name)
			}
			res, err := plan.Run(pctx, p, plan.Options{Config: opts.Config, Files: files})
			if opts.Timer != nil {
				note := "ok"
				if err != nil {
					note = "failed"
				}
				opts.Timer.End(phase, note)
			}
			results[i].Result, results[i].Err = res, err
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
