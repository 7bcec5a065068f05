package plan

import (
	"context"
	"fmt"

	"irbuild/internal/backend/build"
	"irbuild/internal/backend/llvm"
	"irbuild/internal/config"
	"irbuild/internal/source"
	"irbuild/internal/testkit"
	"irbuild/internal/trace"
)

// Options configures Run.
type Options struct {
	Config config.Config
	// Files holds the plan sources; needed for ops with a line.
	Files *source.FileSet
}

// Result is what one plan produced.
type Result struct {
	Name   string
	IR     string
	Stats  build.Stats
	Funcs  int
	Blocks int
	Dead   int // blocks that ended marked unreachable
}

type runner struct {
	plan  *Plan
	ctx   *llvm.Context
	b     *build.Builder
	files *source.FileSet
}

// Run emits every function of p into a fresh module and returns the printed
// IR. Builder faults such as emitting past a terminator come back as errors
// naming the function, block and op.
func Run(ctx context.Context, p *Plan, opts Options) (res *Result, err error) {
	ctx, span := trace.Start(ctx, trace.ScopePlan, "plan:"+p.Name)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: %w", p.Path, panicError(r))
		}
		detail := "ok"
		if err != nil {
			detail = err.Error()
		}
		span.End(detail)
	}()

	cfg := opts.Config
	triple := p.Triple
	if triple == "" {
		triple = cfg.Target.Triple
	}
	llctx := llvm.NewContext(triple, cfg.Builder.IntBits)
	r := &runner{
		plan: p,
		ctx:  llctx,
		b: build.New(llctx.NewBuilder(), build.Options{
			Comments: cfg.Builder.Comments,
			CallConv: cfg.CallConv(),
			Files:    opts.Files,
			Tracer:   trace.Bind(ctx),
		}),
		files: opts.Files,
	}

	if err := r.declare(); err != nil {
		return nil, fmt.Errorf("%s: %w", p.Path, err)
	}
	fnVals := make([]llvm.ValueRef, len(p.Funcs))
	for i := range p.Funcs {
		v, err := r.signature(p.Funcs[i].Name, p.Funcs[i].Ret, p.Funcs[i].Params)
		if err != nil {
			return nil, fmt.Errorf("%s: func %s: %w", p.Path, p.Funcs[i].Name, err)
		}
		fnVals[i] = v
	}

	res = &Result{Name: p.Name, Funcs: len(p.Funcs)}
	for i := range p.Funcs {
		blocks, err := r.emitFunc(ctx, &p.Funcs[i], fnVals[i])
		if err != nil {
			return nil, fmt.Errorf("%s: func %s: %w", p.Path, p.Funcs[i].Name, err)
		}
		res.Blocks += len(blocks)
		for _, cx := range blocks {
			if cx.Unreachable() {
				res.Dead++
			}
		}
	}

	if err := testkit.CheckModuleInvariants(llctx); err != nil {
		return nil, fmt.Errorf("%s: %w", p.Path, err)
	}
	res.Stats = r.b.Stats()
	res.IR = llctx.String()
	return res, nil
}

func (r *runner) declare() error {
	for _, d := range r.plan.Declare {
		if d.Name == llvm.TrapIntrinsic {
			r.ctx.DeclareTrap()
			continue
		}
		if _, err := r.signature(d.Name, d.Ret, d.Params); err != nil {
			return fmt.Errorf("declare %s: %w", d.Name, err)
		}
	}
	return nil
}

func (r *runner) signature(name, ret string, params []string) (llvm.ValueRef, error) {
	if ret == "" {
		ret = "void"
	}
	rt, err := parseType(r.ctx, ret)
	if err != nil {
		return llvm.NoValue, err
	}
	pts := make([]llvm.TypeRef, len(params))
	for i, ps := range params {
		if pts[i], err = parseType(r.ctx, ps); err != nil {
			return llvm.NoValue, err
		}
	}
	return r.ctx.NewFunc(name, rt, pts...), nil
}

func (r *runner) emitFunc(ctx context.Context, def *FuncDef, fnVal llvm.ValueRef) ([]*build.Block, error) {
	_, span := trace.Start(ctx, trace.ScopeFunc, "func:"+def.Name)
	defer span.End("")

	fr := &funcRunner{
		runner: r,
		def:    def,
		fn:     build.NewFunc(fnVal, def.Name, r.ctx.IntPtr()),
		blocks: make(map[string]*build.Block, len(def.Blocks)),
		values: make(map[string]llvm.ValueRef),
	}
	for i := range def.Params {
		name := fmt.Sprintf("arg%d", i)
		if len(def.Names) > 0 {
			name = def.Names[i]
		}
		v := r.ctx.Param(fnVal, i)
		r.ctx.SetName(v, name)
		fr.values[name] = v
	}

	order := make([]*build.Block, len(def.Blocks))
	for i, bd := range def.Blocks {
		cx := r.b.AppendBlock(fr.fn, bd.Name)
		fr.blocks[bd.Name] = cx
		order[i] = cx
	}

	for i := range def.Blocks {
		bd := &def.Blocks[i]
		cx := order[i]
		if bd.Unreachable {
			r.b.Unreachable(cx)
		}
		for j := range bd.Ops {
			if err := fr.exec(cx, &bd.Ops[j]); err != nil {
				return nil, fmt.Errorf("block %s: op %d (%s): %w", bd.Name, j, bd.Ops[j].Op, err)
			}
		}
	}

	if err := testkit.CheckBlockInvariants(r.ctx, fr.fn, order); err != nil {
		return nil, err
	}
	span.WithExtra("blocks", fmt.Sprint(len(order)))
	return order, nil
}

// exec runs one op, turning builder panics into errors.
func (fr *funcRunner) exec(cx *build.Block, op *Op) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
		}
	}()
	return fr.emitOp(cx, op)
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", r)
}
