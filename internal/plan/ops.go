package plan

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"irbuild/internal/backend/build"
	"irbuild/internal/backend/llvm"
)

type funcRunner struct {
	*runner
	def    *FuncDef
	fn     *build.Func
	blocks map[string]*build.Block
	values map[string]llvm.ValueRef
}

type (
	binaryFn func(b *build.Builder, cx *build.Block, lhs, rhs llvm.ValueRef) llvm.ValueRef
	unaryFn  func(b *build.Builder, cx *build.Block, v llvm.ValueRef) llvm.ValueRef
	castFn   func(b *build.Builder, cx *build.Block, v llvm.ValueRef, dest llvm.TypeRef) llvm.ValueRef
)

// flaggedBinary maps "opcode/flag" to the builder method emitting it.
var flaggedBinary = map[string]binaryFn{
	"add/nsw":    (*build.Builder).NSWAdd,
	"add/nuw":    (*build.Builder).NUWAdd,
	"sub/nsw":    (*build.Builder).NSWSub,
	"sub/nuw":    (*build.Builder).NUWSub,
	"mul/nsw":    (*build.Builder).NSWMul,
	"mul/nuw":    (*build.Builder).NUWMul,
	"sdiv/exact": (*build.Builder).ExactSDiv,
}

var unaryOps = map[string]unaryFn{
	"neg":     (*build.Builder).Neg,
	"neg/nsw": (*build.Builder).NSWNeg,
	"neg/nuw": (*build.Builder).NUWNeg,
	"fneg":    (*build.Builder).FNeg,
	"not":     (*build.Builder).Not,
}

var smartCasts = map[string]castFn{
	"zextorbitcast":  (*build.Builder).ZExtOrBitCast,
	"sextorbitcast":  (*build.Builder).SExtOrBitCast,
	"truncorbitcast": (*build.Builder).TruncOrBitCast,
	"pointercast":    (*build.Builder).PointerCast,
	"intcast":        (*build.Builder).IntCast,
	"fpcast":         (*build.Builder).FPCast,
}

func (fr *funcRunner) emitOp(cx *build.Block, op *Op) error {
	if opc, ok := llvm.ParseOpcode(op.Op); ok {
		if opc.IsBinary() {
			return fr.emitBinary(cx, op, opc)
		}
		return fr.emitCast(cx, op, func(v llvm.ValueRef, t llvm.TypeRef) llvm.ValueRef {
			return fr.b.Cast(cx, opc, v, t)
		})
	}
	if fn, ok := smartCasts[op.Op]; ok {
		return fr.emitCast(cx, op, func(v llvm.ValueRef, t llvm.TypeRef) llvm.ValueRef {
			return fn(fr.b, cx, v, t)
		})
	}
	if _, ok := unaryOps[op.Op]; ok {
		return fr.emitUnary(cx, op)
	}

	switch op.Op {
	case "ret", "aggregate_ret", "br", "condbr", "switch", "indirectbr",
		"invoke", "resume", "unreachable", "trap", "landingpad":
		return fr.emitTerm(cx, op)
	case "malloc", "alloca", "free", "load", "store", "gep", "inbounds_gep",
		"gepi", "struct_gep", "global_string", "global_string_ptr",
		"is_null", "is_not_null", "ptrdiff":
		return fr.emitMemory(cx, op)
	case "icmp", "fcmp":
		return fr.emitCompare(cx, op)
	case "phi", "empty_phi", "add_incoming":
		return fr.emitPhi(cx, op)
	case "comment":
		return fr.emitComment(cx, op)
	default:
		return fr.emitMisc(cx, op)
	}
}

func (fr *funcRunner) emitBinary(cx *build.Block, op *Op, opc llvm.Opcode) error {
	args, err := fr.args(op, 2)
	if err != nil {
		return err
	}
	switch len(op.Flags) {
	case 0:
		return fr.define(op, fr.b.BinOp(cx, opc, args[0], args[1]))
	case 1:
		fn, ok := flaggedBinary[op.Op+"/"+op.Flags[0]]
		if !ok {
			return fmt.Errorf("flag %q is not supported on %s", op.Flags[0], op.Op)
		}
		return fr.define(op, fn(fr.b, cx, args[0], args[1]))
	default:
		return fmt.Errorf("at most one flag is supported, got %v", op.Flags)
	}
}

func (fr *funcRunner) emitUnary(cx *build.Block, op *Op) error {
	args, err := fr.args(op, 1)
	if err != nil {
		return err
	}
	key := op.Op
	if len(op.Flags) == 1 {
		key += "/" + op.Flags[0]
	} else if len(op.Flags) > 1 {
		return fmt.Errorf("at most one flag is supported, got %v", op.Flags)
	}
	fn, ok := unaryOps[key]
	if !ok {
		return fmt.Errorf("flag %q is not supported on %s", op.Flags[0], op.Op)
	}
	return fr.define(op, fn(fr.b, cx, args[0]))
}

func (fr *funcRunner) emitCast(cx *build.Block, op *Op, cast func(v llvm.ValueRef, t llvm.TypeRef) llvm.ValueRef) error {
	args, err := fr.args(op, 1)
	if err != nil {
		return err
	}
	t, err := fr.opType(op)
	if err != nil {
		return err
	}
	return fr.define(op, cast(args[0], t))
}

func (fr *funcRunner) emitCompare(cx *build.Block, op *Op) error {
	args, err := fr.args(op, 2)
	if err != nil {
		return err
	}
	if op.Op == "icmp" {
		pred, ok := llvm.ParseIntPredicate(op.Pred)
		if !ok {
			return fmt.Errorf("unknown icmp predicate %q", op.Pred)
		}
		return fr.define(op, fr.b.ICmp(cx, pred, args[0], args[1]))
	}
	pred, ok := llvm.ParseRealPredicate(op.Pred)
	if !ok {
		return fmt.Errorf("unknown fcmp predicate %q", op.Pred)
	}
	return fr.define(op, fr.b.FCmp(cx, pred, args[0], args[1]))
}

func (fr *funcRunner) emitTerm(cx *build.Block, op *Op) error {
	switch op.Op {
	case "ret":
		if len(op.Args) == 0 {
			fr.b.RetVoid(cx)
			return nil
		}
		args, err := fr.args(op, 1)
		if err != nil {
			return err
		}
		fr.b.Ret(cx, args[0])
	case "aggregate_ret":
		args, err := fr.operands(op.Args)
		if err != nil {
			return err
		}
		fr.b.AggregateRet(cx, args)
	case "br":
		dest, err := fr.block(op.To)
		if err != nil {
			return err
		}
		fr.b.Br(cx, dest)
	case "condbr":
		args, err := fr.args(op, 1)
		if err != nil {
			return err
		}
		then, els, err := fr.thenElse(op)
		if err != nil {
			return err
		}
		fr.b.CondBr(cx, args[0], then, els)
	case "switch":
		return fr.emitSwitch(cx, op)
	case "indirectbr":
		args, err := fr.args(op, 1)
		if err != nil {
			return err
		}
		dests, err := fr.blockList(op.Blocks)
		if err != nil {
			return err
		}
		fr.b.IndirectBr(cx, args[0], dests)
	case "invoke":
		if len(op.Args) == 0 {
			return fmt.Errorf("invoke needs a callee")
		}
		args, err := fr.operands(op.Args)
		if err != nil {
			return err
		}
		then, catch, err := fr.thenElse(op)
		if err != nil {
			return err
		}
		conv, ok := llvm.ParseCallConv(op.Conv)
		if !ok {
			return fmt.Errorf("unknown calling convention %q", op.Conv)
		}
		switch {
		case op.Conv == "":
			return fr.define(op, fr.b.Invoke(cx, args[0], args[1:], then, catch))
		case conv == llvm.CallConvFast:
			return fr.define(op, fr.b.FastInvoke(cx, args[0], args[1:], then, catch))
		default:
			return fr.define(op, fr.b.InvokeWithConv(cx, args[0], args[1:], then, catch, conv))
		}
	case "resume":
		args, err := fr.args(op, 1)
		if err != nil {
			return err
		}
		fr.b.Resume(cx, args[0])
	case "unreachable":
		fr.b.Unreachable(cx)
	case "trap":
		fr.b.Trap(cx)
	case "landingpad":
		t, err := fr.opType(op)
		if err != nil {
			return err
		}
		args, err := fr.args(op, 1)
		if err != nil {
			return err
		}
		lp := fr.b.LandingPad(cx, t, args[0], op.Clauses)
		if op.Cleanup {
			fr.b.SetCleanup(lp)
		}
		return fr.define(op, lp)
	}
	return nil
}

func (fr *funcRunner) emitSwitch(cx *build.Block, op *Op) error {
	args, err := fr.args(op, 1)
	if err != nil {
		return err
	}
	els, err := fr.block(op.Else)
	if err != nil {
		return err
	}
	sw := fr.b.Switch(cx, args[0], els, len(op.Cases))
	for _, c := range op.Cases {
		v, err := fr.operand(c.Value)
		if err != nil {
			return err
		}
		dest, err := fr.block(c.To)
		if err != nil {
			return err
		}
		fr.b.AddCase(sw, v, dest)
	}
	return nil
}

func (fr *funcRunner) emitMemory(cx *build.Block, op *Op) error {
	switch op.Op {
	case "malloc", "alloca":
		t, err := fr.opType(op)
		if err != nil {
			return err
		}
		switch len(op.Args) {
		case 0:
			if op.Op == "malloc" {
				return fr.define(op, fr.b.Malloc(cx, t))
			}
			return fr.define(op, fr.b.Alloca(cx, t))
		case 1:
			n, err := fr.operand(op.Args[0])
			if err != nil {
				return err
			}
			if op.Op == "malloc" {
				return fr.define(op, fr.b.ArrayMalloc(cx, t, n))
			}
			return fr.define(op, fr.b.ArrayAlloca(cx, t, n))
		default:
			return fmt.Errorf("%s takes at most one count operand", op.Op)
		}
	case "free":
		args, err := fr.args(op, 1)
		if err != nil {
			return err
		}
		fr.b.Free(cx, args[0])
	case "load":
		args, err := fr.args(op, 1)
		if err != nil {
			return err
		}
		return fr.define(op, fr.b.Load(cx, args[0]))
	case "store":
		args, err := fr.args(op, 2)
		if err != nil {
			return err
		}
		fr.b.Store(cx, args[0], args[1])
	case "gep", "inbounds_gep":
		if len(op.Args) < 2 {
			return fmt.Errorf("%s needs a pointer and at least one index", op.Op)
		}
		args, err := fr.operands(op.Args)
		if err != nil {
			return err
		}
		if op.Op == "gep" {
			return fr.define(op, fr.b.GEP(cx, args[0], args[1:]))
		}
		return fr.define(op, fr.b.InBoundsGEP(cx, args[0], args[1:]))
	case "gepi", "struct_gep":
		args, err := fr.args(op, 1)
		if err != nil {
			return err
		}
		if len(op.Idx) == 0 {
			return fmt.Errorf("%s needs idx", op.Op)
		}
		if op.Op == "gepi" {
			return fr.define(op, fr.b.GEPi(cx, args[0], op.Idx))
		}
		return fr.define(op, fr.b.StructGEP(cx, args[0], op.Idx[0]))
	case "global_string":
		return fr.define(op, fr.b.GlobalString(cx, op.Text))
	case "global_string_ptr":
		return fr.define(op, fr.b.GlobalStringPtr(cx, op.Text))
	case "is_null", "is_not_null":
		args, err := fr.args(op, 1)
		if err != nil {
			return err
		}
		if op.Op == "is_null" {
			return fr.define(op, fr.b.IsNull(cx, args[0]))
		}
		return fr.define(op, fr.b.IsNotNull(cx, args[0]))
	case "ptrdiff":
		args, err := fr.args(op, 2)
		if err != nil {
			return err
		}
		return fr.define(op, fr.b.PtrDiff(cx, args[0], args[1]))
	}
	return nil
}

func (fr *funcRunner) emitPhi(cx *build.Block, op *Op) error {
	switch op.Op {
	case "empty_phi", "phi":
		t, err := fr.opType(op)
		if err != nil {
			return err
		}
		if op.Op == "empty_phi" {
			return fr.define(op, fr.b.EmptyPhi(cx, t))
		}
		vals, err := fr.operands(op.Args)
		if err != nil {
			return err
		}
		preds, err := fr.blockList(op.Blocks)
		if err != nil {
			return err
		}
		return fr.define(op, fr.b.Phi(cx, t, vals, preds))
	default:
		args, err := fr.args(op, 2)
		if err != nil {
			return err
		}
		from, err := fr.block(op.To)
		if err != nil {
			return err
		}
		fr.b.AddIncomingToPhi(args[0], args[1], from)
		return nil
	}
}

func (fr *funcRunner) emitMisc(cx *build.Block, op *Op) error {
	switch op.Op {
	case "select":
		args, err := fr.args(op, 3)
		if err != nil {
			return err
		}
		return fr.define(op, fr.b.Select(cx, args[0], args[1], args[2]))
	case "va_arg":
		args, err := fr.args(op, 1)
		if err != nil {
			return err
		}
		t, err := fr.opType(op)
		if err != nil {
			return err
		}
		return fr.define(op, fr.b.VAArg(cx, args[0], t))
	case "extractelement":
		args, err := fr.args(op, 2)
		if err != nil {
			return err
		}
		return fr.define(op, fr.b.ExtractElement(cx, args[0], args[1]))
	case "insertelement":
		args, err := fr.args(op, 3)
		if err != nil {
			return err
		}
		return fr.define(op, fr.b.InsertElement(cx, args[0], args[1], args[2]))
	case "shufflevector":
		args, err := fr.args(op, 3)
		if err != nil {
			return err
		}
		return fr.define(op, fr.b.ShuffleVector(cx, args[0], args[1], args[2]))
	case "extractvalue", "insertvalue":
		if len(op.Idx) != 1 {
			return fmt.Errorf("%s needs exactly one idx", op.Op)
		}
		if op.Op == "extractvalue" {
			args, err := fr.args(op, 1)
			if err != nil {
				return err
			}
			return fr.define(op, fr.b.ExtractValue(cx, args[0], op.Idx[0]))
		}
		args, err := fr.args(op, 2)
		if err != nil {
			return err
		}
		return fr.define(op, fr.b.InsertValue(cx, args[0], args[1], op.Idx[0]))
	case "call":
		if len(op.Args) == 0 {
			return fmt.Errorf("call needs a callee")
		}
		args, err := fr.operands(op.Args)
		if err != nil {
			return err
		}
		conv, ok := llvm.ParseCallConv(op.Conv)
		if !ok {
			return fmt.Errorf("unknown calling convention %q", op.Conv)
		}
		switch {
		case op.Conv == "":
			return fr.define(op, fr.b.Call(cx, args[0], args[1:]))
		case conv == llvm.CallConvFast:
			return fr.define(op, fr.b.FastCall(cx, args[0], args[1:]))
		default:
			return fr.define(op, fr.b.CallWithConv(cx, args[0], args[1:], conv))
		}
	default:
		return fmt.Errorf("unknown op %q", op.Op)
	}
}

func (fr *funcRunner) emitComment(cx *build.Block, op *Op) error {
	if op.Line <= 0 {
		fr.b.AddComment(cx, op.Text)
		return nil
	}
	if fr.files == nil {
		return fmt.Errorf("comment line %d: plan source not loaded", op.Line)
	}
	line, err := safecast.Conv[uint32](op.Line)
	if err != nil {
		return fmt.Errorf("comment line %d: %w", op.Line, err)
	}
	sp, ok := fr.files.LineSpan(fr.plan.File, line)
	if !ok {
		return fmt.Errorf("comment line %d is outside %s", op.Line, fr.plan.Path)
	}
	fr.b.AddSpanComment(cx, sp, op.Text)
	return nil
}

func (fr *funcRunner) define(op *Op, v llvm.ValueRef) error {
	if op.Dst == "" {
		return nil
	}
	if _, dup := fr.values[op.Dst]; dup {
		return fmt.Errorf("value %%%s defined twice", op.Dst)
	}
	fr.values[op.Dst] = v
	if !fr.ctx.IsUndef(v) {
		fr.ctx.SetName(v, op.Dst)
	}
	return nil
}

func (fr *funcRunner) opType(op *Op) (llvm.TypeRef, error) {
	if op.Type == "" {
		return llvm.NoType, fmt.Errorf("%s needs a type", op.Op)
	}
	return parseType(fr.ctx, op.Type)
}

// args resolves exactly n operands.
func (fr *funcRunner) args(op *Op, n int) ([]llvm.ValueRef, error) {
	if len(op.Args) != n {
		return nil, fmt.Errorf("%s takes %d operands, got %d", op.Op, n, len(op.Args))
	}
	return fr.operands(op.Args)
}

func (fr *funcRunner) operands(ss []string) ([]llvm.ValueRef, error) {
	out := make([]llvm.ValueRef, len(ss))
	for i, s := range ss {
		v, err := fr.operand(s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (fr *funcRunner) operand(s string) (llvm.ValueRef, error) {
	if name, ok := strings.CutPrefix(s, "%"); ok {
		v, ok := fr.values[name]
		if !ok {
			return llvm.NoValue, fmt.Errorf("unknown value %s", s)
		}
		return v, nil
	}
	if name, ok := strings.CutPrefix(s, "@"); ok {
		v, ok := fr.ctx.LookupFunction(name)
		if !ok {
			return llvm.NoValue, fmt.Errorf("unknown function %s", s)
		}
		return v, nil
	}
	return constOperand(fr.ctx, s)
}

// constOperand parses "type:literal".
func constOperand(ctx *llvm.Context, s string) (llvm.ValueRef, error) {
	ts, lit, ok := strings.Cut(s, ":")
	if !ok {
		return llvm.NoValue, fmt.Errorf("operand %q: expected %%name, @name or type:literal", s)
	}
	t, err := parseType(ctx, ts)
	if err != nil {
		return llvm.NoValue, err
	}
	kind := ctx.TypeKind(t)
	switch {
	case lit == "undef":
		return ctx.Undef(t), nil
	case lit == "null" && kind == llvm.KindPointer:
		return ctx.Null(t), nil
	case kind == llvm.KindInt:
		if b, err := strconv.ParseBool(lit); err == nil && ctx.IntBits(t) == 1 {
			if b {
				return ctx.ConstInt(t, 1), nil
			}
			return ctx.ConstInt(t, 0), nil
		}
		x, err := strconv.ParseInt(lit, 0, 64)
		if err != nil {
			return llvm.NoValue, fmt.Errorf("operand %q: %w", s, err)
		}
		return ctx.ConstInt(t, x), nil
	case kind == llvm.KindFloat:
		x, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return llvm.NoValue, fmt.Errorf("operand %q: %w", s, err)
		}
		return ctx.ConstFloat(t, x), nil
	default:
		return llvm.NoValue, fmt.Errorf("operand %q: no literal form for %s", s, ctx.TypeString(t))
	}
}

func (fr *funcRunner) block(name string) (*build.Block, error) {
	if name == "" {
		return nil, fmt.Errorf("missing block target")
	}
	cx, ok := fr.blocks[name]
	if !ok {
		return nil, fmt.Errorf("unknown block %q", name)
	}
	return cx, nil
}

func (fr *funcRunner) blockList(names []string) ([]*build.Block, error) {
	out := make([]*build.Block, len(names))
	for i, n := range names {
		cx, err := fr.block(n)
		if err != nil {
			return nil, err
		}
		out[i] = cx
	}
	return out, nil
}

func (fr *funcRunner) thenElse(op *Op) (then, els *build.Block, err error) {
	if then, err = fr.block(op.Then); err != nil {
		return nil, nil, err
	}
	if els, err = fr.block(op.Else); err != nil {
		return nil, nil, err
	}
	return then, els, nil
}
