package build

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"irbuild/internal/backend/llvm"
	"irbuild/internal/source"
	"irbuild/internal/trace"
)

var commentReplacer = strings.NewReplacer("$", "", "\r\n", " ", "\n", " ", "\r", " ")

// sanitizeComment drops `$` (an operand reference in inline asm) and folds
// line breaks, which would end the assembler comment early.
func sanitizeComment(text string) string {
	return commentReplacer.Replace(norm.NFC.String(text))
}

// AddSpanComment annotates cx with text and the source location of sp.
func (b *Builder) AddSpanComment(cx *Block, sp source.Span, text string) {
	if !b.opts.Comments {
		return
	}
	s := text + " (" + b.spanString(sp) + ")"
	if !cx.unreachable && b.tracer.Enabled() {
		trace.Point(b.tracer, trace.ScopeInstr, "comment", s)
	}
	b.AddComment(cx, s)
}

// AddComment embeds `; text` in the IR as an empty inline-asm call. The call
// goes through the normal guard, so dead blocks stay untouched.
func (b *Builder) AddComment(cx *Block, text string) {
	if !b.opts.Comments {
		return
	}
	asm := b.be.InlineAsm(b.be.FuncType(b.be.Void()), "; "+sanitizeComment(text), "")
	b.CallWithConv(cx, asm, nil, llvm.CallConvDefault)
	if !cx.unreachable {
		b.stats.Comments++
	}
}

func (b *Builder) spanString(sp source.Span) string {
	if b.opts.Files == nil || !b.opts.Files.Has(sp.File) {
		return sp.String()
	}
	f := b.opts.Files.Get(sp.File)
	start, end := b.opts.Files.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d: %d:%d", f.Path, start.Line, start.Col, end.Line, end.Col)
}
