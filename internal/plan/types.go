package plan

import (
	"fmt"
	"strconv"
	"strings"

	"irbuild/internal/backend/llvm"
)

// typeParser reads LLVM-style type strings: void, iN, float, double,
// intptr, T*, [N x T], <N x T>, {T, T} and ret (params).
type typeParser struct {
	ctx *llvm.Context
	src string
	pos int
}

func parseType(ctx *llvm.Context, s string) (llvm.TypeRef, error) {
	p := &typeParser{ctx: ctx, src: s}
	t, err := p.typ()
	if err != nil {
		return llvm.NoType, fmt.Errorf("type %q: %w", s, err)
	}
	p.space()
	if p.pos != len(p.src) {
		return llvm.NoType, fmt.Errorf("type %q: trailing %q", s, p.src[p.pos:])
	}
	return t, nil
}

func (p *typeParser) space() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *typeParser) peek() byte {
	p.space()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *typeParser) expect(c byte) error {
	if p.peek() != c {
		return fmt.Errorf("expected %q at %d", c, p.pos)
	}
	p.pos++
	return nil
}

func (p *typeParser) word() string {
	p.space()
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c >= 'a' && c <= 'z' || c >= '0' && c <= '9' {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *typeParser) typ() (llvm.TypeRef, error) {
	t, err := p.base()
	if err != nil {
		return llvm.NoType, err
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			t = p.ctx.Ptr(t)
		case '(':
			p.pos++
			params, err := p.list(')')
			if err != nil {
				return llvm.NoType, err
			}
			t = p.ctx.FuncType(t, params...)
		default:
			return t, nil
		}
	}
}

// list parses comma separated types up to and including end.
func (p *typeParser) list(end byte) ([]llvm.TypeRef, error) {
	var out []llvm.TypeRef
	if p.peek() == end {
		p.pos++
		return out, nil
	}
	for {
		t, err := p.typ()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
		switch p.peek() {
		case ',':
			p.pos++
		case end:
			p.pos++
			return out, nil
		default:
			return nil, fmt.Errorf("expected ',' or %q at %d", end, p.pos)
		}
	}
}

// sized parses "N x T" followed by end.
func (p *typeParser) sized(end byte) (int, llvm.TypeRef, error) {
	n, err := strconv.Atoi(p.word())
	if err != nil || n < 0 {
		return 0, llvm.NoType, fmt.Errorf("bad element count at %d", p.pos)
	}
	if p.word() != "x" {
		return 0, llvm.NoType, fmt.Errorf("expected 'x' at %d", p.pos)
	}
	elem, err := p.typ()
	if err != nil {
		return 0, llvm.NoType, err
	}
	if err := p.expect(end); err != nil {
		return 0, llvm.NoType, err
	}
	return n, elem, nil
}

func (p *typeParser) base() (llvm.TypeRef, error) {
	switch p.peek() {
	case '[':
		p.pos++
		n, elem, err := p.sized(']')
		if err != nil {
			return llvm.NoType, err
		}
		return p.ctx.Array(n, elem), nil
	case '<':
		p.pos++
		n, elem, err := p.sized('>')
		if err != nil {
			return llvm.NoType, err
		}
		if n == 0 {
			return llvm.NoType, fmt.Errorf("empty vector")
		}
		return p.ctx.Vector(n, elem), nil
	case '{':
		p.pos++
		fields, err := p.list('}')
		if err != nil {
			return llvm.NoType, err
		}
		return p.ctx.Struct(fields...), nil
	}

	w := p.word()
	switch w {
	case "void":
		return p.ctx.Void(), nil
	case "float":
		return p.ctx.Float(), nil
	case "double":
		return p.ctx.Double(), nil
	case "intptr":
		return p.ctx.IntPtr(), nil
	case "":
		return llvm.NoType, fmt.Errorf("expected a type at %d", p.pos)
	}
	if bits, ok := strings.CutPrefix(w, "i"); ok {
		n, err := strconv.Atoi(bits)
		if err == nil && n > 0 && n <= 1<<23 {
			return p.ctx.Int(n), nil
		}
	}
	return llvm.NoType, fmt.Errorf("unknown type %q", w)
}
