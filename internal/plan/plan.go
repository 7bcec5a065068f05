// Package plan decodes emission plans and drives them through the guarded
// builder.
//
// A plan is a TOML file describing functions as lists of blocks, each block
// a list of operations:
//
//	[[declare]]
//	name = "llvm.trap"
//	ret = "void"
//
//	[[func]]
//	name = "add"
//	ret = "i32"
//	params = ["i32", "i32"]
//	names = ["a", "b"]
//
//	  [[func.block]]
//	  name = "entry"
//
//	    [[func.block.op]]
//	    op = "add"
//	    dst = "sum"
//	    args = ["%a", "%b"]
//
//	    [[func.block.op]]
//	    op = "ret"
//	    args = ["%sum"]
//
// Operands are "%name" for parameters and op results, "@name" for functions
// and "type:literal" for constants ("i32:7", "double:0.5", "i8*:null",
// "i32:undef"). A block with unreachable = true is marked dead before its
// operations run, so they are answered with placeholders.
package plan

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"irbuild/internal/source"
)

// Plan is one decoded emission plan.
type Plan struct {
	Name    string    `toml:"name"`
	Triple  string    `toml:"triple"`
	Declare []Decl    `toml:"declare"`
	Funcs   []FuncDef `toml:"func"`

	// Path and File locate the plan source for span comments.
	Path string        `toml:"-"`
	File source.FileID `toml:"-"`
}

// Decl declares an external function.
type Decl struct {
	Name   string   `toml:"name"`
	Ret    string   `toml:"ret"`
	Params []string `toml:"params"`
}

// FuncDef defines a function body.
type FuncDef struct {
	Name   string     `toml:"name"`
	Ret    string     `toml:"ret"`
	Params []string   `toml:"params"`
	Names  []string   `toml:"names"`
	Blocks []BlockDef `toml:"block"`
}

// BlockDef is one basic block of a FuncDef.
type BlockDef struct {
	Name        string `toml:"name"`
	Unreachable bool   `toml:"unreachable"`
	Ops         []Op   `toml:"op"`
}

// Op is one builder call. Which fields are read depends on Op.Op.
type Op struct {
	Op    string   `toml:"op"`
	Dst   string   `toml:"dst"`
	Args  []string `toml:"args"`
	Type  string   `toml:"type"`
	Pred  string   `toml:"pred"`
	Flags []string `toml:"flags"`
	Conv  string   `toml:"conv"`

	// block targets
	To     string   `toml:"to"`
	Then   string   `toml:"then"`
	Else   string   `toml:"else"`
	Blocks []string `toml:"blocks"`
	Cases  []Case   `toml:"cases"`

	Idx     []int  `toml:"idx"`
	Text    string `toml:"text"`
	Line    int    `toml:"line"`
	Clauses int    `toml:"clauses"`
	Cleanup bool   `toml:"cleanup"`
}

// Case is one switch arm.
type Case struct {
	Value string `toml:"value"`
	To    string `toml:"to"`
}

// Load reads and decodes the plan at path, registering its source in files.
func Load(files *source.FileSet, path string) (*Plan, error) {
	id, err := files.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}
	p, err := Parse(path, files.Get(id).Content)
	if err != nil {
		return nil, err
	}
	p.File = id
	return p, nil
}

// Parse decodes plan text. path names the plan in errors and defaults its Name.
func Parse(path string, data []byte) (*Plan, error) {
	var p Plan
	meta, err := toml.Decode(string(data), &p)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	p.Path = path
	if p.Name == "" {
		p.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &p, nil
}

func (p *Plan) validate() error {
	seen := make(map[string]bool)
	for _, d := range p.Declare {
		if d.Name == "" {
			return fmt.Errorf("declaration without a name")
		}
		if seen[d.Name] {
			return fmt.Errorf("function %q declared twice", d.Name)
		}
		seen[d.Name] = true
	}
	for _, f := range p.Funcs {
		if f.Name == "" {
			return fmt.Errorf("function without a name")
		}
		if seen[f.Name] {
			return fmt.Errorf("function %q declared twice", f.Name)
		}
		seen[f.Name] = true
		if len(f.Names) > 0 && len(f.Names) != len(f.Params) {
			return fmt.Errorf("func %s: %d names for %d params", f.Name, len(f.Names), len(f.Params))
		}
		if len(f.Blocks) == 0 {
			return fmt.Errorf("func %s: no blocks", f.Name)
		}
		blocks := make(map[string]bool, len(f.Blocks))
		for i, b := range f.Blocks {
			if b.Name == "" {
				return fmt.Errorf("func %s: block %d has no name", f.Name, i)
			}
			if blocks[b.Name] {
				return fmt.Errorf("func %s: block %q defined twice", f.Name, b.Name)
			}
			blocks[b.Name] = true
		}
	}
	return nil
}
