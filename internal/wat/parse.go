package wat

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// node is one s-expression: an atom, a string literal or a parenthesized list.
type node struct {
	text   string
	list   []*node
	line   int
	isList bool
	quoted bool
}

// keyword returns the leading atom of a list, or "" for anything else.
func (n *node) keyword() string {
	if !n.isList || len(n.list) == 0 || n.list[0].isList || n.list[0].quoted {
		return ""
	}
	return n.list[0].text
}

func (n *node) isID() bool {
	return !n.isList && !n.quoted && strings.HasPrefix(n.text, "$")
}

func (n *node) isAtom() bool {
	return !n.isList && !n.quoted
}

func (n *node) describe() string {
	switch {
	case n.isList:
		return "(" + n.keyword() + " ...)"
	case n.quoted:
		return strconv.Quote(n.text)
	}
	return n.text
}

func errorf(n *node, format string, args ...any) error {
	return fmt.Errorf("line %d: %s", n.line, fmt.Sprintf(format, args...))
}

func readTree(toks []token) (*node, error) {
	if len(toks) == 0 {
		return nil, fmt.Errorf("empty source")
	}
	pos := 0
	var read func() (*node, error)
	read = func() (*node, error) {
		t := toks[pos]
		pos++
		switch t.kind {
		case tokAtom:
			return &node{text: t.text, line: t.line}, nil
		case tokString:
			return &node{text: t.text, line: t.line, quoted: true}, nil
		case tokRParen:
			return nil, fmt.Errorf("line %d: unexpected )", t.line)
		}
		n := &node{isList: true, line: t.line}
		for {
			if pos >= len(toks) {
				return nil, fmt.Errorf("line %d: unclosed (", t.line)
			}
			if toks[pos].kind == tokRParen {
				pos++
				return n, nil
			}
			child, err := read()
			if err != nil {
				return nil, err
			}
			n.list = append(n.list, child)
		}
	}

	root, err := read()
	if err != nil {
		return nil, err
	}
	if pos != len(toks) {
		return nil, fmt.Errorf("line %d: text after module", toks[pos].line)
	}
	return root, nil
}

type builder struct {
	mod     module
	funcs   map[string]uint32
	globals map[string]uint32
	mems    map[string]uint32
}

func build(root *node) (*module, error) {
	if root.keyword() != "module" {
		return nil, errorf(root, "expected (module ...)")
	}
	b := &builder{
		funcs:   make(map[string]uint32),
		globals: make(map[string]uint32),
		mems:    make(map[string]uint32),
	}

	fields := root.list[1:]
	if len(fields) > 0 && fields[0].isID() {
		fields = fields[1:]
	}

	var funcs, globals, exports []*node
	for _, f := range fields {
		switch f.keyword() {
		case "import":
			if len(funcs) > 0 {
				return nil, errorf(f, "imports must precede function definitions")
			}
			if err := b.importFunc(f); err != nil {
				return nil, err
			}
		case "memory":
			if err := b.memory(f); err != nil {
				return nil, err
			}
		case "func":
			funcs = append(funcs, f)
		case "global":
			globals = append(globals, f)
		case "export":
			exports = append(exports, f)
		default:
			return nil, errorf(f, "unsupported module field %s", f.describe())
		}
	}

	// Function names are declared up front so bodies can call forward.
	base := uint32(len(b.mod.imports))
	for i, f := range funcs {
		if len(f.list) > 1 && f.list[1].isID() {
			if err := declare(b.funcs, f.list[1], base+uint32(i)); err != nil {
				return nil, err
			}
		}
	}
	for _, g := range globals {
		if err := b.global(g); err != nil {
			return nil, err
		}
	}
	for i, f := range funcs {
		if err := b.function(f, base+uint32(i)); err != nil {
			return nil, err
		}
	}
	for _, e := range exports {
		if err := b.export(e); err != nil {
			return nil, err
		}
	}
	return &b.mod, nil
}

func declare(names map[string]uint32, id *node, idx uint32) error {
	if _, dup := names[id.text]; dup {
		return errorf(id, "duplicate identifier %s", id.text)
	}
	names[id.text] = idx
	return nil
}

func (b *builder) typeIndex(ft funcType) uint32 {
	for i, t := range b.mod.types {
		if t.equal(ft) {
			return uint32(i)
		}
	}
	b.mod.types = append(b.mod.types, ft)
	return uint32(len(b.mod.types) - 1)
}

func (b *builder) importFunc(n *node) error {
	if len(n.list) != 4 || !n.list[1].quoted || !n.list[2].quoted || n.list[3].keyword() != "func" {
		return errorf(n, `expected (import "module" "name" (func ...))`)
	}
	desc := n.list[3].list[1:]
	idx := uint32(len(b.mod.imports))
	if len(desc) > 0 && desc[0].isID() {
		if err := declare(b.funcs, desc[0], idx); err != nil {
			return err
		}
		desc = desc[1:]
	}
	ft, _, rest, err := signature(desc)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return errorf(rest[0], "unexpected %s in import", rest[0].describe())
	}
	b.mod.imports = append(b.mod.imports, funcImport{
		module:  n.list[1].text,
		name:    n.list[2].text,
		typeIdx: b.typeIndex(ft),
	})
	return nil
}

func (b *builder) inlineExports(items []*node, kind byte, idx uint32) ([]*node, error) {
	for len(items) > 0 && items[0].keyword() == "export" {
		e := items[0]
		if len(e.list) != 2 || !e.list[1].quoted {
			return nil, errorf(e, `expected (export "name")`)
		}
		b.mod.exports = append(b.mod.exports, export{name: e.list[1].text, kind: kind, idx: idx})
		items = items[1:]
	}
	return items, nil
}

func (b *builder) memory(n *node) error {
	idx := uint32(len(b.mod.memories))
	items := n.list[1:]
	if len(items) > 0 && items[0].isID() {
		if err := declare(b.mems, items[0], idx); err != nil {
			return err
		}
		items = items[1:]
	}
	items, err := b.inlineExports(items, kindMemory, idx)
	if err != nil {
		return err
	}

	var lim limits
	switch len(items) {
	case 2:
		if lim.max, err = parseU32(items[1]); err != nil {
			return err
		}
		lim.hasMax = true
		fallthrough
	case 1:
		if lim.min, err = parseU32(items[0]); err != nil {
			return err
		}
	default:
		return errorf(n, "memory takes a minimum and an optional maximum page count")
	}
	b.mod.memories = append(b.mod.memories, lim)
	return nil
}

func (b *builder) global(n *node) error {
	idx := uint32(len(b.mod.globals))
	items := n.list[1:]
	if len(items) > 0 && items[0].isID() {
		if err := declare(b.globals, items[0], idx); err != nil {
			return err
		}
		items = items[1:]
	}
	items, err := b.inlineExports(items, kindGlobal, idx)
	if err != nil {
		return err
	}
	if len(items) != 2 {
		return errorf(n, "global takes a type and an initializer")
	}

	var g global
	if items[0].keyword() == "mut" {
		if len(items[0].list) != 2 {
			return errorf(items[0], "expected (mut type)")
		}
		g.mutable = true
		g.typ, err = parseValType(items[0].list[1])
	} else {
		g.typ, err = parseValType(items[0])
	}
	if err != nil {
		return err
	}

	c, err := b.newCode(nil)
	if err != nil {
		return err
	}
	if err := c.instrs(items[1:]); err != nil {
		return err
	}
	c.buf.put(opEnd)
	g.init = c.buf.bytes
	b.mod.globals = append(b.mod.globals, g)
	return nil
}

func (b *builder) function(n *node, idx uint32) error {
	items := n.list[1:]
	if len(items) > 0 && items[0].isID() {
		items = items[1:]
	}
	items, err := b.inlineExports(items, kindFunc, idx)
	if err != nil {
		return err
	}
	ft, names, items, err := signature(items)
	if err != nil {
		return err
	}

	var locals []valType
	for len(items) > 0 && items[0].keyword() == "local" {
		types, ids, err := typeList(items[0])
		if err != nil {
			return err
		}
		locals = append(locals, types...)
		names = append(names, ids...)
		items = items[1:]
	}

	c, err := b.newCode(names)
	if err != nil {
		return errorf(n, "%v", err)
	}
	if err := c.instrs(items); err != nil {
		return err
	}
	c.buf.put(opEnd)
	b.mod.funcs = append(b.mod.funcs, function{
		typeIdx: b.typeIndex(ft),
		locals:  locals,
		code:    c.buf.bytes,
	})
	return nil
}

func (b *builder) export(n *node) error {
	if len(n.list) != 3 || !n.list[1].quoted || len(n.list[2].list) != 2 {
		return errorf(n, `expected (export "name" (kind index))`)
	}
	desc := n.list[2]

	var kind byte
	var names map[string]uint32
	switch desc.keyword() {
	case "func":
		kind, names = kindFunc, b.funcs
	case "memory":
		kind, names = kindMemory, b.mems
	case "global":
		kind, names = kindGlobal, b.globals
	default:
		return errorf(desc, "unsupported export kind %s", desc.describe())
	}

	idx, err := resolve(names, desc.list[1])
	if err != nil {
		return err
	}
	b.mod.exports = append(b.mod.exports, export{name: n.list[1].text, kind: kind, idx: idx})
	return nil
}

// signature consumes leading param and result lists.
func signature(items []*node) (funcType, []string, []*node, error) {
	var ft funcType
	var names []string
	for len(items) > 0 && items[0].keyword() == "param" {
		types, ids, err := typeList(items[0])
		if err != nil {
			return ft, nil, nil, err
		}
		ft.params = append(ft.params, types...)
		names = append(names, ids...)
		items = items[1:]
	}
	for len(items) > 0 && items[0].keyword() == "result" {
		types, ids, err := typeList(items[0])
		if err != nil {
			return ft, nil, nil, err
		}
		if ids[0] != "" {
			return ft, nil, nil, errorf(items[0], "results cannot be named")
		}
		ft.results = append(ft.results, types...)
		items = items[1:]
	}
	return ft, names, items, nil
}

// typeList reads (param $x i32) or (param i32 i64 ...) and the same forms
// of result and local.
func typeList(n *node) ([]valType, []string, error) {
	args := n.list[1:]
	if len(args) > 0 && args[0].isID() {
		if len(args) != 2 {
			return nil, nil, errorf(n, "named %s takes exactly one type", n.keyword())
		}
		vt, err := parseValType(args[1])
		if err != nil {
			return nil, nil, err
		}
		return []valType{vt}, []string{args[0].text}, nil
	}
	if len(args) == 0 {
		return nil, nil, errorf(n, "empty %s", n.keyword())
	}
	types := make([]valType, len(args))
	for i, a := range args {
		vt, err := parseValType(a)
		if err != nil {
			return nil, nil, err
		}
		types[i] = vt
	}
	return types, make([]string, len(args)), nil
}

func parseValType(n *node) (valType, error) {
	if n.isAtom() {
		if vt, ok := valTypes[n.text]; ok {
			return vt, nil
		}
	}
	return 0, errorf(n, "unknown value type %s", n.describe())
}

func resolve(names map[string]uint32, n *node) (uint32, error) {
	if !n.isID() {
		return parseU32(n)
	}
	idx, ok := names[n.text]
	if !ok {
		return 0, errorf(n, "unknown identifier %s", n.text)
	}
	return idx, nil
}

func parseU32(n *node) (uint32, error) {
	if !n.isAtom() {
		return 0, errorf(n, "expected a number, got %s", n.describe())
	}
	v, err := strconv.ParseUint(n.text, 0, 32)
	if err != nil {
		return 0, errorf(n, "bad u32 %s", n.text)
	}
	return uint32(v), nil
}

// parseI32 accepts the signed and the unsigned spelling of a 32-bit value.
func parseI32(n *node) (int32, error) {
	v, err := strconv.ParseInt(n.text, 0, 64)
	if err != nil || v < -1<<31 || v > 1<<32-1 {
		return 0, errorf(n, "bad i32 %s", n.text)
	}
	return int32(v), nil
}

func parseI64(n *node) (int64, error) {
	if v, err := strconv.ParseInt(n.text, 0, 64); err == nil {
		return v, nil
	}
	u, err := strconv.ParseUint(n.text, 0, 64)
	if err != nil {
		return 0, errorf(n, "bad i64 %s", n.text)
	}
	return int64(u), nil
}

type code struct {
	b      *builder
	locals map[string]uint32
	buf    buffer
}

func (b *builder) newCode(names []string) (*code, error) {
	c := &code{b: b, locals: make(map[string]uint32)}
	for i, name := range names {
		if name == "" {
			continue
		}
		if _, dup := c.locals[name]; dup {
			return nil, fmt.Errorf("duplicate local %s", name)
		}
		c.locals[name] = uint32(i)
	}
	return c, nil
}

func (c *code) instrs(items []*node) error {
	for len(items) > 0 {
		n := items[0]
		items = items[1:]
		if n.isList {
			if err := c.folded(n); err != nil {
				return err
			}
			continue
		}
		used, err := c.instr(n, items)
		if err != nil {
			return err
		}
		items = items[used:]
	}
	return nil
}

// folded emits the operands of (op imm... operand...) before op itself.
func (c *code) folded(n *node) error {
	if n.keyword() == "" {
		return errorf(n, "expected an instruction")
	}
	args := n.list[1:]
	k := 0
	for k < len(args) && !args[k].isList {
		k++
	}
	if err := c.instrs(args[k:]); err != nil {
		return err
	}
	used, err := c.instr(n.list[0], args[:k])
	if err != nil {
		return err
	}
	if used != k {
		return errorf(args[used], "unexpected immediate %s", args[used].describe())
	}
	return nil
}

// instr encodes op and reports how many of the following atoms it consumed
// as immediates.
func (c *code) instr(op *node, next []*node) (int, error) {
	if op.quoted {
		return 0, errorf(op, "unexpected string %s", op.describe())
	}
	info, ok := instructions[op.text]
	if !ok {
		return 0, errorf(op, "unknown instruction %s", op.text)
	}
	c.buf.put(info.opcode)

	switch info.imm {
	case immNone:
		return 0, nil
	case immZero:
		c.buf.put(0)
		return 0, nil
	case immMem:
		return c.memarg(info.align, next)
	}

	if len(next) == 0 || !next[0].isAtom() {
		return 0, errorf(op, "%s needs an immediate", op.text)
	}
	arg := next[0]
	switch info.imm {
	case immLocal, immGlobal, immFunc:
		names := c.locals
		if info.imm == immGlobal {
			names = c.b.globals
		} else if info.imm == immFunc {
			names = c.b.funcs
		}
		idx, err := resolve(names, arg)
		if err != nil {
			return 0, err
		}
		c.buf.u32(idx)
	case immI32:
		v, err := parseI32(arg)
		if err != nil {
			return 0, err
		}
		c.buf.s64(int64(v))
	case immI64:
		v, err := parseI64(arg)
		if err != nil {
			return 0, err
		}
		c.buf.s64(v)
	}
	return 1, nil
}

func (c *code) memarg(align uint32, next []*node) (int, error) {
	var offset uint32
	used := 0
	for ; used < len(next) && next[used].isAtom(); used++ {
		n := next[used]
		if v, ok := strings.CutPrefix(n.text, "offset="); ok {
			o, err := strconv.ParseUint(v, 0, 32)
			if err != nil {
				return 0, errorf(n, "bad offset %s", v)
			}
			offset = uint32(o)
		} else if v, ok := strings.CutPrefix(n.text, "align="); ok {
			a, err := strconv.ParseUint(v, 0, 32)
			if err != nil || a == 0 || a&(a-1) != 0 {
				return 0, errorf(n, "alignment must be a power of two, got %s", v)
			}
			align = uint32(bits.TrailingZeros32(uint32(a)))
		} else {
			break
		}
	}
	c.buf.u32(align)
	c.buf.u32(offset)
	return used, nil
}
