package wat

import "slices"

type valType byte

const (
	i32 valType = 0x7f
	i64 valType = 0x7e
	f32 valType = 0x7d
	f64 valType = 0x7c
)

var valTypes = map[string]valType{"i32": i32, "i64": i64, "f32": f32, "f64": f64}

const (
	sectionType   byte = 1
	sectionImport byte = 2
	sectionFunc   byte = 3
	sectionMemory byte = 5
	sectionGlobal byte = 6
	sectionExport byte = 7
	sectionCode   byte = 10

	kindFunc   byte = 0x00
	kindMemory byte = 0x02
	kindGlobal byte = 0x03

	funcTypeForm byte = 0x60
	opEnd        byte = 0x0b
)

var header = []byte{0x00, 'a', 's', 'm', 0x01, 0x00, 0x00, 0x00}

type immKind uint8

const (
	immNone immKind = iota
	immZero
	immLocal
	immGlobal
	immFunc
	immI32
	immI64
	immMem
)

type instrInfo struct {
	opcode byte
	imm    immKind
	align  uint32 // natural alignment, log2
}

var instructions = map[string]instrInfo{
	"unreachable": {opcode: 0x00},
	"nop":         {opcode: 0x01},
	"return":      {opcode: 0x0f},
	"call":        {opcode: 0x10, imm: immFunc},
	"drop":        {opcode: 0x1a},
	"select":      {opcode: 0x1b},

	"local.get":  {opcode: 0x20, imm: immLocal},
	"local.set":  {opcode: 0x21, imm: immLocal},
	"local.tee":  {opcode: 0x22, imm: immLocal},
	"global.get": {opcode: 0x23, imm: immGlobal},
	"global.set": {opcode: 0x24, imm: immGlobal},

	"i32.load":    {opcode: 0x28, imm: immMem, align: 2},
	"i64.load":    {opcode: 0x29, imm: immMem, align: 3},
	"f32.load":    {opcode: 0x2a, imm: immMem, align: 2},
	"f64.load":    {opcode: 0x2b, imm: immMem, align: 3},
	"i32.load8_u": {opcode: 0x2d, imm: immMem},
	"i32.store":   {opcode: 0x36, imm: immMem, align: 2},
	"i64.store":   {opcode: 0x37, imm: immMem, align: 3},
	"f32.store":   {opcode: 0x38, imm: immMem, align: 2},
	"f64.store":   {opcode: 0x39, imm: immMem, align: 3},
	"i32.store8":  {opcode: 0x3a, imm: immMem},
	"memory.size": {opcode: 0x3f, imm: immZero},
	"memory.grow": {opcode: 0x40, imm: immZero},

	"i32.const": {opcode: 0x41, imm: immI32},
	"i64.const": {opcode: 0x42, imm: immI64},

	"i32.eqz":   {opcode: 0x45},
	"i32.eq":    {opcode: 0x46},
	"i32.ne":    {opcode: 0x47},
	"i32.add":   {opcode: 0x6a},
	"i32.sub":   {opcode: 0x6b},
	"i32.mul":   {opcode: 0x6c},
	"i32.and":   {opcode: 0x71},
	"i32.or":    {opcode: 0x72},
	"i32.xor":   {opcode: 0x73},
	"i32.shl":   {opcode: 0x74},
	"i32.shr_u": {opcode: 0x76},
	"i64.add":   {opcode: 0x7c},
}

type funcType struct {
	params  []valType
	results []valType
}

func (ft funcType) equal(o funcType) bool {
	return slices.Equal(ft.params, o.params) && slices.Equal(ft.results, o.results)
}

type funcImport struct {
	module  string
	name    string
	typeIdx uint32
}

type function struct {
	locals  []valType
	code    []byte
	typeIdx uint32
}

type global struct {
	init    []byte
	typ     valType
	mutable bool
}

type limits struct {
	min    uint32
	max    uint32
	hasMax bool
}

type export struct {
	name string
	idx  uint32
	kind byte
}

type module struct {
	types    []funcType
	imports  []funcImport
	funcs    []function
	memories []limits
	globals  []global
	exports  []export
}

type buffer struct {
	bytes []byte
}

func (b *buffer) put(v ...byte) {
	b.bytes = append(b.bytes, v...)
}

func (b *buffer) u32(v uint32) {
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			c |= 0x80
		}
		b.bytes = append(b.bytes, c)
		if v == 0 {
			return
		}
	}
}

func (b *buffer) s64(v int64) {
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && c&0x40 == 0) || (v == -1 && c&0x40 != 0) {
			b.bytes = append(b.bytes, c)
			return
		}
		b.bytes = append(b.bytes, c|0x80)
	}
}

func (b *buffer) name(s string) {
	b.u32(uint32(len(s)))
	b.bytes = append(b.bytes, s...)
}

func (b *buffer) valTypes(vts []valType) {
	b.u32(uint32(len(vts)))
	for _, vt := range vts {
		b.put(byte(vt))
	}
}

func (b *buffer) limits(l limits) {
	if l.hasMax {
		b.put(0x01)
		b.u32(l.min)
		b.u32(l.max)
		return
	}
	b.put(0x00)
	b.u32(l.min)
}

func (b *buffer) section(id byte, count int, body func(*buffer)) {
	if count == 0 {
		return
	}
	var sec buffer
	sec.u32(uint32(count))
	body(&sec)
	b.put(id)
	b.u32(uint32(len(sec.bytes)))
	b.put(sec.bytes...)
}

func (m *module) encode() []byte {
	out := &buffer{bytes: slices.Clone(header)}

	out.section(sectionType, len(m.types), func(b *buffer) {
		for _, ft := range m.types {
			b.put(funcTypeForm)
			b.valTypes(ft.params)
			b.valTypes(ft.results)
		}
	})
	out.section(sectionImport, len(m.imports), func(b *buffer) {
		for _, imp := range m.imports {
			b.name(imp.module)
			b.name(imp.name)
			b.put(kindFunc)
			b.u32(imp.typeIdx)
		}
	})
	out.section(sectionFunc, len(m.funcs), func(b *buffer) {
		for _, f := range m.funcs {
			b.u32(f.typeIdx)
		}
	})
	out.section(sectionMemory, len(m.memories), func(b *buffer) {
		for _, l := range m.memories {
			b.limits(l)
		}
	})
	out.section(sectionGlobal, len(m.globals), func(b *buffer) {
		for _, g := range m.globals {
			b.put(byte(g.typ))
			if g.mutable {
				b.put(0x01)
			} else {
				b.put(0x00)
			}
			b.put(g.init...)
		}
	})
	out.section(sectionExport, len(m.exports), func(b *buffer) {
		for _, e := range m.exports {
			b.name(e.name)
			b.put(e.kind)
			b.u32(e.idx)
		}
	})
	out.section(sectionCode, len(m.funcs), func(b *buffer) {
		for _, f := range m.funcs {
			var body buffer
			groups := localGroups(f.locals)
			body.u32(uint32(len(groups)))
			for _, g := range groups {
				body.u32(g.count)
				body.put(byte(g.typ))
			}
			body.put(f.code...)
			b.u32(uint32(len(body.bytes)))
			b.put(body.bytes...)
		}
	})
	return out.bytes
}

type localGroup struct {
	count uint32
	typ   valType
}

// localGroups run-length encodes consecutive locals of the same type.
func localGroups(locals []valType) []localGroup {
	var groups []localGroup
	for _, vt := range locals {
		if n := len(groups); n > 0 && groups[n-1].typ == vt {
			groups[n-1].count++
			continue
		}
		groups = append(groups, localGroup{count: 1, typ: vt})
	}
	return groups
}
