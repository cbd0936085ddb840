package bridge

import (
	"context"
	"math"
	"strconv"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/draco-go/errors"
	"github.com/wippyai/draco-go/geometry"
	"github.com/wippyai/draco-go/index"
	"github.com/wippyai/draco-go/resource"
)

const cabiRealloc = "cabi_realloc"

// InvalidIndex is the raw value guests receive for "no index".
const InvalidIndex = math.MaxUint32

// frame is the per-call view of the calling guest. Memory and cabi_realloc
// always come from the same module.
type frame struct {
	ctx  context.Context
	fn   string
	mem  api.Memory
	call api.Module
}

func newFrame(ctx context.Context, mod api.Module, fn string) *frame {
	fr := &frame{ctx: ctx, fn: fn, call: mod}
	if mod != nil {
		fr.mem = mod.Memory()
	}
	return fr
}

// trap aborts the guest call. wazero surfaces the panic as the call's error.
func (fr *frame) trap(err error) {
	Logger().Warn("bridge: trap", zap.String("func", fr.fn), zap.Error(err))
	panic(err)
}

func (fr *frame) memory() api.Memory {
	if fr.mem == nil {
		fr.trap(errors.New(errors.PhaseHost, errors.KindMemory).
			Detail("%s: caller has no linear memory", fr.fn).
			Build())
	}
	return fr.mem
}

func (fr *frame) read(ptr, length uint32) []byte {
	data, ok := fr.memory().Read(ptr, length)
	if !ok {
		fr.trap(errors.OutOfBounds(errors.PhaseHost, []string{fr.fn, "data"}, uint64(ptr)+uint64(length), uint64(fr.mem.Size())))
	}
	return data
}

func (fr *frame) alloc(size, align uint32) uint32 {
	fr.memory()
	realloc := fr.call.ExportedFunction(cabiRealloc)
	if realloc == nil {
		fr.trap(errors.NotFound(errors.PhaseHost, "export", cabiRealloc))
	}
	res, err := realloc.Call(fr.ctx, 0, 0, uint64(align), uint64(size))
	if err != nil {
		fr.trap(errors.Wrap(errors.PhaseHost, errors.KindMemory, err, "cabi_realloc failed"))
	}
	return uint32(res[0])
}

func (fr *frame) writeU32(ptr, v uint32) {
	if !fr.memory().WriteUint32Le(ptr, v) {
		fr.trap(errors.OutOfBounds(errors.PhaseHost, []string{fr.fn, "retptr"}, uint64(ptr), uint64(fr.mem.Size())))
	}
}

// writeList stores a (ptr, len) pair at retptr.
func (fr *frame) writeList(retptr, ptr, length uint32) {
	fr.writeU32(retptr, ptr)
	fr.writeU32(retptr+4, length)
}

func (fr *frame) writeString(retptr uint32, s string) {
	if s == "" {
		fr.writeList(retptr, 0, 0)
		return
	}
	ptr := fr.alloc(uint32(len(s)), 1)
	if !fr.memory().Write(ptr, []byte(s)) {
		fr.trap(errors.OutOfBounds(errors.PhaseHost, []string{fr.fn, "string"}, uint64(ptr), uint64(fr.mem.Size())))
	}
	fr.writeList(retptr, ptr, uint32(len(s)))
}

func (fr *frame) writeF64s(retptr uint32, vs []float64) {
	if len(vs) == 0 {
		fr.writeList(retptr, 0, 0)
		return
	}
	ptr := fr.alloc(uint32(8*len(vs)), 8)
	for i, v := range vs {
		if !fr.memory().WriteFloat64Le(ptr+uint32(8*i), v) {
			fr.trap(errors.OutOfBounds(errors.PhaseHost, []string{fr.fn, "list"}, uint64(ptr), uint64(fr.mem.Size())))
		}
	}
	fr.writeList(retptr, ptr, uint32(len(vs)))
}

// handleErr traps on boundary violations (unknown handle, wrong handle type)
// and reports whether err was a recoverable domain error.
func (fr *frame) handleErr(err error) bool {
	if err == nil {
		return false
	}
	switch errors.KindOf(err) {
	case errors.KindInvalidHandle, errors.KindTypeMismatch:
		fr.trap(err)
	}
	return true
}

func handleArg(v uint64) resource.Handle { return resource.Handle(uint32(v)) }

// hostHandler implements one function on the raw stack.
type hostHandler func(fr *frame, stack []uint64)

func (b *Bridge) handlers() map[string]hostHandler {
	return map[string]hostHandler{
		"decode-mesh": func(fr *frame, stack []uint64) {
			data := fr.read(uint32(stack[0]), uint32(stack[1]))
			h, err := b.DecodeMesh(fr.ctx, data)
			if err != nil {
				fr.trap(err)
			}
			stack[0] = uint64(h)
		},
		"decode-point-cloud": func(fr *frame, stack []uint64) {
			data := fr.read(uint32(stack[0]), uint32(stack[1]))
			h, err := b.DecodePointCloud(fr.ctx, data)
			if err != nil {
				fr.trap(err)
			}
			stack[0] = uint64(h)
		},
		"mesh-result-status": func(fr *frame, stack []uint64) {
			st, err := b.MeshResultStatus(handleArg(stack[0]))
			fr.handleErr(err)
			stack[0] = api.EncodeI32(int32(st.Code))
		},
		"mesh-result-message": func(fr *frame, stack []uint64) {
			st, err := b.MeshResultStatus(handleArg(stack[0]))
			fr.handleErr(err)
			fr.writeString(uint32(stack[1]), st.Message)
		},
		"mesh-result-value": func(fr *frame, stack []uint64) {
			h, err := b.MeshResultValue(handleArg(stack[0]))
			if fr.handleErr(err) {
				Logger().Warn("bridge: mesh taken from result without a value",
					zap.Uint32("result", uint32(stack[0])), zap.Error(err))
			}
			stack[0] = uint64(h)
		},
		"point-cloud-result-status": func(fr *frame, stack []uint64) {
			st, err := b.PointCloudResultStatus(handleArg(stack[0]))
			fr.handleErr(err)
			stack[0] = api.EncodeI32(int32(st.Code))
		},
		"point-cloud-result-message": func(fr *frame, stack []uint64) {
			st, err := b.PointCloudResultStatus(handleArg(stack[0]))
			fr.handleErr(err)
			fr.writeString(uint32(stack[1]), st.Message)
		},
		"point-cloud-result-value": func(fr *frame, stack []uint64) {
			h, err := b.PointCloudResultValue(handleArg(stack[0]))
			if fr.handleErr(err) {
				Logger().Warn("bridge: point cloud taken from result without a value",
					zap.Uint32("result", uint32(stack[0])), zap.Error(err))
			}
			stack[0] = uint64(h)
		},
		"mesh-num-faces": func(fr *frame, stack []uint64) {
			n, err := b.MeshNumFaces(handleArg(stack[0]))
			fr.handleErr(err)
			stack[0] = uint64(n)
		},
		"mesh-face": func(fr *frame, stack []uint64) {
			f, err := b.MeshFace(handleArg(stack[0]), index.NewFaceIndex(uint32(stack[1])))
			if fr.handleErr(err) {
				f = geometry.Face{index.Invalid[index.Point](), index.Invalid[index.Point](), index.Invalid[index.Point]()}
			}
			retptr := uint32(stack[2])
			for i, p := range f {
				fr.writeU32(retptr+uint32(4*i), p.Value())
			}
		},
		"mesh-corner-point": func(fr *frame, stack []uint64) {
			p, err := b.MeshCornerPoint(handleArg(stack[0]), index.NewCornerIndex(uint32(stack[1])))
			fr.handleErr(err)
			stack[0] = uint64(p.Value())
		},
		"point-cloud-num-points": func(fr *frame, stack []uint64) {
			n, err := b.PointCloudNumPoints(handleArg(stack[0]))
			fr.handleErr(err)
			stack[0] = uint64(n)
		},
		"point-cloud-attribute-value": func(fr *frame, stack []uint64) {
			vs, err := b.PointCloudAttributeValue(handleArg(stack[0]),
				geometry.AttrID(api.DecodeI32(stack[1])), index.NewPointIndex(uint32(stack[2])))
			if fr.handleErr(err) {
				vs = nil
			}
			fr.writeF64s(uint32(stack[3]), vs)
		},
		"drop": func(fr *frame, stack []uint64) {
			if b.Drop(handleArg(stack[0])) {
				stack[0] = 1
			} else {
				stack[0] = 0
			}
		},
	}
}

// arity is the number of stack slots each handler reads.
var arity = map[string]int{
	"decode-mesh":                 2,
	"decode-point-cloud":          2,
	"mesh-result-status":          1,
	"mesh-result-message":         2,
	"mesh-result-value":           1,
	"point-cloud-result-status":   1,
	"point-cloud-result-message":  2,
	"point-cloud-result-value":    1,
	"mesh-num-faces":              1,
	"mesh-face":                   3,
	"mesh-corner-point":           2,
	"point-cloud-num-points":      1,
	"point-cloud-attribute-value": 4,
	"drop":                        1,
}

// Instantiate registers the host module in rt.
//
// Each WIT signature is lowered to its core signature and checked against
// the handler before anything is registered.
func (b *Bridge) Instantiate(ctx context.Context, rt wazero.Runtime) (api.Module, error) {
	name := b.ModuleName()
	handlers := b.handlers()
	builder := rt.NewHostModuleBuilder(name)

	for _, f := range Functions() {
		h, ok := handlers[f.Name]
		if !ok {
			return nil, errors.Registration(name, f.Name, errors.NotFound(errors.PhaseBind, "handler", f.Name))
		}
		params, results := f.CoreSignature()
		if len(params) != arity[f.Name] {
			return nil, errors.Registration(name, f.Name, errors.SignatureMismatch(f.Name, arity[f.Name], len(params)))
		}
		builder.NewFunctionBuilder().
			WithGoModuleFunction(b.lower(f.Name, h), params, results).
			WithParameterNames(paramNames(f)...).
			Export(f.Name)
		Logger().Debug("bridge: export",
			zap.String("module", name),
			zap.String("func", f.Signature()),
			zap.Int("params", len(params)),
			zap.Int("results", len(results)))
	}

	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, errors.Registration(name, "", err)
	}
	return mod, nil
}

func (b *Bridge) lower(name string, h hostHandler) api.GoModuleFunc {
	return func(ctx context.Context, mod api.Module, stack []uint64) {
		h(newFrame(ctx, mod, name), stack)
	}
}

func paramNames(f *Function) []string {
	var names []string
	for _, p := range f.Params {
		n := FlatCount(p.Type)
		if n == 1 {
			names = append(names, p.Name)
			continue
		}
		if n == 2 {
			names = append(names, p.Name+"_ptr", p.Name+"_len")
			continue
		}
		for i := range n {
			names = append(names, p.Name+"_"+strconv.Itoa(i))
		}
	}
	if f.UsesRetptr() {
		names = append(names, "retptr")
	}
	return names
}
