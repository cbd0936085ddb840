package bridge

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/draco-go/internal/wat"
	"github.com/wippyai/draco-go/status"
)

// guestSource builds a guest that imports every bridge function from module
// and re-exports it under the same name through a thin wrapper, so tests
// reach the host functions the way a real guest does. With realloc the
// guest also exports a bump allocator as cabi_realloc.
func guestSource(module string, realloc bool, names ...string) string {
	funcs := Functions()
	if len(names) > 0 {
		funcs = nil
		for _, n := range names {
			funcs = append(funcs, lookupFunc(n))
		}
	}

	var sb strings.Builder
	sb.WriteString("(module\n")
	for _, f := range funcs {
		fmt.Fprintf(&sb, "  (import %q %q (func $%s%s))\n", module, f.Name, f.Name, coreSig(f))
	}
	sb.WriteString("  (memory (export \"memory\") 1)\n")
	if realloc {
		sb.WriteString(`  (global $heap (mut i32) (i32.const 1024))
  (func (export "cabi_realloc")
      (param $old i32) (param $old_size i32) (param $align i32) (param $size i32)
      (result i32) (local $ptr i32)
    (local.set $ptr
      (i32.and
        (i32.sub (i32.add (global.get $heap) (local.get $align)) (i32.const 1))
        (i32.sub (i32.const 0) (local.get $align))))
    (global.set $heap (i32.add (local.get $ptr) (local.get $size)))
    (local.get $ptr))
`)
	}
	for _, f := range funcs {
		params, _ := f.CoreSignature()
		fmt.Fprintf(&sb, "  (func (export %q)%s", f.Name, coreSig(f))
		for i := range params {
			fmt.Fprintf(&sb, " local.get %d", i)
		}
		fmt.Fprintf(&sb, " call $%s)\n", f.Name)
	}
	sb.WriteString(")\n")
	return sb.String()
}

func lookupFunc(name string) *Function {
	for _, f := range Functions() {
		if f.Name == name {
			return f
		}
	}
	panic("no bridge function " + name)
}

func coreSig(f *Function) string {
	params, results := f.CoreSignature()
	var sb strings.Builder
	for _, list := range []struct {
		kw    string
		types []api.ValueType
	}{{"param", params}, {"result", results}} {
		if len(list.types) == 0 {
			continue
		}
		sb.WriteString(" (" + list.kw)
		for _, vt := range list.types {
			sb.WriteString(" " + api.ValueTypeName(vt))
		}
		sb.WriteString(")")
	}
	return sb.String()
}

func instantiateGuest(t *testing.T, ctx context.Context, rt wazero.Runtime, name, src string) api.Module {
	t.Helper()
	wasm, err := wat.Compile(src)
	if err != nil {
		t.Fatalf("compile guest: %v\n%s", err, src)
	}
	guest, err := rt.InstantiateWithConfig(ctx, wasm, wazero.NewModuleConfig().WithName(name))
	if err != nil {
		t.Fatalf("instantiate guest: %v", err)
	}
	return guest
}

type hostEnv struct {
	t     *testing.T
	ctx   context.Context
	rt    wazero.Runtime
	b     *Bridge
	host  api.Module
	guest api.Module
}

func newHostEnv(t *testing.T, cfg *Config) *hostEnv {
	t.Helper()
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	t.Cleanup(func() { _ = rt.Close(ctx) })

	b := newTestBridge(t, cfg)
	host, err := b.Instantiate(ctx, rt)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	guest := instantiateGuest(t, ctx, rt, "guest", guestSource(b.ModuleName(), true))
	return &hostEnv{t: t, ctx: ctx, rt: rt, b: b, host: host, guest: guest}
}

func (e *hostEnv) call(name string, params ...uint64) []uint64 {
	e.t.Helper()
	fn := e.guest.ExportedFunction(name)
	if fn == nil {
		e.t.Fatalf("%s not exported by guest", name)
	}
	res, err := fn.Call(e.ctx, params...)
	if err != nil {
		e.t.Fatalf("%s: %v", name, err)
	}
	return res
}

func (e *hostEnv) callErr(name string, params ...uint64) error {
	e.t.Helper()
	_, err := e.guest.ExportedFunction(name).Call(e.ctx, params...)
	return err
}

func TestHost_Exports(t *testing.T) {
	e := newHostEnv(t, nil)
	if e.host.Name() != DefaultModuleName {
		t.Fatalf("module name = %q", e.host.Name())
	}
	defs := e.host.ExportedFunctionDefinitions()
	for _, f := range Functions() {
		def, ok := defs[f.Name]
		if !ok {
			t.Errorf("%s not exported", f.Name)
			continue
		}
		params, results := f.CoreSignature()
		if len(def.ParamTypes()) != len(params) || len(def.ResultTypes()) != len(results) {
			t.Errorf("%s: exported as %v -> %v", f.Name, def.ParamTypes(), def.ResultTypes())
		}
	}
}

func TestHost_MeshRoundTrip(t *testing.T) {
	e := newHostEnv(t, nil)
	retptr := e.alloc(16)

	rh := e.call("decode-mesh", e.put([]byte("mesh"))...)[0]
	if rh == 0 {
		t.Fatal("decode returned handle 0")
	}
	if code := api.DecodeI32(e.call("mesh-result-status", rh)[0]); code != int32(status.CodeOK) {
		t.Fatalf("status = %d", code)
	}
	e.call("mesh-result-message", rh, uint64(retptr))
	if msg := e.str(retptr); msg != "" {
		t.Fatalf("message = %q", msg)
	}

	mh := e.call("mesh-result-value", rh)[0]
	if mh == 0 {
		t.Fatal("mesh-result-value returned 0 on success")
	}
	if again := e.call("mesh-result-value", rh)[0]; again != 0 {
		t.Fatalf("second take returned %d", again)
	}

	if n := e.call("mesh-num-faces", mh)[0]; n != 1 {
		t.Fatalf("num faces = %d", n)
	}

	e.call("mesh-face", mh, 0, uint64(retptr))
	for i := range uint32(3) {
		if p := e.u32(retptr + 4*i); p != i {
			t.Errorf("face point %d = %d", i, p)
		}
	}
	e.call("mesh-face", mh, 7, uint64(retptr))
	for i := range uint32(3) {
		if p := e.u32(retptr + 4*i); p != InvalidIndex {
			t.Errorf("unknown face point %d = %#x", i, p)
		}
	}

	if p := e.call("mesh-corner-point", mh, 2)[0]; p != 2 {
		t.Fatalf("corner 2 -> %d", p)
	}
	if p := e.call("mesh-corner-point", mh, 3)[0]; p != InvalidIndex {
		t.Fatalf("corner 3 -> %#x", p)
	}
	if n := e.call("point-cloud-num-points", mh)[0]; n != 3 {
		t.Fatalf("num points = %d", n)
	}

	e.call("point-cloud-attribute-value", mh, 0, 1, uint64(retptr))
	if got := e.f64s(retptr); len(got) != 3 || got[0] != 1 || got[1] != 0 {
		t.Fatalf("attribute value = %v", got)
	}
	e.call("point-cloud-attribute-value", mh, 5, 1, uint64(retptr))
	if got := e.f64s(retptr); len(got) != 0 {
		t.Fatalf("unknown attribute value = %v", got)
	}

	if e.call("drop", mh)[0] != 1 || e.call("drop", mh)[0] != 0 {
		t.Fatal("drop must succeed exactly once")
	}
	if e.call("drop", rh)[0] != 1 {
		t.Fatal("drop result")
	}
	if e.b.Table().Len() != 0 {
		t.Fatalf("%d handles leaked", e.b.Table().Len())
	}
}

func TestHost_FailedDecode(t *testing.T) {
	e := newHostEnv(t, nil)
	retptr := e.alloc(8)

	rh := e.call("decode-point-cloud", e.put([]byte("nope"))...)[0]
	if code := api.DecodeI32(e.call("point-cloud-result-status", rh)[0]); code != int32(status.CodeIOError) {
		t.Fatalf("status = %d", code)
	}
	e.call("point-cloud-result-message", rh, uint64(retptr))
	if msg := e.str(retptr); msg != "bad header" {
		t.Fatalf("message = %q", msg)
	}
	if h := e.call("point-cloud-result-value", rh)[0]; h != 0 {
		t.Fatalf("value of failed result = %d", h)
	}
}

func TestHost_PointCloud(t *testing.T) {
	e := newHostEnv(t, nil)
	retptr := e.alloc(8)

	rh := e.call("decode-point-cloud", e.put([]byte("cloud"))...)[0]
	ph := e.call("point-cloud-result-value", rh)[0]
	if n := e.call("point-cloud-num-points", ph)[0]; n != 2 {
		t.Fatalf("num points = %d", n)
	}
	e.call("point-cloud-attribute-value", ph, 0, 0, uint64(retptr))
	if got := e.f64s(retptr); len(got) != 3 || got[2] != 3 {
		t.Fatalf("attribute value = %v", got)
	}
}

func TestHost_InputLimit(t *testing.T) {
	e := newHostEnv(t, &Config{MaxInputBytes: 2})
	rh := e.call("decode-mesh", e.put([]byte("mesh"))...)[0]
	if code := api.DecodeI32(e.call("mesh-result-status", rh)[0]); code != int32(status.CodeInvalidParameter) {
		t.Fatalf("status = %d", code)
	}
}

func TestHost_Traps(t *testing.T) {
	e := newHostEnv(t, nil)
	rh := e.call("decode-mesh", e.put([]byte("mesh"))...)[0]

	if err := e.callErr("mesh-num-faces", 999); err == nil {
		t.Error("unknown handle must trap")
	}
	if err := e.callErr("mesh-num-faces", rh); err == nil {
		t.Error("result handle used as mesh must trap")
	}
	if err := e.callErr("mesh-result-status", 0); err == nil {
		t.Error("handle 0 must trap")
	}
	if err := e.callErr("decode-mesh", 1<<20, 16); err == nil {
		t.Error("input outside memory must trap")
	}
}

func TestHost_CustomModuleName(t *testing.T) {
	e := newHostEnv(t, &Config{ModuleName: "test:geo/bridge"})
	if e.host.Name() != "test:geo/bridge" {
		t.Fatalf("module name = %q", e.host.Name())
	}
	// The guest links against the custom name and reaches the host through it.
	if rh := e.call("decode-mesh", e.put([]byte("mesh"))...)[0]; rh == 0 {
		t.Fatal("decode through custom module returned handle 0")
	}

	src := guestSource(DefaultModuleName, true, "drop")
	wasm, err := wat.Compile(src)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.rt.InstantiateWithConfig(e.ctx, wasm, wazero.NewModuleConfig().WithName("stale")); err == nil {
		t.Fatal("guest importing the default module name must not link")
	}
}

func TestHost_CallerWithoutAllocatorTraps(t *testing.T) {
	e := newHostEnv(t, nil)

	// A second guest shares the host module but exports no cabi_realloc.
	bare := instantiateGuest(t, e.ctx, e.rt, "bare",
		guestSource(e.b.ModuleName(), false, "decode-mesh", "mesh-result-message"))
	if !bare.Memory().Write(64, []byte("nope")) {
		t.Fatal("write input")
	}
	res, err := bare.ExportedFunction("decode-mesh").Call(e.ctx, 64, 4)
	if err != nil {
		t.Fatalf("decode-mesh: %v", err)
	}
	heapBefore := e.call("cabi_realloc", 0, 0, 1, 0)[0]

	_, err = bare.ExportedFunction("mesh-result-message").Call(e.ctx, res[0], 128)
	if err == nil {
		t.Fatal("string result without cabi_realloc must trap")
	}
	if !strings.Contains(err.Error(), cabiRealloc) {
		t.Errorf("trap %q does not name %s", err, cabiRealloc)
	}
	// The other guest's allocator was not used.
	if heapAfter := e.call("cabi_realloc", 0, 0, 1, 0)[0]; heapAfter != heapBefore {
		t.Errorf("other guest heap moved from %d to %d", heapBefore, heapAfter)
	}
}

func TestHost_CallerWithoutMemoryTraps(t *testing.T) {
	e := newHostEnv(t, nil)
	d := lookupFunc("decode-mesh")
	src = fmt.Sprintf(`(module
  (import %q %q (func $decode%s))
  (func (export "decode") (param i32 i32) (result i32)
    (call $decode (local.get 0) (local.get 1)))
)`, e.b.ModuleName(), d.Name, coreSig(d))
	nomem := instantiateGuest(t, e.ctx, e.rt, "nomem", src)

	_, err := nomem.ExportedFunction("decode").Call(e.ctx, 0, 4)
	if err == nil {
		t.Fatal("decode from a guest without memory must trap")
	}
	if !strings.Contains(err.Error(), "no linear memory") {
		t.Errorf("trap %q does not mention memory", err)
	}
}
