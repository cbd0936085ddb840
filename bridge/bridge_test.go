package bridge

import (
	"context"
	"slices"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/draco-go/errors"
	"github.com/wippyai/draco-go/geometry"
	"github.com/wippyai/draco-go/index"
	"github.com/wippyai/draco-go/shim"
	"github.com/wippyai/draco-go/status"
)

func TestBridge_MeshRoundTrip(t *testing.T) {
	ctx := context.Background()
	b := newTestBridge(t, nil)

	rh, err := b.DecodeMesh(ctx, []byte("mesh"))
	if err != nil {
		t.Fatal(err)
	}
	st, err := b.MeshResultStatus(rh)
	if err != nil || !st.OK() {
		t.Fatalf("status = %v, %v", st, err)
	}

	mh, err := b.MeshResultValue(rh)
	if err != nil || mh == 0 {
		t.Fatalf("MeshResultValue = %d, %v", mh, err)
	}
	if _, err := b.MeshResultValue(rh); errors.KindOf(err) != errors.KindConsumed {
		t.Fatalf("second MeshResultValue: %v", err)
	}
	if st, _ := b.MeshResultStatus(rh); !st.OK() {
		t.Fatal("status must survive consumption")
	}

	if n, err := b.MeshNumFaces(mh); err != nil || n != 1 {
		t.Fatalf("MeshNumFaces = %d, %v", n, err)
	}
	f, err := b.MeshFace(mh, index.NewFaceIndex(0))
	if err != nil || f[2].Value() != 2 {
		t.Fatalf("MeshFace = %v, %v", f, err)
	}
	if p, err := b.MeshCornerPoint(mh, index.NewCornerIndex(1)); err != nil || p.Value() != 1 {
		t.Fatalf("MeshCornerPoint = %v, %v", p, err)
	}
	if n, err := b.PointCloudNumPoints(mh); err != nil || n != 3 {
		t.Fatalf("PointCloudNumPoints(mesh) = %d, %v", n, err)
	}
	v, err := b.PointCloudAttributeValue(mh, 0, index.NewPointIndex(1))
	if err != nil || !slices.Equal(v, []float64{1, 0, 0}) {
		t.Fatalf("PointCloudAttributeValue = %v, %v", v, err)
	}

	if !b.Drop(mh) || b.Drop(mh) {
		t.Fatal("Drop must succeed exactly once")
	}
	if _, err := b.MeshNumFaces(mh); errors.KindOf(err) != errors.KindInvalidHandle {
		t.Fatalf("dropped handle: %v", err)
	}
}

func TestBridge_FailedDecode(t *testing.T) {
	ctx := context.Background()
	b := newTestBridge(t, nil)

	rh, err := b.DecodeMesh(ctx, []byte("junk"))
	if err != nil {
		t.Fatal(err)
	}
	st, _ := b.MeshResultStatus(rh)
	if st.Code != status.CodeIOError || st.Message != "bad header" {
		t.Fatalf("status = %v", st)
	}
	mh, err := b.MeshResultValue(rh)
	if mh != 0 || errors.KindOf(err) != errors.KindNoValue {
		t.Fatalf("MeshResultValue on failure = %d, %v", mh, err)
	}
	if b.Table().Len() != 1 {
		t.Fatalf("only the result handle should be live, have %d", b.Table().Len())
	}
}

func TestBridge_PointCloud(t *testing.T) {
	ctx := context.Background()
	b := newTestBridge(t, nil)

	rh, _ := b.DecodePointCloud(ctx, []byte("cloud"))
	ph, err := b.PointCloudResultValue(rh)
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := b.PointCloudNumPoints(ph); n != 2 {
		t.Fatalf("NumPoints = %d", n)
	}
	v, err := b.PointCloudAttributeValue(ph, 0, index.NewPointIndex(1))
	if err != nil || !slices.Equal(v, []float64{4, 5, 6}) {
		t.Fatalf("value = %v, %v", v, err)
	}
	if _, err := b.PointCloudAttributeValue(ph, 3, index.NewPointIndex(0)); errors.KindOf(err) != errors.KindNotFound {
		t.Fatalf("unknown attribute: %v", err)
	}
	if _, err := b.MeshNumFaces(ph); errors.KindOf(err) != errors.KindTypeMismatch {
		t.Fatalf("point cloud handle used as mesh: %v", err)
	}
	if _, err := b.PointCloudNumPoints(rh); errors.KindOf(err) != errors.KindTypeMismatch {
		t.Fatalf("result handle used as point cloud: %v", err)
	}
}

func TestBridge_InputLimit(t *testing.T) {
	b := newTestBridge(t, &Config{MaxInputBytes: 3})

	rh, err := b.DecodeMesh(context.Background(), []byte("mesh"))
	if err != nil {
		t.Fatal(err)
	}
	if st, _ := b.MeshResultStatus(rh); st.Code != status.CodeInvalidParameter {
		t.Fatalf("oversized input status = %v", st)
	}
}

func TestBridge_NoDecoder(t *testing.T) {
	b := New(nil, nil)
	defer b.Close()

	rh, _ := b.DecodePointCloud(context.Background(), []byte("cloud"))
	if st, _ := b.PointCloudResultStatus(rh); st.Code != status.CodeUnsupportedFeature {
		t.Fatalf("status = %v", st)
	}
}

func TestDecoderFuncs(t *testing.T) {
	var d DecoderFuncs
	if st := d.DecodeMesh(context.Background(), nil).Status(); st.Code != status.CodeUnsupportedFeature {
		t.Fatalf("nil Mesh func status = %v", st)
	}

	d.PointCloud = func(context.Context, []byte) *status.Result[*geometry.PointCloud] {
		return status.Ok(geometry.NewPointCloud())
	}
	if !d.DecodePointCloud(context.Background(), nil).OK() {
		t.Fatal("PointCloud func not used")
	}
}

func TestBridge_CloseDropsHandles(t *testing.T) {
	b := New(fakeDecoder{}, nil)
	ctx := context.Background()
	rh, _ := b.DecodeMesh(ctx, []byte("mesh"))
	b.MeshResultValue(rh)

	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	if b.Table().Len() != 0 {
		t.Fatal("Close must drop all handles")
	}
	if _, err := b.DecodeMesh(ctx, []byte("mesh")); err == nil {
		t.Fatal("decode after Close must fail")
	}
}

func TestConfigDefaults(t *testing.T) {
	var c *Config
	if c.moduleName() != DefaultModuleName || c.maxInputBytes() != DefaultMaxInputBytes {
		t.Fatal("nil config must use defaults")
	}
	c = &Config{ModuleName: "x:y/z"}
	if c.moduleName() != "x:y/z" {
		t.Fatal("ModuleName ignored")
	}
}

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	prev := Logger()
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(prev) })
	return logs
}

func TestBridge_TakeMesh(t *testing.T) {
	logs := observeLogs(t)
	b := newTestBridge(t, nil)

	rh, _ := b.DecodeMesh(context.Background(), []byte("mesh"))
	mh, err := b.MeshResultValue(rh)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := b.TakePointCloud(mh); errors.KindOf(err) != errors.KindTypeMismatch {
		t.Fatalf("TakePointCloud on a mesh handle: %v", err)
	}
	m, err := b.TakeMesh(mh)
	if err != nil || m.NumFaces() != 1 {
		t.Fatalf("TakeMesh = %v, %v", m, err)
	}
	if _, err := b.TakeMesh(mh); errors.KindOf(err) != errors.KindInvalidHandle {
		t.Fatalf("second TakeMesh: %v", err)
	}
	if b.Table().Len() != 1 {
		t.Fatalf("only the result handle should be live, have %d", b.Table().Len())
	}

	if n := logs.FilterMessage("bridge: handle created").Len(); n != 2 {
		t.Errorf("created events = %d, want 2", n)
	}
	taken := logs.FilterMessage("bridge: handle taken").All()
	if len(taken) != 1 || taken[0].ContextMap()["type"] != "mesh" {
		t.Errorf("taken events = %v", taken)
	}

	b.Drop(rh)
	if n := logs.FilterMessage("bridge: handle dropped").Len(); n != 1 {
		t.Errorf("dropped events = %d, want 1", n)
	}
}

func TestBridge_TakePointCloud(t *testing.T) {
	b := newTestBridge(t, nil)

	rh, _ := b.DecodePointCloud(context.Background(), []byte("cloud"))
	ph, _ := b.PointCloudResultValue(rh)
	pc, err := b.TakePointCloud(ph)
	if err != nil || pc.NumPoints() != 2 {
		t.Fatalf("TakePointCloud = %v, %v", pc, err)
	}
	if _, err := b.PointCloudNumPoints(ph); errors.KindOf(err) != errors.KindInvalidHandle {
		t.Fatalf("taken handle still live: %v", err)
	}
}

func TestBridge_CloseLogsDrops(t *testing.T) {
	logs := observeLogs(t)
	b := New(fakeDecoder{}, nil)
	ctx := context.Background()
	rh, _ := b.DecodeMesh(ctx, []byte("mesh"))
	b.MeshResultValue(rh)

	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	if n := logs.FilterMessage("bridge: handle dropped").Len(); n != 2 {
		t.Fatalf("Close dropped %d handles, want 2", n)
	}
}

func TestBridge_EmptyResultsAndPayloads(t *testing.T) {
	ctx := context.Background()
	b := New(DecoderFuncs{
		Mesh: func(_ context.Context, data []byte) *shim.MeshResult {
			if string(data) == "empty" {
				return &shim.MeshResult{}
			}
			return status.Ok(&geometry.Mesh{})
		},
	}, nil)
	t.Cleanup(func() { _ = b.Close() })

	rh, _ := b.DecodeMesh(ctx, []byte("empty"))
	if st, _ := b.MeshResultStatus(rh); st.OK() {
		t.Fatalf("empty result reports %v", st)
	}
	if mh, err := b.MeshResultValue(rh); mh != 0 || errors.KindOf(err) != errors.KindNoValue {
		t.Fatalf("MeshResultValue on empty result = %d, %v", mh, err)
	}

	rh, _ = b.DecodeMesh(ctx, []byte("zero mesh"))
	mh, err := b.MeshResultValue(rh)
	if err != nil {
		t.Fatal(err)
	}
	if n, err := b.MeshNumFaces(mh); err != nil || n != 0 {
		t.Fatalf("MeshNumFaces on zero mesh = %d, %v", n, err)
	}
	if p, err := b.MeshCornerPoint(mh, index.NewCornerIndex(0)); err != nil || p.Valid() {
		t.Fatalf("MeshCornerPoint on zero mesh = %v, %v", p, err)
	}
	if n, err := b.PointCloudNumPoints(mh); err != nil || n != 0 {
		t.Fatalf("PointCloudNumPoints on zero mesh = %d, %v", n, err)
	}
}
