package bridge

import (
	"context"

	"go.uber.org/zap"

	"github.com/wippyai/draco-go/errors"
	"github.com/wippyai/draco-go/geometry"
	"github.com/wippyai/draco-go/index"
	"github.com/wippyai/draco-go/resource"
	"github.com/wippyai/draco-go/shim"
	"github.com/wippyai/draco-go/status"
)

// Bridge owns the handle table shared by Go callers and guests.
// Safe for concurrent use.
type Bridge struct {
	decoder Decoder
	table   *resource.Table
	log     *handleLog
	cfg     Config
}

// New creates a bridge around decoder. cfg may be nil.
func New(decoder Decoder, cfg *Config) *Bridge {
	b := &Bridge{
		decoder: decoder,
		table:   resource.NewTable(),
		log:     &handleLog{},
	}
	if cfg != nil {
		b.cfg = *cfg
	}
	b.table.Subscribe(b.log)
	return b
}

// ModuleName returns the host module name guests import from.
func (b *Bridge) ModuleName() string { return b.cfg.moduleName() }

// MaxInputBytes returns the largest accepted decode input.
func (b *Bridge) MaxInputBytes() uint32 { return b.cfg.maxInputBytes() }

// Table returns the handle table.
func (b *Bridge) Table() *resource.Table { return b.table }

// Close drops every live handle.
func (b *Bridge) Close() error {
	err := b.table.Close()
	b.table.Unsubscribe(b.log)
	return err
}

func (b *Bridge) checkInput(data []byte) (status.Status, bool) {
	if limit := b.cfg.maxInputBytes(); uint64(len(data)) > uint64(limit) {
		return status.Errorf(status.CodeInvalidParameter, "input of %d bytes exceeds limit of %d", len(data), limit), false
	}
	if b.decoder == nil {
		return status.New(status.CodeUnsupportedFeature, "no decoder configured"), false
	}
	return status.OK(), true
}

// DecodeMesh decodes data and stores the result container under a new
// handle. Decoding failures are reported through the container.
func (b *Bridge) DecodeMesh(ctx context.Context, data []byte) (resource.Handle, error) {
	var r *shim.MeshResult
	if st, ok := b.checkInput(data); !ok {
		r = status.Fail[*geometry.Mesh](st)
	} else if r = b.decoder.DecodeMesh(ctx, data); r == nil {
		r = status.Fail[*geometry.Mesh](status.New(status.CodeError, "decoder returned no result"))
	}
	Logger().Debug("decode mesh",
		zap.Int("bytes", len(data)),
		zap.Stringer("status", shim.MeshStatus(r)))
	return b.table.Insert(resource.TypeMeshResult, r)
}

// DecodePointCloud is DecodeMesh for point clouds.
func (b *Bridge) DecodePointCloud(ctx context.Context, data []byte) (resource.Handle, error) {
	var r *shim.PointCloudResult
	if st, ok := b.checkInput(data); !ok {
		r = status.Fail[*geometry.PointCloud](st)
	} else if r = b.decoder.DecodePointCloud(ctx, data); r == nil {
		r = status.Fail[*geometry.PointCloud](status.New(status.CodeError, "decoder returned no result"))
	}
	Logger().Debug("decode point cloud",
		zap.Int("bytes", len(data)),
		zap.Stringer("status", shim.PointCloudStatus(r)))
	return b.table.Insert(resource.TypePointCloudResult, r)
}

// MeshResultStatus returns the status of the mesh result under h.
func (b *Bridge) MeshResultStatus(h resource.Handle) (status.Status, error) {
	r, err := resource.Lookup[*shim.MeshResult](b.table, h, resource.TypeMeshResult)
	if err != nil {
		return status.Status{}, err
	}
	return shim.MeshStatus(r), nil
}

// MeshResultValue moves the mesh out of the result under h into a new mesh
// handle. The result handle stays live and keeps reporting its status.
func (b *Bridge) MeshResultValue(h resource.Handle) (resource.Handle, error) {
	r, err := resource.Lookup[*shim.MeshResult](b.table, h, resource.TypeMeshResult)
	if err != nil {
		return 0, err
	}
	m, err := shim.MeshValue(r)
	if err != nil {
		return 0, err
	}
	return b.table.Insert(resource.TypeMesh, m)
}

// PointCloudResultStatus returns the status of the point cloud result under h.
func (b *Bridge) PointCloudResultStatus(h resource.Handle) (status.Status, error) {
	r, err := resource.Lookup[*shim.PointCloudResult](b.table, h, resource.TypePointCloudResult)
	if err != nil {
		return status.Status{}, err
	}
	return shim.PointCloudStatus(r), nil
}

// PointCloudResultValue is MeshResultValue for point clouds.
func (b *Bridge) PointCloudResultValue(h resource.Handle) (resource.Handle, error) {
	r, err := resource.Lookup[*shim.PointCloudResult](b.table, h, resource.TypePointCloudResult)
	if err != nil {
		return 0, err
	}
	pc, err := shim.PointCloudValue(r)
	if err != nil {
		return 0, err
	}
	return b.table.Insert(resource.TypePointCloud, pc)
}

// TakeMesh moves the mesh under h out of the table. The handle becomes
// invalid and the caller owns the mesh.
func (b *Bridge) TakeMesh(h resource.Handle) (*geometry.Mesh, error) {
	return resource.Take[*geometry.Mesh](b.table, h, resource.TypeMesh)
}

// TakePointCloud is TakeMesh for point clouds.
func (b *Bridge) TakePointCloud(h resource.Handle) (*geometry.PointCloud, error) {
	return resource.Take[*geometry.PointCloud](b.table, h, resource.TypePointCloud)
}

func (b *Bridge) mesh(h resource.Handle) (*geometry.Mesh, error) {
	return resource.Lookup[*geometry.Mesh](b.table, h, resource.TypeMesh)
}

// pointCloud accepts both point cloud and mesh handles.
func (b *Bridge) pointCloud(h resource.Handle) (*geometry.PointCloud, error) {
	v, typ, ok := b.table.Get(h)
	if !ok {
		return nil, errors.InvalidHandle(errors.PhaseHost, uint32(h), resource.TypePointCloud.String())
	}
	switch v := v.(type) {
	case *geometry.PointCloud:
		return v, nil
	case *geometry.Mesh:
		return &v.PointCloud, nil
	}
	return nil, errors.New(errors.PhaseHost, errors.KindTypeMismatch).
		Detail("handle %d holds %s, want point-cloud", h, typ).
		Value(uint32(h)).
		Build()
}

// MeshNumFaces returns the face count of the mesh under h.
func (b *Bridge) MeshNumFaces(h resource.Handle) (uint32, error) {
	m, err := b.mesh(h)
	if err != nil {
		return 0, err
	}
	return m.NumFaces(), nil
}

// MeshFace returns face f of the mesh under h.
func (b *Bridge) MeshFace(h resource.Handle, f index.FaceIndex) (geometry.Face, error) {
	m, err := b.mesh(h)
	if err != nil {
		return geometry.Face{}, err
	}
	return m.Face(f)
}

// MeshCornerPoint maps corner c of the mesh under h to its point.
func (b *Bridge) MeshCornerPoint(h resource.Handle, c index.CornerIndex) (index.PointIndex, error) {
	m, err := b.mesh(h)
	if err != nil {
		return index.Invalid[index.Point](), err
	}
	return m.CornerPoint(c), nil
}

// PointCloudNumPoints returns the point count under h. Mesh handles are
// accepted too.
func (b *Bridge) PointCloudNumPoints(h resource.Handle) (uint32, error) {
	pc, err := b.pointCloud(h)
	if err != nil {
		return 0, err
	}
	return pc.NumPoints(), nil
}

// PointCloudAttributeValue returns attribute attr at point p.
func (b *Bridge) PointCloudAttributeValue(h resource.Handle, attr geometry.AttrID, p index.PointIndex) ([]float64, error) {
	pc, err := b.pointCloud(h)
	if err != nil {
		return nil, err
	}
	return pc.MappedValue(attr, p)
}

// Drop releases h and reports whether it was live.
func (b *Bridge) Drop(h resource.Handle) bool {
	_, ok := b.table.Remove(h)
	return ok
}
