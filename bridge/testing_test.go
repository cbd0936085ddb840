package bridge

import (
	"bytes"
	"context"
	"testing"

	"github.com/wippyai/draco-go/geometry"
	"github.com/wippyai/draco-go/index"
	"github.com/wippyai/draco-go/shim"
	"github.com/wippyai/draco-go/status"
)

// fakeDecoder understands two inputs: "mesh" yields a single triangle and
// "cloud" a two point cloud. Anything else is an IO error.
type fakeDecoder struct{}

func (fakeDecoder) DecodeMesh(_ context.Context, data []byte) *shim.MeshResult {
	if !bytes.Equal(data, []byte("mesh")) {
		return status.Fail[*geometry.Mesh](status.New(status.CodeIOError, "bad header"))
	}
	pc, err := buildPoints([][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	if err != nil {
		return status.Fail[*geometry.Mesh](status.FromError(err))
	}
	m := geometry.NewMeshFromPointCloud(pc)
	if _, err := m.AddFace(geometry.Face{index.NewPointIndex(0), index.NewPointIndex(1), index.NewPointIndex(2)}); err != nil {
		return status.Fail[*geometry.Mesh](status.FromError(err))
	}
	return status.Ok(m)
}

func (fakeDecoder) DecodePointCloud(_ context.Context, data []byte) *shim.PointCloudResult {
	if !bytes.Equal(data, []byte("cloud")) {
		return status.Fail[*geometry.PointCloud](status.New(status.CodeIOError, "bad header"))
	}
	return status.From(buildPoints([][]float64{{1, 2, 3}, {4, 5, 6}}))
}

func buildPoints(points [][]float64) (*geometry.PointCloud, error) {
	b := geometry.NewPointCloudBuilder(uint32(len(points)))
	id, err := b.AddAttribute(geometry.AttributePosition, 3, geometry.DataTypeFloat32)
	if err != nil {
		return nil, err
	}
	for i, p := range points {
		if err := b.SetAttributeValueForPoint(id, index.NewPointIndex(uint32(i)), p); err != nil {
			return nil, err
		}
	}
	return b.Finalize()
}

func newTestBridge(t *testing.T, cfg *Config) *Bridge {
	t.Helper()
	b := New(fakeDecoder{}, cfg)
	t.Cleanup(func() { _ = b.Close() })
	return b
}
