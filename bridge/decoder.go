package bridge

import (
	"context"

	"github.com/wippyai/draco-go/geometry"
	"github.com/wippyai/draco-go/shim"
	"github.com/wippyai/draco-go/status"
)

// Decoder is the wrapped library's decoding entry point.
//
// Implementations report every failure through the returned container and
// never return nil.
type Decoder interface {
	DecodeMesh(ctx context.Context, data []byte) *shim.MeshResult
	DecodePointCloud(ctx context.Context, data []byte) *shim.PointCloudResult
}

// DecoderFuncs adapts a pair of functions to Decoder. A nil field reports
// CodeUnsupportedFeature.
type DecoderFuncs struct {
	Mesh       func(ctx context.Context, data []byte) *shim.MeshResult
	PointCloud func(ctx context.Context, data []byte) *shim.PointCloudResult
}

func (d DecoderFuncs) DecodeMesh(ctx context.Context, data []byte) *shim.MeshResult {
	if d.Mesh == nil {
		return status.Fail[*geometry.Mesh](status.New(status.CodeUnsupportedFeature, "mesh decoding not supported"))
	}
	return d.Mesh(ctx, data)
}

func (d DecoderFuncs) DecodePointCloud(ctx context.Context, data []byte) *shim.PointCloudResult {
	if d.PointCloud == nil {
		return status.Fail[*geometry.PointCloud](status.New(status.CodeUnsupportedFeature, "point cloud decoding not supported"))
	}
	return d.PointCloud(ctx, data)
}
