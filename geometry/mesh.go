package geometry

import (
	"iter"

	"github.com/wippyai/draco-go/errors"
	"github.com/wippyai/draco-go/index"
)

// Face is a triangle given by three point indices.
type Face [3]index.PointIndex

// Mesh is a point cloud with triangular faces. The zero Mesh is empty and
// ready to use.
type Mesh struct {
	PointCloud
	faces index.Vector[index.Face, Face]
}

// NewMesh returns an empty mesh.
func NewMesh() *Mesh {
	return &Mesh{}
}

// NewMeshFromPointCloud builds a mesh on top of pc's points and attributes.
// The mesh takes ownership of pc's contents.
func NewMeshFromPointCloud(pc *PointCloud) *Mesh {
	m := NewMesh()
	if pc != nil {
		m.PointCloud = *pc
		*pc = PointCloud{}
	}
	return m
}

// AddFace appends f and returns its index. All corners must reference
// existing points.
func (m *Mesh) AddFace(f Face) (index.FaceIndex, error) {
	for _, p := range f {
		if !p.LessValue(m.numPoints) {
			return index.Invalid[index.Face](), errors.OutOfBounds(errors.PhaseGeometry, []string{"faces", "point"},
				uint64(p.Value()), uint64(m.numPoints))
		}
	}
	return m.faces.Append(f), nil
}

// Face returns the face at fi.
func (m *Mesh) Face(fi index.FaceIndex) (Face, error) {
	f, ok := m.faces.Get(fi)
	if !ok {
		return Face{index.Invalid[index.Point](), index.Invalid[index.Point](), index.Invalid[index.Point]()},
			errors.OutOfBounds(errors.PhaseGeometry, []string{"faces"}, uint64(fi.Value()), uint64(m.faces.Len()))
	}
	return f, nil
}

func (m *Mesh) NumFaces() uint32 { return uint32(m.faces.Len()) }

// NumCorners returns three corners per face.
func (m *Mesh) NumCorners() uint32 { return 3 * m.NumFaces() }

// CornerPoint maps corner c to its point. Corner c belongs to face c/3.
// Out of range corners map to the invalid point index.
func (m *Mesh) CornerPoint(c index.CornerIndex) index.PointIndex {
	if !c.Valid() {
		return index.Invalid[index.Point]()
	}
	f, ok := m.faces.Get(index.NewFaceIndex(c.Value() / 3))
	if !ok {
		return index.Invalid[index.Point]()
	}
	return f[c.Value()%3]
}

// Faces iterates faces in index order.
func (m *Mesh) Faces() iter.Seq2[index.FaceIndex, Face] {
	return m.faces.All()
}
