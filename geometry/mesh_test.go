package geometry

import (
	"testing"

	"github.com/wippyai/draco-go/errors"
	"github.com/wippyai/draco-go/index"
)

func pts(a, b, c uint32) Face {
	return Face{index.NewPointIndex(a), index.NewPointIndex(b), index.NewPointIndex(c)}
}

func quad(t *testing.T) *Mesh {
	t.Helper()
	pc, _ := buildCloud(t, [][3]float64{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}})
	m := NewMeshFromPointCloud(pc)
	for _, f := range []Face{pts(0, 1, 2), pts(0, 2, 3)} {
		if _, err := m.AddFace(f); err != nil {
			t.Fatalf("AddFace(%v): %v", f, err)
		}
	}
	return m
}

func TestMesh_Faces(t *testing.T) {
	m := quad(t)

	if m.NumFaces() != 2 || m.NumCorners() != 6 || m.NumPoints() != 4 {
		t.Fatalf("faces %d corners %d points %d", m.NumFaces(), m.NumCorners(), m.NumPoints())
	}

	f, err := m.Face(index.NewFaceIndex(1))
	if err != nil {
		t.Fatal(err)
	}
	if f != pts(0, 2, 3) {
		t.Fatalf("face 1 = %v", f)
	}

	bad, err := m.Face(index.NewFaceIndex(2))
	if errors.KindOf(err) != errors.KindOutOfBounds {
		t.Fatalf("out of range face: %v", err)
	}
	for _, p := range bad {
		if p.Valid() {
			t.Fatalf("out of range face must hold invalid points, got %v", bad)
		}
	}

	n := 0
	for fi, face := range m.Faces() {
		if fi.Value() != uint32(n) || face[0] != index.NewPointIndex(0) {
			t.Fatalf("Faces yielded %v %v", fi, face)
		}
		n++
	}
	if n != 2 {
		t.Fatalf("Faces yielded %d faces", n)
	}
}

func TestMesh_CornerPoint(t *testing.T) {
	m := quad(t)

	want := []uint32{0, 1, 2, 0, 2, 3}
	for c := range index.Range(index.NewCornerIndex(0), index.NewCornerIndex(m.NumCorners())) {
		if got := m.CornerPoint(c); got.Value() != want[c.Value()] {
			t.Errorf("corner %v -> %v, want %d", c, got, want[c.Value()])
		}
	}

	if m.CornerPoint(index.NewCornerIndex(6)).Valid() {
		t.Error("corner past the end must map to the invalid point")
	}
	if m.CornerPoint(index.Invalid[index.Corner]()).Valid() {
		t.Error("invalid corner must map to the invalid point")
	}
}

func TestMesh_AddFaceValidatesPoints(t *testing.T) {
	m := quad(t)
	fi, err := m.AddFace(pts(0, 1, 4))
	if errors.KindOf(err) != errors.KindOutOfBounds {
		t.Fatalf("AddFace with point 4 of 4: %v", err)
	}
	if fi.Valid() {
		t.Fatal("rejected face must return the invalid index")
	}
	if m.NumFaces() != 2 {
		t.Fatal("rejected face must not be stored")
	}
}

func TestNewMeshFromPointCloud_TakesOwnership(t *testing.T) {
	pc, id := buildCloud(t, [][3]float64{{5, 6, 7}})
	m := NewMeshFromPointCloud(pc)

	if !pc.IsEmpty() || pc.NumAttributes() != 0 {
		t.Fatal("source point cloud must be emptied")
	}
	v, err := m.MappedValue(id, index.NewPointIndex(0))
	if err != nil || v[2] != 7 {
		t.Fatalf("mesh lost attribute data: %v %v", v, err)
	}

	if NewMeshFromPointCloud(nil).NumPoints() != 0 {
		t.Fatal("nil point cloud gives an empty mesh")
	}
}

func TestMesh_ZeroValue(t *testing.T) {
	var m Mesh

	if m.NumFaces() != 0 || m.NumCorners() != 0 {
		t.Fatalf("zero mesh has %d faces", m.NumFaces())
	}
	if _, err := m.Face(index.NewFaceIndex(0)); errors.KindOf(err) != errors.KindOutOfBounds {
		t.Fatalf("Face on zero mesh: %v", err)
	}
	if m.CornerPoint(index.NewCornerIndex(0)).Valid() {
		t.Fatal("corner of zero mesh must be invalid")
	}
	if _, err := m.AddFace(pts(0, 1, 2)); errors.KindOf(err) != errors.KindOutOfBounds {
		t.Fatalf("AddFace without points: %v", err)
	}
	for range m.Faces() {
		t.Fatal("zero mesh yields no faces")
	}
}
