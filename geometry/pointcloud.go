package geometry

import (
	"github.com/wippyai/draco-go/errors"
	"github.com/wippyai/draco-go/index"
)

// PointCloud is a set of points with attributes.
type PointCloud struct {
	attributes []*Attribute
	numPoints  uint32
}

// NewPointCloud returns an empty point cloud.
func NewPointCloud() *PointCloud {
	return &PointCloud{}
}

func (pc *PointCloud) NumPoints() uint32 { return pc.numPoints }

// Len is NumPoints as an int.
func (pc *PointCloud) Len() int { return int(pc.numPoints) }

func (pc *PointCloud) IsEmpty() bool { return pc.numPoints == 0 }

func (pc *PointCloud) NumAttributes() int { return len(pc.attributes) }

// NumNamedAttributes counts the attributes of type t.
func (pc *PointCloud) NumNamedAttributes(t AttributeType) int {
	n := 0
	for _, a := range pc.attributes {
		if a.attrType == t {
			n++
		}
	}
	return n
}

// Attribute returns the attribute with the given id.
func (pc *PointCloud) Attribute(id AttrID) (*Attribute, error) {
	if id < 0 || int(id) >= len(pc.attributes) {
		return nil, errors.New(errors.PhaseGeometry, errors.KindNotFound).
			Detail("attribute %d not found (have %d)", id, len(pc.attributes)).
			Value(id).
			Build()
	}
	return pc.attributes[id], nil
}

// NamedAttributeID returns the id of the first attribute of type t.
func (pc *PointCloud) NamedAttributeID(t AttributeType) (AttrID, bool) {
	for i, a := range pc.attributes {
		if a.attrType == t {
			return AttrID(i), true
		}
	}
	return InvalidAttrID, false
}

// MappedValue returns the components of attribute id at point p.
func (pc *PointCloud) MappedValue(id AttrID, p index.PointIndex) ([]float64, error) {
	a, err := pc.Attribute(id)
	if err != nil {
		return nil, err
	}
	v, ok := a.MappedIndex(p)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseGeometry, []string{"points"},
			uint64(p.Value()), uint64(pc.numPoints))
	}
	return a.Value(v)
}

// PointCloudBuilder assembles a point cloud with a fixed number of points.
type PointCloudBuilder struct {
	pc *PointCloud
}

// NewPointCloudBuilder starts a point cloud with numPoints points.
func NewPointCloudBuilder(numPoints uint32) *PointCloudBuilder {
	return &PointCloudBuilder{pc: &PointCloud{numPoints: numPoints}}
}

var errFinalized = errors.New(errors.PhaseGeometry, errors.KindInvalidInput).
	Detail("builder already finalized").
	Build()

// AddAttribute adds an attribute and returns its id.
func (b *PointCloudBuilder) AddAttribute(t AttributeType, components int8, dt DataType) (AttrID, error) {
	if b.pc == nil {
		return InvalidAttrID, errFinalized
	}
	if t == AttributeInvalid || components <= 0 || dt == DataTypeInvalid || dt.Size() == 0 {
		return InvalidAttrID, errors.New(errors.PhaseGeometry, errors.KindInvalidInput).
			Detail("invalid attribute %s with %d components of %s", t, components, dt).
			Build()
	}
	b.pc.attributes = append(b.pc.attributes, newAttribute(t, components, dt, b.pc.numPoints))
	return AttrID(len(b.pc.attributes) - 1), nil
}

// SetAttributeValueForPoint stores values as attribute id's value at point p.
func (b *PointCloudBuilder) SetAttributeValueForPoint(id AttrID, p index.PointIndex, values []float64) error {
	if b.pc == nil {
		return errFinalized
	}
	a, err := b.pc.Attribute(id)
	if err != nil {
		return err
	}
	v, ok := a.MappedIndex(p)
	if !ok {
		return errors.OutOfBounds(errors.PhaseGeometry, []string{"points"},
			uint64(p.Value()), uint64(b.pc.numPoints))
	}
	return a.setValue(v, values)
}

// Finalize returns the point cloud. The builder cannot be used afterwards.
func (b *PointCloudBuilder) Finalize() (*PointCloud, error) {
	if b.pc == nil {
		return nil, errFinalized
	}
	pc := b.pc
	b.pc = nil
	return pc, nil
}
