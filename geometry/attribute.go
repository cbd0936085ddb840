package geometry

import (
	"strconv"

	"github.com/wippyai/draco-go/errors"
	"github.com/wippyai/draco-go/index"
)

// AttributeType is the semantic type of an attribute.
type AttributeType int8

const (
	AttributeInvalid AttributeType = iota - 1
	AttributePosition
	AttributeNormal
	AttributeColor
	AttributeTexCoord
	AttributeGeneric
)

func (t AttributeType) String() string {
	switch t {
	case AttributePosition:
		return "POSITION"
	case AttributeNormal:
		return "NORMAL"
	case AttributeColor:
		return "COLOR"
	case AttributeTexCoord:
		return "TEX_COORD"
	case AttributeGeneric:
		return "GENERIC"
	}
	return "INVALID"
}

// DataType is the storage type the wrapped library uses for a component.
type DataType uint8

const (
	DataTypeInvalid DataType = iota
	DataTypeInt8
	DataTypeUint8
	DataTypeInt16
	DataTypeUint16
	DataTypeInt32
	DataTypeUint32
	DataTypeInt64
	DataTypeUint64
	DataTypeFloat32
	DataTypeFloat64
	DataTypeBool
)

var dataTypeSizes = [...]int{0, 1, 1, 2, 2, 4, 4, 8, 8, 4, 8, 1}

// Size returns the byte size of one component, 0 for invalid types.
func (d DataType) Size() int {
	if int(d) >= len(dataTypeSizes) {
		return 0
	}
	return dataTypeSizes[d]
}

func (d DataType) String() string {
	names := [...]string{"DT_INVALID", "DT_INT8", "DT_UINT8", "DT_INT16", "DT_UINT16",
		"DT_INT32", "DT_UINT32", "DT_INT64", "DT_UINT64", "DT_FLOAT32", "DT_FLOAT64", "DT_BOOL"}
	if int(d) >= len(names) {
		return "DT_" + strconv.Itoa(int(d))
	}
	return names[d]
}

// AttrID identifies an attribute within its point cloud.
type AttrID int32

// InvalidAttrID is returned when no attribute could be created.
const InvalidAttrID AttrID = -1

// Attribute stores per-point values of one semantic type.
//
// Values are kept in their own index space; points map to values through an
// explicit point -> attribute-value table.
type Attribute struct {
	values     *index.Vector[index.AttributeValue, []float64]
	mapping    *index.Vector[index.Point, index.AttributeValueIndex]
	attrType   AttributeType
	dataType   DataType
	components int8
}

func newAttribute(t AttributeType, components int8, dt DataType, numPoints uint32) *Attribute {
	a := &Attribute{
		values:     index.NewVector[index.AttributeValue, []float64](int(numPoints)),
		mapping:    index.NewVector[index.Point, index.AttributeValueIndex](int(numPoints)),
		attrType:   t,
		dataType:   dt,
		components: components,
	}
	for p := range a.mapping.All() {
		a.mapping.Set(p, index.NewAttributeValueIndex(p.Value()))
	}
	return a
}

func (a *Attribute) Type() AttributeType { return a.attrType }

func (a *Attribute) DataType() DataType { return a.dataType }

func (a *Attribute) NumComponents() int8 { return a.components }

// Size returns the number of stored attribute values.
func (a *Attribute) Size() int { return a.values.Len() }

// MappedIndex returns the attribute value index used by point p.
func (a *Attribute) MappedIndex(p index.PointIndex) (index.AttributeValueIndex, bool) {
	return a.mapping.Get(p)
}

// Value returns a copy of the components stored at v. Values never set read
// as zeros.
func (a *Attribute) Value(v index.AttributeValueIndex) ([]float64, error) {
	comps, ok := a.values.Get(v)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseGeometry, []string{"attribute", "values"},
			uint64(v.Value()), uint64(a.values.Len()))
	}
	if comps == nil {
		return make([]float64, a.components), nil
	}
	return append([]float64(nil), comps...), nil
}

func (a *Attribute) setValue(v index.AttributeValueIndex, comps []float64) error {
	if len(comps) != int(a.components) {
		return errors.New(errors.PhaseGeometry, errors.KindInvalidInput).
			Detail("attribute has %d components, got %d values", a.components, len(comps)).
			Build()
	}
	if !a.values.Contains(v) {
		return errors.OutOfBounds(errors.PhaseGeometry, []string{"attribute", "values"},
			uint64(v.Value()), uint64(a.values.Len()))
	}
	a.values.Set(v, append([]float64(nil), comps...))
	return nil
}
