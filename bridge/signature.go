package bridge

import (
	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"
)

// Canonical ABI limits on flattened signatures.
const (
	maxFlatParams  = 16
	maxFlatResults = 1
)

// Param is a named WIT parameter.
type Param struct {
	Name string
	Type wit.Type
}

// Function describes one host function of the bridge interface.
type Function struct {
	Name   string
	Doc    string
	Params []Param
	Result wit.Type // nil when the function returns nothing
}

// CoreSignature returns the core wasm parameter and result types of f.
func (f *Function) CoreSignature() (params, results []api.ValueType) {
	for _, p := range f.Params {
		params = append(params, FlatTypes(p.Type)...)
	}
	if len(params) > maxFlatParams {
		params = []api.ValueType{api.ValueTypeI32}
	}
	if f.Result == nil {
		return params, nil
	}
	flat := FlatTypes(f.Result)
	if len(flat) > maxFlatResults {
		return append(params, api.ValueTypeI32), nil
	}
	return params, flat
}

// UsesRetptr reports whether the result is returned through memory.
func (f *Function) UsesRetptr() bool {
	return f.Result != nil && FlatCount(f.Result) > maxFlatResults
}

// FlatCount returns the number of core values t flattens to.
func FlatCount(t wit.Type) int {
	switch t := t.(type) {
	case wit.Bool, wit.U8, wit.S8, wit.U16, wit.S16, wit.U32, wit.S32, wit.U64, wit.S64, wit.F32, wit.F64, wit.Char:
		return 1
	case wit.String:
		return 2
	case *wit.TypeDef:
		switch kind := t.Kind.(type) {
		case *wit.Record:
			count := 0
			for _, f := range kind.Fields {
				count += FlatCount(f.Type)
			}
			return count
		case *wit.List:
			return 2
		case *wit.Option:
			return 1 + FlatCount(kind.Type)
		case *wit.Tuple:
			count := 0
			for _, elem := range kind.Types {
				count += FlatCount(elem)
			}
			return count
		case *wit.Enum, *wit.Flags, *wit.Own, *wit.Borrow:
			return 1
		case *wit.Result:
			payload := 0
			if kind.OK != nil {
				payload = FlatCount(kind.OK)
			}
			if kind.Err != nil {
				payload = max(payload, FlatCount(kind.Err))
			}
			return 1 + payload
		case wit.Type:
			return FlatCount(kind)
		}
	}
	return 1
}

// FlatTypes returns the core value types t flattens to.
func FlatTypes(t wit.Type) []api.ValueType {
	switch t := t.(type) {
	case wit.Bool, wit.U8, wit.S8, wit.U16, wit.S16, wit.U32, wit.S32, wit.Char:
		return []api.ValueType{api.ValueTypeI32}
	case wit.U64, wit.S64:
		return []api.ValueType{api.ValueTypeI64}
	case wit.F32:
		return []api.ValueType{api.ValueTypeF32}
	case wit.F64:
		return []api.ValueType{api.ValueTypeF64}
	case wit.String:
		return []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}
	case *wit.TypeDef:
		switch kind := t.Kind.(type) {
		case *wit.Record:
			var types []api.ValueType
			for _, f := range kind.Fields {
				types = append(types, FlatTypes(f.Type)...)
			}
			return types
		case *wit.List:
			return []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}
		case *wit.Tuple:
			var types []api.ValueType
			for _, elem := range kind.Types {
				types = append(types, FlatTypes(elem)...)
			}
			return types
		case wit.Type:
			return FlatTypes(kind)
		}
	}
	return []api.ValueType{api.ValueTypeI32}
}

func alias(name string, t wit.TypeDefKind) *wit.TypeDef {
	return &wit.TypeDef{Name: &name, Kind: t}
}

func resourceType(name string) *wit.TypeDef {
	return &wit.TypeDef{Name: &name, Kind: &wit.Resource{}}
}

func own(r *wit.TypeDef) *wit.TypeDef { return &wit.TypeDef{Kind: &wit.Own{Type: r}} }

func borrow(r *wit.TypeDef) *wit.TypeDef { return &wit.TypeDef{Kind: &wit.Borrow{Type: r}} }

func list(t wit.Type) *wit.TypeDef { return &wit.TypeDef{Kind: &wit.List{Type: t}} }

var (
	witPointIndex  = alias("point-index", wit.U32{})
	witFaceIndex   = alias("face-index", wit.U32{})
	witCornerIndex = alias("corner-index", wit.U32{})
	witAttributeID = alias("attribute-id", wit.S32{})
	witStatusCode  = alias("status-code", wit.S32{})

	witFace = alias("face", &wit.Tuple{Types: []wit.Type{witPointIndex, witPointIndex, witPointIndex}})

	witMesh             = resourceType("mesh")
	witPointCloud       = resourceType("point-cloud")
	witMeshResult       = resourceType("mesh-result")
	witPointCloudResult = resourceType("point-cloud-result")
)

// Functions returns the bridge interface in export order.
func Functions() []*Function {
	return []*Function{
		{
			Name:   "decode-mesh",
			Doc:    "Decodes a mesh. Never fails at the call level; inspect the result.",
			Params: []Param{{"data", list(wit.U8{})}},
			Result: own(witMeshResult),
		},
		{
			Name:   "decode-point-cloud",
			Doc:    "Decodes a point cloud.",
			Params: []Param{{"data", list(wit.U8{})}},
			Result: own(witPointCloudResult),
		},
		{
			Name:   "mesh-result-status",
			Doc:    "Status code of a mesh result. Repeatable.",
			Params: []Param{{"result", borrow(witMeshResult)}},
			Result: witStatusCode,
		},
		{
			Name:   "mesh-result-message",
			Doc:    "Status message of a mesh result.",
			Params: []Param{{"result", borrow(witMeshResult)}},
			Result: wit.String{},
		},
		{
			Name:   "mesh-result-value",
			Doc:    "Takes the mesh out of a result. Returns 0 if the result failed or was taken.",
			Params: []Param{{"result", borrow(witMeshResult)}},
			Result: own(witMesh),
		},
		{
			Name:   "point-cloud-result-status",
			Doc:    "Status code of a point cloud result. Repeatable.",
			Params: []Param{{"result", borrow(witPointCloudResult)}},
			Result: witStatusCode,
		},
		{
			Name:   "point-cloud-result-message",
			Doc:    "Status message of a point cloud result.",
			Params: []Param{{"result", borrow(witPointCloudResult)}},
			Result: wit.String{},
		},
		{
			Name:   "point-cloud-result-value",
			Doc:    "Takes the point cloud out of a result. Returns 0 if the result failed or was taken.",
			Params: []Param{{"result", borrow(witPointCloudResult)}},
			Result: own(witPointCloud),
		},
		{
			Name:   "mesh-num-faces",
			Params: []Param{{"mesh", borrow(witMesh)}},
			Result: wit.U32{},
		},
		{
			Name:   "mesh-face",
			Doc:    "Points of a face. All three are 0xFFFFFFFF for an unknown face.",
			Params: []Param{{"mesh", borrow(witMesh)}, {"face", witFaceIndex}},
			Result: witFace,
		},
		{
			Name:   "mesh-corner-point",
			Params: []Param{{"mesh", borrow(witMesh)}, {"corner", witCornerIndex}},
			Result: witPointIndex,
		},
		{
			Name:   "point-cloud-num-points",
			Params: []Param{{"cloud", borrow(witPointCloud)}},
			Result: wit.U32{},
		},
		{
			Name:   "point-cloud-attribute-value",
			Doc:    "Components of an attribute at a point. Empty when either is unknown.",
			Params: []Param{{"cloud", borrow(witPointCloud)}, {"attribute", witAttributeID}, {"point", witPointIndex}},
			Result: list(wit.F64{}),
		},
		{
			Name:   "drop",
			Doc:    "Releases any handle. Returns false for unknown handles.",
			Params: []Param{{"handle", wit.U32{}}},
			Result: wit.Bool{},
		},
	}
}
