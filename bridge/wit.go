package bridge

import (
	"fmt"
	"strings"

	"go.bytecodealliance.org/wit"
)

// TypeString renders t in WIT syntax.
func TypeString(t wit.Type) string {
	switch v := t.(type) {
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		if v.Name != nil {
			return *v.Name
		}
		return kindString(v.Kind)
	case nil:
		return ""
	}
	return fmt.Sprintf("%T", t)
}

func kindString(k wit.TypeDefKind) string {
	switch k := k.(type) {
	case *wit.List:
		return "list<" + TypeString(k.Type) + ">"
	case *wit.Option:
		return "option<" + TypeString(k.Type) + ">"
	case *wit.Tuple:
		elems := make([]string, len(k.Types))
		for i, t := range k.Types {
			elems[i] = TypeString(t)
		}
		return "tuple<" + strings.Join(elems, ", ") + ">"
	case *wit.Own:
		return TypeString(k.Type)
	case *wit.Borrow:
		return "borrow<" + TypeString(k.Type) + ">"
	case wit.Type:
		return TypeString(k)
	}
	return fmt.Sprintf("%T", k)
}

// Signature renders f as a WIT function item.
func (f *Function) Signature() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Name + ": " + TypeString(p.Type)
	}
	sig := f.Name + ": func(" + strings.Join(params, ", ") + ")"
	if f.Result != nil {
		sig += " -> " + TypeString(f.Result)
	}
	return sig
}

// SplitModuleName splits "ns:pkg/iface@ver" into "ns:pkg@ver" and "iface".
func SplitModuleName(name string) (pkg, iface string) {
	version := ""
	if i := strings.LastIndexByte(name, '@'); i >= 0 {
		name, version = name[:i], name[i:]
	}
	i := strings.LastIndexByte(name, '/')
	if i < 0 {
		return name + version, ""
	}
	return name[:i] + version, name[i+1:]
}

// RenderWIT renders the bridge interface as a WIT package.
func RenderWIT(moduleName string) string {
	if moduleName == "" {
		moduleName = DefaultModuleName
	}
	pkg, iface := SplitModuleName(moduleName)
	if iface == "" {
		iface = "bridge"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "package %s;\n\ninterface %s {\n", pkg, iface)
	for _, td := range []*wit.TypeDef{witPointIndex, witFaceIndex, witCornerIndex, witAttributeID, witStatusCode, witFace} {
		fmt.Fprintf(&b, "    type %s = %s;\n", *td.Name, kindString(td.Kind))
	}
	b.WriteString("\n")
	for _, td := range []*wit.TypeDef{witMesh, witPointCloud, witMeshResult, witPointCloudResult} {
		fmt.Fprintf(&b, "    resource %s;\n", *td.Name)
	}
	for _, f := range Functions() {
		b.WriteString("\n")
		if f.Doc != "" {
			fmt.Fprintf(&b, "    /// %s\n", f.Doc)
		}
		fmt.Fprintf(&b, "    %s;\n", f.Signature())
	}
	b.WriteString("}\n")
	return b.String()
}
