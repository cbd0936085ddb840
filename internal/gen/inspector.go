package gen

import (
	"go/types"
	"os"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"github.com/wippyai/draco-go/errors"
)

// PayloadInfo is what the inspector learned about a payload type.
type PayloadInfo struct {
	Payload Payload

	// PkgName is the declared package name, which may differ from the last
	// import path element.
	PkgName string

	// Methods lists the exported methods of *Type, sorted.
	Methods []string
}

// Inspector checks payload types against Go source.
type Inspector struct {
	// Dir is the directory packages are loaded from, normally the one holding
	// bindings.yaml. Empty means the current directory.
	Dir string
}

// Inspect loads every payload package and confirms each payload names an
// exported, non-generic, non-interface type.
func (ins *Inspector) Inspect(cfg *Config) ([]PayloadInfo, error) {
	var paths []string
	for _, p := range cfg.Payloads {
		paths = append(paths, p.Package)
	}
	if len(paths) == 0 {
		return nil, nil
	}

	pkgs, err := packages.Load(&packages.Config{
		Mode: packages.NeedName | packages.NeedTypes,
		Dir:  ins.Dir,
		Env:  append(os.Environ(), "GOWORK=off"),
	}, paths...)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseGenerate, errors.KindNotFound, err, "loading payload packages")
	}

	loaded := make(map[string]*packages.Package, len(pkgs))
	var errs []string
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, pkg.PkgPath+": "+e.Msg)
		}
		loaded[pkg.PkgPath] = pkg
	}
	if len(errs) > 0 {
		return nil, errors.New(errors.PhaseGenerate, errors.KindNotFound).
			Detail("package errors:\n  %s", strings.Join(errs, "\n  ")).
			Build()
	}

	infos := make([]PayloadInfo, 0, len(cfg.Payloads))
	for _, p := range cfg.Payloads {
		info, err := inspectPayload(loaded[p.Package], p)
		if err != nil {
			return nil, err
		}
		Logger().Debug("payload",
			zap.String("name", p.Name),
			zap.String("type", p.GoType()),
			zap.Int("methods", len(info.Methods)))
		infos = append(infos, info)
	}
	return infos, nil
}

func inspectPayload(pkg *packages.Package, p Payload) (PayloadInfo, error) {
	if pkg == nil || pkg.Types == nil {
		return PayloadInfo{}, errors.NotFound(errors.PhaseGenerate, "package", p.Package)
	}
	obj := pkg.Types.Scope().Lookup(p.Type)
	if obj == nil {
		return PayloadInfo{}, errors.NotFound(errors.PhaseGenerate, "type", p.Package+"."+p.Type)
	}
	tn, ok := obj.(*types.TypeName)
	if !ok || !tn.Exported() {
		return PayloadInfo{}, errors.New(errors.PhaseGenerate, errors.KindTypeMismatch).
			GoType(p.Package + "." + p.Type).
			Detail("not an exported type").
			Build()
	}
	named, ok := tn.Type().(*types.Named)
	if !ok || named.TypeParams().Len() > 0 {
		return PayloadInfo{}, errors.New(errors.PhaseGenerate, errors.KindTypeMismatch).
			GoType(p.Package + "." + p.Type).
			Detail("payload must be a non-generic named type").
			Build()
	}
	if types.IsInterface(named) {
		return PayloadInfo{}, errors.New(errors.PhaseGenerate, errors.KindTypeMismatch).
			GoType(p.Package + "." + p.Type).
			Detail("payload must not be an interface").
			Build()
	}

	info := PayloadInfo{Payload: p, PkgName: pkg.Types.Name()}
	if info.PkgName != p.PackageName() {
		return PayloadInfo{}, errors.New(errors.PhaseGenerate, errors.KindTypeMismatch).
			GoType(p.Package + "." + p.Type).
			Detail("package is named %s, generated code would qualify it as %s", info.PkgName, p.PackageName()).
			Build()
	}
	mset := types.NewMethodSet(types.NewPointer(named))
	for i := range mset.Len() {
		if sel := mset.At(i); sel.Obj().Exported() {
			info.Methods = append(info.Methods, sel.Obj().Name())
		}
	}
	slices.Sort(info.Methods)
	return info, nil
}
