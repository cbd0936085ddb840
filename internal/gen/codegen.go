package gen

import (
	"bytes"
	"go/format"
	"os"
	"path/filepath"
	"slices"
	"text/template"

	"go.uber.org/zap"

	"github.com/wippyai/draco-go/errors"
)

// Header marks generated files.
const Header = "// Code generated by shimgen from bindings.yaml. DO NOT EDIT."

// GeneratedFile is a rendered output file.
type GeneratedFile struct {
	// Path is relative to the config directory.
	Path    string
	Content []byte
}

var domainsTemplate = template.Must(template.New("domains").Parse(Header + `

package index
{{range .Domains}}
// {{.Type}} tags the {{.Name}} index domain.
type {{.Type}} struct{}

// Name returns "{{.Name}}".
func ({{.Type}}) Name() string { return "{{.Name}}" }

// {{.Type}}Index is an index into the {{.Name}} domain.
type {{.Type}}Index = Index[{{.Type}}]

// New{{.Type}}Index wraps v in the {{.Name}} domain.
func New{{.Type}}Index(v uint32) {{.Type}}Index { return New[{{.Type}}](v) }
{{end}}`))

var shimTemplate = template.Must(template.New("shim").Parse(Header + `

package shim

import (
{{- range .Imports}}
	"{{.}}"
{{- end}}
)
{{range .Payloads}}
// {{.Name}}Result is the container for {{.Name}} payloads.
type {{.Name}}Result = status.Result[{{.GoType}}]

// {{.Name}}Status returns the status held by r without consuming it.
func {{.Name}}Status(r *{{.Name}}Result) status.Status { return r.Status() }

// {{.Name}}Value moves the {{.Name}} payload out of r.
// It returns an error if r failed or was already consumed.
func {{.Name}}Value(r *{{.Name}}Result) ({{.GoType}}, error) { return r.Value() }
{{end}}
// Binding describes one generated function pair.
type Binding struct {
	Payload string
	GoType  string
	Status  string
	Value   string
}

// Bindings lists the generated pairs in bindings.yaml order.
var Bindings = []Binding{
{{- range .Payloads}}
	{Payload: "{{.Name}}", GoType: "{{.GoType}}", Status: "{{.Name}}Status", Value: "{{.Name}}Value"},
{{- end}}
}
`))

// RenderDomains renders the index domain declarations.
func RenderDomains(cfg *Config) ([]byte, error) {
	return render(domainsTemplate, cfg)
}

// RenderShim renders the status/value pairs for every payload.
func RenderShim(cfg *Config) ([]byte, error) {
	imports := []string{cfg.StatusImport()}
	for _, p := range cfg.Payloads {
		if !slices.Contains(imports, p.Package) {
			imports = append(imports, p.Package)
		}
	}
	slices.Sort(imports)

	return render(shimTemplate, struct {
		Imports  []string
		Payloads []Payload
	}{imports, cfg.Payloads})
}

func render(tmpl *template.Template, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, errors.Wrap(errors.PhaseGenerate, errors.KindInvalidInput, err, "executing "+tmpl.Name()+" template")
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, errors.Wrap(errors.PhaseGenerate, errors.KindInvalidInput, err, "formatting "+tmpl.Name()+" output")
	}
	return src, nil
}

// Generate renders every output file.
func Generate(cfg *Config) ([]GeneratedFile, error) {
	domains, err := RenderDomains(cfg)
	if err != nil {
		return nil, err
	}
	shim, err := RenderShim(cfg)
	if err != nil {
		return nil, err
	}
	return []GeneratedFile{
		{Path: filepath.Join(cfg.Output.Index, "domains_gen.go"), Content: domains},
		{Path: filepath.Join(cfg.Output.Shim, "shim_gen.go"), Content: shim},
	}, nil
}

// WriteFiles writes files below root, skipping files whose content is
// unchanged. It returns the paths actually written.
func WriteFiles(root string, files []GeneratedFile) ([]string, error) {
	var written []string
	for _, f := range files {
		target := filepath.Join(root, f.Path)
		if old, err := os.ReadFile(target); err == nil && bytes.Equal(old, f.Content) {
			Logger().Debug("unchanged", zap.String("file", target))
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return written, errors.Wrap(errors.PhaseGenerate, errors.KindInvalidInput, err, "creating "+filepath.Dir(target))
		}
		if err := os.WriteFile(target, f.Content, 0o644); err != nil {
			return written, errors.Wrap(errors.PhaseGenerate, errors.KindInvalidInput, err, "writing "+target)
		}
		Logger().Info("generated", zap.String("file", target), zap.Int("bytes", len(f.Content)))
		written = append(written, target)
	}
	return written, nil
}
