// Package gen generates the index domains and the per-payload result shims
// from bindings.yaml.
//
// It handles:
//   - Parsing and validating bindings.yaml
//   - Checking payload types against Go source via go/packages
//   - Rendering index/domains_gen.go and shim/shim_gen.go
package gen

import (
	"fmt"
	"os"
	"path"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/draco-go/errors"
)

// Config represents bindings.yaml.
type Config struct {
	// Module is the Go module path the generated files belong to
	// (e.g. "github.com/wippyai/draco-go").
	Module string `yaml:"module"`

	// Domains lists the index domains in declaration order.
	Domains []Domain `yaml:"domains"`

	// Payloads lists the payload types that get a status/value shim pair.
	Payloads []Payload `yaml:"payloads"`

	// Output places the generated files. Defaults to index/ and shim/.
	Output Output `yaml:"output,omitempty"`

	// Bridge carries the host module settings surfaced by cmd/surface.
	Bridge Bridge `yaml:"bridge,omitempty"`
}

// Domain is one index space.
type Domain struct {
	// Name is the lower kebab-case domain name (e.g. "attribute-value").
	Name string `yaml:"name"`

	// Type is the Go tag type name. Derived from Name when empty
	// ("attribute-value" becomes "AttributeValue").
	Type string `yaml:"type,omitempty"`
}

// Payload is one type carried by status.Result.
type Payload struct {
	// Name prefixes the generated functions: <Name>Status, <Name>Value.
	Name string `yaml:"name"`

	// Type is the Go type name inside Package. Defaults to Name.
	// The shim always carries *Type.
	Type string `yaml:"type,omitempty"`

	// Package is the Go import path declaring Type.
	Package string `yaml:"package"`
}

// Output configures where generated code goes, relative to the config file.
type Output struct {
	Index string `yaml:"index,omitempty"`
	Shim  string `yaml:"shim,omitempty"`
}

// Bridge holds the bridge host module settings. Zero fields keep the bridge
// defaults.
type Bridge struct {
	Module        string `yaml:"module,omitempty"`
	MaxInputBytes uint32 `yaml:"max_input_bytes,omitempty"`
}

// LoadConfig reads and parses a bindings.yaml file.
func LoadConfig(file string) (*Config, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindNotFound, err, "reading "+file)
	}
	return ParseConfig(data, file)
}

// ParseConfig parses bindings.yaml content.
// The file argument is used only for error messages.
func ParseConfig(data []byte, file string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parsing "+file)
	}
	cfg.setDefaults()
	if err := cfg.validate(file); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var (
	domainName = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)
	goIdent    = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)
)

func (c *Config) setDefaults() {
	for i := range c.Domains {
		if c.Domains[i].Type == "" {
			c.Domains[i].Type = pascal(c.Domains[i].Name)
		}
	}
	for i := range c.Payloads {
		if c.Payloads[i].Type == "" {
			c.Payloads[i].Type = c.Payloads[i].Name
		}
	}
	if c.Output.Index == "" {
		c.Output.Index = "index"
	}
	if c.Output.Shim == "" {
		c.Output.Shim = "shim"
	}
}

// validate checks the configuration for semantic errors.
func (c *Config) validate(file string) error {
	fail := func(format string, args ...any) error {
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Path(file).
			Detail(format, args...).
			Build()
	}

	if c.Module == "" {
		return fail("module is required")
	}
	if len(c.Domains) == 0 {
		return fail("no domains defined")
	}

	seen := make(map[string]string)
	for i, d := range c.Domains {
		if !domainName.MatchString(d.Name) {
			return fail("domains[%d]: name %q must be lower kebab-case", i, d.Name)
		}
		if !goIdent.MatchString(d.Type) {
			return fail("domains[%d]: type %q is not an exported Go identifier", i, d.Type)
		}
		if prev, ok := seen[d.Type]; ok {
			return fail("domains[%d]: type %s already used by %q", i, d.Type, prev)
		}
		seen[d.Type] = d.Name
	}

	names := make(map[string]bool)
	for i, p := range c.Payloads {
		if !goIdent.MatchString(p.Name) {
			return fail("payloads[%d]: name %q is not an exported Go identifier", i, p.Name)
		}
		if !goIdent.MatchString(p.Type) {
			return fail("payloads[%d]: type %q is not an exported Go identifier", i, p.Type)
		}
		if p.Package == "" {
			return fail("payloads[%d]: package is required", i)
		}
		if names[p.Name] {
			return fail("payloads[%d]: duplicate payload %s", i, p.Name)
		}
		names[p.Name] = true
	}
	return nil
}

// StatusImport is the import path of the status package.
func (c *Config) StatusImport() string { return c.Module + "/status" }

// IndexImport is the import path of the generated index package.
func (c *Config) IndexImport() string { return c.Module + "/" + c.Output.Index }

// PackageName returns the last element of the payload's import path, the
// default qualifier in generated code.
func (p Payload) PackageName() string { return path.Base(p.Package) }

// GoType returns the qualified pointer type, e.g. "*geometry.Mesh".
func (p Payload) GoType() string { return fmt.Sprintf("*%s.%s", p.PackageName(), p.Type) }

func pascal(kebab string) string {
	var b strings.Builder
	for part := range strings.SplitSeq(kebab, "-") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]) + part[1:])
	}
	return b.String()
}
