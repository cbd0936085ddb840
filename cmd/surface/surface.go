package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/draco-go/bridge"
	"github.com/wippyai/draco-go/internal/gen"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type styleFunc func(...string) string

const (
	sectionDomains = "Index domains"
	sectionShims   = "Result shims"
	sectionBridge  = "Bridge host functions"
)

// entry is one item of the surface.
type entry struct {
	section string
	name    string
	summary string
	detail  []string
}

func (e entry) matches(filter string) bool {
	if filter == "" {
		return true
	}
	filter = strings.ToLower(filter)
	return strings.Contains(strings.ToLower(e.name), filter) ||
		strings.Contains(strings.ToLower(e.summary), filter)
}

func buildEntries(cfg *gen.Config) []entry {
	var entries []entry

	for _, d := range cfg.Domains {
		entries = append(entries, entry{
			section: sectionDomains,
			name:    d.Type + "Index",
			summary: "index." + d.Type + "Index = index.Index[index." + d.Type + "]",
			detail: []string{
				"domain:      " + d.Name,
				"constructor: index.New" + d.Type + "Index(v uint32)",
				"layout:      uint32 (size 4, align 4)",
				"invalid:     0xFFFFFFFF",
			},
		})
	}

	for _, p := range cfg.Payloads {
		entries = append(entries, entry{
			section: sectionShims,
			name:    p.Name,
			summary: fmt.Sprintf("%sStatus, %sValue over status.Result[%s]", p.Name, p.Name, p.GoType()),
			detail: []string{
				fmt.Sprintf("func shim.%sStatus(r *shim.%sResult) status.Status", p.Name, p.Name),
				fmt.Sprintf("func shim.%sValue(r *shim.%sResult) (%s, error)", p.Name, p.Name, p.GoType()),
				"package:     " + p.Package,
				"status is repeatable; value succeeds once per result",
			},
		})
	}

	br := bridge.New(nil, bridgeConfig(cfg))
	for _, f := range bridge.Functions() {
		params, results := f.CoreSignature()
		detail := []string{
			"module: " + br.ModuleName(),
			"wit:    " + f.Signature(),
			"core:   (" + valueTypes(params) + ") -> (" + valueTypes(results) + ")",
		}
		if strings.HasPrefix(f.Name, "decode-") {
			detail = append(detail, fmt.Sprintf("limit:  inputs over %d bytes yield invalid-parameter", br.MaxInputBytes()))
		}
		if f.UsesRetptr() {
			detail = append(detail, "result is written through the trailing return pointer")
		}
		if f.Doc != "" {
			detail = append(detail, "", f.Doc)
		}
		entries = append(entries, entry{
			section: sectionBridge,
			name:    f.Name,
			summary: strings.TrimPrefix(f.Signature(), f.Name+": "),
			detail:  detail,
		})
	}
	return entries
}

// bridgeConfig carries the bridge section of bindings.yaml over to the host
// module configuration.
func bridgeConfig(cfg *gen.Config) *bridge.Config {
	return &bridge.Config{
		ModuleName:    cfg.Bridge.Module,
		MaxInputBytes: cfg.Bridge.MaxInputBytes,
	}
}

func valueTypes(ts []api.ValueType) string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = api.ValueTypeName(t)
	}
	return strings.Join(names, ", ")
}
