// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

const (
	// ModuleNotFoundId: a module name could not be resolved to a file.
	ModuleNotFoundId Id = iota + 1
	// ManifestInvalidId: a module manifest failed schema validation.
	ManifestInvalidId
	// ModuleSourceInvalidId: a script module could not be parsed or evaluated.
	ModuleSourceInvalidId
	// NestedModuleCycleId: manifests nest each other.
	NestedModuleCycleId
	// ConfigLoadFailedId: the configuration file could not be loaded.
	ConfigLoadFailedId
	// SandboxViolationId: a shell module touched the outside world while evaluated.
	SandboxViolationId
)

// StyleAuto selects the glamour style matching the terminal background.
const StyleAuto = "auto"

type (
	// Id identifies a catalog entry.
	Id int

	// MarkdownMsg is the Markdown body of an issue.
	MarkdownMsg string

	// HttpLink is a documentation link shown under an issue.
	HttpLink string

	// Issue is a catalog entry of remediation guidance.
	Issue struct {
		id       Id
		title    string
		mdMsg    MarkdownMsg
		docLinks []HttpLink
	}
)

var (
	render = glamour.Render

	issues = map[Id]*Issue{
		ModuleNotFoundId: {
			id:    ModuleNotFoundId,
			title: "Module not found",
			mdMsg: `
# Module not found

The module name could not be resolved to a file.

## Search order
1. The module path cache of this run
2. Each configured search path, trying:
   - ` + "`<name>.mod.cue`" + `
   - ` + "`<name>.cue`" + `
   - ` + "`<name>.sh`" + `
   - ` + "`<name>/<name>.mod.cue`" + `

## Things you can try
- Pass the module path directly:
~~~
$ modsurface exports ./modules/net/Net.mod.cue
~~~
- Add the directory to the search paths:
~~~
$ modsurface exports Net --search-path ./modules/net
~~~`,
		},
		ManifestInvalidId: {
			id:    ManifestInvalidId,
			title: "Invalid module manifest",
			mdMsg: `
# Invalid module manifest

The manifest does not match the manifest schema.

## Example manifest
~~~cue
name:        "Net"
version:     "1.2"
root_module: "Net.cue"
nested_modules: ["helpers/Helpers.cue"]
functions_to_export: ["Get-Route", "Set-Route"]
aliases_to_export:   []
~~~

An empty ` + "`*_to_export`" + ` list hides the whole category; leaving the field out
falls back to what the module itself exports.`,
		},
		ModuleSourceInvalidId: {
			id:    ModuleSourceInvalidId,
			title: "Invalid module source",
			mdMsg: `
# Invalid module source

A script module could not be parsed or evaluated.

## Things you can try
- Run without ` + "`--evaluate`" + ` to inspect the module by analysis only.
- Check the CUE syntax:
~~~
$ cue vet ./module.cue
~~~`,
		},
		NestedModuleCycleId: {
			id:    NestedModuleCycleId,
			title: "Nested module cycle",
			mdMsg: `
# Nested module cycle

Manifests list each other as nested modules, directly or through other
manifests. Remove one of the ` + "`nested_modules`" + ` entries named in the cycle.`,
		},
		ConfigLoadFailedId: {
			id:    ConfigLoadFailedId,
			title: "Configuration could not be loaded",
			mdMsg: `
# Configuration could not be loaded

## Example configuration
~~~cue
search_paths:   ["./modules"]
evaluate:       false
parallel_loads: 4
output_format:  "text"
ui: verbose: false
~~~`,
		},
		SandboxViolationId: {
			id:    SandboxViolationId,
			title: "Shell module left the sandbox",
			mdMsg: `
# Shell module left the sandbox

Shell modules are evaluated without access to external commands or files.
Keep the module body to function, alias and ` + "`export`" + ` definitions, or inspect
it without ` + "`--evaluate`" + `.`,
		},
	}
)

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, id := range slices.Sorted(maps.Keys(issues)) {
		out = append(out, issues[id])
	}
	return out
}

// Id returns the entry's identifier.
func (i *Issue) Id() Id { return i.id }

// Title returns a one-line summary.
func (i *Issue) Title() string { return i.title }

// MarkdownMsg returns the Markdown body.
func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

// DocLinks returns the documentation links.
func (i *Issue) DocLinks() []HttpLink { return slices.Clone(i.docLinks) }

// Render renders the entry to the terminal with the glamour style at stylePath
// (a path or a built-in style name such as StyleAuto, "dark" or "notty").
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 {
		var sb strings.Builder
		sb.WriteString(md + "\n\n## See also\n")
		for _, link := range i.docLinks {
			sb.WriteString("- <" + string(link) + ">\n")
		}
		md = sb.String()
	}
	return render(md, stylePath)
}
