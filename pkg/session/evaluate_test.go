// SPDX-License-Identifier: MPL-2.0

package session

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/invowk/modsurface/pkg/modinfo"
)

const cueScript = `
#Point: {x: int, y: int}

functions: {
	"Get-Point": "return point"
	helper:      "help"
	_private:    "hidden"
}

cmdlets: {
	"Invoke-Thing": "things.InvokeCommand"
}

workflows: {
	deploy: "steps"
}

aliases: {
	gp: "Get-Point"
}

variables: {
	origin:  #Point & {x: 0, y: 0}
	retries: 3
}
`

func TestEvaluate(t *testing.T) {
	t.Parallel()

	m := modinfo.New("/mods/geo.cue")
	state, err := Evaluate(m, []byte(cueScript))
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if got := names(state.OwnExportedFunctions()); !slices.Equal(got, []string{"Get-Point", "helper"}) {
		t.Errorf("functions = %v, want [Get-Point helper]", got)
	}
	if got := state.OwnExportedFunctions()[0]; got.Definition != "return point" || got.Module != m {
		t.Errorf("Get-Point = %+v, want definition and owning module set", got)
	}
	if got := names(state.OwnExportedWorkflows()); !slices.Equal(got, []string{"deploy"}) {
		t.Errorf("workflows = %v, want [deploy]", got)
	}
	aliases := state.OwnExportedAliases()
	if len(aliases) != 1 || aliases[0].Name != "gp" || aliases[0].Definition != "Get-Point" {
		t.Errorf("aliases = %v, want gp -> Get-Point", names(aliases))
	}
	if got := names(state.OwnExportedCmdlets()); !slices.Equal(got, []string{"Invoke-Thing"}) {
		t.Errorf("parked cmdlets = %v, want [Invoke-Thing]", got)
	}

	vars := state.OwnExportedVariables()
	if len(vars) != 2 || vars[0].Name != "origin" || vars[1].Name != "retries" {
		t.Fatalf("variables = %+v, want origin, retries", vars)
	}
	origin, ok := vars[0].Value.(map[string]any)
	if !ok || len(origin) != 2 {
		t.Errorf("origin value = %#v, want a two-field object", vars[0].Value)
	}
}

func TestEvaluate_CmdletsMigrateIntoModule(t *testing.T) {
	t.Parallel()

	m := modinfo.New("/mods/geo.cue")
	state, err := Evaluate(m, []byte(cueScript))
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	m.SetScope(state)

	cmdlets := m.ExportedCmdlets()
	if !cmdlets.Has("invoke-thing") {
		t.Errorf("ExportedCmdlets() = %v, want Invoke-Thing", cmdlets.Names())
	}
	if parked := state.OwnExportedCmdlets(); len(parked) != 0 {
		t.Errorf("scope still holds %v after migration", names(parked))
	}
	// A second resolution sees the migrated cmdlet exactly once.
	if got := len(m.CompiledCmdlets()); got != 1 {
		t.Errorf("CompiledCmdlets() len = %d, want 1", got)
	}
}

func TestEvaluate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{"syntax error", "functions: {"},
		{"conflicting values", "variables: { a: 1, a: 2 }"},
		{"section is not a struct", `functions: "nope"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Evaluate(modinfo.New("/mods/bad.cue"), []byte(tt.src))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), "bad.cue") {
				t.Errorf("error should name the module file, got: %v", err)
			}
		})
	}
}

func TestEvaluateShell(t *testing.T) {
	t.Parallel()

	src := `
greet() { echo "hello $1"; }
function Get-Item { echo item; }
_internal() { :; }
alias gi='Get-Item'
export GREETING="hi there"
LOCAL=1
if true; then
	late() { :; }
fi
`
	m := modinfo.New("/mods/tools.sh")
	state, err := EvaluateShell(context.Background(), m, []byte(src))
	if err != nil {
		t.Fatalf("EvaluateShell() error = %v", err)
	}

	if got := names(state.OwnExportedFunctions()); !slices.Equal(got, []string{"greet", "Get-Item", "late"}) {
		t.Errorf("functions = %v, want [greet Get-Item late]", got)
	}
	if def := state.OwnExportedFunctions()[0].Definition; !strings.Contains(def, "echo") {
		t.Errorf("greet definition = %q, want the printed body", def)
	}
	aliases := state.OwnExportedAliases()
	if len(aliases) != 1 || aliases[0].Definition != "Get-Item" {
		t.Errorf("aliases = %v, want gi -> Get-Item", names(aliases))
	}
	vars := state.OwnExportedVariables()
	if len(vars) != 1 || vars[0].Name != "GREETING" || vars[0].Value != "hi there" {
		t.Errorf("variables = %+v, want GREETING=hi there", vars)
	}
}

func TestEvaluateShell_Sandbox(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{"external command", "ls /\n"},
		{"file write", "echo x > /tmp/modsurface-sandbox-test\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := EvaluateShell(context.Background(), modinfo.New("/mods/bad.sh"), []byte(tt.src))
			if err == nil {
				t.Fatal("expected sandbox error")
			}
		})
	}

	_, err := EvaluateShell(context.Background(), modinfo.New("/mods/bad.sh"), []byte("ls /\n"))
	if !errors.Is(err, ErrSandboxViolation) {
		t.Errorf("external command error = %v, want ErrSandboxViolation", err)
	}
}
