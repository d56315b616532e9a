// SPDX-License-Identifier: MPL-2.0

package session

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"

	"github.com/invowk/modsurface/internal/cueutil"
	"github.com/invowk/modsurface/pkg/modinfo"
	"github.com/invowk/modsurface/pkg/modsource"
)

// Evaluate runs a CUE script module and returns the scope it exported into.
// Every public regular field of the functions, workflows, aliases and
// variables sections is exported; cmdlets are parked for the module to take.
// Symbols are owned by module.
func Evaluate(module *modinfo.Module, src []byte) (*State, error) {
	root, err := cueutil.Compile(module.Path(), src)
	if err != nil {
		return nil, err
	}
	if err := root.Validate(); err != nil {
		return nil, cueutil.FormatError(err, module.Path())
	}

	state := NewState(module.Path())
	sections := []struct {
		field  string
		export func(name string, v cue.Value)
	}{
		{modsource.FunctionsField, func(name string, v cue.Value) {
			state.ExportFunction(command(module, name, modinfo.CommandTypeFunction, v))
		}},
		{modsource.CmdletsField, func(name string, v cue.Value) {
			state.ExportCmdlet(command(module, name, modinfo.CommandTypeCmdlet, v))
		}},
		{modsource.WorkflowsField, func(name string, v cue.Value) {
			state.ExportWorkflow(command(module, name, modinfo.CommandTypeWorkflow, v))
		}},
		{modsource.AliasesField, func(name string, v cue.Value) {
			state.ExportAlias(command(module, name, modinfo.CommandTypeAlias, v))
		}},
		{modsource.VariablesField, func(name string, v cue.Value) {
			state.ExportVariable(&modinfo.Variable{Name: name, Value: goValue(v), Module: module})
		}},
	}

	for _, section := range sections {
		sv := root.LookupPath(cue.ParsePath(section.field))
		if !sv.Exists() {
			continue
		}
		iter, err := sv.Fields()
		if err != nil {
			return nil, fmt.Errorf("%s: %s must be a struct: %w", module.Path(), section.field, err)
		}
		for iter.Next() {
			name := iter.Selector().Unquoted()
			if strings.HasPrefix(name, "_") {
				continue
			}
			section.export(name, iter.Value())
		}
	}
	return state, nil
}

func command(module *modinfo.Module, name string, typ modinfo.CommandType, v cue.Value) *modinfo.CommandInfo {
	return &modinfo.CommandInfo{
		Name:       name,
		Type:       typ,
		Module:     module,
		Definition: definition(v),
	}
}

// definition renders a command body: the string itself for string values,
// CUE syntax otherwise.
func definition(v cue.Value) string {
	if s, err := v.String(); err == nil {
		return s
	}
	return fmt.Sprint(v)
}

// goValue decodes a concrete value; non-concrete values are kept as CUE text.
func goValue(v cue.Value) any {
	var out any
	if err := v.Decode(&out); err != nil {
		return fmt.Sprint(v)
	}
	return out
}
