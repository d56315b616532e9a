// SPDX-License-Identifier: MPL-2.0

package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/invowk/modsurface/pkg/modinfo"
	"github.com/invowk/modsurface/pkg/modsource"
)

// ErrSandboxViolation is returned when a shell module tries to run an external
// command or open a file while it is evaluated.
var ErrSandboxViolation = errors.New("shell module evaluation is sandboxed")

// EvaluateShell runs a shell script module in a sandboxed interpreter and
// returns the scope it exported into: its public functions, its exported
// variables with their values, and its aliases. Symbols are owned by module.
func EvaluateShell(ctx context.Context, module *modinfo.Module, src []byte) (*State, error) {
	prog, err := modsource.ParseShell(module.Path(), src)
	if err != nil {
		return nil, err
	}

	runner, err := interp.New(
		interp.Env(expand.ListEnviron()),
		interp.StdIO(nil, io.Discard, io.Discard),
		interp.ExecHandlers(denyExec),
		interp.OpenHandler(denyOpen),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create shell interpreter: %w", err)
	}
	if err := runner.Run(ctx, prog); err != nil {
		return nil, fmt.Errorf("%s: evaluating shell module: %w", module.Path(), err)
	}

	det := modsource.ScanShellFile(prog)
	state := NewState(module.Path())

	printer := syntax.NewPrinter()
	for _, name := range orderedNames(det.Functions, slices.Collect(maps.Keys(runner.Funcs))) {
		body := runner.Funcs[name]
		if body == nil {
			continue
		}
		var sb strings.Builder
		if err := printer.Print(&sb, body); err != nil {
			return nil, fmt.Errorf("%s: printing function %s: %w", module.Path(), name, err)
		}
		state.ExportFunction(&modinfo.CommandInfo{
			Name:       name,
			Type:       modinfo.CommandTypeFunction,
			Module:     module,
			Definition: sb.String(),
		})
	}

	for _, alias := range det.Aliases {
		state.ExportAlias(&modinfo.CommandInfo{
			Name:       alias.Name,
			Type:       modinfo.CommandTypeAlias,
			Module:     module,
			Definition: alias.Target,
		})
	}

	var exported []string
	for name, v := range runner.Vars {
		if v.Exported && v.IsSet() {
			exported = append(exported, name)
		}
	}
	for _, name := range orderedNames(det.Variables, exported) {
		v, ok := runner.Vars[name]
		if !ok || !v.Exported {
			continue
		}
		state.ExportVariable(&modinfo.Variable{Name: name, Value: v.String(), Module: module})
	}
	return state, nil
}

// orderedNames lists the public names of static in source order, followed by
// the remaining public names of dynamic sorted.
func orderedNames(static, dynamic []string) []string {
	out := make([]string, 0, len(static)+len(dynamic))
	seen := make(map[string]bool, len(static))
	for _, name := range static {
		if !seen[name] && !strings.HasPrefix(name, "_") {
			seen[name] = true
			out = append(out, name)
		}
	}
	slices.Sort(dynamic)
	for _, name := range dynamic {
		if !seen[name] && !strings.HasPrefix(name, "_") {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}

func denyExec(interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(_ context.Context, args []string) error {
		return fmt.Errorf("%w: external command %q refused", ErrSandboxViolation, args[0])
	}
}

func denyOpen(ctx context.Context, path string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	if path == os.DevNull {
		return interp.DefaultOpenHandler()(ctx, path, flag, perm)
	}
	return nil, fmt.Errorf("%w: opening %q refused", ErrSandboxViolation, path)
}
