// SPDX-License-Identifier: MPL-2.0

package session

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/sync/errgroup"

	"github.com/invowk/modsurface/pkg/modinfo"
)

func cmd(name string) *modinfo.CommandInfo {
	return &modinfo.CommandInfo{Name: name, Type: modinfo.CommandTypeCmdlet}
}

func names(cmds []*modinfo.CommandInfo) []string {
	out := make([]string, 0, len(cmds))
	for _, c := range cmds {
		out = append(out, c.Name)
	}
	return out
}

func TestState_TakeExportedCmdletsDrainsOnce(t *testing.T) {
	t.Parallel()

	s := NewState("mod.cue")
	s.ExportCmdlet(cmd("Get-A"))
	s.ExportCmdlet(cmd("Get-B"))

	first := s.TakeExportedCmdlets()
	if got := names(first); len(got) != 2 || got[0] != "Get-A" || got[1] != "Get-B" {
		t.Errorf("first take = %v, want [Get-A Get-B]", got)
	}
	if second := s.TakeExportedCmdlets(); len(second) != 0 {
		t.Errorf("second take = %v, want nothing", names(second))
	}
	if own := s.OwnExportedCmdlets(); len(own) != 0 {
		t.Errorf("OwnExportedCmdlets after take = %v, want nothing", names(own))
	}
}

func TestState_ConcurrentTakeHandsOverEachCmdletOnce(t *testing.T) {
	t.Parallel()

	s := NewState("mod.cue")
	for range 100 {
		s.ExportCmdlet(cmd("c"))
	}

	results := make([]int, 8)
	var g errgroup.Group
	for i := range results {
		g.Go(func() error {
			results[i] = len(s.TakeExportedCmdlets())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	total := 0
	for _, n := range results {
		total += n
	}
	if total != 100 {
		t.Errorf("cmdlets handed over = %d, want 100", total)
	}
}

func TestState_OwnListsAreCopies(t *testing.T) {
	t.Parallel()

	s := NewState("mod.cue")
	s.ExportFunction(&modinfo.CommandInfo{Name: "f"})

	own := s.OwnExportedFunctions()
	own[0] = &modinfo.CommandInfo{Name: "replaced"}
	if got := s.OwnExportedFunctions()[0].Name; got != "f" {
		t.Errorf("mutating the returned slice changed the state: %q", got)
	}
}

func TestHost_WithCurrentRestores(t *testing.T) {
	t.Parallel()

	global := NewState("global")
	inner := NewState("inner")
	h := NewHost(global)

	var seen modinfo.ExecutionScope
	err := h.WithCurrent(inner, func() error {
		seen = h.Current()
		return nil
	})
	if err != nil {
		t.Fatalf("WithCurrent() error = %v", err)
	}
	if seen != inner {
		t.Error("scope inside fn should be the swapped-in scope")
	}
	if h.Current() != global {
		t.Error("previous scope should be restored")
	}
}

func TestHost_WithCurrentRestoresOnError(t *testing.T) {
	t.Parallel()

	global := NewState("global")
	h := NewHost(global)
	boom := errors.New("boom")

	err := h.WithCurrent(NewState("inner"), func() error { return boom })
	if !errors.Is(err, boom) {
		t.Errorf("WithCurrent() error = %v, want boom", err)
	}
	if h.Current() != global {
		t.Error("previous scope should be restored after an error")
	}
}

func TestHost_WithCurrentRestoresOnPanic(t *testing.T) {
	t.Parallel()

	global := NewState("global")
	h := NewHost(global)

	func() {
		defer func() {
			if recover() == nil {
				t.Error("panic should propagate")
			}
		}()
		_ = h.WithCurrent(NewState("inner"), func() error { panic("nested resolution failed") })
	}()

	if h.Current() != global {
		t.Error("previous scope should be restored after a panic")
	}
	// The lock must have been released as well.
	if err := h.WithCurrent(nil, func() error { return nil }); err != nil {
		t.Errorf("WithCurrent() after panic error = %v", err)
	}
}

func TestHost_SwapsAreExclusive(t *testing.T) {
	t.Parallel()

	h := NewHost(nil)
	var g errgroup.Group
	for range 16 {
		scope := NewState("s")
		g.Go(func() error {
			return h.WithCurrent(scope, func() error {
				if h.Current() != scope {
					return errors.New("another caller swapped the scope mid-call")
				}
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if h.Current() != nil {
		t.Error("host should end with its initial scope")
	}
}

func TestModuleInvokeUsesHost(t *testing.T) {
	t.Parallel()

	state := NewState("mod.cue")
	m := modinfo.New("/mods/mod.cue", modinfo.WithScope(state))
	h := NewHost(nil)

	err := m.Invoke(h, func(scope modinfo.ExecutionScope) error {
		if h.Current() != state || scope != state {
			return errors.New("module scope should be current during Invoke")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if h.Current() != nil {
		t.Error("Invoke should restore the previous scope")
	}

	binary := modinfo.New("/mods/bin.dll", modinfo.WithKind(modinfo.KindCompiled))
	err = binary.Invoke(h, func(modinfo.ExecutionScope) error { return nil })
	if !errors.Is(err, modinfo.ErrNoBoundScope) {
		t.Errorf("Invoke() on a binary module error = %v, want ErrNoBoundScope", err)
	}
}

func TestEvaluateShell_Context(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := modinfo.New("/mods/loop.sh")
	if _, err := EvaluateShell(ctx, m, []byte("while true; do :; done\n")); err == nil {
		t.Error("evaluation under a cancelled context should fail")
	}
}
