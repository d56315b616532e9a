// SPDX-License-Identifier: MPL-2.0

package modcache

import (
	"fmt"
	"testing"

	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestPathCache_AddWithoutForceKeepsFirst(t *testing.T) {
	t.Parallel()

	c := New()
	if !c.Add("Foo", "p1", false) {
		t.Error("first Add should change the cache")
	}
	if c.Add("Foo", "p2", false) {
		t.Error("second Add without force should not change the cache")
	}
	if got := c.Lookup("Foo"); got != "p1" {
		t.Errorf("Lookup(Foo) = %q, want p1", got)
	}

	if !c.Add("Foo", "p2", true) {
		t.Error("forced Add should change the cache")
	}
	if got := c.Lookup("Foo"); got != "p2" {
		t.Errorf("Lookup(Foo) after force = %q, want p2", got)
	}
}

func TestPathCache_LookupMissing(t *testing.T) {
	t.Parallel()

	if got := New().Lookup("Bar"); got != "" {
		t.Errorf("Lookup(Bar) on empty cache = %q, want empty string", got)
	}
}

func TestPathCache_CaseInsensitive(t *testing.T) {
	t.Parallel()

	c := New()
	c.Add("MyModule", "/mods/MyModule.mod.cue", false)

	tests := []string{"MyModule", "mymodule", "MYMODULE"}
	for _, name := range tests {
		if got := c.Lookup(name); got != "/mods/MyModule.mod.cue" {
			t.Errorf("Lookup(%q) = %q, want the cached path", name, got)
		}
	}
	if c.Add("MYMODULE", "/other", false) {
		t.Error("Add under a differently cased name should not overwrite without force")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestPathCache_RemoveAndClear(t *testing.T) {
	t.Parallel()

	c := New()
	c.Add("a", "/a", false)
	c.Add("b", "/b", false)

	if !c.Remove("A") {
		t.Error("Remove(A) should report the removed entry")
	}
	if c.Remove("a") {
		t.Error("second Remove should report nothing removed")
	}
	if got := c.Lookup("a"); got != "" {
		t.Errorf("Lookup(a) after Remove = %q, want empty", got)
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
	if got := c.Lookup("b"); got != "" {
		t.Errorf("Lookup(b) after Clear = %q, want empty", got)
	}
}

func TestPathCache_Snapshot(t *testing.T) {
	t.Parallel()

	c := New()
	c.Add("Alpha", "/alpha", false)
	c.Add("alpha", "/ignored", false)

	snap := c.Snapshot()
	if len(snap) != 1 || snap["Alpha"] != "/alpha" {
		t.Errorf("Snapshot() = %v, want map[Alpha:/alpha]", snap)
	}

	snap["Alpha"] = "/mutated"
	if got := c.Lookup("Alpha"); got != "/alpha" {
		t.Errorf("mutating the snapshot changed the cache: %q", got)
	}
}

func TestPathCache_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	const (
		writers = 8
		names   = 50
	)

	c := New()
	var g errgroup.Group
	for w := range writers {
		g.Go(func() error {
			for i := range names {
				name := fmt.Sprintf("Mod%d", i)
				c.Add(name, fmt.Sprintf("/w%d/%s", w, name), false)
				if got := c.Lookup(name); got == "" {
					return fmt.Errorf("Lookup(%s) returned empty after Add", name)
				}
			}
			return nil
		})
		g.Go(func() error {
			for i := range names {
				c.Lookup(fmt.Sprintf("mod%d", i))
				_ = c.Len()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	if got := c.Len(); got != names {
		t.Fatalf("Len() = %d, want %d", got, names)
	}
	// Every entry must be one writer's complete value, never a mix.
	for i := range names {
		name := fmt.Sprintf("Mod%d", i)
		got := c.Lookup(name)
		valid := false
		for w := range writers {
			if got == fmt.Sprintf("/w%d/%s", w, name) {
				valid = true
				break
			}
		}
		if !valid {
			t.Errorf("Lookup(%s) = %q, not written by any writer", name, got)
		}
	}
}

func TestPathCache_ConcurrentForceAndRemove(t *testing.T) {
	t.Parallel()

	c := New()
	var g errgroup.Group
	for w := range 4 {
		g.Go(func() error {
			for range 100 {
				c.Add("shared", fmt.Sprintf("/w%d", w), true)
				c.Remove("shared")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}
