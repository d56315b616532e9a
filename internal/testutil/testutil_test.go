// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAndRewrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := WriteFile(t, dir, filepath.Join("nested", "mod.cue"), "a: 1\n")
	if path != filepath.Join(dir, "nested", "mod.cue") {
		t.Errorf("WriteFile() = %q", path)
	}
	before, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	Rewrite(t, path, "a: 2\n")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "a: 2\n" {
		t.Errorf("content = %q, want the rewritten content", data)
	}
	after, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if !after.ModTime().After(before.ModTime()) {
		t.Error("Rewrite() should move the modification time forward")
	}

	MustRemove(t, path)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file still present after MustRemove: %v", err)
	}
}
