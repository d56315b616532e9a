// SPDX-License-Identifier: MPL-2.0

package modsource

import (
	"fmt"
	"os"
	"sync"
	"time"

	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/parser"

	"github.com/invowk/modsurface/internal/cueutil"
)

type (
	// SyntaxTree is a parsed CUE module source.
	SyntaxTree struct {
		// Filename is the name the source was parsed under.
		Filename string
		// File is the root of the syntax tree.
		File *ast.File
	}

	// Parser parses CUE sources from disk and memoizes the trees by path.
	// A cached tree is reused while the file's size and modification time are
	// unchanged. Parser is safe for concurrent use.
	Parser struct {
		mu    sync.Mutex
		trees map[string]cachedTree
		// parses counts actual parser invocations (cache misses).
		parses int
	}

	cachedTree struct {
		tree    *SyntaxTree
		size    int64
		modTime time.Time
	}
)

// NewParser creates a Parser with an empty cache.
func NewParser() *Parser {
	return &Parser{trees: make(map[string]cachedTree)}
}

// Parse parses src as a CUE file named filename.
func Parse(filename string, src []byte) (*SyntaxTree, error) {
	if err := cueutil.CheckFileSize(src, cueutil.DefaultMaxFileSize, filename); err != nil {
		return nil, err
	}
	f, err := parser.ParseFile(filename, src, parser.ParseComments)
	if err != nil {
		return nil, cueutil.FormatError(err, filename)
	}
	return &SyntaxTree{Filename: filename, File: f}, nil
}

// ParseFile parses the CUE file at path, returning a cached tree when the file
// has not changed since it was last parsed.
func (p *Parser) ParseFile(path string) (*SyntaxTree, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat module source: %w", err)
	}

	p.mu.Lock()
	cached, ok := p.trees[path]
	p.mu.Unlock()
	if ok && cached.size == info.Size() && cached.modTime.Equal(info.ModTime()) {
		return cached.tree, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read module source: %w", err)
	}
	tree, err := Parse(path, data)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.trees[path] = cachedTree{tree: tree, size: info.Size(), modTime: info.ModTime()}
	p.parses++
	p.mu.Unlock()
	return tree, nil
}

// Forget drops the cached tree for path.
func (p *Parser) Forget(path string) {
	p.mu.Lock()
	delete(p.trees, path)
	p.mu.Unlock()
}

// Parses returns how many times the parser actually parsed a file.
func (p *Parser) Parses() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.parses
}

// FindAll returns the nodes for which pred is true, in source order. Without
// searchNested only the top-level declarations of the file are examined;
// otherwise the whole tree is walked.
func (t *SyntaxTree) FindAll(pred func(ast.Node) bool, searchNested bool) []ast.Node {
	var found []ast.Node
	if t == nil || t.File == nil {
		return found
	}
	if !searchNested {
		for _, decl := range t.File.Decls {
			if pred(decl) {
				found = append(found, decl)
			}
		}
		return found
	}
	ast.Walk(t.File, func(n ast.Node) bool {
		if pred(n) {
			found = append(found, n)
		}
		return true
	}, nil)
	return found
}
