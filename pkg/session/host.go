// SPDX-License-Identifier: MPL-2.0

package session

import (
	"sync"
	"sync/atomic"

	"github.com/invowk/modsurface/pkg/modinfo"
)

type (
	// Host owns the current execution scope of an environment. It implements
	// modinfo.ScopeHost.
	Host struct {
		mu      sync.Mutex
		current atomic.Pointer[scopeRef]
	}

	scopeRef struct {
		scope modinfo.ExecutionScope
	}
)

var _ modinfo.ScopeHost = (*Host)(nil)

// NewHost creates a host whose current scope is global (may be nil).
func NewHost(global modinfo.ExecutionScope) *Host {
	h := &Host{}
	h.current.Store(&scopeRef{scope: global})
	return h
}

// Current returns the current scope without blocking.
func (h *Host) Current() modinfo.ExecutionScope {
	if ref := h.current.Load(); ref != nil {
		return ref.scope
	}
	return nil
}

// WithCurrent makes scope current while fn runs. Swaps are exclusive: a
// second caller waits until the first has restored the previous scope. The
// previous scope is restored even if fn panics. fn must not call WithCurrent
// on the same host.
func (h *Host) WithCurrent(scope modinfo.ExecutionScope, fn func() error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	prev := h.current.Swap(&scopeRef{scope: scope})
	defer h.current.Store(prev)

	return fn()
}
