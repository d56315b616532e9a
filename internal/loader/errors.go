// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/invowk/modsurface/pkg/modinfo"
)

var (
	// ErrModuleNotFound is returned when a module name matches no file.
	ErrModuleNotFound = errors.New("module not found")
	// ErrNestedModuleCycle is the sentinel error wrapped by CycleError.
	ErrNestedModuleCycle = errors.New("nested module cycle")
	// ErrUnsupportedModule is returned for files without a module extension.
	ErrUnsupportedModule = errors.New("unsupported module file")
	// ErrRequirementNotMet is the sentinel error wrapped by RequirementError.
	ErrRequirementNotMet = errors.New("required module does not match its specification")
)

type (
	// CycleError reports manifests that nest each other. Chain lists the
	// module paths from the first occurrence back to itself.
	CycleError struct {
		Chain []string
	}

	// RequirementError is returned when a required module is older than the
	// requested version or carries a different GUID.
	RequirementError struct {
		Spec         modinfo.ModuleSpecification
		Found        modinfo.ModuleVersion
		GUIDMismatch bool
	}
)

// Error implements the error interface.
func (e *CycleError) Error() string {
	names := make([]string, len(e.Chain))
	for i, p := range e.Chain {
		names[i] = filepath.Base(p)
	}
	return "nested module cycle: " + strings.Join(names, " -> ")
}

// Unwrap returns ErrNestedModuleCycle for errors.Is() compatibility.
func (e *CycleError) Unwrap() error { return ErrNestedModuleCycle }

// Error implements the error interface.
func (e *RequirementError) Error() string {
	if e.GUIDMismatch {
		return fmt.Sprintf("required module %s: GUID does not match %s", e.Spec.Name, e.Spec.GUID)
	}
	return fmt.Sprintf("required module %s: version %s is older than %s", e.Spec.Name, e.Found, e.Spec.Version)
}

// Unwrap returns ErrRequirementNotMet for errors.Is() compatibility.
func (e *RequirementError) Unwrap() error { return ErrRequirementNotMet }
