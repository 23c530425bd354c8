package core

import (
	"fmt"
	"strings"
)

// The spec subsystem reports failures through a closed set of typed
// errors. Callers match them with errors.As; the CLI maps each kind to an
// exit code. Satisfies never errors, it just returns false.

// ParseError reports malformed spec syntax.
type ParseError struct {
	Msg   string
	Input string
	Pos   int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s in %q at position %d", e.Msg, e.Input, e.Pos)
}

// DuplicateDependencyError reports the same dependency occurring in a
// spec twice.
type DuplicateDependencyError struct {
	Name string
}

func (e *DuplicateDependencyError) Error() string {
	return fmt.Sprintf("cannot depend on %q twice", e.Name)
}

// DuplicateVariantError reports the same variant occurring in a spec
// twice.
type DuplicateVariantError struct {
	Name string
}

func (e *DuplicateVariantError) Error() string {
	return fmt.Sprintf("cannot specify variant %q twice", e.Name)
}

// DuplicateCompilerError reports two compiler clauses in one spec.
type DuplicateCompilerError struct {
	Spec string
}

func (e *DuplicateCompilerError) Error() string {
	return fmt.Sprintf("spec for %q cannot have two compilers", e.Spec)
}

// DuplicateArchitectureError reports two architecture clauses in one spec.
type DuplicateArchitectureError struct {
	Spec string
}

func (e *DuplicateArchitectureError) Error() string {
	return fmt.Sprintf("spec for %q cannot have two architectures", e.Spec)
}

// UnknownPackageError reports a package name missing from the registry.
type UnknownPackageError struct {
	Name string
}

func (e *UnknownPackageError) Error() string {
	return fmt.Sprintf("unknown package: %s", e.Name)
}

// UnknownCompilerError reports a compiler name the installation does not
// support.
type UnknownCompilerError struct {
	Name string
}

func (e *UnknownCompilerError) Error() string {
	return fmt.Sprintf("unknown compiler: %s", e.Name)
}

// InvalidDependencyError reports user-supplied dependencies that the
// package does not actually declare.
type InvalidDependencyError struct {
	Package string
	Extra   []string
}

func (e *InvalidDependencyError) Error() string {
	return fmt.Sprintf("%s does not depend on %s", e.Package, commaOr(e.Extra))
}

// InconsistentSpecError reports two nodes of the same DAG carrying
// conflicting constraints, or a back-edge making the DAG cyclic. Users
// cannot normally produce this; it indicates an internal inconsistency.
type InconsistentSpecError struct {
	Msg string
}

func (e *InconsistentSpecError) Error() string {
	return "invalid spec DAG: " + e.Msg
}

// NoProviderError reports a virtual package with no provider.
type NoProviderError struct {
	VPkg string
}

func (e *NoProviderError) Error() string {
	return fmt.Sprintf("no providers found for virtual package %q", e.VPkg)
}

// MultipleProviderError reports a virtual package with more than one
// provider in the same spec.
type MultipleProviderError struct {
	VPkg      string
	Providers []string
}

func (e *MultipleProviderError) Error() string {
	return fmt.Sprintf("multiple providers found for %q: %s",
		e.VPkg, strings.Join(e.Providers, ", "))
}

// UnsatisfiableSpecError is the common shape of every failed constraint
// intersection: the provided constraint, the required one, and which
// field they disagreed on.
type UnsatisfiableSpecError struct {
	Provided       string
	Required       string
	ConstraintType string
}

func (e *UnsatisfiableSpecError) Error() string {
	return fmt.Sprintf("%s does not satisfy %s", e.Provided, e.Required)
}

// The Unsatisfiable* kinds below are distinct types so that callers can
// match a particular field conflict with errors.As.

type UnsatisfiableSpecNameError struct{ UnsatisfiableSpecError }

type UnsatisfiableVersionSpecError struct{ UnsatisfiableSpecError }

type UnsatisfiableVariantSpecError struct{ UnsatisfiableSpecError }

type UnsatisfiableCompilerSpecError struct{ UnsatisfiableSpecError }

type UnsatisfiableArchitectureSpecError struct{ UnsatisfiableSpecError }

type UnsatisfiableProviderSpecError struct{ UnsatisfiableSpecError }

type UnsatisfiableDependencySpecError struct{ UnsatisfiableSpecError }

func newUnsatisfiableName(provided, required string) error {
	return &UnsatisfiableSpecNameError{UnsatisfiableSpecError{provided, required, "name"}}
}

func newUnsatisfiableVersion(provided, required string) error {
	return &UnsatisfiableVersionSpecError{UnsatisfiableSpecError{provided, required, "version"}}
}

func newUnsatisfiableVariant(provided, required string) error {
	return &UnsatisfiableVariantSpecError{UnsatisfiableSpecError{provided, required, "variant"}}
}

func newUnsatisfiableCompiler(provided, required string) error {
	return &UnsatisfiableCompilerSpecError{UnsatisfiableSpecError{provided, required, "compiler"}}
}

func newUnsatisfiableArchitecture(provided, required string) error {
	return &UnsatisfiableArchitectureSpecError{UnsatisfiableSpecError{provided, required, "architecture"}}
}

func newUnsatisfiableProvider(provided, required string) error {
	return &UnsatisfiableProviderSpecError{UnsatisfiableSpecError{provided, required, "provider"}}
}

func newUnsatisfiableDependency(provided, required string) error {
	return &UnsatisfiableDependencySpecError{UnsatisfiableSpecError{provided, required, "dependency"}}
}

// commaOr joins names as "a, b, or c" for error messages.
func commaOr(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " or " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", or " + names[len(names)-1]
	}
}
