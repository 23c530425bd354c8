package policies

import (
	"fmt"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"stratum/internal/core"
	"stratum/internal/ports"
)

// DefaultConcretizer is the stock concretization policy: highest allowed
// version, the platform default compiler, the host architecture, and the
// first provider in name order. It is deliberately dumb; anything
// smarter plugs in behind the same four methods without touching the
// spec core.
type DefaultConcretizer struct {
	Registry     core.Registry
	Compilers    ports.CompilersPort
	Architecture string
}

// NewDefaultConcretizer builds the policy around a registry, a compiler
// registry, and the architecture concretization should default to.
func NewDefaultConcretizer(reg core.Registry, compilers ports.CompilersPort, arch string) DefaultConcretizer {
	return DefaultConcretizer{Registry: reg, Compilers: compilers, Architecture: arch}
}

// ConcretizeArchitecture pins the architecture: keep an explicit choice,
// inherit the root's, or fall back to the configured default.
func (c DefaultConcretizer) ConcretizeArchitecture(s *core.Spec) error {
	if s.Architecture != "" {
		return nil
	}
	if root := s.Root(); root.Architecture != "" {
		s.Architecture = root.Architecture
		return nil
	}
	s.Architecture = c.Architecture
	return nil
}

// ConcretizeCompiler pins the compiler: keep a concrete choice, inherit
// the root's constraint, default otherwise, then pick the newest
// available version inside the remaining range.
func (c DefaultConcretizer) ConcretizeCompiler(s *core.Spec) error {
	if s.Compiler != nil && s.Compiler.Concrete() {
		return nil
	}
	if s.Compiler == nil {
		if root := s.Root(); root.Compiler != nil {
			s.Compiler = root.Compiler.Copy()
		} else {
			s.Compiler = c.Compilers.Default()
		}
	}
	if s.Compiler.Concrete() {
		return nil
	}
	available := c.Compilers.VersionsFor(s.Compiler.Name)
	for i := len(available) - 1; i >= 0; i-- {
		if s.Compiler.Versions.Contains(available[i]) {
			s.Compiler.Versions = core.NewVersionList(available[i])
			return nil
		}
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("no available version of compiler %s satisfies %s", s.Compiler.Name, s.Compiler.Versions))
}

// ConcretizeVersion pins the package version to the highest declared
// version inside the spec's allowed set.
func (c DefaultConcretizer) ConcretizeVersion(s *core.Spec) error {
	if s.Versions.Concrete() {
		return nil
	}
	decl, err := c.Registry.Get(s.Name)
	if err != nil {
		return err
	}
	declared := append([]core.Version(nil), decl.Versions...)
	sort.Slice(declared, func(i, j int) bool { return declared[i].LessThan(declared[j]) })
	for i := len(declared) - 1; i >= 0; i-- {
		if s.Versions.Contains(declared[i]) {
			s.Versions = core.NewVersionList(declared[i])
			return nil
		}
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("no declared version of %s satisfies %s", s.Name, s.Versions))
}

// ChooseProvider picks deterministically among the providers of a
// virtual package: the first in name order.
func (c DefaultConcretizer) ChooseProvider(vspec *core.Spec, providers []*core.Spec) (*core.Spec, error) {
	if len(providers) == 0 {
		return nil, &core.NoProviderError{VPkg: vspec.Name}
	}
	sorted := append([]*core.Spec(nil), providers...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return sorted[0], nil
}
