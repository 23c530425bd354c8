package core

import (
	"fmt"
	"sort"
)

// The test registry mirrors a small HPC package universe: an mpileaks
// tool chain over a virtual mpi interface with several providers.

type mockRegistry struct {
	decls map[string]PackageDecl
}

func (m *mockRegistry) Get(name string) (PackageDecl, error) {
	decl, ok := m.decls[name]
	if !ok {
		return PackageDecl{}, &UnknownPackageError{Name: name}
	}
	return decl, nil
}

func (m *mockRegistry) Exists(name string) bool {
	_, ok := m.decls[name]
	return ok
}

func (m *mockRegistry) ProvidersFor(vspec *Spec) ([]*Spec, error) {
	names := make([]string, 0, len(m.decls))
	for name := range m.decls {
		names = append(names, name)
	}
	sort.Strings(names)
	candidates := make([]*Spec, 0, len(names))
	for _, name := range names {
		candidate := newSpecNode(name)
		candidate.Versions = NewVersionList(m.decls[name].Versions...)
		candidates = append(candidates, candidate)
	}
	return NewProviderIndex(m, candidates, true).ProvidersFor(vspec), nil
}

type declSpec struct {
	name     string
	versions []string
	deps     []string
	provides [][2]string // provided spec, when condition ("" = always)
}

func buildRegistry(decls ...declSpec) *mockRegistry {
	reg := &mockRegistry{decls: map[string]PackageDecl{}}
	for _, d := range decls {
		decl := PackageDecl{Name: d.name, Dependencies: map[string]*Spec{}}
		for _, v := range d.versions {
			decl.Versions = append(decl.Versions, NewVersion(v))
		}
		for _, dep := range d.deps {
			spec, err := ParseOne(dep)
			if err != nil {
				panic(fmt.Sprintf("bad dependency %q: %v", dep, err))
			}
			decl.Dependencies[spec.Name] = spec
		}
		for _, p := range d.provides {
			provided, err := ParseOne(p[0])
			if err != nil {
				panic(fmt.Sprintf("bad provide %q: %v", p[0], err))
			}
			clause := ProvideClause{Provided: provided}
			if p[1] != "" {
				when, err := ParseAnonymous(p[1], d.name)
				if err != nil {
					panic(fmt.Sprintf("bad when %q: %v", p[1], err))
				}
				clause.When = when
			}
			decl.Provides = append(decl.Provides, clause)
		}
		reg.decls[d.name] = decl
	}
	return reg
}

func testRegistry() *mockRegistry {
	return buildRegistry(
		declSpec{name: "libelf", versions: []string{"0.8.10", "0.8.12", "0.8.13"}},
		declSpec{name: "libdwarf", versions: []string{"20111030", "20130207", "20130729"},
			deps: []string{"libelf"}},
		declSpec{name: "dyninst", versions: []string{"7.0", "7.0.1", "8.1.1"},
			deps: []string{"libelf", "libdwarf"}},
		declSpec{name: "callpath", versions: []string{"0.8", "0.9", "1.0"},
			deps: []string{"dyninst", "mpi"}},
		declSpec{name: "mpileaks", versions: []string{"1.0", "2.1", "2.2", "2.3"},
			deps: []string{"mpi", "callpath"}},
		declSpec{name: "mpich", versions: []string{"3.0.3", "3.0.4"},
			provides: [][2]string{{"mpi@:3", ""}}},
		declSpec{name: "mpich2", versions: []string{"1.0", "1.1", "1.2", "1.3", "1.4", "1.5"},
			provides: [][2]string{
				{"mpi@:2.0", ""},
				{"mpi@:2.1", "@1.1:"},
				{"mpi@:2.2", "@1.2:"},
			}},
		declSpec{name: "zmpi", versions: []string{"1.0"},
			deps:     []string{"fake"},
			provides: [][2]string{{"mpi@:10.0", ""}}},
		declSpec{name: "fake", versions: []string{"1.0"}},
	)
}

type mockCompilers struct{}

func (mockCompilers) Supported(name string) bool {
	switch name {
	case "gcc", "intel", "clang", "pgi":
		return true
	}
	return false
}

// mockConcretizer is a deterministic pick-max policy: highest declared
// version in range, gcc at a fixed version, a fixed architecture, and
// the alphabetically first provider.
type mockConcretizer struct {
	reg *mockRegistry
}

func (c mockConcretizer) ConcretizeArchitecture(s *Spec) error {
	if s.Architecture != "" {
		return nil
	}
	if root := s.Root(); root.Architecture != "" {
		s.Architecture = root.Architecture
		return nil
	}
	s.Architecture = "test64"
	return nil
}

func (c mockConcretizer) ConcretizeCompiler(s *Spec) error {
	if s.Compiler != nil && s.Compiler.Concrete() {
		return nil
	}
	if s.Compiler == nil {
		if root := s.Root(); root.Compiler != nil {
			s.Compiler = root.Compiler.Copy()
		} else {
			s.Compiler = NewCompiler("gcc")
			s.Compiler.Versions = NewVersionList(NewVersion("4.5.0"))
		}
	}
	if !s.Compiler.Concrete() {
		known := map[string][]string{
			"gcc":   {"4.5.0", "4.7.2"},
			"intel": {"12.1", "13.0"},
			"clang": {"3.3"},
			"pgi":   {"13.2"},
		}
		for i := len(known[s.Compiler.Name]) - 1; i >= 0; i-- {
			v := NewVersion(known[s.Compiler.Name][i])
			if s.Compiler.Versions.Contains(v) {
				s.Compiler.Versions = NewVersionList(v)
				return nil
			}
		}
		return fmt.Errorf("no known version for compiler %s", s.Compiler.Name)
	}
	return nil
}

func (c mockConcretizer) ConcretizeVersion(s *Spec) error {
	if s.Versions.Concrete() {
		return nil
	}
	decl, err := c.reg.Get(s.Name)
	if err != nil {
		return err
	}
	sorted := append([]Version(nil), decl.Versions...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })
	for i := len(sorted) - 1; i >= 0; i-- {
		if s.Versions.Contains(sorted[i]) {
			s.Versions = NewVersionList(sorted[i])
			return nil
		}
	}
	return fmt.Errorf("no declared version of %s satisfies %s", s.Name, s.Versions)
}

func (c mockConcretizer) ChooseProvider(vspec *Spec, providers []*Spec) (*Spec, error) {
	if len(providers) == 0 {
		return nil, &NoProviderError{VPkg: vspec.Name}
	}
	return providers[0], nil
}

func testResolver() (*Resolver, *mockRegistry) {
	reg := testRegistry()
	return NewResolver(reg, mockCompilers{}, mockConcretizer{reg: reg}), reg
}

func mustParse(input string) *Spec {
	spec, err := ParseOne(input)
	if err != nil {
		panic(err)
	}
	return spec
}
