package adapters

import (
	"context"
	"fmt"
	"os"
	"sort"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"stratum/internal/core"
	"stratum/internal/types"
)

// RegistryAdapter is the package registry backed by a YAML registry
// file. Declarations are parsed once at load time; lookups after that
// are map reads.
type RegistryAdapter struct {
	decls map[string]core.PackageDecl
}

// NewRegistryAdapter loads and parses a registry file.
func NewRegistryAdapter(ctx context.Context, path string) (*RegistryAdapter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("registry file not found").
			WithCause(err)
	}
	var file types.RegistryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse registry yaml").
			WithCause(err)
	}
	return NewRegistryFromFile(ctx, file)
}

// NewRegistryFromFile builds the registry from an already unmarshalled
// registry file.
func NewRegistryFromFile(ctx context.Context, file types.RegistryFile) (*RegistryAdapter, error) {
	adapter := &RegistryAdapter{decls: map[string]core.PackageDecl{}}
	for name, entry := range file.Packages {
		assert.NotEmpty(ctx, name, "package name must not be empty")
		decl, err := parseEntry(name, entry)
		if err != nil {
			return nil, err
		}
		if err := decl.ValidateDependencies(); err != nil {
			return nil, err
		}
		adapter.decls[name] = decl
	}
	return adapter, nil
}

func parseEntry(name string, entry types.PackageEntry) (core.PackageDecl, error) {
	decl := core.PackageDecl{Name: name, Dependencies: map[string]*core.Spec{}}
	if len(entry.Versions) == 0 {
		return decl, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("package %s declares no versions", name))
	}
	for _, v := range entry.Versions {
		decl.Versions = append(decl.Versions, core.NewVersion(v))
	}
	for _, raw := range entry.Dependencies {
		dep, err := core.ParseOne(raw)
		if err != nil {
			return decl, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("package %s: bad dependency %q", name, raw)).
				WithCause(err)
		}
		if _, ok := decl.Dependencies[dep.Name]; ok {
			return decl, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("package %s declares dependency %s twice", name, dep.Name))
		}
		decl.Dependencies[dep.Name] = dep
	}
	for _, p := range entry.Provides {
		provided, err := core.ParseOne(p.Spec)
		if err != nil {
			return decl, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("package %s: bad provide spec %q", name, p.Spec)).
				WithCause(err)
		}
		clause := core.ProvideClause{Provided: provided}
		if p.When != "" {
			when, err := core.ParseAnonymous(p.When, name)
			if err != nil {
				return decl, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("package %s: bad when clause %q", name, p.When)).
					WithCause(err)
			}
			clause.When = when
		}
		decl.Provides = append(decl.Provides, clause)
	}
	return decl, nil
}

// Get returns the declaration for a package name.
func (r *RegistryAdapter) Get(name string) (core.PackageDecl, error) {
	decl, ok := r.decls[name]
	if !ok {
		return core.PackageDecl{}, &core.UnknownPackageError{Name: name}
	}
	return decl, nil
}

// Exists reports whether the package is registered.
func (r *RegistryAdapter) Exists(name string) bool {
	_, ok := r.decls[name]
	return ok
}

// Names returns every registered package name, sorted.
func (r *RegistryAdapter) Names() []string {
	names := make([]string, 0, len(r.decls))
	for name := range r.decls {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ProvidersFor searches every registered package for providers of the
// virtual spec. Each candidate carries its declared version list so
// that conditional provide clauses apply exactly where the declaration
// says they do.
func (r *RegistryAdapter) ProvidersFor(vspec *core.Spec) ([]*core.Spec, error) {
	candidates := make([]*core.Spec, 0, len(r.decls))
	for _, name := range r.Names() {
		candidate, err := core.ParseOne(name)
		if err != nil {
			return nil, err
		}
		candidate.Versions = core.NewVersionList(r.decls[name].Versions...)
		candidates = append(candidates, candidate)
	}
	return core.NewProviderIndex(r, candidates, true).ProvidersFor(vspec), nil
}
