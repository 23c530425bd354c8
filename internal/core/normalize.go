package core

import (
	"errors"
	"fmt"
	"sort"
)

// Resolver binds the spec core to a package registry, the supported
// compilers, and a concretization policy. Normalize and Concretize
// mutate the spec they are given; the -ed variants work on a copy.
type Resolver struct {
	Registry    Registry
	Compilers   CompilerRegistry
	Concretizer Concretizer
}

// NewResolver creates a resolver over the given collaborators.
func NewResolver(reg Registry, compilers CompilerRegistry, concretizer Concretizer) *Resolver {
	return &Resolver{Registry: reg, Compilers: compilers, Concretizer: concretizer}
}

// ValidateNames checks that every package and compiler mentioned in the
// DAG is real. Virtual names are exempt; they are resolved later.
func (r *Resolver) ValidateNames(s *Spec) error {
	for _, entry := range s.Traverse(TraverseOptions{}) {
		node := entry.Node
		if !node.Virtual(r.Registry) {
			if _, err := r.Registry.Get(node.Name); err != nil {
				return err
			}
		}
		if node.Compiler != nil && !r.Compilers.Supported(node.Compiler.Name) {
			return &UnknownCompilerError{Name: node.Compiler.Name}
		}
	}
	return nil
}

// flatDependencies collects every node of the DAG into a flat map keyed
// by name, merging constraints for nodes that share a name. The parser
// hangs all user deps off the root, so a conflict here means the DAG
// itself is inconsistent, not the user input.
func (r *Resolver) flatDependencies(s *Spec) (DependencyMap, error) {
	if !s.Virtual(r.Registry) {
		decl, err := r.Registry.Get(s.Name)
		if err != nil {
			return nil, err
		}
		if err := decl.ValidateDependencies(); err != nil {
			return nil, err
		}
	}

	flat := DependencyMap{}
	for _, entry := range s.Traverse(TraverseOptions{}) {
		node := entry.Node
		existing, ok := flat[node.Name]
		if !ok {
			flat[node.Name] = node.CopyNode()
			continue
		}
		if err := existing.ConstrainNode(node); err != nil {
			if isUnsatisfiable(err) {
				return nil, &InconsistentSpecError{Msg: err.Error()}
			}
			return nil, err
		}
	}
	return flat, nil
}

// isUnsatisfiable reports whether err is any member of the
// Unsatisfiable* family.
func isUnsatisfiable(err error) bool {
	targets := []any{
		&UnsatisfiableSpecNameError{},
		&UnsatisfiableVersionSpecError{},
		&UnsatisfiableVariantSpecError{},
		&UnsatisfiableCompilerSpecError{},
		&UnsatisfiableArchitectureSpecError{},
		&UnsatisfiableProviderSpecError{},
		&UnsatisfiableDependencySpecError{},
	}
	for _, target := range targets {
		if errors.As(err, target) {
			return true
		}
	}
	return false
}

// Normalize expands a partial spec into the DAG its package declarations
// require. Afterwards every declared dependency of every reachable
// package is present, each name appears exactly once, every constraint
// placed anywhere on a name is merged into its node, and every virtual
// with a provider in the spec has been replaced by it.
func (r *Resolver) Normalize(s *Spec) error {
	if err := r.ValidateNames(s); err != nil {
		return err
	}

	flat, err := r.flatDependencies(s)
	if err != nil {
		return err
	}
	for name := range s.Dependencies {
		s.removeDependency(name)
	}

	candidates := make([]*Spec, 0, len(flat))
	for _, name := range sortedKeys(flat) {
		candidates = append(candidates, flat[name])
	}
	index := NewProviderIndex(r.Registry, candidates, true)

	visited := map[string]bool{}
	if err := r.normalizeHelper(s, visited, flat, index, map[string]bool{}); err != nil {
		return err
	}

	// Deps the user supplied but the walk never reached are not real
	// dependencies of this package, unless they provide a virtual the
	// package needs.
	var extra []string
	for name := range flat {
		if !visited[name] {
			extra = append(extra, name)
		}
	}
	if len(extra) > 0 && !s.Virtual(r.Registry) {
		decl, err := r.Registry.Get(s.Name)
		if err != nil {
			return err
		}
		providers := index.ProvidersFor(decl.VirtualDependencies(r.Registry)...)
		provided := map[string]bool{}
		for _, p := range providers {
			provided[p.Name] = true
		}
		kept := extra[:0]
		for _, name := range extra {
			if !provided[name] {
				kept = append(kept, name)
			}
		}
		extra = kept
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return &InvalidDependencyError{Package: s.Name, Extra: extra}
	}
	return nil
}

// Normalized returns a normalized copy, leaving the receiver alone.
func (r *Resolver) Normalized(s *Spec) (*Spec, error) {
	clone := s.Copy()
	if err := r.Normalize(clone); err != nil {
		return nil, err
	}
	return clone, nil
}

func (r *Resolver) normalizeHelper(cur *Spec, visited map[string]bool, flat DependencyMap, index *ProviderIndex, onPath map[string]bool) error {
	if visited[cur.Name] {
		return nil
	}
	visited[cur.Name] = true

	// Nothing more to normalize below a virtual node; concretization
	// finishes resolving it.
	if cur.Virtual(r.Registry) {
		return nil
	}
	onPath[cur.Name] = true
	defer delete(onPath, cur.Name)

	decl, err := r.Registry.Get(cur.Name)
	if err != nil {
		return err
	}

	for _, declName := range sortedKeys(decl.Dependencies) {
		// Work on a copy so the registry's declaration specs are never
		// wired into, or constrained by, a user's DAG.
		pkgDep := decl.Dependencies[declName].Copy()
		name := declName

		if pkgDep.Virtual(r.Registry) {
			providers := index.ProvidersFor(pkgDep)
			switch {
			case len(providers) > 1:
				return multipleProviderError(pkgDep, providers)
			case len(providers) == 1:
				// Use the provider instead of the virtual package.
				pkgDep = providers[0]
				name = pkgDep.Name
			default:
				// The user may have required something insufficient
				// for the package: mpi@:1.1 against a package that
				// needs mpi@2.1:.
				required := index.ProvidersForName(pkgDep.Name)
				if len(required) > 1 {
					return multipleProviderError(pkgDep, required)
				}
				if len(required) == 1 {
					return newUnsatisfiableProvider(required[0].String(), pkgDep.String())
				}
			}
		} else {
			// A real dependency may provide a virtual the spec already
			// requires; splice it in if so.
			depIndex := NewProviderIndex(r.Registry, []*Spec{pkgDep}, true)
			for _, vname := range sortedKeys(flat) {
				vspec, ok := flat[vname]
				if !ok || !vspec.Virtual(r.Registry) {
					continue
				}
				if len(depIndex.ProvidersFor(vspec)) > 0 {
					if err := vspec.replaceWith(pkgDep); err != nil {
						return err
					}
					delete(flat, vname)
				} else if len(depIndex.ProvidersForName(vspec.Name)) > 0 {
					required := depIndex.ProvidersForName(vspec.Name)
					return newUnsatisfiableProvider(required[0].String(), pkgDep.String())
				}
			}
			index.Update(pkgDep)
		}

		if _, ok := flat[name]; !ok {
			// The spec doesn't mention this dependency; clone it from
			// the package declaration.
			flat[name] = pkgDep.CopyNode()
		}
		if err := flat[name].ConstrainNode(pkgDep); err != nil {
			return fmt.Errorf("invalid spec %q: package %s requires %s, spec asked for %s: %w",
				flat[name], cur.Name, pkgDep, flat[name], err)
		}

		dependency := flat[name]
		if onPath[dependency.Name] {
			return &InconsistentSpecError{
				Msg: fmt.Sprintf("dependency cycle through %s", dependency.Name),
			}
		}
		if _, attached := cur.Dependencies[dependency.Name]; !attached {
			if err := cur.AddDependency(dependency); err != nil {
				return err
			}
		}
		if err := r.normalizeHelper(dependency, visited, flat, index, onPath); err != nil {
			return err
		}
	}
	return nil
}

// replaceWith rewires every dependent of this virtual spec to point at
// the concrete provider instead.
func (s *Spec) replaceWith(concrete *Spec) error {
	for _, parentName := range sortedKeys(s.Dependents) {
		parent := s.Dependents[parentName]
		parent.removeDependency(s.Name)
		if _, ok := parent.Dependencies[concrete.Name]; ok {
			continue
		}
		if err := parent.AddDependency(concrete); err != nil {
			return err
		}
	}
	return nil
}

func multipleProviderError(vpkg *Spec, providers []*Spec) error {
	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.String())
	}
	return &MultipleProviderError{VPkg: vpkg.String(), Providers: names}
}
