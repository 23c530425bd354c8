package core

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
)

// Spec describes a particular configuration of a package: its name,
// allowed versions, variants, compiler, architecture, and dependencies.
// A spec fresh from the parser is partial; Normalize expands it into the
// full DAG the package declarations require, and Concretize pins every
// remaining degree of freedom so the spec identifies exactly one build.
type Spec struct {
	Name         string
	Versions     *VersionList
	Variants     VariantMap
	Compiler     *Compiler
	Architecture string

	// Dependencies are outgoing edges keyed by dependency name.
	// Dependents are the matching back-references: for every edge
	// A -> B, B.Dependents[A.Name] == A. Both maps are rewired
	// together on every mutation and never point outside the DAG.
	Dependencies DependencyMap
	Dependents   DependencyMap
}

// newSpecNode creates an empty node the way the parser does, with an
// unconstrained version list.
func newSpecNode(name string) *Spec {
	return &Spec{
		Name:         name,
		Versions:     AnyVersionList(),
		Variants:     VariantMap{},
		Dependencies: DependencyMap{},
		Dependents:   DependencyMap{},
	}
}

// AddDependency attaches another spec as a dependency, wiring the
// back-reference. Depending on the same name twice is an error.
func (s *Spec) AddDependency(dep *Spec) error {
	if _, ok := s.Dependencies[dep.Name]; ok {
		return &DuplicateDependencyError{Name: dep.Name}
	}
	s.Dependencies[dep.Name] = dep
	dep.Dependents[s.Name] = s
	return nil
}

// removeDependency detaches the named dependency and its back-reference.
func (s *Spec) removeDependency(name string) {
	if dep, ok := s.Dependencies[name]; ok {
		delete(dep.Dependents, s.Name)
		delete(s.Dependencies, name)
	}
}

// Root follows dependent links to the root of the DAG. Spec DAGs have a
// single root, the package being installed.
func (s *Spec) Root() *Spec {
	if len(s.Dependents) == 0 {
		return s
	}
	for _, parent := range s.Dependents {
		return parent.Root()
	}
	return s
}

// Virtual reports whether the spec names an interface rather than a
// registered package.
func (s *Spec) Virtual(reg Registry) bool {
	return !reg.Exists(s.Name)
}

// Concrete reports whether the spec describes exactly one build: it is a
// real package with a pinned version, a pinned compiler, an architecture,
// and concrete dependencies all the way down.
func (s *Spec) Concrete(reg Registry) bool {
	return !s.Virtual(reg) &&
		s.Versions.Concrete() &&
		s.Architecture != "" &&
		s.Compiler != nil && s.Compiler.Concrete() &&
		s.Dependencies.Concrete(reg)
}

// Version returns the pinned version of a concrete spec.
func (s *Spec) Version() (Version, bool) {
	return s.Versions.Single()
}

// Lookup finds the node with the given name anywhere in the DAG.
func (s *Spec) Lookup(name string) (*Spec, bool) {
	for _, entry := range s.Traverse(TraverseOptions{}) {
		if entry.Node.Name == name {
			return entry.Node, true
		}
	}
	return nil, false
}

// CopyNode returns a copy of this node alone, without dependencies.
func (s *Spec) CopyNode() *Spec {
	clone := &Spec{
		Name:         s.Name,
		Versions:     s.Versions.Copy(),
		Variants:     s.Variants.Copy(),
		Architecture: s.Architecture,
		Dependencies: DependencyMap{},
		Dependents:   DependencyMap{},
	}
	if s.Compiler != nil {
		clone.Compiler = s.Compiler.Copy()
	}
	return clone
}

// Copy returns a deep copy of the spec and its sub-DAG. Nodes shared
// along multiple paths stay shared in the copy, and back-references in
// the copy point only within the copy.
func (s *Spec) Copy() *Spec {
	return s.copyWith(map[*Spec]*Spec{})
}

func (s *Spec) copyWith(memo map[*Spec]*Spec) *Spec {
	if clone, ok := memo[s]; ok {
		return clone
	}
	clone := s.CopyNode()
	memo[s] = clone
	for _, name := range sortedKeys(s.Dependencies) {
		child := s.Dependencies[name].copyWith(memo)
		clone.Dependencies[name] = child
		child.Dependents[clone.Name] = clone
	}
	return clone
}

// overwriteWith replaces this node's identity and constraints with
// copies of other's, dependencies included, keeping dependents intact.
func (s *Spec) overwriteWith(other *Spec) {
	clone := other.Copy()
	s.Name = clone.Name
	s.Versions = clone.Versions
	s.Variants = clone.Variants
	s.Compiler = clone.Compiler
	s.Architecture = clone.Architecture
	s.Dependencies = clone.Dependencies
	for _, child := range s.Dependencies {
		delete(child.Dependents, clone.Name)
		child.Dependents[s.Name] = s
	}
}

// Equal reports semantic equality via the canonical string form.
func (s *Spec) Equal(other *Spec) bool {
	return s.String() == other.String()
}

// CoverMode controls how extensively Traverse covers the DAG.
type CoverMode string

const (
	// CoverNodes visits each node once.
	CoverNodes CoverMode = "nodes"
	// CoverEdges yields a node again when reached along a new edge but
	// does not descend into it again.
	CoverEdges CoverMode = "edges"
	// CoverPaths re-descends on every path. On a cyclic graph this does
	// not terminate; acyclicity is the caller's precondition.
	CoverPaths CoverMode = "paths"
)

// TraverseOptions parameterizes Traverse. The zero value visits every
// node once, including the root, keyed by node identity.
type TraverseOptions struct {
	Cover    CoverMode
	SkipRoot bool

	// Key tracks node identity during the traversal. It defaults to
	// pointer identity; operations that compare DAGs key by name.
	Key func(*Spec) any
}

// TraversalEntry pairs a visited node with its depth from the root.
type TraversalEntry struct {
	Depth int
	Node  *Spec
}

// Traverse walks the DAG in preorder, children in sorted-name order so
// every derived operation is deterministic.
func (s *Spec) Traverse(opts TraverseOptions) []TraversalEntry {
	if opts.Cover == "" {
		opts.Cover = CoverNodes
	}
	if opts.Key == nil {
		opts.Key = func(node *Spec) any { return node }
	}
	var out []TraversalEntry
	s.traverse(opts, map[any]bool{}, 0, &out)
	return out
}

func (s *Spec) traverse(opts TraverseOptions, visited map[any]bool, depth int, out *[]TraversalEntry) {
	key := opts.Key(s)
	yield := !opts.SkipRoot || depth > 0

	if visited[key] {
		if opts.Cover == CoverNodes {
			return
		}
		if yield {
			*out = append(*out, TraversalEntry{Depth: depth, Node: s})
		}
		if opts.Cover == CoverEdges {
			return
		}
	} else if yield {
		*out = append(*out, TraversalEntry{Depth: depth, Node: s})
	}

	visited[key] = true
	for _, name := range sortedKeys(s.Dependencies) {
		s.Dependencies[name].traverse(opts, visited, depth+1, out)
	}
}

// VirtualDependencies returns every virtual node in the DAG.
func (s *Spec) VirtualDependencies(reg Registry) []*Spec {
	var out []*Spec
	for _, entry := range s.Traverse(TraverseOptions{}) {
		if entry.Node.Virtual(reg) {
			out = append(out, entry.Node)
		}
	}
	return out
}

// DependencyMap holds a spec's dependency edges keyed by the unique
// dependency name.
type DependencyMap map[string]*Spec

// Concrete reports whether every spec in the map is concrete.
func (m DependencyMap) Concrete(reg Registry) bool {
	for _, dep := range m {
		if !dep.Concrete(reg) {
			return false
		}
	}
	return true
}

// String renders the edges in sorted-name order, each as "^" plus the
// dependency's canonical form.
func (m DependencyMap) String() string {
	out := ""
	for _, name := range sortedKeys(m) {
		out += "^" + m[name].String()
	}
	return out
}

// Fingerprint is the first 6 hex digits of the SHA-1 of the canonical
// edge string. It is the stable identity of the dependency sub-DAG.
func (m DependencyMap) Fingerprint() string {
	sum := sha1.Sum([]byte(m.String()))
	return hex.EncodeToString(sum[:])[:6]
}

func sortedKeys(m DependencyMap) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
