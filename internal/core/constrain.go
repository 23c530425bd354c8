package core

// SatisfiesNode reports whether this node is a refinement of other,
// looking at the node's own fields only. A field absent on either side
// is unconstrained and passes. Dependency and provider checks are the
// business of Satisfies.
func (s *Spec) SatisfiesNode(other *Spec) bool {
	if s.Name != other.Name {
		return false
	}
	if !s.Versions.Empty() && !other.Versions.Empty() &&
		!s.Versions.Satisfies(other.Versions) {
		return false
	}
	if !s.Variants.Satisfies(other.Variants) {
		return false
	}
	if s.Compiler != nil && other.Compiler != nil &&
		!s.Compiler.Satisfies(other.Compiler) {
		return false
	}
	if s.Architecture != "" && other.Architecture != "" &&
		s.Architecture != other.Architecture {
		return false
	}
	return true
}

// compatibleNode reports whether some concrete spec could satisfy both
// nodes at once: names equal, versions overlapping, and no variant,
// compiler, or architecture conflict. Unlike SatisfiesNode it is
// symmetric; provider matching uses it because a provider's declared
// range only needs to reach the requested constraint, not lie inside
// it.
func (s *Spec) compatibleNode(other *Spec) bool {
	if s.Name != other.Name {
		return false
	}
	if !s.Versions.Empty() && !other.Versions.Empty() &&
		!s.Versions.Overlaps(other.Versions) {
		return false
	}
	for name, theirs := range other.Variants {
		if ours, ok := s.Variants[name]; ok && ours.Enabled != theirs.Enabled {
			return false
		}
	}
	if s.Compiler != nil && other.Compiler != nil &&
		!s.Compiler.Satisfies(other.Compiler) {
		return false
	}
	if s.Architecture != "" && other.Architecture != "" &&
		s.Architecture != other.Architecture {
		return false
	}
	return true
}

// Satisfies reports whether this spec is a refinement of other,
// including the dependency subgraphs and the virtual-provider
// cross-checks. The registry supplies provide declarations for the
// cross-checks.
func (s *Spec) Satisfies(other *Spec, reg Registry) bool {
	if !s.SatisfiesNode(other) {
		return false
	}
	return s.satisfiesDependencies(other, reg)
}

// satisfiesDependencies checks constraints on common dependencies
// against each other. A spec that restricts no dependencies is
// compatible with anything.
func (s *Spec) satisfiesDependencies(other *Spec, reg Registry) bool {
	if len(s.Dependencies) == 0 || len(other.Dependencies) == 0 {
		return true
	}

	for name := range s.commonDependencies(other) {
		mine, _ := s.Lookup(name)
		theirs, _ := other.Lookup(name)
		if !mine.Satisfies(theirs, reg) {
			return false
		}
	}
	return s.providersCompatible(other, reg)
}

// providersCompatible runs the virtual-provider cross-checks between two
// specs' dependency graphs.
func (s *Spec) providersCompatible(other *Spec, reg Registry) bool {
	// Virtual dependencies need a deeper look: both sides' providers
	// must be able to agree.
	selfIndex := NewProviderIndex(reg, s.traversalSpecs(), true)
	otherIndex := NewProviderIndex(reg, other.traversalSpecs(), true)
	if !selfIndex.Satisfies(otherIndex) {
		return false
	}

	// An overly restrictive virtual constraint in one spec can rule out
	// a provider present in the other, e.g. mpi@3: against mpich2.
	for _, vspec := range s.VirtualDependencies(reg) {
		if otherIndex.HasVirtual(vspec.Name) && len(otherIndex.ProvidersFor(vspec)) == 0 {
			return false
		}
	}
	for _, vspec := range other.VirtualDependencies(reg) {
		if selfIndex.HasVirtual(vspec.Name) && len(selfIndex.ProvidersFor(vspec)) == 0 {
			return false
		}
	}
	return true
}

func (s *Spec) traversalSpecs() []*Spec {
	entries := s.Traverse(TraverseOptions{})
	out := make([]*Spec, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.Node)
	}
	return out
}

// commonDependencies returns the names both specs reach, root excluded.
func (s *Spec) commonDependencies(other *Spec) map[string]bool {
	mine := map[string]bool{}
	for _, entry := range s.Traverse(TraverseOptions{SkipRoot: true}) {
		mine[entry.Node.Name] = true
	}
	common := map[string]bool{}
	for _, entry := range other.Traverse(TraverseOptions{SkipRoot: true}) {
		if mine[entry.Node.Name] {
			common[entry.Node.Name] = true
		}
	}
	return common
}

// depDifference returns names this spec reaches that other does not,
// root excluded.
func (s *Spec) depDifference(other *Spec) []string {
	theirs := map[string]bool{}
	for _, entry := range other.Traverse(TraverseOptions{SkipRoot: true}) {
		theirs[entry.Node.Name] = true
	}
	seen := map[string]bool{}
	var out []string
	for _, entry := range s.Traverse(TraverseOptions{SkipRoot: true}) {
		if !theirs[entry.Node.Name] && !seen[entry.Node.Name] {
			seen[entry.Node.Name] = true
			out = append(out, entry.Node.Name)
		}
	}
	return out
}

// ConstrainNode narrows this node's own fields to the conjunction with
// other's, leaving dependencies alone. Every incompatibility surfaces as
// the matching Unsatisfiable error.
func (s *Spec) ConstrainNode(other *Spec) error {
	if s.Name != other.Name {
		return newUnsatisfiableName(s.Name, other.Name)
	}
	if !s.Versions.Overlaps(other.Versions) {
		return newUnsatisfiableVersion(s.Name+"@"+s.Versions.String(), other.Name+"@"+other.Versions.String())
	}
	for name, theirs := range other.Variants {
		if ours, ok := s.Variants[name]; ok && ours.Enabled != theirs.Enabled {
			return newUnsatisfiableVariant(ours.String(), theirs.String())
		}
	}
	if s.Architecture != "" && other.Architecture != "" && s.Architecture != other.Architecture {
		return newUnsatisfiableArchitecture(s.Architecture, other.Architecture)
	}

	if s.Compiler != nil && other.Compiler != nil {
		if err := s.Compiler.Constrain(other.Compiler); err != nil {
			return err
		}
	} else if s.Compiler == nil && other.Compiler != nil {
		s.Compiler = other.Compiler.Copy()
	}

	s.Versions.Intersect(other.Versions)
	for name, theirs := range other.Variants {
		s.Variants[name] = theirs
	}
	if s.Architecture == "" {
		s.Architecture = other.Architecture
	}
	return nil
}

// Constrain is the mutating conjunction of two specs: narrow every field
// and fold in other's dependency constraints. On failure the spec may be
// partially constrained; callers that need atomicity Copy first.
func (s *Spec) Constrain(other *Spec, reg Registry) error {
	if err := s.ConstrainNode(other); err != nil {
		return err
	}
	return s.constrainDependencies(other, reg)
}

// constrainDependencies applies other's dependency constraints to this
// spec: common names are narrowed pairwise, and dependencies only other
// has are copied over.
func (s *Spec) constrainDependencies(other *Spec, reg Registry) error {
	if len(s.Dependencies) == 0 || len(other.Dependencies) == 0 {
		return nil
	}

	// Overlap on common names is checked by ConstrainNode below; the
	// provider cross-checks have no narrowing step of their own, so an
	// incompatibility there is the dependency conflict itself.
	if !s.providersCompatible(other, reg) {
		return newUnsatisfiableDependency(s.String(), other.String())
	}

	// Narrow common dependencies node-by-node; the shared traversal
	// already reaches every transitive dep, so skip re-descending.
	for name := range s.commonDependencies(other) {
		mine, _ := s.Lookup(name)
		theirs, _ := other.Lookup(name)
		if err := mine.ConstrainNode(theirs); err != nil {
			return err
		}
	}

	for _, name := range other.depDifference(s) {
		theirs, _ := other.Lookup(name)
		if err := s.AddDependency(theirs.Copy()); err != nil {
			return err
		}
	}
	return nil
}
