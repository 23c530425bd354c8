package core

// Concretize pins every remaining degree of freedom of the spec so it
// describes exactly one build: normalize, replace any remaining virtual
// nodes with providers chosen by the policy, then walk the DAG bottom-up
// pinning architecture, compiler, and version on every node. Running it
// on an already concrete spec changes nothing.
func (r *Resolver) Concretize(s *Spec) error {
	if err := r.Normalize(s); err != nil {
		return err
	}
	if err := r.expandVirtualPackages(s); err != nil {
		return err
	}
	return r.concretizeHelper(s, map[string]*Spec{}, map[string]bool{})
}

// Concretized returns a concrete copy, leaving the receiver alone.
func (r *Resolver) Concretized(s *Spec) (*Spec, error) {
	clone := s.Copy()
	if err := r.Concretize(clone); err != nil {
		return nil, err
	}
	return clone, nil
}

// expandVirtualPackages replaces virtual nodes with providers and
// re-normalizes to pull in the providers' own dependencies, repeating
// until no virtual is left. Normalize resolves virtuals that already
// have a provider in the spec; this handles the rest, asking the policy
// to choose among the registry's candidates.
func (r *Resolver) expandVirtualPackages(s *Spec) error {
	for {
		virtuals := s.VirtualDependencies(r.Registry)
		if len(virtuals) == 0 {
			return nil
		}

		for _, vspec := range virtuals {
			providers, err := r.Registry.ProvidersFor(vspec)
			if err != nil {
				return err
			}
			chosen, err := r.Concretizer.ChooseProvider(vspec, providers)
			if err != nil {
				return err
			}
			chosen = chosen.Copy()
			if len(vspec.Dependents) == 0 {
				// The virtual is the root itself; take over the
				// provider's identity in place.
				vspec.overwriteWith(chosen)
				continue
			}
			if err := vspec.replaceWith(chosen); err != nil {
				return err
			}
		}

		// Re-normalizing consolidates duplicate providers and merges
		// their constraints.
		if err := r.Normalize(s); err != nil {
			return err
		}
	}
}

// concretizeHelper concretizes bottom-up. Concretized nodes enter the
// presets map, and ancestors constrain themselves to their descendants'
// choices, so a DAG settles on one compiler and architecture. Virtual
// nodes are recorded but not pinned here; expandVirtualPackages selects
// their providers.
func (r *Resolver) concretizeHelper(s *Spec, presets map[string]*Spec, visited map[string]bool) error {
	if visited[s.Name] {
		return nil
	}

	for _, name := range sortedKeys(s.Dependencies) {
		if err := r.concretizeHelper(s.Dependencies[name], presets, visited); err != nil {
			return err
		}
	}

	if preset, ok := presets[s.Name]; ok {
		if preset != s {
			if err := s.ConstrainNode(preset); err != nil {
				return err
			}
		}
	} else {
		if !s.Virtual(r.Registry) {
			if err := r.Concretizer.ConcretizeArchitecture(s); err != nil {
				return err
			}
			if err := r.Concretizer.ConcretizeCompiler(s); err != nil {
				return err
			}
			if err := r.Concretizer.ConcretizeVersion(s); err != nil {
				return err
			}
		}
		presets[s.Name] = s
	}

	visited[s.Name] = true
	return nil
}
