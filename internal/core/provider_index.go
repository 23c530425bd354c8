package core

import "sort"

// providerEntry records one active provide clause: the virtual spec a
// candidate provides and the candidate itself.
type providerEntry struct {
	provided *Spec
	provider *Spec
}

// ProviderIndex maps virtual package names to the candidate specs able
// to provide them. Only provide clauses whose when-condition the
// candidate can meet are indexed.
type ProviderIndex struct {
	reg      Registry
	restrict bool
	entries  map[string][]providerEntry
}

// NewProviderIndex builds an index over the given candidate specs.
//
// With restrict, when-conditions are intersected with each candidate's
// current version constraints: a clause is indexed exactly when that
// intersection is nonempty, and entries reference the candidate specs
// themselves so later constraining narrows the index too. Without
// restrict, candidates are copied in and a clause is indexed only when
// the candidate as given satisfies its when-condition outright.
func NewProviderIndex(reg Registry, specs []*Spec, restrict bool) *ProviderIndex {
	index := &ProviderIndex{
		reg:      reg,
		restrict: restrict,
		entries:  map[string][]providerEntry{},
	}
	for _, spec := range specs {
		index.Update(spec)
	}
	return index
}

// Update indexes one candidate spec's provide clauses.
func (x *ProviderIndex) Update(spec *Spec) {
	if spec.Virtual(x.reg) {
		return
	}
	decl, err := x.reg.Get(spec.Name)
	if err != nil {
		return
	}
	for _, clause := range decl.Provides {
		if clause.When != nil {
			if x.restrict {
				// Intersect the clause's applicability with the
				// candidate's current versions; an empty intersection
				// means no configuration of this candidate activates
				// the clause.
				active := spec.Versions.Copy()
				if !active.Intersect(clause.When.Versions) || !spec.compatibleNode(clause.When) {
					continue
				}
			} else if !spec.SatisfiesNode(clause.When) {
				continue
			}
		}
		provider := spec
		if !x.restrict {
			provider = spec.Copy()
		}
		x.entries[clause.Provided.Name] = append(x.entries[clause.Provided.Name], providerEntry{
			provided: clause.Provided,
			provider: provider,
		})
	}
}

// HasVirtual reports whether any candidate provides the virtual name.
func (x *ProviderIndex) HasVirtual(name string) bool {
	return len(x.entries[name]) > 0
}

// ProvidersFor returns the candidates whose declared virtual range is
// compatible with every requested virtual spec, deduplicated and in
// sorted-name order. A provider matches when its declared range and
// the request overlap; the declaration does not have to lie entirely
// inside the request.
func (x *ProviderIndex) ProvidersFor(vspecs ...*Spec) []*Spec {
	seen := map[*Spec]bool{}
	var out []*Spec
	for _, vspec := range vspecs {
		for _, entry := range x.entries[vspec.Name] {
			if !entry.provided.compatibleNode(vspec) {
				continue
			}
			if !seen[entry.provider] {
				seen[entry.provider] = true
				out = append(out, entry.provider)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ProvidersForName returns every candidate providing the virtual name,
// regardless of range.
func (x *ProviderIndex) ProvidersForName(name string) []*Spec {
	seen := map[*Spec]bool{}
	var out []*Spec
	for _, entry := range x.entries[name] {
		if !seen[entry.provider] {
			seen[entry.provider] = true
			out = append(out, entry.provider)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Satisfies reports whether, for every virtual name both indexes know,
// the two provider sets can agree on at least one package.
func (x *ProviderIndex) Satisfies(other *ProviderIndex) bool {
	for name, entries := range x.entries {
		theirs, ok := other.entries[name]
		if !ok {
			continue
		}
		agree := false
		for _, mine := range entries {
			for _, their := range theirs {
				if mine.provider.Name == their.provider.Name {
					agree = true
				}
			}
		}
		if !agree {
			return false
		}
	}
	return true
}
