package core

import "fmt"

// ProvideClause declares that a package satisfies a virtual dependency.
// The When spec conditions the clause on the provider's own configuration:
// mpich2 provides mpi@:2.2 only when mpich2 itself is @1.2:.
type ProvideClause struct {
	Provided *Spec
	When     *Spec
}

// PackageDecl is the declaration metadata of a package: the versions it
// can be built at, the dependency specs it requires, and the virtual
// packages it provides. The spec core consumes declarations only; build
// recipes live behind the install driver and never reach the core.
type PackageDecl struct {
	Name         string
	Versions     []Version
	Dependencies map[string]*Spec
	Provides     []ProvideClause
}

// ValidateDependencies checks that the declaration's dependency specs are
// sane: keyed by their own name and never self-referential.
func (d PackageDecl) ValidateDependencies() error {
	for name, dep := range d.Dependencies {
		if dep == nil || dep.Name != name {
			return &InconsistentSpecError{
				Msg: fmt.Sprintf("package %s declares a dependency under the wrong name %q", d.Name, name),
			}
		}
		if name == d.Name {
			return &InconsistentSpecError{
				Msg: fmt.Sprintf("package %s declares a dependency on itself", d.Name),
			}
		}
	}
	return nil
}

// VirtualDependencies returns the declared dependencies whose names are
// not registered packages.
func (d PackageDecl) VirtualDependencies(reg Registry) []*Spec {
	var out []*Spec
	for _, name := range sortedKeys(d.Dependencies) {
		dep := d.Dependencies[name]
		if dep.Virtual(reg) {
			out = append(out, dep)
		}
	}
	return out
}

// Registry is the package registry surface the spec core consumes.
type Registry interface {
	// Get returns the declaration for a package name, or an
	// UnknownPackageError.
	Get(name string) (PackageDecl, error)

	// Exists reports whether a package with the name is registered. A
	// spec whose name is not registered is virtual.
	Exists(name string) bool

	// ProvidersFor returns, for a virtual spec, the provider specs of
	// every registered package with a provide clause compatible with
	// it.
	ProvidersFor(vspec *Spec) ([]*Spec, error)
}

// CompilerRegistry answers which compiler names the installation
// supports.
type CompilerRegistry interface {
	Supported(name string) bool
}

// Concretizer is the policy object concretization dispatches to. The
// core invokes the three Concretize methods on every non-virtual node and
// ChooseProvider whenever a virtual node needs a concrete substitute.
// Replacing the policy never requires core changes.
type Concretizer interface {
	ConcretizeArchitecture(s *Spec) error
	ConcretizeCompiler(s *Spec) error
	ConcretizeVersion(s *Spec) error
	ChooseProvider(vspec *Spec, providers []*Spec) (*Spec, error)
}
