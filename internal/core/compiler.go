package core

// Compiler names the compiler, or range of compiler versions, that a
// package should be built with.
type Compiler struct {
	Name     string
	Versions *VersionList
}

// NewCompiler creates a compiler constraint with an unconstrained version
// list.
func NewCompiler(name string) *Compiler {
	return &Compiler{Name: name, Versions: AnyVersionList()}
}

// Satisfies reports whether the two compiler constraints can describe the
// same compiler.
func (c *Compiler) Satisfies(other *Compiler) bool {
	return c.Name == other.Name && c.Versions.Overlaps(other.Versions)
}

// Constrain narrows the version list to the intersection with other.
func (c *Compiler) Constrain(other *Compiler) error {
	if !c.Satisfies(other) {
		return newUnsatisfiableCompiler(c.String(), other.String())
	}
	c.Versions.Intersect(other.Versions)
	return nil
}

// Concrete reports whether the compiler is pinned to a single version.
func (c *Compiler) Concrete() bool {
	return c.Versions.Concrete()
}

// Version returns the pinned version of a concrete compiler.
func (c *Compiler) Version() (Version, bool) {
	return c.Versions.Single()
}

// Copy returns an independent copy.
func (c *Compiler) Copy() *Compiler {
	return &Compiler{Name: c.Name, Versions: c.Versions.Copy()}
}

func (c *Compiler) String() string {
	if !c.Versions.Empty() && !c.Versions.Any() {
		return c.Name + "@" + c.Versions.String()
	}
	return c.Name
}
