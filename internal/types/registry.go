package types

// RegistryFile is the on-disk package registry: every package the
// installation can build, its buildable versions, the dependency specs
// it declares, and the virtual packages it provides.
type RegistryFile struct {
	Packages map[string]PackageEntry `yaml:"packages"`
}

// PackageEntry is one package declaration as written in the registry.
// Dependencies and provides use the spec surface syntax; the registry
// adapter parses them when it loads the file.
type PackageEntry struct {
	Homepage     string         `yaml:"homepage,omitempty"`
	URL          string         `yaml:"url,omitempty"`
	Versions     []string       `yaml:"versions"`
	Dependencies []string       `yaml:"dependencies,omitempty"`
	Provides     []ProvideEntry `yaml:"provides,omitempty"`
}

// ProvideEntry declares one virtual package a provider satisfies. When
// is a condition on the provider itself; empty means always.
type ProvideEntry struct {
	Spec string `yaml:"spec"`
	When string `yaml:"when,omitempty"`
}

// CompilersFile lists the compilers the installation supports and the
// versions available for each.
type CompilersFile struct {
	Compilers map[string][]string `yaml:"compilers"`
}
