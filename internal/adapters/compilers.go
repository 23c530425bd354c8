package adapters

import (
	"sort"

	"stratum/internal/core"
)

// defaultCompilers is used when the configuration does not list any
// compilers: a gcc that most build hosts have.
var defaultCompilers = map[string][]string{
	"gcc": {"4.5.0"},
}

// CompilersAdapter is the compiler registry, configured with the
// compilers available on this installation and which one is the
// platform default.
type CompilersAdapter struct {
	versions    map[string][]core.Version
	defaultName string
}

// NewCompilersAdapter builds the registry from a name-to-versions map.
func NewCompilersAdapter(compilers map[string][]string, defaultName string) *CompilersAdapter {
	if len(compilers) == 0 {
		compilers = defaultCompilers
	}
	adapter := &CompilersAdapter{versions: map[string][]core.Version{}, defaultName: defaultName}
	for name, versions := range compilers {
		parsed := make([]core.Version, 0, len(versions))
		for _, v := range versions {
			parsed = append(parsed, core.NewVersion(v))
		}
		sort.Slice(parsed, func(i, j int) bool { return parsed[i].LessThan(parsed[j]) })
		adapter.versions[name] = parsed
	}
	if _, ok := adapter.versions[adapter.defaultName]; !ok || adapter.defaultName == "" {
		names := make([]string, 0, len(adapter.versions))
		for name := range adapter.versions {
			names = append(names, name)
		}
		sort.Strings(names)
		adapter.defaultName = names[0]
	}
	return adapter
}

// Supported reports whether the compiler name is configured.
func (c *CompilersAdapter) Supported(name string) bool {
	_, ok := c.versions[name]
	return ok
}

// VersionsFor returns the available versions of a compiler, oldest
// first.
func (c *CompilersAdapter) VersionsFor(name string) []core.Version {
	return c.versions[name]
}

// Default returns the platform default compiler pinned to its newest
// available version.
func (c *CompilersAdapter) Default() *core.Compiler {
	compiler := core.NewCompiler(c.defaultName)
	versions := c.versions[c.defaultName]
	if len(versions) > 0 {
		compiler.Versions = core.NewVersionList(versions[len(versions)-1])
	}
	return compiler
}
