package ports

import "stratum/internal/core"

// CompilersPort extends the core's compiler registry with the defaults
// the concretization policy needs.
type CompilersPort interface {
	core.CompilerRegistry

	// Default returns the platform default compiler, pinned.
	Default() *core.Compiler

	// VersionsFor returns the available versions of a compiler, oldest
	// first.
	VersionsFor(name string) []core.Version
}
