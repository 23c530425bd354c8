package types

// InstallRecord is the metadata written into every install prefix. The
// spec string is the canonical form of the concrete spec and is the
// identity of the build; everything else is bookkeeping.
type InstallRecord struct {
	Spec        string `yaml:"spec"`
	InstalledAt string `yaml:"installed_at"`
}

// BuildOptions carries the install driver's knobs.
type BuildOptions struct {
	// IgnoreDependencies installs only the requested root, assuming its
	// dependencies are already in place.
	IgnoreDependencies bool
	// Dirty keeps the staging area around after the install finishes.
	Dirty bool
	// NoChecksum is passed through to the builder, which verifies no
	// checksums; the option has no effect.
	NoChecksum bool
}
