package app

import (
	"context"
	"time"

	"stratum/internal/adapters"
	"stratum/internal/core"
	"stratum/internal/policies"
	"stratum/internal/ports"
)

// Config carries everything the service needs to assemble its adapters.
type Config struct {
	RegistryPath string
	InstallRoot  string
	StageRoot    string

	// Compilers maps compiler names to available versions; empty falls
	// back to the adapter's default set.
	Compilers       map[string][]string
	DefaultCompiler string
	Architecture    string
}

// Service wires the spec core to its collaborators: the package
// registry, the compiler registry, the concretization policy, the
// install layout, the install database, and the build driver.
type Service struct {
	Registry  core.Registry
	Compilers ports.CompilersPort
	Resolver  *core.Resolver
	Layout    ports.LayoutPort
	DB        ports.InstallDBPort
	Builder   ports.BuilderPort
	Clock     func() time.Time
}

// NewService assembles the default production service.
func NewService(ctx context.Context, cfg Config) (Service, error) {
	registry, err := adapters.NewRegistryAdapter(ctx, cfg.RegistryPath)
	if err != nil {
		return Service{}, err
	}
	compilers := adapters.NewCompilersAdapter(cfg.Compilers, cfg.DefaultCompiler)
	concretizer := policies.NewDefaultConcretizer(registry, compilers, cfg.Architecture)
	return Service{
		Registry:  registry,
		Compilers: compilers,
		Resolver:  core.NewResolver(registry, compilers, concretizer),
		Layout:    adapters.NewLayoutAdapter(cfg.InstallRoot, registry),
		DB:        adapters.NewInstallDBAdapter(cfg.InstallRoot),
		Builder:   adapters.NewBuilderAdapter(cfg.StageRoot),
		Clock:     time.Now,
	}, nil
}
