// Package testutil provides fixtures shared by integration tests: a
// small package universe and a fully wired service over temp
// directories.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"stratum/internal/adapters"
	"stratum/internal/app"
	"stratum/internal/core"
	"stratum/internal/policies"
	"stratum/internal/types"
)

// RegistryYAML is a package universe mirroring a small HPC software
// stack: an analysis tool chain over a virtual mpi interface.
const RegistryYAML = `packages:
  libelf:
    homepage: http://www.mr511.de/software/english.html
    versions: ["0.8.10", "0.8.12", "0.8.13"]
  libdwarf:
    homepage: http://www.prevanders.net/dwarf.html
    versions: ["20111030", "20130207", "20130729"]
    dependencies: ["libelf"]
  dyninst:
    versions: ["7.0", "7.0.1", "8.1.1"]
    dependencies: ["libelf", "libdwarf"]
  callpath:
    versions: ["0.8", "0.9", "1.0"]
    dependencies: ["dyninst", "mpi"]
  mpileaks:
    versions: ["1.0", "2.1", "2.2", "2.3"]
    dependencies: ["mpi", "callpath"]
  mpich:
    homepage: http://www.mpich.org
    versions: ["3.0.3", "3.0.4"]
    provides:
      - spec: "mpi@:3"
  mpich2:
    versions: ["1.0", "1.1", "1.2", "1.3", "1.4", "1.5"]
    provides:
      - spec: "mpi@:2.0"
      - spec: "mpi@:2.1"
        when: "@1.1:"
      - spec: "mpi@:2.2"
        when: "@1.2:"
`

// WriteRegistry writes the fixture registry into dir and returns its
// path.
func WriteRegistry(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "packages.yaml")
	require.NoError(t, os.WriteFile(path, []byte(RegistryYAML), 0o644))
	return path
}

// RecordingBuilder records install invocations instead of running
// builds.
type RecordingBuilder struct {
	Installed []string
}

func (b *RecordingBuilder) Install(_ context.Context, s *core.Spec, _ string, _ types.BuildOptions) error {
	b.Installed = append(b.Installed, s.String())
	return nil
}

// NewService wires a service over temp directories, with builds stubbed
// out by a recording builder and a fixed clock.
func NewService(t *testing.T) (app.Service, *RecordingBuilder) {
	t.Helper()
	dir := t.TempDir()
	registry, err := adapters.NewRegistryAdapter(context.Background(), WriteRegistry(t, dir))
	require.NoError(t, err)

	compilers := adapters.NewCompilersAdapter(map[string][]string{
		"gcc":   {"4.5.0", "4.7.2"},
		"intel": {"12.1"},
	}, "gcc")
	concretizer := policies.NewDefaultConcretizer(registry, compilers, "test64")

	db := adapters.NewInstallDBAdapter(filepath.Join(dir, "opt"))
	db.Clock = func() time.Time { return time.Date(2014, 3, 1, 12, 0, 0, 0, time.UTC) }

	builder := &RecordingBuilder{}
	return app.Service{
		Registry:  registry,
		Compilers: compilers,
		Resolver:  core.NewResolver(registry, compilers, concretizer),
		Layout:    adapters.NewLayoutAdapter(filepath.Join(dir, "opt"), registry),
		DB:        db,
		Builder:   builder,
		Clock:     db.Clock,
	}, builder
}
