package adapters

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"stratum/internal/core"
	"stratum/internal/types"
)

const registryFixture = `packages:
  libelf:
    versions: ["0.8.12", "0.8.13"]
  libdwarf:
    versions: ["20130729"]
    dependencies: ["libelf"]
  mpich2:
    versions: ["1.0", "1.5"]
    provides:
      - spec: "mpi@:2.0"
      - spec: "mpi@:2.2"
        when: "@1.2:"
`

func loadFixture(t *testing.T) *RegistryAdapter {
	t.Helper()
	path := filepath.Join(t.TempDir(), "packages.yaml")
	require.NoError(t, os.WriteFile(path, []byte(registryFixture), 0o644))
	registry, err := NewRegistryAdapter(context.Background(), path)
	require.NoError(t, err)
	return registry
}

func TestRegistryGet(t *testing.T) {
	registry := loadFixture(t)

	decl, err := registry.Get("libdwarf")
	require.NoError(t, err)
	assert.Equal(t, "libdwarf", decl.Name)
	assert.Len(t, decl.Versions, 1)
	require.Contains(t, decl.Dependencies, "libelf")
}

func TestRegistryGetUnknown(t *testing.T) {
	registry := loadFixture(t)

	_, err := registry.Get("nosuchthing")
	var unknown *core.UnknownPackageError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nosuchthing", unknown.Name)
}

func TestRegistryExists(t *testing.T) {
	registry := loadFixture(t)

	assert.True(t, registry.Exists("libelf"))
	// Names outside the registry are virtual, not errors.
	assert.False(t, registry.Exists("mpi"))
}

func TestRegistryParsesProvides(t *testing.T) {
	registry := loadFixture(t)

	decl, err := registry.Get("mpich2")
	require.NoError(t, err)
	require.Len(t, decl.Provides, 2)
	assert.Equal(t, "mpi@:2.0", decl.Provides[0].Provided.String())
	assert.Nil(t, decl.Provides[0].When)
	require.NotNil(t, decl.Provides[1].When)
	assert.Equal(t, "mpich2@1.2:", decl.Provides[1].When.String())
}

func TestRegistryProvidersFor(t *testing.T) {
	registry := loadFixture(t)

	providers, err := registry.ProvidersFor(mustParseSpec(t, "mpi"))
	require.NoError(t, err)
	require.Len(t, providers, 1)
	assert.Equal(t, "mpich2", providers[0].Name)
}

func TestRegistryProvidersForConditionalClause(t *testing.T) {
	registry := loadFixture(t)

	// mpi@2.2 is reachable only through the "when: @1.2:" clause, which
	// mpich2's declared 1.5 activates.
	providers, err := registry.ProvidersFor(mustParseSpec(t, "mpi@2.2"))
	require.NoError(t, err)
	require.Len(t, providers, 1)
	assert.Equal(t, "mpich2", providers[0].Name)
	assert.Equal(t, "1.0,1.5", providers[0].Versions.String())

	// Nothing in the registry claims mpi beyond 2.2.
	providers, err = registry.ProvidersFor(mustParseSpec(t, "mpi@3:"))
	require.NoError(t, err)
	assert.Empty(t, providers)
}

func TestRegistryMissingFile(t *testing.T) {
	_, err := NewRegistryAdapter(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestRegistryRejectsEntryWithoutVersions(t *testing.T) {
	var file types.RegistryFile
	require.NoError(t, yaml.Unmarshal([]byte("packages:\n  broken: {}\n"), &file))

	_, err := NewRegistryFromFile(context.Background(), file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declares no versions")
}

func TestRegistryRejectsBadDependencySpec(t *testing.T) {
	var file types.RegistryFile
	input := "packages:\n  broken:\n    versions: [\"1.0\"]\n    dependencies: [\"@@\"]\n"
	require.NoError(t, yaml.Unmarshal([]byte(input), &file))

	_, err := NewRegistryFromFile(context.Background(), file)
	require.Error(t, err)
}

func mustParseSpec(t *testing.T, input string) *core.Spec {
	t.Helper()
	spec, err := core.ParseOne(input)
	require.NoError(t, err)
	return spec
}
