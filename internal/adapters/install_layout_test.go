package adapters

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathForSpecIsDeterministic(t *testing.T) {
	registry := loadFixture(t)
	layout := NewLayoutAdapter("/opt/stratum", registry)
	spec := mustParseSpec(t, "libelf@0.8.13%gcc@4.5.0=test64")

	path, err := layout.PathForSpec(spec)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/opt/stratum", "test64", "gcc@4.5.0", "libelf@0.8.13"), path)

	again, err := layout.PathForSpec(mustParseSpec(t, "libelf@0.8.13%gcc@4.5.0=test64"))
	require.NoError(t, err)
	assert.Equal(t, path, again)
}

func TestPathForSpecIncludesVariantsAndFingerprint(t *testing.T) {
	registry := loadFixture(t)
	layout := NewLayoutAdapter("/opt/stratum", registry)

	spec := mustParseSpec(t, "libdwarf@20130729+debug%gcc@4.5.0=test64")
	require.NoError(t, spec.AddDependency(mustParseSpec(t, "libelf@0.8.13%gcc@4.5.0=test64")))

	path, err := layout.PathForSpec(spec)
	require.NoError(t, err)
	base := filepath.Base(path)
	assert.True(t, strings.HasPrefix(base, "libdwarf@20130729+debug-"))
	assert.Len(t, base, len("libdwarf@20130729+debug-")+6)
}

func TestPathForSpecRejectsAbstractSpec(t *testing.T) {
	registry := loadFixture(t)
	layout := NewLayoutAdapter("/opt/stratum", registry)

	_, err := layout.PathForSpec(mustParseSpec(t, "libelf@0.8:"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not concrete")
}

func TestPrefixDirectories(t *testing.T) {
	prefix := Prefix("/opt/stratum/test64/gcc@4.5.0/libelf@0.8.13")

	assert.Equal(t, "/opt/stratum/test64/gcc@4.5.0/libelf@0.8.13/bin", prefix.Bin())
	assert.Equal(t, "/opt/stratum/test64/gcc@4.5.0/libelf@0.8.13/lib64", prefix.Lib64())
	assert.Equal(t, "/opt/stratum/test64/gcc@4.5.0/libelf@0.8.13/share/man/man1", prefix.ManSection(1))
}
