package adapters

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallDBRoundTrip(t *testing.T) {
	root := t.TempDir()
	db := NewInstallDBAdapter(root)
	db.Clock = func() time.Time { return time.Date(2014, 3, 1, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	spec := mustParseSpec(t, "libelf@0.8.13%gcc@4.5.0=test64")
	prefix := filepath.Join(root, "test64", "gcc@4.5.0", "libelf@0.8.13")
	require.NoError(t, db.Record(ctx, spec, prefix))
	assert.True(t, db.Installed(prefix))

	installed, err := db.InstalledSpecs(ctx)
	require.NoError(t, err)
	require.Len(t, installed, 1)
	assert.Equal(t, spec.String(), installed[0].String())
}

func TestInstallDBEmptyRoot(t *testing.T) {
	db := NewInstallDBAdapter(filepath.Join(t.TempDir(), "does-not-exist"))

	installed, err := db.InstalledSpecs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, installed)
}

func TestInstallDBSkipsCorruptRecords(t *testing.T) {
	root := t.TempDir()
	db := NewInstallDBAdapter(root)
	ctx := context.Background()

	good := mustParseSpec(t, "libelf@0.8.12%gcc@4.5.0=test64")
	require.NoError(t, db.Record(ctx, good, filepath.Join(root, "good")))

	badDir := filepath.Join(root, "bad")
	require.NoError(t, os.MkdirAll(badDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(badDir, recordFile), []byte("spec: '@@'\n"), 0o644))

	installed, err := db.InstalledSpecs(ctx)
	require.NoError(t, err)
	require.Len(t, installed, 1)
	assert.Equal(t, good.String(), installed[0].String())
}

func TestInstalledFalseForMissingPrefix(t *testing.T) {
	db := NewInstallDBAdapter(t.TempDir())
	assert.False(t, db.Installed(filepath.Join(db.Root, "nope")))
}
