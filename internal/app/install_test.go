package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stratum/internal/app"
	"stratum/internal/types"
	"stratum/tests/testutil"
)

func TestInstallBuildsDependenciesFirst(t *testing.T) {
	service, builder := testutil.NewService(t)
	ctx := context.Background()

	result, err := service.Install(ctx, app.InstallRequest{Specs: []string{"libdwarf"}})
	require.NoError(t, err)
	require.Len(t, result.Prefixes, 1)

	require.Len(t, builder.Installed, 2)
	assert.Contains(t, builder.Installed[0], "libelf@0.8.13")
	assert.Contains(t, builder.Installed[1], "libdwarf@20130729")
}

func TestInstallSkipsAlreadyInstalled(t *testing.T) {
	service, builder := testutil.NewService(t)
	ctx := context.Background()

	_, err := service.Install(ctx, app.InstallRequest{Specs: []string{"libelf"}})
	require.NoError(t, err)
	require.Len(t, builder.Installed, 1)

	_, err = service.Install(ctx, app.InstallRequest{Specs: []string{"libelf"}})
	require.NoError(t, err)
	assert.Len(t, builder.Installed, 1)
}

func TestInstallIgnoreDependencies(t *testing.T) {
	service, builder := testutil.NewService(t)
	ctx := context.Background()

	_, err := service.Install(ctx, app.InstallRequest{
		Specs:   []string{"libdwarf"},
		Options: types.BuildOptions{IgnoreDependencies: true},
	})
	require.NoError(t, err)
	require.Len(t, builder.Installed, 1)
	assert.Contains(t, builder.Installed[0], "libdwarf@")
}

func TestInstallRecordsConcreteSpec(t *testing.T) {
	service, _ := testutil.NewService(t)
	ctx := context.Background()

	_, err := service.Install(ctx, app.InstallRequest{Specs: []string{"libelf@0.8.12"}})
	require.NoError(t, err)

	installed, err := service.DB.InstalledSpecs(ctx)
	require.NoError(t, err)
	require.Len(t, installed, 1)
	assert.Equal(t, "libelf@0.8.12%gcc@4.7.2=test64", installed[0].String())
}

func TestInstallRejectsUnparsableSpec(t *testing.T) {
	service, _ := testutil.NewService(t)

	_, err := service.Install(context.Background(), app.InstallRequest{Specs: []string{"@@nope"}})
	require.Error(t, err)
}
