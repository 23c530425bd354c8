package app_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stratum/internal/app"
	"stratum/tests/testutil"
)

func installSome(t *testing.T, service app.Service, specs ...string) {
	t.Helper()
	_, err := service.Install(context.Background(), app.InstallRequest{Specs: specs})
	require.NoError(t, err)
}

func TestFindListsGroupedByArchAndCompiler(t *testing.T) {
	service, _ := testutil.NewService(t)
	installSome(t, service, "libelf", "libelf@0.8.12%intel@12.1")

	out, err := service.Find(context.Background(), app.FindRequest{})
	require.NoError(t, err)

	assert.Contains(t, out, "== test64 ")
	assert.Contains(t, out, "-- gcc@4.7.2 ")
	assert.Contains(t, out, "-- intel@12.1 ")
	assert.Contains(t, out, "    libelf@0.8.13\n")
	assert.Contains(t, out, "    libelf@0.8.12\n")

	// Compiler groups are sorted under their architecture header.
	archIdx := strings.Index(out, "== test64")
	gccIdx := strings.Index(out, "-- gcc@4.7.2")
	intelIdx := strings.Index(out, "-- intel@12.1")
	assert.Less(t, archIdx, gccIdx)
	assert.Less(t, gccIdx, intelIdx)
}

func TestFindFiltersByQuerySpecs(t *testing.T) {
	service, _ := testutil.NewService(t)
	installSome(t, service, "libelf@0.8.12", "libelf@0.8.13")

	out, err := service.Find(context.Background(), app.FindRequest{
		QuerySpecs: []string{"libelf@0.8.13"},
	})
	require.NoError(t, err)

	assert.Contains(t, out, "libelf@0.8.13")
	assert.NotContains(t, out, "libelf@0.8.12")
}

func TestFindQueryIsOrSemantics(t *testing.T) {
	service, _ := testutil.NewService(t)
	installSome(t, service, "libelf@0.8.12", "libelf@0.8.13")

	out, err := service.Find(context.Background(), app.FindRequest{
		QuerySpecs: []string{"libelf@0.8.12", "libelf@0.8.13"},
	})
	require.NoError(t, err)

	assert.Contains(t, out, "libelf@0.8.12")
	assert.Contains(t, out, "libelf@0.8.13")
}

func TestFindPathsShowsPrefixes(t *testing.T) {
	service, _ := testutil.NewService(t)
	installSome(t, service, "libelf")

	out, err := service.Find(context.Background(), app.FindRequest{Paths: true})
	require.NoError(t, err)
	assert.Contains(t, out, "gcc@4.7.2/libelf@0.8.13")
}

func TestFindLongShowsTrees(t *testing.T) {
	service, _ := testutil.NewService(t)
	installSome(t, service, "libdwarf")

	out, err := service.Find(context.Background(), app.FindRequest{Long: true})
	require.NoError(t, err)
	assert.Contains(t, out, "    libdwarf@20130729\n")
}

func TestFindRejectsBadQuery(t *testing.T) {
	service, _ := testutil.NewService(t)

	_, err := service.Find(context.Background(), app.FindRequest{QuerySpecs: []string{"@@"}})
	require.Error(t, err)
}

func TestFindEmptyDatabase(t *testing.T) {
	service, _ := testutil.NewService(t)

	out, err := service.Find(context.Background(), app.FindRequest{})
	require.NoError(t, err)
	assert.Empty(t, out)
}
