package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Format directives
// ---------------------------------------------------------------------------

func TestFormatDirectives(t *testing.T) {
	spec := mustParse("mpileaks@1.2:1.4+debug~opt%intel@12.1=bgqos_0")

	assert.Equal(t, "mpileaks", spec.Format("$_"))
	assert.Equal(t, "@1.2:1.4", spec.Format("$@"))
	assert.Equal(t, "%intel", spec.Format("$%"))
	assert.Equal(t, "%intel@12.1", spec.Format("$%@"))
	assert.Equal(t, "+debug~opt", spec.Format("$+"))
	assert.Equal(t, "=bgqos_0", spec.Format("$="))
	assert.Equal(t, "$", spec.Format("$$"))
	assert.Equal(t, "mpileaks-1.2:1.4", spec.Format("$_-1.2:1.4"))
}

func TestFormatOmitsEmptyFields(t *testing.T) {
	spec := mustParse("mpileaks")

	assert.Equal(t, "mpileaks", spec.Format("$_$@$%@$+$=$#"))
	assert.Equal(t, "", spec.Format("$@"))
}

func TestFormatTrivialVersionOmitted(t *testing.T) {
	spec := mustParse("mpileaks@:")
	assert.Equal(t, "", spec.Format("$@"))
}

func TestFormatDependencyFingerprint(t *testing.T) {
	spec := mustParse("mpileaks ^mpich@3.0.4")
	out := spec.Format("$_$#")

	require.True(t, strings.HasPrefix(out, "mpileaks-"))
	assert.Len(t, out, len("mpileaks-")+6)
}

func TestFormatVerbatimText(t *testing.T) {
	spec := mustParse("libelf@0.8.13")
	assert.Equal(t, "libelf is at @0.8.13", spec.Format("$_ is at $@"))
}

// ---------------------------------------------------------------------------
// Canonical string
// ---------------------------------------------------------------------------

func TestStringFlattensDependenciesSorted(t *testing.T) {
	spec := mustParse("mpileaks ^zmpi ^callpath@1.0")
	assert.Equal(t, "mpileaks^callpath@1.0^zmpi", spec.String())
}

func TestStringIncludesTransitiveDeps(t *testing.T) {
	resolver, _ := testResolver()
	spec := mustParse("callpath ^mpich2@1.5")
	require.NoError(t, resolver.Normalize(spec))

	out := spec.String()
	for _, name := range []string{"^dyninst", "^libdwarf", "^libelf", "^mpich2@1.5"} {
		assert.Contains(t, out, name)
	}
	assert.NotContains(t, out, "mpi@")
}

// ---------------------------------------------------------------------------
// Fingerprint
// ---------------------------------------------------------------------------

func TestFingerprintDependsOnlyOnCanonicalForm(t *testing.T) {
	// Build the same DAG twice with different construction orders.
	a := mustParse("mpileaks ^callpath@1.0 ^zmpi")
	b := mustParse("mpileaks")
	require.NoError(t, b.AddDependency(mustParse("zmpi")))
	require.NoError(t, b.AddDependency(mustParse("callpath@1.0")))

	require.Equal(t, a.String(), b.String())
	assert.Equal(t, a.Dependencies.Fingerprint(), b.Dependencies.Fingerprint())
}

func TestFingerprintChangesWithConstraints(t *testing.T) {
	a := mustParse("mpileaks ^callpath@1.0")
	b := mustParse("mpileaks ^callpath@0.9")
	assert.NotEqual(t, a.Dependencies.Fingerprint(), b.Dependencies.Fingerprint())
}

// ---------------------------------------------------------------------------
// Tree
// ---------------------------------------------------------------------------

func TestTreeIndentsByDepth(t *testing.T) {
	resolver, _ := testResolver()
	spec := mustParse("callpath ^mpich2@1.5")
	require.NoError(t, resolver.Normalize(spec))

	tree := spec.Tree(TreeOptions{})
	lines := strings.Split(strings.TrimRight(tree, "\n"), "\n")
	require.Equal(t, 5, len(lines))
	assert.Equal(t, "callpath", lines[0])
	assert.Equal(t, "    ^dyninst", lines[1])
	assert.Equal(t, "        ^libdwarf", lines[2])
	assert.Equal(t, "            ^libelf", lines[3])
	assert.Equal(t, "    ^mpich2@1.5", lines[4])
}

func TestTreeShowsDepths(t *testing.T) {
	spec := mustParse("mpileaks ^mpich@3.0.4")
	tree := spec.Tree(TreeOptions{ShowDepth: true})

	assert.True(t, strings.HasPrefix(tree, "0   mpileaks"))
	assert.Contains(t, tree, "1       ^mpich@3.0.4")
}

// ---------------------------------------------------------------------------
// Colorized
// ---------------------------------------------------------------------------

func TestColorizedKeepsCompilerVersionColor(t *testing.T) {
	spec := mustParse("mpileaks@1.0%gcc@4.5.0")
	out := spec.Colorized()

	// The package version gets the version color; the compiler version
	// keeps the compiler's.
	assert.Contains(t, out, "\x1b[36m@1.0")
	assert.Contains(t, out, "\x1b[32m%gcc@4.5.0")
	assert.True(t, strings.HasSuffix(out, colorReset))
}
