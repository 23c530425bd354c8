package adapters

import (
	"fmt"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"stratum/internal/core"
)

// LayoutAdapter computes install prefixes under a single root:
//
//	<root>/<architecture>/<compiler>/<name@version+variants-fingerprint>
//
// The "-fingerprint" suffix appears only when the spec has dependencies.
// Every field of the path comes from the concrete spec, so each build
// configuration gets its own prefix and re-resolving the same spec
// finds the same directory.
type LayoutAdapter struct {
	Root     string
	Registry core.Registry
}

// NewLayoutAdapter creates a layout rooted at the given directory.
func NewLayoutAdapter(root string, reg core.Registry) LayoutAdapter {
	return LayoutAdapter{Root: root, Registry: reg}
}

// PathForSpec returns the prefix for a concrete spec. Abstract specs
// have no prefix; they don't identify one build.
func (l LayoutAdapter) PathForSpec(s *core.Spec) (string, error) {
	if !s.Concrete(l.Registry) {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("spec is not concrete: %s", s))
	}
	return filepath.Join(
		l.Root,
		s.Architecture,
		s.Compiler.String(),
		s.Format("$_$@$+$#"),
	), nil
}

// Prefix is an installation prefix with the conventional directories
// inside it.
type Prefix string

func (p Prefix) String() string  { return string(p) }
func (p Prefix) Bin() string     { return filepath.Join(string(p), "bin") }
func (p Prefix) Sbin() string    { return filepath.Join(string(p), "sbin") }
func (p Prefix) Etc() string     { return filepath.Join(string(p), "etc") }
func (p Prefix) Include() string { return filepath.Join(string(p), "include") }
func (p Prefix) Lib() string     { return filepath.Join(string(p), "lib") }
func (p Prefix) Lib64() string   { return filepath.Join(string(p), "lib64") }
func (p Prefix) Libexec() string { return filepath.Join(string(p), "libexec") }
func (p Prefix) Share() string   { return filepath.Join(string(p), "share") }
func (p Prefix) Doc() string     { return filepath.Join(p.Share(), "doc") }
func (p Prefix) Info() string    { return filepath.Join(p.Share(), "info") }
func (p Prefix) Man() string     { return filepath.Join(p.Share(), "man") }

// ManSection returns the path of a numbered man section directory.
func (p Prefix) ManSection(section int) string {
	return filepath.Join(p.Man(), fmt.Sprintf("man%d", section))
}
