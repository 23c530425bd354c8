package ports

import "stratum/internal/core"

// LayoutPort computes where a concrete spec lives on disk. The path is a
// pure function of the spec, so the same configuration always lands in
// the same prefix and different configurations never collide.
type LayoutPort interface {
	PathForSpec(s *core.Spec) (string, error)
}
