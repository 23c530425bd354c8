package ports

import (
	"context"

	"stratum/internal/core"
)

// InstallDBPort reads and writes the record of installed specs. The
// database is the install tree itself; each prefix carries the canonical
// spec it was built from.
type InstallDBPort interface {
	InstalledSpecs(ctx context.Context) ([]*core.Spec, error)
	Record(ctx context.Context, s *core.Spec, prefix string) error
	Installed(prefix string) bool
}
