package ports

import (
	"context"

	"stratum/internal/core"
	"stratum/internal/types"
)

// BuilderPort drives one package build into its prefix: stage, configure
// with the prefix, make, make install. The spec core never sees this;
// only the install driver invokes it.
type BuilderPort interface {
	Install(ctx context.Context, s *core.Spec, prefix string, opts types.BuildOptions) error
}
