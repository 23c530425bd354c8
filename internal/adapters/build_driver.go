package adapters

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"stratum/internal/core"
	"stratum/internal/shared"
	"stratum/internal/types"
)

// BuilderAdapter drives the classic source build of one spec: stage the
// source, configure with the prefix, make, make install. Builds run in
// a per-spec staging directory under StageRoot, removed after a clean
// install unless the dirty option keeps it.
type BuilderAdapter struct {
	StageRoot string

	// SourceDir maps a spec to its source archive, which Install unpacks
	// into the staging directory. When nil, sources are expected to be
	// staged already.
	SourceDir func(s *core.Spec) (string, error)
}

// NewBuilderAdapter creates a builder staging under the given root.
func NewBuilderAdapter(stageRoot string) BuilderAdapter {
	return BuilderAdapter{StageRoot: stageRoot}
}

// Install builds the spec into its prefix.
func (b BuilderAdapter) Install(ctx context.Context, s *core.Spec, prefix string, opts types.BuildOptions) error {
	stage := filepath.Join(b.StageRoot, s.Format("$_$@$#"))
	if err := os.MkdirAll(stage, 0o755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create staging area").
			WithCause(err)
	}
	if !opts.Dirty {
		defer func() {
			if err := os.RemoveAll(stage); err != nil {
				log.Ctx(ctx).Warn().Str("stage", stage).Err(err).Msg("failed to clean staging area")
			}
		}()
	}

	if b.SourceDir != nil {
		archive, err := b.SourceDir(s)
		if err != nil {
			return err
		}
		if err := unpack(ctx, archive, stage); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(prefix, 0o755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create install prefix").
			WithCause(err)
	}

	logger := log.Ctx(ctx).With().Stringer("spec", s).Str("prefix", prefix).Logger()
	steps := [][]string{
		{"./configure", "--prefix=" + prefix},
		{"make"},
		{"make", "install"},
	}
	for _, step := range steps {
		logger.Info().Str("command", strings.Join(step, " ")).Msg("build step")
		cmd := exec.CommandContext(ctx, step[0], step[1:]...)
		cmd.Dir = stage
		output, err := cmd.CombinedOutput()
		if err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("build step %q failed for %s", strings.Join(step, " "), s)).
				WithCause(shared.CommandError(output, err))
		}
	}
	logger.Info().Msg("install finished")
	return nil
}

// unpack extracts a source archive into the staging directory, shelling
// out to the unpacker the archive type calls for.
func unpack(ctx context.Context, archive string, stage string) error {
	argv, err := decompressorFor(archive)
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], archive)...)
	cmd.Dir = stage
	output, err := cmd.CombinedOutput()
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to unpack %s", archive)).
			WithCause(shared.CommandError(output, err))
	}
	return nil
}

// decompressorFor returns the command that unpacks an archive, by
// extension.
func decompressorFor(path string) ([]string, error) {
	switch {
	case strings.HasSuffix(path, ".tar.gz"), strings.HasSuffix(path, ".tgz"):
		return []string{"tar", "-xzf"}, nil
	case strings.HasSuffix(path, ".tar.bz2"), strings.HasSuffix(path, ".tbz2"):
		return []string{"tar", "-xjf"}, nil
	case strings.HasSuffix(path, ".tar.xz"), strings.HasSuffix(path, ".txz"):
		return []string{"tar", "-xJf"}, nil
	case strings.HasSuffix(path, ".tar"):
		return []string{"tar", "-xf"}, nil
	case strings.HasSuffix(path, ".zip"):
		return []string{"unzip", "-q"}, nil
	}
	return nil, errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("unrecognized archive type: %s", path))
}
