package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"stratum/internal/core"
	"stratum/internal/types"
)

// InstallRequest names the specs to install and the build options.
type InstallRequest struct {
	Specs   []string
	Options types.BuildOptions
}

// InstallResult reports the prefix of each requested root spec.
type InstallResult struct {
	Prefixes []string
}

// Install concretizes each requested spec and builds it into its
// prefix, dependencies first. Already installed nodes are skipped.
func (s Service) Install(ctx context.Context, req InstallRequest) (InstallResult, error) {
	result := InstallResult{}
	for _, raw := range req.Specs {
		spec, err := core.ParseOne(raw)
		if err != nil {
			return result, err
		}
		if err := s.Resolver.Concretize(spec); err != nil {
			return result, err
		}

		prefix, err := s.installSpec(ctx, spec, req.Options, map[string]bool{})
		if err != nil {
			return result, err
		}
		result.Prefixes = append(result.Prefixes, prefix)
	}
	return result, nil
}

// installSpec installs the node's dependencies, then the node itself,
// and returns the node's prefix.
func (s Service) installSpec(ctx context.Context, spec *core.Spec, opts types.BuildOptions, done map[string]bool) (string, error) {
	if !opts.IgnoreDependencies {
		for _, name := range sortedStringKeys(spec.Dependencies) {
			if done[name] {
				continue
			}
			done[name] = true
			if _, err := s.installSpec(ctx, spec.Dependencies[name], opts, done); err != nil {
				return "", err
			}
		}
	}

	prefix, err := s.Layout.PathForSpec(spec)
	if err != nil {
		return "", err
	}
	if s.DB.Installed(prefix) {
		log.Ctx(ctx).Info().Stringer("spec", spec).Str("prefix", prefix).Msg("already installed")
		return prefix, nil
	}

	if err := s.Builder.Install(ctx, spec, prefix, opts); err != nil {
		return "", err
	}
	if err := s.DB.Record(ctx, spec, prefix); err != nil {
		return "", err
	}
	log.Ctx(ctx).Info().Stringer("spec", spec).Str("prefix", prefix).Msg("installed")
	return prefix, nil
}
