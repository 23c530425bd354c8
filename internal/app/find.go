package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"stratum/internal/core"
	"stratum/internal/shared"
)

// FindRequest filters and formats the installed-spec listing.
type FindRequest struct {
	// QuerySpecs keeps only installed specs satisfying at least one
	// query. Empty means everything.
	QuerySpecs []string

	// Paths adds each spec's install prefix; Long prints full trees.
	Paths bool
	Long  bool
}

// Find lists installed specs grouped by architecture, then compiler.
func (s Service) Find(ctx context.Context, req FindRequest) (string, error) {
	queries := make([]*core.Spec, 0, len(req.QuerySpecs))
	for _, raw := range req.QuerySpecs {
		query, err := core.ParseOne(raw)
		if err != nil {
			return "", err
		}
		if err := s.Resolver.Normalize(query); err != nil {
			return "", err
		}
		queries = append(queries, query)
	}

	installed, err := s.DB.InstalledSpecs(ctx)
	if err != nil {
		return "", err
	}
	log.Ctx(ctx).Debug().Int("installed", len(installed)).Msg("loaded install database")

	// Group matching specs by architecture, then compiler.
	byArch := map[string]map[string][]*core.Spec{}
	for _, spec := range installed {
		if !matchesAny(spec, queries, s.Registry) {
			continue
		}
		compiler := ""
		if spec.Compiler != nil {
			compiler = spec.Compiler.String()
		}
		if byArch[spec.Architecture] == nil {
			byArch[spec.Architecture] = map[string][]*core.Spec{}
		}
		byArch[spec.Architecture][compiler] = append(byArch[spec.Architecture][compiler], spec)
	}

	var out strings.Builder
	for _, arch := range sortedStringKeys(byArch) {
		out.WriteString(shared.Hline(arch, '=') + "\n")
		compilers := byArch[arch]
		for _, compiler := range sortedStringKeys(compilers) {
			out.WriteString(shared.Hline(compiler, '-') + "\n")
			specs := compilers[compiler]
			sort.Slice(specs, func(i, j int) bool { return specs[i].String() < specs[j].String() })

			switch {
			case req.Paths:
				if err := s.writePaths(&out, specs); err != nil {
					return "", err
				}
			case req.Long:
				for _, spec := range specs {
					out.WriteString(spec.Tree(core.TreeOptions{Indent: 4, Format: "$_$@$+"}))
				}
			default:
				for _, spec := range specs {
					out.WriteString("    " + spec.Format("$_$@$+$#") + "\n")
				}
			}
		}
	}
	return out.String(), nil
}

// writePaths prints one spec per line with its prefix, aligned.
func (s Service) writePaths(out *strings.Builder, specs []*core.Spec) error {
	abbreviated := make([]string, len(specs))
	width := 0
	for i, spec := range specs {
		abbreviated[i] = spec.Format("$_$@$+$#")
		if len(abbreviated[i]) > width {
			width = len(abbreviated[i])
		}
	}
	for i, spec := range specs {
		prefix, err := s.Layout.PathForSpec(spec)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "    %-*s  %s\n", width, abbreviated[i], prefix)
	}
	return nil
}

// matchesAny reports whether the spec satisfies at least one query, or
// there are no queries at all.
func matchesAny(spec *core.Spec, queries []*core.Spec, reg core.Registry) bool {
	if len(queries) == 0 {
		return true
	}
	for _, query := range queries {
		if spec.Satisfies(query, reg) {
			return true
		}
	}
	return false
}

func sortedStringKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
