package app

import (
	"context"
	"strings"

	"stratum/internal/core"
)

// SpecRequest names the specs to explain.
type SpecRequest struct {
	Specs []string
}

// Spec shows each input spec as parsed, normalized, and concretized
// trees. It is the debugging view of the resolution pipeline.
func (s Service) Spec(ctx context.Context, req SpecRequest) (string, error) {
	var out strings.Builder
	for _, raw := range req.Specs {
		spec, err := core.ParseOne(raw)
		if err != nil {
			return "", err
		}
		out.WriteString("Input spec\n")
		out.WriteString(spec.Tree(core.TreeOptions{Indent: 4}))

		normalized, err := s.Resolver.Normalized(spec)
		if err != nil {
			return "", err
		}
		out.WriteString("Normalized\n")
		out.WriteString(normalized.Tree(core.TreeOptions{Indent: 4}))

		concrete, err := s.Resolver.Concretized(spec)
		if err != nil {
			return "", err
		}
		out.WriteString("Concretized\n")
		out.WriteString(concrete.Tree(core.TreeOptions{Indent: 4}))
	}
	return out.String(), nil
}
