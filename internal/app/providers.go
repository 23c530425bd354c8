package app

import (
	"context"
	"strings"

	"stratum/internal/core"
)

// ProvidersRequest names the virtual specs to look up.
type ProvidersRequest struct {
	Virtuals []string
}

// Providers lists, for each virtual spec, the packages able to provide
// it.
func (s Service) Providers(ctx context.Context, req ProvidersRequest) (string, error) {
	var out strings.Builder
	for _, raw := range req.Virtuals {
		vspec, err := core.ParseOne(raw)
		if err != nil {
			return "", err
		}
		providers, err := s.Registry.ProvidersFor(vspec)
		if err != nil {
			return "", err
		}
		out.WriteString(vspec.String() + ":\n")
		if len(providers) == 0 {
			out.WriteString("    (no providers)\n")
			continue
		}
		for _, provider := range providers {
			out.WriteString("    " + provider.Name + "\n")
		}
	}
	return out.String(), nil
}
