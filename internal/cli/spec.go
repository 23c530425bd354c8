package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"stratum/internal/app"
)

func newSpecCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "spec specs...",
		Short: "Show parsed, normalized, and concretized forms of specs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := app.NewService(cmd.Context(), serviceConfig())
			if err != nil {
				return err
			}
			out, err := service.Spec(cmd.Context(), app.SpecRequest{Specs: args})
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}
}
