package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"stratum/internal/app"
)

func newProvidersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "providers vpkg...",
		Short: "List packages that provide a virtual package",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := app.NewService(cmd.Context(), serviceConfig())
			if err != nil {
				return err
			}
			out, err := service.Providers(cmd.Context(), app.ProvidersRequest{Virtuals: args})
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}
}
