package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"stratum/internal/app"
)

type findOptions struct {
	Paths bool
	Long  bool
}

func newFindCommand() *cobra.Command {
	opts := findOptions{}
	cmd := &cobra.Command{
		Use:   "find [query-specs...]",
		Short: "Find installed packages",
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := app.NewService(cmd.Context(), serviceConfig())
			if err != nil {
				return err
			}
			out, err := service.Find(cmd.Context(), app.FindRequest{
				QuerySpecs: args,
				Paths:      opts.Paths,
				Long:       opts.Long,
			})
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&opts.Paths, "paths", "p", false, "Show paths to package install directories")
	cmd.Flags().BoolVarP(&opts.Long, "long", "l", false, "Show full-length specs of installed packages")
	return cmd
}
