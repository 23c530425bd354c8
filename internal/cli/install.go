package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"stratum/internal/app"
	"stratum/internal/types"
)

type installOptions struct {
	IgnoreDependencies bool
	Dirty              bool
	NoChecksum         bool
}

func newInstallCommand() *cobra.Command {
	opts := installOptions{}
	cmd := &cobra.Command{
		Use:   "install specs...",
		Short: "Build and install packages",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := app.NewService(cmd.Context(), serviceConfig())
			if err != nil {
				return err
			}
			result, err := service.Install(cmd.Context(), app.InstallRequest{
				Specs: args,
				Options: types.BuildOptions{
					IgnoreDependencies: opts.IgnoreDependencies,
					Dirty:              opts.Dirty,
					NoChecksum:         opts.NoChecksum,
				},
			})
			if err != nil {
				return err
			}
			for _, prefix := range result.Prefixes {
				fmt.Println(prefix)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&opts.IgnoreDependencies, "ignore-dependencies", "i", false, "Do not install dependencies of requested packages")
	cmd.Flags().BoolVarP(&opts.Dirty, "dirty", "d", false, "Don't clean up the staging area when the install completes")
	cmd.Flags().BoolVarP(&opts.NoChecksum, "no-checksum", "n", false, "Do not check packages against checksums")
	return cmd
}
