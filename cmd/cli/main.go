package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/rodneyosodo/fedmean/cli"
	"github.com/rodneyosodo/fedmean/pkg/sdk"
)

func main() {
	var coordinatorURL string

	rootCmd := &cobra.Command{
		Use:   "fedmean-cli",
		Short: "Fedmean CLI",
		Long:  `Fedmean CLI is a command line interface for running federated averages across organizations.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			sdkConf := sdk.Config{
				CoordinatorURL:  coordinatorURL,
				TLSVerification: cli.DefTLSVerification,
			}
			s := sdk.NewSDK(sdkConf)
			cli.SetSDK(s)
		},
	}

	rootCmd.PersistentFlags().StringVarP(
		&coordinatorURL,
		"coordinator-url",
		"c",
		cli.DefCoordinatorURL,
		"Coordinator service URL",
	)

	rootCmd.AddCommand(cli.NewTasksCmd())
	rootCmd.AddCommand(cli.NewOrganizationsCmd())
	rootCmd.AddCommand(cli.NewAverageCmd())
	rootCmd.AddCommand(cli.NewProvisionCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
