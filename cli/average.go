package cli

import (
	"github.com/spf13/cobra"

	"github.com/rodneyosodo/fedmean/pkg/sdk"
)

var (
	avgOrgIDs []string
	avgDropNA bool
)

func NewAverageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "average <column>",
		Short: "Run a federated average",
		Long: `Run the federated average of a column across the collaboration
and print the combined result. Blocks until every targeted organization
has reported its partial.

Examples:
  # Average "age" over all organizations
  fedmean-cli average age

  # Average over two organizations, dropping missing values
  fedmean-cli average age --orgs org-1,org-2 --drop-na`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			res, err := fsdk.Average(sdk.AverageRequest{
				ColumnName: args[0],
				OrgIDs:     avgOrgIDs,
				DropNA:     avgDropNA,
			})
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, res)
		},
	}

	cmd.Flags().StringSliceVar(&avgOrgIDs, "orgs", []string{}, "Organization IDs to target (comma-separated, default all)")
	cmd.Flags().BoolVar(&avgDropNA, "drop-na", false, "Drop missing values before aggregating")

	return cmd
}
