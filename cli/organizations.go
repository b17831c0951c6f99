package cli

import (
	"github.com/spf13/cobra"
)

func NewOrganizationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "organizations [list|view|delete]",
		Short: "Organizations management",
		Long:  `View and manage organizations registered in the collaboration.`,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List organizations",
		Long:  `List organizations in the collaboration.`,
		Run: func(cmd *cobra.Command, _ []string) {
			page, err := fsdk.ListOrganizations(defOffset, defLimit)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, page)
		},
	}

	viewCmd := &cobra.Command{
		Use:   "view <id>",
		Short: "View organization",
		Long:  `View organization.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			o, err := fsdk.GetOrganization(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, o)
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete organization",
		Long:  `Remove an organization from the registry.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			if err := fsdk.DeleteOrganization(args[0]); err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logSuccessCmd(*cmd, "Organization deleted")
		},
	}

	cmd.AddCommand(listCmd, viewCmd, deleteCmd)

	return cmd
}
