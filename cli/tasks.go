package cli

import (
	"github.com/spf13/cobra"

	"github.com/rodneyosodo/fedmean/pkg/sdk"
)

const (
	DefCoordinatorURL  = "http://localhost:7070"
	DefTLSVerification = false
)

var (
	defOffset uint64 = 0
	defLimit  uint64 = 10

	taskOrgIDs []string
	taskDropNA bool
	taskName   string
)

var fsdk sdk.SDK

func SetSDK(s sdk.SDK) {
	fsdk = s
}

func NewTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks [create|view|list|update|delete|start|results]",
		Short: "Tasks management",
		Long:  `Create, view, list, update, delete and start partial-average tasks.`,
	}

	createCmd := &cobra.Command{
		Use:   "create <column>",
		Short: "Create task",
		Long: `Create a partial-average task for a column.

Examples:
  # Target every organization in the collaboration
  fedmean-cli tasks create age

  # Target specific organizations, dropping missing values
  fedmean-cli tasks create age --orgs org-1,org-2 --drop-na`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			t, err := fsdk.CreateTask(sdk.Task{
				Name: taskName,
				Params: sdk.Params{
					ColumnName: args[0],
					DropNA:     taskDropNA,
				},
				OrgIDs: taskOrgIDs,
			})
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, t)
		},
	}

	createCmd.Flags().StringSliceVar(&taskOrgIDs, "orgs", []string{}, "Organization IDs to target (comma-separated, default all)")
	createCmd.Flags().BoolVar(&taskDropNA, "drop-na", false, "Drop missing values before aggregating")
	createCmd.Flags().StringVar(&taskName, "name", "", "Task name (generated when empty)")

	viewCmd := &cobra.Command{
		Use:   "view <id>",
		Short: "View task",
		Long:  `View task.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			t, err := fsdk.GetTask(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, t)
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long:  `List tasks.`,
		Run: func(cmd *cobra.Command, _ []string) {
			page, err := fsdk.ListTasks(defOffset, defLimit)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, page)
		},
	}

	updateCmd := &cobra.Command{
		Use:   "update <id> <column>",
		Short: "Update task",
		Long:  `Update the column of an existing task.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 2 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			t, err := fsdk.UpdateTask(sdk.Task{
				ID: args[0],
				Params: sdk.Params{
					ColumnName: args[1],
					DropNA:     taskDropNA,
				},
			})
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, t)
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete task",
		Long:  `Delete task.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			if err := fsdk.DeleteTask(args[0]); err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logSuccessCmd(*cmd, "Task deleted")
		},
	}

	startCmd := &cobra.Command{
		Use:   "start <id>",
		Short: "Start task",
		Long:  `Fan the task out to its targeted organizations.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			t, err := fsdk.StartTask(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, t)
		},
	}

	resultsCmd := &cobra.Command{
		Use:   "results <id>",
		Short: "View task results",
		Long:  `View the partial results collected for a task so far.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			results, err := fsdk.GetTaskResults(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, results)
		},
	}

	cmd.AddCommand(createCmd, viewCmd, listCmd, updateCmd, deleteCmd, startCmd, resultsCmd)

	return cmd
}
