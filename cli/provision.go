package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rodneyosodo/fedmean"
)

const (
	configFile     = "fedmean.toml"
	envFile        = ".env"
	filePermission = 0o644
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Provision a collaboration",
	Long: `Interactively provision a collaboration: a shared channel, a
coordinator identity and one node identity bound to an organization
and its local dataset. Writes fedmean.toml and .env.`,
	Run: func(cmd *cobra.Command, _ []string) {
		var (
			channelID   = uuid.NewString()
			orgName     string
			datasetPath string
		)

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Channel ID").
					Description("Shared collaboration channel, generated when left as is").
					Value(&channelID),
				huh.NewInput().
					Title("Organization name").
					Value(&orgName),
				huh.NewInput().
					Title("Local dataset path (CSV)").
					Value(&datasetPath),
			),
		)

		if err := form.Run(); err != nil {
			logErrorCmd(*cmd, err)

			return
		}

		cfg := fedmean.Config{
			Coordinator: fedmean.CoordinatorConfig{
				ClientID:  uuid.NewString(),
				ClientKey: uuid.NewString(),
				ChannelID: channelID,
			},
			Node: fedmean.NodeConfig{
				ClientID:    uuid.NewString(),
				ClientKey:   uuid.NewString(),
				ChannelID:   channelID,
				OrgID:       uuid.NewString(),
				OrgName:     orgName,
				DatasetPath: datasetPath,
			},
		}

		if err := fedmean.SaveConfig(configFile, cfg); err != nil {
			logErrorCmd(*cmd, err)

			return
		}
		logSuccessCmd(*cmd, "Successfully created "+configFile)

		envContent := fmt.Sprintf(`# Fedmean Environment Configuration

# Coordinator Configuration
COORDINATOR_CLIENT_ID=%s
COORDINATOR_CLIENT_KEY=%s
COORDINATOR_CHANNEL_ID=%s

# Node Configuration
NODE_CLIENT_ID=%s
NODE_CLIENT_KEY=%s
NODE_CHANNEL_ID=%s
NODE_ORG_ID=%s
NODE_ORG_NAME=%s
NODE_DATASET_PATH=%s`,
			cfg.Coordinator.ClientID,
			cfg.Coordinator.ClientKey,
			cfg.Coordinator.ChannelID,
			cfg.Node.ClientID,
			cfg.Node.ClientKey,
			cfg.Node.ChannelID,
			cfg.Node.OrgID,
			cfg.Node.OrgName,
			cfg.Node.DatasetPath,
		)

		if err := os.WriteFile(envFile, []byte(envContent), filePermission); err != nil {
			logErrorCmd(*cmd, err)

			return
		}
		logSuccessCmd(*cmd, "Successfully created "+envFile)

		logJSONCmd(*cmd, cfg)
	},
}

func NewProvisionCmd() *cobra.Command {
	return provisionCmd
}
