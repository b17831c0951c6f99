package fedmean

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

const configFilePermissions = 0o644

type Config struct {
	Coordinator CoordinatorConfig `toml:"coordinator"`
	Node        NodeConfig        `toml:"node"`
}

type CoordinatorConfig struct {
	ClientID  string `toml:"client_id"`
	ClientKey string `toml:"client_key"`
	ChannelID string `toml:"channel_id"`
}

type NodeConfig struct {
	ClientID    string `toml:"client_id"`
	ClientKey   string `toml:"client_key"`
	ChannelID   string `toml:"channel_id"`
	OrgID       string `toml:"org_id"`
	OrgName     string `toml:"org_name"`
	DatasetPath string `toml:"dataset_path"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	tree, err := toml.Load(string(data))
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	var cfg Config
	if err := tree.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

func SaveConfig(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, configFilePermissions); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
