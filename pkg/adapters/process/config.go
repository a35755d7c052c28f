package process

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/aretw0/graft/pkg/codec"
	"github.com/mitchellh/mapstructure"
)

// CommandConfig describes an allow-listed command exposed as a function module.
type CommandConfig struct {
	Name        string            `mapstructure:"name"`
	Command     string            `mapstructure:"command"`
	Args        []string          `mapstructure:"args"`
	Environment map[string]string `mapstructure:"env"`
	Description string            `mapstructure:"description"`
}

// ConfigFile represents the structure of a commands file.
type ConfigFile struct {
	Commands []CommandConfig `mapstructure:"commands"`
}

// LoadCommands reads a commands file in any structured format and returns
// the commands keyed by name. A missing file yields no commands.
func LoadCommands(path string) (map[string]CommandConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]CommandConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read commands config: %w", err)
	}

	raw, err := codec.Decode(path, data)
	if err != nil {
		return nil, err
	}

	var cfg ConfigFile
	if err := mapstructure.Decode(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	commands := make(map[string]CommandConfig, len(cfg.Commands))
	for _, c := range cfg.Commands {
		if c.Name == "" || c.Command == "" {
			continue
		}
		commands[c.Name] = c
	}
	return commands, nil
}
