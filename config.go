package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"oss.terrastruct.com/xdefer"

	"flock/selection"
)

type Config struct {
	SaveDirectory string          `toml:"save_directory"`
	StartMenu     bool            `toml:"start_menu"`
	Confirmations bool            `toml:"confirmations"`
	Selection     SelectionConfig `toml:"selection"`
}

type SelectionConfig struct {
	DragThreshold    float64 `toml:"drag_threshold"`
	DuplicateOffsetX float64 `toml:"duplicate_offset_x"`
	DuplicateOffsetY float64 `toml:"duplicate_offset_y"`
	HighlightColor   string  `toml:"highlight_color"`
}

func defaultConfig() *Config {
	return &Config{
		StartMenu:     true,
		Confirmations: true,
		Selection: SelectionConfig{
			DragThreshold:    selection.DefaultDragThreshold,
			DuplicateOffsetX: selection.DefaultDuplicateDX,
			DuplicateOffsetY: selection.DefaultDuplicateDY,
			HighlightColor:   selection.DefaultColor,
		},
	}
}

// configPaths lists where the config may live, most preferred first.
func configPaths(home string) []string {
	return []string{
		filepath.Join(home, ".config", "flock", "config.toml"),
		filepath.Join(home, ".flockrc.toml"),
	}
}

// loadConfig reads the first config file found. A missing file gives the
// defaults; a broken one gives the defaults and the error.
func loadConfig() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return defaultConfig(), nil
	}
	for _, p := range configPaths(homeDir) {
		data, err := os.ReadFile(p)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return defaultConfig(), err
		}
		return parseConfig(data, homeDir)
	}
	return defaultConfig(), nil
}

func parseConfig(data []byte, homeDir string) (_ *Config, err error) {
	defer xdefer.Errorf(&err, "failed to parse config")

	config := defaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return defaultConfig(), err
	}

	if dir := config.SaveDirectory; dir != "" {
		if strings.HasPrefix(dir, "~") {
			dir = filepath.Join(homeDir, strings.TrimPrefix(dir, "~"))
		}
		if !filepath.IsAbs(dir) {
			if absPath, err := filepath.Abs(dir); err == nil {
				dir = absPath
			}
		}
		config.SaveDirectory = dir
	}
	return config, nil
}

func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" || filepath.IsAbs(filename) {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}
