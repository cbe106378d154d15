package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flock/selection"
)

func TestParseConfigDefaults(t *testing.T) {
	t.Parallel()
	config, err := parseConfig(nil, "/home/test")
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), config)
	assert.True(t, config.StartMenu)
	assert.True(t, config.Confirmations)
	assert.Equal(t, selection.DefaultDragThreshold, config.Selection.DragThreshold)
	assert.Equal(t, 20.0, config.Selection.DuplicateOffsetX)
	assert.Equal(t, selection.DefaultDuplicateDY, config.Selection.DuplicateOffsetY)
	assert.Equal(t, selection.DefaultColor, config.Selection.HighlightColor)
}

func TestParseConfigZeroDuplicateOffset(t *testing.T) {
	t.Parallel()
	const data = `
[selection]
duplicate_offset_x = 0.0
duplicate_offset_y = 0.0
`
	config, err := parseConfig([]byte(data), "/home/test")
	require.NoError(t, err)
	assert.Zero(t, config.Selection.DuplicateOffsetX)
	assert.Zero(t, config.Selection.DuplicateOffsetY)
	assert.Equal(t, selection.DefaultDragThreshold, config.Selection.DragThreshold)
}

func TestParseConfig(t *testing.T) {
	t.Parallel()
	const data = `
save_directory = "~/charts"
start_menu = false
confirmations = false

[selection]
drag_threshold = 2.5
duplicate_offset_x = 4.0
highlight_color = "#ff8800"
`
	config, err := parseConfig([]byte(data), "/home/test")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/test", "charts"), config.SaveDirectory)
	assert.False(t, config.StartMenu)
	assert.False(t, config.Confirmations)
	assert.Equal(t, 2.5, config.Selection.DragThreshold)
	assert.Equal(t, 4.0, config.Selection.DuplicateOffsetX)
	assert.Equal(t, selection.DefaultDuplicateDY, config.Selection.DuplicateOffsetY)
	assert.Equal(t, "#ff8800", config.Selection.HighlightColor)
}

func TestParseConfigRelativeDirectory(t *testing.T) {
	t.Parallel()
	config, err := parseConfig([]byte(`save_directory = "charts"`), "/home/test")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(config.SaveDirectory))
	assert.Equal(t, "charts", filepath.Base(config.SaveDirectory))
}

func TestParseConfigInvalid(t *testing.T) {
	t.Parallel()
	config, err := parseConfig([]byte("start_menu = maybe"), "/home/test")
	assert.ErrorContains(t, err, "failed to parse config")
	assert.Equal(t, defaultConfig(), config)
}

func TestGetSavePath(t *testing.T) {
	t.Parallel()
	config := defaultConfig()
	assert.Equal(t, "chart.txt", config.GetSavePath("chart.txt"))

	dir := filepath.Join(t.TempDir(), "charts")
	config.SaveDirectory = dir
	assert.Equal(t, filepath.Join(dir, "chart.txt"), config.GetSavePath("chart.txt"))
	assert.DirExists(t, dir)
	assert.Equal(t, "/abs/chart.txt", config.GetSavePath("/abs/chart.txt"))
}

func TestConfigPaths(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{
		filepath.Join("/home/test", ".config", "flock", "config.toml"),
		filepath.Join("/home/test", ".flockrc.toml"),
	}, configPaths("/home/test"))
}
