package main

import (
	"bytes"
	"strings"
	"testing"

	"grayscope/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverrideConfigOnlyChangedFlags(t *testing.T) {
	configPath := ""
	cmd := newApplyCommand(&configPath)
	require.NoError(t, cmd.ParseFlags([]string{"--kernel-size", "7", "--narrow", "saturate"}))

	cfg := config.Default()
	var f applyFlags
	f.kernelSize, _ = cmd.Flags().GetInt("kernel-size")
	f.narrow, _ = cmd.Flags().GetString("narrow")
	overrideConfig(cmd, &cfg, f)

	def := config.Default()
	assert.Equal(t, 7, cfg.Gaussian.KernelSize)
	assert.Equal(t, "saturate", cfg.Processing.Narrow)
	assert.Equal(t, def.Gaussian.Amplitude, cfg.Gaussian.Amplitude)
	assert.Equal(t, def.Equalize.WindowSize, cfg.Equalize.WindowSize)
	assert.Equal(t, def.Processing.Border, cfg.Processing.Border)
	assert.Equal(t, def.Processing.Workers, cfg.Processing.Workers)
}

func TestFiltersCommandListsMenu(t *testing.T) {
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"filters"})
	require.NoError(t, root.Execute())

	lines := strings.Split(out.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 7)
	assert.True(t, strings.HasPrefix(lines[0], "enhance"))
	assert.Contains(t, out.String(), "custom-gaussian")
	assert.Contains(t, out.String(), "local-histeq")
	assert.Contains(t, out.String(), "kernel_size=43")
}

func TestApplyRequiresFlags(t *testing.T) {
	root := newRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"apply", "--filter", "enhance"})
	assert.Error(t, root.Execute())
}
