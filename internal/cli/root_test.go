package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/carparks/internal/config"
	"github.com/stwalsh4118/carparks/internal/repository"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand(&RootOptions{})
	require.NotNil(t, cmd)
	assert.Equal(t, "carparkctl", cmd.Use)
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(&RootOptions{})
	commands := []string{"ingest", "dedupe", "repair", "summary", "purge"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand(&RootOptions{})

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		command   string
		flag      string
		shorthand string
	}{
		{"ingest", "strict", ""},
		{"repair", "yes", "y"},
		{"repair", "delete-unresolved", ""},
		{"purge", "force", "f"},
	}

	for _, tt := range tests {
		t.Run(tt.command+"/"+tt.flag, func(t *testing.T) {
			cmd := NewRootCommand(&RootOptions{})
			subCmd, _, err := cmd.Find([]string{tt.command})
			require.NoError(t, err)

			flag := subCmd.Flags().Lookup(tt.flag)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Equal(t, "false", flag.DefValue)
		})
	}
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	opened := false
	opts := &RootOptions{
		OpenStore: func(ctx context.Context) (*repository.Store, error) {
			opened = true
			return nil, errors.New("unexpected open")
		},
	}
	cmd := NewRootCommand(opts)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--format", "xml", "summary"})

	err := cmd.Execute()

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "xml")
	assert.False(t, opened, "no store is opened for a rejected command line")
}

func TestRootCommand_StoreUnavailable(t *testing.T) {
	opts := &RootOptions{
		OpenStore: func(ctx context.Context) (*repository.Store, error) {
			return nil, errors.New("connection refused")
		},
	}
	cmd := NewRootCommand(opts)
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"dedupe"})

	err := cmd.Execute()

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out.String(), "Error [STORE_ERROR]")
}

func TestRootCommand_NoStoreConfigured(t *testing.T) {
	cmd := NewRootCommand(&RootOptions{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"summary"})

	err := cmd.Execute()
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestDefaultOptions(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{Env: "production"},
		Ingest: config.IngestConfig{DatasetPath: "data/carparks.csv"},
	}

	opts := DefaultOptions(cfg)

	assert.Equal(t, "text", opts.Format)
	assert.Equal(t, "production", opts.Env)
	assert.Equal(t, "data/carparks.csv", opts.DatasetPath)
	assert.NotNil(t, opts.OpenStore)
}

func TestRootCommand_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"purge", "--bogus"}},
		{"unexpected argument", []string{"dedupe", "extra"}},
		{"too many paths", []string{"ingest", "a.csv", "b.csv"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewRootCommand(&RootOptions{})
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(tt.args)

			err := cmd.Execute()

			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}
