package main

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Subcommands(t *testing.T) {
	cmd := newRootCommand(slog.New(slog.NewTextHandler(io.Discard, nil)), new(slog.LevelVar))

	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "migrate")
	assert.NotNil(t, cmd.RunE, "root command should start the service")
}

func TestMigrateCommand_RejectsUnknownDirection(t *testing.T) {
	cmd := newRootCommand(slog.New(slog.NewTextHandler(io.Discard, nil)), new(slog.LevelVar))
	cmd.SetArgs([]string{"migrate", "sideways"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid argument")
}

func TestSetLogLevel(t *testing.T) {
	v := new(slog.LevelVar)
	for level, want := range map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"verbose": slog.LevelInfo,
	} {
		setLogLevel(level, v)
		assert.Equal(t, want, v.Level(), level)
	}
}
