package main

import (
	"flag"
	"testing"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2/predict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ostigter/portfolio-manager/cmd"
)

func TestCompletionCoversCommands(t *testing.T) {
	global := flag.NewFlagSet("pm", flag.ContinueOnError)
	global.String("config", "pm.toml", "")
	global.Bool("v", false, "")

	root := completion(global, cmd.Commands())
	for _, name := range []string{"buy", "holding", "quarterly", "watch", "help"} {
		assert.Contains(t, root.Sub, name)
	}
	assert.Equal(t, predict.Nothing, root.Flags["v"])
	require.Contains(t, root.Sub["buy"].Flags, "s")
	assert.Equal(t, predict.Something, root.Sub["buy"].Flags["s"])
	assert.Contains(t, root.Sub["watch"].Flags, "serve")
}

func TestRegistered(t *testing.T) {
	commander := subcommands.NewCommander(flag.NewFlagSet("pm", flag.ContinueOnError), "pm")
	cmd.Register(commander)
	assert.True(t, registered(commander, "holding"))
	assert.False(t, registered(commander, "hello"))
}
