package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "shelf", cmd.Use)
	assert.Contains(t, cmd.Long, "content://com.example.android.bookstoreinventory_part1/products")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"list", "show", "add", "update", "delete", "seed", "type"}

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
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	for _, name := range []string{"db", "config", "log-level", "metrics"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "missing --%s", name)
	}
}

func TestListCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	listCmd, _, err := cmd.Find([]string{"list"})
	require.NoError(t, err)

	for _, name := range []string{"all-columns", "sort", "supplier", "in-stock"} {
		assert.NotNil(t, listCmd.Flags().Lookup(name), "missing --%s", name)
	}
}

func TestEditCommandFlags(t *testing.T) {
	cmd := NewRootCommand()

	for _, cmdName := range []string{"add", "update"} {
		t.Run(cmdName, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err)
			for _, name := range []string{"name", "price", "quantity", "supplier", "phone"} {
				assert.NotNil(t, sub.Flags().Lookup(name), "missing --%s", name)
			}
		})
	}
}

func TestDeleteCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	deleteCmd, _, err := cmd.Find([]string{"delete"})
	require.NoError(t, err)

	allFlag := deleteCmd.Flags().Lookup("all")
	require.NotNil(t, allFlag)
	assert.Equal(t, "false", allFlag.DefValue)

	yesFlag := deleteCmd.Flags().Lookup("yes")
	require.NotNil(t, yesFlag)
	assert.Equal(t, "false", yesFlag.DefValue)
}

func TestIsValidFormat(t *testing.T) {
	assert.True(t, isValidFormat("json"))
	assert.True(t, isValidFormat("text"))
	assert.False(t, isValidFormat("yaml"))
	assert.False(t, isValidFormat(""))
}
