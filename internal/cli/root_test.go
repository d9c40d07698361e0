package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const socialFixture = "testdata/social.yaml"

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(bytes.NewBufferString(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "tqlsh", cmd.Use)
	assert.Contains(t, cmd.Long, "TypeQL")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"classify", "parse", "graph", "shell", "history"}

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

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "", configFlag.DefValue)
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		command string
		flag    string
		short   string
	}{
		{"classify", "tx", "t"},
		{"graph", "fixture", ""},
		{"graph", "db", ""},
		{"graph", "tx", "t"},
		{"graph", "graph", ""},
		{"shell", "fixture", ""},
		{"shell", "db", ""},
		{"shell", "no-history", ""},
		{"shell", "visualise", ""},
		{"history", "session", ""},
		{"history", "type", ""},
		{"history", "history", ""},
	}
	for _, tt := range tests {
		t.Run(tt.command+"/"+tt.flag, func(t *testing.T) {
			sub, _, err := NewRootCommand().Find([]string{tt.command})
			require.NoError(t, err)
			f := sub.Flags().Lookup(tt.flag)
			require.NotNil(t, f)
			assert.Equal(t, tt.short, f.Shorthand)
		})
	}
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	_, err := execute(t, "", "--format", "invalid", "classify", "match $x isa person;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestReadQuery(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetIn(bytes.NewBufferString("match $x isa person;\n"))

	q, err := readQuery(cmd, []string{"-"})
	require.NoError(t, err)
	assert.Equal(t, "match $x isa person;\n", q)

	q, err = readQuery(cmd, []string{"match", "$x", "isa", "person;"})
	require.NoError(t, err)
	assert.Equal(t, "match $x isa person;", q)
}

func TestParseAddress(t *testing.T) {
	addr := parseAddress("social.yaml")
	assert.Equal(t, "fixture", addr.Kind)
	assert.Equal(t, "social.yaml", addr.Address)

	addr = parseAddress("core://localhost:1729")
	assert.Equal(t, "core", addr.Kind)
	assert.Equal(t, "localhost:1729", addr.Address)
}

func TestConfigFlag(t *testing.T) {
	_, err := execute(t, "", "--config", "testdata/missing.cue", "classify", "match $x isa person;")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to load config")
}
