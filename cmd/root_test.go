package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetVersion(t *testing.T) {
	original := rootCmd.Version
	t.Cleanup(func() { rootCmd.Version = original })

	SetVersion("1.2.3-test")
	assert.Equal(t, "1.2.3-test", rootCmd.Version)
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "applierctl", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.True(t, rootCmd.SilenceUsage)

	for _, name := range []string{"server", "config", "debug"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "missing --%s", name)
	}
}

func TestVersionTemplate(t *testing.T) {
	testCmd := &cobra.Command{
		Use:     "test",
		Version: "1.0.0",
	}
	testCmd.SetVersionTemplate(`{{printf "applierctl version %s\n" .Version}}`)

	var buf bytes.Buffer
	testCmd.SetOut(&buf)
	testCmd.SetArgs([]string{"--version"})
	require.NoError(t, testCmd.Execute())

	assert.Equal(t, "applierctl version 1.0.0\n", buf.String())
}

func TestVersionCommand(t *testing.T) {
	original := rootCmd.Version
	t.Cleanup(func() { rootCmd.Version = original })
	rootCmd.Version = "0.4.0"

	cmd := newVersionCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "applierctl version 0.4.0\n", buf.String())
}

func TestSubcommands(t *testing.T) {
	found := map[string]*cobra.Command{}
	for _, c := range rootCmd.Commands() {
		found[c.Name()] = c
	}

	for _, name := range []string{"dashboard", "run", "module", "version", "self-update", "fake-server"} {
		assert.Contains(t, found, name)
	}
	assert.True(t, found["fake-server"].Hidden)
}

func TestCommandArgs(t *testing.T) {
	tests := []struct {
		name    string
		cmd     *cobra.Command
		args    []string
		wantErr bool
	}{
		{name: "dashboard without selector", cmd: newDashboardCmd(), args: nil},
		{name: "dashboard with selector", cmd: newDashboardCmd(), args: []string{"dev_network"}},
		{name: "dashboard with two selectors", cmd: newDashboardCmd(), args: []string{"a", "b"}, wantErr: true},
		{name: "run needs namespace and module", cmd: newRunCmd(), args: []string{"dev"}, wantErr: true},
		{name: "run", cmd: newRunCmd(), args: []string{"dev", "network"}},
		{name: "module needs a selector", cmd: newModuleCmd(), args: nil, wantErr: true},
		{name: "module", cmd: newModuleCmd(), args: []string{"dev_network"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Args(tt.cmd, tt.args)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
