package root_test

import (
	"os"
	"testing"

	"fjacquet/caisse/cmd/root"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	root.Init()
	os.Exit(m.Run())
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "caisse", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "petty-cash ledger")
	assert.Contains(t, root.Cmd.Long, "Google spreadsheet")
	assert.True(t, root.Cmd.SilenceUsage)
	assert.NotNil(t, root.Cmd.Run)
	assert.NotNil(t, root.Cmd.PersistentPreRunE)
	assert.NotNil(t, root.Cmd.PersistentPostRun)
}

func TestRootCommand_Flags(t *testing.T) {
	tests := []struct {
		name      string
		shorthand string
		def       string
	}{
		{"user", "u", root.SharedFlags.User},
		{"format", "f", "table"},
		{"output", "o", ""},
		{"backend", "", ""},
		{"data-dir", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := root.Cmd.PersistentFlags().Lookup(tt.name)
			require.NotNil(t, flag)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Equal(t, tt.def, flag.DefValue)
		})
	}
}

func TestRootCommand_Run(t *testing.T) {
	assert.NotPanics(t, func() {
		root.Cmd.Run(&cobra.Command{}, []string{})
	})
}

func TestContext(t *testing.T) {
	assert.NotNil(t, root.Context(&cobra.Command{}))
}

func TestSetApp(t *testing.T) {
	root.SetApp(nil)
	assert.Nil(t, root.App())
	assert.NotNil(t, root.Log)
}
