package common

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/caisse/cmd/root"
	"fjacquet/caisse/internal/config"
	"fjacquet/caisse/internal/container"
	"fjacquet/caisse/internal/logging"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withApp(t *testing.T, format string) *cobra.Command {
	t.Helper()
	cfg := config.Default()
	cfg.Store.DataDir = filepath.Join(t.TempDir(), "data")
	cfg.Auth.DefaultAdminPassword = "secret"
	c, err := container.NewContainer(context.Background(), cfg, container.WithLogger(logging.NewMockLogger()))
	require.NoError(t, err)
	_, err = c.Bootstrap(context.Background())
	require.NoError(t, err)

	saved := root.SharedFlags
	root.SetApp(c)
	root.SharedFlags.Format = format
	root.SharedFlags.Output = ""
	t.Cleanup(func() {
		root.SharedFlags = saved
		root.SetApp(nil)
	})

	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})
	return cmd
}

func output(cmd *cobra.Command) string {
	return cmd.OutOrStdout().(*bytes.Buffer).String()
}

func TestParseID(t *testing.T) {
	id, err := ParseID(" 12 ")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	for _, bad := range []string{"", "0", "-3", "abc", "1.5"} {
		_, err := ParseID(bad)
		assert.Error(t, err, bad)
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	all := Paginate(items, 1, 0)
	assert.Equal(t, items, all.Items)
	assert.Equal(t, 1, all.TotalPages)

	second := Paginate(items, 2, 2)
	assert.Equal(t, []int{3, 4}, second.Items)
	assert.Equal(t, 3, second.TotalPages)
	assert.Equal(t, 5, second.TotalItems)

	empty := Paginate([]int{}, 1, 0)
	assert.Empty(t, empty.Items)
}

func TestRender(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		cmd := withApp(t, FormatTable)
		require.NoError(t, Render(cmd, Names([]string{"L1A", "Second year"})))
		out := output(cmd)
		assert.Contains(t, out, "Name")
		assert.Contains(t, out, "Second year")
		assert.NotContains(t, out, ",")
	})

	t.Run("json", func(t *testing.T) {
		cmd := withApp(t, "json")
		require.NoError(t, Render(cmd, Names([]string{"L1A"})))
		assert.JSONEq(t, `[{"name":"L1A"}]`, output(cmd))
	})

	t.Run("unsupported format", func(t *testing.T) {
		cmd := withApp(t, "xml")
		err := Render(cmd, Names([]string{"L1A"}))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported report format")
	})

	t.Run("output file", func(t *testing.T) {
		cmd := withApp(t, "csv")
		path := filepath.Join(t.TempDir(), "names.csv")
		root.SharedFlags.Output = path
		require.NoError(t, Render(cmd, Names([]string{"L1A"})))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "Name\nL1A\n", string(data))
		assert.Empty(t, output(cmd))
	})
}

func TestWriteOutputFile(t *testing.T) {
	t.Run("table to file", func(t *testing.T) {
		cmd := withApp(t, FormatTable)
		path := filepath.Join(t.TempDir(), "names.txt")
		root.SharedFlags.Output = path
		require.NoError(t, Write(cmd, []byte("Name,Count\nL1A,2\n"), true))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "Name  Count\nL1A   2\n", string(data))
	})

	t.Run("missing directory", func(t *testing.T) {
		cmd := withApp(t, "csv")
		root.SharedFlags.Output = filepath.Join(t.TempDir(), "missing", "out.csv")
		err := Write(cmd, []byte("x\n"), false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open output file")
	})

	t.Run("write failure is returned", func(t *testing.T) {
		if _, err := os.Stat("/dev/full"); err != nil {
			t.Skip("/dev/full not available")
		}
		cmd := withApp(t, "csv")
		root.SharedFlags.Output = "/dev/full"
		err := Write(cmd, []byte("x\n"), false)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to write output file")
	})
}

func TestRenderPage(t *testing.T) {
	t.Run("table footer", func(t *testing.T) {
		cmd := withApp(t, FormatTable)
		require.NoError(t, RenderPage(cmd, Paginate(Names([]string{"a", "b", "c"}), 2, 2)))
		out := output(cmd)
		assert.Contains(t, out, "c")
		assert.Contains(t, out, "page 2/2 (3 items)")
	})

	t.Run("json page object", func(t *testing.T) {
		cmd := withApp(t, "json")
		require.NoError(t, RenderPage(cmd, Paginate(Names([]string{"a"}), 1, 0)))
		assert.JSONEq(t,
			`{"items":[{"name":"a"}],"page":1,"per_page":1,"total_pages":1,"total_items":1}`,
			output(cmd))
	})
}
