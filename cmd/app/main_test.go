package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskhub/internal/config"
	"github.com/BuzzLyutic/taskhub/internal/testutil"
)

func newTestApp(t *testing.T, root string) *App {
	t.Helper()
	return &App{
		cfg: config.Config{
			Store:       config.StoreVault,
			VaultDir:    root,
			WorkerCount: 2,
		},
		logger:   zap.NewNop(),
		settings: config.NewSettingsFile(filepath.Join(t.TempDir(), "settings.yaml")),
	}
}

func run(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	root := testutil.WriteVault(t, map[string]string{
		"a.md": "- [ ] Low one @priority(Low)\n- [ ] Top one @priority(High)\n",
	})
	app := newTestApp(t, root)

	out, err := run(t, app, "list", "--sort", "Priority")
	require.NoError(t, err)

	assert.Contains(t, out, "(2 tasks)")
	assert.Contains(t, out, "a.md:2")
	assert.Less(t, bytes.Index([]byte(out), []byte("Top one")), bytes.Index([]byte(out), []byte("Low one")))

	_, err = run(t, app, "list", "--quick", "month")
	assert.Error(t, err)
}

func TestSetCommand(t *testing.T) {
	root := testutil.WriteVault(t, map[string]string{"a.md": "- [ ] Pay rent\n"})
	app := newTestApp(t, root)

	out, err := run(t, app, "set", "a.md", "1", "due", "2024-02-01")
	require.NoError(t, err)
	assert.Equal(t, "- [ ] Pay rent @due(2024-02-01)\n", out)

	data, err := os.ReadFile(filepath.Join(root, "a.md"))
	require.NoError(t, err)
	assert.Equal(t, "- [ ] Pay rent @due(2024-02-01)\n", string(data))

	_, err = run(t, app, "set", "a.md", "1", "due")
	require.NoError(t, err)
	data, err = os.ReadFile(filepath.Join(root, "a.md"))
	require.NoError(t, err)
	assert.Equal(t, "- [ ] Pay rent\n", string(data))

	_, err = run(t, app, "set", "a.md", "one", "due", "x")
	assert.Error(t, err)
}

func TestSettingsCommand(t *testing.T) {
	app := newTestApp(t, t.TempDir())

	out, err := run(t, app, "settings")
	require.NoError(t, err)
	assert.Equal(t, "show_file_path: true\nshow_due_only: false\n", out)

	out, err = run(t, app, "settings", "--show-due-only")
	require.NoError(t, err)
	assert.Contains(t, out, "show_due_only: true")

	s, err := app.settings.Load()
	require.NoError(t, err)
	assert.True(t, s.ShowDueOnly)
	assert.True(t, s.ShowFilePath)
}

func TestOpenStore_Errors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	app := newTestApp(t, filepath.Join(t.TempDir(), "missing"))
	_, _, err := app.openStore(ctx)
	assert.Error(t, err)

	app.cfg.Store = "s3"
	_, _, err = app.openStore(ctx)
	assert.Error(t, err)
}

func TestImportCommand(t *testing.T) {
	pool, cleanup := testutil.SetupTestDB(t)
	defer cleanup()
	testutil.TruncateTables(t, pool)

	root := testutil.WriteVault(t, map[string]string{
		"a.md":     "- [ ] one\n",
		"sub/b.md": "- [x] two\n",
		"skip.txt": "- [ ] ignored\n",
	})
	app := newTestApp(t, root)
	app.cfg.DatabaseURL = pool.Config().ConnString()

	out, err := run(t, app, "import")
	require.NoError(t, err)
	assert.Equal(t, "imported 2 of 2 documents\n", out)

	out, err = run(t, app, "list", "--store", config.StorePostgres)
	require.NoError(t, err)
	assert.Contains(t, out, "(2 tasks)")
	assert.Contains(t, out, "sub/b.md:1")
}
