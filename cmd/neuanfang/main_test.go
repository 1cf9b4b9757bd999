package main

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/neuanfang/internal/db"
	"github.com/erazemk/neuanfang/internal/model"
	"github.com/erazemk/neuanfang/internal/store"
)

func TestLevelRouterSplitsByLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger := slog.New(newLevelRouter(slog.LevelInfo, &stdout, &stderr)).With("box", "b1")

	logger.Debug("hidden")
	logger.Info("packed")
	logger.Warn("slow")
	logger.Error("failed")

	assert.NotContains(t, stdout.String(), "hidden")
	assert.Contains(t, stdout.String(), "msg=packed box=b1")
	assert.Contains(t, stdout.String(), "msg=slow")
	assert.NotContains(t, stdout.String(), "failed")
	assert.Contains(t, stderr.String(), "msg=failed box=b1")
}

func TestEnsureOwner(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	password, err := ensureOwner(ctx, database, "anna")
	require.NoError(t, err)
	assert.Len(t, password, 16)

	u, err := store.GetUserByUsername(ctx, database, "anna")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, model.RoleOwner, u.Role)

	again, err := ensureOwner(ctx, database, "anna")
	require.NoError(t, err)
	assert.Empty(t, again, "existing accounts are left alone")
}

// runCLI executes the root command in a clean working directory.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	exportFormat, exportOut, exportSummary = "", "", false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func seed(t *testing.T, path string) {
	t.Helper()
	ctx := context.Background()
	database, err := openDatabase(ctx, path)
	require.NoError(t, err)
	defer database.Close()

	room, err := store.CreateRoom(ctx, database, model.RoomInput{Name: "Küche", Type: model.RoomKitchen})
	require.NoError(t, err)
	box, err := store.CreateBox(ctx, database, room.ID, model.BoxInput{Name: "Geschirr", Priority: model.PriorityHigh.Ptr()})
	require.NoError(t, err)
	_, err = store.CreateItem(ctx, database, box.ID, model.ItemInput{Name: "Teller", IsFragile: true, EstimatedValue: decimal.NewFromInt(20)})
	require.NoError(t, err)
	require.NoError(t, store.SetBoxPacked(ctx, database, box.ID, true))
}

func TestInitCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "umzug.sqlite3")

	out, err := runCLI(t, "init", "--db", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Owner account created")
	assert.Contains(t, out, "Username: admin")

	_, err = runCLI(t, "init", "--db", path)
	assert.ErrorContains(t, err, "already exists")
}

func TestExportAndStatsCommands(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "umzug.sqlite3")
	seed(t, path)

	out, err := runCLI(t, "export", "--db", path)
	require.NoError(t, err)
	assert.Equal(t, `"Raum","Karton","Gegenstand","Wert","Zerbrechlich"`+"\n"+`"Küche","Geschirr","Teller",20.00,Ja`+"\n", out)

	_, err = runCLI(t, "export", "--db", path, "--format", "xlsx")
	assert.ErrorContains(t, err, "--out")

	xlsx := filepath.Join(t.TempDir(), "umzug.xlsx")
	_, err = runCLI(t, "export", "--db", path, "--format", "xlsx", "--out", xlsx)
	require.NoError(t, err)
	assert.FileExists(t, xlsx)

	out, err = runCLI(t, "export", "--db", path, "--summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Kartons: 1 (1 gepackt)")

	out, err = runCLI(t, "stats", "--db", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Boxes:    1 (1 packed)")
	assert.Contains(t, out, "Progress: 100%")
}

func TestSyncCommandWithoutRemote(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("NEUANFANG_SYNC_URL", "")
	path := filepath.Join(t.TempDir(), "umzug.sqlite3")

	_, err := runCLI(t, "sync", "--db", path)
	assert.ErrorContains(t, err, "disabled")
}
