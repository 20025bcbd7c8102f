package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/roach88/itemdata/internal/attach"
	"github.com/roach88/itemdata/internal/keys"
	"github.com/roach88/itemdata/internal/store"
)

// fixedID names the instance seeded by seedDB.
var fixedID = uuid.MustParse("0190a7e2-0000-7000-8000-000000000001")

// runCLI executes the root command with args and captures its output.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// newTestDB returns the path of a fresh database.
func newTestDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "items.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())
	return path
}

// seedDB returns a database holding fixedID with a few well-known entries.
func seedDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "items.db")
	st, err := store.Open(path, store.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	defer st.Close()

	data := attach.New(attach.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	inst := attach.RestoreInstance(fixedID, nil)
	data.SetInt(inst, keys.FloatingTicks, 42)
	data.SetBool(inst, keys.ToolEnabled, true)
	data.SetBlockPos(inst, keys.LavaRepairPos, attach.BlockPos{X: 1, Y: 64, Z: -2})
	data.SetStringList(inst, keys.LeftClickAbilities, []string{"ore_scanner"})

	_, err = st.Save(context.Background(), inst)
	require.NoError(t, err)
	return path
}

func newGolden(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
