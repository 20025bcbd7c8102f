package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/itemdata/internal/attach"
	"github.com/roach88/itemdata/internal/store"
)

func TestNewCreatesInstance(t *testing.T) {
	db := newTestDB(t)

	out, _, err := runCLI(t, "new", "--db", db)
	require.NoError(t, err)
	id, err := uuid.Parse(trimmed(out))
	require.NoError(t, err)

	out, _, err = runCLI(t, "dump", id.String(), "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "{}", trimmed(out))
}

func TestNewWithInitialEntries(t *testing.T) {
	db := newTestDB(t)

	out, _, err := runCLI(t, "new", "--db", db, "--set", "floatingticks=5", "--set", "tool_enabled=1b")
	require.NoError(t, err)
	id := trimmed(out)

	out, _, err = runCLI(t, "get", id, "floatingticks", "--kind", "int", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "5", trimmed(out))

	out, _, err = runCLI(t, "get", id, "tool_enabled", "--kind", "bool", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "true", trimmed(out))
}

func TestNewRejectsBadSet(t *testing.T) {
	db := newTestDB(t)

	out, _, err := runCLI(t, "new", "--db", db, "--set", "novalue")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E003]")

	_, _, err = runCLI(t, "new", "--db", db, "--set", "k={x:")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	out, _, err = runCLI(t, "list", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "No instances", trimmed(out), "failed new must not save")
}

func TestGetRaw(t *testing.T) {
	db := seedDB(t)

	out, _, err := runCLI(t, "get", fixedID.String(), "lavapos", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "{x:1,y:64,z:-2}", trimmed(out))
}

func TestGetWithKind(t *testing.T) {
	db := seedDB(t)
	id := fixedID.String()

	tests := []struct {
		key  string
		kind string
		want string
	}{
		{"floatingticks", "int", "42"},
		{"tool_enabled", "bool", "true"},
		{"lavapos", "blockpos", "1,64,-2"},
		{"lavapos", "compound", "{x:1,y:64,z:-2}"},
		{"left_click_abilities", "list", `["ore_scanner"]`},
	}

	for _, tt := range tests {
		t.Run(tt.key+"_"+tt.kind, func(t *testing.T) {
			out, _, err := runCLI(t, "get", id, tt.key, "--kind", tt.kind, "--db", db)
			require.NoError(t, err)
			assert.Equal(t, tt.want, trimmed(out))
		})
	}
}

func TestGetKindMismatch(t *testing.T) {
	db := seedDB(t)

	out, _, err := runCLI(t, "get", fixedID.String(), "tool_enabled", "--kind", "int", "--db", db)

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E104]")
	assert.Contains(t, out, `key "tool_enabled" does not hold int`)
}

func TestGetStrictComposite(t *testing.T) {
	db := seedDB(t)

	// lavapos lacks a dimension, so it is not a global position.
	_, _, err := runCLI(t, "get", fixedID.String(), "lavapos", "--kind", "globalpos", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestGetAbsentKey(t *testing.T) {
	db := seedDB(t)

	out, _, err := runCLI(t, "get", fixedID.String(), "forge_energy", "--db", db)

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}

func TestGetUnknownKind(t *testing.T) {
	db := seedDB(t)

	out, _, err := runCLI(t, "get", fixedID.String(), "floatingticks", "--kind", "float", "--db", db)

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, `unknown kind "float"`)
}

func TestGetJSON(t *testing.T) {
	db := seedDB(t)

	out, _, err := runCLI(t, "get", fixedID.String(), "floatingticks", "--kind", "int", "--db", db, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   entryResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "floatingticks", resp.Data.Key)
	assert.Equal(t, "int", resp.Data.Kind)
	assert.Equal(t, "42", resp.Data.Value)
	assert.Equal(t, "42", resp.Data.SNBT)
}

func TestSetAndSkipUnchanged(t *testing.T) {
	db := seedDB(t)
	id := fixedID.String()

	out, _, err := runCLI(t, "set", id, "floatingticks", "7", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "updated floatingticks", trimmed(out))

	out, _, err = runCLI(t, "set", id, "floatingticks", "7", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "unchanged", trimmed(out))

	out, _, err = runCLI(t, "get", id, "floatingticks", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "7", trimmed(out))

	out, _, err = runCLI(t, "list", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "rev 2")
}

func TestSetReplacesKind(t *testing.T) {
	db := seedDB(t)
	id := fixedID.String()

	_, _, err := runCLI(t, "set", id, "floatingticks", `"soon"`, "--db", db)
	require.NoError(t, err)

	out, _, err := runCLI(t, "get", id, "floatingticks", "--kind", "string", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "soon", trimmed(out))
}

func TestSetInvalidValue(t *testing.T) {
	db := seedDB(t)

	out, _, err := runCLI(t, "set", fixedID.String(), "lavapos", "{x:", "--db", db)

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E003]")
}

func TestHasAndRemove(t *testing.T) {
	db := seedDB(t)
	id := fixedID.String()

	out, _, err := runCLI(t, "has", id, "tool_enabled", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "true", trimmed(out))

	out, _, err = runCLI(t, "remove", id, "tool_enabled", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "updated tool_enabled", trimmed(out))

	out, _, err = runCLI(t, "has", id, "tool_enabled", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "false", trimmed(out))

	// Removing again is a no-op.
	out, _, err = runCLI(t, "remove", id, "tool_enabled", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "unchanged", trimmed(out))
}

func TestToggle(t *testing.T) {
	db := seedDB(t)
	id := fixedID.String()

	out, _, err := runCLI(t, "toggle", id, "tool_enabled", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "false", trimmed(out))

	out, _, err = runCLI(t, "toggle", id, "portal_gun_stay_open", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "true", trimmed(out))

	out, _, err = runCLI(t, "toggle", id, "epic_arrow", "--default", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "false", trimmed(out))
}

func TestDumpGolden(t *testing.T) {
	db := seedDB(t)
	g := newGolden(t)

	out, _, err := runCLI(t, "dump", fixedID.String(), "--db", db)
	require.NoError(t, err)
	g.Assert(t, "dump_text", []byte(out))

	out, _, err = runCLI(t, "dump", fixedID.String(), "--db", db, "--format", "json")
	require.NoError(t, err)
	g.Assert(t, "dump_json", []byte(out))
}

func TestList(t *testing.T) {
	db := seedDB(t)

	out, _, err := runCLI(t, "list", "--db", db)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, fixedID.String()+"  rev 1  "))

	out, _, err = runCLI(t, "list", "--db", db, "--format", "json")
	require.NoError(t, err)
	var resp struct {
		Data listResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Instances, 1)
	hash := resp.Data.Instances[0].Hash
	assert.Len(t, hash, 64)

	out, _, err = runCLI(t, "list", "--db", db, "--hash", hash)
	require.NoError(t, err)
	assert.Contains(t, out, fixedID.String())

	out, _, err = runCLI(t, "list", "--db", db, "--hash", "0000")
	require.NoError(t, err)
	assert.Equal(t, "No instances", trimmed(out))
}

func TestKeys(t *testing.T) {
	out, _, err := runCLI(t, "keys")
	require.NoError(t, err)
	assert.Contains(t, out, "floatingticks")
	assert.Contains(t, out, "list<string>")

	out, _, err = runCLI(t, "keys", "--format", "json")
	require.NoError(t, err)
	var resp struct {
		Data keysResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.NotEmpty(t, resp.Data.Keys)
}

func TestKeysWithRegistryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extra.yaml")
	require.NoError(t, os.WriteFile(path, []byte("keys:\n  - name: charge_level\n    kind: int\n"), 0o644))

	out, _, err := runCLI(t, "keys", "--registry", path)
	require.NoError(t, err)
	assert.Contains(t, out, "charge_level")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("keys:\n  - name: floatingticks\n    kind: string\n"), 0o644))
	out, _, err = runCLI(t, "keys", "--registry", bad)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E110]")
}

func TestCheck(t *testing.T) {
	db := seedDB(t)
	id := fixedID.String()

	out, _, err := runCLI(t, "check", id, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "matches the key registry")

	_, _, err = runCLI(t, "set", id, "charge_level", "100", "--db", db)
	require.NoError(t, err)
	_, _, err = runCLI(t, "set", id, "tool_enabled", "1", "--db", db)
	require.NoError(t, err)

	out, _, err = runCLI(t, "check", id, "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E111]")
	assert.Contains(t, out, "charge_level: unknown key holding int")
	assert.Contains(t, out, "tool_enabled: declared bool, stored int")

	path := filepath.Join(t.TempDir(), "extra.cue")
	require.NoError(t, os.WriteFile(path, []byte(`keys: charge_level: kind: "int"`+"\n"), 0o644))
	out, _, err = runCLI(t, "check", id, "--db", db, "--registry", path)
	require.Error(t, err)
	assert.NotContains(t, out, "charge_level")
}

func TestExportImport(t *testing.T) {
	db := seedDB(t)
	file := filepath.Join(t.TempDir(), "item.dat")

	out, _, err := runCLI(t, "export", fixedID.String(), file, "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "exported "+fixedID.String())

	other := newTestDB(t)
	out, _, err = runCLI(t, "import", file, "--db", other)
	require.NoError(t, err)
	assert.Contains(t, out, "imported "+fixedID.String())

	want, _, err := runCLI(t, "dump", fixedID.String(), "--db", db)
	require.NoError(t, err)
	got, _, err := runCLI(t, "dump", fixedID.String(), "--db", other)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	out, _, err = runCLI(t, "import", file, "--db", other, "--new-id")
	require.NoError(t, err)
	assert.NotContains(t, out, fixedID.String())

	out, _, err = runCLI(t, "list", "--db", other)
	require.NoError(t, err)
	assert.Len(t, strings.Split(trimmed(out), "\n"), 2)
}

func TestImportRejectsGarbage(t *testing.T) {
	db := newTestDB(t)
	file := filepath.Join(t.TempDir(), "junk.dat")
	require.NoError(t, os.WriteFile(file, []byte("not gzip"), 0o644))

	out, _, err := runCLI(t, "import", file, "--db", db)

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E004]")
}

func TestVerify(t *testing.T) {
	db := seedDB(t)

	out, _, err := runCLI(t, "verify", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "✓ 1 instance(s) verified", trimmed(out))
}

func TestDataCommandsRequireDB(t *testing.T) {
	out, _, err := runCLI(t, "dump", fixedID.String())

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "--db is required")
}

func TestInvalidInstanceID(t *testing.T) {
	db := newTestDB(t)

	out, _, err := runCLI(t, "dump", "not-a-uuid", "--db", db)

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, `invalid instance id "not-a-uuid"`)
}

func TestUnknownInstance(t *testing.T) {
	db := newTestDB(t)

	out, _, err := runCLI(t, "has", uuid.NewString(), "floatingticks", "--db", db)

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}

func TestOpenFailure(t *testing.T) {
	out, _, err := runCLI(t, "list", "--db", "/nonexistent/dir/items.db")

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E002]")
}

func TestJSONErrorOutput(t *testing.T) {
	db := newTestDB(t)

	out, _, err := runCLI(t, "dump", uuid.NewString(), "--db", db, "--format", "json")
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
}

func TestDumpNonFiniteDoubles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.db")
	st, err := store.Open(path)
	require.NoError(t, err)
	data := attach.New()
	inst := attach.RestoreInstance(fixedID, nil)
	data.SetDouble(inst, "speed", math.NaN())
	data.SetDouble(inst, "reach", math.Inf(1))
	data.SetDouble(inst, "drop", math.Inf(-1))
	_, err = st.Save(context.Background(), inst)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, _, err := runCLI(t, "dump", fixedID.String(), "--db", path)
	require.NoError(t, err)
	assert.Equal(t, "{drop:-Infinityd,reach:Infinityd,speed:NaNd}", trimmed(out))

	out, _, err = runCLI(t, "get", fixedID.String(), "reach", "--kind", "double", "--db", path)
	require.NoError(t, err)
	assert.Equal(t, "+Inf", trimmed(out))

	// Text written by dump is accepted back by set.
	_, _, err = runCLI(t, "set", fixedID.String(), "copy", "NaNd", "--db", path)
	require.NoError(t, err)
	out, _, err = runCLI(t, "get", fixedID.String(), "copy", "--db", path)
	require.NoError(t, err)
	assert.Equal(t, "NaNd", trimmed(out))

	_, _, err = runCLI(t, "dump", fixedID.String(), "--db", path, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSetRejectsMixedList(t *testing.T) {
	db := seedDB(t)

	out, _, err := runCLI(t, "set", fixedID.String(), "k", `[1,"a"]`, "--db", db)

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E003]")
	assert.NotContains(t, out, "E007")
}

func TestVerifyReportsCorruptID(t *testing.T) {
	db := seedDB(t)
	conn, err := sql.Open("sqlite3", db)
	require.NoError(t, err)
	_, err = conn.Exec(`UPDATE instances SET id = 'not-a-uuid'`)
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	out, _, err := runCLI(t, "verify", "--db", db)

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E112]: 1 of 1 instance(s) failed verification")

	out, _, err = runCLI(t, "verify", "--db", db, "--format", "json")
	require.Error(t, err)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeCorrupt, resp.Error.Code)
	details, ok := resp.Error.Details.([]interface{})
	require.True(t, ok)
	require.Len(t, details, 1)
	assert.Equal(t, "not-a-uuid", details[0].(map[string]interface{})["id"])
}
