package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacentio/pawtrail/internal/app"
	"github.com/jacentio/pawtrail/internal/config"
	ptestutil "github.com/jacentio/pawtrail/internal/testutil"
)

// harness runs commands against a fake walker table and a SQLite file that
// both outlive individual invocations.
type harness struct {
	fake   *ptestutil.FakeDynamo
	config string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "pawtrail.yaml")
	content := "sql:\n  driver: sqlite\n  dsn: \"" + filepath.Join(dir, "animals.db") + "\"\nlogging:\n  level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return &harness{fake: ptestutil.NewFakeDynamo(), config: path}
}

func (h *harness) run(args ...string) (string, error) {
	out, _, err := h.runStreams(args...)
	return out, err
}

// runStreams returns stdout and stderr separately.
func (h *harness) runStreams(args ...string) (string, string, error) {
	cmd := NewRootCommandWith(func(ctx context.Context, cfg *config.Config, opts ...app.Option) (*app.App, error) {
		return app.New(ctx, cfg, append(opts, app.WithDynamoClient(h.fake))...)
	})
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", h.config}, args...))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// runJSON runs a command with --format json and decodes the envelope.
func (h *harness) runJSON(t *testing.T, args ...string) (CLIResponse, error) {
	t.Helper()
	out, err := h.run(append([]string{"--format", "json"}, args...)...)
	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), "output: %s", out)
	return resp, err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "pawtrail", cmd.Use)
	assert.Contains(t, cmd.Long, "DynamoDB")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"init"},
		{"walkers", "create"},
		{"walkers", "list"},
		{"walkers", "dogs"},
		{"animals", "create"},
		{"animals", "list"},
		{"audit"},
		{"query"},
	}

	for _, path := range commands {
		t.Run(strings.Join(path, " "), func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err)
			require.NotNil(t, subCmd)
			assert.Equal(t, path[len(path)-1], subCmd.Name())
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
	assert.Equal(t, "c", configFlag.Shorthand)
}

func TestAnimalsCreateFlags(t *testing.T) {
	cmd := NewRootCommand()
	create, _, err := cmd.Find([]string{"animals", "create"})
	require.NoError(t, err)

	for _, name := range []string{"name", "breed", "walker"} {
		assert.NotNil(t, create.Flags().Lookup(name), "flag %s", name)
	}
}

func TestInvalidFormat(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("--format", "xml", "walkers", "list")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestMissingConfig(t *testing.T) {
	h := newHarness(t)
	h.config = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := h.run("walkers", "list")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestInit(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("init")
	require.NoError(t, err)
	assert.Contains(t, out, "Walker table walkers created")
	assert.Contains(t, out, "sqlite")

	out, err = h.run("init")
	require.NoError(t, err)
	assert.Contains(t, out, "Walker table walkers exists")
}

func TestWalkersCreateAndList(t *testing.T) {
	h := newHarness(t)

	resp, err := h.runJSON(t, "walkers", "create", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	walker := resp.Data.(map[string]any)
	assert.Equal(t, "Alice", walker["name"])
	assert.Equal(t, []any{}, walker["animalIds"])

	out, err := h.run("walkers", "list")
	require.NoError(t, err)
	assert.Contains(t, out, walker["id"].(string))
	assert.Contains(t, out, "Alice")
}

func TestAnimalsCreateAssignsWalker(t *testing.T) {
	h := newHarness(t)

	resp, err := h.runJSON(t, "walkers", "create", "Alice")
	require.NoError(t, err)
	walkerID := resp.Data.(map[string]any)["id"].(string)

	resp, err = h.runJSON(t, "animals", "create", "--name", "Ponzu", "--breed", "Pomeranian", "--walker", walkerID)
	require.NoError(t, err)
	animal := resp.Data.(map[string]any)
	assert.Equal(t, float64(1), animal["id"])
	assert.Equal(t, walkerID, animal["walkerId"])

	out, err := h.run("walkers", "dogs", walkerID)
	require.NoError(t, err)
	assert.Contains(t, out, "Ponzu")
	assert.Contains(t, out, "Pomeranian")

	out, err = h.run("animals", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Ponzu")

	out, err = h.run("audit")
	require.NoError(t, err)
	assert.Contains(t, out, "No inconsistencies found.")
}

func TestAnimalsCreateRejected(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"breed too long", []string{"--name", "Rex", "--breed", strings.Repeat("x", 61)}},
		{"malformed walker id", []string{"--name", "Rex", "--breed", "Boxer", "--walker", "W1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			resp, err := h.runJSON(t, append([]string{"animals", "create"}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, "WRITE_REJECTED", resp.Error.Code)

			out, err := h.run("animals", "list")
			require.NoError(t, err)
			assert.Contains(t, out, "No animals.")
		})
	}
}

func TestAnimalsCreatePartialWrite(t *testing.T) {
	h := newHarness(t)

	resp, err := h.runJSON(t, "walkers", "create", "Alice")
	require.NoError(t, err)
	walkerID := resp.Data.(map[string]any)["id"].(string)

	h.fake.Fail = ptestutil.FailOn("UpdateItem", errors.New("throttled"))
	resp, err = h.runJSON(t, "animals", "create", "--name", "Ponzu", "--breed", "Pomeranian", "--walker", walkerID)
	h.fake.Fail = nil

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "PARTIAL_WRITE", resp.Error.Code)
	assert.Equal(t, map[string]any{"animalId": float64(1), "walkerId": walkerID}, resp.Error.Details)

	out, err := h.run("audit")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "missing_reference")
}

func TestVerboseReportsStoreCalls(t *testing.T) {
	h := newHarness(t)

	out, errOut, err := h.runStreams("--verbose", "walkers", "create", "Alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Created walker")
	assert.Contains(t, errOut, "store calls document/put ok: 1")

	_, errOut, err = h.runStreams("-v", "animals", "list")
	require.NoError(t, err)
	assert.Contains(t, errOut, "store calls relational/find_all ok: 1")
	assert.NotContains(t, errOut, "document/put")

	_, errOut, err = h.runStreams("walkers", "list")
	require.NoError(t, err)
	assert.NotContains(t, errOut, "store calls")
}

func TestWalkersDogsInvalidID(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("walkers", "dogs", "W1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestWalkersDogsNotFound(t *testing.T) {
	h := newHarness(t)
	resp, err := h.runJSON(t, "walkers", "dogs", "6f1c2a4e-8d3b-4c5a-9e7f-0a1b2c3d4e5f")
	require.Error(t, err)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestQuery(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("query", `mutation { createWalker(name: "Alice") { name } }`)
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Alice"`)

	out, err = h.run("query", `{ users { name dogs { id } } }`)
	require.NoError(t, err)
	var resp struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, []any{map[string]any{"name": "Alice", "dogs": []any{}}}, resp.Data["users"])
}

func TestQueryFromFileWithVariables(t *testing.T) {
	h := newHarness(t)
	doc := filepath.Join(t.TempDir(), "q.graphql")
	require.NoError(t, os.WriteFile(doc, []byte(`mutation($n: String!) { createWalker(name: $n) { name } }`), 0644))

	out, err := h.run("query", "--file", doc, "--vars", `{"n":"Bob"}`)
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Bob"`)
}

func TestQueryFieldErrors(t *testing.T) {
	h := newHarness(t)

	out, err := h.run("query", `{ cats { id } }`)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "INVALID_SELECTION")
}

func TestQueryBadInput(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("query", `{ users {`)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = h.run("query", "--vars", "not json", `{ users { id } }`)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = h.run("query")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("boom")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad flag")))

	wrapped := WrapExitError(ExitFailure, "create walker failed", errors.New("boom"))
	assert.Equal(t, "create walker failed: boom", wrapped.Error())
}
