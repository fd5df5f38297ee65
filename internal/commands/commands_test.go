package commands

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqve/branchlink/internal/config"
	"github.com/sqve/branchlink/internal/errors"
	"github.com/sqve/branchlink/internal/logger"
	"github.com/sqve/branchlink/internal/platform"
	"github.com/sqve/branchlink/internal/selector"
	"github.com/sqve/branchlink/internal/store"
)

const state = `
[[connections]]
id = 42
organization_id = 7
project_ref = "prod"
supabase_directory = "supabase"
github_branches = ["main", "feature/x"]

[[branches]]
id = "1"
name = "main"
project_ref = "prod"
parent_project_ref = "prod"
git_branch = "main"
is_default = true
`

// setup points the file backend at a fresh state file and captures console output.
func setup(t *testing.T) (statePath string, out, errOut *bytes.Buffer) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	config.SetDefaults()

	statePath = filepath.Join(t.TempDir(), "state.toml")
	require.NoError(t, os.WriteFile(statePath, []byte(state), 0o644))
	viper.Set("backend", config.BackendFile)
	viper.Set("state.path", statePath)
	viper.Set("plain", true)

	out, errOut = &bytes.Buffer{}, &bytes.Buffer{}
	t.Cleanup(logger.SetConsoleOutput(out, errOut))
	return statePath, out, errOut
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetContext(context.Background())
	err := cmd.Execute()
	return buf.String(), err
}

func TestRegistry(t *testing.T) {
	r, err := NewDefaultRegistry()
	require.NoError(t, err)
	assert.Equal(t, []string{"branches", "directory", "production"}, r.List())

	err = r.Register(NewBaseCommand("branches", &cobra.Command{Use: "branches"}))
	assert.ErrorContains(t, err, "already registered")
	assert.Error(t, r.Register(NewBaseCommand("", &cobra.Command{})))

	root := &cobra.Command{Use: "root"}
	require.NoError(t, r.AttachToRoot(root))
	assert.Len(t, root.Commands(), 3)
}

func TestNewBackend(t *testing.T) {
	cfg := config.DefaultConfig()

	cfg.Backend = config.BackendFile
	b, err := NewBackend(cfg)
	require.NoError(t, err)
	assert.IsType(t, &store.Store{}, b)

	cfg.Backend = config.BackendAPI
	cfg.API.Token = "secret"
	cfg.API.Timeout = time.Second
	b, err = NewBackend(cfg)
	require.NoError(t, err)
	assert.IsType(t, &platform.Client{}, b)

	cfg.API.Token = ""
	_, err = NewBackend(cfg)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfigInvalid))

	cfg.Backend = "carrier-pigeon"
	_, err = NewBackend(cfg)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfigInvalid))
}

func TestNewSession(t *testing.T) {
	setup(t)

	s, err := NewSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, s.Connection)
	assert.Nil(t, s.Project)
	assert.Nil(t, s.Org)
	assert.Equal(t, int64(0), s.ConnectionID())

	viper.Set("connection", 42)
	viper.Set("org", 7)
	s, err = NewSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), s.ConnectionID())
	require.NotNil(t, s.Project)
	assert.Equal(t, "prod", s.Project.ParentRef)
	require.NotNil(t, s.Org)
	assert.Equal(t, int64(7), s.Org.ID)

	viper.Set("project", "override")
	s, err = NewSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "override", s.Project.Ref)

	viper.Set("connection", 99)
	_, err = NewSession(context.Background())
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
}

func TestFilterCandidates(t *testing.T) {
	candidates := []selector.Candidate{{Name: "main", Active: true}, {Name: "feature/x"}}

	assert.Equal(t, candidates, filterCandidates(candidates, ""))
	assert.Equal(t, []selector.Candidate{{Name: "feature/x"}}, filterCandidates(candidates, "FEA"))
	assert.Empty(t, filterCandidates(candidates, "nope"))
}

func TestReported(t *testing.T) {
	base := errors.ErrNotFound("connection", 1)

	assert.Nil(t, markReported(nil))
	assert.False(t, IsReported(base))
	assert.True(t, IsReported(markReported(base)))
	assert.True(t, IsReported(fmt.Errorf("wrapped: %w", markReported(base))))
	assert.True(t, errors.IsCode(markReported(base), errors.ErrCodeNotFound))
}

func TestBranchesCommand(t *testing.T) {
	setup(t)
	viper.Set("connection", 42)

	out, err := run(t, NewBranchesCmd())
	require.NoError(t, err)
	assert.Equal(t, "* main\n  feature/x\n", out)

	out, err = run(t, NewBranchesCmd(), "--filter", "fea")
	require.NoError(t, err)
	assert.Equal(t, "  feature/x\n", out)
}

func TestProductionCommands(t *testing.T) {
	_, console, _ := setup(t)
	viper.Set("connection", 42)

	out, err := run(t, NewProductionCmd())
	require.NoError(t, err)
	assert.Equal(t, "main\n", out)

	_, err = run(t, NewProductionCmd(), "set", "feature/x")
	require.NoError(t, err)
	assert.Contains(t, console.String(), "Changed Production Branch to feature/x")

	out, err = run(t, NewProductionCmd())
	require.NoError(t, err)
	assert.Equal(t, "feature/x\n", out)

	_, err = run(t, NewProductionCmd(), "set", "missing")
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
	assert.False(t, IsReported(err))
}

func TestDirectoryCommands(t *testing.T) {
	statePath, console, errOut := setup(t)
	viper.Set("connection", 42)

	out, err := run(t, NewDirectoryCmd())
	require.NoError(t, err)
	assert.Equal(t, "supabase\n", out)

	_, err = run(t, NewDirectoryCmd(), "set", "db")
	assert.True(t, errors.IsCode(err, errors.ErrCodePreconditionMissing))
	assert.False(t, IsReported(err))
	assert.Empty(t, errOut.String())

	viper.Set("org", 8)
	_, err = run(t, NewDirectoryCmd(), "set", "db")
	assert.True(t, IsReported(err))
	assert.Contains(t, errOut.String(), "Failed to update directory")

	viper.Set("org", 7)
	_, err = run(t, NewDirectoryCmd(), "set", "db")
	require.NoError(t, err)
	assert.Contains(t, console.String(), "Successfully updated directory")

	conn, err := store.Open(statePath).GetConnection(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "db", conn.DirectoryPath())

	console.Reset()
	_, err = run(t, NewDirectoryCmd(), "set", "db")
	require.NoError(t, err)
	assert.Equal(t, "Directory is already db\n", console.String())
}
