package formatter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqve/branchlink/internal/selector"
)

var candidates = []selector.Candidate{
	{Name: "main", Active: true},
	{Name: "feature/x"},
}

func plain(t *testing.T, on bool) {
	t.Helper()
	viper.Set("plain", on)
	t.Cleanup(func() { viper.Set("plain", false) })
}

func TestBranches_PlainText(t *testing.T) {
	plain(t, true)
	var buf bytes.Buffer

	require.NoError(t, Branches(&buf, FormatText, candidates))

	assert.Equal(t, "* main\n  feature/x\n", buf.String())
}

func TestBranches_StyledTable(t *testing.T) {
	plain(t, false)
	var buf bytes.Buffer

	require.NoError(t, Branches(&buf, FormatText, candidates))

	out := buf.String()
	assert.Contains(t, out, "BRANCH")
	assert.Contains(t, out, "main")
	assert.Contains(t, out, "feature/x")
	assert.Contains(t, out, iconActive)
}

func TestBranches_Empty(t *testing.T) {
	plain(t, true)
	var buf bytes.Buffer

	require.NoError(t, Branches(&buf, FormatText, nil))
	assert.Equal(t, "No branches found\n", buf.String())

	buf.Reset()
	require.NoError(t, Branches(&buf, FormatJSON, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestBranches_JSON(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Branches(&buf, FormatJSON, candidates))

	assert.JSONEq(t, `[{"name":"main","active":true},{"name":"feature/x","active":false}]`, buf.String())
}

func TestBranches_YAML(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Branches(&buf, FormatYAML, candidates))

	want := `- name: main
  active: true
- name: feature/x
  active: false
`
	assert.Equal(t, want, buf.String())
}

func TestField(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Field(&buf, FormatText, "production_branch", "main"))
	assert.Equal(t, "main\n", buf.String())

	buf.Reset()
	require.NoError(t, Field(&buf, FormatJSON, "production_branch", "main"))
	assert.JSONEq(t, `{"production_branch":"main"}`, buf.String())

	buf.Reset()
	require.NoError(t, Field(&buf, FormatYAML, "directory", "supabase"))
	assert.Equal(t, "directory: supabase\n", strings.TrimLeft(buf.String(), " "))
}

func TestUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer

	assert.Error(t, Branches(&buf, "csv", candidates))
	assert.Error(t, Field(&buf, "csv", "k", "v"))
}
