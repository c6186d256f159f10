package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/weft/pkg/adapters/file"
	"github.com/aretw0/weft/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixturePath = "testdata/run.yaml"

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "weft version "))
}

func TestRender(t *testing.T) {
	out, err := execute(t, "render", fixturePath, "{{#sys.query#}} -> {{#classify.label#}}{{#missing.node#}}",
		"--format", "text", "--template-file", "")
	require.NoError(t, err)
	assert.Equal(t, "refund please -> refund\n", out)
}

func TestRender_RejectsUnknownFormat(t *testing.T) {
	_, err := execute(t, "render", fixturePath, "x", "--format", "html", "--template-file", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestRender_TemplateFile(t *testing.T) {
	tmpl := filepath.Join(t.TempDir(), "prompt.txt")
	require.NoError(t, writeFile(tmpl, "label {{#classify.label#}}"))

	out, err := execute(t, "render", fixturePath, "--format", "text", "--template-file", tmpl)
	require.NoError(t, err)
	assert.Equal(t, "label refund\n", out)
}

func TestGet(t *testing.T) {
	out, err := execute(t, "get", fixturePath, "classify.score", "env.api_token")
	require.NoError(t, err)
	assert.Contains(t, out, "classify.score")
	assert.Contains(t, out, "0.93")
	assert.Contains(t, out, "s3cr3t")

	out, err = execute(t, "get", fixturePath, "classify.missing")
	require.Error(t, err)
	assert.Contains(t, out, "classify.missing: not found")
}

func TestSnapshotLifecycle(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(encryptionKeyEnv, "")

	out, err := execute(t, "snapshot", fixturePath, "--dir", dir, "--store", "file",
		"--run-id", "run-42", "--mask-env", "--mask", "")
	require.NoError(t, err)
	assert.Equal(t, "run-42\n", out)

	out, err = execute(t, "runs", "ls", "--dir", dir, "--store", "file")
	require.NoError(t, err)
	assert.Contains(t, out, "- run-42")

	out, err = execute(t, "runs", "inspect", "run-42", "--dir", dir, "--store", "file", "--vars=false")
	require.NoError(t, err)
	var snap domain.RunSnapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, "run-42", snap.RunID)
	for _, v := range snap.Variables {
		if v.Scope() == "env" {
			assert.Equal(t, "***", v.Value)
		}
	}

	out, err = execute(t, "runs", "rm", "run-42", "--dir", dir, "--store", "file", "--all=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed run 'run-42'")

	out, err = execute(t, "runs", "ls", "--dir", dir, "--store", "file")
	require.NoError(t, err)
	assert.Contains(t, out, "No stored runs found.")
}

func TestSnapshot_Encrypted(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(encryptionKeyEnv, strings.Repeat("ab", 32))

	_, err := execute(t, "snapshot", fixturePath, "--dir", dir, "--store", "file",
		"--run-id", "sealed", "--mask-env=false", "--mask", "")
	require.NoError(t, err)

	raw, err := readFile(filepath.Join(dir, ".weft", "runs", "sealed.json"))
	require.NoError(t, err)
	assert.NotContains(t, raw, "s3cr3t")

	out, err := execute(t, "runs", "inspect", "sealed", "--dir", dir, "--store", "file", "--vars")
	require.NoError(t, err)
	assert.Contains(t, out, "env.api_token")
	assert.Contains(t, out, "s3cr3t")
}

func TestOpenStore_BadKey(t *testing.T) {
	t.Setenv(encryptionKeyEnv, "zz")
	_, err := execute(t, "runs", "ls", "--dir", t.TempDir(), "--store", "file")
	require.Error(t, err)
	assert.Contains(t, err.Error(), encryptionKeyEnv)
}

func TestOpenStore_UnknownKind(t *testing.T) {
	t.Setenv(encryptionKeyEnv, "")
	_, err := execute(t, "runs", "ls", "--store", "s3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store")
}

func TestRunsGraph(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(encryptionKeyEnv, "")

	store := file.New(filepath.Join(dir, ".weft", "runs"))
	require.NoError(t, store.Save(context.Background(), &domain.RunSnapshot{
		RunID: "traced",
		History: []domain.NodeResultRecord{
			{Node: domain.NodeRef{ID: "start", Type: "start"}, Result: domain.NodeRunResult{Status: domain.NodeStatusSucceeded}},
			{Node: domain.NodeRef{ID: "llm", Type: "llm"}, Result: domain.NodeRunResult{Status: domain.NodeStatusFailed}},
		},
	}))

	out, err := execute(t, "runs", "graph", "traced", "--dir", dir, "--store", "file")
	require.NoError(t, err)
	assert.Contains(t, out, "start --> llm")
	assert.Contains(t, out, "class llm failed;")
}
