package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command in an isolated home directory.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Chdir(t.TempDir())

	var stdout, stderr bytes.Buffer
	root := newRootCmd(&app{})
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestAnalyzeDir(t *testing.T) {
	src := t.TempDir()
	java := `public interface Repository { void save(Object o); }`
	require.NoError(t, os.WriteFile(filepath.Join(src, "Repository.java"), []byte(java), 0644))

	stdout, stderr, err := execute(t, "analyze", "--plain", "--dir", src)
	require.NoError(t, err)

	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, "success", report["status"])
	info := report["data"].(map[string]any)["repositoryInfo"].(map[string]any)
	assert.Equal(t, filepath.Base(src), info["repoName"])
	assert.Equal(t, float64(1), info["totalClasses"])
	assert.Contains(t, stderr, "Done! Analyzed 1 files.")
}

func TestAnalyzeDirMarkdown(t *testing.T) {
	src := t.TempDir()
	stdout, _, err := execute(t, "analyze", "--plain", "--format", "markdown", "--dir", src)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "# "), "expected a markdown heading, got %q", stdout)
}

func TestAnalyzeRequiresTarget(t *testing.T) {
	_, _, err := execute(t, "analyze")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--dir")
}

func TestAnalyzeRejectsURLAndDir(t *testing.T) {
	_, _, err := execute(t, "analyze", "--dir", t.TempDir(), "https://github.com/acme/demo")
	require.Error(t, err)
}

func TestAnalyzeUnknownFormat(t *testing.T) {
	_, _, err := execute(t, "analyze", "--plain", "--format", "xml", "--dir", t.TempDir())
	require.Error(t, err)
}

func TestAuthTokenStoresCredentials(t *testing.T) {
	_, stderr, err := execute(t, "auth", "token", "--provider", "github", "--token", "abc123")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Stored token for github.")

	data, err := os.ReadFile(filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "reposcope", "credentials.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "abc123")
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", stdout)
}

func TestAnalyzeSuffixStillParsesJava(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "Main.kt"), []byte("fun main() = println(1)"), 0644))

	stdout, stderr, err := execute(t, "analyze", "--plain", "--suffix", ".kt", "--dir", src)
	require.NoError(t, err)
	assert.Contains(t, stderr, "[1/1] Main.kt (skipped: parse error)")
	assert.Contains(t, stderr, "1 could not be parsed")
	assert.Contains(t, stdout, `"totalClasses": 0`)
}

func TestAnalyzeHelpDocumentsJavaOnlyParsing(t *testing.T) {
	stdout, _, err := execute(t, "analyze", "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "files are always parsed as Java")
}
