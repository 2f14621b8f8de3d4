package fmftree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTree lays out an fmf metadata tree under a temp dir. Keys are
// slash-separated relative paths, values are file contents.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, ".fmf"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".fmf", "version"), []byte("1\n"), 0o644))

	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return root
}

func TestLoadRequiresVersionMarker(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no fmf metadata found")
}

func TestNodeNaming(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.fmf":             "summary: root\n",
		"tests/smoke.fmf":      "summary: smoke test\n",
		"tests/core/main.fmf":  "summary: core\n",
		"tests/core/basic.fmf": "summary: basic\n",
	})

	tree, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, []string{"/", "/tests/core", "/tests/core/basic", "/tests/smoke"}, tree.Names())

	node, ok := tree.Find("/tests/smoke")
	require.True(t, ok)
	assert.Equal(t, "smoke test", node["summary"])
}

func TestInheritanceFromParentDirectories(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.fmf":            "duration: 5m\ntier: 1\n",
		"tests/main.fmf":      "framework: shell\n",
		"tests/smoke.fmf":     "summary: smoke\n",
		"tests/override.fmf":  "summary: override\nduration: 10m\n",
		"plans/ci.fmf":        "summary: ci plan\n",
	})

	tree, err := Load(root)
	require.NoError(t, err)

	smoke, ok := tree.Find("/tests/smoke")
	require.True(t, ok)
	assert.Equal(t, "5m", smoke["duration"])
	assert.Equal(t, "shell", smoke["framework"])
	assert.Equal(t, 1, smoke["tier"])

	// A leaf's own data wins over inherited data.
	override, ok := tree.Find("/tests/override")
	require.True(t, ok)
	assert.Equal(t, "10m", override["duration"])

	// Inheritance does not leak sideways.
	ci, ok := tree.Find("/plans/ci")
	require.True(t, ok)
	assert.Equal(t, "5m", ci["duration"])
	assert.NotContains(t, ci, "framework")
}

func TestKeyPlusMerge(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.fmf":        "tag:\n  - stable\nduration: 5m\n",
		"tests/long.fmf":  "tag+:\n  - slow\nduration+: +10m\n",
		"tests/plain.fmf": "tag:\n  - only\n",
	})

	tree, err := Load(root)
	require.NoError(t, err)

	long, ok := tree.Find("/tests/long")
	require.True(t, ok)
	assert.Equal(t, []any{"stable", "slow"}, long["tag"])
	assert.Equal(t, "5m+10m", long["duration"])

	// Without "+" the child value replaces the inherited one.
	plain, ok := tree.Find("/tests/plain")
	require.True(t, ok)
	assert.Equal(t, []any{"only"}, plain["tag"])
}

func TestVirtualChildren(t *testing.T) {
	root := writeTree(t, map[string]string{
		"tests/variants.fmf": `summary: shared
framework: shell

/fast:
    duration: 1m
/slow:
    duration: 1h
    summary: slow variant
`,
	})

	tree, err := Load(root)
	require.NoError(t, err)

	fast, ok := tree.Find("/tests/variants/fast")
	require.True(t, ok)
	assert.Equal(t, "1m", fast["duration"])
	assert.Equal(t, "shared", fast["summary"])
	assert.Equal(t, "shell", fast["framework"])

	slow, ok := tree.Find("/tests/variants/slow")
	require.True(t, ok)
	assert.Equal(t, "slow variant", slow["summary"])

	// The branch itself is not addressable once children exist.
	_, ok = tree.Find("/tests/variants")
	assert.False(t, ok)
}

func TestRootMainWithVirtualChildren(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.fmf": `summary: shared

/a:
    order: 1
/b:
    order: 2
`,
	})

	tree, err := Load(root)
	require.NoError(t, err)

	a, ok := tree.Find("/a")
	require.True(t, ok)
	assert.Equal(t, 1, a["order"])
	assert.Equal(t, "shared", a["summary"])
}

func TestSkipsGitAndFmfDirectories(t *testing.T) {
	root := writeTree(t, map[string]string{
		"tests/smoke.fmf": "summary: smoke\n",
	})
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".git", "junk.fmf"), []byte("bad: [\n"), 0o644))

	tree, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"/tests/smoke"}, tree.Names())
}

func TestLeafNamedLikeDirectoryIsNotMain(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a/b/b.fmf": "summary: leaf\n",
	})

	tree, err := Load(root)
	require.NoError(t, err)

	node, ok := tree.Find("/a/b/b")
	require.True(t, ok)
	assert.Equal(t, "leaf", node["summary"])
}
