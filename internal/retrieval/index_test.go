package retrieval

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeContent(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDirHTML(t *testing.T) {
	dir := t.TempDir()
	writeContent(t, dir, "pricing.html", `<html>
<head><title>Pricing | Acme Cloud</title><script>var x = "noise";</script></head>
<body>
<h1>Simple Pricing</h1>
<p>Flat monthly pricing with no surprises.</p>
<style>p { color: red; }</style>
<ul><li>Unlimited invoices</li></ul>
</body></html>`)

	idx, err := LoadDir(dir)
	require.NoError(t, err)

	docs := idx.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, "pricing.html", docs[0].Path)
	assert.Equal(t, "Pricing | Acme Cloud", docs[0].Title)
	assert.Contains(t, docs[0].Text, "Flat monthly pricing")
	assert.Contains(t, docs[0].Text, "Unlimited invoices")
	// Script and style content never reaches the index
	assert.NotContains(t, docs[0].Text, "noise")
	assert.NotContains(t, docs[0].Text, "color: red")
}

func TestLoadDirHTMLTitleFallsBackToH1(t *testing.T) {
	dir := t.TempDir()
	writeContent(t, dir, "about.html", `<html><body><h1>About Us</h1><p>We build billing tools.</p></body></html>`)

	idx, err := LoadDir(dir)
	require.NoError(t, err)

	docs := idx.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, "About Us", docs[0].Title)
}

func TestLoadDirMarkdownAndText(t *testing.T) {
	dir := t.TempDir()
	writeContent(t, dir, "posts/launch.md", "# Launch Day\n\nAcme Cloud is live today.\n")
	writeContent(t, dir, "notes.txt", "Internal notes about billing.")

	idx, err := LoadDir(dir)
	require.NoError(t, err)

	docs := idx.Documents()
	require.Len(t, docs, 2)

	byPath := map[string]Document{}
	for _, d := range docs {
		byPath[d.Path] = d
	}

	launch := byPath[filepath.Join("posts", "launch.md")]
	assert.Equal(t, "Launch Day", launch.Title)
	assert.Contains(t, launch.Text, "Acme Cloud is live today.")

	notes := byPath["notes.txt"]
	assert.Empty(t, notes.Title)
	assert.Contains(t, notes.Text, "Internal notes")
}

func TestLoadDirSkipsUnsupportedAndEmptyFiles(t *testing.T) {
	dir := t.TempDir()
	writeContent(t, dir, "image.png", "binary-ish")
	writeContent(t, dir, "empty.md", "   \n\n")
	writeContent(t, dir, "real.md", "# Real\n\nContent here.")

	idx, err := LoadDir(dir)
	require.NoError(t, err)

	docs := idx.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, "real.md", docs[0].Path)
}

func TestLoadDirMissingDirectory(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}
