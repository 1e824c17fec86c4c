package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCmd_YAML(t *testing.T) {
	withServices(t)

	_, err := execute(t, nil, "set", "prefs", "theme", "dark")
	require.NoError(t, err)
	_, err = execute(t, nil, "set", "prefs", "window", `{"width":800}`)
	require.NoError(t, err)

	out, err := execute(t, nil, "export", "prefs")
	require.NoError(t, err)
	assert.Contains(t, out, "theme: dark\n")
	assert.Contains(t, out, "window:\n  width: 800\n")
}

func TestExportCmd_JSON(t *testing.T) {
	withServices(t)

	_, err := execute(t, nil, "set", "prefs", "recent", "[1,2]")
	require.NoError(t, err)

	out, err := execute(t, nil, "export", "--format", "json", "prefs")
	require.NoError(t, err)
	assert.JSONEq(t, `{"recent":[1,2]}`, out)
}

func TestExportCmd_UnknownFormat(t *testing.T) {
	withServices(t)

	_, err := execute(t, nil, "export", "--format", "xml", "prefs")
	assert.ErrorContains(t, err, "unknown format")
}

func TestImportCmd_Stdin(t *testing.T) {
	withServices(t)

	doc := "theme: light\nsize:\n  w: 3\n"
	out, err := execute(t, strings.NewReader(doc), "import", "prefs")
	require.NoError(t, err)
	assert.Equal(t, "imported 2 keys into prefs\n", out)

	out, err = execute(t, nil, "get", "prefs", "theme")
	require.NoError(t, err)
	assert.Equal(t, "light\n", out)

	out, err = execute(t, nil, "get", "prefs", "size")
	require.NoError(t, err)
	assert.JSONEq(t, `{"w":3}`, out)
}

func TestImportCmd_File(t *testing.T) {
	withServices(t)

	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a": true, "b": null}`), 0600))

	_, err := execute(t, nil, "import", "prefs", path)
	require.NoError(t, err)

	out, err := execute(t, nil, "get", "prefs", "a")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	out, err = execute(t, nil, "has", "prefs", "b")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}

func TestImportCmd_Invalid(t *testing.T) {
	withServices(t)

	_, err := execute(t, strings.NewReader("- not\n- a mapping\n"), "import", "prefs")
	assert.ErrorContains(t, err, "parsing document")

	_, err = execute(t, nil, "import", "prefs", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading")
}

func TestExportImport_RoundTrip(t *testing.T) {
	withServices(t)

	_, err := execute(t, nil, "set", "src", "k1", `{"nested":{"list":["x","y"]}}`)
	require.NoError(t, err)
	_, err = execute(t, nil, "set", "src", "k2", "plain")
	require.NoError(t, err)

	doc, err := execute(t, nil, "export", "src")
	require.NoError(t, err)

	_, err = execute(t, strings.NewReader(doc), "import", "dst")
	require.NoError(t, err)

	out, err := execute(t, nil, "get", "dst", "k1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"nested":{"list":["x","y"]}}`, out)

	out, err = execute(t, nil, "keys", "dst")
	require.NoError(t, err)
	assert.Equal(t, "k1\nk2\n", out)
}
