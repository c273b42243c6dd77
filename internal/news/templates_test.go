package news

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTemplates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte("templates:\n  - \"%s 污染\"\n  - \"%s 裁罰\"\n"), 0644))

	got, err := LoadTemplates(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"%s 污染", "%s 裁罰"}, got)
}

func TestLoadTemplates_Invalid(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("templates: []\n"), 0644))
	_, err := LoadTemplates(empty)
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("{not yaml"), 0644))
	_, err = LoadTemplates(bad)
	assert.Error(t, err)

	_, err = LoadTemplates(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
