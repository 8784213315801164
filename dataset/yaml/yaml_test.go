package yaml_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishalbelsare/pydl8.5/dataset/yaml"
)

func TestReadMetadata(t *testing.T) {
	md, err := yaml.ReadMetadata([]byte(`
attributes:
  - outlook_sunny
  - humidity_high
class: play
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"outlook_sunny", "humidity_high"}, md.Attributes)
	assert.Equal(t, "play", md.Class)
}

func TestReadMetadataErrors(t *testing.T) {
	cases := map[string]string{
		"invalid yml":          `{`,
		"no attributes":        `class: play`,
		"no class":             "attributes:\n  - a",
		"class also attribute": "attributes:\n  - play\nclass: play",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := yaml.ReadMetadata([]byte(content))
			assert.Error(t, err)
		})
	}
}

func TestReadMetadataFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.yml")
	require.NoError(t, os.WriteFile(path, []byte("attributes:\n  - a\nclass: c\n"), 0600))
	md, err := yaml.ReadMetadataFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "c", md.Class)

	_, err = yaml.ReadMetadataFromFile(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
