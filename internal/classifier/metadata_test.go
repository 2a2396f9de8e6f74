package classifier

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeMetadata(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metadata.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadMetadata(t *testing.T) {
	r := require.New(t)
	path := writeMetadata(t, `{
		"input_shape": [1, 224, 224, 3],
		"output_shape": [1, 3],
		"apply_softmax": true,
		"classes": ["apple_pie", "sushi", "pizza"]
	}`)

	md, err := LoadMetadata(path)
	r.NoError(err)
	r.Equal("input", md.InputName)
	r.Equal("output", md.OutputName)
	r.Equal(LayoutNHWC, md.Layout)
	r.True(md.ApplySoftmax)
	r.Len(md.Classes, 3)
}

func TestLoadMetadata_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"malformed json", `{"classes": [`},
		{"no classes", `{"input_shape": [1, 224, 224, 3], "output_shape": [1, 0], "classes": []}`},
		{"wrong input size", `{"input_shape": [1, 128, 128, 3], "output_shape": [1, 1], "classes": ["a"]}`},
		{"output does not match classes", `{"input_shape": [1, 3, 224, 224], "output_shape": [1, 5], "classes": ["a", "b"]}`},
		{"unknown layout", `{"input_shape": [1, 224, 224, 3], "output_shape": [1, 1], "layout": "NWHC", "classes": ["a"]}`},
		{"blank class", `{"input_shape": [1, 224, 224, 3], "output_shape": [1, 1], "classes": [""]}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadMetadata(writeMetadata(t, tc.content))
			require.Error(t, err)
		})
	}

	_, err := LoadMetadata(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}
