package classifier

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewONNXClassifier_BadMetadata(t *testing.T) {
	dir := t.TempDir()
	_, err := NewONNXClassifier(ONNXConfig{
		ModelPath:    filepath.Join(dir, "model.onnx"),
		MetadataPath: filepath.Join(dir, "missing.json"),
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "metadata")
}
