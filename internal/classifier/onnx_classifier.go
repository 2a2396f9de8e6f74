package classifier

import (
	"context"
	"fmt"

	"github.com/anime-shed/food-inspector-go/internal/logger"
	"github.com/anime-shed/food-inspector-go/internal/preprocess"
	"github.com/sirupsen/logrus"
	ort "github.com/yalue/onnxruntime_go"
)

// ONNXConfig locates the model and the runtime library.
type ONNXConfig struct {
	ModelPath    string
	MetadataPath string
	// SharedLibraryPath overrides the onnxruntime library lookup when set.
	SharedLibraryPath string
	TopK              int
}

// ONNXClassifier runs an image classification model with ONNX Runtime.
// The session is shared; each call creates its own tensors, so Classify is
// safe for concurrent use.
type ONNXClassifier struct {
	session  *ort.DynamicAdvancedSession
	metadata Metadata
	topK     int

	inputShape  ort.Shape
	outputShape ort.Shape
}

// NewONNXClassifier initializes the runtime environment and loads the model.
func NewONNXClassifier(cfg ONNXConfig) (*ONNXClassifier, error) {
	metadata, err := LoadMetadata(cfg.MetadataPath)
	if err != nil {
		return nil, err
	}

	if cfg.SharedLibraryPath != "" {
		ort.SetSharedLibraryPath(cfg.SharedLibraryPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}

	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath,
		[]string{metadata.InputName}, []string{metadata.OutputName}, nil)
	if err != nil {
		ort.DestroyEnvironment()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	topK := cfg.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	logger.WithFields(logrus.Fields{
		"model":   cfg.ModelPath,
		"classes": len(metadata.Classes),
		"layout":  metadata.Layout,
		"top_k":   topK,
	}).Info("Classifier model loaded")

	return &ONNXClassifier{
		session:     session,
		metadata:    metadata,
		topK:        topK,
		inputShape:  ort.NewShape(metadata.InputShape...),
		outputShape: ort.NewShape(metadata.OutputShape...),
	}, nil
}

// Metadata returns the loaded model description.
func (c *ONNXClassifier) Metadata() Metadata {
	return c.metadata
}

// Classify runs one inference and returns the top-K predictions.
func (c *ONNXClassifier) Classify(ctx context.Context, t *preprocess.Tensor) ([]Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []float32
	if c.metadata.Layout == LayoutNCHW {
		data = t.CHW()
	} else {
		data = t.HWC()
	}

	input, err := ort.NewTensor(c.inputShape, data)
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	defer input.Destroy()

	output, err := ort.NewEmptyTensor[float32](c.outputShape)
	if err != nil {
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}
	defer output.Destroy()

	if err := c.session.Run([]ort.ArbitraryTensor{input}, []ort.ArbitraryTensor{output}); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	return RankPredictions(output.GetData(), c.metadata.Classes, c.metadata.ApplySoftmax, c.topK), nil
}

// Close releases the session and the runtime environment.
func (c *ONNXClassifier) Close() error {
	var err error
	if c.session != nil {
		err = c.session.Destroy()
		c.session = nil
	}
	if derr := ort.DestroyEnvironment(); err == nil {
		err = derr
	}
	return err
}
