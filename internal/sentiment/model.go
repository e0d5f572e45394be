package sentiment

import (
	"encoding/json"
	"fmt"
	"os"
)

// Label is the two-class sentiment label. Every review is exactly one of the
// two, there is no neutral state.
type Label string

const (
	Positive Label = "Positive"
	Negative Label = "Negative"
)

// Prediction is the result of scoring one piece of text.
// Confidence is the maximum posterior probability across the two classes,
// Raw is the predicted class index (1 = positive under the default artifact).
type Prediction struct {
	Label      Label
	Confidence float64
	Raw        int
}

// artifact is the on-disk schema of an exported model. It holds the fitted
// tf-idf vectorizer (vocabulary + idf vector) and the weights of a single
// hidden layer network with a sigmoid output, exported from the offline
// training pipeline into portable JSON.
type artifact struct {
	SchemaVersion int `json:"schema_version"`
	PositiveIndex int `json:"positive_index"`
	Vectorizer    struct {
		Vocabulary map[string]int `json:"vocabulary"`
		Idf        []float64      `json:"idf"`
	} `json:"vectorizer"`
	Network struct {
		HiddenWeights [][]float64 `json:"hidden_weights"`
		HiddenBias    []float64   `json:"hidden_bias"`
		OutputWeights []float64   `json:"output_weights"`
		OutputBias    float64     `json:"output_bias"`
	} `json:"network"`
}

const schemaVersion = 1

// Model is a loaded, immutable classifier. Safe for concurrent use;
// Classify never mutates it.
type Model struct {
	vocab         map[string]int
	idf           []float64
	hiddenWeights [][]float64
	hiddenBias    []float64
	outputWeights []float64
	outputBias    float64
	positiveIndex int
}

// Load reads and validates a model artifact. The caller is expected to treat
// any error as fatal: no review can be scored without a model.
func Load(path string) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model artifact: %w", err)
	}

	var a artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("parsing model artifact: %w", err)
	}

	if a.SchemaVersion != schemaVersion {
		return nil, fmt.Errorf("unsupported model schema version %d (want %d)", a.SchemaVersion, schemaVersion)
	}
	if a.PositiveIndex != 0 && a.PositiveIndex != 1 {
		return nil, fmt.Errorf("invalid positive class index %d", a.PositiveIndex)
	}

	features := len(a.Vectorizer.Vocabulary)
	if features == 0 {
		return nil, fmt.Errorf("model artifact has an empty vocabulary")
	}
	if len(a.Vectorizer.Idf) != features {
		return nil, fmt.Errorf("idf length %d does not match vocabulary size %d", len(a.Vectorizer.Idf), features)
	}
	if len(a.Network.HiddenWeights) != features {
		return nil, fmt.Errorf("hidden weight rows %d do not match vocabulary size %d", len(a.Network.HiddenWeights), features)
	}

	hidden := len(a.Network.HiddenBias)
	if hidden == 0 {
		return nil, fmt.Errorf("model artifact has no hidden units")
	}
	for i, row := range a.Network.HiddenWeights {
		if len(row) != hidden {
			return nil, fmt.Errorf("hidden weight row %d has %d columns, want %d", i, len(row), hidden)
		}
	}
	if len(a.Network.OutputWeights) != hidden {
		return nil, fmt.Errorf("output weights length %d does not match hidden size %d", len(a.Network.OutputWeights), hidden)
	}

	for token, col := range a.Vectorizer.Vocabulary {
		if col < 0 || col >= features {
			return nil, fmt.Errorf("vocabulary entry %q maps to out-of-range column %d", token, col)
		}
	}

	return &Model{
		vocab:         a.Vectorizer.Vocabulary,
		idf:           a.Vectorizer.Idf,
		hiddenWeights: a.Network.HiddenWeights,
		hiddenBias:    a.Network.HiddenBias,
		outputWeights: a.Network.OutputWeights,
		outputBias:    a.Network.OutputBias,
		positiveIndex: a.PositiveIndex,
	}, nil
}
