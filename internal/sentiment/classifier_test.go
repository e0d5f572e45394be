package sentiment

import (
	"os"
	"path/filepath"
	"testing"
)

// writeArtifact dumps a small hand-built model to disk: vocabulary
// {good, bad, movie}, unit idf, two hidden units wired so "good" pushes
// positive and "bad" pushes negative, "movie" is inert.
func writeArtifact(t *testing.T) string {
	t.Helper()

	const doc = `{
		"schema_version": 1,
		"positive_index": 1,
		"vectorizer": {
			"vocabulary": {"good": 0, "bad": 1, "movie": 2},
			"idf": [1.0, 1.0, 1.0]
		},
		"network": {
			"hidden_weights": [[1.0, 0.0], [0.0, 1.0], [0.0, 0.0]],
			"hidden_bias": [0.0, 0.0],
			"output_weights": [6.0, -6.0],
			"output_bias": 0.0
		}
	}`

	path := filepath.Join(t.TempDir(), "sentiment_model.json")
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func loadTestModel(t *testing.T) *Model {
	t.Helper()
	m, err := Load(writeArtifact(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return m
}

func TestClassifyLabels(t *testing.T) {
	m := loadTestModel(t)

	pos := m.Classify("a good movie")
	if pos.Label != Positive {
		t.Errorf("expected Positive, got %s", pos.Label)
	}
	if pos.Raw != 1 {
		t.Errorf("expected raw class 1, got %d", pos.Raw)
	}
	if pos.Confidence < 0.5 {
		t.Errorf("expected confidence >= 0.5, got %f", pos.Confidence)
	}

	neg := m.Classify("bad, just bad")
	if neg.Label != Negative {
		t.Errorf("expected Negative, got %s", neg.Label)
	}
	if neg.Raw != 0 {
		t.Errorf("expected raw class 0, got %d", neg.Raw)
	}
}

func TestClassifyConfidenceBounds(t *testing.T) {
	m := loadTestModel(t)

	for _, text := range []string{
		"good", "bad", "movie", "", "completely out of vocabulary words", "GOOD MOVIE",
	} {
		p := m.Classify(text)
		if p.Confidence < 0 || p.Confidence > 1 {
			t.Errorf("Classify(%q) confidence %f out of [0,1]", text, p.Confidence)
		}
		if p.Confidence < 0.5 {
			t.Errorf("Classify(%q) confidence %f below the two-class argmax floor", text, p.Confidence)
		}
		if p.Label != Positive && p.Label != Negative {
			t.Errorf("Classify(%q) unexpected label %q", text, p.Label)
		}
	}
}

func TestClassifyDeterministic(t *testing.T) {
	m := loadTestModel(t)

	first := m.Classify("the movie was good but the ending was bad")
	for i := 0; i < 10; i++ {
		again := m.Classify("the movie was good but the ending was bad")
		if again != first {
			t.Fatalf("prediction changed between calls: %+v vs %+v", first, again)
		}
	}
}

func TestClassifyLowercasesInput(t *testing.T) {
	m := loadTestModel(t)

	if got, want := m.Classify("GOOD"), m.Classify("good"); got != want {
		t.Errorf("case-folding mismatch: %+v vs %+v", got, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected an error for a missing artifact")
	}
}

func TestLoadRejectsBadShapes(t *testing.T) {
	cases := map[string]string{
		"wrong schema version": `{
			"schema_version": 2, "positive_index": 1,
			"vectorizer": {"vocabulary": {"a": 0}, "idf": [1.0]},
			"network": {"hidden_weights": [[1.0]], "hidden_bias": [0.0], "output_weights": [1.0], "output_bias": 0.0}
		}`,
		"idf size mismatch": `{
			"schema_version": 1, "positive_index": 1,
			"vectorizer": {"vocabulary": {"a": 0}, "idf": [1.0, 2.0]},
			"network": {"hidden_weights": [[1.0]], "hidden_bias": [0.0], "output_weights": [1.0], "output_bias": 0.0}
		}`,
		"ragged hidden weights": `{
			"schema_version": 1, "positive_index": 1,
			"vectorizer": {"vocabulary": {"a": 0, "b": 1}, "idf": [1.0, 1.0]},
			"network": {"hidden_weights": [[1.0], [1.0, 2.0]], "hidden_bias": [0.0], "output_weights": [1.0], "output_bias": 0.0}
		}`,
		"output size mismatch": `{
			"schema_version": 1, "positive_index": 1,
			"vectorizer": {"vocabulary": {"a": 0}, "idf": [1.0]},
			"network": {"hidden_weights": [[1.0]], "hidden_bias": [0.0], "output_weights": [1.0, 2.0], "output_bias": 0.0}
		}`,
	}

	for name, doc := range cases {
		path := filepath.Join(t.TempDir(), "model.json")
		if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected Load to fail", name)
		}
	}
}
