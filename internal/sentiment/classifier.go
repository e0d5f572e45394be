package sentiment

import (
	"math"
	"regexp"
	"strings"
)

// Classifier is what the review flow depends on. *Model satisfies it; tests
// substitute a stub.
type Classifier interface {
	Classify(text string) Prediction
}

// Matches the vectorizer's token pattern: word characters, two or more.
var tokenPattern = regexp.MustCompile(`\b\w\w+\b`)

// Classify scores text and returns the sentiment label with the maximum
// posterior probability as confidence. Pure and deterministic: identical
// input always yields an identical prediction for a given loaded model.
// Empty text runs the unconditioned (all-zero) vector through the network.
func (m *Model) Classify(text string) Prediction {
	// Sparse tf-idf vector over the fitted vocabulary. Tokens outside the
	// vocabulary carry no weight.
	features := make(map[int]float64)
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		if col, ok := m.vocab[tok]; ok {
			features[col]++
		}
	}

	var norm float64
	for col, count := range features {
		w := count * m.idf[col]
		features[col] = w
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for col := range features {
			features[col] /= norm
		}
	}

	hidden := make([]float64, len(m.hiddenBias))
	copy(hidden, m.hiddenBias)
	for col, w := range features {
		row := m.hiddenWeights[col]
		for j := range hidden {
			hidden[j] += w * row[j]
		}
	}

	z := m.outputBias
	for j, h := range hidden {
		if h > 0 { // ReLU
			z += m.outputWeights[j] * h
		}
	}

	// Sigmoid output is the posterior of class 1.
	p := 1 / (1 + math.Exp(-z))
	if m.positiveIndex == 0 {
		p = 1 - p
	}

	pred := Prediction{Label: Negative, Confidence: 1 - p, Raw: 1 - m.positiveIndex}
	if p > 0.5 {
		pred = Prediction{Label: Positive, Confidence: p, Raw: m.positiveIndex}
	}
	return pred
}
