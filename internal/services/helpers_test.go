package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/ahmetcoskunkizilkaya/postmod/internal/toxicity"
)

// fakeClassifier returns a fixed verdict or error and counts calls.
type fakeClassifier struct {
	mu      sync.Mutex
	verdict toxicity.Verdict
	err     error
	calls   int
}

func (f *fakeClassifier) Classify(_ context.Context, _ string) (toxicity.Verdict, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return toxicity.Verdict{}, f.err
	}
	return f.verdict, nil
}

func cleanClassifier() *fakeClassifier {
	return &fakeClassifier{verdict: toxicity.Verdict{Tags: []string{}}}
}

func toxicClassifier(tags ...string) *fakeClassifier {
	return &fakeClassifier{verdict: toxicity.Verdict{IsToxic: true, Tags: tags}}
}

func downClassifier() *fakeClassifier {
	return &fakeClassifier{err: fmt.Errorf("%w: connection refused", toxicity.ErrUnavailable)}
}
