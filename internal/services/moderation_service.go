package services

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/postmod/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/postmod/internal/toxicity"
)

// ModerationService gates user text before it is stored. It fails closed:
// when the classifier is down nothing gets written.
type ModerationService struct {
	classifier toxicity.Classifier
}

func NewModerationService(classifier toxicity.Classifier) *ModerationService {
	return &ModerationService{classifier: classifier}
}

// CheckContent returns toxicity.ErrUnavailable when the text could not be
// classified and a *ToxicContentError when it was classified as toxic.
func (ms *ModerationService) CheckContent(ctx context.Context, text string) error {
	verdict, err := ms.classifier.Classify(ctx, text)
	if err != nil {
		return err
	}
	if verdict.IsToxic {
		metrics.RecordRejectedContent(verdict.Tags)
		return &ToxicContentError{Tags: verdict.Tags}
	}
	return nil
}
