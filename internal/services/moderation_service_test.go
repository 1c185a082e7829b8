package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/postmod/internal/toxicity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckContent(t *testing.T) {
	t.Run("clean text passes", func(t *testing.T) {
		ms := NewModerationService(cleanClassifier())
		assert.NoError(t, ms.CheckContent(context.Background(), "have a nice day"))
	})

	t.Run("toxic text carries tags", func(t *testing.T) {
		ms := NewModerationService(toxicClassifier("toxicity", "insult"))
		err := ms.CheckContent(context.Background(), "you idiot")
		require.ErrorIs(t, err, ErrToxicContent)

		var toxic *ToxicContentError
		require.True(t, errors.As(err, &toxic))
		assert.Equal(t, []string{"toxicity", "insult"}, toxic.Tags)
	})

	t.Run("classifier outage propagates", func(t *testing.T) {
		ms := NewModerationService(downClassifier())
		err := ms.CheckContent(context.Background(), "anything")
		assert.ErrorIs(t, err, toxicity.ErrUnavailable)
		assert.NotErrorIs(t, err, ErrToxicContent)
	})
}
