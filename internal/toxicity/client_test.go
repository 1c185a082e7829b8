package toxicity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testURL = "http://classifier.test"

func setupHTTPMock(t *testing.T) {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
}

func newTestClient(cacheTTL time.Duration) *Client {
	return NewClient(Config{
		URL:       testURL,
		Threshold: 0.5,
		Timeout:   time.Second,
		CacheTTL:  cacheTTL,
	})
}

func scoresJSON(toxicity float64) map[string]any {
	return map[string]any{
		"toxicity":        toxicity,
		"severe_toxicity": 0.01,
		"obscene":         0.02,
		"identity_attack": 0.0,
		"insult":          0.1,
		"threat":          0.0,
		"sexual_explicit": 0.0,
	}
}

func TestClassify_WrappedResults(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder(http.MethodPost, testURL+"/moderate",
		func(req *http.Request) (*http.Response, error) {
			var body moderateRequest
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				return httpmock.NewStringResponse(http.StatusBadRequest, ""), nil
			}
			if body.Content != "you are awful" {
				return httpmock.NewStringResponse(http.StatusBadRequest, ""), nil
			}
			return httpmock.NewJsonResponse(http.StatusOK, map[string]any{"results": scoresJSON(0.9)})
		})

	verdict, err := newTestClient(0).Classify(context.Background(), "you are awful")

	require.NoError(t, err)
	assert.True(t, verdict.IsToxic)
	assert.Equal(t, []string{"toxicity"}, verdict.Tags)
}

func TestClassify_BareScores(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder(http.MethodPost, testURL+"/moderate",
		httpmock.NewJsonResponderOrPanic(http.StatusOK, scoresJSON(0.2)))

	verdict, err := newTestClient(0).Classify(context.Background(), "lovely day")

	require.NoError(t, err)
	assert.False(t, verdict.IsToxic)
	assert.Empty(t, verdict.Tags)
}

func TestClassify_Failures(t *testing.T) {
	tests := []struct {
		name      string
		responder httpmock.Responder
	}{
		{"network error", httpmock.NewErrorResponder(errors.New("connection refused"))},
		{"server error", httpmock.NewStringResponder(http.StatusInternalServerError, "boom")},
		{"not json", httpmock.NewStringResponder(http.StatusOK, "<html>")},
		{"missing category", httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]any{
			"results": map[string]any{"toxicity": 0.1},
		})},
		{"score out of range", httpmock.NewJsonResponderOrPanic(http.StatusOK, scoresJSON(1.7))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupHTTPMock(t)
			httpmock.RegisterResponder(http.MethodPost, testURL+"/moderate", tt.responder)

			verdict, err := newTestClient(0).Classify(context.Background(), "text")

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnavailable)
			assert.Equal(t, Verdict{}, verdict)
		})
	}
}

func TestClassify_CachesVerdicts(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder(http.MethodPost, testURL+"/moderate",
		httpmock.NewJsonResponderOrPanic(http.StatusOK, scoresJSON(0.8)))

	client := newTestClient(time.Minute)

	for i := 0; i < 3; i++ {
		verdict, err := client.Classify(context.Background(), "same text")
		require.NoError(t, err)
		assert.Equal(t, []string{"toxicity"}, verdict.Tags)
	}

	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestClassify_DoesNotCacheFailures(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder(http.MethodPost, testURL+"/moderate",
		httpmock.NewStringResponder(http.StatusServiceUnavailable, "down"))

	client := newTestClient(time.Minute)

	_, err := client.Classify(context.Background(), "text")
	require.ErrorIs(t, err, ErrUnavailable)

	httpmock.RegisterResponder(http.MethodPost, testURL+"/moderate",
		httpmock.NewJsonResponderOrPanic(http.StatusOK, scoresJSON(0.1)))

	verdict, err := client.Classify(context.Background(), "text")
	require.NoError(t, err)
	assert.False(t, verdict.IsToxic)
}
