package toxicity

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/postmod/internal/metrics"
	"github.com/patrickmn/go-cache"
)

// ErrUnavailable is returned whenever the classifier cannot produce a
// verdict. Callers must treat it as a hard stop.
var ErrUnavailable = errors.New("toxicity service is unavailable")

// Classifier produces a verdict for a piece of text.
type Classifier interface {
	Classify(ctx context.Context, text string) (Verdict, error)
}

// Config is fixed at construction.
type Config struct {
	URL       string
	Threshold float64
	Timeout   time.Duration
	// CacheTTL keeps successful verdicts in memory; zero disables caching.
	CacheTTL time.Duration
}

// Client calls the remote moderation endpoint.
type Client struct {
	cfg    Config
	client *http.Client
	cache  *cache.Cache
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
	if cfg.CacheTTL > 0 {
		c.cache = cache.New(cfg.CacheTTL, 2*cfg.CacheTTL)
	}
	return c
}

type moderateRequest struct {
	Content string `json:"content"`
}

type rawScores struct {
	Toxicity       *float64 `json:"toxicity"`
	SevereToxicity *float64 `json:"severe_toxicity"`
	Obscene        *float64 `json:"obscene"`
	IdentityAttack *float64 `json:"identity_attack"`
	Insult         *float64 `json:"insult"`
	Threat         *float64 `json:"threat"`
	SexualExplicit *float64 `json:"sexual_explicit"`
}

// moderateResponse accepts both {"results": {...}} and the bare score object.
type moderateResponse struct {
	Results *rawScores `json:"results"`
	rawScores
}

func (r rawScores) scores() (Scores, error) {
	fields := []*float64{
		r.Toxicity, r.SevereToxicity, r.Obscene, r.IdentityAttack,
		r.Insult, r.Threat, r.SexualExplicit,
	}
	for i, f := range fields {
		if f == nil {
			return Scores{}, fmt.Errorf("missing score %q", Categories[i])
		}
		if *f < 0 || *f > 1 {
			return Scores{}, fmt.Errorf("score %q out of range: %v", Categories[i], *f)
		}
	}
	return Scores{
		Toxicity:       *r.Toxicity,
		SevereToxicity: *r.SevereToxicity,
		Obscene:        *r.Obscene,
		IdentityAttack: *r.IdentityAttack,
		Insult:         *r.Insult,
		Threat:         *r.Threat,
		SexualExplicit: *r.SexualExplicit,
	}, nil
}

// Classify scores text remotely and applies the configured threshold.
// Every failure is logged and returned as ErrUnavailable; there are no retries.
func (c *Client) Classify(ctx context.Context, text string) (Verdict, error) {
	key := cacheKey(text)
	if c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			metrics.RecordClassification("cached", 0)
			return v.(Verdict), nil
		}
	}

	start := time.Now()
	scores, err := c.fetchScores(ctx, text)
	if err != nil {
		metrics.RecordClassification("unavailable", time.Since(start))
		slog.Error("toxicity classification failed", "action", "classify", "error", err, "url", c.cfg.URL)
		return Verdict{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	verdict := Evaluate(scores, c.cfg.Threshold)
	result := "clean"
	if verdict.IsToxic {
		result = "toxic"
	}
	metrics.RecordClassification(result, time.Since(start))

	if c.cache != nil {
		c.cache.SetDefault(key, verdict)
	}
	return verdict, nil
}

func (c *Client) fetchScores(ctx context.Context, text string) (Scores, error) {
	reqBody, err := json.Marshal(moderateRequest{Content: text})
	if err != nil {
		return Scores{}, err
	}

	endpoint := strings.TrimRight(c.cfg.URL, "/") + "/moderate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(reqBody))
	if err != nil {
		return Scores{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Scores{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Scores{}, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Scores{}, fmt.Errorf("classifier returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed moderateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Scores{}, fmt.Errorf("failed to parse classifier response: %w", err)
	}
	if parsed.Results != nil {
		return parsed.Results.scores()
	}
	return parsed.rawScores.scores()
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
