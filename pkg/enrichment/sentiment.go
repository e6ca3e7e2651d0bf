package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pulsedesk/complaints/pkg/common/config"
	"github.com/pulsedesk/complaints/pkg/common/httpclient"
)

const sentimentProvider = "sentiment"

var validSentiments = map[string]struct{}{
	"positive": {},
	"negative": {},
	"neutral":  {},
}

// SentimentClient calls an APILayer-compatible sentiment analysis endpoint.
type SentimentClient struct {
	apiKey     string
	baseURL    string
	timeout    time.Duration
	maxTextLen int
	client     *http.Client
}

func NewSentimentClient(cfg *config.Config, client *http.Client) *SentimentClient {
	return &SentimentClient{
		apiKey:     cfg.SentimentAPIKey,
		baseURL:    cfg.SentimentAPIURL,
		timeout:    cfg.SentimentAPITimeout,
		maxTextLen: cfg.ComplaintMaxTextLen,
		client:     client,
	}
}

// Analyze returns one of positive/negative/neutral for the given text.
func (c *SentimentClient) Analyze(ctx context.Context, text string) (string, error) {
	if c.apiKey == "" {
		return "", newClientError(sentimentProvider, KindMissingCredential, errors.New("SENTIMENT_API_KEY not set"))
	}

	text = truncateRunes(text, c.maxTextLen)

	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return "", newClientError(sentimentProvider, KindUnparseable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", newClientError(sentimentProvider, KindUpstreamRejected, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		if httpclient.IsTimeout(err) {
			return "", newClientError(sentimentProvider, KindTimeout, err)
		}
		return "", newClientError(sentimentProvider, KindUpstreamRejected, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", newClientError(sentimentProvider, KindUpstreamRejected,
			fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(msg)))
	}

	var parsed struct {
		Sentiment  string  `json:"sentiment"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", newClientError(sentimentProvider, KindUnparseable, err)
	}

	sentiment := normalizeToken(parsed.Sentiment)
	if _, ok := validSentiments[sentiment]; !ok {
		return "", newClientError(sentimentProvider, KindUnparseable,
			fmt.Errorf("unexpected sentiment value %q", parsed.Sentiment))
	}

	return sentiment, nil
}

// truncateRunes caps text at max characters without splitting a rune.
func truncateRunes(text string, max int) string {
	if max <= 0 {
		return text
	}
	count := 0
	for i := range text {
		if count == max {
			return text[:i]
		}
		count++
	}
	return text
}
