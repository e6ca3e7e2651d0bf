package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pulsedesk/complaints/pkg/common/config"
	"github.com/pulsedesk/complaints/pkg/common/httpclient"
)

const categoryProvider = "category"

// CategoryClient classifies complaint text with a single-turn prompt against
// an OpenAI-compatible chat completions endpoint. Answers outside the
// configured label set are a parse failure, never accepted as-is.
type CategoryClient struct {
	apiKey      string
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
	timeout     time.Duration
	maxTextLen  int
	labels      LabelsConfig
	client      *http.Client
}

func NewCategoryClient(cfg *config.Config, labels LabelsConfig, client *http.Client) *CategoryClient {
	return &CategoryClient{
		apiKey:      cfg.OpenAIAPIKey,
		baseURL:     strings.TrimRight(cfg.OpenAIBaseURL, "/"),
		model:       cfg.OpenAIModel,
		maxTokens:   cfg.OpenAIMaxTokens,
		temperature: cfg.OpenAITemperature,
		timeout:     cfg.OpenAITimeout,
		maxTextLen:  cfg.ComplaintMaxTextLen,
		labels:      labels,
		client:      client,
	}
}

func (c *CategoryClient) buildPrompt(text string) string {
	return fmt.Sprintf(`Classify the customer complaint below into exactly one category.

Complaint: %q

Categories: %s

Reply with a single word: the category name only.`, text, strings.Join(c.labels.Names(), ", "))
}

// Categorize returns one label from the configured closed set.
func (c *CategoryClient) Categorize(ctx context.Context, text string) (string, error) {
	if c.apiKey == "" {
		return "", newClientError(categoryProvider, KindMissingCredential, errors.New("OPENAI_API_KEY not set"))
	}

	text = truncateRunes(text, c.maxTextLen)

	payload := map[string]interface{}{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": c.buildPrompt(text)},
		},
		"max_tokens":  c.maxTokens,
		"temperature": c.temperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", newClientError(categoryProvider, KindUnparseable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", newClientError(categoryProvider, KindUpstreamRejected, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		if httpclient.IsTimeout(err) {
			return "", newClientError(categoryProvider, KindTimeout, err)
		}
		return "", newClientError(categoryProvider, KindUpstreamRejected, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", newClientError(categoryProvider, KindUpstreamRejected,
			fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(msg)))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", newClientError(categoryProvider, KindUnparseable, err)
	}
	if len(parsed.Choices) == 0 {
		return "", newClientError(categoryProvider, KindUnparseable, errors.New("empty choices in completion"))
	}

	label, ok := c.matchLabel(parsed.Choices[0].Message.Content)
	if !ok {
		return "", newClientError(categoryProvider, KindUnparseable,
			fmt.Errorf("answer %q is not a configured label", parsed.Choices[0].Message.Content))
	}

	return label, nil
}

// matchLabel maps a model answer onto the closed label set: an exact match
// after normalisation, otherwise a unique hint-keyword hit. Ambiguous or
// unknown answers do not match.
func (c *CategoryClient) matchLabel(answer string) (string, bool) {
	normalized := normalizeToken(answer)

	for _, l := range c.labels.Labels {
		if normalized == l.Name {
			return l.Name, true
		}
	}

	matched := ""
	for _, l := range c.labels.Labels {
		if strings.Contains(normalized, l.Name) {
			if matched != "" {
				return "", false
			}
			matched = l.Name
		}
		for _, hint := range l.Hints {
			if strings.Contains(normalized, strings.ToLower(hint)) {
				if matched != "" && matched != l.Name {
					return "", false
				}
				matched = l.Name
				break
			}
		}
	}

	return matched, matched != ""
}

// normalizeToken lowercases a short model/API answer and strips the
// quoting and trailing punctuation models like to add.
func normalizeToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Trim(s, `"'.,!` + "`")
}
