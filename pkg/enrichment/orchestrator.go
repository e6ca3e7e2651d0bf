// Package enrichment implements the complaint enrichment pipeline: three
// independent clients around external analysis APIs and the orchestrator
// that merges their best-effort results.
package enrichment

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/pulsedesk/complaints/pkg/common/logger"
	"github.com/pulsedesk/complaints/pkg/observability/metrics"
)

// ErrEmptyText is a caller-contract violation; enrichment failures never
// surface as errors from Enrich.
var ErrEmptyText = errors.New("complaint text is empty")

type SentimentAnalyzer interface {
	Analyze(ctx context.Context, text string) (string, error)
}

type Categorizer interface {
	Categorize(ctx context.Context, text string) (string, error)
}

type GeoResolver interface {
	Lookup(ctx context.Context, ip string) (GeoInfo, error)
}

// Result carries the three optional enrichment fields. A nil field means the
// corresponding client could not produce it; no placeholders.
type Result struct {
	Sentiment *string
	Category  *string
	Geo       *GeoInfo
}

type Orchestrator struct {
	sentiment SentimentAnalyzer
	category  Categorizer
	geo       GeoResolver
}

func NewOrchestrator(sentiment SentimentAnalyzer, category Categorizer, geo GeoResolver) *Orchestrator {
	return &Orchestrator{sentiment: sentiment, category: category, geo: geo}
}

// Enrich runs the three clients concurrently and merges whatever succeeded.
// Each client gets a single attempt; failures are logged, counted, and
// absorbed. An empty clientIP skips the geo lookup entirely.
func (o *Orchestrator) Enrich(ctx context.Context, text, clientIP string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, ErrEmptyText
	}

	var result Result
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		sentiment, err := o.sentiment.Analyze(ctx, text)
		if err != nil {
			recordFailure(sentimentProvider, err)
			return
		}
		result.Sentiment = &sentiment
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		category, err := o.category.Categorize(ctx, text)
		if err != nil {
			recordFailure(categoryProvider, err)
			return
		}
		result.Category = &category
	}()

	if strings.TrimSpace(clientIP) != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			geo, err := o.geo.Lookup(ctx, clientIP)
			if err != nil {
				recordFailure(geoProvider, err)
				return
			}
			result.Geo = &geo
		}()
	}

	wg.Wait()
	return result, nil
}

func recordFailure(provider string, err error) {
	metrics.IncEnrichmentFailure(provider)
	logger.Log.WithError(err).WithFields(map[string]interface{}{
		"provider": provider,
		"kind":     FailureKindOf(err),
	}).Warn("enrichment field unavailable")
}
