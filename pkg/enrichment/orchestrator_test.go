package enrichment

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pulsedesk/complaints/pkg/common/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type stubSentiment struct {
	value string
	err   error
	delay time.Duration
	calls atomic.Int64
}

func (s *stubSentiment) Analyze(ctx context.Context, text string) (string, error) {
	s.calls.Add(1)
	time.Sleep(s.delay)
	return s.value, s.err
}

type stubCategory struct {
	value string
	err   error
	delay time.Duration
	calls atomic.Int64
}

func (s *stubCategory) Categorize(ctx context.Context, text string) (string, error) {
	s.calls.Add(1)
	time.Sleep(s.delay)
	return s.value, s.err
}

type stubGeo struct {
	value GeoInfo
	err   error
	delay time.Duration
	calls atomic.Int64
}

func (s *stubGeo) Lookup(ctx context.Context, ip string) (GeoInfo, error) {
	s.calls.Add(1)
	time.Sleep(s.delay)
	return s.value, s.err
}

func failure(provider string, kind FailureKind) *ClientError {
	return newClientError(provider, kind, nil)
}

func TestEnrichAllClientsSucceed(t *testing.T) {
	orch := NewOrchestrator(
		&stubSentiment{value: "negative"},
		&stubCategory{value: "technical"},
		&stubGeo{value: GeoInfo{Country: "Russia", CountryCode: "RU"}},
	)

	result, err := orch.Enrich(context.Background(), "SMS code not arriving", "77.88.8.8")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Sentiment == nil || *result.Sentiment != "negative" {
		t.Fatalf("unexpected sentiment: %v", result.Sentiment)
	}
	if result.Category == nil || *result.Category != "technical" {
		t.Fatalf("unexpected category: %v", result.Category)
	}
	if result.Geo == nil || result.Geo.CountryCode != "RU" {
		t.Fatalf("unexpected geo: %v", result.Geo)
	}
}

func TestEnrichAllClientsFail(t *testing.T) {
	orch := NewOrchestrator(
		&stubSentiment{err: failure(sentimentProvider, KindTimeout)},
		&stubCategory{err: failure(categoryProvider, KindUpstreamRejected)},
		&stubGeo{err: failure(geoProvider, KindUnparseable)},
	)

	result, err := orch.Enrich(context.Background(), "still a valid complaint", "8.8.8.8")
	if err != nil {
		t.Fatalf("enrichment failures must not fail the call: %v", err)
	}
	if result.Sentiment != nil || result.Category != nil || result.Geo != nil {
		t.Fatalf("expected all fields absent, got %+v", result)
	}
}

func TestEnrichSingleSuccessNoCrossContamination(t *testing.T) {
	orch := NewOrchestrator(
		&stubSentiment{err: failure(sentimentProvider, KindTimeout)},
		&stubCategory{value: "billing"},
		&stubGeo{err: failure(geoProvider, KindTimeout)},
	)

	result, err := orch.Enrich(context.Background(), "charged twice", "8.8.8.8")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Category == nil || *result.Category != "billing" {
		t.Fatalf("expected category billing, got %v", result.Category)
	}
	if result.Sentiment != nil {
		t.Fatalf("expected sentiment absent, got %q", *result.Sentiment)
	}
	if result.Geo != nil {
		t.Fatalf("expected geo absent, got %+v", *result.Geo)
	}
}

func TestEnrichEmptyTextRejectedBeforeAnyCall(t *testing.T) {
	sentiment := &stubSentiment{value: "neutral"}
	category := &stubCategory{value: "other"}
	geo := &stubGeo{}
	orch := NewOrchestrator(sentiment, category, geo)

	_, err := orch.Enrich(context.Background(), "   ", "8.8.8.8")
	if err != ErrEmptyText {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
	if sentiment.calls.Load() != 0 || category.calls.Load() != 0 || geo.calls.Load() != 0 {
		t.Fatal("no client may be invoked for an empty submission")
	}
}

func TestEnrichEmptyIPSkipsGeo(t *testing.T) {
	geo := &stubGeo{value: GeoInfo{Country: "Germany"}}
	orch := NewOrchestrator(&stubSentiment{value: "neutral"}, &stubCategory{value: "other"}, geo)

	result, err := orch.Enrich(context.Background(), "complaint text", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Geo != nil {
		t.Fatal("expected geo absent when caller IP is unknown")
	}
	if geo.calls.Load() != 0 {
		t.Fatal("geo client must not be invoked without an IP")
	}
}

// The merge must not depend on which client finishes first.
func TestEnrichMergeIsCompletionOrderIndependent(t *testing.T) {
	delays := [][3]time.Duration{
		{0, 20 * time.Millisecond, 40 * time.Millisecond},
		{40 * time.Millisecond, 0, 20 * time.Millisecond},
		{20 * time.Millisecond, 40 * time.Millisecond, 0},
	}

	for _, d := range delays {
		orch := NewOrchestrator(
			&stubSentiment{value: "positive", delay: d[0]},
			&stubCategory{value: "other", delay: d[1]},
			&stubGeo{value: GeoInfo{CountryCode: "DE"}, delay: d[2]},
		)

		result, err := orch.Enrich(context.Background(), "thanks, mostly fine", "8.8.8.8")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Sentiment == nil || *result.Sentiment != "positive" ||
			result.Category == nil || *result.Category != "other" ||
			result.Geo == nil || result.Geo.CountryCode != "DE" {
			t.Fatalf("merge differed for delays %v: %+v", d, result)
		}
	}
}
