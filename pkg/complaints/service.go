// Package complaints implements the complaint use-case layer: submission
// with best-effort enrichment, filtered listing, and status transitions.
package complaints

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pulsedesk/complaints/pkg/common/config"
	"github.com/pulsedesk/complaints/pkg/enrichment"
	"github.com/pulsedesk/complaints/pkg/observability/metrics"
	"gorm.io/datatypes"
)

// Store is the persistence boundary; *Repository satisfies it.
type Store interface {
	Create(ctx context.Context, c *Complaint) error
	GetByID(ctx context.Context, id string) (*Complaint, error)
	List(ctx context.Context, f Filter) ([]Complaint, error)
	Count(ctx context.Context, f Filter) (int64, error)
	UpdateStatus(ctx context.Context, id, status string) (*Complaint, error)
	RecentByCategory(ctx context.Context, category string, window time.Duration) ([]Complaint, error)
}

// Enricher produces the optional enrichment fields for a submission.
type Enricher interface {
	Enrich(ctx context.Context, text, clientIP string) (enrichment.Result, error)
}

// EventPublisher emits lifecycle events for downstream consumers. Publishing
// is best-effort; the store is the source of truth.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType, source string, data map[string]interface{}) error
}

const eventSource = "complaints-service"

type Service struct {
	store        Store
	enricher     Enricher
	events       EventPublisher
	validator    *Validator
	defaultLimit int
	maxLimit     int
}

// NewService wires the use-case layer. events may be nil when publishing is
// disabled.
func NewService(store Store, enricher Enricher, events EventPublisher, cfg *config.Config) *Service {
	defaultLimit := cfg.ListDefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = 1
	}
	maxLimit := cfg.ListMaxLimit
	if maxLimit < defaultLimit {
		maxLimit = defaultLimit
	}
	return &Service{
		store:        store,
		enricher:     enricher,
		events:       events,
		validator:    NewValidator(cfg.ComplaintMaxTextLen),
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// Submit validates the submission, runs enrichment, and persists the record.
// Enrichment failures never reject the complaint; storage failures do.
func (s *Service) Submit(ctx context.Context, text, clientIP string) (*Complaint, error) {
	trimmed, err := s.validator.ValidateSubmission(text, clientIP)
	if err != nil {
		return nil, err
	}

	enriched, err := s.enricher.Enrich(ctx, trimmed, clientIP)
	if err != nil {
		return nil, ValidationError{reason: err}
	}

	c := &Complaint{
		ID:        uuid.New().String(),
		Text:      trimmed,
		Status:    StatusOpen,
		Category:  enriched.Category,
		Sentiment: enriched.Sentiment,
	}
	if enriched.Geo != nil {
		geo := datatypes.NewJSONType(*enriched.Geo)
		c.GeoInfo = &geo
	}

	if err := s.store.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("persisting complaint: %w", err)
	}

	metrics.IncComplaintsSubmitted()
	s.publish(ctx, "complaint.created", c)
	return c, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Complaint, error) {
	return s.store.GetByID(ctx, id)
}

// List returns a newest-first page of complaints plus the unpaged total.
func (s *Service) List(ctx context.Context, f Filter) (*Page, error) {
	if err := s.validator.ValidateListFilter(f); err != nil {
		return nil, err
	}

	if f.Limit <= 0 {
		f.Limit = s.defaultLimit
	}
	if f.Limit > s.maxLimit {
		f.Limit = s.maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.SinceHours < 0 {
		f.SinceHours = 0
	}

	items, err := s.store.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("listing complaints: %w", err)
	}

	total, err := s.store.Count(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("counting complaints: %w", err)
	}

	return &Page{
		Complaints: items,
		Total:      total,
		Page:       f.Offset/f.Limit + 1,
		PerPage:    f.Limit,
	}, nil
}

// UpdateStatus transitions a complaint to closed.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*Complaint, error) {
	if err := s.validator.ValidateStatusTransition(status); err != nil {
		return nil, err
	}

	c, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	metrics.IncComplaintsClosed()
	s.publish(ctx, "complaint.closed", c)
	return c, nil
}

// RecentForAutomation serves the polling workflow tool: open complaints of
// one category within the last N hours, N clamped to [1, 24].
func (s *Service) RecentForAutomation(ctx context.Context, category string, hours int) ([]Complaint, error) {
	if hours < 1 {
		hours = 1
	}
	if hours > 24 {
		hours = 24
	}

	items, err := s.store.RecentByCategory(ctx, category, time.Duration(hours)*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("listing recent complaints: %w", err)
	}
	return items, nil
}

func (s *Service) publish(ctx context.Context, eventType string, c *Complaint) {
	if s.events == nil {
		return
	}

	data := map[string]interface{}{
		"complaint_id": c.ID,
		"status":       c.Status,
	}
	if c.Category != nil {
		data["category"] = *c.Category
	}
	if c.Sentiment != nil {
		data["sentiment"] = *c.Sentiment
	}

	// Producer logs failures; a lost event is recovered by the next poll.
	_ = s.events.PublishEvent(ctx, eventType, eventSource, data)
}
