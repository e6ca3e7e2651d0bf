package complaints

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("complaint not found")

// Filter bounds a listing. Zero values mean "no constraint" except Limit,
// which the service normalises before the repository sees it.
type Filter struct {
	Status     string
	Category   string
	Sentiment  string
	SinceHours int
	Limit      int
	Offset     int
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&Complaint{})
}

func (r *Repository) Create(ctx context.Context, c *Complaint) error {
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Complaint, error) {
	var c Complaint
	result := r.db.WithContext(ctx).First(&c, "id = ?", id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &c, result.Error
}

// List returns matching complaints newest-first; the ordering is what the
// hourly automation consumer pages over.
func (r *Repository) List(ctx context.Context, f Filter) ([]Complaint, error) {
	var items []Complaint
	err := r.applyFilter(r.db.WithContext(ctx), f).
		Order("created_at DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&items).Error
	return items, err
}

func (r *Repository) Count(ctx context.Context, f Filter) (int64, error) {
	var total int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&Complaint{}), f).Count(&total).Error
	return total, err
}

func (r *Repository) UpdateStatus(ctx context.Context, id, status string) (*Complaint, error) {
	var c Complaint
	result := r.db.WithContext(ctx).First(&c, "id = ?", id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if result.Error != nil {
		return nil, result.Error
	}

	c.Status = status
	c.UpdatedAt = time.Now().UTC()
	if err := r.db.WithContext(ctx).Save(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// RecentByCategory returns still-open complaints of one category inside the
// lookback window, newest first.
func (r *Repository) RecentByCategory(ctx context.Context, category string, window time.Duration) ([]Complaint, error) {
	cutoff := time.Now().UTC().Add(-window)

	var items []Complaint
	err := r.db.WithContext(ctx).
		Where("category = ? AND status = ? AND created_at >= ?", category, StatusOpen, cutoff).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *Repository) applyFilter(q *gorm.DB, f Filter) *gorm.DB {
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Sentiment != "" {
		q = q.Where("sentiment = ?", f.Sentiment)
	}
	if f.SinceHours > 0 {
		cutoff := time.Now().UTC().Add(-time.Duration(f.SinceHours) * time.Hour)
		q = q.Where("created_at >= ?", cutoff)
	}
	return q
}
