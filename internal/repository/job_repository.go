package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jobace/internal/model"
)

// JobFilter narrows open-job listings. Zero values mean no filtering.
type JobFilter struct {
	Category string
	Location string
	Skills   []string
}

// JobRepository defines job persistence operations.
type JobRepository interface {
	Create(ctx context.Context, job *model.Job) error
	Update(ctx context.Context, job *model.Job) error
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Job, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Job, error)
	ListOpen(ctx context.Context, filter JobFilter) ([]model.Job, error)
	SearchPaged(ctx context.Context, search string, offset, limit int) ([]model.Job, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type jobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new job repository.
func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(ctx context.Context, job *model.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *jobRepository) Update(ctx context.Context, job *model.Job) error {
	return r.db.WithContext(ctx).Save(job).Error
}

// UpdateFields applies an allow-listed patch without touching other columns.
func (r *jobRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Job{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *jobRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	var job model.Job
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// FindByIDForUpdate finds a job by ID with a row-level lock. Callers use it
// inside a transaction so status guards are checked against state no
// concurrent request can change underneath them.
func (r *jobRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	var job model.Job
	if err := r.db.WithContext(ctx).Set("gorm:query_option", "FOR UPDATE").
		Where("id = ?", id).First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// ListOpen lists open jobs newest first, optionally narrowed by category,
// location and required skills.
func (r *jobRepository) ListOpen(ctx context.Context, filter JobFilter) ([]model.Job, error) {
	query := r.db.WithContext(ctx).
		Where("status = ?", model.JobStatusOpen).
		Preload("Client")

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Location != "" {
		query = query.Where("location = ?", filter.Location)
	}
	if len(filter.Skills) > 0 {
		skillMatch := r.db.Session(&gorm.Session{NewDB: true})
		for _, skill := range filter.Skills {
			skillMatch = skillMatch.Or("JSON_CONTAINS(skills, JSON_QUOTE(?))", skill)
		}
		query = query.Where(skillMatch)
	}

	var jobs []model.Job
	if err := query.Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// SearchPaged lists jobs matching search over title or description, newest first.
func (r *jobRepository) SearchPaged(ctx context.Context, search string, offset, limit int) ([]model.Job, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Job{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jobs []model.Job
	if err := query.Preload("Client").Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&jobs).Error; err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (r *jobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Job{}, "id = ?", id).Error
}
