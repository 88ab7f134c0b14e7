package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jobace/internal/model"
)

// ApplicationRepository defines application persistence operations.
type ApplicationRepository interface {
	Create(ctx context.Context, app *model.Application) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Application, error)
	FindByIDWithJob(ctx context.Context, id uuid.UUID) (*model.Application, error)
	FindByJobAndWorker(ctx context.Context, jobID, workerID uuid.UUID) (*model.Application, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]model.Application, error)
	ListByWorker(ctx context.Context, workerID uuid.UUID) ([]model.Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ApplicationStatus) error
	RejectPendingByJob(ctx context.Context, jobID, exceptID uuid.UUID) error
	SearchPaged(ctx context.Context, search string, offset, limit int) ([]model.Application, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository.
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, app *model.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *applicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	var app model.Application
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&app).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

// FindByIDWithJob loads the application together with its job so ownership
// checks run against the same read.
func (r *applicationRepository) FindByIDWithJob(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	var app model.Application
	if err := r.db.WithContext(ctx).Preload("Job").
		Where("id = ?", id).First(&app).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) FindByJobAndWorker(ctx context.Context, jobID, workerID uuid.UUID) (*model.Application, error) {
	var app model.Application
	if err := r.db.WithContext(ctx).
		Where("job_id = ? AND worker_id = ?", jobID, workerID).
		First(&app).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]model.Application, error) {
	var apps []model.Application
	if err := r.db.WithContext(ctx).Preload("Worker").
		Where("job_id = ?", jobID).
		Order("created_at DESC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *applicationRepository) ListByWorker(ctx context.Context, workerID uuid.UUID) ([]model.Application, error) {
	var apps []model.Application
	if err := r.db.WithContext(ctx).Preload("Job").
		Where("worker_id = ?", workerID).
		Order("created_at DESC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ApplicationStatus) error {
	return r.db.WithContext(ctx).Model(&model.Application{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// RejectPendingByJob batch-rejects every pending application for a job except
// the accepted one. Runs inside the acceptance transaction.
func (r *applicationRepository) RejectPendingByJob(ctx context.Context, jobID, exceptID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Application{}).
		Where("job_id = ? AND id <> ? AND status = ?", jobID, exceptID, model.ApplicationStatusPending).
		Update("status", model.ApplicationStatusRejected).Error
}

// SearchPaged lists applications whose job title matches search, newest first.
func (r *applicationRepository) SearchPaged(ctx context.Context, search string, offset, limit int) ([]model.Application, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Application{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Joins("JOIN jobs ON jobs.id = applications.job_id").
			Where("jobs.title LIKE ?", like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apps []model.Application
	if err := query.Preload("Job").Preload("Worker").
		Order("applications.created_at DESC").
		Offset(offset).Limit(limit).Find(&apps).Error; err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

// Delete removes the row outright so the (job_id, worker_id) unique slot is
// freed and the worker can bid on the job again.
func (r *applicationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Application{}, "id = ?", id).Error
}
