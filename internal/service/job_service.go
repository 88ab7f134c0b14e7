package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"jobace/internal/auth"
	"jobace/internal/cache"
	"jobace/internal/errors"
	"jobace/internal/model"
	"jobace/internal/repository"
)

const jobCacheTTL = 5 * time.Minute

// CreateJobInput carries the fields a client supplies when posting a job.
type CreateJobInput struct {
	Title       string
	Description string
	Category    string
	Budget      decimal.Decimal
	Location    string
	Skills      []string
	Deadline    time.Time
}

// JobPatch is the allow-listed update structure for job content fields.
// Status, client and worker references are never patchable; they move only
// through the lifecycle transitions.
type JobPatch struct {
	Title       *string
	Description *string
	Category    *string
	Budget      *decimal.Decimal
	Location    *string
	Skills      []string
	Deadline    *time.Time
}

// JobService owns the job lifecycle: open -> in_progress -> completed, with
// cancelled reachable from the two non-terminal states. Every transition
// re-reads the job under a row lock before deciding, so guards never run
// against stale state.
type JobService interface {
	CreateJob(ctx context.Context, actor auth.Actor, input CreateJobInput) (*model.Job, error)
	ListOpenJobs(ctx context.Context, filter repository.JobFilter) ([]model.Job, error)
	GetJob(ctx context.Context, id uuid.UUID) (*model.Job, error)
	UpdateJob(ctx context.Context, actor auth.Actor, id uuid.UUID, patch JobPatch) (*model.Job, error)
	CancelJob(ctx context.Context, actor auth.Actor, id uuid.UUID) (*model.Job, error)
	CompleteJob(ctx context.Context, actor auth.Actor, id uuid.UUID) (*model.Job, error)
	ClaimJob(ctx context.Context, actor auth.Actor, id uuid.UUID) (*model.Job, error)
	DeleteJob(ctx context.Context, actor auth.Actor, id uuid.UUID) error
}

type jobService struct {
	jobRepo  repository.JobRepository
	txRunner repository.TxRunner
	cache    *cache.Client
}

// NewJobService creates a new job service.
func NewJobService(jobRepo repository.JobRepository, txRunner repository.TxRunner, cache *cache.Client) JobService {
	return &jobService{
		jobRepo:  jobRepo,
		txRunner: txRunner,
		cache:    cache,
	}
}

func jobCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("job:%s", id.String())
}

func skillsToJSON(skills []string) (datatypes.JSON, error) {
	if len(skills) == 0 {
		return nil, nil
	}
	payload, err := json.Marshal(skills)
	if err != nil {
		return nil, fmt.Errorf("marshal skills: %w", err)
	}
	return datatypes.JSON(payload), nil
}

// CreateJob validates and persists a new job owned by the actor, in the open
// state with no worker assigned.
func (s *jobService) CreateJob(ctx context.Context, actor auth.Actor, input CreateJobInput) (*model.Job, error) {
	if input.Budget.LessThanOrEqual(decimal.Zero) {
		return nil, errors.ErrInvalidAmount
	}
	if !input.Deadline.After(time.Now()) {
		return nil, errors.ErrInvalidDeadline
	}

	skills, err := skillsToJSON(input.Skills)
	if err != nil {
		return nil, err
	}

	job := &model.Job{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Budget:      input.Budget,
		Location:    input.Location,
		Skills:      skills,
		Deadline:    input.Deadline,
		Status:      model.JobStatusOpen,
		ClientID:    actor.ID,
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	return job, nil
}

// ListOpenJobs lists open jobs matching the filter.
func (s *jobService) ListOpenJobs(ctx context.Context, filter repository.JobFilter) ([]model.Job, error) {
	jobs, err := s.jobRepo.ListOpen(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list open jobs: %w", err)
	}
	return jobs, nil
}

// GetJob retrieves a job by ID with read-through caching.
func (s *jobService) GetJob(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	if data, _ := s.cache.Get(ctx, jobCacheKey(id)); data != nil {
		var cached model.Job
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	job, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrJobNotFound
		}
		return nil, fmt.Errorf("find job: %w", err)
	}

	if payload, err := json.Marshal(job); err == nil {
		_ = s.cache.Set(ctx, jobCacheKey(id), payload, jobCacheTTL)
	}

	return job, nil
}

// UpdateJob applies an allow-listed content patch. Only the owning client may
// mutate content fields; admins do not bypass this.
func (s *jobService) UpdateJob(ctx context.Context, actor auth.Actor, id uuid.UUID, patch JobPatch) (*model.Job, error) {
	job, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrJobNotFound
		}
		return nil, fmt.Errorf("find job: %w", err)
	}

	if job.ClientID != actor.ID {
		return nil, errors.ErrForbidden
	}

	fields := map[string]interface{}{}
	if patch.Title != nil {
		fields["title"] = *patch.Title
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.Category != nil {
		fields["category"] = *patch.Category
	}
	if patch.Budget != nil {
		if patch.Budget.LessThanOrEqual(decimal.Zero) {
			return nil, errors.ErrInvalidAmount
		}
		fields["budget"] = *patch.Budget
	}
	if patch.Location != nil {
		fields["location"] = *patch.Location
	}
	if patch.Skills != nil {
		skills, err := skillsToJSON(patch.Skills)
		if err != nil {
			return nil, err
		}
		fields["skills"] = skills
	}
	if patch.Deadline != nil {
		if !patch.Deadline.After(time.Now()) {
			return nil, errors.ErrInvalidDeadline
		}
		fields["deadline"] = *patch.Deadline
	}

	if len(fields) > 0 {
		if err := s.jobRepo.UpdateFields(ctx, id, fields); err != nil {
			return nil, fmt.Errorf("update job: %w", err)
		}
		_ = s.cache.Delete(ctx, jobCacheKey(id))
	}

	return s.jobRepo.FindByID(ctx, id)
}

// CancelJob moves a job to the cancelled terminal state. Allowed for the
// owning client or an admin while the job is open or in progress.
func (s *jobService) CancelJob(ctx context.Context, actor auth.Actor, id uuid.UUID) (*model.Job, error) {
	var job *model.Job
	err := s.txRunner.InTransaction(ctx, func(ctx context.Context, jobs repository.JobRepository, _ repository.ApplicationRepository) error {
		var err error
		job, err = jobs.FindByIDForUpdate(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrJobNotFound
			}
			return fmt.Errorf("lock job: %w", err)
		}

		if job.ClientID != actor.ID && !actor.IsAdmin() {
			return errors.ErrForbidden
		}
		if job.Status.Terminal() {
			return errors.ErrJobFinalized
		}

		if err := jobs.UpdateFields(ctx, id, map[string]interface{}{"status": model.JobStatusCancelled}); err != nil {
			return fmt.Errorf("cancel job: %w", err)
		}
		job.Status = model.JobStatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, jobCacheKey(id))
	return job, nil
}

// CompleteJob moves an in-progress job to completed. Only the owning client
// may confirm completion.
func (s *jobService) CompleteJob(ctx context.Context, actor auth.Actor, id uuid.UUID) (*model.Job, error) {
	var job *model.Job
	err := s.txRunner.InTransaction(ctx, func(ctx context.Context, jobs repository.JobRepository, _ repository.ApplicationRepository) error {
		var err error
		job, err = jobs.FindByIDForUpdate(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrJobNotFound
			}
			return fmt.Errorf("lock job: %w", err)
		}

		if job.ClientID != actor.ID {
			return errors.ErrForbidden
		}
		if job.Status.Terminal() {
			return errors.ErrJobFinalized
		}
		if job.Status != model.JobStatusInProgress {
			return errors.ErrJobNotInProgress
		}

		if err := jobs.UpdateFields(ctx, id, map[string]interface{}{"status": model.JobStatusCompleted}); err != nil {
			return fmt.Errorf("complete job: %w", err)
		}
		job.Status = model.JobStatusCompleted
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, jobCacheKey(id))
	return job, nil
}

// ClaimJob is the worker-initiated direct path from open to in_progress: the
// worker takes the job without a prior application record. Guards match the
// application path: the job must be open and the actor must be a worker who
// is not the job's own client.
func (s *jobService) ClaimJob(ctx context.Context, actor auth.Actor, id uuid.UUID) (*model.Job, error) {
	if !actor.IsWorker() {
		return nil, errors.ErrWorkerRoleRequired
	}

	var job *model.Job
	err := s.txRunner.InTransaction(ctx, func(ctx context.Context, jobs repository.JobRepository, apps repository.ApplicationRepository) error {
		var err error
		job, err = jobs.FindByIDForUpdate(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrJobNotFound
			}
			return fmt.Errorf("lock job: %w", err)
		}

		if job.ClientID == actor.ID {
			return errors.ErrOwnJob
		}
		if job.Status != model.JobStatusOpen {
			return errors.ErrJobNotOpen
		}

		workerID := actor.ID
		if err := jobs.UpdateFields(ctx, id, map[string]interface{}{
			"status":    model.JobStatusInProgress,
			"worker_id": workerID,
		}); err != nil {
			return fmt.Errorf("claim job: %w", err)
		}

		// A claim supersedes any pending bids for the job.
		if err := apps.RejectPendingByJob(ctx, id, uuid.Nil); err != nil {
			return fmt.Errorf("reject pending applications: %w", err)
		}

		job.Status = model.JobStatusInProgress
		job.WorkerID = &workerID
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, jobCacheKey(id))
	return job, nil
}

// DeleteJob removes a job. Allowed for the owning client or an admin.
func (s *jobService) DeleteJob(ctx context.Context, actor auth.Actor, id uuid.UUID) error {
	job, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrJobNotFound
		}
		return fmt.Errorf("find job: %w", err)
	}

	if job.ClientID != actor.ID && !actor.IsAdmin() {
		return errors.ErrForbidden
	}

	if err := s.jobRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	_ = s.cache.Delete(ctx, jobCacheKey(id))
	return nil
}
