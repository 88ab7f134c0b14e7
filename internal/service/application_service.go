package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jobace/internal/auth"
	"jobace/internal/cache"
	"jobace/internal/errors"
	"jobace/internal/model"
	"jobace/internal/repository"
)

// ApplicationService owns the application workflow: pending -> accepted or
// pending -> rejected. Accepting cascades into the job transition
// open -> in_progress and auto-rejects the remaining pending siblings; the
// whole cascade commits in one transaction with the job row locked.
type ApplicationService interface {
	Apply(ctx context.Context, actor auth.Actor, jobID uuid.UUID, coverLetter string) (*model.Application, error)
	ListForJob(ctx context.Context, actor auth.Actor, jobID uuid.UUID) ([]model.Application, error)
	ListForWorker(ctx context.Context, actor auth.Actor) ([]model.Application, error)
	Decide(ctx context.Context, actor auth.Actor, applicationID uuid.UUID, decision model.ApplicationStatus) (*model.Application, error)
	Delete(ctx context.Context, actor auth.Actor, applicationID uuid.UUID) error
}

type applicationService struct {
	appRepo  repository.ApplicationRepository
	jobRepo  repository.JobRepository
	txRunner repository.TxRunner
	cache    *cache.Client
}

// NewApplicationService creates a new application service.
func NewApplicationService(
	appRepo repository.ApplicationRepository,
	jobRepo repository.JobRepository,
	txRunner repository.TxRunner,
	cache *cache.Client,
) ApplicationService {
	return &applicationService{
		appRepo:  appRepo,
		jobRepo:  jobRepo,
		txRunner: txRunner,
		cache:    cache,
	}
}

// Apply creates a pending application for an open job. The job row is locked
// while the duplicate check runs, and the composite unique index on
// (job_id, worker_id) backstops the check across concurrent requests.
func (s *applicationService) Apply(ctx context.Context, actor auth.Actor, jobID uuid.UUID, coverLetter string) (*model.Application, error) {
	if !actor.IsWorker() {
		return nil, errors.ErrWorkerRoleRequired
	}
	if strings.TrimSpace(coverLetter) == "" {
		return nil, errors.ErrCoverLetterRequired
	}

	app := &model.Application{
		JobID:       jobID,
		WorkerID:    actor.ID,
		CoverLetter: coverLetter,
		Status:      model.ApplicationStatusPending,
	}

	err := s.txRunner.InTransaction(ctx, func(ctx context.Context, jobs repository.JobRepository, apps repository.ApplicationRepository) error {
		job, err := jobs.FindByIDForUpdate(ctx, jobID)
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

		if _, err := apps.FindByJobAndWorker(ctx, jobID, actor.ID); err == nil {
			return errors.ErrAlreadyApplied
		} else if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("check existing application: %w", err)
		}

		if err := apps.Create(ctx, app); err != nil {
			if err == gorm.ErrDuplicatedKey {
				return errors.ErrAlreadyApplied
			}
			return fmt.Errorf("create application: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return app, nil
}

// ListForJob lists all applications for a job. Only the owning client or an
// admin may see them; workers see their own bids through ListForWorker.
func (s *applicationService) ListForJob(ctx context.Context, actor auth.Actor, jobID uuid.UUID) ([]model.Application, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrJobNotFound
		}
		return nil, fmt.Errorf("find job: %w", err)
	}

	if job.ClientID != actor.ID && !actor.IsAdmin() {
		return nil, errors.ErrForbidden
	}

	apps, err := s.appRepo.ListByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

// ListForWorker lists the actor's own applications.
func (s *applicationService) ListForWorker(ctx context.Context, actor auth.Actor) ([]model.Application, error) {
	apps, err := s.appRepo.ListByWorker(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

// Decide accepts or rejects a pending application. Only the client owning the
// referenced job may decide; admins do not bypass this. Acceptance locks the
// job, re-checks it is still open, assigns the worker, moves the job to
// in_progress and rejects the other pending applications, all in one
// transaction.
func (s *applicationService) Decide(ctx context.Context, actor auth.Actor, applicationID uuid.UUID, decision model.ApplicationStatus) (*model.Application, error) {
	if decision != model.ApplicationStatusAccepted && decision != model.ApplicationStatusRejected {
		return nil, errors.ErrInvalidStatus
	}

	var app *model.Application
	err := s.txRunner.InTransaction(ctx, func(ctx context.Context, jobs repository.JobRepository, apps repository.ApplicationRepository) error {
		var err error
		app, err = apps.FindByIDWithJob(ctx, applicationID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrApplicationNotFound
			}
			return fmt.Errorf("find application: %w", err)
		}
		if app.Job == nil {
			return errors.ErrJobNotFound
		}

		if app.Job.ClientID != actor.ID {
			return errors.ErrForbidden
		}
		if app.Status != model.ApplicationStatusPending {
			return errors.ErrApplicationDecided
		}

		if decision == model.ApplicationStatusRejected {
			if err := apps.UpdateStatus(ctx, applicationID, model.ApplicationStatusRejected); err != nil {
				return fmt.Errorf("reject application: %w", err)
			}
			app.Status = model.ApplicationStatusRejected
			return nil
		}

		// Acceptance cascade: re-check the job under lock before committing.
		job, err := jobs.FindByIDForUpdate(ctx, app.JobID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrJobNotFound
			}
			return fmt.Errorf("lock job: %w", err)
		}
		if job.Status != model.JobStatusOpen {
			return errors.ErrJobNotOpen
		}

		if err := jobs.UpdateFields(ctx, job.ID, map[string]interface{}{
			"status":    model.JobStatusInProgress,
			"worker_id": app.WorkerID,
		}); err != nil {
			return fmt.Errorf("assign job: %w", err)
		}
		if err := apps.UpdateStatus(ctx, applicationID, model.ApplicationStatusAccepted); err != nil {
			return fmt.Errorf("accept application: %w", err)
		}
		if err := apps.RejectPendingByJob(ctx, app.JobID, applicationID); err != nil {
			return fmt.Errorf("reject sibling applications: %w", err)
		}

		app.Status = model.ApplicationStatusAccepted
		return nil
	})
	if err != nil {
		return nil, err
	}

	if decision == model.ApplicationStatusAccepted {
		_ = s.cache.Delete(ctx, jobCacheKey(app.JobID))
	}
	return app, nil
}

// Delete removes an application. The applying worker, the job's client or an
// admin may delete it in any state; the job is never touched.
func (s *applicationService) Delete(ctx context.Context, actor auth.Actor, applicationID uuid.UUID) error {
	app, err := s.appRepo.FindByIDWithJob(ctx, applicationID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrApplicationNotFound
		}
		return fmt.Errorf("find application: %w", err)
	}

	allowed := app.WorkerID == actor.ID || actor.IsAdmin()
	if !allowed && app.Job != nil && app.Job.ClientID == actor.ID {
		allowed = true
	}
	if !allowed {
		return errors.ErrForbidden
	}

	if err := s.appRepo.Delete(ctx, applicationID); err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	return nil
}
