package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jobace/internal/auth"
	"jobace/internal/errors"
	"jobace/internal/model"
	"jobace/internal/repository"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// AdminService gives the admin role searched, paginated read access and
// delete access across users, jobs and applications. It adds no new
// invariants; business transitions stay with the natural owners.
type AdminService interface {
	ListUsers(ctx context.Context, actor auth.Actor, search string, page, limit int) ([]model.User, int64, error)
	ListJobs(ctx context.Context, actor auth.Actor, search string, page, limit int) ([]model.Job, int64, error)
	ListApplications(ctx context.Context, actor auth.Actor, search string, page, limit int) ([]model.Application, int64, error)
	DeleteUser(ctx context.Context, actor auth.Actor, id uuid.UUID) error
	DeleteJob(ctx context.Context, actor auth.Actor, id uuid.UUID) error
	DeleteApplication(ctx context.Context, actor auth.Actor, id uuid.UUID) error
}

type adminService struct {
	userRepo repository.UserRepository
	jobRepo  repository.JobRepository
	appRepo  repository.ApplicationRepository
}

// NewAdminService creates a new admin service.
func NewAdminService(
	userRepo repository.UserRepository,
	jobRepo repository.JobRepository,
	appRepo repository.ApplicationRepository,
) AdminService {
	return &adminService{
		userRepo: userRepo,
		jobRepo:  jobRepo,
		appRepo:  appRepo,
	}
}

func pageBounds(page, limit int) (offset, bounded int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPageLimit {
		limit = defaultPageLimit
	}
	return (page - 1) * limit, limit
}

func (s *adminService) ListUsers(ctx context.Context, actor auth.Actor, search string, page, limit int) ([]model.User, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, errors.ErrForbidden
	}
	offset, limit := pageBounds(page, limit)
	users, total, err := s.userRepo.SearchPaged(ctx, search, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("search users: %w", err)
	}
	return users, total, nil
}

func (s *adminService) ListJobs(ctx context.Context, actor auth.Actor, search string, page, limit int) ([]model.Job, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, errors.ErrForbidden
	}
	offset, limit := pageBounds(page, limit)
	jobs, total, err := s.jobRepo.SearchPaged(ctx, search, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("search jobs: %w", err)
	}
	return jobs, total, nil
}

func (s *adminService) ListApplications(ctx context.Context, actor auth.Actor, search string, page, limit int) ([]model.Application, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, errors.ErrForbidden
	}
	offset, limit := pageBounds(page, limit)
	apps, total, err := s.appRepo.SearchPaged(ctx, search, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("search applications: %w", err)
	}
	return apps, total, nil
}

func (s *adminService) DeleteUser(ctx context.Context, actor auth.Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return errors.ErrForbidden
	}
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}
	return s.userRepo.Delete(ctx, id)
}

func (s *adminService) DeleteJob(ctx context.Context, actor auth.Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return errors.ErrForbidden
	}
	if _, err := s.jobRepo.FindByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrJobNotFound
		}
		return fmt.Errorf("find job: %w", err)
	}
	return s.jobRepo.Delete(ctx, id)
}

func (s *adminService) DeleteApplication(ctx context.Context, actor auth.Actor, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return errors.ErrForbidden
	}
	if _, err := s.appRepo.FindByID(ctx, id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrApplicationNotFound
		}
		return fmt.Errorf("find application: %w", err)
	}
	return s.appRepo.Delete(ctx, id)
}
