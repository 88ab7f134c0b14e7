package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"jobace/internal/auth"
	"jobace/internal/errors"
	"jobace/internal/model"
)

func validJobInput() CreateJobInput {
	return CreateJobInput{
		Title:       "Fix kitchen sink",
		Description: "Leaking pipe under the sink.",
		Category:    "home-repair",
		Budget:      decimal.NewFromInt(150),
		Location:    "Cairo",
		Skills:      []string{"plumbing"},
		Deadline:    time.Now().Add(72 * time.Hour),
	}
}

func TestJobService_CreateJob(t *testing.T) {
	clientID := uuid.New()

	tests := []struct {
		name          string
		mutate        func(*CreateJobInput)
		setupMock     func(*MockJobRepository)
		expectedError error
	}{
		{
			name:   "successful creation",
			mutate: func(in *CreateJobInput) {},
			setupMock: func(m *MockJobRepository) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Job")).Return(nil)
			},
		},
		{
			name:          "zero budget rejected",
			mutate:        func(in *CreateJobInput) { in.Budget = decimal.Zero },
			setupMock:     func(m *MockJobRepository) {},
			expectedError: errors.ErrInvalidAmount,
		},
		{
			name:          "negative budget rejected",
			mutate:        func(in *CreateJobInput) { in.Budget = decimal.NewFromInt(-5) },
			setupMock:     func(m *MockJobRepository) {},
			expectedError: errors.ErrInvalidAmount,
		},
		{
			name:          "past deadline rejected",
			mutate:        func(in *CreateJobInput) { in.Deadline = time.Now().Add(-time.Hour) },
			setupMock:     func(m *MockJobRepository) {},
			expectedError: errors.ErrInvalidDeadline,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockJobs := new(MockJobRepository)
			tt.setupMock(mockJobs)

			input := validJobInput()
			tt.mutate(&input)

			service := NewJobService(mockJobs, &stubTxRunner{jobs: mockJobs}, nil)
			job, err := service.CreateJob(context.Background(), clientActor(clientID), input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, job)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, job)
				assert.Equal(t, model.JobStatusOpen, job.Status)
				assert.Equal(t, clientID, job.ClientID)
				assert.Nil(t, job.WorkerID)
			}
			mockJobs.AssertExpectations(t)
		})
	}
}

func TestJobService_UpdateJob(t *testing.T) {
	jobID := uuid.New()
	clientID := uuid.New()

	t.Run("owner patches content fields", func(t *testing.T) {
		mockJobs := new(MockJobRepository)
		stored := &model.Job{ID: jobID, ClientID: clientID, Status: model.JobStatusOpen}
		mockJobs.On("FindByID", mock.Anything, jobID).Return(stored, nil)
		mockJobs.On("UpdateFields", mock.Anything, jobID, mock.MatchedBy(func(fields map[string]interface{}) bool {
			_, hasTitle := fields["title"]
			_, hasStatus := fields["status"]
			return hasTitle && !hasStatus
		})).Return(nil)

		title := "New title"
		service := NewJobService(mockJobs, &stubTxRunner{jobs: mockJobs}, nil)
		job, err := service.UpdateJob(context.Background(), clientActor(clientID), jobID, JobPatch{Title: &title})

		assert.NoError(t, err)
		assert.NotNil(t, job)
		mockJobs.AssertExpectations(t)
	})

	t.Run("non-owner is forbidden, admin included", func(t *testing.T) {
		mockJobs := new(MockJobRepository)
		mockJobs.On("FindByID", mock.Anything, jobID).Return(&model.Job{ID: jobID, ClientID: clientID}, nil).Twice()

		title := "New title"
		service := NewJobService(mockJobs, &stubTxRunner{jobs: mockJobs}, nil)

		_, err := service.UpdateJob(context.Background(), clientActor(uuid.New()), jobID, JobPatch{Title: &title})
		assert.ErrorIs(t, err, errors.ErrForbidden)

		_, err = service.UpdateJob(context.Background(), adminActor(uuid.New()), jobID, JobPatch{Title: &title})
		assert.ErrorIs(t, err, errors.ErrForbidden)
	})

	t.Run("invalid patch values rejected", func(t *testing.T) {
		mockJobs := new(MockJobRepository)
		mockJobs.On("FindByID", mock.Anything, jobID).Return(&model.Job{ID: jobID, ClientID: clientID}, nil).Twice()

		service := NewJobService(mockJobs, &stubTxRunner{jobs: mockJobs}, nil)

		badBudget := decimal.Zero
		_, err := service.UpdateJob(context.Background(), clientActor(clientID), jobID, JobPatch{Budget: &badBudget})
		assert.ErrorIs(t, err, errors.ErrInvalidAmount)

		badDeadline := time.Now().Add(-time.Hour)
		_, err = service.UpdateJob(context.Background(), clientActor(clientID), jobID, JobPatch{Deadline: &badDeadline})
		assert.ErrorIs(t, err, errors.ErrInvalidDeadline)
	})
}

func TestJobService_CancelJob(t *testing.T) {
	jobID := uuid.New()
	clientID := uuid.New()

	tests := []struct {
		name          string
		actor         func() uuid.UUID
		actorRole     model.UserRole
		jobStatus     model.JobStatus
		expectUpdate  bool
		expectedError error
	}{
		{name: "owner cancels open job", actor: func() uuid.UUID { return clientID }, actorRole: model.RoleClient, jobStatus: model.JobStatusOpen, expectUpdate: true},
		{name: "owner cancels in-progress job", actor: func() uuid.UUID { return clientID }, actorRole: model.RoleClient, jobStatus: model.JobStatusInProgress, expectUpdate: true},
		{name: "admin cancels someone else's job", actor: uuid.New, actorRole: model.RoleAdmin, jobStatus: model.JobStatusOpen, expectUpdate: true},
		{name: "stranger is forbidden", actor: uuid.New, actorRole: model.RoleClient, jobStatus: model.JobStatusOpen, expectedError: errors.ErrForbidden},
		{name: "completed job is final", actor: func() uuid.UUID { return clientID }, actorRole: model.RoleClient, jobStatus: model.JobStatusCompleted, expectedError: errors.ErrJobFinalized},
		{name: "cancelled job is final", actor: func() uuid.UUID { return clientID }, actorRole: model.RoleClient, jobStatus: model.JobStatusCancelled, expectedError: errors.ErrJobFinalized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockJobs := new(MockJobRepository)
			mockJobs.On("FindByIDForUpdate", mock.Anything, jobID).Return(&model.Job{
				ID:       jobID,
				ClientID: clientID,
				Status:   tt.jobStatus,
			}, nil)
			if tt.expectUpdate {
				mockJobs.On("UpdateFields", mock.Anything, jobID, map[string]interface{}{
					"status": model.JobStatusCancelled,
				}).Return(nil)
			}

			actor := auth.Actor{ID: tt.actor(), Role: tt.actorRole}
			service := NewJobService(mockJobs, &stubTxRunner{jobs: mockJobs}, nil)
			job, err := service.CancelJob(context.Background(), actor, jobID)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, job)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, model.JobStatusCancelled, job.Status)
			}
			mockJobs.AssertExpectations(t)
		})
	}
}

func TestJobService_CompleteJob(t *testing.T) {
	jobID := uuid.New()
	clientID := uuid.New()
	workerID := uuid.New()

	tests := []struct {
		name          string
		actorID       uuid.UUID
		jobStatus     model.JobStatus
		expectUpdate  bool
		expectedError error
	}{
		{name: "owner completes in-progress job", actorID: clientID, jobStatus: model.JobStatusInProgress, expectUpdate: true},
		{name: "open job cannot be completed", actorID: clientID, jobStatus: model.JobStatusOpen, expectedError: errors.ErrJobNotInProgress},
		{name: "completed job is final", actorID: clientID, jobStatus: model.JobStatusCompleted, expectedError: errors.ErrJobFinalized},
		{name: "assigned worker cannot complete", actorID: workerID, jobStatus: model.JobStatusInProgress, expectedError: errors.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockJobs := new(MockJobRepository)
			mockJobs.On("FindByIDForUpdate", mock.Anything, jobID).Return(&model.Job{
				ID:       jobID,
				ClientID: clientID,
				WorkerID: &workerID,
				Status:   tt.jobStatus,
			}, nil)
			if tt.expectUpdate {
				mockJobs.On("UpdateFields", mock.Anything, jobID, map[string]interface{}{
					"status": model.JobStatusCompleted,
				}).Return(nil)
			}

			service := NewJobService(mockJobs, &stubTxRunner{jobs: mockJobs}, nil)
			job, err := service.CompleteJob(context.Background(), clientActor(tt.actorID), jobID)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, job)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, model.JobStatusCompleted, job.Status)
			}
			mockJobs.AssertExpectations(t)
		})
	}
}

func TestJobService_ClaimJob(t *testing.T) {
	jobID := uuid.New()
	clientID := uuid.New()
	workerID := uuid.New()

	t.Run("worker claims open job and pending bids are rejected", func(t *testing.T) {
		mockJobs := new(MockJobRepository)
		mockApps := new(MockApplicationRepository)

		mockJobs.On("FindByIDForUpdate", mock.Anything, jobID).Return(&model.Job{
			ID:       jobID,
			ClientID: clientID,
			Status:   model.JobStatusOpen,
		}, nil)
		mockJobs.On("UpdateFields", mock.Anything, jobID, map[string]interface{}{
			"status":    model.JobStatusInProgress,
			"worker_id": workerID,
		}).Return(nil)
		mockApps.On("RejectPendingByJob", mock.Anything, jobID, uuid.Nil).Return(nil)

		service := NewJobService(mockJobs, &stubTxRunner{jobs: mockJobs, apps: mockApps}, nil)
		job, err := service.ClaimJob(context.Background(), workerActor(workerID), jobID)

		assert.NoError(t, err)
		assert.Equal(t, model.JobStatusInProgress, job.Status)
		assert.NotNil(t, job.WorkerID)
		assert.Equal(t, workerID, *job.WorkerID)
		mockJobs.AssertExpectations(t)
		mockApps.AssertExpectations(t)
	})

	t.Run("client role cannot claim", func(t *testing.T) {
		service := NewJobService(new(MockJobRepository), &stubTxRunner{}, nil)
		job, err := service.ClaimJob(context.Background(), clientActor(uuid.New()), jobID)

		assert.ErrorIs(t, err, errors.ErrWorkerRoleRequired)
		assert.Nil(t, job)
	})

	t.Run("cannot claim own job", func(t *testing.T) {
		mockJobs := new(MockJobRepository)
		mockApps := new(MockApplicationRepository)
		mockJobs.On("FindByIDForUpdate", mock.Anything, jobID).Return(&model.Job{
			ID:       jobID,
			ClientID: workerID,
			Status:   model.JobStatusOpen,
		}, nil)

		service := NewJobService(mockJobs, &stubTxRunner{jobs: mockJobs, apps: mockApps}, nil)
		job, err := service.ClaimJob(context.Background(), workerActor(workerID), jobID)

		assert.ErrorIs(t, err, errors.ErrOwnJob)
		assert.Nil(t, job)
	})

	t.Run("non-open job cannot be claimed", func(t *testing.T) {
		mockJobs := new(MockJobRepository)
		mockApps := new(MockApplicationRepository)
		mockJobs.On("FindByIDForUpdate", mock.Anything, jobID).Return(&model.Job{
			ID:       jobID,
			ClientID: clientID,
			Status:   model.JobStatusInProgress,
		}, nil)

		service := NewJobService(mockJobs, &stubTxRunner{jobs: mockJobs, apps: mockApps}, nil)
		job, err := service.ClaimJob(context.Background(), workerActor(workerID), jobID)

		assert.ErrorIs(t, err, errors.ErrJobNotOpen)
		assert.Nil(t, job)
	})
}

func TestJobService_GetJob(t *testing.T) {
	jobID := uuid.New()

	t.Run("missing job maps to not found", func(t *testing.T) {
		mockJobs := new(MockJobRepository)
		mockJobs.On("FindByID", mock.Anything, jobID).Return(nil, gorm.ErrRecordNotFound)

		service := NewJobService(mockJobs, &stubTxRunner{jobs: mockJobs}, nil)
		job, err := service.GetJob(context.Background(), jobID)

		assert.ErrorIs(t, err, errors.ErrJobNotFound)
		assert.Nil(t, job)
	})

	t.Run("found job is returned", func(t *testing.T) {
		mockJobs := new(MockJobRepository)
		mockJobs.On("FindByID", mock.Anything, jobID).Return(&model.Job{ID: jobID}, nil)

		service := NewJobService(mockJobs, &stubTxRunner{jobs: mockJobs}, nil)
		job, err := service.GetJob(context.Background(), jobID)

		assert.NoError(t, err)
		assert.Equal(t, jobID, job.ID)
	})
}
