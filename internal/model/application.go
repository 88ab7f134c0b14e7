package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApplicationStatus represents the status of a worker's application.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// Valid reports whether the status is one of the known statuses.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusAccepted, ApplicationStatusRejected:
		return true
	}
	return false
}

// Application is one worker's bid for one job. The composite unique index
// backs the at-most-one-application-per-(job,worker) invariant at the store.
// Deletes are hard deletes: a withdrawn application frees the slot so the
// worker may apply again, while a rejected one stays and keeps blocking.
type Application struct {
	ID          uuid.UUID         `json:"id" gorm:"type:char(36);primaryKey"`
	JobID       uuid.UUID         `json:"job_id" gorm:"type:char(36);not null;uniqueIndex:idx_app_job_worker"`
	WorkerID    uuid.UUID         `json:"worker_id" gorm:"type:char(36);not null;uniqueIndex:idx_app_job_worker"`
	CoverLetter string            `json:"cover_letter" gorm:"type:text;not null"`
	Status      ApplicationStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`

	// Relations
	Job    *Job  `json:"job,omitempty" gorm:"foreignKey:JobID"`
	Worker *User `json:"worker,omitempty" gorm:"foreignKey:WorkerID"`
}

// BeforeCreate sets UUID before creating the record.
func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
