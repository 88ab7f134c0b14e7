package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// JobStatus represents where a job is in its lifecycle.
type JobStatus string

const (
	JobStatusOpen       JobStatus = "open"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// Terminal reports whether no further transition is defined from the status.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusCancelled
}

// Job represents a task posted by a client. WorkerID stays nil while the job
// is open and is set exactly when the job moves to in_progress.
type Job struct {
	ID          uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Title       string          `json:"title" gorm:"size:255;not null;index"`
	Description string          `json:"description" gorm:"type:text;not null"`
	Category    string          `json:"category" gorm:"size:100;not null;index"`
	Budget      decimal.Decimal `json:"budget" gorm:"type:decimal(20,2);not null"`
	Location    string          `json:"location" gorm:"size:255;not null;index"`
	Skills      datatypes.JSON  `json:"skills,omitempty" gorm:"type:json"`
	Deadline    time.Time       `json:"deadline" gorm:"not null"`
	Status      JobStatus       `json:"status" gorm:"type:varchar(20);not null;default:'open';index"`
	ClientID    uuid.UUID       `json:"client_id" gorm:"type:char(36);not null;index"`
	WorkerID    *uuid.UUID      `json:"worker_id,omitempty" gorm:"type:char(36);index"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `json:"-" gorm:"index"`

	// Relations
	Client *User `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Worker *User `json:"worker,omitempty" gorm:"foreignKey:WorkerID"`
}

// BeforeCreate sets UUID before creating the record.
func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}
