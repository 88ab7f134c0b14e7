package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceStatus represents the status of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// Valid reports whether the status is one of the known statuses.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// Invoice is a billing record keyed to a job/worker/client triple. It is
// created by the assigned worker and status-mutated by the client or admin.
type Invoice struct {
	ID          uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	JobID       uuid.UUID       `json:"job_id" gorm:"type:char(36);not null;index"`
	ClientID    uuid.UUID       `json:"client_id" gorm:"type:char(36);not null;index"`
	WorkerID    uuid.UUID       `json:"worker_id" gorm:"type:char(36);not null;index"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	Description string          `json:"description" gorm:"type:text;not null"`
	DueDate     time.Time       `json:"due_date" gorm:"not null"`
	Status      InvoiceStatus   `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `json:"-" gorm:"index"`

	// Relations
	Job    *Job  `json:"job,omitempty" gorm:"foreignKey:JobID"`
	Client *User `json:"client,omitempty" gorm:"foreignKey:ClientID"`
	Worker *User `json:"worker,omitempty" gorm:"foreignKey:WorkerID"`
}

// BeforeCreate sets UUID before creating the record.
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
