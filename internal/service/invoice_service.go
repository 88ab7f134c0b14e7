package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"jobace/internal/auth"
	"jobace/internal/errors"
	"jobace/internal/model"
	"jobace/internal/repository"
)

// CreateInvoiceInput carries the fields a worker supplies when billing a job.
type CreateInvoiceInput struct {
	JobID       uuid.UUID
	Amount      decimal.Decimal
	Description string
	DueDate     time.Time
}

// InvoiceService handles the invoice satellite records. Invoices never feed
// back into the job or application state machines.
type InvoiceService interface {
	Create(ctx context.Context, actor auth.Actor, input CreateInvoiceInput) (*model.Invoice, error)
	List(ctx context.Context, actor auth.Actor, status model.InvoiceStatus) ([]model.Invoice, error)
	Get(ctx context.Context, actor auth.Actor, id uuid.UUID) (*model.Invoice, error)
	UpdateStatus(ctx context.Context, actor auth.Actor, id uuid.UUID, status model.InvoiceStatus) (*model.Invoice, error)
}

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	jobRepo     repository.JobRepository
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(invoiceRepo repository.InvoiceRepository, jobRepo repository.JobRepository) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		jobRepo:     jobRepo,
	}
}

// Create issues an invoice against a job. Only the worker assigned to a job
// that is in progress or completed may bill it.
func (s *invoiceService) Create(ctx context.Context, actor auth.Actor, input CreateInvoiceInput) (*model.Invoice, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.ErrInvalidAmount
	}

	job, err := s.jobRepo.FindByID(ctx, input.JobID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrJobNotFound
		}
		return nil, fmt.Errorf("find job: %w", err)
	}

	if job.WorkerID == nil || *job.WorkerID != actor.ID {
		return nil, errors.ErrForbidden
	}
	if job.Status != model.JobStatusInProgress && job.Status != model.JobStatusCompleted {
		return nil, errors.ErrJobNotInProgress
	}

	invoice := &model.Invoice{
		JobID:       job.ID,
		ClientID:    job.ClientID,
		WorkerID:    actor.ID,
		Amount:      input.Amount,
		Description: input.Description,
		DueDate:     input.DueDate,
		Status:      model.InvoiceStatusPending,
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	return invoice, nil
}

// List returns the actor's invoices, optionally filtered by status. Admins
// see every invoice.
func (s *invoiceService) List(ctx context.Context, actor auth.Actor, status model.InvoiceStatus) ([]model.Invoice, error) {
	if status != "" && !status.Valid() {
		return nil, errors.ErrInvalidStatus
	}

	var (
		invoices []model.Invoice
		err      error
	)
	if actor.IsAdmin() {
		invoices, err = s.invoiceRepo.ListAll(ctx, status)
	} else {
		invoices, err = s.invoiceRepo.ListByParty(ctx, actor.ID, status)
	}
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return invoices, nil
}

// Get returns one invoice. Only the client, the worker or an admin may read it.
func (s *invoiceService) Get(ctx context.Context, actor auth.Actor, id uuid.UUID) (*model.Invoice, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("find invoice: %w", err)
	}

	if invoice.ClientID != actor.ID && invoice.WorkerID != actor.ID && !actor.IsAdmin() {
		return nil, errors.ErrForbidden
	}
	return invoice, nil
}

// UpdateStatus moves an invoice between pending, paid and cancelled. Only the
// billed client or an admin may change it; the issuing worker never can.
func (s *invoiceService) UpdateStatus(ctx context.Context, actor auth.Actor, id uuid.UUID, status model.InvoiceStatus) (*model.Invoice, error) {
	if !status.Valid() {
		return nil, errors.ErrInvalidStatus
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("find invoice: %w", err)
	}

	if invoice.ClientID != actor.ID && !actor.IsAdmin() {
		return nil, errors.ErrForbidden
	}

	if err := s.invoiceRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update invoice status: %w", err)
	}
	invoice.Status = status
	return invoice, nil
}
