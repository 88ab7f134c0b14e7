package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jobace/internal/model"
)

// InvoiceRepository defines invoice persistence operations.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *model.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
	ListAll(ctx context.Context, status model.InvoiceStatus) ([]model.Invoice, error)
	ListByParty(ctx context.Context, userID uuid.UUID, status model.InvoiceStatus) ([]model.Invoice, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.InvoiceStatus) error
}

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository.
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := r.db.WithContext(ctx).Preload("Job").
		Where("id = ?", id).First(&invoice).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// ListAll lists every invoice, optionally filtered by status. Admin only.
func (r *invoiceRepository) ListAll(ctx context.Context, status model.InvoiceStatus) ([]model.Invoice, error) {
	query := r.db.WithContext(ctx).Preload("Job")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var invoices []model.Invoice
	if err := query.Order("created_at DESC").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// ListByParty lists invoices where the user is the client or the worker.
func (r *invoiceRepository) ListByParty(ctx context.Context, userID uuid.UUID, status model.InvoiceStatus) ([]model.Invoice, error) {
	query := r.db.WithContext(ctx).Preload("Job").
		Where("client_id = ? OR worker_id = ?", userID, userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var invoices []model.Invoice
	if err := query.Order("created_at DESC").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *invoiceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.InvoiceStatus) error {
	return r.db.WithContext(ctx).Model(&model.Invoice{}).
		Where("id = ?", id).
		Update("status", status).Error
}
