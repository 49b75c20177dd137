package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	api "github.com/docflow/docflow/api/v1alpha1"
)

// Document statuses. Only draft documents may enter a batch; the worker
// moves pending documents to approved or rejected.
const (
	DocumentStatusDraft    = "draft"
	DocumentStatusPending  = "pending"
	DocumentStatusApproved = "approved"
	DocumentStatusRejected = "rejected"
)

type Document struct {
	ID          uuid.UUID `gorm:"primaryKey;"`
	InvoiceType string    `gorm:"not null;index"`
	Amount      float64   `gorm:"not null"`
	Status      string    `gorm:"not null;index"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
	Metadata    []byte `gorm:"type:jsonb"`
}

type DocumentList []Document

func NewDocument(invoiceType string, amount float64, metadata map[string]any) *Document {
	raw, _ := json.Marshal(metadata)
	return &Document{
		ID:          uuid.New(),
		InvoiceType: invoiceType,
		Amount:      amount,
		Status:      DocumentStatusDraft,
		CreatedAt:   time.Now().UTC(),
		Metadata:    raw,
	}
}

func NewDocumentFromID(id uuid.UUID) *Document {
	return &Document{ID: id}
}

// SubmitForReview moves a draft document to pending. Any other starting
// status is an invalid transition.
func (d *Document) SubmitForReview() error {
	if d.Status != DocumentStatusDraft {
		return NewErrInvalidStateTransition(d.Status, DocumentStatusPending)
	}
	d.Status = DocumentStatusPending
	return nil
}

// Approve moves a pending document to approved.
func (d *Document) Approve() error {
	if d.Status != DocumentStatusPending {
		return NewErrInvalidStateTransition(d.Status, DocumentStatusApproved)
	}
	d.Status = DocumentStatusApproved
	return nil
}

// Reject moves a pending document to rejected.
func (d *Document) Reject() error {
	if d.Status != DocumentStatusPending {
		return NewErrInvalidStateTransition(d.Status, DocumentStatusRejected)
	}
	d.Status = DocumentStatusRejected
	return nil
}

func (d *Document) ToApiResource() api.Document {
	metadata := map[string]any{}
	if len(d.Metadata) > 0 {
		_ = json.Unmarshal(d.Metadata, &metadata)
	}
	return api.Document{
		Id:          d.ID.String(),
		InvoiceType: api.StringToDocumentType(d.InvoiceType),
		Amount:      d.Amount,
		Status:      api.StringToDocumentStatus(d.Status),
		CreatedAt:   d.CreatedAt,
		Metadata:    metadata,
	}
}

func (dl DocumentList) ToApiResource(total int64, skip, limit int) api.DocumentList {
	items := make([]api.Document, 0, len(dl))
	for _, d := range dl {
		items = append(items, d.ToApiResource())
	}
	return api.DocumentList{Items: items, Total: total, Skip: skip, Limit: limit}
}

func (d Document) String() string {
	val, _ := json.Marshal(d)
	return string(val)
}
