package v1alpha1

import "time"

// DocumentStatus is the lifecycle state of a document.
type DocumentStatus string

const (
	DocumentStatusDraft    DocumentStatus = "draft"
	DocumentStatusPending  DocumentStatus = "pending"
	DocumentStatusApproved DocumentStatus = "approved"
	DocumentStatusRejected DocumentStatus = "rejected"
)

// DocumentType is the kind of document being processed.
type DocumentType string

const (
	DocumentTypeInvoice        DocumentType = "invoice"
	DocumentTypeReceipt        DocumentType = "receipt"
	DocumentTypeProofOfPayment DocumentType = "proof of payment"
)

// JobStatus is the lifecycle state of a batch job. Completed and failed
// are terminal: once reached the job never changes again.
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// IsTerminal reports whether s is a terminal job status.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

type Document struct {
	Id          string         `json:"id"`
	InvoiceType DocumentType   `json:"invoice_type"`
	Amount      float64        `json:"amount"`
	Status      DocumentStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	Metadata    map[string]any `json:"metadata"`
}

type DocumentCreate struct {
	InvoiceType DocumentType   `json:"invoice_type" validate:"required,invoice_type"`
	Amount      float64        `json:"amount" validate:"required,gt=0"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// DocumentList is one page of a filtered document listing.
type DocumentList struct {
	Items []Document `json:"items"`
	Total int64      `json:"total"`
	Skip  int        `json:"skip"`
	Limit int        `json:"limit"`
}

type Job struct {
	Id           string     `json:"id"`
	Status       JobStatus  `json:"status"`
	DocumentIds  []string   `json:"document_ids"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at"`
	ErrorMessage *string    `json:"error_message"`
}

type BatchProcessRequest struct {
	DocumentIds []string `json:"document_ids" validate:"required,min=1,dive,required"`
}

type BatchProcessReply struct {
	JobId   string `json:"job_id"`
	Message string `json:"message"`
}

// Error is the wire shape of every non-2xx response.
type Error struct {
	Detail string `json:"detail"`
}

type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
