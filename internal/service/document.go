package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/docflow/docflow/internal/store"
	"github.com/docflow/docflow/internal/store/model"
)

// DocumentFilter mirrors the query parameters of the document listing
// endpoint. Nil members are not applied.
type DocumentFilter struct {
	InvoiceType *string
	Status      *string
	MinAmount   *float64
	MaxAmount   *float64
	StartDate   *time.Time
	EndDate     *time.Time
	Skip        int
	Limit       int
}

type DocumentService struct {
	store store.Store
}

func NewDocumentService(store store.Store) *DocumentService {
	return &DocumentService{store: store}
}

func (s *DocumentService) CreateDocument(ctx context.Context, invoiceType string, amount float64, metadata map[string]any) (*model.Document, error) {
	document := model.NewDocument(invoiceType, amount, metadata)
	return s.store.Document().Create(ctx, *document)
}

func (s *DocumentService) GetDocument(ctx context.Context, id string) (*model.Document, error) {
	documentID, err := uuid.Parse(id)
	if err != nil {
		return nil, NewErrDocumentNotFound(id)
	}

	document, err := s.store.Document().Get(ctx, documentID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrDocumentNotFound(id)
		}
		return nil, err
	}
	return document, nil
}

func (s *DocumentService) ListDocuments(ctx context.Context, filter *DocumentFilter) (model.DocumentList, int64, error) {
	storeFilter := store.NewDocumentQueryFilter()
	if filter.InvoiceType != nil {
		storeFilter = storeFilter.ByInvoiceType(*filter.InvoiceType)
	}
	if filter.Status != nil {
		storeFilter = storeFilter.ByStatus(*filter.Status)
	}
	if filter.MinAmount != nil {
		storeFilter = storeFilter.ByMinAmount(*filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		storeFilter = storeFilter.ByMaxAmount(*filter.MaxAmount)
	}
	if filter.StartDate != nil {
		storeFilter = storeFilter.ByCreatedAfter(*filter.StartDate)
	}
	if filter.EndDate != nil {
		storeFilter = storeFilter.ByCreatedBefore(*filter.EndDate)
	}

	opts := store.NewDocumentQueryOptions().
		WithNewestFirst().
		WithPagination(filter.Skip, filter.Limit)

	return s.store.Document().List(ctx, storeFilter, opts)
}
