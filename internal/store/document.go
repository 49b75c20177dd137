package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/docflow/docflow/internal/store/model"
)

type Document interface {
	Create(ctx context.Context, document model.Document) (*model.Document, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Document, error)
	List(ctx context.Context, filter *DocumentQueryFilter, opts *DocumentQueryOptions) (model.DocumentList, int64, error)
	Update(ctx context.Context, document model.Document) (*model.Document, error)
	InitialMigration() error
}

type DocumentStore struct {
	db *gorm.DB
}

// Make sure we conform to Document interface
var _ Document = (*DocumentStore)(nil)

func NewDocumentStore(db *gorm.DB) Document {
	return &DocumentStore{db: db}
}

func (s *DocumentStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.Document{})
}

func (s *DocumentStore) Create(ctx context.Context, document model.Document) (*model.Document, error) {
	result := s.getDB(ctx).Create(&document)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &document, nil
}

func (s *DocumentStore) Get(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	document := model.NewDocumentFromID(id)
	result := s.getDB(ctx).First(&document)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return document, nil
}

func (s *DocumentStore) List(ctx context.Context, filter *DocumentQueryFilter, opts *DocumentQueryOptions) (model.DocumentList, int64, error) {
	var documents model.DocumentList
	var total int64

	tx := s.getDB(ctx).Model(&model.Document{})
	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	// total counts every match, pagination applies only to the page query
	if result := tx.Count(&total); result.Error != nil {
		return nil, 0, result.Error
	}

	if opts != nil {
		for _, fn := range opts.QueryFn {
			tx = fn(tx)
		}
	}

	if result := tx.Find(&documents); result.Error != nil {
		return nil, 0, result.Error
	}
	return documents, total, nil
}

func (s *DocumentStore) Update(ctx context.Context, document model.Document) (*model.Document, error) {
	result := s.getDB(ctx).Model(&document).
		Clauses(clause.Returning{}).
		Select("status", "invoice_type", "amount", "metadata").
		Updates(&document)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return &document, nil
}

func (s *DocumentStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
