package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/docflow/docflow/internal/store/model"
)

type Job interface {
	Create(ctx context.Context, job model.Job) (*model.Job, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Job, error)
	List(ctx context.Context, filter *JobQueryFilter) (model.JobList, error)
	Update(ctx context.Context, job model.Job) (*model.Job, error)
	InitialMigration() error
}

type JobStore struct {
	db *gorm.DB
}

// Make sure we conform to Job interface
var _ Job = (*JobStore)(nil)

func NewJobStore(db *gorm.DB) Job {
	return &JobStore{db: db}
}

func (s *JobStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.Job{})
}

func (s *JobStore) Create(ctx context.Context, job model.Job) (*model.Job, error) {
	result := s.getDB(ctx).Create(&job)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &job, nil
}

func (s *JobStore) Get(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	job := model.NewJobFromID(id)
	result := s.getDB(ctx).First(&job)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return job, nil
}

func (s *JobStore) List(ctx context.Context, filter *JobQueryFilter) (model.JobList, error) {
	var jobs model.JobList

	tx := s.getDB(ctx).Model(&model.Job{}).Order("created_at")
	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	if result := tx.Find(&jobs); result.Error != nil {
		return nil, result.Error
	}
	return jobs, nil
}

func (s *JobStore) Update(ctx context.Context, job model.Job) (*model.Job, error) {
	result := s.getDB(ctx).Model(&job).
		Clauses(clause.Returning{}).
		Select("status", "completed_at", "error_message").
		Updates(&job)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return &job, nil
}

func (s *JobStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
