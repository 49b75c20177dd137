package store

import (
	"context"

	"gorm.io/gorm"
)

type Store interface {
	NewTransactionContext(ctx context.Context) (context.Context, error)
	Document() Document
	Job() Job
	InitialMigration() error
	Close() error
}

type DataStore struct {
	document Document
	job      Job
	db       *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		document: NewDocumentStore(db),
		job:      NewJobStore(db),
		db:       db,
	}
}

func (s *DataStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return newTransactionContext(ctx, s.db)
}

func (s *DataStore) Document() Document {
	return s.document
}

func (s *DataStore) Job() Job {
	return s.job
}

func (s *DataStore) InitialMigration() error {
	if err := s.document.InitialMigration(); err != nil {
		return err
	}
	return s.job.InitialMigration()
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
