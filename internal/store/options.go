package store

import (
	"time"

	"gorm.io/gorm"
)

type BaseQuerier struct {
	QueryFn []func(tx *gorm.DB) *gorm.DB
}

type DocumentQueryFilter BaseQuerier

func NewDocumentQueryFilter() *DocumentQueryFilter {
	return &DocumentQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (qf *DocumentQueryFilter) ByInvoiceType(invoiceType string) *DocumentQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("invoice_type = ?", invoiceType)
	})
	return qf
}

func (qf *DocumentQueryFilter) ByStatus(status string) *DocumentQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status = ?", status)
	})
	return qf
}

func (qf *DocumentQueryFilter) ByID(ids []string) *DocumentQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("id IN ?", ids)
	})
	return qf
}

func (qf *DocumentQueryFilter) ByMinAmount(amount float64) *DocumentQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("amount >= ?", amount)
	})
	return qf
}

func (qf *DocumentQueryFilter) ByMaxAmount(amount float64) *DocumentQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("amount <= ?", amount)
	})
	return qf
}

func (qf *DocumentQueryFilter) ByCreatedAfter(t time.Time) *DocumentQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("created_at >= ?", t)
	})
	return qf
}

func (qf *DocumentQueryFilter) ByCreatedBefore(t time.Time) *DocumentQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("created_at <= ?", t)
	})
	return qf
}

type DocumentQueryOptions BaseQuerier

func NewDocumentQueryOptions() *DocumentQueryOptions {
	return &DocumentQueryOptions{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (o *DocumentQueryOptions) WithPagination(skip, limit int) *DocumentQueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Offset(skip).Limit(limit)
	})
	return o
}

func (o *DocumentQueryOptions) WithNewestFirst() *DocumentQueryOptions {
	o.QueryFn = append(o.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Order("created_at DESC")
	})
	return o
}

type JobQueryFilter BaseQuerier

func NewJobQueryFilter() *JobQueryFilter {
	return &JobQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (qf *JobQueryFilter) ByStatus(status string) *JobQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status = ?", status)
	})
	return qf
}
