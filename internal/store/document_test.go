package store_test

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/docflow/docflow/internal/config"
	"github.com/docflow/docflow/internal/store"
	"github.com/docflow/docflow/internal/store/model"
)

const (
	insertDocumentStm = "INSERT INTO documents (id, invoice_type, amount, status, created_at) VALUES ('%s', '%s', %f, '%s', '%s');"
)

var _ = Describe("document store", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
	)

	insertDocument := func(invoiceType string, amount float64, status string, createdAt time.Time) string {
		id := uuid.NewString()
		tx := gormdb.Exec(fmt.Sprintf(insertDocumentStm, id, invoiceType, amount, status, createdAt.Format(time.RFC3339)))
		Expect(tx.Error).To(BeNil())
		return id
	}

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(BeNil())
	})

	AfterAll(func() {
		s.Close()
	})

	AfterEach(func() {
		gormdb.Exec("DELETE from documents;")
	})

	Context("list", func() {
		It("successfully list all the documents", func() {
			insertDocument("invoice", 10, model.DocumentStatusDraft, time.Now())
			insertDocument("receipt", 20, model.DocumentStatusDraft, time.Now())

			documents, total, err := s.Document().List(context.TODO(), store.NewDocumentQueryFilter(), store.NewDocumentQueryOptions())
			Expect(err).To(BeNil())
			Expect(documents).To(HaveLen(2))
			Expect(total).To(Equal(int64(2)))
		})

		It("successfully list the documents -- filtered by status", func() {
			insertDocument("invoice", 10, model.DocumentStatusDraft, time.Now())
			insertDocument("invoice", 20, model.DocumentStatusApproved, time.Now())

			documents, total, err := s.Document().List(context.TODO(),
				store.NewDocumentQueryFilter().ByStatus(model.DocumentStatusApproved),
				store.NewDocumentQueryOptions())
			Expect(err).To(BeNil())
			Expect(documents).To(HaveLen(1))
			Expect(total).To(Equal(int64(1)))
			Expect(documents[0].Status).To(Equal(model.DocumentStatusApproved))
		})

		It("successfully list the documents -- filtered by invoice type", func() {
			insertDocument("invoice", 10, model.DocumentStatusDraft, time.Now())
			insertDocument("receipt", 20, model.DocumentStatusDraft, time.Now())

			documents, _, err := s.Document().List(context.TODO(),
				store.NewDocumentQueryFilter().ByInvoiceType("receipt"),
				store.NewDocumentQueryOptions())
			Expect(err).To(BeNil())
			Expect(documents).To(HaveLen(1))
			Expect(documents[0].InvoiceType).To(Equal("receipt"))
		})

		It("successfully list the documents -- filtered by amount range", func() {
			insertDocument("invoice", 10, model.DocumentStatusDraft, time.Now())
			insertDocument("invoice", 50, model.DocumentStatusDraft, time.Now())
			insertDocument("invoice", 200, model.DocumentStatusDraft, time.Now())

			documents, _, err := s.Document().List(context.TODO(),
				store.NewDocumentQueryFilter().ByMinAmount(20).ByMaxAmount(100),
				store.NewDocumentQueryOptions())
			Expect(err).To(BeNil())
			Expect(documents).To(HaveLen(1))
			Expect(documents[0].Amount).To(Equal(float64(50)))
		})

		It("successfully list the documents -- paginated", func() {
			insertDocument("invoice", 10, model.DocumentStatusDraft, time.Now())
			insertDocument("invoice", 20, model.DocumentStatusDraft, time.Now())
			insertDocument("invoice", 30, model.DocumentStatusDraft, time.Now())

			documents, total, err := s.Document().List(context.TODO(),
				store.NewDocumentQueryFilter(),
				store.NewDocumentQueryOptions().WithPagination(1, 2))
			Expect(err).To(BeNil())
			Expect(documents).To(HaveLen(2))
			// total counts every match, not the page
			Expect(total).To(Equal(int64(3)))
		})

		It("list all documents -- no documents", func() {
			documents, total, err := s.Document().List(context.TODO(), store.NewDocumentQueryFilter(), store.NewDocumentQueryOptions())
			Expect(err).To(BeNil())
			Expect(documents).To(HaveLen(0))
			Expect(total).To(Equal(int64(0)))
		})
	})

	Context("get", func() {
		It("successfully get a document", func() {
			id := insertDocument("invoice", 10, model.DocumentStatusDraft, time.Now())

			document, err := s.Document().Get(context.TODO(), uuid.MustParse(id))
			Expect(err).To(BeNil())
			Expect(document.ID.String()).To(Equal(id))
			Expect(document.Amount).To(Equal(float64(10)))
		})

		It("failed to get a document -- document does not exist", func() {
			_, err := s.Document().Get(context.TODO(), uuid.New())
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})

	Context("create", func() {
		It("successfully creates a document", func() {
			m := model.NewDocument("invoice", 42.5, map[string]any{"vendor": "acme"})
			document, err := s.Document().Create(context.TODO(), *m)
			Expect(err).To(BeNil())
			Expect(document.Status).To(Equal(model.DocumentStatusDraft))

			stored, err := s.Document().Get(context.TODO(), m.ID)
			Expect(err).To(BeNil())
			Expect(stored.Amount).To(Equal(42.5))
		})

		It("failed to create a document -- duplicate id", func() {
			m := model.NewDocument("invoice", 42.5, nil)
			_, err := s.Document().Create(context.TODO(), *m)
			Expect(err).To(BeNil())

			_, err = s.Document().Create(context.TODO(), *m)
			Expect(err).To(MatchError(store.ErrDuplicateKey))
		})
	})

	Context("update", func() {
		It("successfully updates the status", func() {
			m := model.NewDocument("invoice", 10, nil)
			_, err := s.Document().Create(context.TODO(), *m)
			Expect(err).To(BeNil())

			Expect(m.SubmitForReview()).To(BeNil())
			updated, err := s.Document().Update(context.TODO(), *m)
			Expect(err).To(BeNil())
			Expect(updated.Status).To(Equal(model.DocumentStatusPending))

			stored, err := s.Document().Get(context.TODO(), m.ID)
			Expect(err).To(BeNil())
			Expect(stored.Status).To(Equal(model.DocumentStatusPending))
		})

		It("failed to update a document -- document does not exist", func() {
			m := model.NewDocument("invoice", 10, nil)
			_, err := s.Document().Update(context.TODO(), *m)
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})
})
