package service_test

import (
	"context"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/docflow/docflow/internal/config"
	"github.com/docflow/docflow/internal/service"
	"github.com/docflow/docflow/internal/store"
	"github.com/docflow/docflow/internal/store/model"
)

var _ = Describe("document service", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		srv    *service.DocumentService
	)

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(BeNil())

		srv = service.NewDocumentService(s)
	})

	AfterEach(func() {
		gormdb.Exec("DELETE from documents;")
	})

	AfterAll(func() {
		s.Close()
	})

	Context("create", func() {
		It("successfully creates a draft document with metadata", func() {
			document, err := srv.CreateDocument(context.TODO(), "receipt", 12.5, map[string]any{"vendor": "acme"})
			Expect(err).To(BeNil())
			Expect(document.Status).To(Equal(model.DocumentStatusDraft))

			resource := document.ToApiResource()
			Expect(resource.Metadata).To(HaveKeyWithValue("vendor", "acme"))
		})
	})

	Context("get", func() {
		It("successfully gets a document", func() {
			document, err := srv.CreateDocument(context.TODO(), "invoice", 10, nil)
			Expect(err).To(BeNil())

			stored, err := srv.GetDocument(context.TODO(), document.ID.String())
			Expect(err).To(BeNil())
			Expect(stored.ID).To(Equal(document.ID))
		})

		It("failed to get a document -- document does not exist", func() {
			_, err := srv.GetDocument(context.TODO(), uuid.NewString())
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})

		It("failed to get a document -- malformed id", func() {
			_, err := srv.GetDocument(context.TODO(), "not-a-uuid")
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})
	})

	Context("list", func() {
		It("successfully lists with filters and pagination", func() {
			for i := 0; i < 3; i++ {
				_, err := srv.CreateDocument(context.TODO(), "invoice", float64(10*(i+1)), nil)
				Expect(err).To(BeNil())
			}
			_, err := srv.CreateDocument(context.TODO(), "receipt", 5, nil)
			Expect(err).To(BeNil())

			invoiceType := "invoice"
			documents, total, err := srv.ListDocuments(context.TODO(), &service.DocumentFilter{
				InvoiceType: &invoiceType,
				Skip:        0,
				Limit:       2,
			})
			Expect(err).To(BeNil())
			Expect(documents).To(HaveLen(2))
			Expect(total).To(Equal(int64(3)))
		})
	})
})
