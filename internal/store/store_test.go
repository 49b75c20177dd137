package store_test

import (
	"context"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/docflow/docflow/internal/config"
	st "github.com/docflow/docflow/internal/store"
	"github.com/docflow/docflow/internal/store/model"
)

var _ = Describe("Store", Ordered, func() {
	var (
		store  st.Store
		gormDB *gorm.DB
	)

	BeforeAll(func() {
		cfg := config.NewDefault()
		db, err := st.InitDB(cfg)
		Expect(err).To(BeNil())
		gormDB = db

		store = st.NewStore(db)
		Expect(store).ToNot(BeNil())
		Expect(store.InitialMigration()).To(BeNil())
	})

	AfterAll(func() {
		store.Close()
	})

	Context("transaction", func() {
		It("insert a document successfully", func() {
			ctx, err := store.NewTransactionContext(context.TODO())
			Expect(err).To(BeNil())

			m := model.Document{
				ID:          uuid.New(),
				InvoiceType: "invoice",
				Amount:      10,
				Status:      model.DocumentStatusDraft,
			}
			document, err := store.Document().Create(ctx, m)
			Expect(document).ToNot(BeNil())
			Expect(err).To(BeNil())

			// commit
			_, cerr := st.Commit(ctx)
			Expect(cerr).To(BeNil())

			count := 0
			err = gormDB.Raw("SELECT COUNT(*) from documents;").Scan(&count).Error
			Expect(err).To(BeNil())
			Expect(count).To(Equal(1))
		})

		It("rollback a document successfully", func() {
			ctx, err := store.NewTransactionContext(context.TODO())
			Expect(err).To(BeNil())

			m := model.Document{
				ID:          uuid.New(),
				InvoiceType: "invoice",
				Amount:      10,
				Status:      model.DocumentStatusDraft,
			}
			document, err := store.Document().Create(ctx, m)
			Expect(document).ToNot(BeNil())
			Expect(err).To(BeNil())

			// count in the same transaction
			documents, _, err := store.Document().List(ctx, st.NewDocumentQueryFilter(), st.NewDocumentQueryOptions())
			Expect(err).To(BeNil())
			Expect(documents).To(HaveLen(1))

			// rollback
			_, cerr := st.Rollback(ctx)
			Expect(cerr).To(BeNil())

			count := 0
			err = gormDB.Raw("SELECT COUNT(*) from documents;").Scan(&count).Error
			Expect(err).To(BeNil())
			Expect(count).To(Equal(0))
		})

		AfterEach(func() {
			gormDB.Exec("DELETE from documents;")
		})
	})
})
