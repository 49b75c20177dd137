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

type testQueue struct {
	enqueued []uuid.UUID
}

func (q *testQueue) Enqueue(_ context.Context, jobID uuid.UUID) error {
	q.enqueued = append(q.enqueued, jobID)
	return nil
}

var _ = Describe("batch service", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		queue  *testQueue
		srv    *service.BatchService
	)

	createDocument := func(status string) *model.Document {
		m := model.NewDocument("invoice", 10, nil)
		m.Status = status
		document, err := s.Document().Create(context.TODO(), *m)
		Expect(err).To(BeNil())
		return document
	}

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(BeNil())
	})

	BeforeEach(func() {
		queue = &testQueue{}
		srv = service.NewBatchService(s, queue)
	})

	AfterEach(func() {
		gormdb.Exec("DELETE from documents;")
		gormdb.Exec("DELETE from jobs;")
	})

	AfterAll(func() {
		s.Close()
	})

	Context("create batch", func() {
		It("successfully creates a job from draft documents", func() {
			d1 := createDocument(model.DocumentStatusDraft)
			d2 := createDocument(model.DocumentStatusDraft)

			job, err := srv.CreateBatch(context.TODO(), []string{d1.ID.String(), d2.ID.String()})
			Expect(err).To(BeNil())
			Expect(job.Status).To(Equal(model.JobStatusQueued))
			Expect(job.Documents()).To(Equal([]string{d1.ID.String(), d2.ID.String()}))

			// the documents moved to pending
			stored, err := s.Document().Get(context.TODO(), d1.ID)
			Expect(err).To(BeNil())
			Expect(stored.Status).To(Equal(model.DocumentStatusPending))

			// the worker was nudged
			Expect(queue.enqueued).To(Equal([]uuid.UUID{job.ID}))
		})

		It("failed to create a batch -- empty selection", func() {
			_, err := srv.CreateBatch(context.TODO(), []string{})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidRequest{}))
		})

		It("failed to create a batch -- document does not exist", func() {
			_, err := srv.CreateBatch(context.TODO(), []string{uuid.NewString()})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})

		It("failed to create a batch -- malformed document id", func() {
			_, err := srv.CreateBatch(context.TODO(), []string{"not-a-uuid"})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})

		It("failed to create a batch -- document is not draft", func() {
			d := createDocument(model.DocumentStatusApproved)

			_, err := srv.CreateBatch(context.TODO(), []string{d.ID.String()})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidRequest{}))

			// nothing was created and nothing was nudged
			count := 0
			Expect(gormdb.Raw("SELECT COUNT(*) from jobs;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(0))
			Expect(queue.enqueued).To(BeEmpty())
		})

		It("failed to create a batch -- one bad document rejects the whole batch", func() {
			good := createDocument(model.DocumentStatusDraft)
			bad := createDocument(model.DocumentStatusRejected)

			_, err := srv.CreateBatch(context.TODO(), []string{good.ID.String(), bad.ID.String()})
			Expect(err).To(BeAssignableToTypeOf(&service.ErrInvalidRequest{}))

			// the good document stays draft
			stored, err := s.Document().Get(context.TODO(), good.ID)
			Expect(err).To(BeNil())
			Expect(stored.Status).To(Equal(model.DocumentStatusDraft))
		})
	})

	Context("get job", func() {
		It("successfully gets a job", func() {
			d := createDocument(model.DocumentStatusDraft)
			job, err := srv.CreateBatch(context.TODO(), []string{d.ID.String()})
			Expect(err).To(BeNil())

			stored, err := srv.GetJob(context.TODO(), job.ID.String())
			Expect(err).To(BeNil())
			Expect(stored.ID).To(Equal(job.ID))
		})

		It("failed to get a job -- job does not exist", func() {
			_, err := srv.GetJob(context.TODO(), uuid.NewString())
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})

		It("failed to get a job -- malformed id", func() {
			_, err := srv.GetJob(context.TODO(), "not-a-uuid")
			Expect(err).To(BeAssignableToTypeOf(&service.ErrResourceNotFound{}))
		})
	})
})
