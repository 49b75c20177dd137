package store_test

import (
	"context"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/docflow/docflow/internal/config"
	"github.com/docflow/docflow/internal/store"
	"github.com/docflow/docflow/internal/store/model"
)

var _ = Describe("job store", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
	)

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
		gormdb.Exec("DELETE from jobs;")
	})

	Context("create", func() {
		It("successfully creates a job", func() {
			documentIDs := []string{uuid.NewString(), uuid.NewString()}
			m := model.NewJob(documentIDs)

			job, err := s.Job().Create(context.TODO(), *m)
			Expect(err).To(BeNil())
			Expect(job.Status).To(Equal(model.JobStatusQueued))

			stored, err := s.Job().Get(context.TODO(), m.ID)
			Expect(err).To(BeNil())
			Expect(stored.Documents()).To(Equal(documentIDs))
		})
	})

	Context("get", func() {
		It("failed to get a job -- job does not exist", func() {
			_, err := s.Job().Get(context.TODO(), uuid.New())
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})

	Context("list", func() {
		It("successfully list the jobs -- filtered by status", func() {
			queued := model.NewJob([]string{uuid.NewString()})
			_, err := s.Job().Create(context.TODO(), *queued)
			Expect(err).To(BeNil())

			processing := model.NewJob([]string{uuid.NewString()})
			Expect(processing.Start()).To(BeNil())
			_, err = s.Job().Create(context.TODO(), *processing)
			Expect(err).To(BeNil())

			jobs, err := s.Job().List(context.TODO(), store.NewJobQueryFilter().ByStatus(model.JobStatusQueued))
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(1))
			Expect(jobs[0].ID).To(Equal(queued.ID))
		})
	})

	Context("update", func() {
		It("successfully walks a job through its lifecycle", func() {
			m := model.NewJob([]string{uuid.NewString()})
			_, err := s.Job().Create(context.TODO(), *m)
			Expect(err).To(BeNil())

			Expect(m.Start()).To(BeNil())
			_, err = s.Job().Update(context.TODO(), *m)
			Expect(err).To(BeNil())

			Expect(m.Complete()).To(BeNil())
			_, err = s.Job().Update(context.TODO(), *m)
			Expect(err).To(BeNil())

			stored, err := s.Job().Get(context.TODO(), m.ID)
			Expect(err).To(BeNil())
			Expect(stored.Status).To(Equal(model.JobStatusCompleted))
			Expect(stored.CompletedAt).ToNot(BeNil())
		})

		It("successfully records a failure", func() {
			m := model.NewJob([]string{uuid.NewString()})
			_, err := s.Job().Create(context.TODO(), *m)
			Expect(err).To(BeNil())

			Expect(m.Start()).To(BeNil())
			Expect(m.Fail("document gone")).To(BeNil())
			_, err = s.Job().Update(context.TODO(), *m)
			Expect(err).To(BeNil())

			stored, err := s.Job().Get(context.TODO(), m.ID)
			Expect(err).To(BeNil())
			Expect(stored.Status).To(Equal(model.JobStatusFailed))
			Expect(*stored.ErrorMessage).To(Equal("document gone"))
			Expect(stored.CompletedAt).ToNot(BeNil())
		})

		It("failed to update a job -- job does not exist", func() {
			m := model.NewJob([]string{uuid.NewString()})
			_, err := s.Job().Update(context.TODO(), *m)
			Expect(err).To(MatchError(store.ErrRecordNotFound))
		})
	})
})
