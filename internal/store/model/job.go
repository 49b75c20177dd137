package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	api "github.com/docflow/docflow/api/v1alpha1"
)

// Job statuses. Completed and failed are terminal.
const (
	JobStatusQueued     = "queued"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

type Job struct {
	ID           uuid.UUID `gorm:"primaryKey;"`
	Status       string    `gorm:"not null;index"`
	DocumentIDs  []byte    `gorm:"type:jsonb;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
	ErrorMessage *string
}

type JobList []Job

func NewJob(documentIDs []string) *Job {
	raw, _ := json.Marshal(documentIDs)
	return &Job{
		ID:          uuid.New(),
		Status:      JobStatusQueued,
		DocumentIDs: raw,
		CreatedAt:   time.Now().UTC(),
	}
}

func NewJobFromID(id uuid.UUID) *Job {
	return &Job{ID: id}
}

func (j *Job) Documents() []string {
	ids := []string{}
	_ = json.Unmarshal(j.DocumentIDs, &ids)
	return ids
}

func (j *Job) IsTerminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// Start moves a queued job to processing.
func (j *Job) Start() error {
	if j.Status != JobStatusQueued {
		return NewErrInvalidStateTransition(j.Status, JobStatusProcessing)
	}
	j.Status = JobStatusProcessing
	return nil
}

// Complete moves a processing job to completed and stamps completed_at.
func (j *Job) Complete() error {
	if j.Status != JobStatusProcessing {
		return NewErrInvalidStateTransition(j.Status, JobStatusCompleted)
	}
	now := time.Now().UTC()
	j.Status = JobStatusCompleted
	j.CompletedAt = &now
	return nil
}

// Fail moves a non-terminal job to failed and records the error message.
func (j *Job) Fail(message string) error {
	if j.IsTerminal() {
		return NewErrInvalidStateTransition(j.Status, JobStatusFailed)
	}
	now := time.Now().UTC()
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.ErrorMessage = &message
	return nil
}

func (j *Job) ToApiResource() api.Job {
	return api.Job{
		Id:           j.ID.String(),
		Status:       api.StringToJobStatus(j.Status),
		DocumentIds:  j.Documents(),
		CreatedAt:    j.CreatedAt,
		CompletedAt:  j.CompletedAt,
		ErrorMessage: j.ErrorMessage,
	}
}

func (j Job) String() string {
	val, _ := json.Marshal(j)
	return string(val)
}
