package service

import (
	"fmt"

	"github.com/google/uuid"
)

type ErrResourceNotFound struct {
	error
}

func NewErrResourceNotFound(id string, resourceType string) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("%s %s not found", resourceType, id)}
}

func NewErrDocumentNotFound(id string) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "document")
}

func NewErrJobNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id.String(), "job")
}

// ErrInvalidRequest covers malformed input that never reaches the store:
// bad ids, empty batches, documents outside the draft state.
type ErrInvalidRequest struct {
	error
}

func NewErrInvalidRequest(message string) *ErrInvalidRequest {
	return &ErrInvalidRequest{fmt.Errorf("bad request: %s", message)}
}

func NewErrEmptyBatch() *ErrInvalidRequest {
	return NewErrInvalidRequest("document_ids must not be empty")
}

func NewErrDocumentNotProcessable(id string, status string) *ErrInvalidRequest {
	return NewErrInvalidRequest(fmt.Sprintf("document %s is in %s status, only draft documents can be processed", id, status))
}
