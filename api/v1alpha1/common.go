package v1alpha1

func StringToJobStatus(s string) JobStatus {
	switch s {
	case string(JobStatusQueued):
		return JobStatusQueued
	case string(JobStatusProcessing):
		return JobStatusProcessing
	case string(JobStatusCompleted):
		return JobStatusCompleted
	case string(JobStatusFailed):
		return JobStatusFailed
	default:
		return JobStatusQueued
	}
}

func StringToDocumentStatus(s string) DocumentStatus {
	switch s {
	case string(DocumentStatusDraft):
		return DocumentStatusDraft
	case string(DocumentStatusPending):
		return DocumentStatusPending
	case string(DocumentStatusApproved):
		return DocumentStatusApproved
	case string(DocumentStatusRejected):
		return DocumentStatusRejected
	default:
		return DocumentStatusDraft
	}
}

func StringToDocumentType(s string) DocumentType {
	switch s {
	case string(DocumentTypeInvoice):
		return DocumentTypeInvoice
	case string(DocumentTypeReceipt):
		return DocumentTypeReceipt
	case string(DocumentTypeProofOfPayment):
		return DocumentTypeProofOfPayment
	default:
		return DocumentTypeInvoice
	}
}
