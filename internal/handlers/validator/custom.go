package validator

import (
	"github.com/go-playground/validator/v10"

	api "github.com/docflow/docflow/api/v1alpha1"
)

func invoiceTypeValidator(fl validator.FieldLevel) bool {
	val := fl.Field().String()

	switch api.DocumentType(val) {
	case api.DocumentTypeInvoice, api.DocumentTypeReceipt, api.DocumentTypeProofOfPayment:
		return true
	default:
		return false
	}
}
