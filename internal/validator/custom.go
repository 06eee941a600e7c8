package validator

import (
	"github.com/gigdesk/gigdesk/api/v1alpha1"
	"github.com/go-playground/validator/v10"
)

func submissionStatusValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(v1alpha1.SubmissionStatus)
	if !ok {
		return false
	}
	return val.Valid()
}

func applicationStatusValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(v1alpha1.ApplicationStatus)
	if !ok {
		return false
	}
	return val.Valid()
}

func verificationStatusValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(v1alpha1.VerificationStatus)
	if !ok {
		return false
	}
	return val.Valid()
}
