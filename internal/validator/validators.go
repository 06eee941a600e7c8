package validator

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

type ValidationRule struct {
	Rule func(v *validator.Validate)
}

// Validator is a wrapper around the actual validator
// It sets up the validator and extract the rule error message from the underlying error
type Validator struct {
	validator *validator.Validate
	rules     []ValidationRule
}

func NewValidator() *Validator {
	v := validator.New()
	return &Validator{validator: v}
}

// NewWithDefaultRules returns a validator that knows every marketplace tag.
func NewWithDefaultRules() *Validator {
	v := NewValidator()
	v.Register(NewMarketplaceValidationRules()...)
	return v
}

func (v *Validator) Register(rules ...ValidationRule) {
	for _, validationRule := range rules {
		validationRule.Rule(v.validator)
	}
	v.rules = append(v.rules, rules...)
}

// Struct validates s and flattens field errors into one aggregate so every
// offending field is reported at once.
func (v *Validator) Struct(s any) error {
	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, NewErrInvalidField(fe.Field(), fe.Tag(), fe.Param()))
	}
	return utilerrors.NewAggregate(errs)
}

var defaultValidator = NewWithDefaultRules()

// Validate runs the shared validator over a request body.
func Validate(s any) error {
	if err := defaultValidator.Struct(s); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}
