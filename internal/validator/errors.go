package validator

import (
	"fmt"
)

type ErrInvalidField struct {
	Field string
	Tag   string
	error
}

func NewErrInvalidField(field, tag, param string) *ErrInvalidField {
	msg := fmt.Sprintf("field %s failed on %q", field, tag)
	if param != "" {
		msg = fmt.Sprintf("field %s failed on %q (%s)", field, tag, param)
	}
	return &ErrInvalidField{Field: field, Tag: tag, error: fmt.Errorf("%s", msg)}
}
