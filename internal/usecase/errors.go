package usecase

import (
	"errors"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const (
	CodeNotFound           = "NOT_FOUND"
	CodeValidation         = "VALIDATION_ERROR"
	CodeDuplicateEmail     = "DUPLICATE_EMAIL"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeStore              = "STORE_ERROR"
	CodeAuth               = "AUTH_ERROR"
)

// DomainError is a failure the caller can act on; Message is safe to show to users.
type DomainError struct {
	Code    string
	Message string
	Fields  []ValidationError
	Err     error
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError wraps infrastructure failures.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// ErrorCode extracts the code of a DomainError or TechnicalError, or "" for anything else.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	var te *TechnicalError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}

func newValidationError(fields []ValidationError) *DomainError {
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f.Error())
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: strings.Join(msgs, "; "),
		Fields:  fields,
	}
}

// translate maps store errors onto the use-case taxonomy.
func translate(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, entity.ErrCustomerNotFound), errors.Is(err, entity.ErrLeadNotFound):
		return &DomainError{Code: CodeNotFound, Message: err.Error(), Err: err}
	case errors.Is(err, entity.ErrEmailAlreadyExists):
		return &DomainError{Code: CodeDuplicateEmail, Message: err.Error(), Err: err}
	default:
		return &TechnicalError{Code: CodeStore, Message: "record store failure", Err: err}
	}
}

// ValidationFailure returns nil when fields is empty and a VALIDATION_ERROR otherwise.
func ValidationFailure(fields []ValidationError) error {
	if len(fields) == 0 {
		return nil
	}
	return newValidationError(fields)
}
