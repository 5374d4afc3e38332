package constants

import (
	"errors"
	"net/http"
)

// CodedError carries the HTTP status the API layer answers with.
type CodedError struct {
	msg  string
	code int
}

func NewCodedError(msg string, code int) *CodedError {
	return &CodedError{msg: msg, code: code}
}

func (e *CodedError) Error() string {
	return e.msg
}

func (e *CodedError) Code() int {
	return e.code
}

var (
	ErrNotFound       = NewCodedError("not found", http.StatusNotFound)
	ErrBadRequest     = NewCodedError("bad request", http.StatusBadRequest)
	ErrNotEnoughData  = NewCodedError("not enough data points", http.StatusUnprocessableEntity)
	ErrUpstream       = NewCodedError("upstream source unavailable", http.StatusBadGateway)
	ErrNotImplemented = NewCodedError("source not configured", http.StatusNotImplemented)
)

// StatusOf returns the HTTP status of the first CodedError in err's chain.
func StatusOf(err error) int {
	var ce *CodedError
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return http.StatusInternalServerError
}
