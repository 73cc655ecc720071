package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindNotFound
	KindStorage
	KindAuth
	KindForbidden
	// KindRejected: geofence menolak aksi (di luar radius / jam).
	KindRejected
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindStorage:
		return "storage"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindRejected:
		return "rejected"
	}
	return "unknown"
}

// Codes used by callers to branch on specific failures.
const (
	CodeInvalidInput      = "INVALID_INPUT"
	CodeAlreadyClockedIn  = "ALREADY_CLOCKED_IN"
	CodeAlreadyClockedOut = "ALREADY_CLOCKED_OUT"
	CodeOnLeave           = "ON_LEAVE"
	CodeAlreadyRecorded   = "ALREADY_RECORDED"
	CodeNoOpenClockIn     = "NO_OPEN_CLOCK_IN"
	CodeEmailTaken        = "EMAIL_TAKEN"
	CodeNotFound          = "NOT_FOUND"
	CodeNoProfile         = "NO_EMPLOYEE_PROFILE"
	CodeStorage           = "STORAGE_ERROR"
	CodeInvalidCreds      = "INVALID_CREDENTIALS"
	CodeUnauthenticated   = "UNAUTHENTICATED"
	CodeInvalidResetToken = "INVALID_RESET_TOKEN"
	CodeForbidden         = "FORBIDDEN"
)

// StorageMessage is the only text a caller ever sees for a storage failure.
const StorageMessage = "Terjadi kesalahan pada server, silakan coba lagi"

type Error struct {
	Kind    Kind
	Code    string
	Message string
	// Fields holds per-field validation failures.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s [%s]: %s: %v", e.Kind, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind and Code so sentinel-style comparisons work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && (t.Code == "" || e.Code == t.Code)
}

func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindRejected:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// PublicMessage hides internal detail for storage failures.
func (e *Error) PublicMessage() string {
	if e.Kind == KindStorage || e.Message == "" {
		return StorageMessage
	}
	return e.Message
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Code: CodeInvalidInput, Message: msg}
}

func ValidationFields(msg string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Code: CodeInvalidInput, Message: msg, Fields: fields}
}

func Conflict(code, msg string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: msg}
}

func NotFound(code, msg string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: msg}
}

func Storage(err error) *Error {
	return &Error{Kind: KindStorage, Code: CodeStorage, Message: StorageMessage, Err: err}
}

func Auth(code, msg string) *Error {
	return &Error{Kind: KindAuth, Code: code, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Code: CodeForbidden, Message: msg}
}

func Rejected(code, msg string) *Error {
	return &Error{Kind: KindRejected, Code: code, Message: msg}
}

// As returns the *Error inside err, or nil.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

func KindOf(err error) Kind {
	if e := As(err); e != nil {
		return e.Kind
	}
	return 0
}

func CodeOf(err error) string {
	if e := As(err); e != nil {
		return e.Code
	}
	return ""
}
