package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Kind classifies an API error so handlers and tests can branch on the
// failure category without parsing messages.
type Kind string

const (
	KindMissingField          Kind = "MissingField"
	KindInvalidType           Kind = "InvalidType"
	KindOutOfRange            Kind = "OutOfRange"
	KindInvalidImageReference Kind = "InvalidImageReference"
	KindUnsupportedMediaType  Kind = "UnsupportedMediaType"
	KindPayloadTooLarge       Kind = "PayloadTooLarge"
	KindUploadTransportError  Kind = "UploadTransportError"
	KindStorageWriteError     Kind = "StorageWriteError"
	KindDatabaseError         Kind = "DatabaseError"
	KindNotFound              Kind = "NotFound"
	KindMethodNotAllowed      Kind = "MethodNotAllowed"
	KindNotImplemented        Kind = "NotImplemented"
)

// APIError is a structured error surfaced to clients as an HTTP status plus
// a {status:"error", message} JSON body. The message is always safe to show
// to the caller; driver and filesystem detail stays in the server log.
type APIError struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func New(kind Kind, status int, msg string, args ...any) *APIError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &APIError{Kind: kind, Status: status, Message: msg}
}

func MissingField(field string) *APIError {
	return New(KindMissingField, http.StatusBadRequest, "Field '%s' is required", field)
}

func InvalidType(field string) *APIError {
	if field == "" {
		return New(KindInvalidType, http.StatusBadRequest, "Malformed JSON body")
	}
	return New(KindInvalidType, http.StatusBadRequest, "Field '%s' has an invalid type", field)
}

func OutOfRange(field, bounds string) *APIError {
	return New(KindOutOfRange, http.StatusBadRequest, "Field '%s' must be in range [%s]", field, bounds)
}

func InvalidImageReference() *APIError {
	return New(KindInvalidImageReference, http.StatusBadRequest, "image_url must be a relative path under uploads/")
}

func UnsupportedMediaType(contentType string) *APIError {
	return New(KindUnsupportedMediaType, http.StatusBadRequest,
		"Unsupported image type '%s'. Allowed: JPEG, PNG, GIF, WebP", contentType)
}

func PayloadTooLarge(limit int64) *APIError {
	return New(KindPayloadTooLarge, http.StatusBadRequest, "Image exceeds the maximum size of %d bytes", limit)
}

func UploadTransport(msg string) *APIError {
	return New(KindUploadTransportError, http.StatusBadRequest, msg)
}

func StorageWrite() *APIError {
	return New(KindStorageWriteError, http.StatusInternalServerError, "Failed to store uploaded image")
}

func Database(action string) *APIError {
	return New(KindDatabaseError, http.StatusInternalServerError, "Failed to %s", action)
}

func NotFound(msg string) *APIError {
	return New(KindNotFound, http.StatusNotFound, msg)
}

func MethodNotAllowed() *APIError {
	return New(KindMethodNotAllowed, http.StatusMethodNotAllowed, "Method not allowed")
}

func NotImplemented(msg string) *APIError {
	return New(KindNotImplemented, http.StatusNotImplemented, msg)
}

// From extracts an *APIError from err, or nil if err is not one.
func From(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}

// FromValidationError maps the first reported validation failure to an
// APIError. Validation rules report custom tags in rule order, so the first
// entry is the first violated rule.
func FromValidationError(err error) *APIError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return InvalidType("")
	}

	fe := ve[0]
	switch fe.Tag() {
	case "missing":
		return MissingField(fe.Field())
	case "out_of_range":
		return OutOfRange(fe.Field(), fe.Param())
	case "image_prefix":
		return InvalidImageReference()
	default:
		return New(KindInvalidType, http.StatusBadRequest, "Field '%s' has an invalid value", fe.Field())
	}
}
