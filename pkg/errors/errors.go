package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

// Code is the stable machine-readable error identifier sent on the wire.
type Code string

const (
	CodeMissingFields      Code = "missing_fields"
	CodeInvalidPublishedAt Code = "invalid_publishedAt"
	CodeInvalidQuantity    Code = "invalid_quantity"
	CodeOutOfStock         Code = "out_of_stock"
	CodeUnauthorized       Code = "unauthorized"
	CodeInvalidToken       Code = "invalid_token"
	CodeInvalidCredentials Code = "invalid_credentials"
	CodeForbidden          Code = "forbidden"
	CodeNotFound           Code = "not_found"
	CodeEmailExists        Code = "email_exists"
	CodeInternal           Code = "internal_error"
	CodeUnavailable        Code = "unavailable"
)

// Metadata describes how a code is surfaced over HTTP.
type Metadata struct {
	HTTPStatus    int
	PublicMessage string
}

var metadataByCode = map[Code]Metadata{
	CodeMissingFields:      {HTTPStatus: http.StatusBadRequest, PublicMessage: "required fields missing"},
	CodeInvalidPublishedAt: {HTTPStatus: http.StatusBadRequest, PublicMessage: "publishedAt is not a valid date"},
	CodeInvalidQuantity:    {HTTPStatus: http.StatusBadRequest, PublicMessage: "quantity must be a number >= 0"},
	CodeOutOfStock:         {HTTPStatus: http.StatusBadRequest, PublicMessage: "no copies left in stock"},
	CodeUnauthorized:       {HTTPStatus: http.StatusUnauthorized, PublicMessage: "authentication required"},
	CodeInvalidToken:       {HTTPStatus: http.StatusUnauthorized, PublicMessage: "token invalid or expired"},
	CodeInvalidCredentials: {HTTPStatus: http.StatusUnauthorized, PublicMessage: "invalid credentials"},
	CodeForbidden:          {HTTPStatus: http.StatusForbidden, PublicMessage: "access denied"},
	CodeNotFound:           {HTTPStatus: http.StatusNotFound, PublicMessage: "resource not found"},
	CodeEmailExists:        {HTTPStatus: http.StatusConflict, PublicMessage: "email already registered"},
	CodeInternal:           {HTTPStatus: http.StatusInternalServerError, PublicMessage: "internal server error"},
	CodeUnavailable:        {HTTPStatus: http.StatusServiceUnavailable, PublicMessage: "dependency unavailable"},
}

// MetadataFor resolves the HTTP metadata for a code, defaulting to internal.
func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

// Error is the typed terminal error carried from services to the HTTP layer.
type Error struct {
	code    Code
	message string
	missing []string
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

// Missing lists the absent field names for CodeMissingFields responses.
func (e *Error) Missing() []string {
	if e == nil {
		return nil
	}
	return e.missing
}

// WithMissing attaches the list of absent field names.
func (e *Error) WithMissing(fields []string) *Error {
	if e == nil {
		return nil
	}
	e.missing = fields
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As extracts a typed *Error from an error chain, or nil.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}
