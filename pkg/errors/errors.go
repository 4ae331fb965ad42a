package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation            Code = "VALIDATION_FAILED"
	CodeInvalidCredentials    Code = "INVALID_CREDENTIALS"
	CodeUnauthenticated       Code = "UNAUTHENTICATED"
	CodeTokenInvalid          Code = "TOKEN_INVALID"
	CodeForbidden             Code = "FORBIDDEN"
	CodeCsrfInvalid           Code = "CSRF_INVALID"
	CodeNotFound              Code = "NOT_FOUND"
	CodeDuplicateUsername     Code = "DUPLICATE_USERNAME"
	CodeDuplicateEmail        Code = "DUPLICATE_EMAIL"
	CodeDuplicateCategoryName Code = "DUPLICATE_CATEGORY_NAME"
	CodeProductInactive       Code = "PRODUCT_INACTIVE"
	CodeInsufficientStock     Code = "INSUFFICIENT_STOCK"
	CodeCategoryInUse         Code = "CATEGORY_IN_USE"
	CodeCategoryDepth         Code = "CATEGORY_DEPTH_EXCEEDED"
	CodeCategoryCycle         Code = "CATEGORY_CYCLE"
	CodeRateLimit             Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal              Code = "INTERNAL_ERROR"
)

// Metadata drives the central problem-document mapper.
type Metadata struct {
	HTTPStatus     int
	Title          string
	Slug           string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		HTTPStatus:     http.StatusBadRequest,
		Title:          "Validation Failed",
		Slug:           "validation-failed",
		DetailsAllowed: true,
	},
	CodeInvalidCredentials: {
		HTTPStatus: http.StatusUnauthorized,
		Title:      "Invalid Credentials",
		Slug:       "invalid-credentials",
	},
	CodeUnauthenticated: {
		HTTPStatus: http.StatusUnauthorized,
		Title:      "Authentication Required",
		Slug:       "unauthenticated",
	},
	CodeTokenInvalid: {
		HTTPStatus: http.StatusUnauthorized,
		Title:      "Invalid Token",
		Slug:       "token-invalid",
	},
	CodeForbidden: {
		HTTPStatus: http.StatusForbidden,
		Title:      "Access Denied",
		Slug:       "access-denied",
	},
	CodeCsrfInvalid: {
		HTTPStatus: http.StatusForbidden,
		Title:      "Invalid CSRF Token",
		Slug:       "csrf-invalid",
	},
	CodeNotFound: {
		HTTPStatus: http.StatusNotFound,
		Title:      "Not Found",
		Slug:       "not-found",
	},
	CodeDuplicateUsername: {
		HTTPStatus: http.StatusConflict,
		Title:      "Duplicate Username",
		Slug:       "duplicate-username",
	},
	CodeDuplicateEmail: {
		HTTPStatus: http.StatusConflict,
		Title:      "Duplicate Email",
		Slug:       "duplicate-email",
	},
	CodeDuplicateCategoryName: {
		HTTPStatus: http.StatusConflict,
		Title:      "Duplicate Category Name",
		Slug:       "duplicate-category-name",
	},
	CodeProductInactive: {
		HTTPStatus: http.StatusConflict,
		Title:      "Product Inactive",
		Slug:       "product-inactive",
	},
	CodeInsufficientStock: {
		HTTPStatus: http.StatusConflict,
		Title:      "Insufficient Stock",
		Slug:       "insufficient-stock",
	},
	CodeCategoryInUse: {
		HTTPStatus: http.StatusConflict,
		Title:      "Category In Use",
		Slug:       "category-in-use",
	},
	CodeCategoryDepth: {
		HTTPStatus: http.StatusConflict,
		Title:      "Category Depth Exceeded",
		Slug:       "category-depth-exceeded",
	},
	CodeCategoryCycle: {
		HTTPStatus: http.StatusConflict,
		Title:      "Category Cycle",
		Slug:       "category-cycle",
	},
	CodeRateLimit: {
		HTTPStatus: http.StatusTooManyRequests,
		Title:      "Rate Limit Exceeded",
		Slug:       "rate-limit-exceeded",
	},
	CodeInternal: {
		HTTPStatus: http.StatusInternalServerError,
		Title:      "Internal Server Error",
		Slug:       "internal-error",
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
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

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

// WithDetails attaches structured detail data, rendered into the problem
// document only when the code's metadata allows it.
func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
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
