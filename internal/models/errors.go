package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes shared by the service layer and the HTTP surface.
const (
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInvalidState = "INVALID_STATE"
	CodeForbidden    = "FORBIDDEN"
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeStorage      = "STORAGE_ERROR"
	CodeInternal     = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error.
// Code is the broad category, Kind narrows it to a specific failure (e.g. "already_following").
type AppError struct {
	Code    string
	Kind    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on Kind when the target has one, otherwise on Code alone.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if t.Kind != "" {
		return e.Kind == t.Kind
	}
	return t.Message == "" && e.Code == t.Code
}

// HTTPStatus maps the error category onto a response status.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeConflict:
		return fiber.StatusConflict
	case CodeInvalidState:
		return fiber.StatusUnprocessableEntity
	case CodeForbidden:
		return fiber.StatusForbidden
	case CodeValidation:
		return fiber.StatusBadRequest
	case CodeUnauthorized:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// Category sentinels, usable with errors.Is.
var (
	ErrNotFound     = &AppError{Code: CodeNotFound}
	ErrConflict     = &AppError{Code: CodeConflict}
	ErrInvalidState = &AppError{Code: CodeInvalidState}
	ErrForbidden    = &AppError{Code: CodeForbidden}
	ErrStorage      = &AppError{Code: CodeStorage}
)

// Follow graph and moderation failures.
var (
	ErrSelfFollow = &AppError{
		Code: CodeInvalidState, Kind: "self_follow", Message: "You cannot follow yourself",
	}
	ErrAlreadyFollowing = &AppError{
		Code: CodeConflict, Kind: "already_following", Message: "You are already following this user",
	}
	ErrNotFollowing = &AppError{
		Code: CodeInvalidState, Kind: "not_following", Message: "You are not following this user",
	}
	ErrBlockedInteraction = &AppError{
		Code: CodeForbidden, Kind: "blocked_interaction", Message: "Cannot follow this user",
	}
	ErrSelfReport = &AppError{
		Code: CodeInvalidState, Kind: "self_report", Message: "You cannot report your own post",
	}
	ErrDuplicateReport = &AppError{
		Code: CodeConflict, Kind: "duplicate_report", Message: "You have already reported this post",
	}
	ErrInvalidTransition = &AppError{
		Code: CodeInvalidState, Kind: "invalid_transition", Message: "Report status cannot be changed",
	}
)

// NewNotFoundError reports a missing entity.
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

// NewInvalidTransitionError names the rejected status change.
func NewInvalidTransitionError(from, to ReportStatus) *AppError {
	return &AppError{
		Code:    CodeInvalidState,
		Kind:    ErrInvalidTransition.Kind,
		Message: fmt.Sprintf("Cannot move report from %s to %s", from, to),
	}
}

// NewStorageError wraps a failed store read or write.
func NewStorageError(err error) *AppError {
	return &AppError{
		Code:    CodeStorage,
		Message: "Storage unavailable",
		Err:     err,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var appErr *AppError
	if errors.As(err, &appErr) {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
			Kind:  appErr.Kind,
		}
		// Storage details stay in the logs.
		if appErr.Err != nil && appErr.Code != CodeStorage && appErr.Code != CodeInternal {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}

// RespondWithAppError derives the status from the error category.
func RespondWithAppError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var appErr *AppError
	if errors.As(err, &appErr) {
		status = appErr.HTTPStatus()
	}
	return RespondWithError(c, status, err)
}
