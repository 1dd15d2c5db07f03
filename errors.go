package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// Resource names, also used as REST path segments.
const (
	resourceSongs  = "songs"
	resourceAlbums = "albums"
	resourceUsers  = "users"
)

// NotFoundError is returned by Get and Update when no record has the id.
type NotFoundError struct {
	Resource string
	ID       uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

func (e *NotFoundError) StatusCode() int {
	return http.StatusNotFound
}

func (e *NotFoundError) Hint() string {
	return fmt.Sprintf("Check that %s %d exists. Use GET /%s to list them.", e.Resource, e.ID, e.Resource)
}

// ValidationError is returned when a required field is missing.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *ValidationError) StatusCode() int {
	return http.StatusBadRequest
}

func (e *ValidationError) Hint() string {
	if e.Field != "" {
		return fmt.Sprintf("Check the value of field %q.", e.Field)
	}
	return "Check the request body format and required fields."
}

func requiredField(field string) error {
	return &ValidationError{Field: field, Message: "is required"}
}

type errorResponse struct {
	Error    string `json:"error"`
	Detail   string `json:"detail,omitempty"`
	Resource string `json:"resource,omitempty"`
	ID       string `json:"id,omitempty"`
	Field    string `json:"field,omitempty"`
	Hint     string `json:"hint,omitempty"`

	status int
}

func toErrorResponse(err error) *errorResponse {
	var (
		notFound   *NotFoundError
		validation *ValidationError
	)

	switch {
	case errors.As(err, &notFound):
		return &errorResponse{
			Error:    "resource not found",
			Resource: notFound.Resource,
			ID:       strconv.FormatUint(notFound.ID, 10),
			Hint:     notFound.Hint(),
			status:   notFound.StatusCode(),
		}
	case errors.As(err, &validation):
		return &errorResponse{
			Error:  "invalid request",
			Detail: validation.Message,
			Field:  validation.Field,
			Hint:   validation.Hint(),
			status: validation.StatusCode(),
		}
	default:
		return &errorResponse{
			Error:  "internal error",
			Detail: err.Error(),
			status: http.StatusInternalServerError,
		}
	}
}

// fromErrorResponse rebuilds the typed error a server encoded with toErrorResponse.
func fromErrorResponse(status int, resp *errorResponse) error {
	switch status {
	case http.StatusNotFound:
		id, _ := strconv.ParseUint(resp.ID, 10, 64)
		return &NotFoundError{Resource: resp.Resource, ID: id}
	case http.StatusBadRequest:
		return &ValidationError{Field: resp.Field, Message: resp.Detail}
	default:
		return fmt.Errorf("unexpected status %d: %s: %s", status, resp.Error, resp.Detail)
	}
}

func statusCode(err error) int {
	return toErrorResponse(err).status
}

func isNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
