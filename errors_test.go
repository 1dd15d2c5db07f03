package main

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToErrorResponse(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errorResponse
	}{
		{
			name: "not found",
			err:  fmt.Errorf("loading: %w", &NotFoundError{Resource: resourceAlbums, ID: 7}),
			want: errorResponse{
				Error:    "resource not found",
				Resource: resourceAlbums,
				ID:       "7",
				Hint:     "Check that albums 7 exists. Use GET /albums to list them.",
				status:   http.StatusNotFound,
			},
		},
		{
			name: "validation",
			err:  requiredField("email"),
			want: errorResponse{
				Error:  "invalid request",
				Detail: "is required",
				Field:  "email",
				Hint:   `Check the value of field "email".`,
				status: http.StatusBadRequest,
			},
		},
		{
			name: "other",
			err:  errors.New("disk on fire"),
			want: errorResponse{
				Error:  "internal error",
				Detail: "disk on fire",
				status: http.StatusInternalServerError,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, *toErrorResponse(tt.err))
		})
	}
}

func TestFromErrorResponse(t *testing.T) {
	err := fromErrorResponse(http.StatusNotFound, toErrorResponse(&NotFoundError{Resource: resourceUsers, ID: 3}))
	assert.Equal(t, &NotFoundError{Resource: resourceUsers, ID: 3}, err)

	err = fromErrorResponse(http.StatusBadRequest, toErrorResponse(requiredField("title")))
	assert.Equal(t, &ValidationError{Field: "title", Message: "is required"}, err)

	err = fromErrorResponse(http.StatusInternalServerError, toErrorResponse(errors.New("boom")))
	assert.EqualError(t, err, "unexpected status 500: internal error: boom")
}
