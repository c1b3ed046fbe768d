package gcp

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/api/googleapi"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		notFound      bool
		forbidden     bool
		alreadyExists bool
	}{
		{
			name:     "not found",
			err:      &googleapi.Error{Code: 404, Message: "project not found"},
			notFound: true,
		},
		{
			name:      "forbidden",
			err:       &googleapi.Error{Code: 403, Message: "caller lacks permission"},
			forbidden: true,
		},
		{
			name:          "conflict",
			err:           &googleapi.Error{Code: 409, Message: "already exists"},
			alreadyExists: true,
		},
		{
			name: "server error",
			err:  &googleapi.Error{Code: 500, Message: "internal"},
		},
		{
			name:     "wrapped not found",
			err:      fmt.Errorf("looking up project: %w", &googleapi.Error{Code: 404}),
			notFound: true,
		},
		{
			name: "plain error",
			err:  errors.New("connection refused"),
		},
		{
			name: "nil",
			err:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.notFound {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.notFound)
			}
			if got := IsForbidden(tt.err); got != tt.forbidden {
				t.Errorf("IsForbidden() = %v, want %v", got, tt.forbidden)
			}
			if got := IsAlreadyExists(tt.err); got != tt.alreadyExists {
				t.Errorf("IsAlreadyExists() = %v, want %v", got, tt.alreadyExists)
			}
		})
	}
}
