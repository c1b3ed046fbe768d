package gcp

import (
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
)

// IsNotFound reports whether err is an HTTP 404 from a Google API.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsForbidden reports whether err is an HTTP 403 from a Google API.
// Projects the caller cannot see also surface as 403, so callers treat
// this the same as absence when probing.
func IsForbidden(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

// IsAlreadyExists reports whether err is an HTTP 409 from a Google API.
// Create calls racing an earlier run land here and are treated as success.
func IsAlreadyExists(err error) bool {
	return hasStatus(err, http.StatusConflict)
}

func hasStatus(err error, code int) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == code
	}
	return false
}
