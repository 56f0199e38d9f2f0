package webrender

import (
	"fmt"
	"net/http"
	"regexp"

	"github.com/go-chi/render"
	"github.com/lib/pq"
)

// For a table of HTTP status codes (400, 401, etc) see here
// https://golang.org/pkg/net/http/

// NewErrTokenInvalid creates a new ErrTokenInvalid
func NewErrTokenInvalid(err error) render.Renderer {
	return &ErrTokenInvalid{
		ErrResponse{
			HTTPStatusCode: http.StatusUnauthorized,
			Code:           1,
			StatusText:     "token not given, invalid or expired",
			ErrorText:      errorToSensibleString(err),
		},
	}
}

// ErrTokenInvalid token is not valid or expired
type ErrTokenInvalid struct {
	ErrResponse
}

// NewErrForbidden creates a new ErrForbidden. The action is denied by
// policy; nothing was looked up or mutated.
func NewErrForbidden(err error) render.Renderer {
	return &ErrForbidden{
		ErrResponse{
			HTTPStatusCode: http.StatusForbidden,
			Code:           2,
			StatusText:     "action not allowed",
			ErrorText:      errorToSensibleString(err),
		},
	}
}

// ErrForbidden is policy denial
type ErrForbidden struct {
	ErrResponse
}

// NewErrNotFound creates a new ErrNotFound. Also used when a row exists but
// is outside the caller's visible set; the two cases must stay
// indistinguishable so ids can't be probed.
func NewErrNotFound(err error) render.Renderer {
	return &ErrNotFound{
		ErrResponse{
			HTTPStatusCode: http.StatusNotFound,
			Code:           3,
			StatusText:     "resource not found",
			ErrorText:      errorToSensibleString(err),
		},
	}
}

// ErrNotFound is missing or invisible resource
type ErrNotFound struct {
	ErrResponse
}

// NewErrBadRequest creates a new ErrBadRequest
func NewErrBadRequest(err error) render.Renderer {
	return &ErrBadRequest{
		ErrResponse{
			HTTPStatusCode: http.StatusBadRequest,
			Code:           4,
			StatusText:     "general bad request",
			ErrorText:      errorToSensibleString(err),
		},
	}
}

// ErrBadRequest is on all type of request errors
type ErrBadRequest struct {
	ErrResponse
}

// NewErrParsingJSON creates a new ErrParsingJSON
func NewErrParsingJSON(err error) render.Renderer {
	return &ErrParsingJSON{
		ErrResponse{
			HTTPStatusCode: http.StatusBadRequest,
			Code:           5,
			StatusText:     "error in parsing JSON",
			ErrorText:      errorToSensibleString(err),
		},
	}
}

// ErrParsingJSON is error parsing JSON and creating structs
type ErrParsingJSON struct {
	ErrResponse
}

// NewErrPatch creates a new ErrPatch
func NewErrPatch(err error) render.Renderer {
	return &ErrPatch{
		ErrResponse{
			HTTPStatusCode: http.StatusBadRequest,
			Code:           6,
			StatusText:     "error applying JSON patch",
			ErrorText:      errorToSensibleString(err),
		},
	}
}

// ErrPatch is a malformed or inapplicable JSON patch
type ErrPatch struct {
	ErrResponse
}

// NewErrValidation creates a new ErrValidation
func NewErrValidation(err error) render.Renderer {
	return &ErrValidation{
		ErrResponse{
			HTTPStatusCode: http.StatusUnprocessableEntity,
			Code:           7,
			StatusText:     "model validation failed",
			ErrorText:      errorToSensibleString(err),
		},
	}
}

// ErrValidation is model validation failure
type ErrValidation struct {
	ErrResponse
}

// NewErrDBError creates a new ErrDBError
func NewErrDBError(err error) render.Renderer {
	return &ErrDBError{
		ErrResponse{
			HTTPStatusCode: http.StatusInternalServerError,
			Code:           8,
			StatusText:     "database error",
			ErrorText:      errorToSensibleString(err),
		},
	}
}

// ErrDBError is infrastructure failure talking to the database, propagated
// unchanged
type ErrDBError struct {
	ErrResponse
}

// NewErrInternalServerError is everything else
func NewErrInternalServerError(err error) render.Renderer {
	return &ErrInternalServerError{
		ErrResponse{
			HTTPStatusCode: http.StatusInternalServerError,
			Code:           9,
			StatusText:     "internal server error",
			ErrorText:      errorToSensibleString(err),
		},
	}
}

// ErrInternalServerError some other problem
type ErrInternalServerError struct {
	ErrResponse
}

// ErrResponse is the JSON body every error renders to
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText string `json:"msg,omitempty"`      // user-level status message
	Code       int64  `json:"code,omitempty"`     // application-specific error code
	ErrorText  string `json:"error,omitempty"`    // application-level error message, for debugging
	MoreInfo   string `json:"moreInfo,omitempty"` // URL link
}

// Render is to satisfy the render.Render interface
func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Cache-Control", "no-store")
	render.Status(r, e.HTTPStatusCode)
	return nil
}

var reDupKey = regexp.MustCompile(`Key \((.*?)\)=\((.*?)\) already exists`)

// errorToSensibleString keeps Postgres errors presentable. Nobody needs to
// see the raw detail of a 23505.
func errorToSensibleString(err error) string {
	if pe, ok := err.(*pq.Error); ok {
		if pe.Code == "23505" { // unique_violation
			if m := reDupKey.FindStringSubmatch(pe.Detail); m != nil {
				return fmt.Sprintf("duplicated %s '%s'", m[1], m[2])
			}
			return "duplicated entry"
		}
	}

	if err != nil {
		return err.Error()
	}
	return ""
}
