// Package http provides the HTTP adapter for the expense logger.
//
// This file implements small request helpers shared by the handlers:
// method checks, form parsing, and lifting form values into the
// session's input type.

package http

import (
	"net/http"
	"net/url"
	"strings"

	"spendlog/internal/session"
)

// RequireMethod checks if the request method matches one of the expected
// methods. Returns an error response builder on mismatch, nil when the
// method is acceptable.
func RequireMethod(r *http.Request, methods ...string) *HTMXResponseBuilder {
	for _, m := range methods {
		if r.Method == m {
			return nil
		}
	}
	return MethodNotAllowedError(strings.Join(methods, ", "))
}

// RequirePOST is a convenience check for POST-only handlers.
func RequirePOST(r *http.Request) *HTMXResponseBuilder {
	return RequireMethod(r, http.MethodPost)
}

// ParseFormOrFail parses the request form and returns an error response
// on failure. Returns nil on success.
func ParseFormOrFail(r *http.Request) *HTMXResponseBuilder {
	if err := r.ParseForm(); err != nil {
		return BadRequestError("Malformed form submission")
	}
	return nil
}

// formFields lifts submission form values into the session's input
// type. Values pass through raw; trimming and sanitizing happen during
// validation so every intake path shares one set of rules.
func formFields(form url.Values) session.FormFields {
	return session.FormFields{
		Description: form.Get("description"),
		Amount:      form.Get("amount"),
		Category:    form.Get("category"),
		Date:        form.Get("date"),
	}
}
