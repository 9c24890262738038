// Package http provides the HTTP adapter for the expense logger.
//
// This file implements a small builder for HTMX responses: a fragment
// body plus the HX-Trigger events the front-end listens for.

package http

import (
	"encoding/json"
	"html/template"
	"net/http"

	"spendlog/internal/core"
	"spendlog/internal/session"
)

// Client event names carried in HX-Trigger headers. web/static/app.js
// owns the listening side of this contract.
const (
	eventFormReset   = "form:reset"
	eventShowNotice  = "show-notice"
	eventViewRefresh = "view:refresh"
	eventViewActive  = "view:active"
)

// NoticeType is the severity of a transient notice.
type NoticeType string

const (
	NoticeSuccess NoticeType = "success"
	NoticeError   NoticeType = "error"
)

// HTMXResponseBuilder provides a fluent API for building HTMX responses.
// It encapsulates the construction of HX-Trigger headers and response
// bodies.
type HTMXResponseBuilder struct {
	triggers   map[string]any
	statusCode int
	body       []byte
	headers    map[string]string
}

// NewHTMXResponse creates a new response builder with default 200 status.
func NewHTMXResponse() *HTMXResponseBuilder {
	return &HTMXResponseBuilder{
		triggers:   make(map[string]any),
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *HTMXResponseBuilder) Status(code int) *HTMXResponseBuilder {
	b.statusCode = code
	return b
}

// Trigger adds a named client event with optional payload to the
// HX-Trigger header.
func (b *HTMXResponseBuilder) Trigger(name string, data any) *HTMXResponseBuilder {
	b.triggers[name] = data
	return b
}

// TriggerFormReset tells the intake form to clear back to its defaults.
func (b *HTMXResponseBuilder) TriggerFormReset() *HTMXResponseBuilder {
	return b.Trigger(eventFormReset, struct{}{})
}

// TriggerViewRefresh tells the client to refetch the page fragment for
// the named view.
func (b *HTMXResponseBuilder) TriggerViewRefresh(v core.View) *HTMXResponseBuilder {
	return b.Trigger(eventViewRefresh, map[string]string{"view": v.String()})
}

// TriggerViewActive tells the switcher which nav link to highlight.
func (b *HTMXResponseBuilder) TriggerViewActive(v core.View) *HTMXResponseBuilder {
	return b.Trigger(eventViewActive, map[string]string{"view": v.String()})
}

// TriggerNotice adds a show-notice event. Every notice, success or
// error, auto-hides after the same fixed duration; the client receives
// it in milliseconds.
func (b *HTMXResponseBuilder) TriggerNotice(kind NoticeType, message string) *HTMXResponseBuilder {
	return b.Trigger(eventShowNotice, map[string]any{
		"type":     string(kind),
		"message":  message,
		"duration": session.NoticeDuration.Milliseconds(),
	})
}

// Header adds a custom header to the response.
func (b *HTMXResponseBuilder) Header(name, value string) *HTMXResponseBuilder {
	b.headers[name] = value
	return b
}

// Body sets the response body as bytes.
func (b *HTMXResponseBuilder) Body(content []byte) *HTMXResponseBuilder {
	b.body = content
	return b
}

// BodyString sets the response body as a string.
func (b *HTMXResponseBuilder) BodyString(content string) *HTMXResponseBuilder {
	b.body = []byte(content)
	return b
}

// BodyHTML sets the response body as HTML content.
func (b *HTMXResponseBuilder) BodyHTML(html string) *HTMXResponseBuilder {
	b.headers["Content-Type"] = "text/html; charset=utf-8"
	b.body = []byte(html)
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *HTMXResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}

	if len(b.triggers) > 0 {
		triggerJSON, err := json.Marshal(b.triggers)
		if err == nil {
			w.Header().Set("HX-Trigger", string(triggerJSON))
		}
	}

	w.WriteHeader(b.statusCode)
	if len(b.body) > 0 {
		_, _ = w.Write(b.body)
	}
}

// ErrorResponse creates a standard error response with HTML formatting.
// The message is HTML-escaped for safety.
func ErrorResponse(statusCode int, message string) *HTMXResponseBuilder {
	escapedMsg := template.HTMLEscapeString(message)
	return NewHTMXResponse().
		Status(statusCode).
		BodyHTML(`<div class="error">` + escapedMsg + `</div>`)
}

// BadRequestError creates a 400 Bad Request error response.
func BadRequestError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

// NotFoundError creates a 404 Not Found error response.
func NotFoundError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

// InternalServerError creates a 500 Internal Server Error response.
func InternalServerError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

// MethodNotAllowedError creates a 405 Method Not Allowed error response.
func MethodNotAllowedError(allowedMethods string) *HTMXResponseBuilder {
	return NewHTMXResponse().
		Status(http.StatusMethodNotAllowed).
		Header("Allow", allowedMethods)
}
