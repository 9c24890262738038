// Package web carries the embedded browser assets: the page templates
// and the static files served under /static/.
package web

import "embed"

// TemplatesFS holds the server-rendered page and fragment templates.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds the stylesheet and the client-side glue script.
//
//go:embed static/*
var StaticFS embed.FS
