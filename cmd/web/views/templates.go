package views

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names
const (
	HomeTemplate     = "home.html"
	PostTemplate     = "post.html"
	FallbackTemplate = "fallback.html"
	ErrorTemplate    = "error.html"
)

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}
