package authgin

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

func loginTemplates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}
