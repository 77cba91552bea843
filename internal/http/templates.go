package http

import (
	"html/template"

	"showcase/internal/core"
	"showcase/internal/gallery"
	appweb "showcase/web"
)

var templateFuncs = template.FuncMap{
	"yen":           formatYen,
	"count":         formatCount,
	"statusLabel":   func(s core.Status) string { return s.Label() },
	"categoryLabel": gallery.CategoryLabel,
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
}
