// Package template provides template rendering utilities
package template

import (
	"html/template"
	"net/http"

	"github.com/Fahad-D-Riano/FINAL-PROJECT/pkg/logger"
)

// Renderer handles template parsing and rendering. Pages are parsed per
// request against a shared base layout.
type Renderer struct {
	templateDir  string
	baseTemplate string
}

// NewRenderer creates a new template renderer
func NewRenderer(templateDir, baseTemplate string) *Renderer {
	return &Renderer{
		templateDir:  templateDir,
		baseTemplate: baseTemplate,
	}
}

// RenderWithBase renders a template with the base layout
func (r *Renderer) RenderWithBase(w http.ResponseWriter, name string, data interface{}) error {
	tmpl, err := template.ParseFiles(r.templateDir+"/"+r.baseTemplate, r.templateDir+"/"+name)
	if err != nil {
		logger.Error("Failed to parse template", err, "template", name)
		return err
	}

	if err := tmpl.ExecuteTemplate(w, r.baseTemplate, data); err != nil {
		logger.Error("Failed to render template", err, "template", name)
		return err
	}
	return nil
}

// RenderStandalone renders a standalone template without the base layout
func (r *Renderer) RenderStandalone(w http.ResponseWriter, name string, data interface{}) error {
	tmpl, err := template.ParseFiles(r.templateDir + "/" + name)
	if err != nil {
		logger.Error("Failed to parse standalone template", err, "template", name)
		return err
	}

	if err := tmpl.Execute(w, data); err != nil {
		logger.Error("Failed to render standalone template", err, "template", name)
		return err
	}
	return nil
}
