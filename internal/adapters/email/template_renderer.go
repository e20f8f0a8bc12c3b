package email

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	"text/template"

	"gatherly/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

// templateRenderer resolves a template name ("welcome") to its three embedded
// parts: <name>_subject.txt, <name>.html, and <name>.txt. The html part goes
// through html/template for escaping; the plain parts through text/template.
type templateRenderer struct {
	html *htmltemplate.Template
	text *template.Template
}

// NewTemplateRenderer parses the embedded templates once. A malformed
// embedded template is a programming error, hence the panic.
func NewTemplateRenderer() domain.EmailTemplateRenderer {
	return &templateRenderer{
		html: htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/*.html")),
		text: template.Must(template.ParseFS(templateFS, "templates/*.txt")),
	}
}

func (r *templateRenderer) Render(templateName string, data any) (subject, htmlBody, textBody string, err error) {
	subject, err = r.execText(templateName+"_subject.txt", data)
	if err != nil {
		return "", "", "", fmt.Errorf("render subject: %w", err)
	}
	textBody, err = r.execText(templateName+".txt", data)
	if err != nil {
		return "", "", "", fmt.Errorf("render text: %w", err)
	}

	var buf bytes.Buffer
	if err := r.html.ExecuteTemplate(&buf, templateName+".html", data); err != nil {
		return "", "", "", fmt.Errorf("render html: %w", err)
	}
	return strings.TrimSpace(subject), buf.String(), textBody, nil
}

func (r *templateRenderer) execText(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.text.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
