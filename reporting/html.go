package reporting

import (
	_ "embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/russross/blackfriday/v2"
)

//go:embed templates/report.html.tmpl
var reportTemplate string

// HTMLRenderer wraps a rendered Markdown report in a standalone HTML page
type HTMLRenderer struct {
	template *template.Template
}

type htmlReportData struct {
	Title string
	Body  template.HTML
}

// NewHTMLRenderer creates a renderer using the embedded page template
func NewHTMLRenderer() (*HTMLRenderer, error) {
	return NewHTMLRendererWithTemplate(reportTemplate)
}

// NewHTMLRendererWithTemplate creates a renderer from a custom page template. The template
// receives .Title and .Body.
func NewHTMLRendererWithTemplate(templateContent string) (*HTMLRenderer, error) {
	tmpl, err := template.New("report").Parse(templateContent)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML template: %w", err)
	}
	return &HTMLRenderer{template: tmpl}, nil
}

// Render converts the Markdown document to HTML. Raw HTML in the document, such as the
// <details> block around common failures, is passed through.
func (h *HTMLRenderer) Render(title, markdown string) (string, error) {
	body := blackfriday.Run([]byte(markdown))

	var b strings.Builder
	if err := h.template.Execute(&b, htmlReportData{
		Title: title,
		Body:  template.HTML(body),
	}); err != nil {
		return "", fmt.Errorf("failed to execute HTML template: %w", err)
	}
	return b.String(), nil
}
