package publish

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"rowlist/internal/model"
)

// Raw HTML in notes is not passed through (no html.WithUnsafe).
var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		emoji.Emoji,
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// MarkdownToHTML converts Markdown to an HTML fragment.
func MarkdownToHTML(src string) (template.HTML, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", nil
	}
	var b bytes.Buffer
	if err := markdownRenderer.Convert([]byte(src), &b); err != nil {
		return "", err
	}
	return template.HTML(b.String()), nil
}

// RenderListHTML renders a list as a standalone HTML page.
func RenderListHTML(l model.List, rows []model.Row, opt RenderOptions) (string, error) {
	body, err := MarkdownToHTML(RenderListMarkdown(l, rows, opt))
	if err != nil {
		return "", err
	}
	title := strings.TrimSpace(l.Name)
	if title == "" {
		title = l.ID
	}
	var out bytes.Buffer
	if err := pageTemplate.Execute(&out, struct {
		Title string
		Body  template.HTML
	}{title, body}); err != nil {
		return "", err
	}
	return out.String(), nil
}
