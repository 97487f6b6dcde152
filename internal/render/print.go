// Package render turns the print dataset into the HTML print view and the
// PDF download.
package render

import (
	"html/template"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/yakoovad/meeting-guide/internal/model"
)

var printTemplate = template.Must(template.New("print").Funcs(template.FuncMap{
	"join": strings.Join,
	"css":  func(s string) template.CSS { return template.CSS(s) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>{{css .Styles}}</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{- range .Regions}}
<div class="region">
<h3>{{.Name}}</h3>
<table>
{{- range .Meetings}}
<tr>
<td>{{.Day}}</td>
<td>{{.Time}}{{if .EndTime}} - {{.EndTime}}{{end}}</td>
<td><strong>{{.Name}}</strong>{{range .Flags}} <em>{{.}}</em>{{end}}{{if .Online}} <em>Online</em>{{end}}</td>
<td>{{.Location}}{{if .Address}}<br>{{.Address}}{{end}}</td>
<td>{{join .Types ", "}}</td>
</tr>
{{- if .Notes}}
<tr><td colspan="5"><h6>{{.Notes}}</h6></td></tr>
{{- end}}
{{- end}}
</table>
</div>
{{- end}}
</body>
</html>
`))

type Printer struct {
	title  string
	styles string
}

// NewPrinter returns a printer using styles, or the default stylesheet when
// styles is empty.
func NewPrinter(title, styles string) *Printer {
	if strings.TrimSpace(styles) == "" {
		styles = DefaultPrintStyles
	}
	return &Printer{title: title, styles: styles}
}

func (p *Printer) HTML(w io.Writer, regions []*model.PrintRegion) error {
	err := printTemplate.Execute(w, struct {
		Title   string
		Styles  string
		Regions []*model.PrintRegion
	}{
		Title:   p.title,
		Styles:  p.styles,
		Regions: regions,
	})
	return errors.Wrap(err, "failed to render print view")
}
