package faq

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

//go:embed faq.md
var source []byte

// Raw HTML in the markdown is escaped (WithUnsafe is not set).
var md = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

var page = template.Must(template.New("faq").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>FAQ | Holidaze</title></head>
<body>
<main>{{ .Body }}</main>
</body>
</html>
`))

// Render returns the FAQ as a complete HTML document.
func Render() ([]byte, error) {
	var body bytes.Buffer
	if err := md.Convert(source, &body); err != nil {
		return nil, fmt.Errorf("convert faq markdown: %w", err)
	}

	var out bytes.Buffer

	//nolint:gosec // body comes from goldmark with raw html escaped
	if err := page.Execute(&out, struct{ Body template.HTML }{Body: template.HTML(body.String())}); err != nil {
		return nil, fmt.Errorf("render faq page: %w", err)
	}

	return out.Bytes(), nil
}
