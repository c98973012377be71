// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/pdiddy/litreview/pkg/types"
)

const reportCSS = "body{font-family:sans-serif;max-width:960px;margin:2rem auto;padding:0 1rem;line-height:1.5;color:#1c1917;}" +
	"table{width:100%;border-collapse:collapse;font-size:0.9rem;}" +
	"th,td{border:1px solid #a8a29e;padding:0.35rem 0.45rem;text-align:left;vertical-align:top;}" +
	"thead th{background:#f1f5f9;}" +
	"h2{border-bottom:1px solid #e7e5e4;padding-bottom:0.2rem;}"

// HTML renders the Markdown report as a standalone HTML page.
func HTML(rec *types.AnalyticalRecord, opts Options) ([]byte, error) {
	var content bytes.Buffer
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert(Markdown(rec, opts), &content); err != nil {
		return nil, fmt.Errorf("markdown convert: %w", err)
	}

	var b bytes.Buffer
	b.WriteString("<!doctype html><html><head><meta charset='utf-8'><title>")
	b.WriteString(html.EscapeString(opts.title()))
	b.WriteString("</title><style>" + reportCSS + "</style></head><body>\n")
	b.Write(content.Bytes())
	b.WriteString("</body></html>\n")
	return b.Bytes(), nil
}
