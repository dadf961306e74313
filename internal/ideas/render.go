package ideas

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"idea-analyzer/internal/extract"
	"idea-analyzer/internal/session"
	"idea-analyzer/internal/shared/telemetry"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses the page templates.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

// StaticFS serves the stylesheet under /static.
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Raw HTML in model output is escaped, so the rendered result is safe to embed.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

func renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		telemetry.Warn("render.markdown_failed", map[string]any{"err": err.Error()})
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	return template.HTML(buf.String())
}

type historyView struct {
	FileName  string
	DriveLink string
}

type pageView struct {
	Authenticated bool
	Accept        string
	TextIdea      string
	Error         string
	Warning       string
	Result        template.HTML
	FileName      string
	DriveLink     string
	History       []historyView
}

func newPageView(sess *session.Session) pageView {
	v := pageView{Accept: strings.Join(extract.SupportedExtensions(), ",")}
	if sess == nil {
		return v
	}
	v.Authenticated = sess.Authenticated()
	// Newest first.
	for i := len(sess.History) - 1; i >= 0; i-- {
		h := sess.History[i]
		hv := historyView{FileName: h.FileName}
		if h.DriveLink != nil {
			hv.DriveLink = *h.DriveLink
		}
		v.History = append(v.History, hv)
	}
	return v
}
