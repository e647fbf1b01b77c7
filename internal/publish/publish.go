package publish

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"rera-portal/internal/portal"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		emoji.Emoji,
	),
	// No html.WithUnsafe(): raw HTML in submitted values is not passed through.
	goldmark.WithRendererOptions(
		html.WithXHTML(),
	),
)

var pageTemplate = template.Must(template.New("submission").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// RenderSubmissionHTML renders the Markdown export as a standalone HTML page.
func RenderSubmissionHTML(sub portal.Submission, opt RenderOptions) (string, error) {
	md, err := RenderSubmissionMarkdown(sub, opt)
	if err != nil {
		return "", err
	}
	var body bytes.Buffer
	if err := markdownRenderer.Convert([]byte(md), &body); err != nil {
		return "", fmt.Errorf("render %s: %w", sub.ID, err)
	}
	title := strings.TrimSpace(sub.PageTitle)
	if title == "" {
		title = sub.Page
	}
	var out bytes.Buffer
	err = pageTemplate.Execute(&out, struct {
		Title string
		// Safe only because raw HTML is disabled in markdownRenderer.
		Body template.HTML
	}{Title: title, Body: template.HTML(body.String())})
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

type WriteOptions struct {
	Overwrite bool
	HTML      bool
	Render    RenderOptions
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteSubmission writes <toDir>/submissions/<id>.md, plus <id>.html when
// opt.HTML is set.
func WriteSubmission(sub portal.Submission, toDir string, opt WriteOptions) (WriteResult, error) {
	id := strings.TrimSpace(sub.ID)
	if id == "" {
		return WriteResult{}, errors.New("missing submission id")
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return WriteResult{}, fmt.Errorf("invalid submission id: %q", id)
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	outDir := filepath.Join(filepath.Clean(toDir), "submissions")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	md, err := RenderSubmissionMarkdown(sub, opt.Render)
	if err != nil {
		return WriteResult{}, err
	}
	mdPath := filepath.Join(outDir, id+".md")
	if err := writeFile(mdPath, []byte(md), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	res := WriteResult{Written: []string{mdPath}}

	if opt.HTML {
		page, err := RenderSubmissionHTML(sub, opt.Render)
		if err != nil {
			return res, err
		}
		htmlPath := filepath.Join(outDir, id+".html")
		if err := writeFile(htmlPath, []byte(page), opt.Overwrite); err != nil {
			return res, err
		}
		res.Written = append(res.Written, htmlPath)
	}
	return res, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
