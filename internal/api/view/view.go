// Package view renders HTML pages from the embedded templates.
//
// Every page is parsed together with base.html and the includes/ partials and
// is executed through the "base" template. Handlers pass a map context; the
// renderer adds the current user, the CSRF token and the request path.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/yatube/yatube/internal/api/metrics"
	"github.com/yatube/yatube/internal/api/middleware"
)

//go:embed templates
var files embed.FS

const (
	root       = "templates"
	layoutFile = "templates/base.html"
	partials   = "templates/includes/*.html"
)

// MediaFunc maps a stored image key to its public URL.
type MediaFunc func(key string) string

type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page once. media may be nil when uploads are disabled.
func New(media MediaFunc) (*Renderer, error) {
	if media == nil {
		media = func(string) string { return "" }
	}

	funcs := template.FuncMap{
		"media":    func(key string) string { return media(key) },
		"date":     formatDate,
		"truncate": truncate,
		"lines":    func(s string) []string { return strings.Split(s, "\n") },
		"dict":     dict,
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	err := fs.WalkDir(files, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".html" || p == layoutFile || strings.HasPrefix(p, root+"/includes/") {
			return nil
		}

		t, err := template.New(path.Base(p)).Funcs(funcs).ParseFS(files, layoutFile, partials, p)
		if err != nil {
			return fmt.Errorf("parse %s: %w", p, err)
		}
		r.pages[strings.TrimPrefix(p, root+"/")] = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Has reports whether a page with this name exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Render satisfies echo.Renderer. The page is rendered into a buffer first so
// a template error never leaves a half-written response.
func (r *Renderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown template %q", name)
	}

	ctx := map[string]any{}
	if m, ok := data.(map[string]any); ok {
		for k, v := range m {
			ctx[k] = v
		}
	}
	if c != nil {
		ctx["user"] = middleware.CurrentUser(c)
		ctx["path"] = c.Request().URL.Path
		if token, ok := c.Get("csrf").(string); ok {
			ctx["csrf_token"] = token
		}
	}

	start := time.Now()
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", ctx); err != nil {
		return fmt.Errorf("view: render %s: %w", name, err)
	}
	metrics.TemplateRenderDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	_, err := buf.WriteTo(w)
	return err
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2 January 2006")
}

// dict builds a map from alternating keys and values, for passing several
// values to a partial.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

// truncate shortens s to n runes, ending with an ellipsis when cut.
func truncate(n int, s string) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	if n <= 1 {
		return "…"
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}
