package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"
)

//go:embed pages/*.tmpl base.tmpl
var files embed.FS

// Renderer holds the parsed page templates, each paired with the base layout
type Renderer struct {
	pages map[string]*template.Template
}

// New parses all embedded pages
func New() (*Renderer, error) {
	names, err := fs.Glob(files, "pages/*.tmpl")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		t, err := template.New("base.tmpl").ParseFS(files, "base.tmpl", name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		key := strings.TrimSuffix(strings.TrimPrefix(name, "pages/"), ".tmpl")
		pages[key] = t
	}

	return &Renderer{pages: pages}, nil
}

// Render writes the named page wrapped in the base layout
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	return t.ExecuteTemplate(w, "base.tmpl", data)
}
