// Package publish exports lists as Markdown or HTML documents.
package publish

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"rowlist/internal/model"
)

type Kind string

const (
	Markdown Kind = "md"
	HTML     Kind = "html"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "", Markdown, "markdown":
		return Markdown, nil
	case HTML:
		return HTML, nil
	default:
		return "", fmt.Errorf("unknown export kind: %s (want md or html)", s)
	}
}

// Render renders the list in the requested kind.
func Render(kind Kind, l model.List, rows []model.Row, opt RenderOptions) (string, error) {
	switch kind {
	case HTML:
		return RenderListHTML(l, rows, opt)
	case Markdown, "":
		return RenderListMarkdown(l, rows, opt), nil
	default:
		return "", fmt.Errorf("unknown export kind: %s", kind)
	}
}

type WriteOptions struct {
	RenderOptions
	Kind      Kind
	Overwrite bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteList renders the list to w, or to a file in toDir named after the list
// when toDir is set.
func WriteList(w io.Writer, toDir string, l model.List, rows []model.Row, opt WriteOptions) (WriteResult, error) {
	out, err := Render(opt.Kind, l, rows, opt.RenderOptions)
	if err != nil {
		return WriteResult{}, err
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		if w == nil {
			return WriteResult{}, errors.New("missing output")
		}
		_, err := io.WriteString(w, out)
		return WriteResult{}, err
	}

	if err := os.MkdirAll(toDir, 0o755); err != nil {
		return WriteResult{}, err
	}
	ext := string(opt.Kind)
	if ext == "" {
		ext = string(Markdown)
	}
	path := filepath.Join(filepath.Clean(toDir), fileStem(l)+"."+ext)
	if err := writeFile(path, []byte(out), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{path}}, nil
}

func fileStem(l model.List) string {
	name := strings.ToLower(strings.TrimSpace(l.Name))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return l.ID
	}
	return b.String()
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
