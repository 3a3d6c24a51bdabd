// Package scaffold materialises a starter component tree for the
// `new_project`/`new_project` command: a component manifest with a
// blueprint stub, and a .gitignore, rendered from embedded
// text/template files the same way the teacher's template renderer
// walks an embed.FS.
package scaffold

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed all:templates
var templatesFS embed.FS

const templatesRoot = "templates"

// Data supplies the values a scaffold template may reference.
type Data struct {
	Name string
}

// Create renders every embedded template into dir/name, returning the
// paths written relative to dir. dir/name is created if absent.
func Create(dir, name string) ([]string, error) {
	target := filepath.Join(dir, name)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return nil, err
	}

	data := Data{Name: name}
	var created []string

	err := fs.WalkDir(templatesFS, templatesRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(templatesRoot, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}
		if d.IsDir() {
			return os.MkdirAll(filepath.Join(target, relPath), 0o755)
		}

		content, err := fs.ReadFile(templatesFS, path)
		if err != nil {
			return fmt.Errorf("reading scaffold template %s: %w", path, err)
		}

		targetPath := outputName(filepath.Join(target, relPath))

		if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
			return err
		}

		tmpl, err := template.New(filepath.Base(path)).Parse(string(content))
		if err != nil {
			return fmt.Errorf("parsing scaffold template %s: %w", path, err)
		}

		f, err := os.Create(targetPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", targetPath, err)
		}
		defer f.Close()

		if err := tmpl.Execute(f, data); err != nil {
			return fmt.Errorf("rendering scaffold template %s: %w", path, err)
		}

		rel, err := filepath.Rel(dir, targetPath)
		if err != nil {
			return err
		}
		created = append(created, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// outputName strips a template's `.tmpl` suffix and renames the
// `gitignore` stub to its real dotfile name.
func outputName(path string) string {
	path = strings.TrimSuffix(path, ".tmpl")
	if filepath.Base(path) == "gitignore" {
		return filepath.Join(filepath.Dir(path), ".gitignore")
	}
	return path
}
