package commandlib

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/anvilbuild/anvil/internal/document"
	"github.com/anvilbuild/anvil/internal/errors"
	"github.com/anvilbuild/anvil/internal/output"
	"github.com/anvilbuild/anvil/internal/scaffold"
)

// Default returns the built-in command library.
func Default() Registry {
	return Registry{
		"echo":             echoCmd,
		"execute":          executeCmd,
		"regex":            regexCmd,
		"inja":             injaCmd,
		"save":             saveCmd,
		"create_directory": createDirectoryCmd,
		"rm":               rmCmd,
		"rmdir":            rmdirCmd,
		"verify":           verifyCmd,
		"cat":              catCmd,
		"copy":             copyCmd,
		"fix_slashes":      fixSlashesCmd,
		"pack":             packCmd,
		"new_project":      newProjectCmd,
	}
}

// newProjectCmd scaffolds a starter component under the rendered path,
// using the component's base name as the new component's id.
func newProjectCmd(ctx Context, args *document.Node) (string, error) {
	rendered, err := ctx.Engine.Render(scalar(args))
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(rendered)
	name := filepath.Base(rendered)
	if _, err := scaffold.Create(dir, name); err != nil {
		return "", errors.NewCommandError(ctx.Target, -1, fmt.Sprintf("new_project: %v", err))
	}
	return ctx.Previous, nil
}

func scalar(n *document.Node) string {
	if n.IsScalar() {
		return n.Scalar
	}
	return ""
}

func echoCmd(ctx Context, args *document.Node) (string, error) {
	rendered, err := ctx.Engine.Render(scalar(args))
	if err != nil {
		return "", err
	}
	output.Println(rendered)
	return ctx.Previous, nil
}

func executeCmd(ctx Context, args *document.Node) (string, error) {
	rendered, err := ctx.Engine.Render(scalar(args))
	if err != nil {
		return "", err
	}
	cmd := exec.Command("sh", "-c", rendered)
	out, runErr := cmd.CombinedOutput()
	if runErr != nil {
		code := -1
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			code = exitErr.ExitCode()
		}
		return "", errors.NewCommandError(ctx.Target, code, string(out))
	}
	return string(out), nil
}

// regexCmd applies a search pattern to the accumulator. With `replace`,
// it substitutes; with `match`, it returns the first match; with
// `to_yaml`, it renders every match as a YAML sequence. With `split`,
// the pattern is applied line-by-line instead of to the whole string.
func regexCmd(ctx Context, args *document.Node) (string, error) {
	searchTmpl := scalar(args.Get("search"))
	search, err := ctx.Engine.Render(searchTmpl)
	if err != nil {
		return "", err
	}
	re, err := regexp.Compile(search)
	if err != nil {
		return "", errors.NewTemplateRenderError(ctx.Target, searchTmpl, err)
	}

	apply := func(s string) (string, error) {
		switch {
		case args.Get("replace") != nil:
			replace, err := ctx.Engine.Render(scalar(args.Get("replace")))
			if err != nil {
				return "", err
			}
			return re.ReplaceAllString(s, replace), nil
		case args.Get("match") != nil:
			return re.FindString(s), nil
		case args.Get("to_yaml") != nil:
			matches := re.FindAllString(s, -1)
			var b strings.Builder
			for _, m := range matches {
				b.WriteString("- ")
				b.WriteString(m)
				b.WriteString("\n")
			}
			return b.String(), nil
		default:
			return s, nil
		}
	}

	if scalar(args.Get("split")) != "true" {
		return apply(ctx.Previous)
	}

	lines := strings.Split(ctx.Previous, "\n")
	out := make([]string, len(lines))
	for i, line := range lines {
		processed, err := apply(line)
		if err != nil {
			return "", err
		}
		out[i] = processed
	}
	return strings.Join(out, "\n"), nil
}

// injaCmd renders a template: either args itself (a scalar), or a map
// naming `template`/`template_file` with an optional `data`/`data_file`
// override for the rendering context.
func injaCmd(ctx Context, args *document.Node) (string, error) {
	engine := ctx.Engine
	tmplStr := ""

	switch {
	case args.IsScalar():
		tmplStr = args.Scalar
	case args.IsMap():
		if t := args.Get("template"); t.IsScalar() {
			tmplStr = t.Scalar
		} else if tf := args.Get("template_file"); tf.IsScalar() {
			path, err := engine.Render(tf.Scalar)
			if err != nil {
				return "", err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return "", err
			}
			tmplStr = string(data)
		}

		if d := args.Get("data"); d != nil {
			engine = engine.WithData(d.ToInterface())
		} else if df := args.Get("data_file"); df.IsScalar() {
			path, err := engine.Render(df.Scalar)
			if err != nil {
				return "", err
			}
			raw, err := os.ReadFile(path)
			if err != nil {
				return "", err
			}
			node, err := document.ParseYAML(raw)
			if err != nil {
				return "", err
			}
			engine = engine.WithData(node.ToInterface())
		}
	}

	return engine.Render(tmplStr)
}

func saveCmd(ctx Context, args *document.Node) (string, error) {
	path := ctx.Target
	if args.IsScalar() && args.Scalar != "" {
		rendered, err := ctx.Engine.Render(args.Scalar)
		if err != nil {
			return "", err
		}
		path = rendered
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(ctx.Previous), 0o644); err != nil {
		return "", err
	}
	return ctx.Previous, nil
}

func createDirectoryCmd(ctx Context, args *document.Node) (string, error) {
	rendered, err := ctx.Engine.Render(scalar(args))
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(rendered), 0o755); err != nil {
		return "", err
	}
	return ctx.Previous, nil
}

func rmCmd(ctx Context, args *document.Node) (string, error) {
	rendered, err := ctx.Engine.Render(scalar(args))
	if err != nil {
		return "", err
	}
	if err := os.Remove(rendered); err != nil && !os.IsNotExist(err) {
		return "", err
	}
	return ctx.Previous, nil
}

func rmdirCmd(ctx Context, args *document.Node) (string, error) {
	rendered, err := ctx.Engine.Render(scalar(args))
	if err != nil {
		return "", err
	}
	if err := os.RemoveAll(rendered); err != nil {
		return "", err
	}
	return ctx.Previous, nil
}

func verifyCmd(ctx Context, args *document.Node) (string, error) {
	rendered, err := ctx.Engine.Render(scalar(args))
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(rendered); err != nil {
		return "", errors.NewCommandError(ctx.Target, -1, fmt.Sprintf("verify: %q does not exist", rendered))
	}
	return ctx.Previous, nil
}

func catCmd(ctx Context, args *document.Node) (string, error) {
	rendered, err := ctx.Engine.Render(scalar(args))
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(rendered)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// copyCmd copies either a single `source` path, or every entry under
// `list.folders`/`list.files`, into `destination`.
func copyCmd(ctx Context, args *document.Node) (string, error) {
	dest, err := ctx.Engine.Render(scalar(args.Get("destination")))
	if err != nil {
		return "", err
	}

	if src := args.Get("source"); src.IsScalar() {
		source, err := ctx.Engine.Render(src.Scalar)
		if err != nil {
			return "", err
		}
		if err := copyPath(source, dest); err != nil {
			return "", err
		}
		return ctx.Previous, nil
	}

	list := args.Get("list")
	for _, key := range []string{"folders", "files"} {
		entries := list.Get(key)
		if !entries.IsSequence() {
			continue
		}
		for _, item := range entries.Items {
			if !item.IsScalar() {
				continue
			}
			rendered, err := ctx.Engine.Render(item.Scalar)
			if err != nil {
				return "", err
			}
			if err := copyPath(rendered, filepath.Join(dest, filepath.Base(rendered))); err != nil {
				return "", err
			}
		}
	}
	return ctx.Previous, nil
}

func copyPath(source, dest string) error {
	info, err := os.Stat(source)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return copyFile(source, dest)
	}
	return filepath.Walk(source, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(source, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		if fi.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(source, dest string) error {
	data, err := os.ReadFile(source)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o644)
}

func fixSlashesCmd(ctx Context, _ *document.Node) (string, error) {
	return strings.ReplaceAll(ctx.Previous, "\\", "/"), nil
}

// packCmd implements the pack-style binary format subset: L/l (u32
// big/little-endian), S/s (u16 big/little-endian), C/c (u8), x (zero byte).
func packCmd(ctx Context, args *document.Node) (string, error) {
	formatNode := args.Get("format")
	dataNode := args.Get("data")
	if !formatNode.IsScalar() || !dataNode.IsSequence() {
		return "", errors.NewCommandError(ctx.Target, -1, "pack: requires format and data")
	}

	var buf bytes.Buffer
	values := dataNode.Items
	vi := 0

	for _, r := range formatNode.Scalar {
		if r == 'x' {
			buf.WriteByte(0)
			continue
		}
		if r == ' ' {
			continue
		}
		if vi >= len(values) {
			return "", errors.NewCommandError(ctx.Target, -1, "pack: not enough data values for format")
		}
		rendered, err := ctx.Engine.Render(scalar(values[vi]))
		if err != nil {
			return "", err
		}
		vi++

		var n uint64
		if _, err := fmt.Sscanf(rendered, "%d", &n); err != nil {
			return "", errors.NewCommandError(ctx.Target, -1, fmt.Sprintf("pack: %q is not numeric", rendered))
		}

		var writeErr error
		switch r {
		case 'L':
			writeErr = binary.Write(&buf, binary.BigEndian, uint32(n))
		case 'l':
			writeErr = binary.Write(&buf, binary.LittleEndian, uint32(n))
		case 'S':
			writeErr = binary.Write(&buf, binary.BigEndian, uint16(n))
		case 's':
			writeErr = binary.Write(&buf, binary.LittleEndian, uint16(n))
		case 'C', 'c':
			buf.WriteByte(byte(n))
		default:
			return "", errors.NewCommandError(ctx.Target, -1, fmt.Sprintf("pack: unknown format byte %q", string(r)))
		}
		if writeErr != nil {
			return "", writeErr
		}
	}
	return buf.String(), nil
}
