package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/san-kum/asciimotion/internal/frame"
)

// GoPackage is the package clause used for generated frame sources.
const GoPackage = "frames"

func jsonName(w int) string { return fmt.Sprintf("w%d_frames.json", w) }

func goName(w int) string { return fmt.Sprintf("w%d_frames.go", w) }

func textName(w, i int) string { return fmt.Sprintf("w%d_frame%02d.txt", w, i) }

// GoVarName is the identifier a width's frames are declared under.
func GoVarName(w int) string { return fmt.Sprintf("W%d", w) }

// EncodeJSON writes set as a JSON array of strings.
func EncodeJSON(w io.Writer, set frame.FrameSet) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(set.Strings())
}

func DecodeJSON(r io.Reader) (frame.FrameSet, error) {
	var frames []string
	if err := json.NewDecoder(r).Decode(&frames); err != nil {
		return nil, fmt.Errorf("decoding frames: %w", err)
	}
	return frame.FromStrings(frames), nil
}

// EncodeGoSource writes a gofmt'ed Go file declaring the frames of width w
// as a string slice.
func EncodeGoSource(w io.Writer, width int, set frame.FrameSet) error {
	var b bytes.Buffer
	fmt.Fprintf(&b, "// Code generated by asciimotion. DO NOT EDIT.\n\npackage %s\n\n", GoPackage)
	fmt.Fprintf(&b, "// %s holds %d frames at width %d.\n", GoVarName(width), len(set), width)
	fmt.Fprintf(&b, "var %s = []string{\n", GoVarName(width))
	for _, f := range set {
		b.WriteString(strconv.Quote(string(f)))
		b.WriteString(",\n")
	}
	b.WriteString("}\n")

	src, err := format.Source(b.Bytes())
	if err != nil {
		return fmt.Errorf("formatting source: %w", err)
	}
	_, err = w.Write(src)
	return err
}

// DecodeGoSource parses a file written by EncodeGoSource and returns every
// W<width> declaration it contains.
func DecodeGoSource(src []byte) (map[int]frame.FrameSet, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parsing source: %w", err)
	}

	out := make(map[int]frame.FrameSet)
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.VAR {
			continue
		}
		for _, spec := range gen.Specs {
			vs := spec.(*ast.ValueSpec)
			for i, name := range vs.Names {
				width, ok := parseVarName(name.Name)
				if !ok || i >= len(vs.Values) {
					continue
				}
				set, err := stringSlice(vs.Values[i])
				if err != nil {
					return nil, fmt.Errorf("%s: %w", name.Name, err)
				}
				out[width] = set
			}
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no frame declarations found")
	}
	return out, nil
}

func parseVarName(name string) (int, bool) {
	if !strings.HasPrefix(name, "W") {
		return 0, false
	}
	w, err := strconv.Atoi(name[1:])
	if err != nil || w <= 0 {
		return 0, false
	}
	return w, true
}

func stringSlice(expr ast.Expr) (frame.FrameSet, error) {
	lit, ok := expr.(*ast.CompositeLit)
	if !ok {
		return nil, fmt.Errorf("expected a composite literal")
	}
	set := make(frame.FrameSet, 0, len(lit.Elts))
	for _, elt := range lit.Elts {
		bl, ok := elt.(*ast.BasicLit)
		if !ok || bl.Kind != token.STRING {
			return nil, fmt.Errorf("expected string literal at %d", len(set))
		}
		s, err := strconv.Unquote(bl.Value)
		if err != nil {
			return nil, err
		}
		set = append(set, frame.Frame(s))
	}
	return set, nil
}

// WriteText writes one w<W>_frame<NN>.txt file per frame into dir.
func WriteText(dir string, width int, set frame.FrameSet) error {
	for i, f := range set {
		path := filepath.Join(dir, textName(width, i))
		if err := os.WriteFile(path, []byte(string(f)+"\n"), 0644); err != nil {
			return err
		}
	}
	return nil
}
