package codegen

import (
	"bytes"
	"embed"
	"fmt"
	"go/format"
	"strings"
	"text/template"

	"github.com/roach88/tinyflags/internal/ir"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var fileTemplate = template.Must(template.ParseFS(templateFS, "templates/flags.go.tmpl"))

// FormatError is returned when rendered source does not pass go/format.
// It indicates a generator bug; Source holds the unformatted output.
type FormatError struct {
	Source []byte
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("formatting generated source: %v", e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Generate renders file as gofmt-formatted Go source.
//
// The file must have passed compiler.Validate; Generate does not re-check
// identifiers or value widths.
func Generate(file *ir.File) ([]byte, error) {
	view, err := newFileView(file)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, &FormatError{Source: buf.Bytes(), Err: err}
	}
	return src, nil
}

type fileView struct {
	Source       string
	Package      string
	NeedsStrconv bool
	Sets         []setView
}

type setView struct {
	Name        string
	Backing     string
	Doc         string
	DefaultFunc string
	Consts      []constView
	BitsMethod  string
	Accessors   []accessorView
	Debug       bool
	EqualMethod string
	CloneMethod string
}

type constView struct {
	Name    string
	Doc     string
	Literal string
}

type accessorView struct {
	Const    string
	Is       string
	Set      string
	Clear    string
	IsDoc    string
	SetDoc   string
	ClearDoc string
}

func newFileView(file *ir.File) (*fileView, error) {
	view := &fileView{
		Source:  file.Source,
		Package: file.Package,
	}
	for i := range file.FlagSets {
		fs := &file.FlagSets[i]
		set, err := newSetView(fs)
		if err != nil {
			return nil, fmt.Errorf("flag set %s: %w", fs.Name, err)
		}
		if set.Debug {
			view.NeedsStrconv = true
		}
		view.Sets = append(view.Sets, set)
	}
	return view, nil
}

func newSetView(fs *ir.FlagSet) (setView, error) {
	doc := fs.Doc
	if doc == "" {
		doc = fmt.Sprintf("%s is a set of bit flags backed by %s.", fs.Name, fs.Backing)
	}

	set := setView{
		Name:       fs.Name,
		Backing:    string(fs.Backing),
		Doc:        comment(doc, ""),
		BitsMethod: fs.MethodName("bits"),
		Debug:      fs.HasDerive(ir.DeriveDebug),
	}
	if fs.HasDerive(ir.DeriveDefault) {
		set.DefaultFunc = fs.DefaultFunc()
	}
	if fs.HasDerive(ir.DeriveEq) {
		set.EqualMethod = fs.MethodName("equal")
	}
	if fs.HasDerive(ir.DeriveClone) {
		set.CloneMethod = fs.MethodName("clone")
	}

	for _, flag := range fs.Flags {
		literal, err := FormatLiteral(flag.Value, fs.Radix)
		if err != nil {
			return setView{}, err
		}
		name := fs.ConstName(flag)
		doc := flag.Doc
		if doc == "" {
			doc = fmt.Sprintf("%s is the bit pattern of the %s flag.", name, flag.Name)
		}
		set.Consts = append(set.Consts, constView{
			Name:    name,
			Doc:     comment(doc, flag.Deprecated),
			Literal: literal,
		})
	}

	for _, a := range ir.ResolveAccessors(fs) {
		name := fs.ConstName(a.Flag)
		isName, setName, clearName := fs.IsMethod(a), fs.SetMethod(a), fs.ClearMethod(a)
		set.Accessors = append(set.Accessors, accessorView{
			Const:    name,
			Is:       isName,
			Set:      setName,
			Clear:    clearName,
			IsDoc:    comment(fmt.Sprintf("%s reports whether any bit of %s is set in f.", isName, name), a.Flag.Deprecated),
			SetDoc:   comment(fmt.Sprintf("%s sets the bits of %s in f.", setName, name), a.Flag.Deprecated),
			ClearDoc: comment(fmt.Sprintf("%s clears the bits of %s in f.", clearName, name), a.Flag.Deprecated),
		})
	}

	return set, nil
}

// comment renders text as a line comment block, followed by a Deprecated
// paragraph when deprecated is set.
func comment(text, deprecated string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if deprecated != "" {
		lines = append(lines, "")
		lines = append(lines, strings.Split("Deprecated: "+strings.TrimSpace(deprecated), "\n")...)
	}

	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		line = strings.TrimRight(line, " \t\r")
		if line == "" {
			b.WriteString("//")
			continue
		}
		b.WriteString("// ")
		b.WriteString(line)
	}
	return b.String()
}
