package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tinyflags/internal/ir"
)

// yamlFile is the YAML schema document.
type yamlFile struct {
	GoPackage string        `yaml:"go_package"`
	FlagSets  []yamlFlagSet `yaml:"flagsets"`
}

type yamlFlagSet struct {
	Name       yamlScalar `yaml:"name"`
	Type       yamlScalar `yaml:"type"`
	Visibility *string    `yaml:"visibility,omitempty"`
	Derive     []string   `yaml:"derive,omitempty"`
	Doc        string     `yaml:"doc,omitempty"`
	Prefix     *string    `yaml:"prefix,omitempty"`
	Radix      *int       `yaml:"radix,omitempty"`
	Flags      []yamlFlag `yaml:"flags"`
}

type yamlFlag struct {
	Name       yamlScalar `yaml:"name"`
	Value      yamlScalar `yaml:"value"`
	Doc        string     `yaml:"doc,omitempty"`
	Deprecated string     `yaml:"deprecated,omitempty"`
}

// yamlScalar keeps the raw text, resolved tag and position of a scalar so
// errors can point at the offending line.
type yamlScalar struct {
	Value string
	Tag   string
	Pos   Position
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *yamlScalar) UnmarshalYAML(n *yaml.Node) error {
	pos := Position{Line: n.Line, Column: n.Column}
	if n.Kind != yaml.ScalarNode {
		return &CompileError{
			Field:   "yaml",
			Message: "expected a scalar value",
			Pos:     pos,
		}
	}
	s.Value = n.Value
	s.Tag = n.ShortTag()
	s.Pos = pos
	return nil
}

func (s yamlScalar) set() bool {
	return s.Pos.IsValid() && s.Tag != "!!null"
}

// CompileYAML parses a YAML schema into an ir.File.
// Unknown fields are rejected so typos like "flag:" for "flags:" are caught.
func CompileYAML(data []byte, source string) (*ir.File, error) {
	var doc yamlFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &CompileError{
				Field:   "flagsets",
				Message: "schema is empty",
				Pos:     Position{Filename: source},
			}
		}
		var compileErr *CompileError
		if errors.As(err, &compileErr) {
			compileErr.Pos.Filename = source
			return nil, compileErr
		}
		return nil, &CompileError{
			Field:   "yaml",
			Message: err.Error(),
			Pos:     Position{Filename: source},
		}
	}

	file := &ir.File{Source: source, Package: doc.GoPackage}
	if len(doc.FlagSets) == 0 {
		return nil, &CompileError{
			Field:   "flagsets",
			Message: "at least one flag set is required",
			Pos:     Position{Filename: source},
		}
	}

	for _, ys := range doc.FlagSets {
		fs, err := compileYAMLFlagSet(ys, source)
		if err != nil {
			return nil, err
		}
		file.FlagSets = append(file.FlagSets, *fs)
	}

	return file, nil
}

func compileYAMLFlagSet(ys yamlFlagSet, source string) (*ir.FlagSet, error) {
	if !ys.Name.set() {
		return nil, &CompileError{
			Field:   "name",
			Message: "flag set name is required",
			Pos:     Position{Filename: source},
		}
	}
	if !ys.Type.set() {
		return nil, &CompileError{
			Field:   "type",
			Message: fmt.Sprintf("flag set %s: backing type is required", ys.Name.Value),
			Pos:     withFile(ys.Name.Pos, source),
		}
	}
	if ys.Type.Tag != "!!str" {
		return nil, &CompileError{
			Field:   "type",
			Message: "backing type must be a string naming an unsigned integer type",
			Pos:     withFile(ys.Type.Pos, source),
		}
	}

	decl := &flagSetDecl{
		Name:       ys.Name.Value,
		Type:       ys.Type.Value,
		Visibility: ys.Visibility,
		Derives:    ys.Derive,
		Doc:        ys.Doc,
		Prefix:     ys.Prefix,
		Radix:      ys.Radix,
	}

	for _, yf := range ys.Flags {
		if !yf.Name.set() {
			return nil, &CompileError{
				Field:   "flags.name",
				Message: "flag name is required",
				Pos:     withFile(yf.Value.Pos, source),
			}
		}
		if !yf.Value.set() {
			return nil, &CompileError{
				Field:   "flags.value",
				Message: fmt.Sprintf("flag %s: value is required", yf.Name.Value),
				Pos:     withFile(yf.Name.Pos, source),
			}
		}
		value, err := parseYAMLValue(yf.Value, yf.Name.Value)
		if err != nil {
			err.Pos.Filename = source
			return nil, err
		}
		decl.Flags = append(decl.Flags, ir.Flag{
			Name:       yf.Name.Value,
			Value:      value,
			Doc:        yf.Doc,
			Deprecated: yf.Deprecated,
		})
	}

	fs := decl.resolve()
	return &fs, nil
}

// parseYAMLValue accepts YAML integers and Go integer literals
// (0b1010, 0o17, 0x_ff, 1_000). Leading-zero literals are octal.
func parseYAMLValue(s yamlScalar, name string) (uint64, *CompileError) {
	switch s.Tag {
	case "!!int", "!!str":
	case "!!float":
		return 0, &CompileError{
			Field:   "flags.value",
			Message: fmt.Sprintf("flag %s: float values are not allowed", name),
			Pos:     s.Pos,
		}
	default:
		return 0, &CompileError{
			Field:   "flags.value",
			Message: fmt.Sprintf("flag %s: value must be an integer, got %s", name, strings.TrimPrefix(s.Tag, "!!")),
			Pos:     s.Pos,
		}
	}

	value, err := strconv.ParseUint(strings.TrimSpace(s.Value), 0, 64)
	if err != nil {
		return 0, &CompileError{
			Field:   "flags.value",
			Message: fmt.Sprintf("flag %s: %q is not a non-negative integer literal that fits in 64 bits", name, s.Value),
			Pos:     s.Pos,
		}
	}
	return value, nil
}

func withFile(pos Position, source string) Position {
	pos.Filename = source
	return pos
}
