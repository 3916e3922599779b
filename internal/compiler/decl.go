package compiler

import (
	"go/token"

	"github.com/roach88/tinyflags/internal/ir"
)

// flagSetDecl is a flag set as written in a schema, before defaults and
// visibility are applied. CUE and YAML inputs both compile to it.
type flagSetDecl struct {
	Name       string
	Type       string
	Visibility *string
	Derives    []string
	Doc        string
	Prefix     *string
	Radix      *int
	Flags      []ir.Flag
}

// resolve applies defaults and returns the IR flag set.
//
// Unknown backing types, derives, visibilities and radixes are carried
// through unchanged so Validate can report them with their codes.
func (d *flagSetDecl) resolve() ir.FlagSet {
	fs := ir.FlagSet{
		Name:    d.Name,
		Backing: ir.BackingType(d.Type),
		Doc:     d.Doc,
		Radix:   ir.DefaultRadix,
		Flags:   d.Flags,
	}
	if t, ok := ir.ParseBackingType(d.Type); ok {
		fs.Backing = t
	}

	switch {
	case d.Visibility == nil:
		fs.Visibility = ir.Unexported
		if token.IsExported(d.Name) {
			fs.Visibility = ir.Exported
		}
	default:
		if v, ok := ir.ParseVisibility(*d.Visibility); ok {
			fs.Visibility = v
			fs.Name = ir.ApplyVisibility(d.Name, v)
		} else {
			fs.Visibility = ir.Visibility(*d.Visibility)
		}
	}

	fs.Prefix = fs.Name
	if d.Prefix != nil {
		fs.Prefix = *d.Prefix
	}
	if d.Radix != nil {
		fs.Radix = *d.Radix
	}

	seen := make(map[ir.Derive]bool)
	fs.Derives = []ir.Derive{}
	for _, name := range d.Derives {
		derive, ok := ir.ParseDerive(name)
		if !ok {
			derive = ir.Derive(name)
		}
		if seen[derive] {
			continue
		}
		seen[derive] = true
		fs.Derives = append(fs.Derives, derive)
	}

	if fs.Flags == nil {
		fs.Flags = []ir.Flag{}
	}
	return fs
}
