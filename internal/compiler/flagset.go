package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/tinyflags/internal/ir"
)

// CompileFile parses a CUE value holding a whole schema into an ir.File.
//
// The value is expected to look like:
//
//	go_package: "perm"
//	flagset: PrimFlags: {
//		type: "uint32"
//		flags: [{name: "WRITABLE", value: 0b01}]
//	}
//
// Flag sets are returned in declaration order.
func CompileFile(v cue.Value, source string) (*ir.File, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	file := &ir.File{Source: source}

	pkgVal := v.LookupPath(cue.ParsePath("go_package"))
	if pkgVal.Exists() {
		pkg, err := pkgVal.String()
		if err != nil {
			return nil, &CompileError{
				Field:   "go_package",
				Message: "go_package must be a string",
				Pos:     positionOf(pkgVal.Pos()),
			}
		}
		file.Package = pkg
	}

	setsVal := v.LookupPath(cue.ParsePath("flagset"))
	if !setsVal.Exists() {
		return nil, &CompileError{
			Field:   "flagset",
			Message: "at least one flag set is required",
			Pos:     positionOf(v.Pos()),
		}
	}

	iter, err := setsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		fs, err := CompileFlagSet(iter.Value())
		if err != nil {
			return nil, err
		}
		file.FlagSets = append(file.FlagSets, *fs)
	}

	if len(file.FlagSets) == 0 {
		return nil, &CompileError{
			Field:   "flagset",
			Message: "at least one flag set is required",
			Pos:     positionOf(setsVal.Pos()),
		}
	}

	return file, nil
}

// CompileFlagSet parses a CUE value into a FlagSet.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the flag set struct itself; its label is the
// type name:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`flagset: PrimFlags: { type: "uint32", flags: [] }`)
//	fs, err := CompileFlagSet(v.LookupPath(cue.ParsePath("flagset.PrimFlags")))
func CompileFlagSet(v cue.Value) (*ir.FlagSet, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	decl := &flagSetDecl{}

	// Parse type name from struct label (the path selector)
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		decl.Name = labels[len(labels)-1].String()
	}

	// Parse backing type (required)
	typeVal := v.LookupPath(cue.ParsePath("type"))
	if !typeVal.Exists() {
		return nil, &CompileError{
			Field:   "type",
			Message: "backing type is required",
			Pos:     positionOf(v.Pos()),
		}
	}
	typ, err := typeVal.String()
	if err != nil {
		return nil, &CompileError{
			Field:   "type",
			Message: "backing type must be a string naming an unsigned integer type",
			Pos:     positionOf(typeVal.Pos()),
		}
	}
	decl.Type = typ

	if decl.Visibility, err = optionalString(v, "visibility"); err != nil {
		return nil, err
	}
	if decl.Prefix, err = optionalString(v, "prefix"); err != nil {
		return nil, err
	}
	doc, err := optionalString(v, "doc")
	if err != nil {
		return nil, err
	}
	if doc != nil {
		decl.Doc = *doc
	}

	radixVal := v.LookupPath(cue.ParsePath("radix"))
	if radixVal.Exists() {
		radix, err := radixVal.Int64()
		if err != nil {
			return nil, &CompileError{
				Field:   "radix",
				Message: "radix must be an integer",
				Pos:     positionOf(radixVal.Pos()),
			}
		}
		r := int(radix)
		decl.Radix = &r
	}

	if decl.Derives, err = parseDerives(v); err != nil {
		return nil, err
	}
	if decl.Flags, err = parseFlags(v); err != nil {
		return nil, err
	}

	fs := decl.resolve()
	return &fs, nil
}

// optionalString reads an optional string field.
func optionalString(v cue.Value, field string) (*string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return nil, nil
	}
	s, err := fv.String()
	if err != nil {
		return nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("%s must be a string", field),
			Pos:     positionOf(fv.Pos()),
		}
	}
	return &s, nil
}

// parseDerives extracts the derive list (optional).
func parseDerives(v cue.Value) ([]string, error) {
	deriveVal := v.LookupPath(cue.ParsePath("derive"))
	if !deriveVal.Exists() {
		return nil, nil
	}

	iter, err := deriveVal.List()
	if err != nil {
		return nil, &CompileError{
			Field:   "derive",
			Message: "derive must be a list of strings",
			Pos:     positionOf(deriveVal.Pos()),
		}
	}

	var derives []string
	for iter.Next() {
		name, err := iter.Value().String()
		if err != nil {
			return nil, &CompileError{
				Field:   "derive",
				Message: "derive must be a list of strings",
				Pos:     positionOf(iter.Value().Pos()),
			}
		}
		derives = append(derives, name)
	}
	return derives, nil
}

// parseFlags extracts the ordered flag list. A set may declare no flags.
func parseFlags(v cue.Value) ([]ir.Flag, error) {
	flagsVal := v.LookupPath(cue.ParsePath("flags"))
	if !flagsVal.Exists() {
		return nil, nil
	}

	iter, err := flagsVal.List()
	if err != nil {
		return nil, &CompileError{
			Field:   "flags",
			Message: "flags must be a list",
			Pos:     positionOf(flagsVal.Pos()),
		}
	}

	var flags []ir.Flag
	for iter.Next() {
		flag, err := parseFlag(iter.Value())
		if err != nil {
			return nil, err
		}
		flags = append(flags, flag)
	}
	return flags, nil
}

// parseFlag parses a single {name, value, doc?, deprecated?} entry.
func parseFlag(v cue.Value) (ir.Flag, error) {
	var flag ir.Flag

	nameVal := v.LookupPath(cue.ParsePath("name"))
	if !nameVal.Exists() {
		return flag, &CompileError{
			Field:   "flags.name",
			Message: "flag name is required",
			Pos:     positionOf(v.Pos()),
		}
	}
	name, err := nameVal.String()
	if err != nil {
		return flag, &CompileError{
			Field:   "flags.name",
			Message: "flag name must be a string",
			Pos:     positionOf(nameVal.Pos()),
		}
	}
	flag.Name = name

	valueVal := v.LookupPath(cue.ParsePath("value"))
	if !valueVal.Exists() {
		return flag, &CompileError{
			Field:   "flags.value",
			Message: fmt.Sprintf("flag %s: value is required", name),
			Pos:     positionOf(v.Pos()),
		}
	}
	value, err := extractFlagValue(valueVal, name)
	if err != nil {
		return flag, err
	}
	flag.Value = value

	doc, err := optionalString(v, "doc")
	if err != nil {
		return flag, err
	}
	if doc != nil {
		flag.Doc = *doc
	}
	deprecated, err := optionalString(v, "deprecated")
	if err != nil {
		return flag, err
	}
	if deprecated != nil {
		flag.Deprecated = *deprecated
	}

	return flag, nil
}

// extractFlagValue evaluates a flag value. Any CUE expression is accepted
// as long as it evaluates to a concrete non-negative integer.
func extractFlagValue(v cue.Value, name string) (uint64, error) {
	if !v.IsConcrete() {
		return 0, &CompileError{
			Field:   "flags.value",
			Message: fmt.Sprintf("flag %s: value must be a constant integer expression", name),
			Pos:     positionOf(v.Pos()),
		}
	}

	switch v.Kind() {
	case cue.IntKind:
	case cue.FloatKind, cue.NumberKind:
		return 0, &CompileError{
			Field:   "flags.value",
			Message: fmt.Sprintf("flag %s: float values are not allowed", name),
			Pos:     positionOf(v.Pos()),
		}
	default:
		return 0, &CompileError{
			Field:   "flags.value",
			Message: fmt.Sprintf("flag %s: value must be an integer, got %v", name, v.Kind()),
			Pos:     positionOf(v.Pos()),
		}
	}

	value, err := v.Uint64()
	if err != nil {
		return 0, &CompileError{
			Field:   "flags.value",
			Message: fmt.Sprintf("flag %s: value must be a non-negative integer that fits in 64 bits", name),
			Pos:     positionOf(v.Pos()),
		}
	}
	return value, nil
}
