package compiler

import (
	"fmt"
	"go/token"
	"sort"
	"strings"

	"github.com/roach88/tinyflags/internal/ir"
)

// Validation error codes (E200-E299)
const (
	// General validation errors (E200)
	ErrUnsupportedIRType = "E200" // unsupported IR type for validation

	// FlagSet errors (E201-E212)
	ErrInvalidTypeName     = "E201" // type name is not a Go identifier
	ErrUnsupportedBacking  = "E202" // backing type is not uint8/16/32/64
	ErrInvalidFlagName     = "E203" // flag or constant name is not a Go identifier
	ErrValueOverflow       = "E204" // flag value does not fit the backing type
	ErrDuplicateIdentifier = "E205" // duplicate package-level identifier
	ErrAccessorCollision   = "E206" // flags fold to the same accessor names
	ErrUnknownDerive       = "E207" // derive name not recognized
	ErrInvalidPackage      = "E208" // missing or invalid Go package name
	ErrInvalidRadix        = "E209" // radix not one of 2, 8, 10, 16
	ErrEmptyAccessor       = "E210" // flag name folds to an empty suffix
	ErrInvalidVisibility   = "E211" // visibility marker not recognized, or identifier case disagrees with it
	ErrAccessorClash       = "E212" // flags with different folded names produce the same accessors
)

// Severity levels for validation findings.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ValidationError represents a schema validation finding.
type ValidationError struct {
	Field    string `json:"field"`
	Message  string `json:"message"`
	Code     string `json:"code"`
	Severity string `json:"severity"`
	Line     int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// IsWarning reports whether the finding does not block generation.
func (e ValidationError) IsWarning() bool {
	return e.Severity == SeverityWarning
}

// ValidateOptions tunes validation.
type ValidateOptions struct {
	// Strict turns accessor collisions into errors instead of warnings.
	Strict bool
}

// Validate validates compiled IR against schema rules.
// Returns all findings (does not fail-fast).
// Supports File and FlagSet.
func Validate(v any, opts ValidateOptions) []ValidationError {
	switch val := v.(type) {
	case *ir.File:
		return validateFile(val, opts)
	case ir.File:
		return validateFile(&val, opts)
	case *ir.FlagSet:
		return validateFlagSet(val, fmt.Sprintf("flagset.%s", val.Name), opts)
	case ir.FlagSet:
		return validateFlagSet(&val, fmt.Sprintf("flagset.%s", val.Name), opts)
	default:
		return []ValidationError{{
			Field:    "type",
			Message:  fmt.Sprintf("unsupported IR type: %T", v),
			Code:     ErrUnsupportedIRType,
			Severity: SeverityError,
		}}
	}
}

// HasErrors reports whether any finding is an error.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if !e.IsWarning() {
			return true
		}
	}
	return false
}

// validateFile validates the package name, every flag set, and
// package-level identifier uniqueness across sets.
func validateFile(file *ir.File, opts ValidateOptions) []ValidationError {
	var errs []ValidationError

	if file.Package == "" {
		errs = append(errs, errorf("go_package", ErrInvalidPackage, "go_package is required"))
	} else if !token.IsIdentifier(file.Package) || file.Package == "_" {
		errs = append(errs, errorf("go_package", ErrInvalidPackage, "invalid Go package name %q", file.Package))
	}

	for _, fs := range file.FlagSets {
		errs = append(errs, validateFlagSet(&fs, fmt.Sprintf("flagset.%s", fs.Name), opts)...)
	}

	// Track package-level identifiers for duplicate detection
	owners := make(map[string]string)
	declare := func(ident, owner, field string) {
		if ident == "" {
			return
		}
		if prev, ok := owners[ident]; ok {
			errs = append(errs, errorf(field, ErrDuplicateIdentifier,
				"identifier %q declared by %s conflicts with %s", ident, owner, prev))
			return
		}
		owners[ident] = owner
	}

	for _, fs := range file.FlagSets {
		setField := fmt.Sprintf("flagset.%s", fs.Name)
		declare(fs.Name, "flag set "+fs.Name, setField)
		if fs.HasDerive(ir.DeriveDefault) {
			declare(fs.DefaultFunc(), "Default constructor of "+fs.Name, setField+".derive")
		}
		for i, flag := range fs.Flags {
			declare(fs.ConstName(flag), fmt.Sprintf("flag %s of %s", flag.Name, fs.Name),
				fmt.Sprintf("%s.flags[%d]", setField, i))
		}
	}

	return errs
}

// validateFlagSet validates a single flag set.
func validateFlagSet(fs *ir.FlagSet, field string, opts ValidateOptions) []ValidationError {
	var errs []ValidationError

	// E201: type name must be a Go identifier
	if !token.IsIdentifier(fs.Name) || fs.Name == "_" {
		errs = append(errs, errorf(field+".name", ErrInvalidTypeName, "invalid type name %q", fs.Name))
	}

	// E211: visibility marker, and the type name must carry it
	visibilityOK := fs.Visibility == ir.Exported || fs.Visibility == ir.Unexported
	if !visibilityOK {
		errs = append(errs, errorf(field+".visibility", ErrInvalidVisibility,
			"invalid visibility %q, must be \"exported\" or \"unexported\"", fs.Visibility))
	} else if token.IsIdentifier(fs.Name) && token.IsExported(fs.Name) != fs.Exported() {
		errs = append(errs, errorf(field+".name", ErrInvalidVisibility,
			"type name %q is not %s", fs.Name, fs.Visibility))
	}

	// E202: backing type
	backingOK := fs.Backing.Bits() != 0
	if !backingOK {
		errs = append(errs, errorf(field+".type", ErrUnsupportedBacking,
			"unsupported backing type %q, must be one of uint8, uint16, uint32, uint64", fs.Backing))
	}

	// E209: radix
	if !ir.ValidRadixes[fs.Radix] {
		errs = append(errs, errorf(field+".radix", ErrInvalidRadix,
			"invalid radix %d, must be 2, 8, 10 or 16", fs.Radix))
	}

	// E207: derives
	for i, d := range fs.Derives {
		if _, ok := ir.ParseDerive(string(d)); !ok {
			errs = append(errs, errorf(fmt.Sprintf("%s.derive[%d]", field, i), ErrUnknownDerive,
				"unknown derive %q, must be one of Debug, Default, Eq, Clone", d))
		}
	}

	for i, flag := range fs.Flags {
		flagField := fmt.Sprintf("%s.flags[%d]", field, i)

		// E203: constant identifier
		constName := fs.ConstName(flag)
		if !token.IsIdentifier(flag.Name) {
			errs = append(errs, errorf(flagField+".name", ErrInvalidFlagName, "invalid flag name %q", flag.Name))
		} else if !token.IsIdentifier(constName) || constName == "_" {
			errs = append(errs, errorf(flagField+".name", ErrInvalidFlagName,
				"flag %s produces invalid constant name %q", flag.Name, constName))
		} else if visibilityOK && token.IsExported(constName) != fs.Exported() {
			errs = append(errs, errorf(flagField+".name", ErrInvalidFlagName,
				"constant %s of flag %s is not %s; adjust prefix", constName, flag.Name, fs.Visibility))
		}

		// E210: accessor suffix must not be empty
		if ir.AccessorSuffix(flag.Name) == "" {
			errs = append(errs, errorf(flagField+".name", ErrEmptyAccessor,
				"flag %s folds to an empty accessor name", flag.Name))
		}

		// E204: value must fit the backing width
		if backingOK && flag.Value > fs.Backing.Max() {
			errs = append(errs, errorf(flagField+".value", ErrValueOverflow,
				"flag %s value %#x overflows %s", flag.Name, flag.Value, fs.Backing))
		}
	}

	errs = append(errs, collisionFindings(fs, field, opts)...)

	// E212: distinct names that still map to one method group
	for _, c := range ir.SuffixClashes(ir.ResolveAccessors(fs)) {
		a := ir.Accessor{Suffix: c.Suffix}
		errs = append(errs, errorf(field+".flags", ErrAccessorClash,
			"flags %s and %s both produce the %s/%s/%s accessors; rename one",
			c.First, c.Second, fs.IsMethod(a), fs.SetMethod(a), fs.ClearMethod(a)))
	}

	return errs
}

// collisionFindings reports flags whose accessors are silently replaced by
// a later declaration folding to the same name.
func collisionFindings(fs *ir.FlagSet, field string, opts ValidateOptions) []ValidationError {
	var errs []ValidationError

	severity := SeverityWarning
	if opts.Strict {
		severity = SeverityError
	}

	for _, a := range ir.ResolveAccessors(fs) {
		if len(a.Overrides) == 0 || a.Suffix == "" {
			continue
		}
		overridden := append([]string(nil), a.Overrides...)
		sort.Strings(overridden)
		errs = append(errs, ValidationError{
			Field: field + ".flags",
			Message: fmt.Sprintf("flag %s replaces the %s/%s/%s accessors of %s",
				a.Flag.Name, fs.IsMethod(a), fs.SetMethod(a), fs.ClearMethod(a), strings.Join(overridden, ", ")),
			Code:     ErrAccessorCollision,
			Severity: severity,
		})
	}
	return errs
}

func errorf(field, code, format string, args ...any) ValidationError {
	return ValidationError{
		Field:    field,
		Message:  fmt.Sprintf(format, args...),
		Code:     code,
		Severity: SeverityError,
	}
}
