package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tinyflags/internal/ir"
)

func validFlagSet() ir.FlagSet {
	return ir.FlagSet{
		Name:       "PrimFlags",
		Visibility: ir.Exported,
		Backing:    ir.Uint32,
		Derives:    []ir.Derive{ir.DeriveDebug},
		Prefix:     "PrimFlags",
		Radix:      16,
		Flags: []ir.Flag{
			{Name: "WRITABLE", Value: 0b01},
			{Name: "EXECUTABLE", Value: 0b10},
		},
	}
}

func validFile() ir.File {
	return ir.File{
		Source:   "flags.cue",
		Package:  "perm",
		FlagSets: []ir.FlagSet{validFlagSet()},
	}
}

func codes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestValidateValidFile(t *testing.T) {
	errs := Validate(validFile(), ValidateOptions{})
	assert.Empty(t, errs)
}

func TestValidateAcceptsOverlappingAndZeroValues(t *testing.T) {
	fs := validFlagSet()
	fs.Flags = append(fs.Flags,
		ir.Flag{Name: "ALL", Value: 0b11},
		ir.Flag{Name: "NONE", Value: 0},
		ir.Flag{Name: "HIGH", Value: 0x8000_0000},
	)

	errs := Validate(&fs, ValidateOptions{Strict: true})
	assert.Empty(t, errs, "disjointness and meaningful-bit checks are out of scope")
}

func TestValidateFlagSetErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(fs *ir.FlagSet)
		code   string
	}{
		{"invalid type name", func(fs *ir.FlagSet) { fs.Name = "Prim-Flags"; fs.Prefix = "Prim" }, ErrInvalidTypeName},
		{"blank type name", func(fs *ir.FlagSet) { fs.Name = "_"; fs.Prefix = "P" }, ErrInvalidTypeName},
		{"unsupported backing", func(fs *ir.FlagSet) { fs.Backing = "int32" }, ErrUnsupportedBacking},
		{"invalid flag name", func(fs *ir.FlagSet) { fs.Flags[0].Name = "WRIT ABLE" }, ErrInvalidFlagName},
		{"invalid const with empty prefix", func(fs *ir.FlagSet) { fs.Prefix = ""; fs.Flags[0].Name = "_" }, ErrInvalidFlagName},
		{"overflow", func(fs *ir.FlagSet) { fs.Backing = ir.Uint8; fs.Flags[0].Value = 0x100 }, ErrValueOverflow},
		{"unknown derive", func(fs *ir.FlagSet) { fs.Derives = []ir.Derive{"Hash"} }, ErrUnknownDerive},
		{"invalid radix", func(fs *ir.FlagSet) { fs.Radix = 3 }, ErrInvalidRadix},
		{"empty accessor", func(fs *ir.FlagSet) { fs.Flags[0].Name = "__" }, ErrEmptyAccessor},
		{"invalid visibility", func(fs *ir.FlagSet) { fs.Visibility = "crate" }, ErrInvalidVisibility},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := validFlagSet()
			tt.mutate(&fs)

			errs := Validate(&fs, ValidateOptions{})
			require.NotEmpty(t, errs)
			assert.Contains(t, codes(errs), tt.code)
			assert.True(t, HasErrors(errs))
		})
	}
}

func TestValidateOverflowBoundaries(t *testing.T) {
	tests := []struct {
		backing ir.BackingType
		max     uint64
	}{
		{ir.Uint8, 0xff},
		{ir.Uint16, 0xffff},
		{ir.Uint32, 0xffff_ffff},
	}

	for _, tt := range tests {
		t.Run(string(tt.backing), func(t *testing.T) {
			fs := validFlagSet()
			fs.Backing = tt.backing
			fs.Flags = []ir.Flag{{Name: "TOP", Value: tt.max}}
			assert.Empty(t, Validate(&fs, ValidateOptions{}))

			fs.Flags[0].Value = tt.max + 1
			assert.Equal(t, []string{ErrValueOverflow}, codes(Validate(&fs, ValidateOptions{})))
		})
	}

	fs := validFlagSet()
	fs.Backing = ir.Uint64
	fs.Flags = []ir.Flag{{Name: "TOP", Value: ^uint64(0)}}
	assert.Empty(t, Validate(&fs, ValidateOptions{}))
}

func TestValidateCollectsAllErrors(t *testing.T) {
	fs := validFlagSet()
	fs.Backing = "int"
	fs.Radix = 7
	fs.Derives = []ir.Derive{"Ord"}

	errs := Validate(&fs, ValidateOptions{})
	assert.ElementsMatch(t, []string{ErrUnsupportedBacking, ErrInvalidRadix, ErrUnknownDerive}, codes(errs))
}

func TestValidateAccessorCollisionIsWarning(t *testing.T) {
	fs := validFlagSet()
	fs.Flags = append(fs.Flags, ir.Flag{Name: "Writable", Value: 0b100})

	errs := Validate(&fs, ValidateOptions{})
	require.Len(t, errs, 1)
	assert.Equal(t, ErrAccessorCollision, errs[0].Code)
	assert.True(t, errs[0].IsWarning())
	assert.False(t, HasErrors(errs))
	assert.Contains(t, errs[0].Message, "IsWritable/SetWritable/ClearWritable")
	assert.Contains(t, errs[0].Message, "WRITABLE")
}

func TestValidateAccessorCollisionStrict(t *testing.T) {
	fs := validFlagSet()
	fs.Flags = append(fs.Flags, ir.Flag{Name: "writable", Value: 0b100})

	errs := Validate(&fs, ValidateOptions{Strict: true})
	require.Len(t, errs, 1)
	assert.Equal(t, ErrAccessorCollision, errs[0].Code)
	assert.Equal(t, SeverityError, errs[0].Severity)
	assert.True(t, HasErrors(errs))
}

func TestValidateAccessorClashBetweenDistinctNames(t *testing.T) {
	tests := []struct {
		name   string
		flags  []ir.Flag
		method string
	}{
		{"underscore dropped", []ir.Flag{{Name: "X_1", Value: 1}, {Name: "X1", Value: 2}}, "IsX1/SetX1/ClearX1"},
		{"doubled underscore", []ir.Flag{{Name: "READ_ONLY", Value: 1}, {Name: "READ__ONLY", Value: 2}}, "IsReadOnly/SetReadOnly/ClearReadOnly"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := validFlagSet()
			fs.Flags = tt.flags

			errs := Validate(&fs, ValidateOptions{})
			require.Len(t, errs, 1)
			assert.Equal(t, ErrAccessorClash, errs[0].Code)
			assert.Equal(t, SeverityError, errs[0].Severity, "clashes are errors without --strict")
			assert.Contains(t, errs[0].Message, tt.method)
			assert.Contains(t, errs[0].Message, tt.flags[0].Name)
			assert.Contains(t, errs[0].Message, tt.flags[1].Name)
		})
	}
}

func TestValidateVisibilityOfGeneratedIdentifiers(t *testing.T) {
	t.Run("exported set with unexported prefix", func(t *testing.T) {
		fs := validFlagSet()
		fs.Prefix = "perm"

		errs := Validate(&fs, ValidateOptions{})
		assert.Equal(t, []string{ErrInvalidFlagName, ErrInvalidFlagName}, codes(errs))
		assert.Contains(t, errs[0].Message, "permWRITABLE")
	})

	t.Run("unexported set with empty prefix", func(t *testing.T) {
		fs := validFlagSet()
		fs.Name = "hidden"
		fs.Visibility = ir.Unexported
		fs.Prefix = ""
		fs.Flags = []ir.Flag{{Name: "SECRET", Value: 1}, {Name: "quiet", Value: 2}}

		errs := Validate(&fs, ValidateOptions{})
		require.Len(t, errs, 1)
		assert.Equal(t, ErrInvalidFlagName, errs[0].Code)
		assert.Equal(t, "flagset.hidden.flags[0].name", errs[0].Field)
		assert.Contains(t, errs[0].Message, "SECRET")
	})

	t.Run("exported set whose name cannot be exported", func(t *testing.T) {
		fs := validFlagSet()
		fs.Name = "_x"
		fs.Prefix = "X"

		errs := Validate(&fs, ValidateOptions{})
		assert.Equal(t, []string{ErrInvalidVisibility}, codes(errs))
		assert.Equal(t, "flagset._x.name", errs[0].Field)
	})

	t.Run("matching case passes", func(t *testing.T) {
		fs := validFlagSet()
		fs.Name = "modeBits"
		fs.Visibility = ir.Unexported
		fs.Prefix = "mode"
		assert.Empty(t, Validate(&fs, ValidateOptions{Strict: true}))
	})
}

func TestValidateFilePackage(t *testing.T) {
	file := validFile()
	file.Package = ""
	assert.Equal(t, []string{ErrInvalidPackage}, codes(Validate(&file, ValidateOptions{})))

	file.Package = "my-pkg"
	assert.Equal(t, []string{ErrInvalidPackage}, codes(Validate(&file, ValidateOptions{})))
}

func TestValidateFileDuplicateIdentifiers(t *testing.T) {
	t.Run("duplicate set names", func(t *testing.T) {
		file := validFile()
		file.FlagSets = append(file.FlagSets, validFlagSet())
		file.FlagSets[1].Prefix = "Other"

		errs := Validate(&file, ValidateOptions{})
		assert.Equal(t, []string{ErrDuplicateIdentifier}, codes(errs))
	})

	t.Run("constant shadows type", func(t *testing.T) {
		file := validFile()
		other := validFlagSet()
		other.Name = "PrimFlagsWRITABLE"
		other.Prefix = "X"
		file.FlagSets = append(file.FlagSets, other)

		errs := Validate(&file, ValidateOptions{})
		assert.Equal(t, []string{ErrDuplicateIdentifier}, codes(errs))
		assert.Contains(t, errs[0].Message, "PrimFlagsWRITABLE")
	})

	t.Run("case-distinct constants are allowed", func(t *testing.T) {
		file := validFile()
		file.FlagSets[0].Flags = append(file.FlagSets[0].Flags, ir.Flag{Name: "Writable", Value: 4})

		errs := Validate(&file, ValidateOptions{})
		assert.Equal(t, []string{ErrAccessorCollision}, codes(errs))
	})

	t.Run("identical flag names", func(t *testing.T) {
		file := validFile()
		file.FlagSets[0].Flags = append(file.FlagSets[0].Flags, ir.Flag{Name: "WRITABLE", Value: 4})

		errs := Validate(&file, ValidateOptions{})
		assert.ElementsMatch(t, []string{ErrAccessorCollision, ErrDuplicateIdentifier}, codes(errs))
	})

	t.Run("default constructor clash", func(t *testing.T) {
		file := validFile()
		file.FlagSets[0].Derives = []ir.Derive{ir.DeriveDefault}
		clash := validFlagSet()
		clash.Name = "DefaultPrimFlags"
		clash.Prefix = "D"
		file.FlagSets = append(file.FlagSets, clash)

		errs := Validate(&file, ValidateOptions{})
		assert.Equal(t, []string{ErrDuplicateIdentifier}, codes(errs))
	})
}

func TestValidateUnsupportedType(t *testing.T) {
	errs := Validate("nope", ValidateOptions{})
	require.Len(t, errs, 1)
	assert.Equal(t, ErrUnsupportedIRType, errs[0].Code)
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Field: "flagset.F.type", Message: "bad", Code: ErrUnsupportedBacking, Line: 4}
	assert.Equal(t, "[E202] line 4: flagset.F.type: bad", e.Error())

	e.Line = 0
	assert.Equal(t, "[E202] flagset.F.type: bad", e.Error())
}
