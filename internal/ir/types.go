package ir

// File is a compiled schema: one Go package worth of flag sets.
type File struct {
	Source   string    `json:"source"`
	Package  string    `json:"package"`
	FlagSets []FlagSet `json:"flag_sets"`
}

// FlagSet is a single generated flags type.
type FlagSet struct {
	Name       string      `json:"name"`
	Visibility Visibility  `json:"visibility"`
	Backing    BackingType `json:"backing"`
	Derives    []Derive    `json:"derives"`
	Doc        string      `json:"doc,omitempty"`
	Prefix     string      `json:"prefix"` // constant name prefix
	Radix      int         `json:"radix"`  // literal base for constants
	Flags      []Flag      `json:"flags"`
}

// Flag is a named bit pattern declared on a FlagSet.
type Flag struct {
	Name       string `json:"name"`
	Value      uint64 `json:"value"`
	Doc        string `json:"doc,omitempty"`
	Deprecated string `json:"deprecated,omitempty"`
}

// ConstName returns the identifier of the constant declared for f.
func (fs *FlagSet) ConstName(f Flag) string {
	return fs.Prefix + f.Name
}

// HasDerive reports whether d was requested for the set.
func (fs *FlagSet) HasDerive(d Derive) bool {
	for _, have := range fs.Derives {
		if have == d {
			return true
		}
	}
	return false
}

// Exported reports whether generated identifiers are exported.
func (fs *FlagSet) Exported() bool {
	return fs.Visibility == Exported
}

// Visibility controls the case of generated identifiers.
type Visibility string

const (
	Exported   Visibility = "exported"
	Unexported Visibility = "unexported"
)

// visibilityAliases maps accepted spellings to a Visibility.
var visibilityAliases = map[string]Visibility{
	"exported":   Exported,
	"public":     Exported,
	"pub":        Exported,
	"unexported": Unexported,
	"private":    Unexported,
}

// ParseVisibility resolves a visibility marker.
func ParseVisibility(s string) (Visibility, bool) {
	v, ok := visibilityAliases[s]
	return v, ok
}

// BackingType is the unsigned integer type a flag set wraps.
type BackingType string

const (
	Uint8  BackingType = "uint8"
	Uint16 BackingType = "uint16"
	Uint32 BackingType = "uint32"
	Uint64 BackingType = "uint64"
)

// backingAliases maps accepted spellings to a BackingType.
var backingAliases = map[string]BackingType{
	"uint8":  Uint8,
	"u8":     Uint8,
	"byte":   Uint8,
	"uint16": Uint16,
	"u16":    Uint16,
	"uint32": Uint32,
	"u32":    Uint32,
	"uint64": Uint64,
	"u64":    Uint64,
}

// ParseBackingType resolves a backing type name.
func ParseBackingType(s string) (BackingType, bool) {
	t, ok := backingAliases[s]
	return t, ok
}

// Bits returns the width of the backing type, or 0 if unknown.
func (t BackingType) Bits() int {
	switch t {
	case Uint8:
		return 8
	case Uint16:
		return 16
	case Uint32:
		return 32
	case Uint64:
		return 64
	default:
		return 0
	}
}

// Max returns the largest value representable in t.
func (t BackingType) Max() uint64 {
	bits := t.Bits()
	if bits == 0 || bits == 64 {
		return ^uint64(0)
	}
	return 1<<uint(bits) - 1
}

// Derive is an optional capability attached to a generated type.
type Derive string

const (
	DeriveDebug   Derive = "debug"   // String() method
	DeriveDefault Derive = "default" // Default<Name>() constructor
	DeriveEq      Derive = "eq"      // Equal method
	DeriveClone   Derive = "clone"   // Clone method
)

// deriveAliases maps lower-cased derive names to a Derive.
var deriveAliases = map[string]Derive{
	"debug":     DeriveDebug,
	"stringer":  DeriveDebug,
	"default":   DeriveDefault,
	"eq":        DeriveEq,
	"partialeq": DeriveEq,
	"equal":     DeriveEq,
	"clone":     DeriveClone,
	"copy":      DeriveClone,
}

// ParseDerive resolves a derive name. Matching is case-insensitive.
func ParseDerive(s string) (Derive, bool) {
	d, ok := deriveAliases[lower(s)]
	return d, ok
}

// Valid radixes for rendered constant literals.
var ValidRadixes = map[int]bool{
	2:  true,
	8:  true,
	10: true,
	16: true,
}

// DefaultRadix is used when a schema does not set one.
const DefaultRadix = 16
