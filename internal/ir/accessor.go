package ir

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Accessor is the Is/Set/Clear method group generated for one flag.
type Accessor struct {
	Flag   Flag
	Suffix string // method name without the Is/Set/Clear prefix

	// Overrides lists earlier flags folding to the same name whose
	// accessors this one replaced.
	Overrides []string
}

// Method name prefixes.
const (
	prefixIs    = "is"
	prefixSet   = "set"
	prefixClear = "clear"
)

// FoldName lower-cases a flag name. Two flags collide, and the later one
// takes over the accessors, when they fold to the same name.
func FoldName(name string) string {
	return lower(name)
}

// AccessorSuffix derives the method suffix for a flag name: the name is
// folded to lower case, split on underscores and each part title-cased.
// READ_ONLY and read_only both yield "ReadOnly".
func AccessorSuffix(name string) string {
	caser := cases.Title(language.Und)
	var b strings.Builder
	for _, part := range strings.Split(FoldName(name), "_") {
		if part == "" {
			continue
		}
		b.WriteString(caser.String(part))
	}
	return b.String()
}

// IsMethod returns the name of the query method for a.
func (fs *FlagSet) IsMethod(a Accessor) string {
	return fs.methodName(prefixIs, a.Suffix)
}

// SetMethod returns the name of the set method for a.
func (fs *FlagSet) SetMethod(a Accessor) string {
	return fs.methodName(prefixSet, a.Suffix)
}

// ClearMethod returns the name of the clear method for a.
func (fs *FlagSet) ClearMethod(a Accessor) string {
	return fs.methodName(prefixClear, a.Suffix)
}

// MethodName applies the set's visibility to a fixed method name such as
// "Bits" or "Equal".
func (fs *FlagSet) MethodName(name string) string {
	return fs.methodName(name, "")
}

// DefaultFunc returns the name of the Default constructor.
func (fs *FlagSet) DefaultFunc() string {
	return fs.methodName("default", upperFirst(fs.Name))
}

func (fs *FlagSet) methodName(prefix, suffix string) string {
	if fs.Exported() {
		return upperFirst(prefix) + suffix
	}
	return lowerFirst(prefix) + suffix
}

// ResolveAccessors returns one Accessor per distinct folded flag name.
// When several flags fold to the same name the last declaration wins and
// the earlier ones are recorded in Overrides. The result is ordered by the
// position of each winning flag.
//
// Flags with different folded names can still share a Suffix (X_1 and X1
// both give "X1"). Both are returned; see SuffixClashes.
func ResolveAccessors(fs *FlagSet) []Accessor {
	last := make(map[string]int, len(fs.Flags))
	for i, f := range fs.Flags {
		last[FoldName(f.Name)] = i
	}

	overridden := make(map[string][]string)
	var accessors []Accessor
	for i, f := range fs.Flags {
		folded := FoldName(f.Name)
		if last[folded] != i {
			overridden[folded] = append(overridden[folded], f.Name)
			continue
		}
		accessors = append(accessors, Accessor{
			Flag:      f,
			Suffix:    AccessorSuffix(f.Name),
			Overrides: overridden[folded],
		})
	}
	return accessors
}

// SuffixClash names two resolved accessors that would generate the same
// methods although their flags fold to different names.
type SuffixClash struct {
	Suffix string
	First  string // flag name of the earlier accessor
	Second string // flag name of the later accessor
}

// SuffixClashes reports accessors from ResolveAccessors that share a
// non-empty Suffix.
func SuffixClashes(accessors []Accessor) []SuffixClash {
	var clashes []SuffixClash
	owner := make(map[string]string, len(accessors))
	for _, a := range accessors {
		if a.Suffix == "" {
			continue
		}
		if prev, ok := owner[a.Suffix]; ok {
			clashes = append(clashes, SuffixClash{Suffix: a.Suffix, First: prev, Second: a.Flag.Name})
			continue
		}
		owner[a.Suffix] = a.Flag.Name
	}
	return clashes
}

func lower(s string) string {
	return strings.ToLower(s)
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	return string(r)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = []rune(strings.ToLower(string(r[0])))[0]
	return string(r)
}

// ApplyVisibility adjusts the case of the first rune of name to match v.
func ApplyVisibility(name string, v Visibility) string {
	if v == Exported {
		return upperFirst(name)
	}
	return lowerFirst(name)
}
