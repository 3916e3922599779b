package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content hashes.
// Version suffix enables future algorithm migration.
const (
	DomainFlagSet = "tinyflags/flagset/v1"
	DomainFile    = "tinyflags/file/v1"
	DomainContent = "tinyflags/content/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SpecHash computes the content-addressed identity of a flag set.
// Two flag sets with the same hash generate identical code.
func SpecHash(fs *FlagSet) (string, error) {
	canonical, err := MarshalCanonical(fs.Canonical())
	if err != nil {
		return "", fmt.Errorf("SpecHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainFlagSet, canonical), nil
}

// FileHash computes the identity of a whole file: its source name, its
// package and the spec hash of every flag set in order. Every input of the
// generated file is covered, so equal hashes render equal output.
func FileHash(f *File) (string, error) {
	sets := make([]any, len(f.FlagSets))
	for i := range f.FlagSets {
		h, err := SpecHash(&f.FlagSets[i])
		if err != nil {
			return "", fmt.Errorf("FileHash: %w", err)
		}
		sets[i] = h
	}
	canonical, err := MarshalCanonical(map[string]any{
		"source":    f.Source,
		"package":   f.Package,
		"flag_sets": sets,
	})
	if err != nil {
		return "", fmt.Errorf("FileHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainFile, canonical), nil
}

// ContentHash hashes generated source bytes.
func ContentHash(src []byte) string {
	return hashWithDomain(DomainContent, src)
}

// MustSpecHash is like SpecHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustSpecHash(fs *FlagSet) string {
	h, err := SpecHash(fs)
	if err != nil {
		panic(err)
	}
	return h
}
