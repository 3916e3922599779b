// Package ir provides the intermediate representation for tinyflags.
//
// A schema (CUE or YAML) compiles to an ir.File; the code generator renders
// an ir.File to Go source. This package imports nothing internal so that
// compiler, codegen, store and cli can all depend on it.
//
// Key design constraints:
//   - IR values are fully resolved: visibility is already applied to type
//     names and constant prefixes are filled in
//   - Flag values are stored as uint64 regardless of the backing width
//   - All JSON tags use snake_case
//   - Spec hashes are computed over canonical JSON (RFC 8785)
package ir
