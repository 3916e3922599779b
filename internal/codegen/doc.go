// Package codegen renders compiled flag sets to Go source.
//
// For every ir.FlagSet the generated file declares a named unsigned integer
// type, one typed constant per flag, a Bits accessor and an Is/Set/Clear
// method group per distinct accessor name. Requested derives add String,
// Equal, Clone and a Default constructor.
//
// Rendering goes through embedded text/template templates and the result is
// passed through go/format, so the output is stable byte for byte and can be
// checked in and compared against golden files.
package codegen
