package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// PermCUE is a valid CUE schema with one exported flag set.
const PermCUE = `go_package: "perm"

flagset: PrimFlags: {
	type: "uint32"
	derive: ["Debug"]
	flags: [
		{name: "WRITABLE", value: 0b01},
		{name: "EXECUTABLE", value: 0b10},
	]
}
`

// PermYAML is PermCUE written as YAML.
const PermYAML = `go_package: perm
flagsets:
  - name: PrimFlags
    type: uint32
    derive: [Debug]
    flags:
      - name: WRITABLE
        value: 0b01
      - name: EXECUTABLE
        value: 0b10
`

// CollisionYAML declares two flags that fold to the same accessor names.
const CollisionYAML = `go_package: perm
flagsets:
  - name: PrimFlags
    type: uint8
    flags:
      - name: WRITABLE
        value: 1
      - name: Writable
        value: 2
`

// OverflowYAML declares a value that does not fit its backing type.
const OverflowYAML = `go_package: perm
flagsets:
  - name: Small
    type: uint8
    flags:
      - name: HIGH
        value: 0x100
`

// MalformedYAML is missing a flag value.
const MalformedYAML = `go_package: perm
flagsets:
  - name: Small
    type: uint8
    flags:
      - name: HIGH
`

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

// ReadFile returns the content of path, failing the test on error.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}
