// Package primflags holds flag sets generated from primflags.cue. It is
// checked in so the generated contract can be exercised by ordinary tests.
package primflags

//go:generate go run ../../../cmd/tinyflags generate primflags.cue
