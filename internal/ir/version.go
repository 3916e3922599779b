package ir

// Version constants for the IR schema and generator.
const (
	// IRVersion is the IR schema version.
	IRVersion = "1"

	// GeneratorVersion is the tinyflags generator version. It is recorded in
	// the generation cache so a generator upgrade invalidates cached outputs.
	GeneratorVersion = "0.1.0"
)
