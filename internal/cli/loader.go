package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/tinyflags/internal/compiler"
	"github.com/roach88/tinyflags/internal/ir"
)

// LoadError represents an error that occurred before compilation: the
// schema could not be found, read or built.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // Schema could not be read or loaded
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeBadFormat   = "E008" // Unsupported schema file extension
	ErrCodeCache       = "E009" // Generation cache error
	ErrCodeInternal    = "E010" // Generator bug (unformattable output)

	// Schema shape errors
	ErrCodeNoFlagSets  = "E101" // No flag sets declared
	ErrCodeBadFlagSet  = "E102" // Malformed flag set field
	ErrCodeBadFlag     = "E103" // Malformed flag entry
	ErrCodeBadPackage  = "E104" // go_package is not a string
	ErrCodeSyntax      = "E105" // CUE or YAML syntax/evaluation error
	ErrCodeBadFlagType = "E106" // Flag value is not a non-negative integer
)

// LoadSchema reads the schema at path and compiles it to IR.
//
// path may be a .cue file, a directory of .cue files, or a .yaml/.yml file.
// Load failures return *LoadError; malformed schemas return
// *compiler.CompileError. The returned file's Source is the base name of
// path, which is what generated headers mention.
func LoadSchema(path string) (*ir.File, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("schema not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing schema: %v", err)}
	}

	var file *ir.File
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case info.IsDir():
		file, err = loadCUEDir(path)
	case ext == ".cue":
		file, err = loadCUE(filepath.Dir(path), filepath.Base(path))
	case ext == ".yaml" || ext == ".yml":
		file, err = loadYAML(path)
	default:
		return nil, &LoadError{
			Code:    ErrCodeBadFormat,
			Message: fmt.Sprintf("unsupported schema file %s: want .cue, .yaml or .yml", path),
		}
	}
	if err != nil {
		return nil, err
	}

	file.Source = filepath.Base(filepath.Clean(path))
	return file, nil
}

func loadCUEDir(dir string) (*ir.File, error) {
	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}
	return loadCUE(dir, ".")
}

// loadCUE loads one CUE instance (a file name or "." for the package in
// dir) and compiles it.
func loadCUE(dir, arg string) (*ir.File, error) {
	ctx := cuecontext.New()
	instances := load.Instances([]string{arg}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	return compiler.CompileFile(value, filepath.Join(dir, arg))
}

func loadYAML(path string) (*ir.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading schema: %v", err)}
	}
	return compiler.CompileYAML(data, path)
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// loadFailure converts a LoadSchema error into a CLI error code, message and
// exit code. Load errors are command errors; malformed schemas are
// validation failures.
func loadFailure(err error) (code, message string, exit int) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message, ExitCommandError
	}
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		message = compileErr.Message
		if compileErr.Pos.IsValid() {
			message = fmt.Sprintf("%s: %s", compileErr.Pos, compileErr.Message)
		}
		return MapFieldToErrorCode(compileErr.Field), message, ExitFailure
	}
	return ErrCodeGeneric, err.Error(), ExitCommandError
}

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch field {
	case "flagset", "flagsets":
		return ErrCodeNoFlagSets
	case "name", "type", "visibility", "prefix", "doc", "radix", "derive", "flags":
		return ErrCodeBadFlagSet
	case "flags.name":
		return ErrCodeBadFlag
	case "flags.value":
		return ErrCodeBadFlagType
	case "go_package":
		return ErrCodeBadPackage
	case "cue", "yaml":
		return ErrCodeSyntax
	default:
		return ErrCodeGeneric
	}
}
