package codegen

import (
	"fmt"
	"strconv"
)

// FormatLiteral renders v as a Go integer literal in the given radix.
func FormatLiteral(v uint64, radix int) (string, error) {
	switch radix {
	case 2:
		return "0b" + strconv.FormatUint(v, 2), nil
	case 8:
		return "0o" + strconv.FormatUint(v, 8), nil
	case 10:
		return strconv.FormatUint(v, 10), nil
	case 16:
		return "0x" + strconv.FormatUint(v, 16), nil
	default:
		return "", fmt.Errorf("unsupported radix %d", radix)
	}
}
