// runner/types.go
package runner

import (
	"github.com/notargets/kernelcheck/runner/builder"
)

// SizeOfType returns the size in bytes of a data type
func SizeOfType(dt builder.DataType) int64 {
	switch dt {
	case builder.INT32:
		return 4
	case builder.INT64:
		return 8
	default:
		return 8
	}
}

// TypeName returns the C type name for a given DataType
func TypeName(dt builder.DataType) string {
	switch dt {
	case builder.INT32:
		return "int"
	case builder.INT64:
		return "long"
	default:
		return "long"
	}
}
