package exception

import "fmt"

// errorTypeName derives a stable label for a raw error value, used to
// populate Record.Extras["exception_type"] and to drive Matcher
// implementations that key off of a name rather than a sentinel value.
// Errors implementing this unexported interface win; everything else
// falls back to its Go type name via %T.
func errorTypeName(err error) string {
	if named, ok := err.(interface{ ExceptionType() string }); ok {
		return named.ExceptionType()
	}
	return fmt.Sprintf("%T", err)
}
