package core

import "fmt"

// Assertf panics when cond is false. It guards contract violations by the
// caller (unbalanced debug groups, out-of-domain enum values) which have no
// recoverable meaning at runtime.
func Assertf(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}
