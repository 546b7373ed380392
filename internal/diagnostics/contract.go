package diagnostics

import "fmt"

// ContractViolation is the panic value raised when a caller breaks an API
// precondition. It signals a compiler bug, never a user error.
type ContractViolation struct {
	Message string
}

func (c *ContractViolation) Error() string {
	return "contract violation: " + c.Message
}

// Require panics with a ContractViolation unless cond holds.
func Require(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(&ContractViolation{Message: fmt.Sprintf(format, args...)})
	}
}
