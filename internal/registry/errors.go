package registry

import (
	"fmt"
	"strings"
)

// RegistryIntegrityError lists every inconsistency found by Verify.
type RegistryIntegrityError struct {
	Problems []string
}

// Error implements error.
func (e *RegistryIntegrityError) Error() string {
	if len(e.Problems) == 1 {
		return "registry integrity: " + e.Problems[0]
	}
	return fmt.Sprintf("registry integrity: %d problems: %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

func (e *RegistryIntegrityError) addf(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}
