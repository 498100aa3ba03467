package checkout

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnauthenticated = errors.New("checkout requires a signed-in user")
	ErrEmptyCart       = errors.New("cart is empty")
)

// ValidationError carries every field that failed validation.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return fmt.Sprintf("checkout: invalid fields: %s", strings.Join(names, ", "))
}
