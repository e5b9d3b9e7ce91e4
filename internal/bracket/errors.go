package bracket

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is wrapped by every rejection of caller supplied data.
var ErrInvalidInput = errors.New("invalid input")

func InvalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
