// Copyright (c) 2025, Oh Inseo (YJK) -- Licensed under BSD-2-Clause
package six502

import (
	"errors"
	"fmt"
)

// ErrUnsupportedMode is matched by every *UnsupportedModeError.
var ErrUnsupportedMode = errors.New("unsupported addressing mode")

// UnsupportedModeError is the panic value raised when a resolver is asked
// for a mode it cannot serve, such as Indirect, or a store to an Immediate
// operand. It means the caller dispatched the wrong mode; there is no way to
// continue the instruction.
type UnsupportedModeError struct {
	Mode   Mode
	Access Access
}

func (e *UnsupportedModeError) Error() string {
	return fmt.Sprintf("%v: %s on %s", ErrUnsupportedMode, e.Access, e.Mode)
}

func (e *UnsupportedModeError) Unwrap() error {
	return ErrUnsupportedMode
}

func unsupported(m Mode, a Access) {
	panic(&UnsupportedModeError{Mode: m, Access: a})
}
