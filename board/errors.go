package board

import (
	"fmt"

	"github.com/pkg/errors"
)

// moveError describes a rejected placement; it satisfies error and carries
// enough context for the caller (or the GTP layer, out of scope here) to
// produce a useful message.
type moveError struct {
	x, y  int
	color Color
	why   string
}

func (err moveError) Error() string {
	return fmt.Sprintf("illegal move %v@(%d,%d): %s", err.color, err.x, err.y, err.why)
}

func illegalMove(x, y int, color Color, why string) error {
	return errors.WithStack(moveError{x: x, y: y, color: color, why: why})
}
