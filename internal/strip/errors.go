package strip

import (
	"errors"
	"fmt"
)

// ErrUnexpectedGroupCount matches any *UnexpectedGroupCountError with
// errors.Is.
var ErrUnexpectedGroupCount = errors.New("unexpected number of sprocket-hole rows")

// UnexpectedGroupCountError reports that grouping did not produce the two
// rows a film strip must have.
type UnexpectedGroupCountError struct {
	Got  int
	Want int
}

func (e *UnexpectedGroupCountError) Error() string {
	return fmt.Sprintf("could not detect %d rows of sprocket holes: found %d", e.Want, e.Got)
}

// Is reports whether target is ErrUnexpectedGroupCount.
func (e *UnexpectedGroupCountError) Is(target error) bool {
	return target == ErrUnexpectedGroupCount
}
