package raycast

import "errors"

// ErrInvalidArgument marks a precondition violation: a pixel outside the
// surface, a malformed mesh, a degenerate camera or mis-sized buffers.
var ErrInvalidArgument = errors.New("invalid argument")
