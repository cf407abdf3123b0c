package imaging

import "errors"

// ErrInvalidArgument is wrapped by every validation failure in this package:
// images that are not 3-channel 8-bit, non-positive clip limits, empty tile
// grids, and the like. Test for it with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")
