package enhance

import (
	"errors"

	"github.com/ironsheep/pixasobu-mcp/internal/raster"
)

var (
	// ErrUnknownFilter reports a filter name that is not registered.
	ErrUnknownFilter = errors.New("unknown filter")

	// ErrInvalidParameter reports a parameter outside its documented domain
	// or a parameter the filter does not accept.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidBuffer reports a malformed input buffer.
	ErrInvalidBuffer = raster.ErrInvalidBuffer
)
