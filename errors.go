package watarray

import (
	"errors"
	"math"
)

// NotFound is returned as the value of every query that fails.
const NotFound = uint64(math.MaxUint64)

var (
	// ErrInvalidSymbol reports a symbol outside of the alphabet.
	ErrInvalidSymbol = errors.New("watarray: invalid symbol")
	// ErrOutOfRange reports a position, range or order outside of the array.
	ErrOutOfRange = errors.New("watarray: out of range")
	// ErrRankExceedsFrequency reports a Select rank larger than Freq(c).
	ErrRankExceedsFrequency = errors.New("watarray: rank exceeds frequency")
	// ErrCorrupt reports serialized data that cannot describe a WatArray.
	ErrCorrupt = errors.New("watarray: corrupt data")
)
