package binstat

import (
	"errors"

	"github.com/hyp3rd/binstat/internal/sentinel"
)

// Errors returned by the engine. Match them with errors.Is; most are wrapped
// with the offending bin, row or value.
var (
	// ErrBinNotFound reports a sample point outside the grid. It is the only expected outcome of AddSample.
	ErrBinNotFound = sentinel.ErrBinNotFound
	// ErrInvalidDegreesOfFreedom reports a ddof larger than the number of observations in a bin.
	ErrInvalidDegreesOfFreedom = sentinel.ErrInvalidDegreesOfFreedom
	// ErrNegativeVariance reports a negative variance, which signals numerical breakdown.
	ErrNegativeVariance = sentinel.ErrNegativeVariance
	// ErrGridMismatch reports an attempt to merge stores over different grids.
	ErrGridMismatch = sentinel.ErrGridMismatch
	// ErrDDOFMismatch reports an attempt to merge stores with different ddof.
	ErrDDOFMismatch = sentinel.ErrDDOFMismatch
	// ErrDimensionMismatch reports a point whose coordinate count differs from the grid's.
	ErrDimensionMismatch = sentinel.ErrDimensionMismatch
	// ErrLengthMismatch reports a batch whose rows and values differ in length.
	ErrLengthMismatch = sentinel.ErrLengthMismatch
	// ErrIndexOutOfRange reports a bin index outside the grid's shape.
	ErrIndexOutOfRange = sentinel.ErrIndexOutOfRange
	// ErrInvalidValue reports a NaN or infinite sample value.
	ErrInvalidValue = sentinel.ErrInvalidValue
	// ErrInvalidEdges reports bin boundaries that are not finite and strictly increasing.
	ErrInvalidEdges = sentinel.ErrInvalidEdges
	// ErrNilGrid reports a store built without a grid.
	ErrNilGrid = sentinel.ErrNilGrid
	// ErrCorruptSnapshot reports a snapshot that violates a store invariant.
	ErrCorruptSnapshot = sentinel.ErrCorruptSnapshot
	// ErrStoreNotFound reports an unknown store name.
	ErrStoreNotFound = sentinel.ErrStoreNotFound
	// ErrStoreExists reports a store name already in use.
	ErrStoreExists = sentinel.ErrStoreExists
	// ErrParamCannotBeEmpty reports an empty store name.
	ErrParamCannotBeEmpty = sentinel.ErrParamCannotBeEmpty
	// ErrSerializerNotFound reports an unknown snapshot encoding.
	ErrSerializerNotFound = sentinel.ErrSerializerNotFound
	// ErrSnapshotNotFound reports a backend without a snapshot under the requested name.
	ErrSnapshotNotFound = sentinel.ErrSnapshotNotFound
	// ErrBackendNotFound reports a persistence call on a registry without a backend.
	ErrBackendNotFound = sentinel.ErrBackendNotFound
)

// IsBinNotFound reports whether err is the expected out-of-domain outcome
// rather than a failure.
func IsBinNotFound(err error) bool {
	return errors.Is(err, ErrBinNotFound)
}
