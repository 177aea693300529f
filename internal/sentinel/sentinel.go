// Package sentinel provides standardized error definitions for the binstat system.
// This package centralizes all error values used across the binstat components,
// ensuring consistent error handling and messaging throughout the module.
//
// The errors defined here cover various scenarios including:
// - Expected domain misses (a sample point outside the grid)
// - Caller contract violations (dimension and length mismatches, bad ddof)
// - Numerical impossibilities (negative variance)
// - Service and persistence failures (unknown stores, serializers, backends)
//
// All errors are created using the ewrap package to provide enhanced error
// wrapping and context capabilities.
package sentinel

import (
	"github.com/hyp3rd/ewrap"
)

var (
	// ErrBinNotFound is returned when a sample point lies outside the grid's covered domain.
	// It is the only expected, recoverable outcome of an update.
	ErrBinNotFound = ewrap.New("bin not found")

	// ErrInvalidDegreesOfFreedom is returned when ddof exceeds the number of observations in a bin.
	ErrInvalidDegreesOfFreedom = ewrap.New("ddof must be smaller than or equal to the number of observations")

	// ErrNegativeVariance is returned when the moment accumulator yields a negative variance.
	ErrNegativeVariance = ewrap.New("variance is negative")

	// ErrGridMismatch is returned when two stores built on different grids are combined.
	ErrGridMismatch = ewrap.New("grid mismatch")

	// ErrDDOFMismatch is returned when two stores with different ddof are combined.
	ErrDDOFMismatch = ewrap.New("ddof mismatch")

	// ErrDimensionMismatch is returned when a point does not have one coordinate per grid axis.
	ErrDimensionMismatch = ewrap.New("dimension mismatch")

	// ErrLengthMismatch is returned when the sample rows and the values differ in length.
	ErrLengthMismatch = ewrap.New("length mismatch")

	// ErrIndexOutOfRange is returned when a bin index lies outside the grid's shape.
	ErrIndexOutOfRange = ewrap.New("bin index out of range")

	// ErrInvalidValue is returned when a sample value is NaN or infinite.
	ErrInvalidValue = ewrap.New("invalid sample value")

	// ErrInvalidEdges is returned when bin edges are not finite and strictly increasing.
	ErrInvalidEdges = ewrap.New("invalid bin edges")

	// ErrNilGrid is returned when a nil grid is used.
	ErrNilGrid = ewrap.New("nil grid")

	// ErrCorruptSnapshot is returned when a snapshot violates a store invariant.
	ErrCorruptSnapshot = ewrap.New("corrupt snapshot")

	// ErrStoreNotFound is returned when a named store does not exist.
	ErrStoreNotFound = ewrap.New("store not found")

	// ErrStoreExists is returned when a named store is created twice.
	ErrStoreExists = ewrap.New("store already exists")

	// ErrParamCannotBeEmpty is returned when a parameter cannot be empty.
	ErrParamCannotBeEmpty = ewrap.New("param cannot be empty")

	// ErrSerializerNotFound is returned when a serializer is not found.
	ErrSerializerNotFound = ewrap.New("serializer not found")

	// ErrBackendNotFound is returned when a persistence backend is not configured.
	ErrBackendNotFound = ewrap.New("backend not found")

	// ErrSnapshotNotFound is returned when a backend holds no snapshot under the given name.
	ErrSnapshotNotFound = ewrap.New("snapshot not found")

	// ErrNilClient is returned when a nil client is passed to a backend.
	ErrNilClient = ewrap.New("nil client")

	// ErrMgmtHTTPShutdownTimeout is returned when the management HTTP server fails to shutdown before context deadline.
	ErrMgmtHTTPShutdownTimeout = ewrap.New("management http shutdown timeout")
)
