// Package attrs defines telemetry attribute keys shared by the binstat
// middlewares, so metrics and traces carry consistent names.
package attrs

const (
	// AttrMethod is the service method name.
	AttrMethod = "method"
	// AttrStoreName is the name of the store an operation targets.
	AttrStoreName = "store.name"
	// AttrSourceName is the name of the store merged from.
	AttrSourceName = "store.source"
	// AttrRowsCount is the number of sample rows in a batch.
	AttrRowsCount = "rows.count"
	// AttrAcceptedCount is the number of rows that landed in a bin.
	AttrAcceptedCount = "accepted.count"
	// AttrAxesCount is the number of grid axes of a created store.
	AttrAxesCount = "axes.count"
	// AttrOutcome is "ok", "outside" (point outside the grid) or "error".
	AttrOutcome = "outcome"
)
