package middleware

import "github.com/hyp3rd/binstat"

// outcome classifies an error for telemetry.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case binstat.IsBinNotFound(err):
		return "outside"
	default:
		return "error"
	}
}
