package transform

import "fmt"

// ErrorKind classifies record-level validation failures.
type ErrorKind string

const (
	ErrKindDateParse         ErrorKind = "date_parse"
	ErrKindReferenceNotFound ErrorKind = "reference_not_found"
	ErrKindMissingField      ErrorKind = "missing_field"
	ErrKindUnknownPlayer     ErrorKind = "unknown_player"
)

// RecordError describes a single rejected record. Record errors reduce the
// batch's success counts and surface in the import report; they never abort
// the batch. Only integrity violations and transaction errors do that.
type RecordError struct {
	Kind   ErrorKind `json:"kind"`
	Entity string    `json:"entity"`
	Field  string    `json:"field"`
	Value  string    `json:"value"`
	Reason string    `json:"reason"`
}

// Error implements the error interface
func (e RecordError) Error() string {
	return fmt.Sprintf("%s %s: %s=%q: %s", e.Entity, e.Kind, e.Field, e.Value, e.Reason)
}
