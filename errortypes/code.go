package errortypes

// Error codes, one per fatal error type.
const (
	UnknownErrorCode  = 999
	BadInputErrorCode = iota
	BadServerResponseErrorCode
	FailedToMarshalErrorCode
)

// Warning codes.
const (
	UnknownWarningCode       = 10999
	EmptyResponseWarningCode = iota + 10000
	FailedToTrackWarningCode
)

// Coder provides an error or warning code with severity.
type Coder interface {
	Code() int
	Severity() Severity
}

// ReadCode returns the error or warning code, or UnknownErrorCode if unavailable.
func ReadCode(err error) int {
	if e, ok := err.(Coder); ok {
		return e.Code()
	}
	return UnknownErrorCode
}
