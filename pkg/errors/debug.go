package errors

import stdErrors "errors"

// ErrorDump flattens an error chain into loggable fields.
type ErrorDump struct {
	TopMessage string
	Code       Code
	Chain      []string
}

// Dump walks the wrapped chain and returns the pieces worth logging.
func Dump(err error) ErrorDump {
	dump := ErrorDump{}
	if err == nil {
		return dump
	}
	dump.TopMessage = err.Error()
	if typed := As(err); typed != nil {
		dump.Code = typed.Code()
	}
	for current := err; current != nil; current = stdErrors.Unwrap(current) {
		dump.Chain = append(dump.Chain, current.Error())
	}
	return dump
}
