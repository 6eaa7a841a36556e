package report

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrMalformedAnswer is returned when the checker's answer is not a list of
// diagnostics at all.
var ErrMalformedAnswer = errors.New("answer is not a diagnostic list")

// DecodeError is returned when a term does not have the shape the decoder
// expects. Tag names the constructor that was being decoded, if any.
type DecodeError struct {
	Tag    string
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Tag == "" {
		return "decode: " + e.Reason
	}
	return fmt.Sprintf("decode %s: %s", e.Tag, e.Reason)
}

func decodeErrorf(tag, format string, args ...interface{}) error {
	return errors.WithStack(&DecodeError{Tag: tag, Reason: fmt.Sprintf(format, args...)})
}
