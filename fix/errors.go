/*
fix42 — FIX 4.2 message codec and tools
Copyright (C) 2025 Steve Clarke <stephenlclarke@mac.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.

In accordance with section 13 of the AGPL, if you modify this program,
your modified version must prominently offer all users interacting with it
remotely through a computer network an opportunity to receive the source
code of your version.
*/
package fix

import (
	"errors"
	"fmt"
)

// Error kinds returned by the codec. Callers match them with errors.Is;
// the returned errors wrap these with the offending tag and value.
var (
	ErrUnknownCode          = errors.New("unknown code")
	ErrMalformedField       = errors.New("malformed field")
	ErrInvalidBeginString   = errors.New("invalid BeginString")
	ErrBodyLengthMismatch   = errors.New("body length mismatch")
	ErrChecksumMismatch     = errors.New("checksum mismatch")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidValue         = errors.New("invalid field value")
	ErrReservedTag          = errors.New("reserved tag")
)

// FieldError ties an error kind to the field that caused it.
type FieldError struct {
	Tag   int
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Tag <= 0 {
		return fmt.Sprintf("%v: %q", e.Err, e.Value)
	}
	if e.Value == "" {
		return fmt.Sprintf("%v: tag %d (%s)", e.Err, e.Tag, TagName(e.Tag))
	}
	return fmt.Sprintf("%v: tag %d (%s) value %q", e.Err, e.Tag, TagName(e.Tag), e.Value)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func fieldError(kind error, tag int, value string) error {
	return &FieldError{Tag: tag, Value: value, Err: kind}
}
