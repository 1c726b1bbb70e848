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
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SOH terminates every field on the wire.
const SOH = "\x01"

const checksumPrefix = "10="

// Fields returns the message in wire order, without BeginString, BodyLength
// and CheckSum: the required header, named fields in canonical order, custom
// fields ascending, then the trailer fields.
func (m *Message) Fields() []Field {
	out := make([]Field, 0, len(headerOrder)+m.fields.Len())
	for _, tag := range headerOrder {
		v, _ := m.GetField(tag)
		out = append(out, Field{Tag: tag, Value: v})
	}
	for _, tag := range namedOrder {
		if v, ok := m.fields.Get(tag); ok {
			out = append(out, Field{Tag: tag, Value: v})
		}
	}
	for tag, v := range m.CustomFields() {
		out = append(out, Field{Tag: tag, Value: v})
	}
	for _, tag := range trailerOrder {
		if v, ok := m.fields.Get(tag); ok {
			out = append(out, Field{Tag: tag, Value: v})
		}
	}
	return out
}

func appendField(buf []byte, tag int, value string) []byte {
	buf = strconv.AppendInt(buf, int64(tag), 10)
	buf = append(buf, '=')
	buf = append(buf, value...)
	return append(buf, SOH...)
}

func (m *Message) appendBody(buf []byte) []byte {
	for _, f := range m.Fields() {
		buf = appendField(buf, f.Tag, f.Value)
	}
	return buf
}

// BodyLength is the byte count of everything after the 9= field and before
// the 10= field.
func (m *Message) BodyLength() int {
	return len(m.appendBody(nil))
}

// CheckSum is the three-digit trailer value for the current content.
func (m *Message) CheckSum() string {
	b := m.Bytes()
	return string(b[len(b)-4 : len(b)-1])
}

// Bytes encodes the message. Output is deterministic for a given content.
func (m *Message) Bytes() []byte {
	body := m.appendBody(nil)

	buf := make([]byte, 0, len(body)+32)
	buf = appendField(buf, TagBeginString, BeginString)
	buf = appendField(buf, TagBodyLength, strconv.Itoa(len(body)))
	buf = append(buf, body...)
	return appendField(buf, TagCheckSum, FormatChecksum(Checksum(buf)))
}

// ToWire returns the encoded message as a string.
func (m *Message) ToWire() string {
	return string(m.Bytes())
}

// WriteTo writes the encoded message to w.
func (m *Message) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(m.Bytes())
	return int64(n), err
}

// String renders the wire form with SOH shown as '|'.
func (m *Message) String() string {
	return strings.ReplaceAll(m.ToWire(), SOH, "|")
}

// Checksum sums the bytes of b modulo 256.
func Checksum[T string | []byte](b T) int {
	sum := 0
	for i := 0; i < len(b); i++ {
		sum += int(b[i])
	}
	return sum % 256
}

// FormatChecksum renders sum as the zero-padded three-digit trailer value.
func FormatChecksum(sum int) string {
	return fmt.Sprintf("%03d", sum%256)
}

// SplitFields tokenizes SOH-terminated tag=value pairs in order. It does not
// check framing.
func SplitFields(s string) ([]Field, error) {
	if !strings.HasSuffix(s, SOH) {
		return nil, fieldError(ErrMalformedField, 0, lastToken(s))
	}
	tokens := strings.Split(strings.TrimSuffix(s, SOH), SOH)
	fields := make([]Field, 0, len(tokens))
	for _, tok := range tokens {
		f, err := parseField(tok)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func parseField(tok string) (Field, error) {
	k, v, ok := strings.Cut(tok, "=")
	if !ok || k == "" {
		return Field{}, fieldError(ErrMalformedField, 0, tok)
	}
	for i := 0; i < len(k); i++ {
		if k[i] < '0' || k[i] > '9' {
			return Field{}, fieldError(ErrMalformedField, 0, tok)
		}
	}
	tag, err := strconv.Atoi(k)
	if err != nil || tag <= 0 {
		return Field{}, fieldError(ErrMalformedField, 0, tok)
	}
	return Field{Tag: tag, Value: v}, nil
}

func lastToken(s string) string {
	if i := strings.LastIndex(s, SOH); i >= 0 {
		return s[i+1:]
	}
	return s
}

// FromWire decodes a single message.
//
// Integrity is checked before content: the trailer checksum first, then the
// BeginString, then the declared body length, so that any corruption of the
// bytes ahead of the trailer surfaces as ErrChecksumMismatch or
// ErrBodyLengthMismatch rather than as a field-level error.
func FromWire(s string) (*Message, error) {
	if !strings.HasSuffix(s, SOH) {
		return nil, fieldError(ErrMalformedField, 0, lastToken(s))
	}

	idx := strings.LastIndex(s, checksumPrefix)
	if idx < 0 {
		return nil, fieldError(ErrMissingRequiredField, TagCheckSum, "")
	}
	declared := s[idx+len(checksumPrefix) : len(s)-1]
	if len(declared) != 3 || !isDigits(declared) {
		return nil, fieldError(ErrMalformedField, TagCheckSum, declared)
	}
	if want := FormatChecksum(Checksum(s[:idx])); declared != want {
		return nil, fieldError(ErrChecksumMismatch, TagCheckSum, declared)
	}
	if idx == 0 || s[idx-1] != SOH[0] {
		return nil, fieldError(ErrMalformedField, TagCheckSum, s[:idx])
	}
	head := s[:idx]

	begin := BeginStringPrefix()
	if !strings.HasPrefix(head, begin) {
		first, _, _ := strings.Cut(head, SOH)
		return nil, fieldError(ErrInvalidBeginString, TagBeginString, first)
	}
	rest := head[len(begin):]

	lenTok, body, ok := strings.Cut(rest, SOH)
	lenVal, hasLen := strings.CutPrefix(lenTok, "9=")
	if !ok || !hasLen {
		return nil, fieldError(ErrBodyLengthMismatch, TagBodyLength, lenTok)
	}
	n, err := strconv.Atoi(lenVal)
	if err != nil || !isDigits(lenVal) || n != len(body) {
		return nil, fieldError(ErrBodyLengthMismatch, TagBodyLength, lenVal)
	}

	if body == "" {
		return nil, fieldError(ErrMissingRequiredField, TagMsgType, "")
	}
	fields, err := SplitFields(body)
	if err != nil {
		return nil, err
	}

	return fromFields(fields)
}

// BeginStringPrefix is the first field of every message, separator included.
func BeginStringPrefix() string {
	return "8=" + BeginString + SOH
}

func fromFields(fields []Field) (*Message, error) {
	seen := make(map[int]bool, len(fields))
	var msgTypeCode string
	for _, f := range fields {
		if seen[f.Tag] {
			return nil, fieldError(ErrMalformedField, f.Tag, f.Value)
		}
		seen[f.Tag] = true
		if f.Tag == TagMsgType {
			msgTypeCode = f.Value
		}
	}
	if !seen[TagMsgType] {
		return nil, fieldError(ErrMissingRequiredField, TagMsgType, "")
	}
	msgType, err := ParseMsgType(msgTypeCode)
	if err != nil {
		return nil, err
	}

	m := &Message{header: Header{MsgType: msgType}, fields: NewFieldMap()}
	for _, f := range fields {
		switch f.Tag {
		case TagMsgType:
		case TagSenderCompID:
			m.header.SenderCompID = f.Value
		case TagTargetCompID:
			m.header.TargetCompID = f.Value
		case TagSendingTime:
			m.header.SendingTime = f.Value
		case TagMsgSeqNum:
			seq, err := strconv.Atoi(f.Value)
			if err != nil || seq <= 0 || !isDigits(f.Value) {
				return nil, fieldError(ErrInvalidValue, TagMsgSeqNum, f.Value)
			}
			m.header.MsgSeqNum = seq
		case TagBeginString, TagBodyLength, TagCheckSum:
			return nil, fieldError(ErrMalformedField, f.Tag, f.Value)
		default:
			if err := checkValue(f.Tag, f.Value); err != nil {
				return nil, err
			}
			m.fields.Set(f.Tag, f.Value)
		}
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// ParseBytes decodes a single message from b.
func ParseBytes(b []byte) (*Message, error) {
	return FromWire(string(b))
}

// Equal reports whether two messages encode identically.
func (m *Message) Equal(o *Message) bool {
	return bytes.Equal(m.Bytes(), o.Bytes())
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
