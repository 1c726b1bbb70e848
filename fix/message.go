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
	"iter"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Header holds the required standard header attributes. BeginString,
// BodyLength and CheckSum are not stored; they are fixed or computed.
type Header struct {
	MsgType      MsgType `validate:"msgtype"`
	SenderCompID string  `validate:"required,nosoh"`
	TargetCompID string  `validate:"required,nosoh"`
	MsgSeqNum    int     `validate:"required,gt=0"`
	SendingTime  string  `validate:"required,utctimestamp"`
}

var headerTagByField = map[string]int{
	"MsgType":      TagMsgType,
	"SenderCompID": TagSenderCompID,
	"TargetCompID": TagTargetCompID,
	"MsgSeqNum":    TagMsgSeqNum,
	"SendingTime":  TagSendingTime,
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("msgtype", func(fl validator.FieldLevel) bool {
		mt, ok := fl.Field().Interface().(MsgType)
		return ok && mt.IsValid()
	})
	_ = v.RegisterValidation("nosoh", func(fl validator.FieldLevel) bool {
		return !strings.Contains(fl.Field().String(), SOH)
	})
	_ = v.RegisterValidation("utctimestamp", func(fl validator.FieldLevel) bool {
		_, err := ParseTimestamp(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate reports the first absent or invalid header attribute.
func (h Header) Validate() error {
	err := validate.Struct(h)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	tag := headerTagByField[fe.StructField()]
	if fe.Tag() == "required" {
		return fieldError(ErrMissingRequiredField, tag, "")
	}
	return fieldError(ErrInvalidValue, tag, fmt.Sprint(fe.Value()))
}

// Message is a FIX 4.2 message: the required header plus one FieldMap that
// backs every named accessor and every custom field.
type Message struct {
	header Header
	fields *FieldMap
}

// NewMessage creates a message with SendingTime set to the current UTC time.
func NewMessage(msgType MsgType, senderCompID, targetCompID string, msgSeqNum int) *Message {
	return &Message{
		header: Header{
			MsgType:      msgType,
			SenderCompID: senderCompID,
			TargetCompID: targetCompID,
			MsgSeqNum:    msgSeqNum,
			SendingTime:  FormatTimestamp(now()),
		},
		fields: NewFieldMap(),
	}
}

// Header returns a copy of the header.
func (m *Message) Header() Header { return m.header }

func (m *Message) MsgType() MsgType     { return m.header.MsgType }
func (m *Message) SenderCompID() string { return m.header.SenderCompID }
func (m *Message) TargetCompID() string { return m.header.TargetCompID }
func (m *Message) MsgSeqNum() int       { return m.header.MsgSeqNum }
func (m *Message) SendingTime() string  { return m.header.SendingTime }

// GetField returns the value of any tag in the message, including the
// header and framing fields, and whether it is present.
func (m *Message) GetField(tag int) (string, bool) {
	switch tag {
	case TagBeginString:
		return BeginString, true
	case TagBodyLength:
		return strconv.Itoa(m.BodyLength()), true
	case TagCheckSum:
		return m.CheckSum(), true
	case TagMsgType:
		return m.header.MsgType.String(), true
	case TagSenderCompID:
		return m.header.SenderCompID, m.header.SenderCompID != ""
	case TagTargetCompID:
		return m.header.TargetCompID, m.header.TargetCompID != ""
	case TagMsgSeqNum:
		return strconv.Itoa(m.header.MsgSeqNum), m.header.MsgSeqNum != 0
	case TagSendingTime:
		return m.header.SendingTime, m.header.SendingTime != ""
	}
	return m.fields.Get(tag)
}

// SetField stores value under tag. Header and framing tags are owned by the
// message and rejected with ErrReservedTag. Values may not contain SOH, and
// values for named tags must parse as their type.
func (m *Message) SetField(tag int, value string) error {
	if tag <= 0 {
		return fieldError(ErrMalformedField, tag, value)
	}
	if IsReserved(tag) {
		return fieldError(ErrReservedTag, tag, value)
	}
	if strings.Contains(value, SOH) {
		return fieldError(ErrInvalidValue, tag, value)
	}
	if err := checkValue(tag, value); err != nil {
		return err
	}
	m.fields.Set(tag, value)
	return nil
}

// RemoveField deletes tag from the field store. Reserved tags are left alone.
func (m *Message) RemoveField(tag int) {
	if IsReserved(tag) {
		return
	}
	m.fields.Remove(tag)
}

// CustomFields yields the fields without a named accessor, ascending.
func (m *Message) CustomFields() iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for tag, value := range m.fields.All() {
			if namedSet[tag] {
				continue
			}
			if !yield(tag, value) {
				return
			}
		}
	}
}

// Validate checks the header. Setters never call it.
func (m *Message) Validate() error {
	return m.header.Validate()
}

// Clone returns a deep copy.
func (m *Message) Clone() *Message {
	return &Message{header: m.header, fields: m.fields.Clone()}
}

// ToBuilder starts a Builder from a copy of m.
func (m *Message) ToBuilder() *Builder {
	return &Builder{msg: m.Clone()}
}
