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
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Builder accumulates fields for a Message. It is discarded after Build; the
// first failing setter is remembered and returned by Build.
type Builder struct {
	msg *Message
	err error
}

// NewBuilder starts a message with SendingTime defaulted to now.
func NewBuilder(msgType MsgType, senderCompID, targetCompID string, msgSeqNum int) *Builder {
	return &Builder{msg: NewMessage(msgType, senderCompID, targetCompID, msgSeqNum)}
}

func (b *Builder) set(tag int, value string) *Builder {
	if b.err != nil {
		return b
	}
	b.err = b.msg.SetField(tag, value)
	return b
}

// Field sets any non-reserved tag.
func (b *Builder) Field(tag int, value string) *Builder { return b.set(tag, value) }

// SendingTime overrides the default SendingTime with a preformatted value.
func (b *Builder) SendingTime(value string) *Builder {
	b.msg.header.SendingTime = value
	return b
}

func (b *Builder) SendingTimeAt(t time.Time) *Builder {
	return b.SendingTime(FormatTimestamp(t))
}

func (b *Builder) PossDupFlag(v bool) *Builder { return b.set(TagPossDupFlag, yesNo(v)) }
func (b *Builder) PossResend(v bool) *Builder  { return b.set(TagPossResend, yesNo(v)) }
func (b *Builder) OrigSendingTime(t time.Time) *Builder {
	return b.set(TagOrigSendingTime, FormatTimestamp(t))
}

func (b *Builder) Account(v string) *Builder       { return b.set(TagAccount, v) }
func (b *Builder) ClOrdID(v string) *Builder       { return b.set(TagClOrdID, v) }
func (b *Builder) OrigClOrdID(v string) *Builder   { return b.set(TagOrigClOrdID, v) }
func (b *Builder) OrderID(v string) *Builder       { return b.set(TagOrderID, v) }
func (b *Builder) ExecID(v string) *Builder        { return b.set(TagExecID, v) }
func (b *Builder) ExecTransType(v string) *Builder { return b.set(TagExecTransType, v) }
func (b *Builder) ExecType(v string) *Builder      { return b.set(TagExecType, v) }
func (b *Builder) OrdStatus(v OrdStatus) *Builder  { return b.set(TagOrdStatus, v.String()) }
func (b *Builder) Symbol(v string) *Builder        { return b.set(TagSymbol, v) }
func (b *Builder) Side(v Side) *Builder            { return b.set(TagSide, v.String()) }
func (b *Builder) OrdType(v string) *Builder       { return b.set(TagOrdType, v) }
func (b *Builder) TimeInForce(v string) *Builder   { return b.set(TagTimeInForce, v) }
func (b *Builder) Text(v string) *Builder          { return b.set(TagText, v) }

func (b *Builder) OrderQty(v decimal.Decimal) *Builder   { return b.set(TagOrderQty, v.String()) }
func (b *Builder) Price(v decimal.Decimal) *Builder      { return b.set(TagPrice, v.String()) }
func (b *Builder) LastShares(v decimal.Decimal) *Builder { return b.set(TagLastShares, v.String()) }
func (b *Builder) LastPx(v decimal.Decimal) *Builder     { return b.set(TagLastPx, v.String()) }
func (b *Builder) LeavesQty(v decimal.Decimal) *Builder  { return b.set(TagLeavesQty, v.String()) }
func (b *Builder) CumQty(v decimal.Decimal) *Builder     { return b.set(TagCumQty, v.String()) }
func (b *Builder) AvgPx(v decimal.Decimal) *Builder      { return b.set(TagAvgPx, v.String()) }

func (b *Builder) TestReqID(v string) *Builder { return b.set(TagTestReqID, v) }
func (b *Builder) EncryptMethod(v EncryptMethod) *Builder {
	return b.set(TagEncryptMethod, v.String())
}
func (b *Builder) HeartBtInt(v int) *Builder        { return b.set(TagHeartBtInt, strconv.Itoa(v)) }
func (b *Builder) ResetSeqNumFlag(v bool) *Builder  { return b.set(TagResetSeqNumFlag, yesNo(v)) }
func (b *Builder) MaxMessageSize(v int) *Builder    { return b.set(TagMaxMessageSize, strconv.Itoa(v)) }
func (b *Builder) NextExpectedMsgSeqNum(v int) *Builder {
	return b.set(TagNextExpectedMsgSeqNum, strconv.Itoa(v))
}

// Signature sets Signature(89) and its SignatureLength(93).
func (b *Builder) Signature(sig string) *Builder {
	return b.set(TagSignatureLength, strconv.Itoa(len(sig))).set(TagSignature, sig)
}

// Build returns the assembled message. It fails on the first setter error or
// when a required header attribute is absent or invalid.
func (b *Builder) Build() (*Message, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.msg.Validate(); err != nil {
		return nil, err
	}
	return b.msg.Clone(), nil
}

func yesNo(v bool) string {
	if v {
		return "Y"
	}
	return "N"
}
