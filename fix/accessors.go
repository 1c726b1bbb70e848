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

// Typed views over named tags. Every getter reads the same FieldMap that
// GetField reads and reports ok=false when the tag is absent.

func (m *Message) decimalField(tag int) (decimal.Decimal, bool) {
	v, ok := m.fields.Get(tag)
	if !ok {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func (m *Message) intField(tag int) (int, bool) {
	v, ok := m.fields.Get(tag)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	return n, err == nil
}

func (m *Message) boolField(tag int) (bool, bool) {
	v, ok := m.fields.Get(tag)
	if !ok || (v != "Y" && v != "N") {
		return false, false
	}
	return v == "Y", true
}

// Header (optional)

func (m *Message) PossDupFlag() (bool, bool) { return m.boolField(TagPossDupFlag) }
func (m *Message) PossResend() (bool, bool)  { return m.boolField(TagPossResend) }

func (m *Message) OrigSendingTime() (time.Time, bool) {
	v, ok := m.fields.Get(TagOrigSendingTime)
	if !ok {
		return time.Time{}, false
	}
	t, err := ParseTimestamp(v)
	return t, err == nil
}

// Orders and executions

func (m *Message) Account() (string, bool)       { return m.fields.Get(TagAccount) }
func (m *Message) ClOrdID() (string, bool)       { return m.fields.Get(TagClOrdID) }
func (m *Message) OrigClOrdID() (string, bool)   { return m.fields.Get(TagOrigClOrdID) }
func (m *Message) OrderID() (string, bool)       { return m.fields.Get(TagOrderID) }
func (m *Message) ExecID() (string, bool)        { return m.fields.Get(TagExecID) }
func (m *Message) ExecTransType() (string, bool) { return m.fields.Get(TagExecTransType) }
func (m *Message) ExecType() (string, bool)      { return m.fields.Get(TagExecType) }
func (m *Message) Symbol() (string, bool)        { return m.fields.Get(TagSymbol) }
func (m *Message) OrdType() (string, bool)       { return m.fields.Get(TagOrdType) }
func (m *Message) TimeInForce() (string, bool)   { return m.fields.Get(TagTimeInForce) }
func (m *Message) Text() (string, bool)          { return m.fields.Get(TagText) }

func (m *Message) Side() (Side, bool) {
	v, ok := m.fields.Get(TagSide)
	if !ok {
		return 0, false
	}
	s, err := ParseSide(v)
	return s, err == nil
}

func (m *Message) OrdStatus() (OrdStatus, bool) {
	v, ok := m.fields.Get(TagOrdStatus)
	if !ok {
		return 0, false
	}
	s, err := ParseOrdStatus(v)
	return s, err == nil
}

func (m *Message) OrderQty() (decimal.Decimal, bool)   { return m.decimalField(TagOrderQty) }
func (m *Message) Price() (decimal.Decimal, bool)      { return m.decimalField(TagPrice) }
func (m *Message) LastShares() (decimal.Decimal, bool) { return m.decimalField(TagLastShares) }
func (m *Message) LastPx() (decimal.Decimal, bool)     { return m.decimalField(TagLastPx) }
func (m *Message) LeavesQty() (decimal.Decimal, bool)  { return m.decimalField(TagLeavesQty) }
func (m *Message) CumQty() (decimal.Decimal, bool)     { return m.decimalField(TagCumQty) }
func (m *Message) AvgPx() (decimal.Decimal, bool)      { return m.decimalField(TagAvgPx) }

// Session

func (m *Message) TestReqID() (string, bool) { return m.fields.Get(TagTestReqID) }

func (m *Message) EncryptMethod() (EncryptMethod, bool) {
	v, ok := m.fields.Get(TagEncryptMethod)
	if !ok {
		return 0, false
	}
	e, err := ParseEncryptMethod(v)
	return e, err == nil
}

func (m *Message) HeartBtInt() (int, bool)            { return m.intField(TagHeartBtInt) }
func (m *Message) ResetSeqNumFlag() (bool, bool)      { return m.boolField(TagResetSeqNumFlag) }
func (m *Message) NextExpectedMsgSeqNum() (int, bool) { return m.intField(TagNextExpectedMsgSeqNum) }
func (m *Message) MaxMessageSize() (int, bool)        { return m.intField(TagMaxMessageSize) }

// Trailer (optional)

func (m *Message) SignatureLength() (int, bool) { return m.intField(TagSignatureLength) }
func (m *Message) Signature() (string, bool)    { return m.fields.Get(TagSignature) }
