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
	"slices"
	"strconv"

	"github.com/shopspring/decimal"
)

const (
	TagAccount               = 1
	TagAvgPx                 = 6
	TagBeginString           = 8
	TagBodyLength            = 9
	TagCheckSum              = 10
	TagClOrdID               = 11
	TagCumQty                = 14
	TagExecID                = 17
	TagExecTransType         = 20
	TagHandlInst             = 21
	TagLastPx                = 31
	TagLastShares            = 32
	TagMsgSeqNum             = 34
	TagMsgType               = 35
	TagOrderID               = 37
	TagOrderQty              = 38
	TagOrdStatus             = 39
	TagOrdType               = 40
	TagOrigClOrdID           = 41
	TagPossDupFlag           = 43
	TagPrice                 = 44
	TagSenderCompID          = 49
	TagSenderSubID           = 50
	TagSendingTime           = 52
	TagSide                  = 54
	TagSymbol                = 55
	TagTargetCompID          = 56
	TagTargetSubID           = 57
	TagText                  = 58
	TagTimeInForce           = 59
	TagTransactTime          = 60
	TagSignature             = 89
	TagSignatureLength       = 93
	TagPossResend            = 97
	TagEncryptMethod         = 98
	TagHeartBtInt            = 108
	TagTestReqID             = 112
	TagOnBehalfOfCompID      = 115
	TagOrigSendingTime       = 122
	TagDeliverToCompID       = 128
	TagResetSeqNumFlag       = 141
	TagExecType              = 150
	TagLeavesQty             = 151
	TagSecurityExchange      = 207
	TagMaxMessageSize        = 383
	TagNextExpectedMsgSeqNum = 789
)

// BeginString is the only protocol version this codec speaks.
const BeginString = "FIX.4.2"

// Field types, named after the FIX data dictionary types.
const (
	TypeString       = "STRING"
	TypeChar         = "CHAR"
	TypeInt          = "INT"
	TypeLength       = "LENGTH"
	TypeSeqNum       = "SEQNUM"
	TypeBoolean      = "BOOLEAN"
	TypeQty          = "QTY"
	TypePrice        = "PRICE"
	TypeUTCTimestamp = "UTCTIMESTAMP"
)

type fieldDef struct {
	tag  int
	name string
	typ  string
}

var fieldDefs = []fieldDef{
	{TagAccount, "Account", TypeString},
	{TagAvgPx, "AvgPx", TypePrice},
	{TagBeginString, "BeginString", TypeString},
	{TagBodyLength, "BodyLength", TypeLength},
	{TagCheckSum, "CheckSum", TypeString},
	{TagClOrdID, "ClOrdID", TypeString},
	{TagCumQty, "CumQty", TypeQty},
	{TagExecID, "ExecID", TypeString},
	{TagExecTransType, "ExecTransType", TypeChar},
	{TagHandlInst, "HandlInst", TypeChar},
	{TagLastPx, "LastPx", TypePrice},
	{TagLastShares, "LastShares", TypeQty},
	{TagMsgSeqNum, "MsgSeqNum", TypeSeqNum},
	{TagMsgType, "MsgType", TypeString},
	{TagOrderID, "OrderID", TypeString},
	{TagOrderQty, "OrderQty", TypeQty},
	{TagOrdStatus, "OrdStatus", TypeChar},
	{TagOrdType, "OrdType", TypeChar},
	{TagOrigClOrdID, "OrigClOrdID", TypeString},
	{TagPossDupFlag, "PossDupFlag", TypeBoolean},
	{TagPrice, "Price", TypePrice},
	{TagSenderCompID, "SenderCompID", TypeString},
	{TagSenderSubID, "SenderSubID", TypeString},
	{TagSendingTime, "SendingTime", TypeUTCTimestamp},
	{TagSide, "Side", TypeChar},
	{TagSymbol, "Symbol", TypeString},
	{TagTargetCompID, "TargetCompID", TypeString},
	{TagTargetSubID, "TargetSubID", TypeString},
	{TagText, "Text", TypeString},
	{TagTimeInForce, "TimeInForce", TypeChar},
	{TagTransactTime, "TransactTime", TypeUTCTimestamp},
	{TagSignature, "Signature", TypeString},
	{TagSignatureLength, "SignatureLength", TypeLength},
	{TagPossResend, "PossResend", TypeBoolean},
	{TagEncryptMethod, "EncryptMethod", TypeInt},
	{TagHeartBtInt, "HeartBtInt", TypeInt},
	{TagTestReqID, "TestReqID", TypeString},
	{TagOnBehalfOfCompID, "OnBehalfOfCompID", TypeString},
	{TagOrigSendingTime, "OrigSendingTime", TypeUTCTimestamp},
	{TagDeliverToCompID, "DeliverToCompID", TypeString},
	{TagResetSeqNumFlag, "ResetSeqNumFlag", TypeBoolean},
	{TagExecType, "ExecType", TypeChar},
	{TagLeavesQty, "LeavesQty", TypeQty},
	{TagSecurityExchange, "SecurityExchange", TypeString},
	{TagMaxMessageSize, "MaxMessageSize", TypeLength},
	{TagNextExpectedMsgSeqNum, "NextExpectedMsgSeqNum", TypeSeqNum},
}

var defsByTag = func() map[int]fieldDef {
	m := make(map[int]fieldDef, len(fieldDefs))
	for _, d := range fieldDefs {
		m[d.tag] = d
	}
	return m
}()

// Serialization layout. The required header comes first, then named fields
// in namedOrder, then custom fields ascending, then trailerOrder.
var (
	headerOrder = []int{TagMsgType, TagSenderCompID, TagTargetCompID, TagMsgSeqNum, TagSendingTime}

	namedOrder = []int{
		TagPossDupFlag, TagPossResend, TagOrigSendingTime,
		TagAccount, TagClOrdID, TagOrigClOrdID, TagOrderID, TagExecID, TagExecTransType, TagExecType,
		TagOrdStatus, TagSymbol, TagSide, TagOrderQty, TagOrdType, TagPrice, TagTimeInForce,
		TagLastShares, TagLastPx, TagLeavesQty, TagCumQty, TagAvgPx, TagText,
		TagTestReqID, TagEncryptMethod, TagHeartBtInt, TagResetSeqNumFlag,
		TagNextExpectedMsgSeqNum, TagMaxMessageSize,
	}

	trailerOrder = []int{TagSignatureLength, TagSignature}
)

var namedSet = func() map[int]bool {
	m := make(map[int]bool, len(namedOrder)+len(trailerOrder))
	for _, t := range namedOrder {
		m[t] = true
	}
	for _, t := range trailerOrder {
		m[t] = true
	}
	return m
}()

// TagName returns the field name for a known tag, or the tag number otherwise.
func TagName(tag int) string {
	if d, ok := defsByTag[tag]; ok {
		return d.name
	}
	return strconv.Itoa(tag)
}

// TagType returns the data type of a known tag, or "" when unknown.
func TagType(tag int) string {
	return defsByTag[tag].typ
}

// KnownTags lists every tag the codec has a name for, ascending.
func KnownTags() []int {
	tags := make([]int, 0, len(fieldDefs))
	for _, d := range fieldDefs {
		tags = append(tags, d.tag)
	}
	slices.Sort(tags)
	return tags
}

// IsNamed reports whether tag has a typed accessor on Message.
func IsNamed(tag int) bool {
	return namedSet[tag]
}

// IsReserved reports whether tag belongs to the framing or the required
// header, which Message manages itself.
func IsReserved(tag int) bool {
	switch tag {
	case TagBeginString, TagBodyLength, TagCheckSum:
		return true
	}
	return slices.Contains(headerOrder, tag)
}

// checkValue validates value for a named tag. Custom tags are never checked.
func checkValue(tag int, value string) error {
	if !namedSet[tag] {
		return nil
	}
	var err error
	switch tag {
	case TagSide:
		_, err = ParseSide(value)
		return err
	case TagOrdStatus:
		_, err = ParseOrdStatus(value)
		return err
	case TagEncryptMethod:
		_, err = ParseEncryptMethod(value)
		return err
	}
	switch defsByTag[tag].typ {
	case TypeInt, TypeLength, TypeSeqNum:
		var n int
		if n, err = strconv.Atoi(value); err == nil && n < 0 {
			err = strconv.ErrRange
		}
	case TypeBoolean:
		if value != "Y" && value != "N" {
			err = strconv.ErrSyntax
		}
	case TypeQty, TypePrice:
		_, err = decimal.NewFromString(value)
	case TypeUTCTimestamp:
		_, err = ParseTimestamp(value)
	case TypeChar:
		if len(value) != 1 {
			err = strconv.ErrSyntax
		}
	}
	if err != nil {
		return fieldError(ErrInvalidValue, tag, value)
	}
	return nil
}
