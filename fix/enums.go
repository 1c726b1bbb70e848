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

import "fmt"

type codeEntry struct {
	code string
	name string
}

// codeTable maps a closed set of enum variants to their wire codes.
// Variant i owns entries[i]; newCodeTable panics on a missing or duplicate
// code so an incomplete table never survives package initialisation.
type codeTable[T ~uint8] struct {
	kind    string
	tag     int
	entries []codeEntry
	byCode  map[string]T
}

func newCodeTable[T ~uint8](kind string, tag, count int, entries []codeEntry) *codeTable[T] {
	if len(entries) != count {
		panic(fmt.Sprintf("fix: %s table has %d codes for %d variants", kind, len(entries), count))
	}
	t := &codeTable[T]{
		kind:    kind,
		tag:     tag,
		entries: entries,
		byCode:  make(map[string]T, len(entries)),
	}
	for i, e := range entries {
		if e.code == "" || e.name == "" {
			panic(fmt.Sprintf("fix: %s variant %d has no code", kind, i))
		}
		if prev, dup := t.byCode[e.code]; dup {
			panic(fmt.Sprintf("fix: %s code %q used by variants %d and %d", kind, e.code, prev, i))
		}
		t.byCode[e.code] = T(i)
	}
	return t
}

func (t *codeTable[T]) parse(code string) (T, error) {
	if v, ok := t.byCode[code]; ok {
		return v, nil
	}
	return 0, fieldError(ErrUnknownCode, t.tag, code)
}

func (t *codeTable[T]) valid(v T) bool {
	return int(v) < len(t.entries)
}

func (t *codeTable[T]) code(v T) string {
	if !t.valid(v) {
		return fmt.Sprintf("%s(%d)", t.kind, uint8(v))
	}
	return t.entries[v].code
}

func (t *codeTable[T]) name(v T) string {
	if !t.valid(v) {
		return fmt.Sprintf("%s(%d)", t.kind, uint8(v))
	}
	return t.entries[v].name
}

func (t *codeTable[T]) describe(code string) (string, bool) {
	v, ok := t.byCode[code]
	if !ok {
		return "", false
	}
	return t.entries[v].name, true
}

func (t *codeTable[T]) all() []T {
	out := make([]T, len(t.entries))
	for i := range t.entries {
		out[i] = T(i)
	}
	return out
}

// MsgType is the FIX 4.2 MsgType(35) code.
type MsgType uint8

const (
	Heartbeat MsgType = iota
	TestRequest
	ResendRequest
	Reject
	SequenceReset
	Logout
	ExecutionReport
	OrderCancelReject
	Logon
	NewOrderSingle
	OrderCancelRequest
	OrderCancelReplaceRequest
	OrderStatusRequest
	MarketDataRequest
	MarketDataSnapshot
	MarketDataIncrementalRefresh
	MarketDataRequestReject
	BusinessMessageReject
	msgTypeCount
)

var msgTypes = newCodeTable[MsgType]("MsgType", TagMsgType, int(msgTypeCount), []codeEntry{
	Heartbeat:                    {"0", "Heartbeat"},
	TestRequest:                  {"1", "TestRequest"},
	ResendRequest:                {"2", "ResendRequest"},
	Reject:                       {"3", "Reject"},
	SequenceReset:                {"4", "SequenceReset"},
	Logout:                       {"5", "Logout"},
	ExecutionReport:              {"8", "ExecutionReport"},
	OrderCancelReject:            {"9", "OrderCancelReject"},
	Logon:                        {"A", "Logon"},
	NewOrderSingle:               {"D", "NewOrderSingle"},
	OrderCancelRequest:           {"F", "OrderCancelRequest"},
	OrderCancelReplaceRequest:    {"G", "OrderCancelReplaceRequest"},
	OrderStatusRequest:           {"H", "OrderStatusRequest"},
	MarketDataRequest:            {"V", "MarketDataRequest"},
	MarketDataSnapshot:           {"W", "MarketDataSnapshotFullRefresh"},
	MarketDataIncrementalRefresh: {"X", "MarketDataIncrementalRefresh"},
	MarketDataRequestReject:      {"Y", "MarketDataRequestReject"},
	BusinessMessageReject:        {"j", "BusinessMessageReject"},
})

// ParseMsgType returns the MsgType for a wire code or ErrUnknownCode.
func ParseMsgType(code string) (MsgType, error) { return msgTypes.parse(code) }

// String returns the wire code.
func (m MsgType) String() string { return msgTypes.code(m) }
func (m MsgType) Name() string   { return msgTypes.name(m) }
func (m MsgType) IsValid() bool  { return msgTypes.valid(m) }

// MsgTypes lists every modeled message type.
func MsgTypes() []MsgType { return msgTypes.all() }

// Side is the FIX 4.2 Side(54) code.
type Side uint8

const (
	Buy Side = iota
	Sell
	BuyMinus
	SellPlus
	SellShort
	SellShortExempt
	Undisclosed
	Cross
	CrossShort
	sideCount
)

var sides = newCodeTable[Side]("Side", TagSide, int(sideCount), []codeEntry{
	Buy:             {"1", "Buy"},
	Sell:            {"2", "Sell"},
	BuyMinus:        {"3", "BuyMinus"},
	SellPlus:        {"4", "SellPlus"},
	SellShort:       {"5", "SellShort"},
	SellShortExempt: {"6", "SellShortExempt"},
	Undisclosed:     {"7", "Undisclosed"},
	Cross:           {"8", "Cross"},
	CrossShort:      {"9", "CrossShort"},
})

func ParseSide(code string) (Side, error) { return sides.parse(code) }

func (s Side) String() string { return sides.code(s) }
func (s Side) Name() string   { return sides.name(s) }
func (s Side) IsValid() bool  { return sides.valid(s) }

func Sides() []Side { return sides.all() }

// OrdStatus is the FIX 4.2 OrdStatus(39) code.
type OrdStatus uint8

const (
	StatusNew OrdStatus = iota
	StatusPartiallyFilled
	StatusFilled
	StatusDoneForDay
	StatusCanceled
	StatusReplaced
	StatusPendingCancel
	StatusStopped
	StatusRejected
	StatusSuspended
	StatusPendingNew
	StatusCalculated
	StatusExpired
	StatusAcceptedForBidding
	StatusPendingReplace
	ordStatusCount
)

var ordStatuses = newCodeTable[OrdStatus]("OrdStatus", TagOrdStatus, int(ordStatusCount), []codeEntry{
	StatusNew:                {"0", "New"},
	StatusPartiallyFilled:    {"1", "PartiallyFilled"},
	StatusFilled:             {"2", "Filled"},
	StatusDoneForDay:         {"3", "DoneForDay"},
	StatusCanceled:           {"4", "Canceled"},
	StatusReplaced:           {"5", "Replaced"},
	StatusPendingCancel:      {"6", "PendingCancel"},
	StatusStopped:            {"7", "Stopped"},
	StatusRejected:           {"8", "Rejected"},
	StatusSuspended:          {"9", "Suspended"},
	StatusPendingNew:         {"A", "PendingNew"},
	StatusCalculated:         {"B", "Calculated"},
	StatusExpired:            {"C", "Expired"},
	StatusAcceptedForBidding: {"D", "AcceptedForBidding"},
	StatusPendingReplace:     {"E", "PendingReplace"},
})

func ParseOrdStatus(code string) (OrdStatus, error) { return ordStatuses.parse(code) }

func (s OrdStatus) String() string { return ordStatuses.code(s) }
func (s OrdStatus) Name() string   { return ordStatuses.name(s) }
func (s OrdStatus) IsValid() bool  { return ordStatuses.valid(s) }

func OrdStatuses() []OrdStatus { return ordStatuses.all() }

// EncryptMethod is the Logon EncryptMethod(98) code.
type EncryptMethod uint8

const (
	EncryptNone EncryptMethod = iota
	EncryptPKCS
	EncryptDES
	EncryptPKCSAndDES
	EncryptPGPAndDES
	EncryptPGPAndMD5
	EncryptPEMAndMD5
	encryptMethodCount
)

var encryptMethods = newCodeTable[EncryptMethod]("EncryptMethod", TagEncryptMethod, int(encryptMethodCount), []codeEntry{
	EncryptNone:       {"0", "None"},
	EncryptPKCS:       {"1", "PKCS"},
	EncryptDES:        {"2", "DES"},
	EncryptPKCSAndDES: {"3", "PKCSAndDES"},
	EncryptPGPAndDES:  {"4", "PGPAndDES"},
	EncryptPGPAndMD5:  {"5", "PGPAndMD5"},
	EncryptPEMAndMD5:  {"6", "PEMAndMD5"},
})

func ParseEncryptMethod(code string) (EncryptMethod, error) { return encryptMethods.parse(code) }

func (e EncryptMethod) String() string { return encryptMethods.code(e) }
func (e EncryptMethod) Name() string   { return encryptMethods.name(e) }
func (e EncryptMethod) IsValid() bool  { return encryptMethods.valid(e) }

func EncryptMethods() []EncryptMethod { return encryptMethods.all() }

// DescribeCode returns the variant name for a code of an enum-valued tag.
func DescribeCode(tag int, code string) (string, bool) {
	switch tag {
	case TagMsgType:
		return msgTypes.describe(code)
	case TagSide:
		return sides.describe(code)
	case TagOrdStatus:
		return ordStatuses.describe(code)
	case TagEncryptMethod:
		return encryptMethods.describe(code)
	}
	return "", false
}
