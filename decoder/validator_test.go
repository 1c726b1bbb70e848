package decoder

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stephenlclarke/fix42/fix"
)

// frame wraps body fields with a correct BodyLength and CheckSum.
func frame(begin string, body ...string) string {
	b := strings.Join(body, "\x01") + "\x01"
	head := "8=" + begin + "\x01" + fmt.Sprintf("9=%d", len(b)) + "\x01" + b
	return head + "10=" + fmt.Sprintf("%03d", CalculateChecksum(head+"10=")) + "\x01"
}

var heartbeatHeader = []string{"35=0", "49=A", "56=B", "34=1", "52=20240101-00:00:00.000"}

func TestCalculateChecksum(t *testing.T) {
	input := "8=FIX.4.4\x019=12\x0135=A\x0110=099\x01"
	expected := 226
	got := CalculateChecksum(input)

	if got != expected {
		t.Errorf("Expected checksum %d, got %d", expected, got)
	}
}

func TestCalculateChecksumMissingTag(t *testing.T) {
	input := "8=FIX.4.4\x019=12\x0135=A\x01"
	got := CalculateChecksum(input)

	if got != -1 {
		t.Errorf("Expected checksum -1 for missing tag, got %d", got)
	}
}

func TestCalculateBodyLength(t *testing.T) {
	if got := CalculateBodyLength("8=FIX.4.2\x019=5\x0135=0\x0110=000\x01"); got != 5 {
		t.Errorf("Expected 5, got %d", got)
	}
	if got := CalculateBodyLength("8=FIX.4.2\x0135=0\x01"); got != -1 {
		t.Errorf("Expected -1 without tag 9, got %d", got)
	}
}

func TestIsValidTypeInt(t *testing.T) {
	valid := IsValidType("123", "INT")
	invalid := IsValidType("abc", "INT")

	if !valid || invalid {
		t.Errorf("INT validation failed")
	}
}

func TestIsValidTypeChar(t *testing.T) {
	valid := IsValidType("X", "CHAR")
	invalid := IsValidType("XY", "CHAR")

	if !valid || invalid {
		t.Errorf("CHAR validation failed")
	}
}

func TestIsValidTypeBoolean(t *testing.T) {
	cases := map[string]bool{
		"Y": true, "N": true, "X": false, "": false,
	}

	for input, expected := range cases {
		got := IsValidType(input, "BOOLEAN")

		if got != expected {
			t.Errorf("BOOLEAN type test failed for %q: expected %v", input, expected)
		}
	}
}

func TestIsValidTypeUTCTimestamp(t *testing.T) {
	valid1 := IsValidType("20230703-15:04:05", "UTCTIMESTAMP")
	valid2 := IsValidType("20230703-15:04:05.000", "UTCTIMESTAMP")
	leap := IsValidType("20161231-23:59:60", "UTCTIMESTAMP")
	invalid := IsValidType("invalid", "UTCTIMESTAMP")

	if !valid1 || !valid2 || !leap || invalid {
		t.Errorf("UTCTIMESTAMP validation failed")
	}
}

func TestIsValidTypeMonthYear(t *testing.T) {
	cases := map[string]bool{
		"202407":    true,
		"202407-w2": true,
		"20240709":  true,
		"07-2024":   false,
	}
	for input, expected := range cases {
		got := IsValidType(input, "MONTHYEAR")
		if got != expected {
			t.Errorf("MONTHYEAR test failed for %q: expected %v", input, expected)
		}
	}
}

func TestIsValidTypeGeneric(t *testing.T) {
	if !IsValidType("anything", "STRING") {
		t.Error("Expected STRING to be valid")
	}
	if !IsValidType("anything", "UNKNOWN_CUSTOM_TYPE") {
		t.Error("Expected unknown/custom types to be assumed valid")
	}
}

func TestIsValidTypeFloatVariants(t *testing.T) {
	validInputs := []string{"123.45", "0", "-999.99"}
	invalidInputs := []string{"abc", "", "12.34.56"}

	types := []string{"FLOAT", "QTY", "PRICE", "PRICEOFFSET", "AMT", "PERCENTAGE"}

	for _, typ := range types {
		for _, val := range validInputs {
			if !IsValidType(val, typ) {
				t.Errorf("Expected %q to be valid for type %s", val, typ)
			}
		}
		for _, val := range invalidInputs {
			if IsValidType(val, typ) {
				t.Errorf("Expected %q to be invalid for type %s", val, typ)
			}
		}
	}
}

func TestIsValidTypeUTCDATEONLY(t *testing.T) {
	if !IsValidType("20250704", "UTCDATEONLY") {
		t.Error("Expected valid UTCDATEONLY format to pass")
	}
	if IsValidType("07-04-2025", "UTCDATEONLY") {
		t.Error("Expected invalid UTCDATEONLY format to fail")
	}
}

func TestIsValidTypeUTCTIMEONLY(t *testing.T) {
	valid := []string{"15:04", "15:04:05", "15:04:05.000"}
	invalid := []string{"3:04PM", "15:04:60", "invalid"}

	for _, v := range valid {
		if !IsValidType(v, "UTCTIMEONLY") {
			t.Errorf("Expected valid UTCTIMEONLY format: %s", v)
		}
	}
	for _, v := range invalid {
		if IsValidType(v, "UTCTIMEONLY") {
			t.Errorf("Expected invalid UTCTIMEONLY format to fail: %s", v)
		}
	}
}

func TestValidateFixMessageValidMessage(t *testing.T) {
	m, err := fix.NewBuilder(fix.NewOrderSingle, "BUY", "SELL", 2).
		ClOrdID("ORDER123").
		Field(fix.TagHandlInst, "1").
		Symbol("AAPL").
		Side(fix.Buy).
		Field(fix.TagTransactTime, "20240101-00:00:00.000").
		OrdType("2").
		Price(decimal.RequireFromString("10.5")).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	errors := ValidateFixMessage(m.ToWire(), newBuiltinLookup())

	if len(errors) > 0 {
		t.Errorf("Expected no errors, got: %v", errors)
	}
}

func TestValidateFixMessageMissingRequiredField(t *testing.T) {
	msg := frame("FIX.4.2", "35=A", "49=A", "56=B", "34=1", "52=20240101-00:00:00.000", "98=0")

	errors := ValidateFixMessage(msg, newBuiltinLookup())
	expected := "Missing required tag 108 (HeartBtInt)"

	if !slices.Contains(errors, expected) {
		t.Errorf("Expected error %q, got: %v", expected, errors)
	}
}

func TestValidateFixMessageInvalidEnum(t *testing.T) {
	msg := frame("FIX.4.2", append(heartbeatHeader, "54=X")...)

	errors := ValidateFixMessage(msg, newBuiltinLookup())
	expected := "Invalid enum value 'X' for tag 54"

	if !slices.Contains(errors, expected) {
		t.Errorf("Expected error %q, got: %v", expected, errors)
	}
}

func TestValidateFixMessageInvalidType(t *testing.T) {
	msg := frame("FIX.4.2", append(heartbeatHeader, "108=abc")...)

	errors := ValidateFixMessage(msg, newBuiltinLookup())
	expected := "Invalid type for tag 108: expected INT, got 'abc'"

	if !slices.Contains(errors, expected) {
		t.Errorf("Expected error %q, got: %v", expected, errors)
	}
}

func TestValidateFixMessageTagOutOfOrder(t *testing.T) {
	msg := frame("FIX.4.2", "35=0", "56=B", "49=A", "34=1", "52=20240101-00:00:00.000")

	errors := ValidateFixMessage(msg, newBuiltinLookup())
	expected := "Tag 49 out of order"

	if !slices.Contains(errors, expected) {
		t.Errorf("Expected error %q, got: %v", expected, errors)
	}
}

func TestValidateFixMessageWrongVersion(t *testing.T) {
	msg := frame("FIX.4.4", heartbeatHeader...)

	errors := ValidateFixMessage(msg, newBuiltinLookup())
	expected := "Unsupported BeginString 'FIX.4.4', expected FIX.4.2"

	if !slices.Contains(errors, expected) {
		t.Errorf("Expected error %q, got: %v", expected, errors)
	}
}

func TestValidateFixMessageRepeatedTag(t *testing.T) {
	msg := frame("FIX.4.2", append(heartbeatHeader, "58=a", "58=b")...)

	errors := ValidateFixMessage(msg, newBuiltinLookup())
	if !slices.Contains(errors, "Tag 58 repeated") {
		t.Errorf("Expected repeated tag error, got: %v", errors)
	}
}

func TestValidateFixMessageBodyLengthMismatch(t *testing.T) {
	good := frame("FIX.4.2", heartbeatHeader...)
	bad := strings.Replace(good, "9=45", "9=44", 1)
	bad = bad[:strings.LastIndex(bad, "10=")] + "10=" + fmt.Sprintf("%03d", CalculateChecksum(bad)) + "\x01"

	errors := ValidateFixMessage(bad, newBuiltinLookup())
	expected := "Body length mismatch: got 44, expected 45"

	if !slices.Contains(errors, expected) {
		t.Errorf("Expected error %q, got: %v", expected, errors)
	}
}

func TestValidateFixMessageReportsCodecRejection(t *testing.T) {
	msg := frame("FIX.4.2", "35=0", "49=A", "56=B", "34=-4", "52=20240101-00:00:00.000")

	errors := ValidateFixMessage(msg, newBuiltinLookup())
	if len(errors) != 1 || !strings.HasPrefix(errors[0], "Decode failed: invalid field value") {
		t.Errorf("Expected a single codec rejection, got: %v", errors)
	}
}

func TestValidateFieldEnumsAndTypesInvalidEnum(t *testing.T) {
	fields := []fix.Field{
		{Tag: 54, Value: "X"}, // Invalid enum for tag 54
	}

	errors := validateFieldEnumsAndTypes(fields, newBuiltinLookup())
	expected := "Invalid enum value 'X' for tag 54"

	if len(errors) == 0 || errors[0] != expected {
		t.Errorf("Expected error %q, got: %v", expected, errors)
	}
}

func TestValidateChecksumFieldMissingTag10(t *testing.T) {
	msg := "8=FIX.4.2\x019=23\x0135=A\x0111=ORDER123\x0154=1\x01"
	fieldMap := map[int]string{
		8:  "FIX.4.2",
		9:  "23",
		35: "A",
		11: "ORDER123",
		54: "1",
		// tag 10 deliberately omitted
	}

	errors := validateChecksumField(msg, fieldMap)

	expected := "Missing required checksum tag 10"
	if len(errors) != 1 || errors[0] != expected {
		t.Errorf("Expected error %q, got: %v", expected, errors)
	}
}

func TestValidateChecksumFieldMismatch(t *testing.T) {
	msg := "8=FIX.4.2\x019=5\x0135=A\x0110=000\x01"
	fieldMap := map[int]string{
		10: "000", // Invalid checksum value on purpose
	}

	errs := validateChecksumField(msg, fieldMap)

	if len(errs) != 1 {
		t.Fatalf("Expected 1 error, got %d", len(errs))
	}
	expected := fmt.Sprintf("%03d", CalculateChecksum(msg))
	expectedMsg := fmt.Sprintf("Checksum mismatch: got 000, expected %s", expected)
	if errs[0] != expectedMsg {
		t.Errorf("Unexpected error message:\nGot:  %s\nWant: %s", errs[0], expectedMsg)
	}
}

func TestValidateFixMessageMissingMsgType(t *testing.T) {
	msg := frame("FIX.4.2", "49=A", "56=B")
	errors := ValidateFixMessage(msg, newBuiltinLookup())
	expected := "Missing required tag 35 (MsgType)"

	if len(errors) != 1 || errors[0] != expected {
		t.Errorf("Expected error %q, got: %v", expected, errors)
	}
}

func TestValidateMsgTypeUnknownType(t *testing.T) {
	fieldMap := map[int]string{
		35: "Z", // Unknown message type
	}
	dict := &FixTagLookup{
		Messages: map[string]MessageDef{
			"D": {MsgType: "D"},
		},
	}

	errs, def := validateMsgType(fieldMap, dict)

	if len(errs) != 1 {
		t.Fatalf("Expected 1 error, got %d", len(errs))
	}
	if errs[0] != "Unknown MsgType: Z" {
		t.Errorf("Unexpected error message: %s", errs[0])
	}
	if def != nil {
		t.Errorf("Expected nil MessageDef, got %+v", def)
	}
}
