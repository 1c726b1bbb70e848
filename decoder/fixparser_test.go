// fixParser_test.go
package decoder

import (
	"reflect"
	"testing"

	"github.com/stephenlclarke/fix42/fix"
)

func TestParseFixValidFields(t *testing.T) {
	msg := "8=FIX.4.2\x019=112\x0135=A\x01"
	got := ParseFix(msg)

	want := []fix.Field{
		{Tag: 8, Value: "FIX.4.2"},
		{Tag: 9, Value: "112"},
		{Tag: 35, Value: "A"},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseFix() = %v, want %v", got, want)
	}
}

func TestParseFixNoSOH(t *testing.T) {
	msg := "8=FIX.4.29=11235=A"

	if got := ParseFix(msg); got != nil {
		t.Errorf("Expected nil when no SOH, got %v", got)
	}
}

func TestParseFixEmptyFields(t *testing.T) {
	msg := "\x01\x01\x01" // only delimiters, no data

	got := ParseFix(msg)
	if len(got) != 0 {
		t.Errorf("Expected 0 parsed fields, got %d", len(got))
	}
}

func TestParseFixFieldWithoutEquals(t *testing.T) {
	msg := "8=FIX.4.2\x01BADFIELD\x0135=A\x01"
	got := ParseFix(msg)

	want := []fix.Field{
		{Tag: 8, Value: "FIX.4.2"},
		{Tag: 35, Value: "A"},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected valid fields only, got %v", got)
	}
}

func TestParseFixKeepsEqualsInValue(t *testing.T) {
	got := ParseFix("58=a=b\x01")
	want := []fix.Field{{Tag: 58, Value: "a=b"}}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestParseFixInvalidTagNumber(t *testing.T) {
	msg := "abc=value\x018=FIX.4.2\x01"
	got := ParseFix(msg)

	want := []fix.Field{
		{Tag: 8, Value: "FIX.4.2"},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected valid numeric tags only, got %v", got)
	}
}
