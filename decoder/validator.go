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
package decoder

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stephenlclarke/fix42/fix"
)

var monthYearRe = regexp.MustCompile(`^\d{6}([0-9]{2}|(-[0-9]{1,2})|(-?w[1-5]))?$`)

// ValidateFixMessage lists every problem found in msg. Unlike fix.FromWire
// it does not stop at the first one.
func ValidateFixMessage(msg string, dict *FixTagLookup) []string {
	fields := ParseFix(msg)
	fieldMap, seenTags := buildFieldMap(fields)

	var errs []string

	errs = append(errs, validateFraming(fields)...)
	errs = append(errs, validateDuplicates(fields)...)

	msgTypeErrors, msgDef := validateMsgType(fieldMap, dict)
	errs = append(errs, msgTypeErrors...)
	if msgDef == nil {
		return errs // can't continue without a known MsgType
	}

	errs = append(errs, validateRequiredFields(msgDef.Required, seenTags, dict)...)
	errs = append(errs, validateFieldEnumsAndTypes(fields, dict)...)
	errs = append(errs, validateFieldOrdering(fields, msgDef.FieldOrder)...)
	errs = append(errs, validateBodyLength(msg, fieldMap)...)
	errs = append(errs, validateChecksumField(msg, fieldMap)...)

	if len(errs) == 0 {
		// Anything the codec still refuses is reported as-is.
		if _, err := fix.FromWire(msg); err != nil {
			errs = append(errs, "Decode failed: "+err.Error())
		}
	}

	return errs
}

func buildFieldMap(fields []fix.Field) (map[int]string, map[int]bool) {
	fieldMap := make(map[int]string)
	seenTags := make(map[int]bool)
	for _, fv := range fields {
		if !seenTags[fv.Tag] {
			fieldMap[fv.Tag] = fv.Value
		}
		seenTags[fv.Tag] = true
	}
	return fieldMap, seenTags
}

func validateFraming(fields []fix.Field) []string {
	if len(fields) == 0 || fields[0].Tag != fix.TagBeginString {
		return []string{"Tag 8 (BeginString) must be the first field"}
	}

	var errs []string
	if fields[0].Value != fix.BeginString {
		errs = append(errs, fmt.Sprintf("Unsupported BeginString '%s', expected %s", fields[0].Value, fix.BeginString))
	}
	if len(fields) < 2 || fields[1].Tag != fix.TagBodyLength {
		errs = append(errs, "Tag 9 (BodyLength) must be the second field")
	}
	if fields[len(fields)-1].Tag != fix.TagCheckSum {
		errs = append(errs, "Tag 10 (CheckSum) must be the last field")
	}
	return errs
}

func validateDuplicates(fields []fix.Field) []string {
	seen := make(map[int]bool, len(fields))
	var errs []string
	for _, fv := range fields {
		if seen[fv.Tag] {
			errs = append(errs, fmt.Sprintf("Tag %d repeated", fv.Tag))
		}
		seen[fv.Tag] = true
	}
	return errs
}

func validateMsgType(fieldMap map[int]string, dict *FixTagLookup) ([]string, *MessageDef) {
	msgType, ok := fieldMap[fix.TagMsgType]
	if !ok {
		return []string{"Missing required tag 35 (MsgType)"}, nil
	}
	msgDef, ok := dict.Messages[msgType]
	if !ok {
		return []string{fmt.Sprintf("Unknown MsgType: %s", msgType)}, nil
	}
	return nil, &msgDef
}

func validateRequiredFields(required []int, seenTags map[int]bool, dict *FixTagLookup) []string {
	var errs []string
	for _, tag := range required {
		if !seenTags[tag] {
			errs = append(errs, fmt.Sprintf("Missing required tag %d (%s)", tag, dict.GetFieldName(tag)))
		}
	}
	return errs
}

func validateFieldEnumsAndTypes(fields []fix.Field, dict *FixTagLookup) []string {
	var errs []string
	for _, fv := range fields {
		tag := fv.Tag
		val := fv.Value

		// Enums
		if enumMap, found := dict.enumMap[tag]; found {
			if _, valid := enumMap[val]; !valid {
				errs = append(errs, fmt.Sprintf("Invalid enum value '%s' for tag %d", val, tag))
			}
		}

		// Types
		typ := dict.GetFieldType(tag)
		if typ != "" && !IsValidType(val, typ) {
			errs = append(errs, fmt.Sprintf("Invalid type for tag %d: expected %s, got '%s'", tag, typ, val))
		}
	}
	return errs
}

func validateFieldOrdering(fields []fix.Field, expectedOrder []int) []string {
	orderIndex := make(map[int]int)
	for i, tag := range expectedOrder {
		orderIndex[tag] = i
	}

	var errs []string
	lastIdx := -1
	for _, fv := range fields {
		if idx, ok := orderIndex[fv.Tag]; ok {
			if idx < lastIdx {
				errs = append(errs, fmt.Sprintf("Tag %d out of order", fv.Tag))
			}
			lastIdx = idx
		}
	}
	return errs
}

func validateBodyLength(msg string, fieldMap map[int]string) []string {
	declared, ok := fieldMap[fix.TagBodyLength]
	if !ok {
		return []string{"Missing required body length tag 9"}
	}
	actual := CalculateBodyLength(msg)
	if actual < 0 {
		return nil // reported by the framing and checksum checks
	}
	if declared != strconv.Itoa(actual) {
		return []string{fmt.Sprintf("Body length mismatch: got %s, expected %d", declared, actual)}
	}
	return nil
}

func validateChecksumField(msg string, fieldMap map[int]string) []string {
	checkVal, ok := fieldMap[fix.TagCheckSum]
	if !ok {
		return []string{"Missing required checksum tag 10"}
	}
	expected := fix.FormatChecksum(CalculateChecksum(msg))
	if checkVal != expected {
		return []string{fmt.Sprintf("Checksum mismatch: got %s, expected %s", checkVal, expected)}
	}
	return nil
}

// CalculateChecksum sums msg up to and including the SOH before 10=.
// It returns -1 when there is no 10= field.
func CalculateChecksum(msg string) int {
	cutoff := strings.Index(msg, fix.SOH+"10=")
	if cutoff == -1 {
		// If 10= tag is missing, checksum cannot be validated
		return -1
	}

	return fix.Checksum(msg[:cutoff+1]) // Include the SOH before 10=
}

// CalculateBodyLength counts the bytes between the 9= field and the 10=
// field, or returns -1 when either is missing.
func CalculateBodyLength(msg string) int {
	start := strings.Index(msg, fix.SOH+"9=")
	if start == -1 {
		return -1
	}
	end := strings.Index(msg, fix.SOH+"10=")
	lenEnd := strings.Index(msg[start+1:], fix.SOH)
	if end == -1 || lenEnd == -1 {
		return -1
	}
	bodyStart := start + 1 + lenEnd + 1
	if end+1 < bodyStart {
		return -1
	}
	return end + 1 - bodyStart
}

func IsValidType(val string, typ string) bool {
	switch strings.ToUpper(typ) {
	case "INT", "LENGTH", "NUMINGROUP", "SEQNUM", "DAYOFMONTH":
		_, err := strconv.Atoi(val)
		return err == nil
	case "FLOAT", "QTY", "PRICE", "PRICEOFFSET", "AMT", "PERCENTAGE":
		_, err := decimal.NewFromString(val)
		return err == nil
	case "BOOLEAN":
		return val == "Y" || val == "N"
	case "CHAR":
		return len(val) == 1
	case "STRING", "DATA", "CURRENCY", "EXCHANGE", "COUNTRY", "MULTIPLEVALUESTRING", "MULTIPLESTRINGVALUE":
		return true
	case "UTCTIMESTAMP":
		_, err := fix.ParseTimestamp(val)
		return err == nil
	case "UTCDATEONLY":
		_, err := time.Parse("20060102", val)
		return err == nil
	case "UTCTIMEONLY":
		layouts := []string{"15:04", "15:04:05", "15:04:05.000"}
		for _, layout := range layouts {
			if _, err := time.Parse(layout, val); err == nil {
				return true
			}
		}
		return false
	case "MONTHYEAR":
		return monthYearRe.MatchString(val)
	default:
		return true // assume valid for unknown/custom types
	}
}
