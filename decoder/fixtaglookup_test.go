package decoder

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stephenlclarke/fix42/fix"
)

const sampleXML = `
<fix>
  <fields>
    <field name="TestField" number="1000">
      <value enum="A" description="Alpha"/>
      <value enum="B" description="Beta"/>
    </field>
    <field name="NotSymbol" number="55" type="STRING"/>
  </fields>
  <messages>
    <message name="Allocation" msgtype="J" />
  </messages>
</fix>`

func TestParseDictionary(t *testing.T) {
	d, err := parseDictionary(sampleXML)

	if err != nil {
		t.Fatalf("parseDictionary failed: %v", err)
	}

	if got := d.GetFieldName(1000); got != "TestField" {
		t.Errorf("GetFieldName(1000) = %s, want TestField", got)
	}

	if got := d.GetEnumDescription(1000, "A"); got != "Alpha" {
		t.Errorf("GetEnumDescription(1000, A) = %s, want Alpha", got)
	}

	if got := d.enumMap[35]["J"]; got != "Allocation" {
		t.Errorf("MsgType J = %s, want Allocation", got)
	}
}

func TestParseDictionaryLatin1(t *testing.T) {
	xmlData := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		"<fix><fields><field name=\"Caf\xe9\" number=\"5001\"/></fields></fix>"

	d, err := parseDictionary(xmlData)
	if err != nil {
		t.Fatalf("parseDictionary failed: %v", err)
	}
	if got := d.GetFieldName(5001); got != "Café" {
		t.Errorf("Expected Café, got %q", got)
	}
}

func TestBuiltinLookup(t *testing.T) {
	d := newBuiltinLookup()

	if got := d.GetFieldName(fix.TagClOrdID); got != "ClOrdID" {
		t.Errorf("Expected ClOrdID, got %s", got)
	}
	if got := d.GetEnumDescription(fix.TagSide, "1"); got != "Buy" {
		t.Errorf("Expected Buy, got %q", got)
	}
	if got := d.GetEnumDescription(fix.TagMsgType, "D"); got != "NewOrderSingle" {
		t.Errorf("Expected NewOrderSingle, got %q", got)
	}
	if got := d.GetFieldType(fix.TagPrice); got != fix.TypePrice {
		t.Errorf("Expected PRICE, got %q", got)
	}

	def, ok := d.Messages["A"]
	if !ok {
		t.Fatal("Expected a Logon definition")
	}
	if !slices.Contains(def.Required, fix.TagHeartBtInt) || !slices.Contains(def.Required, fix.TagCheckSum) {
		t.Errorf("Logon required tags incomplete: %v", def.Required)
	}
	if len(d.Messages) != len(fix.MsgTypes()) {
		t.Errorf("Expected %d message definitions, got %d", len(fix.MsgTypes()), len(d.Messages))
	}
}

func TestLoadDictionaryFileExtendsBuiltin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "FIX42.xml")
	if err := os.WriteFile(path, []byte(sampleXML), 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := LoadDictionaryFile(path)
	if err != nil {
		t.Fatalf("LoadDictionaryFile: %v", err)
	}

	if got := d.GetFieldName(1000); got != "TestField" {
		t.Errorf("Expected external name, got %s", got)
	}
	if got := d.GetFieldName(55); got != "Symbol" {
		t.Errorf("Built-in name should win, got %s", got)
	}
	if got := d.GetEnumDescription(35, "J"); got != "Allocation" {
		t.Errorf("Expected Allocation, got %q", got)
	}
	if d.GetFieldType(1000) != "" {
		t.Error("External dictionary must not contribute types")
	}
	if _, ok := d.Messages["J"]; ok {
		t.Error("External dictionary must not contribute message definitions")
	}
}

func TestLoadDictionaryFileErrors(t *testing.T) {
	if _, err := LoadDictionaryFile(filepath.Join(t.TempDir(), "missing.xml")); err == nil {
		t.Error("Expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.xml")
	_ = os.WriteFile(path, []byte("<invalid><xml>"), 0o644)
	if _, err := LoadDictionaryFile(path); err == nil {
		t.Error("Expected error for malformed XML")
	}
}

func TestSetDictionary(t *testing.T) {
	mock := &FixTagLookup{tagToName: map[int]string{11: "MockClOrdID"}}
	SetDictionary(mock)
	t.Cleanup(func() { SetDictionary(nil) })

	if got := FieldName(11); got != "MockClOrdID" {
		t.Errorf("Expected active dictionary to be used, got %s", got)
	}

	SetDictionary(nil)
	if got := FieldName(11); got != "ClOrdID" {
		t.Errorf("Expected built-in after reset, got %s", got)
	}
	if got := EnumDescription(39, "2"); got != "Filled" {
		t.Errorf("Expected Filled, got %q", got)
	}
}

func TestMergeLookups(t *testing.T) {
	dst := &FixTagLookup{
		tagToName: map[int]string{1: "A"},
		enumMap:   map[int]map[string]string{1: {"A": "Alpha"}},
	}

	src := &FixTagLookup{
		tagToName: map[int]string{1: "Z", 2: "B"},
		enumMap:   map[int]map[string]string{2: {"B": "Beta"}},
	}

	mergeLookups(dst, src)

	if dst.tagToName[2] != "B" {
		t.Error("mergeLookups failed to add tag name")
	}
	if dst.tagToName[1] != "A" {
		t.Error("mergeLookups overwrote an existing name")
	}
	if dst.enumMap[2]["B"] != "Beta" {
		t.Error("mergeLookups failed to add enum description")
	}
}

func TestFixTagLookupGetFieldName(t *testing.T) {
	d := &FixTagLookup{tagToName: map[int]string{55: "Symbol"}}

	if d.GetFieldName(55) != "Symbol" {
		t.Error("GetFieldName failed for known tag")
	}

	if d.GetFieldName(9999) != "9999" {
		t.Error("GetFieldName fallback failed")
	}
}

func TestFixTagLookupGetEnumDescription(t *testing.T) {
	d := &FixTagLookup{
		enumMap: map[int]map[string]string{
			40: {"1": "Market", "2": "Limit"},
		},
	}

	if got := d.GetEnumDescription(40, "2"); got != "Limit" {
		t.Errorf("unexpected enum desc: %s", got)
	}

	if got := d.GetEnumDescription(40, "999"); got != "" {
		t.Error("expected empty string for missing enum")
	}

	if got := d.GetEnumDescription(999, "1"); got != "" {
		t.Error("expected empty string for missing tag")
	}
}

func TestParseDictionaryInvalidXML(t *testing.T) {
	_, err := parseDictionary("<invalid><xml>")

	if err == nil {
		t.Error("Expected error for malformed XML, got nil")
	}
}

func TestParseDictionaryValuesWrapper(t *testing.T) {
	xml := `
	<fix>
	  <fields>
	    <field name="TestField" number="1001">
	      <values>
	        <value enum="X" description="Extra"/>
	      </values>
	    </field>
	  </fields>
	</fix>`

	d, err := parseDictionary(xml)
	if err != nil {
		t.Fatalf("parseDictionary failed: %v", err)
	}

	got := d.GetEnumDescription(1001, "X")
	if got != "Extra" {
		t.Errorf("Expected enum description 'Extra', got %q", got)
	}
}

func TestMergeLookupsNil(t *testing.T) {
	mergeLookups(nil, nil)             // no panic
	mergeLookups(&FixTagLookup{}, nil) // no panic
	mergeLookups(nil, &FixTagLookup{}) // no panic
}

func TestLookupTagsSorted(t *testing.T) {
	tags := newBuiltinLookup().Tags()
	if !slices.IsSorted(tags) || len(tags) != len(fix.KnownTags()) {
		t.Errorf("Unexpected tag list %v", tags)
	}
}

func TestHasTagAndEnumCodes(t *testing.T) {
	d := newBuiltinLookup()
	if !d.HasTag(fix.TagSide) || d.HasTag(99999) {
		t.Error("HasTag reports wrong membership")
	}
	if got := d.GetFieldName(99999); got != "99999" {
		t.Errorf("Expected unknown tag rendered as its number, got %q", got)
	}

	codes := d.EnumCodes(fix.TagSide)
	if len(codes) != len(fix.Sides()) || codes[0] != "1" || !slices.IsSorted(codes) {
		t.Errorf("Unexpected Side codes %v", codes)
	}
	if len(d.EnumCodes(fix.TagSymbol)) != 0 {
		t.Error("Symbol has no enum codes")
	}
}
