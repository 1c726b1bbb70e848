// fixtaglookup.go
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
	"encoding/xml"
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/stephenlclarke/fix42/fix"
	"golang.org/x/net/html/charset"
)

type rawFix struct {
	Fields []struct {
		XMLName xml.Name `xml:"field"`
		Name    string   `xml:"name,attr"`
		Tag     int      `xml:"number,attr"`
		Type    string   `xml:"type,attr"`

		Values []struct {
			Enum        string `xml:"enum,attr"`
			Description string `xml:"description,attr"`
		} `xml:"value"`

		ValuesWrapper []struct {
			Enum        string `xml:"enum,attr"`
			Description string `xml:"description,attr"`
		} `xml:"values>value"`
	} `xml:"fields>field"`

	Messages []struct {
		XMLName xml.Name `xml:"message"`
		Name    string   `xml:"name,attr"`
		MsgType string   `xml:"msgtype,attr"`
	} `xml:"messages>message"`
}

type MessageDef struct {
	Name       string
	MsgType    string
	FieldOrder []int
	Required   []int
}

// FixTagLookup names tags and enum codes for display and drives validation.
// Types and message definitions only ever come from the codec; an external
// dictionary contributes names.
type FixTagLookup struct {
	tagToName  map[int]string
	enumMap    map[int]map[string]string
	fieldTypes map[int]string
	Messages   map[string]MessageDef
}

var standardHeader = []int{
	fix.TagBeginString, fix.TagBodyLength, fix.TagMsgType,
	fix.TagSenderCompID, fix.TagTargetCompID, fix.TagMsgSeqNum, fix.TagSendingTime,
}

// Body fields FIX 4.2 marks required for the modeled message types.
var requiredBody = map[fix.MsgType][]int{
	fix.TestRequest:               {fix.TagTestReqID},
	fix.Logon:                     {fix.TagEncryptMethod, fix.TagHeartBtInt},
	fix.NewOrderSingle:            {fix.TagClOrdID, fix.TagHandlInst, fix.TagSymbol, fix.TagSide, fix.TagTransactTime, fix.TagOrdType},
	fix.OrderCancelRequest:        {fix.TagOrigClOrdID, fix.TagClOrdID, fix.TagSymbol, fix.TagSide, fix.TagTransactTime},
	fix.OrderCancelReplaceRequest: {fix.TagOrigClOrdID, fix.TagClOrdID, fix.TagHandlInst, fix.TagSymbol, fix.TagSide, fix.TagTransactTime, fix.TagOrdType},
	fix.OrderStatusRequest:        {fix.TagClOrdID, fix.TagSymbol, fix.TagSide},
	fix.ExecutionReport: {
		fix.TagOrderID, fix.TagExecID, fix.TagExecTransType, fix.TagExecType, fix.TagOrdStatus,
		fix.TagSymbol, fix.TagSide, fix.TagLeavesQty, fix.TagCumQty, fix.TagAvgPx,
	},
}

func newBuiltinLookup() *FixTagLookup {
	tags := fix.KnownTags()
	d := &FixTagLookup{
		tagToName:  make(map[int]string, len(tags)),
		enumMap:    make(map[int]map[string]string),
		fieldTypes: make(map[int]string, len(tags)),
		Messages:   make(map[string]MessageDef),
	}

	for _, tag := range tags {
		d.tagToName[tag] = fix.TagName(tag)
		d.fieldTypes[tag] = fix.TagType(tag)
	}

	for _, mt := range fix.MsgTypes() {
		addEnum(d, fix.TagMsgType, mt.String(), mt.Name())

		required := append([]int{}, standardHeader...)
		required = append(required, requiredBody[mt]...)
		required = append(required, fix.TagCheckSum)

		d.Messages[mt.String()] = MessageDef{
			Name:       mt.Name(),
			MsgType:    mt.String(),
			FieldOrder: standardHeader,
			Required:   required,
		}
	}
	for _, s := range fix.Sides() {
		addEnum(d, fix.TagSide, s.String(), s.Name())
	}
	for _, s := range fix.OrdStatuses() {
		addEnum(d, fix.TagOrdStatus, s.String(), s.Name())
	}
	for _, e := range fix.EncryptMethods() {
		addEnum(d, fix.TagEncryptMethod, e.String(), e.Name())
	}

	return d
}

func addEnum(d *FixTagLookup, tag int, code, desc string) {
	if _, ok := d.enumMap[tag]; !ok {
		d.enumMap[tag] = make(map[string]string)
	}
	d.enumMap[tag][code] = desc
}

// parseDictionary reads a QuickFIX-style XML data dictionary. The XML
// declaration may name any charset x/net knows about.
func parseDictionary(xmlData string) (*FixTagLookup, error) {
	dec := xml.NewDecoder(strings.NewReader(xmlData))
	dec.CharsetReader = charset.NewReaderLabel

	var raw rawFix
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}

	d := &FixTagLookup{
		tagToName:  make(map[int]string, len(raw.Fields)),
		enumMap:    make(map[int]map[string]string, len(raw.Fields)),
		fieldTypes: make(map[int]string, len(raw.Fields)),
		Messages:   make(map[string]MessageDef),
	}

	for _, f := range raw.Fields {
		d.tagToName[f.Tag] = f.Name
		d.fieldTypes[f.Tag] = f.Type

		for _, v := range f.Values {
			addEnum(d, f.Tag, v.Enum, v.Description)
		}
		for _, v := range f.ValuesWrapper {
			addEnum(d, f.Tag, v.Enum, v.Description)
		}
	}

	for _, msg := range raw.Messages {
		addEnum(d, fix.TagMsgType, msg.MsgType, msg.Name)
	}

	return d, nil
}

// mergeLookups grafts tags/enums from src into dst without overwriting.
func mergeLookups(dst, src *FixTagLookup) {
	if dst == nil || src == nil {
		return
	}

	for tag, name := range src.tagToName {
		if _, exists := dst.tagToName[tag]; !exists {
			dst.tagToName[tag] = name
		}
	}

	for tag, enumSrc := range src.enumMap {
		if _, ok := dst.enumMap[tag]; !ok {
			dst.enumMap[tag] = make(map[string]string, len(enumSrc))
		}

		for v, desc := range enumSrc {
			if _, ok := dst.enumMap[tag][v]; !ok {
				dst.enumMap[tag][v] = desc
			}
		}
	}
}

var (
	builtinOnce sync.Once
	builtin     *FixTagLookup

	active  *FixTagLookup // nil selects the built-in lookup
	dictMux sync.RWMutex  // guards active
)

/* ---------- PUBLIC API ---------- */

// LoadDictionaryFile returns the built-in lookup extended with the names in
// an XML dictionary file. Built-in names win on conflict.
func LoadDictionaryFile(path string) (*FixTagLookup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	ext, err := parseDictionary(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse dictionary %s: %w", path, err)
	}

	d := newBuiltinLookup()
	mergeLookups(d, ext)
	return d, nil
}

// SetDictionary replaces the lookup used by Prettify and validation.
// Passing nil restores the built-in lookup.
func SetDictionary(d *FixTagLookup) {
	dictMux.Lock()
	active = d
	dictMux.Unlock()
}

// LoadDictionary returns the lookup in effect.
func LoadDictionary() *FixTagLookup {
	dictMux.RLock()
	d := active
	dictMux.RUnlock()
	if d != nil {
		return d
	}

	builtinOnce.Do(func() { builtin = newBuiltinLookup() })
	return builtin
}

func FieldName(tag int) string {
	return LoadDictionary().GetFieldName(tag)
}

func EnumDescription(tag int, val string) string {
	return LoadDictionary().GetEnumDescription(tag, val)
}

// HasTag reports whether tag has a name in the lookup.
func (d *FixTagLookup) HasTag(tag int) bool {
	_, ok := d.tagToName[tag]
	return ok
}

func (d *FixTagLookup) GetFieldName(tag int) string {
	if n, ok := d.tagToName[tag]; ok {
		return n
	}

	return strconv.Itoa(tag)
}

func (d *FixTagLookup) GetEnumDescription(tag int, val string) string {
	if m, ok := d.enumMap[tag]; ok {
		if desc, ok2 := m[val]; ok2 {
			return desc
		}
	}

	return ""
}

func (d *FixTagLookup) GetFieldType(tag int) string {
	return d.fieldTypes[tag]
}

// Tags lists every named tag, ascending.
func (d *FixTagLookup) Tags() []int {
	tags := make([]int, 0, len(d.tagToName))
	for tag := range d.tagToName {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

// EnumCodes lists the enum codes known for tag, sorted.
func (d *FixTagLookup) EnumCodes(tag int) []string {
	return slices.Sorted(maps.Keys(d.enumMap[tag]))
}
