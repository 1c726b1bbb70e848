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
	"fmt"
	"io"
	"maps"
	"strconv"
	"strings"
	"sync"
)

// SensitiveTags are the identifying tags masked by default: counterparties,
// routing IDs and the account.
var SensitiveTags = map[int]string{
	TagAccount:          "Account",
	TagSenderCompID:     "SenderCompID",
	TagSenderSubID:      "SenderSubID",
	TagTargetCompID:     "TargetCompID",
	TagTargetSubID:      "TargetSubID",
	TagOnBehalfOfCompID: "OnBehalfOfCompID",
	TagDeliverToCompID:  "DeliverToCompID",
}

// Obfuscator replaces values of sensitive FIX tags with stable aliases.
// It is safe for concurrent use.
type Obfuscator struct {
	enabled  bool              // global enable/disable flag
	tags     map[int]string    // tag -> alias prefix
	mu       sync.Mutex        // protects aliasMap and counter
	aliasMap map[string]string // "tag=value" -> alias
	counter  map[int]int       // per-tag, for zero-padded suffixes
}

// NewObfuscator constructs an Obfuscator over tags. A nil map selects
// SensitiveTags. When enabled is false every call is a no-op.
func NewObfuscator(tags map[int]string, enabled bool) *Obfuscator {
	if tags == nil {
		tags = SensitiveTags
	}
	cp := make(map[int]string, len(tags))
	maps.Copy(cp, tags)

	return &Obfuscator{
		enabled:  enabled,
		tags:     cp,
		aliasMap: make(map[string]string),
		counter:  make(map[int]int),
	}
}

func (o *Obfuscator) Enabled() bool { return o.enabled }

// alias returns the stable alias for tag=value, or ok=false when the tag is
// not sensitive. First use is logged to stderr if it is non-nil.
func (o *Obfuscator) alias(tag int, value string, stderr io.Writer) (string, bool) {
	name, sensitive := o.tags[tag]
	if !sensitive {
		return "", false
	}

	key := strconv.Itoa(tag) + "=" + value

	o.mu.Lock()
	defer o.mu.Unlock()

	a, exists := o.aliasMap[key]
	if !exists {
		o.counter[tag]++
		a = fmt.Sprintf("%s%04d", name, o.counter[tag])
		o.aliasMap[key] = a

		if stderr != nil {
			fmt.Fprintf(stderr, "first use: tag %d (%s) value [%s] → [%s]\n",
				tag, name, value, a)
		}
	}
	return a, true
}

// Obfuscate returns a copy of m with sensitive values aliased. The copy
// encodes with its own BodyLength and CheckSum, so its wire form stays valid.
func (o *Obfuscator) Obfuscate(m *Message, stderr io.Writer) *Message {
	out := m.Clone()
	if !o.enabled {
		return out
	}

	if a, ok := o.alias(TagSenderCompID, out.header.SenderCompID, stderr); ok {
		out.header.SenderCompID = a
	}
	if a, ok := o.alias(TagTargetCompID, out.header.TargetCompID, stderr); ok {
		out.header.TargetCompID = a
	}
	for tag, value := range m.fields.All() {
		if a, ok := o.alias(tag, value, stderr); ok {
			out.fields.Set(tag, a)
		}
	}
	return out
}

// ObfuscateFields aliases sensitive values in a token list that may not form
// a valid message. Framing fields are passed through untouched.
func (o *Obfuscator) ObfuscateFields(fields []Field, stderr io.Writer) []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	if !o.enabled {
		return out
	}
	for i, f := range out {
		if a, ok := o.alias(f.Tag, f.Value, stderr); ok {
			out[i].Value = a
		}
	}
	return out
}

// ObfuscateLine rewrites one message span. A span that decodes is rebuilt
// through Obfuscate so its trailer is recomputed; anything else has its
// sensitive tokens replaced in place.
func (o *Obfuscator) ObfuscateLine(line string, stderr io.Writer) string {
	if !o.enabled {
		return line
	}
	if m, err := FromWire(line); err == nil {
		return o.Obfuscate(m, stderr).ToWire()
	}

	tokens := strings.Split(line, SOH)
	for i, tok := range tokens {
		k, v, ok := strings.Cut(tok, "=")
		if !ok {
			continue
		}
		tag, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		if a, ok := o.alias(tag, v, stderr); ok {
			tokens[i] = k + "=" + a
		}
	}
	return strings.Join(tokens, SOH)
}
