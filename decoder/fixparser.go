// fixparser.go
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
	"strconv"
	"strings"

	"github.com/stephenlclarke/fix42/fix"
)

// ParseFix tokenizes a message leniently for display. Tokens that are not
// tag=value pairs with a numeric tag are skipped; nothing is verified.
func ParseFix(msg string) []fix.Field {
	// If there's no SOH delimiter, assume no valid fields
	if !strings.Contains(msg, fix.SOH) {
		return nil
	}

	parts := strings.Split(msg, fix.SOH)
	out := make([]fix.Field, 0, len(parts))

	for _, p := range parts {
		if p == "" {
			continue
		}

		k, v, ok := strings.Cut(p, "=")
		if !ok {
			continue
		}

		tag, err := strconv.Atoi(k)
		if err != nil {
			continue
		}

		out = append(out, fix.Field{Tag: tag, Value: v})
	}

	return out
}
