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
	"time"
)

// TimestampFormat is the UTCTimestamp layout used for SendingTime(52).
const TimestampFormat = "20060102-15:04:05.000"

const timestampSecondsFormat = "20060102-15:04:05"

// now is the clock behind default SendingTime values; tests replace it.
var now = time.Now

// FormatTimestamp renders t in UTC with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

// ParseTimestamp accepts UTCTimestamp values with or without milliseconds.
// A leap second (:60) is folded into the following second.
func ParseTimestamp(s string) (time.Time, error) {
	leap := len(s) >= 17 && s[15:17] == "60"
	if leap {
		s = s[:15] + "59" + s[17:]
	}

	for _, layout := range []string{TimestampFormat, timestampSecondsFormat} {
		if t, err := time.Parse(layout, s); err == nil {
			if leap {
				t = t.Add(time.Second)
			}
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid UTCTimestamp %q", s)
}
