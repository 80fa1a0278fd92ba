//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

// Package history keeps the lines accepted by the line editor and the
// cursor used to walk through them with the arrow keys.
package history

type Direction int

const (
	Back    Direction = iota // toward the oldest entry
	Forward                  // toward the newest entry
)

// A History is an append-only sequence of lines with a navigation cursor.
// The oldest entry has index 0.
type History struct {
	entries []string
	current int
	// set when the cursor rests on the newest entry and the next Back
	// should move instead of recalling the newest line again
	atNewest bool
}

func New() *History {
	return &History{}
}

// Record appends a line and moves the cursor onto it. Empty lines are
// ignored.
func (h *History) Record(line string) {
	if h == nil || line == "" {
		return
	}
	h.entries = append(h.entries, line)
	h.current = len(h.entries) - 1
	h.atNewest = false
}

// Navigate moves the cursor one step and returns the entry under it.
// The first Back after a line was recorded stays on the newest entry.
// ok is false when there is nothing to recall or a Forward move was not
// possible; the caller then keeps what it has.
func (h *History) Navigate(dir Direction) (line string, ok bool) {
	if h == nil || len(h.entries) == 0 {
		return "", false
	}
	newest := len(h.entries) - 1
	switch dir {
	case Back:
		if h.current == newest && !h.atNewest {
			h.atNewest = true
		} else {
			if h.current > 0 {
				h.current--
			}
			h.atNewest = false
		}
		return h.entries[h.current], true
	case Forward:
		if h.current >= newest {
			return h.entries[h.current], false
		}
		h.current++
		h.atNewest = h.current == newest
		return h.entries[h.current], true
	}
	return h.entries[h.current], false
}

// ClearLatch forgets that the cursor was walked onto the newest entry.
// The editor calls it when the user types, deletes or truncates.
func (h *History) ClearLatch() {
	if h != nil {
		h.atNewest = false
	}
}

// Current returns the entry under the cursor.
func (h *History) Current() (string, bool) {
	if h == nil || len(h.entries) == 0 {
		return "", false
	}
	return h.entries[h.current], true
}

func (h *History) Len() int {
	if h == nil {
		return 0
	}
	return len(h.entries)
}

// Entries returns a copy of all lines, oldest first.
func (h *History) Entries() []string {
	if h == nil {
		return nil
	}
	return append([]string(nil), h.entries...)
}

// Destroy drops every entry. The history can be used again afterwards.
func (h *History) Destroy() {
	if h == nil {
		return
	}
	h.entries = nil
	h.current = 0
	h.atNewest = false
}
