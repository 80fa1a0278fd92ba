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
package editor

// A Buffer holds the line being edited. Like the fixed array it stands
// in for, a buffer of capacity n holds at most n-1 characters, the last
// slot being reserved for the terminator.
type Buffer struct {
	text     []rune
	capacity int
}

func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{text: make([]rune, 0, capacity-1), capacity: capacity}
}

func (b *Buffer) String() string {
	return string(b.text)
}

// Length returns the number of characters in the buffer.
func (b *Buffer) Length() int {
	return len(b.text)
}

func (b *Buffer) Capacity() int {
	return b.capacity
}

// Full reports whether no more characters fit.
func (b *Buffer) Full() bool {
	return len(b.text) >= b.capacity-1
}

// AppendChar adds c at the end and reports whether there was room for it.
func (b *Buffer) AppendChar(c rune) bool {
	if b.Full() {
		return false
	}
	b.text = append(b.text, c)
	return true
}

// BackspaceChar deletes the last character and returns it, or 0 when the
// buffer is empty.
func (b *Buffer) BackspaceChar() rune {
	if len(b.text) == 0 {
		return 0
	}
	c := b.text[len(b.text)-1]
	b.text = b.text[:len(b.text)-1]
	return c
}

// Clear empties the buffer and returns what it held.
func (b *Buffer) Clear() string {
	s := string(b.text)
	b.text = b.text[:0]
	return s
}

// SetText replaces the contents, dropping whatever does not fit.
func (b *Buffer) SetText(s string) {
	b.text = b.text[:0]
	for _, c := range s {
		if !b.AppendChar(c) {
			break
		}
	}
}
